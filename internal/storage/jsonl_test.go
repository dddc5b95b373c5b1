package storage

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"liquidityEngine/internal/model"
)

func TestPutQuotesAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "quotes.jsonl")
	var sink QuoteSink = NewJsonlStorage(path)

	first := model.QuoteRecord{
		ChainID:     56,
		TokenIn:     "0xAAA",
		TokenOut:    "0xBBB",
		AmountIn:    "1000",
		AmountOut:   "998500",
		VenueID:     "beta",
		FeeTier:     3000,
		RequestedAt: time.Unix(1_700_000_000, 0).UTC(),
	}
	if err := sink.PutQuotes([]model.QuoteRecord{first}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second := first
	second.VenueID = "alpha"
	if err := sink.PutQuotes([]model.QuoteRecord{second}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer file.Close()

	var records []model.QuoteRecord
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var record model.QuoteRecord
		if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
			t.Fatalf("unmarshal line: %v", err)
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scan output: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].VenueID != "beta" || records[1].VenueID != "alpha" {
		t.Fatalf("records out of order: %+v", records)
	}
	if records[0].AmountOut != "998500" {
		t.Fatalf("unexpected amount out: %q", records[0].AmountOut)
	}
}

func TestPutQuotesEmptyBatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quotes.jsonl")
	sink := NewJsonlStorage(path)

	if err := sink.PutQuotes(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("empty batch must not create the file")
	}
}
