package incentive

import (
	"errors"
	"testing"
	"time"

	"liquidityEngine/internal/model"
)

func TestComputeIDDeterministic(t *testing.T) {
	key := testKey()
	first, err := ComputeID(key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := ComputeID(key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Fatalf("same key produced different IDs: %s vs %s", first.Hex(), second.Hex())
	}
}

func TestComputeIDSensitiveToEveryField(t *testing.T) {
	base, err := ComputeID(testKey())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	variants := []model.IncentiveKey{
		func() model.IncentiveKey { k := testKey(); k.RewardToken = k.Pool; return k }(),
		func() model.IncentiveKey { k := testKey(); k.Pool = k.RewardToken; return k }(),
		func() model.IncentiveKey { k := testKey(); k.StartTime++; return k }(),
		func() model.IncentiveKey { k := testKey(); k.EndTime++; return k }(),
		func() model.IncentiveKey { k := testKey(); k.Refundee = k.Pool; return k }(),
	}
	for i, variant := range variants {
		id, err := ComputeID(variant)
		if err != nil {
			t.Fatalf("variant %d: unexpected error: %v", i, err)
		}
		if id == base {
			t.Fatalf("variant %d produced the base ID", i)
		}
	}
}

func TestComputeIDRejectsBadAddress(t *testing.T) {
	key := testKey()
	key.Pool = "not-an-address"
	if _, err := ComputeID(key); !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("expected invalid-input error, got %v", err)
	}
}

func TestTimeRemaining(t *testing.T) {
	key := testKey()
	countdown := TimeRemaining(key, time.Unix(int64(key.EndTime)-90061, 0))
	if countdown.Done {
		t.Fatalf("countdown should not be done before end")
	}
	// 90061 seconds is 1 day, 1 hour, 1 minute, 1 second.
	if countdown.Days != 1 || countdown.Hours != 1 || countdown.Minutes != 1 || countdown.Seconds != 1 {
		t.Fatalf("unexpected breakdown: %+v", countdown)
	}

	if got := TimeRemaining(key, time.Unix(int64(key.EndTime), 0)); !got.Done {
		t.Fatalf("countdown should be done at end")
	}
}

func TestTimeUntilStart(t *testing.T) {
	key := testKey()
	countdown := TimeUntilStart(key, time.Unix(int64(key.StartTime)-3661, 0))
	if countdown.Done {
		t.Fatalf("countdown should not be done before start")
	}
	if countdown.Hours != 1 || countdown.Minutes != 1 || countdown.Seconds != 1 {
		t.Fatalf("unexpected breakdown: %+v", countdown)
	}

	if got := TimeUntilStart(key, time.Unix(int64(key.StartTime), 0)); !got.Done {
		t.Fatalf("countdown should be done once started")
	}
}

func TestFormatDuration(t *testing.T) {
	key := model.IncentiveKey{StartTime: 0, EndTime: 30 * 86400}
	if got := FormatDuration(key); got != "30 days" {
		t.Fatalf("expected 30 days, got %q", got)
	}
	key.EndTime = 36 * 3600
	if got := FormatDuration(key); got != "1d 12h" {
		t.Fatalf("expected 1d 12h, got %q", got)
	}
	key.EndTime = 5 * 3600
	if got := FormatDuration(key); got != "5 hours" {
		t.Fatalf("expected 5 hours, got %q", got)
	}
}
