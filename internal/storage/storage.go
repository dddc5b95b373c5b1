package storage

import "liquidityEngine/internal/model"

// QuoteSink defines a sink for resolved quote records.
type QuoteSink interface {
	PutQuotes(quotes []model.QuoteRecord) error
}
