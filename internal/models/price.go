package models

import "time"

// PriceRecord is one row in the prices table, keyed by market hash name.
// Price is in the provider's native currency (CNY for buff).
type PriceRecord struct {
	MarketHashName string    `json:"market_hash_name" db:"market_hash_name"`
	Price          float64   `json:"price" db:"price"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// IsStale reports whether the record is older than the given window at time
// now. Stale records are still usable, just flagged.
func (p PriceRecord) IsStale(now time.Time, window time.Duration) bool {
	return now.Sub(p.UpdatedAt) > window
}
