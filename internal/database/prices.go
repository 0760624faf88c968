package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/mswatii/cs2-vault/internal/models"
)

// bulkPriceBatchSize bounds how many upserts go into one pipelined batch
// during a full sync.
const bulkPriceBatchSize = 100

// GetPriceRecord looks up the persisted price for one market hash name.
// Returns (nil, nil) when no row exists.
func (db *Database) GetPriceRecord(marketHashName string) (*models.PriceRecord, error) {
	record := &models.PriceRecord{}
	err := db.pool.QueryRow(context.Background(), `
		SELECT market_hash_name, price, updated_at
		FROM prices WHERE market_hash_name = $1
	`, marketHashName).Scan(&record.MarketHashName, &record.Price, &record.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error querying price for %s: %w", marketHashName, err)
	}
	return record, nil
}

// UpsertPrice writes a price through to the persistent tier, overwriting any
// existing row and refreshing its timestamp.
func (db *Database) UpsertPrice(marketHashName string, price float64) error {
	_, err := db.pool.Exec(context.Background(), `
		INSERT INTO prices (market_hash_name, price, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (market_hash_name)
		DO UPDATE SET price = $2, updated_at = NOW()
	`, marketHashName, price)
	if err != nil {
		return fmt.Errorf("error upserting price for %s: %w", marketHashName, err)
	}
	return nil
}

// GetPriceRecords reads persisted prices for a set of names in one query.
// Names with no row are simply absent from the result.
func (db *Database) GetPriceRecords(marketHashNames []string) (map[string]models.PriceRecord, error) {
	rows, err := db.pool.Query(context.Background(), `
		SELECT market_hash_name, price, updated_at
		FROM prices WHERE market_hash_name = ANY($1)
	`, marketHashNames)
	if err != nil {
		return nil, fmt.Errorf("error querying batch prices: %w", err)
	}
	defer rows.Close()

	records := make(map[string]models.PriceRecord)
	for rows.Next() {
		var record models.PriceRecord
		if err := rows.Scan(&record.MarketHashName, &record.Price, &record.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning price row: %w", err)
		}
		records[record.MarketHashName] = record
	}
	return records, rows.Err()
}

// BulkUpsertPrices writes a full price sync in pipelined batches. Each batch
// is sent as one round trip; a failure mid-sync leaves earlier batches
// committed, which is accepted for advisory price data.
func (db *Database) BulkUpsertPrices(prices map[string]float64) (int, error) {
	written := 0
	batch := &pgx.Batch{}

	flush := func() error {
		if batch.Len() == 0 {
			return nil
		}
		results := db.pool.SendBatch(context.Background(), batch)
		defer results.Close()
		for i := 0; i < batch.Len(); i++ {
			if _, err := results.Exec(); err != nil {
				return fmt.Errorf("error executing price batch: %w", err)
			}
			written++
		}
		batch = &pgx.Batch{}
		return nil
	}

	for name, price := range prices {
		batch.Queue(`
			INSERT INTO prices (market_hash_name, price, updated_at)
			VALUES ($1, $2, NOW())
			ON CONFLICT (market_hash_name)
			DO UPDATE SET price = $2, updated_at = NOW()
		`, name, price)

		if batch.Len() >= bulkPriceBatchSize {
			if err := flush(); err != nil {
				return written, err
			}
		}
	}
	if err := flush(); err != nil {
		return written, err
	}

	return written, nil
}

// PriceStats summarizes the persistent price tier against a staleness window.
type PriceStats struct {
	TotalPriced int        `json:"totalPriced"`
	Fresh       int        `json:"fresh"`
	Stale       int        `json:"stale"`
	LastSyncAt  *time.Time `json:"lastSyncAt"`
}

// GetPriceStats derives tier statistics: rows updated at or after the cutoff
// count as fresh, older rows as stale. The caller supplies the cutoff so the
// clock stays injectable.
func (db *Database) GetPriceStats(cutoff time.Time) (*PriceStats, error) {
	stats := &PriceStats{}

	err := db.pool.QueryRow(context.Background(), `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE updated_at >= $1),
		       COUNT(*) FILTER (WHERE updated_at < $1),
		       MAX(updated_at)
		FROM prices
	`, cutoff).Scan(&stats.TotalPriced, &stats.Fresh, &stats.Stale, &stats.LastSyncAt)
	if err != nil {
		return nil, fmt.Errorf("error querying price stats: %w", err)
	}
	return stats, nil
}
