package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Database struct {
	pool *pgxpool.Pool
}

// NewDatabase creates a new database connection
func NewDatabase(connString string) (*Database, error) {
	pool, err := pgxpool.New(context.Background(), connString)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	// Test the connection
	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return &Database{pool: pool}, nil
}

// Close closes the database connection
func (db *Database) Close() {
	db.pool.Close()
}

// CreateTables creates the necessary tables if they don't exist
func (db *Database) CreateTables() error {
	// Main catalog table, one row per inventory asset
	_, err := db.pool.Exec(context.Background(), `
		CREATE TABLE IF NOT EXISTS items (
			asset_id VARCHAR(32) PRIMARY KEY,
			class_id VARCHAR(32),
			instance_id VARCHAR(32),
			name TEXT NOT NULL,
			market_hash_name TEXT,
			weapon_type VARCHAR(32),
			skin_name TEXT,
			rarity VARCHAR(64),
			rarity_color VARCHAR(16),
			condition_name VARCHAR(32),
			float_value DOUBLE PRECISION,
			paint_seed INTEGER,
			image_url TEXT,
			inspect_link TEXT,
			collection TEXT,
			tradable BOOLEAN NOT NULL DEFAULT true,
			has_stickers BOOLEAN NOT NULL DEFAULT false,
			sticker_count INTEGER NOT NULL DEFAULT 0,
			has_patches BOOLEAN NOT NULL DEFAULT false,
			patch_count INTEGER NOT NULL DEFAULT 0,
			first_seen_at TIMESTAMP NOT NULL DEFAULT NOW(),
			last_seen_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("error creating items table: %w", err)
	}

	// Decorations applied to items, replaced wholesale on every re-save
	_, err = db.pool.Exec(context.Background(), `
		CREATE TABLE IF NOT EXISTS item_stickers (
			id SERIAL PRIMARY KEY,
			item_asset_id VARCHAR(32) NOT NULL,
			sticker_name TEXT NOT NULL,
			sticker_url TEXT,
			slot INTEGER NOT NULL,
			type VARCHAR(16) NOT NULL DEFAULT 'sticker'
		)
	`)
	if err != nil {
		return fmt.Errorf("error creating item_stickers table: %w", err)
	}

	// Global dedup of known sticker/patch names, insert-if-absent only
	_, err = db.pool.Exec(context.Background(), `
		CREATE TABLE IF NOT EXISTS stickers_catalog (
			name TEXT PRIMARY KEY,
			image_url TEXT,
			type VARCHAR(16)
		)
	`)
	if err != nil {
		return fmt.Errorf("error creating stickers_catalog table: %w", err)
	}

	// Price cache, persistent tier
	_, err = db.pool.Exec(context.Background(), `
		CREATE TABLE IF NOT EXISTS prices (
			market_hash_name TEXT PRIMARY KEY,
			price DECIMAL(15,2) NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("error creating prices table: %w", err)
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_items_rarity ON items(rarity)",
		"CREATE INDEX IF NOT EXISTS idx_items_weapon_type ON items(weapon_type)",
		"CREATE INDEX IF NOT EXISTS idx_items_condition ON items(condition_name)",
		"CREATE INDEX IF NOT EXISTS idx_items_float ON items(float_value)",
		"CREATE INDEX IF NOT EXISTS idx_items_collection ON items(collection)",
		"CREATE INDEX IF NOT EXISTS idx_item_stickers_asset ON item_stickers(item_asset_id)",
		"CREATE INDEX IF NOT EXISTS idx_item_stickers_name ON item_stickers(sticker_name)",
		"CREATE INDEX IF NOT EXISTS idx_item_stickers_type ON item_stickers(type)",
	}
	for _, stmt := range indexes {
		if _, err := db.pool.Exec(context.Background(), stmt); err != nil {
			return fmt.Errorf("error creating index: %w", err)
		}
	}

	return nil
}
