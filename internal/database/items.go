package database

import (
	"context"
	"fmt"

	"github.com/mswatii/cs2-vault/internal/models"
)

// UpsertItem inserts or updates a catalog item keyed by asset_id. Re-saving
// an asset updates it in place, advancing last_seen_at while leaving
// first_seen_at untouched. Returns true when a new row was inserted.
func (db *Database) UpsertItem(item *models.CatalogItem) (bool, error) {
	var inserted bool
	err := db.pool.QueryRow(context.Background(), `
		INSERT INTO items (
			asset_id, class_id, instance_id, name, market_hash_name,
			weapon_type, skin_name, rarity, rarity_color, condition_name,
			float_value, paint_seed, image_url, inspect_link, collection,
			tradable, has_stickers, sticker_count, has_patches, patch_count
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		ON CONFLICT (asset_id)
		DO UPDATE SET
			class_id = $2,
			instance_id = $3,
			name = $4,
			market_hash_name = $5,
			weapon_type = $6,
			skin_name = $7,
			rarity = $8,
			rarity_color = $9,
			condition_name = COALESCE(NULLIF($10, ''), items.condition_name),
			float_value = COALESCE($11, items.float_value),
			paint_seed = COALESCE($12, items.paint_seed),
			image_url = $13,
			inspect_link = $14,
			collection = $15,
			tradable = $16,
			has_stickers = $17,
			sticker_count = $18,
			has_patches = $19,
			patch_count = $20,
			last_seen_at = NOW()
		RETURNING (xmax = 0)
	`,
		item.AssetID, item.ClassID, item.InstanceID, item.Name, item.MarketHashName,
		item.WeaponType, item.SkinName, item.Rarity, item.RarityColor, item.ConditionName,
		item.FloatValue, item.PaintSeed, item.ImageURL, item.InspectLink, item.Collection,
		item.Tradable, item.HasStickers, item.StickerCount, item.HasPatches, item.PatchCount,
	).Scan(&inserted)

	if err != nil {
		return false, fmt.Errorf("error upserting item %s: %w", item.AssetID, err)
	}

	return inserted, nil
}

// ReplaceItemStickers deletes and fully re-inserts the decorations for an
// item. No incremental diffing: the inbound set is authoritative. Each name
// is also added to the global stickers catalog if absent.
func (db *Database) ReplaceItemStickers(assetID string, stickers []models.StickerEntry) error {
	_, err := db.pool.Exec(context.Background(),
		"DELETE FROM item_stickers WHERE item_asset_id = $1", assetID)
	if err != nil {
		return fmt.Errorf("error clearing stickers for item %s: %w", assetID, err)
	}

	for _, sticker := range stickers {
		_, err := db.pool.Exec(context.Background(), `
			INSERT INTO item_stickers (item_asset_id, sticker_name, sticker_url, slot, type)
			VALUES ($1, $2, $3, $4, $5)
		`, assetID, sticker.Name, sticker.IconURL, sticker.Slot, sticker.Type)
		if err != nil {
			return fmt.Errorf("error inserting sticker for item %s: %w", assetID, err)
		}

		_, err = db.pool.Exec(context.Background(), `
			INSERT INTO stickers_catalog (name, image_url, type)
			VALUES ($1, $2, $3)
			ON CONFLICT (name) DO NOTHING
		`, sticker.Name, sticker.IconURL, sticker.Type)
		if err != nil {
			return fmt.Errorf("error updating stickers catalog: %w", err)
		}
	}

	return nil
}

// UpdateItemFloat writes the resolved float, paint seed and derived condition
// for a single asset.
func (db *Database) UpdateItemFloat(assetID string, floatValue float64, paintSeed *int, condition string) error {
	_, err := db.pool.Exec(context.Background(), `
		UPDATE items
		SET float_value = $1, paint_seed = $2, condition_name = $3
		WHERE asset_id = $4
	`, floatValue, paintSeed, condition, assetID)
	if err != nil {
		return fmt.Errorf("error updating float for item %s: %w", assetID, err)
	}
	return nil
}

// ItemsMissingFloat returns persisted items that are eligible for float
// enrichment but don't have one yet: an inspect link is required and the
// category must actually carry a wear value.
func (db *Database) ItemsMissingFloat(limit int, excludedCategories []string) ([]models.CatalogItem, error) {
	rows, err := db.pool.Query(context.Background(), `
		SELECT asset_id, name, market_hash_name, weapon_type, inspect_link
		FROM items
		WHERE float_value IS NULL
		  AND inspect_link <> ''
		  AND NOT (weapon_type = ANY($1))
		ORDER BY last_seen_at DESC
		LIMIT $2
	`, excludedCategories, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying items missing float: %w", err)
	}
	defer rows.Close()

	var items []models.CatalogItem
	for rows.Next() {
		var item models.CatalogItem
		if err := rows.Scan(&item.AssetID, &item.Name, &item.MarketHashName, &item.WeaponType, &item.InspectLink); err != nil {
			return nil, fmt.Errorf("error scanning item row: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// CountItemsMissingFloat reports how many eligible items still lack a float,
// used to tell callers how much catch-up work remains.
func (db *Database) CountItemsMissingFloat(excludedCategories []string) (int, error) {
	var count int
	err := db.pool.QueryRow(context.Background(), `
		SELECT COUNT(*)
		FROM items
		WHERE float_value IS NULL
		  AND inspect_link <> ''
		  AND NOT (weapon_type = ANY($1))
	`, excludedCategories).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting items missing float: %w", err)
	}
	return count, nil
}
