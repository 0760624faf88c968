package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/mswatii/cs2-vault/internal/models"
)

// ItemFilter holds the optional, AND-combined predicates of the catalog
// query contract plus sort and pagination parameters.
type ItemFilter struct {
	Rarity      string
	WeaponType  string
	Condition   string
	FloatMin    *float64
	FloatMax    *float64
	Search      string
	Collection  string
	HasStickers bool
	HasPatches  bool
	StickerName string
	PatchName   string

	Sort  string
	Page  int
	Limit int
}

// ItemPage is one page of catalog query results.
type ItemPage struct {
	Items      []models.CatalogItem `json:"items"`
	Page       int                  `json:"page"`
	Limit      int                  `json:"limit"`
	Total      int                  `json:"total"`
	TotalPages int                  `json:"totalPages"`
}

const defaultPageSize = 50

// rarityRankSQL ranks rarity labels for sorting. Mirrors models.RarityRank
// exactly, including the keyword fallback for unrecognized labels.
const rarityRankSQL = `CASE items.rarity
	WHEN 'Contraband' THEN 10
	WHEN 'Extraordinary' THEN 9
	WHEN 'Covert' THEN 8
	WHEN 'Exotic' THEN 8
	WHEN 'Classified' THEN 7
	WHEN 'Remarkable' THEN 7
	WHEN 'Restricted' THEN 6
	WHEN 'Mil-Spec Grade' THEN 5
	WHEN 'Mil-Spec' THEN 5
	WHEN 'High Grade' THEN 5
	WHEN 'Industrial Grade' THEN 4
	WHEN 'Consumer Grade' THEN 3
	WHEN 'Base Grade' THEN 3
	ELSE CASE
		WHEN LOWER(items.rarity) LIKE '%contraband%' THEN 10
		WHEN LOWER(items.rarity) LIKE '%covert%' OR LOWER(items.rarity) LIKE '%extraordinary%' THEN 8
		WHEN LOWER(items.rarity) LIKE '%classified%' OR LOWER(items.rarity) LIKE '%exotic%' THEN 7
		WHEN LOWER(items.rarity) LIKE '%restricted%' OR LOWER(items.rarity) LIKE '%remarkable%' THEN 6
		WHEN LOWER(items.rarity) LIKE '%mil-spec%' OR LOWER(items.rarity) LIKE '%high grade%' THEN 5
		WHEN LOWER(items.rarity) LIKE '%industrial%' THEN 4
		WHEN LOWER(items.rarity) LIKE '%consumer%' OR LOWER(items.rarity) LIKE '%base grade%' THEN 3
		ELSE 0
	END
END`

var sortClauses = map[string]string{
	"rarity_desc":   rarityRankSQL + " DESC",
	"rarity_asc":    rarityRankSQL + " ASC",
	"float_asc":     "items.float_value ASC",
	"float_desc":    "items.float_value DESC",
	"name_asc":      "items.name ASC",
	"name_desc":     "items.name DESC",
	"type_asc":      "items.weapon_type ASC",
	"type_desc":     "items.weapon_type DESC",
	"newest":        "items.last_seen_at DESC",
	"oldest":        "items.first_seen_at ASC",
	"stickers_desc": "items.sticker_count DESC",
	"stickers_asc":  "items.sticker_count ASC",
}

// buildItemsQuery turns a filter into a WHERE clause and its arguments. Only
// parametrized predicates, never interpolated values. Decoration filters
// match through a subquery on item_stickers, keeping the outer query
// DISTINCT-free so expression ORDER BYs like the rarity rank stay legal.
func buildItemsQuery(f ItemFilter) (where string, args []interface{}) {
	var conditions []string
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Rarity != "" {
		conditions = append(conditions, "items.rarity = "+arg(f.Rarity))
	}
	if f.WeaponType != "" {
		conditions = append(conditions, "items.weapon_type = "+arg(f.WeaponType))
	}
	if f.Condition != "" {
		conditions = append(conditions, "items.condition_name = "+arg(f.Condition))
	}
	if f.FloatMin != nil {
		conditions = append(conditions, "items.float_value >= "+arg(*f.FloatMin))
	}
	if f.FloatMax != nil {
		conditions = append(conditions, "items.float_value <= "+arg(*f.FloatMax))
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		conditions = append(conditions,
			"(items.name ILIKE "+arg(pattern)+" OR items.skin_name ILIKE "+arg(pattern)+")")
	}
	if f.Collection != "" {
		conditions = append(conditions, "items.collection = "+arg(f.Collection))
	}
	if f.HasStickers {
		conditions = append(conditions, "items.has_stickers = true")
	}
	if f.HasPatches {
		conditions = append(conditions, "items.has_patches = true")
	}
	if f.StickerName != "" {
		conditions = append(conditions,
			"items.asset_id IN (SELECT item_asset_id FROM item_stickers WHERE sticker_name ILIKE "+
				arg("%"+f.StickerName+"%")+" AND type = 'sticker')")
	}
	if f.PatchName != "" {
		conditions = append(conditions,
			"items.asset_id IN (SELECT item_asset_id FROM item_stickers WHERE sticker_name ILIKE "+
				arg("%"+f.PatchName+"%")+" AND type = 'patch')")
	}

	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}
	return where, args
}

func orderClause(sort string) string {
	if clause, ok := sortClauses[sort]; ok {
		return clause
	}
	return sortClauses["rarity_desc"]
}

const itemColumns = `items.asset_id, items.class_id, items.instance_id, items.name,
	items.market_hash_name, items.weapon_type, items.skin_name, items.rarity,
	items.rarity_color, COALESCE(items.condition_name, ''), items.float_value,
	items.paint_seed, items.image_url, items.inspect_link, COALESCE(items.collection, ''),
	items.tradable, items.has_stickers, items.sticker_count, items.has_patches,
	items.patch_count, items.first_seen_at, items.last_seen_at`

// listItemsSQL builds the count and page queries for a normalized filter.
// Split out of ListItems so the generated SQL is checkable without a
// database. The page query's final two placeholders are limit and offset.
func listItemsSQL(f ItemFilter) (countSQL, pageSQL string, args []interface{}) {
	where, args := buildItemsQuery(f)

	countSQL = fmt.Sprintf("SELECT COUNT(*) FROM items %s", where)
	pageSQL = fmt.Sprintf("SELECT %s FROM items %s ORDER BY %s LIMIT $%d OFFSET $%d",
		itemColumns, where, orderClause(f.Sort), len(args)+1, len(args)+2)
	args = append(args, f.Limit, (f.Page-1)*f.Limit)
	return countSQL, pageSQL, args
}

// ListItems runs the catalog query contract: filter, sort, paginate. Pages
// are 1-indexed; decorations for the returned page are loaded in one extra
// query.
func (db *Database) ListItems(f ItemFilter) (*ItemPage, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = defaultPageSize
	}

	countSQL, pageSQL, args := listItemsSQL(f)

	var total int
	if err := db.pool.QueryRow(context.Background(), countSQL, args[:len(args)-2]...).Scan(&total); err != nil {
		return nil, fmt.Errorf("error counting items: %w", err)
	}

	rows, err := db.pool.Query(context.Background(), pageSQL, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying items: %w", err)
	}
	defer rows.Close()

	var items []models.CatalogItem
	for rows.Next() {
		var item models.CatalogItem
		err := rows.Scan(
			&item.AssetID, &item.ClassID, &item.InstanceID, &item.Name,
			&item.MarketHashName, &item.WeaponType, &item.SkinName, &item.Rarity,
			&item.RarityColor, &item.ConditionName, &item.FloatValue,
			&item.PaintSeed, &item.ImageURL, &item.InspectLink, &item.Collection,
			&item.Tradable, &item.HasStickers, &item.StickerCount, &item.HasPatches,
			&item.PatchCount, &item.FirstSeenAt, &item.LastSeenAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning item row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating item rows: %w", err)
	}

	if err := db.attachStickers(items); err != nil {
		return nil, err
	}

	return &ItemPage{
		Items:      items,
		Page:       f.Page,
		Limit:      f.Limit,
		Total:      total,
		TotalPages: totalPages(total, f.Limit),
	}, nil
}

// totalPages is ceil(total/limit).
func totalPages(total, limit int) int {
	return (total + limit - 1) / limit
}

func (db *Database) attachStickers(items []models.CatalogItem) error {
	if len(items) == 0 {
		return nil
	}

	assetIDs := make([]string, len(items))
	index := make(map[string]*models.CatalogItem, len(items))
	for i := range items {
		assetIDs[i] = items[i].AssetID
		index[items[i].AssetID] = &items[i]
	}

	rows, err := db.pool.Query(context.Background(), `
		SELECT item_asset_id, sticker_name, COALESCE(sticker_url, ''), slot, type
		FROM item_stickers
		WHERE item_asset_id = ANY($1)
		ORDER BY slot
	`, assetIDs)
	if err != nil {
		return fmt.Errorf("error querying item stickers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var assetID string
		var sticker models.StickerEntry
		if err := rows.Scan(&assetID, &sticker.Name, &sticker.IconURL, &sticker.Slot, &sticker.Type); err != nil {
			return fmt.Errorf("error scanning sticker row: %w", err)
		}
		if item, ok := index[assetID]; ok {
			item.Stickers = append(item.Stickers, sticker)
		}
	}
	return rows.Err()
}

// CatalogStats aggregates counts over the whole catalog.
type CatalogStats struct {
	Total          int            `json:"total"`
	UniqueItems    int            `json:"uniqueItems"`
	ItemsWithFloat int            `json:"itemsWithFloat"`
	ByRarity       map[string]int `json:"byRarity"`
	ByWeaponType   map[string]int `json:"byWeaponType"`
	ByCondition    map[string]int `json:"byCondition"`
}

// GetCatalogStats computes the aggregate statistics for the stats endpoint.
func (db *Database) GetCatalogStats() (*CatalogStats, error) {
	stats := &CatalogStats{
		ByRarity:     map[string]int{},
		ByWeaponType: map[string]int{},
		ByCondition:  map[string]int{},
	}

	err := db.pool.QueryRow(context.Background(), `
		SELECT COUNT(*),
		       COUNT(DISTINCT name),
		       COUNT(*) FILTER (WHERE float_value IS NOT NULL)
		FROM items
	`).Scan(&stats.Total, &stats.UniqueItems, &stats.ItemsWithFloat)
	if err != nil {
		return nil, fmt.Errorf("error querying catalog totals: %w", err)
	}

	groupings := []struct {
		column string
		dest   map[string]int
	}{
		{"rarity", stats.ByRarity},
		{"weapon_type", stats.ByWeaponType},
		{"condition_name", stats.ByCondition},
	}
	for _, g := range groupings {
		sql := fmt.Sprintf(`
			SELECT %s, COUNT(*) FROM items
			WHERE %s IS NOT NULL AND %s <> ''
			GROUP BY %s ORDER BY COUNT(*) DESC
		`, g.column, g.column, g.column, g.column)
		rows, err := db.pool.Query(context.Background(), sql)
		if err != nil {
			return nil, fmt.Errorf("error querying %s stats: %w", g.column, err)
		}
		for rows.Next() {
			var label string
			var count int
			if err := rows.Scan(&label, &count); err != nil {
				rows.Close()
				return nil, fmt.Errorf("error scanning %s stats: %w", g.column, err)
			}
			g.dest[label] = count
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, fmt.Errorf("error iterating %s stats: %w", g.column, err)
		}
		rows.Close()
	}

	return stats, nil
}

// DistinctStickers lists known sticker/patch names for autocomplete, capped.
func (db *Database) DistinctStickers() ([]models.StickerCatalogEntry, error) {
	rows, err := db.pool.Query(context.Background(), `
		SELECT name, COALESCE(image_url, ''), COALESCE(type, 'sticker')
		FROM stickers_catalog ORDER BY name LIMIT 500
	`)
	if err != nil {
		return nil, fmt.Errorf("error querying stickers catalog: %w", err)
	}
	defer rows.Close()

	var entries []models.StickerCatalogEntry
	for rows.Next() {
		var entry models.StickerCatalogEntry
		if err := rows.Scan(&entry.Name, &entry.ImageURL, &entry.Type); err != nil {
			return nil, fmt.Errorf("error scanning catalog entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// DistinctCollections lists observed collections for autocomplete.
func (db *Database) DistinctCollections() ([]string, error) {
	rows, err := db.pool.Query(context.Background(), `
		SELECT DISTINCT collection FROM items
		WHERE collection IS NOT NULL AND collection <> ''
		ORDER BY collection
	`)
	if err != nil {
		return nil, fmt.Errorf("error querying collections: %w", err)
	}
	defer rows.Close()

	var collections []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("error scanning collection: %w", err)
		}
		collections = append(collections, c)
	}
	return collections, rows.Err()
}
