package models

import (
	"time"
)

// CatalogItem is one row in the items table: a single inventory asset after
// classification, optionally enriched with float data.
type CatalogItem struct {
	AssetID        string   `json:"asset_id" db:"asset_id"`
	ClassID        string   `json:"class_id" db:"class_id"`
	InstanceID     string   `json:"instance_id" db:"instance_id"`
	Name           string   `json:"name" db:"name"`
	MarketHashName string   `json:"market_hash_name" db:"market_hash_name"`
	WeaponType     string   `json:"weapon_type" db:"weapon_type"` // Knife, Gloves, Rifle, Pistol, SMG, Shotgun, Machine Gun, Agent, Other
	SkinName       string   `json:"skin_name" db:"skin_name"`     // name with weapon prefix and wear suffix stripped
	Rarity         string   `json:"rarity" db:"rarity"`
	RarityColor    string   `json:"rarity_color" db:"rarity_color"`
	ConditionName  string   `json:"condition_name" db:"condition_name"` // one of the 5 wear bands, empty until known
	FloatValue     *float64 `json:"float_value" db:"float_value"`
	PaintSeed      *int     `json:"paint_seed" db:"paint_seed"`
	ImageURL       string   `json:"image_url" db:"image_url"`
	InspectLink    string   `json:"inspect_link" db:"inspect_link"`
	Collection     string   `json:"collection" db:"collection"` // best-effort, empty if unknown

	Stickers     []StickerEntry `json:"stickers"`
	StickerCount int            `json:"sticker_count" db:"sticker_count"`
	PatchCount   int            `json:"patch_count" db:"patch_count"`
	HasStickers  bool           `json:"has_stickers" db:"has_stickers"`
	HasPatches   bool           `json:"has_patches" db:"has_patches"`

	Tradable    bool      `json:"tradable" db:"tradable"`
	FirstSeenAt time.Time `json:"first_seen_at" db:"first_seen_at"`
	LastSeenAt  time.Time `json:"last_seen_at" db:"last_seen_at"`
}

// DecorationSticker and DecorationPatch tag item_stickers rows. Agents carry
// patches, weapons carry stickers, never both.
const (
	DecorationSticker = "sticker"
	DecorationPatch   = "patch"
)

// StickerEntry is a decoration applied to an item.
type StickerEntry struct {
	Name    string `json:"name" db:"sticker_name"`
	IconURL string `json:"icon_url" db:"sticker_url"`
	Slot    int    `json:"slot" db:"slot"`
	Type    string `json:"type" db:"type"`
}

// StickerCatalogEntry is the global dedup table of known sticker/patch names.
type StickerCatalogEntry struct {
	Name     string `json:"name" db:"name"`
	ImageURL string `json:"image_url" db:"image_url"`
	Type     string `json:"type" db:"type"`
}
