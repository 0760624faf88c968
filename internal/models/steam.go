package models

// SteamInventoryResponse is the raw payload returned by the Steam community
// inventory endpoint (only the fields we consume).
type SteamInventoryResponse struct {
	Success             int                `json:"success"`
	Assets              []SteamAsset       `json:"assets"`
	Descriptions        []SteamDescription `json:"descriptions"`
	TotalInventoryCount int                `json:"total_inventory_count"`
}

// SteamAsset identifies one inventory slot.
type SteamAsset struct {
	AppID      int    `json:"appid"`
	ContextID  string `json:"contextid"`
	AssetID    string `json:"assetid"`
	ClassID    string `json:"classid"`
	InstanceID string `json:"instanceid"`
	Amount     string `json:"amount"`
}

// SteamDescription carries the display metadata for a (classid, instanceid)
// pair. Multiple assets can share one description.
type SteamDescription struct {
	ClassID        string        `json:"classid"`
	InstanceID     string        `json:"instanceid"`
	Name           string        `json:"name"`
	MarketName     string        `json:"market_name"`
	MarketHashName string        `json:"market_hash_name"`
	IconURL        string        `json:"icon_url"`
	IconURLLarge   string        `json:"icon_url_large"`
	Tradable       int           `json:"tradable"`
	Marketable     int           `json:"marketable"`
	Type           string        `json:"type"`
	Tags           []SteamTag    `json:"tags"`
	Actions        []SteamAction `json:"actions"`
}

type SteamTag struct {
	Category              string `json:"category"`
	InternalName          string `json:"internal_name"`
	LocalizedCategoryName string `json:"localized_category_name"`
	LocalizedTagName      string `json:"localized_tag_name"`
	Color                 string `json:"color"`
}

type SteamAction struct {
	Link string `json:"link"`
	Name string `json:"name"`
}

// DescriptionKey matches assets to descriptions.
func DescriptionKey(classID, instanceID string) string {
	return classID + "_" + instanceID
}
