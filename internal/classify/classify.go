// Package classify turns raw Steam asset/description pairs into typed catalog
// items. Classification is total: unparseable input degrades to the Other
// category and is dropped by ShouldPersist, it never errors.
package classify

import (
	"regexp"
	"strings"

	"github.com/mswatii/cs2-vault/internal/models"
)

const (
	iconBaseURL         = "https://community.akamai.steamstatic.com/economy/image/"
	inspectActionMarker = "csgo_econ_action_preview"
)

var wearSuffixPattern = regexp.MustCompile(`(?i)\s*\((Factory New|Minimal Wear|Field-Tested|Well-Worn|Battle-Scarred)\)\s*$`)

// ParseItemName splits a display name into weapon prefix and skin name.
// Names without the separator are whole-prefix items (cases, agents, tools).
// The trailing wear parenthetical is stripped from the skin name.
func ParseItemName(name string) (weaponType, skinName string) {
	if !strings.Contains(name, "|") {
		return name, ""
	}

	parts := strings.SplitN(name, "|", 2)
	weaponType = strings.TrimSpace(parts[0])
	skinName = strings.TrimSpace(wearSuffixPattern.ReplaceAllString(parts[1], ""))
	return weaponType, skinName
}

// ConditionFromName extracts the wear band from a display name's trailing
// parenthetical. Empty when the name carries none. Used to seed the condition
// before a float resolves; a resolved float recomputes it from the value.
func ConditionFromName(name string) string {
	match := wearSuffixPattern.FindStringSubmatch(name)
	if match == nil {
		return ""
	}
	return match[1]
}

// IsAgent reports whether the full display name matches a known agent-name
// fragment.
func IsAgent(name string) bool {
	lower := strings.ToLower(name)
	for _, fragment := range agentFragments {
		if strings.Contains(lower, fragment) {
			return true
		}
	}
	return false
}

// Categorize resolves the weapon category for an item. Agents are detected
// from the full name before the weapon prefix is consulted; knives and
// gloves match by substring since their prefixes carry StatTrak and star
// markers, everything else matches exactly.
func Categorize(fullName, weaponPrefix string) string {
	if IsAgent(fullName) {
		return CategoryAgent
	}

	lowerPrefix := strings.ToLower(weaponPrefix)
	for _, k := range knives {
		if strings.Contains(lowerPrefix, strings.ToLower(k)) {
			return CategoryKnife
		}
	}
	for _, g := range gloves {
		if strings.Contains(lowerPrefix, strings.ToLower(g)) {
			return CategoryGloves
		}
	}

	switch {
	case containsExact(rifles, weaponPrefix):
		return CategoryRifle
	case containsExact(pistols, weaponPrefix):
		return CategoryPistol
	case containsExact(smgs, weaponPrefix):
		return CategorySMG
	case containsExact(shotguns, weaponPrefix):
		return CategoryShotgun
	case containsExact(machineGuns, weaponPrefix):
		return CategoryMachineGun
	}
	return CategoryOther
}

// ExtractCollection infers the collection from skin-name fragments. Empty
// when nothing matches; the mapping is approximate, not authoritative.
func ExtractCollection(name, marketHashName string) string {
	for fragment, collection := range collectionPatterns {
		if strings.Contains(name, fragment) || strings.Contains(marketHashName, fragment) {
			return collection
		}
	}
	return ""
}

// InspectLink synthesizes the owner/asset-bound inspect link from the
// description's action entries. Empty when the item has no inspect action.
func InspectLink(actions []models.SteamAction, ownerID, assetID string) string {
	for _, action := range actions {
		if strings.Contains(action.Link, inspectActionMarker) {
			link := strings.Replace(action.Link, "%owner_steamid%", ownerID, 1)
			return strings.Replace(link, "%assetid%", assetID, 1)
		}
	}
	return ""
}

// Classify builds a catalog item from an asset/description pair. Decorations
// are split by the parent category alone: agents carry only patches, weapons
// only stickers.
func Classify(asset models.SteamAsset, desc models.SteamDescription, ownerID string, decorations []models.StickerEntry) models.CatalogItem {
	weaponPrefix, skinName := ParseItemName(desc.Name)
	category := Categorize(desc.Name, weaponPrefix)

	item := models.CatalogItem{
		AssetID:        asset.AssetID,
		ClassID:        asset.ClassID,
		InstanceID:     asset.InstanceID,
		Name:           desc.Name,
		MarketHashName: desc.MarketHashName,
		WeaponType:     category,
		SkinName:       skinName,
		ConditionName:  ConditionFromName(desc.Name),
		InspectLink:    InspectLink(desc.Actions, ownerID, asset.AssetID),
		Collection:     ExtractCollection(desc.Name, marketHashOrName(desc)),
		Tradable:       desc.Tradable == 1,
	}

	if desc.IconURL != "" {
		item.ImageURL = iconBaseURL + desc.IconURL
	}

	for _, tag := range desc.Tags {
		if tag.Category == "Rarity" || tag.Category == "Quality" {
			item.Rarity = tag.LocalizedTagName
			if tag.Color != "" {
				item.RarityColor = "#" + tag.Color
			}
			break
		}
	}

	decorationType := models.DecorationSticker
	if category == CategoryAgent {
		decorationType = models.DecorationPatch
	}
	for _, d := range decorations {
		d.Type = decorationType
		item.Stickers = append(item.Stickers, d)
	}
	if category == CategoryAgent {
		item.PatchCount = len(item.Stickers)
	} else {
		item.StickerCount = len(item.Stickers)
	}
	item.HasStickers = item.StickerCount > 0
	item.HasPatches = item.PatchCount > 0

	return item
}

// ShouldPersist decides whether a classified item belongs in the catalog.
// Agents need at least one patch; weapon skins need the name separator and a
// valid category; knives and gloves always persist; everything on the
// exclusion list is dropped.
func ShouldPersist(item models.CatalogItem) bool {
	lower := strings.ToLower(item.Name)

	// Standalone patches are not agent patches.
	if strings.Contains(lower, "patch |") && item.WeaponType != CategoryAgent {
		return false
	}

	for _, fragment := range excludeFragments {
		if strings.Contains(lower, fragment) {
			return false
		}
	}

	if item.WeaponType == CategoryAgent {
		return item.PatchCount > 0
	}

	if strings.Contains(item.Name, "|") && validWeaponCategories[item.WeaponType] {
		return true
	}

	return item.WeaponType == CategoryKnife || item.WeaponType == CategoryGloves
}

func containsExact(list []string, s string) bool {
	for _, entry := range list {
		if entry == s {
			return true
		}
	}
	return false
}

func marketHashOrName(desc models.SteamDescription) string {
	if desc.MarketHashName != "" {
		return desc.MarketHashName
	}
	return desc.Name
}
