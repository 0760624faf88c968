package models

import "strings"

// rarityRank orders rarities for sorting. Weapon, sticker and agent rarity
// scales share numeric tiers on purpose: Covert and Extraordinary both render
// as the red/gold tier, Mil-Spec and High Grade as the blue tier.
var rarityRank = map[string]int{
	"Contraband": 10,

	"Extraordinary": 9,
	"Covert":        8,

	"Classified":     7,
	"Restricted":     6,
	"Mil-Spec Grade": 5,
	"Mil-Spec":       5,

	"Industrial Grade": 4,
	"Consumer Grade":   3,

	"Exotic":     8,
	"Remarkable": 7,
	"High Grade": 5,
	"Base Grade": 3,
}

// RarityRank returns the sort rank for a rarity label, falling back to
// keyword matching for localized or otherwise unrecognized labels. Unknown
// rarities rank 0.
func RarityRank(rarity string) int {
	if rarity == "" {
		return 0
	}
	if rank, ok := rarityRank[rarity]; ok {
		return rank
	}

	lower := strings.ToLower(rarity)
	switch {
	case strings.Contains(lower, "contraband"):
		return 10
	case strings.Contains(lower, "covert"), strings.Contains(lower, "extraordinary"):
		return 8
	case strings.Contains(lower, "classified"), strings.Contains(lower, "exotic"):
		return 7
	case strings.Contains(lower, "restricted"), strings.Contains(lower, "remarkable"):
		return 6
	case strings.Contains(lower, "mil-spec"), strings.Contains(lower, "high grade"):
		return 5
	case strings.Contains(lower, "industrial"):
		return 4
	case strings.Contains(lower, "consumer"), strings.Contains(lower, "base grade"):
		return 3
	}
	return 0
}

var rarityColors = map[string]string{
	"Consumer Grade":   "#b0c3d9",
	"Industrial Grade": "#5e98d9",
	"Mil-Spec Grade":   "#4b69ff",
	"Restricted":       "#8847ff",
	"Classified":       "#d32ce6",
	"Covert":           "#eb4b4b",
	"Contraband":       "#e4ae39",
	"Base Grade":       "#b0c3d9",
	"High Grade":       "#4b69ff",
	"Remarkable":       "#8847ff",
	"Exotic":           "#d32ce6",
	"Extraordinary":    "#eb4b4b",
}

// RarityColor returns the display hex color for a rarity; unknown rarities
// get the consumer-grade gray.
func RarityColor(rarity string) string {
	if c, ok := rarityColors[rarity]; ok {
		return c
	}
	return "#b0c3d9"
}
