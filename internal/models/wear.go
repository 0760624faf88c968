package models

// The five wear bands.
const (
	WearFactoryNew    = "Factory New"
	WearMinimalWear   = "Minimal Wear"
	WearFieldTested   = "Field-Tested"
	WearWellWorn      = "Well-Worn"
	WearBattleScarred = "Battle-Scarred"
)

// ConditionFromFloat maps a wear float to its condition band. Thresholds are
// the fixed game values; a boundary float belongs to the upper band
// (0.07 is Minimal Wear, not Factory New).
func ConditionFromFloat(floatValue float64) string {
	switch {
	case floatValue < 0.07:
		return WearFactoryNew
	case floatValue < 0.15:
		return WearMinimalWear
	case floatValue < 0.38:
		return WearFieldTested
	case floatValue < 0.45:
		return WearWellWorn
	default:
		return WearBattleScarred
	}
}
