package classify

// Static classification data. Kept as plain lists so the categorizer stays a
// pure membership test and new items only ever touch this file.

const (
	CategoryKnife      = "Knife"
	CategoryGloves     = "Gloves"
	CategoryRifle      = "Rifle"
	CategoryPistol     = "Pistol"
	CategorySMG        = "SMG"
	CategoryShotgun    = "Shotgun"
	CategoryMachineGun = "Machine Gun"
	CategoryAgent      = "Agent"
	CategoryOther      = "Other"
)

var knives = []string{
	"Bayonet", "Karambit", "M9 Bayonet", "Butterfly Knife", "Flip Knife",
	"Gut Knife", "Huntsman Knife", "Falchion Knife", "Shadow Daggers",
	"Bowie Knife", "Navaja Knife", "Stiletto Knife", "Talon Knife",
	"Ursus Knife", "Classic Knife", "Paracord Knife", "Survival Knife",
	"Nomad Knife", "Skeleton Knife", "Kukri Knife",
}

var gloves = []string{
	"Sport Gloves", "Driver Gloves", "Hand Wraps", "Moto Gloves",
	"Specialist Gloves", "Hydra Gloves", "Bloodhound Gloves",
	"Broken Fang Gloves",
}

var rifles = []string{
	"AK-47", "M4A4", "M4A1-S", "AWP", "SG 553", "AUG", "FAMAS", "Galil AR",
	"SSG 08", "SCAR-20", "G3SG1",
}

var pistols = []string{
	"Glock-18", "USP-S", "P2000", "P250", "Five-SeveN", "Tec-9", "CZ75-Auto",
	"Dual Berettas", "Desert Eagle", "R8 Revolver",
}

var smgs = []string{"MP9", "MAC-10", "PP-Bizon", "MP7", "UMP-45", "P90", "MP5-SD"}

var shotguns = []string{"Nova", "XM1014", "Sawed-Off", "MAG-7"}

var machineGuns = []string{"M249", "Negev"}

// agentFragments match against the full display name, lowercased. Agents are
// detected before generic categorization because their names never contain
// the weapon separator.
var agentFragments = []string{
	"master agent", "special agent", "elite agent", "operator", "cmdr.",
	"lt. commander", "sergeant", "lieutenant", "officer", "agent ava",
	"vypa", "romanov", "safecracker", "buckshot", "anarchist",
	"professional", "ground rebel", "street soldier", "phoenix",
	"elite crew", "sas", "gign", "fbi", "seal frogman", "swat",
	"nswc seal", "tacp cavalry", "two times", "getaway sally",
	"little kev", "number k", "sir bloody", "chem-haz", "bio-haz",
	"dragomir", "rezan", "maximus", "osiris", "shahmat",
	"'blueberries' buckshot", "chef d'escadron", "chem-haz capitaine",
	"sous-lieutenant medic", "aspirant", "jungle rebel",
}

// collectionPatterns maps skin-name fragments to collections. Best-effort
// only; a miss simply leaves the collection empty.
var collectionPatterns = map[string]string{
	"Asiimov":      "The Phoenix Collection",
	"Dragon Lore":  "The Cobblestone Collection",
	"Howl":         "The Huntsman Collection",
	"Fire Serpent": "The Bravo Collection",
	"Redline":      "The Phoenix Collection",
	"Vulcan":       "The Huntsman Collection",
	"Hyper Beast":  "The Falchion Collection",
	"Neon Rider":   "The Prisma Collection",
	"Printstream":  "The Control Collection",
	"Fade":         "The Assault Collection",
	"Doppler":      "The Chroma Collection",
	"Tiger Tooth":  "The Chroma Collection",
	"Marble Fade":  "The Chroma 2 Collection",
	"Crimson Web":  "The Bravo Collection",
	"Slaughter":    "The Assault Collection",
}

// excludeFragments knock out non-collectible items: containers, currencies,
// tools, cosmetic consumables. Matched against the lowercased display name.
// "sticker |" only excludes standalone stickers, not stickers applied to a
// weapon.
var excludeFragments = []string{
	"case", "container", "key", "sticker |", "graffiti", "music kit",
	"pin", "coin", "medal", "capsule", "package", "pass", "viewer",
	"souvenir package", "gift", "tool", "name tag", "storage unit",
	"stat swap",
}

var validWeaponCategories = map[string]bool{
	CategoryKnife:      true,
	CategoryGloves:     true,
	CategoryRifle:      true,
	CategoryPistol:     true,
	CategorySMG:        true,
	CategoryShotgun:    true,
	CategoryMachineGun: true,
}
