package steam

import (
	"errors"
	"regexp"
	"strconv"
)

// steamID64Base converts a trade-link partner id (32-bit, account-relative)
// into the 64-bit SteamID space.
const steamID64Base = uint64(76561197960265728)

var ErrInvalidTradeLink = errors.New("invalid trade link format")

var partnerPattern = regexp.MustCompile(`partner=(\d+)`)

// ResolveSteamID derives a SteamID64 from a trade link or a raw id. A raw id
// wins if both are supplied, matching how the inventory endpoint treats its
// input. Fails only when neither yields an id.
func ResolveSteamID(tradeLink, rawSteamID string) (string, error) {
	if rawSteamID != "" {
		return rawSteamID, nil
	}
	if tradeLink == "" {
		return "", ErrInvalidTradeLink
	}

	match := partnerPattern.FindStringSubmatch(tradeLink)
	if match == nil {
		return "", ErrInvalidTradeLink
	}

	partnerID, err := strconv.ParseUint(match[1], 10, 32)
	if err != nil {
		return "", ErrInvalidTradeLink
	}

	return strconv.FormatUint(steamID64Base+partnerID, 10), nil
}
