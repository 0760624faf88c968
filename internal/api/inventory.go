package api

import (
	"encoding/json"
	"errors"

	"github.com/mswatii/cs2-vault/internal/classify"
	"github.com/mswatii/cs2-vault/internal/models"
	"github.com/mswatii/cs2-vault/internal/steam"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"
)

type inventoryRequest struct {
	TradeLink string `json:"tradeLink"`
	SteamID   string `json:"steamId"`
}

type inventoryResponse struct {
	Items   []models.CatalogItem `json:"items"`
	Total   int                  `json:"total"`
	SteamID string               `json:"steamId"`
	Source  string               `json:"source"`
}

// handleInventory resolves the caller's identity, fetches the live inventory
// and returns the classified items. Nothing is persisted here; the client
// saves explicitly via POST /items.
func (h *Handler) handleInventory(ctx *fasthttp.RequestCtx, entry *logrus.Entry) {
	var req inventoryRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "invalid request body")
		return
	}

	steamID, err := steam.ResolveSteamID(req.TradeLink, req.SteamID)
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "invalid trade link format")
		return
	}

	if !h.fetcher.ValidateSteamID(steamID) {
		writeError(ctx, fasthttp.StatusBadRequest, "invalid Steam ID")
		return
	}

	entry.Infof("fetching inventory for steam id %s", steamID)

	inv, err := h.fetcher.Fetch(steamID)
	if err != nil {
		if errors.Is(err, steam.ErrPrivateInventory) {
			writeError(ctx, fasthttp.StatusForbidden, "inventory is private, make sure it is set to public")
			return
		}
		writeError(ctx, fasthttp.StatusInternalServerError, "failed to load inventory, try again")
		return
	}

	items := classifyInventory(inv, steamID)
	if len(items) == 0 {
		writeError(ctx, fasthttp.StatusNotFound, "no items found, make sure the inventory is public")
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, inventoryResponse{
		Items:   items,
		Total:   len(items),
		SteamID: steamID,
		Source:  "steam",
	})
}

// classifyInventory joins assets to their descriptions and classifies each
// pair. Assets without a description are dropped.
func classifyInventory(inv *models.SteamInventoryResponse, steamID string) []models.CatalogItem {
	descriptions := make(map[string]models.SteamDescription, len(inv.Descriptions))
	for _, desc := range inv.Descriptions {
		descriptions[models.DescriptionKey(desc.ClassID, desc.InstanceID)] = desc
	}

	var items []models.CatalogItem
	for _, asset := range inv.Assets {
		desc, ok := descriptions[models.DescriptionKey(asset.ClassID, asset.InstanceID)]
		if !ok {
			continue
		}
		items = append(items, classify.Classify(asset, desc, steamID, nil))
	}
	return items
}
