package api

import (
	"encoding/json"
	"strconv"

	"github.com/mswatii/cs2-vault/internal/classify"
	"github.com/mswatii/cs2-vault/internal/database"
	"github.com/mswatii/cs2-vault/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"
)

// handleListItems runs the catalog query contract from query parameters.
func (h *Handler) handleListItems(ctx *fasthttp.RequestCtx, entry *logrus.Entry) {
	args := ctx.QueryArgs()

	filter := database.ItemFilter{
		Rarity:      string(args.Peek("rarity")),
		WeaponType:  string(args.Peek("weapon_type")),
		Condition:   string(args.Peek("condition")),
		Search:      string(args.Peek("search")),
		Collection:  string(args.Peek("collection")),
		HasStickers: string(args.Peek("has_stickers")) == "true",
		HasPatches:  string(args.Peek("has_patches")) == "true",
		StickerName: string(args.Peek("sticker")),
		PatchName:   string(args.Peek("patch")),
		Sort:        string(args.Peek("sort")),
		Page:        1,
		Limit:       0,
	}

	if raw := string(args.Peek("float_min")); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			filter.FloatMin = &v
		}
	}
	if raw := string(args.Peek("float_max")); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			filter.FloatMax = &v
		}
	}
	if raw := string(args.Peek("page")); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			filter.Page = v
		}
	}
	if raw := string(args.Peek("limit")); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			filter.Limit = v
		}
	}

	page, err := h.db.ListItems(filter)
	if err != nil {
		entry.WithError(err).Error("failed to query items")
		writeError(ctx, fasthttp.StatusInternalServerError, "failed to fetch items")
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, page)
}

// saveItemWire is the inbound shape for POST /items save requests. Stickers
// arrive pre-parsed; inspect links are already owner/asset bound.
type saveItemWire struct {
	ID             string                `json:"id"`
	ClassID        string                `json:"classid"`
	InstanceID     string                `json:"instanceid"`
	Name           string                `json:"name"`
	MarketHashName string                `json:"market_hash_name"`
	IconURL        string                `json:"icon_url"`
	InspectLink    string                `json:"inspect_link"`
	Rarity         string                `json:"rarity"`
	RarityColor    string                `json:"rarity_color"`
	Tradable       bool                  `json:"tradable"`
	FloatValue     *float64              `json:"float_value"`
	PaintSeed      *int                  `json:"paint_seed"`
	Stickers       []models.StickerEntry `json:"stickers"`
}

type itemsActionRequest struct {
	Action string         `json:"action"`
	Items  []saveItemWire `json:"items"`
}

// handleItemsAction dispatches the POST /items actions: save, plus the
// distinct-value lookups the UI autocompletes from.
func (h *Handler) handleItemsAction(ctx *fasthttp.RequestCtx, entry *logrus.Entry) {
	var req itemsActionRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "invalid request body")
		return
	}

	switch req.Action {
	case "save":
		h.handleSaveItems(ctx, entry, req.Items)
	case "get_stickers":
		stickers, err := h.db.DistinctStickers()
		if err != nil {
			entry.WithError(err).Error("failed to query stickers catalog")
			writeError(ctx, fasthttp.StatusInternalServerError, "failed to fetch stickers")
			return
		}
		writeJSON(ctx, fasthttp.StatusOK, map[string]interface{}{"stickers": stickers})
	case "get_collections":
		collections, err := h.db.DistinctCollections()
		if err != nil {
			entry.WithError(err).Error("failed to query collections")
			writeError(ctx, fasthttp.StatusInternalServerError, "failed to fetch collections")
			return
		}
		writeJSON(ctx, fasthttp.StatusOK, map[string]interface{}{"collections": collections})
	default:
		writeError(ctx, fasthttp.StatusBadRequest, "unknown action")
	}
}

type saveItemsResponse struct {
	Saved   int `json:"saved"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
	Total   int `json:"total"`
}

// handleSaveItems classifies each inbound item and persists the ones that
// pass the catalog filter. Duplicate assets become in-place updates and are
// counted separately, never surfaced as errors.
func (h *Handler) handleSaveItems(ctx *fasthttp.RequestCtx, entry *logrus.Entry, wires []saveItemWire) {
	if wires == nil {
		writeError(ctx, fasthttp.StatusBadRequest, "invalid items array")
		return
	}

	result := saveItemsResponse{Total: len(wires)}
	var enrich []models.CatalogItem

	for _, wire := range wires {
		item := classifyWireItem(wire)

		if !classify.ShouldPersist(item) {
			result.Skipped++
			continue
		}

		inserted, err := h.db.UpsertItem(&item)
		if err != nil {
			entry.WithError(err).Warnf("failed to save item %s", item.AssetID)
			result.Skipped++
			continue
		}
		if inserted {
			result.Saved++
		} else {
			result.Updated++
		}

		if len(item.Stickers) > 0 {
			if err := h.db.ReplaceItemStickers(item.AssetID, item.Stickers); err != nil {
				entry.WithError(err).Warnf("failed to save stickers for item %s", item.AssetID)
			}
		}

		if item.FloatValue == nil && item.InspectLink != "" {
			enrich = append(enrich, item)
		}
	}

	// Saved rows without a float are enriched in the background; resolved
	// floats reach the catalog through the service's own write path.
	if len(enrich) > 0 {
		go h.floats.EnrichItems(enrich)
	}

	writeJSON(ctx, fasthttp.StatusOK, result)
}

// classifyWireItem rebuilds a catalog item from the save payload. The wire
// shape carries fields the classifier can't derive (inspect link, float),
// which are applied on top of the classification.
func classifyWireItem(wire saveItemWire) models.CatalogItem {
	asset := models.SteamAsset{
		AssetID:    wire.ID,
		ClassID:    wire.ClassID,
		InstanceID: wire.InstanceID,
	}
	desc := models.SteamDescription{
		ClassID:        wire.ClassID,
		InstanceID:     wire.InstanceID,
		Name:           wire.Name,
		MarketHashName: wire.MarketHashName,
		Tradable:       0,
	}
	if wire.Tradable {
		desc.Tradable = 1
	}

	item := classify.Classify(asset, desc, "", wire.Stickers)

	item.ImageURL = wire.IconURL
	item.InspectLink = wire.InspectLink
	if wire.Rarity != "" {
		item.Rarity = wire.Rarity
		item.RarityColor = wire.RarityColor
		if item.RarityColor == "" {
			item.RarityColor = models.RarityColor(wire.Rarity)
		}
	}
	if wire.FloatValue != nil {
		item.FloatValue = wire.FloatValue
		item.PaintSeed = wire.PaintSeed
		item.ConditionName = models.ConditionFromFloat(*wire.FloatValue)
	}
	return item
}

// handleItemStats serves the aggregate catalog statistics.
func (h *Handler) handleItemStats(ctx *fasthttp.RequestCtx, entry *logrus.Entry) {
	stats, err := h.db.GetCatalogStats()
	if err != nil {
		entry.WithError(err).Error("failed to query catalog stats")
		writeError(ctx, fasthttp.StatusInternalServerError, "failed to fetch statistics")
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, stats)
}
