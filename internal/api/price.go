package api

import (
	"encoding/json"
	"time"

	"github.com/mswatii/cs2-vault/internal/pricing"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"
)

// batchPriceLimit caps how many names a single batch read may ask for.
const batchPriceLimit = 50

// handleGetPrice resolves one price through the three-tier cache. The USD
// figure is display-only; the cache itself always works in the provider's
// currency.
func (h *Handler) handleGetPrice(ctx *fasthttp.RequestCtx, entry *logrus.Entry) {
	marketHashName := string(ctx.QueryArgs().Peek("market_hash_name"))
	if marketHashName == "" {
		writeError(ctx, fasthttp.StatusBadRequest, "market_hash_name is required")
		return
	}

	result, err := h.prices.GetPrice(marketHashName)
	if err != nil {
		entry.WithError(err).Errorf("price lookup failed for %s", marketHashName)
		writeError(ctx, fasthttp.StatusInternalServerError, "failed to fetch price")
		return
	}
	if result == nil {
		writeJSON(ctx, fasthttp.StatusOK, map[string]interface{}{
			"price": nil,
			"error": "item not found on price provider",
		})
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, map[string]interface{}{
		"price":    result.Price,
		"priceUSD": result.Price * pricing.GetCNYtoUSDRate(),
		"isStale":  result.IsStale,
		"source":   result.Source,
	})
}

type priceActionRequest struct {
	Action          string   `json:"action"`
	MarketHashNames []string `json:"marketHashNames"`
}

// handlePriceAction dispatches POST /price: full provider sync, or a
// batch read served from the persistent tier only.
func (h *Handler) handlePriceAction(ctx *fasthttp.RequestCtx, entry *logrus.Entry) {
	var req priceActionRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "invalid request body")
		return
	}

	if req.Action == "sync" {
		written, err := h.prices.SyncAll()
		if err != nil {
			entry.WithError(err).Error("price sync failed")
			writeError(ctx, fasthttp.StatusInternalServerError, "price sync failed")
			return
		}
		writeJSON(ctx, fasthttp.StatusOK, map[string]int{"synced": written})
		return
	}

	if len(req.MarketHashNames) == 0 {
		writeError(ctx, fasthttp.StatusBadRequest, "marketHashNames array is required")
		return
	}

	names := req.MarketHashNames
	if len(names) > batchPriceLimit {
		names = names[:batchPriceLimit]
	}

	records, err := h.db.GetPriceRecords(names)
	if err != nil {
		entry.WithError(err).Error("batch price lookup failed")
		writeError(ctx, fasthttp.StatusInternalServerError, "failed to fetch prices")
		return
	}

	prices := make(map[string]*float64, len(names))
	for _, name := range names {
		if record, ok := records[name]; ok {
			price := record.Price
			prices[name] = &price
		} else {
			prices[name] = nil
		}
	}

	writeJSON(ctx, fasthttp.StatusOK, map[string]interface{}{"prices": prices})
}

// handlePriceStats reports persistent-tier statistics under the configured
// staleness window.
func (h *Handler) handlePriceStats(ctx *fasthttp.RequestCtx, entry *logrus.Entry) {
	stats, err := h.db.GetPriceStats(time.Now().Add(-h.prices.StaleAfter()))
	if err != nil {
		entry.WithError(err).Error("failed to query price stats")
		writeError(ctx, fasthttp.StatusInternalServerError, "failed to fetch price statistics")
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, stats)
}
