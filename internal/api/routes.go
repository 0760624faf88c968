package api

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/mswatii/cs2-vault/internal/database"
	"github.com/mswatii/cs2-vault/internal/floatsvc"
	"github.com/mswatii/cs2-vault/internal/logger"
	"github.com/mswatii/cs2-vault/internal/models"
	"github.com/mswatii/cs2-vault/internal/pricing"
	"github.com/mswatii/cs2-vault/internal/steam"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"
)

// catalogStore is the persistence surface the handlers touch. Satisfied by
// *database.Database; an interface so handlers are testable without a pool.
type catalogStore interface {
	UpsertItem(item *models.CatalogItem) (bool, error)
	ReplaceItemStickers(assetID string, stickers []models.StickerEntry) error
	UpdateItemFloat(assetID string, floatValue float64, paintSeed *int, condition string) error
	ListItems(f database.ItemFilter) (*database.ItemPage, error)
	GetCatalogStats() (*database.CatalogStats, error)
	DistinctStickers() ([]models.StickerCatalogEntry, error)
	DistinctCollections() ([]string, error)
	GetPriceRecords(marketHashNames []string) (map[string]models.PriceRecord, error)
	GetPriceStats(cutoff time.Time) (*database.PriceStats, error)
}

// floatResolver is the float-service surface. Satisfied by *floatsvc.Service.
type floatResolver interface {
	Resolve(inspectLink string) *floatsvc.FloatInfo
	EnrichItems(items []models.CatalogItem) int
	CatchUp() (*floatsvc.CatchUpResult, error)
}

// Handler represents the API handler
type Handler struct {
	db      catalogStore
	fetcher *steam.Fetcher
	floats  floatResolver
	prices  *pricing.Cache
}

// NewHandler creates a new API handler
func NewHandler(db *database.Database, fetcher *steam.Fetcher, floats *floatsvc.Service, prices *pricing.Cache) *Handler {
	return &Handler{
		db:      db,
		fetcher: fetcher,
		floats:  floats,
		prices:  prices,
	}
}

var apiLogger = logger.WithContext("api")

// HandleRequest routes every inbound request.
func (h *Handler) HandleRequest(ctx *fasthttp.RequestCtx) {
	path := string(ctx.Path())
	method := string(ctx.Method())

	entry := apiLogger.WithFields(logrus.Fields{
		"request_id": uuid.NewString(),
		"method":     method,
		"path":       path,
	})
	entry.Debug("handling request")

	switch {
	case path == "/api/health":
		h.handleHealth(ctx)
	case path == "/inventory" && method == fasthttp.MethodPost:
		h.handleInventory(ctx, entry)
	case path == "/float" && method == fasthttp.MethodPost:
		h.handleFloat(ctx, entry)
	case path == "/items" && method == fasthttp.MethodGet:
		h.handleListItems(ctx, entry)
	case path == "/items" && method == fasthttp.MethodPost:
		h.handleItemsAction(ctx, entry)
	case path == "/items/stats" && method == fasthttp.MethodGet:
		h.handleItemStats(ctx, entry)
	case path == "/items/update-float" && method == fasthttp.MethodPost:
		h.handleUpdateFloat(ctx, entry)
	case path == "/price" && method == fasthttp.MethodGet:
		h.handleGetPrice(ctx, entry)
	case path == "/price" && method == fasthttp.MethodPost:
		h.handlePriceAction(ctx, entry)
	case path == "/price/stats" && method == fasthttp.MethodGet:
		h.handlePriceStats(ctx, entry)
	default:
		writeError(ctx, fasthttp.StatusNotFound, "not found")
	}
}

// handleHealth handles the health check endpoint
func (h *Handler) handleHealth(ctx *fasthttp.RequestCtx) {
	writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON response with the given status. Every endpoint
// answers with a JSON body, success or failure.
func writeJSON(ctx *fasthttp.RequestCtx, status int, payload interface{}) {
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	if err := json.NewEncoder(ctx).Encode(payload); err != nil {
		apiLogger.WithError(err).Error("failed to encode response")
	}
}

// writeError writes a structured {error} body.
func writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	writeJSON(ctx, status, map[string]string{"error": message})
}
