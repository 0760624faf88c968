package api

import (
	"encoding/json"

	"github.com/mswatii/cs2-vault/internal/floatsvc"
	"github.com/mswatii/cs2-vault/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"
)

type floatRequest struct {
	InspectLink string `json:"inspectLink"`
}

type floatResponse struct {
	Success    bool     `json:"success"`
	FloatValue *float64 `json:"floatValue"`
	PaintSeed  *int     `json:"paintSeed"`
	PaintIndex *int     `json:"paintIndex"`
	WearName   *string  `json:"wearName"`
}

// handleFloat resolves one inspect link through the provider chain. An
// unresolvable float is not a transport error: the endpoint answers 200
// with success=false and null fields.
func (h *Handler) handleFloat(ctx *fasthttp.RequestCtx, entry *logrus.Entry) {
	var req floatRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "invalid request body")
		return
	}
	if req.InspectLink == "" {
		writeError(ctx, fasthttp.StatusBadRequest, "inspect link is required")
		return
	}
	if err := floatsvc.ValidateInspectLink(req.InspectLink); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "invalid inspect link format")
		return
	}

	info := h.floats.Resolve(req.InspectLink)
	if info == nil {
		writeJSON(ctx, fasthttp.StatusOK, floatResponse{Success: false})
		return
	}

	wearName := info.WearName
	writeJSON(ctx, fasthttp.StatusOK, floatResponse{
		Success:    true,
		FloatValue: &info.FloatValue,
		PaintSeed:  info.PaintSeed,
		PaintIndex: info.PaintIndex,
		WearName:   &wearName,
	})
}

type updateFloatRequest struct {
	Action     string   `json:"action"`
	AssetID    string   `json:"assetId"`
	FloatValue *float64 `json:"floatValue"`
	PaintSeed  *int     `json:"paintSeed"`
}

// handleUpdateFloat writes one resolved float back to the catalog, or runs
// the capped bulk catch-up pass when action=bulk_update.
func (h *Handler) handleUpdateFloat(ctx *fasthttp.RequestCtx, entry *logrus.Entry) {
	var req updateFloatRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "invalid request body")
		return
	}

	if req.Action == "bulk_update" {
		result, err := h.floats.CatchUp()
		if err != nil {
			entry.WithError(err).Error("bulk float catch-up failed")
			writeError(ctx, fasthttp.StatusInternalServerError, "bulk update failed")
			return
		}
		writeJSON(ctx, fasthttp.StatusOK, result)
		return
	}

	if req.AssetID == "" || req.FloatValue == nil {
		writeError(ctx, fasthttp.StatusBadRequest, "missing assetId or floatValue")
		return
	}

	condition := models.ConditionFromFloat(*req.FloatValue)
	if err := h.db.UpdateItemFloat(req.AssetID, *req.FloatValue, req.PaintSeed, condition); err != nil {
		entry.WithError(err).Errorf("failed to update float for asset %s", req.AssetID)
		writeError(ctx, fasthttp.StatusInternalServerError, "failed to update float")
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, map[string]bool{"success": true})
}
