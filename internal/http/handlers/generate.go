package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"alttext/internal/batch"
	"alttext/internal/dispatch"
	"alttext/internal/domain"
	"alttext/internal/generator"
	"alttext/internal/middleware"
)

type generateSingleRequest struct {
	SiteID int64 `json:"site_id"`
	Force  bool  `json:"force"`
}

type generateSingleResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Alt     string `json:"alt,omitempty"`
}

// GenerateSingle runs synchronous generation for one asset and reports the
// outcome in the response, so the editor's UI can render it immediately.
func (a *App) GenerateSingle(w http.ResponseWriter, r *http.Request) {
	assetID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid asset id")
		return
	}
	var req generateSingleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.SiteID == 0 {
		a.error(w, http.StatusBadRequest, "bad_request", "site_id is required")
		return
	}

	outcome := a.Dispatcher.DispatchImmediate(r.Context(), dispatch.ImmediateRequest{
		AssetID:      assetID,
		SiteID:       req.SiteID,
		Force:        req.Force,
		LanguageHint: middleware.LocaleFromContext(r.Context()),
	})

	switch outcome.Status {
	case generator.StatusGenerated, generator.StatusGeneratedFallback:
		a.json(w, http.StatusOK, generateSingleResponse{
			Success: true,
			Message: "Alt text has been generated",
			Alt:     outcome.Alt,
		})
	case generator.StatusSkipped:
		a.json(w, http.StatusOK, generateSingleResponse{Success: false, Message: outcome.Reason})
	default:
		code := http.StatusInternalServerError
		switch {
		case errors.Is(outcome.Err, domain.ErrNotFound):
			code = http.StatusNotFound
		case errors.Is(outcome.Err, domain.ErrPermissionDenied):
			code = http.StatusForbidden
		}
		a.Logger.Error().Err(outcome.Err).Int64("asset_id", assetID).
			Msg("handlers: single-asset generation failed")
		a.json(w, code, generateSingleResponse{Success: false, Message: outcome.Reason})
	}
}

// GenerateMissing queues deferred generation for all image assets missing alt
// text, optionally scoped to one site.
func (a *App) GenerateMissing(w http.ResponseWriter, r *http.Request) {
	a.runBatch(w, r, domain.FilterMissingAltOnly, false)
}

// GenerateAll queues deferred regeneration for every image asset.
func (a *App) GenerateAll(w http.ResponseWriter, r *http.Request) {
	a.runBatch(w, r, domain.FilterAllAssets, true)
}

func (a *App) runBatch(w http.ResponseWriter, r *http.Request, filter domain.AssetFilter, force bool) {
	var scope batch.Scope
	var siteName string
	if raw := r.URL.Query().Get("site_id"); raw != "" {
		siteID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			a.error(w, http.StatusBadRequest, "bad_request", "invalid site id")
			return
		}
		scope.SiteID = &siteID
		if site, err := a.Sites.GetSite(r.Context(), siteID); err == nil {
			siteName = site.Name
		}
	}

	result, err := a.Batch.Run(r.Context(), scope, filter, force)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidSite) {
			a.error(w, http.StatusBadRequest, "invalid_site", err.Error())
			return
		}
		a.Logger.Error().Err(err).Msg("handlers: batch run failed")
		a.error(w, http.StatusInternalServerError, "internal", "batch run failed")
		return
	}

	message := fmt.Sprintf("Queued alt text generation for %d assets across all sites.", result.QueuedCount)
	if scope.SiteID != nil {
		message = fmt.Sprintf("Queued alt text generation for %d assets in site %s.", result.QueuedCount, siteName)
	}

	perSite := make(map[string]map[string]int, len(result.PerSite))
	for siteID, breakdown := range result.PerSite {
		perSite[strconv.FormatInt(siteID, 10)] = map[string]int{
			"total":       breakdown.Total,
			"with_alt":    breakdown.WithAlt,
			"without_alt": breakdown.WithoutAlt,
		}
	}

	a.json(w, http.StatusAccepted, map[string]any{
		"success":          true,
		"message":          message,
		"total_candidates": result.TotalCandidates,
		"processed_count":  result.ProcessedCount,
		"queued_count":     result.QueuedCount,
		"per_site":         perSite,
	})
}

type assetSavedRequest struct {
	AssetID int64 `json:"asset_id"`
	SiteID  int64 `json:"site_id"`
	IsNew   bool  `json:"is_new"`
}

// AssetSaved is the host's after-save hook. New image assets get a deferred
// generation task when auto-generation is enabled and a key is configured, so
// the triggering save transaction never waits on outbound HTTP.
func (a *App) AssetSaved(w http.ResponseWriter, r *http.Request) {
	var req assetSavedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.AssetID == 0 || req.SiteID == 0 {
		a.error(w, http.StatusBadRequest, "bad_request", "asset_id and site_id are required")
		return
	}
	if !req.IsNew {
		a.json(w, http.StatusOK, map[string]any{"queued": false})
		return
	}

	settings, err := a.Settings.Load(r.Context())
	if err != nil {
		a.Logger.Error().Err(err).Msg("handlers: could not load settings for asset-saved hook")
		a.error(w, http.StatusInternalServerError, "internal", "could not load settings")
		return
	}
	if !settings.GenerateForNewAssets || !settings.HasAPIKey() {
		a.json(w, http.StatusOK, map[string]any{"queued": false})
		return
	}

	asset, err := a.Assets.FindByID(r.Context(), req.AssetID, req.SiteID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "asset not found")
			return
		}
		a.Logger.Error().Err(err).Int64("asset_id", req.AssetID).Msg("handlers: could not load asset for hook")
		a.error(w, http.StatusInternalServerError, "internal", "could not load asset")
		return
	}
	if !asset.IsImage() || asset.HasAltText() {
		a.json(w, http.StatusOK, map[string]any{"queued": false})
		return
	}

	task := domain.GenerationTask{AssetID: req.AssetID, SiteID: req.SiteID}
	if err := a.Dispatcher.DispatchDeferred(r.Context(), task); err != nil {
		a.Logger.Error().Err(err).Int64("asset_id", req.AssetID).Msg("handlers: could not queue generation task")
		a.error(w, http.StatusInternalServerError, "internal", "could not queue generation task")
		return
	}
	a.json(w, http.StatusAccepted, map[string]any{"queued": true})
}
