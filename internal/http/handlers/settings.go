package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"alttext/internal/caption"
)

type settingsResponse struct {
	HasAPIKey            bool   `json:"has_api_key"`
	Language             string `json:"language"`
	GenerateForNewAssets bool   `json:"generate_for_new_assets"`
}

// GetSettings returns the configuration record. The API key itself stays
// server-side; clients only learn whether one is configured.
func (a *App) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := a.Settings.Load(r.Context())
	if err != nil {
		a.Logger.Error().Err(err).Msg("handlers: could not load settings")
		a.error(w, http.StatusInternalServerError, "internal", "could not load settings")
		return
	}
	a.json(w, http.StatusOK, settingsResponse{
		HasAPIKey:            settings.HasAPIKey(),
		Language:             settings.CaptionLanguage(),
		GenerateForNewAssets: settings.GenerateForNewAssets,
	})
}

type updateSettingsRequest struct {
	APIKey               *string `json:"api_key"`
	Language             string  `json:"language"`
	GenerateForNewAssets bool    `json:"generate_for_new_assets"`
}

// UpdateSettings persists the configuration record. An absent api_key field
// keeps the stored key; an empty string clears it.
func (a *App) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req updateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	settings, err := a.Settings.Load(r.Context())
	if err != nil {
		a.Logger.Error().Err(err).Msg("handlers: could not load settings")
		a.error(w, http.StatusInternalServerError, "internal", "could not load settings")
		return
	}

	updated := *settings
	if req.APIKey != nil {
		updated.APIKey = strings.TrimSpace(*req.APIKey)
	}
	updated.Language = req.Language
	updated.GenerateForNewAssets = req.GenerateForNewAssets

	if err := a.Settings.Save(r.Context(), &updated); err != nil {
		a.Logger.Error().Err(err).Msg("handlers: could not save settings")
		a.error(w, http.StatusInternalServerError, "internal", "could not save settings")
		return
	}
	a.json(w, http.StatusOK, settingsResponse{
		HasAPIKey:            updated.HasAPIKey(),
		Language:             updated.Language,
		GenerateForNewAssets: updated.GenerateForNewAssets,
	})
}

type verifyKeyRequest struct {
	APIKey string `json:"api_key"`
}

// VerifyKey proxies key verification to the captioning service. When the body
// omits the key, the stored one is used, so the key never has to round-trip
// through the client.
func (a *App) VerifyKey(w http.ResponseWriter, r *http.Request) {
	var req verifyKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	apiKey := strings.TrimSpace(req.APIKey)
	if apiKey == "" {
		settings, err := a.Settings.Load(r.Context())
		if err != nil {
			a.Logger.Error().Err(err).Msg("handlers: could not load settings")
			a.error(w, http.StatusInternalServerError, "internal", "could not load settings")
			return
		}
		apiKey = settings.APIKey
	}

	verification, err := a.Verifier.VerifyKey(r.Context(), apiKey)
	if err != nil {
		message := "Failed to verify API Key"
		switch {
		case errors.Is(err, caption.ErrKeyRequired):
			message = "API Key is required"
		case errors.Is(err, caption.ErrKeyNotFound):
			message = "API Key not found"
		case errors.Is(err, caption.ErrInvalidResponse):
			message = "Invalid API response"
		}
		a.json(w, http.StatusOK, map[string]any{"success": false, "message": message})
		return
	}

	a.json(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "API Key is valid!",
		"credits": verification.Credits,
	})
}
