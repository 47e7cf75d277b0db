package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"alttext/internal/batch"
	"alttext/internal/caption"
	"alttext/internal/dispatch"
	"alttext/internal/domain"
	"alttext/internal/generator"
	"alttext/internal/infra"
)

type dispatcher interface {
	DispatchImmediate(ctx context.Context, req dispatch.ImmediateRequest) generator.Outcome
	DispatchDeferred(ctx context.Context, task domain.GenerationTask) error
}

type batchRunner interface {
	Run(ctx context.Context, scope batch.Scope, filter domain.AssetFilter, force bool) (*domain.BatchRunResult, error)
}

type keyVerifier interface {
	VerifyKey(ctx context.Context, apiKey string) (caption.Verification, error)
}

type settingsStore interface {
	Load(ctx context.Context) (*domain.Settings, error)
	Save(ctx context.Context, settings *domain.Settings) error
}

// App is the handler container; dependencies are injected at construction.
type App struct {
	Logger     infra.Logger
	Dispatcher dispatcher
	Batch      batchRunner
	Verifier   keyVerifier
	Settings   settingsStore
	Assets     domain.AssetStore
	Sites      domain.SiteRegistry
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, kind, message string) {
	a.json(w, code, map[string]any{"success": false, "error": kind, "message": message})
}
