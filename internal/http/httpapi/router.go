package httpapi

import (
	stdhttp "net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"alttext/internal/http/handlers"
	"alttext/internal/infra"
	"alttext/internal/middleware"
)

// NewRouter assembles the HTTP surface: health, single-asset generation, bulk
// generation, the asset-saved hook and the settings endpoints.
func NewRouter(app *handlers.App, cfg *infra.Config, logger infra.Logger, lookup middleware.CountryLookup) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID, chimw.RealIP, chimw.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	if origins := splitOrigins(cfg.AllowedOrigins); len(origins) > 0 {
		r.Use(middleware.CORS(origins))
	}
	r.Use(middleware.Locale("", lookup))
	r.Use(middleware.RateLimit(cfg.RateLimitPerMin, time.Minute))

	r.Get("/v1/healthz", app.Health)

	r.Route("/v1/assets", func(r chi.Router) {
		r.Post("/{id}/generate", app.GenerateSingle)
	})

	r.Route("/v1/generate", func(r chi.Router) {
		r.Post("/missing", app.GenerateMissing)
		r.Post("/all", app.GenerateAll)
	})

	r.Post("/v1/hooks/asset-saved", app.AssetSaved)

	r.Route("/v1/settings", func(r chi.Router) {
		r.Get("/", app.GetSettings)
		r.Put("/", app.UpdateSettings)
		r.Post("/verify", app.VerifyKey)
	})

	return r
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
