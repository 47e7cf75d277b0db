package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"alttext/internal/acquire"
	"alttext/internal/adapter/repo"
	"alttext/internal/batch"
	"alttext/internal/caption"
	"alttext/internal/dispatch"
	"alttext/internal/generator"
	"alttext/internal/http/handlers"
	"alttext/internal/http/httpapi"
	"alttext/internal/infra"
	"alttext/internal/infra/geoip"
	"alttext/internal/middleware"
	"alttext/internal/settings"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("api: failed to connect database")
	}
	defer pool.Close()

	runner := infra.NewSQLRunner(pool, logger)
	assets := repo.NewAssetRepo(runner)
	sites := repo.NewSiteRepo(runner)
	tasks := repo.NewTaskRepo(runner)
	settingsStore := settings.NewStore(runner, 0)

	captionClient := caption.NewClient(caption.Options{
		BaseURL:        cfg.CaptionBaseURL,
		Logger:         &logger,
		CaptionTimeout: cfg.CaptionTimeout,
		VerifyTimeout:  cfg.VerifyTimeout,
	})
	acquirer := acquire.NewAcquirer(cfg.VolumeRoot, nil, logger)
	gen := generator.New(assets, sites, acquirer, captionClient, logger)
	dispatcher := dispatch.New(assets, tasks, settingsStore, gen, logger)
	processor := batch.NewProcessor(assets, sites, dispatcher, cfg.BatchPageSize, logger)

	var lookup middleware.CountryLookup
	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("api: geoip unavailable, locale detection degrades to headers")
	} else if resolver != nil {
		lookup = resolver.CountryCode
	}

	app := &handlers.App{
		Logger:     logger,
		Dispatcher: dispatcher,
		Batch:      processor,
		Verifier:   captionClient,
		Settings:   settingsStore,
		Assets:     assets,
		Sites:      sites,
	}

	router := httpapi.NewRouter(app, cfg, logger, lookup)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
