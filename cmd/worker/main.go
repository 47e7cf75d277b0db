package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"alttext/internal/acquire"
	"alttext/internal/adapter/repo"
	"alttext/internal/caption"
	"alttext/internal/dispatch"
	"alttext/internal/domain"
	"alttext/internal/generator"
	"alttext/internal/infra"
	"alttext/internal/settings"
)

type taskWorker struct {
	ctx        context.Context
	tasks      *repo.TaskRepo
	dispatcher *dispatch.Dispatcher
	logger     infra.Logger
	poll       time.Duration
}

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: db connection failed")
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

	worker := &taskWorker{
		ctx:        ctx,
		tasks:      tasks,
		dispatcher: dispatcher,
		logger:     logger,
		poll:       cfg.WorkerPoll,
	}

	if err := worker.Run(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("worker: stopped with error")
	}
	logger.Info().Msg("worker: stopped")
}

func (w *taskWorker) Run() error {
	w.logger.Info().Msg("worker: started")
	for {
		select {
		case <-w.ctx.Done():
			return w.ctx.Err()
		default:
		}

		task, err := w.tasks.ClaimNext(w.ctx)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				time.Sleep(w.poll)
				continue
			}
			w.logger.Error().Err(err).Msg("worker: failed to claim task")
			time.Sleep(w.poll)
			continue
		}

		w.handleTask(task)
	}
}

// handleTask runs one claimed task to completion and records its terminal
// status. Failures are logged; retry, if any, is an operator decision, not
// this worker's.
func (w *taskWorker) handleTask(task *domain.GenerationTask) {
	w.logger.Info().Str("task_id", task.ID).Int64("asset_id", task.AssetID).
		Int64("site_id", task.SiteID).Msg("worker: picked task")

	outcome := w.dispatcher.ExecuteTask(w.ctx, *task)

	status := domain.TaskStatusSucceeded
	detail := ""
	switch outcome.Status {
	case generator.StatusFailed:
		status = domain.TaskStatusFailed
		detail = outcome.Reason
		if outcome.Err != nil {
			detail = outcome.Reason + ": " + outcome.Err.Error()
		}
		w.logger.Error().Err(outcome.Err).Str("task_id", task.ID).
			Int64("asset_id", task.AssetID).Msg("worker: task failed")
	case generator.StatusSkipped:
		detail = outcome.Reason
		w.logger.Info().Str("task_id", task.ID).Int64("asset_id", task.AssetID).
			Str("reason", outcome.Reason).Msg("worker: task skipped")
	}

	if err := w.tasks.Finish(w.ctx, task.ID, status, detail); err != nil {
		w.logger.Error().Err(err).Str("task_id", task.ID).Msg("worker: update status failed")
	}
}
