package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"alttext/internal/domain"
	"alttext/internal/generator"
	"alttext/internal/infra"
)

type generatorRunner interface {
	GenerateFor(ctx context.Context, asset *domain.Asset, settings *domain.Settings, force bool) generator.Outcome
}

type settingsLoader interface {
	Load(ctx context.Context) (*domain.Settings, error)
}

// Dispatcher decouples "decided to generate" from "generation runs now".
// Immediate dispatch runs the generator in the caller's context and returns
// the outcome; deferred dispatch enqueues a task carrying only identifiers and
// returns at once.
//
// An in-flight set keyed by site and asset keeps two immediate generations for
// the same asset from racing each other. Deferred enqueues are not
// deduplicated: a duplicate queue row is cheap and the executor's precondition
// re-check turns the second run into a skip.
type Dispatcher struct {
	assets   domain.AssetStore
	queue    domain.TaskQueue
	settings settingsLoader
	gen      generatorRunner
	logger   infra.Logger

	mu       sync.Mutex
	inflight map[string]struct{}
}

// New wires a dispatcher.
func New(assets domain.AssetStore, queue domain.TaskQueue, settings settingsLoader, gen generatorRunner, logger infra.Logger) *Dispatcher {
	return &Dispatcher{
		assets:   assets,
		queue:    queue,
		settings: settings,
		gen:      gen,
		logger:   logger,
		inflight: make(map[string]struct{}),
	}
}

// ImmediateRequest describes one synchronous generation request. LanguageHint
// is the request-derived locale, applied only when the stored settings don't
// pin a caption language.
type ImmediateRequest struct {
	AssetID      int64
	SiteID       int64
	Force        bool
	LanguageHint string
}

// DispatchImmediate fetches the asset and runs generation synchronously,
// returning the outcome for the caller's own response. A concurrent run for
// the same asset yields a busy skip.
func (d *Dispatcher) DispatchImmediate(ctx context.Context, req ImmediateRequest) generator.Outcome {
	release, ok := d.acquire(req.AssetID, req.SiteID)
	if !ok {
		return generator.Outcome{Status: generator.StatusSkipped, Reason: domain.ErrTaskInFlight.Error()}
	}
	defer release()

	asset, err := d.assets.FindByID(ctx, req.AssetID, req.SiteID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return generator.Outcome{Status: generator.StatusFailed, Reason: "asset not found", Err: domain.ErrNotFound}
		}
		return generator.Outcome{Status: generator.StatusFailed, Reason: "could not load asset", Err: err}
	}

	settings, err := d.settings.Load(ctx)
	if err != nil {
		return generator.Outcome{Status: generator.StatusFailed, Reason: "could not load settings", Err: err}
	}
	if strings.TrimSpace(settings.Language) == "" && req.LanguageHint != "" {
		hinted := *settings
		hinted.Language = req.LanguageHint
		settings = &hinted
	}

	return d.gen.GenerateFor(ctx, asset, settings, req.Force)
}

// DispatchDeferred enqueues a generation task for later execution. The
// triggering request never blocks on outbound HTTP.
func (d *Dispatcher) DispatchDeferred(ctx context.Context, task domain.GenerationTask) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if err := d.queue.Enqueue(ctx, &task); err != nil {
		return fmt.Errorf("dispatch deferred for asset %d: %w", task.AssetID, err)
	}
	d.logger.Debug().Int64("asset_id", task.AssetID).Int64("site_id", task.SiteID).
		Str("task_id", task.ID).Msg("dispatch: queued generation task")
	return nil
}

// ExecuteTask runs a previously enqueued task. The asset is re-fetched by id
// and every generator precondition re-validated: the task carries no snapshot,
// so staleness between enqueue and execution is structurally impossible. An
// asset deleted in the meantime is a skip, not an error.
func (d *Dispatcher) ExecuteTask(ctx context.Context, task domain.GenerationTask) generator.Outcome {
	release, ok := d.acquire(task.AssetID, task.SiteID)
	if !ok {
		return generator.Outcome{Status: generator.StatusSkipped, Reason: domain.ErrTaskInFlight.Error()}
	}
	defer release()

	asset, err := d.assets.FindByID(ctx, task.AssetID, task.SiteID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			d.logger.Warn().Int64("asset_id", task.AssetID).Str("task_id", task.ID).
				Msg("dispatch: asset no longer exists, skipping")
			return generator.Outcome{Status: generator.StatusSkipped, Reason: "asset no longer exists"}
		}
		return generator.Outcome{Status: generator.StatusFailed, Reason: "could not load asset", Err: err}
	}

	settings, err := d.settings.Load(ctx)
	if err != nil {
		return generator.Outcome{Status: generator.StatusFailed, Reason: "could not load settings", Err: err}
	}

	return d.gen.GenerateFor(ctx, asset, settings, task.Force)
}

func (d *Dispatcher) acquire(assetID, siteID int64) (func(), bool) {
	key := fmt.Sprintf("%d:%d", siteID, assetID)
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, busy := d.inflight[key]; busy {
		return nil, false
	}
	d.inflight[key] = struct{}{}
	return func() {
		d.mu.Lock()
		delete(d.inflight, key)
		d.mu.Unlock()
	}, true
}
