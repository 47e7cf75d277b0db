package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"alttext/internal/domain"
	"alttext/internal/infra"
	"alttext/internal/sqlinline"
)

// TaskRepo persists generation tasks in Postgres. Enqueue satisfies
// domain.TaskQueue; ClaimNext and Finish are the worker's side of the queue,
// built on FOR UPDATE SKIP LOCKED so multiple workers never claim the same row.
type TaskRepo struct {
	sql infra.SQLExecutor
}

// NewTaskRepo constructs a new task queue adapter.
func NewTaskRepo(sql infra.SQLExecutor) *TaskRepo {
	return &TaskRepo{sql: sql}
}

// Enqueue inserts a queued task row. A missing id is filled in.
func (r *TaskRepo) Enqueue(ctx context.Context, task *domain.GenerationTask) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if _, err := r.sql.Exec(ctx, sqlinline.QEnqueueTask, task.ID, task.AssetID, task.SiteID, task.Force); err != nil {
		return fmt.Errorf("enqueue task for asset %d: %w", task.AssetID, err)
	}
	return nil
}

// ClaimNext atomically claims the oldest queued task, marking it RUNNING.
// Returns domain.ErrNotFound when the queue is empty.
func (r *TaskRepo) ClaimNext(ctx context.Context) (*domain.GenerationTask, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QClaimNextTask)
	var task domain.GenerationTask
	if err := row.Scan(&task.ID, &task.AssetID, &task.SiteID, &task.Force); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("claim task: %w", err)
	}
	task.Status = domain.TaskStatusRunning
	return &task, nil
}

// Finish records the task's terminal status and optional error detail.
func (r *TaskRepo) Finish(ctx context.Context, taskID string, status domain.TaskStatus, errMsg string) error {
	if _, err := r.sql.Exec(ctx, sqlinline.QFinishTask, taskID, status, errMsg); err != nil {
		return fmt.Errorf("finish task %s: %w", taskID, err)
	}
	return nil
}

var _ domain.TaskQueue = (*TaskRepo)(nil)
