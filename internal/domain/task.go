package domain

import "time"

// TaskStatus enumerates deferred-task lifecycle states.
type TaskStatus string

const (
	TaskStatusQueued    TaskStatus = "QUEUED"
	TaskStatusRunning   TaskStatus = "RUNNING"
	TaskStatusSucceeded TaskStatus = "SUCCEEDED"
	TaskStatusFailed    TaskStatus = "FAILED"
)

// GenerationTask is one unit of deferred alt-text work. It carries only
// identifiers, never an asset snapshot: the executor re-fetches the asset and
// re-validates every precondition at run time, so staleness between enqueue
// and execution cannot corrupt a write.
type GenerationTask struct {
	ID        string
	AssetID   int64
	SiteID    int64
	Force     bool
	Status    TaskStatus
	Error     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
