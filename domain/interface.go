package domain

import (
	"context"
	"time"
)

// PriorityBackend pushes priority targets to the OS. Every call is independent.
type PriorityBackend interface {
	SetNice(pid int, nice int) error
	SetLatencyNice(pid int, latencyNice int) error
	SetIOPriority(pid int, prio IOPriority) error
	SetCPUWeight(pid int, appGroupID string, weight int) error
}

// CurrentPriority is a best-effort reading of a process' priority settings.
type CurrentPriority struct {
	Nice        *int
	LatencyNice *int
	IONice      *IOPriority
	CPUWeight   *int
}

// PriorityReader reads current priority settings of a process.
type PriorityReader interface {
	ReadPriority(ctx context.Context, pid int) (CurrentPriority, error)
}

// SnapshotSource produces one snapshot per poll interval.
type SnapshotSource interface {
	Collect(ctx context.Context) (*Snapshot, error)
}

// HysteresisEntry is the change history of one pid.
type HysteresisEntry struct {
	PID           int           `json:"pid"`
	LastClass     PriorityClass `json:"last_class"`
	LastChange    time.Time     `json:"last_change"`
	RecentChanges int           `json:"recent_changes"`
}

// CycleReport is the outcome of one scheduling cycle.
type CycleReport struct {
	CycleID     string                  `json:"cycle_id"`
	StartedAt   time.Time               `json:"started_at"`
	Duration    time.Duration           `json:"duration"`
	SnapshotID  uint64                  `json:"snapshot_id"`
	LoadLevel   float64                 `json:"load_level"`
	Decisions   map[string]PolicyResult `json:"decisions"`
	Adjustments []PriorityAdjustment    `json:"adjustments"`
	Result      ApplyResult             `json:"result"`
	DryRun      bool                    `json:"dry_run"`
	PlanHash    string                  `json:"plan_hash"`
	ChangedPIDs int                     `json:"changed_pids"`
}

// Service runs scheduling cycles and exposes their outcome.
type Service interface {
	RunCycle(ctx context.Context) (*CycleReport, error)
	LatestReport(ctx context.Context) (*CycleReport, error)
	HysteresisEntries(ctx context.Context) ([]HysteresisEntry, error)
}
