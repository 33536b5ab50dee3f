package actuator

import (
	"context"
	"errors"
	"time"

	"github.com/Gthulhu/smoothtask/domain"
	"github.com/Gthulhu/smoothtask/pkg/logger"
	"golang.org/x/time/rate"
)

// Options tune the actuator.
type Options struct {
	// Reader refreshes current values before planning decisions are filtered. Optional.
	Reader domain.PriorityReader
	// WarnEvery bounds how often a failed OS operation is logged at warn level.
	WarnEvery time.Duration
}

// Actuator turns policy results into per-process adjustments and pushes them to the OS.
type Actuator struct {
	backend domain.PriorityBackend
	reader  domain.PriorityReader
	warn    *rate.Limiter
}

func NewActuator(backend domain.PriorityBackend, opts Options) *Actuator {
	every := opts.WarnEvery
	if every <= 0 {
		every = 10 * time.Second
	}
	return &Actuator{
		backend: backend,
		reader:  opts.Reader,
		warn:    rate.NewLimiter(rate.Every(every), 5),
	}
}

// PlanPriorityChanges builds one adjustment per grouped process whose group was evaluated.
// The result follows snapshot process order.
func (a *Actuator) PlanPriorityChanges(snapshot *domain.Snapshot, results map[string]domain.PolicyResult) []domain.PriorityAdjustment {
	if snapshot == nil || len(results) == 0 || len(snapshot.Processes) == 0 {
		return nil
	}
	adjustments := make([]domain.PriorityAdjustment, 0, len(snapshot.Processes))
	for i := range snapshot.Processes {
		proc := &snapshot.Processes[i]
		if proc.AppGroupID == nil {
			continue
		}
		result, ok := results[*proc.AppGroupID]
		if !ok {
			continue
		}
		params := result.PriorityClass.Params()
		adjustments = append(adjustments, domain.PriorityAdjustment{
			PID:                proc.PID,
			AppGroupID:         *proc.AppGroupID,
			TargetClass:        result.PriorityClass,
			CurrentNice:        copyPtr(proc.Nice),
			TargetNice:         params.Nice,
			CurrentLatencyNice: copyPtr(proc.LatencyNice),
			TargetLatencyNice:  params.LatencyNice,
			CurrentIONice:      copyPtr(proc.IONice),
			TargetIONice:       params.IONice,
			CurrentCPUWeight:   copyPtr(proc.CPUWeight),
			TargetCPUWeight:    params.CPUWeight,
			Reason:             result.Reason,
		})
	}
	return adjustments
}

// RefreshCurrent fills current values from the reader. Values already known are overwritten
// only when the reader returns them. Processes that vanished keep their planned values.
func (a *Actuator) RefreshCurrent(ctx context.Context, adjustments []domain.PriorityAdjustment) {
	if a.reader == nil {
		return
	}
	for i := range adjustments {
		adj := &adjustments[i]
		current, err := a.reader.ReadPriority(ctx, adj.PID)
		if err != nil {
			logger.Logger(ctx).Debug().Err(err).Int("pid", adj.PID).Msg("read current priority failed")
			continue
		}
		if current.Nice != nil {
			adj.CurrentNice = current.Nice
		}
		if current.LatencyNice != nil {
			adj.CurrentLatencyNice = current.LatencyNice
		}
		if current.IONice != nil {
			adj.CurrentIONice = current.IONice
		}
		if current.CPUWeight != nil {
			adj.CurrentCPUWeight = current.CPUWeight
		}
	}
}

// FilterUnchanged drops adjustments whose known current values already match the targets.
func FilterUnchanged(adjustments []domain.PriorityAdjustment) []domain.PriorityAdjustment {
	out := adjustments[:0:0]
	for _, adj := range adjustments {
		if adj.Unchanged() {
			continue
		}
		out = append(out, adj)
	}
	return out
}

// ApplyPriorityAdjustments pushes every adjustment allowed by the tracker.
// The four OS operations of an adjustment run independently. An adjustment with
// at least one failed operation counts once in Errors. It counts as Applied,
// and is recorded in the tracker, when its nice operation succeeded.
// Operations the kernel does not support are neither errors nor failures.
func (a *Actuator) ApplyPriorityAdjustments(ctx context.Context, adjustments []domain.PriorityAdjustment, tracker *HysteresisTracker) domain.ApplyResult {
	var result domain.ApplyResult
	for i := range adjustments {
		adj := &adjustments[i]
		if !tracker.ShouldApplyChange(adj.PID, adj.TargetClass) {
			result.SkippedHysteresis++
			continue
		}

		niceErr := a.backend.SetNice(adj.PID, adj.TargetNice)
		errs := []error{
			a.actuationError(adj.PID, domain.OpNice, niceErr),
			a.actuationError(adj.PID, domain.OpLatencyNice, a.backend.SetLatencyNice(adj.PID, adj.TargetLatencyNice)),
			a.actuationError(adj.PID, domain.OpIONice, a.backend.SetIOPriority(adj.PID, adj.TargetIONice)),
			a.actuationError(adj.PID, domain.OpCPUWeight, a.backend.SetCPUWeight(adj.PID, adj.AppGroupID, adj.TargetCPUWeight)),
		}

		failed := false
		for _, err := range errs {
			if err == nil {
				continue
			}
			failed = true
			a.logFailure(ctx, err)
		}
		if failed {
			result.Errors++
		}
		if niceErr == nil {
			tracker.RecordChange(adj.PID, adj.TargetClass)
			result.Applied++
		}
	}
	return result
}

// actuationError wraps a backend error with its operation and kind.
// Unsupported operations yield nil.
func (a *Actuator) actuationError(pid int, op domain.ActuationOp, err error) error {
	if err == nil || errors.Is(err, domain.ErrUnsupported) {
		return nil
	}
	return domain.NewActuationError(pid, op, errorKind(err), err)
}

func errorKind(err error) error {
	for _, kind := range []error{domain.ErrProcessNotFound, domain.ErrPermissionDenied, domain.ErrMalformedCgroup} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return err
}

func (a *Actuator) logFailure(ctx context.Context, err error) {
	log := logger.Logger(ctx)
	actErr, _ := domain.IsActuationError(err)
	// exits between collection and actuation are routine
	if errors.Is(err, domain.ErrProcessNotFound) || !a.warn.Allow() {
		log.Debug().Err(err).Msg("priority operation failed")
		return
	}
	event := log.Warn().Err(err)
	if actErr != nil {
		event = event.Int("pid", actErr.PID).Str("op", string(actErr.Op))
	}
	event.Msg("priority operation failed")
}

func copyPtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
