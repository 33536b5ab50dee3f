package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Gthulhu/smoothtask/actuator"
	"github.com/Gthulhu/smoothtask/config"
	"github.com/Gthulhu/smoothtask/domain"
	"github.com/Gthulhu/smoothtask/pkg/logger"
	"github.com/Gthulhu/smoothtask/pkg/util"
	"github.com/Gthulhu/smoothtask/policy"
	"github.com/Gthulhu/smoothtask/ranker"
	pkgerrors "github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/xid"
	"go.uber.org/fx"
)

type Params struct {
	fx.In
	Config     config.SmoothTaskConfig
	Source     domain.SnapshotSource
	Backend    domain.PriorityBackend
	Reader     domain.PriorityReader `optional:"true"`
	Registerer prometheus.Registerer `optional:"true"`
}

func NewService(params Params) (*Service, error) {
	ctx := context.Background()
	cfg := params.Config

	var scaler *policy.DynamicPriorityScaler
	if cfg.Dynamic.Enabled {
		scaler = policy.NewDynamicPriorityScaler(ctx, cfg.Dynamic)
	}
	engine := policy.NewEngine(cfg.Thresholds, ranker.NewRanker(ctx, cfg.Policy), scaler)

	tracker := actuator.NewHysteresisTrackerWithParams(cfg.Hysteresis.MinInterval(), cfg.Hysteresis.MaxChangesPerWindow).
		WithWindow(cfg.Hysteresis.Window())

	svc := &Service{
		cfg:             cfg,
		source:          params.Source,
		engine:          engine,
		actuator:        actuator.NewActuator(params.Backend, actuator.Options{Reader: params.Reader}),
		tracker:         tracker,
		groupClasses:    util.NewGenericMap[string, domain.PriorityClass](),
		metricCollector: NewMetricCollector(util.GetMachineID()),
	}

	registerer := params.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	if err := registerer.Register(svc.metricCollector); err != nil {
		return nil, fmt.Errorf("failed to register metric collector: %v", err)
	}
	logger.Logger(ctx).Info().
		Str("mode", string(engine.Mode())).
		Bool("dynamic_scaling", scaler != nil).
		Bool("dry_run", cfg.Daemon.DryRun).
		Msg("scheduling service ready")
	return svc, nil
}

// Service runs one scheduling cycle at a time and keeps the outcome of the last one.
type Service struct {
	cfg             config.SmoothTaskConfig
	source          domain.SnapshotSource
	engine          *policy.Engine
	actuator        *actuator.Actuator
	metricCollector *MetricCollector

	// cycleMu serializes cycles and guards tracker and planDigest.
	cycleMu      sync.Mutex
	tracker      *actuator.HysteresisTracker
	planDigest   util.Digest
	groupClasses *util.GenericMap[string, domain.PriorityClass]
	latest       atomic.Pointer[domain.CycleReport]
}

// RunCycle collects a snapshot, decides classes, plans and applies the adjustments.
func (svc *Service) RunCycle(ctx context.Context) (*domain.CycleReport, error) {
	svc.cycleMu.Lock()
	defer svc.cycleMu.Unlock()

	started := time.Now()
	cycleID := xid.New().String()
	ctx = logger.WithFields(ctx, "cycle_id", cycleID)
	log := logger.Logger(ctx)

	snapshot, err := svc.source.Collect(ctx)
	if err != nil {
		svc.metricCollector.ObserveFailure()
		return nil, pkgerrors.Wrap(err, "collect snapshot")
	}

	decisions := svc.engine.EvaluateSnapshot(ctx, snapshot)
	adjustments := svc.actuator.PlanPriorityChanges(snapshot, decisions)
	if svc.cfg.Actuator.ReadCurrent {
		svc.actuator.RefreshCurrent(ctx, adjustments)
	}
	if svc.cfg.Daemon.SkipUnchanged {
		adjustments = actuator.FilterUnchanged(adjustments)
	}

	var result domain.ApplyResult
	if !svc.cfg.Daemon.DryRun {
		result = svc.actuator.ApplyPriorityAdjustments(ctx, adjustments, svc.tracker)
	}
	svc.tracker.Cleanup(snapshot.ActivePIDs())

	classChanges := svc.trackGroupClasses(ctx, decisions)

	digest := planDigest(adjustments)
	changedPIDs := len(digest.Changed(svc.planDigest))
	svc.planDigest = digest

	var loadLevel float64
	if scaler := svc.engine.Scaler(); scaler != nil {
		loadLevel = scaler.LoadLevel(snapshot.Global)
	}

	report := &domain.CycleReport{
		CycleID:     cycleID,
		StartedAt:   started,
		Duration:    time.Since(started),
		SnapshotID:  snapshot.SnapshotID,
		LoadLevel:   loadLevel,
		Decisions:   decisions,
		Adjustments: adjustments,
		Result:      result,
		DryRun:      svc.cfg.Daemon.DryRun,
		PlanHash:    digest.Root,
		ChangedPIDs: changedPIDs,
	}
	svc.latest.Store(report)
	svc.metricCollector.ObserveCycle(report, classChanges)

	log.Debug().
		Uint64("snapshot_id", snapshot.SnapshotID).
		Int("groups", len(decisions)).
		Int("adjustments", len(adjustments)).
		Int("changed_pids", changedPIDs).
		Int("applied", result.Applied).
		Int("skipped_hysteresis", result.SkippedHysteresis).
		Int("errors", result.Errors).
		Float64("load_level", loadLevel).
		Dur("duration", report.Duration).
		Msg("cycle finished")
	return report, nil
}

// trackGroupClasses remembers the class of every evaluated group, logs transitions
// and forgets groups that disappeared. It returns the number of transitions.
func (svc *Service) trackGroupClasses(ctx context.Context, decisions map[string]domain.PolicyResult) int {
	svc.groupClasses.Retain(func(id string) bool {
		_, ok := decisions[id]
		return ok
	})
	changes := 0
	for id, decision := range decisions {
		prev, seen := svc.groupClasses.Load(id)
		svc.groupClasses.Store(id, decision.PriorityClass)
		if !seen || prev == decision.PriorityClass {
			continue
		}
		changes++
		logger.Logger(ctx).Info().
			Str("app_group", id).
			Str("from", prev.String()).
			Str("to", decision.PriorityClass.String()).
			Str("reason", decision.Reason).
			Msg("priority class changed")
	}
	return changes
}

func planDigest(adjustments []domain.PriorityAdjustment) util.Digest {
	values := make(map[string]string, len(adjustments))
	for _, adj := range adjustments {
		values[strconv.Itoa(adj.PID)] = fmt.Sprintf("%s|%s|%d|%d|%d.%d|%d",
			adj.AppGroupID, adj.TargetClass, adj.TargetNice, adj.TargetLatencyNice,
			adj.TargetIONice.Class, adj.TargetIONice.Level, adj.TargetCPUWeight)
	}
	return util.NewDigest(values)
}

func (svc *Service) LatestReport(ctx context.Context) (*domain.CycleReport, error) {
	report := svc.latest.Load()
	if report == nil {
		return nil, domain.ErrNoSnapshot
	}
	return report, nil
}

func (svc *Service) HysteresisEntries(ctx context.Context) ([]domain.HysteresisEntry, error) {
	svc.cycleMu.Lock()
	defer svc.cycleMu.Unlock()
	return svc.tracker.Entries(), nil
}
