package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Gthulhu/smoothtask/config"
	"github.com/Gthulhu/smoothtask/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func intPtr(v int) *int { return &v }

func testConfig() config.SmoothTaskConfig {
	cfg := config.DefaultConfig()
	cfg.Policy.Mode = config.PolicyModeRulesOnly
	cfg.Dynamic.Enabled = false
	cfg.Daemon.DryRun = false
	cfg.Daemon.SkipUnchanged = false
	cfg.Actuator.ReadCurrent = false
	return cfg
}

func testSnapshot(id uint64) *domain.Snapshot {
	return &domain.Snapshot{
		SnapshotID: id,
		Timestamp:  time.Now(),
		Global:     domain.GlobalMetrics{LoadAvgOne: 0.2, UserActive: true},
		Processes: []domain.ProcessRecord{
			{PID: 10, AppGroupID: strPtr("editor"), Nice: intPtr(0)},
			{PID: 20, AppGroupID: strPtr("misc"), Nice: intPtr(0)},
			{PID: 30},
		},
		AppGroups: []domain.AppGroupRecord{
			{AppGroupID: "editor", RootPID: 10, ProcessIDs: []int{10}, HasGUIWindow: true, IsFocusedGroup: true},
			{AppGroupID: "misc", RootPID: 20, ProcessIDs: []int{20}},
		},
	}
}

func allowBackend(backend *domain.MockPriorityBackend) {
	backend.EXPECT().SetNice(mock.Anything, mock.Anything).Return(nil)
	backend.EXPECT().SetLatencyNice(mock.Anything, mock.Anything).Return(nil)
	backend.EXPECT().SetIOPriority(mock.Anything, mock.Anything).Return(nil)
	backend.EXPECT().SetCPUWeight(mock.Anything, mock.Anything, mock.Anything).Return(nil)
}

func newTestService(t *testing.T, cfg config.SmoothTaskConfig, source domain.SnapshotSource, backend domain.PriorityBackend) (*Service, *prometheus.Registry) {
	t.Helper()
	registry := prometheus.NewRegistry()
	svc, err := NewService(Params{
		Config:     cfg,
		Source:     source,
		Backend:    backend,
		Registerer: registry,
	})
	require.NoError(t, err)
	return svc, registry
}

func gatherValue(t *testing.T, registry *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := registry.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		var sum float64
		for _, m := range family.GetMetric() {
			if m.GetCounter() != nil {
				sum += m.GetCounter().GetValue()
			} else {
				sum += m.GetGauge().GetValue()
			}
		}
		return sum
	}
	t.Fatalf("metric %s not found", name)
	return 0
}

func TestRunCycleAppliesDecisions(t *testing.T) {
	source := domain.NewMockSnapshotSource(t)
	source.EXPECT().Collect(mock.Anything).Return(testSnapshot(1), nil)
	backend := domain.NewMockPriorityBackend(t)
	allowBackend(backend)

	svc, registry := newTestService(t, testConfig(), source, backend)
	report, err := svc.RunCycle(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, report.CycleID)
	assert.Equal(t, uint64(1), report.SnapshotID)
	require.Len(t, report.Decisions, 2)
	assert.Equal(t, domain.PriorityInteractive, report.Decisions["editor"].PriorityClass)
	assert.Equal(t, domain.PriorityNormal, report.Decisions["misc"].PriorityClass)
	assert.Len(t, report.Adjustments, 2)
	assert.Equal(t, domain.ApplyResult{Applied: 2}, report.Result)
	assert.NotEmpty(t, report.PlanHash)
	assert.False(t, report.DryRun)

	latest, err := svc.LatestReport(context.Background())
	require.NoError(t, err)
	assert.Same(t, report, latest)

	entries, err := svc.HysteresisEntries(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 10, entries[0].PID)

	assert.Equal(t, 1.0, gatherValue(t, registry, "smoothtask_cycles_total"))
	assert.Equal(t, 2.0, gatherValue(t, registry, "smoothtask_adjustments_applied_total"))
	assert.Equal(t, 2.0, gatherValue(t, registry, "smoothtask_app_groups"))
}

func TestRunCycleDryRun(t *testing.T) {
	source := domain.NewMockSnapshotSource(t)
	source.EXPECT().Collect(mock.Anything).Return(testSnapshot(1), nil)
	backend := domain.NewMockPriorityBackend(t)

	cfg := testConfig()
	cfg.Daemon.DryRun = true
	svc, _ := newTestService(t, cfg, source, backend)

	report, err := svc.RunCycle(context.Background())
	require.NoError(t, err)
	assert.True(t, report.DryRun)
	assert.Len(t, report.Adjustments, 2)
	assert.Equal(t, domain.ApplyResult{}, report.Result)

	entries, err := svc.HysteresisEntries(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunCycleSkipUnchanged(t *testing.T) {
	source := domain.NewMockSnapshotSource(t)
	source.EXPECT().Collect(mock.Anything).Return(testSnapshot(1), nil)
	backend := domain.NewMockPriorityBackend(t)
	allowBackend(backend)

	cfg := testConfig()
	cfg.Daemon.SkipUnchanged = true
	svc, _ := newTestService(t, cfg, source, backend)

	report, err := svc.RunCycle(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Adjustments, 1, "misc already runs at the normal nice value")
	assert.Equal(t, 10, report.Adjustments[0].PID)
	assert.Equal(t, 1, report.Result.Applied)
}

func TestRunCycleCollectFailure(t *testing.T) {
	source := domain.NewMockSnapshotSource(t)
	source.EXPECT().Collect(mock.Anything).Return(nil, errors.New("procfs gone"))
	backend := domain.NewMockPriorityBackend(t)

	svc, registry := newTestService(t, testConfig(), source, backend)
	_, err := svc.RunCycle(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collect snapshot")

	_, err = svc.LatestReport(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoSnapshot)
	assert.Equal(t, 1.0, gatherValue(t, registry, "smoothtask_cycles_failed_total"))
}

func TestRunCycleTracksClassChanges(t *testing.T) {
	first := testSnapshot(1)
	second := testSnapshot(2)
	second.AppGroups[0].IsFocusedGroup = false
	second.AppGroups[0].HasGUIWindow = false

	source := domain.NewMockSnapshotSource(t)
	source.EXPECT().Collect(mock.Anything).Return(first, nil).Once()
	source.EXPECT().Collect(mock.Anything).Return(second, nil).Once()
	backend := domain.NewMockPriorityBackend(t)
	allowBackend(backend)

	cfg := testConfig()
	cfg.Hysteresis.MinIntervalSec = 3600
	svc, registry := newTestService(t, cfg, source, backend)

	firstReport, err := svc.RunCycle(context.Background())
	require.NoError(t, err)
	secondReport, err := svc.RunCycle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.PriorityNormal, secondReport.Decisions["editor"].PriorityClass)
	assert.NotEqual(t, firstReport.PlanHash, secondReport.PlanHash)
	assert.Equal(t, 2, firstReport.ChangedPIDs, "every pid is new on the first cycle")
	assert.Equal(t, 1, secondReport.ChangedPIDs, "only the editor target moved")
	assert.Equal(t, 1.0, gatherValue(t, registry, "smoothtask_plan_changed_pids"))
	assert.Equal(t, 1, secondReport.Result.SkippedHysteresis, "editor changed class too soon")
	assert.Equal(t, 1, secondReport.Result.Applied, "misc keeps its class")
	assert.Equal(t, 1.0, gatherValue(t, registry, "smoothtask_group_class_changes_total"))
}

func TestPlanDigestIsStable(t *testing.T) {
	adjustments := []domain.PriorityAdjustment{
		{PID: 1, AppGroupID: "a", TargetClass: domain.PriorityNormal},
		{PID: 2, AppGroupID: "b", TargetClass: domain.PriorityIdle},
	}
	reversed := []domain.PriorityAdjustment{adjustments[1], adjustments[0]}

	assert.Equal(t, planDigest(adjustments).Root, planDigest(reversed).Root)
	assert.Equal(t, []string{"2"}, planDigest(adjustments[:1]).Changed(planDigest(adjustments)))
}
