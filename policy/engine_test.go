package policy

import (
	"context"
	"testing"

	"github.com/Gthulhu/smoothtask/config"
	"github.com/Gthulhu/smoothtask/domain"
	"github.com/Gthulhu/smoothtask/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

func newProcess(pid int, groupID string) domain.ProcessRecord {
	return domain.ProcessRecord{
		PID:        pid,
		PPID:       1,
		Exe:        ptr("/usr/bin/app"),
		CgroupPath: ptr("/user.slice/user-1000.slice/app.scope"),
		AppGroupID: ptr(groupID),
		State:      "S",
	}
}

func newSnapshot(groups []domain.AppGroupRecord, procs []domain.ProcessRecord) *domain.Snapshot {
	return &domain.Snapshot{
		SnapshotID: 1,
		Global: domain.GlobalMetrics{
			MemTotalKB:     16_000_000,
			MemAvailableKB: 12_000_000,
			LoadAvgOne:     0.5,
			UserActive:     true,
		},
		Processes: procs,
		AppGroups: groups,
	}
}

func newRulesEngine() *Engine {
	return NewEngine(config.DefaultConfig().Thresholds, nil, nil)
}

func TestEvaluateFocusedGUIGroup(t *testing.T) {
	logger.InitLogger()
	snapshot := newSnapshot(
		[]domain.AppGroupRecord{{AppGroupID: "editor", HasGUIWindow: true, IsFocusedGroup: true}},
		[]domain.ProcessRecord{newProcess(100, "editor")},
	)

	results := newRulesEngine().EvaluateSnapshot(context.Background(), snapshot)
	require.Contains(t, results, "editor")
	assert.Equal(t, domain.PriorityInteractive, results["editor"].PriorityClass)
	assert.Contains(t, results["editor"].Reason, "focused GUI")
	assert.Equal(t, domain.SourceSemantic, results["editor"].Source)
}

func TestEvaluateDefaultWithoutRanker(t *testing.T) {
	snapshot := newSnapshot(
		[]domain.AppGroupRecord{{AppGroupID: "misc"}},
		[]domain.ProcessRecord{newProcess(100, "misc")},
	)

	results := newRulesEngine().EvaluateSnapshot(context.Background(), snapshot)
	assert.Equal(t, domain.PriorityNormal, results["misc"].PriorityClass)
	assert.Contains(t, results["misc"].Reason, "default")
	assert.Equal(t, config.PolicyModeRulesOnly, newRulesEngine().Mode())
}

func TestEvaluateEmptySnapshot(t *testing.T) {
	results := newRulesEngine().EvaluateSnapshot(context.Background(), &domain.Snapshot{})
	assert.Empty(t, results)
}

func TestSystemProcessGuardrailBeatsRanker(t *testing.T) {
	systemd := newProcess(1, "init")
	systemd.Exe = ptr("/usr/lib/systemd/systemd")
	snapshot := newSnapshot(
		[]domain.AppGroupRecord{{AppGroupID: "init", HasGUIWindow: true, IsFocusedGroup: true, Tags: []string{"game"}}},
		[]domain.ProcessRecord{systemd},
	)

	ranker := domain.NewMockRanker(t)
	ranker.EXPECT().Rank(mock.Anything, mock.Anything).Return(map[string]domain.RankingResult{
		"init": {Score: 1, Percentile: 1, Rank: 1},
	}).Once()
	engine := NewEngine(config.DefaultConfig().Thresholds, ranker, nil)

	results := engine.EvaluateSnapshot(context.Background(), snapshot)
	assert.Equal(t, domain.PriorityNormal, results["init"].PriorityClass)
	assert.Contains(t, results["init"].Reason, "system process")
	assert.Equal(t, domain.SourceGuardrail, results["init"].Source)
}

func TestIsSystemProcess(t *testing.T) {
	tests := []struct {
		name   string
		exe    *string
		cgroup *string
		want   bool
	}{
		{"journald exe", ptr("/usr/lib/systemd/systemd-journald"), nil, true},
		{"udevd exe upper case", ptr("/SBIN/UDEVD"), nil, true},
		{"system slice systemd unit", ptr("/usr/sbin/foo"), ptr("/system.slice/systemd-logind.service"), true},
		{"init scope", nil, ptr("/init.scope"), true},
		{"plain system service", ptr("/usr/sbin/cupsd"), ptr("/system.slice/cups.service"), false},
		{"user app", ptr("/usr/bin/firefox"), ptr("/user.slice/user-1000.slice/app-firefox.scope"), false},
		{"nothing known", nil, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &domain.ProcessRecord{PID: 1, Exe: tt.exe, CgroupPath: tt.cgroup}
			assert.Equal(t, tt.want, isSystemProcess(p))
		})
	}
}

func TestAudioXrunGuardrail(t *testing.T) {
	player := newProcess(200, "player")
	player.IsAudioClient = true
	player.HasActiveStream = true
	snapshot := newSnapshot(
		[]domain.AppGroupRecord{{AppGroupID: "player", TotalCPUShare: ptr(0.9)}},
		[]domain.ProcessRecord{player},
	)
	snapshot.Responsiveness = domain.ResponsivenessMetrics{AudioXrunsDelta: ptr(uint64(3)), BadResponsiveness: true}

	results := newRulesEngine().EvaluateSnapshot(context.Background(), snapshot)
	assert.Equal(t, domain.PriorityInteractive, results["player"].PriorityClass)
	assert.Contains(t, results["player"].Reason, "XRUN")

	snapshot.Responsiveness.AudioXrunsDelta = ptr(uint64(0))
	results = newRulesEngine().EvaluateSnapshot(context.Background(), snapshot)
	assert.Equal(t, domain.PriorityBackground, results["player"].PriorityClass, "without xruns the noisy neighbour rule applies")
}

func TestFocusedAudioOrGameIsCritical(t *testing.T) {
	player := newProcess(300, "player")
	player.IsAudioClient = true
	player.HasActiveStream = true
	snapshot := newSnapshot(
		[]domain.AppGroupRecord{
			{AppGroupID: "player", HasGUIWindow: true, IsFocusedGroup: true},
			{AppGroupID: "game", IsFocusedGroup: true, Tags: []string{"game"}},
			{AppGroupID: "muted", IsFocusedGroup: true},
		},
		[]domain.ProcessRecord{player, newProcess(301, "game"), newProcess(302, "muted")},
	)

	results := newRulesEngine().EvaluateSnapshot(context.Background(), snapshot)
	assert.Equal(t, domain.PriorityCritInteractive, results["player"].PriorityClass)
	assert.Equal(t, domain.PriorityCritInteractive, results["game"].PriorityClass)
	assert.Contains(t, results["game"].Reason, "audio/game")
	assert.Equal(t, domain.PriorityNormal, results["muted"].PriorityClass, "focus without GUI, audio or game tag matches nothing")
}

func TestActiveTerminal(t *testing.T) {
	shell := newProcess(400, "term")
	shell.HasTTY = true
	shell.EnvTerm = ptr("xterm-256color")
	snapshot := newSnapshot(
		[]domain.AppGroupRecord{{AppGroupID: "term"}},
		[]domain.ProcessRecord{shell},
	)
	snapshot.Global.TimeSinceLastInputMs = ptr(uint64(5_000))

	results := newRulesEngine().EvaluateSnapshot(context.Background(), snapshot)
	assert.Equal(t, domain.PriorityInteractive, results["term"].PriorityClass)
	assert.Contains(t, results["term"].Reason, "active terminal")

	snapshot.Global.TimeSinceLastInputMs = ptr(uint64(121_000))
	results = newRulesEngine().EvaluateSnapshot(context.Background(), snapshot)
	assert.Equal(t, domain.PriorityNormal, results["term"].PriorityClass, "idle for longer than the timeout")

	snapshot.Global.TimeSinceLastInputMs = nil
	snapshot.Global.UserActive = false
	results = newRulesEngine().EvaluateSnapshot(context.Background(), snapshot)
	assert.Equal(t, domain.PriorityNormal, results["term"].PriorityClass, "inactive user")
}

func TestUpdaterWithActiveUser(t *testing.T) {
	snapshot := newSnapshot(
		[]domain.AppGroupRecord{
			{AppGroupID: "packagekit", Tags: []string{"updater"}},
			{AppGroupID: "tracker", Tags: []string{"indexer"}},
		},
		[]domain.ProcessRecord{newProcess(500, "packagekit"), newProcess(501, "tracker")},
	)

	results := newRulesEngine().EvaluateSnapshot(context.Background(), snapshot)
	assert.Equal(t, domain.PriorityBackground, results["packagekit"].PriorityClass)
	assert.Equal(t, domain.PriorityBackground, results["tracker"].PriorityClass)
	assert.Contains(t, results["tracker"].Reason, "updater/indexer")

	snapshot.Global.UserActive = false
	results = newRulesEngine().EvaluateSnapshot(context.Background(), snapshot)
	assert.Equal(t, domain.PriorityNormal, results["packagekit"].PriorityClass)
}

func TestNoisyNeighbour(t *testing.T) {
	snapshot := newSnapshot(
		[]domain.AppGroupRecord{
			{AppGroupID: "build", TotalCPUShare: ptr(0.85)},
			{AppGroupID: "focused-build", TotalCPUShare: ptr(0.85), IsFocusedGroup: true},
			{AppGroupID: "light", TotalCPUShare: ptr(0.2)},
		},
		[]domain.ProcessRecord{newProcess(600, "build"), newProcess(601, "focused-build"), newProcess(602, "light")},
	)
	snapshot.Responsiveness.BadResponsiveness = true

	results := newRulesEngine().EvaluateSnapshot(context.Background(), snapshot)
	assert.Equal(t, domain.PriorityBackground, results["build"].PriorityClass)
	assert.Contains(t, results["build"].Reason, "noisy neighbour")
	assert.Equal(t, domain.PriorityNormal, results["focused-build"].PriorityClass)
	assert.Equal(t, domain.PriorityNormal, results["light"].PriorityClass)
}

func TestRankerPercentileFallback(t *testing.T) {
	groups := []domain.AppGroupRecord{{AppGroupID: "a"}, {AppGroupID: "b"}, {AppGroupID: "c"}, {AppGroupID: "unranked"}}
	snapshot := newSnapshot(groups, []domain.ProcessRecord{
		newProcess(1000, "a"), newProcess(1001, "b"), newProcess(1002, "c"), newProcess(1003, "unranked"),
	})

	ranker := domain.NewMockRanker(t)
	ranker.EXPECT().Rank(groups, snapshot).Return(map[string]domain.RankingResult{
		"a": {Score: 0.97, Percentile: 0.95, Rank: 1},
		"b": {Score: 0.60, Percentile: 0.5, Rank: 2},
		"c": {Score: 0.10, Percentile: 0.05, Rank: 3},
	}).Once()
	engine := NewEngine(config.DefaultConfig().Thresholds, ranker, nil)
	assert.Equal(t, config.PolicyModeHybrid, engine.Mode())

	results := engine.EvaluateSnapshot(context.Background(), snapshot)
	assert.Equal(t, domain.PriorityCritInteractive, results["a"].PriorityClass)
	assert.Equal(t, "ranker: percentile=0.95 score=0.97 rank=1", results["a"].Reason)
	assert.Equal(t, domain.PriorityNormal, results["b"].PriorityClass)
	assert.Equal(t, domain.PriorityIdle, results["c"].PriorityClass)
	assert.Equal(t, domain.SourceRanker, results["c"].Source)
	assert.Equal(t, domain.SourceDefault, results["unranked"].Source)
}

func TestClassForPercentile(t *testing.T) {
	thresholds := config.ThresholdsConfig{
		CritInteractivePercentile: 0.9,
		InteractivePercentile:     0.6,
		NormalPercentile:          0.3,
		BackgroundPercentile:      0.1,
	}
	assert.Equal(t, domain.PriorityCritInteractive, ClassForPercentile(0.95, thresholds))
	assert.Equal(t, domain.PriorityCritInteractive, ClassForPercentile(0.9, thresholds))
	assert.Equal(t, domain.PriorityInteractive, ClassForPercentile(0.6, thresholds))
	assert.Equal(t, domain.PriorityNormal, ClassForPercentile(0.5, thresholds))
	assert.Equal(t, domain.PriorityBackground, ClassForPercentile(0.1, thresholds))
	assert.Equal(t, domain.PriorityIdle, ClassForPercentile(0.05, thresholds))
}

func TestClassForPercentileIsMonotonic(t *testing.T) {
	tables := []config.ThresholdsConfig{
		{CritInteractivePercentile: 0.9, InteractivePercentile: 0.6, NormalPercentile: 0.3, BackgroundPercentile: 0.1},
		{CritInteractivePercentile: 0.5, InteractivePercentile: 0.5, NormalPercentile: 0.5, BackgroundPercentile: 0.5},
		{CritInteractivePercentile: 1.0, InteractivePercentile: 0.75, NormalPercentile: 0.0, BackgroundPercentile: 0.0},
		{CritInteractivePercentile: 0.99, InteractivePercentile: 0.01, NormalPercentile: 0.005, BackgroundPercentile: 0.001},
	}
	for _, thresholds := range tables {
		prev := domain.PriorityIdle
		for i := 0; i <= 1000; i++ {
			class := ClassForPercentile(float64(i)/1000, thresholds)
			assert.GreaterOrEqual(t, class, prev, "class must not decrease at percentile %v with %+v", float64(i)/1000, thresholds)
			prev = class
		}
	}
}
