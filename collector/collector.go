package collector

import (
	"context"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Gthulhu/smoothtask/config"
	"github.com/Gthulhu/smoothtask/domain"
	"github.com/Gthulhu/smoothtask/pkg/logger"
	pkgerrors "github.com/pkg/errors"
	"github.com/prometheus/procfs"
)

const (
	userHZ = 100
	mib    = 1024 * 1024
)

type cpuTotals struct {
	busy  float64
	total float64
	user  float64
	sys   float64
	idle  float64
	wait  float64
}

// ProcCollector builds snapshots from a procfs mount. CPU shares need two
// consecutive samples and stay unknown on the first call.
type ProcCollector struct {
	fs         procfs.FS
	cfg        config.CollectorConfig
	thresholds config.ThresholdsConfig
	numCPUs    int
	now        func() time.Time
	// managedParent is the cgroup path, relative to the hierarchy root, below
	// which per-application cgroups are created.
	managedParent string

	mu       sync.Mutex
	seq      uint64
	prevAt   time.Time
	prevCPU  map[int]float64
	prevStat *cpuTotals
}

func NewProcCollector(cfg config.CollectorConfig, thresholds config.ThresholdsConfig, numCPUs int) (*ProcCollector, error) {
	fs, err := procfs.NewFS(cfg.ProcRoot)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "open procfs at %s", cfg.ProcRoot)
	}
	if numCPUs <= 0 {
		numCPUs = 1
	}
	return &ProcCollector{
		fs:         fs,
		cfg:        cfg,
		thresholds: thresholds,
		numCPUs:    numCPUs,
		now:        time.Now,
		prevCPU:    map[int]float64{},
	}, nil
}

// WithManagedCgroupParent makes processes that were moved into per-application
// cgroups below parent keep the group id they had before the move.
func (c *ProcCollector) WithManagedCgroupParent(parent string) *ProcCollector {
	c.managedParent = strings.Trim(parent, "/")
	return c
}

// WithClock replaces the wall clock, for tests.
func (c *ProcCollector) WithClock(now func() time.Time) *ProcCollector {
	c.now = now
	return c
}

func (c *ProcCollector) Collect(ctx context.Context) (*domain.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.seq++
	snapshot := &domain.Snapshot{
		SnapshotID: c.seq,
		Timestamp:  now,
	}

	global, bootTime, err := c.collectGlobal(ctx)
	if err != nil {
		return nil, err
	}
	snapshot.Global = global

	procs, err := c.fs.AllProcs()
	if err != nil {
		return nil, pkgerrors.Wrap(err, "list processes")
	}

	elapsed := 0.0
	if !c.prevAt.IsZero() {
		elapsed = now.Sub(c.prevAt).Seconds()
	}
	currentCPU := make(map[int]float64, len(procs))

	for _, proc := range procs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, cpuSeconds, ok := c.collectProcess(ctx, proc, now, bootTime)
		if !ok {
			continue
		}
		currentCPU[record.PID] = cpuSeconds
		if prev, seen := c.prevCPU[record.PID]; seen && elapsed > 0 {
			share := clamp01((cpuSeconds - prev) / (elapsed * float64(c.numCPUs)))
			record.CPUShare1s = &share
		}
		snapshot.Processes = append(snapshot.Processes, record)
	}
	c.prevCPU = currentCPU
	c.prevAt = now

	snapshot.AppGroups = buildGroups(snapshot.Processes)
	snapshot.Responsiveness = c.responsiveness(snapshot.Global)

	logger.Logger(ctx).Debug().
		Uint64("snapshot_id", snapshot.SnapshotID).
		Int("processes", len(snapshot.Processes)).
		Int("app_groups", len(snapshot.AppGroups)).
		Msg("snapshot collected")
	return snapshot, nil
}

func (c *ProcCollector) collectGlobal(ctx context.Context) (domain.GlobalMetrics, uint64, error) {
	log := logger.Logger(ctx)
	global := domain.GlobalMetrics{UserActive: c.cfg.AssumeUserActive}

	load, err := c.fs.LoadAvg()
	if err != nil {
		return global, 0, pkgerrors.Wrap(err, "read loadavg")
	}
	global.LoadAvgOne, global.LoadAvgFive, global.LoadAvgFifteen = load.Load1, load.Load5, load.Load15

	if mem, err := c.fs.Meminfo(); err == nil {
		total, avail := deref(mem.MemTotal), deref(mem.MemAvailable)
		global.MemTotalKB = total
		global.MemAvailableKB = avail
		if total > avail {
			global.MemUsedKB = total - avail
		}
		global.SwapTotalKB = deref(mem.SwapTotal)
		if free := deref(mem.SwapFree); global.SwapTotalKB > free {
			global.SwapUsedKB = global.SwapTotalKB - free
		}
	} else {
		log.Debug().Err(err).Msg("meminfo unavailable")
	}

	if cpu, err := c.fs.PSIStatsForResource("cpu"); err == nil && cpu.Some != nil {
		global.PSICPUSomeAvg10 = ratio(cpu.Some.Avg10)
		global.PSICPUSomeAvg60 = ratio(cpu.Some.Avg60)
	}
	if io, err := c.fs.PSIStatsForResource("io"); err == nil && io.Some != nil {
		global.PSIIOSomeAvg10 = ratio(io.Some.Avg10)
	}
	if mem, err := c.fs.PSIStatsForResource("memory"); err == nil {
		if mem.Some != nil {
			global.PSIMemSomeAvg10 = ratio(mem.Some.Avg10)
		}
		if mem.Full != nil {
			global.PSIMemFullAvg10 = ratio(mem.Full.Avg10)
		}
	}

	var bootTime uint64
	if stat, err := c.fs.Stat(); err == nil {
		bootTime = stat.BootTime
		c.fillCPU(&global, stat.CPUTotal)
	} else {
		log.Debug().Err(err).Msg("stat unavailable")
	}
	return global, bootTime, nil
}

// fillCPU derives CPU time fractions since the previous sample, or since boot on the first one.
func (c *ProcCollector) fillCPU(global *domain.GlobalMetrics, cpu procfs.CPUStat) {
	cur := cpuTotals{
		user: cpu.User + cpu.Nice,
		sys:  cpu.System + cpu.IRQ + cpu.SoftIRQ,
		idle: cpu.Idle,
		wait: cpu.Iowait,
	}
	cur.total = cur.user + cur.sys + cur.idle + cur.wait + cpu.Steal
	delta := cur
	if prev := c.prevStat; prev != nil && cur.total > prev.total {
		delta = cpuTotals{
			user:  cur.user - prev.user,
			sys:   cur.sys - prev.sys,
			idle:  cur.idle - prev.idle,
			wait:  cur.wait - prev.wait,
			total: cur.total - prev.total,
		}
	}
	c.prevStat = &cur
	if delta.total <= 0 {
		return
	}
	global.CPUUser = delta.user / delta.total
	global.CPUSystem = delta.sys / delta.total
	global.CPUIdle = delta.idle / delta.total
	global.CPUIOWait = delta.wait / delta.total
}

func (c *ProcCollector) collectProcess(ctx context.Context, proc procfs.Proc, now time.Time, bootTime uint64) (domain.ProcessRecord, float64, bool) {
	stat, err := proc.Stat()
	if err != nil {
		// exited between listing and reading
		logger.Logger(ctx).Trace().Err(err).Int("pid", proc.PID).Msg("skip process")
		return domain.ProcessRecord{}, 0, false
	}
	nice := stat.Nice
	record := domain.ProcessRecord{
		PID:       stat.PID,
		PPID:      stat.PPID,
		State:     stat.State,
		StartTime: stat.Starttime,
		TTYNr:     stat.TTY,
		HasTTY:    stat.TTY != 0,
		Nice:      &nice,
	}
	if bootTime > 0 {
		started := bootTime + stat.Starttime/userHZ
		if n := uint64(now.Unix()); n > started {
			record.UptimeSec = n - started
		}
	}

	if exe, err := proc.Executable(); err == nil && exe != "" {
		record.Exe = &exe
	}
	if args, err := proc.CmdLine(); err == nil && len(args) > 0 {
		cmdline := strings.Join(args, " ")
		record.Cmdline = &cmdline
	}
	if status, err := proc.NewStatus(); err == nil {
		record.UID = uint32(status.UIDs[0])
		record.GID = uint32(status.GIDs[0])
		rss := status.VmRSS / mib
		swap := status.VmSwap / mib
		record.RSSMB = &rss
		record.SwapMB = &swap
	}
	if io, err := proc.IO(); err == nil {
		read, write := io.ReadBytes, io.WriteBytes
		record.IOReadBytes = &read
		record.IOWriteBytes = &write
	}
	if cgroups, err := proc.Cgroups(); err == nil {
		for _, cg := range cgroups {
			if cg.HierarchyID != 0 {
				continue
			}
			cgPath := cg.Path
			record.CgroupPath = &cgPath
			if id, ok := c.managedGroup(cgPath); ok {
				record.SystemdUnit = &id
				record.AppGroupID = &id
			} else if unit := systemdUnit(cgPath); unit != "" {
				record.SystemdUnit = &unit
				record.AppGroupID = &unit
			}
		}
	}
	if env, err := proc.Environ(); err == nil {
		applyEnv(&record, env)
	}
	record.Tags = c.matchTags(record.Exe, stat.Comm)

	return record, stat.CPUTime(), true
}

func applyEnv(record *domain.ProcessRecord, env []string) {
	for _, kv := range env {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		switch key {
		case "DISPLAY":
			record.EnvHasDisplay = value != ""
		case "WAYLAND_DISPLAY":
			record.EnvHasWayland = value != ""
		case "TERM":
			term := value
			record.EnvTerm = &term
		case "SSH_CONNECTION", "SSH_TTY":
			record.EnvSSH = true
		}
	}
}

// matchTags compares the executable basename and comm with the configured patterns.
func (c *ProcCollector) matchTags(exe *string, comm string) []string {
	var names []string
	if exe != nil {
		names = append(names, filepath.Base(*exe))
	}
	if comm != "" {
		names = append(names, comm)
	}
	var tags []string
	for tag, patterns := range c.cfg.TagPatterns {
		if matchesAny(names, patterns) {
			tags = append(tags, tag)
		}
	}
	sort.Strings(tags)
	return tags
}

func matchesAny(names []string, patterns []string) bool {
	for _, name := range names {
		for _, pattern := range patterns {
			if name == pattern {
				return true
			}
			// comm is truncated to 15 bytes by the kernel
			if len(name) == 15 && strings.HasPrefix(pattern, name) {
				return true
			}
		}
	}
	return false
}

func (c *ProcCollector) responsiveness(global domain.GlobalMetrics) domain.ResponsivenessMetrics {
	var bad bool
	if v := global.PSICPUSomeAvg10; v != nil && *v > c.thresholds.PSICPUSomeHigh {
		bad = true
	}
	if v := global.PSIIOSomeAvg10; v != nil && *v > c.thresholds.PSIIOSomeHigh {
		bad = true
	}
	return domain.ResponsivenessMetrics{BadResponsiveness: bad}
}

// managedGroup decodes the group id of a cgroup created below the managed parent.
func (c *ProcCollector) managedGroup(cgPath string) (string, bool) {
	if c.managedParent == "" {
		return "", false
	}
	dir, leaf := path.Split(cgPath)
	if path.Clean(dir) != "/"+c.managedParent {
		return "", false
	}
	return domain.ParseAppCgroupName(leaf)
}

// systemdUnit returns the leaf of a cgroup path when it is a systemd scope or service.
func systemdUnit(cgPath string) string {
	leaf := path.Base(cgPath)
	if strings.HasSuffix(leaf, ".scope") || strings.HasSuffix(leaf, ".service") {
		return leaf
	}
	return ""
}

var unitInstanceSuffix = regexp.MustCompile(`-[0-9]+$`)

// appName strips the systemd decoration from a unit name:
// app-gnome-firefox-4321.scope becomes gnome-firefox.
func appName(unit string) string {
	name := strings.TrimSuffix(strings.TrimSuffix(unit, ".scope"), ".service")
	name = strings.TrimPrefix(name, "app-")
	name = unitInstanceSuffix.ReplaceAllString(name, "")
	if i := strings.LastIndex(name, "@"); i > 0 {
		name = name[:i]
	}
	return name
}

func buildGroups(processes []domain.ProcessRecord) []domain.AppGroupRecord {
	index := map[string]int{}
	var groups []domain.AppGroupRecord
	members := map[string]map[int]bool{}

	for i := range processes {
		p := &processes[i]
		if p.AppGroupID == nil {
			continue
		}
		id := *p.AppGroupID
		pos, ok := index[id]
		if !ok {
			name := appName(id)
			pos = len(groups)
			index[id] = pos
			groups = append(groups, domain.AppGroupRecord{AppGroupID: id, AppName: &name})
			members[id] = map[int]bool{}
		}
		g := &groups[pos]
		g.ProcessIDs = append(g.ProcessIDs, p.PID)
		members[id][p.PID] = true
		if p.CPUShare1s != nil {
			g.TotalCPUShare = addFloat(g.TotalCPUShare, *p.CPUShare1s)
		}
		if p.IOReadBytes != nil {
			g.TotalIOReadBytes = addUint(g.TotalIOReadBytes, *p.IOReadBytes)
		}
		if p.IOWriteBytes != nil {
			g.TotalIOWriteBytes = addUint(g.TotalIOWriteBytes, *p.IOWriteBytes)
		}
		if p.RSSMB != nil {
			g.TotalRSSMB = addUint(g.TotalRSSMB, *p.RSSMB)
		}
		g.HasGUIWindow = g.HasGUIWindow || p.HasGUIWindow
		g.IsFocusedGroup = g.IsFocusedGroup || p.IsFocusedWindow
		g.Tags = mergeTags(g.Tags, p.Tags)
	}

	parents := make(map[int]int, len(processes))
	for i := range processes {
		parents[processes[i].PID] = processes[i].PPID
	}
	// the root is the lowest pid whose parent lives outside the group
	for gi := range groups {
		g := &groups[gi]
		for _, pid := range g.ProcessIDs {
			if members[g.AppGroupID][parents[pid]] {
				continue
			}
			if g.RootPID == 0 || pid < g.RootPID {
				g.RootPID = pid
			}
		}
		if g.TotalCPUShare != nil {
			share := clamp01(*g.TotalCPUShare)
			g.TotalCPUShare = &share
		}
	}
	return groups
}

func mergeTags(dst, src []string) []string {
	for _, tag := range src {
		found := false
		for _, have := range dst {
			if have == tag {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, tag)
		}
	}
	return dst
}

func addFloat(acc *float64, v float64) *float64 {
	sum := v
	if acc != nil {
		sum += *acc
	}
	return &sum
}

func addUint(acc *uint64, v uint64) *uint64 {
	sum := v
	if acc != nil {
		sum += *acc
	}
	return &sum
}

func ratio(percent float64) *float64 {
	v := clamp01(percent / 100)
	return &v
}

func deref(v *uint64) uint64 {
	if v == nil {
		return 0
	}
	return *v
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
