package domain

import "time"

// Snapshot is the read-only input of one evaluation cycle.
type Snapshot struct {
	SnapshotID     uint64                `json:"snapshot_id"`
	Timestamp      time.Time             `json:"timestamp"`
	Global         GlobalMetrics         `json:"global"`
	Processes      []ProcessRecord       `json:"processes"`
	AppGroups      []AppGroupRecord      `json:"app_groups"`
	Responsiveness ResponsivenessMetrics `json:"responsiveness"`
}

// GlobalMetrics holds system wide metrics. PSI values are ratios in [0,1].
type GlobalMetrics struct {
	CPUUser   float64 `json:"cpu_user"`
	CPUSystem float64 `json:"cpu_system"`
	CPUIdle   float64 `json:"cpu_idle"`
	CPUIOWait float64 `json:"cpu_iowait"`

	MemTotalKB     uint64 `json:"mem_total_kb"`
	MemUsedKB      uint64 `json:"mem_used_kb"`
	MemAvailableKB uint64 `json:"mem_available_kb"`
	SwapTotalKB    uint64 `json:"swap_total_kb"`
	SwapUsedKB     uint64 `json:"swap_used_kb"`

	LoadAvgOne     float64 `json:"load_avg_one"`
	LoadAvgFive    float64 `json:"load_avg_five"`
	LoadAvgFifteen float64 `json:"load_avg_fifteen"`

	PSICPUSomeAvg10 *float64 `json:"psi_cpu_some_avg10,omitempty"`
	PSICPUSomeAvg60 *float64 `json:"psi_cpu_some_avg60,omitempty"`
	PSIIOSomeAvg10  *float64 `json:"psi_io_some_avg10,omitempty"`
	PSIMemSomeAvg10 *float64 `json:"psi_mem_some_avg10,omitempty"`
	PSIMemFullAvg10 *float64 `json:"psi_mem_full_avg10,omitempty"`

	UserActive           bool    `json:"user_active"`
	TimeSinceLastInputMs *uint64 `json:"time_since_last_input_ms,omitempty"`
}

// ProcessRecord describes one OS process. Current priority fields are best-effort.
type ProcessRecord struct {
	PID          int      `json:"pid"`
	PPID         int      `json:"ppid"`
	UID          uint32   `json:"uid"`
	GID          uint32   `json:"gid"`
	Exe          *string  `json:"exe,omitempty"`
	Cmdline      *string  `json:"cmdline,omitempty"`
	CgroupPath   *string  `json:"cgroup_path,omitempty"`
	SystemdUnit  *string  `json:"systemd_unit,omitempty"`
	AppGroupID   *string  `json:"app_group_id,omitempty"`
	State        string   `json:"state"`
	StartTime    uint64   `json:"start_time"`
	UptimeSec    uint64   `json:"uptime_sec"`
	TTYNr        int      `json:"tty_nr"`
	HasTTY       bool     `json:"has_tty"`
	CPUShare1s   *float64 `json:"cpu_share_1s,omitempty"`
	CPUShare10s  *float64 `json:"cpu_share_10s,omitempty"`
	IOReadBytes  *uint64  `json:"io_read_bytes,omitempty"`
	IOWriteBytes *uint64  `json:"io_write_bytes,omitempty"`
	RSSMB        *uint64  `json:"rss_mb,omitempty"`
	SwapMB       *uint64  `json:"swap_mb,omitempty"`

	HasGUIWindow    bool     `json:"has_gui_window"`
	IsFocusedWindow bool     `json:"is_focused_window"`
	EnvHasDisplay   bool     `json:"env_has_display"`
	EnvHasWayland   bool     `json:"env_has_wayland"`
	EnvTerm         *string  `json:"env_term,omitempty"`
	EnvSSH          bool     `json:"env_ssh"`
	IsAudioClient   bool     `json:"is_audio_client"`
	HasActiveStream bool     `json:"has_active_stream"`
	ProcessType     *string  `json:"process_type,omitempty"`
	Tags            []string `json:"tags,omitempty"`

	Nice        *int        `json:"nice,omitempty"`
	LatencyNice *int        `json:"latency_nice,omitempty"`
	IONice      *IOPriority `json:"ionice,omitempty"`
	CPUWeight   *int        `json:"cpu_weight,omitempty"`
}

// IsActiveAudioClient reports whether the process currently plays or records audio.
func (p *ProcessRecord) IsActiveAudioClient() bool {
	return p.IsAudioClient && p.HasActiveStream
}

// AppGroupRecord is a cluster of processes sharing a logical root.
type AppGroupRecord struct {
	AppGroupID        string         `json:"app_group_id"`
	RootPID           int            `json:"root_pid"`
	ProcessIDs        []int          `json:"process_ids"`
	AppName           *string        `json:"app_name,omitempty"`
	TotalCPUShare     *float64       `json:"total_cpu_share,omitempty"`
	TotalIOReadBytes  *uint64        `json:"total_io_read_bytes,omitempty"`
	TotalIOWriteBytes *uint64        `json:"total_io_write_bytes,omitempty"`
	TotalRSSMB        *uint64        `json:"total_rss_mb,omitempty"`
	HasGUIWindow      bool           `json:"has_gui_window"`
	IsFocusedGroup    bool           `json:"is_focused_group"`
	Tags              []string       `json:"tags,omitempty"`
	PriorityClass     *PriorityClass `json:"priority_class,omitempty"`
}

// HasTag reports whether the group carries the tag.
func (g *AppGroupRecord) HasTag(tag string) bool {
	for _, t := range g.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// CPUShare returns the aggregated CPU share or 0 when unknown.
func (g *AppGroupRecord) CPUShare() float64 {
	if g.TotalCPUShare == nil {
		return 0
	}
	return *g.TotalCPUShare
}

// ResponsivenessMetrics are derived UX latency indicators.
type ResponsivenessMetrics struct {
	SchedLatencyP95Ms   *float64 `json:"sched_latency_p95_ms,omitempty"`
	SchedLatencyP99Ms   *float64 `json:"sched_latency_p99_ms,omitempty"`
	AudioXrunsDelta     *uint64  `json:"audio_xruns_delta,omitempty"`
	UILoopP95Ms         *float64 `json:"ui_loop_p95_ms,omitempty"`
	BadResponsiveness   bool     `json:"bad_responsiveness"`
	ResponsivenessScore *float64 `json:"responsiveness_score,omitempty"`
}

// ProcessesOf returns the snapshot processes that belong to the group, in snapshot order.
func (s *Snapshot) ProcessesOf(groupID string) []*ProcessRecord {
	var out []*ProcessRecord
	for i := range s.Processes {
		p := &s.Processes[i]
		if p.AppGroupID != nil && *p.AppGroupID == groupID {
			out = append(out, p)
		}
	}
	return out
}

// ActivePIDs returns the pids present in the snapshot.
func (s *Snapshot) ActivePIDs() []int {
	pids := make([]int, 0, len(s.Processes))
	for i := range s.Processes {
		pids = append(pids, s.Processes[i].PID)
	}
	return pids
}
