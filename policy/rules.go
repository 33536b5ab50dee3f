package policy

import (
	"strings"

	"github.com/Gthulhu/smoothtask/config"
	"github.com/Gthulhu/smoothtask/domain"
)

const (
	reasonSystemProcess  = "guardrail: system process, leaving unchanged"
	reasonAudioXrun      = "guardrail: audio client with XRUN, protecting"
	reasonFocusedAudio   = "semantic: focused group with audio/game"
	reasonFocusedGUI     = "semantic: focused GUI group"
	reasonActiveTerminal = "semantic: active terminal with recent input"
	reasonBackgroundTask = "semantic: updater/indexer with active user"
	reasonNoisyNeighbour = "semantic: noisy neighbour throttling"
	reasonDefault        = "default: no rules matched"
	dynamicScalingMarker = "dynamic-scaling"
)

var systemExeMarkers = []string{"systemd", "journald", "udevd", "kernel"}

var backgroundTags = []string{"updater", "indexer", "maintenance"}

// isSystemProcess matches core system daemons by executable path or by a
// systemd owned system cgroup.
func isSystemProcess(p *domain.ProcessRecord) bool {
	if p.Exe != nil {
		exe := strings.ToLower(*p.Exe)
		for _, marker := range systemExeMarkers {
			if strings.Contains(exe, marker) {
				return true
			}
		}
	}
	if p.CgroupPath != nil {
		cg := *p.CgroupPath
		if strings.HasPrefix(cg, "/init.scope") {
			return true
		}
		if strings.HasPrefix(cg, "/system.slice") || strings.HasPrefix(cg, "/sys/fs/cgroup") {
			if strings.Contains(cg, "systemd") || strings.Contains(cg, "kernel") {
				return true
			}
		}
	}
	return false
}

func anyProcess(procs []*domain.ProcessRecord, match func(p *domain.ProcessRecord) bool) bool {
	for _, p := range procs {
		if match(p) {
			return true
		}
	}
	return false
}

func hasAudioXrun(snapshot *domain.Snapshot) bool {
	xruns := snapshot.Responsiveness.AudioXrunsDelta
	return xruns != nil && *xruns > 0
}

// isActiveTerminal reports an interactive terminal session with recent user input.
// Unknown time since last input does not disqualify the session.
func isActiveTerminal(procs []*domain.ProcessRecord, snapshot *domain.Snapshot, t config.ThresholdsConfig) bool {
	if !snapshot.Global.UserActive {
		return false
	}
	if ms := snapshot.Global.TimeSinceLastInputMs; ms != nil && t.UserIdleTimeoutSec > 0 {
		if *ms > uint64(t.UserIdleTimeoutSec)*1000 {
			return false
		}
	}
	return anyProcess(procs, func(p *domain.ProcessRecord) bool {
		return p.HasTTY && p.EnvTerm != nil
	})
}

func isBackgroundTask(g *domain.AppGroupRecord) bool {
	for _, tag := range backgroundTags {
		if g.HasTag(tag) {
			return true
		}
	}
	return false
}

func isNoisyNeighbour(g *domain.AppGroupRecord, snapshot *domain.Snapshot, t config.ThresholdsConfig) bool {
	return snapshot.Responsiveness.BadResponsiveness &&
		g.CPUShare() > t.NoisyNeighbourCPUShare &&
		!g.IsFocusedGroup
}

// ClassForPercentile maps a batch percentile to a class, scanning the
// thresholds from the highest class down. Percentiles below every threshold map to Idle.
func ClassForPercentile(percentile float64, t config.ThresholdsConfig) domain.PriorityClass {
	switch {
	case percentile >= t.CritInteractivePercentile:
		return domain.PriorityCritInteractive
	case percentile >= t.InteractivePercentile:
		return domain.PriorityInteractive
	case percentile >= t.NormalPercentile:
		return domain.PriorityNormal
	case percentile >= t.BackgroundPercentile:
		return domain.PriorityBackground
	default:
		return domain.PriorityIdle
	}
}
