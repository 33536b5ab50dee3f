package actuator

import (
	"fmt"

	"github.com/Gthulhu/smoothtask/config"
	"github.com/Gthulhu/smoothtask/domain"
)

const (
	minNice        = -20
	maxNice        = 19
	ioprioClassMax = 3
	ioprioLevelMax = 7
)

// OSBackend pushes priorities to the running kernel.
type OSBackend struct {
	cgroups     *CgroupManager
	latencyNice bool
}

// NewOSBackend builds the kernel backend. Cgroup weights are disabled when the
// configured root is not a cgroup v2 hierarchy.
func NewOSBackend(cfg config.ActuatorConfig, procRoot string) (*OSBackend, error) {
	b := &OSBackend{latencyNice: cfg.EnableLatencyNice}
	if cfg.EnableCgroups {
		root, err := DetectCgroupV2Root(cfg.CgroupRoot)
		if err != nil {
			return nil, err
		}
		b.cgroups = NewCgroupManager(root, cfg.CgroupParent, procRoot)
	}
	return b, nil
}

func (b *OSBackend) Cgroups() *CgroupManager {
	return b.cgroups
}

func (b *OSBackend) SetNice(pid int, nice int) error {
	if nice < minNice || nice > maxNice {
		return fmt.Errorf("nice %d outside [%d, %d]", nice, minNice, maxNice)
	}
	if err := setNice(pid, nice); err != nil {
		return classifyErrno(err)
	}
	return nil
}

func (b *OSBackend) SetLatencyNice(pid int, latencyNice int) error {
	if !b.latencyNice {
		return domain.ErrUnsupported
	}
	if latencyNice < minNice || latencyNice > maxNice {
		return fmt.Errorf("latency_nice %d outside [%d, %d]", latencyNice, minNice, maxNice)
	}
	if err := setLatencyNice(pid, latencyNice); err != nil {
		return classifyErrno(err)
	}
	return nil
}

func (b *OSBackend) SetIOPriority(pid int, prio domain.IOPriority) error {
	if prio.Class < 0 || prio.Class > ioprioClassMax || prio.Level < 0 || prio.Level > ioprioLevelMax {
		return fmt.Errorf("ionice class %d level %d out of range", prio.Class, prio.Level)
	}
	if err := setIOPriority(pid, prio); err != nil {
		return classifyErrno(err)
	}
	return nil
}

func (b *OSBackend) SetCPUWeight(pid int, appGroupID string, weight int) error {
	if b.cgroups == nil {
		return domain.ErrUnsupported
	}
	return b.cgroups.SetWeight(pid, appGroupID, weight)
}

// encodeIOPriority packs class and level the way ioprio_set expects them.
func encodeIOPriority(prio domain.IOPriority) int {
	return prio.Class<<ioprioClassShift | prio.Level
}

func decodeIOPriority(v int) domain.IOPriority {
	return domain.IOPriority{Class: (v >> ioprioClassShift) & 0x3, Level: v & 0xff}
}

const ioprioClassShift = 13
