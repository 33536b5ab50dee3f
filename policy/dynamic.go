package policy

import (
	"context"
	"math"
	"runtime"

	"github.com/Gthulhu/smoothtask/config"
	"github.com/Gthulhu/smoothtask/domain"
	"github.com/shirou/gopsutil/v3/cpu"
)

// LoadCategory buckets the continuous load level.
type LoadCategory int

const (
	LoadLow LoadCategory = iota
	LoadNormal
	LoadMedium
	LoadHigh
)

func (c LoadCategory) String() string {
	switch c {
	case LoadLow:
		return "low"
	case LoadNormal:
		return "normal"
	case LoadMedium:
		return "medium"
	case LoadHigh:
		return "high"
	}
	return "unknown"
}

// DynamicPriorityScaler downgrades mid-tier classes while the system is loaded.
// Interactive and CritInteractive are never touched and nothing is ever upgraded.
type DynamicPriorityScaler struct {
	cfg     config.DynamicConfig
	numCPUs int
}

// NewDynamicPriorityScaler uses cfg.NumCPUs when set and the logical CPU count otherwise.
func NewDynamicPriorityScaler(ctx context.Context, cfg config.DynamicConfig) *DynamicPriorityScaler {
	numCPUs := cfg.NumCPUs
	if numCPUs <= 0 {
		counted, err := cpu.CountsWithContext(ctx, true)
		if err != nil || counted <= 0 {
			counted = runtime.NumCPU()
		}
		numCPUs = counted
	}
	return &DynamicPriorityScaler{cfg: cfg, numCPUs: numCPUs}
}

func (s *DynamicPriorityScaler) NumCPUs() int {
	return s.numCPUs
}

// LoadLevel combines normalized load average, PSI pressure and memory usage into [0,1].
func (s *DynamicPriorityScaler) LoadLevel(g domain.GlobalMetrics) float64 {
	cpuLoad := 0.0
	if s.numCPUs > 0 {
		cpuLoad = math.Min(g.LoadAvgOne/float64(s.numCPUs), 1)
	}
	psiCPU := psiValue(g.PSICPUSomeAvg10)
	psiIO := psiValue(g.PSIIOSomeAvg10)
	psiMem := math.Max(psiValue(g.PSIMemSomeAvg10), psiValue(g.PSIMemFullAvg10))

	memRatio := 0.0
	if g.MemTotalKB > 0 && g.MemAvailableKB <= g.MemTotalKB {
		memRatio = float64(g.MemTotalKB-g.MemAvailableKB) / float64(g.MemTotalKB)
	}

	level := cpuLoad*0.4 + psiCPU*0.2 + psiIO*0.2 + psiMem*0.2 + memRatio*0.2
	return math.Max(0, math.Min(level, 1))
}

func psiValue(v *float64) float64 {
	if v == nil || math.IsNaN(*v) {
		return 0
	}
	return math.Max(0, math.Min(*v, 1))
}

func (s *DynamicPriorityScaler) Category(level float64) LoadCategory {
	switch {
	case level >= s.cfg.HighLoad:
		return LoadHigh
	case level >= s.cfg.MediumLoad:
		return LoadMedium
	case level >= s.cfg.NormalLoad:
		return LoadNormal
	default:
		return LoadLow
	}
}

// ScaleClass returns the class to use under the given load category.
// Medium load moves Normal to Background; high load also moves Background to Idle.
// Background is kept under medium load. Interactive classes are never demoted,
// so Background to Idle is the only step that separates high from medium load.
func ScaleClass(class domain.PriorityClass, category LoadCategory) domain.PriorityClass {
	switch category {
	case LoadMedium:
		if class == domain.PriorityNormal {
			return domain.PriorityBackground
		}
	case LoadHigh:
		switch class {
		case domain.PriorityNormal:
			return domain.PriorityBackground
		case domain.PriorityBackground:
			return domain.PriorityIdle
		}
	}
	return class
}

// ScalePriorities returns a new map with the classes adapted to the current load.
// Under low or normal load the result equals base.
func (s *DynamicPriorityScaler) ScalePriorities(base map[string]domain.PriorityClass, g domain.GlobalMetrics) map[string]domain.PriorityClass {
	category := s.Category(s.LoadLevel(g))
	scaled := make(map[string]domain.PriorityClass, len(base))
	for id, class := range base {
		scaled[id] = ScaleClass(class, category)
	}
	return scaled
}
