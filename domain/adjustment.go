package domain

// PriorityAdjustment is the actuation plan for one process.
type PriorityAdjustment struct {
	PID                int           `json:"pid"`
	AppGroupID         string        `json:"app_group_id"`
	TargetClass        PriorityClass `json:"target_class"`
	CurrentNice        *int          `json:"current_nice,omitempty"`
	TargetNice         int           `json:"target_nice"`
	CurrentLatencyNice *int          `json:"current_latency_nice,omitempty"`
	TargetLatencyNice  int           `json:"target_latency_nice"`
	CurrentIONice      *IOPriority   `json:"current_ionice,omitempty"`
	TargetIONice       IOPriority    `json:"target_ionice"`
	CurrentCPUWeight   *int          `json:"current_cpu_weight,omitempty"`
	TargetCPUWeight    int           `json:"target_cpu_weight"`
	Reason             string        `json:"reason"`
}

// Unchanged reports whether the known current values already equal their targets.
// The current nice value must be known; the other values are compared only when known.
func (a *PriorityAdjustment) Unchanged() bool {
	if a.CurrentNice == nil || *a.CurrentNice != a.TargetNice {
		return false
	}
	if a.CurrentLatencyNice != nil && *a.CurrentLatencyNice != a.TargetLatencyNice {
		return false
	}
	if a.CurrentIONice != nil && *a.CurrentIONice != a.TargetIONice {
		return false
	}
	if a.CurrentCPUWeight != nil && *a.CurrentCPUWeight != a.TargetCPUWeight {
		return false
	}
	return true
}

// ApplyResult summarizes one application pass.
type ApplyResult struct {
	Applied           int `json:"applied"`
	SkippedHysteresis int `json:"skipped_hysteresis"`
	Errors            int `json:"errors"`
}

// Add accumulates another result into r.
func (r *ApplyResult) Add(other ApplyResult) {
	r.Applied += other.Applied
	r.SkippedHysteresis += other.SkippedHysteresis
	r.Errors += other.Errors
}
