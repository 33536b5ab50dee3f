package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PriorityClass is a priority tier. Classes are totally ordered, Idle being the lowest.
type PriorityClass int

const (
	PriorityIdle PriorityClass = iota
	PriorityBackground
	PriorityNormal
	PriorityInteractive
	PriorityCritInteractive
)

// IOPriority is an ionice class/level pair.
// Class 1 is realtime, 2 best-effort and 3 idle; level 0 is the highest within a class.
type IOPriority struct {
	Class int `json:"class"`
	Level int `json:"level"`
}

// PriorityParams is the bundle of OS resource targets for a class.
type PriorityParams struct {
	Nice        int        `json:"nice"`
	LatencyNice int        `json:"latency_nice"`
	IONice      IOPriority `json:"ionice"`
	CPUWeight   int        `json:"cpu_weight"`
}

var priorityParams = [...]PriorityParams{
	PriorityIdle:            {Nice: 10, LatencyNice: 15, IONice: IOPriority{Class: 3, Level: 0}, CPUWeight: 25},
	PriorityBackground:      {Nice: 5, LatencyNice: 10, IONice: IOPriority{Class: 2, Level: 6}, CPUWeight: 50},
	PriorityNormal:          {Nice: 0, LatencyNice: 0, IONice: IOPriority{Class: 2, Level: 4}, CPUWeight: 100},
	PriorityInteractive:     {Nice: -4, LatencyNice: -10, IONice: IOPriority{Class: 2, Level: 2}, CPUWeight: 150},
	PriorityCritInteractive: {Nice: -8, LatencyNice: -15, IONice: IOPriority{Class: 2, Level: 0}, CPUWeight: 200},
}

var priorityNames = [...]string{
	PriorityIdle:            "IDLE",
	PriorityBackground:      "BACKGROUND",
	PriorityNormal:          "NORMAL",
	PriorityInteractive:     "INTERACTIVE",
	PriorityCritInteractive: "CRIT_INTERACTIVE",
}

// AllClasses returns every class from the highest to the lowest.
func AllClasses() []PriorityClass {
	return []PriorityClass{
		PriorityCritInteractive,
		PriorityInteractive,
		PriorityNormal,
		PriorityBackground,
		PriorityIdle,
	}
}

func (c PriorityClass) Valid() bool {
	return c >= PriorityIdle && c <= PriorityCritInteractive
}

// Params returns the static resource targets of the class.
// An out of range class falls back to the Normal bundle.
func (c PriorityClass) Params() PriorityParams {
	if !c.Valid() {
		return priorityParams[PriorityNormal]
	}
	return priorityParams[c]
}

func (c PriorityClass) String() string {
	if !c.Valid() {
		return fmt.Sprintf("PriorityClass(%d)", int(c))
	}
	return priorityNames[c]
}

// ParsePriorityClass accepts the upper-case names produced by String, case-insensitively.
func ParsePriorityClass(s string) (PriorityClass, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	name = strings.ReplaceAll(name, "-", "_")
	for c, n := range priorityNames {
		if n == name {
			return PriorityClass(c), nil
		}
	}
	return PriorityNormal, fmt.Errorf("%w: %q", ErrInvalidPriorityClass, s)
}

func (c PriorityClass) MarshalJSON() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPriorityClass, int(c))
	}
	return json.Marshal(c.String())
}

func (c *PriorityClass) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParsePriorityClass(name)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
