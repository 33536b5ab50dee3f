package actuator

import (
	"sort"
	"time"

	"github.com/Gthulhu/smoothtask/domain"
)

const (
	defaultMinInterval         = 5 * time.Second
	defaultMaxChangesPerWindow = 3
	defaultChangeWindow        = 60 * time.Second
)

type changeHistory struct {
	lastClass  domain.PriorityClass
	lastChange time.Time
	// transition times inside the current window, oldest first
	changes []time.Time
}

// HysteresisTracker rate limits class transitions per pid.
// It is not safe for concurrent use; one scheduling cycle owns it at a time.
type HysteresisTracker struct {
	minInterval time.Duration
	maxChanges  int
	window      time.Duration
	now         func() time.Time
	history     map[int]*changeHistory
}

func NewHysteresisTracker() *HysteresisTracker {
	return NewHysteresisTrackerWithParams(defaultMinInterval, defaultMaxChangesPerWindow)
}

// NewHysteresisTrackerWithParams counts changes over a 60s window, or over
// minInterval when that is longer.
func NewHysteresisTrackerWithParams(minInterval time.Duration, maxChangesPerWindow int) *HysteresisTracker {
	window := defaultChangeWindow
	if minInterval > window {
		window = minInterval
	}
	return &HysteresisTracker{
		minInterval: minInterval,
		maxChanges:  maxChangesPerWindow,
		window:      window,
		now:         time.Now,
		history:     make(map[int]*changeHistory),
	}
}

// WithWindow sets the length of the window recent changes are counted over.
func (t *HysteresisTracker) WithWindow(window time.Duration) *HysteresisTracker {
	if window > 0 {
		t.window = window
	}
	return t
}

// WithClock replaces the time source.
func (t *HysteresisTracker) WithClock(now func() time.Time) *HysteresisTracker {
	t.now = now
	return t
}

// ShouldApplyChange reports whether pid may move to class now. Processes without
// history and requests for the current class are always allowed.
func (t *HysteresisTracker) ShouldApplyChange(pid int, class domain.PriorityClass) bool {
	h, ok := t.history[pid]
	if !ok {
		return true
	}
	if h.lastClass == class {
		return true
	}
	now := t.now()
	if now.Sub(h.lastChange) < t.minInterval {
		return false
	}
	return t.recentChanges(h, now) < t.maxChanges
}

// RecordChange stores a transition of pid to class. Re-recording the current
// class is not a transition and leaves the history untouched.
func (t *HysteresisTracker) RecordChange(pid int, class domain.PriorityClass) {
	now := t.now()
	h, ok := t.history[pid]
	if !ok {
		t.history[pid] = &changeHistory{
			lastClass:  class,
			lastChange: now,
			changes:    []time.Time{now},
		}
		return
	}
	if h.lastClass == class {
		return
	}
	t.prune(h, now)
	h.lastClass = class
	h.lastChange = now
	h.changes = append(h.changes, now)
}

// Cleanup forgets every pid that is not in activePIDs.
func (t *HysteresisTracker) Cleanup(activePIDs []int) {
	active := make(map[int]struct{}, len(activePIDs))
	for _, pid := range activePIDs {
		active[pid] = struct{}{}
	}
	for pid := range t.history {
		if _, ok := active[pid]; !ok {
			delete(t.history, pid)
		}
	}
}

func (t *HysteresisTracker) Len() int {
	return len(t.history)
}

// Entries returns the tracked history ordered by pid.
func (t *HysteresisTracker) Entries() []domain.HysteresisEntry {
	now := t.now()
	entries := make([]domain.HysteresisEntry, 0, len(t.history))
	for pid, h := range t.history {
		entries = append(entries, domain.HysteresisEntry{
			PID:           pid,
			LastClass:     h.lastClass,
			LastChange:    h.lastChange,
			RecentChanges: t.recentChanges(h, now),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].PID < entries[j].PID })
	return entries
}

func (t *HysteresisTracker) recentChanges(h *changeHistory, now time.Time) int {
	t.prune(h, now)
	return len(h.changes)
}

func (t *HysteresisTracker) prune(h *changeHistory, now time.Time) {
	cutoff := now.Add(-t.window)
	i := 0
	for i < len(h.changes) && !h.changes[i].After(cutoff) {
		i++
	}
	h.changes = h.changes[i:]
}
