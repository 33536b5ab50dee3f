package actuator

import (
	"testing"
	"time"

	"github.com/Gthulhu/smoothtask/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func TestHysteresisBlocksChangeInsideInterval(t *testing.T) {
	clock := newFakeClock()
	tracker := NewHysteresisTrackerWithParams(10*time.Second, 1).WithClock(clock.Now)

	assert.True(t, tracker.ShouldApplyChange(42, domain.PriorityInteractive), "first change is always allowed")
	tracker.RecordChange(42, domain.PriorityInteractive)

	assert.False(t, tracker.ShouldApplyChange(42, domain.PriorityBackground))
	assert.True(t, tracker.ShouldApplyChange(42, domain.PriorityInteractive), "same class is a no-op")
}

func TestHysteresisAllowsChangeAfterInterval(t *testing.T) {
	clock := newFakeClock()
	tracker := NewHysteresisTrackerWithParams(10*time.Second, 2).WithClock(clock.Now)

	tracker.RecordChange(7, domain.PriorityNormal)
	clock.Advance(9 * time.Second)
	assert.False(t, tracker.ShouldApplyChange(7, domain.PriorityBackground))

	clock.Advance(time.Second)
	assert.True(t, tracker.ShouldApplyChange(7, domain.PriorityBackground))
}

func TestHysteresisLimitsChangesPerWindow(t *testing.T) {
	clock := newFakeClock()
	tracker := NewHysteresisTrackerWithParams(time.Second, 2).WithWindow(30 * time.Second).WithClock(clock.Now)

	tracker.RecordChange(1, domain.PriorityNormal)
	clock.Advance(2 * time.Second)
	require.True(t, tracker.ShouldApplyChange(1, domain.PriorityBackground))
	tracker.RecordChange(1, domain.PriorityBackground)

	clock.Advance(2 * time.Second)
	assert.False(t, tracker.ShouldApplyChange(1, domain.PriorityNormal), "two changes already inside the window")

	clock.Advance(27 * time.Second)
	assert.True(t, tracker.ShouldApplyChange(1, domain.PriorityNormal), "the first change left the window")
}

func TestHysteresisSameClassIsNotATransition(t *testing.T) {
	clock := newFakeClock()
	tracker := NewHysteresisTrackerWithParams(5*time.Second, 3).WithClock(clock.Now)

	tracker.RecordChange(9, domain.PriorityNormal)
	for i := 0; i < 10; i++ {
		clock.Advance(time.Second)
		tracker.RecordChange(9, domain.PriorityNormal)
	}
	entries := tracker.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, 1, entries[0].RecentChanges)
	assert.True(t, tracker.ShouldApplyChange(9, domain.PriorityIdle), "re-applying the same class does not delay a real change")
}

func TestHysteresisCleanup(t *testing.T) {
	tracker := NewHysteresisTracker()
	tracker.RecordChange(1, domain.PriorityNormal)
	tracker.RecordChange(2, domain.PriorityNormal)
	tracker.RecordChange(3, domain.PriorityNormal)

	tracker.Cleanup([]int{1, 3})

	entries := tracker.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, 1, entries[0].PID)
	assert.Equal(t, 3, entries[1].PID)

	tracker.Cleanup(nil)
	assert.Equal(t, 0, tracker.Len())
}

func TestNewHysteresisTrackerDefaults(t *testing.T) {
	tracker := NewHysteresisTracker()
	assert.Equal(t, defaultMinInterval, tracker.minInterval)
	assert.Equal(t, defaultMaxChangesPerWindow, tracker.maxChanges)
	assert.Equal(t, defaultChangeWindow, tracker.window)

	long := NewHysteresisTrackerWithParams(2*time.Minute, 1)
	assert.Equal(t, 2*time.Minute, long.window)
}
