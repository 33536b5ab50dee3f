//go:build linux

package actuator

import (
	"context"
	"os"
	"testing"

	"github.com/Gthulhu/smoothtask/config"
	"github.com/Gthulhu/smoothtask/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

// above the largest pid_max the kernel accepts
const ghostPID = 4194304 + 7

func TestApplyNonexistentPID(t *testing.T) {
	backend, err := NewOSBackend(config.ActuatorConfig{}, "/proc")
	require.NoError(t, err)

	act := NewActuator(backend, Options{})
	tracker := NewHysteresisTracker()
	params := domain.PriorityNormal.Params()

	result := act.ApplyPriorityAdjustments(context.Background(), []domain.PriorityAdjustment{{
		PID:               ghostPID,
		AppGroupID:        "ghost",
		TargetClass:       domain.PriorityNormal,
		TargetNice:        params.Nice,
		TargetLatencyNice: params.LatencyNice,
		TargetIONice:      params.IONice,
		TargetCPUWeight:   params.CPUWeight,
	}}, tracker)

	assert.Greater(t, result.Errors, 0)
	assert.Equal(t, 0, result.Applied)
	assert.Zero(t, tracker.Len())
}

func TestOSBackendValidatesRanges(t *testing.T) {
	backend, err := NewOSBackend(config.ActuatorConfig{EnableLatencyNice: true}, "/proc")
	require.NoError(t, err)

	assert.Error(t, backend.SetNice(ghostPID, 25))
	assert.Error(t, backend.SetLatencyNice(ghostPID, -21))
	assert.Error(t, backend.SetIOPriority(ghostPID, domain.IOPriority{Class: 4}))
	assert.ErrorIs(t, backend.SetCPUWeight(ghostPID, "a", 100), domain.ErrUnsupported)
}

func TestOSBackendProcessNotFound(t *testing.T) {
	backend, err := NewOSBackend(config.ActuatorConfig{}, "/proc")
	require.NoError(t, err)

	assert.ErrorIs(t, backend.SetNice(ghostPID, 0), domain.ErrProcessNotFound)
	assert.ErrorIs(t, backend.SetIOPriority(ghostPID, domain.IOPriority{Class: 2, Level: 4}), domain.ErrProcessNotFound)
	assert.ErrorIs(t, backend.SetLatencyNice(ghostPID, 0), domain.ErrUnsupported, "disabled by config")
}

func TestIOPriorityEncoding(t *testing.T) {
	prio := domain.IOPriority{Class: 2, Level: 6}
	assert.Equal(t, 2<<13|6, encodeIOPriority(prio))
	assert.Equal(t, prio, decodeIOPriority(encodeIOPriority(prio)))
}

func TestProcReaderLiveProcessNice(t *testing.T) {
	reader, err := NewProcReader("/proc", nil)
	require.NoError(t, err)

	current, err := reader.ReadPriority(context.Background(), os.Getpid())
	require.NoError(t, err)
	require.NotNil(t, current.Nice)

	// the raw syscall reports 20 - nice
	raw, err := unix.Getpriority(unix.PRIO_PROCESS, 0)
	require.NoError(t, err)
	assert.Equal(t, 20-raw, *current.Nice)
	assert.GreaterOrEqual(t, *current.Nice, -20)
	assert.LessOrEqual(t, *current.Nice, 19)
}
