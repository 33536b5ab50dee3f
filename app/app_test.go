package app

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Gthulhu/smoothtask/config"
	"github.com/Gthulhu/smoothtask/domain"
	"github.com/Gthulhu/smoothtask/rest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

func TestHandlerModule(t *testing.T) {
	cfg, err := config.InitConfig("smoothtask_config.test", config.GetAbsPath("config"))
	require.NoError(t, err)
	cfg.Collector.ProcRoot = "/proc"

	cfgModule, err := ConfigModule(cfg)
	require.NoError(t, err)
	adapterModule, err := AdapterModule(cfgModule)
	require.NoError(t, err)
	serviceModule, err := ServiceModule(adapterModule)
	require.NoError(t, err)
	handlerModule, err := HandlerModule(serviceModule)
	require.NoError(t, err)

	var handler *rest.Handler
	var svc domain.Service
	app := fxtest.New(t,
		handlerModule,
		fx.Populate(&handler, &svc),
	)
	app.RequireStart()
	defer app.RequireStop()

	require.NotNil(t, handler)
	require.NotNil(t, svc)

	// the test config runs dry, so a real cycle has no side effects
	report, err := svc.RunCycle(context.Background())
	require.NoError(t, err)
	assert.True(t, report.DryRun)
	assert.Zero(t, report.Result.Applied)
}

func TestConfigModuleRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Daemon.PollingIntervalMs = 0

	_, err := ConfigModule(cfg)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestStartPolicyLoop(t *testing.T) {
	var cycles atomic.Int32
	svc := domain.NewMockService(t)
	svc.EXPECT().RunCycle(mock.Anything).RunAndReturn(func(ctx context.Context) (*domain.CycleReport, error) {
		cycles.Add(1)
		return &domain.CycleReport{}, nil
	})

	lc := fxtest.NewLifecycle(t)
	require.NoError(t, StartPolicyLoop(lc, config.DaemonConfig{PollingIntervalMs: 10}, svc))
	lc.RequireStart()

	assert.Eventually(t, func() bool { return cycles.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	lc.RequireStop()

	stopped := cycles.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, stopped, cycles.Load(), "no cycles after stop")
}

func TestStartPolicyLoopStopsDuringInitialWait(t *testing.T) {
	svc := domain.NewMockService(t)

	lc := fxtest.NewLifecycle(t)
	require.NoError(t, StartPolicyLoop(lc, config.DaemonConfig{PollingIntervalMs: 10, InitialWaitMs: 60000}, svc))
	lc.RequireStart()
	lc.RequireStop()

	svc.AssertNotCalled(t, "RunCycle", mock.Anything)
}

func TestStartRestAppDisabled(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	require.NoError(t, StartRestApp(lc, config.ServerConfig{Enable: false}, &rest.Handler{}))
	lc.RequireStart()
	lc.RequireStop()
}
