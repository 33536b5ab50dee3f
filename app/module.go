package app

import (
	"context"
	"errors"

	"github.com/Gthulhu/smoothtask/actuator"
	"github.com/Gthulhu/smoothtask/collector"
	"github.com/Gthulhu/smoothtask/config"
	"github.com/Gthulhu/smoothtask/domain"
	"github.com/Gthulhu/smoothtask/pkg/logger"
	"github.com/Gthulhu/smoothtask/rest"
	"github.com/Gthulhu/smoothtask/service"
	"github.com/shirou/gopsutil/v3/cpu"
	"go.uber.org/fx"
)

func ConfigModule(cfg config.SmoothTaskConfig) (fx.Option, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return fx.Options(
		fx.Provide(func() config.SmoothTaskConfig {
			return cfg
		}),
		fx.Provide(func(smoothTaskCfg config.SmoothTaskConfig) config.ServerConfig {
			return smoothTaskCfg.Server
		}),
		fx.Provide(func(smoothTaskCfg config.SmoothTaskConfig) config.DaemonConfig {
			return smoothTaskCfg.Daemon
		}),
		fx.Provide(func(smoothTaskCfg config.SmoothTaskConfig) config.ActuatorConfig {
			return smoothTaskCfg.Actuator
		}),
		fx.Provide(func(smoothTaskCfg config.SmoothTaskConfig) config.CollectorConfig {
			return smoothTaskCfg.Collector
		}),
	), nil
}

// AdapterModule provides the OS facing pieces: the /proc snapshot source,
// the kernel priority backend and the priority reader.
func AdapterModule(configModule fx.Option) (fx.Option, error) {
	return fx.Options(
		configModule,
		fx.Provide(NewSnapshotSource),
		fx.Provide(NewOSBackend),
		fx.Provide(func(backend *actuator.OSBackend) domain.PriorityBackend {
			return backend
		}),
		fx.Provide(func(cfg config.CollectorConfig, backend *actuator.OSBackend) (domain.PriorityReader, error) {
			return actuator.NewProcReader(cfg.ProcRoot, backend.Cgroups())
		}),
	), nil
}

// ServiceModule creates an Fx module that provides the service layer, return domain.Service
func ServiceModule(adapterModule fx.Option) (fx.Option, error) {
	return fx.Options(
		adapterModule,
		fx.Provide(service.NewService),
		fx.Provide(func(svc *service.Service) domain.Service {
			return svc
		}),
	), nil
}

// HandlerModule creates an Fx module that provides the REST handler, return *rest.Handler
func HandlerModule(serviceModule fx.Option) (fx.Option, error) {
	return fx.Options(
		serviceModule,
		fx.Provide(rest.NewHandler),
	), nil
}

func NewSnapshotSource(cfg config.SmoothTaskConfig) (domain.SnapshotSource, error) {
	numCPUs := cfg.Dynamic.NumCPUs
	if numCPUs <= 0 {
		counted, err := cpu.CountsWithContext(context.Background(), true)
		if err == nil {
			numCPUs = counted
		}
	}
	source, err := collector.NewProcCollector(cfg.Collector, cfg.Thresholds, numCPUs)
	if err != nil {
		return nil, err
	}
	return source.WithManagedCgroupParent(cfg.Actuator.CgroupParent), nil
}

// NewOSBackend falls back to running without cgroup weights when the host has
// no cgroup v2 hierarchy.
func NewOSBackend(cfg config.SmoothTaskConfig) (*actuator.OSBackend, error) {
	backend, err := actuator.NewOSBackend(cfg.Actuator, cfg.Collector.ProcRoot)
	if err == nil {
		return backend, nil
	}
	if !errors.Is(err, domain.ErrUnsupported) {
		return nil, err
	}
	logger.Logger(context.Background()).Warn().Err(err).Msg("cgroup v2 unavailable, cpu.weight will not be managed")
	actuatorCfg := cfg.Actuator
	actuatorCfg.EnableCgroups = false
	return actuator.NewOSBackend(actuatorCfg, cfg.Collector.ProcRoot)
}
