package app

import (
	"context"
	"time"

	"github.com/Gthulhu/smoothtask/config"
	"github.com/Gthulhu/smoothtask/domain"
	"github.com/Gthulhu/smoothtask/pkg/logger"
	"github.com/Gthulhu/smoothtask/rest"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

const defaultServerHost = ":8090"

func NewDaemonApp(cfg config.SmoothTaskConfig) (*fx.App, error) {
	cfgModule, err := ConfigModule(cfg)
	if err != nil {
		return nil, err
	}
	adapterModule, err := AdapterModule(cfgModule)
	if err != nil {
		return nil, err
	}
	serviceModule, err := ServiceModule(adapterModule)
	if err != nil {
		return nil, err
	}
	handlerModule, err := HandlerModule(serviceModule)
	if err != nil {
		return nil, err
	}

	app := fx.New(
		handlerModule,
		fx.Invoke(StartRestApp),
		fx.Invoke(StartPolicyLoop),
	)
	return app, nil
}

func StartRestApp(lc fx.Lifecycle, cfg config.ServerConfig, handler *rest.Handler) error {
	if !cfg.Enable {
		return nil
	}
	engine := echo.New()
	engine.HideBanner = true
	handler.SetupRoutes(engine)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			serverHost := cfg.Host
			if serverHost == "" {
				serverHost = defaultServerHost
			}
			go func() {
				logger.Logger(ctx).Info().Msgf("starting rest server on port %s", serverHost)
				if err := engine.Start(serverHost); err != nil {
					logger.Logger(ctx).Fatal().Err(err).Msgf("start rest server fail on port %s", serverHost)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Logger(ctx).Info().Msg("shutting down rest server")
			return engine.Shutdown(ctx)
		},
	})

	return nil
}

// StartPolicyLoop runs one scheduling cycle per polling interval. A cycle that
// overruns the interval delays the next tick instead of overlapping with it.
func StartPolicyLoop(lc fx.Lifecycle, cfg config.DaemonConfig, svc domain.Service) error {
	stopCh := make(chan struct{})
	doneCh := make(chan struct{})
	interval := cfg.PollingInterval()
	initialWait := cfg.InitialWait()

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				defer close(doneCh)
				bgCtx, cancel := context.WithCancel(context.Background())
				defer cancel()
				go func() {
					<-stopCh
					cancel()
				}()
				logger.Logger(bgCtx).Info().Msgf("policy loop starting, initial wait %s, interval %s", initialWait, interval)

				if initialWait > 0 {
					select {
					case <-time.After(initialWait):
					case <-stopCh:
						return
					}
				}

				runCycle(bgCtx, svc)
				ticker := time.NewTicker(interval)
				defer ticker.Stop()
				for {
					select {
					case <-ticker.C:
						runCycle(bgCtx, svc)
					case <-stopCh:
						logger.Logger(bgCtx).Info().Msg("policy loop stopped")
						return
					}
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			close(stopCh)
			select {
			case <-doneCh:
			case <-ctx.Done():
			}
			return nil
		},
	})

	return nil
}

func runCycle(ctx context.Context, svc domain.Service) {
	if _, err := svc.RunCycle(ctx); err != nil && ctx.Err() == nil {
		logger.Logger(ctx).Warn().Err(err).Msg("scheduling cycle failed")
	}
}
