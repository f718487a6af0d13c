package workers_fx

import (
	"context"

	"go.uber.org/fx"

	"mendpath/internal/config"
	"mendpath/internal/repositories"
	"mendpath/internal/workers"
)

var Module = fx.Options(
	fx.Provide(provideSessionScheduler),
	fx.Invoke(runSessionScheduler),
)

func provideSessionScheduler(sessionRepo repositories.SessionRepository, cfg config.Config) *workers.SessionScheduler {
	return workers.NewSessionScheduler(sessionRepo, cfg.SchedulerSpec)
}

func runSessionScheduler(lc fx.Lifecycle, scheduler *workers.SessionScheduler) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return scheduler.Start()
		},
		OnStop: func(ctx context.Context) error {
			scheduler.Stop()
			return nil
		},
	})
}
