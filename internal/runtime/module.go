package runtime

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/arcwright/lambda-gateway/config"
)

// Module wires the process spawner and the runtime manager into the fx app
// graph, and starts/stops the GC loop and the initial bootstrap spawn as
// lifecycle hooks.
var Module = fx.Module("runtime",
	fx.Provide(
		func(cfg config.Config, logger *slog.Logger) Spawner {
			return NewProcessSpawner(cfg.WorkerCommand, cfg.WorkerArgs, cfg.ListenAddr, logger)
		},
		func(spawner Spawner, cfg config.Config, logger *slog.Logger) *Manager {
			return NewManager(spawner, cfg.WorkerLifetime, logger)
		},
	),
	fx.Invoke(func(lc fx.Lifecycle, m *Manager, cfg config.Config, logger *slog.Logger) {
		ctx, cancel := context.WithCancel(context.Background())

		lc.Append(fx.Hook{
			OnStart: func(startCtx context.Context) error {
				if err := m.Bootstrap(startCtx); err != nil {
					return err
				}
				go m.Loop(ctx, cfg.GCInterval)
				return nil
			},
			OnStop: func(context.Context) error {
				cancel()
				return nil
			},
		})
	}),
)
