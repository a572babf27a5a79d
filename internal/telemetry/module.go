package telemetry

import (
	"context"
	"log/slog"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
)

// Module provides the logger and tracer provider, and flushes the tracer
// on shutdown.
var Module = fx.Module("telemetry",
	fx.Provide(NewLogger, NewTracerProvider),
	fx.Invoke(func(lc fx.Lifecycle, tp *sdktrace.TracerProvider, logger *slog.Logger) {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if err := Shutdown(ctx, tp); err != nil {
					logger.Error("telemetry: tracer shutdown failed", slog.Any("err", err))
					return err
				}
				return nil
			},
		})
	}),
)
