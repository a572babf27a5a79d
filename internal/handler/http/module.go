package http

import (
	"context"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/fx"

	"github.com/arcwright/lambda-gateway/config"
)

// Module wires the caller-facing and worker-facing handlers, the chi
// router, and the http.Server lifecycle into the fx app graph.
var Module = fx.Module("http",
	fx.Provide(
		NewCallerHandler,
		NewRuntimeAPIHandler,
		NewRouter,
		func(r chi.Router, cfg config.Config) *http.Server {
			return &http.Server{Addr: cfg.ListenAddr, Handler: r}
		},
	),
	fx.Invoke(func(lc fx.Lifecycle, srv *http.Server, logger *slog.Logger) {
		lc.Append(fx.Hook{
			OnStart: func(context.Context) error {
				ln, err := net.Listen("tcp", srv.Addr)
				if err != nil {
					return err
				}
				logger.Info("http: listening", slog.String("addr", srv.Addr))
				go func() {
					if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
						logger.Error("http: server exited", slog.Any("err", err))
					}
				}()
				return nil
			},
			OnStop: func(ctx context.Context) error {
				return srv.Shutdown(ctx)
			},
		})
	}),
)
