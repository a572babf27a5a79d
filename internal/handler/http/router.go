// Package http implements the gateway's HTTP surface described in
// spec.md §6: the caller-facing invocation endpoint and the worker-facing
// Runtime Interface endpoints, wired with chi (spec.md's ambient
// stack, matching the transport library already required by the teacher).
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter builds the chi router serving both the caller-facing and the
// worker-facing routes behind recovery and access-log middleware.
func NewRouter(caller *CallerHandler, runtimeAPI *RuntimeAPIHandler, logger *slog.Logger) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(accessLog(logger))

	r.Post("/", caller.Invoke)
	r.Get("/2018-06-01/runtime/invocation/next", runtimeAPI.Next)
	r.Post("/2018-06-01/runtime/invocation/{awsRequestId}/response", runtimeAPI.Response)
	r.Post("/2018-06-01/runtime/invocation/{awsRequestId}/error", runtimeAPI.Error)

	return r
}

// accessLog records one structured line per request, in the teacher's
// slog idiom.
func accessLog(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}
