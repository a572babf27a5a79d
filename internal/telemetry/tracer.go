// Package telemetry wires structured logging and span tracing into the fx
// app graph, grounded on the tracer provider shape used across the
// example pack (zjrosen-perles/internal/orchestration/tracing) — a stdout
// span exporter is sufficient for a local emulator; no collector endpoint
// is wired since the gateway never leaves a single host.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const serviceName = "lambda-gateway"

// NewTracerProvider builds the process-wide span exporter pipeline and
// installs it as the global provider, so every otel.Tracer(...) call
// anywhere in the gateway (the orchestrator's invocation spans) reports
// through it.
func NewTracerProvider() (*sdktrace.TracerProvider, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, err
	}

	res := resource.NewSchemaless(attribute.String("service.name", serviceName))

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	return tp, nil
}

// Shutdown flushes pending spans before process exit.
func Shutdown(ctx context.Context, tp *sdktrace.TracerProvider) error {
	return tp.Shutdown(ctx)
}
