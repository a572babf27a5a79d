// Package service implements the invocation orchestrator described in
// spec.md §4.D: it drives the rendezvous, the mailbox registry, and the
// runtime manager as a single logical operation per inbound invocation.
package service

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/arcwright/lambda-gateway/internal/domain/mailbox"
	"github.com/arcwright/lambda-gateway/internal/domain/model"
	"github.com/arcwright/lambda-gateway/internal/domain/rendezvous"
	"github.com/arcwright/lambda-gateway/internal/runtime"
)

// retryInterval is the pause between try-send attempts while backpressure
// is signalling "full" (spec.md §4.D step 2).
const retryInterval = 100 * time.Millisecond

// Orchestrator drives one invocation end-to-end: mint an id, hand it off
// through the rendezvous (spawning a worker on backpressure), register a
// mailbox, and wait for the worker's deposit.
type Orchestrator struct {
	ids    Generator
	rv     *rendezvous.Rendezvous
	boxes  *mailbox.Registry
	rt     *runtime.Manager
	logger *slog.Logger
	tracer trace.Tracer
}

// NewOrchestrator wires the four collaborating components together.
func NewOrchestrator(ids Generator, rv *rendezvous.Rendezvous, boxes *mailbox.Registry, rt *runtime.Manager, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		ids:    ids,
		rv:     rv,
		boxes:  boxes,
		rt:     rt,
		logger: logger,
		tracer: otel.Tracer("lambda-gateway/orchestrator"),
	}
}

// ErrGone is returned when the orchestrator's mailbox is abandoned without
// ever receiving a deposit — spec.md §7's open question, resolved per the
// spec's own recommendation: propagate as a failure, not a silent {}.
type ErrGone struct{ ID model.InvocationId }

func (e ErrGone) Error() string {
	return "orchestrator: no response deposited for invocation " + string(e.ID)
}

// Invoke implements the procedure from spec.md §4.D: MINTED -> (try_send
// loop, spawning on backpressure) -> HANDED_OFF -> register -> AWAITING ->
// deposit -> DONE.
func (o *Orchestrator) Invoke(ctx context.Context, ev model.Event) (model.Response, error) {
	id := o.ids.Next()

	ctx, span := o.tracer.Start(ctx, "invocation.orchestrate")
	defer span.End()
	span.SetAttributes(attribute.String("invocation.id", string(id)))

	retries := 0
	for !o.rv.TrySend(id, ev) {
		retries++
		// A full slot is a control signal, not an error: request a new
		// worker and retry. Spawner errors are logged, never fatal here —
		// the next retry reattempts (spec.md §4.D step 2).
		if _, err := o.rt.Init(ctx); err != nil {
			o.logger.Warn("orchestrator: spawn-on-backpressure failed",
				slog.String("invocation_id", string(id)), slog.Any("err", err))
		}

		select {
		case <-ctx.Done():
			span.SetAttributes(attribute.Int("rendezvous.retries", retries))
			return nil, ctx.Err()
		case <-time.After(retryInterval):
		}
	}
	span.SetAttributes(attribute.Int("rendezvous.retries", retries))

	o.boxes.Register(id)

	resp, ok := o.boxes.Await(ctx, id)
	if !ok {
		return nil, ErrGone{ID: id}
	}
	return resp, nil
}
