// Package rendezvous implements the capacity-1 handoff between the
// caller-facing orchestrator (producer) and the worker-facing long-poll
// handler (consumer). It is the dispatcher: workers are anonymous and
// self-schedule by polling, so a buffered channel of size 1 is the whole
// mechanism — a larger buffer would silently absorb backpressure and defeat
// autoscaling.
package rendezvous

import (
	"context"

	"github.com/arcwright/lambda-gateway/internal/domain/model"
)

// Rendezvous is the concurrency-safe, capacity-1 handoff described in
// spec §4.A. Multiple producers and multiple consumers may use it
// concurrently; the underlying channel provides the synchronization.
type Rendezvous struct {
	slot chan model.Pending
}

// New returns a Rendezvous with its slot unallocated (empty).
func New() *Rendezvous {
	return &Rendezvous{slot: make(chan model.Pending, 1)}
}

// TrySend attempts a non-blocking handoff. It returns true if the pair was
// buffered, false ("full") if the slot was already occupied. A full result
// is a normal control signal, not an error — the caller is expected to
// request a new worker spawn and retry.
func (r *Rendezvous) TrySend(id model.InvocationId, ev model.Event) bool {
	select {
	case r.slot <- model.Pending{ID: id, Event: ev}:
		return true
	default:
		return false
	}
}

// Recv blocks until a pending pair is available or ctx is cancelled.
// Cancellation drops the receive intent without consuming a message.
func (r *Rendezvous) Recv(ctx context.Context) (model.Pending, bool) {
	select {
	case p := <-r.slot:
		return p, true
	case <-ctx.Done():
		return model.Pending{}, false
	}
}
