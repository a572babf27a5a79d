// Package mailbox implements the response registry described in spec §4.B:
// a per-invocation one-shot mailbox, split into a depositor half (held by the
// worker-facing handler) and a retriever half (held by the orchestrator).
// The split exists because a one-shot channel cannot be cloned — isolating
// the two ends into separate maps lets distinct HTTP handlers obtain exactly
// the half they need without carrying a shared unmovable object.
package mailbox

import (
	"context"
	"sync"

	"github.com/arcwright/lambda-gateway/internal/domain/model"
)

// Registry is the two-map response registry. Both maps are guarded by
// independent mutexes; no operation holds both locks simultaneously, so no
// deadlock between a concurrent Deposit and Await is possible.
type Registry struct {
	depositMu sync.Mutex
	deposit   map[model.InvocationId]chan<- model.Response

	retrieveMu sync.Mutex
	retrieve   map[model.InvocationId]<-chan model.Response
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		deposit:  make(map[model.InvocationId]chan<- model.Response),
		retrieve: make(map[model.InvocationId]<-chan model.Response),
	}
}

// Register creates a fresh mailbox for id, installing both halves. The
// caller must not register the same id twice; minted ids are unique by
// construction (see service.Generator), so this is never exercised in
// practice.
func (r *Registry) Register(id model.InvocationId) {
	ch := make(chan model.Response, 1)

	r.depositMu.Lock()
	r.deposit[id] = ch
	r.depositMu.Unlock()

	r.retrieveMu.Lock()
	r.retrieve[id] = ch
	r.retrieveMu.Unlock()
}

// Await removes the retriever half for id and blocks until a deposit
// arrives or ctx is cancelled. It returns ok=false ("gone") if no
// retriever was registered, or if the depositor is dropped without ever
// sending.
func (r *Registry) Await(ctx context.Context, id model.InvocationId) (model.Response, bool) {
	r.retrieveMu.Lock()
	ch, found := r.retrieve[id]
	delete(r.retrieve, id)
	r.retrieveMu.Unlock()

	if !found {
		return nil, false
	}

	select {
	case resp, open := <-ch:
		if !open {
			return nil, false
		}
		return resp, true
	case <-ctx.Done():
		// The caller disconnected while awaiting. Drop the depositor half
		// too, so a worker that later posts a response observes
		// "no_mailbox" rather than depositing into a channel nobody reads.
		r.depositMu.Lock()
		delete(r.deposit, id)
		r.depositMu.Unlock()
		return nil, false
	}
}

// Deposit removes the depositor half for id and completes the mailbox with
// resp. It returns ok=false ("no_mailbox") if no depositor is present —
// either the id was never registered, or it was already consumed.
func (r *Registry) Deposit(id model.InvocationId, resp model.Response) bool {
	r.depositMu.Lock()
	ch, found := r.deposit[id]
	delete(r.deposit, id)
	r.depositMu.Unlock()

	if !found {
		return false
	}

	ch <- resp
	close(ch)
	return true
}
