// Package model holds the data types shared across the gateway's components:
// the invocation identity, the event/response payloads that cross the wire,
// and the worker process record tracked by the runtime manager.
package model

// InvocationId identifies one caller invocation end-to-end: minted once by the
// orchestrator, carried through the rendezvous handoff, and used as the mailbox
// key in the response registry. Equality is by the underlying string.
type InvocationId string

func (id InvocationId) String() string { return string(id) }

// Event is the JSON object the caller posts to the gateway and that is
// forwarded verbatim to whichever worker next polls.
type Event map[string]any

// Response is the JSON object a worker posts back for a given invocation.
// An empty Response is {} when the worker posts no body.
type Response map[string]any

// EmptyResponse is returned whenever a worker deposits without a body.
func EmptyResponse() Response { return Response{} }

// Pending is the logical record in transit from the caller-facing handler to
// a worker, buffered only inside the rendezvous slot.
type Pending struct {
	ID    InvocationId
	Event Event
}
