package model

// Worker is an external runtime process the gateway has spawned. It is
// immutable after creation; a killed worker is simply removed from the
// roster, never recycled or reset.
type Worker struct {
	ID      string
	BirthMs int64
}

// Expired reports whether the worker's lifetime budget is exhausted at nowMs.
// Expiry is strict greater-than: a worker born at t0 becomes killable at
// t0 + lifetimeMs + 1ms.
func (w Worker) Expired(nowMs, lifetimeMs int64) bool {
	return w.BirthMs+lifetimeMs < nowMs
}
