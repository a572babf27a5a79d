// Package runtime owns the worker process lifecycle: spawning, tracking,
// and garbage-collecting the pool of externally spawned runtime workers
// described in spec.md §4.C.
package runtime

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/arcwright/lambda-gateway/internal/domain/model"
)

// Manager owns the worker roster and a pluggable Spawner. The roster is the
// sole mutable shared structure here; it is held only while mutating or
// snapshotting, never across a spawn or kill syscall.
type Manager struct {
	spawner Spawner
	logger  *slog.Logger

	lifetimeMs int64

	mu      sync.Mutex
	workers []model.Worker
}

// NewManager returns a Manager with an empty roster. lifetime is the age
// budget after which a worker becomes eligible for reaping.
func NewManager(spawner Spawner, lifetime time.Duration, logger *slog.Logger) *Manager {
	return &Manager{
		spawner:    spawner,
		logger:     logger,
		lifetimeMs: lifetime.Milliseconds(),
	}
}

// Init invokes the spawner and appends the result to the roster.
func (m *Manager) Init(ctx context.Context) (model.Worker, error) {
	w, err := m.spawner.Spawn(ctx)
	if err != nil {
		return model.Worker{}, err
	}

	m.mu.Lock()
	m.workers = append(m.workers, w)
	m.mu.Unlock()

	return w, nil
}

// Bootstrap primes the pool before the first inbound invocation. It is
// equivalent to Init, called once at startup.
func (m *Manager) Bootstrap(ctx context.Context) error {
	_, err := m.Init(ctx)
	return err
}

// Roster returns a snapshot of the current worker list, in insertion order.
func (m *Manager) Roster() []model.Worker {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Worker, len(m.workers))
	copy(out, m.workers)
	return out
}

// GC identifies every roster entry whose lifetime has expired as of nowMs,
// kills each via the spawner outside the roster lock, removes the killed
// entries, then — if the roster is left empty — spawns exactly one
// replacement. The empty-roster refill check runs on every tick
// unconditionally, not just ticks that killed something: a prior tick's
// refill can itself fail, and the roster must never be left empty for an
// unbounded number of subsequent ticks. After GC returns, invariant 3 of
// spec.md §3 holds (the roster is non-empty) unless the refill spawn
// failed; that failure is logged and the next tick tries again.
func (m *Manager) GC(ctx context.Context, nowMs int64) {
	m.mu.Lock()
	var expired []model.Worker
	for _, w := range m.workers {
		if w.Expired(nowMs, m.lifetimeMs) {
			expired = append(expired, w)
		}
	}
	m.mu.Unlock()

	if len(expired) > 0 {
		killedIDs := make(map[string]bool, len(expired))
		for _, w := range expired {
			if err := m.spawner.Kill(w.ID); err != nil {
				// KillFailure is logged; the roster entry is removed regardless
				// to avoid indefinite accumulation (spec.md §7).
				m.logger.Warn("gc: kill failed", slog.String("worker_id", w.ID), slog.Any("err", err))
			}
			killedIDs[w.ID] = true
		}

		m.mu.Lock()
		// Re-filter the live roster (not the `expired` snapshot) so that any
		// Init() that raced with this GC tick is preserved rather than dropped.
		var kept []model.Worker
		for _, w := range m.workers {
			if !killedIDs[w.ID] {
				kept = append(kept, w)
			}
		}
		m.workers = kept
		m.mu.Unlock()

		m.logger.Info("gc: reaped expired workers", slog.Int("count", len(expired)))
	}

	m.mu.Lock()
	empty := len(m.workers) == 0
	m.mu.Unlock()

	if empty {
		if _, err := m.Init(ctx); err != nil {
			m.logger.Error("gc: refill after empty roster failed", slog.Any("err", err))
		}
	}
}

// Loop runs GC on cfg.GCInterval until ctx is cancelled. It is started as a
// background goroutine from an fx.Lifecycle OnStart hook.
func (m *Manager) Loop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.GC(ctx, time.Now().UnixMilli())
		}
	}
}
