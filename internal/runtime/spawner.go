package runtime

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/pkg/errors"

	"github.com/arcwright/lambda-gateway/internal/domain/model"
)

// Spawner is the injected capability the runtime manager uses to start and
// stop worker processes. Modeling it as an interface lets tests substitute
// a synthetic implementation instead of launching real processes.
type Spawner interface {
	Spawn(ctx context.Context) (model.Worker, error)
	Kill(workerID string) error
}

// ProcessSpawner runs a configured command with configured arguments and
// advertises the gateway's listen address to the child via
// AWS_LAMBDA_RUNTIME_API, per spec.md §6's worker spawning contract.
type ProcessSpawner struct {
	Command    string
	Args       []string
	ListenAddr string
	Logger     *slog.Logger
}

// NewProcessSpawner returns a ProcessSpawner ready to launch workers that
// report back to listenAddr.
func NewProcessSpawner(command string, args []string, listenAddr string, logger *slog.Logger) *ProcessSpawner {
	return &ProcessSpawner{Command: command, Args: args, ListenAddr: listenAddr, Logger: logger}
}

// Spawn starts the worker process and returns immediately with its PID and
// birth time; it does not wait for the process to exit.
func (s *ProcessSpawner) Spawn(ctx context.Context) (model.Worker, error) {
	cmd := exec.Command(s.Command, s.Args...)
	cmd.Env = append(os.Environ(), "AWS_LAMBDA_RUNTIME_API="+s.ListenAddr)

	workerID := "pending"
	cmd.Stdout = workerLogWriter(s.Logger, &workerID, "stdout")
	cmd.Stderr = workerLogWriter(s.Logger, &workerID, "stderr")

	if err := cmd.Start(); err != nil {
		return model.Worker{}, errors.Wrapf(err, "process spawner: start %s", s.Command)
	}

	workerID = strconv.Itoa(cmd.Process.Pid)
	birth := time.Now().UnixMilli()

	// Reap the process in the background so it never lingers as a zombie;
	// the runtime manager tracks liveness itself via the roster, not via
	// cmd.Wait's return value.
	go func() { _ = cmd.Wait() }()

	s.Logger.Info("worker spawned", slog.String("worker_id", workerID), slog.String("cmd", s.Command))
	return model.Worker{ID: workerID, BirthMs: birth}, nil
}

// Kill sends SIGKILL to the named process by PID. A process that has
// already exited is treated as a successful kill (idempotent).
func (s *ProcessSpawner) Kill(workerID string) error {
	pid, err := strconv.Atoi(workerID)
	if err != nil {
		return errors.Wrapf(err, "process spawner: worker id %q is not a pid", workerID)
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return nil
	}

	if err := proc.Signal(syscall.SIGKILL); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			return nil
		}
		return errors.Wrapf(err, "process spawner: kill pid %d", pid)
	}

	s.Logger.Info("worker killed", slog.String("worker_id", workerID))
	return nil
}

// workerLogWriter tags every line of worker output with the worker id
// (resolved lazily, since the PID isn't known until after Start) and the
// stream it came from, and forwards it to the gateway's own log stream.
func workerLogWriter(logger *slog.Logger, workerID *string, stream string) io.Writer {
	return &prefixWriter{logger: logger, workerID: workerID, stream: stream}
}

type prefixWriter struct {
	logger   *slog.Logger
	workerID *string
	stream   string
}

func (w *prefixWriter) Write(p []byte) (int, error) {
	w.logger.Debug("worker output",
		slog.String("worker_id", *w.workerID),
		slog.String("stream", w.stream),
		slog.String("line", string(p)),
	)
	return len(p), nil
}

// TestSpawner returns synthetic Workers without launching anything, for use
// in unit tests that exercise the runtime manager's bookkeeping without
// process I/O.
type TestSpawner struct {
	mu       sync.Mutex
	spawned  []model.Worker
	killed   []string
	nextID   int
	SpawnErr error
	KillErr  error
}

// NewTestSpawner returns an empty TestSpawner.
func NewTestSpawner() *TestSpawner {
	return &TestSpawner{}
}

func (s *TestSpawner) Spawn(ctx context.Context) (model.Worker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.SpawnErr != nil {
		return model.Worker{}, s.SpawnErr
	}

	w := model.Worker{ID: "test-worker-" + strconv.Itoa(s.nextID), BirthMs: time.Now().UnixMilli()}
	s.nextID++
	s.spawned = append(s.spawned, w)
	return w, nil
}

func (s *TestSpawner) Kill(workerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.KillErr != nil {
		return s.KillErr
	}
	s.killed = append(s.killed, workerID)
	return nil
}

// Spawned returns the workers produced so far, in spawn order.
func (s *TestSpawner) Spawned() []model.Worker {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Worker, len(s.spawned))
	copy(out, s.spawned)
	return out
}

// Killed returns the worker ids passed to Kill so far, in call order.
func (s *TestSpawner) Killed() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.killed))
	copy(out, s.killed)
	return out
}
