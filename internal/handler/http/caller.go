package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/arcwright/lambda-gateway/internal/domain/model"
	"github.com/arcwright/lambda-gateway/internal/service"
)

// CallerHandler serves the caller-facing surface: a single POST that drives
// one end-to-end invocation through the orchestrator (spec.md §6).
type CallerHandler struct {
	orch   *service.Orchestrator
	logger *slog.Logger
}

// NewCallerHandler returns the caller-facing handler.
func NewCallerHandler(orch *service.Orchestrator, logger *slog.Logger) *CallerHandler {
	return &CallerHandler{orch: orch, logger: logger}
}

// Invoke handles POST /: decode the event body, drive the orchestrator, and
// reply with the worker's response (or an error if the mailbox was
// abandoned — spec.md §7's NoMailbox edge case surfacing here as a caller
// error too).
func (h *CallerHandler) Invoke(w http.ResponseWriter, r *http.Request) {
	var ev model.Event
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
	}
	if ev == nil {
		ev = model.Event{}
	}

	resp, err := h.orch.Invoke(r.Context(), ev)
	if err != nil {
		h.logger.Warn("caller: invocation failed", slog.Any("err", err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}
