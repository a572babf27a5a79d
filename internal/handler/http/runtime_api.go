package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/arcwright/lambda-gateway/config"
	"github.com/arcwright/lambda-gateway/internal/domain/mailbox"
	"github.com/arcwright/lambda-gateway/internal/domain/model"
	"github.com/arcwright/lambda-gateway/internal/domain/rendezvous"
	"github.com/arcwright/lambda-gateway/internal/handler/marshaller/runtimeapi"
)

// RuntimeAPIHandler serves the worker-facing surface: the long-poll "next"
// endpoint and the response/error deposit endpoints, mirroring AWS Lambda's
// Runtime Interface (spec.md §1, §6).
type RuntimeAPIHandler struct {
	rv     *rendezvous.Rendezvous
	boxes  *mailbox.Registry
	cfg    config.Config
	logger *slog.Logger
}

// NewRuntimeAPIHandler returns the worker-facing handler.
func NewRuntimeAPIHandler(rv *rendezvous.Rendezvous, boxes *mailbox.Registry, cfg config.Config, logger *slog.Logger) *RuntimeAPIHandler {
	return &RuntimeAPIHandler{rv: rv, boxes: boxes, cfg: cfg, logger: logger}
}

// Next handles GET /2018-06-01/runtime/invocation/next: it long-polls the
// rendezvous and, once a pending invocation arrives, answers with the
// headers the real Runtime Interface clients expect (spec.md §6). The
// Client-Context and Cognito-Identity headers are constants — the original
// Rust implementation (original_source/src/api.rs:93-101) emits the same
// fixed `{"key":"value"}` value for both headers regardless of invocation,
// since this emulator never models mobile SDK context.
func (h *RuntimeAPIHandler) Next(w http.ResponseWriter, r *http.Request) {
	p, ok := h.rv.Recv(r.Context())
	if !ok {
		// The worker disconnected while polling; nothing to answer.
		return
	}

	// The orchestrator registers this invocation's mailbox itself, right
	// after its try-send succeeds (spec.md §4.D); registering here as well
	// would replace the halves the orchestrator awaits on.

	w.Header().Set("Lambda-Runtime-Aws-Request-Id", p.ID.String())
	w.Header().Set("Lambda-Runtime-Trace-Id", h.cfg.TraceIDConstant)
	w.Header().Set("Lambda-Runtime-Invoked-Function-Arn", h.cfg.FunctionArn)
	w.Header().Set("Lambda-Runtime-Deadline-Ms", strconv.Itoa(h.cfg.DeadlineMs))
	w.Header().Set("Lambda-Runtime-Client-Context", `{"key":"value"}`)
	w.Header().Set("Lambda-Runtime-Cognito-Identity", `{"key":"value"}`)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(p.Event)
}

// Response handles POST .../{awsRequestId}/response.
func (h *RuntimeAPIHandler) Response(w http.ResponseWriter, r *http.Request) {
	h.deposit(w, r)
}

// Error handles POST .../{awsRequestId}/error. Treated identically to
// Response for the purposes of this core (spec.md §6).
func (h *RuntimeAPIHandler) Error(w http.ResponseWriter, r *http.Request) {
	h.deposit(w, r)
}

func (h *RuntimeAPIHandler) deposit(w http.ResponseWriter, r *http.Request) {
	id := model.InvocationId(chi.URLParam(r, "awsRequestId"))

	resp, err := decodeResponseBody(r.Body)
	if err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	if !h.boxes.Deposit(id, resp) {
		h.logger.Warn("runtime_api: deposit targeted unknown mailbox", slog.String("invocation_id", id.String()))
		body, _ := runtimeapi.MarshalError("no mailbox registered for "+id.String(), runtimeapi.NoResponse)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write(body)
		return
	}

	body, _ := runtimeapi.MarshalStatus("OK")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_, _ = w.Write(body)
}

// decodeResponseBody treats an empty body as {} (spec.md §6 scenario 6).
func decodeResponseBody(body io.Reader) (model.Response, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return model.EmptyResponse(), nil
	}

	var resp model.Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}
