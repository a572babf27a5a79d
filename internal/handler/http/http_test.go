package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcwright/lambda-gateway/config"
	"github.com/arcwright/lambda-gateway/internal/domain/mailbox"
	"github.com/arcwright/lambda-gateway/internal/domain/rendezvous"
	"github.com/arcwright/lambda-gateway/internal/runtime"
	"github.com/arcwright/lambda-gateway/internal/service"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer() *httptest.Server {
	cfg := config.Default()
	rv := rendezvous.New()
	boxes := mailbox.New()
	rt := runtime.NewManager(runtime.NewTestSpawner(), 10*time.Second, testLogger())
	gen := service.NewSequenceGenerator()
	orch := service.NewOrchestrator(gen, rv, boxes, rt, testLogger())

	caller := NewCallerHandler(orch, testLogger())
	rapi := NewRuntimeAPIHandler(rv, boxes, cfg, testLogger())
	router := NewRouter(caller, rapi, testLogger())

	return httptest.NewServer(router)
}

// pollAndRespond plays the worker's part against a live server: it blocks
// on GET next, asserts the Runtime Interface headers, then posts a
// response body to the resolved request id's deposit endpoint.
func pollAndRespond(t *testing.T, srv *httptest.Server, wantID, wantEventKey string, body string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/2018-06-01/runtime/invocation/next", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, wantID, resp.Header.Get("Lambda-Runtime-Aws-Request-Id"))
	assert.NotEmpty(t, resp.Header.Get("Lambda-Runtime-Trace-Id"))
	assert.NotEmpty(t, resp.Header.Get("Lambda-Runtime-Invoked-Function-Arn"))
	assert.NotEmpty(t, resp.Header.Get("Lambda-Runtime-Deadline-Ms"))

	var ev map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ev))
	assert.Equal(t, wantEventKey, ev["key"])

	depositResp, err := http.Post(
		srv.URL+"/2018-06-01/runtime/invocation/"+wantID+"/response",
		"application/json",
		strings.NewReader(body),
	)
	require.NoError(t, err)
	return depositResp
}

func TestScenario1_SingleInvocation(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	done := make(chan *http.Response, 1)
	go func() {
		resp, err := http.Post(srv.URL+"/", "application/json", strings.NewReader(`{"key":"event_0"}`))
		require.NoError(t, err)
		done <- resp
	}()

	depositResp := pollAndRespond(t, srv, "test_0", "event_0", `{"key":"response_0"}`)
	assert.Equal(t, http.StatusAccepted, depositResp.StatusCode)
	depositResp.Body.Close()

	select {
	case resp := <-done:
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var out map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.Equal(t, "response_0", out["key"])
	case <-time.After(2 * time.Second):
		t.Fatal("caller POST did not return")
	}
}

func TestScenario2_HundredSequentialInvocations_NoCrossTalk(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	for i := 0; i < 100; i++ {
		idx := i
		done := make(chan *http.Response, 1)
		go func() {
			resp, err := http.Post(srv.URL+"/", "application/json",
				strings.NewReader(`{"key":"event_`+strconv.Itoa(idx)+`"}`))
			require.NoError(t, err)
			done <- resp
		}()

		depositResp := pollAndRespond(t, srv, "test_"+strconv.Itoa(idx), "event_"+strconv.Itoa(idx), `{"key":"response_`+strconv.Itoa(idx)+`"}`)
		depositResp.Body.Close()

		select {
		case resp := <-done:
			var out map[string]any
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
			resp.Body.Close()
			assert.Equal(t, "response_"+strconv.Itoa(idx), out["key"])
		case <-time.After(2 * time.Second):
			t.Fatalf("caller POST %d did not return", idx)
		}
	}
}

func TestScenario3_BackpressureSpawnsWorker(t *testing.T) {
	cfg := config.Default()
	rv := rendezvous.New()
	boxes := mailbox.New()
	spawner := runtime.NewTestSpawner()
	rt := runtime.NewManager(spawner, 10*time.Second, testLogger())
	gen := service.NewSequenceGenerator()
	orch := service.NewOrchestrator(gen, rv, boxes, rt, testLogger())

	caller := NewCallerHandler(orch, testLogger())
	rapi := NewRuntimeAPIHandler(rv, boxes, cfg, testLogger())
	router := NewRouter(caller, rapi, testLogger())
	srv := httptest.NewServer(router)
	defer srv.Close()

	// Occupy the rendezvous slot so the first try-send observes "full".
	require.True(t, rv.TrySend("occupant", map[string]any{}))

	done := make(chan *http.Response, 1)
	go func() {
		resp, err := http.Post(srv.URL+"/", "application/json", strings.NewReader(`{"key":"event_0"}`))
		require.NoError(t, err)
		done <- resp
	}()

	assert.Eventually(t, func() bool {
		return len(spawner.Spawned()) > 0
	}, 250*time.Millisecond, 5*time.Millisecond, "backpressure must induce a spawn within 250ms")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, ok := rv.Recv(ctx)
	require.True(t, ok, "drain the occupant")

	depositResp := pollAndRespond(t, srv, "test_0", "event_0", `{"key":"response_0"}`)
	depositResp.Body.Close()

	select {
	case resp := <-done:
		resp.Body.Close()
	case <-time.After(2 * time.Second):
		t.Fatal("caller POST did not return")
	}
}

func TestScenario5_DepositWithoutMailbox(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/2018-06-01/runtime/invocation/unknown-id/response", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "NoResponse", out["errorType"])
}

func TestScenario6_EmptyResponseBody(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	done := make(chan *http.Response, 1)
	go func() {
		resp, err := http.Post(srv.URL+"/", "application/json", strings.NewReader(`{"key":"event_0"}`))
		require.NoError(t, err)
		done <- resp
	}()

	depositResp := pollAndRespond(t, srv, "test_0", "event_0", ``)
	assert.Equal(t, http.StatusAccepted, depositResp.StatusCode)
	depositResp.Body.Close()

	select {
	case resp := <-done:
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var out map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.Empty(t, out)
	case <-time.After(2 * time.Second):
		t.Fatal("caller POST did not return")
	}
}
