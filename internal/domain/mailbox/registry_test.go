package mailbox

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcwright/lambda-gateway/internal/domain/model"
)

func TestRegisterDepositAwait_RoundTrip(t *testing.T) {
	r := New()
	r.Register("test_0")

	require.True(t, r.Deposit("test_0", model.Response{"key": "response_0"}))

	resp, ok := r.Await(context.Background(), "test_0")
	require.True(t, ok)
	assert.Equal(t, model.Response{"key": "response_0"}, resp)
}

func TestAwait_BlocksUntilDeposit(t *testing.T) {
	r := New()
	r.Register("test_0")

	result := make(chan model.Response, 1)
	go func() {
		resp, ok := r.Await(context.Background(), "test_0")
		if ok {
			result <- resp
		}
	}()

	time.Sleep(20 * time.Millisecond)
	require.True(t, r.Deposit("test_0", model.Response{"key": "response_0"}))

	select {
	case resp := <-result:
		assert.Equal(t, model.Response{"key": "response_0"}, resp)
	case <-time.After(time.Second):
		t.Fatal("Await did not unblock after Deposit")
	}
}

func TestDeposit_NoMailboxForUnknownID(t *testing.T) {
	r := New()
	ok := r.Deposit("unknown-id", model.Response{})
	assert.False(t, ok)
}

func TestDeposit_OnlySucceedsOnce(t *testing.T) {
	r := New()
	r.Register("test_0")

	require.True(t, r.Deposit("test_0", model.Response{"key": "response_0"}))
	assert.False(t, r.Deposit("test_0", model.Response{"key": "response_1"}))
}

func TestAwait_OnlySucceedsOnce(t *testing.T) {
	r := New()
	r.Register("test_0")
	require.True(t, r.Deposit("test_0", model.Response{"key": "response_0"}))

	_, ok := r.Await(context.Background(), "test_0")
	require.True(t, ok)

	_, ok = r.Await(context.Background(), "test_0")
	assert.False(t, ok, "a second await for the same id must find no retriever registered")
}

func TestAwait_CancelledContextReturnsGoneAndClearsDepositor(t *testing.T) {
	r := New()
	r.Register("test_0")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, ok := r.Await(ctx, "test_0")
	assert.False(t, ok)

	// The depositor half must have been dropped too, so a late worker
	// deposit observes no_mailbox instead of silently succeeding.
	assert.False(t, r.Deposit("test_0", model.Response{"key": "late"}))
}

func TestRegistry_HundredConcurrentInvocations_NoCrossTalk(t *testing.T) {
	r := New()
	const n = 100

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		id := model.InvocationId(idFor(i))
		r.Register(id)
	}

	for i := 0; i < n; i++ {
		i := i
		id := model.InvocationId(idFor(i))
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.True(t, r.Deposit(id, model.Response{"key": respFor(i)}))
		}()
	}

	results := make([]model.Response, n)
	for i := 0; i < n; i++ {
		id := model.InvocationId(idFor(i))
		resp, ok := r.Await(context.Background(), id)
		require.True(t, ok)
		results[i] = resp
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		assert.Equal(t, model.Response{"key": respFor(i)}, results[i])
	}
}

func idFor(i int) string   { return "test_" + strconv.Itoa(i) }
func respFor(i int) string { return "response_" + strconv.Itoa(i) }
