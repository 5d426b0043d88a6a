package generation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/cardiq/internal/common"
	"github.com/dmitrijs2005/cardiq/internal/config"
	"github.com/dmitrijs2005/cardiq/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	retryBackoff = time.Millisecond
}

// fakeCompletions отвечает статусами из statuses по очереди, затем 200 с reply.
func fakeCompletions(t *testing.T, reply string, statuses ...int) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(atomic.AddInt32(&calls, 1))
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		if n <= len(statuses) {
			w.WriteHeader(statuses[n-1])
			_, _ = w.Write([]byte(`{"error":{"message":"upstream said no","type":"server_error"}}`))
			return
		}

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		if assert.Len(t, req.Messages, 1) {
			assert.Equal(t, "user", req.Messages[0].Role)
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "cmpl-1",
			"object": "chat.completion",
			"model":  req.Model,
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": reply},
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func newTestClient(t *testing.T, baseURL string, retries int) *OpenAIClient {
	t.Helper()
	c, err := NewOpenAIClient(config.GenerationConfig{
		BaseURL:    baseURL,
		APIKey:     "test-key",
		Model:      "test-model",
		Timeout:    5 * time.Second,
		MaxRetries: retries,
	}, logging.Discard())
	require.NoError(t, err)
	return c
}

func TestNewOpenAIClient_RequiresKeyAndModel(t *testing.T) {
	_, err := NewOpenAIClient(config.GenerationConfig{Model: "m"}, logging.Discard())
	require.ErrorIs(t, err, common.ErrInvalidInput)

	_, err = NewOpenAIClient(config.GenerationConfig{APIKey: "k"}, logging.Discard())
	require.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestComplete_OK(t *testing.T) {
	srv, calls := fakeCompletions(t, "hello")
	c := newTestClient(t, srv.URL, 2)

	out, err := c.Complete(context.Background(), "say hello")
	require.NoError(t, err)
	require.Equal(t, "hello", out)
	require.EqualValues(t, 1, atomic.LoadInt32(calls))
}

func TestComplete_RetriesServerErrorsAndRateLimit(t *testing.T) {
	srv, calls := fakeCompletions(t, "ok", http.StatusInternalServerError, http.StatusTooManyRequests)
	c := newTestClient(t, srv.URL, 2)

	out, err := c.Complete(context.Background(), "x")
	require.NoError(t, err)
	require.Equal(t, "ok", out)
	require.EqualValues(t, 3, atomic.LoadInt32(calls))
}

func TestComplete_GivesUpAfterMaxRetries(t *testing.T) {
	srv, calls := fakeCompletions(t, "never", http.StatusBadGateway, http.StatusBadGateway, http.StatusBadGateway)
	c := newTestClient(t, srv.URL, 1)

	_, err := c.Complete(context.Background(), "x")
	require.ErrorIs(t, err, common.ErrGenerationFailure)
	require.EqualValues(t, 2, atomic.LoadInt32(calls))
}

func TestComplete_ClientErrorIsNotRetried(t *testing.T) {
	srv, calls := fakeCompletions(t, "never", http.StatusUnauthorized)
	c := newTestClient(t, srv.URL, 3)

	_, err := c.Complete(context.Background(), "x")
	require.ErrorIs(t, err, common.ErrGenerationFailure)
	require.EqualValues(t, 1, atomic.LoadInt32(calls))
}

func TestComplete_CanceledContext(t *testing.T) {
	srv, _ := fakeCompletions(t, "ok")
	c := newTestClient(t, srv.URL, 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Complete(ctx, "x")
	require.ErrorIs(t, err, common.ErrGenerationFailure)
	require.ErrorIs(t, err, context.Canceled)
}
