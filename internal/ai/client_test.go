package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teamflow/internal/planner"
	"teamflow/pkg/circuitbreaker"
)

func completionServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func sampleRequest() planner.CompletionRequest {
	return planner.CompletionRequest{
		Context:      "instructions",
		Input:        "payload",
		FunctionName: "generate_roadmap",
	}
}

func TestCompleteSuccess(t *testing.T) {
	srv := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/complete", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req planner.CompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "generate_roadmap", req.FunctionName)

		json.NewEncoder(w).Encode(map[string]string{"output": `{"stages": []}`})
	})

	c := NewClient(srv.URL, time.Second)
	out, err := c.Complete(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, `{"stages": []}`, out)
}

func TestCompleteServerError(t *testing.T) {
	srv := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	c := NewClient(srv.URL, time.Second)
	_, err := c.Complete(context.Background(), sampleRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "completion service 5xx: 503")
}

func TestCompleteClientError(t *testing.T) {
	srv := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	c := NewClient(srv.URL, time.Second)
	_, err := c.Complete(context.Background(), sampleRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "completion service error: 400")
}

func TestCompleteUnreachable(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", 200*time.Millisecond)
	_, err := c.Complete(context.Background(), sampleRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to call completion service")
}

func TestBreakerTripsAfterRepeatedFailures(t *testing.T) {
	srv := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	c := NewClient(srv.URL, time.Second)
	for i := 0; i < 5; i++ {
		_, err := c.Complete(context.Background(), sampleRequest())
		require.Error(t, err)
	}

	// Breaker is open now; the request never reaches the server.
	_, err := c.Complete(context.Background(), sampleRequest())
	assert.ErrorIs(t, err, circuitbreaker.ErrCircuitBreakerOpen)
}
