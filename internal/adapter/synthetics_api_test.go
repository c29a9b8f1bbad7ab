package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/synthci/synthci/internal/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *SyntheticsClient {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewSyntheticsClient("datadoghq.com", "api-key", "app-key",
		WithBaseURL(server.URL),
		WithHTTPClient(server.Client()),
		WithUserAgent("synthci/test"),
		WithRetries(2, func() backoff.BackOff { return &backoff.ZeroBackOff{} }),
	)
}

func TestSyntheticsClient_GetTest(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/synthetics/tests/abc-def-ghi", r.URL.Path)
		assert.Equal(t, "api-key", r.Header.Get("DD-API-KEY"))
		assert.Equal(t, "app-key", r.Header.Get("DD-APPLICATION-KEY"))
		assert.Equal(t, "synthci/test", r.Header.Get("User-Agent"))

		_, _ = io.WriteString(w, `{"public_id":"abc-def-ghi","name":"Checkout","type":"browser","options":{"ci":{"executionRule":"non_blocking"}}}`)
	})

	test, err := client.GetTest(context.Background(), "abc-def-ghi")
	require.NoError(t, err)
	assert.Equal(t, m.Test{
		PublicID:      "abc-def-ghi",
		Name:          "Checkout",
		Type:          "browser",
		ExecutionRule: m.RuleNonBlocking,
	}, test)
}

func TestSyntheticsClient_GetTest_NotFound(t *testing.T) {
	var calls atomic.Int32

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"errors":["Synthetics test not found"]}`)
	})

	_, err := client.GetTest(context.Background(), "abc-def-ghi")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, int32(1), calls.Load(), "4xx responses must not be retried")
}

func TestSyntheticsClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}

		_, _ = io.WriteString(w, `{"onDemandConcurrencyCap":25}`)
	})

	settings, err := client.GetOrgSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 25, settings.OnDemandConcurrencyCap)
	assert.Equal(t, int32(3), calls.Load())
}

func TestSyntheticsClient_GivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.GetOrgSettings(context.Background())
	require.Error(t, err)
	assert.False(t, IsNotFound(err))
	assert.Equal(t, int32(3), calls.Load())
}

func TestSyntheticsClient_SearchTests(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/synthetics/tests/search", r.URL.Path)
		assert.Equal(t, "tag:e2e env:prod", r.URL.Query().Get("text"))

		_, _ = io.WriteString(w, `{"tests":[{"public_id":"aaa-aaa-aaa"},{"public_id":"bbb-bbb-bbb"}]}`)
	})

	ids, err := client.SearchTests(context.Background(), "tag:e2e env:prod")
	require.NoError(t, err)
	assert.Equal(t, []string{"aaa-aaa-aaa", "bbb-bbb-bbb"}, ids)
}

func TestSyntheticsClient_TriggerTests(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/synthetics/tests/trigger/ci", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req TriggerRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Len(t, req.Tests, 1)
		assert.Equal(t, "abc-def-ghi", req.Tests[0].PublicID)
		assert.Equal(t, "github_action", req.Metadata.TriggerApp)

		_, _ = io.WriteString(w, `{"batch_id":"batch-1","locations":[]}`)
	})

	batchID, err := client.TriggerTests(context.Background(), TriggerRequest{
		Tests:    []TriggerTest{{PublicID: "abc-def-ghi"}},
		Metadata: &CIMetadata{TriggerApp: "github_action"},
	})
	require.NoError(t, err)
	assert.Equal(t, "batch-1", batchID)
}

func TestSyntheticsClient_TriggerTests_NotResentOnServerError(t *testing.T) {
	var calls atomic.Int32

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.TriggerTests(context.Background(), TriggerRequest{Tests: []TriggerTest{{PublicID: "abc-def-ghi"}}})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, int32(1), calls.Load(), "a trigger may have started the batch")
}

func TestSyntheticsClient_TriggerTests_RetriesRateLimit(t *testing.T) {
	var calls atomic.Int32

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}

		_, _ = io.WriteString(w, `{"batch_id":"batch-2"}`)
	})

	batchID, err := client.TriggerTests(context.Background(), TriggerRequest{Tests: []TriggerTest{{PublicID: "abc-def-ghi"}}})
	require.NoError(t, err)
	assert.Equal(t, "batch-2", batchID)
	assert.Equal(t, int32(2), calls.Load())
}

func TestIsRetryableStatus(t *testing.T) {
	tests := []struct {
		method string
		status int
		want   bool
	}{
		{http.MethodGet, http.StatusTooManyRequests, true},
		{http.MethodGet, http.StatusServiceUnavailable, true},
		{http.MethodGet, http.StatusNotFound, false},
		{http.MethodPost, http.StatusTooManyRequests, true},
		{http.MethodPost, http.StatusInternalServerError, false},
		{http.MethodPost, http.StatusBadRequest, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s %d", tt.method, tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, isRetryableStatus(tt.method, tt.status))
		})
	}
}

func TestSyntheticsClient_TriggerTests_MissingBatchID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	})

	_, err := client.TriggerTests(context.Background(), TriggerRequest{})
	require.Error(t, err)
}

func TestSyntheticsClient_GetBatch(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/synthetics/ci/batch/batch-1", r.URL.Path)

		_, _ = io.WriteString(w, `{"data":{"status":"in_progress","results":[
			{"test_public_id":"abc-def-ghi","result_id":"r1","status":"passed","execution_rule":"blocking","location":"aws:eu-west-1","duration":1500,"timed_out":false,"retries":1},
			{"test_public_id":"jkl-mno-pqr","status":"in_progress"}
		]}}`)
	})

	batch, err := client.GetBatch(context.Background(), "batch-1")
	require.NoError(t, err)
	assert.Equal(t, m.StatusInProgress, batch.Status)
	require.Len(t, batch.Results, 2)
	assert.Equal(t, BatchResult{
		TestPublicID:  "abc-def-ghi",
		ResultID:      "r1",
		Status:        m.StatusPassed,
		ExecutionRule: m.RuleBlocking,
		Location:      "aws:eu-west-1",
		DurationMs:    1500,
		Retries:       1,
	}, batch.Results[0])
}

func TestSyntheticsClient_InvalidJSON(t *testing.T) {
	var calls atomic.Int32

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = io.WriteString(w, `not json`)
	})

	_, err := client.GetOrgSettings(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestSyntheticsClient_ContextCancelled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.GetOrgSettings(ctx)
	require.Error(t, err)
}

func TestNewSyntheticsClient_BaseURLFromSite(t *testing.T) {
	client := NewSyntheticsClient("datadoghq.eu", "a", "b")
	assert.Equal(t, "https://api.datadoghq.eu", client.baseURL)
}
