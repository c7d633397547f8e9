package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litescript/ls-exoplanets/internal/metrics"
)

func TestNewClient(t *testing.T) {
	c := NewClient(WithBaseURL("http://localhost:8000/"))

	assert.Equal(t, "http://localhost:8000", c.BaseURL())
	assert.NotNil(t, c.client)
	assert.NotNil(t, c.limiter)
	assert.Equal(t, DefaultTimeout, c.client.Timeout)
}

func TestFetchCatalog_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/data", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, sampleCatalog)
	}))
	defer server.Close()

	m := metrics.New()
	c := NewClient(WithBaseURL(server.URL), WithMetrics(m))
	result := c.FetchCatalog(context.Background())

	require.NoError(t, result.Error)
	assert.Len(t, result.Rows, 2)
	assert.Equal(t, 1, result.Dropped)
	assert.False(t, result.FetchedAt.IsZero())
	n, err := testutil.GatherAndCount(m.Registry(), "lsexo_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestFetchCatalog_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewClient(WithBaseURL(server.URL))
	result := c.FetchCatalog(context.Background())

	require.Error(t, result.Error)
	assert.True(t, errors.Is(result.Error, ErrUnexpectedStatus))
	assert.Nil(t, result.Rows)
}

func TestFetchCatalog_BadJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "<html>maintenance</html>")
	}))
	defer server.Close()

	c := NewClient(WithBaseURL(server.URL))
	result := c.FetchCatalog(context.Background())

	require.Error(t, result.Error)
	assert.Contains(t, result.Error.Error(), "parse catalog")
}

func TestFetchCatalog_Unreachable(t *testing.T) {
	c := NewClient(WithBaseURL("http://127.0.0.1:1"), WithTimeout(time.Second))
	result := c.FetchCatalog(context.Background())
	assert.Error(t, result.Error)
}

func TestFilter_SendsDefaultBody(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/data/filter/combined", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		_, _ = io.WriteString(w, `{"filtered_data": "[{\"pl_name\": \"TRAPPIST-1 b\"}]"}`)
	}))
	defer server.Close()

	c := NewClient(WithBaseURL(server.URL), WithFilterRate(0))
	names, err := c.Filter(context.Background(), Criteria{})

	require.NoError(t, err)
	assert.Equal(t, []string{"TRAPPIST-1 b"}, names)
	assert.Equal(t, map[string]any{"max_distance": 8600.0}, received)
}

func TestFilter_MalformedInnerPayloadIsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"filtered_data": "oops"}`)
	}))
	defer server.Close()

	c := NewClient(WithBaseURL(server.URL), WithFilterRate(0))
	names, err := c.Filter(context.Background(), Criteria{MaxDistance: Float(20)})

	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestFilter_InvalidCriteriaNotSent(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	c := NewClient(WithBaseURL(server.URL))
	_, err := c.Filter(context.Background(), Criteria{ESIThreshold: Float(2)})

	assert.ErrorIs(t, err, ErrInvalidCriteria)
	assert.False(t, called, "invalid criteria must not reach the service")
}

func TestFilter_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	c := NewClient(WithBaseURL(server.URL), WithFilterRate(0))
	_, err := c.Filter(context.Background(), Criteria{})

	assert.ErrorIs(t, err, ErrUnexpectedStatus)
}

func TestFilter_RateLimitHonorsContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"filtered_data": "[]"}`)
	}))
	defer server.Close()

	c := NewClient(WithBaseURL(server.URL), WithFilterRate(0.01))

	_, err := c.Filter(context.Background(), Criteria{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = c.Filter(ctx, Criteria{})
	assert.Error(t, err, "second request should not get a slot before the deadline")
}
