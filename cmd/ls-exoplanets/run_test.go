package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litescript/ls-exoplanets/internal/catalog"
	"github.com/litescript/ls-exoplanets/internal/config"
	"github.com/litescript/ls-exoplanets/internal/logging"
	"github.com/litescript/ls-exoplanets/internal/scene"
	"github.com/litescript/ls-exoplanets/internal/state"
)

const testCatalog = `[
  {"hostname": "TRAPPIST-1", "pl_name": "TRAPPIST-1 b", "pl_type": "Terrestrial",
   "pl_orbsmax": 0.0115, "pl_orbper": 1.51, "st_teff": 2566, "st_rad": 0.12,
   "cartesian_x": -5.3, "cartesian_y": 10.2, "cartesian_z": -2.1},
  {"hostname": "51 Peg", "pl_name": "51 Peg b", "pl_type": "Gas Giants",
   "pl_orbsmax": 0.05, "pl_orbper": 4.23, "st_teff": 5790,
   "cartesian_x": 12.0, "cartesian_y": -3.0, "cartesian_z": 40.0}
]`

// catalogServer serves testCatalog until down is set.
type catalogServer struct {
	*httptest.Server
	down atomic.Bool
}

func newCatalogServer(t *testing.T) *catalogServer {
	t.Helper()
	s := &catalogServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.down.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		switch r.URL.Path {
		case "/api/data":
			_, _ = io.WriteString(w, testCatalog)
		case "/api/data/filter/combined":
			_, _ = io.WriteString(w, `{"filtered_data": "[{\"pl_name\": \"51 Peg b\"}]"}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(s.Close)
	return s
}

func newTestApp(t *testing.T, baseURL, cachePath string) *app {
	t.Helper()
	cfg, err := config.Load("", nil)
	require.NoError(t, err)
	cfg.API.BaseURL = baseURL
	cfg.API.Timeout = 5 * time.Second
	cfg.API.FilterRate = 0
	cfg.Cache.Path = cachePath

	a, err := newApp(cfg, logging.Discard(), 1)
	require.NoError(t, err)
	t.Cleanup(a.close)
	return a
}

func TestRunHeadless_Summary(t *testing.T) {
	srv := newCatalogServer(t)
	a := newTestApp(t, srv.URL, "")

	var out bytes.Buffer
	err := a.runHeadless(context.Background(), &out, options{summary: true}, catalog.Criteria{})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "TRAPPIST-1")
	assert.Contains(t, out.String(), "Total: 2 systems, 2 planets")
	assert.NotContains(t, out.String(), "(from cache)")
}

func TestRunHeadless_SnapshotWithFilter(t *testing.T) {
	srv := newCatalogServer(t)
	a := newTestApp(t, srv.URL, "")

	var out bytes.Buffer
	opts := options{snapshotPath: "-", at: 10 * time.Second}
	criteria := catalog.Criteria{MaxDistance: catalog.Float(50)}
	require.NoError(t, a.runHeadless(context.Background(), &out, opts, criteria))

	var export scene.SnapshotExport
	require.NoError(t, json.Unmarshal(out.Bytes(), &export))
	assert.Equal(t, 10.0, export.ElapsedSeconds)
	assert.Equal(t, "SUN", export.Sun.Key)
	require.Len(t, export.Stars, 1)
	assert.Equal(t, "51 Peg", export.Stars[0].Key)
	require.Len(t, export.Planets, 1)
	assert.Equal(t, "51 Peg-0", export.Planets[0].Key)
}

func TestRunHeadless_SnapshotFile(t *testing.T) {
	srv := newCatalogServer(t)
	a := newTestApp(t, srv.URL, "")
	path := filepath.Join(t.TempDir(), "scene.json")

	require.NoError(t, a.runHeadless(context.Background(), io.Discard, options{snapshotPath: path}, catalog.Criteria{}))
	assert.FileExists(t, path)
}

func TestLoadCatalog_CacheFallback(t *testing.T) {
	srv := newCatalogServer(t)
	a := newTestApp(t, srv.URL, filepath.Join(t.TempDir(), "cache.db"))
	ctx := context.Background()

	res, source := a.loadCatalog(ctx)
	require.NoError(t, res.Error)
	assert.Equal(t, state.SourceLive, source)

	srv.down.Store(true)
	res, source = a.loadCatalog(ctx)
	require.NoError(t, res.Error)
	assert.Equal(t, state.SourceCache, source)
	assert.Len(t, res.Rows, 2)

	var out bytes.Buffer
	require.NoError(t, a.runHeadless(ctx, &out, options{summary: true}, catalog.Criteria{}))
	assert.Contains(t, out.String(), "(from cache)")
}

func TestLoadCatalog_NoCache(t *testing.T) {
	srv := newCatalogServer(t)
	srv.down.Store(true)
	a := newTestApp(t, srv.URL, filepath.Join(t.TempDir(), "cache.db"))

	res, _ := a.loadCatalog(context.Background())
	assert.True(t, errors.Is(res.Error, catalog.ErrUnexpectedStatus), "err = %v", res.Error)

	err := a.runHeadless(context.Background(), io.Discard, options{summary: true}, catalog.Criteria{})
	assert.Error(t, err)
}

func TestCriteriaFromFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
		check   func(t *testing.T, c catalog.Criteria)
	}{
		{"none", nil, false, func(t *testing.T, c catalog.Criteria) {
			assert.True(t, c.IsEmpty())
		}},
		{"distance and method", []string{"--filter-max-distance", "120", "--filter-method", "Transit"}, false,
			func(t *testing.T, c catalog.Criteria) {
				require.NotNil(t, c.MaxDistance)
				assert.Equal(t, 120.0, *c.MaxDistance)
				require.NotNil(t, c.DiscoveryMethod)
				assert.Equal(t, catalog.MethodTransit, *c.DiscoveryMethod)
				assert.Nil(t, c.ESIThreshold)
			}},
		{"explicit zero is kept", []string{"--filter-esi", "0"}, false, func(t *testing.T, c catalog.Criteria) {
			require.NotNil(t, c.ESIThreshold)
			assert.Equal(t, 0.0, *c.ESIThreshold)
		}},
		{"esi out of range", []string{"--filter-esi", "1.5"}, true, nil},
		{"unknown method", []string{"--filter-method", "Telepathy"}, true, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts options
			cmd := newRootCmd()
			require.NoError(t, cmd.ParseFlags(tt.args))
			opts.maxDistance, _ = cmd.Flags().GetFloat64("filter-max-distance")
			opts.esi, _ = cmd.Flags().GetFloat64("filter-esi")
			opts.method, _ = cmd.Flags().GetString("filter-method")

			c, err := criteriaFromFlags(cmd, opts)
			if tt.wantErr {
				assert.True(t, errors.Is(err, catalog.ErrInvalidCriteria), "err = %v", err)
				return
			}
			require.NoError(t, err)
			tt.check(t, c)
		})
	}
}
