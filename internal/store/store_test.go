package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litescript/ls-exoplanets/internal/catalog"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleRows() []catalog.Row {
	f := catalog.Float
	spec := "M"
	method := "Transit"
	return []catalog.Row{
		{Hostname: "TRAPPIST-1", Name: "TRAPPIST-1 b", Type: catalog.Terrestrial,
			SemiMajorAxis: f(0.0115), Period: f(1.51), StarTemp: f(2566), StarRadius: f(0.12),
			SpectralType: &spec, X: f(-5.3), Y: f(10.2), Z: f(-2.1), DiscoveryMethod: &method},
		{Hostname: "HD 209458", Name: "HD 209458 b", Type: catalog.GasGiant, EarthRadii: f(15.6)},
		{Hostname: "TRAPPIST-1", Name: "TRAPPIST-1 c", Type: catalog.Terrestrial},
	}
}

func TestLoadCatalog_Empty(t *testing.T) {
	s := openTemp(t)

	_, _, err := s.LoadCatalog(context.Background())
	assert.True(t, errors.Is(err, ErrNoCatalog), "err = %v", err)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	savedAt := time.Date(2026, 5, 4, 3, 2, 1, 0, time.UTC)

	rows := sampleRows()
	require.NoError(t, s.SaveCatalog(ctx, rows, savedAt))

	got, at, err := s.LoadCatalog(ctx)
	require.NoError(t, err)
	assert.True(t, at.Equal(savedAt), "savedAt = %v", at)
	assert.Equal(t, rows, got)

	// Grouping the cached rows gives the same systems as the original.
	assert.Equal(t, catalog.Group(rows).Hosts(), catalog.Group(got).Hosts())
}

func TestSaveCatalog_Replaces(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	require.NoError(t, s.SaveCatalog(ctx, sampleRows(), time.Now()))
	require.NoError(t, s.SaveCatalog(ctx, sampleRows()[1:2], time.Now()))

	got, _, err := s.LoadCatalog(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "HD 209458 b", got[0].Name)
}

func TestSaveCatalog_EmptyCatalog(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	require.NoError(t, s.SaveCatalog(ctx, nil, time.Now()))

	got, _, err := s.LoadCatalog(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.SaveCatalog(ctx, sampleRows(), time.Now()))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	got, _, err := s.LoadCatalog(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}
