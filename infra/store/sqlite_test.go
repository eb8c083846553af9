package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecotrack/binsight/core/model"
	corestore "github.com/ecotrack/binsight/core/store"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "binsight.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteBins(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.GetBin(ctx, "missing")
	assert.ErrorIs(t, err, corestore.ErrBinNotFound)

	require.NoError(t, s.PutBin(ctx, model.Bin{ID: "b1", CurrentFillLevel: 15}))
	require.NoError(t, s.PutBin(ctx, model.Bin{ID: "b2", CurrentFillLevel: 55}))

	bin, err := s.GetBin(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, 15.0, bin.CurrentFillLevel)

	require.NoError(t, s.SetFillLevel(ctx, "b1", 80))
	bin, err = s.GetBin(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, 80.0, bin.CurrentFillLevel)

	assert.ErrorIs(t, s.SetFillLevel(ctx, "missing", 10), corestore.ErrBinNotFound)

	bins, err := s.ListBins(ctx)
	require.NoError(t, err)
	require.Len(t, bins, 2)
	assert.Equal(t, "b1", bins[0].ID)
}

func TestSQLiteObservationRange(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.PutBin(ctx, model.Bin{ID: "b1", CurrentFillLevel: 30}))
	for i, fill := range []float64{10, 20, 30} {
		require.NoError(t, s.Append(ctx, model.Observation{
			ID:        uuid.NewString(),
			BinID:     "b1",
			FillLevel: fill,
			Timestamp: base.Add(time.Duration(i) * time.Hour),
			Source:    model.SourceSensor,
		}))
	}

	got, err := s.Observations(ctx, "b1", base.Add(30*time.Minute))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 20.0, got[0].FillLevel)
	assert.Equal(t, model.SourceSensor, got[0].Source)
	assert.Equal(t, base.Add(time.Hour), got[0].Timestamp)
}

func TestSQLiteObservationsByBin(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	for _, o := range []model.Observation{
		{ID: uuid.NewString(), BinID: "b1", FillLevel: 40, Timestamp: base.Add(2 * time.Hour), Source: model.SourceDeposit},
		{ID: uuid.NewString(), BinID: "b1", FillLevel: 20, Timestamp: base, Source: model.SourceManual},
		{ID: uuid.NewString(), BinID: "b2", FillLevel: 70, Timestamp: base.Add(time.Hour), Source: model.SourceSimulation},
	} {
		require.NoError(t, s.Append(ctx, o))
	}

	all, err := s.ObservationsByBin(ctx, base)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Len(t, all["b1"], 2)
	assert.Equal(t, 20.0, all["b1"][0].FillLevel, "per-bin slices must be time ordered")
	assert.Equal(t, model.SourceSimulation, all["b2"][0].Source)
}
