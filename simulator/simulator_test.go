package simulator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecotrack/binsight/core/store"
)

func testConfig() Config {
	cfg := Config{Bins: 3, Days: 2, IntervalHours: 6, Seed: 42, Noise: 1}
	cfg.SetDefaults()
	return cfg
}

func TestSeedGeneratesFleet(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	st := store.NewMemoryStore()

	require.NoError(t, New(testConfig(), nil).Seed(ctx, st, now))

	bins, err := st.ListBins(ctx)
	require.NoError(t, err)
	require.Len(t, bins, 3)
	assert.Equal(t, "bin0001", bins[0].ID)

	// 2 days at 6h steps, endpoints inclusive.
	obs, err := st.Observations(ctx, "bin0001", time.Time{})
	require.NoError(t, err)
	assert.Len(t, obs, 9)
	for _, o := range obs {
		assert.GreaterOrEqual(t, o.FillLevel, 0.0)
		assert.LessOrEqual(t, o.FillLevel, 100.0)
		assert.False(t, o.Timestamp.After(now))
	}
	assert.Equal(t, now, obs[len(obs)-1].Timestamp)
	// Current fill mirrors the newest reading.
	bin, err := st.GetBin(ctx, "bin0001")
	require.NoError(t, err)
	assert.Equal(t, obs[len(obs)-1].FillLevel, bin.CurrentFillLevel)
}

func TestSeedDeterministicForSeed(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	levels := func() []float64 {
		st := store.NewMemoryStore()
		require.NoError(t, New(testConfig(), nil).Seed(ctx, st, now))
		obs, err := st.Observations(ctx, "bin0002", time.Time{})
		require.NoError(t, err)
		out := make([]float64, len(obs))
		for i, o := range obs {
			out[i] = o.FillLevel
		}
		return out
	}

	assert.Equal(t, levels(), levels())
}

func TestConfigValidate(t *testing.T) {
	cfg := testConfig()
	require.NoError(t, cfg.Validate())

	bad := cfg
	bad.IntervalHours = 0
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.MinRate = 10
	bad.MaxRate = 5
	assert.Error(t, bad.Validate())
}
