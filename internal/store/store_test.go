package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"universal-portfolio/internal/backtest"
	"universal-portfolio/internal/model"
)

func sampleResult(t *testing.T) *backtest.Result {
	t.Helper()
	b, err := model.NewWeightVector(0.25, 0.75)
	require.NoError(t, err)
	return &backtest.Result{
		Strategy: "universal",
		Assets:   []string{"aapl", "nflx"},
		Ledger: []backtest.LedgerRow{{
			Day:       1,
			Weights:   b,
			Returns:   []float64{1.02, 0.98},
			DayReturn: 0.99,
			Universal: 0.99,
			Baselines: []float64{1.02, 0.98},
			Standing:  model.StandingMixed,
		}},
		Universal:   []float64{0.99},
		Baselines:   map[string][]float64{"aapl": {1.02}, "nflx": {0.98}},
		FinalWealth: 0.99,
	}
}

func stores(t *testing.T) map[string]RunStore {
	t.Helper()
	mem := NewMemoryStore(time.Hour)
	t.Cleanup(func() { mem.Close() })
	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return map[string]RunStore{"memory": mem, "sqlite": db}
}

func TestRunStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			run := NewRun(sampleResult(t), 20, 10000)
			require.NoError(t, s.Save(ctx, run))

			got, err := s.Get(ctx, run.ID)
			require.NoError(t, err)
			assert.Equal(t, run.ID, got.ID)
			assert.True(t, run.CreatedAt.Equal(got.CreatedAt))
			assert.Equal(t, "universal", got.Strategy)
			assert.Equal(t, []string{"aapl", "nflx"}, got.Assets)
			assert.Equal(t, 1, got.Horizon)
			assert.Equal(t, 20, got.Quantization)
			assert.Equal(t, 10000.0, got.Capital)
			require.NotNil(t, got.Result)
			assert.Equal(t, []float64{0.25, 0.75}, got.Result.Ledger[0].Weights.Values())
			assert.Equal(t, model.StandingMixed, got.Result.Ledger[0].Standing)
			assert.Equal(t, []float64{1.02}, got.Result.Baselines["aapl"])
		})
	}
}

func TestRunStore_NotFound(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(ctx, uuid.New())
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestRunStore_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
			var ids []uuid.UUID
			for i := 0; i < 3; i++ {
				run := NewRun(sampleResult(t), 20, 1)
				run.CreatedAt = base.Add(time.Duration(i) * time.Second)
				require.NoError(t, s.Save(ctx, run))
				ids = append(ids, run.ID)
			}

			all, err := s.List(ctx, 0)
			require.NoError(t, err)
			require.Len(t, all, 3)
			assert.Equal(t, ids[2], all[0].ID)
			assert.Equal(t, ids[0], all[2].ID)

			two, err := s.List(ctx, 2)
			require.NoError(t, err)
			assert.Len(t, two, 2)
		})
	}
}

func TestMemoryStore_Expiry(t *testing.T) {
	s := NewMemoryStore(20 * time.Millisecond)
	defer s.Close()
	ctx := context.Background()

	run := NewRun(sampleResult(t), 20, 1)
	require.NoError(t, s.Save(ctx, run))
	_, err := s.Get(ctx, run.ID)
	require.NoError(t, err)

	time.Sleep(40 * time.Millisecond)
	_, err = s.Get(ctx, run.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	list, err := s.List(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSave_AssignsID(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			run := &Run{CreatedAt: time.Now(), Strategy: "constant", Result: sampleResult(t)}
			require.NoError(t, s.Save(ctx, run))
			assert.NotEqual(t, uuid.Nil, run.ID)
			assert.Error(t, s.Save(ctx, nil))
		})
	}
}

func TestOpenSQLite_ReopenKeepsRuns(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "runs.db")

	db, err := OpenSQLite(path)
	require.NoError(t, err)
	run := NewRun(sampleResult(t), 20, 1)
	require.NoError(t, db.Save(ctx, run))
	require.NoError(t, db.Close())

	db, err = OpenSQLite(path)
	require.NoError(t, err)
	defer db.Close()
	version, err := db.schemaVersion()
	require.NoError(t, err)
	assert.Equal(t, 1, version)
	got, err := db.Get(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
}

func TestOpenSQLite_UnreadableSchemaVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.db")
	raw, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = raw.Exec("CREATE TABLE schema_version (v INTEGER)")
	require.NoError(t, err)
	require.NoError(t, raw.Close())

	_, err = OpenSQLite(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema version")
}
