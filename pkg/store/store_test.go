package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitwall/strategy-engine/pkg/model"
)

func testRecords() []model.LapRecord {
	return []model.LapRecord{
		{VehicleID: "7", LapNumber: 2, LapTime: 91.2},
		{VehicleID: "7", LapNumber: 1, LapTime: 90.5},
		{VehicleID: "22", LapNumber: 1, LapTime: 92.0},
		{VehicleID: "22", LapNumber: 2}, // timing dropout
	}
}

// both implementations must satisfy the same contract
func runLapStoreContract(t *testing.T, s LapStore) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, testRecords()))

	t.Run("laps ordered by lap number", func(t *testing.T) {
		got, err := s.Laps(ctx, "7")
		require.NoError(t, err)
		want := []model.LapRecord{
			{VehicleID: "7", LapNumber: 1, LapTime: 90.5},
			{VehicleID: "7", LapNumber: 2, LapTime: 91.2},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Laps() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("unknown vehicle yields empty", func(t *testing.T) {
		got, err := s.Laps(ctx, "99")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("vehicles sorted", func(t *testing.T) {
		got, err := s.Vehicles(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"22", "7"}, got)
	})

	t.Run("all ordered by vehicle then lap", func(t *testing.T) {
		got, err := s.All(ctx)
		require.NoError(t, err)
		want := []model.LapRecord{
			{VehicleID: "22", LapNumber: 1, LapTime: 92.0},
			{VehicleID: "22", LapNumber: 2},
			{VehicleID: "7", LapNumber: 1, LapTime: 90.5},
			{VehicleID: "7", LapNumber: 2, LapTime: 91.2},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("All() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("reinsert replaces the record", func(t *testing.T) {
		corrected := []model.LapRecord{{VehicleID: "22", LapNumber: 2, LapTime: 93.3}}
		require.NoError(t, s.Insert(ctx, corrected))
		laps, err := s.Laps(ctx, "22")
		require.NoError(t, err)
		require.Len(t, laps, 2)
		assert.InDelta(t, 93.3, laps[1].LapTime, 1e-9)
	})

	t.Run("lap times keep invalid entries as zero", func(t *testing.T) {
		times, err := LapTimes(ctx, s, "7")
		require.NoError(t, err)
		assert.Equal(t, []float64{90.5, 91.2}, times)
	})
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	runLapStoreContract(t, s)
}

func TestSqliteStore(t *testing.T) {
	s, err := NewSqliteStore(filepath.Join(t.TempDir(), "laps.db"))
	require.NoError(t, err)
	defer s.Close()
	runLapStoreContract(t, s)
}

func TestSqliteStoreReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "laps.db")

	s, err := NewSqliteStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Insert(ctx, testRecords()))
	require.NoError(t, s.Close())

	// records survive the process
	s, err = NewSqliteStore(path)
	require.NoError(t, err)
	defer s.Close()
	vehicles, err := s.Vehicles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"22", "7"}, vehicles)
}
