//nolint:funlen // readability
package strategy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pitwall/strategy-engine/pkg/model"
)

func TestCompare(t *testing.T) {
	got := Compare(95.0)
	assert.Len(t, got, 5)

	// subject sits at position 3 with zero offset
	assert.Equal(t, SubjectVehicleID, got[2].VehicleID)
	assert.Equal(t, 3, got[2].Position)
	assert.InDelta(t, 95.0, got[2].CurrentPace, 1e-9)
	assert.InDelta(t, 0, got[2].GapToSubject, 1e-9)

	// faster car ahead, slower cars behind
	assert.Equal(t, "P1", got[0].VehicleID)
	assert.InDelta(t, 94.2, got[0].CurrentPace, 1e-9)
	assert.Equal(t, "high", got[0].ThreatLevel)
	assert.Equal(t, "P5", got[4].VehicleID)
	assert.InDelta(t, 95.6, got[4].CurrentPace, 1e-9)
	assert.Equal(t, "low", got[4].ThreatLevel)

	for i, row := range got {
		assert.Equal(t, i+1, row.Position)
	}
}

func TestCompareInvalidPace(t *testing.T) {
	for _, pace := range []float64{0, -5, math.NaN(), math.Inf(1)} {
		got := Compare(pace)
		assert.InDelta(t, 90.0, got[2].CurrentPace, 1e-9)
	}
}

func TestCompareFromSnapshots(t *testing.T) {
	snapshots := []model.PositionSnapshot{
		{Lap: 5, VehicleID: "1", Position: 1, LapTime: 94.0, CumulativeTime: 470},
		{Lap: 5, VehicleID: "2", Position: 2, LapTime: 94.5, CumulativeTime: 473},
		{Lap: 5, VehicleID: "9", Position: 3, LapTime: 95.0, CumulativeTime: 476},
		{Lap: 5, VehicleID: "4", Position: 4, LapTime: 95.5, CumulativeTime: 479},
		{Lap: 5, VehicleID: "5", Position: 5, LapTime: 94.2, CumulativeTime: 490},
		// earlier lap must be ignored
		{Lap: 4, VehicleID: "9", Position: 5, LapTime: 96.0, CumulativeTime: 381},
	}
	got := CompareFromSnapshots(snapshots, "9")
	assert.Len(t, got, 5)

	assert.Equal(t, SubjectVehicleID, got[2].VehicleID)
	assert.Equal(t, "-", got[2].ThreatLevel)
	// P2 is within 5s and faster
	assert.Equal(t, "2", got[1].VehicleID)
	assert.Equal(t, "high", got[1].ThreatLevel)
	assert.InDelta(t, -3, got[1].GapToSubject, 1e-9)
	// P4 is close but slower
	assert.Equal(t, "medium", got[3].ThreatLevel)
	// P5 is far behind but faster on the last lap
	assert.Equal(t, "medium", got[4].ThreatLevel)
}

func TestCompareFromSnapshotsUnknownSubject(t *testing.T) {
	snapshots := []model.PositionSnapshot{
		{Lap: 1, VehicleID: "1", Position: 1, LapTime: 94.0, CumulativeTime: 94},
	}
	got := CompareFromSnapshots(snapshots, "99")
	// synthetic fallback table
	assert.Len(t, got, 5)
	assert.Equal(t, SubjectVehicleID, got[2].VehicleID)
}
