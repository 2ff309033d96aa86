package strategy

import (
	"fmt"
	"math"
	"slices"

	"github.com/pitwall/strategy-engine/pkg/model"
)

// SubjectVehicleID marks the subject's own row in comparison tables.
const SubjectVehicleID = "self"

// fixed relative pace offsets of the synthetic comparison field,
// positions 1-5 around the subject
var comparisonTable = []struct {
	paceOffset   float64
	strategy     string
	threat       string
	gapToSubject float64
}{
	{-0.8, "aggressive undercut", "high", -2.5},
	{-0.3, "one-stop", "medium", -1.2},
	{0, "current", "-", 0},
	{0.2, "extended stint", "medium", 0.9},
	{0.6, "two-stop", "low", 2.8},
}

// Compare produces the deterministic synthetic comparison table around
// the subject vehicle (position 3 of 5). No real competitor telemetry
// is consumed; CompareFromSnapshots provides the telemetry-backed
// variant with the identical row shape.
func Compare(currentPace float64) []model.CompetitorRow {
	if currentPace <= 0 || math.IsNaN(currentPace) || math.IsInf(currentPace, 0) {
		currentPace = fallbackBaseline
	}
	ret := make([]model.CompetitorRow, 0, len(comparisonTable))
	for i, c := range comparisonTable {
		id := SubjectVehicleID
		if c.paceOffset != 0 {
			id = competitorID(i + 1)
		}
		ret = append(ret, model.CompetitorRow{
			Position:      i + 1,
			VehicleID:     id,
			CurrentPace:   currentPace + c.paceOffset,
			StrategyLabel: c.strategy,
			ThreatLevel:   c.threat,
			GapToSubject:  c.gapToSubject,
		})
	}
	return ret
}

// CompareFromSnapshots ranks the real competitors around the subject at
// its latest ranked lap, two ahead and two behind, preserving the
// comparison row shape. Falls back to the synthetic table when the
// subject never appears in the snapshots.
func CompareFromSnapshots(
	snapshots []model.PositionSnapshot,
	subject string,
) []model.CompetitorRow {
	lastLap := -1
	for _, s := range snapshots {
		if s.VehicleID == subject && s.Lap > lastLap {
			lastLap = s.Lap
		}
	}
	if lastLap < 0 {
		return Compare(fallbackBaseline)
	}

	var field []model.PositionSnapshot
	var subjectSnap model.PositionSnapshot
	for _, s := range snapshots {
		if s.Lap != lastLap {
			continue
		}
		field = append(field, s)
		if s.VehicleID == subject {
			subjectSnap = s
		}
	}
	slices.SortFunc(field, func(a, b model.PositionSnapshot) int {
		return a.Position - b.Position
	})

	lo := max(0, subjectSnap.Position-3)
	hi := min(len(field), subjectSnap.Position+2)
	ret := make([]model.CompetitorRow, 0, hi-lo)
	for _, s := range field[lo:hi] {
		id := s.VehicleID
		if id == subject {
			id = SubjectVehicleID
		}
		gap := s.CumulativeTime - subjectSnap.CumulativeTime
		ret = append(ret, model.CompetitorRow{
			Position:      s.Position,
			VehicleID:     id,
			CurrentPace:   s.LapTime,
			StrategyLabel: "unknown",
			ThreatLevel:   threatLevel(s, subjectSnap),
			GapToSubject:  gap,
		})
	}
	return ret
}

// threatLevel grades a competitor: close and faster is high, close or
// faster is medium, everything else low.
func threatLevel(c, subject model.PositionSnapshot) string {
	if c.VehicleID == subject.VehicleID {
		return "-"
	}
	close := math.Abs(c.CumulativeTime-subject.CumulativeTime) < 5
	faster := c.LapTime < subject.LapTime
	switch {
	case close && faster:
		return "high"
	case close || faster:
		return "medium"
	default:
		return "low"
	}
}

func competitorID(position int) string {
	return fmt.Sprintf("P%d", position)
}
