// Package position converts per-vehicle lap sequences into ranked race
// positions and gaps at each lap boundary.
package position

import (
	"slices"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/pitwall/strategy-engine/pkg/model"
)

type (
	// lapPoint is one vehicle's state at a lap boundary.
	lapPoint struct {
		lap     int
		lapTime float64
		cum     float64
	}
	vehicleTrace struct {
		id     string
		points map[int]lapPoint
	}
)

// Compute derives position snapshots for every lap present in the
// record set. Laps without a valid time neither contribute to the
// cumulative time nor appear in that lap's ranking, so a vehicle can be
// absent from a snapshot without being removed from the session.
// The result is ordered by lap, then position, and is deterministic:
// ties in cumulative time are broken by vehicle id.
func Compute(records []model.LapRecord) []model.PositionSnapshot {
	byVehicle := make(map[string][]model.LapRecord)
	for _, r := range records {
		if !r.Valid() {
			continue
		}
		byVehicle[r.VehicleID] = append(byVehicle[r.VehicleID], r)
	}
	if len(byVehicle) == 0 {
		return []model.PositionSnapshot{}
	}

	vehicleIDs := make([]string, 0, len(byVehicle))
	for id := range byVehicle {
		vehicleIDs = append(vehicleIDs, id)
	}
	sort.Strings(vehicleIDs)

	// map step: per-vehicle cumulative times are independent
	traces := make([]vehicleTrace, len(vehicleIDs))
	g := errgroup.Group{}
	for i, id := range vehicleIDs {
		g.Go(func() error {
			traces[i] = buildTrace(id, byVehicle[id])
			return nil
		})
	}
	//nolint:errcheck // workers never fail
	g.Wait()

	// reduce step: shared ranking per lap
	lapSet := make(map[int]struct{})
	for i := range traces {
		for lap := range traces[i].points {
			lapSet[lap] = struct{}{}
		}
	}
	laps := make([]int, 0, len(lapSet))
	for lap := range lapSet {
		laps = append(laps, lap)
	}
	sort.Ints(laps)

	ret := make([]model.PositionSnapshot, 0, len(laps)*len(traces))
	for _, lap := range laps {
		ret = append(ret, rankLap(lap, traces)...)
	}
	return ret
}

// buildTrace computes the monotonically increasing cumulative time
// sequence from the valid lap records of one vehicle.
func buildTrace(id string, records []model.LapRecord) vehicleTrace {
	slices.SortFunc(records, func(a, b model.LapRecord) int {
		return a.LapNumber - b.LapNumber
	})
	points := make(map[int]lapPoint, len(records))
	cum := 0.0
	for _, r := range records {
		cum += r.LapTime
		points[r.LapNumber] = lapPoint{lap: r.LapNumber, lapTime: r.LapTime, cum: cum}
	}
	return vehicleTrace{id: id, points: points}
}

func rankLap(lap int, traces []vehicleTrace) []model.PositionSnapshot {
	type entry struct {
		id string
		pt lapPoint
	}
	entries := make([]entry, 0, len(traces))
	for i := range traces {
		if pt, ok := traces[i].points[lap]; ok {
			entries = append(entries, entry{id: traces[i].id, pt: pt})
		}
	}
	slices.SortFunc(entries, func(a, b entry) int {
		switch {
		case a.pt.cum < b.pt.cum:
			return -1
		case a.pt.cum > b.pt.cum:
			return 1
		default:
			return strings.Compare(a.id, b.id)
		}
	})

	ret := make([]model.PositionSnapshot, 0, len(entries))
	for i, e := range entries {
		ret = append(ret, model.PositionSnapshot{
			Lap:            lap,
			VehicleID:      e.id,
			Position:       i + 1,
			LapTime:        e.pt.lapTime,
			CumulativeTime: e.pt.cum,
			GapToLeader:    e.pt.cum - entries[0].pt.cum,
		})
	}
	return ret
}
