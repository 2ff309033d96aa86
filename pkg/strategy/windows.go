package strategy

import (
	"fmt"
	"math"
	"slices"

	"github.com/pitwall/strategy-engine/pkg/model"
)

const (
	// DefaultFuelBurnPerLap is the fuel burn in percent per lap used
	// when the caller provides no override.
	DefaultFuelBurnPerLap = 2.2

	// fuel below this percentage makes the fuel window an emergency
	fuelEmergencyPct = 20.0

	// tire age classification bounds in laps
	tireAgeLow    = 10
	tireAgeMedium = 15

	tireAgeEmergency = 18
	// nominal tire life horizon, the tire window centers at
	// currentLap + (tireLifeHorizon - tireAge)
	tireLifeHorizon = 20

	// the strategic window sits at this fraction of the race distance
	strategicWindowFraction = 0.4
	// laps of clearance required before the strategic window is offered
	strategicWindowLead = 3
)

// Windows generates the candidate pit windows for the current race
// situation, one per factor (fuel, tire, strategic), sorted by priority
// with emergencies first. The result may be empty early in a stint.
func Windows(
	track model.TrackProfile,
	currentLap, totalLaps int,
	fuelPct float64,
	tireAgeLaps int,
	burnPerLap float64,
) []model.PitWindow {
	ret := make([]model.PitWindow, 0, 3)
	if w, ok := fuelWindow(currentLap, totalLaps, fuelPct, burnPerLap); ok {
		ret = append(ret, w)
	}
	if w, ok := tireWindow(currentLap, tireAgeLaps); ok {
		ret = append(ret, w)
	}
	if w, ok := strategicWindow(currentLap, totalLaps); ok {
		ret = append(ret, w)
	}
	slices.SortStableFunc(ret, func(a, b model.PitWindow) int {
		if a.Priority != b.Priority {
			return int(a.Priority) - int(b.Priority)
		}
		return a.LapStart - b.LapStart
	})
	return ret
}

func fuelWindow(
	currentLap, totalLaps int,
	fuelPct, burnPerLap float64,
) (model.PitWindow, bool) {
	if burnPerLap <= 0 || math.IsNaN(burnPerLap) {
		burnPerLap = DefaultFuelBurnPerLap
	}
	if math.IsNaN(fuelPct) {
		// no reading is not an empty tank
		fuelPct = 100
	}
	fuelPct = clamp(fuelPct, 0, 100)
	fuelLaps := int(math.Floor(fuelPct / burnPerLap))
	if fuelLaps >= totalLaps-currentLap {
		return model.PitWindow{}, false
	}
	// center two laps before running dry
	center := max(currentLap, currentLap+fuelLaps-2)
	prio := model.PriorityOptimal
	if fuelPct < fuelEmergencyPct {
		prio = model.PriorityEmergency
	}
	return model.PitWindow{
		LapStart: max(currentLap, center-1),
		LapEnd:   center + 1,
		Reason:   fmt.Sprintf("fuel range ends near lap %d", currentLap+fuelLaps),
		Priority: prio,
	}, true
}

func tireWindow(currentLap, tireAgeLaps int) (model.PitWindow, bool) {
	if tireAgeLaps <= tireAgeLow {
		return model.PitWindow{}, false
	}
	center := max(currentLap, currentLap+(tireLifeHorizon-tireAgeLaps))
	var prio model.PitWindowPriority
	switch {
	case tireAgeLaps > tireAgeEmergency:
		prio = model.PriorityEmergency
	case tireAgeLaps > tireAgeMedium:
		prio = model.PriorityOptimal
	default:
		prio = model.PriorityAcceptable
	}
	return model.PitWindow{
		LapStart: max(currentLap, center-2),
		LapEnd:   center + 2,
		Reason:   fmt.Sprintf("tire wear, %d laps on current set", tireAgeLaps),
		Priority: prio,
	}, true
}

func strategicWindow(currentLap, totalLaps int) (model.PitWindow, bool) {
	center := int(math.Round(strategicWindowFraction * float64(totalLaps)))
	if currentLap > center-strategicWindowLead {
		return model.PitWindow{}, false
	}
	return model.PitWindow{
		LapStart: center - 2,
		LapEnd:   center + 2,
		Reason:   "classic undercut timing at 40% race distance",
		Priority: model.PriorityAcceptable,
	}, true
}

func clamp(v, low, high float64) float64 {
	return math.Min(high, math.Max(low, v))
}
