// Package strategy combines fuel range, tire degradation and strategic
// windows into prioritized pit windows and a single recommendation.
// Every function is a pure computation over explicit inputs; identical
// inputs produce identical output. The package never fails on bad
// numeric data, it falls back to documented constants: this is an
// advisory system, not a system of record.
package strategy

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/pitwall/strategy-engine/pkg/model"
	"github.com/pitwall/strategy-engine/pkg/processing/degradation"
)

// ErrInvalidTrack is the only hard failure of this package, raised for
// a structurally invalid call with an unresolved (empty-name) profile.
var ErrInvalidTrack = errors.New("track profile carries no name")

const (
	// DefaultPitServiceTime is the stationary service time in seconds
	// (typical GR Cup stop).
	DefaultPitServiceTime = 45.0

	// fallback lap time when no valid lap data exists
	fallbackBaseline = degradation.FallbackBaseline
)

type (
	Option func(*calcConfig)

	calcConfig struct {
		fuelBurnPerLap float64
		pitServiceTime float64
	}
)

// WithFuelBurnPerLap overrides the default fuel burn of 2.2 %/lap.
func WithFuelBurnPerLap(burn float64) Option {
	return func(cfg *calcConfig) { cfg.fuelBurnPerLap = burn }
}

// WithPitServiceTime overrides the default stationary service time.
func WithPitServiceTime(secs float64) Option {
	return func(cfg *calcConfig) { cfg.pitServiceTime = secs }
}

// Recommend computes the pit strategy for one vehicle.
//
// Inputs outside their documented ranges are clamped, never rejected:
// currentLap below 1 becomes 1, totalLaps below currentLap becomes
// currentLap, NaN fuel reads as a full tank, negative tire age as a
// fresh set. The returned recommendation is always usable.
func Recommend(
	track model.TrackProfile,
	lapTimes []float64,
	currentLap, totalLaps int,
	fuelPct float64,
	tireAgeLaps int,
	elapsedMinutes float64,
	opts ...Option,
) (model.StrategyRecommendation, model.DegradationModel, error) {
	if track.Name == "" {
		return model.StrategyRecommendation{}, model.DegradationModel{}, ErrInvalidTrack
	}
	cfg := &calcConfig{
		fuelBurnPerLap: DefaultFuelBurnPerLap,
		pitServiceTime: DefaultPitServiceTime,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	currentLap = max(1, currentLap)
	totalLaps = max(currentLap, totalLaps)
	if math.IsNaN(fuelPct) {
		fuelPct = 100
	}
	fuelPct = clamp(fuelPct, 0, 100)
	tireAgeLaps = min(max(0, tireAgeLaps), totalLaps)

	deg := degradation.Analyze(lapTimes, track)
	windows := Windows(track, currentLap, totalLaps, fuelPct, tireAgeLaps,
		cfg.fuelBurnPerLap)

	valid := degradation.ValidLapTimes(lapTimes)
	optimalLap := degradation.OptimalPitLap(track, valid)
	optimalLap = min(max(currentLap, optimalLap), totalLaps)

	lapsUntil := optimalLap - currentLap
	wearAtStop := clamp(
		float64(tireAgeLaps+lapsUntil)*track.TireWearRate/100, 0, 1)

	ret := model.StrategyRecommendation{
		OptimalLap:           optimalLap,
		StrategyLabel:        strategyLabel(optimalLap, lapsUntil),
		ExpectedTimeLoss:     track.PitLaneTimeLoss + cfg.pitServiceTime,
		TireWearAtStop:       wearAtStop,
		Rationale:            rationale(windows, currentLap, deg),
		PitWindows:           windows,
		TrackEvolution:       Evolution(track, lapTimes, elapsedMinutes),
		PositionPredictions:  Scenarios(track, currentLap, totalLaps, optimalLap),
		CompetitorComparison: Compare(recentPace(valid)),
	}
	return ret, deg, nil
}

// selectWindow picks the highest-priority window containing currentLap,
// or failing that the nearest upcoming window. Result is nil when no
// candidate windows exist.
func selectWindow(windows []model.PitWindow, currentLap int) *model.PitWindow {
	for i := range windows {
		if windows[i].Contains(currentLap) {
			return &windows[i]
		}
	}
	var best *model.PitWindow
	bestDist := math.MaxInt
	for i := range windows {
		if windows[i].LapStart >= currentLap {
			if d := windows[i].LapStart - currentLap; d < bestDist {
				best = &windows[i]
				bestDist = d
			}
		}
	}
	if best == nil && len(windows) > 0 {
		best = &windows[0]
	}
	return best
}

// strategyLabel follows the recommendation ladder of the race engineer
// playbook: the closer the stop, the more urgent the wording.
func strategyLabel(optimalLap, lapsUntil int) string {
	switch {
	case lapsUntil <= 1:
		return "PIT_NOW"
	case lapsUntil <= 3:
		return fmt.Sprintf("PIT_IN_%d_LAPS", lapsUntil)
	case lapsUntil <= 5:
		return "PIT_SOON"
	default:
		return fmt.Sprintf("PIT_WINDOW_LAP_%d", optimalLap)
	}
}

func rationale(
	windows []model.PitWindow,
	currentLap int,
	deg model.DegradationModel,
) string {
	w := selectWindow(windows, currentLap)
	if w == nil {
		return fmt.Sprintf(
			"no pit window pressure yet, tire decay %.3f s/lap equivalent",
			deg.DegradationRate)
	}
	if deg.CliffDetected {
		return fmt.Sprintf("%s priority: %s, performance cliff expected at lap %d",
			w.Priority, w.Reason, *deg.CliffLap)
	}
	return fmt.Sprintf("%s priority: %s", w.Priority, w.Reason)
}

// Evolution scales the track's static evolution parameters by the
// session progress, capped at one hour of green running.
func Evolution(
	track model.TrackProfile,
	lapTimes []float64,
	elapsedMinutes float64,
) model.TrackEvolutionState {
	if math.IsNaN(elapsedMinutes) || elapsedMinutes < 0 {
		elapsedMinutes = 0
	}
	factor := math.Min(1, elapsedMinutes/60)
	return model.TrackEvolutionState{
		EvolutionFactor:    factor,
		LapTimeImprovement: track.Evolution.LapTimeImprovementPerSession * factor,
		RubberBuildup:      track.Evolution.RubberBuildupFactor * factor,
		OptimalLineGain:    track.Evolution.OptimalLineGain * factor,
		BaselineTime:       sessionBaseline(lapTimes),
	}
}

// sessionBaseline is the minimum of the first three valid lap times,
// falling back to a fixed constant without data.
func sessionBaseline(lapTimes []float64) float64 {
	valid := degradation.ValidLapTimes(lapTimes)
	if len(valid) == 0 {
		return fallbackBaseline
	}
	n := min(3, len(valid))
	best := valid[0]
	for _, t := range valid[1:n] {
		best = math.Min(best, t)
	}
	return best
}

func recentPace(valid []float64) float64 {
	if len(valid) == 0 {
		return fallbackBaseline
	}
	n := min(3, len(valid))
	return stat.Mean(valid[len(valid)-n:], nil)
}
