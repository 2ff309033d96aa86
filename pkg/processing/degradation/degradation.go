// Package degradation fits a tire decay model to a vehicle's lap time
// sequence. The model is an advisory heuristic: with sparse or noisy
// data it degrades to documented defaults instead of failing.
package degradation

import (
	"math"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"

	"github.com/pitwall/strategy-engine/pkg/model"
)

const (
	// conservative defaults reported when fewer than MinSampleLaps
	// valid lap times are available
	DefaultRate     = 0.045
	DefaultRSquared = 0.75

	// physically plausible band for the per-lap decay rate
	MinRate = 0.02
	MaxRate = 0.08

	// band for the consistency-based accuracy proxy
	MinRSquared = 0.6
	MaxRSquared = 0.95

	// FallbackBaseline is used when no valid lap time exists at all.
	FallbackBaseline = 90.0

	MinSampleLaps = 5
)

// ValidLapTimes filters out zero, negative and non-finite entries.
func ValidLapTimes(lapTimes []float64) []float64 {
	return lo.Filter(lapTimes, func(t float64, _ int) bool {
		return t > 0 && !math.IsNaN(t) && !math.IsInf(t, 0)
	})
}

// Analyze fits the decay model for one stint.
//
// Baseline is the minimum of the 2nd-4th lap times (the first lap is
// often anomalous), recent pace the mean of the final three laps. The
// raw rate is the recent pace loss relative to baseline, normalized per
// lap, clamped into [MinRate, MaxRate]. RSquared is derived from the
// coefficient of variation of the valid lap times and clamped into
// [MinRSquared, MaxRSquared]; callers must not treat it as a rigorous
// regression fit.
func Analyze(lapTimes []float64, track model.TrackProfile) model.DegradationModel {
	valid := ValidLapTimes(lapTimes)
	if len(valid) < MinSampleLaps {
		return conservativeDefault(valid)
	}

	baseline := lo.Min(valid[1:4])
	recent := stat.Mean(valid[len(valid)-3:], nil)
	rawRate := (recent - baseline) / baseline / float64(len(valid))

	mean := stat.Mean(valid, nil)
	cv := stat.StdDev(valid, nil) / mean

	ret := model.DegradationModel{
		DegradationRate: clamp(rawRate, MinRate, MaxRate),
		RSquared:        clamp(1-cv*10, MinRSquared, MaxRSquared),
		BaselineTime:    baseline,
	}
	if opt := OptimalPitLap(track, valid); opt >= track.DegradationCliffLap {
		ret.CliffDetected = true
		ret.CliffLap = &opt
	}
	return ret
}

// PaceDropoff is the relative pace loss of the last three laps vs the
// first three laps. Returns 0 when fewer than six valid laps exist.
func PaceDropoff(lapTimes []float64) float64 {
	valid := ValidLapTimes(lapTimes)
	if len(valid) < 6 {
		return 0
	}
	early := stat.Mean(valid[:3], nil)
	recent := stat.Mean(valid[len(valid)-3:], nil)
	if early <= 0 {
		return 0
	}
	return (recent - early) / early
}

// OptimalPitLap selects the track's middle stint candidate, pulled two
// laps earlier under heavy pace dropoff and pushed two laps later while
// the tires still hold.
func OptimalPitLap(track model.TrackProfile, lapTimes []float64) int {
	opt := track.OptimalStintCandidates[1]
	dropoff := PaceDropoff(lapTimes)
	switch {
	case dropoff > 0.5:
		opt -= 2
	case dropoff < 0.2:
		opt += 2
	}
	return opt
}

func conservativeDefault(valid []float64) model.DegradationModel {
	baseline := FallbackBaseline
	if len(valid) > 0 {
		baseline = lo.Min(valid)
	}
	return model.DegradationModel{
		DegradationRate: DefaultRate,
		RSquared:        DefaultRSquared,
		BaselineTime:    baseline,
	}
}

func clamp(v, low, high float64) float64 {
	return math.Min(high, math.Max(low, v))
}
