//nolint:funlen // readability
package degradation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pitwall/strategy-engine/pkg/model"
)

var testTrack = model.TrackProfile{
	Name:                   "COTA",
	PitLaneTimeLoss:        21.5,
	TireWearRate:           2.8,
	DegradationCliffLap:    22,
	OptimalStintCandidates: [3]int{16, 19, 22},
}

func TestAnalyzeDefaults(t *testing.T) {
	tests := []struct {
		name         string
		lapTimes     []float64
		wantBaseline float64
	}{
		{name: "no laps", lapTimes: nil, wantBaseline: 90.0},
		{name: "empty", lapTimes: []float64{}, wantBaseline: 90.0},
		{
			name:         "four valid laps is below the minimum",
			lapTimes:     []float64{95.0, 94.5, 94.8, 95.2},
			wantBaseline: 94.5,
		},
		{
			name:         "invalid laps do not count toward the minimum",
			lapTimes:     []float64{95.0, 0, 94.5, math.NaN(), 94.8, -1, 95.2, math.Inf(1)},
			wantBaseline: 94.5,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Analyze(tt.lapTimes, testTrack)
			assert.InDelta(t, DefaultRate, got.DegradationRate, 1e-9)
			assert.InDelta(t, DefaultRSquared, got.RSquared, 1e-9)
			assert.InDelta(t, tt.wantBaseline, got.BaselineTime, 1e-9)
			assert.False(t, got.CliffDetected)
			assert.Nil(t, got.CliffLap)
		})
	}
}

func TestAnalyze(t *testing.T) {
	// steady decay over a 7 lap stint: raw rate lands below the floor
	lapTimes := []float64{95.0, 94.5, 94.8, 95.2, 95.8, 96.5, 97.1}
	got := Analyze(lapTimes, testTrack)

	assert.InDelta(t, MinRate, got.DegradationRate, 1e-9)
	assert.InDelta(t, 94.5, got.BaselineTime, 1e-9)
	assert.False(t, got.CliffDetected)
	assert.GreaterOrEqual(t, got.RSquared, MinRSquared)
	assert.LessOrEqual(t, got.RSquared, MaxRSquared)
}

func TestAnalyzeRateClamped(t *testing.T) {
	// a collapse to near double the baseline exceeds any plausible
	// physical rate
	falling := []float64{90, 90, 95, 100, 160, 170, 180}
	got := Analyze(falling, testTrack)
	assert.InDelta(t, MaxRate, got.DegradationRate, 1e-9)

	// perfectly flat pace clamps to the floor
	flat := []float64{92, 92, 92, 92, 92, 92}
	got = Analyze(flat, testTrack)
	assert.InDelta(t, MinRate, got.DegradationRate, 1e-9)
	assert.InDelta(t, MaxRSquared, got.RSquared, 1e-9)
}

func TestAnalyzeCliff(t *testing.T) {
	cliffTrack := testTrack
	cliffTrack.DegradationCliffLap = 20
	// mild dropoff pushes the pit lap late, past the cliff
	lapTimes := []float64{95.0, 94.5, 94.8, 95.2, 95.8, 96.5, 97.1}
	got := Analyze(lapTimes, cliffTrack)
	assert.True(t, got.CliffDetected)
	if assert.NotNil(t, got.CliffLap) {
		assert.Equal(t, 21, *got.CliffLap)
	}
}

func TestPaceDropoff(t *testing.T) {
	tests := []struct {
		name     string
		lapTimes []float64
		want     float64
	}{
		{name: "too few laps", lapTimes: []float64{90, 91, 92, 93, 94}, want: 0},
		{
			name:     "ten percent dropoff",
			lapTimes: []float64{100, 100, 100, 105, 110, 110, 110},
			want:     0.10,
		},
		{
			name:     "improving pace is negative",
			lapTimes: []float64{100, 100, 100, 95, 95, 95},
			want:     -0.05,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, PaceDropoff(tt.lapTimes), 1e-9)
		})
	}
}

func TestOptimalPitLap(t *testing.T) {
	tests := []struct {
		name     string
		lapTimes []float64
		want     int
	}{
		{name: "no data extends the stint", lapTimes: nil, want: 21},
		{
			name:     "heavy dropoff pulls the stop forward",
			lapTimes: []float64{100, 100, 100, 160, 160, 160},
			want:     17,
		},
		{
			name:     "moderate dropoff keeps the middle candidate",
			lapTimes: []float64{100, 100, 100, 130, 130, 130},
			want:     19,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OptimalPitLap(testTrack, tt.lapTimes))
		})
	}
}

func TestValidLapTimes(t *testing.T) {
	got := ValidLapTimes([]float64{90, 0, -5, math.NaN(), math.Inf(1), 91.5})
	assert.Equal(t, []float64{90, 91.5}, got)
}
