//nolint:funlen // readability
package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluatePitWindow(t *testing.T) {
	got := EvaluatePitWindow(10, 40, 15, 3.0, 95.0)

	assert.Greater(t, got.OptimalPitLap, 10)
	assert.LessOrEqual(t, got.OptimalPitLap, 25)
	assert.Equal(t, got.OptimalPitLap-10, got.LapsUntilPit)
	assert.NotEmpty(t, got.Recommendation)
	assert.GreaterOrEqual(t, got.Confidence, 0.0)
	assert.LessOrEqual(t, got.Confidence, 100.0)
	assert.Len(t, got.Alternatives, 3)
	// alternatives ranked by net advantage
	for i := 1; i < len(got.Alternatives); i++ {
		assert.GreaterOrEqual(t,
			got.Alternatives[i-1].NetAdvantage, got.Alternatives[i].NetAdvantage)
	}
	// the best alternative is the chosen scenario
	assert.Equal(t, got.OptimalPitLap, got.Alternatives[0].PitLap)
}

func TestEvaluatePitWindowStayOut(t *testing.T) {
	// five laps to go on a fresh set with mild decay: staying out beats
	// paying the pit loss
	got := EvaluatePitWindow(35, 40, 5, 0.3, 95.0)
	assert.Equal(t, 0, got.OptimalPitLap)
	assert.Equal(t, 0, got.LapsUntilPit)
	assert.Equal(t, "NO_PIT_RECOMMENDED", got.Recommendation)
}

func TestEvaluatePitWindowNoScenarios(t *testing.T) {
	// race over on worn tires: nothing to evaluate
	got := EvaluatePitWindow(40, 40, 20, 3.0, 95.0)
	assert.Equal(t, 40, got.OptimalPitLap)
	assert.Equal(t, "PIT_NOW", got.Recommendation)
	assert.InDelta(t, 50, got.Confidence, 1e-9)
}

func TestEvaluatePitWindowWornTiresMustStop(t *testing.T) {
	// worn set late in the race: the no-pit branch is not even offered
	got := EvaluatePitWindow(35, 40, 18, 3.0, 95.0)
	assert.NotEqual(t, 0, got.OptimalPitLap)
	for _, alt := range got.Alternatives {
		assert.NotEqual(t, 0, alt.PitLap)
	}
}

func TestUndercut(t *testing.T) {
	tests := []struct {
		name              string
		competitorTireAge int
		gap               float64
		rate              float64
		wantViable        bool
		wantRec           string
	}{
		{
			name:              "worn competitor in reach",
			competitorTireAge: 15, gap: 1.0, rate: 3.0,
			wantViable: true, wantRec: "UNDERCUT_NOW",
		},
		{
			name:              "fresh competitor far ahead",
			competitorTireAge: 2, gap: 30.0, rate: 1.0,
			wantViable: false, wantRec: "MONITOR",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Undercut(tt.competitorTireAge, tt.gap, tt.rate, 90.0)
			assert.Equal(t, tt.wantViable, got.Viable)
			assert.Equal(t, tt.wantRec, got.Recommendation)
			assert.InDelta(t, got.TimeGain-got.GapRequired, got.AdvantageMargin, 1e-9)
		})
	}
}

func TestSimulate(t *testing.T) {
	got := Simulate(10, 14, 2, []int{12}, 2.0, 100.0)

	assert.InDelta(t, 455, got.TotalRaceTime, 1e-9)
	assert.InDelta(t, 102.5, got.AverageLapTime, 1e-9)
	assert.InDelta(t, 104, got.SlowestLapTime, 1e-9)
	assert.InDelta(t, 100, got.FastestLapTime, 1e-9)
	assert.Equal(t, 1, got.TotalPitStops)
	assert.Equal(t, 3, got.FinalTireAge)
	assert.Len(t, got.LapTimes, 4)
}

func TestSimulateRaceOver(t *testing.T) {
	got := Simulate(40, 40, 10, nil, 2.0, 100.0)
	assert.InDelta(t, 0, got.TotalRaceTime, 1e-9)
	assert.Empty(t, got.LapTimes)
}

func TestClassifyRace(t *testing.T) {
	tests := []struct {
		totalLaps int
		wantType  string
	}{
		{totalLaps: 15, wantType: "SPRINT"},
		{totalLaps: 20, wantType: "SPRINT"},
		{totalLaps: 35, wantType: "SPRINT"},
		{totalLaps: 36, wantType: "ENDURANCE"},
		{totalLaps: 60, wantType: "ENDURANCE"},
		{totalLaps: 80, wantType: "ENDURANCE"},
	}
	for _, tt := range tests {
		raceType, note := ClassifyRace(tt.totalLaps)
		assert.Equal(t, tt.wantType, raceType, "laps %d", tt.totalLaps)
		assert.NotEmpty(t, note)
	}
}
