//nolint:funlen // readability
package strategy

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/pitwall/strategy-engine/pkg/model"
)

var sonomaProfile = model.TrackProfile{
	Name:                   "Sonoma",
	PitLaneTimeLoss:        18.5,
	TireWearRate:           3.0,
	DegradationCliffLap:    20,
	OptimalStintCandidates: [3]int{15, 18, 21},
	Positioning: model.TrackPositioning{
		OvertakingDifficulty:    8,
		DRSEffectiveness:        0.25,
		UndercutPotential:       1.0,
		TrackPositionImportance: 9,
	},
}

func TestScenarios(t *testing.T) {
	want := []model.ScenarioRow{
		{
			Strategy: "current strategy", PitLap: 19, Compound: "primary",
			ExpectedPosition: 8, TimeGainSeconds: 0, RiskFactor: "low",
		},
		{
			Strategy: "aggressive undercut", PitLap: 16, Compound: "soft",
			ExpectedPosition: 7, TimeGainSeconds: 1.8, RiskFactor: "high",
		},
		{
			Strategy: "extended stint", PitLap: 22, Compound: "hard",
			ExpectedPosition: 9, TimeGainSeconds: -1.5, RiskFactor: "low",
		},
		{
			Strategy: "alternative compound", PitLap: 19, Compound: "medium",
			ExpectedPosition: 8, TimeGainSeconds: 0.5, RiskFactor: "medium",
		},
	}
	got := Scenarios(cotaProfile, 10, 40, 19)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Scenarios() mismatch (-want +got):\n%s", diff)
	}
}

// hard-to-pass track with weak DRS: amplified gains, extra undercut
// position, extended stint penalized
func TestScenariosTrackAdjustments(t *testing.T) {
	want := []model.ScenarioRow{
		{
			Strategy: "current strategy", PitLap: 18, Compound: "primary",
			ExpectedPosition: 8, TimeGainSeconds: 0, RiskFactor: "low",
		},
		{
			Strategy: "aggressive undercut", PitLap: 15, Compound: "soft",
			ExpectedPosition: 6, TimeGainSeconds: 1.5, RiskFactor: "high",
		},
		{
			Strategy: "extended stint", PitLap: 21, Compound: "hard",
			ExpectedPosition: 10, TimeGainSeconds: -2.25, RiskFactor: "medium",
		},
		{
			Strategy: "alternative compound", PitLap: 18, Compound: "medium",
			ExpectedPosition: 7, TimeGainSeconds: 0.75, RiskFactor: "medium",
		},
	}
	got := Scenarios(sonomaProfile, 10, 40, 18)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Scenarios() mismatch (-want +got):\n%s", diff)
	}
}

func TestScenariosClamped(t *testing.T) {
	// late in a short race every pit lap collapses into the remaining range
	got := Scenarios(cotaProfile, 18, 20, 19)
	assert.Len(t, got, 4)
	for _, row := range got {
		assert.GreaterOrEqual(t, row.PitLap, 18)
		assert.LessOrEqual(t, row.PitLap, 20)
		assert.GreaterOrEqual(t, row.ExpectedPosition, 1)
	}
}
