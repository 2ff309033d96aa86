package strategy

import (
	"math"

	"github.com/pitwall/strategy-engine/pkg/model"
)

// scenarioBasePosition is the notional mid-field slot the scenario
// outcomes are expressed against. The caller knows the real position;
// rows are meaningful relative to each other.
const scenarioBasePosition = 8

// thresholds for the track-characteristic adjustments
const (
	hardToPassDifficulty = 7
	weakDRSEffectiveness = 0.3
)

// Scenarios generates the four fixed strategy scenario rows. On tracks
// where passing is hard (overtaking difficulty above 7) time gains are
// amplified and the undercut gains an extra position; with weak DRS the
// extended stint loses an extra position and carries medium risk.
func Scenarios(
	track model.TrackProfile,
	currentLap, totalLaps, optimalLap int,
) []model.ScenarioRow {
	cands := track.OptimalStintCandidates
	undercutShift := int(math.Round(track.Positioning.UndercutPotential / 2))

	altPos := scenarioBasePosition
	if track.Positioning.TrackPositionImportance > hardToPassDifficulty {
		altPos--
	}

	rows := []model.ScenarioRow{
		{
			Strategy:         "current strategy",
			PitLap:           optimalLap,
			Compound:         "primary",
			ExpectedPosition: scenarioBasePosition,
			TimeGainSeconds:  0,
			RiskFactor:       "low",
		},
		{
			Strategy:         "aggressive undercut",
			PitLap:           cands[0],
			Compound:         "soft",
			ExpectedPosition: scenarioBasePosition - undercutShift,
			TimeGainSeconds:  track.Positioning.UndercutPotential,
			RiskFactor:       "high",
		},
		{
			Strategy:         "extended stint",
			PitLap:           cands[2],
			Compound:         "hard",
			ExpectedPosition: scenarioBasePosition + 1,
			TimeGainSeconds:  -1.5,
			RiskFactor:       "low",
		},
		{
			Strategy:         "alternative compound",
			PitLap:           cands[1],
			Compound:         "medium",
			ExpectedPosition: altPos,
			TimeGainSeconds:  0.5,
			RiskFactor:       "medium",
		},
	}

	if track.Positioning.OvertakingDifficulty > hardToPassDifficulty {
		for i := range rows {
			rows[i].TimeGainSeconds *= 1.5
		}
		rows[1].ExpectedPosition--
	}
	if track.Positioning.DRSEffectiveness < weakDRSEffectiveness {
		rows[2].ExpectedPosition++
		rows[2].RiskFactor = "medium"
	}

	for i := range rows {
		rows[i].PitLap = min(max(currentLap, rows[i].PitLap), totalLaps)
		rows[i].ExpectedPosition = max(1, rows[i].ExpectedPosition)
	}
	return rows
}
