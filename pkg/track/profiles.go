package track

import "github.com/pitwall/strategy-engine/pkg/model"

// builtin profiles for the circuits of the GR Cup calendar.
// Values are series-level estimates: pit lane loss in seconds at racing
// speed vs pit speed limit, tire wear in percent per lap.
var builtinProfiles = []model.TrackProfile{
	{
		Name:                   "COTA",
		PitLaneTimeLoss:        21.5,
		TireWearRate:           2.8,
		DegradationCliffLap:    22,
		OptimalStintCandidates: [3]int{16, 19, 22},
		Evolution: model.TrackEvolution{
			LapTimeImprovementPerSession: 1.2,
			RubberBuildupFactor:          0.8,
			OptimalLineGain:              0.4,
			WeatherSensitivity:           0.7,
		},
		Positioning: model.TrackPositioning{
			OvertakingDifficulty:    5,
			DRSEffectiveness:        0.6,
			UndercutPotential:       1.8,
			TrackPositionImportance: 6,
		},
	},
	{
		Name:                   "Barber",
		PitLaneTimeLoss:        19.0,
		TireWearRate:           2.4,
		DegradationCliffLap:    24,
		OptimalStintCandidates: [3]int{17, 20, 23},
		Evolution: model.TrackEvolution{
			LapTimeImprovementPerSession: 0.9,
			RubberBuildupFactor:          0.6,
			OptimalLineGain:              0.5,
			WeatherSensitivity:           0.5,
		},
		Positioning: model.TrackPositioning{
			OvertakingDifficulty:    7,
			DRSEffectiveness:        0.3,
			UndercutPotential:       1.2,
			TrackPositionImportance: 8,
		},
	},
	{
		Name:                   "Indianapolis",
		PitLaneTimeLoss:        23.0,
		TireWearRate:           2.2,
		DegradationCliffLap:    26,
		OptimalStintCandidates: [3]int{18, 21, 24},
		Evolution: model.TrackEvolution{
			LapTimeImprovementPerSession: 1.4,
			RubberBuildupFactor:          0.9,
			OptimalLineGain:              0.3,
			WeatherSensitivity:           0.4,
		},
		Positioning: model.TrackPositioning{
			OvertakingDifficulty:    4,
			DRSEffectiveness:        0.7,
			UndercutPotential:       2.1,
			TrackPositionImportance: 5,
		},
	},
	{
		Name:                   "Road America",
		PitLaneTimeLoss:        24.5,
		TireWearRate:           2.6,
		DegradationCliffLap:    23,
		OptimalStintCandidates: [3]int{16, 19, 22},
		Evolution: model.TrackEvolution{
			LapTimeImprovementPerSession: 1.0,
			RubberBuildupFactor:          0.7,
			OptimalLineGain:              0.4,
			WeatherSensitivity:           0.6,
		},
		Positioning: model.TrackPositioning{
			OvertakingDifficulty:    4,
			DRSEffectiveness:        0.65,
			UndercutPotential:       2.0,
			TrackPositionImportance: 5,
		},
	},
	{
		Name:                   "Sebring",
		PitLaneTimeLoss:        20.5,
		TireWearRate:           3.2,
		DegradationCliffLap:    19,
		OptimalStintCandidates: [3]int{14, 17, 20},
		Evolution: model.TrackEvolution{
			LapTimeImprovementPerSession: 1.6,
			RubberBuildupFactor:          1.0,
			OptimalLineGain:              0.6,
			WeatherSensitivity:           0.3,
		},
		Positioning: model.TrackPositioning{
			OvertakingDifficulty:    5,
			DRSEffectiveness:        0.5,
			UndercutPotential:       1.6,
			TrackPositionImportance: 6,
		},
	},
	{
		Name:                   "Sonoma",
		PitLaneTimeLoss:        18.5,
		TireWearRate:           3.0,
		DegradationCliffLap:    20,
		OptimalStintCandidates: [3]int{15, 18, 21},
		Evolution: model.TrackEvolution{
			LapTimeImprovementPerSession: 1.1,
			RubberBuildupFactor:          0.8,
			OptimalLineGain:              0.5,
			WeatherSensitivity:           0.5,
		},
		Positioning: model.TrackPositioning{
			OvertakingDifficulty:    8,
			DRSEffectiveness:        0.25,
			UndercutPotential:       1.0,
			TrackPositionImportance: 9,
		},
	},
	{
		Name:                   "VIR",
		PitLaneTimeLoss:        20.0,
		TireWearRate:           2.7,
		DegradationCliffLap:    22,
		OptimalStintCandidates: [3]int{16, 19, 22},
		Evolution: model.TrackEvolution{
			LapTimeImprovementPerSession: 1.0,
			RubberBuildupFactor:          0.7,
			OptimalLineGain:              0.4,
			WeatherSensitivity:           0.6,
		},
		Positioning: model.TrackPositioning{
			OvertakingDifficulty:    7,
			DRSEffectiveness:        0.35,
			UndercutPotential:       1.1,
			TrackPositionImportance: 8,
		},
	},
}

// defaultProfile is substituted for unknown track names.
var defaultProfile = model.TrackProfile{
	Name:                   "default",
	PitLaneTimeLoss:        21.0,
	TireWearRate:           2.5,
	DegradationCliffLap:    22,
	OptimalStintCandidates: [3]int{16, 19, 22},
	Evolution: model.TrackEvolution{
		LapTimeImprovementPerSession: 1.0,
		RubberBuildupFactor:          0.7,
		OptimalLineGain:              0.5,
		WeatherSensitivity:           0.5,
	},
	Positioning: model.TrackPositioning{
		OvertakingDifficulty:    6,
		DRSEffectiveness:        0.5,
		UndercutPotential:       1.5,
		TrackPositionImportance: 7,
	},
}
