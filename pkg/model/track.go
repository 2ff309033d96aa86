package model

// TrackEvolution holds the static grip evolution parameters of a circuit.
type TrackEvolution struct {
	LapTimeImprovementPerSession float64 `json:"lap_time_improvement_per_session" yaml:"lapTimeImprovementPerSession"`
	RubberBuildupFactor          float64 `json:"rubber_buildup_factor"            yaml:"rubberBuildupFactor"`
	OptimalLineGain              float64 `json:"optimal_line_gain"                yaml:"optimalLineGain"`
	WeatherSensitivity           float64 `json:"weather_sensitivity"              yaml:"weatherSensitivity"`
}

// TrackPositioning holds the static overtaking characteristics of a circuit.
type TrackPositioning struct {
	OvertakingDifficulty    int     `json:"overtaking_difficulty"      yaml:"overtakingDifficulty"`
	DRSEffectiveness        float64 `json:"drs_effectiveness"          yaml:"drsEffectiveness"`
	UndercutPotential       float64 `json:"undercut_potential_seconds" yaml:"undercutPotentialSeconds"`
	TrackPositionImportance int     `json:"track_position_importance"  yaml:"trackPositionImportance"`
}

// TrackProfile is immutable reference data for one circuit.
// TireWearRate is percent per lap, PitLaneTimeLoss is seconds.
type TrackProfile struct {
	Name                   string           `json:"name"                     yaml:"name"`
	PitLaneTimeLoss        float64          `json:"pit_lane_time_loss"       yaml:"pitLaneTimeLoss"`
	TireWearRate           float64          `json:"tire_wear_rate"           yaml:"tireWearRate"`
	DegradationCliffLap    int              `json:"degradation_cliff_lap"    yaml:"degradationCliffLap"`
	OptimalStintCandidates [3]int           `json:"optimal_stint_candidates" yaml:"optimalStintCandidates,flow"`
	Evolution              TrackEvolution   `json:"evolution"                yaml:"evolution"`
	Positioning            TrackPositioning `json:"positioning"              yaml:"positioning"`
}
