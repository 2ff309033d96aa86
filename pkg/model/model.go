// Package model holds the plain data records exchanged between the
// analytics core and its collaborators. Field names and units are part
// of the JSON contract consumed by the rendering layer.
package model

import "math"

// LapRecord is one normalized per-vehicle, per-lap timing fact.
// A zero LapTime marks a lap without a usable time (in/out lap, red flag,
// timing dropout). Such laps are excluded from all statistics.
type LapRecord struct {
	VehicleID string  `json:"vehicle_id"`
	LapNumber int     `json:"lap_number"`
	LapTime   float64 `json:"lap_time,omitempty"`
}

// Valid reports whether the record carries a usable lap time.
func (r LapRecord) Valid() bool {
	return r.LapNumber >= 1 && r.LapTime > 0 &&
		!math.IsNaN(r.LapTime) && !math.IsInf(r.LapTime, 0)
}

// PositionSnapshot is the ranking of one vehicle at one lap boundary.
// Snapshots are recomputed from scratch whenever the underlying lap
// records change, never mutated in place.
type PositionSnapshot struct {
	Lap            int     `json:"lap"`
	VehicleID      string  `json:"vehicle_id"`
	Position       int     `json:"position"`
	LapTime        float64 `json:"lap_time"`
	CumulativeTime float64 `json:"cumulative_time"`
	GapToLeader    float64 `json:"gap_to_leader"`
}

// DegradationModel describes the fitted tire decay for one vehicle.
// RSquared is a consistency proxy derived from lap time variance, not a
// statistically rigorous fit quality.
type DegradationModel struct {
	VehicleID       string  `json:"vehicle_id,omitempty"`
	DegradationRate float64 `json:"degradation_rate"`
	RSquared        float64 `json:"r_squared"`
	BaselineTime    float64 `json:"baseline_lap_time"`
	CliffDetected   bool    `json:"cliff_detected"`
	CliffLap        *int    `json:"cliff_lap"`
}

// PredictedLapTimeAt extrapolates the lap time n laps into the stint.
func (m DegradationModel) PredictedLapTimeAt(n int) float64 {
	return m.BaselineTime * (1 + m.DegradationRate*float64(n))
}

// PitWindowPriority orders candidate windows for recommendation
// selection: emergency sorts before optimal, optimal before acceptable.
type PitWindowPriority int

const (
	PriorityEmergency PitWindowPriority = iota
	PriorityOptimal
	PriorityAcceptable
)

func (p PitWindowPriority) String() string {
	switch p {
	case PriorityEmergency:
		return "emergency"
	case PriorityOptimal:
		return "optimal"
	case PriorityAcceptable:
		return "acceptable"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the priority as its textual label.
func (p PitWindowPriority) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}

// PitWindow is one candidate lap interval for a pit stop.
type PitWindow struct {
	LapStart int               `json:"lap_start"`
	LapEnd   int               `json:"lap_end"`
	Reason   string            `json:"reason"`
	Priority PitWindowPriority `json:"priority"`
}

// Contains reports whether lap falls inside the window.
func (w PitWindow) Contains(lap int) bool {
	return lap >= w.LapStart && lap <= w.LapEnd
}

// TrackEvolutionState is the session-scaled view of a track's static
// evolution parameters.
type TrackEvolutionState struct {
	EvolutionFactor    float64 `json:"evolution_factor"`
	LapTimeImprovement float64 `json:"lap_time_improvement"`
	RubberBuildup      float64 `json:"rubber_buildup"`
	OptimalLineGain    float64 `json:"optimal_line_gain"`
	BaselineTime       float64 `json:"baseline_lap_time"`
}

// ScenarioRow is one strategy scenario outcome.
type ScenarioRow struct {
	Strategy         string  `json:"strategy"`
	PitLap           int     `json:"pit_lap"`
	Compound         string  `json:"compound"`
	ExpectedPosition int     `json:"expected_position"`
	TimeGainSeconds  float64 `json:"time_gain_seconds"`
	RiskFactor       string  `json:"risk_factor"`
}

// CompetitorRow is one entry of the competitor comparison table.
type CompetitorRow struct {
	Position      int     `json:"position"`
	VehicleID     string  `json:"vehicle_id"`
	CurrentPace   float64 `json:"current_pace"`
	StrategyLabel string  `json:"strategy_label"`
	ThreatLevel   string  `json:"threat_level"`
	GapToSubject  float64 `json:"gap_to_subject"`
}

// StrategyRecommendation is the full advisory output of the pit window
// calculator. Produced fresh per analysis request.
type StrategyRecommendation struct {
	OptimalLap           int                 `json:"optimal_lap"`
	StrategyLabel        string              `json:"strategy_label"`
	ExpectedTimeLoss     float64             `json:"expected_time_loss"`
	TireWearAtStop       float64             `json:"tire_wear_at_stop"`
	Rationale            string              `json:"rationale"`
	PitWindows           []PitWindow         `json:"pit_windows"`
	TrackEvolution       TrackEvolutionState `json:"track_evolution"`
	PositionPredictions  []ScenarioRow       `json:"position_predictions"`
	CompetitorComparison []CompetitorRow     `json:"competitor_comparison"`
}
