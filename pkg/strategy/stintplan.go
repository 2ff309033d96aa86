package strategy

import (
	"fmt"
)

type (
	PlanPartType int

	// PlanPart is one element of a stint plan, either a driving stint
	// or a pit stop.
	PlanPart interface {
		Type() PlanPartType
		Output() string
	}
	StintPlanPart interface {
		PlanPart
		Laps() int
		LapStart() int
		LapEnd() int
		StintTime() float64
	}
	PitPlanPart interface {
		PlanPart
		PitTime() float64
	}

	// StintPlan splits the remaining race distance into stints
	// separated by pit stops.
	StintPlan struct {
		Parts     []PlanPart
		TotalTime float64
	}

	// StintPlanParams describes the race situation the plan starts from.
	StintPlanParams struct {
		TotalLaps        int     // race distance
		CurrentLap       int     // lap currently running
		CurrentStintLaps int     // laps already done on the current set
		LapsPerStint     int     // usable tire life in laps
		AvgLap           float64 // average lap time in seconds
		PitTime          float64 // complete pit stop cost in seconds
	}
)

const (
	PlanPartStint PlanPartType = iota
	PlanPartPit
)

type (
	stintPart struct {
		laps      int
		lapStart  int
		lapEnd    int
		stintTime float64
	}
	pitPart struct {
		pitTime float64
	}
)

// PlanStints computes the stint/pit sequence to the finish. Degenerate
// parameters are clamped (a race already over yields an empty plan).
func PlanStints(param *StintPlanParams) *StintPlan {
	lps := param.LapsPerStint
	if lps <= 0 {
		lps = tireLifeHorizon
	}
	pitTime := param.PitTime
	if pitTime <= 0 {
		pitTime = DefaultPitServiceTime
	}
	avgLap := param.AvgLap
	if avgLap <= 0 {
		avgLap = fallbackBaseline
	}

	curLap := max(1, param.CurrentLap)
	plan := &StintPlan{Parts: make([]PlanPart, 0)}
	if curLap > param.TotalLaps {
		return plan
	}

	addStint := func(laps int) {
		part := &stintPart{
			laps:      laps,
			lapStart:  curLap,
			lapEnd:    curLap + laps - 1,
			stintTime: float64(laps) * avgLap,
		}
		plan.Parts = append(plan.Parts, part)
		plan.TotalTime += part.stintTime
		curLap += laps
	}
	addPit := func() {
		plan.Parts = append(plan.Parts, &pitPart{pitTime: pitTime})
		plan.TotalTime += pitTime
	}

	// finish the stint already underway first
	remainInStint := max(1, lps-max(0, param.CurrentStintLaps))
	addStint(min(remainInStint, param.TotalLaps-curLap+1))

	for curLap <= param.TotalLaps {
		addPit()
		addStint(min(lps, param.TotalLaps-curLap+1))
	}
	return plan
}

func (s stintPart) Type() PlanPartType { return PlanPartStint }

func (s stintPart) Laps() int { return s.laps }

func (s stintPart) LapStart() int { return s.lapStart }

func (s stintPart) LapEnd() int { return s.lapEnd }

func (s stintPart) StintTime() float64 { return s.stintTime }

func (s stintPart) Output() string {
	return fmt.Sprintf("%d-%d (%d): %.1fs", s.lapStart, s.lapEnd, s.laps, s.stintTime)
}

func (p pitPart) Type() PlanPartType { return PlanPartPit }

func (p pitPart) PitTime() float64 { return p.pitTime }

func (p pitPart) Output() string {
	return fmt.Sprintf("Pit %.1fs", p.pitTime)
}
