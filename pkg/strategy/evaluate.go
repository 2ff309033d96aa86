package strategy

import (
	"fmt"
	"math"
	"slices"

	"github.com/samber/lo"
)

type (
	// PitScenario is the projected outcome of pitting on one specific lap.
	// PitLap 0 represents staying out to the finish.
	PitScenario struct {
		PitLap        int     `json:"pit_lap"`
		TimeInPit     float64 `json:"time_in_pit"`
		TireAgeAtPit  int     `json:"tire_age_at_pit"`
		TotalTimeLoss float64 `json:"total_time_loss"`
		TotalTimeGain float64 `json:"total_time_gain"`
		NetAdvantage  float64 `json:"net_advantage"`
		Score         float64 `json:"recommendation_score"`
	}

	// PitWindowEvaluation ranks candidate pit laps by net advantage.
	PitWindowEvaluation struct {
		OptimalPitLap  int           `json:"optimal_pit_lap"`
		LapsUntilPit   int           `json:"laps_until_pit"`
		TimeLoss       float64       `json:"projected_time_loss"`
		TimeGain       float64       `json:"projected_time_gain"`
		NetAdvantage   float64       `json:"net_advantage"`
		Recommendation string        `json:"recommendation"`
		Confidence     float64       `json:"confidence_score"`
		Alternatives   []PitScenario `json:"alternative_scenarios"`
	}

	// UndercutOpportunity grades pitting before a nearby competitor.
	UndercutOpportunity struct {
		Viable          bool    `json:"undercut_viable"`
		TimeGain        float64 `json:"time_gain_potential"`
		GapRequired     float64 `json:"gap_required"`
		AdvantageMargin float64 `json:"advantage_margin"`
		Recommendation  string  `json:"recommendation"`
	}

	// RaceSimulation is a lap-by-lap projection to the finish under a
	// fixed pit plan.
	RaceSimulation struct {
		TotalRaceTime  float64   `json:"total_race_time"`
		AverageLapTime float64   `json:"average_lap_time"`
		SlowestLapTime float64   `json:"slowest_lap_time"`
		FastestLapTime float64   `json:"fastest_lap_time"`
		TotalPitStops  int       `json:"total_pit_stops"`
		FinalTireAge   int       `json:"final_tire_age"`
		LapTimes       []float64 `json:"lap_times"`
	}
)

const (
	// evaluate pit laps up to this many laps ahead
	pitLookahead = 15

	// tires fall off a cliff beyond this age when staying out
	wornTireAge = 15
)

// EvaluatePitWindow compares pitting on each of the next laps (up to
// the lookahead or race end) plus, for short remainders on fresh
// rubber, staying out entirely. Scenarios are ranked by net advantage.
// DegradationRate is percent per lap of tire age.
func EvaluatePitWindow(
	currentLap, totalLaps, tireAge int,
	degradationRate, baseline float64,
	opts ...Option,
) PitWindowEvaluation {
	cfg := &calcConfig{
		fuelBurnPerLap: DefaultFuelBurnPerLap,
		pitServiceTime: DefaultPitServiceTime,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if baseline <= 0 || math.IsNaN(baseline) {
		baseline = fallbackBaseline
	}
	remaining := totalLaps - currentLap

	scenarios := make([]PitScenario, 0, pitLookahead+1)
	for offset := 1; offset <= min(pitLookahead, remaining); offset++ {
		scenarios = append(scenarios, evaluatePitAt(
			currentLap, currentLap+offset, totalLaps, tireAge,
			degradationRate, baseline, cfg.pitServiceTime))
	}
	// staying out is rarely viable outside short sprints on fresh tires
	if remaining <= 8 && tireAge < 12 {
		scenarios = append(scenarios, evaluateNoPit(
			currentLap, totalLaps, tireAge, degradationRate, baseline))
	}
	if len(scenarios) == 0 {
		return PitWindowEvaluation{
			OptimalPitLap:  currentLap,
			Recommendation: "PIT_NOW",
			Confidence:     50,
		}
	}

	best := lo.MaxBy(scenarios, func(a, b PitScenario) bool {
		return a.NetAdvantage > b.NetAdvantage
	})
	alternatives := append([]PitScenario{}, scenarios...)
	slices.SortStableFunc(alternatives, func(a, b PitScenario) int {
		switch {
		case a.NetAdvantage > b.NetAdvantage:
			return -1
		case a.NetAdvantage < b.NetAdvantage:
			return 1
		default:
			return 0
		}
	})

	lapsUntil := 0
	if best.PitLap > 0 {
		lapsUntil = best.PitLap - currentLap
	}
	return PitWindowEvaluation{
		OptimalPitLap:  best.PitLap,
		LapsUntilPit:   lapsUntil,
		TimeLoss:       best.TotalTimeLoss,
		TimeGain:       best.TotalTimeGain,
		NetAdvantage:   best.NetAdvantage,
		Recommendation: pitRecommendation(best, currentLap),
		Confidence:     best.Score,
		Alternatives:   alternatives[:min(3, len(alternatives))],
	}
}

func evaluatePitAt(
	currentLap, pitLap, totalLaps, tireAge int,
	rate, baseline, pitTime float64,
) PitScenario {
	// time bled on the worn set before the stop
	lossBefore := 0.0
	for lap := currentLap + 1; lap <= pitLap; lap++ {
		age := tireAge + (lap - currentLap)
		lossBefore += baseline * (rate * float64(age) / 100)
	}
	// fresh rubber gain vs staying on the old set for the rest
	gainAfter := 0.0
	for lap := pitLap + 1; lap <= totalLaps; lap++ {
		freshAge := lap - pitLap
		oldAge := tireAge + (lap - currentLap)
		fresh := baseline * (1 + rate*float64(freshAge)/100)
		old := baseline * (1 + rate*float64(oldAge)/100)
		gainAfter += old - fresh
	}
	loss := pitTime + lossBefore
	net := gainAfter - loss
	return PitScenario{
		PitLap:        pitLap,
		TimeInPit:     pitTime,
		TireAgeAtPit:  tireAge + (pitLap - currentLap),
		TotalTimeLoss: loss,
		TotalTimeGain: gainAfter,
		NetAdvantage:  net,
		Score:         clamp(50+net/5, 0, 100),
	}
}

func evaluateNoPit(
	currentLap, totalLaps, tireAge int,
	rate, baseline float64,
) PitScenario {
	remaining := totalLaps - currentLap
	loss := 0.0
	for lap := currentLap + 1; lap <= totalLaps; lap++ {
		age := tireAge + (lap - currentLap)
		deg := rate * float64(age)
		// worn tires decay faster than linear
		if age > wornTireAge {
			deg += math.Pow(float64(age-wornTireAge), 1.5) * 0.2
		}
		loss += baseline * (deg / 100)
	}
	var score float64
	if remaining <= 5 && math.Abs(rate) < 0.5 {
		score = 60 - loss/2
	} else {
		score = 20 - loss/3
	}
	return PitScenario{
		PitLap:        0,
		TireAgeAtPit:  tireAge + remaining,
		TotalTimeLoss: loss,
		NetAdvantage:  -loss,
		Score:         clamp(score, 0, 100),
	}
}

func pitRecommendation(s PitScenario, currentLap int) string {
	if s.PitLap == 0 {
		return "NO_PIT_RECOMMENDED"
	}
	lapsUntil := s.PitLap - currentLap
	switch {
	case lapsUntil <= 1:
		return "PIT_NOW"
	case lapsUntil <= 3:
		return fmt.Sprintf("PIT_IN_%d_LAPS", lapsUntil)
	case lapsUntil <= 5:
		return "PIT_SOON"
	default:
		return fmt.Sprintf("PIT_WINDOW_LAP_%d", s.PitLap)
	}
}

// Undercut grades pitting before a competitor: the out-lap on fresh
// rubber against their worn in-lap plus three laps of fresh tire
// advantage, compared to the current gap.
func Undercut(
	competitorTireAge int,
	gapToCompetitor, degradationRate, baseline float64,
	opts ...Option,
) UndercutOpportunity {
	cfg := &calcConfig{pitServiceTime: DefaultPitServiceTime}
	for _, opt := range opts {
		opt(cfg)
	}
	if baseline <= 0 || math.IsNaN(baseline) {
		baseline = fallbackBaseline
	}

	outLap := baseline + cfg.pitServiceTime/2
	inLapDeg := degradationRate * float64(competitorTireAge+1)
	competitorInLap := baseline * (1 + inLapDeg/100)
	gain := competitorInLap - outLap

	freshAdvantage := 0.0
	for offset := 1; offset <= 3; offset++ {
		freshDeg := degradationRate * float64(offset)
		oldDeg := degradationRate * float64(competitorTireAge+offset)
		freshAdvantage += baseline * ((oldDeg - freshDeg) / 100)
	}
	potential := gain + freshAdvantage

	required := math.Abs(gapToCompetitor)
	viable := potential > required
	recommendation := "MONITOR"
	if viable && potential > gapToCompetitor+2 {
		recommendation = "UNDERCUT_NOW"
	}
	return UndercutOpportunity{
		Viable:          viable,
		TimeGain:        potential,
		GapRequired:     required,
		AdvantageMargin: potential - required,
		Recommendation:  recommendation,
	}
}

// Simulate projects the race to the finish under a fixed pit plan.
// Tire age resets on each planned pit lap.
func Simulate(
	currentLap, totalLaps, tireAge int,
	pitLaps []int,
	degradationRate, baseline float64,
	opts ...Option,
) RaceSimulation {
	cfg := &calcConfig{pitServiceTime: DefaultPitServiceTime}
	for _, opt := range opts {
		opt(cfg)
	}
	if baseline <= 0 || math.IsNaN(baseline) {
		baseline = fallbackBaseline
	}

	age := tireAge
	total := 0.0
	lapTimes := make([]float64, 0, max(0, totalLaps-currentLap))
	for lap := currentLap + 1; lap <= totalLaps; lap++ {
		if lo.Contains(pitLaps, lap) {
			total += cfg.pitServiceTime
			age = 0
		}
		lapTime := baseline * (1 + degradationRate*float64(age)/100)
		total += lapTime
		lapTimes = append(lapTimes, lapTime)
		age++
	}

	ret := RaceSimulation{
		TotalRaceTime: total,
		TotalPitStops: len(pitLaps),
		FinalTireAge:  age,
		LapTimes:      lapTimes,
	}
	if len(lapTimes) > 0 {
		ret.AverageLapTime = lo.Sum(lapTimes) / float64(len(lapTimes))
		ret.SlowestLapTime = lo.Max(lapTimes)
		ret.FastestLapTime = lo.Min(lapTimes)
	}
	return ret
}

// ClassifyRace buckets a race by distance with a strategy note per the
// series playbook.
func ClassifyRace(totalLaps int) (raceType, note string) {
	switch {
	case totalLaps <= 20:
		return "SPRINT", "Minimal tire management - Focus on track position"
	case totalLaps <= 35:
		return "SPRINT", "Single pit stop may be optional depending on tire wear"
	case totalLaps <= 60:
		return "ENDURANCE", "One pit stop recommended - Monitor tire degradation"
	default:
		return "ENDURANCE", "Multiple pit stops required - Active tire management"
	}
}
