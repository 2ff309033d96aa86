package analyze

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pitwall/strategy-engine/log"
	"github.com/pitwall/strategy-engine/pkg/config"
	"github.com/pitwall/strategy-engine/pkg/ingest"
	"github.com/pitwall/strategy-engine/pkg/model"
	"github.com/pitwall/strategy-engine/pkg/processing/position"
	"github.com/pitwall/strategy-engine/pkg/store"
	"github.com/pitwall/strategy-engine/pkg/strategy"
	"github.com/pitwall/strategy-engine/pkg/track"
)

type analyzeParams struct {
	lapsFile       string
	trackName      string
	vehicleID      string
	currentLap     int
	totalLaps      int
	fuelPct        float64
	tireAgeLaps    int
	elapsedMinutes float64
}

// report is the one-shot output written to stdout.
type report struct {
	Track          string                       `json:"track"`
	Vehicle        string                       `json:"vehicle"`
	RaceType       string                       `json:"race_type"`
	RaceNote       string                       `json:"race_note"`
	Positions      []model.PositionSnapshot     `json:"positions"`
	Degradation    model.DegradationModel       `json:"degradation"`
	Recommendation model.StrategyRecommendation `json:"recommendation"`
	PitEvaluation  strategy.PitWindowEvaluation `json:"pit_evaluation"`
	StintPlan      []string                     `json:"stint_plan"`
}

// NewAnalyzeCmd creates the command for a one-shot analysis of a lap
// file. The result is written to stdout as JSON.
func NewAnalyzeCmd() *cobra.Command {
	params := analyzeParams{}
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "computes positions, degradation and a strategy call from a lap CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(params)
		},
	}
	cmd.Flags().StringVar(&params.lapsFile, "laps", "",
		"CSV file with lap records (vehicle_id,lap_number,lap_time)")
	cmd.Flags().StringVar(&params.trackName, "track", "default",
		"track name used to look up the profile")
	cmd.Flags().StringVar(&params.vehicleID, "vehicle", "",
		"vehicle to analyze (default: first vehicle in the file)")
	cmd.Flags().IntVar(&params.currentLap, "current-lap", 1,
		"current race lap")
	cmd.Flags().IntVar(&params.totalLaps, "total-laps", 40,
		"scheduled race distance in laps")
	cmd.Flags().Float64Var(&params.fuelPct, "fuel", 100,
		"remaining fuel in percent")
	cmd.Flags().IntVar(&params.tireAgeLaps, "tire-age", 0,
		"laps on the current tire set")
	cmd.Flags().Float64Var(&params.elapsedMinutes, "elapsed-minutes", 0,
		"session time elapsed in minutes")
	//nolint:errcheck // flag exists
	cmd.MarkFlagRequired("laps")
	return cmd
}

func runAnalyze(params analyzeParams) error {
	l := log.Default().Named("analyze")

	f, err := os.Open(params.lapsFile)
	if err != nil {
		return err
	}
	defer f.Close()
	records, err := ingest.ReadLaps(f)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no lap records in %s", params.lapsFile)
	}

	ctx := context.Background()
	laps := store.NewMemoryStore()
	defer laps.Close()
	if err := laps.Insert(ctx, records); err != nil {
		return err
	}

	vehicle := params.vehicleID
	if vehicle == "" {
		vehicles, vErr := laps.Vehicles(ctx)
		if vErr != nil {
			return vErr
		}
		vehicle = vehicles[0]
		l.Debug("no vehicle given, using first", log.String("vehicle", vehicle))
	}
	lapTimes, err := store.LapTimes(ctx, laps, vehicle)
	if err != nil {
		return err
	}
	if len(lapTimes) == 0 {
		return fmt.Errorf("no laps for vehicle %s", vehicle)
	}

	reg, err := newRegistry()
	if err != nil {
		return err
	}
	profile, err := reg.Get(params.trackName)
	if err != nil {
		return err
	}

	recommendation, deg, err := strategy.Recommend(
		profile, lapTimes,
		params.currentLap, params.totalLaps,
		params.fuelPct, params.tireAgeLaps, params.elapsedMinutes,
		strategy.WithFuelBurnPerLap(config.FuelBurnPerLap),
		strategy.WithPitServiceTime(config.PitServiceTime))
	if err != nil {
		return err
	}
	deg.VehicleID = vehicle

	eval := strategy.EvaluatePitWindow(
		params.currentLap, params.totalLaps, params.tireAgeLaps,
		deg.DegradationRate*100, deg.BaselineTime,
		strategy.WithPitServiceTime(config.PitServiceTime))

	raceType, raceNote := strategy.ClassifyRace(params.totalLaps)

	plan := strategy.PlanStints(&strategy.StintPlanParams{
		TotalLaps:        params.totalLaps,
		CurrentLap:       params.currentLap,
		CurrentStintLaps: params.tireAgeLaps,
		LapsPerStint:     profile.OptimalStintCandidates[1],
		AvgLap:           deg.BaselineTime,
		PitTime:          profile.PitLaneTimeLoss + config.PitServiceTime,
	})

	out := report{
		Track:          profile.Name,
		Vehicle:        vehicle,
		RaceType:       raceType,
		RaceNote:       raceNote,
		Positions:      position.Compute(records),
		Degradation:    deg,
		Recommendation: recommendation,
		PitEvaluation:  eval,
		StintPlan:      planOutput(plan),
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func newRegistry() (*track.Registry, error) {
	if config.TrackProfiles == "" {
		return track.New()
	}
	return track.New(track.WithOverlayFile(config.TrackProfiles))
}

func planOutput(plan *strategy.StintPlan) []string {
	ret := make([]string, 0, len(plan.Parts))
	for _, p := range plan.Parts {
		ret = append(ret, p.Output())
	}
	return ret
}
