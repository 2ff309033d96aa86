// Package api exposes the analytics core over HTTP. Handlers are thin:
// decode, call the pure core, encode. JSON field names follow the
// wire contract of the rendering layer.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pitwall/strategy-engine/log"
	"github.com/pitwall/strategy-engine/pkg/ingest"
	"github.com/pitwall/strategy-engine/pkg/model"
	"github.com/pitwall/strategy-engine/pkg/processing/degradation"
	"github.com/pitwall/strategy-engine/pkg/processing/position"
	"github.com/pitwall/strategy-engine/pkg/store"
	"github.com/pitwall/strategy-engine/pkg/strategy"
	"github.com/pitwall/strategy-engine/pkg/track"
	"github.com/pitwall/strategy-engine/pkg/ws"
	"github.com/pitwall/strategy-engine/version"
)

// RegistryProvider returns the current track profile registry.
// The server may swap registries on profile overlay changes; each
// request works against one immutable snapshot.
type RegistryProvider func() *track.Registry

// Handler bundles the collaborators of the HTTP surface.
type Handler struct {
	laps     store.LapStore
	registry RegistryProvider
	hub      *ws.Hub
	l        *log.Logger
}

func NewHandler(laps store.LapStore, registry RegistryProvider, hub *ws.Hub) *Handler {
	return &Handler{
		laps:     laps,
		registry: registry,
		hub:      hub,
		l:        log.Default().Named("api"),
	}
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.Version,
	})
}

func (h *Handler) listTracks(w http.ResponseWriter, _ *http.Request) {
	names := h.registry().Names()
	writeJSON(w, http.StatusOK, map[string]any{
		"tracks":       names,
		"total_tracks": len(names),
	})
}

func (h *Handler) trackProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.registry().Get(r.PathValue("name"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

type positionsRequest struct {
	LapRecords []model.LapRecord `json:"lap_records"`
}

// postPositions ingests lap records, recomputes the full snapshot set
// and broadcasts it to the live feed.
func (h *Handler) postPositions(w http.ResponseWriter, r *http.Request) {
	var req positionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.laps.Insert(r.Context(), req.LapRecords); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	snapshots, err := h.computePositions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if h.hub != nil {
		h.hub.BroadcastJSON(map[string]any{"positions": snapshots})
	}
	writeJSON(w, http.StatusOK, map[string]any{"positions": snapshots})
}

func (h *Handler) getPositions(w http.ResponseWriter, r *http.Request) {
	snapshots, err := h.computePositions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"positions": snapshots})
}

func (h *Handler) computePositions(ctx context.Context) ([]model.PositionSnapshot, error) {
	records, err := h.laps.All(ctx)
	if err != nil {
		return nil, err
	}
	return position.Compute(records), nil
}

type degradationRequest struct {
	Track     string    `json:"track"`
	VehicleID string    `json:"vehicle_id"`
	LapTimes  []float64 `json:"lap_times"`
}

// lap time projections returned alongside the fitted model
const projectionLaps = 5

type degradationResponse struct {
	model.DegradationModel
	ProjectedLapTimes []float64 `json:"projected_lap_times"`
}

func projectedLapTimes(m model.DegradationModel, n int) []float64 {
	ret := make([]float64, 0, n)
	for i := 1; i <= n; i++ {
		ret = append(ret, m.PredictedLapTimeAt(i))
	}
	return ret
}

func (h *Handler) postDegradation(w http.ResponseWriter, r *http.Request) {
	var req degradationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	profile, err := h.registry().Get(req.Track)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	lapTimes, err := h.resolveLapTimes(r.Context(), req.LapTimes, req.VehicleID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	ret := degradation.Analyze(lapTimes, profile)
	ret.VehicleID = req.VehicleID
	writeJSON(w, http.StatusOK, degradationResponse{
		DegradationModel:  ret,
		ProjectedLapTimes: projectedLapTimes(ret, projectionLaps),
	})
}

type strategyRequest struct {
	Track          string    `json:"track"`
	VehicleID      string    `json:"vehicle_id"`
	LapTimes       []float64 `json:"lap_times"`
	CurrentLap     int       `json:"current_lap"`
	TotalLaps      int       `json:"total_laps"`
	FuelLevelPct   float64   `json:"fuel_level_pct"`
	TireAgeLaps    int       `json:"tire_age_laps"`
	ElapsedMinutes float64   `json:"elapsed_minutes"`
}

func (h *Handler) postStrategy(w http.ResponseWriter, r *http.Request) {
	var req strategyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	profile, err := h.registry().Get(req.Track)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	lapTimes, err := h.resolveLapTimes(r.Context(), req.LapTimes, req.VehicleID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	recommendation, deg, err := strategy.Recommend(profile, lapTimes,
		req.CurrentLap, req.TotalLaps, req.FuelLevelPct, req.TireAgeLaps,
		req.ElapsedMinutes)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	deg.VehicleID = req.VehicleID

	raceType, raceNote := strategy.ClassifyRace(req.TotalLaps)
	evaluation := strategy.EvaluatePitWindow(
		req.CurrentLap, req.TotalLaps, req.TireAgeLaps,
		deg.DegradationRate*100, deg.BaselineTime)

	writeJSON(w, http.StatusOK, map[string]any{
		"recommendation": recommendation,
		"degradation":    deg,
		"race_type":      raceType,
		"race_note":      raceNote,
		"pit_evaluation": evaluation,
	})
}

// postLapsCSV accepts raw lap timing CSV (the ingestion collaborator's
// format) and stores the parsed records.
func (h *Handler) postLapsCSV(w http.ResponseWriter, r *http.Request) {
	records, err := ingest.ReadLaps(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.laps.Insert(r.Context(), records); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ingested": len(records)})
}

func (h *Handler) live(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		writeError(w, http.StatusServiceUnavailable,
			errors.New("live feed not enabled"))
		return
	}
	ws.ServeWS(h.hub, w, r)
}

func (h *Handler) resolveLapTimes(
	ctx context.Context,
	explicit []float64,
	vehicleID string,
) ([]float64, error) {
	if len(explicit) > 0 || vehicleID == "" {
		return explicit, nil
	}
	return store.LapTimes(ctx, h.laps, vehicleID)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Default().Named("api").Error("response encode failed", log.ErrorF(err))
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
