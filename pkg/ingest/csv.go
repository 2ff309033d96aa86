// Package ingest parses normalized lap timing CSV into lap records.
// It is a thin collaborator of the analytics core: malformed rows are
// filtered before entry, never fatal.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pitwall/strategy-engine/log"
	"github.com/pitwall/strategy-engine/pkg/model"
)

// expected header: vehicle_id,lap_number,lap_time
// (lap_time may be empty for laps without a usable time)
var expectedColumns = []string{"vehicle_id", "lap_number", "lap_time"}

// ErrMissingHeader is returned when the input carries no header row.
var ErrMissingHeader = errors.New("lap CSV has no header row")

// ReadLaps parses lap records from r. Rows with an unparsable vehicle
// id or lap number are dropped with a warning; an unparsable lap time
// yields a record without a time (excluded from statistics downstream).
func ReadLaps(r io.Reader) ([]model.LapRecord, error) {
	l := log.Default().Named("ingest")
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, ErrMissingHeader
	}
	idx, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	ret := make([]model.LapRecord, 0)
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			l.Warn("skipping unreadable row", log.Int("line", line), log.ErrorF(err))
			continue
		}
		rec, ok := parseRow(row, idx)
		if !ok {
			l.Warn("skipping malformed row", log.Int("line", line))
			continue
		}
		ret = append(ret, rec)
	}
	return ret, nil
}

type columns struct {
	vehicle, lap, lapTime int
}

func columnIndex(header []string) (columns, error) {
	ret := columns{vehicle: -1, lap: -1, lapTime: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "vehicle_id", "vehicle", "car", "number":
			ret.vehicle = i
		case "lap_number", "lap":
			ret.lap = i
		case "lap_time", "laptime", "time":
			ret.lapTime = i
		}
	}
	if ret.vehicle < 0 || ret.lap < 0 || ret.lapTime < 0 {
		return ret, fmt.Errorf("lap CSV header must contain %v, got %v",
			expectedColumns, header)
	}
	return ret, nil
}

func parseRow(row []string, idx columns) (model.LapRecord, bool) {
	maxIdx := max(idx.vehicle, max(idx.lap, idx.lapTime))
	if len(row) <= maxIdx {
		return model.LapRecord{}, false
	}
	vehicle := strings.TrimSpace(row[idx.vehicle])
	if vehicle == "" {
		return model.LapRecord{}, false
	}
	lap, err := strconv.Atoi(strings.TrimSpace(row[idx.lap]))
	if err != nil || lap < 1 {
		return model.LapRecord{}, false
	}
	ret := model.LapRecord{VehicleID: vehicle, LapNumber: lap}
	if raw := strings.TrimSpace(row[idx.lapTime]); raw != "" {
		if t, err := strconv.ParseFloat(raw, 64); err == nil {
			ret.LapTime = t
		}
	}
	return ret, true
}
