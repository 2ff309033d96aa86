// Package store holds the normalized lap records of one race session.
package store

import (
	"context"

	"github.com/pitwall/strategy-engine/pkg/model"
)

// LapStore is the session-scoped collection of lap records. Records are
// immutable facts; inserting the same (vehicle, lap) again replaces the
// earlier record (timing corrections).
type LapStore interface {
	Insert(ctx context.Context, records []model.LapRecord) error
	// Laps returns the records of one vehicle ordered by lap number.
	Laps(ctx context.Context, vehicleID string) ([]model.LapRecord, error)
	// All returns every record ordered by vehicle id, then lap number.
	All(ctx context.Context) ([]model.LapRecord, error)
	// Vehicles returns the distinct vehicle ids in sorted order.
	Vehicles(ctx context.Context) ([]string, error)
	Close() error
}

// LapTimes extracts the ordered lap time sequence of one vehicle.
// Invalid laps are kept as zero so callers can filter them knowingly.
func LapTimes(ctx context.Context, s LapStore, vehicleID string) ([]float64, error) {
	records, err := s.Laps(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	ret := make([]float64, 0, len(records))
	for _, r := range records {
		ret = append(ret, r.LapTime)
	}
	return ret, nil
}
