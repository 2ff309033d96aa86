package store

import (
	"context"
	"sort"
	"sync"

	"github.com/pitwall/strategy-engine/pkg/model"
)

// memoryStore keeps the session's lap records in process memory.
type memoryStore struct {
	mu   sync.RWMutex
	laps map[string]map[int]model.LapRecord // vehicle -> lap -> record
}

// NewMemoryStore returns an empty in-memory lap store.
func NewMemoryStore() LapStore {
	return &memoryStore{laps: make(map[string]map[int]model.LapRecord)}
}

func (s *memoryStore) Insert(_ context.Context, records []model.LapRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		byLap, ok := s.laps[r.VehicleID]
		if !ok {
			byLap = make(map[int]model.LapRecord)
			s.laps[r.VehicleID] = byLap
		}
		byLap[r.LapNumber] = r
	}
	return nil
}

func (s *memoryStore) Laps(_ context.Context, vehicleID string) ([]model.LapRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byLap := s.laps[vehicleID]
	ret := make([]model.LapRecord, 0, len(byLap))
	for _, r := range byLap {
		ret = append(ret, r)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].LapNumber < ret[j].LapNumber })
	return ret, nil
}

func (s *memoryStore) All(ctx context.Context) ([]model.LapRecord, error) {
	vehicles, _ := s.Vehicles(ctx)
	ret := make([]model.LapRecord, 0)
	for _, v := range vehicles {
		laps, _ := s.Laps(ctx, v)
		ret = append(ret, laps...)
	}
	return ret, nil
}

func (s *memoryStore) Vehicles(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ret := make([]string, 0, len(s.laps))
	for v := range s.laps {
		ret = append(ret, v)
	}
	sort.Strings(ret)
	return ret, nil
}

func (s *memoryStore) Close() error { return nil }
