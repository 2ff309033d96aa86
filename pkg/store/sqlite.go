package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // database/sql driver

	"github.com/pitwall/strategy-engine/pkg/model"
)

type sqliteStore struct {
	db *sql.DB
}

// NewSqliteStore opens (and if needed initializes) a sqlite-backed lap
// store at path. Useful when a session should survive process restarts.
func NewSqliteStore(path string) (LapStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open lap store: %w", err)
	}
	_, err = db.Exec(`
	CREATE TABLE IF NOT EXISTS lap (
		vehicle_id TEXT NOT NULL,
		lap_number INTEGER NOT NULL,
		lap_time DOUBLE NOT NULL,
		PRIMARY KEY (vehicle_id, lap_number)
	);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init lap store schema: %w", err)
	}
	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) Insert(ctx context.Context, records []model.LapRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit
	for _, r := range records {
		_, err := tx.ExecContext(ctx, `
		INSERT INTO lap (vehicle_id, lap_number, lap_time) VALUES (?, ?, ?)
		ON CONFLICT (vehicle_id, lap_number) DO UPDATE SET lap_time=excluded.lap_time
		`, r.VehicleID, r.LapNumber, r.LapTime)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *sqliteStore) Laps(ctx context.Context, vehicleID string) ([]model.LapRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT vehicle_id, lap_number, lap_time FROM lap
	WHERE vehicle_id = ? ORDER BY lap_number
	`, vehicleID)
	if err != nil {
		return nil, err
	}
	return collectRows(rows)
}

func (s *sqliteStore) All(ctx context.Context) ([]model.LapRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT vehicle_id, lap_number, lap_time FROM lap
	ORDER BY vehicle_id, lap_number
	`)
	if err != nil {
		return nil, err
	}
	return collectRows(rows)
}

func (s *sqliteStore) Vehicles(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT vehicle_id FROM lap ORDER BY vehicle_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ret := make([]string, 0)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		ret = append(ret, v)
	}
	return ret, rows.Err()
}

func (s *sqliteStore) Close() error { return s.db.Close() }

func collectRows(rows *sql.Rows) ([]model.LapRecord, error) {
	defer rows.Close()
	ret := make([]model.LapRecord, 0)
	for rows.Next() {
		var r model.LapRecord
		if err := rows.Scan(&r.VehicleID, &r.LapNumber, &r.LapTime); err != nil {
			return nil, err
		}
		ret = append(ret, r)
	}
	return ret, rows.Err()
}
