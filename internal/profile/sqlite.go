package profile

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/Aman-CERP/wbadvisor/internal/aircraft"
	wberrors "github.com/Aman-CERP/wbadvisor/internal/errors"
	"github.com/Aman-CERP/wbadvisor/internal/payload"
)

// SQLiteStore keeps profiles in a SQLite table.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens or creates the database at path.
// An empty path opens an in-memory database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	dsn := ":memory:"
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, wberrors.StorageError("failed to create profile directory", err).WithDetail("path", path)
		}
		dsn = path
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, wberrors.StorageError("failed to open profile database", err).WithDetail("path", path)
	}

	// Single connection: one writer, and :memory: lives per connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, wberrors.StorageError("failed to set pragma", err).WithDetail("pragma", pragma)
		}
	}

	const schema = `
	CREATE TABLE IF NOT EXISTS profiles (
		name         TEXT PRIMARY KEY,
		weights      TEXT NOT NULL,
		planned_burn REAL NOT NULL DEFAULT 0,
		saved_at     TEXT NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, wberrors.StorageError("failed to initialize profile schema", err).WithDetail("path", path)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

// Load implements Store.
func (s *SQLiteStore) Load(ctx context.Context) ([]Profile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, weights, planned_burn, saved_at FROM profiles ORDER BY name`)
	if err != nil {
		return nil, wberrors.StorageError("failed to query profiles", err)
	}
	defer rows.Close()

	var profiles []Profile
	for rows.Next() {
		var (
			name, weights, savedAt string
			burn                   float64
		)
		if err := rows.Scan(&name, &weights, &burn, &savedAt); err != nil {
			return nil, wberrors.StorageError("failed to scan profile", err)
		}

		p := Profile{Name: name, Weights: payload.State{PlannedFuelBurn: burn}}
		if err := json.Unmarshal([]byte(weights), &p.Weights.Weights); err != nil {
			return nil, wberrors.New(wberrors.ErrCodeProfileStoreCorrupt, "profile weights are corrupt", err).
				WithDetail("name", name)
		}
		if p.Weights.Weights == nil {
			p.Weights.Weights = map[aircraft.StationID]float64{}
		}
		p.Weights = p.Weights.Sanitize()
		if p.SavedAt, err = time.Parse(time.RFC3339Nano, savedAt); err != nil {
			return nil, wberrors.New(wberrors.ErrCodeProfileStoreCorrupt, "profile timestamp is corrupt", err).
				WithDetail("name", name)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, wberrors.StorageError("failed to read profiles", err)
	}
	return profiles, nil
}

// Save implements Store.
func (s *SQLiteStore) Save(ctx context.Context, p Profile) error {
	p, err := prepare(p)
	if err != nil {
		return err
	}

	weights := p.Weights.Weights
	if weights == nil {
		weights = map[aircraft.StationID]float64{}
	}
	data, err := json.Marshal(weights)
	if err != nil {
		return wberrors.InternalError("failed to marshal profile weights", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO profiles (name, weights, planned_burn, saved_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			weights = excluded.weights,
			planned_burn = excluded.planned_burn,
			saved_at = excluded.saved_at`,
		p.Name, string(data), p.Weights.PlannedFuelBurn, p.SavedAt.Format(time.RFC3339Nano))
	if err != nil {
		return wberrors.StorageError("failed to save profile", err).WithDetail("name", p.Name)
	}
	return nil
}

// Delete implements Store.
func (s *SQLiteStore) Delete(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	res, err := s.db.ExecContext(ctx, `DELETE FROM profiles WHERE name = ?`, name)
	if err != nil {
		return wberrors.StorageError("failed to delete profile", err).WithDetail("name", name)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wberrors.StorageError("failed to delete profile", err).WithDetail("name", name)
	}
	if n == 0 {
		return notFound(name)
	}
	return nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
