// Package store provides the SQLite-backed persistence for bins and their
// fill-level observations. The observations table is append-only and
// indexed by (bin_id, ts) so the lookback range queries the engine issues
// stay cheap as history grows.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ecotrack/binsight/core/model"
	corestore "github.com/ecotrack/binsight/core/store"
)

// SQLiteStore persists bins and observations in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at path and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS bins (
        id TEXT PRIMARY KEY,
        fill_level REAL NOT NULL
    );
    CREATE TABLE IF NOT EXISTS observations (
        id TEXT PRIMARY KEY,
        bin_id TEXT NOT NULL,
        fill_level REAL NOT NULL,
        ts INTEGER NOT NULL,
        source TEXT NOT NULL
    );
    CREATE INDEX IF NOT EXISTS idx_observations_bin_ts ON observations(bin_id, ts);`
	if _, err := db.Exec(schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }

// PutBin creates or replaces a bin record.
func (s *SQLiteStore) PutBin(ctx context.Context, bin model.Bin) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO bins (id, fill_level) VALUES (?, ?)
         ON CONFLICT(id) DO UPDATE SET fill_level = excluded.fill_level`,
		bin.ID, bin.CurrentFillLevel)
	return err
}

// GetBin returns the bin or core/store.ErrBinNotFound.
func (s *SQLiteStore) GetBin(ctx context.Context, binID string) (model.Bin, error) {
	var bin model.Bin
	err := s.db.QueryRowContext(ctx,
		`SELECT id, fill_level FROM bins WHERE id = ?`, binID).
		Scan(&bin.ID, &bin.CurrentFillLevel)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Bin{}, corestore.ErrBinNotFound
	}
	if err != nil {
		return model.Bin{}, err
	}
	return bin, nil
}

// ListBins returns every known bin ordered by id.
func (s *SQLiteStore) ListBins(ctx context.Context) ([]model.Bin, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, fill_level FROM bins ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var bins []model.Bin
	for rows.Next() {
		var bin model.Bin
		if err := rows.Scan(&bin.ID, &bin.CurrentFillLevel); err != nil {
			return nil, err
		}
		bins = append(bins, bin)
	}
	return bins, rows.Err()
}

// SetFillLevel updates the bin's current fill state.
func (s *SQLiteStore) SetFillLevel(ctx context.Context, binID string, fill float64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE bins SET fill_level = ? WHERE id = ?`, fill, binID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return corestore.ErrBinNotFound
	}
	return nil
}

// Append inserts an observation. Timestamps are stored as Unix
// milliseconds, the same axis the estimator fits on.
func (s *SQLiteStore) Append(ctx context.Context, obs model.Observation) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO observations (id, bin_id, fill_level, ts, source) VALUES (?, ?, ?, ?, ?)`,
		obs.ID, obs.BinID, obs.FillLevel, obs.Timestamp.UnixMilli(), obs.Source.String())
	return err
}

// Observations returns a bin's observations since the given time, ordered
// by timestamp ascending.
func (s *SQLiteStore) Observations(ctx context.Context, binID string, since time.Time) ([]model.Observation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, bin_id, fill_level, ts, source FROM observations
         WHERE bin_id = ? AND ts >= ? ORDER BY ts`,
		binID, since.UnixMilli())
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanObservations(rows)
}

// ObservationsByBin returns every bin's observations since the given time
// in a single query, keyed by bin id.
func (s *SQLiteStore) ObservationsByBin(ctx context.Context, since time.Time) (map[string][]model.Observation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, bin_id, fill_level, ts, source FROM observations
         WHERE ts >= ? ORDER BY bin_id, ts`,
		since.UnixMilli())
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	list, err := scanObservations(rows)
	if err != nil {
		return nil, err
	}
	out := map[string][]model.Observation{}
	for _, o := range list {
		out[o.BinID] = append(out[o.BinID], o)
	}
	return out, nil
}

func scanObservations(rows *sql.Rows) ([]model.Observation, error) {
	var out []model.Observation
	for rows.Next() {
		var (
			o   model.Observation
			ts  int64
			src string
		)
		if err := rows.Scan(&o.ID, &o.BinID, &o.FillLevel, &ts, &src); err != nil {
			return nil, err
		}
		o.Timestamp = time.UnixMilli(ts).UTC()
		source, err := model.ParseSource(src)
		if err != nil {
			return nil, err
		}
		o.Source = source
		out = append(out, o)
	}
	return out, rows.Err()
}
