package dataset

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/pathwatch-data/hallway.report/internal/report"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// RunStore keeps a sqlite history of analysis runs, one row per run.
type RunStore struct {
	db *sql.DB
}

// OpenRunStore opens (creating if needed) the run database at path and
// applies any pending migrations.
func OpenRunStore(path string) (*RunStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open run store: %w", err)
	}
	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, err
	}
	return &RunStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *RunStore) Close() error {
	return s.db.Close()
}

func migrateUp(db *sql.DB) error {
	src, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("create sqlite driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	// Closing m would close the shared DB connection, so we don't.
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}

// RunRecord is one row of run history.
type RunRecord struct {
	ID             string
	Identity       string
	Success        bool
	FramesAnalyzed int
	HazardCount    int
	Method         string
	CreatedAt      time.Time
}

// RecordRun appends one run to the history and returns its generated
// id.
func (s *RunStore) RecordRun(identity string, res *report.Result) (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO runs (id, identity, success, frames_analyzed, hazard_count, method) VALUES (?, ?, ?, ?, ?, ?)`,
		id, identity, res.Success, res.FramesAnalyzed, res.HazardousObjects, res.Method,
	)
	if err != nil {
		return "", fmt.Errorf("record run: %w", err)
	}
	return id, nil
}

// Runs returns the run history for identity, newest first.
func (s *RunStore) Runs(identity string) ([]RunRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, identity, success, frames_analyzed, hazard_count, method, created_at
		 FROM runs WHERE identity = ? ORDER BY created_at DESC, id`,
		identity,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var r RunRecord
		if err := rows.Scan(&r.ID, &r.Identity, &r.Success, &r.FramesAnalyzed, &r.HazardCount, &r.Method, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
