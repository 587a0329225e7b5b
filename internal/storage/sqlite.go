// Package storage provides the SQLite replay journal for Blast runs.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-blast/internal/games/blast/core"
)

// Run outcomes stored in the journal.
const (
	OutcomeInProgress = "in_progress"
	OutcomeCompleted  = "completed"
	OutcomeOutOfMoves = "out_of_moves"
	OutcomeAbandoned  = "abandoned"
)

// Store manages the SQLite database connection for the journal.
type Store struct {
	db *sql.DB
}

// Run is one recorded attempt at a level.
type Run struct {
	ID        string
	LevelID   string
	Seed      int64
	Moves     int
	Outcome   string
	Taps      int
	CreatedAt time.Time
}

// Tap is one accepted player action and the state it produced.
type Tap struct {
	RunID     string
	Seq       int
	X         int
	Y         int
	Removed   int
	MovesLeft int
	Snapshot  core.Snapshot
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// SSH sessions share the store; SQLite has a single writer.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			level_id TEXT NOT NULL,
			seed INTEGER NOT NULL,
			moves INTEGER NOT NULL,
			outcome TEXT NOT NULL DEFAULT 'in_progress',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_level_id ON runs(level_id);

		CREATE TABLE IF NOT EXISTS taps (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			x INTEGER NOT NULL,
			y INTEGER NOT NULL,
			removed INTEGER NOT NULL,
			moves_left INTEGER NOT NULL,
			snapshot BLOB NOT NULL,
			PRIMARY KEY (run_id, seq)
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// StartRun records the start of a level attempt and returns its ID.
func (s *Store) StartRun(levelID string, seed int64, moves int) (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("storage: cannot generate run id: %w", err)
	}

	_, err = s.db.Exec(
		"INSERT INTO runs (id, level_id, seed, moves, outcome) VALUES (?, ?, ?, ?, ?)",
		id.String(), levelID, seed, moves, OutcomeInProgress,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot start run: %w", err)
	}
	return id.String(), nil
}

// RecordTap appends an accepted tap to a run.
func (s *Store) RecordTap(tap Tap) error {
	blob, err := msgpack.Marshal(&tap.Snapshot)
	if err != nil {
		return fmt.Errorf("storage: cannot encode snapshot: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO taps (run_id, seq, x, y, removed, moves_left, snapshot)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		tap.RunID, tap.Seq, tap.X, tap.Y, tap.Removed, tap.MovesLeft, blob,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot record tap: %w", err)
	}
	return nil
}

// FinishRun sets the final outcome of a run.
func (s *Store) FinishRun(runID, outcome string) error {
	res, err := s.db.Exec("UPDATE runs SET outcome = ? WHERE id = ?", outcome, runID)
	if err != nil {
		return fmt.Errorf("storage: cannot finish run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("storage: run not found: %s", runID)
	}
	return nil
}

const runColumns = `r.id, r.level_id, r.seed, r.moves, r.outcome, r.created_at,
	(SELECT COUNT(*) FROM taps t WHERE t.run_id = r.id)`

// RecentRuns retrieves the most recent runs, newest first.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+runColumns+`
		 FROM runs r
		 ORDER BY r.created_at DESC, r.rowid DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// RunByID retrieves a run by its ID or by a unique ID prefix.
// Returns nil when no run matches.
func (s *Store) RunByID(id string) (*Run, error) {
	rows, err := s.db.Query(
		`SELECT `+runColumns+`
		 FROM runs r
		 WHERE r.id = ? OR r.id LIKE ? || '%'
		 ORDER BY r.id = ? DESC
		 LIMIT 2`,
		id, id, id,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query run: %w", err)
	}
	defer rows.Close()

	var found []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		found = append(found, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	switch {
	case len(found) == 0:
		return nil, nil
	case found[0].ID == id || len(found) == 1:
		return &found[0], nil
	default:
		return nil, fmt.Errorf("storage: run id prefix %q is ambiguous", id)
	}
}

// Taps retrieves the taps of a run in order.
func (s *Store) Taps(runID string) ([]Tap, error) {
	rows, err := s.db.Query(
		`SELECT run_id, seq, x, y, removed, moves_left, snapshot
		 FROM taps
		 WHERE run_id = ?
		 ORDER BY seq`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query taps: %w", err)
	}
	defer rows.Close()

	var taps []Tap
	for rows.Next() {
		var tap Tap
		var blob []byte
		if err := rows.Scan(&tap.RunID, &tap.Seq, &tap.X, &tap.Y, &tap.Removed, &tap.MovesLeft, &blob); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		if err := msgpack.Unmarshal(blob, &tap.Snapshot); err != nil {
			return nil, fmt.Errorf("storage: cannot decode snapshot %s/%d: %w", tap.RunID, tap.Seq, err)
		}
		taps = append(taps, tap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return taps, nil
}

// ClearRuns deletes every run and its taps.
func (s *Store) ClearRuns() error {
	if _, err := s.db.Exec("DELETE FROM taps"); err != nil {
		return fmt.Errorf("storage: cannot clear taps: %w", err)
	}
	if _, err := s.db.Exec("DELETE FROM runs"); err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var r Run
	var createdAt any
	if err := row.Scan(&r.ID, &r.LevelID, &r.Seed, &r.Moves, &r.Outcome, &createdAt, &r.Taps); err != nil {
		return Run{}, fmt.Errorf("storage: cannot scan row: %w", err)
	}
	r.CreatedAt = parseTime(createdAt)
	return r, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
