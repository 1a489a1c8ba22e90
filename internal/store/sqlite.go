package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteStore persists runs in a SQLite file. The ledger is stored as a JSON
// blob next to a few queryable columns.
type SQLiteStore struct {
	sql *sql.DB
}

// OpenSQLite opens (or creates) the database at path and runs migrations.
// ":memory:" gives a private in-memory database.
func OpenSQLite(path string) (*SQLiteStore, error) {
	sqlDB, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if strings.HasPrefix(path, ":memory:") {
		// Each connection would get its own empty database.
		sqlDB.SetMaxOpenConns(1)
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	s := &SQLiteStore{sql: sqlDB}
	if err := s.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate db: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.sql.Close()
}

// schemaVersion is 0 for a fresh database.
func (s *SQLiteStore) schemaVersion() (int, error) {
	var tables int
	if err := s.sql.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'schema_version'",
	).Scan(&tables); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	if tables == 0 {
		return 0, nil
	}
	var version int
	if err := s.sql.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return version, nil
}

func (s *SQLiteStore) migrate() error {
	version, err := s.schemaVersion()
	if err != nil {
		return err
	}

	if version < 1 {
		_, err := s.sql.Exec(`
			CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY);

			CREATE TABLE IF NOT EXISTS runs (
				id            TEXT PRIMARY KEY,
				created_at    TEXT NOT NULL,
				strategy      TEXT NOT NULL,
				assets        TEXT NOT NULL,
				horizon       INTEGER NOT NULL,
				quantization  INTEGER NOT NULL,
				capital       REAL NOT NULL,
				final_wealth  REAL NOT NULL,
				result_json   TEXT NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);

			INSERT OR IGNORE INTO schema_version (version) VALUES (1);
		`)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) Save(ctx context.Context, run *Run) error {
	if run == nil {
		return fmt.Errorf("run is nil")
	}
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	assets, err := json.Marshal(run.Assets)
	if err != nil {
		return err
	}
	result, err := json.Marshal(run.Result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	final := 1.0
	if run.Result != nil {
		final = run.Result.FinalWealth
	}

	_, err = s.sql.ExecContext(ctx, `
		INSERT OR REPLACE INTO runs
			(id, created_at, strategy, assets, horizon, quantization, capital, final_wealth, result_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID.String(), run.CreatedAt.UTC().Format(timeLayout), run.Strategy, string(assets),
		run.Horizon, run.Quantization, run.Capital, final, string(result),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// timeLayout sorts lexically in time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const runColumns = `id, created_at, strategy, assets, horizon, quantization, capital, result_json`

func (s *SQLiteStore) Get(ctx context.Context, id uuid.UUID) (*Run, error) {
	row := s.sql.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id.String())
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return run, err
}

func (s *SQLiteStore) List(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.sql.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*Run, error) {
	var (
		id, created, assets, result string
		run                         Run
	)
	if err := sc.Scan(&id, &created, &run.Strategy, &assets, &run.Horizon,
		&run.Quantization, &run.Capital, &result); err != nil {
		return nil, err
	}
	var err error
	if run.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("run id %q: %w", id, err)
	}
	if run.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
		return nil, fmt.Errorf("run %s created_at: %w", id, err)
	}
	if err := json.Unmarshal([]byte(assets), &run.Assets); err != nil {
		return nil, fmt.Errorf("run %s assets: %w", id, err)
	}
	if err := json.Unmarshal([]byte(result), &run.Result); err != nil {
		return nil, fmt.Errorf("run %s result: %w", id, err)
	}
	return &run, nil
}
