package report

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/anmol3478/podverification/internal/bench"
	"github.com/anmol3478/podverification/internal/faults"
)

const component = "report"

//go:embed migrations/*.sql
var migrationFS embed.FS

// Store persists benchmark runs in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the report database under dir and applies
// pending migrations.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure report dir: %w", err)
	}

	dbPath := filepath.Join(dir, "reports.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

const runColumns = `id, created_at, dataset_path, dataset_rows, skipped_rows, json_column, threshold, fields_json`

// Save persists one benchmark run.
func (s *Store) Save(ctx context.Context, run *bench.Run) error {
	if run == nil || run.ID == "" {
		return faults.Wrap(faults.ErrValidation, component, "save", "run must carry an id", nil)
	}
	fieldsJSON, err := json.Marshal(run.Fields)
	if err != nil {
		return fmt.Errorf("marshal field stats: %w", err)
	}
	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO bench_runs (`+runColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.CreatedAt.UTC().Format(time.RFC3339Nano),
		run.DatasetPath,
		run.Rows,
		run.SkippedRows,
		run.JSONColumn,
		run.Threshold,
		string(fieldsJSON),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// List returns stored runs, newest first. A non-positive limit returns all.
func (s *Store) List(ctx context.Context, limit int) ([]*bench.Run, error) {
	query := `SELECT ` + runColumns + ` FROM bench_runs ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*bench.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// Get fetches a run by id. Unique id prefixes resolve too; ambiguous
// prefixes and unknown ids fail with tagged errors.
func (s *Store) Get(ctx context.Context, id string) (*bench.Run, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, faults.Wrap(faults.ErrValidation, component, "get", "empty run id", nil)
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM bench_runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if err == nil {
		return run, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM bench_runs WHERE id LIKE ? LIMIT 2`, id+"%")
	if err != nil {
		return nil, fmt.Errorf("match run prefix: %w", err)
	}
	defer rows.Close()

	var matches []*bench.Run
	for rows.Next() {
		match, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, match)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate prefix matches: %w", err)
	}
	switch len(matches) {
	case 0:
		return nil, faults.Wrap(faults.ErrNotFound, component, "get", fmt.Sprintf("no run matches %q", id), nil)
	case 1:
		return matches[0], nil
	default:
		return nil, faults.Wrap(faults.ErrValidation, component, "get", fmt.Sprintf("run id prefix %q is ambiguous", id), nil)
	}
}

// Remove deletes a run by id or unique prefix.
func (s *Store) Remove(ctx context.Context, id string) error {
	run, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM bench_runs WHERE id = ?`, run.ID); err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*bench.Run, error) {
	var (
		run        bench.Run
		createdRaw string
		fieldsRaw  string
	)
	err := row.Scan(
		&run.ID,
		&createdRaw,
		&run.DatasetPath,
		&run.Rows,
		&run.SkippedRows,
		&run.JSONColumn,
		&run.Threshold,
		&fieldsRaw,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan run: %w", err)
	}
	if created, err := time.Parse(time.RFC3339Nano, createdRaw); err == nil {
		run.CreatedAt = created
	}
	if err := json.Unmarshal([]byte(fieldsRaw), &run.Fields); err != nil {
		return nil, fmt.Errorf("decode field stats: %w", err)
	}
	return &run, nil
}

type migration struct {
	version string
	sql     string
}

func (s *Store) applyMigrations(ctx context.Context) error {
	entries, err := migrationFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	migrations := make([]migration, 0, len(names))
	for _, name := range names {
		data, err := migrationFS.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		migrations = append(migrations, migration{
			version: strings.TrimSuffix(name, ".sql"),
			sql:     string(data),
		})
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY)"); err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}
	for _, m := range migrations {
		var count int
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(1) FROM schema_migrations WHERE version = ?", m.version).Scan(&count); err != nil {
			return fmt.Errorf("scan migration version: %w", err)
		}
		if count > 0 {
			continue
		}
		if _, err := tx.ExecContext(ctx, m.sql); err != nil {
			return fmt.Errorf("apply migration %s: %w", m.version, err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", m.version); err != nil {
			return fmt.Errorf("record migration %s: %w", m.version, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migrations: %w", err)
	}
	return nil
}
