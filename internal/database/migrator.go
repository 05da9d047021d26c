package database

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log"
	"path"
	"sort"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Executor is the slice of a SQL connection the migrator needs. PgxExecutor
// and SQLExecutor adapt the two drivers the store supports.
type Executor interface {
	Exec(ctx context.Context, query string, args ...any) error
	QueryStrings(ctx context.Context, query string, args ...any) ([]string, error)
	Placeholder() sq.PlaceholderFormat
}

type pgxExecutor struct {
	pool *pgxpool.Pool
}

// PgxExecutor adapts a pgx pool.
func PgxExecutor(pool *pgxpool.Pool) Executor {
	return &pgxExecutor{pool: pool}
}

func (e *pgxExecutor) Exec(ctx context.Context, query string, args ...any) error {
	_, err := e.pool.Exec(ctx, query, args...)
	return err
}

func (e *pgxExecutor) QueryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := e.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (e *pgxExecutor) Placeholder() sq.PlaceholderFormat { return sq.Dollar }

type sqlExecutor struct {
	db *sql.DB
}

// SQLExecutor adapts a database/sql handle (used for SQLite).
func SQLExecutor(db *sql.DB) Executor {
	return &sqlExecutor{db: db}
}

func (e *sqlExecutor) Exec(ctx context.Context, query string, args ...any) error {
	_, err := e.db.ExecContext(ctx, query, args...)
	return err
}

func (e *sqlExecutor) QueryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := e.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (e *sqlExecutor) Placeholder() sq.PlaceholderFormat { return sq.Question }

// Migrator handles database schema migrations
type Migrator struct {
	exec Executor
	fsys fs.FS
	dir  string
}

// NewMigratorWithFS creates a migration runner that reads *.sql files from
// dir inside fsys.
func NewMigratorWithFS(exec Executor, fsys fs.FS, dir string) *Migrator {
	return &Migrator{exec: exec, fsys: fsys, dir: dir}
}

// RunMigrations executes all pending migrations in filename order.
//
// Applied filenames are tracked in schema_migrations; files whose name
// contains "reset" are never run automatically.
func (m *Migrator) RunMigrations(ctx context.Context) error {
	log.Println("[Migrate] Starting schema migrations...")

	if err := m.createMigrationsTable(ctx); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := m.getAppliedMigrations(ctx)
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	entries, err := fs.ReadDir(m.fsys, m.dir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	run := 0
	for _, filename := range files {
		if strings.Contains(filename, "reset") {
			log.Printf("[Migrate]   skipping %s (reset script)", filename)
			continue
		}
		if applied[filename] {
			continue
		}

		content, err := fs.ReadFile(m.fsys, path.Join(m.dir, filename))
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", filename, err)
		}

		log.Printf("[Migrate]   running %s", filename)
		if err := m.exec.Exec(ctx, string(content)); err != nil {
			return fmt.Errorf("failed to run migration %s: %w", filename, err)
		}
		if err := m.recordMigration(ctx, filename); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", filename, err)
		}
		run++
	}

	if run > 0 {
		log.Printf("[Migrate] Applied %d new migration(s)", run)
	} else {
		log.Println("[Migrate] Schema is up to date")
	}
	return nil
}

func (m *Migrator) createMigrationsTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			filename VARCHAR(255) PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`
	return m.exec.Exec(ctx, query)
}

func (m *Migrator) getAppliedMigrations(ctx context.Context) (map[string]bool, error) {
	names, err := m.exec.QueryStrings(ctx, "SELECT filename FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	applied := make(map[string]bool, len(names))
	for _, n := range names {
		applied[n] = true
	}
	return applied, nil
}

func (m *Migrator) recordMigration(ctx context.Context, filename string) error {
	query, args, err := sq.Insert("schema_migrations").
		Columns("filename").
		Values(filename).
		Suffix("ON CONFLICT (filename) DO NOTHING").
		PlaceholderFormat(m.exec.Placeholder()).
		ToSql()
	if err != nil {
		return err
	}
	return m.exec.Exec(ctx, query, args...)
}
