package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"hgl-backend/internal/database"
	"hgl-backend/internal/database/migrations"
)

// SQLite keeps the store in a single on-device database file.
type SQLite struct {
	db *sql.DB
	q  kvQueries
}

// OpenSQLite opens (creating if needed) the database at path and applies
// the kv schema.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// One writer at a time; SQLite serialises anyway and this avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("configure sqlite: %w", err)
	}

	migrator := database.NewMigratorWithFS(database.SQLExecutor(db), migrations.FS, migrations.SQLiteDir)
	if err := migrator.RunMigrations(ctx); err != nil {
		db.Close()
		return nil, err
	}

	log.Printf("[Storage] SQLite store ready at %s", path)
	return &SQLite{db: db, q: newKVQueries(sq.Question)}, nil
}

func (s *SQLite) Get(ctx context.Context, key string) (string, bool, error) {
	query, args, err := s.q.get(key)
	if err != nil {
		return "", false, err
	}
	var value string
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *SQLite) Set(ctx context.Context, key, value string) error {
	query, args, err := s.q.upsert(key, value)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, query, args...)
	return err
}

func (s *SQLite) RemoveMany(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	query, args, err := s.q.remove(keys)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (s *SQLite) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
