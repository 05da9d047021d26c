package kv

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hgl-backend/internal/database"
	"hgl-backend/internal/database/migrations"
)

// Postgres stores the keys in a kv_store table.
type Postgres struct {
	pool *pgxpool.Pool
	q    kvQueries
}

// NewPostgres applies the kv schema and wraps pool. The pool is owned by the
// returned store and closed with it.
func NewPostgres(ctx context.Context, pool *pgxpool.Pool) (*Postgres, error) {
	migrator := database.NewMigratorWithFS(database.PgxExecutor(pool), migrations.FS, migrations.PostgresDir)
	if err := migrator.RunMigrations(ctx); err != nil {
		return nil, err
	}
	return &Postgres{pool: pool, q: newKVQueries(sq.Dollar)}, nil
}

func (p *Postgres) Get(ctx context.Context, key string) (string, bool, error) {
	query, args, err := p.q.get(key)
	if err != nil {
		return "", false, err
	}
	var value string
	err = p.pool.QueryRow(ctx, query, args...).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (p *Postgres) Set(ctx context.Context, key, value string) error {
	query, args, err := p.q.upsert(key, value)
	if err != nil {
		return err
	}
	_, err = p.pool.Exec(ctx, query, args...)
	return err
}

func (p *Postgres) RemoveMany(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	query, args, err := p.q.remove(keys)
	if err != nil {
		return err
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
