package db

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"hgl-backend/internal/config"
	"hgl-backend/internal/kv"
)

// OpenStore builds the persistence substrate selected by storage.driver.
func OpenStore(ctx context.Context, cfg *config.Config) (kv.Store, error) {
	switch cfg.Storage.Driver {
	case "memory":
		log.Println("[Storage] WARNING: memory driver selected, records are lost on restart")
		return kv.NewMemory(), nil

	case "", "sqlite":
		if dir := filepath.Dir(cfg.Storage.SQLitePath); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create data dir: %w", err)
			}
		}
		return kv.OpenSQLite(ctx, cfg.Storage.SQLitePath)

	case "postgres":
		pool, err := Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		store, err := kv.NewPostgres(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		log.Printf("[Storage] PostgreSQL store ready at %s:%d/%s", cfg.Database.Host, cfg.Database.Port, cfg.Database.Name)
		return store, nil

	case "redis":
		store, err := kv.NewRedis(ctx, kv.RedisOptions{
			Addr:     cfg.Storage.Redis.Addr,
			Password: cfg.Storage.Redis.Password,
			DB:       cfg.Storage.Redis.DB,
			Prefix:   cfg.Storage.Redis.Prefix,
		})
		if err != nil {
			return nil, fmt.Errorf("redis connect failed: %w", err)
		}
		log.Printf("[Storage] Redis store ready at %s", cfg.Storage.Redis.Addr)
		return store, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}
