package storage

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"stencil/internal/adapters/store/localfs"
	"stencil/internal/adapters/store/postgres"
	"stencil/internal/adapters/store/redisstore"
)

// NewStore builds the template store selected by STORE_BACKEND. Postgres is
// the default and the production backend; redis and localfs cover setups
// where a relational database is not available.
func NewStore(ctx context.Context) (Store, error) {
	backend := os.Getenv("STORE_BACKEND")
	if backend == "" {
		backend = "postgres"
	}

	switch backend {
	case "postgres":
		dsn := mustEnv("DATABASE_URL")
		pool, err := pgxpool.New(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ping postgres: %w", err)
		}
		return postgres.New(pool), nil

	case "redis":
		addr := mustEnv("REDIS_ADDR")
		rdb := redis.NewClient(&redis.Options{Addr: addr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		return redisstore.New(rdb), nil

	case "localfs":
		root := mustEnv("STORE_LOCAL_ROOT")
		return localfs.New(root), nil

	default:
		return nil, fmt.Errorf("unknown store backend: %s", backend)
	}
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("missing env: " + k)
	}
	return v
}
