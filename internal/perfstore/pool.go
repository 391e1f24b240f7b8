// Package perfstore holds the relational backend for the deterministic
// performance-table lookup: breed/sex/age production targets
// (feed conversion ratio, body weight, mortality, egg production) that the
// router consults before falling back to vector search.
package perfstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// OpenPool creates a Postgres connection pool, failing fast with a Ping so
// misconfiguration surfaces at startup rather than on the first query.
func OpenPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse perfstore dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("open perfstore pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping perfstore: %w", err)
	}

	return pool, nil
}
