package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// Querier is satisfied by *pgxpool.Pool.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresSource reads the catalog from the products table.
type PostgresSource struct {
	db      Querier
	addr    string
	timeout time.Duration
}

func NewPostgresSource(db Querier, addr string, timeout time.Duration) *PostgresSource {
	return &PostgresSource{db: db, addr: Redact(addr), timeout: timeout}
}

func (s *PostgresSource) ListProductIDs(ctx context.Context) ([]string, error) {
	queryCtx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	rows, err := s.db.Query(queryCtx, `SELECT id FROM products ORDER BY id`)
	if err != nil {
		return nil, upstreamErr(ctx, BackendPostgres, s.addr, fmt.Errorf("query products: %w", err))
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, upstreamErr(ctx, BackendPostgres, s.addr, fmt.Errorf("scan product id: %w", err))
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, upstreamErr(ctx, BackendPostgres, s.addr, fmt.Errorf("iterate products: %w", err))
	}
	return ids, nil
}
