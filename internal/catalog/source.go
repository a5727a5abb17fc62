// Package catalog fetches the product catalog the recommendation engine
// samples from. The default Source calls the upstream ProductCatalogService
// over gRPC; Postgres and Redis backends serve local setups.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/actuallystonmai/boutique-recommendation/internal/domain"
)

// Source returns every product id in the catalog. Implementations are safe
// for concurrent use and never cache.
type Source interface {
	ListProductIDs(ctx context.Context) ([]string, error)
}

const (
	BackendGRPC     = "grpc"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Backend reports which Source an address selects.
func Backend(addr string) string {
	switch {
	case strings.HasPrefix(addr, "postgres://"), strings.HasPrefix(addr, "postgresql://"):
		return BackendPostgres
	case strings.HasPrefix(addr, "redis://"), strings.HasPrefix(addr, "rediss://"):
		return BackendRedis
	default:
		return BackendGRPC
	}
}

// UpstreamError reports a catalog fetch that failed on the upstream side.
// It matches domain.ErrUpstreamUnavailable with errors.Is.
type UpstreamError struct {
	Backend string
	Addr    string
	Err     error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s catalog %s: %v", e.Backend, e.Addr, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func (e *UpstreamError) Is(target error) bool {
	return target == domain.ErrUpstreamUnavailable
}

func IsUpstreamUnavailable(err error) bool {
	return errors.Is(err, domain.ErrUpstreamUnavailable)
}

// upstreamErr classifies err: if the caller gave up, its context error is
// returned as is, otherwise err is an upstream failure.
func upstreamErr(ctx context.Context, backend, addr string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return &UpstreamError{Backend: backend, Addr: addr, Err: err}
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}

// Redact hides credentials in URL-style addresses before they are logged.
func Redact(addr string) string {
	if Backend(addr) == BackendGRPC {
		return addr
	}
	u, err := url.Parse(addr)
	if err != nil {
		return "<unparseable address>"
	}
	return u.Redacted()
}
