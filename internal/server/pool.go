package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/actuallystonmai/boutique-recommendation/internal/metrics"
	"golang.org/x/sync/semaphore"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// WorkerPool bounds the number of recommendation calls running at once,
// across the gRPC listener and the ops HTTP gateway. Calls beyond the bound
// wait for a slot; a waiting call whose context ends gives up with its
// context error. Health checks bypass the pool so probes keep answering
// under load.
type WorkerPool struct {
	sem     *semaphore.Weighted
	metrics *metrics.Metrics
}

func NewWorkerPool(size int, m *metrics.Metrics) *WorkerPool {
	return &WorkerPool{
		sem:     semaphore.NewWeighted(int64(size)),
		metrics: m,
	}
}

// Do runs fn once a slot is free. If ctx ends first, fn is not run and the
// context error is returned.
func (p *WorkerPool) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	p.metrics.RPCQueued.Inc()
	err := p.sem.Acquire(ctx, 1)
	p.metrics.RPCQueued.Dec()
	if err != nil {
		return err
	}
	defer p.sem.Release(1)

	p.metrics.RPCInFlight.Inc()
	defer p.metrics.RPCInFlight.Dec()

	return fn(ctx)
}

func (p *WorkerPool) UnaryInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if strings.HasPrefix(info.FullMethod, "/grpc.health.v1.Health/") {
			return handler(ctx, req)
		}

		var resp any
		var handlerErr error
		err := p.Do(ctx, func(ctx context.Context) error {
			resp, handlerErr = handler(ctx, req)
			return nil
		})
		if err != nil {
			return nil, status.FromContextError(err).Err()
		}
		return resp, handlerErr
	}
}

// Middleware holds each HTTP request until a slot is free.
func (p *WorkerPool) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := p.Do(r.Context(), func(ctx context.Context) error {
			next.ServeHTTP(w, r.WithContext(ctx))
			return nil
		})
		if err != nil {
			http.Error(w, "gave up waiting for a worker: "+err.Error(), http.StatusServiceUnavailable)
		}
	})
}
