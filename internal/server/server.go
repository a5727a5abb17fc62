// Package server hosts the recommendation service: it binds the gRPC
// listener, wires the handlers and the ops HTTP surface, bounds concurrency
// and drains calls on shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/actuallystonmai/boutique-recommendation/internal/catalog"
	"github.com/actuallystonmai/boutique-recommendation/internal/config"
	"github.com/actuallystonmai/boutique-recommendation/internal/grpcserver"
	"github.com/actuallystonmai/boutique-recommendation/internal/handler"
	"github.com/actuallystonmai/boutique-recommendation/internal/health"
	"github.com/actuallystonmai/boutique-recommendation/internal/hipstershop"
	"github.com/actuallystonmai/boutique-recommendation/internal/metrics"
	"github.com/actuallystonmai/boutique-recommendation/internal/recommend"
	"github.com/actuallystonmai/boutique-recommendation/internal/router"
	"github.com/actuallystonmai/boutique-recommendation/internal/service"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"
)

// Deps are constructed by the caller during startup and injected here.
// Engine, Health and Metrics are created when nil.
type Deps struct {
	Catalog catalog.Source
	Engine  *recommend.Engine
	Health  *health.Responder
	Metrics *metrics.Metrics
	Log     zerolog.Logger
}

type Host struct {
	cfg     *config.Config
	log     zerolog.Logger
	health  *health.Responder
	grpc    *grpc.Server
	admin   *http.Server
	ready   chan struct{}
	addr    net.Addr
	adminAt net.Addr
}

func New(cfg *config.Config, deps Deps) (*Host, error) {
	if cfg == nil {
		return nil, errors.New("server: nil config")
	}
	if deps.Catalog == nil {
		return nil, errors.New("server: nil catalog source")
	}
	if cfg.MaxWorkers < 1 {
		return nil, fmt.Errorf("server: worker pool size must be at least 1, got %d", cfg.MaxWorkers)
	}
	if deps.Engine == nil {
		deps.Engine = recommend.NewEngine()
	}
	if deps.Health == nil {
		deps.Health = health.NewResponder()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}

	svc := service.NewService(deps.Catalog, deps.Engine, deps.Metrics, deps.Log)
	pool := NewWorkerPool(cfg.MaxWorkers, deps.Metrics)

	gs := grpc.NewServer(
		hipstershop.ServerOption(),
		grpc.ChainUnaryInterceptor(
			grpcserver.Recovery(deps.Log),
			grpcserver.Logging(deps.Log),
			grpcserver.Metrics(deps.Metrics),
			pool.UnaryInterceptor(),
		),
		grpc.KeepaliveParams(keepalive.ServerParameters{
			MaxConnectionIdle: 5 * time.Minute,
		}),
	)
	hipstershop.RegisterRecommendationServiceServer(gs, grpcserver.NewRecommendationServer(svc))
	healthpb.RegisterHealthServer(gs, health.NewGRPCServer(deps.Health))

	h := &Host{
		cfg:    cfg,
		log:    deps.Log,
		health: deps.Health,
		grpc:   gs,
		ready:  make(chan struct{}),
	}
	if cfg.AdminAddr() != "" {
		h.admin = &http.Server{
			Handler:           router.Setup(handler.NewHandler(svc, deps.Health), deps.Metrics.Handler(), pool.Middleware, deps.Log),
			ReadHeaderTimeout: 5 * time.Second,
		}
	}
	return h, nil
}

// Ready is closed once the listeners are bound and health reports SERVING.
func (h *Host) Ready() <-chan struct{} { return h.ready }

// Addr is the bound gRPC address; valid after Ready.
func (h *Host) Addr() net.Addr { return h.addr }

// AdminAddr is the bound ops HTTP address, nil when disabled; valid after Ready.
func (h *Host) AdminAddr() net.Addr { return h.adminAt }

// Run serves until ctx is cancelled or a server fails, then drains in-flight
// calls for at most SHUTDOWN_GRACE before forcing connections closed.
func (h *Host) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", h.cfg.Addr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", h.cfg.Addr(), err)
	}

	var adminLis net.Listener
	if h.admin != nil {
		adminLis, err = net.Listen("tcp", h.cfg.AdminAddr())
		if err != nil {
			lis.Close()
			return fmt.Errorf("listen on %s: %w", h.cfg.AdminAddr(), err)
		}
		h.adminAt = adminLis.Addr()
	}

	h.addr = lis.Addr()
	h.health.SetServing()
	close(h.ready)
	h.log.Info().Str("addr", h.addr.String()).Int("max_workers", h.cfg.MaxWorkers).Msg("listening on port")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := h.grpc.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("serve grpc: %w", err)
		}
		return nil
	})
	if h.admin != nil {
		h.log.Info().Str("addr", h.adminAt.String()).Msg("ops http listening")
		g.Go(func() error {
			if err := h.admin.Serve(adminLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve ops http: %w", err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		h.shutdown()
		return nil
	})

	return g.Wait()
}

// shutdown drains both servers in parallel under a single SHUTDOWN_GRACE
// deadline, then closes whatever is still open.
func (h *Host) shutdown() {
	h.health.Shutdown()
	h.log.Info().Dur("grace", h.cfg.ShutdownGrace).Msg("shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), h.cfg.ShutdownGrace)
	defer cancel()

	var wg sync.WaitGroup
	if h.admin != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := h.admin.Shutdown(ctx); err != nil {
				h.log.Warn().Err(err).Msg("ops http shutdown")
				h.admin.Close()
			}
		}()
	}

	stopped := make(chan struct{})
	go func() {
		h.grpc.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-ctx.Done():
		h.log.Warn().Msg("grace period expired, closing remaining connections")
		h.grpc.Stop()
		<-stopped
	}
	wg.Wait()
}
