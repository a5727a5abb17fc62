package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/actuallystonmai/boutique-recommendation/internal/catalog"
	"github.com/actuallystonmai/boutique-recommendation/internal/config"
	"github.com/actuallystonmai/boutique-recommendation/internal/domain"
	"github.com/actuallystonmai/boutique-recommendation/internal/health"
	"github.com/actuallystonmai/boutique-recommendation/internal/hipstershop"
	"github.com/actuallystonmai/boutique-recommendation/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

type fakeCatalog struct {
	ids     []string
	failing atomic.Bool
	entered chan struct{}
	release chan struct{}
}

func (f *fakeCatalog) ListProductIDs(ctx context.Context) ([]string, error) {
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.failing.Load() {
		return nil, &catalog.UpstreamError{
			Backend: catalog.BackendGRPC,
			Addr:    "catalog:3550",
			Err:     errors.New("connection refused"),
		}
	}
	return slices.Clone(f.ids), nil
}

func testConfig() *config.Config {
	return &config.Config{
		Port:          "0",
		CatalogAddr:   "catalog:3550",
		MaxWorkers:    10,
		ShutdownGrace: 2 * time.Second,
		AdminPort:     config.AdminDisabled,
	}
}

type running struct {
	host   *Host
	health *health.Responder
	cancel context.CancelFunc
	done   chan error
}

func start(t *testing.T, cfg *config.Config, src catalog.Source) *running {
	t.Helper()
	return startWith(t, cfg, Deps{Catalog: src, Log: zerolog.Nop()})
}

func startWith(t *testing.T, cfg *config.Config, deps Deps) *running {
	t.Helper()

	hr := health.NewResponder()
	deps.Health = hr
	host, err := New(cfg, deps)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- host.Run(ctx) }()

	select {
	case <-host.Ready():
	case err := <-done:
		cancel()
		t.Fatalf("host exited before ready: %v", err)
	case <-time.After(5 * time.Second):
		cancel()
		t.Fatal("host never became ready")
	}

	r := &running{host: host, health: hr, cancel: cancel, done: done}
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return r
}

func (r *running) stop(t *testing.T) error {
	t.Helper()
	r.cancel()
	select {
	case err := <-r.done:
		r.done <- err
		return err
	case <-time.After(10 * time.Second):
		t.Fatal("host did not stop")
		return nil
	}
}

func connect(t *testing.T, h *Host) *grpc.ClientConn {
	t.Helper()
	conn, err := grpc.NewClient(h.Addr().String(),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		hipstershop.DialOption(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func listRecommendations(t *testing.T, conn *grpc.ClientConn, exclude ...string) ([]string, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := hipstershop.NewRecommendationServiceClient(conn).ListRecommendations(ctx,
		&hipstershop.ListRecommendationsRequest{UserID: "test", ProductIDs: exclude})
	if err != nil {
		return nil, err
	}
	return resp.ProductIDs, nil
}

func ids(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("P%02d", i)
	}
	return out
}

func TestNewRejectsMissingDependencies(t *testing.T) {
	_, err := New(nil, Deps{Catalog: &fakeCatalog{}})
	assert.Error(t, err)

	_, err = New(testConfig(), Deps{})
	assert.Error(t, err)

	cfg := testConfig()
	cfg.MaxWorkers = 0
	_, err = New(cfg, Deps{Catalog: &fakeCatalog{}})
	assert.Error(t, err)
}

func TestSmallCatalogReturnsEverything(t *testing.T) {
	r := start(t, testConfig(), &fakeCatalog{ids: []string{"A", "B", "C"}})

	got, err := listRecommendations(t, connect(t, r.host))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"A", "B", "C"}, got)
}

func TestExcludedProductsAreRemoved(t *testing.T) {
	catalogIDs := ids(10)
	r := start(t, testConfig(), &fakeCatalog{ids: catalogIDs})

	got, err := listRecommendations(t, connect(t, r.host), catalogIDs[:6]...)
	require.NoError(t, err)
	assert.ElementsMatch(t, catalogIDs[6:], got)
}

func TestLargeCatalogReturnsFive(t *testing.T) {
	catalogIDs := ids(40)
	r := start(t, testConfig(), &fakeCatalog{ids: catalogIDs})

	got, err := listRecommendations(t, connect(t, r.host), "P00")
	require.NoError(t, err)
	require.Len(t, got, domain.MaxResponses)
	for _, id := range got {
		assert.Contains(t, catalogIDs, id)
		assert.NotEqual(t, "P00", id)
	}
}

func TestEmptyCatalogReturnsEmptyList(t *testing.T) {
	r := start(t, testConfig(), &fakeCatalog{})

	got, err := listRecommendations(t, connect(t, r.host))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCatalogFailureIsUnavailableAndRecovers(t *testing.T) {
	src := &fakeCatalog{ids: []string{"A"}}
	src.failing.Store(true)
	r := start(t, testConfig(), src)
	conn := connect(t, r.host)

	_, err := listRecommendations(t, conn)
	assert.Equal(t, codes.Unavailable, status.Code(err))

	src.failing.Store(false)
	got, err := listRecommendations(t, conn)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, got)
}

func TestHealthLifecycle(t *testing.T) {
	r := start(t, testConfig(), &fakeCatalog{})

	client := healthpb.NewHealthClient(connect(t, r.host))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: "hipstershop.RecommendationService"})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())

	require.NoError(t, r.stop(t))
	assert.Equal(t, domain.HealthNotServing, r.health.Check(""))
}

func TestShutdownDrainsInFlightCalls(t *testing.T) {
	src := &fakeCatalog{
		ids:     []string{"A", "B"},
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	r := start(t, testConfig(), src)
	conn := connect(t, r.host)

	type result struct {
		ids []string
		err error
	}
	call := make(chan result, 1)
	go func() {
		got, err := listRecommendations(t, conn)
		call <- result{got, err}
	}()
	<-src.entered

	stopped := make(chan error, 1)
	go func() { stopped <- r.stop(t) }()

	require.Eventually(t, func() bool {
		return r.health.Check("") == domain.HealthNotServing
	}, 2*time.Second, 5*time.Millisecond)

	close(src.release)

	res := <-call
	require.NoError(t, res.err)
	assert.ElementsMatch(t, []string{"A", "B"}, res.ids)
	assert.NoError(t, <-stopped)
}

func TestShutdownForcesStopAfterGrace(t *testing.T) {
	cfg := testConfig()
	cfg.ShutdownGrace = 100 * time.Millisecond
	src := &fakeCatalog{
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	r := start(t, cfg, src)
	conn := connect(t, r.host)

	call := make(chan error, 1)
	go func() {
		_, err := listRecommendations(t, conn)
		call <- err
	}()
	<-src.entered

	began := time.Now()
	assert.NoError(t, r.stop(t))
	assert.Less(t, time.Since(began), 5*time.Second)
	assert.Error(t, <-call)
}

func TestOpsHTTPServer(t *testing.T) {
	cfg := testConfig()
	cfg.AdminPort = "0"
	r := start(t, cfg, &fakeCatalog{ids: []string{"A"}})
	require.NotNil(t, r.host.AdminAddr())

	base := "http://" + r.host.AdminAddr().String()

	resp, err := http.Get(base + "/health")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"SERVING"}`, string(body))

	resp, err = http.Get(base + "/recommendations?product_id=B")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"product_ids":["A"]}`, string(body))
}

func TestRunFailsWhenPortTaken(t *testing.T) {
	first := start(t, testConfig(), &fakeCatalog{})
	_, port, err := net.SplitHostPort(first.host.Addr().String())
	require.NoError(t, err)

	cfg := testConfig()
	cfg.Port = port
	host, err := New(cfg, Deps{Catalog: &fakeCatalog{}, Log: zerolog.Nop()})
	require.NoError(t, err)

	err = host.Run(context.Background())
	assert.ErrorContains(t, err, "listen on")
}

// blockingCatalog records how many fetches run at once and holds each one
// until release is closed or the call's context ends.
type blockingCatalog struct {
	running atomic.Int32
	peak    atomic.Int32
	release chan struct{}
}

func (b *blockingCatalog) ListProductIDs(ctx context.Context) ([]string, error) {
	n := b.running.Add(1)
	defer b.running.Add(-1)
	for {
		p := b.peak.Load()
		if n <= p || b.peak.CompareAndSwap(p, n) {
			break
		}
	}
	select {
	case <-b.release:
		return []string{"A"}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestOpsGatewaySharesWorkerBound(t *testing.T) {
	cfg := testConfig()
	cfg.MaxWorkers = 1
	cfg.AdminPort = "0"
	src := &blockingCatalog{release: make(chan struct{})}
	m := metrics.New()
	r := startWith(t, cfg, Deps{Catalog: src, Metrics: m, Log: zerolog.Nop()})

	url := "http://" + r.host.AdminAddr().String() + "/recommendations"
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := http.Get(url)
			if assert.NoError(t, err) {
				resp.Body.Close()
				assert.Equal(t, http.StatusOK, resp.StatusCode)
			}
		}()
	}

	require.Eventually(t, func() bool {
		return testutil.ToFloat64(m.RPCQueued) == 3
	}, 5*time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(1), src.running.Load())

	close(src.release)
	wg.Wait()
	assert.Equal(t, int32(1), src.peak.Load())
}

func TestOpsGatewayAndGRPCShareWorkerBound(t *testing.T) {
	cfg := testConfig()
	cfg.MaxWorkers = 1
	cfg.AdminPort = "0"
	src := &blockingCatalog{release: make(chan struct{})}
	m := metrics.New()
	r := startWith(t, cfg, Deps{Catalog: src, Metrics: m, Log: zerolog.Nop()})
	conn := connect(t, r.host)

	grpcDone := make(chan error, 1)
	go func() {
		_, err := listRecommendations(t, conn)
		grpcDone <- err
	}()
	require.Eventually(t, func() bool {
		return src.running.Load() == 1
	}, 5*time.Second, 5*time.Millisecond)

	httpDone := make(chan int, 1)
	go func() {
		resp, err := http.Get("http://" + r.host.AdminAddr().String() + "/recommendations")
		if err != nil {
			httpDone <- 0
			return
		}
		resp.Body.Close()
		httpDone <- resp.StatusCode
	}()
	require.Eventually(t, func() bool {
		return testutil.ToFloat64(m.RPCQueued) == 1
	}, 5*time.Second, 5*time.Millisecond)

	close(src.release)
	require.NoError(t, <-grpcDone)
	assert.Equal(t, http.StatusOK, <-httpDone)
	assert.Equal(t, int32(1), src.peak.Load())
}

func TestShutdownGraceCoversBothServers(t *testing.T) {
	cfg := testConfig()
	cfg.AdminPort = "0"
	cfg.ShutdownGrace = 300 * time.Millisecond
	src := &blockingCatalog{release: make(chan struct{})}
	r := startWith(t, cfg, Deps{Catalog: src, Log: zerolog.Nop()})
	conn := connect(t, r.host)

	go func() { _, _ = listRecommendations(t, conn) }()
	go func() {
		client := &http.Client{Timeout: 5 * time.Second}
		if resp, err := client.Get("http://" + r.host.AdminAddr().String() + "/recommendations"); err == nil {
			resp.Body.Close()
		}
	}()
	require.Eventually(t, func() bool {
		return src.running.Load() == 2
	}, 5*time.Second, 5*time.Millisecond)

	began := time.Now()
	require.NoError(t, r.stop(t))
	assert.Less(t, time.Since(began), 2*cfg.ShutdownGrace-50*time.Millisecond)
}
