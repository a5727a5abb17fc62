package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/actuallystonmai/boutique-recommendation/internal/hipstershop"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// GRPCSource calls ProductCatalogService/ListProducts over one shared
// client connection; every call is an independent RPC.
type GRPCSource struct {
	addr    string
	timeout time.Duration
	conn    *grpc.ClientConn
	client  *hipstershop.ProductCatalogServiceClient
}

// DialGRPC sets up the connection lazily; it fails only on an invalid
// target or options, never because the catalog is down.
func DialGRPC(addr string, timeout time.Duration, opts ...grpc.DialOption) (*GRPCSource, error) {
	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		hipstershop.DialOption(),
	}, opts...)

	conn, err := grpc.NewClient(addr, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("create catalog client for %s: %w", addr, err)
	}
	return &GRPCSource{
		addr:    addr,
		timeout: timeout,
		conn:    conn,
		client:  hipstershop.NewProductCatalogServiceClient(conn),
	}, nil
}

func (s *GRPCSource) ListProductIDs(ctx context.Context) ([]string, error) {
	callCtx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.ListProducts(callCtx, &hipstershop.Empty{})
	if err != nil {
		return nil, upstreamErr(ctx, BackendGRPC, s.addr, err)
	}
	return resp.ProductIDs(), nil
}

func (s *GRPCSource) Close() error {
	return s.conn.Close()
}
