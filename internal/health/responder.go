// Package health reports service liveness over the standard gRPC
// health-checking protocol and the ops HTTP surface.
package health

import (
	"context"
	"sync/atomic"

	"github.com/actuallystonmai/boutique-recommendation/internal/domain"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// Responder answers health queries for every service name alike. It reports
// NOT_SERVING until the host marks it serving and again once draining starts.
type Responder struct {
	serving atomic.Bool
}

func NewResponder() *Responder {
	return &Responder{}
}

func (r *Responder) SetServing() { r.serving.Store(true) }

func (r *Responder) Shutdown() { r.serving.Store(false) }

func (r *Responder) Check(string) domain.HealthStatus {
	if r.serving.Load() {
		return domain.HealthServing
	}
	return domain.HealthNotServing
}

// Watch is not supported; streaming health is always UNIMPLEMENTED.
func (r *Responder) Watch(string) domain.HealthStatus {
	return domain.HealthUnimplemented
}

// GRPCServer adapts a Responder to grpc.health.v1.Health.
type GRPCServer struct {
	healthpb.UnimplementedHealthServer
	responder *Responder
}

func NewGRPCServer(r *Responder) *GRPCServer {
	return &GRPCServer{responder: r}
}

func (s *GRPCServer) Check(_ context.Context, req *healthpb.HealthCheckRequest) (*healthpb.HealthCheckResponse, error) {
	return &healthpb.HealthCheckResponse{Status: toProto(s.responder.Check(req.GetService()))}, nil
}

// Watch answers with the Unimplemented status code, which health clients
// treat as "streaming not offered" rather than as a failed check.
func (s *GRPCServer) Watch(req *healthpb.HealthCheckRequest, _ healthpb.Health_WatchServer) error {
	st := s.responder.Watch(req.GetService())
	return status.Errorf(codes.Unimplemented, "health watch is %s", st)
}

func toProto(st domain.HealthStatus) healthpb.HealthCheckResponse_ServingStatus {
	switch st {
	case domain.HealthServing:
		return healthpb.HealthCheckResponse_SERVING
	case domain.HealthNotServing:
		return healthpb.HealthCheckResponse_NOT_SERVING
	default:
		return healthpb.HealthCheckResponse_UNKNOWN
	}
}
