package grpcserver

import (
	"context"
	"path"
	"runtime/debug"
	"time"

	"github.com/actuallystonmai/boutique-recommendation/internal/metrics"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const healthService = "grpc.health.v1.Health"

// Recovery turns a handler panic into an Internal error for that call only.
func Recovery(log zerolog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Str("method", info.FullMethod).
					Interface("panic", r).
					Bytes("stack", debug.Stack()).
					Msg("recovered from panic in rpc handler")
				err = status.Errorf(codes.Internal, "internal error")
			}
		}()
		return handler(ctx, req)
	}
}

// Logging attaches log to the request context and logs each call's outcome.
// Health checks are logged at debug level.
func Logging(log zerolog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(log.WithContext(ctx), req)

		code := status.Code(err)
		var ev *zerolog.Event
		switch {
		case code == codes.OK && isHealth(info.FullMethod):
			ev = log.Debug()
		case code == codes.OK:
			ev = log.Info()
		case code == codes.Internal:
			ev = log.Error().Err(err)
		default:
			ev = log.Warn().Err(err)
		}
		ev.Str("method", info.FullMethod).
			Str("code", code.String()).
			Dur("duration", time.Since(start)).
			Msg("rpc finished")
		return resp, err
	}
}

// Metrics records call counts and latency per method.
func Metrics(m *metrics.Metrics) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		method := path.Base(info.FullMethod)
		m.RPCRequests.WithLabelValues(method, status.Code(err).String()).Inc()
		m.RPCDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
		return resp, err
	}
}

func isHealth(fullMethod string) bool {
	return path.Dir(fullMethod) == "/"+healthService
}
