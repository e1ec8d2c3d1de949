package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/reflection"

	"github.com/joseph-ayodele/contract-analyzer/internal/common"
)

// RequestIDHeader is copied into the request context when present.
const RequestIDHeader = "x-request-id"

// NewGRPCServer wires the analyzer, health and reflection services.
func NewGRPCServer(svc *AnalyzerService, logger *slog.Logger) (*grpc.Server, *health.Server) {
	if logger == nil {
		logger = slog.Default()
	}
	s := grpc.NewServer(grpc.ChainUnaryInterceptor(requestLogger(logger)))

	hs := health.NewServer()
	healthpb.RegisterHealthServer(s, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)

	reflection.Register(s)
	RegisterAnalyzerServer(s, svc)
	return s, hs
}

func requestLogger(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		rid := common.RequestIDFromContext(ctx)
		if md, ok := metadata.FromIncomingContext(ctx); ok && rid == "" {
			if v := md.Get(RequestIDHeader); len(v) > 0 && v[0] != "" {
				rid = v[0]
				ctx = common.WithRequestID(ctx, rid)
			}
		}
		if rid == "" {
			rid = uuid.NewString()
			ctx = common.WithRequestID(ctx, rid)
		}
		start := time.Now()
		resp, err := handler(ctx, req)
		attrs := []any{"method", info.FullMethod, "req_id", rid, "elapsed_ms", time.Since(start).Milliseconds()}
		if err != nil {
			logger.Warn("grpc.call.failed", append(attrs, "error", err)...)
		} else {
			logger.Info("grpc.call.ok", attrs...)
		}
		return resp, err
	}
}
