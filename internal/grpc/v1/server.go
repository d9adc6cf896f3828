package v1

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/Totarae/FaleProxy/internal/handlers"
	"github.com/Totarae/FaleProxy/internal/service"
)

// GRPCServer отдаёт тот же конвейер загрузки и замены, что и POST /fetch.
type GRPCServer struct {
	Service handlers.Processor
	Logger  *zap.Logger
}

func NewGRPCServer(svc handlers.Processor, logger *zap.Logger) *GRPCServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GRPCServer{Service: svc, Logger: logger}
}

func (s *GRPCServer) Fetch(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	rawURL := req.GetValue()
	if strings.TrimSpace(rawURL) == "" {
		return nil, status.Error(codes.InvalidArgument, service.ErrURLRequired.Error())
	}

	res, err := s.Service.Process(ctx, rawURL)
	if err != nil {
		if service.IsValidation(err) {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		return nil, status.Error(codes.Internal, handlers.FetchErrorPrefix+err.Error())
	}

	out, err := structpb.NewStruct(map[string]any{
		"success":     true,
		"content":     res.Content,
		"title":       res.Title,
		"originalUrl": rawURL,
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

// NewServer создаёт grpc.Server с сервисом прокси и стандартным health-сервисом.
func NewServer(srv *GRPCServer) *grpc.Server {
	gs := grpc.NewServer(grpc.UnaryInterceptor(loggingInterceptor(srv.Logger)))
	gs.RegisterService(&ServiceDesc, srv)

	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(gs, hs)
	return gs
}

func loggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.Info("gRPC Request",
			zap.String("method", info.FullMethod),
			zap.String("code", status.Code(err).String()),
			zap.Duration("duration", time.Since(start)),
		)
		return resp, err
	}
}
