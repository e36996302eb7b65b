package health

import (
	"context"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// Server exposes the standard gRPC health service so that orchestrators can
// probe the storefront without going through the HTTP API.
type Server struct {
	log    *slog.Logger
	gs     *grpc.Server
	health *health.Server
}

func NewServer(log *slog.Logger) *Server {
	gs := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(gs, hs)
	reflection.Register(gs)
	return &Server{log: log, gs: gs, health: hs}
}

// SetServing flips the status reported for service ("" is the whole process).
func (s *Server) SetServing(service string, serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(service, status)
}

func (s *Server) Serve(lis net.Listener) error {
	return s.gs.Serve(lis)
}

// Run listens on addr until ctx is done.
func (s *Server) Run(ctx context.Context, addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	go func() {
		<-ctx.Done()
		s.health.Shutdown()
		s.gs.GracefulStop()
	}()
	s.log.Info("grpc health listening", "addr", addr)
	return s.gs.Serve(lis)
}
