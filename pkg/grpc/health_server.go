package grpc

import (
	"context"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

const pingTimeout = 2 * time.Second

// Pinger is the dependency whose reachability decides the serving status.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthServer exposes grpc.health.v1 for the store. The overall status and
// the named service both follow the database.
type HealthServer struct {
	name   string
	db     Pinger
	health *health.Server
	srv    *grpc.Server
	logger *zap.Logger
}

func NewHealthServer(name string, db Pinger, logger *zap.Logger) *HealthServer {
	hs := health.NewServer()
	srv := grpc.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	reflection.Register(srv)

	return &HealthServer{
		name:   name,
		db:     db,
		health: hs,
		srv:    srv,
		logger: logger,
	}
}

// Check pings the database and publishes the resulting status.
func (s *HealthServer) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := s.db.Ping(ctx); err != nil {
		s.logger.Warn("Database ping failed", zap.Error(err))
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(s.name, status)
	return status
}

// Watch re-checks the database every interval until ctx is cancelled.
func (s *HealthServer) Watch(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Check(ctx)
		}
	}
}

func (s *HealthServer) Start(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	return s.Serve(lis)
}

func (s *HealthServer) Serve(lis net.Listener) error {
	s.Check(context.Background())
	s.logger.Info("gRPC health service started", zap.String("address", lis.Addr().String()))
	return s.srv.Serve(lis)
}

func (s *HealthServer) Stop() {
	s.health.Shutdown()
	s.srv.GracefulStop()
}
