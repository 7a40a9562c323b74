package grpc

import (
	"context"
	"fmt"
	"time"

	"github.com/example/shopstore/pkg/discovery"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Discoverer resolves service instances by name.
type Discoverer interface {
	Discover(ctx context.Context, serviceName string) ([]*discovery.ServiceInstance, error)
}

type HealthClient struct {
	conn   *grpc.ClientConn
	client healthpb.HealthClient
	target string
}

// ResolveTarget returns the first registered instance of service, or fallback
// when discovery is unavailable or finds nothing.
func ResolveTarget(ctx context.Context, disc Discoverer, service, fallback string, logger *zap.Logger) string {
	if disc == nil {
		return fallback
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	instances, err := disc.Discover(ctx, service)
	if err == nil && len(instances) > 0 {
		target := instances[0].Addr()
		logger.Info("Discovered service", zap.String("service", service), zap.String("address", target))
		return target
	}

	logger.Info("Using default address", zap.String("service", service), zap.String("address", fallback), zap.Error(err))
	return fallback
}

func NewHealthClient(target string) (*HealthClient, error) {
	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", target, err)
	}
	return &HealthClient{
		conn:   conn,
		client: healthpb.NewHealthClient(conn),
		target: target,
	}, nil
}

func (c *HealthClient) Check(ctx context.Context, service string) (*healthpb.HealthCheckResponse, error) {
	resp, err := c.client.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		return nil, fmt.Errorf("health check against %s failed: %w", c.target, err)
	}
	return resp, nil
}

func (c *HealthClient) Close() error {
	return c.conn.Close()
}
