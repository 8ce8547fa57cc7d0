package grpc

import (
	"context"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// Service names reported through the health endpoint. The empty name is
// the daemon as a whole.
const (
	ServiceDaemon  = ""
	ServiceStore   = "outpost.store"
	ServiceSweeper = "outpost.sweeper"
)

// HealthServer exposes the standard gRPC health protocol for the daemon.
// The address is host:port, or unix:///path for a domain socket.
type HealthServer struct {
	server   *grpc.Server
	health   *health.Server
	listener net.Listener
	logger   *zap.Logger
}

// NewHealthServer listens on address; every service starts NOT_SERVING
func NewHealthServer(address string, logger *zap.Logger) (*HealthServer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	listener, err := listen(address)
	if err != nil {
		return nil, err
	}

	hs := health.NewServer()
	for _, svc := range []string{ServiceDaemon, ServiceStore, ServiceSweeper} {
		hs.SetServingStatus(svc, healthpb.HealthCheckResponse_NOT_SERVING)
	}

	server := grpc.NewServer()
	healthpb.RegisterHealthServer(server, hs)
	reflection.Register(server)

	return &HealthServer{
		server:   server,
		health:   hs,
		listener: listener,
		logger:   logger,
	}, nil
}

func listen(address string) (net.Listener, error) {
	if path, ok := strings.CutPrefix(address, "unix://"); ok {
		if err := os.RemoveAll(path); err != nil {
			return nil, fmt.Errorf("failed to remove existing socket: %w", err)
		}
		listener, err := net.Listen("unix", path)
		if err != nil {
			return nil, fmt.Errorf("failed to create unix socket listener: %w", err)
		}
		if err := os.Chmod(path, 0o600); err != nil {
			listener.Close()
			return nil, fmt.Errorf("failed to set socket permissions: %w", err)
		}
		return listener, nil
	}

	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", address, err)
	}
	return listener, nil
}

// Addr is the bound address, useful when listening on port 0
func (s *HealthServer) Addr() string {
	return s.listener.Addr().String()
}

// Start serves in the background. Serve errors are logged.
func (s *HealthServer) Start() {
	s.logger.Info("health server listening", zap.String("address", s.Addr()))
	go func() {
		if err := s.server.Serve(s.listener); err != nil && err != grpc.ErrServerStopped {
			s.logger.Error("health server stopped", zap.Error(err))
		}
	}()
}

// SetServing flips one service's reported status
func (s *HealthServer) SetServing(service string, serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(service, status)
}

// Probe runs check every interval until ctx is done and reports the
// outcome as service's status
func (s *HealthServer) Probe(ctx context.Context, service string, interval time.Duration, check func(context.Context) error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	healthy := true
	for {
		err := check(ctx)
		s.SetServing(service, err == nil)
		if err != nil && healthy {
			s.logger.Warn("health probe failing", zap.String("service", service), zap.Error(err))
		} else if err == nil && !healthy {
			s.logger.Info("health probe recovered", zap.String("service", service))
		}
		healthy = err == nil

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Shutdown marks everything NOT_SERVING and stops gracefully, forcing the
// stop once ctx expires
func (s *HealthServer) Shutdown(ctx context.Context) {
	s.health.Shutdown()

	stopped := make(chan struct{})
	go func() {
		s.server.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-ctx.Done():
		s.server.Stop()
	}
}
