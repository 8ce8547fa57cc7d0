package grpc_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	grpcAdapter "github.com/andrescamacho/outpost-go/internal/adapters/grpc"
)

func startServer(t *testing.T) (*grpcAdapter.HealthServer, healthpb.HealthClient) {
	t.Helper()
	server, err := grpcAdapter.NewHealthServer("127.0.0.1:0", zap.NewNop())
	require.NoError(t, err)
	server.Start()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		server.Shutdown(ctx)
	})

	conn, err := grpc.NewClient(server.Addr(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return server, healthpb.NewHealthClient(conn)
}

func status(client healthpb.HealthClient, service string) healthpb.HealthCheckResponse_ServingStatus {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN
	}
	return resp.GetStatus()
}

func TestHealthServer_ReportsServingStatus(t *testing.T) {
	server, client := startServer(t)

	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, status(client, grpcAdapter.ServiceDaemon))

	server.SetServing(grpcAdapter.ServiceDaemon, true)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, status(client, grpcAdapter.ServiceDaemon))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, status(client, grpcAdapter.ServiceSweeper))
}

func TestHealthServer_ProbeFollowsCheck(t *testing.T) {
	server, client := startServer(t)

	var failing atomic.Bool
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go server.Probe(ctx, grpcAdapter.ServiceStore, 10*time.Millisecond, func(context.Context) error {
		if failing.Load() {
			return errors.New("database unreachable")
		}
		return nil
	})

	require.Eventually(t, func() bool {
		return status(client, grpcAdapter.ServiceStore) == healthpb.HealthCheckResponse_SERVING
	}, time.Second, 10*time.Millisecond)

	failing.Store(true)
	require.Eventually(t, func() bool {
		return status(client, grpcAdapter.ServiceStore) == healthpb.HealthCheckResponse_NOT_SERVING
	}, time.Second, 10*time.Millisecond)
}
