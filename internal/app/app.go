// Package app wires the raft coordinator, data store, and transports
// together into a runnable node process.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"go.opentelemetry.io/otel"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	"github.com/lrudenko/raftkv/internal/raftnode"
	"github.com/lrudenko/raftkv/internal/transport/grpcfront"
	"github.com/lrudenko/raftkv/internal/transport/grpcpeer"
	clusterpb "github.com/lrudenko/raftkv/pkg/proto/clusterv1"
	raftpb "github.com/lrudenko/raftkv/pkg/proto/raftv1"
)

// Logger is the logging interface required by App.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// App wires a coordinator node into a runnable service. All dependencies
// are injected; App does not create the node itself.
type App struct {
	config Config
	logger Logger
	node   *raftnode.Node
}

// New validates dependencies and constructs a runnable application.
func New(cfg Config, logger Logger, node *raftnode.Node) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		return nil, fmt.Errorf("app: nil logger")
	}
	if node == nil {
		return nil, fmt.Errorf("app: nil node")
	}
	return &App{config: cfg, logger: logger, node: node}, nil
}

// Stop is a no-op placeholder; the node shuts down when Run's context is
// canceled.
func (a *App) Stop() {}

// Run starts the coordinator's replication loop and a shared gRPC server
// registering both the peer and client-facing services, and blocks until
// shutdown or a fatal error.
func (a *App) Run(ctx context.Context) error {
	shutdownTracing, err := a.initTracing(ctx)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(shutdownCtx)
	}()

	lis, err := net.Listen("tcp", a.config.Address)
	if err != nil {
		return fmt.Errorf("listen grpc %s: %w", a.config.Address, err)
	}
	defer func() { _ = lis.Close() }()

	a.logger.Info(
		"node started",
		"node_id", a.config.NodeID,
		"address", a.config.Address,
	)

	return a.serve(ctx, lis)
}

// serve registers gRPC services, starts goroutines, and blocks until ctx is
// canceled or a fatal error occurs.
func (a *App) serve(ctx context.Context, lis net.Listener) error {
	server := grpc.NewServer()
	raftpb.RegisterRaftServiceServer(server, grpcpeer.NewServer(a.node, otel.Tracer("grpcpeer")))
	clusterpb.RegisterClusterServiceServer(server, grpcfront.NewServer(a.node))
	reflection.Register(server)

	metricsSrv, metricsLis, err := a.metricsServer()
	if err != nil {
		return err
	}
	pprofSrv, pprofLis, err := a.pprofServer()
	if err != nil {
		return err
	}

	errCh := make(chan error, 3)

	go func() {
		if err := a.node.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- fmt.Errorf("node run loop: %w", err)
		}
	}()
	go func() {
		if err := server.Serve(lis); err != nil {
			errCh <- fmt.Errorf("grpc serve: %w", err)
		}
	}()
	if metricsSrv != nil {
		go func() {
			if err := metricsSrv.Serve(metricsLis); err != nil && !errors.Is(err, net.ErrClosed) {
				errCh <- fmt.Errorf("metrics serve: %w", err)
			}
		}()
	}
	if pprofSrv != nil {
		go func() {
			if err := pprofSrv.Serve(pprofLis); err != nil && !errors.Is(err, net.ErrClosed) {
				errCh <- fmt.Errorf("pprof serve: %w", err)
			}
		}()
	}

	select {
	case <-ctx.Done():
		server.GracefulStop()
		shutdownHTTPServer(metricsSrv, a.logger, "metrics server")
		shutdownHTTPServer(pprofSrv, a.logger, "pprof server")
		return nil
	case err := <-errCh:
		server.Stop()
		shutdownHTTPServer(metricsSrv, a.logger, "metrics server")
		shutdownHTTPServer(pprofSrv, a.logger, "pprof server")
		return err
	}
}
