// Package main runs a single raftkv cluster node.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	apppkg "github.com/lrudenko/raftkv/internal/app"
	"github.com/lrudenko/raftkv/internal/observability/metrics"
	"github.com/lrudenko/raftkv/internal/raft"
	"github.com/lrudenko/raftkv/internal/raftnode"
	"github.com/lrudenko/raftkv/internal/transport/grpcfront"
	"github.com/lrudenko/raftkv/internal/transport/grpcpeer"
)

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "node: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := apppkg.LoadConfigFromEnv()
	if err != nil {
		return err
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	promMetrics, err := metrics.NewPrometheus(nil)
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}

	nodeID := raft.NodeID(cfg.NodeID)
	tracer := otel.Tracer("grpcpeer")
	dialOpts := grpc.WithTransportCredentials(insecure.NewCredentials())

	nodeCfg := raftnode.Config{
		ID:       nodeID,
		SelfAddr: cfg.Address,
		LogPath:  cfg.LogPath,
		Dial:     grpcpeer.DialFunc(nodeID, tracer, dialOpts),
		Logger:   logger,
		Metrics:  promMetrics,
	}

	var node *raftnode.Node
	switch {
	case cfg.Init:
		node, err = raftnode.NewInit(nodeCfg)
	case cfg.Join != "":
		node, err = raftnode.NewJoin(nodeCfg)
	default:
		node, err = raftnode.Restore(nodeCfg)
	}
	if err != nil {
		return fmt.Errorf("construct node: %w", err)
	}

	app, err := apppkg.New(cfg, logger, node)
	if err != nil {
		return fmt.Errorf("construct app: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cfg.Join != "" {
		go requestJoin(ctx, logger, cfg, dialOpts)
	}

	return app.Run(ctx)
}

// requestJoin asks an existing cluster member named by cfg.Join to add this
// node, retrying until it succeeds or ctx is canceled. It runs concurrently
// with the node's own gRPC listener coming up, since the remote leader may
// try to dial this node back before replying.
func requestJoin(ctx context.Context, logger *slog.Logger, cfg apppkg.Config, dialOpts grpc.DialOption) {
	host, port, err := splitHostPort(cfg.Address)
	if err != nil {
		logger.Error("join: invalid own address", "address", cfg.Address, "error", err)
		return
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		if tryJoin(ctx, logger, cfg, dialOpts, host, port) {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func tryJoin(ctx context.Context, logger *slog.Logger, cfg apppkg.Config, dialOpts grpc.DialOption, host string, port uint32) bool {
	client, err := grpcfront.Dial(cfg.Join, dialOpts)
	if err != nil {
		logger.Warn("join dial failed, retrying", "join_addr", cfg.Join, "error", err)
		return false
	}
	defer func() { _ = client.Close() }()

	reqCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	resp, err := client.CfgChangeAddNode(reqCtx, cfg.NodeID, host, port)
	if err != nil {
		logger.Warn("join request failed, retrying", "join_addr", cfg.Join, "error", err)
		return false
	}
	if !resp.Ok {
		logger.Warn("join rejected, retrying", "join_addr", cfg.Join, "error", resp.Error)
		return false
	}
	logger.Info("join accepted", "join_addr", cfg.Join)
	return true
}

func splitHostPort(addr string) (string, uint32, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, err
	}
	var port uint32
	if _, err := fmt.Sscanf(portStr, "%d", &port); err != nil {
		return "", 0, fmt.Errorf("invalid port %q: %w", portStr, err)
	}
	return host, port, nil
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: l}))
}
