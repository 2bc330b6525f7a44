package raftnode

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/lrudenko/raftkv/internal/raft"
)

func argv(parts ...string) [][]byte {
	out := make([][]byte, len(parts))
	for i, p := range parts {
		out[i] = []byte(p)
	}
	return out
}

// noDial is a Dial func for single-node-cluster tests, where no peer link is
// ever actually used.
func noDial(string) (PeerTransport, error) { return nil, nil }

func TestNode_SingleNodeCluster_ElectsLeaderAndExecutesCommands(t *testing.T) {
	cfg := Config{
		ID:       1,
		SelfAddr: "127.0.0.1:9001",
		LogPath:  filepath.Join(t.TempDir(), "node1.json"),
		Dial:     noDial,
	}
	n, err := NewInit(cfg)
	if err != nil {
		t.Fatalf("NewInit: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 6*time.Second)
	defer cancel()

	runDone := make(chan error, 1)
	go func() { runDone <- n.Run(ctx) }()

	waitForLeader(t, ctx, n)

	reply := n.Execute(ctx, argv("SET", "x", "1"))
	if reply.Err != nil {
		t.Fatalf("Execute(SET): %v", reply.Err)
	}
	if string(reply.Data) != "OK" {
		t.Fatalf("expected OK, got %q", reply.Data)
	}

	reply = n.Execute(ctx, argv("GET", "x"))
	if reply.Err != nil {
		t.Fatalf("Execute(GET): %v", reply.Err)
	}
	if string(reply.Data) != "1" {
		t.Fatalf("expected 1, got %q", reply.Data)
	}

	cancel()
	<-runDone
}

func TestNode_SingleNodeCluster_InfoReportsLeaderState(t *testing.T) {
	cfg := Config{
		ID:       1,
		SelfAddr: "127.0.0.1:9002",
		LogPath:  filepath.Join(t.TempDir(), "node1.json"),
		Dial:     noDial,
	}
	n, err := NewInit(cfg)
	if err != nil {
		t.Fatalf("NewInit: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 6*time.Second)
	defer cancel()
	go func() { _ = n.Run(ctx) }()

	info := waitForLeader(t, ctx, n)
	if info.NodeID != 1 {
		t.Fatalf("expected NodeID=1, got %d", info.NodeID)
	}
	if info.LeaderID != 1 {
		t.Fatalf("expected LeaderID=1, got %d", info.LeaderID)
	}
}

func waitForLeader(t *testing.T, ctx context.Context, n *Node) raft.AdminState {
	t.Helper()
	for {
		select {
		case <-ctx.Done():
			t.Fatalf("node never became leader before the test deadline")
		default:
		}
		info, err := n.Info(ctx)
		if err == nil && info.Role == raft.Leader {
			return info
		}
		time.Sleep(50 * time.Millisecond)
	}
}
