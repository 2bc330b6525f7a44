package grpcfront_test

import (
	"context"
	"net"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	"github.com/lrudenko/raftkv/internal/raft"
	"github.com/lrudenko/raftkv/internal/raftnode"
	"github.com/lrudenko/raftkv/internal/transport/grpcfront"
	clusterpb "github.com/lrudenko/raftkv/pkg/proto/clusterv1"
)

const bufSize = 1 << 20

type stubHandler struct {
	executeReply    raftnode.Reply
	cfgAddReply     raftnode.Reply
	cfgRemoveReply  raftnode.Reply
	infoState       raft.AdminState
	infoErr         error
	infoText        string
	infoTextErr     error
	lastExecuteArgv [][]byte
}

func (s *stubHandler) Execute(_ context.Context, argv [][]byte) raftnode.Reply {
	s.lastExecuteArgv = argv
	return s.executeReply
}

func (s *stubHandler) CfgChangeAddNode(_ context.Context, _ raft.NodeID, _ string, _ uint32) raftnode.Reply {
	return s.cfgAddReply
}

func (s *stubHandler) CfgChangeRemoveNode(_ context.Context, _ raft.NodeID) raftnode.Reply {
	return s.cfgRemoveReply
}

func (s *stubHandler) Info(_ context.Context) (raft.AdminState, error) {
	return s.infoState, s.infoErr
}

func (s *stubHandler) InfoText(_ context.Context) (string, error) {
	return s.infoText, s.infoTextErr
}

func startServer(t *testing.T, handler grpcfront.Handler) (*grpcfront.Client, func()) {
	t.Helper()

	lis := bufconn.Listen(bufSize)
	srv := grpc.NewServer()
	clusterpb.RegisterClusterServiceServer(srv, grpcfront.NewServer(handler))
	go func() { _ = srv.Serve(lis) }()

	dialOpts := []grpc.DialOption{
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}
	client, err := grpcfront.Dial("passthrough:///bufconn", dialOpts...)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}

	cleanup := func() {
		_ = client.Close()
		srv.GracefulStop()
	}
	return client, cleanup
}

func TestExecute_SuccessRoundTrip(t *testing.T) {
	handler := &stubHandler{executeReply: raftnode.Reply{Data: []byte("OK")}}
	client, cleanup := startServer(t, handler)
	defer cleanup()

	resp, err := client.Execute(context.Background(), [][]byte{[]byte("SET"), []byte("k"), []byte("v")})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if string(resp.Data) != "OK" {
		t.Errorf("expected data OK, got %q", resp.Data)
	}
	if string(handler.lastExecuteArgv[0]) != "SET" {
		t.Errorf("argv not round-tripped: %v", handler.lastExecuteArgv)
	}
}

func TestExecute_Redirect(t *testing.T) {
	handler := &stubHandler{executeReply: raftnode.Reply{Err: raftnode.ErrLeaderRedirect, Redirect: "10.0.0.2:9091"}}
	client, cleanup := startServer(t, handler)
	defer cleanup()

	resp, err := client.Execute(context.Background(), [][]byte{[]byte("GET"), []byte("k")})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if resp.Redirect != "10.0.0.2:9091" {
		t.Errorf("expected redirect addr, got %q", resp.Redirect)
	}
}

func TestExecute_NoLeader(t *testing.T) {
	handler := &stubHandler{executeReply: raftnode.Reply{Err: raftnode.ErrNoLeader, NoLeader: true}}
	client, cleanup := startServer(t, handler)
	defer cleanup()

	resp, err := client.Execute(context.Background(), [][]byte{[]byte("GET"), []byte("k")})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !resp.NoLeader {
		t.Error("expected NoLeader=true")
	}
}

func TestCfgChangeAddNode_Rejected(t *testing.T) {
	handler := &stubHandler{cfgAddReply: raftnode.Reply{Err: raftnode.ErrNoLeader}}
	client, cleanup := startServer(t, handler)
	defer cleanup()

	resp, err := client.CfgChangeAddNode(context.Background(), 2, "10.0.0.2", 9092)
	if err != nil {
		t.Fatalf("CfgChangeAddNode: %v", err)
	}
	if resp.Ok {
		t.Error("expected Ok=false")
	}
	if resp.Error == "" {
		t.Error("expected a non-empty error message")
	}
}

func TestInfo_RoundTrip(t *testing.T) {
	handler := &stubHandler{
		infoState: raft.AdminState{NodeID: 1, Role: raft.Leader, Term: 7, CommitIndex: 3, LastApplied: 3},
		infoText:  "# Nodes\nnode_id:1\n",
	}
	client, cleanup := startServer(t, handler)
	defer cleanup()

	resp, err := client.Info(context.Background())
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if resp.NodeId != 1 {
		t.Errorf("expected NodeId=1, got %d", resp.NodeId)
	}
	if resp.CurrentTerm != 7 {
		t.Errorf("expected CurrentTerm=7, got %d", resp.CurrentTerm)
	}
	if resp.Status != "# Nodes\nnode_id:1\n" {
		t.Errorf("expected status to carry the bulk string verbatim, got %q", resp.Status)
	}
}
