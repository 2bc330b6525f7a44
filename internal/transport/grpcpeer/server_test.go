package grpcpeer_test

import (
	"context"
	"net"
	"testing"

	"go.opentelemetry.io/otel/trace/noop"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	"github.com/lrudenko/raftkv/internal/raft"
	"github.com/lrudenko/raftkv/internal/transport/grpcpeer"
	raftpb "github.com/lrudenko/raftkv/pkg/proto/raftv1"
)

const bufSize = 1 << 20

// startServer spins up an in-process gRPC server backed by handler.
func startServer(t *testing.T, handler grpcpeer.Handler) (*grpcpeer.Client, func()) {
	t.Helper()

	tracer := noop.NewTracerProvider().Tracer("test")
	lis := bufconn.Listen(bufSize)
	srv := grpc.NewServer()
	raftpb.RegisterRaftServiceServer(srv, grpcpeer.NewServer(handler, tracer))
	go func() { _ = srv.Serve(lis) }()

	dialOpts := []grpc.DialOption{
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}
	client, err := grpcpeer.Dial("passthrough:///bufconn", 1, tracer, dialOpts...)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}

	cleanup := func() {
		_ = client.Close()
		srv.GracefulStop()
	}
	return client, cleanup
}

type stubHandler struct {
	voteResp   *raft.VoteResponse
	voteErr    error
	appendResp *raft.AppendResponse
	appendErr  error

	lastVoteReq   *raft.VoteRequest
	lastAppendReq *raft.AppendRequest
}

func (s *stubHandler) HandleRequestVote(_ context.Context, req *raft.VoteRequest) (*raft.VoteResponse, error) {
	s.lastVoteReq = req
	return s.voteResp, s.voteErr
}

func (s *stubHandler) HandleAppendEntries(_ context.Context, req *raft.AppendRequest) (*raft.AppendResponse, error) {
	s.lastAppendReq = req
	return s.appendResp, s.appendErr
}

func TestRequestVote_GrantedRoundTrip(t *testing.T) {
	handler := &stubHandler{voteResp: &raft.VoteResponse{Term: 3, VoteGranted: true}}
	client, cleanup := startServer(t, handler)
	defer cleanup()

	req := &raft.VoteRequest{Term: 3, CandidateID: 1, LastLogIndex: 5, LastLogTerm: 2}
	resp, err := client.RequestVote(context.Background(), req)
	if err != nil {
		t.Fatalf("RequestVote: %v", err)
	}
	if !resp.VoteGranted {
		t.Error("expected VoteGranted=true")
	}
	if resp.Term != 3 {
		t.Errorf("expected Term=3, got %d", resp.Term)
	}
	if handler.lastVoteReq.CandidateID != 1 {
		t.Errorf("expected CandidateID=1, got %d", handler.lastVoteReq.CandidateID)
	}
}

func TestAppendEntries_RoundTrip(t *testing.T) {
	handler := &stubHandler{appendResp: &raft.AppendResponse{Term: 4, Success: true}}
	client, cleanup := startServer(t, handler)
	defer cleanup()

	req := &raft.AppendRequest{
		Term:         4,
		LeaderID:     1,
		PrevLogIndex: 2,
		PrevLogTerm:  3,
		Entries:      []raft.Entry{{Term: 4, Type: raft.EntryNormal, Data: []byte("x")}},
		LeaderCommit: 2,
	}
	resp, err := client.AppendEntries(context.Background(), req)
	if err != nil {
		t.Fatalf("AppendEntries: %v", err)
	}
	if !resp.Success {
		t.Error("expected Success=true")
	}
	if len(handler.lastAppendReq.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(handler.lastAppendReq.Entries))
	}
	if string(handler.lastAppendReq.Entries[0].Data) != "x" {
		t.Errorf("entry data not round-tripped: %q", handler.lastAppendReq.Entries[0].Data)
	}
}

func TestAppendEntries_HandlerError(t *testing.T) {
	handler := &stubHandler{appendErr: context.DeadlineExceeded}
	client, cleanup := startServer(t, handler)
	defer cleanup()

	_, err := client.AppendEntries(context.Background(), &raft.AppendRequest{Term: 1, LeaderID: 1})
	if err == nil {
		t.Fatal("expected an error")
	}
}
