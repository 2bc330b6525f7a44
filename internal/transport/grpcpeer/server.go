package grpcpeer

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/lrudenko/raftkv/internal/raft"
	raftpb "github.com/lrudenko/raftkv/pkg/proto/raftv1"
)

// Handler is the subset of *raftnode.Node required by the peer gRPC server.
type Handler interface {
	HandleRequestVote(ctx context.Context, req *raft.VoteRequest) (*raft.VoteResponse, error)
	HandleAppendEntries(ctx context.Context, req *raft.AppendRequest) (*raft.AppendResponse, error)
}

// Server implements raftpb.RaftServiceServer by delegating RPCs to a
// coordinator.
type Server struct {
	raftpb.UnimplementedRaftServiceServer
	handler Handler
	tracer  oteltrace.Tracer
}

// NewServer creates a peer gRPC server adapter for the provided handler.
func NewServer(handler Handler, tracer oteltrace.Tracer) *Server {
	return &Server{handler: handler, tracer: tracer}
}

// RequestVote handles an inbound RequestVote RPC.
func (s *Server) RequestVote(ctx context.Context, pbReq *raftpb.RequestVoteRequest) (*raftpb.RequestVoteResponse, error) {
	ctx, span := s.tracer.Start(ctx, "grpcpeer.server.RequestVote", oteltrace.WithAttributes(serverRequestVoteAttrs(pbReq)...))
	defer span.End()

	resp, err := s.handler.HandleRequestVote(ctx, voteRequestFromPB(pbReq))
	if err != nil {
		recordSpanError(span, err)
		return nil, toGRPCStatus(err)
	}
	span.SetAttributes(
		attribute.Int64("raft.response_term", resp.Term),
		attribute.Bool("raft.vote_granted", resp.VoteGranted),
	)
	return voteResponseToPB(resp), nil
}

// AppendEntries handles an inbound AppendEntries RPC.
func (s *Server) AppendEntries(ctx context.Context, pbReq *raftpb.AppendEntriesRequest) (*raftpb.AppendEntriesResponse, error) {
	ctx, span := s.tracer.Start(ctx, "grpcpeer.server.AppendEntries", oteltrace.WithAttributes(serverAppendEntriesAttrs(pbReq)...))
	defer span.End()

	resp, err := s.handler.HandleAppendEntries(ctx, appendRequestFromPB(pbReq))
	if err != nil {
		recordSpanError(span, err)
		return nil, toGRPCStatus(err)
	}
	span.SetAttributes(
		attribute.Int64("raft.response_term", resp.Term),
		attribute.Bool("raft.append.success", resp.Success),
		attribute.Int64("raft.conflict_term", resp.ConflictTerm),
		attribute.Int64("raft.conflict_index", resp.ConflictIndex),
	)
	return appendResponseToPB(resp), nil
}

func toGRPCStatus(err error) error {
	if err == context.Canceled || err == context.DeadlineExceeded {
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}
