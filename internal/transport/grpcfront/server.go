// Package grpcfront is the client-facing gRPC transport: Execute for command
// submission, CfgChangeAddNode/CfgChangeRemoveNode for membership changes,
// and Info for cluster status.
package grpcfront

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/lrudenko/raftkv/internal/raft"
	"github.com/lrudenko/raftkv/internal/raftnode"
	clusterpb "github.com/lrudenko/raftkv/pkg/proto/clusterv1"
)

// Handler is the subset of *raftnode.Node required by the client-facing
// gRPC server.
type Handler interface {
	Execute(ctx context.Context, argv [][]byte) raftnode.Reply
	CfgChangeAddNode(ctx context.Context, id raft.NodeID, host string, port uint32) raftnode.Reply
	CfgChangeRemoveNode(ctx context.Context, id raft.NodeID) raftnode.Reply
	Info(ctx context.Context) (raft.AdminState, error)
	InfoText(ctx context.Context) (string, error)
}

// Server implements clusterpb.ClusterServiceServer by delegating to a
// coordinator.
type Server struct {
	clusterpb.UnimplementedClusterServiceServer
	handler Handler
}

// NewServer creates a client-facing gRPC server adapter for the provided
// handler.
func NewServer(handler Handler) *Server {
	return &Server{handler: handler}
}

// Execute handles a command submission RPC.
func (s *Server) Execute(ctx context.Context, req *clusterpb.ExecuteRequest) (*clusterpb.ExecuteResponse, error) {
	reply := s.handler.Execute(ctx, req.Argv)
	return replyToPB(reply), nil
}

// CfgChangeAddNode handles a request to add a non-voting member.
func (s *Server) CfgChangeAddNode(ctx context.Context, req *clusterpb.CfgChangeAddNodeRequest) (*clusterpb.CfgChangeResponse, error) {
	reply := s.handler.CfgChangeAddNode(ctx, raft.NodeID(req.Id), req.Host, req.Port)
	return cfgChangeReplyToPB(reply), nil
}

// CfgChangeRemoveNode handles a request to remove a member.
func (s *Server) CfgChangeRemoveNode(ctx context.Context, req *clusterpb.CfgChangeRemoveNodeRequest) (*clusterpb.CfgChangeResponse, error) {
	reply := s.handler.CfgChangeRemoveNode(ctx, raft.NodeID(req.Id))
	return cfgChangeReplyToPB(reply), nil
}

// Info handles a cluster status request.
func (s *Server) Info(ctx context.Context, _ *clusterpb.InfoRequest) (*clusterpb.InfoResponse, error) {
	state, err := s.handler.Info(ctx)
	if err != nil {
		return nil, toGRPCStatus(err)
	}
	text, err := s.handler.InfoText(ctx)
	if err != nil {
		return nil, toGRPCStatus(err)
	}
	return infoStateToPB(state, text), nil
}

func replyToPB(reply raftnode.Reply) *clusterpb.ExecuteResponse {
	switch {
	case reply.Err == nil:
		return &clusterpb.ExecuteResponse{Data: reply.Data}
	case errors.Is(reply.Err, raftnode.ErrNoLeader):
		return &clusterpb.ExecuteResponse{NoLeader: true}
	case errors.Is(reply.Err, raftnode.ErrLeaderRedirect):
		return &clusterpb.ExecuteResponse{Redirect: reply.Redirect}
	default:
		return &clusterpb.ExecuteResponse{Error: reply.Err.Error()}
	}
}

func cfgChangeReplyToPB(reply raftnode.Reply) *clusterpb.CfgChangeResponse {
	if reply.Err != nil {
		return &clusterpb.CfgChangeResponse{Error: reply.Err.Error()}
	}
	return &clusterpb.CfgChangeResponse{Ok: true}
}

func toGRPCStatus(err error) error {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, raftnode.ErrShutdown):
		return status.Error(codes.Unavailable, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
