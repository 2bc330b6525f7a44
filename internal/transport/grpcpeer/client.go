package grpcpeer

import (
	"context"

	oteltrace "go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"

	"github.com/lrudenko/raftkv/internal/raft"
	"github.com/lrudenko/raftkv/internal/raftnode"
	raftpb "github.com/lrudenko/raftkv/pkg/proto/raftv1"
)

// DialFunc returns a raftnode.Config.Dial closure that dials peers over
// gRPC, tagging every outbound RPC with this node's own ID.
func DialFunc(srcNodeID raft.NodeID, tracer oteltrace.Tracer, opts ...grpc.DialOption) func(addr string) (raftnode.PeerTransport, error) {
	return func(addr string) (raftnode.PeerTransport, error) {
		return Dial(addr, srcNodeID, tracer, opts...)
	}
}

// Client implements raftnode.PeerTransport over a gRPC connection to one
// remote peer.
type Client struct {
	target    string
	srcNodeID uint32
	conn      *grpc.ClientConn
	client    raftpb.RaftServiceClient
	tracer    oteltrace.Tracer
}

// Dial connects to a remote peer and returns a Client. The connection is
// established lazily by the gRPC runtime on the first RPC call.
func Dial(target string, srcNodeID raft.NodeID, tracer oteltrace.Tracer, opts ...grpc.DialOption) (*Client, error) {
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{
		target:    target,
		srcNodeID: uint32(srcNodeID),
		conn:      conn,
		client:    raftpb.NewRaftServiceClient(conn),
		tracer:    tracer,
	}, nil
}

// RequestVote calls the remote peer's RequestVote RPC.
func (c *Client) RequestVote(ctx context.Context, req *raft.VoteRequest) (*raft.VoteResponse, error) {
	ctx, span := c.tracer.Start(ctx, "grpcpeer.client.RequestVote", oteltrace.WithAttributes(clientRequestVoteAttrs(c.target, req)...))
	defer span.End()

	pbResp, err := c.client.RequestVote(ctx, voteRequestToPB(req, c.srcNodeID))
	if err != nil {
		recordSpanError(span, err)
		return nil, err
	}
	return voteResponseFromPB(pbResp), nil
}

// AppendEntries calls the remote peer's AppendEntries RPC.
func (c *Client) AppendEntries(ctx context.Context, req *raft.AppendRequest) (*raft.AppendResponse, error) {
	ctx, span := c.tracer.Start(ctx, "grpcpeer.client.AppendEntries", oteltrace.WithAttributes(clientAppendEntriesAttrs(c.target, req)...))
	defer span.End()

	pbResp, err := c.client.AppendEntries(ctx, appendRequestToPB(req, c.srcNodeID))
	if err != nil {
		recordSpanError(span, err)
		return nil, err
	}
	return appendResponseFromPB(pbResp), nil
}

// Close closes the underlying gRPC connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
