package raftnode

import (
	"context"

	"github.com/lrudenko/raftkv/internal/raft"
)

// Execute submits argv as a command to the cluster and blocks until it
// commits and applies or ctx is canceled. A non-leader node answers immediately, without blocking, with
// either a redirect to the known leader or ErrNoLeader.
func (n *Node) Execute(ctx context.Context, argv [][]byte) Reply {
	req := &Req{Kind: ReqCommand, Argv: argv, reply: newReplyChan()}
	return n.submit(ctx, req)
}

// CfgChangeAddNode proposes adding id/host:port as a non-voting member; the
// engine promotes it to a full voting member automatically once its log
// catches up (NodeHasSufficientLogs).
func (n *Node) CfgChangeAddNode(ctx context.Context, id raft.NodeID, host string, port uint32) Reply {
	req := &Req{
		Kind:      ReqCfgChangeAddNode,
		CfgChange: CfgChange{ID: uint32(id), Host: host, Port: port},
		reply:     newReplyChan(),
	}
	return n.submit(ctx, req)
}

// CfgChangeRemoveNode proposes removing id from the cluster.
func (n *Node) CfgChangeRemoveNode(ctx context.Context, id raft.NodeID) Reply {
	req := &Req{
		Kind:      ReqCfgChangeRemoveNode,
		CfgChange: CfgChange{ID: uint32(id)},
		reply:     newReplyChan(),
	}
	return n.submit(ctx, req)
}

// Info returns a snapshot of engine state, routed through the request queue
// like every other operation (I3).
func (n *Node) Info(ctx context.Context) (raft.AdminState, error) {
	req := &Req{Kind: ReqInfo, reply: newReplyChan()}
	reply := n.submit(ctx, req)
	if reply.Err != nil {
		return raft.AdminState{}, reply.Err
	}
	return req.AdminState, nil
}

// HandleRequestVote is called by the peer-facing transport server for an
// inbound RequestVote RPC.
func (n *Node) HandleRequestVote(ctx context.Context, vreq *raft.VoteRequest) (*raft.VoteResponse, error) {
	req := &Req{Kind: ReqVote, VoteReq: vreq, reply: newReplyChan()}
	reply := n.submit(ctx, req)
	if reply.Err != nil {
		return nil, reply.Err
	}
	return req.VoteResp, nil
}

// HandleAppendEntries is called by the peer-facing transport server for an
// inbound AppendEntries RPC.
func (n *Node) HandleAppendEntries(ctx context.Context, areq *raft.AppendRequest) (*raft.AppendResponse, error) {
	req := &Req{Kind: ReqAppendEntries, AppendReq: areq, reply: newReplyChan()}
	reply := n.submit(ctx, req)
	if reply.Err != nil {
		return nil, reply.Err
	}
	return req.AppendResp, nil
}

// submit enqueues req and waits for either its reply or ctx to be canceled.
func (n *Node) submit(ctx context.Context, req *Req) Reply {
	if n.terminal() {
		return Reply{Err: ErrShutdown}
	}
	n.queue.Enqueue(req)
	select {
	case reply := <-req.reply:
		return reply
	case <-ctx.Done():
		return Reply{Err: ctx.Err()}
	}
}
