package raftnode

import (
	"context"

	"github.com/lrudenko/raftkv/internal/raft"
)

// dispatch runs one drained request against the engine, from the
// replication goroutine. A ReqCommand that blocks a waiting client does not
// reply here on success — it is PENDING_COMMIT and completes later, from
// ApplyLog, once its entry commits (I4). ReqCfgChange* requests reply here,
// right after the engine accepts or rejects the proposal, whatever the
// outcome.
func (n *Node) dispatch(ctx context.Context, req *Req) {
	switch req.Kind {
	case ReqVote:
		n.handleVote(req)
	case ReqAppendEntries:
		n.handleAppendEntries(ctx, req)
	case ReqCommand:
		n.handleCommand(ctx, req)
	case ReqCfgChangeAddNode:
		n.handleCfgChangeAdd(req)
	case ReqCfgChangeRemoveNode:
		n.handleCfgChangeRemove(req)
	case ReqInfo:
		n.handleInfo(req)
	case ReqPeerReply:
		n.handlePeerReply(ctx, req)
	}
}

// handleVote answers an inbound RequestVote RPC synchronously: the response
// is stashed on req.VoteResp for the transport adapter that enqueued req to
// read back once req.reply fires.
func (n *Node) handleVote(req *Req) {
	resp, err := n.engine.RecvRequestVote(req.VoteReq)
	req.VoteResp = resp
	n.signal(req, Reply{Err: err})
}

// handleAppendEntries answers an inbound AppendEntries RPC synchronously,
// then runs any newly committed entries through ApplyLog.
func (n *Node) handleAppendEntries(_ context.Context, req *Req) {
	if req.AppendReq != nil && req.AppendReq.LeaderID != 0 {
		n.mu.Lock()
		n.knownLeader = req.AppendReq.LeaderID
		n.mu.Unlock()
	}
	resp, err := n.engine.RecvAppendEntries(req.AppendReq)
	req.AppendResp = resp
	if err == nil {
		if aerr := n.engine.ApplyAll(); aerr != nil {
			n.handleApplyTerminal(aerr)
		}
	}
	n.signal(req, Reply{Err: err})
}

// signal completes req's reply channel, if it has one. Safe to call at most
// meaningfully once per request; later calls are harmless no-ops since the
// channel is buffered by one.
func (n *Node) signal(req *Req, reply Reply) {
	if req.reply == nil {
		return
	}
	select {
	case req.reply <- reply:
	default:
	}
}

// handleCommand proposes argv as a new log entry. A non-leader request is
// answered immediately with a redirect; otherwise the caller's reply channel
// is left pending and completed later by ApplyLog.
func (n *Node) handleCommand(_ context.Context, req *Req) {
	if !n.engine.IsLeader() {
		n.rejectNotLeader(req)
		return
	}

	data := EncodeCommand(req.Argv)
	_, ok := n.engine.ProposeCommand(data, req)
	if !ok {
		n.rejectNotLeader(req)
		return
	}
	if err := n.engine.ApplyAll(); err != nil {
		n.handleApplyTerminal(err)
	}
}

func (n *Node) handleCfgChangeAdd(req *Req) {
	n.proposeCfgChange(req, raft.EntryAddNonvotingNode)
}

func (n *Node) handleCfgChangeRemove(req *Req) {
	n.proposeCfgChange(req, raft.EntryRemoveNode)
}

// proposeCfgChange submits a membership-change entry and replies to req
// immediately, OK on acceptance or ERROR otherwise — a config-change
// request never waits for its entry to commit.
func (n *Node) proposeCfgChange(req *Req, typ raft.EntryType) {
	if !n.engine.IsLeader() {
		n.rejectNotLeader(req)
		return
	}
	data := EncodeCfgChange(req.CfgChange)
	_, ok := n.engine.ProposeConfigChange(typ, data, nil)
	if !ok {
		n.rejectNotLeader(req)
		return
	}
	n.signal(req, Reply{Data: []byte("OK")})
	if err := n.engine.ApplyAll(); err != nil {
		n.handleApplyTerminal(err)
	}
}

// rejectNotLeader answers a blocked request immediately: either a known
// leader redirect or a flat "no leader known" error.
func (n *Node) rejectNotLeader(req *Req) {
	if req.reply == nil {
		return
	}
	n.mu.RLock()
	leader := n.knownLeader
	addr, haveAddr := n.addrs[leader]
	n.mu.RUnlock()

	reply := Reply{Err: ErrNoLeader, NoLeader: true}
	if leader != 0 && haveAddr {
		reply = Reply{Err: ErrLeaderRedirect, Redirect: addr}
	}
	n.signal(req, reply)
}

func (n *Node) handleInfo(req *Req) {
	req.AdminState = n.engine.AdminState()
	n.signal(req, Reply{})
}

// handlePeerReply routes an async peer RPC result back into the engine.
func (n *Node) handlePeerReply(ctx context.Context, req *Req) {
	switch {
	case req.VoteResp != nil:
		n.engine.RecvVoteResponse(req.PeerID, req.VoteResp)
	case req.AppendResp != nil && req.AppendReqEcho != nil:
		n.engine.RecvAppendEntriesResponse(ctx, req.PeerID, req.AppendReqEcho, req.AppendResp)
		if err := n.engine.ApplyAll(); err != nil {
			n.handleApplyTerminal(err)
		}
	}
}

// handleApplyTerminal reacts to ApplyAll reporting this node was removed
// from the cluster: it records err so Run stops the replication loop and
// later submissions get ErrShutdown. Requests still waiting on a reply are
// not answered; each waits until its own context ends.
func (n *Node) handleApplyTerminal(err error) {
	n.logger.Warn("replication loop stopping", "node_id", n.id, "reason", err)
	n.mu.Lock()
	n.shutdownErr = err
	n.mu.Unlock()
}
