package raftnode

import (
	"context"

	"github.com/lrudenko/raftkv/internal/raft"
	"github.com/lrudenko/raftkv/internal/raftlog"
)

// Node implements raft.Callbacks against its own wal, peer-link set, and
// data store. Every method here is only ever called by the engine from the
// replication goroutine (the engine's own contract), so none of it needs a
// lock except the peers/addrs maps, whose addrs InfoText also reads from
// front-end goroutines.

// SendRequestVote delivers req to node via its peer link, if known.
func (n *Node) SendRequestVote(ctx context.Context, node raft.NodeID, req *raft.VoteRequest) {
	link := n.peerLink(node)
	if link == nil {
		n.logger.Warn("SendRequestVote for unknown peer", "node_id", n.id, "peer", node)
		return
	}
	link.sendRequestVote(ctx, req)
}

// SendAppendEntries delivers req to node via its peer link, if known.
func (n *Node) SendAppendEntries(ctx context.Context, node raft.NodeID, req *raft.AppendRequest) {
	link := n.peerLink(node)
	if link == nil {
		n.logger.Warn("SendAppendEntries for unknown peer", "node_id", n.id, "peer", node)
		return
	}
	link.sendAppendEntries(ctx, req)
}

// PersistVote durably records the vote just cast.
func (n *Node) PersistVote(term int64, votedFor raft.NodeID) error {
	h := n.wal.Header()
	h.CurrentTerm = term
	h.VotedFor = uint32(votedFor)
	return n.wal.Update(h)
}

// PersistTerm durably records a term change.
func (n *Node) PersistTerm(term int64) error {
	h := n.wal.Header()
	h.CurrentTerm = term
	return n.wal.Update(h)
}

// LogOffer persists a newly offered entry and, for a membership entry,
// creates or tears down the corresponding peer link immediately (I6).
func (n *Node) LogOffer(_ int64, entry raft.Entry) error {
	if err := n.wal.Append(raftlog.StoredEntry{
		Term: entry.Term,
		Type: uint8(entry.Type),
		Data: entry.Data,
	}); err != nil {
		return err
	}

	if entry.Type == raft.EntryNormal {
		return nil
	}

	cfg, err := DecodeCfgChange(entry.Data)
	if err != nil {
		return err
	}
	target := raft.NodeID(cfg.ID)
	if target == n.id {
		return nil
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	switch entry.Type {
	case raft.EntryAddNonvotingNode, raft.EntryAddNode:
		addr := joinHostPort(cfg.Host, cfg.Port)
		n.addrs[target] = addr
		if _, ok := n.peers[target]; !ok {
			n.peers[target] = newPeerLink(target, addr, n.dial, n.queue, n.logger)
		}
	case raft.EntryRemoveNode:
		if link, ok := n.peers[target]; ok {
			_ = link.close()
			delete(n.peers, target)
		}
		delete(n.addrs, target)
	}
	return nil
}

// LogPop truncates the on-disk log to drop entries from index onward.
func (n *Node) LogPop(index int64) error {
	return n.wal.Truncate(index - 1)
}

// ApplyLog advances the durably recorded commit index and executes or
// finalizes the entry at index, delivering a reply to whatever request
// originated it, if any is still waiting.
func (n *Node) ApplyLog(index int64, entry raft.Entry) error {
	h := n.wal.Header()
	if index > h.CommitIndex {
		h.CommitIndex = index
		if err := n.wal.Update(h); err != nil {
			n.logger.Error("failed to persist commit index", "node_id", n.id, "index", index, "error", err)
		}
	}

	if entry.Type != raft.EntryNormal {
		target := raft.NodeID(0)
		if cfg, err := DecodeCfgChange(entry.Data); err == nil {
			target = raft.NodeID(cfg.ID)
		}
		if entry.Type == raft.EntryRemoveNode && target == n.id {
			return raft.ErrSelfRemoved
		}
		return nil
	}

	argv, err := DecodeCommand(entry.Data)
	if err != nil {
		deliverCommandReply(entry, nil, err)
		return err
	}

	data, err := n.store.Apply(context.Background(), argv)
	deliverCommandReply(entry, data, err)
	return nil
}

// LogGetNodeID decodes the target node id from a membership-change entry.
func (n *Node) LogGetNodeID(entry raft.Entry) raft.NodeID {
	cfg, err := DecodeCfgChange(entry.Data)
	if err != nil {
		return 0
	}
	return raft.NodeID(cfg.ID)
}

// NodeHasSufficientLogs proposes promoting a caught-up non-voting node to a
// full voting member.
func (n *Node) NodeHasSufficientLogs(node raft.NodeID) error {
	addr, ok := n.addrFor(node)
	if !ok {
		return ErrUnknownPeer
	}
	host, port, err := splitHostPort(addr)
	if err != nil {
		return err
	}
	data := EncodeCfgChange(CfgChange{ID: uint32(node), Host: host, Port: port})
	n.engine.ProposeConfigChange(raft.EntryAddNode, data, nil)
	return nil
}

// Log forwards engine-internal trace messages to this node's logger.
func (n *Node) Log(msg string, keyvals ...any) {
	n.logger.Debug(msg, keyvals...)
}

// deliverCommandReply hands the outcome of an applied EntryNormal command to
// its originating request, if entry.UserData still references one.
func deliverCommandReply(entry raft.Entry, data []byte, err error) {
	req, ok := entry.UserData.(*Req)
	if !ok || req == nil || req.reply == nil {
		return
	}
	select {
	case req.reply <- Reply{Data: data, Err: err}:
	default:
	}
}

// peerLink looks up the link for a known peer id.
func (n *Node) peerLink(id raft.NodeID) *peerLink {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.peers[id]
}
