package raft

// applyMembership mutates the in-memory member/peer set for a cfg-change
// entry at log-offer time (I6): the change takes hold whether or not the
// entry ever commits. A node's own removal is the one exception — the
// coordinator only acts on it once ApplyLog reports it back as committed.
func (e *Engine) applyMembership(_ int64, entry Entry) {
	target := e.cb.LogGetNodeID(entry)

	switch entry.Type {
	case EntryAddNonvotingNode:
		if target == e.id {
			e.joining = false
			return
		}
		if _, ok := e.peers[target]; !ok {
			e.peers[target] = &peerState{voting: false, nextIndex: e.lastLogIndex() + 1}
		}
	case EntryAddNode:
		if target == e.id {
			e.members[e.id] = true
			e.joining = false
			return
		}
		e.members[target] = true
		if ps, ok := e.peers[target]; ok {
			ps.voting = true
		} else {
			e.peers[target] = &peerState{voting: true, nextIndex: e.lastLogIndex() + 1}
		}
	case EntryRemoveNode:
		if target == e.id {
			// Self-removal takes effect only once this entry is applied
			// (committed); see Callbacks.ApplyLog / ErrSelfRemoved.
			return
		}
		delete(e.members, target)
		delete(e.peers, target)
	}
}
