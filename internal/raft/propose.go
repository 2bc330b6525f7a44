package raft

import "time"

// ProposeCommand appends a new EntryNormal carrying data to the leader's
// log. userData is stashed on the in-memory entry only (never persisted or
// sent) so Callbacks.ApplyLog can hand a reply back to the originating
// waiter once the entry commits.
func (e *Engine) ProposeCommand(data []byte, userData any) (index int64, isLeader bool) {
	return e.propose(EntryNormal, data, userData)
}

// ProposeConfigChange appends a membership-change entry. data is the
// host-encoded payload (including the target node id) that
// Callbacks.LogGetNodeID will later decode.
func (e *Engine) ProposeConfigChange(typ EntryType, data []byte, userData any) (index int64, isLeader bool) {
	if typ == EntryNormal {
		return 0, false
	}
	return e.propose(typ, data, userData)
}

func (e *Engine) propose(typ EntryType, data []byte, userData any) (int64, bool) {
	if e.degraded || e.role != Leader {
		return 0, false
	}

	entry := Entry{
		Term:     e.currentTerm,
		Type:     typ,
		Data:     append([]byte(nil), data...),
		UserData: userData,
	}
	index := e.lastLogIndex() + 1

	if err := e.cb.LogOffer(index, entry); err != nil {
		e.markDegraded(err)
		return 0, false
	}
	e.log = append(e.log, entry)
	if typ != EntryNormal {
		e.applyMembership(index, entry)
	}

	e.commitStartedAt[index] = time.Now()

	e.logger.Debug("command appended to leader log", "node_id", e.id, "index", index, "term", e.currentTerm)

	e.advanceCommitIndex()
	return index, true
}
