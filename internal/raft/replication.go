package raft

import (
	"context"
	"time"
)

// replicateToAll sends an AppendEntries (heartbeat or with new entries) to
// every voting or non-voting peer that isn't already waiting on a reply.
func (e *Engine) replicateToAll(ctx context.Context) {
	for peerID, ps := range e.peers {
		if ps.replicateInFlight {
			ps.replicatePending = true
			continue
		}
		req := e.appendEntriesRequestFor(peerID, ps)
		ps.replicateInFlight = true
		e.cb.SendAppendEntries(ctx, peerID, req)
	}
}

func (e *Engine) appendEntriesRequestFor(_ NodeID, ps *peerState) *AppendRequest {
	nextIndex := ps.nextIndex
	if nextIndex < 1 {
		nextIndex = 1
	}

	prevLogIndex := nextIndex - 1
	var prevLogTerm int64
	if prevLogIndex > 0 {
		prevLogTerm = e.entryAt(prevLogIndex).Term
	}

	var entries []Entry
	if nextIndex <= e.lastLogIndex() {
		entries = cloneEntries(e.log[nextIndex-1:])
	}

	return &AppendRequest{
		Term:         e.currentTerm,
		LeaderID:     e.id,
		PrevLogIndex: prevLogIndex,
		PrevLogTerm:  prevLogTerm,
		Entries:      entries,
		LeaderCommit: e.commitIndex,
	}
}

// RecvAppendEntriesResponse processes an AppendEntries reply from peerID for
// the request that was sent (req is needed to tell a heartbeat apart from a
// replication attempt and to recompute matchIndex).
func (e *Engine) RecvAppendEntriesResponse(ctx context.Context, peerID NodeID, req *AppendRequest, resp *AppendResponse) {
	ps, ok := e.peers[peerID]
	if !ok {
		return
	}

	heartbeat := len(req.Entries) == 0
	defer func() {
		ps.replicateInFlight = false
		if ps.replicatePending {
			ps.replicatePending = false
			e.replicateOne(ctx, peerID, ps)
		}
	}()

	if e.degraded || resp == nil {
		return
	}

	if resp.Term > e.currentTerm {
		e.stepDown(resp.Term, "higher_term_append_entries_response")
		return
	}
	if e.role != Leader || req.Term != e.currentTerm {
		return
	}

	if !resp.Success {
		e.metrics.IncAppendEntriesReject(e.nodeIDStr(), peerIDStr(peerID), heartbeat)
		prevNext := ps.nextIndex
		switch {
		case resp.ConflictTerm > 0:
			if idx := e.lastIndexOfTerm(resp.ConflictTerm); idx > 0 {
				ps.nextIndex = idx + 1
			} else if resp.ConflictIndex > 0 {
				ps.nextIndex = resp.ConflictIndex
			} else if ps.nextIndex > 1 {
				ps.nextIndex--
			}
		case resp.ConflictIndex > 0:
			ps.nextIndex = resp.ConflictIndex
		case ps.nextIndex > 1:
			ps.nextIndex--
		default:
			ps.nextIndex = 1
		}
		if ps.nextIndex < 1 {
			ps.nextIndex = 1
		}
		if ps.nextIndex >= prevNext && prevNext > 1 {
			ps.nextIndex = prevNext - 1
		}
		e.logger.Debug("AppendEntries rejected, backing off nextIndex",
			"node_id", e.id, "peer", peerID, "prev_next_index", prevNext, "new_next_index", ps.nextIndex,
		)
		return
	}

	matchIndex := req.PrevLogIndex + int64(len(req.Entries))
	if matchIndex > ps.matchIndex {
		ps.matchIndex = matchIndex
	}
	if next := matchIndex + 1; next > ps.nextIndex {
		ps.nextIndex = next
	}

	if !ps.voting {
		if err := e.cb.NodeHasSufficientLogs(peerID); err != nil {
			e.logger.Warn("NodeHasSufficientLogs callback failed", "node_id", e.id, "peer", peerID, "error", err)
		}
	}

	e.advanceCommitIndex()
}

func (e *Engine) replicateOne(ctx context.Context, peerID NodeID, ps *peerState) {
	req := e.appendEntriesRequestFor(peerID, ps)
	ps.replicateInFlight = true
	e.cb.SendAppendEntries(ctx, peerID, req)
}

// advanceCommitIndex applies the Raft commit rule: a leader may only commit
// by counting replicas for entries from its own current term.
func (e *Engine) advanceCommitIndex() {
	majority := e.quorumSize()
	lastIndex := e.lastLogIndex()

	for candidate := lastIndex; candidate > e.commitIndex; candidate-- {
		if e.entryAt(candidate).Term != e.currentTerm {
			continue
		}

		votes := 1 // leader itself
		for peerID, ps := range e.peers {
			if !ps.voting {
				continue
			}
			if ps.matchIndex >= candidate {
				votes++
			}
			_ = peerID
		}

		if votes >= majority {
			prevCommit := e.commitIndex
			e.commitIndex = candidate
			e.logger.Debug("commit index advanced", "node_id", e.id, "new_commit_index", candidate, "term", e.currentTerm)
			e.metrics.SetApplyLag(e.nodeIDStr(), e.commitIndex-e.lastApplied)
			now := time.Now()
			for idx := prevCommit + 1; idx <= candidate; idx++ {
				if start, ok := e.commitStartedAt[idx]; ok {
					e.metrics.ObserveStartToCommitDuration(e.nodeIDStr(), now.Sub(start))
				}
			}
			return
		}
	}
}

func peerIDStr(id NodeID) string {
	return nodeIDString(id)
}
