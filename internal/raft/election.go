package raft

import "context"

// Periodic drives the engine clock by elapsedMs milliseconds. It must be
// called by the owner on a fixed tick (500ms, per the replication thread's
// periodic timer) and is where election timeouts and leader heartbeats are
// noticed and acted on. It never blocks.
func (e *Engine) Periodic(ctx context.Context, elapsedMs int64) {
	if e.degraded {
		return
	}

	switch e.role {
	case Follower, Candidate:
		e.electionElapsedMs += elapsedMs
		if e.electionElapsedMs >= e.electionTimeoutMs {
			e.startElection(ctx)
		}
	case Leader:
		e.heartbeatElapsedMs += elapsedMs
		if e.heartbeatElapsedMs >= e.heartbeatPeriodMs {
			e.heartbeatElapsedMs = 0
			e.replicateToAll(ctx)
		}
	}
}

func (e *Engine) startElection(ctx context.Context) {
	if e.joining {
		return
	}
	e.currentTerm++
	e.votedFor = e.id
	e.role = Candidate
	if err := e.cb.PersistTerm(e.currentTerm); err != nil {
		e.markDegraded(err)
		return
	}
	if err := e.cb.PersistVote(e.currentTerm, e.votedFor); err != nil {
		e.markDegraded(err)
		return
	}
	e.resetElectionTimeoutLocked()
	e.votesGranted = map[NodeID]bool{e.id: true}
	e.metrics.IncElectionStarted(e.nodeIDStr())

	e.logger.Debug("starting election",
		"node_id", e.id,
		"term", e.currentTerm,
		"last_log_index", e.lastLogIndex(),
		"last_log_term", e.lastLogTerm(),
		"peers", len(e.peers),
	)

	if e.quorumSize() <= 1 {
		e.becomeLeader()
		return
	}

	req := &VoteRequest{
		Term:         e.currentTerm,
		CandidateID:  e.id,
		LastLogIndex: e.lastLogIndex(),
		LastLogTerm:  e.lastLogTerm(),
	}
	for peerID, ps := range e.peers {
		if !ps.voting {
			continue
		}
		e.cb.SendRequestVote(ctx, peerID, req)
	}
}

// RecvVoteResponse processes a RequestVote reply from a peer. It must be
// invoked from the owner's single goroutine, once per reply the host's
// transport layer actually receives.
func (e *Engine) RecvVoteResponse(from NodeID, resp *VoteResponse) {
	if e.degraded || resp == nil {
		return
	}

	if resp.Term > e.currentTerm {
		e.stepDown(resp.Term, "higher_term_vote_response")
		return
	}
	if e.role != Candidate || resp.Term != e.currentTerm {
		return
	}

	if !resp.VoteGranted {
		e.logger.Debug("vote denied", "node_id", e.id, "term", e.currentTerm, "peer", from)
		return
	}

	e.votesGranted[from] = true
	e.logger.Debug("vote granted",
		"node_id", e.id,
		"term", e.currentTerm,
		"votes", len(e.votesGranted),
		"quorum", e.quorumSize(),
	)

	if len(e.votesGranted) >= e.quorumSize() {
		e.becomeLeader()
	}
}

func (e *Engine) becomeLeader() {
	e.role = Leader
	e.heartbeatElapsedMs = e.heartbeatPeriodMs // send an immediate heartbeat
	e.metrics.IncElectionWon(e.nodeIDStr())
	e.metrics.SetIsLeader(e.nodeIDStr(), true)

	last := e.lastLogIndex()
	for _, ps := range e.peers {
		ps.nextIndex = last + 1
		ps.matchIndex = 0
		ps.replicateInFlight = false
		ps.replicatePending = false
	}

	e.logger.Debug("won election, becoming leader",
		"node_id", e.id,
		"term", e.currentTerm,
		"votes", len(e.votesGranted),
	)
}

// Bootstrap makes a freshly constructed single-node engine leader of its
// own cluster and synchronously commits a self ADD_NODE entry, the `init`
// startup path (spec: "becomes leader, and submits an ADD_NODE for
// itself"). It mirrors RedisRaftInit's raft_become_leader() followed by a
// synchronous raft_recv_entry() for the self entry, rather than waiting on
// the reactive election-timeout path Periodic drives for every other
// leadership change. Callers must invoke it at most once, immediately
// after New, before Periodic is ever driven.
func (e *Engine) Bootstrap(selfData []byte) (index int64, ok bool) {
	e.currentTerm = 1
	e.votedFor = e.id
	if err := e.cb.PersistTerm(e.currentTerm); err != nil {
		e.markDegraded(err)
		return 0, false
	}
	if err := e.cb.PersistVote(e.currentTerm, e.votedFor); err != nil {
		e.markDegraded(err)
		return 0, false
	}
	e.becomeLeader()
	return e.propose(EntryAddNode, selfData, nil)
}

func (e *Engine) stepDown(term int64, reason string) {
	wasLeader := e.role == Leader
	e.currentTerm = term
	e.votedFor = 0
	e.role = Follower
	e.resetElectionTimeoutLocked()
	if err := e.cb.PersistTerm(term); err != nil {
		e.markDegraded(err)
		return
	}
	if err := e.cb.PersistVote(term, 0); err != nil {
		e.markDegraded(err)
		return
	}
	if wasLeader {
		e.metrics.SetIsLeader(e.nodeIDStr(), false)
		e.metrics.IncElectionLost(e.nodeIDStr(), reason)
	}
	e.logger.Debug("stepping down", "node_id", e.id, "new_term", term, "reason", reason)
}
