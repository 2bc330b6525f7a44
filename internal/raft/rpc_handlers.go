package raft

// RecvRequestVote handles an inbound RequestVote RPC from a candidate.
func (e *Engine) RecvRequestVote(req *VoteRequest) (*VoteResponse, error) {
	if e.degraded {
		return nil, ErrNodeDegraded
	}

	e.logger.Debug("received RequestVote",
		"node_id", e.id,
		"from", req.CandidateID,
		"candidate_term", req.Term,
		"current_term", e.currentTerm,
	)

	resp := &VoteResponse{Term: e.currentTerm}

	if req.Term < e.currentTerm {
		e.logger.Debug("rejected vote: stale term", "node_id", e.id, "from", req.CandidateID)
		return resp, nil
	}

	if req.Term > e.currentTerm {
		e.currentTerm = req.Term
		e.votedFor = 0
		e.role = Follower
		if err := e.cb.PersistTerm(req.Term); err != nil {
			e.markDegraded(err)
			return nil, err
		}
		if err := e.cb.PersistVote(req.Term, 0); err != nil {
			e.markDegraded(err)
			return nil, err
		}
	}
	resp.Term = e.currentTerm

	lastTerm := e.lastLogTerm()
	lastIndex := e.lastLogIndex()
	upToDate := req.LastLogTerm > lastTerm ||
		(req.LastLogTerm == lastTerm && req.LastLogIndex >= lastIndex)

	if (e.votedFor == 0 || e.votedFor == req.CandidateID) && upToDate {
		e.votedFor = req.CandidateID
		if err := e.cb.PersistVote(e.currentTerm, e.votedFor); err != nil {
			e.markDegraded(err)
			return nil, err
		}
		resp.VoteGranted = true
		e.resetElectionTimeoutLocked()
		e.logger.Debug("granted vote", "node_id", e.id, "to", req.CandidateID, "term", e.currentTerm)
	} else {
		e.logger.Debug("denied vote",
			"node_id", e.id,
			"to", req.CandidateID,
			"term", e.currentTerm,
			"voted_for", e.votedFor,
			"up_to_date", upToDate,
		)
	}

	return resp, nil
}

// RecvAppendEntries handles an inbound AppendEntries RPC from the leader.
func (e *Engine) RecvAppendEntries(req *AppendRequest) (*AppendResponse, error) {
	if e.degraded {
		return nil, ErrNodeDegraded
	}

	resp := &AppendResponse{Term: e.currentTerm}

	if req.Term < e.currentTerm {
		return resp, nil
	}

	if req.Term > e.currentTerm {
		e.currentTerm = req.Term
		e.votedFor = 0
		if err := e.cb.PersistTerm(req.Term); err != nil {
			e.markDegraded(err)
			return nil, err
		}
	}

	e.role = Follower
	resp.Term = e.currentTerm
	e.resetElectionTimeoutLocked()

	if req.PrevLogIndex > e.lastLogIndex() {
		e.logger.Debug("AppendEntries rejected: missing prev entry",
			"node_id", e.id, "leader", req.LeaderID, "prev_log_index", req.PrevLogIndex,
		)
		resp.ConflictIndex = e.lastLogIndex() + 1
		return resp, nil
	}

	if req.PrevLogIndex > 0 {
		prevTerm := e.entryAt(req.PrevLogIndex).Term
		if prevTerm != req.PrevLogTerm {
			e.logger.Debug("AppendEntries rejected: term conflict at prev entry",
				"node_id", e.id, "leader", req.LeaderID, "prev_log_index", req.PrevLogIndex,
			)
			resp.ConflictTerm = prevTerm
			resp.ConflictIndex = e.firstIndexOfTerm(prevTerm)
			return resp, nil
		}
	}

	for i, entry := range req.Entries {
		index := req.PrevLogIndex + int64(i) + 1

		if index > e.lastLogIndex() {
			if err := e.appendNewEntries(index, req.Entries[i:]); err != nil {
				return nil, err
			}
			break
		}
		if e.entryAt(index).Term == entry.Term {
			continue
		}

		e.logger.Debug("truncating conflicting log entries", "node_id", e.id, "from_index", index)
		if err := e.cb.LogPop(index); err != nil {
			return nil, err
		}
		e.log = e.log[:index-1]
		if err := e.appendNewEntries(index, req.Entries[i:]); err != nil {
			return nil, err
		}
		break
	}

	if len(req.Entries) > 0 {
		e.logger.Debug("appended entries from leader",
			"node_id", e.id, "leader", req.LeaderID, "count", len(req.Entries), "last_index", e.lastLogIndex(),
		)
	}

	if req.LeaderCommit > e.commitIndex {
		prev := e.commitIndex
		if req.LeaderCommit < e.lastLogIndex() {
			e.commitIndex = req.LeaderCommit
		} else {
			e.commitIndex = e.lastLogIndex()
		}
		e.logger.Debug("commit index updated by leader",
			"node_id", e.id, "prev_commit", prev, "new_commit", e.commitIndex,
		)
	}

	resp.Success = true
	return resp, nil
}

// appendNewEntries offers entries[0:] starting at raft index startIndex,
// applying membership side effects immediately per entry (I6).
func (e *Engine) appendNewEntries(startIndex int64, entries []Entry) error {
	cloned := cloneEntries(entries)
	for i, entry := range cloned {
		index := startIndex + int64(i)
		if err := e.cb.LogOffer(index, entry); err != nil {
			return err
		}
		e.log = append(e.log, entry)
		if entry.Type != EntryNormal {
			e.applyMembership(index, entry)
		}
	}
	return nil
}
