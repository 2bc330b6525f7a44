package raft

import (
	"sort"
	"time"
)

// AdminPeerState is a point-in-time snapshot of leader-side replication
// progress for one peer, surfaced by the INFO request.
type AdminPeerState struct {
	NodeID     NodeID
	Voting     bool
	MatchIndex int64
	NextIndex  int64
}

// AdminState is a point-in-time snapshot of engine state for the INFO
// handler and the admin gRPC surface.
type AdminState struct {
	NodeID        NodeID
	LeaderID      NodeID
	Role          Role
	Status        NodeStatus
	Term          int64
	CommitIndex   int64
	LastApplied   int64
	LastAppliedAt time.Time
	LastLogIndex  int64
	LastLogTerm   int64
	Members       []NodeID
	QuorumSize    int
	Peers         []AdminPeerState
}

// AdminState returns a read-only snapshot of engine state. Like every other
// engine method, it must be called from the owner's single goroutine (the
// coordinator answers INFO requests through its request queue so this holds).
func (e *Engine) AdminState() AdminState {
	out := AdminState{
		NodeID:        e.id,
		Role:          e.role,
		Term:          e.currentTerm,
		CommitIndex:   e.commitIndex,
		LastApplied:   e.lastApplied,
		LastAppliedAt: e.lastAppliedAt,
		LastLogIndex:  e.lastLogIndex(),
		LastLogTerm:   e.lastLogTerm(),
		QuorumSize:    e.quorumSize(),
		Status:        e.Status(),
	}
	if e.role == Leader {
		out.LeaderID = e.id
	}

	members := make([]NodeID, 0, len(e.members))
	for id := range e.members {
		members = append(members, id)
	}
	sort.Slice(members, func(i, j int) bool { return members[i] < members[j] })
	out.Members = members

	peerIDs := make([]NodeID, 0, len(e.peers))
	for id := range e.peers {
		peerIDs = append(peerIDs, id)
	}
	sort.Slice(peerIDs, func(i, j int) bool { return peerIDs[i] < peerIDs[j] })

	out.Peers = make([]AdminPeerState, 0, len(peerIDs))
	for _, id := range peerIDs {
		ps := e.peers[id]
		out.Peers = append(out.Peers, AdminPeerState{
			NodeID:     id,
			Voting:     ps.voting,
			MatchIndex: ps.matchIndex,
			NextIndex:  ps.nextIndex,
		})
	}

	return out
}
