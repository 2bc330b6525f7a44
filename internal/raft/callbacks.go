package raft

import "context"

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

// Callbacks is the collaborator surface the engine invokes for every side
// effect: sending an RPC, persisting state, and offering, popping, or
// applying a log entry. It is grounded directly on libraft's raft_cbs_t
// contract: the host owns the network and the disk, the engine owns the
// arithmetic.
//
// Every method is called synchronously from the engine's single owning
// goroutine; callbacks must not block on anything but a local mutex.
type Callbacks interface {
	// SendRequestVote asks the host to deliver req to node. The call is
	// fire-and-forget: the host reports success by eventually calling
	// Engine.RecvVoteResponse from the same owning goroutine. A transport
	// failure is simply never answered — the engine does not distinguish
	// "failed to send" from "no reply yet".
	SendRequestVote(ctx context.Context, node NodeID, req *VoteRequest)

	// SendAppendEntries asks the host to deliver req to node, matching
	// SendRequestVote's fire-and-forget contract.
	SendAppendEntries(ctx context.Context, node NodeID, req *AppendRequest)

	// PersistVote durably records that votedFor was granted in term.
	// A non-nil error marks the engine degraded.
	PersistVote(term int64, votedFor NodeID) error

	// PersistTerm durably records a currentTerm change.
	// A non-nil error marks the engine degraded.
	PersistTerm(term int64) error

	// LogOffer is called exactly once for every entry newly added to the
	// in-memory log, whether by the leader originating it or a follower
	// accepting it from AppendEntries — before it is known to be
	// committed. The host must persist the entry here. For a membership
	// entry, the host's own peer-link bookkeeping takes effect at this
	// point too (I6), not when the entry is later applied.
	LogOffer(index int64, entry Entry) error

	// LogPop is called when entries starting at index are removed from
	// the in-memory log because a leader's AppendEntries conflicts with
	// them. The host must make the on-disk log agree.
	LogPop(index int64) error

	// ApplyLog is called once commitIndex reaches index, strictly in
	// order. For EntryNormal it decodes and executes the command and
	// delivers the reply to entry.UserData's waiter, if set. Returning
	// ErrSelfRemoved signals the engine to stop.
	ApplyLog(index int64, entry Entry) error

	// LogGetNodeID extracts the target node id from a membership change
	// entry's payload.
	LogGetNodeID(entry Entry) NodeID

	// NodeHasSufficientLogs is called once a non-voting node's match
	// index has caught up with the leader's log. The host typically
	// responds by proposing an EntryAddNode promoting it.
	NodeHasSufficientLogs(node NodeID) error

	// Log is a structured debug sink for engine-internal tracing.
	Log(msg string, keyvals ...any)
}
