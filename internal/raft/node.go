package raft

import (
	"math/rand"
	"strconv"
	"time"
)

// peerState tracks leader-side replication progress and membership voting
// status for a single remote node.
type peerState struct {
	voting            bool
	nextIndex         int64
	matchIndex        int64
	replicateInFlight bool
	replicatePending  bool
}

// Engine is a single Raft replica: elections, replication, and commit/apply
// bookkeeping. It owns no transport and no disk; every side effect flows
// through Callbacks. It is not safe for concurrent use — the owner (the
// coordinator's single replication goroutine) must serialize every call.
type Engine struct {
	id      NodeID
	cb      Callbacks
	logger  Logger
	metrics Metrics

	role Role

	currentTerm int64
	votedFor    NodeID
	degraded    bool

	log []Entry // log[i] is Raft index i+1

	commitIndex   int64
	lastApplied   int64
	lastAppliedAt time.Time

	members map[NodeID]bool // voting members, including self
	peers   map[NodeID]*peerState

	electionElapsedMs  int64
	electionTimeoutMs  int64
	heartbeatElapsedMs int64
	heartbeatPeriodMs  int64

	votesGranted map[NodeID]bool

	commitStartedAt map[int64]time.Time

	// joining is set by AsJoining for a node that has not yet been added to
	// any real cluster: it must never start an election or otherwise act as
	// a self-sufficient quorum of one until an ADD_NODE/ADD_NONVOTING_NODE
	// entry naming its own id arrives over AppendEntries from a real leader.
	joining bool
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithLogger overrides the default no-op logger.
func WithLogger(l Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMetrics overrides the default no-op metrics sink.
func WithMetrics(m Metrics) Option {
	return func(e *Engine) {
		if m != nil {
			e.metrics = m
		}
	}
}

// WithHeartbeatPeriodMs overrides the interval at which a leader re-sends
// AppendEntries to an idle peer. Default is 500ms, matching the periodic
// tick resolution driving the whole engine.
func WithHeartbeatPeriodMs(ms int64) Option {
	return func(e *Engine) {
		if ms > 0 {
			e.heartbeatPeriodMs = ms
		}
	}
}

// AsJoining constructs the engine outside of any cluster's membership: the
// `join` startup path (spec: a node started with `join` "creates a fresh
// log and expects an external operator to issue ADD_NONVOTING_NODE to it").
// Unlike the `init` path, it is not seeded as a voting quorum of one, and
// Periodic will never let it start an election, so it cannot spuriously
// elect itself leader of a cluster of nobody while a join handshake is in
// flight. The flag clears itself once a real ADD_NODE/ADD_NONVOTING_NODE
// entry naming this node's own id is offered (see applyMembership).
func AsJoining() Option {
	return func(e *Engine) {
		e.joining = true
		delete(e.members, e.id)
	}
}

// New creates an Engine as the sole member of its own cluster (the `init`
// bootstrap path). Use AddNode to register additional members at any time,
// and Restore to replay persisted state across a restart.
func New(id NodeID, cb Callbacks, opts ...Option) (*Engine, error) {
	if cb == nil {
		return nil, ErrNilCallbacks
	}

	e := &Engine{
		id:                id,
		cb:                cb,
		logger:            noopLogger{},
		metrics:           noopMetrics{},
		role:              Follower,
		members:           map[NodeID]bool{id: true},
		peers:             make(map[NodeID]*peerState),
		votesGranted:      make(map[NodeID]bool),
		commitStartedAt:   make(map[int64]time.Time),
		heartbeatPeriodMs: 500,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.resetElectionTimeoutLocked()
	return e, nil
}

// Restore replays persisted hard state and log entries after a restart.
// Membership side effects of any cfg-change entries found in entries are
// re-applied, matching offer-time semantics (I6): a node that crashed after
// offering a membership entry must come back up with that membership.
func (e *Engine) Restore(hs HardState, entries []Entry) {
	e.currentTerm = hs.CurrentTerm
	e.votedFor = hs.VotedFor
	e.commitIndex = hs.CommitIndex
	e.log = cloneEntries(entries)

	for i, entry := range e.log {
		if entry.Type != EntryNormal {
			e.applyMembership(int64(i+1), entry)
		}
	}
	if e.lastLogIndex() < e.lastApplied {
		e.lastApplied = e.lastLogIndex()
	}
}

// AddNode registers a cluster member outside of the log (used to seed the
// initial `init`/`join` membership before the first entry is ever offered).
func (e *Engine) AddNode(id NodeID, voting bool) {
	if id == e.id {
		e.members[e.id] = true
		return
	}
	if voting {
		e.members[id] = true
	}
	if _, ok := e.peers[id]; !ok {
		e.peers[id] = &peerState{voting: voting, nextIndex: e.lastLogIndex() + 1}
	} else {
		e.peers[id].voting = voting
	}
}

// RemoveNode drops a member. If id is this node, the caller must shut down;
// the engine itself does not exit a process.
func (e *Engine) RemoveNode(id NodeID) {
	delete(e.members, id)
	delete(e.peers, id)
}

// ID returns this engine's own node id.
func (e *Engine) ID() NodeID { return e.id }

// IsLeader reports whether the engine currently believes it is the leader.
func (e *Engine) IsLeader() bool { return e.role == Leader && !e.degraded }

// Role reports the engine's current role.
func (e *Engine) Role() Role { return e.role }

// Status reports runtime health.
func (e *Engine) Status() NodeStatus {
	if e.degraded {
		return NodeStatusDegraded
	}
	return NodeStatusHealthy
}

func (e *Engine) nodeIDStr() string {
	return nodeIDString(e.id)
}

func nodeIDString(id NodeID) string {
	return strconv.FormatUint(uint64(id), 10)
}

func (e *Engine) quorumSize() int {
	return len(e.members)/2 + 1
}

func (e *Engine) lastLogIndex() int64 {
	return int64(len(e.log))
}

func (e *Engine) lastLogTerm() int64 {
	if len(e.log) == 0 {
		return 0
	}
	return e.log[len(e.log)-1].Term
}

// entryAt returns the log entry at Raft index idx (1-based).
func (e *Engine) entryAt(idx int64) Entry {
	return e.log[idx-1]
}

func (e *Engine) firstIndexOfTerm(term int64) int64 {
	for i, entry := range e.log {
		if entry.Term == term {
			return int64(i + 1)
		}
	}
	return 0
}

func (e *Engine) lastIndexOfTerm(term int64) int64 {
	for i := len(e.log) - 1; i >= 0; i-- {
		if e.log[i].Term == term {
			return int64(i + 1)
		}
	}
	return 0
}

func (e *Engine) markDegraded(err error) {
	if err == nil || e.degraded {
		return
	}
	e.degraded = true
	e.metrics.IncStorageError(e.nodeIDStr(), "persist")
	e.logger.Error("raft engine degraded due to persistence error",
		"node_id", e.id,
		"error", err,
	)
}

func (e *Engine) resetElectionTimeoutLocked() {
	e.electionElapsedMs = 0
	//nolint:gosec // jitter does not need cryptographic randomness
	e.electionTimeoutMs = 1500 + rand.Int63n(1500)
}

func cloneEntries(src []Entry) []Entry {
	if len(src) == 0 {
		return nil
	}
	dst := make([]Entry, len(src))
	for i, entry := range src {
		dst[i] = Entry{
			Term: entry.Term,
			Type: entry.Type,
			Data: append([]byte(nil), entry.Data...),
		}
	}
	return dst
}
