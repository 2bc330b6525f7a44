package raft

import (
	"context"
	"errors"
	"testing"
)

// fakeCallbacks is a recording Callbacks implementation. Unlike the peer
// transport in internal/raftnode (a real gomock collaborator across a real
// goroutine boundary), the engine's own tests only need a synchronous
// recorder: every callback fires from the same goroutine the test runs on.
type fakeCallbacks struct {
	votesSent   []NodeID
	appendsSent map[NodeID]*AppendRequest
	offered     []Entry
	popFrom     int64
	applied     []Entry
	persistErr  error
	nodeIDs     map[string]NodeID // keyed by string(Data) for LogGetNodeID
	selfID      NodeID            // ApplyLog reports ErrSelfRemoved for a REMOVE_NODE targeting this id
}

func newFakeCallbacks() *fakeCallbacks {
	return &fakeCallbacks{
		appendsSent: make(map[NodeID]*AppendRequest),
		nodeIDs:     make(map[string]NodeID),
	}
}

func (f *fakeCallbacks) SendRequestVote(_ context.Context, node NodeID, _ *VoteRequest) {
	f.votesSent = append(f.votesSent, node)
}

func (f *fakeCallbacks) SendAppendEntries(_ context.Context, node NodeID, req *AppendRequest) {
	f.appendsSent[node] = req
}

func (f *fakeCallbacks) PersistVote(int64, NodeID) error { return f.persistErr }
func (f *fakeCallbacks) PersistTerm(int64) error         { return f.persistErr }

func (f *fakeCallbacks) LogOffer(_ int64, entry Entry) error {
	f.offered = append(f.offered, entry)
	return nil
}

func (f *fakeCallbacks) LogPop(index int64) error {
	f.popFrom = index
	return nil
}

func (f *fakeCallbacks) ApplyLog(_ int64, entry Entry) error {
	f.applied = append(f.applied, entry)
	if entry.Type == EntryRemoveNode && f.LogGetNodeID(entry) == f.selfID {
		return ErrSelfRemoved
	}
	return nil
}

func (f *fakeCallbacks) LogGetNodeID(entry Entry) NodeID {
	return f.nodeIDs[string(entry.Data)]
}

func (f *fakeCallbacks) NodeHasSufficientLogs(NodeID) error { return nil }

func (f *fakeCallbacks) Log(string, ...any) {}

func newTestEngine(t *testing.T, id NodeID, cb Callbacks) *Engine {
	t.Helper()
	e, err := New(id, cb)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func TestEngine_SingleNodeBecomesLeaderImmediately(t *testing.T) {
	cb := newFakeCallbacks()
	e := newTestEngine(t, 1, cb)

	e.startElection(context.Background())

	if e.Role() != Leader {
		t.Fatalf("expected role Leader, got %v", e.Role())
	}
	if len(cb.votesSent) != 0 {
		t.Fatalf("expected no votes sent in a single-node cluster, got %v", cb.votesSent)
	}
}

func TestEngine_Bootstrap_BecomesLeaderAndCommitsSelfEntryImmediately(t *testing.T) {
	cb := newFakeCallbacks()
	cb.nodeIDs["self"] = 1
	e := newTestEngine(t, 1, cb)

	index, ok := e.Bootstrap([]byte("self"))
	if !ok {
		t.Fatalf("expected Bootstrap to succeed")
	}
	if index != 1 {
		t.Fatalf("expected self entry at index 1, got %d", index)
	}
	if e.Role() != Leader {
		t.Fatalf("expected role Leader immediately after Bootstrap, got %v", e.Role())
	}
	if e.commitIndex != 1 {
		t.Fatalf("expected commitIndex=1 immediately (single-node quorum), got %d", e.commitIndex)
	}
	if len(cb.offered) != 1 || cb.offered[0].Type != EntryAddNode {
		t.Fatalf("expected one offered EntryAddNode entry, got %v", cb.offered)
	}
}

func TestEngine_AsJoining_NeverSelfElects(t *testing.T) {
	cb := newFakeCallbacks()
	e, err := New(1, cb, AsJoining())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	e.startElection(context.Background())

	if e.Role() == Leader {
		t.Fatalf("expected a joining node to never self-elect leader")
	}
	if len(cb.votesSent) != 0 {
		t.Fatalf("expected no votes sent for a joining node, got %v", cb.votesSent)
	}
}

func TestEngine_AsJoining_ClearsOnSelfAddNodeEntry(t *testing.T) {
	cb := newFakeCallbacks()
	cb.nodeIDs["self"] = 1
	e, err := New(1, cb, AsJoining())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	req := &AppendRequest{
		Term:         1,
		LeaderID:     2,
		Entries:      []Entry{{Term: 1, Type: EntryAddNode, Data: []byte("self")}},
		LeaderCommit: 1,
	}
	if _, err := e.RecvAppendEntries(req); err != nil {
		t.Fatalf("RecvAppendEntries: %v", err)
	}
	if e.joining {
		t.Fatalf("expected joining to clear once a self ADD_NODE entry is offered")
	}

	e.electionElapsedMs = e.electionTimeoutMs
	e.Periodic(context.Background(), 0)
	if e.Role() != Leader {
		t.Fatalf("expected election behavior restored once joined, got role %v", e.Role())
	}
}

func TestEngine_RecvRequestVote_GrantsWhenUpToDateAndUnvoted(t *testing.T) {
	cb := newFakeCallbacks()
	e := newTestEngine(t, 1, cb)

	resp, err := e.RecvRequestVote(&VoteRequest{Term: 1, CandidateID: 2, LastLogIndex: 0, LastLogTerm: 0})
	if err != nil {
		t.Fatalf("RecvRequestVote: %v", err)
	}
	if !resp.VoteGranted {
		t.Fatalf("expected vote granted")
	}
	if e.votedFor != 2 {
		t.Fatalf("expected votedFor=2, got %d", e.votedFor)
	}
}

func TestEngine_RecvRequestVote_DeniesStaleTerm(t *testing.T) {
	cb := newFakeCallbacks()
	e := newTestEngine(t, 1, cb)
	e.currentTerm = 5

	resp, err := e.RecvRequestVote(&VoteRequest{Term: 3, CandidateID: 2})
	if err != nil {
		t.Fatalf("RecvRequestVote: %v", err)
	}
	if resp.VoteGranted {
		t.Fatalf("expected vote denied for stale term")
	}
	if resp.Term != 5 {
		t.Fatalf("expected response term=5, got %d", resp.Term)
	}
}

func TestEngine_RecvRequestVote_DeniesSecondCandidateSameTerm(t *testing.T) {
	cb := newFakeCallbacks()
	e := newTestEngine(t, 1, cb)

	if _, err := e.RecvRequestVote(&VoteRequest{Term: 1, CandidateID: 2}); err != nil {
		t.Fatalf("RecvRequestVote: %v", err)
	}
	resp, err := e.RecvRequestVote(&VoteRequest{Term: 1, CandidateID: 3})
	if err != nil {
		t.Fatalf("RecvRequestVote: %v", err)
	}
	if resp.VoteGranted {
		t.Fatalf("expected second candidate in the same term to be denied")
	}
}

func TestEngine_RecvAppendEntries_RejectsOnMissingPrevEntry(t *testing.T) {
	cb := newFakeCallbacks()
	e := newTestEngine(t, 2, cb)

	resp, err := e.RecvAppendEntries(&AppendRequest{Term: 1, LeaderID: 1, PrevLogIndex: 5, PrevLogTerm: 1})
	if err != nil {
		t.Fatalf("RecvAppendEntries: %v", err)
	}
	if resp.Success {
		t.Fatalf("expected rejection when prev log entry is missing")
	}
	if resp.ConflictIndex != 1 {
		t.Fatalf("expected conflict index 1, got %d", resp.ConflictIndex)
	}
}

func TestEngine_RecvAppendEntries_AppendsAndAdvancesCommitIndex(t *testing.T) {
	cb := newFakeCallbacks()
	e := newTestEngine(t, 2, cb)

	req := &AppendRequest{
		Term:         1,
		LeaderID:     1,
		PrevLogIndex: 0,
		PrevLogTerm:  0,
		Entries:      []Entry{{Term: 1, Type: EntryNormal, Data: []byte("a")}},
		LeaderCommit: 1,
	}
	resp, err := e.RecvAppendEntries(req)
	if err != nil {
		t.Fatalf("RecvAppendEntries: %v", err)
	}
	if !resp.Success {
		t.Fatalf("expected success")
	}
	if e.commitIndex != 1 {
		t.Fatalf("expected commitIndex=1, got %d", e.commitIndex)
	}
	if len(cb.offered) != 1 {
		t.Fatalf("expected exactly one LogOffer call, got %d", len(cb.offered))
	}
}

func TestEngine_RecvAppendEntries_TruncatesConflictingSuffix(t *testing.T) {
	cb := newFakeCallbacks()
	e := newTestEngine(t, 2, cb)
	e.log = []Entry{{Term: 1}, {Term: 1}, {Term: 1}}
	e.currentTerm = 2

	req := &AppendRequest{
		Term:         2,
		LeaderID:     1,
		PrevLogIndex: 1,
		PrevLogTerm:  1,
		Entries:      []Entry{{Term: 2, Type: EntryNormal, Data: []byte("b")}},
	}
	resp, err := e.RecvAppendEntries(req)
	if err != nil {
		t.Fatalf("RecvAppendEntries: %v", err)
	}
	if !resp.Success {
		t.Fatalf("expected success")
	}
	if e.lastLogIndex() != 2 {
		t.Fatalf("expected log truncated to length 2, got %d", e.lastLogIndex())
	}
	if cb.popFrom != 2 {
		t.Fatalf("expected LogPop(2), got LogPop(%d)", cb.popFrom)
	}
}

func TestEngine_ProposeCommand_RejectsWhenNotLeader(t *testing.T) {
	cb := newFakeCallbacks()
	e := newTestEngine(t, 1, cb)

	_, ok := e.ProposeCommand([]byte("x"), nil)
	if ok {
		t.Fatalf("expected ProposeCommand to fail on a non-leader engine")
	}
}

func TestEngine_ProposeCommand_SingleNodeCommitsAndAppliesImmediately(t *testing.T) {
	cb := newFakeCallbacks()
	e := newTestEngine(t, 1, cb)
	e.startElection(context.Background())

	index, ok := e.ProposeCommand([]byte("set x 1"), "marker")
	if !ok {
		t.Fatalf("expected ProposeCommand to succeed on leader of a single-node cluster")
	}
	if index != 1 {
		t.Fatalf("expected index=1, got %d", index)
	}
	if err := e.ApplyAll(); err != nil {
		t.Fatalf("ApplyAll: %v", err)
	}
	if len(cb.applied) != 1 {
		t.Fatalf("expected one applied entry, got %d", len(cb.applied))
	}
	if cb.applied[0].UserData != "marker" {
		t.Fatalf("expected UserData to survive to ApplyLog, got %v", cb.applied[0].UserData)
	}
}

func TestEngine_ThreeNodeCluster_CommitsOnlyAfterQuorum(t *testing.T) {
	cb := newFakeCallbacks()
	e := newTestEngine(t, 1, cb)
	e.startElection(context.Background()) // still a cluster of one so far
	e.AddNode(2, true)
	e.AddNode(3, true)
	e.role = Leader // re-assert: AddNode does not change role

	index, ok := e.ProposeCommand([]byte("set x 1"), nil)
	if !ok {
		t.Fatalf("expected propose to succeed")
	}
	if e.commitIndex != 0 {
		t.Fatalf("expected no commit before any peer acks, got commitIndex=%d", e.commitIndex)
	}

	req := e.appendEntriesRequestFor(2, e.peers[2])
	e.RecvAppendEntriesResponse(context.Background(), 2, req, &AppendResponse{Term: e.currentTerm, Success: true})

	if e.commitIndex != index {
		t.Fatalf("expected commitIndex=%d after a second ack reaches quorum, got %d", index, e.commitIndex)
	}
}

func TestEngine_RecvVoteResponse_StepsDownOnHigherTerm(t *testing.T) {
	cb := newFakeCallbacks()
	e := newTestEngine(t, 1, cb)
	e.AddNode(2, true)
	e.startElection(context.Background())

	e.RecvVoteResponse(2, &VoteResponse{Term: e.currentTerm + 5, VoteGranted: false})

	if e.Role() != Follower {
		t.Fatalf("expected step down to Follower, got %v", e.Role())
	}
}

func TestEngine_ApplyAll_StopsAtSelfRemoval(t *testing.T) {
	cb := newFakeCallbacks()
	cb.nodeIDs["self"] = 1
	cb.selfID = 1
	e := newTestEngine(t, 1, cb)
	e.startElection(context.Background())

	// Simulate a committed self-REMOVE_NODE entry without going through
	// ProposeConfigChange, by appending directly and advancing commitIndex.
	e.log = append(e.log, Entry{Term: e.currentTerm, Type: EntryRemoveNode, Data: []byte("self")})
	e.commitIndex = e.lastLogIndex()

	err := e.ApplyAll()
	if !errors.Is(err, ErrSelfRemoved) {
		t.Fatalf("expected ErrSelfRemoved, got %v", err)
	}
	if e.lastApplied != e.lastLogIndex() {
		t.Fatalf("expected lastApplied advanced to the self-removal entry, got %d", e.lastApplied)
	}
}
