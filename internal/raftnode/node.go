package raftnode

import (
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/trace/noop"

	"github.com/lrudenko/raftkv/internal/kv"
	"github.com/lrudenko/raftkv/internal/raft"
	"github.com/lrudenko/raftkv/internal/raftlog"
)

// Node is the coordinator: spec's RaftNode translated to Go. It owns the
// engine, the on-disk log, the data store, the peer-link set, and the
// request queue — the single boundary every other goroutine must cross to
// touch any of them (I3).
type Node struct {
	id       raft.NodeID
	selfAddr string

	engine *raft.Engine
	wal    *raftlog.Log
	store  *kv.Store
	queue  *Queue

	dial    func(addr string) (PeerTransport, error)
	logger  raft.Logger
	metrics raft.Metrics

	// peers and addrs are touched only from the replication goroutine
	// (constructed/torn down from LogOffer callbacks and AdminState reads
	// that are themselves routed through the queue), except for InfoText
	// copying addrs from a front-end goroutine — guarded by mu for that one
	// cross-goroutine read.
	mu          sync.RWMutex
	peers       map[raft.NodeID]*peerLink
	addrs       map[raft.NodeID]string
	knownLeader raft.NodeID

	shutdownErr error
}

// Config bundles the construction-time parameters for a coordinator.
type Config struct {
	ID       raft.NodeID
	SelfAddr string
	DataDir  string
	LogPath  string

	Dial    func(addr string) (PeerTransport, error)
	Logger  raft.Logger
	Metrics raft.Metrics
}

// NewInit bootstraps a brand-new single-node cluster: the `init` startup
// path. The node becomes leader of a cluster of one and synchronously
// commits a self ADD_NODE entry, so it can accept writes the instant it
// returns rather than waiting on a reactive election timeout.
func NewInit(cfg Config) (*Node, error) {
	n, err := newNode(cfg)
	if err != nil {
		return nil, err
	}

	engine, err := raft.New(cfg.ID, n, raft.WithLogger(n.logger), raft.WithMetrics(n.metrics))
	if err != nil {
		return nil, err
	}
	n.engine = engine

	host, port, err := splitHostPort(cfg.SelfAddr)
	if err != nil {
		return nil, fmt.Errorf("raftnode: invalid self address %q: %w", cfg.SelfAddr, err)
	}
	selfData := EncodeCfgChange(CfgChange{ID: uint32(cfg.ID), Host: host, Port: port})
	if _, ok := engine.Bootstrap(selfData); !ok {
		return nil, fmt.Errorf("raftnode: failed to bootstrap single-node cluster")
	}
	return n, nil
}

// NewJoin constructs a node that is not yet a member of any cluster: the
// `join` startup path. Unlike NewInit it is not seeded as a voting quorum
// of one — the engine will not start an election on its own — and stays
// that way until an ADD_NONVOTING_NODE/ADD_NODE entry naming this node's
// own id arrives over AppendEntries from the real cluster leader. The
// caller is expected to submit a CfgChangeAddNode request against that
// leader using this node's id/address after Run starts.
func NewJoin(cfg Config) (*Node, error) {
	n, err := newNode(cfg)
	if err != nil {
		return nil, err
	}

	engine, err := raft.New(cfg.ID, n, raft.WithLogger(n.logger), raft.WithMetrics(n.metrics), raft.AsJoining())
	if err != nil {
		return nil, err
	}
	n.engine = engine
	return n, nil
}

// Restore reconstructs a node from its on-disk log after a restart.
func Restore(cfg Config) (*Node, error) {
	n, err := newNode(cfg)
	if err != nil {
		return nil, err
	}

	engine, err := raft.New(cfg.ID, n, raft.WithLogger(n.logger), raft.WithMetrics(n.metrics))
	if err != nil {
		return nil, err
	}
	n.engine = engine

	hs := raft.HardState{
		CurrentTerm: n.wal.Header().CurrentTerm,
		VotedFor:    raft.NodeID(n.wal.Header().VotedFor),
		CommitIndex: n.wal.Header().CommitIndex,
	}
	stored := n.wal.LoadEntries()
	entries := make([]raft.Entry, len(stored))
	for i, se := range stored {
		entries[i] = raft.Entry{Term: se.Term, Type: raft.EntryType(se.Type), Data: se.Data}
	}
	engine.Restore(hs, entries)

	for _, se := range stored {
		typ := raft.EntryType(se.Type)
		if typ == raft.EntryNormal {
			continue
		}
		cfg, err := DecodeCfgChange(se.Data)
		if err != nil || raft.NodeID(cfg.ID) == n.id {
			continue
		}
		if typ == raft.EntryRemoveNode {
			delete(n.addrs, raft.NodeID(cfg.ID))
		} else {
			n.addrs[raft.NodeID(cfg.ID)] = joinHostPort(cfg.Host, cfg.Port)
		}
	}
	for id, addr := range n.addrs {
		if id == n.id {
			continue
		}
		n.peers[id] = newPeerLink(id, addr, n.dial, n.queue, n.logger)
	}

	return n, nil
}

func newNode(cfg Config) (*Node, error) {
	if cfg.ID == 0 {
		return nil, fmt.Errorf("raftnode: node id must be non-zero")
	}
	if cfg.Dial == nil {
		return nil, fmt.Errorf("raftnode: dial func is required")
	}

	wal, err := raftlog.Open(cfg.LogPath)
	if err != nil {
		if err != raftlog.ErrNotExist {
			return nil, fmt.Errorf("raftnode: open log: %w", err)
		}
		wal, err = raftlog.Create(cfg.LogPath)
		if err != nil {
			return nil, fmt.Errorf("raftnode: create log: %w", err)
		}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = noopLogger{}
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = noopMetrics{}
	}

	return &Node{
		id:       cfg.ID,
		selfAddr: cfg.SelfAddr,
		wal:      wal,
		store:    kv.NewStore(noop.NewTracerProvider().Tracer("raftnode")),
		queue:    NewQueue(),
		dial:     cfg.Dial,
		logger:   logger,
		metrics:  metrics,
		peers:    make(map[raft.NodeID]*peerLink),
		addrs:    map[raft.NodeID]string{cfg.ID: cfg.SelfAddr},
	}, nil
}

// ID returns this node's own identity.
func (n *Node) ID() raft.NodeID { return n.id }

// Shutdown tears down every peer connection. Called once the replication
// loop has stopped.
func (n *Node) Shutdown() {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, link := range n.peers {
		_ = link.close()
	}
}

// addrFor returns the known address for a peer id, used by
// NodeHasSufficientLogs to encode a promoted peer's address.
func (n *Node) addrFor(id raft.NodeID) (string, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	addr, ok := n.addrs[id]
	return addr, ok
}
