package raftnode

import (
	"context"
	"sync"

	"github.com/lrudenko/raftkv/internal/raft"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

// PeerTransport is the RPC client used to reach one remote peer. A gRPC
// implementation lives in internal/transport/grpcpeer; tests substitute a
// generated mock.
type PeerTransport interface {
	RequestVote(ctx context.Context, req *raft.VoteRequest) (*raft.VoteResponse, error)
	AppendEntries(ctx context.Context, req *raft.AppendRequest) (*raft.AppendResponse, error)
	Close() error
}

// peerLinkState mirrors spec's PeerLink connection state machine.
type peerLinkState int

// Connection states a peerLink can be in.
const (
	linkDisconnected peerLinkState = iota
	linkConnecting
	linkConnected
)

// peerLink lazily dials a remote node the first time the engine asks to
// send it something, and issues every RPC from its own goroutine so the
// replication goroutine never blocks on network I/O (I7). Replies are
// translated back into the engine's types and handed to the queue as a
// ReqPeerReply so only the replication goroutine ever applies them.
type peerLink struct {
	id     raft.NodeID
	addr   string
	dial   func(addr string) (PeerTransport, error)
	queue  *Queue
	logger raft.Logger

	mu     sync.Mutex
	state  peerLinkState
	client PeerTransport
}

func newPeerLink(id raft.NodeID, addr string, dial func(addr string) (PeerTransport, error), queue *Queue, logger raft.Logger) *peerLink {
	return &peerLink{id: id, addr: addr, dial: dial, queue: queue, logger: logger}
}

// ensureConnected returns the current client if CONNECTED, and otherwise
// kicks off a connect attempt and returns ok=false so the caller can treat
// this send as "success without send" — the engine's own retry (next tick
// or next AppendEntries) will try again once connected.
func (p *peerLink) ensureConnected() (PeerTransport, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == linkConnected && p.client != nil {
		return p.client, true
	}
	if p.state == linkConnecting {
		return nil, false
	}

	p.state = linkConnecting
	go p.connect()
	return nil, false
}

func (p *peerLink) connect() {
	client, err := p.dial(p.addr)
	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.state = linkDisconnected
		p.logger.Warn("peer link dial failed", "peer", p.id, "addr", p.addr, "error", err)
		return
	}
	p.client = client
	p.state = linkConnected
}

// sendRequestVote issues RequestVote asynchronously. A malformed reply or
// transport error is logged and dropped — the engine learns nothing
// directly, and resyncs on the next heartbeat/election timeout.
func (p *peerLink) sendRequestVote(ctx context.Context, req *raft.VoteRequest) {
	client, ok := p.ensureConnected()
	if !ok {
		return
	}
	go func() {
		resp, err := client.RequestVote(ctx, req)
		if err != nil {
			p.logger.Debug("RequestVote RPC failed", "peer", p.id, "error", err)
			p.markDisconnected()
			return
		}
		p.queue.Enqueue(&Req{
			Kind:     ReqPeerReply,
			PeerID:   p.id,
			VoteResp: resp,
		})
	}()
}

// sendAppendEntries issues AppendEntries asynchronously. On success it also
// schedules an ApplyAll pass via the queue, since the leader's commit index
// may have just advanced.
func (p *peerLink) sendAppendEntries(ctx context.Context, req *raft.AppendRequest) {
	client, ok := p.ensureConnected()
	if !ok {
		return
	}
	go func() {
		resp, err := client.AppendEntries(ctx, req)
		if err != nil {
			p.logger.Debug("AppendEntries RPC failed", "peer", p.id, "error", err)
			p.markDisconnected()
			return
		}
		p.queue.Enqueue(&Req{
			Kind:          ReqPeerReply,
			PeerID:        p.id,
			AppendResp:    resp,
			AppendReqEcho: req,
		})
	}()
}

func (p *peerLink) markDisconnected() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = linkDisconnected
	p.client = nil
}

func (p *peerLink) close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client == nil {
		return nil
	}
	return p.client.Close()
}
