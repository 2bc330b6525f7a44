package raftnode

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"

	"github.com/lrudenko/raftkv/internal/raft"
)

func waitForDrain(t *testing.T, q *Queue) []*Req {
	t.Helper()
	select {
	case <-q.Wakeup():
		return q.Drain()
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for the queue to receive a reply")
		return nil
	}
}

func TestPeerLink_SendRequestVote_EnqueuesReplyOnSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := NewMockPeerTransport(ctrl)
	client.EXPECT().
		RequestVote(gomock.Any(), gomock.Any()).
		Return(&raft.VoteResponse{Term: 1, VoteGranted: true}, nil)

	queue := NewQueue()
	link := newPeerLink(2, "peer:1234", func(string) (PeerTransport, error) { return client, nil }, queue, noopLogger{})
	link.state = linkConnected
	link.client = client

	link.sendRequestVote(context.Background(), &raft.VoteRequest{Term: 1, CandidateID: 1})

	items := waitForDrain(t, queue)
	if len(items) != 1 {
		t.Fatalf("expected exactly one queued reply, got %d", len(items))
	}
	if items[0].Kind != ReqPeerReply || items[0].PeerID != 2 {
		t.Fatalf("expected a ReqPeerReply for peer 2, got %+v", items[0])
	}
	if items[0].VoteResp == nil || !items[0].VoteResp.VoteGranted {
		t.Fatalf("expected the vote response to carry VoteGranted=true")
	}
}

func TestPeerLink_SendAppendEntries_MarksDisconnectedOnTransportError(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := NewMockPeerTransport(ctrl)
	client.EXPECT().
		AppendEntries(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("connection reset"))

	queue := NewQueue()
	link := newPeerLink(2, "peer:1234", func(string) (PeerTransport, error) { return client, nil }, queue, noopLogger{})
	link.state = linkConnected
	link.client = client

	link.sendAppendEntries(context.Background(), &raft.AppendRequest{Term: 1, LeaderID: 1})

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		link.mu.Lock()
		state := link.state
		link.mu.Unlock()
		if state == linkDisconnected {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("expected peer link to be marked disconnected after a transport error")
}

func TestPeerLink_EnsureConnected_DialsLazilyOnce(t *testing.T) {
	dialCount := 0
	queue := NewQueue()
	link := newPeerLink(2, "peer:1234", func(string) (PeerTransport, error) {
		dialCount++
		return &fakeTransport{}, nil
	}, queue, noopLogger{})

	if _, ok := link.ensureConnected(); ok {
		t.Fatalf("expected first call to kick off a connect and report not-yet-connected")
	}

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if _, ok := link.ensureConnected(); ok {
			if dialCount != 1 {
				t.Fatalf("expected exactly one dial, got %d", dialCount)
			}
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("expected the peer link to become connected")
}

type fakeTransport struct{}

func (fakeTransport) RequestVote(context.Context, *raft.VoteRequest) (*raft.VoteResponse, error) {
	return nil, nil
}

func (fakeTransport) AppendEntries(context.Context, *raft.AppendRequest) (*raft.AppendResponse, error) {
	return nil, nil
}

func (fakeTransport) Close() error { return nil }
