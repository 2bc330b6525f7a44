package raftnode

import (
	"strings"
	"testing"

	"github.com/lrudenko/raftkv/internal/raft"
)

func TestFormatInfo_NodesAndLogSections(t *testing.T) {
	state := raft.AdminState{
		NodeID:       1,
		Role:         raft.Leader,
		LeaderID:     1,
		Term:         4,
		LastLogIndex: 10,
		CommitIndex:  8,
		LastApplied:  8,
		Peers: []raft.AdminPeerState{
			{NodeID: 2, Voting: true},
			{NodeID: 3, Voting: false},
		},
	}
	addrs := map[raft.NodeID]string{
		1: "10.0.0.1:9091",
		2: "10.0.0.2:9091",
		3: "10.0.0.3:9091",
	}

	out := FormatInfo(state, addrs)

	if !strings.Contains(out, "# Nodes\r\n") {
		t.Error("missing # Nodes section header")
	}
	if !strings.Contains(out, "node_id:1\r\n") {
		t.Error("missing node_id line")
	}
	if !strings.Contains(out, "role:leader\r\n") {
		t.Errorf("missing or wrong role line, got: %s", out)
	}
	if !strings.Contains(out, "node0:id=2,state=voting,addr=10.0.0.2,port=9091\r\n") {
		t.Errorf("missing voting peer line, got: %s", out)
	}
	if !strings.Contains(out, "node1:id=3,state=nonvoting,addr=10.0.0.3,port=9091\r\n") {
		t.Errorf("missing nonvoting peer line, got: %s", out)
	}
	if strings.Contains(out, "id=1,") {
		t.Error("own node id should not appear as a peer row")
	}
	if !strings.Contains(out, "# Log\r\n") {
		t.Error("missing # Log section header")
	}
	if !strings.Contains(out, "log_entries:10\r\n") {
		t.Error("missing log_entries line")
	}
	if !strings.Contains(out, "commit_index:8\r\n") {
		t.Error("missing commit_index line")
	}
	if !strings.Contains(out, "last_applied_index:8\r\n") {
		t.Error("missing last_applied_index line")
	}
}

func TestFormatInfo_UnknownPeerState(t *testing.T) {
	state := raft.AdminState{NodeID: 1, Role: raft.Follower}
	addrs := map[raft.NodeID]string{1: "10.0.0.1:9091", 2: "10.0.0.2:9091"}

	out := FormatInfo(state, addrs)
	if !strings.Contains(out, "state=unknown") {
		t.Errorf("expected unknown state for a peer with no AdminPeerState entry, got: %s", out)
	}
}
