package raftnode

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/lrudenko/raftkv/internal/raft"
)

// InfoText returns the human-readable status document the INFO command
// replies with: a "# Nodes" section naming this node's identity and every
// known peer's address, and a "# Log" section with the engine's log
// counters.
func (n *Node) InfoText(ctx context.Context) (string, error) {
	state, err := n.Info(ctx)
	if err != nil {
		return "", err
	}

	n.mu.RLock()
	addrs := make(map[raft.NodeID]string, len(n.addrs))
	for id, addr := range n.addrs {
		addrs[id] = addr
	}
	n.mu.RUnlock()

	return FormatInfo(state, addrs), nil
}

// FormatInfo renders an AdminState snapshot as the bulk-string INFO reply:
// sections "# Nodes" and "# Log", matching the keys a client-facing status
// command is expected to print.
func FormatInfo(state raft.AdminState, addrs map[raft.NodeID]string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Nodes\r\n")
	fmt.Fprintf(&b, "node_id:%d\r\n", state.NodeID)
	fmt.Fprintf(&b, "role:%s\r\n", state.Role)
	fmt.Fprintf(&b, "leader_id:%d\r\n", state.LeaderID)
	fmt.Fprintf(&b, "current_term:%d\r\n", state.Term)

	ids := make([]raft.NodeID, 0, len(addrs))
	for id := range addrs {
		if id == state.NodeID {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	byID := make(map[raft.NodeID]raft.AdminPeerState, len(state.Peers))
	for _, p := range state.Peers {
		byID[p.NodeID] = p
	}

	for i, id := range ids {
		host, port, err := splitHostPort(addrs[id])
		if err != nil {
			host, port = addrs[id], 0
		}
		peerState := "unknown"
		if p, ok := byID[id]; ok {
			if p.Voting {
				peerState = "voting"
			} else {
				peerState = "nonvoting"
			}
		}
		fmt.Fprintf(&b, "node%d:id=%d,state=%s,addr=%s,port=%d\r\n", i, id, peerState, host, port)
	}

	fmt.Fprintf(&b, "# Log\r\n")
	fmt.Fprintf(&b, "log_entries:%d\r\n", state.LastLogIndex)
	fmt.Fprintf(&b, "current_index:%d\r\n", state.LastLogIndex)
	fmt.Fprintf(&b, "commit_index:%d\r\n", state.CommitIndex)
	fmt.Fprintf(&b, "last_applied_index:%d\r\n", state.LastApplied)

	return b.String()
}
