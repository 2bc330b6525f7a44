package raftnode

import (
	"github.com/lrudenko/raftkv/internal/raft"
)

// ReqKind tags the variant carried by a Req.
type ReqKind int

// Supported request kinds, dispatched by the coordinator's handler table.
const (
	ReqVote ReqKind = iota
	ReqAppendEntries
	ReqCommand
	ReqCfgChangeAddNode
	ReqCfgChangeRemoveNode
	ReqInfo
	ReqPeerReply
)

func (k ReqKind) String() string {
	switch k {
	case ReqVote:
		return "vote"
	case ReqAppendEntries:
		return "append_entries"
	case ReqCommand:
		return "command"
	case ReqCfgChangeAddNode:
		return "cfg_change_add_node"
	case ReqCfgChangeRemoveNode:
		return "cfg_change_remove_node"
	case ReqInfo:
		return "info"
	case ReqPeerReply:
		return "peer_reply"
	default:
		return "unknown"
	}
}

// Reply is what a blocked client eventually receives. Data is meaningful
// when Err is nil; NoLeader and Redirect qualify a non-nil Err.
type Reply struct {
	Data     []byte
	Err      error
	NoLeader bool
	Redirect string // "host:port" of the believed leader, set with Err == ErrLeaderRedirect
}

// Req is the tagged union every front-end goroutine must enqueue instead of
// touching the engine directly (I3). A request carrying PENDING_COMMIT is
// not completed by the queue drain — only the apply path (via
// Callbacks.ApplyLog) completes it (I4); a terminal error does not.
type Req struct {
	Kind ReqKind

	// ReqVote / ReqAppendEntries inbound RPC payloads.
	VoteReq   *raft.VoteRequest
	AppendReq *raft.AppendRequest

	// ReqCommand / ReqCfgChange* payloads.
	Argv      [][]byte
	CfgChange CfgChange

	// ReqPeerReply: an async peer RPC reply routed back onto the queue so
	// only the replication goroutine ever touches engine state (I3).
	PeerID        raft.NodeID
	VoteResp      *raft.VoteResponse
	AppendResp    *raft.AppendResponse
	AppendReqEcho *raft.AppendRequest // the request this AppendResp answers

	// AdminState is filled in by the INFO handler for ReqInfo requests.
	AdminState raft.AdminState

	reply chan Reply
}

// CfgChange is the payload of a membership-change request, carried inside
// a log entry's Data for ADD_NODE / ADD_NONVOTING_NODE / REMOVE_NODE
// entries.
type CfgChange struct {
	ID   uint32
	Host string
	Port uint32
}

// newReplyChan allocates the channel a blocked client waits on. Buffered by
// one so the apply path's send never blocks even if the waiter already gave
// up (context canceled) and stopped reading.
func newReplyChan() chan Reply {
	return make(chan Reply, 1)
}
