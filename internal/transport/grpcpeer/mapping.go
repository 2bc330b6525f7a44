// Package grpcpeer is the peer-to-peer Raft gRPC transport: a server adapter
// that dispatches inbound RequestVote/AppendEntries RPCs to a coordinator,
// and a client that implements raftnode.PeerTransport.
package grpcpeer

import (
	"github.com/lrudenko/raftkv/internal/raft"
	raftpb "github.com/lrudenko/raftkv/pkg/proto/raftv1"
)

func voteRequestToPB(req *raft.VoteRequest, srcNodeID uint32) *raftpb.RequestVoteRequest {
	return &raftpb.RequestVoteRequest{
		SrcNodeId:    srcNodeID,
		Term:         req.Term,
		CandidateId:  uint32(req.CandidateID),
		LastLogIndex: req.LastLogIndex,
		LastLogTerm:  req.LastLogTerm,
	}
}

func voteRequestFromPB(pbReq *raftpb.RequestVoteRequest) *raft.VoteRequest {
	return &raft.VoteRequest{
		Term:         pbReq.Term,
		CandidateID:  raft.NodeID(pbReq.CandidateId),
		LastLogIndex: pbReq.LastLogIndex,
		LastLogTerm:  pbReq.LastLogTerm,
	}
}

func voteResponseToPB(resp *raft.VoteResponse) *raftpb.RequestVoteResponse {
	return &raftpb.RequestVoteResponse{Term: resp.Term, VoteGranted: resp.VoteGranted}
}

func voteResponseFromPB(pbResp *raftpb.RequestVoteResponse) *raft.VoteResponse {
	return &raft.VoteResponse{Term: pbResp.Term, VoteGranted: pbResp.VoteGranted}
}

func appendRequestToPB(req *raft.AppendRequest, srcNodeID uint32) *raftpb.AppendEntriesRequest {
	entries := make([]*raftpb.LogEntry, len(req.Entries))
	for i, e := range req.Entries {
		entries[i] = &raftpb.LogEntry{Term: e.Term, Type: uint32(e.Type), Data: e.Data}
	}
	return &raftpb.AppendEntriesRequest{
		SrcNodeId:    srcNodeID,
		Term:         req.Term,
		LeaderId:     uint32(req.LeaderID),
		PrevLogIndex: req.PrevLogIndex,
		PrevLogTerm:  req.PrevLogTerm,
		Entries:      entries,
		LeaderCommit: req.LeaderCommit,
	}
}

func appendRequestFromPB(pbReq *raftpb.AppendEntriesRequest) *raft.AppendRequest {
	entries := make([]raft.Entry, len(pbReq.Entries))
	for i, e := range pbReq.Entries {
		entries[i] = raft.Entry{Term: e.Term, Type: raft.EntryType(e.Type), Data: e.Data}
	}
	return &raft.AppendRequest{
		Term:         pbReq.Term,
		LeaderID:     raft.NodeID(pbReq.LeaderId),
		PrevLogIndex: pbReq.PrevLogIndex,
		PrevLogTerm:  pbReq.PrevLogTerm,
		Entries:      entries,
		LeaderCommit: pbReq.LeaderCommit,
	}
}

func appendResponseToPB(resp *raft.AppendResponse) *raftpb.AppendEntriesResponse {
	return &raftpb.AppendEntriesResponse{
		Term:          resp.Term,
		Success:       resp.Success,
		ConflictTerm:  resp.ConflictTerm,
		ConflictIndex: resp.ConflictIndex,
	}
}

func appendResponseFromPB(pbResp *raftpb.AppendEntriesResponse) *raft.AppendResponse {
	return &raft.AppendResponse{
		Term:          pbResp.Term,
		Success:       pbResp.Success,
		ConflictTerm:  pbResp.ConflictTerm,
		ConflictIndex: pbResp.ConflictIndex,
	}
}
