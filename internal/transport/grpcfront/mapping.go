package grpcfront

import (
	"github.com/lrudenko/raftkv/internal/raft"
	clusterpb "github.com/lrudenko/raftkv/pkg/proto/clusterv1"
)

func infoStateToPB(state raft.AdminState, text string) *clusterpb.InfoResponse {
	peers := make([]*clusterpb.InfoPeer, 0, len(state.Peers))
	for _, p := range state.Peers {
		peerState := "nonvoting"
		if p.Voting {
			peerState = "voting"
		}
		peers = append(peers, &clusterpb.InfoPeer{
			Id:    uint32(p.NodeID),
			State: peerState,
		})
	}
	return &clusterpb.InfoResponse{
		NodeId:           uint32(state.NodeID),
		Role:             state.Role.String(),
		LeaderId:         uint32(state.LeaderID),
		CurrentTerm:      state.Term,
		Peers:            peers,
		LogEntries:       state.LastLogIndex,
		CurrentIndex:     state.LastLogIndex,
		CommitIndex:      state.CommitIndex,
		LastAppliedIndex: state.LastApplied,
		Status:           text,
	}
}
