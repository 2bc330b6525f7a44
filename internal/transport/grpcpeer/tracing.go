package grpcpeer

import (
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/lrudenko/raftkv/internal/raft"
	raftpb "github.com/lrudenko/raftkv/pkg/proto/raftv1"
)

func recordSpanError(span oteltrace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(otelcodes.Error, err.Error())
}

func clientRequestVoteAttrs(target string, req *raft.VoteRequest) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("raft.peer.target", target),
		attribute.Int64("raft.term", req.Term),
		attribute.Int64("raft.candidate_id", int64(req.CandidateID)),
		attribute.Int64("raft.last_log_index", req.LastLogIndex),
		attribute.Int64("raft.last_log_term", req.LastLogTerm),
	}
}

func clientAppendEntriesAttrs(target string, req *raft.AppendRequest) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("raft.peer.target", target),
		attribute.Int64("raft.term", req.Term),
		attribute.Int64("raft.leader_id", int64(req.LeaderID)),
		attribute.Int64("raft.prev_log_index", req.PrevLogIndex),
		attribute.Int64("raft.prev_log_term", req.PrevLogTerm),
		attribute.Int("raft.entries_count", len(req.Entries)),
		attribute.Bool("raft.is_heartbeat", len(req.Entries) == 0),
		attribute.Int64("raft.leader_commit", req.LeaderCommit),
	}
}

func serverRequestVoteAttrs(req *raftpb.RequestVoteRequest) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int64("raft.src_node_id", int64(req.SrcNodeId)),
		attribute.Int64("raft.term", req.Term),
		attribute.Int64("raft.candidate_id", int64(req.CandidateId)),
		attribute.Int64("raft.last_log_index", req.LastLogIndex),
		attribute.Int64("raft.last_log_term", req.LastLogTerm),
	}
}

func serverAppendEntriesAttrs(req *raftpb.AppendEntriesRequest) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int64("raft.src_node_id", int64(req.SrcNodeId)),
		attribute.Int64("raft.term", req.Term),
		attribute.Int64("raft.leader_id", int64(req.LeaderId)),
		attribute.Int64("raft.prev_log_index", req.PrevLogIndex),
		attribute.Int64("raft.prev_log_term", req.PrevLogTerm),
		attribute.Int("raft.entries_count", len(req.Entries)),
		attribute.Bool("raft.is_heartbeat", len(req.Entries) == 0),
		attribute.Int64("raft.leader_commit", req.LeaderCommit),
	}
}
