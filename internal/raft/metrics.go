package raft

import "time"

// Metrics captures engine-level metric sinks. Grounded on the teacher
// pack's pattern of a narrow, verb-named interface implemented by an
// injected Prometheus adapter, with a noop default so metrics stay optional.
type Metrics interface {
	ObserveAppendEntriesRPCDuration(nodeID string, peerID string, heartbeat bool, d time.Duration)
	IncAppendEntriesReject(nodeID, peerID string, heartbeat bool)
	IncAppendEntriesRPCError(nodeID, peerID string, heartbeat bool, kind string)
	IncElectionStarted(nodeID string)
	IncElectionWon(nodeID string)
	IncElectionLost(nodeID, reason string)
	IncStorageError(nodeID, op string)
	SetApplyLag(nodeID string, lag int64)
	SetIsLeader(nodeID string, isLeader bool)
	ObserveStartToCommitDuration(nodeID string, d time.Duration)
	ObserveCommitToApplyDuration(nodeID string, d time.Duration)
}

type noopMetrics struct{}

func (noopMetrics) ObserveAppendEntriesRPCDuration(string, string, bool, time.Duration) {}
func (noopMetrics) IncAppendEntriesReject(string, string, bool)                         {}
func (noopMetrics) IncAppendEntriesRPCError(string, string, bool, string)               {}
func (noopMetrics) IncElectionStarted(string)                                           {}
func (noopMetrics) IncElectionWon(string)                                               {}
func (noopMetrics) IncElectionLost(string, string)                                      {}
func (noopMetrics) IncStorageError(string, string)                                      {}
func (noopMetrics) SetApplyLag(string, int64)                                           {}
func (noopMetrics) SetIsLeader(string, bool)                                            {}
func (noopMetrics) ObserveStartToCommitDuration(string, time.Duration)                  {}
func (noopMetrics) ObserveCommitToApplyDuration(string, time.Duration)                  {}
