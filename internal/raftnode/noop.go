package raftnode

import (
	"time"
)

// noopLogger satisfies raft.Logger for a coordinator constructed without an
// explicit logger.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// noopMetrics satisfies raft.Metrics for a coordinator constructed without
// an explicit metrics sink.
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
