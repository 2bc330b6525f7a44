package raft

import (
	"errors"
	"time"
)

// ApplyAll executes every committed entry that has not yet been applied, in
// order, via Callbacks.ApplyLog. The owner must call this once after every
// Periodic tick and after any event that may have advanced commitIndex
// (RecvAppendEntries, RecvAppendEntriesResponse, ProposeCommand).
func (e *Engine) ApplyAll() error {
	for e.lastApplied < e.commitIndex {
		nextIndex := e.lastApplied + 1
		if nextIndex > e.lastLogIndex() {
			return nil
		}
		entry := e.entryAt(nextIndex)

		e.logger.Debug("applying log entry", "node_id", e.id, "index", nextIndex, "term", entry.Term)

		err := e.cb.ApplyLog(nextIndex, entry)
		e.lastApplied = nextIndex
		now := time.Now()
		e.lastAppliedAt = now
		if start, ok := e.commitStartedAt[nextIndex]; ok {
			e.metrics.ObserveCommitToApplyDuration(e.nodeIDStr(), now.Sub(start))
			delete(e.commitStartedAt, nextIndex)
		}
		e.metrics.SetApplyLag(e.nodeIDStr(), e.commitIndex-e.lastApplied)

		if err != nil {
			if errors.Is(err, ErrSelfRemoved) {
				return err
			}
			e.logger.Error("apply failed", "node_id", e.id, "index", nextIndex, "error", err)
		}
	}
	return nil
}
