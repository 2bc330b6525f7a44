package raftnode

import (
	"context"
	"strconv"
	"time"
)

// tickInterval matches the 500ms periodic-tick resolution the engine was
// designed around.
const tickInterval = 500 * time.Millisecond

// Run is the single replication goroutine: it drives the engine's periodic
// clock and drains the request queue until ctx is canceled or the node is
// removed from the cluster. It must be started exactly once per Node.
func (n *Node) Run(ctx context.Context) error {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			n.Shutdown()
			return ctx.Err()

		case <-ticker.C:
			n.engine.Periodic(ctx, tickInterval.Milliseconds())
			if err := n.engine.ApplyAll(); err != nil {
				n.handleApplyTerminal(err)
			}
			if n.terminal() {
				n.Shutdown()
				return n.shutdownErrLocked()
			}

		case <-n.queue.Wakeup():
			items := n.queue.Drain()
			n.reportQueueDepth(len(items))
			for _, req := range items {
				n.dispatch(ctx, req)
				if n.terminal() {
					n.Shutdown()
					return n.shutdownErrLocked()
				}
			}
		}
	}
}

// queueDepthSetter is implemented by metrics backends that track the
// coordinator's queue length; not every raft.Metrics implementation does
// (it isn't part of that interface), so this is checked with an optional
// type assertion.
type queueDepthSetter interface {
	SetQueueDepth(nodeID string, depth int)
}

func (n *Node) reportQueueDepth(depth int) {
	if setter, ok := n.metrics.(queueDepthSetter); ok {
		setter.SetQueueDepth(strconv.FormatUint(uint64(n.id), 10), depth)
	}
}

func (n *Node) terminal() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.shutdownErr != nil
}

func (n *Node) shutdownErrLocked() error {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.shutdownErr
}
