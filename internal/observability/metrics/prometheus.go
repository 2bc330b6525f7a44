//revive:disable:var-naming
//revive:disable:exported
package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus exposes application metrics and can be injected into the
// engine and coordinator layers. It implements internal/raft.Metrics
// through method set compatibility, without importing that package.
type Prometheus struct {
	appendEntriesRPCDuration *prometheus.HistogramVec
	appendEntriesRejectTotal *prometheus.CounterVec
	appendEntriesRPCError    *prometheus.CounterVec
	electionStartedTotal     *prometheus.CounterVec
	electionWonTotal         *prometheus.CounterVec
	electionLostTotal        *prometheus.CounterVec
	storageErrorTotal        *prometheus.CounterVec
	applyLag                 *prometheus.GaugeVec
	isLeader                 *prometheus.GaugeVec
	startToCommitDuration    *prometheus.HistogramVec
	commitToApplyDuration    *prometheus.HistogramVec
	queueDepth               *prometheus.GaugeVec
}

func NewPrometheus(reg prometheus.Registerer) (*Prometheus, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Prometheus{
		appendEntriesRPCDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "raftkv",
				Subsystem: "raft",
				Name:      "appendentries_rpc_duration_seconds",
				Help:      "Duration of outbound AppendEntries RPC calls from a leader to a peer.",
				Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.02, 0.05, 0.1, 0.2, 0.5},
			},
			[]string{"node_id", "peer_id", "heartbeat"},
		),
		appendEntriesRejectTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "raftkv",
				Subsystem: "raft",
				Name:      "appendentries_reject_total",
				Help:      "Number of AppendEntries rejections received from peers.",
			},
			[]string{"node_id", "peer_id", "heartbeat"},
		),
		appendEntriesRPCError: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "raftkv",
				Subsystem: "raft",
				Name:      "appendentries_rpc_error_total",
				Help:      "Outbound AppendEntries RPC errors by kind.",
			},
			[]string{"node_id", "peer_id", "heartbeat", "kind"},
		),
		electionStartedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "raftkv",
				Subsystem: "raft",
				Name:      "election_started_total",
				Help:      "Number of times a node started an election as candidate.",
			},
			[]string{"node_id"},
		),
		electionWonTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "raftkv",
				Subsystem: "raft",
				Name:      "election_won_total",
				Help:      "Number of elections won by a node.",
			},
			[]string{"node_id"},
		),
		electionLostTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "raftkv",
				Subsystem: "raft",
				Name:      "election_lost_total",
				Help:      "Number of elections lost/aborted by reason.",
			},
			[]string{"node_id", "reason"},
		),
		storageErrorTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "raftkv",
				Subsystem: "raft",
				Name:      "storage_error_total",
				Help:      "Raft storage persistence errors by operation.",
			},
			[]string{"node_id", "op"},
		),
		applyLag: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "raftkv",
				Subsystem: "raft",
				Name:      "apply_lag",
				Help:      "Difference between commitIndex and lastApplied on a node.",
			},
			[]string{"node_id"},
		),
		isLeader: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "raftkv",
				Subsystem: "raft",
				Name:      "is_leader",
				Help:      "1 if node currently believes it is leader, otherwise 0.",
			},
			[]string{"node_id"},
		),
		startToCommitDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "raftkv",
				Subsystem: "raft",
				Name:      "start_to_commit_duration_seconds",
				Help:      "Time from a command being proposed to commitIndex covering that entry.",
				Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.02, 0.05, 0.1, 0.2, 0.5},
			},
			[]string{"node_id"},
		),
		commitToApplyDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "raftkv",
				Subsystem: "raft",
				Name:      "commit_to_apply_duration_seconds",
				Help:      "Time from commitIndex advancing over an entry to that entry being applied.",
				Buckets:   []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.02, 0.05, 0.1},
			},
			[]string{"node_id"},
		),
		queueDepth: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "raftkv",
				Subsystem: "raftnode",
				Name:      "queue_depth",
				Help:      "Number of requests the coordinator took from its request queue in the last drain.",
			},
			[]string{"node_id"},
		),
	}

	if err := m.register(reg); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Prometheus) register(reg prometheus.Registerer) error {
	if err := registerOrReuseHistogramVec(reg, &m.appendEntriesRPCDuration); err != nil {
		return fmt.Errorf("register appendentries rpc histogram: %w", err)
	}
	if err := registerOrReuseCounterVec(reg, &m.appendEntriesRejectTotal); err != nil {
		return fmt.Errorf("register appendentries reject counter: %w", err)
	}
	if err := registerOrReuseCounterVec(reg, &m.appendEntriesRPCError); err != nil {
		return fmt.Errorf("register appendentries rpc error counter: %w", err)
	}
	if err := registerOrReuseCounterVec(reg, &m.electionStartedTotal); err != nil {
		return fmt.Errorf("register election started counter: %w", err)
	}
	if err := registerOrReuseCounterVec(reg, &m.electionWonTotal); err != nil {
		return fmt.Errorf("register election won counter: %w", err)
	}
	if err := registerOrReuseCounterVec(reg, &m.electionLostTotal); err != nil {
		return fmt.Errorf("register election lost counter: %w", err)
	}
	if err := registerOrReuseCounterVec(reg, &m.storageErrorTotal); err != nil {
		return fmt.Errorf("register storage error counter: %w", err)
	}
	if err := registerOrReuseGaugeVec(reg, &m.applyLag); err != nil {
		return fmt.Errorf("register apply lag gauge: %w", err)
	}
	if err := registerOrReuseGaugeVec(reg, &m.isLeader); err != nil {
		return fmt.Errorf("register is_leader gauge: %w", err)
	}
	if err := registerOrReuseHistogramVec(reg, &m.startToCommitDuration); err != nil {
		return fmt.Errorf("register start->commit histogram: %w", err)
	}
	if err := registerOrReuseHistogramVec(reg, &m.commitToApplyDuration); err != nil {
		return fmt.Errorf("register commit->apply histogram: %w", err)
	}
	if err := registerOrReuseGaugeVec(reg, &m.queueDepth); err != nil {
		return fmt.Errorf("register queue depth gauge: %w", err)
	}
	return nil
}

func registerOrReuseHistogramVec(reg prometheus.Registerer, c **prometheus.HistogramVec) error {
	if err := reg.Register(*c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if !errors.As(err, &already) {
			return err
		}
		existing, ok := already.ExistingCollector.(*prometheus.HistogramVec)
		if !ok {
			return fmt.Errorf("collector type mismatch for %T", *c)
		}
		*c = existing
	}
	return nil
}

func registerOrReuseCounterVec(reg prometheus.Registerer, c **prometheus.CounterVec) error {
	if err := reg.Register(*c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if !errors.As(err, &already) {
			return err
		}
		existing, ok := already.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return fmt.Errorf("collector type mismatch for %T", *c)
		}
		*c = existing
	}
	return nil
}

func registerOrReuseGaugeVec(reg prometheus.Registerer, c **prometheus.GaugeVec) error {
	if err := reg.Register(*c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if !errors.As(err, &already) {
			return err
		}
		existing, ok := already.ExistingCollector.(*prometheus.GaugeVec)
		if !ok {
			return fmt.Errorf("collector type mismatch for %T", *c)
		}
		*c = existing
	}
	return nil
}

// ObserveAppendEntriesRPCDuration, IncAppendEntriesReject, ... satisfy
// internal/raft.Metrics.

func (m *Prometheus) ObserveAppendEntriesRPCDuration(nodeID, peerID string, heartbeat bool, d time.Duration) {
	m.appendEntriesRPCDuration.WithLabelValues(nodeID, peerID, boolString(heartbeat)).Observe(d.Seconds())
}

func (m *Prometheus) IncAppendEntriesReject(nodeID, peerID string, heartbeat bool) {
	m.appendEntriesRejectTotal.WithLabelValues(nodeID, peerID, boolString(heartbeat)).Inc()
}

func (m *Prometheus) IncAppendEntriesRPCError(nodeID, peerID string, heartbeat bool, kind string) {
	m.appendEntriesRPCError.WithLabelValues(nodeID, peerID, boolString(heartbeat), kind).Inc()
}

func (m *Prometheus) IncElectionStarted(nodeID string) {
	m.electionStartedTotal.WithLabelValues(nodeID).Inc()
}

func (m *Prometheus) IncElectionWon(nodeID string) {
	m.electionWonTotal.WithLabelValues(nodeID).Inc()
}

func (m *Prometheus) IncElectionLost(nodeID, reason string) {
	m.electionLostTotal.WithLabelValues(nodeID, reason).Inc()
}

func (m *Prometheus) IncStorageError(nodeID, op string) {
	m.storageErrorTotal.WithLabelValues(nodeID, op).Inc()
}

func (m *Prometheus) SetApplyLag(nodeID string, lag int64) {
	if lag < 0 {
		lag = 0
	}
	m.applyLag.WithLabelValues(nodeID).Set(float64(lag))
}

func (m *Prometheus) SetIsLeader(nodeID string, isLeader bool) {
	if isLeader {
		m.isLeader.WithLabelValues(nodeID).Set(1)
		return
	}
	m.isLeader.WithLabelValues(nodeID).Set(0)
}

func (m *Prometheus) ObserveStartToCommitDuration(nodeID string, d time.Duration) {
	m.startToCommitDuration.WithLabelValues(nodeID).Observe(d.Seconds())
}

func (m *Prometheus) ObserveCommitToApplyDuration(nodeID string, d time.Duration) {
	m.commitToApplyDuration.WithLabelValues(nodeID).Observe(d.Seconds())
}

// SetQueueDepth records how many requests the coordinator took from its
// request queue in the last drain. Not part of internal/raft.Metrics; called directly by
// internal/raftnode.
func (m *Prometheus) SetQueueDepth(nodeID string, depth int) {
	if depth < 0 {
		depth = 0
	}
	m.queueDepth.WithLabelValues(nodeID).Set(float64(depth))
}

func boolString(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
