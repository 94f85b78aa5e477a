package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/keelnetwork/keel/model/ledger"
	"github.com/keelnetwork/keel/module"
)

// ExecutionCollector tracks the hot path of the state-computation bridge:
// block execution and commit durations plus the last committed version.
type ExecutionCollector struct {
	emptyBlockExecutionDuration  prometheus.Histogram
	blockExecutionDuration       prometheus.Histogram
	transactionExecutionDuration prometheus.Histogram
	blockCommitDuration          prometheus.Histogram
	lastCommittedVersionGauge    prometheus.Gauge
	syncRequestedCounter         prometheus.Counter
}

var _ module.ExecutionMetrics = (*ExecutionCollector)(nil)

func NewExecutionCollector(registerer prometheus.Registerer) *ExecutionCollector {

	emptyBlockExecutionDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespaceExecution,
		Subsystem: subsystemBridge,
		Name:      "empty_block_execution_duration_seconds",
		Help:      "duration of executing a block with no transactions",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2},
	})

	blockExecutionDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespaceExecution,
		Subsystem: subsystemBridge,
		Name:      "block_execution_duration_seconds",
		Help:      "duration of executing a non-empty block",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
	})

	transactionExecutionDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespaceExecution,
		Subsystem: subsystemBridge,
		Name:      "transaction_execution_duration_seconds",
		Help:      "average duration of executing a single transaction within a block",
		Buckets:   []float64{0.0001, 0.001, 0.01, 0.05, 0.1, 0.5, 1},
	})

	blockCommitDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespaceExecution,
		Subsystem: subsystemBridge,
		Name:      "block_commit_duration_seconds",
		Help:      "duration of durably committing a batch of certified blocks",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
	})

	lastCommittedVersionGauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespaceExecution,
		Subsystem: subsystemBridge,
		Name:      "last_committed_version",
		Help:      "ledger version of the latest successful commit",
	})

	syncRequestedCounter := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespaceExecution,
		Subsystem: subsystemBridge,
		Name:      "sync_requested_total",
		Help:      "number of catch-up requests issued by consensus",
	})

	registerer.MustRegister(
		emptyBlockExecutionDuration,
		blockExecutionDuration,
		transactionExecutionDuration,
		blockCommitDuration,
		lastCommittedVersionGauge,
		syncRequestedCounter,
	)

	return &ExecutionCollector{
		emptyBlockExecutionDuration:  emptyBlockExecutionDuration,
		blockExecutionDuration:       blockExecutionDuration,
		transactionExecutionDuration: transactionExecutionDuration,
		blockCommitDuration:          blockCommitDuration,
		lastCommittedVersionGauge:    lastCommittedVersionGauge,
		syncRequestedCounter:         syncRequestedCounter,
	}
}

func (ec *ExecutionCollector) ExecutionEmptyBlockExecuted(dur time.Duration) {
	ec.emptyBlockExecutionDuration.Observe(dur.Seconds())
}

func (ec *ExecutionCollector) ExecutionBlockExecuted(dur time.Duration) {
	ec.blockExecutionDuration.Observe(dur.Seconds())
}

func (ec *ExecutionCollector) ExecutionTransactionExecuted(dur time.Duration) {
	ec.transactionExecutionDuration.Observe(dur.Seconds())
}

func (ec *ExecutionCollector) ExecutionBlockCommitted(dur time.Duration) {
	ec.blockCommitDuration.Observe(dur.Seconds())
}

func (ec *ExecutionCollector) ExecutionLastCommittedVersion(version ledger.Version) {
	ec.lastCommittedVersionGauge.Set(float64(version))
}

func (ec *ExecutionCollector) ExecutionSyncRequested() {
	ec.syncRequestedCounter.Inc()
}
