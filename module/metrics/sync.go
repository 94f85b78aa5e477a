package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/keelnetwork/keel/model/ledger"
	"github.com/keelnetwork/keel/module"
)

// SyncCollector tracks the synchronization coordinator's progress.
type SyncCollector struct {
	syncedVersionGauge prometheus.Gauge
	appliedTxTotal     prometheus.Counter
	appliedChunksTotal prometheus.Counter
	catchupDuration    prometheus.Histogram
}

var _ module.SyncMetrics = (*SyncCollector)(nil)

func NewSyncCollector(registerer prometheus.Registerer) *SyncCollector {

	syncedVersionGauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespaceSync,
		Subsystem: subsystemCoordinator,
		Name:      "synced_version",
		Help:      "ledger version the local replica has durably reached",
	})

	appliedTxTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespaceSync,
		Subsystem: subsystemCoordinator,
		Name:      "applied_transactions_total",
		Help:      "number of transactions applied through the catch-up path",
	})

	appliedChunksTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespaceSync,
		Subsystem: subsystemCoordinator,
		Name:      "applied_chunks_total",
		Help:      "number of transaction chunks applied through the catch-up path",
	})

	catchupDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespaceSync,
		Subsystem: subsystemCoordinator,
		Name:      "catchup_duration_seconds",
		Help:      "total duration of a finished catch-up run",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
	})

	registerer.MustRegister(
		syncedVersionGauge,
		appliedTxTotal,
		appliedChunksTotal,
		catchupDuration,
	)

	return &SyncCollector{
		syncedVersionGauge: syncedVersionGauge,
		appliedTxTotal:     appliedTxTotal,
		appliedChunksTotal: appliedChunksTotal,
		catchupDuration:    catchupDuration,
	}
}

func (sc *SyncCollector) SyncVersion(version ledger.Version) {
	sc.syncedVersionGauge.Set(float64(version))
}

func (sc *SyncCollector) SyncChunkApplied(txCount int) {
	sc.appliedChunksTotal.Inc()
	sc.appliedTxTotal.Add(float64(txCount))
}

func (sc *SyncCollector) SyncCompleted(dur time.Duration) {
	sc.catchupDuration.Observe(dur.Seconds())
}
