package metrics

import (
	"time"

	"github.com/keelnetwork/keel/model/ledger"
	"github.com/keelnetwork/keel/module"
)

// NoopCollector implements all metrics interfaces with no-ops, for tests and
// tools that do not report metrics.
type NoopCollector struct{}

var _ module.ExecutionMetrics = (*NoopCollector)(nil)
var _ module.SyncMetrics = (*NoopCollector)(nil)

func NewNoopCollector() *NoopCollector {
	return &NoopCollector{}
}

func (nc *NoopCollector) ExecutionEmptyBlockExecuted(dur time.Duration)           {}
func (nc *NoopCollector) ExecutionBlockExecuted(dur time.Duration)                {}
func (nc *NoopCollector) ExecutionTransactionExecuted(dur time.Duration)          {}
func (nc *NoopCollector) ExecutionBlockCommitted(dur time.Duration)               {}
func (nc *NoopCollector) ExecutionLastCommittedVersion(version ledger.Version)    {}
func (nc *NoopCollector) ExecutionSyncRequested()                                 {}
func (nc *NoopCollector) SyncVersion(version ledger.Version)                      {}
func (nc *NoopCollector) SyncChunkApplied(txCount int)                            {}
func (nc *NoopCollector) SyncCompleted(dur time.Duration)                         {}
