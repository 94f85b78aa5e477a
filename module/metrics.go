package module

import (
	"time"

	"github.com/keelnetwork/keel/model/ledger"
)

// ExecutionMetrics tracks the hot path of the state-computation bridge. The
// set of measured events is part of the operational contract; implementations
// decide names and units.
type ExecutionMetrics interface {
	// ExecutionEmptyBlockExecuted records the execution duration of a block
	// whose compute result carried zero transaction statuses.
	ExecutionEmptyBlockExecuted(dur time.Duration)

	// ExecutionBlockExecuted records the execution duration of a non-empty block.
	ExecutionBlockExecuted(dur time.Duration)

	// ExecutionTransactionExecuted records the average per-transaction
	// execution duration within a block.
	ExecutionTransactionExecuted(dur time.Duration)

	// ExecutionBlockCommitted records the duration of a durable commit of a
	// batch of certified blocks.
	ExecutionBlockCommitted(dur time.Duration)

	// ExecutionLastCommittedVersion records the ledger version of the latest
	// successful commit.
	ExecutionLastCommittedVersion(version ledger.Version)

	// ExecutionSyncRequested counts catch-up requests issued by consensus,
	// regardless of outcome.
	ExecutionSyncRequested()
}

// SyncMetrics tracks the progress of the synchronization coordinator.
type SyncMetrics interface {
	// SyncVersion records the coordinator's current synced version.
	SyncVersion(version ledger.Version)

	// SyncChunkApplied counts transactions applied through the catch-up path.
	SyncChunkApplied(txCount int)

	// SyncCompleted records the total duration of a finished catch-up run.
	SyncCompleted(dur time.Duration)
}
