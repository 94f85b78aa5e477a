// Package bridge implements the state-computation bridge: the adapter through
// which consensus speculatively executes proposed blocks, durably commits
// certified runs of executed blocks, and triggers catch-up when the local
// replica falls behind a certified ledger state.
package bridge

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/keelnetwork/keel/model/ledger"
	"github.com/keelnetwork/keel/module"
)

// Bridge delegates computation to the execution capability and catch-up to
// the synchronization coordinator, translating between the vocabularies of
// consensus and the lower layers. It owns no mutable state beyond shared
// handles and is safe for concurrent use.
type Bridge struct {
	log     zerolog.Logger
	metrics module.ExecutionMetrics
	exec    module.Execution
	sync    module.StateSynchronizer
}

var _ module.StateComputer = (*Bridge)(nil)

func New(
	log zerolog.Logger,
	metrics module.ExecutionMetrics,
	exec module.Execution,
	sync module.StateSynchronizer,
) *Bridge {
	return &Bridge{
		log:     log.With().Str("engine", "bridge").Logger(),
		metrics: metrics,
		exec:    exec,
		sync:    sync,
	}
}

// Compute speculatively executes the block against the given parent trees.
// The parent trees must correspond to the block's declared parent. An empty
// payload is executed as a zero-transaction batch, not treated as an error.
//
// Execution failures are propagated to the caller unchanged; retry policy
// belongs to consensus, not this layer.
func (b *Bridge) Compute(
	ctx context.Context,
	block *ledger.Block,
	parentTrees ledger.ExecutedTrees,
) (*ledger.ProcessedOutput, *ledger.ComputeResult, error) {

	start := time.Now()
	output, result, err := b.exec.ExecuteBlock(ctx, block.Transactions(), parentTrees, block.ParentID, block.ID())
	if err != nil {
		return nil, nil, fmt.Errorf("could not execute block %v: %w", block.ID(), err)
	}

	executionDuration := time.Since(start)
	txCount := result.TransactionCount()
	if txCount == 0 {
		b.metrics.ExecutionEmptyBlockExecuted(executionDuration)
	} else {
		b.metrics.ExecutionBlockExecuted(executionDuration)
		if perTx, ok := averageTransactionDuration(executionDuration, txCount); ok {
			b.metrics.ExecutionTransactionExecuted(perTx)
		}
	}

	return output, result, nil
}

// averageTransactionDuration computes the per-transaction share of a block's
// execution duration. It reports ok=false instead of producing a nonsensical
// observation when the total duration is negative (clock anomaly); this
// cannot legitimately occur but must not crash the hot path.
func averageTransactionDuration(total time.Duration, txCount int) (time.Duration, bool) {
	if txCount <= 0 || total < 0 {
		return 0, false
	}
	return total / time.Duration(txCount), true
}

// Commit reconstructs the committable batches from the given payload/output
// pairs and delegates atomic durability to the execution capability. On
// success the last-committed-version gauge is set to the proof's version and
// the synchronization coordinator is informed of the new version.
//
// Failure to notify the coordinator is logged, not propagated: the durable
// commit has already succeeded and must not appear failed because of a
// downstream notification issue.
func (b *Bridge) Commit(
	ctx context.Context,
	blocks []*ledger.PayloadWithOutput,
	proof *ledger.LedgerInfoWithSignatures,
) error {

	committable := make([]*ledger.CommittableBlock, 0, len(blocks))
	for _, pair := range blocks {
		committable = append(committable, &ledger.CommittableBlock{
			Transactions: pair.Payload,
			Output:       pair.Output,
		})
	}

	start := time.Now()
	err := b.exec.CommitBlocks(ctx, committable, proof)
	if err != nil {
		return fmt.Errorf("could not commit %d blocks at version %d: %w", len(blocks), proof.Version(), err)
	}
	b.metrics.ExecutionBlockCommitted(time.Since(start))

	version := proof.Version()
	b.metrics.ExecutionLastCommittedVersion(version)

	err = b.sync.NotifyCommit(ctx, version)
	if err != nil {
		b.log.Error().Err(err).
			Uint64("version", uint64(version)).
			Msg("failed to notify synchronization coordinator of commit")
	}

	return nil
}

// SyncTo extracts the certificate's certified ledger info and asks the
// coordinator to catch up to it. Returns whether a sync actually ran versus
// the replica already being current.
func (b *Bridge) SyncTo(ctx context.Context, qc *ledger.QuorumCertificate) (bool, error) {
	b.metrics.ExecutionSyncRequested()

	synced, err := b.sync.SyncTo(ctx, qc.LedgerInfo())
	if err != nil {
		return false, fmt.Errorf("could not sync to version %d: %w", qc.LedgerInfo().Version(), err)
	}
	return synced, nil
}

// CommittedTrees returns the execution capability's current durable snapshot.
func (b *Bridge) CommittedTrees() ledger.ExecutedTrees {
	return b.exec.CommittedTrees()
}
