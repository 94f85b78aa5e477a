package module

import (
	"context"

	"github.com/keelnetwork/keel/model/ledger"
)

// StateComputer is the contract consensus depends on to turn its ordering
// decisions into executed and durable ledger state. It is the seam that
// allows the execution and storage stack to be swapped without touching
// consensus.
type StateComputer interface {
	// Compute speculatively executes the block against the trees resulting
	// from its parent. The compute result's status list length is the
	// authoritative transaction count of the block.
	Compute(ctx context.Context, block *ledger.Block, parentTrees ledger.ExecutedTrees) (*ledger.ProcessedOutput, *ledger.ComputeResult, error)

	// Commit durably commits an ordered run of previously computed blocks
	// that the given proof now certifies as final. All-or-nothing per call.
	Commit(ctx context.Context, blocks []*ledger.PayloadWithOutput, proof *ledger.LedgerInfoWithSignatures) error

	// SyncTo brings the local replica up to the ledger state certified by the
	// quorum certificate. Returns true when a catch-up actually ran.
	SyncTo(ctx context.Context, qc *ledger.QuorumCertificate) (bool, error)

	// CommittedTrees returns the trees of the current durable state.
	CommittedTrees() ledger.ExecutedTrees
}
