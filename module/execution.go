package module

import (
	"context"

	"github.com/keelnetwork/keel/model/ledger"
)

// Execution is the deterministic execution capability consumed by the commit
// bridge and the synchronization engine. It is implemented by the production
// execution stack and by test doubles; callers depend only on this interface.
//
// Serialization of the execute/commit entry points is enforced by the
// implementation, not by callers.
type Execution interface {
	// ExecuteBlock speculatively executes the ordered transaction batch
	// against the given parent trees. The parent trees must be the state
	// resulting from applying the chain up to parentID, otherwise the result
	// is meaningless. An empty batch is valid and produces an output with no
	// effects.
	ExecuteBlock(
		ctx context.Context,
		transactions []*ledger.SignedTransaction,
		parentTrees ledger.ExecutedTrees,
		parentID ledger.Identifier,
		blockID ledger.Identifier,
	) (*ledger.ProcessedOutput, *ledger.ComputeResult, error)

	// CommitBlocks durably commits a contiguous ordered run of previously
	// executed blocks, certified final by the given proof. The commit is
	// atomic per call; partial commits are never exposed.
	CommitBlocks(
		ctx context.Context,
		blocks []*ledger.CommittableBlock,
		proof *ledger.LedgerInfoWithSignatures,
	) error

	// ApplyChunk verifies a downloaded transaction chunk against the target
	// ledger info and applies it to durable state. Used by the catch-up path
	// of the synchronization engine.
	ApplyChunk(
		ctx context.Context,
		chunk *ledger.TransactionChunk,
		target *ledger.LedgerInfoWithSignatures,
	) error

	// CommittedTrees returns the trees corresponding to the current durably
	// committed state. It must always succeed while the capability is alive.
	CommittedTrees() ledger.ExecutedTrees
}
