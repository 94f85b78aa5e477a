package synchronization

import (
	"context"

	"github.com/keelnetwork/keel/model/ledger"
)

// ChunkFetcher downloads runs of committed transactions from peers or a
// storage service during catch-up. Implementations decide where the data
// comes from; the coordinator only relies on the returned chunk starting at
// the requested version and carrying at most limit transactions.
type ChunkFetcher interface {
	// FetchChunk retrieves the chunk of committed transactions starting at
	// the given version, bounded by limit and by the certified target. The
	// target ledger info is passed along so the source can prove the chunk
	// against the certified accumulator root.
	FetchChunk(
		ctx context.Context,
		from ledger.Version,
		limit uint64,
		target *ledger.LedgerInfoWithSignatures,
	) (*ledger.TransactionChunk, error)
}
