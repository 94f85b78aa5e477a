package ledger

import (
	"fmt"
)

// TransactionChunk is a contiguous run of committed transactions downloaded
// during catch-up, starting at FirstVersion. The proof ties the chunk to the
// accumulator root of the certified target ledger info; its verification is
// the job of the execution capability's apply path.
type TransactionChunk struct {
	FirstVersion Version
	Transactions []*SignedTransaction
	Proof        []byte
}

// LastVersion returns the version of the final transaction in the chunk.
// Must not be called on an empty chunk.
func (c *TransactionChunk) LastVersion() Version {
	return c.FirstVersion + Version(len(c.Transactions)) - 1
}

// WellFormed checks the structural validity of the chunk: it must carry at
// least one transaction and all transactions must be present.
func (c *TransactionChunk) WellFormed() error {
	if len(c.Transactions) == 0 {
		return fmt.Errorf("chunk starting at version %d carries no transactions", c.FirstVersion)
	}
	for i, tx := range c.Transactions {
		if tx == nil {
			return fmt.Errorf("chunk starting at version %d has nil transaction at offset %d", c.FirstVersion, i)
		}
	}
	return nil
}
