package unittest

import (
	"crypto/rand"

	"github.com/keelnetwork/keel/model/ledger"
)

func IdentifierFixture() ledger.Identifier {
	var id ledger.Identifier
	_, _ = rand.Read(id[:])
	return id
}

func SignedTransactionFixture() *ledger.SignedTransaction {
	script := make([]byte, 32)
	_, _ = rand.Read(script)
	sig := make([]byte, 64)
	_, _ = rand.Read(sig)
	return &ledger.SignedTransaction{
		Sender:    IdentifierFixture(),
		SeqNumber: 1,
		Script:    script,
		Signature: sig,
	}
}

func SignedTransactionsFixture(n int) []*ledger.SignedTransaction {
	txs := make([]*ledger.SignedTransaction, 0, n)
	for i := 0; i < n; i++ {
		txs = append(txs, SignedTransactionFixture())
	}
	return txs
}

// BlockFixture creates a block carrying n transactions. With n == 0 the
// payload is left nil, matching how consensus proposes empty blocks.
func BlockFixture(n int) *ledger.Block {
	block := &ledger.Block{
		BlockID:  IdentifierFixture(),
		ParentID: IdentifierFixture(),
		Round:    42,
	}
	if n > 0 {
		block.Payload = SignedTransactionsFixture(n)
	}
	return block
}

func LedgerInfoFixture(version ledger.Version) *ledger.LedgerInfoWithSignatures {
	signer := IdentifierFixture()
	sig := make([]byte, 64)
	_, _ = rand.Read(sig)
	return &ledger.LedgerInfoWithSignatures{
		LedgerInfo: ledger.LedgerInfo{
			Version:         version,
			AccumulatorRoot: IdentifierFixture(),
			ConsensusBlock:  IdentifierFixture(),
			TimestampUsecs:  1_700_000_000_000_000,
		},
		Signatures: map[ledger.Identifier][]byte{
			signer: sig,
		},
	}
}

func QuorumCertificateFixture(version ledger.Version) *ledger.QuorumCertificate {
	return &ledger.QuorumCertificate{
		CertifiedBlockID: IdentifierFixture(),
		SignedLedgerInfo: *LedgerInfoFixture(version),
	}
}

func ExecutedTreesFixture(txCount uint64) ledger.ExecutedTrees {
	return ledger.ExecutedTrees{
		StateRoot: IdentifierFixture(),
		TxCount:   txCount,
	}
}

func ProcessedOutputFixture(txCount int) *ledger.ProcessedOutput {
	effects := make([]*ledger.TransactionEffect, 0, txCount)
	for i := 0; i < txCount; i++ {
		effects = append(effects, &ledger.TransactionEffect{
			TxID:    IdentifierFixture(),
			Status:  ledger.TransactionStatusKept,
			GasUsed: 1,
		})
	}
	return &ledger.ProcessedOutput{
		Trees:   ExecutedTreesFixture(uint64(txCount)),
		Effects: effects,
	}
}

// ChunkFixture creates a well-formed transaction chunk covering versions
// [first, first+n-1].
func ChunkFixture(first ledger.Version, n int) *ledger.TransactionChunk {
	return &ledger.TransactionChunk{
		FirstVersion: first,
		Transactions: SignedTransactionsFixture(n),
		Proof:        []byte("accumulator proof"),
	}
}
