package ledger

// ExecutedTrees is an opaque handle to the state after applying some prefix
// of the chain: the state tree root and the transaction accumulator position
// it corresponds to. It is produced by the execution capability and passed
// back as the parent context for speculative execution of a child block.
type ExecutedTrees struct {
	StateRoot Identifier
	TxCount   uint64
}

// Version returns the ledger version the trees correspond to, i.e. the
// version of the last transaction included in them.
func (t ExecutedTrees) Version() Version {
	if t.TxCount == 0 {
		return 0
	}
	return Version(t.TxCount - 1)
}

// TransactionEffect captures the state changes of one executed transaction.
// The write set is opaque at this layer.
type TransactionEffect struct {
	TxID     Identifier
	Status   TransactionStatus
	WriteSet []byte
	GasUsed  uint64
}

// ProcessedOutput is the result of speculatively executing one block: the
// resulting trees plus the per-transaction effects needed to later make the
// block durable. Outputs are shared read-only between the bridge and the
// execution capability; multiple in-flight commit batches may reference the
// same output concurrently.
type ProcessedOutput struct {
	Trees   ExecutedTrees
	Effects []*TransactionEffect
}

// ComputeResult summarizes execution outcomes for consensus vote
// construction. The length of Status is the authoritative transaction count
// of the executed block.
type ComputeResult struct {
	RootHash Identifier
	Status   []TransactionStatus
}

// TransactionCount returns the number of transactions in the executed block.
func (r *ComputeResult) TransactionCount() int {
	return len(r.Status)
}

// CommittableBlock pairs a block's ordered transactions with the output of
// its earlier speculative execution, ready to be made durable once a quorum
// certificate finalizes it.
type CommittableBlock struct {
	Transactions []*SignedTransaction
	Output       *ProcessedOutput
}

// PayloadWithOutput is what consensus hands back for committing: the ordered
// payload of a speculatively executed block together with the output produced
// when it was computed.
type PayloadWithOutput struct {
	Payload []*SignedTransaction
	Output  *ProcessedOutput
}
