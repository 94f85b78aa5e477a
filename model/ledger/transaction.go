package ledger

import (
	"encoding/binary"
)

// SignedTransaction is a user transaction as submitted to the mempool and
// ordered into block payloads by consensus. The script is opaque to this
// layer; only the execution capability interprets it.
type SignedTransaction struct {
	Sender    Identifier
	SeqNumber uint64
	Script    []byte
	Signature []byte
}

// ID returns the content hash of the transaction.
func (tx *SignedTransaction) ID() Identifier {
	data := make([]byte, 0, len(tx.Sender)+8+len(tx.Script)+len(tx.Signature))
	data = append(data, tx.Sender[:]...)
	data = binary.BigEndian.AppendUint64(data, tx.SeqNumber)
	data = append(data, tx.Script...)
	data = append(data, tx.Signature...)
	return HashIdentifier(data)
}

// TransactionStatus is the per-transaction outcome of speculative execution,
// reported back to consensus for vote construction.
type TransactionStatus int

const (
	// TransactionStatusUnknown indicates the transaction was not executed.
	TransactionStatusUnknown TransactionStatus = iota
	// TransactionStatusKept indicates the transaction executed and its effects
	// are part of the block output.
	TransactionStatusKept
	// TransactionStatusDiscarded indicates the transaction was rejected during
	// execution and contributes no state changes.
	TransactionStatusDiscarded
)

func (s TransactionStatus) String() string {
	switch s {
	case TransactionStatusKept:
		return "KEPT"
	case TransactionStatusDiscarded:
		return "DISCARDED"
	default:
		return "UNKNOWN"
	}
}
