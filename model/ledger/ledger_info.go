package ledger

// Version is a position in the globally ordered ledger of committed
// transactions. It increases monotonically and never rolls back.
type Version uint64

// LedgerInfo describes a specific ledger state: the version it has reached,
// the accumulator root that commits to its full transaction history, and the
// consensus block that produced it.
type LedgerInfo struct {
	Version         Version
	AccumulatorRoot Identifier
	ConsensusBlock  Identifier
	TimestampUsecs  uint64
}

// LedgerInfoWithSignatures is a finality proof: a LedgerInfo together with
// signatures from a supermajority of validators attesting that the described
// ledger state is final. Produced by consensus, consumed here as evidence for
// commits and sync targets.
type LedgerInfoWithSignatures struct {
	LedgerInfo LedgerInfo
	// Signatures maps a validator identifier to its signature over LedgerInfo.
	Signatures map[Identifier][]byte
}

// Version returns the certified ledger version.
func (li *LedgerInfoWithSignatures) Version() Version {
	return li.LedgerInfo.Version
}
