package ledger

// Block is an ordered batch of signed transactions proposed by consensus,
// identified by its content hash and declaring a parent. The payload may be
// empty; consensus produces empty blocks to keep rounds advancing.
//
// Blocks are immutable once constructed. This layer only borrows them.
type Block struct {
	BlockID  Identifier
	ParentID Identifier
	Round    uint64
	Payload  []*SignedTransaction
}

// ID returns the block's content identifier.
func (b *Block) ID() Identifier {
	return b.BlockID
}

// Transactions returns the payload, substituting an empty batch when the
// payload is absent, so callers never need to special-case nil.
func (b *Block) Transactions() []*SignedTransaction {
	if b.Payload == nil {
		return []*SignedTransaction{}
	}
	return b.Payload
}
