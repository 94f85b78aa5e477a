package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// IdentifierLen is the byte length of content identifiers.
const IdentifierLen = 32

// Identifier is the content hash that identifies blocks, transactions and
// accumulator roots.
type Identifier [IdentifierLen]byte

// ZeroID is the lowest value in the 32-byte ID space and marks the parent of
// the genesis block.
var ZeroID = Identifier{}

// HashIdentifier hashes arbitrary bytes into an Identifier.
func HashIdentifier(data []byte) Identifier {
	return Identifier(sha256.Sum256(data))
}

// HexStringToIdentifier converts a hex string to an Identifier. The input must
// encode exactly 32 bytes.
func HexStringToIdentifier(hexString string) (Identifier, error) {
	var id Identifier
	n, err := hex.Decode(id[:], []byte(hexString))
	if err != nil {
		return id, fmt.Errorf("could not decode identifier hex: %w", err)
	}
	if n != IdentifierLen {
		return id, fmt.Errorf("malformed identifier: expected %d bytes, got %d", IdentifierLen, n)
	}
	return id, nil
}

func (id Identifier) String() string {
	return hex.EncodeToString(id[:])
}

// Bytes returns the canonical byte representation of the identifier.
func (id Identifier) Bytes() []byte {
	return id[:]
}

func (id Identifier) IsZero() bool {
	return id == ZeroID
}
