package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keelnetwork/keel/model/ledger"
	"github.com/keelnetwork/keel/utils/unittest"
)

func TestIdentifierHexRoundTrip(t *testing.T) {
	id := unittest.IdentifierFixture()

	decoded, err := ledger.HexStringToIdentifier(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, decoded)
}

func TestIdentifierHexRejectsMalformed(t *testing.T) {
	_, err := ledger.HexStringToIdentifier("deadbeef")
	require.Error(t, err)

	_, err = ledger.HexStringToIdentifier("zz")
	require.Error(t, err)
}

func TestIdentifierIsZero(t *testing.T) {
	assert.True(t, ledger.ZeroID.IsZero())
	assert.False(t, unittest.IdentifierFixture().IsZero())
}

func TestBlockTransactions(t *testing.T) {
	block := unittest.BlockFixture(2)
	assert.Equal(t, block.Payload, block.Transactions())

	empty := unittest.BlockFixture(0)
	assert.Nil(t, empty.Payload)
	assert.Empty(t, empty.Transactions())
}

func TestChunkLastVersion(t *testing.T) {
	chunk := unittest.ChunkFixture(10, 5)
	assert.Equal(t, ledger.Version(14), chunk.LastVersion())

	single := unittest.ChunkFixture(7, 1)
	assert.Equal(t, ledger.Version(7), single.LastVersion())
}

func TestChunkWellFormed(t *testing.T) {
	require.NoError(t, unittest.ChunkFixture(1, 3).WellFormed())

	empty := &ledger.TransactionChunk{FirstVersion: 1}
	require.Error(t, empty.WellFormed())

	holed := unittest.ChunkFixture(1, 3)
	holed.Transactions[1] = nil
	require.Error(t, holed.WellFormed())
}

func TestExecutedTreesVersion(t *testing.T) {
	// the version of the last included transaction is the count minus one
	trees := ledger.ExecutedTrees{TxCount: 42}
	assert.Equal(t, ledger.Version(41), trees.Version())

	genesis := ledger.ExecutedTrees{}
	assert.Equal(t, ledger.Version(0), genesis.Version())
}

func TestLedgerInfoWithSignaturesVersion(t *testing.T) {
	li := unittest.LedgerInfoFixture(99)
	assert.Equal(t, ledger.Version(99), li.Version())
}
