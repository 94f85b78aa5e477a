package unittest

import (
	"testing"

	"github.com/dgraph-io/badger/v2"
	"github.com/stretchr/testify/require"
)

// BadgerDB creates a badger database in the given directory, configured for
// tests.
func BadgerDB(t *testing.T, dir string) *badger.DB {
	opts := badger.DefaultOptions(dir).
		WithKeepL0InMemory(true).
		WithLogger(nil)
	db, err := badger.Open(opts)
	require.NoError(t, err)
	return db
}

// RunWithBadgerDB runs the test function against a temporary badger database
// which is torn down when the function returns.
func RunWithBadgerDB(t *testing.T, f func(*badger.DB)) {
	dir := t.TempDir()
	db := BadgerDB(t, dir)
	defer func() {
		require.NoError(t, db.Close())
	}()
	f(db)
}
