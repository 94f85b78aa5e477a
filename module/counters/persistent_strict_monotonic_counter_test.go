package counters

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keelnetwork/keel/storage"
)

type fakeProgress struct {
	initialized bool
	version     uint64
	setCalls    int
	failSet     bool
}

func (p *fakeProgress) SyncedVersion() (uint64, error) {
	if !p.initialized {
		return 0, storage.ErrNotFound
	}
	return p.version, nil
}

func (p *fakeProgress) InitSyncedVersion(defaultVersion uint64) error {
	if p.initialized {
		return storage.ErrAlreadyExists
	}
	p.initialized = true
	p.version = defaultVersion
	return nil
}

func (p *fakeProgress) SetSyncedVersion(version uint64) error {
	p.setCalls++
	if p.failSet {
		return fmt.Errorf("disk failure")
	}
	p.version = version
	return nil
}

func TestPersistentCounterInitializesEmptyStore(t *testing.T) {
	progress := &fakeProgress{}

	counter, err := NewPersistentStrictMonotonicCounter(progress, 7)
	require.NoError(t, err)

	assert.Equal(t, uint64(7), counter.Value())
	assert.True(t, progress.initialized)
	assert.Equal(t, uint64(7), progress.version)
}

func TestPersistentCounterResumesFromStore(t *testing.T) {
	progress := &fakeProgress{initialized: true, version: 42}

	counter, err := NewPersistentStrictMonotonicCounter(progress, 0)
	require.NoError(t, err)

	assert.Equal(t, uint64(42), counter.Value())
}

func TestPersistentCounterSet(t *testing.T) {
	progress := &fakeProgress{initialized: true, version: 10}
	counter, err := NewPersistentStrictMonotonicCounter(progress, 0)
	require.NoError(t, err)

	updated, err := counter.Set(15)
	require.NoError(t, err)
	assert.True(t, updated)
	assert.Equal(t, uint64(15), counter.Value())
	assert.Equal(t, uint64(15), progress.version)

	// stale values are ignored without a storage write
	updated, err = counter.Set(12)
	require.NoError(t, err)
	assert.False(t, updated)
	assert.Equal(t, uint64(15), counter.Value())
	assert.Equal(t, 1, progress.setCalls)
}

func TestPersistentCounterSetStorageFailure(t *testing.T) {
	progress := &fakeProgress{initialized: true, version: 10, failSet: true}
	counter, err := NewPersistentStrictMonotonicCounter(progress, 0)
	require.NoError(t, err)

	_, err = counter.Set(15)
	require.Error(t, err)
}
