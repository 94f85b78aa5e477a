package counters

import (
	"errors"
	"fmt"

	"github.com/keelnetwork/keel/storage"
)

// PersistentStrictMonotonicCounter tracks a strictly monotonically increasing
// value and mirrors every update into a durable progress store.
type PersistentStrictMonotonicCounter struct {
	progress storage.SyncProgress

	// used to reject values that are lower than the current value
	counter StrictMonotonousCounter
}

// NewPersistentStrictMonotonicCounter creates a new counter synced with the
// given progress store, initializing the store to defaultValue when it holds
// no value yet. The progress store and its underlying db entry must not be
// accessed outside of calls to the returned object, otherwise the state may
// become inconsistent.
//
// No errors are expected during normal operation.
func NewPersistentStrictMonotonicCounter(progress storage.SyncProgress, defaultValue uint64) (*PersistentStrictMonotonicCounter, error) {
	m := &PersistentStrictMonotonicCounter{
		progress: progress,
	}

	value, err := m.progress.SyncedVersion()
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("could not read sync progress: %w", err)
		}
		err = m.progress.InitSyncedVersion(defaultValue)
		if err != nil {
			return nil, fmt.Errorf("could not init sync progress: %w", err)
		}
		value = defaultValue
	}
	m.counter = NewMonotonousCounter(value)

	return m, nil
}

// Set sets the value, ensuring it is strictly monotonically increasing.
// Returns false without touching storage if the stored value is not smaller.
//
// No errors are expected during normal operation.
func (m *PersistentStrictMonotonicCounter) Set(value uint64) (bool, error) {
	if !m.counter.Set(value) {
		return false, nil
	}
	err := m.progress.SetSyncedVersion(value)
	if err != nil {
		return false, fmt.Errorf("could not persist value %d: %w", value, err)
	}
	return true, nil
}

// Value loads the current value.
func (m *PersistentStrictMonotonicCounter) Value() uint64 {
	return m.counter.Value()
}
