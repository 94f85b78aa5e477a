package storage

// SyncProgress reads and writes the durably recorded synced version of the
// local replica. It backs the synchronization coordinator's progress state so
// that a restarted replica resumes from where it left off instead of
// re-downloading the whole chain.
type SyncProgress interface {
	// SyncedVersion returns the currently recorded synced version.
	// Errors:
	//   - ErrNotFound if the progress was never initialized
	// No other errors are expected during normal operation.
	SyncedVersion() (uint64, error)

	// InitSyncedVersion inserts the default synced version. It should only be
	// called once.
	// Errors:
	//   - ErrAlreadyExists if the progress was already initialized
	// No other errors are expected during normal operation.
	InitSyncedVersion(defaultVersion uint64) error

	// SetSyncedVersion updates the recorded synced version. It returns a
	// generic error if InitSyncedVersion was never called.
	// No errors are expected during normal operation.
	SetSyncedVersion(version uint64) error
}
