package module

import (
	"context"

	"github.com/keelnetwork/keel/model/ledger"
)

// StateSynchronizer is the handle through which the rest of the process talks
// to the synchronization coordinator. Implementations are cheap to copy and
// safe for concurrent use; all calls are serialized by the coordinator.
type StateSynchronizer interface {
	// SyncTo drives local state up to at least the target's certified
	// version. It returns true if a catch-up actually ran and false if the
	// replica was already current. A terminated coordinator is reported as a
	// distinct sentinel error from a failed catch-up.
	SyncTo(ctx context.Context, target *ledger.LedgerInfoWithSignatures) (bool, error)

	// NotifyCommit records that the local replica durably committed up to the
	// given version. Fire-and-forget from the coordinator's perspective; the
	// returned error only reports delivery failure.
	NotifyCommit(ctx context.Context, version ledger.Version) error

	// SyncedVersion reports the coordinator's current understanding of how
	// far the local replica has advanced.
	SyncedVersion(ctx context.Context) (ledger.Version, error)
}
