package synchronization

import (
	"github.com/keelnetwork/keel/model/ledger"
)

// Command messages delivered to the coordinator over its mailbox. The
// coordinator processes them strictly in mailbox order, one at a time; no two
// commands ever observe a torn intermediate of the synced-version state.
//
// Reply channels are created by the client with a buffer of one, so the
// coordinator never blocks on a caller that has abandoned its request.

// requestSync asks the coordinator to drive local state to at least the
// target's certified version.
type requestSync struct {
	target *ledger.LedgerInfoWithSignatures
	reply  chan<- syncResult
}

// syncResult reports the outcome of a requestSync: whether a catch-up
// actually ran, or the failure that ended it.
type syncResult struct {
	ran bool
	err error
}

// notifyCommit records that the local replica durably committed up to the
// given version. No reply.
type notifyCommit struct {
	version ledger.Version
}

// queryState asks for the coordinator's current synced version.
type queryState struct {
	reply chan<- ledger.Version
}
