package synchronization

import (
	"context"
	"errors"

	"github.com/keelnetwork/keel/engine/common/fifoqueue"
	"github.com/keelnetwork/keel/model/ledger"
	"github.com/keelnetwork/keel/module"
	"github.com/keelnetwork/keel/module/util"
)

var (
	// ErrCoordinatorShutdown is returned when the coordinator has terminated.
	// It signals that the synchronization subsystem is down; callers must
	// treat it as a fatal process condition, not a retryable sync failure.
	ErrCoordinatorShutdown = errors.New("synchronization coordinator has shut down")

	// ErrMailboxFull is returned when a bounded coordinator mailbox rejects a
	// command because it is at capacity.
	ErrMailboxFull = errors.New("synchronization coordinator mailbox is full")
)

// Client is a cheap, copyable handle to the coordinator. It turns method
// calls into mailbox commands with one-shot reply channels, giving callers a
// request/response API without touching the coordinator's internal state.
// Multiple clients may be used concurrently; they share the one coordinator.
type Client struct {
	mailbox  *fifoqueue.FifoQueue
	notifier module.Notifier
	shutdown <-chan struct{}
}

var _ module.StateSynchronizer = (*Client)(nil)

// SyncTo drives local state to at least the target's certified version.
// Returns true if a catch-up actually ran, false if the replica was already
// current. A failed catch-up is returned as-is; a terminated coordinator is
// reported as ErrCoordinatorShutdown.
func (c *Client) SyncTo(ctx context.Context, target *ledger.LedgerInfoWithSignatures) (bool, error) {
	reply := make(chan syncResult, 1)
	err := c.submit(&requestSync{target: target, reply: reply})
	if err != nil {
		return false, err
	}

	select {
	case res := <-reply:
		if res.err != nil {
			return false, res.err
		}
		return res.ran, nil
	case <-ctx.Done():
		return false, ctx.Err()
	case <-c.shutdown:
		// the reply may have been delivered just as shutdown commenced
		select {
		case res := <-reply:
			if res.err != nil {
				return false, res.err
			}
			return res.ran, nil
		default:
		}
		return false, ErrCoordinatorShutdown
	}
}

// NotifyCommit informs the coordinator that the local replica durably
// committed up to the given version. Delivery is fire-and-forget; the
// returned error only reports a failure to enqueue the notification.
func (c *Client) NotifyCommit(_ context.Context, version ledger.Version) error {
	return c.submit(&notifyCommit{version: version})
}

// SyncedVersion reports the coordinator's current synced version.
func (c *Client) SyncedVersion(ctx context.Context) (ledger.Version, error) {
	reply := make(chan ledger.Version, 1)
	err := c.submit(&queryState{reply: reply})
	if err != nil {
		return 0, err
	}

	select {
	case version := <-reply:
		return version, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-c.shutdown:
		select {
		case version := <-reply:
			return version, nil
		default:
		}
		return 0, ErrCoordinatorShutdown
	}
}

// submit enqueues a command into the coordinator mailbox and wakes the
// processing loop. Program order of submissions from one client is preserved
// into the mailbox.
func (c *Client) submit(command interface{}) error {
	if util.CheckClosed(c.shutdown) {
		return ErrCoordinatorShutdown
	}
	if !c.mailbox.Push(command) {
		return ErrMailboxFull
	}
	c.notifier.Notify()
	return nil
}
