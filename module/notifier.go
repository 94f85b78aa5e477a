package module

// Notifier is a concurrency primitive for informing worker routines about the
// arrival of new work unit(s). It behaves like a channel in that it can be
// passed by value and still allows concurrent updates of the same internal
// state.
type Notifier struct {
	// Buffered with capacity 1: sending a notification never blocks, and a
	// notification delivered while no worker is listening is remembered
	// until the next receive. Notifying an already-notified Notifier is a
	// no-op.
	notifier chan struct{}
}

// NewNotifier instantiates a Notifier.
func NewNotifier() Notifier {
	return Notifier{notifier: make(chan struct{}, 1)}
}

// Notify sends a notification.
func (n Notifier) Notify() {
	select {
	case n.notifier <- struct{}{}:
	default:
	}
}

// Channel returns the channel for receiving notifications.
func (n Notifier) Channel() <-chan struct{} {
	return n.notifier
}
