// Package irrecoverable provides the error-escalation channel used by
// long-lived components: errors that a component cannot recover from are
// thrown to the owner of the component instead of being returned up a call
// stack that has no way to handle them. Operating on corrupted state is worse
// than halting, so these errors are fail-stop by design.
package irrecoverable

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"go.uber.org/atomic"
)

// Signaler sends the error out.
type Signaler struct {
	errChan   chan error
	errThrown *atomic.Bool
}

func NewSignaler() (*Signaler, <-chan error) {
	errChan := make(chan error, 1)
	return &Signaler{
		errChan:   errChan,
		errThrown: atomic.NewBool(false),
	}, errChan
}

// Throw is a narrow drop-in replacement for panic, log.Fatal, log.Panic, etc.
// anywhere there's something connected to the error channel. It only expects
// a single error to be thrown per routine; subsequent errors are discarded.
func (s *Signaler) Throw(err error) {
	defer runtime.Goexit()
	if s.errThrown.CompareAndSwap(false, true) {
		s.errChan <- err
		close(s.errChan)
	} else {
		// an error was already thrown, the channel is closed
		fmt.Fprintf(os.Stderr, "unhandled irrecoverable error (another irrecoverable error has already been thrown): %v\n", err)
	}
}

// SignalerContext is a constrained drop-in replacement for context.Context,
// to be threaded through components which may throw irrecoverable errors.
type SignalerContext interface {
	context.Context
	Throw(err error) // delegates to the signaler
	sealed()         // private, to constrain builder to using WithSignaler
}

type signalerCtx struct {
	context.Context
	*Signaler
}

func (sc signalerCtx) sealed() {}

// WithSignaler is the One True Way of getting a SignalerContext.
func WithSignaler(parent context.Context) (SignalerContext, <-chan error) {
	sig, errChan := NewSignaler()
	return &signalerCtx{parent, sig}, errChan
}

// Throw enables throwing an irrecoverable error through any context.Context.
// If the context is not a SignalerContext there is nowhere to send the error,
// which is itself unrecoverable, so we crash.
func Throw(ctx context.Context, err error) {
	signalerAbleContext, ok := ctx.(SignalerContext)
	if ok {
		signalerAbleContext.Throw(err)
	}
	fmt.Fprintf(os.Stderr, "irrecoverable error signaler not found for context, unhandled irrecoverable error: %v\n", err)
	os.Exit(1)
}
