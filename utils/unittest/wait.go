package unittest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// RequireCloseBefore requires that the given channel closes before the
// duration expires.
func RequireCloseBefore(t *testing.T, c <-chan struct{}, duration time.Duration, message string) {
	select {
	case <-c:
	case <-time.After(duration):
		require.Fail(t, "could not close channel before timeout: "+message)
	}
}

// RequireNotClosed requires that the given channel is not closed yet.
func RequireNotClosed(t *testing.T, c <-chan struct{}, message string) {
	select {
	case <-c:
		require.Fail(t, "channel is unexpectedly closed: "+message)
	default:
	}
}

// RequireReturnsBefore requires that the given function returns before the
// duration expires.
func RequireReturnsBefore(t *testing.T, f func(), duration time.Duration, message string) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		f()
	}()
	RequireCloseBefore(t, done, duration, message)
}
