package synchronization

import (
	"time"
)

type Config struct {
	// ChunkSize is the maximum number of transactions requested in a single
	// chunk during catch-up.
	ChunkSize uint64

	// MaxAttempts is the maximum number of times a chunk fetch is attempted
	// before the catch-up run is abandoned.
	MaxAttempts uint

	// RetryInterval is the pause between successive attempts to fetch the
	// same chunk.
	RetryInterval time.Duration

	// FetchAhead is the number of downloaded chunks buffered ahead of the
	// apply stage.
	FetchAhead int

	// MailboxCapacity bounds the coordinator's command mailbox. Zero means
	// unbounded. When bounded, submissions to a full mailbox are rejected
	// with ErrMailboxFull rather than blocking.
	MailboxCapacity int
}

func DefaultConfig() *Config {
	return &Config{
		ChunkSize:       1000,
		MaxAttempts:     5,
		RetryInterval:   4 * time.Second,
		FetchAhead:      4,
		MailboxCapacity: 0,
	}
}

type OptionFunc func(*Config)

// WithChunkSize sets a custom maximum transaction count per fetched chunk.
func WithChunkSize(size uint64) OptionFunc {
	return func(cfg *Config) {
		cfg.ChunkSize = size
	}
}

// WithMaxAttempts sets a custom number of fetch attempts per chunk.
func WithMaxAttempts(attempts uint) OptionFunc {
	return func(cfg *Config) {
		cfg.MaxAttempts = attempts
	}
}

// WithRetryInterval sets a custom pause between fetch attempts.
func WithRetryInterval(interval time.Duration) OptionFunc {
	return func(cfg *Config) {
		cfg.RetryInterval = interval
	}
}

// WithFetchAhead sets how many chunks the download stage may run ahead of the
// apply stage.
func WithFetchAhead(depth int) OptionFunc {
	return func(cfg *Config) {
		cfg.FetchAhead = depth
	}
}

// WithMailboxCapacity bounds the command mailbox to the given capacity.
func WithMailboxCapacity(capacity int) OptionFunc {
	return func(cfg *Config) {
		cfg.MailboxCapacity = capacity
	}
}
