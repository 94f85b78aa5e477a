// Package synchronization implements the synchronization coordinator: a
// single-owner actor that serializes all synchronization decisions so that
// exactly one catch-up operation is ever in flight and every caller observes
// a consistent view of how far the local replica has advanced.
package synchronization

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/keelnetwork/keel/engine/common/fifoqueue"
	"github.com/keelnetwork/keel/model/ledger"
	"github.com/keelnetwork/keel/module"
	"github.com/keelnetwork/keel/module/component"
	"github.com/keelnetwork/keel/module/counters"
	"github.com/keelnetwork/keel/module/irrecoverable"
	"github.com/keelnetwork/keel/module/util"
	"github.com/keelnetwork/keel/storage"
)

// Engine is the synchronization coordinator. It owns the synced-version state
// exclusively: the state is reachable only through commands delivered over
// the mailbox and processed by a single worker, one command at a time. This
// single-writer discipline is what upholds the no-torn-state and
// no-regression guarantees without any locking.
type Engine struct {
	component.Component

	log     zerolog.Logger
	metrics module.SyncMetrics
	cfg     *Config

	exec    module.Execution
	fetcher ChunkFetcher

	// version is the monotonically non-decreasing synced version, mirrored
	// into durable storage on every advance. Only the coordinator worker
	// touches it after bootstrap.
	version *counters.PersistentStrictMonotonicCounter

	mailbox  *fifoqueue.FifoQueue
	notifier module.Notifier

	cm *component.ComponentManager
}

// New constructs the coordinator bound to the given execution capability,
// chunk fetcher and progress store. The coordinator resumes from the version
// recorded in the progress store, so a restarted replica does not re-download
// state it already holds.
func New(
	log zerolog.Logger,
	metrics module.SyncMetrics,
	exec module.Execution,
	fetcher ChunkFetcher,
	progress storage.SyncProgress,
	opts ...OptionFunc,
) (*Engine, error) {

	cfg := DefaultConfig()
	for _, apply := range opts {
		apply(cfg)
	}

	version, err := counters.NewPersistentStrictMonotonicCounter(progress, 0)
	if err != nil {
		return nil, fmt.Errorf("could not restore sync progress: %w", err)
	}

	var queueOpts []fifoqueue.ConstructorOption
	if cfg.MailboxCapacity > 0 {
		queueOpts = append(queueOpts, fifoqueue.WithCapacity(cfg.MailboxCapacity))
	}
	mailbox, err := fifoqueue.NewFifoQueue(queueOpts...)
	if err != nil {
		return nil, fmt.Errorf("could not create coordinator mailbox: %w", err)
	}

	e := &Engine{
		log:      log.With().Str("engine", "synchronization").Logger(),
		metrics:  metrics,
		cfg:      cfg,
		exec:     exec,
		fetcher:  fetcher,
		version:  version,
		mailbox:  mailbox,
		notifier: module.NewNotifier(),
	}

	e.cm = component.NewComponentManagerBuilder().
		AddWorker(e.processCommandsLoop).
		Build()
	e.Component = e.cm

	e.metrics.SyncVersion(ledger.Version(version.Value()))

	return e, nil
}

// Client returns a handle for talking to the coordinator. Clients are cheap
// and may be copied and used concurrently from different parts of the process.
func (e *Engine) Client() *Client {
	return &Client{
		mailbox:  e.mailbox,
		notifier: e.notifier,
		shutdown: e.cm.ShutdownSignal(),
	}
}

// processCommandsLoop is the coordinator's single processing loop. It takes
// the next command from the mailbox and executes it to completion before
// taking the next one.
func (e *Engine) processCommandsLoop(ctx irrecoverable.SignalerContext, ready component.ReadyFunc) {
	ready()
	for {
		select {
		case <-ctx.Done():
			return
		case <-e.notifier.Channel():
			e.processAvailableCommands(ctx)
		}
	}
}

func (e *Engine) processAvailableCommands(ctx irrecoverable.SignalerContext) {
	for {
		if util.CheckClosed(ctx.Done()) {
			return
		}

		command, ok := e.mailbox.Pop()
		if !ok {
			return
		}

		switch cmd := command.(type) {
		case *requestSync:
			e.onRequestSync(ctx, cmd)
		case *notifyCommit:
			e.onNotifyCommit(ctx, cmd)
		case *queryState:
			cmd.reply <- e.syncedVersion()
		default:
			// the mailbox is fed only by our own client; an unknown command
			// is state corruption, not bad input
			ctx.Throw(fmt.Errorf("coordinator received unknown command type %T", command))
		}
	}
}

func (e *Engine) syncedVersion() ledger.Version {
	return ledger.Version(e.version.Value())
}

// advanceVersion moves the synced version to max(current, version) and
// persists the advance. A failure to persist leaves the durable record behind
// the in-memory state, which we cannot recover from, so it is irrecoverable.
func (e *Engine) advanceVersion(ctx irrecoverable.SignalerContext, version ledger.Version) {
	updated, err := e.version.Set(uint64(version))
	if err != nil {
		ctx.Throw(fmt.Errorf("could not persist synced version %d: %w", version, err))
	}
	if updated {
		e.metrics.SyncVersion(version)
	}
}

// onNotifyCommit records a local durable commit. Stale or duplicate
// notifications never regress the recorded version.
func (e *Engine) onNotifyCommit(ctx irrecoverable.SignalerContext, cmd *notifyCommit) {
	e.advanceVersion(ctx, cmd.version)
	e.log.Debug().
		Uint64("version", uint64(cmd.version)).
		Msg("recorded local commit")
}

// onRequestSync handles a catch-up request. If the replica already meets the
// target, it replies immediately without running a sync. A failed catch-up is
// reported to the requester; the coordinator itself survives and keeps
// processing subsequent commands.
func (e *Engine) onRequestSync(ctx irrecoverable.SignalerContext, cmd *requestSync) {
	target := cmd.target.Version()
	current := e.syncedVersion()

	if current >= target {
		cmd.reply <- syncResult{ran: false}
		return
	}

	log := e.log.With().
		Uint64("current_version", uint64(current)).
		Uint64("target_version", uint64(target)).
		Logger()
	log.Info().Msg("starting catch-up")

	start := time.Now()
	err := e.catchUp(ctx, current, cmd.target)
	if err != nil {
		log.Warn().Err(err).Msg("catch-up failed")
		cmd.reply <- syncResult{err: fmt.Errorf("could not catch up to version %d: %w", target, err)}
		return
	}

	e.metrics.SyncCompleted(time.Since(start))
	log.Info().Dur("duration", time.Since(start)).Msg("catch-up complete")
	cmd.reply <- syncResult{ran: true}
}

// catchUp downloads and applies the missing run of transactions
// (current+1 .. target version). Download and apply are pipelined: the fetch
// stage runs at most FetchAhead chunks ahead of the apply stage. The
// coordinator blocks here until both stages finish, so it remains the sole
// writer of the synced version throughout.
func (e *Engine) catchUp(ctx irrecoverable.SignalerContext, current ledger.Version, target *ledger.LedgerInfoWithSignatures) error {
	targetVersion := target.Version()
	first := current + 1

	g, gctx := errgroup.WithContext(ctx)
	chunks := make(chan *ledger.TransactionChunk, e.cfg.FetchAhead)

	g.Go(func() error {
		defer close(chunks)
		next := first
		for next <= targetVersion {
			limit := e.cfg.ChunkSize
			if remaining := uint64(targetVersion-next) + 1; remaining < limit {
				limit = remaining
			}
			chunk, err := e.fetchChunkWithRetry(gctx, next, limit, target)
			if err != nil {
				return err
			}
			select {
			case chunks <- chunk:
			case <-gctx.Done():
				return gctx.Err()
			}
			next = chunk.LastVersion() + 1
		}
		return nil
	})

	g.Go(func() error {
		expected := first
		for chunk := range chunks {
			err := chunk.WellFormed()
			if err != nil {
				return fmt.Errorf("received malformed chunk: %w", err)
			}
			if chunk.FirstVersion != expected {
				return fmt.Errorf("chunk out of order: expected first version %d, got %d", expected, chunk.FirstVersion)
			}
			if chunk.LastVersion() > targetVersion {
				return fmt.Errorf("chunk overshoots certified target: last version %d, target %d", chunk.LastVersion(), targetVersion)
			}

			err = e.exec.ApplyChunk(gctx, chunk, target)
			if err != nil {
				return fmt.Errorf("could not apply chunk at version %d: %w", chunk.FirstVersion, err)
			}

			e.advanceVersion(ctx, chunk.LastVersion())
			e.metrics.SyncChunkApplied(len(chunk.Transactions))
			expected = chunk.LastVersion() + 1
		}
		return nil
	})

	return g.Wait()
}

// fetchChunkWithRetry attempts a chunk fetch up to MaxAttempts times, pausing
// RetryInterval between attempts. All attempt errors are reported together
// when the fetch is abandoned.
func (e *Engine) fetchChunkWithRetry(
	ctx context.Context,
	from ledger.Version,
	limit uint64,
	target *ledger.LedgerInfoWithSignatures,
) (*ledger.TransactionChunk, error) {

	var errs *multierror.Error
	for attempt := uint(0); attempt < e.cfg.MaxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(e.cfg.RetryInterval):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		chunk, err := e.fetcher.FetchChunk(ctx, from, limit, target)
		if err == nil {
			return chunk, nil
		}
		e.log.Warn().Err(err).
			Uint64("from_version", uint64(from)).
			Uint("attempt", attempt+1).
			Msg("chunk fetch attempt failed")
		errs = multierror.Append(errs, err)
	}

	return nil, fmt.Errorf("fetching chunk at version %d failed after %d attempts: %w",
		from, e.cfg.MaxAttempts, errs.ErrorOrNil())
}
