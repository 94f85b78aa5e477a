package bridge

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keelnetwork/keel/model/ledger"
	"github.com/keelnetwork/keel/utils/unittest"
)

// fakeExecution is a scriptable stand-in for the execution capability.
type fakeExecution struct {
	mu sync.Mutex

	executeErr error
	commitErr  error
	trees      ledger.ExecutedTrees

	executedBlocks  []ledger.Identifier
	committedRuns   [][]*ledger.CommittableBlock
	committedProofs []*ledger.LedgerInfoWithSignatures
}

func (f *fakeExecution) ExecuteBlock(
	_ context.Context,
	transactions []*ledger.SignedTransaction,
	_ ledger.ExecutedTrees,
	_ ledger.Identifier,
	blockID ledger.Identifier,
) (*ledger.ProcessedOutput, *ledger.ComputeResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.executeErr != nil {
		return nil, nil, f.executeErr
	}
	f.executedBlocks = append(f.executedBlocks, blockID)

	statuses := make([]ledger.TransactionStatus, 0, len(transactions))
	for range transactions {
		statuses = append(statuses, ledger.TransactionStatusKept)
	}
	output := &ledger.ProcessedOutput{
		Trees: ledger.ExecutedTrees{
			StateRoot: unittest.IdentifierFixture(),
			TxCount:   uint64(len(transactions)),
		},
	}
	result := &ledger.ComputeResult{
		RootHash: output.Trees.StateRoot,
		Status:   statuses,
	}
	return output, result, nil
}

func (f *fakeExecution) CommitBlocks(
	_ context.Context,
	blocks []*ledger.CommittableBlock,
	proof *ledger.LedgerInfoWithSignatures,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.commitErr != nil {
		return f.commitErr
	}
	f.committedRuns = append(f.committedRuns, blocks)
	f.committedProofs = append(f.committedProofs, proof)
	return nil
}

func (f *fakeExecution) ApplyChunk(context.Context, *ledger.TransactionChunk, *ledger.LedgerInfoWithSignatures) error {
	return nil
}

func (f *fakeExecution) CommittedTrees() ledger.ExecutedTrees {
	return f.trees
}

// fakeSynchronizer records notifications and sync requests.
type fakeSynchronizer struct {
	mu sync.Mutex

	syncErr   error
	syncRan   bool
	notifyErr error

	notified    []ledger.Version
	syncTargets []ledger.Version
}

func (f *fakeSynchronizer) SyncTo(_ context.Context, target *ledger.LedgerInfoWithSignatures) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.syncTargets = append(f.syncTargets, target.Version())
	if f.syncErr != nil {
		return false, f.syncErr
	}
	return f.syncRan, nil
}

func (f *fakeSynchronizer) NotifyCommit(_ context.Context, version ledger.Version) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.notifyErr != nil {
		return f.notifyErr
	}
	f.notified = append(f.notified, version)
	return nil
}

func (f *fakeSynchronizer) SyncedVersion(context.Context) (ledger.Version, error) {
	return 0, nil
}

// recordingMetrics counts bridge metric events.
type recordingMetrics struct {
	mu sync.Mutex

	emptyBlockExecutions int
	blockExecutions      int
	transactionDurations []time.Duration
	blockCommits         int
	lastCommittedVersion ledger.Version
	syncRequests         int
}

func (m *recordingMetrics) ExecutionEmptyBlockExecuted(time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emptyBlockExecutions++
}

func (m *recordingMetrics) ExecutionBlockExecuted(time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blockExecutions++
}

func (m *recordingMetrics) ExecutionTransactionExecuted(dur time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactionDurations = append(m.transactionDurations, dur)
}

func (m *recordingMetrics) ExecutionBlockCommitted(time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blockCommits++
}

func (m *recordingMetrics) ExecutionLastCommittedVersion(version ledger.Version) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastCommittedVersion = version
}

func (m *recordingMetrics) ExecutionSyncRequested() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.syncRequests++
}

func testBridge() (*Bridge, *fakeExecution, *fakeSynchronizer, *recordingMetrics) {
	exec := &fakeExecution{trees: unittest.ExecutedTreesFixture(100)}
	sync := &fakeSynchronizer{}
	metrics := &recordingMetrics{}
	b := New(zerolog.Nop(), metrics, exec, sync)
	return b, exec, sync, metrics
}

func TestComputeEmptyBlockClassifiedAsEmpty(t *testing.T) {
	b, _, _, metrics := testBridge()

	block := unittest.BlockFixture(0)
	output, result, err := b.Compute(context.Background(), block, unittest.ExecutedTreesFixture(0))
	require.NoError(t, err)
	require.NotNil(t, output)
	require.Equal(t, 0, result.TransactionCount())

	assert.Equal(t, 1, metrics.emptyBlockExecutions)
	assert.Equal(t, 0, metrics.blockExecutions)
	assert.Empty(t, metrics.transactionDurations)
}

func TestComputeRecordsPerTransactionDuration(t *testing.T) {
	b, exec, _, metrics := testBridge()

	block := unittest.BlockFixture(3)
	output, result, err := b.Compute(context.Background(), block, unittest.ExecutedTreesFixture(0))
	require.NoError(t, err)
	require.NotNil(t, output)
	require.Equal(t, 3, result.TransactionCount())

	assert.Equal(t, 0, metrics.emptyBlockExecutions)
	assert.Equal(t, 1, metrics.blockExecutions)
	require.Len(t, metrics.transactionDurations, 1)
	assert.Equal(t, []ledger.Identifier{block.ID()}, exec.executedBlocks)
}

func TestComputeExecutionFailurePropagates(t *testing.T) {
	b, exec, _, metrics := testBridge()

	execErr := errors.New("invalid transaction")
	exec.executeErr = execErr

	_, _, err := b.Compute(context.Background(), unittest.BlockFixture(1), unittest.ExecutedTreesFixture(0))
	require.Error(t, err)
	require.ErrorIs(t, err, execErr)

	// no observation is recorded for a failed execution
	assert.Equal(t, 0, metrics.emptyBlockExecutions)
	assert.Equal(t, 0, metrics.blockExecutions)
}

func TestAverageTransactionDuration(t *testing.T) {
	perTx, ok := averageTransactionDuration(300*time.Nanosecond, 3)
	require.True(t, ok)
	assert.Equal(t, 100*time.Nanosecond, perTx)

	_, ok = averageTransactionDuration(-1*time.Nanosecond, 3)
	assert.False(t, ok)

	_, ok = averageTransactionDuration(time.Second, 0)
	assert.False(t, ok)
}

func TestCommitUpdatesVersionAndNotifies(t *testing.T) {
	b, exec, sync, metrics := testBridge()

	proof := unittest.LedgerInfoFixture(42)
	pairs := []*ledger.PayloadWithOutput{
		{
			Payload: unittest.SignedTransactionsFixture(2),
			Output:  unittest.ProcessedOutputFixture(2),
		},
		{
			Payload: unittest.SignedTransactionsFixture(1),
			Output:  unittest.ProcessedOutputFixture(1),
		},
	}

	err := b.Commit(context.Background(), pairs, proof)
	require.NoError(t, err)

	require.Len(t, exec.committedRuns, 1)
	require.Len(t, exec.committedRuns[0], 2)
	assert.Equal(t, proof, exec.committedProofs[0])

	assert.Equal(t, 1, metrics.blockCommits)
	assert.Equal(t, ledger.Version(42), metrics.lastCommittedVersion)
	assert.Equal(t, []ledger.Version{42}, sync.notified)
}

func TestCommitEmptyBatchStillUpdatesVersion(t *testing.T) {
	b, _, sync, metrics := testBridge()

	proof := unittest.LedgerInfoFixture(7)
	err := b.Commit(context.Background(), nil, proof)
	require.NoError(t, err)

	assert.Equal(t, ledger.Version(7), metrics.lastCommittedVersion)
	assert.Equal(t, []ledger.Version{7}, sync.notified)
}

func TestCommitNotificationFailureIsSwallowed(t *testing.T) {
	b, _, sync, metrics := testBridge()

	sync.notifyErr = errors.New("coordinator mailbox is full")

	proof := unittest.LedgerInfoFixture(9)
	err := b.Commit(context.Background(), nil, proof)
	require.NoError(t, err)

	// the durable commit succeeded, so the gauge is still updated
	assert.Equal(t, ledger.Version(9), metrics.lastCommittedVersion)
	assert.Equal(t, 1, metrics.blockCommits)
}

func TestCommitFailurePropagates(t *testing.T) {
	b, exec, sync, metrics := testBridge()

	commitErr := errors.New("db unavailable")
	exec.commitErr = commitErr

	err := b.Commit(context.Background(), nil, unittest.LedgerInfoFixture(3))
	require.Error(t, err)
	require.ErrorIs(t, err, commitErr)

	// neither the gauge nor the coordinator observes a failed commit
	assert.Equal(t, ledger.Version(0), metrics.lastCommittedVersion)
	assert.Empty(t, sync.notified)
	assert.Equal(t, 0, metrics.blockCommits)
}

func TestSyncToCountsEveryRequest(t *testing.T) {
	b, _, sync, metrics := testBridge()

	// already current: no sync ran, the counter still increments
	synced, err := b.SyncTo(context.Background(), unittest.QuorumCertificateFixture(10))
	require.NoError(t, err)
	assert.False(t, synced)
	assert.Equal(t, 1, metrics.syncRequests)

	// catch-up ran
	sync.syncRan = true
	synced, err = b.SyncTo(context.Background(), unittest.QuorumCertificateFixture(20))
	require.NoError(t, err)
	assert.True(t, synced)
	assert.Equal(t, 2, metrics.syncRequests)

	// failure still counts
	sync.syncErr = errors.New("peer unavailable")
	_, err = b.SyncTo(context.Background(), unittest.QuorumCertificateFixture(30))
	require.Error(t, err)
	assert.Equal(t, 3, metrics.syncRequests)

	assert.Equal(t, []ledger.Version{10, 20, 30}, sync.syncTargets)
}

func TestCommittedTrees(t *testing.T) {
	b, exec, _, _ := testBridge()
	assert.Equal(t, exec.trees, b.CommittedTrees())
}
