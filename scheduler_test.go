package cotask

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewSchedulerDefaults(t *testing.T) {
	sched, err := NewScheduler()
	require.NoError(t, err)
	defer sched.Close()

	require.Equal(t, defaultCompletionBatchSize, sched.opts.completionBatchSize)
	require.Equal(t, defaultIdlePollTimeout, sched.opts.idlePollTimeout)
	require.Equal(t, defaultOffloadWorkers, sched.opts.offloadWorkers)
}

func TestSchedulerOptionsOverride(t *testing.T) {
	sched, err := NewScheduler(
		WithIdlePollTimeout(50*time.Millisecond),
		WithOffloadWorkers(2),
		WithFileScratchSize(16),
	)
	require.NoError(t, err)
	defer sched.Close()

	require.Equal(t, 50*time.Millisecond, sched.opts.idlePollTimeout)
	require.Equal(t, 2, sched.opts.offloadWorkers)
	require.Equal(t, 16, sched.opts.fileScratchSize)
}

func TestExecuteReturnsWhenQueueAndIOAreEmpty(t *testing.T) {
	sched, err := NewScheduler()
	require.NoError(t, err)
	defer sched.Close()

	done := make(chan error, 1)
	go func() { done <- sched.Execute() }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Execute did not return for an empty scheduler")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	sched, err := NewScheduler()
	require.NoError(t, err)
	require.NoError(t, sched.Close())
	require.NoError(t, sched.Close())
}

func TestExecuteAfterCloseFails(t *testing.T) {
	sched, err := NewScheduler()
	require.NoError(t, err)
	require.NoError(t, sched.Close())
	require.ErrorIs(t, sched.Execute(), ErrSchedulerClosed)
}
