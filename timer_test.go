package cotask

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTimerElapses(t *testing.T) {
	sched, err := NewScheduler(WithIdlePollTimeout(10 * time.Millisecond))
	require.NoError(t, err)
	defer sched.Close()

	var fired bool
	root := Spawn(sched, func(tc *TaskContext[Unit]) Unit {
		result := Await(tc, NewTimer(sched, 20*time.Millisecond))
		fired = true
		require.False(t, result.Fired.IsZero())
		return Unit{}
	})
	require.NoError(t, ScheduleRoot(sched, root))

	start := time.Now()
	require.NoError(t, sched.Execute())
	require.True(t, fired)
	require.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)
}

func TestTimerOrdering(t *testing.T) {
	sched, err := NewScheduler(WithIdlePollTimeout(5 * time.Millisecond))
	require.NoError(t, err)
	defer sched.Close()

	var order []string
	root := Spawn(sched, func(tc *TaskContext[Unit]) Unit {
		slow := NewTimer(sched, 40*time.Millisecond)
		fast := NewTimer(sched, 10*time.Millisecond)
		Await(tc, fast)
		order = append(order, "fast")
		Await(tc, slow)
		order = append(order, "slow")
		return Unit{}
	})
	require.NoError(t, ScheduleRoot(sched, root))
	require.NoError(t, sched.Execute())
	require.Equal(t, []string{"fast", "slow"}, order)
}
