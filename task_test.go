package cotask

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSpawnRunsBodyOnExecute(t *testing.T) {
	sched, err := NewScheduler()
	require.NoError(t, err)
	defer sched.Close()

	ran := false
	root := Spawn(sched, func(tc *TaskContext[Unit]) Unit {
		ran = true
		return Unit{}
	})
	require.NoError(t, ScheduleRoot(sched, root))
	require.False(t, ran, "body must not run before Execute")

	require.NoError(t, sched.Execute())
	require.True(t, ran)
	require.True(t, root.finished)
}

func TestAwaitChildTask(t *testing.T) {
	sched, err := NewScheduler()
	require.NoError(t, err)
	defer sched.Close()

	var childResult int
	root := Spawn(sched, func(tc *TaskContext[Unit]) Unit {
		child := Spawn(sched, func(ctc *TaskContext[int]) int {
			ctc.Yield()
			return 42
		})
		childResult = Await(tc, child)
		return Unit{}
	})
	require.NoError(t, ScheduleRoot(sched, root))
	require.NoError(t, sched.Execute())
	require.Equal(t, 42, childResult)
}

func TestAwaitAlreadyFinishedChildDoesNotSuspend(t *testing.T) {
	sched, err := NewScheduler()
	require.NoError(t, err)
	defer sched.Close()

	var order []string
	root := Spawn(sched, func(tc *TaskContext[Unit]) Unit {
		child := Spawn(sched, func(ctc *TaskContext[int]) int {
			order = append(order, "child-body")
			return 7
		})
		// Give the child a chance to run to completion before we await it.
		tc.Yield()
		tc.Yield()
		order = append(order, "parent-await")
		v := Await(tc, child)
		order = append(order, "parent-resumed")
		if v != 7 {
			t.Errorf("expected 7, got %d", v)
		}
		return Unit{}
	})
	require.NoError(t, ScheduleRoot(sched, root))
	require.NoError(t, sched.Execute())
	require.Equal(t, []string{"child-body", "parent-await", "parent-resumed"}, order)
}

func TestYieldInterleavesTwoRoots(t *testing.T) {
	sched, err := NewScheduler()
	require.NoError(t, err)
	defer sched.Close()

	var order []string
	a := Spawn(sched, func(tc *TaskContext[Unit]) Unit {
		order = append(order, "a1")
		tc.Yield()
		order = append(order, "a2")
		return Unit{}
	})
	b := Spawn(sched, func(tc *TaskContext[Unit]) Unit {
		order = append(order, "b1")
		tc.Yield()
		order = append(order, "b2")
		return Unit{}
	})
	require.NoError(t, ScheduleRoot(sched, a))
	require.NoError(t, ScheduleRoot(sched, b))
	require.NoError(t, sched.Execute())

	require.Equal(t, []string{"a1", "b1", "a2", "b2"}, order)
}

func TestScheduleRootAfterExecuteStartedFails(t *testing.T) {
	sched, err := NewScheduler()
	require.NoError(t, err)
	defer sched.Close()

	root := Spawn(sched, func(tc *TaskContext[Unit]) Unit {
		err := ScheduleRoot(sched, Spawn(sched, func(tc2 *TaskContext[Unit]) Unit { return Unit{} }))
		require.ErrorIs(t, err, ErrScheduleAfterExecute)
		return Unit{}
	})
	require.NoError(t, ScheduleRoot(sched, root))
	require.NoError(t, sched.Execute())
}
