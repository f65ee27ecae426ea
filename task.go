package cotask

// Unit is the Go stand-in for a task that returns nothing, matching
// the original design's Task<void> specialization.
type Unit struct{}

// Awaitable is anything a [Task] body may suspend on: a child [Task]
// or one of the I/O operations ([FileReader.ReadBuf], [TcpRecv], [Timer],
// …). Only this package's own types implement it — the method set is
// unexported so the set of awaitables stays closed and every
// suspension point goes through the same protocol.
type Awaitable[R any] interface {
	// ready reports whether the awaitable has already resolved, in
	// which case an awaiter must not suspend.
	ready() bool
	// arm records the awaiter's waiting flag and marks it waiting.
	// Only called when ready() was false.
	arm(wait *bool)
	// resume returns the resolved value. Called exactly once, after
	// ready() is true (either immediately, or after a suspend/wake
	// round trip).
	resume() R
}

// Task is a suspendable unit of work with a return value of type T.
// Construct one with [Spawn]; await it with [Await].
//
// Go has no suspendable-function primitive, so a Task's body runs on
// its own goroutine. The scheduler and the body hand control back and
// forth over an unbuffered channel pair, so that exactly one of
// {scheduler loop, this body} runs at a time — the single-threaded
// cooperative model the original design requires.
type Task[T any] struct {
	sched *Scheduler

	// isWaiting is true while this task is blocked on a child task or
	// an I/O operation. The scheduler's run queue skips a task whose
	// isWaiting is true even once it reaches the head of the queue.
	isWaiting bool
	// parentWaiting is non-nil only once some other task has actually
	// suspended awaiting this one; finishing clears it.
	parentWaiting *bool
	finished      bool
	result        T

	resumeCh chan struct{}
	yieldCh  chan struct{}
}

// TaskContext is passed to a task's body, giving it the means to
// suspend: [TaskContext.Yield] for a plain cooperative yield, and the
// free function [Await] to suspend on a child task or I/O operation.
type TaskContext[T any] struct {
	task *Task[T]
}

// Yield cooperatively suspends the calling task for one scheduler
// round without waiting on anything in particular: the task becomes
// runnable again as soon as the run queue cycles back to it.
func (tc *TaskContext[T]) Yield() {
	tc.task.doYield()
}

// waitFlag exposes the address of this task's waiting flag to the
// generic [Await] function, independent of the child/operation result
// type being awaited.
func (tc *TaskContext[T]) waitFlag() *bool {
	return &tc.task.isWaiting
}

func (t *Task[T]) doYield() {
	t.yieldCh <- struct{}{}
	<-t.resumeCh
}

// Spawn constructs a new Task and schedules it on sched's run queue.
// The task starts runnable (not waiting); its body does not begin
// running until the scheduler's loop resumes it for the first time.
//
// Spawn itself never blocks the calling goroutine.
func Spawn[T any](sched *Scheduler, body func(tc *TaskContext[T]) T) *Task[T] {
	t := &Task[T]{
		sched:    sched,
		resumeCh: make(chan struct{}),
		yieldCh:  make(chan struct{}),
	}
	tc := &TaskContext[T]{task: t}

	go func() {
		<-t.resumeCh
		result := body(tc)
		t.result = result
		t.finished = true
		if t.parentWaiting != nil {
			*t.parentWaiting = false
		}
		t.yieldCh <- struct{}{}
	}()

	sched.scheduleInternal(&scheduledTask{
		isWaiting: &t.isWaiting,
		finished:  &t.finished,
		resumeCh:  t.resumeCh,
		yieldCh:   t.yieldCh,
	})

	return t
}

// ready implements [Awaitable].
func (t *Task[T]) ready() bool { return t.finished }

// arm implements [Awaitable]: records the awaiter's waiting flag as
// this task's "wake parent" target and marks the awaiter waiting.
func (t *Task[T]) arm(wait *bool) {
	t.parentWaiting = wait
	*wait = true
}

// resume implements [Awaitable]: returns the result and schedules
// this task's frame for deferred destruction, matching the original
// design's rule that the awaiting side — not the finishing task
// itself — arranges destruction, so a task that finishes before it is
// ever awaited is destroyed only once its parent actually reaches the
// await point.
func (t *Task[T]) resume() T {
	t.sched.deferDestroy(t)
	return t.result
}

// Await suspends the calling task (identified by tc) until a is
// ready, then returns its resolved value. If a is already resolved,
// the calling task is not suspended at all.
func Await[T, R any](tc *TaskContext[T], a Awaitable[R]) R {
	if !a.ready() {
		a.arm(tc.waitFlag())
		tc.task.doYield()
	}
	return a.resume()
}

// scheduledTask is the lightweight value the scheduler's run queue
// holds: enough to decide whether a task can resume, and to perform
// the resume/yield handshake, without the queue itself needing to be
// generic over the task's result type.
type scheduledTask struct {
	isWaiting *bool
	finished  *bool
	resumeCh  chan struct{}
	yieldCh   chan struct{}
}

func (d *scheduledTask) canResume() bool {
	return !*d.finished && !*d.isWaiting
}

// doResume hands control to the task body until its next suspend
// point or completion, then returns.
func (d *scheduledTask) doResume() {
	d.resumeCh <- struct{}{}
	<-d.yieldCh
}
