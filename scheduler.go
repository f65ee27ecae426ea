package cotask

import (
	"container/heap"
	"container/list"
	"time"
)

// rootTask is the type-erased view of a [Task] the scheduler needs in
// order to own its frame as a root: one with no parent to await it
// into the graveyard.
type rootTask interface {
	isFinished() bool
}

func (t *Task[T]) isFinished() bool { return t.finished }

// Scheduler runs a FIFO queue of cooperative [Task] values to
// completion, integrating a platform completion backend (epoll/
// kqueue), a bounded offload pool for blocking syscalls, and a timer
// heap, all driven from a single loop thread: the goroutine that
// calls [Scheduler.Execute].
type Scheduler struct {
	opts *schedulerOptions

	runQueue *list.List // of *scheduledTask

	graveyard []func()
	roots     []rootTask

	backend completionBackend
	offload *offloadPool
	timers  timerHeap

	executing bool
	closed    bool

	readyBuf  []readyEvent
	offloadBuf []offloadResult
}

// NewScheduler constructs a Scheduler with its completion backend and
// offload pool ready to use. Call [Scheduler.Close] once [Scheduler.Execute]
// returns.
func NewScheduler(opts ...Option) (*Scheduler, error) {
	resolved := resolveOptions(opts)

	backend, err := newPlatformBackend()
	if err != nil {
		return nil, err
	}

	s := &Scheduler{
		opts:     resolved,
		runQueue: list.New(),
		backend:  backend,
	}
	s.offload = newOffloadPool(resolved.offloadWorkers, backend.wake)

	resolved.logger.Info().Log("scheduler initialized")

	return s, nil
}

// Logger returns the scheduler's configured structured logger.
func (s *Scheduler) Logger() Logger { return s.opts.logger }

// scheduleInternal enqueues a task descriptor onto the run queue.
// Called by [Spawn] for every task, root or child alike.
func (s *Scheduler) scheduleInternal(d *scheduledTask) {
	s.runQueue.PushBack(d)
}

// ScheduleRoot registers t as owned directly by sched rather than by
// an awaiting parent: its frame is released once [Scheduler.Execute]
// returns, instead of through the graveyard. Returns
// [ErrScheduleAfterExecute] while Execute is running.
func ScheduleRoot[T any](sched *Scheduler, t *Task[T]) error {
	if sched.executing {
		return ErrScheduleAfterExecute
	}
	sched.roots = append(sched.roots, t)
	return nil
}

// deferDestroy schedules t's frame for release at the next safe
// point in the loop (the top of the next iteration), matching the
// original design's graveyard: the point at which no code holds a
// pointer into a just-finished task's frame mid-iteration.
func (s *Scheduler) deferDestroy(t rootTask) {
	s.graveyard = append(s.graveyard, func() {
		s.opts.logger.Debug().Log("task frame released")
	})
}

func (s *Scheduler) drainGraveyard() {
	for i := len(s.graveyard) - 1; i >= 0; i-- {
		s.graveyard[i]()
	}
	s.graveyard = s.graveyard[:0]
}

// hasPendingIO reports whether there is still work outstanding that
// could wake a task with nothing left in the run queue: an armed
// read/write slot, an in-flight offload call, or an armed timer. A
// registered-but-idle handle (e.g. a listener nothing is currently
// accepting on) does not count — registration alone is not pending
// work, or Execute would never return while any socket stayed open.
func (s *Scheduler) hasPendingIO() bool {
	return s.backend.pendingOpCount() > 0 || s.offload.inFlight() > 0 || len(s.timers) > 0
}

// registerHandle registers fd with the platform completion backend.
func (s *Scheduler) registerHandle(fd int) (*registeredHandle, error) {
	if s.closed {
		return nil, ErrBackendClosed
	}
	return s.backend.register(fd)
}

func (s *Scheduler) unregisterHandle(h *registeredHandle) error {
	return s.backend.unregister(h)
}

// submitOffload runs fn off the loop thread and delivers its result
// to op once the loop next drains the offload pool.
func (s *Scheduler) submitOffload(op offloadOp, fn func() (int, error)) {
	s.offload.submit(op, fn)
}

// Execute runs the scheduler loop until the run queue is empty and
// there is no in-flight I/O or armed timer left to wake anything, per
// the algorithm:
//
//  1. drain the graveyard, releasing frames deferred from the
//     previous iteration;
//  2. pop the run queue's head; if it can resume (not finished, not
//     waiting), resume it and, if still unfinished, push it to the
//     tail; if it cannot resume, push it to the tail unchanged;
//  3. poll the completion backend — blocking up to the configured
//     idle timeout (capped at the earliest timer deadline) only when
//     this iteration resumed no task and no queued task can resume,
//     otherwise returning immediately — and drain the offload pool and
//     any elapsed timers;
//  4. dispatch every completion to its owning operation, clearing the
//     waiting flag of whichever task it unblocks.
//
// Root task frames are released once the loop exits.
func (s *Scheduler) Execute() error {
	if s.closed {
		return ErrSchedulerClosed
	}
	s.executing = true
	defer func() { s.executing = false }()

	for {
		s.drainGraveyard()

		ranSomething := false
		if front := s.runQueue.Front(); front != nil {
			s.runQueue.Remove(front)
			d := front.Value.(*scheduledTask)
			if d.canResume() {
				ranSomething = true
				d.doResume()
				if !*d.finished {
					s.runQueue.PushBack(d)
				}
			} else {
				s.runQueue.PushBack(d)
			}
		}

		if s.runQueue.Len() == 0 && !s.hasPendingIO() {
			break
		}

		// Only block in poll when this iteration made no progress and
		// every queued task, if any, is waiting on I/O or a timer, so
		// there is nothing else to do until one of those resolves.
		// Otherwise keep the poll non-blocking so the loop keeps
		// cycling through runnable tasks.
		runnable := ranSomething
		for e := s.runQueue.Front(); e != nil && !runnable; e = e.Next() {
			runnable = e.Value.(*scheduledTask).canResume()
		}
		timeout := time.Duration(0)
		if !runnable {
			timeout = s.opts.idlePollTimeout
			if dl, ok := s.timers.nextDeadline(); ok {
				if until := dl.Sub(timeNowFunc()); until < timeout {
					if until < 0 {
						until = 0
					}
					timeout = until
				}
			}
		}

		s.readyBuf = s.readyBuf[:0]
		ready, err := s.backend.poll(timeout, s.opts.completionBatchSize, s.readyBuf)
		if err != nil {
			return err
		}
		s.readyBuf = ready
		for _, ev := range s.readyBuf {
			s.dispatchReady(ev)
		}

		s.offloadBuf = s.offload.drain(s.offloadBuf[:0])
		for _, r := range s.offloadBuf {
			r.op.complete(r.n, r.err)
		}

		now := timeNowFunc()
		for {
			dl, ok := s.timers.nextDeadline()
			if !ok || dl.After(now) {
				break
			}
			t := heap.Pop(&s.timers).(*Timer)
			t.elapse(now)
		}
	}

	s.drainGraveyard()
	s.roots = s.roots[:0]
	return nil
}

func (s *Scheduler) dispatchReady(ev readyEvent) {
	h := ev.handle
	if (ev.readable || ev.err != nil) && h.pending[ioRead] != nil {
		if h.pending[ioRead].onReady(ev.err) {
			h.disarmRead()
		}
	}
	if (ev.writable || ev.err != nil) && h.pending[ioWrite] != nil {
		if h.pending[ioWrite].onReady(ev.err) {
			h.disarmWrite()
		}
	}
}

// Close releases the scheduler's completion backend. Safe to call
// once Execute has returned; idempotent.
func (s *Scheduler) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.backend.close()
}
