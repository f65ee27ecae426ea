// Package cotask is a single-threaded cooperative task runtime with
// asynchronous file and TCP I/O.
//
// # Architecture
//
// Three pieces make up the runtime, and only make sense together:
//
//   - the [Scheduler]: a FIFO run queue of [Task] values plus a
//     completion backend integration point ([Scheduler.Execute]);
//   - [Task]: a suspendable unit of work, constructed with [Spawn],
//     awaited with the free function [Await];
//   - the I/O operations ([FileReader.ReadBuf], [FileReader.ReadAll], [TcpAccept],
//     [TcpConnect], [TcpRecv], [TcpRecvAll], [TcpSend], [TcpSendAll],
//     [Timer]): each submits one asynchronous operation on
//     construction and resolves when the scheduler's completion loop
//     observes it finish.
//
// Go has no suspendable-function language feature, so each [Task]
// body runs on its own goroutine; the scheduler and the task hand
// control back and forth over an unbuffered channel so that at any
// instant exactly one of {scheduler loop, one task body} is actually
// running. See [Await] and [TaskContext.Yield].
//
// # Platform support
//
// The completion backend is epoll-based on Linux and kqueue-based on
// Darwin/BSD. File reads (and, lacking an OS async-connect extension,
// DNS resolution) are offloaded to a bounded goroutine pool whose
// results are queued for the loop thread, which drains them after
// every poll; each posted result also wakes a blocked poll — see
// [WithOffloadWorkers].
//
// # Usage
//
//	sched, err := cotask.NewScheduler()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer sched.Close()
//
//	root := cotask.Spawn(sched, func(tc *cotask.TaskContext[cotask.Unit]) cotask.Unit {
//	    reader, err := cotask.OpenFile(sched, "example.txt")
//	    if err != nil {
//	        return cotask.Unit{}
//	    }
//	    defer reader.Close()
//	    result := cotask.Await(tc, reader.ReadAll(0))
//	    fmt.Println(result.String())
//	    return cotask.Unit{}
//	})
//	cotask.ScheduleRoot(sched, root)
//	sched.Execute()
//
// # Error handling
//
// Recoverable I/O outcomes are result-record booleans (Finished,
// Success), never Go errors — matching the original design's
// "callers examine result booleans" rule. Go errors are reserved for
// programmer-error / construction-time failures: closed schedulers,
// exhausted file descriptor space, bad options.
package cotask
