package cotask

import (
	"errors"
	"fmt"
)

// Standard errors returned by construction-time and programmer-error
// paths. Recoverable I/O outcomes are never reported this way — see
// the Result types' Finished/Success fields instead.
var (
	// ErrSchedulerClosed is returned by Execute on a scheduler that has
	// been closed, whether or not Execute ever ran before.
	ErrSchedulerClosed = errors.New("cotask: scheduler is closed")

	// ErrScheduleAfterExecute is returned by ScheduleRoot while Execute
	// is running; roots may only be added before or between calls to
	// Execute, per the scheduler's public contract.
	ErrScheduleAfterExecute = errors.New("cotask: cannot schedule a root task once execute has started")

	// ErrEmptyBuffer is not returned by any function in this package:
	// TcpSend, TcpSendAll and TcpRecvAll resolve a zero-length buffer
	// with Success true and N 0, and TcpRecv treats the zero-byte read
	// as a shutdown (Success false).
	ErrEmptyBuffer = errors.New("cotask: empty buffer")

	// ErrFDOutOfRange is returned by the completion backend when a
	// handle's file descriptor exceeds the backend's direct-indexing
	// bound.
	ErrFDOutOfRange = errors.New("cotask: file descriptor out of range")

	// ErrFDAlreadyRegistered is returned when a handle is registered
	// with the completion backend twice without an intervening
	// Unregister.
	ErrFDAlreadyRegistered = errors.New("cotask: handle already registered")

	// ErrBackendClosed is returned by backend operations attempted
	// after Scheduler.Close.
	ErrBackendClosed = errors.New("cotask: completion backend is closed")

	// ErrSocketClosed is not returned by any function in this package:
	// an operation on a closed socket resolves with Finished true and
	// Success false instead.
	ErrSocketClosed = errors.New("cotask: socket is closed")

	// ErrReaderClosed is not returned by any function in this package:
	// a read on a closed FileReader resolves with Success false
	// instead.
	ErrReaderClosed = errors.New("cotask: file reader is closed")
)

// FatalCompletionError describes a corruption of the completion stream
// itself (an unrecognized key or aux tag), never a recoverable
// per-operation failure. No code path in this package constructs it:
// the backends skip readiness events for descriptors they do not know,
// and Execute returns only poll errors.
type FatalCompletionError struct {
	// Reason describes what was wrong with the completion record.
	Reason string
}

func (e *FatalCompletionError) Error() string {
	return fmt.Sprintf("cotask: fatal completion stream error: %s", e.Reason)
}
