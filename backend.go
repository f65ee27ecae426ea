package cotask

import "time"

// opHandle is implemented by every readiness-driven I/O operation
// object ([TcpAcceptOp], [TcpConnectOp], [TcpRecvOp], [TcpSendOp], …);
// file reads resolve through the offload pool ([offloadOp]) instead.
// The completion backend never performs I/O itself; it only tells an
// op which direction became ready (or that the fd reported an error),
// and the op performs the actual non-blocking syscall, since only the
// op knows which syscall and buffer apply.
type opHandle interface {
	// onReady runs once per readiness notification in the direction
	// the op is currently armed for. A non-nil err means the backend
	// reported an error or hang-up condition on the fd (not a syscall
	// the op attempted). onReady returns
	// true once the operation is fully resolved — success or
	// permanent failure — and false if it must re-arm and wait for a
	// further readiness event (a short read/write, or a spurious
	// EAGAIN).
	onReady(err error) bool
}

// registeredHandle is a completion backend's view of one file
// descriptor: at most one pending op per direction, matching the
// spec's two-level tagging scheme (the handle identifies the fd; the
// direction slot disambiguates which of the (at most two) concurrently
// outstanding operations a readiness event belongs to).
type registeredHandle struct {
	fd      int
	pending [2]opHandle // [ioRead] and [ioWrite]
	backend completionBackend
}

const (
	ioRead  = 0
	ioWrite = 1
)

// armRead records op as the handle's pending read-direction operation
// and tells the backend to watch for readability.
func (h *registeredHandle) armRead(op opHandle) error {
	h.pending[ioRead] = op
	return h.backend.wantRead(h, true)
}

// armWrite records op as the handle's pending write-direction
// operation and tells the backend to watch for writability.
func (h *registeredHandle) armWrite(op opHandle) error {
	h.pending[ioWrite] = op
	return h.backend.wantWrite(h, true)
}

func (h *registeredHandle) disarmRead() error {
	h.pending[ioRead] = nil
	return h.backend.wantRead(h, false)
}

func (h *registeredHandle) disarmWrite() error {
	h.pending[ioWrite] = nil
	return h.backend.wantWrite(h, false)
}

// readyEvent is one readiness notification returned from a poll call.
type readyEvent struct {
	handle             *registeredHandle
	readable, writable bool
	err                error
}

// completionBackend is the platform-specific readiness notifier:
// epoll on Linux ([newEpollBackend]), kqueue on Darwin/BSD
// ([newKqueueBackend]). It reports fd readiness; it never reads or
// writes data itself.
type completionBackend interface {
	register(fd int) (*registeredHandle, error)
	unregister(h *registeredHandle) error
	wantRead(h *registeredHandle, want bool) error
	wantWrite(h *registeredHandle, want bool) error
	// poll blocks for up to timeout waiting for at least one readiness
	// event, appending results to dst and returning the extended
	// slice. timeout of zero must not block. maxEvents caps how many
	// completion records are drained from the kernel in this call (the
	// scheduler's completionBatchSize), so one iteration of readiness
	// on a busy set of handles can't starve the run queue; values <= 0
	// mean "use the backend's full internal buffer".
	poll(timeout time.Duration, maxEvents int, dst []readyEvent) ([]readyEvent, error)
	// wake unblocks a concurrently-running poll call immediately.
	// Safe to call from any goroutine, including the offload pool.
	wake()
	registeredCount() int
	// pendingOpCount returns the number of armed read/write slots across
	// every registered handle — the actual in-flight operation count, as
	// opposed to [completionBackend.registeredCount]'s count of handles
	// that merely exist (registered but possibly idle).
	pendingOpCount() int
	close() error
}

// newPlatformBackend constructs the completion backend for the
// current OS. See poller_linux.go and poller_darwin.go.
func newPlatformBackend() (completionBackend, error) {
	return newOSBackend()
}
