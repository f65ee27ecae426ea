//go:build linux

package cotask

import (
	"time"

	"golang.org/x/sys/unix"
)

// maxDirectFDs bounds the direct-indexed handle table, matching the
// approach (not the concurrency control — this runtime is
// single-threaded by design, so the mutex/atomics the general-purpose
// original uses to guard concurrent registration are unnecessary
// here) of a fast epoll-backed poller keyed by raw fd.
const maxDirectFDs = 65536

type epollBackend struct {
	epfd    int
	handles [maxDirectFDs]*registeredHandle
	events  []unix.EpollEvent
	waker   *eventfdWaker
	closed  bool
}

func newOSBackend() (completionBackend, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, err
	}
	b := &epollBackend{
		epfd:   epfd,
		events: make([]unix.EpollEvent, 256),
	}
	waker, err := newEventfdWaker()
	if err != nil {
		unix.Close(epfd)
		return nil, err
	}
	b.waker = waker
	if err := b.addFD(waker.fd(), unix.EPOLLIN); err != nil {
		waker.close()
		unix.Close(epfd)
		return nil, err
	}
	return b, nil
}

func (b *epollBackend) register(fd int) (*registeredHandle, error) {
	if fd < 0 || fd >= maxDirectFDs {
		return nil, ErrFDOutOfRange
	}
	if b.handles[fd] != nil {
		return nil, ErrFDAlreadyRegistered
	}
	h := &registeredHandle{fd: fd, backend: b}
	b.handles[fd] = h
	if err := b.addFD(fd, 0); err != nil {
		b.handles[fd] = nil
		return nil, err
	}
	return h, nil
}

func (b *epollBackend) unregister(h *registeredHandle) error {
	if h.fd < 0 || h.fd >= maxDirectFDs || b.handles[h.fd] != h {
		return nil
	}
	b.handles[h.fd] = nil
	return unix.EpollCtl(b.epfd, unix.EPOLL_CTL_DEL, h.fd, nil)
}

func (b *epollBackend) addFD(fd int, events uint32) error {
	ev := &unix.EpollEvent{Events: events, Fd: int32(fd)}
	return unix.EpollCtl(b.epfd, unix.EPOLL_CTL_ADD, fd, ev)
}

func (b *epollBackend) modFD(h *registeredHandle) error {
	var events uint32
	if h.pending[ioRead] != nil {
		events |= unix.EPOLLIN
	}
	if h.pending[ioWrite] != nil {
		events |= unix.EPOLLOUT
	}
	ev := &unix.EpollEvent{Events: events, Fd: int32(h.fd)}
	return unix.EpollCtl(b.epfd, unix.EPOLL_CTL_MOD, h.fd, ev)
}

func (b *epollBackend) wantRead(h *registeredHandle, want bool) error {
	if !want {
		h.pending[ioRead] = nil
	}
	return b.modFD(h)
}

func (b *epollBackend) wantWrite(h *registeredHandle, want bool) error {
	if !want {
		h.pending[ioWrite] = nil
	}
	return b.modFD(h)
}

func (b *epollBackend) registeredCount() int {
	n := 0
	for _, h := range b.handles {
		if h != nil {
			n++
		}
	}
	return n
}

func (b *epollBackend) pendingOpCount() int {
	n := 0
	for _, h := range b.handles {
		if h == nil {
			continue
		}
		if h.pending[ioRead] != nil {
			n++
		}
		if h.pending[ioWrite] != nil {
			n++
		}
	}
	return n
}

func (b *epollBackend) poll(timeout time.Duration, maxEvents int, dst []readyEvent) ([]readyEvent, error) {
	timeoutMs := int(timeout / time.Millisecond)
	if timeout > 0 && timeoutMs == 0 {
		timeoutMs = 1
	}
	if timeout < 0 {
		timeoutMs = -1
	}
	limit := len(b.events)
	if maxEvents > 0 && maxEvents < limit {
		limit = maxEvents
	}
	n, err := unix.EpollWait(b.epfd, b.events[:limit], timeoutMs)
	if err != nil {
		if err == unix.EINTR {
			return dst, nil
		}
		return dst, err
	}
	for i := 0; i < n; i++ {
		fd := int(b.events[i].Fd)
		if fd == b.waker.fd() {
			b.waker.drain()
			continue
		}
		if fd < 0 || fd >= maxDirectFDs {
			continue
		}
		h := b.handles[fd]
		if h == nil {
			continue
		}
		flags := b.events[i].Events
		ev := readyEvent{handle: h}
		if flags&unix.EPOLLERR != 0 || flags&unix.EPOLLHUP != 0 {
			ev.err = unix.ECONNRESET
			ev.readable = h.pending[ioRead] != nil
			ev.writable = h.pending[ioWrite] != nil
		} else {
			ev.readable = flags&unix.EPOLLIN != 0
			ev.writable = flags&unix.EPOLLOUT != 0
		}
		dst = append(dst, ev)
	}
	return dst, nil
}

func (b *epollBackend) wake() {
	b.waker.wake()
}

func (b *epollBackend) close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	b.waker.close()
	return unix.Close(b.epfd)
}
