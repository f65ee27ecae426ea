//go:build darwin

package cotask

import (
	"time"

	"golang.org/x/sys/unix"
)

// kqueueBackend is the Darwin/BSD completion backend. Unlike the
// general-purpose original this is grounded on, it keeps handles in a
// plain map rather than a growable slice behind a mutex: this runtime
// is single-threaded by design, so there is no concurrent registrar
// to guard against.
type kqueueBackend struct {
	kq      int
	handles map[int]*registeredHandle
	events  []unix.Kevent_t
	waker   *pipeWaker
	closed  bool
}

func newOSBackend() (completionBackend, error) {
	kq, err := unix.Kqueue()
	if err != nil {
		return nil, err
	}
	unix.CloseOnExec(kq)
	b := &kqueueBackend{
		kq:      kq,
		handles: make(map[int]*registeredHandle),
		events:  make([]unix.Kevent_t, 256),
	}
	waker, err := newPipeWaker()
	if err != nil {
		unix.Close(kq)
		return nil, err
	}
	b.waker = waker
	if err := b.control(waker.fd(), unix.EVFILT_READ, unix.EV_ADD|unix.EV_CLEAR); err != nil {
		waker.close()
		unix.Close(kq)
		return nil, err
	}
	return b, nil
}

func (b *kqueueBackend) control(fd int, filter int16, flags uint16) error {
	ev := unix.Kevent_t{
		Ident:  uint64(fd),
		Filter: filter,
		Flags:  flags,
	}
	_, err := unix.Kevent(b.kq, []unix.Kevent_t{ev}, nil, nil)
	return err
}

func (b *kqueueBackend) register(fd int) (*registeredHandle, error) {
	if _, ok := b.handles[fd]; ok {
		return nil, ErrFDAlreadyRegistered
	}
	h := &registeredHandle{fd: fd, backend: b}
	b.handles[fd] = h
	return h, nil
}

func (b *kqueueBackend) unregister(h *registeredHandle) error {
	if b.handles[h.fd] != h {
		return nil
	}
	delete(b.handles, h.fd)
	_ = b.control(h.fd, unix.EVFILT_READ, unix.EV_DELETE)
	_ = b.control(h.fd, unix.EVFILT_WRITE, unix.EV_DELETE)
	return nil
}

func (b *kqueueBackend) wantRead(h *registeredHandle, want bool) error {
	flags := uint16(unix.EV_ADD | unix.EV_CLEAR)
	if !want {
		h.pending[ioRead] = nil
		flags = unix.EV_DELETE
	}
	return b.control(h.fd, unix.EVFILT_READ, flags)
}

func (b *kqueueBackend) wantWrite(h *registeredHandle, want bool) error {
	flags := uint16(unix.EV_ADD | unix.EV_CLEAR)
	if !want {
		h.pending[ioWrite] = nil
		flags = unix.EV_DELETE
	}
	return b.control(h.fd, unix.EVFILT_WRITE, flags)
}

func (b *kqueueBackend) registeredCount() int {
	return len(b.handles)
}

func (b *kqueueBackend) pendingOpCount() int {
	n := 0
	for _, h := range b.handles {
		if h.pending[ioRead] != nil {
			n++
		}
		if h.pending[ioWrite] != nil {
			n++
		}
	}
	return n
}

func (b *kqueueBackend) poll(timeout time.Duration, maxEvents int, dst []readyEvent) ([]readyEvent, error) {
	var ts *unix.Timespec
	if timeout >= 0 {
		t := unix.NsecToTimespec(int64(timeout))
		ts = &t
	}
	limit := len(b.events)
	if maxEvents > 0 && maxEvents < limit {
		limit = maxEvents
	}
	n, err := unix.Kevent(b.kq, nil, b.events[:limit], ts)
	if err != nil {
		if err == unix.EINTR {
			return dst, nil
		}
		return dst, err
	}
	for i := 0; i < n; i++ {
		kev := b.events[i]
		fd := int(kev.Ident)
		if fd == b.waker.fd() {
			b.waker.drain()
			continue
		}
		h, ok := b.handles[fd]
		if !ok {
			continue
		}
		ev := readyEvent{handle: h}
		if kev.Flags&unix.EV_ERROR != 0 {
			ev.err = unix.Errno(kev.Data)
		}
		switch kev.Filter {
		case unix.EVFILT_READ:
			ev.readable = true
		case unix.EVFILT_WRITE:
			ev.writable = true
		}
		dst = append(dst, ev)
	}
	return dst, nil
}

func (b *kqueueBackend) wake() {
	b.waker.wake()
}

func (b *kqueueBackend) close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	b.waker.close()
	return unix.Close(b.kq)
}
