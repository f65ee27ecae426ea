//go:build linux

package cotask

import "golang.org/x/sys/unix"

// eventfdWaker lets the offload pool (or any other goroutine) unblock
// a concurrently-running epoll_wait immediately, instead of letting it
// run out its idle timeout.
type eventfdWaker struct {
	fd_ int
}

func newEventfdWaker() (*eventfdWaker, error) {
	fd, err := unix.Eventfd(0, unix.EFD_CLOEXEC|unix.EFD_NONBLOCK)
	if err != nil {
		return nil, err
	}
	return &eventfdWaker{fd_: fd}, nil
}

func (w *eventfdWaker) fd() int { return w.fd_ }

func (w *eventfdWaker) wake() {
	var buf [8]byte
	buf[7] = 1
	_, _ = unix.Write(w.fd_, buf[:])
}

func (w *eventfdWaker) drain() {
	var buf [8]byte
	for {
		if _, err := unix.Read(w.fd_, buf[:]); err != nil {
			break
		}
	}
}

func (w *eventfdWaker) close() {
	_ = unix.Close(w.fd_)
}
