package cotask

import (
	"golang.org/x/sys/unix"
)

// tcpSocketCore is the shared state behind a [TcpSocket]. TcpSocket
// itself is a thin handle around a pointer to this, so copying a
// TcpSocket value (passing it to another task, storing it in a
// slice) shares the one underlying fd and registration rather than
// duplicating them — the Go analog of the original design's
// reference-counted socket sharing.
type tcpSocketCore struct {
	sched  *Scheduler
	fd     int
	handle *registeredHandle
	closed bool
}

// TcpSocket is a non-blocking TCP socket, usable as a listener
// ([TcpAccept]) or as a connected peer
// ([TcpRecv]/[TcpSend]). Copying a TcpSocket value
// shares the same underlying connection.
type TcpSocket struct {
	core *tcpSocketCore
}

func newTcpSocket(sched *Scheduler, fd int) (TcpSocket, error) {
	if err := unix.SetNonblock(fd, true); err != nil {
		unix.Close(fd)
		return TcpSocket{}, err
	}
	h, err := sched.registerHandle(fd)
	if err != nil {
		unix.Close(fd)
		return TcpSocket{}, err
	}
	return TcpSocket{core: &tcpSocketCore{sched: sched, fd: fd, handle: h}}, nil
}

// TcpListen creates a listening socket bound to addr (host:port form
// resolved via [resolveTCP4Addr]) with the given backlog.
func TcpListen(sched *Scheduler, addr string, backlog int) (TcpSocket, error) {
	sa, err := resolveTCP4Addr(addr)
	if err != nil {
		return TcpSocket{}, err
	}
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM, 0)
	if err != nil {
		return TcpSocket{}, err
	}
	_ = unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
	if err := unix.Bind(fd, sa); err != nil {
		unix.Close(fd)
		return TcpSocket{}, err
	}
	if err := unix.Listen(fd, backlog); err != nil {
		unix.Close(fd)
		return TcpSocket{}, err
	}
	return newTcpSocket(sched, fd)
}

// Close unregisters and closes the underlying fd. Safe to call more
// than once; every copy of the TcpSocket observes the close since
// they share one core.
func (s TcpSocket) Close() error {
	if s.core == nil || s.core.closed {
		return nil
	}
	s.core.closed = true
	_ = s.core.sched.unregisterHandle(s.core.handle)
	return unix.Close(s.core.fd)
}

// Closed reports whether this socket (or any copy sharing its core)
// has been closed.
func (s TcpSocket) Closed() bool {
	return s.core == nil || s.core.closed
}

func (s TcpSocket) fd() int                      { return s.core.fd }
func (s TcpSocket) handle() *registeredHandle     { return s.core.handle }
func (s TcpSocket) scheduler() *Scheduler         { return s.core.sched }
