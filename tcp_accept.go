package cotask

import "golang.org/x/sys/unix"

// AcceptResult is the value [TcpAccept] resolves to.
type AcceptResult struct {
	Socket  TcpSocket
	Success bool
}

// TcpAcceptOp is the [Awaitable] returned by [TcpAccept].
type TcpAcceptOp struct {
	listener TcpSocket
	finished bool
	result   AcceptResult
	wait     *bool
}

// TcpAccept submits an accept on listener, without blocking the
// calling task. Await its result with [Await]. Multiple concurrent
// TcpAccept calls against distinct listener sockets resolve
// independently, matching the scenario of several acceptors serving
// clients concurrently.
func TcpAccept(listener TcpSocket) *TcpAcceptOp {
	op := &TcpAcceptOp{listener: listener}
	if listener.Closed() {
		op.finished = true
		return op
	}
	if op.tryAccept() {
		return op
	}
	_ = listener.handle().armRead(op)
	return op
}

func (op *TcpAcceptOp) tryAccept() bool {
	fd, sa, err := unix.Accept4(op.listener.fd(), unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC)
	if err != nil {
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK || err == unix.EINTR {
			return false
		}
		op.finished = true
		op.result = AcceptResult{Success: false}
		op.wake()
		return true
	}
	_ = sa
	sock, err := newTcpSocket(op.listener.scheduler(), fd)
	if err != nil {
		op.result = AcceptResult{Success: false}
	} else {
		op.result = AcceptResult{Socket: sock, Success: true}
	}
	op.finished = true
	op.wake()
	return true
}

func (op *TcpAcceptOp) wake() {
	if op.wait != nil {
		*op.wait = false
		op.wait = nil
	}
}

func (op *TcpAcceptOp) ready() bool { return op.finished }

func (op *TcpAcceptOp) arm(wait *bool) {
	op.wait = wait
	*wait = true
}

func (op *TcpAcceptOp) resume() AcceptResult { return op.result }

// onReady implements opHandle.
func (op *TcpAcceptOp) onReady(err error) bool {
	if err != nil {
		op.finished = true
		op.result = AcceptResult{Success: false}
		op.wake()
		return true
	}
	return op.tryAccept()
}
