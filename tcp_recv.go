package cotask

import "golang.org/x/sys/unix"

// TcpRecvOp is the [Awaitable] returned by [TcpRecv].
type TcpRecvOp struct {
	socket   TcpSocket
	buf      []byte
	finished bool
	result   IOResult
	wait     *bool
}

// TcpRecv submits a single recv of up to len(buf) bytes from socket,
// without blocking the calling task. A zero-byte result always means
// the peer performed an orderly shutdown, reported as Success false —
// recv never treats end-of-stream as a successful transfer, however
// many bytes were requested. Await its result with [Await].
func TcpRecv(socket TcpSocket, buf []byte) *TcpRecvOp {
	op := &TcpRecvOp{socket: socket, buf: buf}
	if socket.Closed() {
		op.finished = true
		op.result = IOResult{Finished: true}
		return op
	}
	if op.tryRecv() {
		return op
	}
	_ = socket.handle().armRead(op)
	return op
}

func (op *TcpRecvOp) tryRecv() bool {
	n, _, _, _, err := unix.Recvmsg(op.socket.fd(), op.buf, nil, 0)
	if err != nil {
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK || err == unix.EINTR {
			return false
		}
		op.settle(0, false)
		return true
	}
	if n == 0 {
		// Orderly shutdown: always reported as a failed transfer, per
		// the zero-length-recv invariant.
		op.settle(0, false)
		return true
	}
	op.settle(n, true)
	return true
}

func (op *TcpRecvOp) settle(n int, success bool) {
	op.finished = true
	op.result = IOResult{Finished: true, Success: success, N: n}
	if op.wait != nil {
		*op.wait = false
		op.wait = nil
	}
}

func (op *TcpRecvOp) ready() bool { return op.finished }

func (op *TcpRecvOp) arm(wait *bool) {
	op.wait = wait
	*wait = true
}

func (op *TcpRecvOp) resume() IOResult { return op.result }

// onReady implements opHandle.
func (op *TcpRecvOp) onReady(err error) bool {
	if err != nil {
		op.settle(0, false)
		return true
	}
	return op.tryRecv()
}

// TcpRecvAllOp is the [Awaitable] returned by [TcpRecvAll]: it keeps
// issuing recv calls, accumulating bytes, until buf is full, the peer
// shuts down, or an error occurs.
type TcpRecvAllOp struct {
	socket   TcpSocket
	buf      []byte
	filled   int
	finished bool
	result   IOResult
	wait     *bool
}

// TcpRecvAll submits repeated recv calls against socket until buf is
// completely filled or the connection ends, without blocking the
// calling task. Await its result with [Await]; a short result (N <
// len(buf)) always has Success false — the peer shut down before the
// buffer was filled.
func TcpRecvAll(socket TcpSocket, buf []byte) *TcpRecvAllOp {
	op := &TcpRecvAllOp{socket: socket, buf: buf}
	if len(buf) == 0 {
		op.finished = true
		op.result = IOResult{Finished: true, Success: true}
		return op
	}
	if socket.Closed() {
		op.finished = true
		op.result = IOResult{Finished: true}
		return op
	}
	if op.tryRecv() {
		return op
	}
	_ = socket.handle().armRead(op)
	return op
}

// tryRecv returns true once the operation is fully resolved.
func (op *TcpRecvAllOp) tryRecv() bool {
	for op.filled < len(op.buf) {
		n, _, _, _, err := unix.Recvmsg(op.socket.fd(), op.buf[op.filled:], nil, 0)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EWOULDBLOCK || err == unix.EINTR {
				return false
			}
			op.settle(false)
			return true
		}
		if n == 0 {
			// Peer shut down before filling the buffer.
			op.settle(false)
			return true
		}
		op.filled += n
	}
	op.settle(true)
	return true
}

func (op *TcpRecvAllOp) settle(success bool) {
	op.finished = true
	op.result = IOResult{Finished: true, Success: success, N: op.filled}
	if op.wait != nil {
		*op.wait = false
		op.wait = nil
	}
}

func (op *TcpRecvAllOp) ready() bool { return op.finished }

func (op *TcpRecvAllOp) arm(wait *bool) {
	op.wait = wait
	*wait = true
}

func (op *TcpRecvAllOp) resume() IOResult { return op.result }

// onReady implements opHandle.
func (op *TcpRecvAllOp) onReady(err error) bool {
	if err != nil {
		op.settle(false)
		return true
	}
	return op.tryRecv()
}
