package cotask

import "golang.org/x/sys/unix"

// TcpSendOp is the [Awaitable] returned by [TcpSend].
type TcpSendOp struct {
	socket   TcpSocket
	buf      []byte
	finished bool
	result   IOResult
	wait     *bool
}

// TcpSend submits a single send of up to len(buf) bytes on socket,
// without blocking the calling task. Await its result with [Await].
func TcpSend(socket TcpSocket, buf []byte) *TcpSendOp {
	op := &TcpSendOp{socket: socket, buf: buf}
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
	if op.trySend() {
		return op
	}
	_ = socket.handle().armWrite(op)
	return op
}

func (op *TcpSendOp) trySend() bool {
	n, err := unix.Write(op.socket.fd(), op.buf)
	if err != nil {
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK || err == unix.EINTR {
			return false
		}
		op.settle(0, false)
		return true
	}
	op.settle(n, true)
	return true
}

func (op *TcpSendOp) settle(n int, success bool) {
	op.finished = true
	op.result = IOResult{Finished: true, Success: success, N: n}
	if op.wait != nil {
		*op.wait = false
		op.wait = nil
	}
}

func (op *TcpSendOp) ready() bool { return op.finished }

func (op *TcpSendOp) arm(wait *bool) {
	op.wait = wait
	*wait = true
}

func (op *TcpSendOp) resume() IOResult { return op.result }

// onReady implements opHandle.
func (op *TcpSendOp) onReady(err error) bool {
	if err != nil {
		op.settle(0, false)
		return true
	}
	return op.trySend()
}

// TcpSendAllOp is the [Awaitable] returned by [TcpSendAll]: it keeps
// issuing send calls until every byte of buf has been written or an
// error occurs.
type TcpSendAllOp struct {
	socket   TcpSocket
	buf      []byte
	sent     int
	finished bool
	result   IOResult
	wait     *bool
}

// TcpSendAll submits repeated send calls against socket until all of
// buf has been written, without blocking the calling task. Await its
// result with [Await].
func TcpSendAll(socket TcpSocket, buf []byte) *TcpSendAllOp {
	op := &TcpSendAllOp{socket: socket, buf: buf}
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
	if op.trySend() {
		return op
	}
	_ = socket.handle().armWrite(op)
	return op
}

func (op *TcpSendAllOp) trySend() bool {
	for op.sent < len(op.buf) {
		n, err := unix.Write(op.socket.fd(), op.buf[op.sent:])
		if err != nil {
			if err == unix.EAGAIN || err == unix.EWOULDBLOCK || err == unix.EINTR {
				return false
			}
			op.settle(false)
			return true
		}
		op.sent += n
	}
	op.settle(true)
	return true
}

func (op *TcpSendAllOp) settle(success bool) {
	op.finished = true
	op.result = IOResult{Finished: true, Success: success, N: op.sent}
	if op.wait != nil {
		*op.wait = false
		op.wait = nil
	}
}

func (op *TcpSendAllOp) ready() bool { return op.finished }

func (op *TcpSendAllOp) arm(wait *bool) {
	op.wait = wait
	*wait = true
}

func (op *TcpSendAllOp) resume() IOResult { return op.result }

// onReady implements opHandle.
func (op *TcpSendAllOp) onReady(err error) bool {
	if err != nil {
		op.settle(false)
		return true
	}
	return op.trySend()
}
