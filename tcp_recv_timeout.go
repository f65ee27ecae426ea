package cotask

import "time"

// TcpRecvTimeoutOp is the [Awaitable] returned by [RecvTimeout]: a
// race between a [TcpRecvOp] and an optional [Timer], whichever
// settles first cancels the other.
type TcpRecvTimeoutOp struct {
	socket   TcpSocket
	recv     *TcpRecvOp
	timer    *Timer
	finished bool
	result   IOResult
	wait     *bool
}

// RecvTimeout submits a single recv of up to len(buf) bytes from
// socket, bounded by timeout. A timeout of zero or less means
// unbounded, equivalent to [TcpRecv]. If no data (nor a shutdown nor
// an error) arrives before timeout elapses, the pending recv is
// canceled and the result is Finished=false, Success=false — distinct
// from a peer shutdown, which is Finished=true, Success=false.
func RecvTimeout(socket TcpSocket, buf []byte, timeout time.Duration) *TcpRecvTimeoutOp {
	op := &TcpRecvTimeoutOp{socket: socket, recv: TcpRecv(socket, buf)}
	if op.recv.ready() {
		op.finished = true
		op.result = op.recv.result
		return op
	}
	if timeout > 0 {
		op.timer = NewTimer(socket.scheduler(), timeout)
	}
	return op
}

func (op *TcpRecvTimeoutOp) ready() bool {
	if op.finished {
		return true
	}
	return op.recv.ready() || (op.timer != nil && op.timer.ready())
}

// arm shares one waiting flag between the recv and the timer racing
// it: whichever settles first clears it, waking the awaiter.
func (op *TcpRecvTimeoutOp) arm(wait *bool) {
	op.wait = wait
	*wait = true
	op.recv.wait = wait
	if op.timer != nil {
		op.timer.wait = wait
	}
}

func (op *TcpRecvTimeoutOp) resume() IOResult {
	if op.finished {
		return op.result
	}
	op.finished = true
	if op.recv.ready() {
		op.result = op.recv.result
		if op.timer != nil {
			op.timer.cancel()
		}
	} else {
		op.cancelRecv()
		op.result = IOResult{Finished: false, Success: false}
	}
	return op.result
}

// cancelRecv disarms a still-pending recv once its timer has won the
// race, so a later readiness event on the handle never reaches an
// abandoned op.
func (op *TcpRecvTimeoutOp) cancelRecv() {
	if op.recv.finished {
		return
	}
	if !op.socket.Closed() {
		_ = op.socket.handle().disarmRead()
	}
	op.recv.finished = true
	op.recv.wait = nil
}

// TcpRecvAllTimeoutOp is the [Awaitable] returned by [RecvAllTimeout].
type TcpRecvAllTimeoutOp struct {
	socket   TcpSocket
	recv     *TcpRecvAllOp
	timer    *Timer
	finished bool
	result   IOResult
	wait     *bool
}

// RecvAllTimeout submits repeated recv calls against socket until buf
// is completely filled or the connection ends, bounded by timeout. A
// timeout of zero or less means unbounded, equivalent to
// [TcpRecvAll]. On elapse, the pending recv is canceled and the
// result is Finished=false, Success=false, N set to however many
// bytes were filled before the deadline.
func RecvAllTimeout(socket TcpSocket, buf []byte, timeout time.Duration) *TcpRecvAllTimeoutOp {
	op := &TcpRecvAllTimeoutOp{socket: socket, recv: TcpRecvAll(socket, buf)}
	if op.recv.ready() {
		op.finished = true
		op.result = op.recv.result
		return op
	}
	if timeout > 0 {
		op.timer = NewTimer(socket.scheduler(), timeout)
	}
	return op
}

func (op *TcpRecvAllTimeoutOp) ready() bool {
	if op.finished {
		return true
	}
	return op.recv.ready() || (op.timer != nil && op.timer.ready())
}

func (op *TcpRecvAllTimeoutOp) arm(wait *bool) {
	op.wait = wait
	*wait = true
	op.recv.wait = wait
	if op.timer != nil {
		op.timer.wait = wait
	}
}

func (op *TcpRecvAllTimeoutOp) resume() IOResult {
	if op.finished {
		return op.result
	}
	op.finished = true
	if op.recv.ready() {
		op.result = op.recv.result
		if op.timer != nil {
			op.timer.cancel()
		}
	} else {
		op.cancelRecv()
		op.result = IOResult{Finished: false, Success: false, N: op.recv.filled}
	}
	return op.result
}

func (op *TcpRecvAllTimeoutOp) cancelRecv() {
	if op.recv.finished {
		return
	}
	if !op.socket.Closed() {
		_ = op.socket.handle().disarmRead()
	}
	op.recv.finished = true
	op.recv.wait = nil
}
