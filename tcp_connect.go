package cotask

import "golang.org/x/sys/unix"

// ConnectResult is the value [TcpConnect] resolves to.
type ConnectResult struct {
	Socket  TcpSocket
	Success bool
}

// TcpConnectOp is the [Awaitable] returned by [TcpConnect]. Address
// resolution has no non-blocking OS primitive, so it runs through the
// offload pool first; once a socket exists, connect completion is
// awaited through the ordinary write-readiness path, same as any
// other socket operation.
type TcpConnectOp struct {
	sched        *Scheduler
	addr         string
	resolvedAddr unix.Sockaddr
	socket       TcpSocket
	finished     bool
	result       ConnectResult
	wait         *bool
}

// TcpConnect submits a connection attempt to addr ("host:port"),
// without blocking the calling task. Await its result with [Await].
func TcpConnect(sched *Scheduler, addr string) *TcpConnectOp {
	op := &TcpConnectOp{sched: sched, addr: addr}
	sched.submitOffload(op, func() (int, error) {
		sa, err := resolveTCP4Addr(addr)
		op.resolvedAddr = sa
		return 0, err
	})
	return op
}

func (op *TcpConnectOp) wake() {
	if op.wait != nil {
		*op.wait = false
		op.wait = nil
	}
}

func (op *TcpConnectOp) ready() bool { return op.finished }

func (op *TcpConnectOp) arm(wait *bool) {
	op.wait = wait
	*wait = true
}

func (op *TcpConnectOp) resume() ConnectResult { return op.result }

func (op *TcpConnectOp) fail() {
	op.finished = true
	op.result = ConnectResult{Success: false}
	op.wake()
}

// complete implements offloadOp: the resolution phase has finished;
// start the actual (non-blocking) connect attempt.
func (op *TcpConnectOp) complete(_ int, err error) {
	if err != nil {
		op.fail()
		return
	}

	fd, sockErr := unix.Socket(unix.AF_INET, unix.SOCK_STREAM, 0)
	if sockErr != nil {
		op.fail()
		return
	}
	sock, regErr := newTcpSocket(op.sched, fd)
	if regErr != nil {
		op.fail()
		return
	}
	op.socket = sock

	connErr := unix.Connect(sock.fd(), op.resolvedAddr)
	if connErr == nil {
		op.succeed()
		return
	}
	if connErr == unix.EINPROGRESS {
		_ = sock.handle().armWrite(op)
		return
	}
	_ = sock.Close()
	op.fail()
}

func (op *TcpConnectOp) succeed() {
	op.finished = true
	op.result = ConnectResult{Socket: op.socket, Success: true}
	op.wake()
}

// onReady implements opHandle: the socket is writable, meaning
// connect() has resolved one way or the other; SO_ERROR tells us
// which.
func (op *TcpConnectOp) onReady(err error) bool {
	if err != nil {
		_ = op.socket.Close()
		op.fail()
		return true
	}
	soErr, getErr := unix.GetsockoptInt(op.socket.fd(), unix.SOL_SOCKET, unix.SO_ERROR)
	if getErr != nil || soErr != 0 {
		_ = op.socket.Close()
		op.fail()
		return true
	}
	op.succeed()
	return true
}
