package cotask

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestTcpEcho exercises the full accept/connect/send/recv round trip
// across two concurrently-running tasks on one scheduler: a server
// task accepting a single client and echoing back whatever it reads,
// and a client task connecting, sending a message, and reading the
// echo — the end-to-end scenario the original design treats as the
// canonical demonstration of the runtime.
func TestTcpEcho(t *testing.T) {
	sched, err := NewScheduler(WithIdlePollTimeout(20 * time.Millisecond))
	require.NoError(t, err)
	defer sched.Close()

	listener, err := TcpListen(sched, "127.0.0.1:0", 8)
	require.NoError(t, err)
	addr := localAddr(t, listener)

	const message = "ping"
	var echoed string
	var clientOK bool

	server := Spawn(sched, func(tc *TaskContext[Unit]) Unit {
		accepted := Await(tc, TcpAccept(listener))
		require.True(t, accepted.Success)
		defer accepted.Socket.Close()

		var buf [64]byte
		recvResult := Await(tc, TcpRecv(accepted.Socket, buf[:]))
		require.True(t, recvResult.Success)

		sendResult := Await(tc, TcpSendAll(accepted.Socket, buf[:recvResult.N]))
		require.True(t, sendResult.Success)
		return Unit{}
	})

	client := Spawn(sched, func(tc *TaskContext[Unit]) Unit {
		connResult := Await(tc, TcpConnect(sched, addr))
		require.True(t, connResult.Success)
		defer connResult.Socket.Close()

		sendResult := Await(tc, TcpSendAll(connResult.Socket, []byte(message)))
		require.True(t, sendResult.Success)
		clientOK = true

		var buf [64]byte
		recvResult := Await(tc, TcpRecvAll(connResult.Socket, buf[:len(message)]))
		require.True(t, recvResult.Success)
		echoed = string(buf[:recvResult.N])
		return Unit{}
	})

	require.NoError(t, ScheduleRoot(sched, server))
	require.NoError(t, ScheduleRoot(sched, client))
	require.NoError(t, sched.Execute())
	require.NoError(t, listener.Close())

	require.True(t, clientOK)
	require.Equal(t, message, echoed)
}

// TestTcpRecvZeroOnShutdownIsNeverSuccess exercises the zero-length
// recv invariant: a peer that closes its write side without sending
// anything resolves TcpRecv with Success false and N 0.
func TestTcpRecvZeroOnShutdownIsNeverSuccess(t *testing.T) {
	sched, err := NewScheduler(WithIdlePollTimeout(20 * time.Millisecond))
	require.NoError(t, err)
	defer sched.Close()

	listener, err := TcpListen(sched, "127.0.0.1:0", 8)
	require.NoError(t, err)
	addr := localAddr(t, listener)

	var recvResult IOResult

	server := Spawn(sched, func(tc *TaskContext[Unit]) Unit {
		accepted := Await(tc, TcpAccept(listener))
		require.True(t, accepted.Success)
		defer accepted.Socket.Close()

		var buf [16]byte
		recvResult = Await(tc, TcpRecv(accepted.Socket, buf[:]))
		return Unit{}
	})

	client := Spawn(sched, func(tc *TaskContext[Unit]) Unit {
		connResult := Await(tc, TcpConnect(sched, addr))
		require.True(t, connResult.Success)
		require.NoError(t, connResult.Socket.Close())
		return Unit{}
	})

	require.NoError(t, ScheduleRoot(sched, server))
	require.NoError(t, ScheduleRoot(sched, client))
	require.NoError(t, sched.Execute())
	require.NoError(t, listener.Close())

	require.True(t, recvResult.Finished)
	require.False(t, recvResult.Success)
	require.Equal(t, 0, recvResult.N)
}

// TestTcpRecvTimeoutElapsesWithoutData exercises scenario 5: a recv
// bounded by a timeout, racing against a peer that never sends
// anything, resolves Finished=false, Success=false once the timeout
// elapses — distinct from a peer shutdown, which is Finished=true.
func TestTcpRecvTimeoutElapsesWithoutData(t *testing.T) {
	sched, err := NewScheduler(WithIdlePollTimeout(5 * time.Millisecond))
	require.NoError(t, err)
	defer sched.Close()

	listener, err := TcpListen(sched, "127.0.0.1:0", 8)
	require.NoError(t, err)
	addr := localAddr(t, listener)

	var recvResult IOResult
	var clientDone bool

	server := Spawn(sched, func(tc *TaskContext[Unit]) Unit {
		accepted := Await(tc, TcpAccept(listener))
		require.True(t, accepted.Success)
		defer accepted.Socket.Close()

		var buf [16]byte
		recvResult = Await(tc, RecvTimeout(accepted.Socket, buf[:], 20*time.Millisecond))
		return Unit{}
	})

	client := Spawn(sched, func(tc *TaskContext[Unit]) Unit {
		connResult := Await(tc, TcpConnect(sched, addr))
		require.True(t, connResult.Success)
		defer connResult.Socket.Close()

		// Hold the connection open without ever sending anything, long
		// enough for the server's recv timeout to win the race.
		Await(tc, NewTimer(sched, 60*time.Millisecond))
		clientDone = true
		return Unit{}
	})

	require.NoError(t, ScheduleRoot(sched, server))
	require.NoError(t, ScheduleRoot(sched, client))
	require.NoError(t, sched.Execute())
	require.NoError(t, listener.Close())

	require.True(t, clientDone)
	require.False(t, recvResult.Finished)
	require.False(t, recvResult.Success)
	require.Equal(t, 0, recvResult.N)
}
