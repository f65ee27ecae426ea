// Command echoserver accepts TCP connections on the given address and
// echoes back whatever each client sends until the client shuts down
// its write side. Modeled on the original design's tcp_server
// example, generalized to run several acceptor tasks concurrently
// rather than one.
package main

import (
	"flag"
	"os"

	"github.com/gocotask/cotask"
	"github.com/rs/zerolog"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:9000", "address to listen on")
	maxClients := flag.Int("max-clients", 4, "number of concurrent acceptor tasks")
	flag.Parse()

	zl := zerolog.New(os.Stderr).With().Timestamp().Logger()
	logger := cotask.NewZerologLogger(zl)

	net, err := cotask.InitNet()
	if err != nil {
		logger.Err().Err(err).Log("init net")
		os.Exit(1)
	}
	defer net.Close()

	sched, err := cotask.NewScheduler(cotask.WithLogger(logger))
	if err != nil {
		logger.Err().Err(err).Log("new scheduler")
		os.Exit(1)
	}
	defer sched.Close()

	listener, err := cotask.TcpListen(sched, *addr, 64)
	if err != nil {
		logger.Err().Err(err).Log("listen")
		os.Exit(1)
	}
	defer listener.Close()

	logger.Info().Str("addr", *addr).Log("listening")

	for i := 0; i < *maxClients; i++ {
		root := cotask.Spawn(sched, func(tc *cotask.TaskContext[cotask.Unit]) cotask.Unit {
			for {
				accepted := cotask.Await(tc, cotask.TcpAccept(listener))
				if !accepted.Success {
					return cotask.Unit{}
				}
				handleClient(tc, accepted.Socket, logger)
			}
		})
		if err := cotask.ScheduleRoot(sched, root); err != nil {
			logger.Err().Err(err).Log("schedule acceptor")
			os.Exit(1)
		}
	}

	if err := sched.Execute(); err != nil {
		logger.Err().Err(err).Log("execute")
		os.Exit(1)
	}
}

func handleClient(tc *cotask.TaskContext[cotask.Unit], conn cotask.TcpSocket, logger cotask.Logger) {
	defer conn.Close()
	var buf [4096]byte
	for {
		recv := cotask.Await(tc, cotask.TcpRecv(conn, buf[:]))
		if !recv.Success {
			return
		}
		send := cotask.Await(tc, cotask.TcpSendAll(conn, buf[:recv.N]))
		if !send.Success {
			return
		}
	}
}
