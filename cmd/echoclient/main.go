// Command echoclient connects to a TCP echo server, sends the -message
// text, and prints back whatever the server echoes. Modeled on the
// original design's tcp_client example.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gocotask/cotask"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:9000", "address to connect to")
	message := flag.String("message", "hello from cotask", "message to send")
	flag.Parse()

	net, err := cotask.InitNet()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer net.Close()

	sched, err := cotask.NewScheduler()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer sched.Close()

	var reply string
	var ok bool

	root := cotask.Spawn(sched, func(tc *cotask.TaskContext[cotask.Unit]) cotask.Unit {
		connResult := cotask.Await(tc, cotask.TcpConnect(sched, *addr))
		if !connResult.Success {
			return cotask.Unit{}
		}
		defer connResult.Socket.Close()

		sendResult := cotask.Await(tc, cotask.TcpSendAll(connResult.Socket, []byte(*message)))
		if !sendResult.Success {
			return cotask.Unit{}
		}

		buf := make([]byte, len(*message))
		recvResult := cotask.Await(tc, cotask.TcpRecvAll(connResult.Socket, buf))
		if !recvResult.Success {
			return cotask.Unit{}
		}
		reply = string(buf[:recvResult.N])
		ok = true
		return cotask.Unit{}
	})

	if err := cotask.ScheduleRoot(sched, root); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := sched.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if !ok {
		fmt.Fprintln(os.Stderr, "connect/send/recv failed")
		os.Exit(1)
	}
	fmt.Println(reply)
}
