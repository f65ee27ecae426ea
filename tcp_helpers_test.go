package cotask

import (
	"fmt"
	"testing"

	"golang.org/x/sys/unix"
)

// localAddr returns the "host:port" a listening TcpSocket is actually
// bound to, resolving the ephemeral port the kernel assigned when the
// test passed port 0.
func localAddr(t *testing.T, s TcpSocket) string {
	t.Helper()
	sa, err := unix.Getsockname(s.fd())
	if err != nil {
		t.Fatalf("getsockname: %v", err)
	}
	sa4, ok := sa.(*unix.SockaddrInet4)
	if !ok {
		t.Fatalf("unexpected sockaddr type %T", sa)
	}
	return fmt.Sprintf("127.0.0.1:%d", sa4.Port)
}
