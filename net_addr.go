package cotask

import (
	"fmt"
	"net"
	"strconv"

	"golang.org/x/sys/unix"
)

// resolveTCP4Addr parses a "host:port" string into a raw IPv4 socket
// address, resolving host via the standard resolver (itself run
// through the offload pool by callers that need it asynchronous —
// see [TcpConnect]).
func resolveTCP4Addr(addr string) (unix.Sockaddr, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, err
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("cotask: invalid port %q: %w", portStr, err)
	}

	var ip net.IP
	if host == "" {
		ip = net.IPv4zero
	} else {
		ips, err := net.LookupIP(host)
		if err != nil {
			return nil, err
		}
		for _, candidate := range ips {
			if v4 := candidate.To4(); v4 != nil {
				ip = v4
				break
			}
		}
		if ip == nil {
			return nil, fmt.Errorf("cotask: no IPv4 address for %q", host)
		}
	}

	var sa unix.SockaddrInet4
	sa.Port = port
	copy(sa.Addr[:], ip.To4())
	return &sa, nil
}
