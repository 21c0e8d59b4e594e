//go:build linux

package socket

import (
	"net"

	"golang.org/x/sys/unix"
)

// tuneConn enables TCP_NODELAY and SO_KEEPALIVE at the syscall level. The
// source's Socket is a raw OS handle with no buffering layer above it;
// disabling Nagle's algorithm keeps small TLS records (handshake
// messages, WebSocket control frames) from being coalesced and delayed.
func tuneConn(conn net.Conn) {
	tcpConn, ok := conn.(*net.TCPConn)
	if !ok {
		return
	}
	rawConn, err := tcpConn.SyscallConn()
	if err != nil {
		return
	}
	_ = rawConn.Control(func(fd uintptr) {
		_ = unix.SetsockoptInt(int(fd), unix.IPPROTO_TCP, unix.TCP_NODELAY, 1)
		_ = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_KEEPALIVE, 1)
	})
}
