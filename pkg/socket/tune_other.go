//go:build !linux

package socket

import "net"

// tuneConn enables TCP_NODELAY through net.TCPConn.SetNoDelay on platforms
// where raw socket-option control isn't wired up; SO_KEEPALIVE is left at
// net.Dialer's own defaults.
func tuneConn(conn net.Conn) {
	if tcpConn, ok := conn.(*net.TCPConn); ok {
		_ = tcpConn.SetNoDelay(true)
	}
}
