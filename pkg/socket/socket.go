// Package socket implements the blocking stream-socket contract the crypto
// core builds on: connect, read, write, close, short operations reported
// as partial byte counts, EOF as Ok(0). It wraps net.Conn — the Go
// standard library's own byte-oriented socket, not something this core
// reimplements — and adds raw connection tuning beyond net.Dialer
// defaults.
package socket

import (
	"errors"
	"io"
	"net"
	"strconv"
	"time"

	"github.com/whileendless/ralnet/internal/rerr"
)

// Socket is a move-only (single-owner by convention) blocking TCP socket.
type Socket struct {
	conn net.Conn
}

// Dial opens a blocking TCP connection to ip:port. The address family is
// inferred from ip (IPv4 vs IPv6).
func Dial(ip net.IP, port uint16, timeout time.Duration) (*Socket, error) {
	if ip == nil {
		return nil, rerr.New(rerr.CodeSocketUnsupportedFamily)
	}
	addr := net.JoinHostPort(ip.String(), strconv.Itoa(int(port)))
	d := net.Dialer{Timeout: timeout}
	conn, err := d.Dial("tcp", addr)
	if err != nil {
		return nil, rerr.Wrap(rerr.New(rerr.CodeSocketOpenFailedConnect), rerr.CodeSocketOpenFailedConnect)
	}
	tuneConn(conn)
	return &Socket{conn: conn}, nil
}

// Wrap adapts an already-established net.Conn (e.g. one handed back by a
// listener, or an in-memory net.Pipe end in tests) to the Socket contract
// without dialing.
func Wrap(conn net.Conn) *Socket {
	return &Socket{conn: conn}
}

// Read performs a single blocking read; short reads are permitted and
// reported via the returned count. EOF is reported as (0, nil).
func (s *Socket) Read(p []byte) (int, error) {
	n, err := s.conn.Read(p)
	if err != nil {
		if n > 0 {
			return n, nil
		}
		if errors.Is(err, io.EOF) {
			return 0, nil
		}
		return n, rerr.Wrap(rerr.New(rerr.CodeSocketReadFailed), rerr.CodeSocketReadFailed)
	}
	return n, nil
}

// Write performs a single blocking write; short writes are permitted and
// reported via the returned count.
func (s *Socket) Write(p []byte) (int, error) {
	n, err := s.conn.Write(p)
	if err != nil && n == 0 {
		return 0, rerr.Wrap(rerr.New(rerr.CodeSocketWriteFailed), rerr.CodeSocketWriteFailed)
	}
	return n, nil
}

// Close closes the underlying connection. Best-effort: callers (and
// destructor-equivalent defers) should not treat a failing Close as fatal.
func (s *Socket) Close() error {
	if s.conn == nil {
		return nil
	}
	if err := s.conn.Close(); err != nil {
		return rerr.Wrap(rerr.New(rerr.CodeSocketCloseFailed), rerr.CodeSocketCloseFailed)
	}
	return nil
}
