// Package httpclient implements the minimal HTTP/1.1 client the rest of
// this core builds on: enough to drive a WebSocket handshake and to POST
// DNS-over-HTTPS queries, not a general-purpose HTTP stack. It resolves
// through a caller-supplied Resolver (package dns, normally) rather than
// importing dns itself, since dns POSTs its own queries through this
// package — wiring dns directly in would be circular.
package httpclient

import (
	"bytes"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/whileendless/ralnet/internal/rerr"
	"github.com/whileendless/ralnet/pkg/prng"
	"github.com/whileendless/ralnet/pkg/tlsclient"
)

// Resolver resolves host to an address, optionally preferring an IPv6
// (AAAA) answer over an IPv4 (A) one. Package dns's Resolve family
// implements this signature.
type Resolver func(host string, wantIPv6 bool) (net.IP, error)

// Options configures how New reaches the parsed URL's host.
type Options struct {
	// ConnectIP bypasses Resolve entirely when set, connecting to this
	// address directly. dns's own bootstrap resolvers use this to reach
	// their well-known DoH endpoints without resolving through dns.
	ConnectIP net.IP
	// Resolve is required unless ConnectIP is set, or the URL's host is an
	// IP literal and Proxy is nil.
	Resolve Resolver
	// Proxy routes the connection through a SOCKS5 upstream when set.
	Proxy       *ProxyConfig
	ConnTimeout time.Duration
	Rng         *prng.Prng
}

// Client holds one HTTP/1.1 request/response cycle's connection state:
// the parsed target and the TlsClient (plaintext or TLS 1.3, depending on
// scheme) it was reached through.
type Client struct {
	conn *tlsclient.Client
	url  *ParsedURL
}

// New parses rawURL, resolves and connects to its host (AAAA before A,
// retried once on A if the AAAA address fails to connect), and leaves the
// connection ready for SendGet/SendPost.
func New(rawURL string, opts Options) (*Client, error) {
	parsed, err := ParseURL(rawURL)
	if err != nil {
		return nil, err
	}

	rng := opts.Rng
	if rng == nil {
		rng = prng.NewFromHardwareClock()
	}
	timeout := opts.ConnTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	conn, err := dialTarget(parsed, opts, rng, timeout)
	if err != nil {
		return nil, err
	}
	return &Client{conn: conn, url: parsed}, nil
}

func dialTarget(parsed *ParsedURL, opts Options, rng *prng.Prng, timeout time.Duration) (*tlsclient.Client, error) {
	// A URL whose host is already an IP literal (DNS-over-HTTPS endpoints
	// are normally reached this way, to avoid resolving the resolver)
	// never needs Resolve or an explicit ConnectIP.
	if opts.ConnectIP == nil && opts.Proxy == nil {
		if literal := net.ParseIP(parsed.Host); literal != nil {
			opts.ConnectIP = literal
		}
	}

	if opts.Proxy != nil {
		ip, err := resolveOne(parsed.Host, opts)
		if err != nil {
			return nil, err
		}
		raw, err := dialViaProxy(opts.Proxy, ip, parsed.Port, timeout)
		if err != nil {
			return nil, rerr.Wrap(err, rerr.CodeHttpCreateFailedSocket)
		}
		c, err := tlsclient.NewWithConn(raw, parsed.Host, parsed.Secure(), rng)
		if err != nil {
			raw.Close()
			return nil, rerr.Wrap(err, rerr.CodeHttpCreateFailedSocket)
		}
		return c, nil
	}

	if opts.ConnectIP != nil {
		c, err := tlsclient.New(opts.ConnectIP, uint16(parsed.Port), parsed.Host, parsed.Secure(), timeout, rng)
		if err != nil {
			return nil, rerr.Wrap(err, rerr.CodeHttpCreateFailedSocket)
		}
		return c, nil
	}
	if opts.Resolve == nil {
		return nil, rerr.New(rerr.CodeHttpCreateFailedResolve)
	}

	if ip6, err := opts.Resolve(parsed.Host, true); err == nil {
		if c, err2 := tlsclient.New(ip6, uint16(parsed.Port), parsed.Host, parsed.Secure(), timeout, rng); err2 == nil {
			return c, nil
		}
	}
	ip4, err := opts.Resolve(parsed.Host, false)
	if err != nil {
		return nil, rerr.Wrap(err, rerr.CodeHttpCreateFailedResolve)
	}
	c, err := tlsclient.New(ip4, uint16(parsed.Port), parsed.Host, parsed.Secure(), timeout, rng)
	if err != nil {
		return nil, rerr.Wrap(err, rerr.CodeHttpCreateFailedSocket)
	}
	return c, nil
}

func resolveOne(host string, opts Options) (net.IP, error) {
	if opts.ConnectIP != nil {
		return opts.ConnectIP, nil
	}
	if opts.Resolve == nil {
		return nil, rerr.New(rerr.CodeHttpCreateFailedResolve)
	}
	ip, err := opts.Resolve(host, true)
	if err != nil {
		return nil, rerr.Wrap(err, rerr.CodeHttpCreateFailedResolve)
	}
	return ip, nil
}

// SendGet writes a GET request for the parsed URL's path, closing the
// connection after the response per Connection: close.
func (c *Client) SendGet() error {
	req := fmt.Sprintf("GET %s HTTP/1.1\r\nHost: %s\r\nConnection: close\r\n\r\n", c.url.Path, c.url.Host)
	return c.writeAll([]byte(req))
}

// SendPost writes a POST request carrying body, with a Content-Length
// header computed from len(body).
func (c *Client) SendPost(body []byte) error {
	req := fmt.Sprintf("POST %s HTTP/1.1\r\nHost: %s\r\nConnection: close\r\nContent-Length: %d\r\n\r\n",
		c.url.Path, c.url.Host, len(body))
	full := make([]byte, 0, len(req)+len(body))
	full = append(full, req...)
	full = append(full, body...)
	return c.writeAll(full)
}

// SendPostWithHeaders writes a POST request carrying body plus the given
// extra headers (DNS-over-HTTPS needs Content-Type/Accept values SendPost
// doesn't set).
func (c *Client) SendPostWithHeaders(body []byte, headers map[string]string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "POST %s HTTP/1.1\r\nHost: %s\r\nConnection: close\r\nContent-Length: %d\r\n",
		c.url.Path, c.url.Host, len(body))
	for k, v := range headers {
		fmt.Fprintf(&b, "%s: %s\r\n", k, v)
	}
	b.WriteString("\r\n")
	full := make([]byte, 0, b.Len()+len(body))
	full = append(full, b.String()...)
	full = append(full, body...)
	return c.writeAll(full)
}

func (c *Client) writeAll(p []byte) error {
	for len(p) > 0 {
		n, err := c.conn.Write(p)
		if err != nil {
			return rerr.Wrap(err, rerr.CodeHttpSendRequestFailed)
		}
		p = p[n:]
	}
	return nil
}

// ReadResponseHeaders reads the response's status line and headers,
// checking the status code against expectedStatus and returning the
// declared Content-Length, or -1 if the response didn't include one.
func (c *Client) ReadResponseHeaders(expectedStatus int) (int64, error) {
	return ReadResponseHeaders(c.conn, expectedStatus, c.conn.Secure())
}

// ReadBody reads exactly n bytes of response body, or, when n is
// negative (no Content-Length was present), reads until the connection
// closes.
func (c *Client) ReadBody(n int64) ([]byte, error) {
	if n < 0 {
		return readUntilClose(c.conn, c.conn.Secure())
	}
	buf := make([]byte, n)
	if err := readExact(c.conn, buf, c.conn.Secure()); err != nil {
		return nil, err
	}
	return buf, nil
}

// Conn exposes the underlying TlsClient, for callers (the websocket
// handshake) that need to keep using the same connection past the
// request/response this Client composed.
func (c *Client) Conn() *tlsclient.Client {
	return c.conn
}

// URL returns the parsed target this Client connected to.
func (c *Client) URL() *ParsedURL {
	return c.url
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

func readExact(c *tlsclient.Client, buf []byte, secure bool) error {
	read := 0
	for read < len(buf) {
		n, err := c.Read(buf[read:])
		read += n
		if err != nil {
			return rerr.Wrap(err, rerr.CodeHttpReadBodyFailedIO)
		}
		if n == 0 && !secure {
			return rerr.New(rerr.CodeHttpReadBodyFailedIO)
		}
	}
	return nil
}

func readUntilClose(c *tlsclient.Client, secure bool) ([]byte, error) {
	var buf bytes.Buffer
	chunk := make([]byte, 4096)
	for {
		n, err := c.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
		}
		if err != nil {
			if isConnectionClosed(err) {
				return buf.Bytes(), nil
			}
			return buf.Bytes(), rerr.Wrap(err, rerr.CodeHttpReadBodyFailedIO)
		}
		if n == 0 && !secure {
			return buf.Bytes(), nil
		}
	}
}

func isConnectionClosed(err error) bool {
	var e *rerr.Error
	if errors.As(err, &e) {
		return e.Code == rerr.CodeTlsConnectionClosed
	}
	return false
}
