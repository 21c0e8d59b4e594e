package websocket

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/gobwas/httphead"

	"github.com/whileendless/ralnet/internal/rerr"
	"github.com/whileendless/ralnet/pkg/httpclient"
	"github.com/whileendless/ralnet/pkg/prng"
	"github.com/whileendless/ralnet/pkg/tlsclient"
)

// Options configures how New reaches the target URL's host, mirroring
// httpclient.Options for the TlsClient underneath the WebSocket frames.
type Options struct {
	ConnectIP   net.IP
	Resolve     httpclient.Resolver
	Proxy       *httpclient.ProxyConfig
	ConnTimeout time.Duration
	Rng         *prng.Prng
}

// Message is one reassembled WebSocket message: a data opcode (Text or
// Binary) and the concatenated payload of its frame(s).
type Message struct {
	OpCode  OpCode
	Payload []byte
}

// Client is a single open WebSocket connection.
type Client struct {
	conn        *tlsclient.Client
	rng         *prng.Prng
	isConnected bool
}

// New opens the underlying HTTP(S) connection, performs the RFC 6455
// upgrade handshake, and returns a Client ready for Read/Write once the
// server answers 101 Switching Protocols.
func New(rawURL string, opts Options) (*Client, error) {
	hc, err := httpclient.New(rawURL, httpclient.Options{
		ConnectIP:   opts.ConnectIP,
		Resolve:     opts.Resolve,
		Proxy:       opts.Proxy,
		ConnTimeout: opts.ConnTimeout,
		Rng:         opts.Rng,
	})
	if err != nil {
		return nil, rerr.Wrap(err, rerr.CodeWsOpenFailedHttp)
	}

	rng := opts.Rng
	if rng == nil {
		rng = prng.NewFromHardwareClock()
	}

	if err := performHandshake(hc, rng); err != nil {
		hc.Close()
		return nil, err
	}

	return &Client{conn: hc.Conn(), rng: rng, isConnected: true}, nil
}

func performHandshake(hc *httpclient.Client, rng *prng.Prng) error {
	u := hc.URL()
	keyBytes := make([]byte, 16)
	rng.GetArray(keyBytes)
	key := base64.StdEncoding.EncodeToString(keyBytes)

	originScheme := "http"
	if u.Secure() {
		originScheme = "https"
	}

	req := fmt.Sprintf(
		"GET %s HTTP/1.1\r\n"+
			"Host: %s\r\n"+
			"Upgrade: websocket\r\n"+
			"Connection: Upgrade\r\n"+
			"Sec-WebSocket-Key: %s\r\n"+
			"Sec-WebSocket-Version: 13\r\n"+
			"Origin: %s://%s\r\n"+
			"\r\n",
		u.Path, u.Host, key, originScheme, u.Host)

	conn := hc.Conn()
	written := 0
	reqBytes := []byte(req)
	for written < len(reqBytes) {
		n, err := conn.Write(reqBytes[written:])
		if err != nil {
			return rerr.Wrap(err, rerr.CodeWsOpenFailedHttp)
		}
		written += n
	}

	raw, err := httpclient.ReadRawHeaders(conn, conn.Secure())
	if err != nil {
		return rerr.Wrap(err, rerr.CodeWsOpenFailedHttp)
	}
	if err := validateHandshakeResponse(raw); err != nil {
		return err
	}
	return nil
}

func validateHandshakeResponse(raw []byte) error {
	statusLine, _, _ := bytes.Cut(raw, []byte("\r\n"))
	fields := strings.SplitN(string(statusLine), " ", 3)
	if len(fields) < 2 {
		return rerr.New(rerr.CodeWsOpenFailedHandshakeStatus)
	}
	code, err := strconv.Atoi(fields[1])
	if err != nil || code != 101 {
		return rerr.New(rerr.CodeWsOpenFailedHandshakeStatus)
	}

	upgrade, _ := httpclient.HeaderValue(raw, "Upgrade")
	if !strings.EqualFold(upgrade, "websocket") {
		return rerr.New(rerr.CodeWsOpenFailedHandshakeStatus)
	}

	connVal, _ := httpclient.HeaderValue(raw, "Connection")
	hasUpgradeToken := false
	httphead.ScanTokens([]byte(connVal), func(tok []byte) bool {
		if bytes.EqualFold(tok, []byte("upgrade")) {
			hasUpgradeToken = true
			return false
		}
		return true
	})
	if !hasUpgradeToken {
		return rerr.New(rerr.CodeWsOpenFailedHandshakeStatus)
	}
	return nil
}

// Write sends payload as a single unfragmented frame with the given
// opcode (OpText or OpBinary).
func (c *Client) Write(op OpCode, payload []byte) error {
	if !c.isConnected {
		return rerr.New(rerr.CodeWsNotConnected)
	}
	return WriteFrame(c.conn, c.rng, op, true, payload)
}

// Read reassembles the next complete message, replying to PING with PONG
// and discarding PONG internally; a CLOSE frame is echoed back and
// surfaces as CodeWsConnectionClosed.
func (c *Client) Read() (Message, error) {
	if !c.isConnected {
		return Message{}, rerr.New(rerr.CodeWsNotConnected)
	}

	var msgOp OpCode
	var buf []byte
	first := true

	for {
		hdr, payload, err := ReadFrame(c.conn)
		if err != nil {
			c.isConnected = false
			return Message{}, err
		}

		if hdr.OpCode.IsControl() {
			switch hdr.OpCode {
			case OpClose:
				status := uint16(0)
				if len(payload) >= 2 {
					status = binary.BigEndian.Uint16(payload)
				}
				c.isConnected = false
				WriteFrame(c.conn, c.rng, OpClose, true, closeStatusPayload(status))
				return Message{}, rerr.New(rerr.CodeWsConnectionClosed)
			case OpPing:
				if err := WriteFrame(c.conn, c.rng, OpPong, true, payload); err != nil {
					return Message{}, err
				}
			case OpPong:
				// discarded
			default:
				c.isConnected = false
				return Message{}, rerr.New(rerr.CodeWsFrameInvalidOpcode)
			}
			continue
		}

		if first {
			if hdr.OpCode == OpContinuation {
				c.isConnected = false
				return Message{}, rerr.New(rerr.CodeWsFragmentationOutOfOrder)
			}
			msgOp = hdr.OpCode
			first = false
		} else if hdr.OpCode != OpContinuation {
			c.isConnected = false
			return Message{}, rerr.New(rerr.CodeWsFragmentationOutOfOrder)
		}

		buf = append(buf, payload...)
		if hdr.Fin {
			return Message{OpCode: msgOp, Payload: buf}, nil
		}
	}
}

func closeStatusPayload(status uint16) []byte {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, status)
	return b
}

// Close sends a CLOSE frame with status 1000 and tears down the
// underlying connection. Best-effort: the CLOSE write's own error, if
// any, is swallowed in favor of reporting the transport close.
func (c *Client) Close() error {
	if c.isConnected {
		WriteFrame(c.conn, c.rng, OpClose, true, closeStatusPayload(1000))
		c.isConnected = false
	}
	return c.conn.Close()
}
