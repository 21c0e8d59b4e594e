// Package tlsclient implements a from-scratch TLS 1.3 client restricted
// to TLS_CHACHA20_POLY1305_SHA256 and the P-256/P-384 key-exchange groups.
// It performs no certificate chain validation: CertificateVerify's
// signature is parsed and skipped, not checked, matching this core's
// trust model of pinning by network path rather than by certificate.
package tlsclient

import (
	"net"
	"time"

	"github.com/eapache/queue"

	"github.com/whileendless/ralnet/internal/rerr"
	"github.com/whileendless/ralnet/pkg/prng"
	"github.com/whileendless/ralnet/pkg/socket"
	"github.com/whileendless/ralnet/pkg/tlscipher"
)

const writeChunkSize = maxRecordPlaintext

// Client is a single TLS 1.3 connection. It is not safe for concurrent
// use from more than one goroutine at a time.
type Client struct {
	sock   *socket.Socket
	cipher *tlscipher.Cipher
	rng    *prng.Prng
	state  handshakeState

	secure bool
	open   bool

	recvQueue      *queue.Queue
	recvHeadOffset int
}

// New dials ip:port and, unless secure is false, performs the full TLS
// 1.3 handshake before returning. When secure is false the connection is
// a bare TCP passthrough: Read and Write touch the socket directly.
func New(ip net.IP, port uint16, host string, secure bool, timeout time.Duration, rng *prng.Prng) (*Client, error) {
	sock, err := socket.Dial(ip, port, timeout)
	if err != nil {
		return nil, rerr.Wrap(err, rerr.CodeTlsOpenFailedSocket)
	}
	return newWithSocket(sock, host, secure, rng)
}

// NewWithConn adapts an already-established net.Conn (e.g. one handed
// back after a SOCKS5 CONNECT) instead of dialing one itself, then
// proceeds exactly as New.
func NewWithConn(conn net.Conn, host string, secure bool, rng *prng.Prng) (*Client, error) {
	return newWithSocket(socket.Wrap(conn), host, secure, rng)
}

func newWithSocket(sock *socket.Socket, host string, secure bool, rng *prng.Prng) (*Client, error) {
	c := &Client{
		sock:      sock,
		cipher:    tlscipher.NewCipher(tlscipher.SideClient),
		rng:       rng,
		secure:    secure,
		recvQueue: queue.New(),
	}
	if !secure {
		c.open = true
		return c, nil
	}
	if err := c.handshake(host); err != nil {
		sock.Close()
		return nil, err
	}
	c.open = true
	return c, nil
}

// Secure reports whether this connection carries a negotiated TLS 1.3
// record layer, as opposed to a bare TCP passthrough.
func (c *Client) Secure() bool {
	return c.secure
}

func (c *Client) handshake(host string) error {
	c.cipher.CreateClientRandom(c.rng)
	if err := c.cipher.GenerateKeyShares(c.rng); err != nil {
		return rerr.Wrap(err, rerr.CodeTlsHandshakeFailedClientHello)
	}

	clientHello, err := composeClientHello(host, c.cipher)
	if err != nil {
		return rerr.Wrap(err, rerr.CodeTlsHandshakeFailedClientHello)
	}
	c.cipher.UpdateHash(clientHello)
	if err := writeRecord(c.sock, c.cipher, contentHandshake, clientHello); err != nil {
		return rerr.Wrap(err, rerr.CodeTlsHandshakeFailedClientHello)
	}
	c.state = stateClientHelloSent

	for c.state != stateOpen {
		contentType, payload, err := readRecord(c.sock, c.cipher)
		if err != nil {
			return err
		}
		switch contentType {
		case contentAlert:
			return rerr.New(rerr.CodeTlsAlertReceived)
		case contentChangeCipherSpec:
			// Legacy compatibility record, carries no state of its own
			// and is never part of the transcript.
			continue
		case contentHandshake:
			if err := c.processHandshakeRecord(payload); err != nil {
				return err
			}
		default:
			return rerr.New(rerr.CodeTlsHandshakeUnexpectedRecordType)
		}
	}
	return nil
}

func (c *Client) processHandshakeRecord(payload []byte) error {
	for len(payload) > 0 {
		if len(payload) < 4 {
			return rerr.New(rerr.CodeTlsHandshakeUnexpectedRecordType)
		}
		msgType := payload[0]
		length := int(payload[1])<<16 | int(payload[2])<<8 | int(payload[3])
		if len(payload) < 4+length {
			return rerr.New(rerr.CodeTlsHandshakeUnexpectedRecordType)
		}
		fullMsg := payload[:4+length]
		body := fullMsg[4:]
		payload = payload[4+length:]

		if err := c.processHandshakeMessage(msgType, body, fullMsg); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) processHandshakeMessage(msgType byte, body, fullMsg []byte) error {
	switch c.state {
	case stateClientHelloSent:
		if msgType != msgServerHello {
			return rerr.New(rerr.CodeTlsHandshakeUnexpectedRecordType)
		}
		sh, err := parseServerHello(body)
		if err != nil {
			return err
		}
		c.cipher.SetServerRandom(sh.random[:])
		c.cipher.UpdateHash(fullMsg)
		if err := c.cipher.ComputeHandshakeKeys(sh.group, sh.peerShare); err != nil {
			return err
		}
		c.state = stateServerHelloReceived

	case stateServerHelloReceived:
		if msgType != msgEncryptedExtensions {
			return rerr.New(rerr.CodeTlsHandshakeUnexpectedRecordType)
		}
		c.cipher.UpdateHash(fullMsg)
		c.state = stateEncryptedExtensionsReceived

	case stateEncryptedExtensionsReceived:
		if msgType != msgCertificate {
			return rerr.New(rerr.CodeTlsHandshakeFailedCertificate)
		}
		c.cipher.UpdateHash(fullMsg)
		c.state = stateCertificateReceived

	case stateCertificateReceived:
		if msgType != msgCertificateVerify {
			return rerr.New(rerr.CodeTlsHandshakeFailedCertificateVerify)
		}
		// Signature is not checked: this core trusts the network path
		// (pinned address) rather than a certificate chain.
		c.cipher.UpdateHash(fullMsg)
		c.state = stateCertificateVerifyReceived

	case stateCertificateVerifyReceived:
		if msgType != msgFinished {
			return rerr.New(rerr.CodeTlsHandshakeFailedFinished)
		}
		ok, err := c.cipher.VerifyData(tlscipher.SideServer, body)
		if err != nil {
			return err
		}
		if !ok {
			return rerr.New(rerr.CodeTlsVerifyDataMismatch)
		}
		c.cipher.UpdateHash(fullMsg)
		if err := c.sendClientFinished(); err != nil {
			return err
		}
		c.state = stateOpen

	default:
		return rerr.New(rerr.CodeTlsHandshakeOutOfOrder)
	}
	return nil
}

// sendClientFinished rotates to application traffic keys, then sends the
// legacy ChangeCipherSpec record followed by the client's own Finished
// message under the freshly installed application keys.
func (c *Client) sendClientFinished() error {
	if err := c.cipher.ComputeApplicationKeys(); err != nil {
		return err
	}
	if err := writeChangeCipherSpec(c.sock); err != nil {
		return err
	}
	verifyData, err := c.cipher.ComputeVerifyData(tlscipher.SideClient)
	if err != nil {
		return err
	}
	msg := make([]byte, 0, 4+len(verifyData))
	msg = append(msg, msgFinished, byte(len(verifyData)>>16), byte(len(verifyData)>>8), byte(len(verifyData)))
	msg = append(msg, verifyData...)
	if err := writeRecord(c.sock, c.cipher, contentHandshake, msg); err != nil {
		return err
	}
	c.cipher.UpdateHash(msg)
	return nil
}

// Write sends p as application data, chunked at 16 KiB per record.
func (c *Client) Write(p []byte) (int, error) {
	if !c.open {
		return 0, rerr.New(rerr.CodeTlsWriteFailedNotOpen)
	}
	if !c.secure {
		return c.sock.Write(p)
	}
	written := 0
	for written < len(p) {
		end := written + writeChunkSize
		if end > len(p) {
			end = len(p)
		}
		if err := writeRecord(c.sock, c.cipher, contentApplicationData, p[written:end]); err != nil {
			return written, err
		}
		written = end
	}
	return written, nil
}

// Read drains any buffered application data first; otherwise it performs
// one receive attempt and returns whatever that produced, which may be a
// short read including zero bytes with a nil error when the record
// received was a control record rather than application data.
func (c *Client) Read(p []byte) (int, error) {
	if !c.open {
		return 0, rerr.New(rerr.CodeTlsReadFailedNotOpen)
	}
	if !c.secure {
		return c.sock.Read(p)
	}
	if n := c.drainQueue(p); n > 0 {
		return n, nil
	}
	if err := c.receiveOnce(); err != nil {
		return 0, err
	}
	return c.drainQueue(p), nil
}

func (c *Client) drainQueue(p []byte) int {
	total := 0
	for total < len(p) && c.recvQueue.Length() > 0 {
		chunk := c.recvQueue.Peek().([]byte)
		n := copy(p[total:], chunk[c.recvHeadOffset:])
		total += n
		c.recvHeadOffset += n
		if c.recvHeadOffset == len(chunk) {
			c.recvQueue.Remove()
			c.recvHeadOffset = 0
		}
	}
	return total
}

func (c *Client) receiveOnce() error {
	contentType, payload, err := readRecord(c.sock, c.cipher)
	if err != nil {
		return err
	}
	switch contentType {
	case contentApplicationData:
		if len(payload) > 0 {
			c.recvQueue.Add(payload)
		}
	case contentAlert:
		return rerr.New(rerr.CodeTlsAlertReceived)
	case contentChangeCipherSpec:
		// May arrive late from a lagging peer; carries no information
		// once the handshake is complete.
	default:
		return rerr.New(rerr.CodeTlsHandshakeUnexpectedRecordType)
	}
	return nil
}

// Close closes the underlying socket. It does not send a close_notify
// alert.
func (c *Client) Close() error {
	c.open = false
	return c.sock.Close()
}
