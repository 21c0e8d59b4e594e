// Package websocket implements a from-scratch RFC 6455 client layered
// over httpclient and tlsclient: the upgrade handshake, the masked frame
// codec, and fragment/control-frame reassembly in Read.
package websocket

import (
	"encoding/binary"

	"github.com/whileendless/ralnet/internal/rerr"
	"github.com/whileendless/ralnet/pkg/prng"
	"github.com/whileendless/ralnet/pkg/tlsclient"
)

// OpCode identifies a frame's RFC 6455 §5.2 opcode.
type OpCode byte

const (
	OpContinuation OpCode = 0x0
	OpText         OpCode = 0x1
	OpBinary       OpCode = 0x2
	OpClose        OpCode = 0x8
	OpPing         OpCode = 0x9
	OpPong         OpCode = 0xa
)

// IsControl reports whether the opcode's high bit marks a control frame.
func (op OpCode) IsControl() bool {
	return op&0x8 != 0
}

// maxPayload rejects frames larger than this 64 MiB cap.
const maxPayload = 64 << 20

// coalesceLimit is the header+payload size at or below which a frame is built
// and written as a single TLS record instead of streamed in chunks.
const coalesceLimit = 256

// streamChunkSize is the chunk size used to mask and write payload bytes
// for frames above coalesceLimit, so a large outgoing message never
// needs a second full-size copy just to apply the mask.
const streamChunkSize = 256

// Header is a decoded RFC 6455 frame header.
type Header struct {
	Fin    bool
	Rsv    byte
	OpCode OpCode
	Masked bool
	Mask   [4]byte
	Length int64
}

// maskCipher XORs p in place against mask, continuing the mask's 4-byte
// cycle from offset — the same operation masks and unmasks, since XOR is
// its own inverse.
func maskCipher(p []byte, mask [4]byte, offset int) {
	for i := range p {
		p[i] ^= mask[(offset+i)%4]
	}
}

func encodeLength(dst []byte, n int64) []byte {
	switch {
	case n <= 125:
		return append(dst, byte(n))
	case n <= 0xffff:
		dst = append(dst, 126)
		var b [2]byte
		binary.BigEndian.PutUint16(b[:], uint16(n))
		return append(dst, b[:]...)
	default:
		dst = append(dst, 127)
		var b [8]byte
		binary.BigEndian.PutUint64(b[:], uint64(n))
		return append(dst, b[:]...)
	}
}

// WriteFrame masks payload with a fresh random key from rng and writes
// one complete frame to conn. Client-originated frames always set MASK.
func WriteFrame(conn *tlsclient.Client, rng *prng.Prng, op OpCode, fin bool, payload []byte) error {
	var mask [4]byte
	rng.GetArray(mask[:])

	header := make([]byte, 0, 14)
	var b0 byte
	if fin {
		b0 |= 0x80
	}
	b0 |= byte(op) & 0x0f
	header = append(header, b0)

	lenPrefix := encodeLength(nil, int64(len(payload)))
	lenPrefix[0] |= 0x80 // MASK bit
	header = append(header, lenPrefix...)
	header = append(header, mask[:]...)

	if len(header)+len(payload) <= coalesceLimit {
		full := make([]byte, len(header)+len(payload))
		copy(full, header)
		copy(full[len(header):], payload)
		maskCipher(full[len(header):], mask, 0)
		return writeAll(conn, full)
	}

	if err := writeAll(conn, header); err != nil {
		return err
	}
	chunk := make([]byte, streamChunkSize)
	for offset := 0; offset < len(payload); offset += streamChunkSize {
		end := offset + streamChunkSize
		if end > len(payload) {
			end = len(payload)
		}
		n := copy(chunk, payload[offset:end])
		maskCipher(chunk[:n], mask, offset)
		if err := writeAll(conn, chunk[:n]); err != nil {
			return err
		}
	}
	return nil
}

func writeAll(conn *tlsclient.Client, p []byte) error {
	for len(p) > 0 {
		n, err := conn.Write(p)
		if err != nil {
			return rerr.Wrap(err, rerr.CodeWsFrameWriteFailed)
		}
		p = p[n:]
	}
	return nil
}

// readFull reads exactly n bytes from conn, retrying the zero-length
// reads a secure TlsClient legitimately produces for control records.
func readFull(conn *tlsclient.Client, n int) ([]byte, error) {
	buf := make([]byte, n)
	read := 0
	for read < n {
		k, err := conn.Read(buf[read:])
		if err != nil {
			return nil, rerr.Wrap(err, rerr.CodeWsFrameReadFailed)
		}
		if k == 0 {
			if conn.Secure() {
				continue
			}
			return nil, rerr.New(rerr.CodeWsConnectionClosed)
		}
		read += k
	}
	return buf, nil
}

// ReadFrame reads and decodes one frame from conn.
func ReadFrame(conn *tlsclient.Client) (Header, []byte, error) {
	b, err := readFull(conn, 2)
	if err != nil {
		return Header{}, nil, err
	}
	var h Header
	h.Fin = b[0]&0x80 != 0
	h.Rsv = (b[0] >> 4) & 0x07
	if h.Rsv != 0 {
		return Header{}, nil, rerr.New(rerr.CodeWsFrameInvalidRsv)
	}
	h.OpCode = OpCode(b[0] & 0x0f)
	h.Masked = b[1]&0x80 != 0

	length := int64(b[1] & 0x7f)
	switch length {
	case 126:
		ext, err := readFull(conn, 2)
		if err != nil {
			return Header{}, nil, err
		}
		length = int64(binary.BigEndian.Uint16(ext))
	case 127:
		ext, err := readFull(conn, 8)
		if err != nil {
			return Header{}, nil, err
		}
		length = int64(binary.BigEndian.Uint64(ext))
	}
	if length < 0 || length > maxPayload {
		return Header{}, nil, rerr.New(rerr.CodeWsFrameTooLarge)
	}
	h.Length = length

	if h.Masked {
		maskBytes, err := readFull(conn, 4)
		if err != nil {
			return Header{}, nil, err
		}
		copy(h.Mask[:], maskBytes)
	}

	payload, err := readFull(conn, int(length))
	if err != nil {
		return Header{}, nil, err
	}
	if h.Masked {
		maskCipher(payload, h.Mask, 0)
	}
	return h, payload, nil
}
