package httpclient

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/whileendless/ralnet/internal/djb2"
	"github.com/whileendless/ralnet/internal/rerr"
)

// maxHeaderBytes bounds how much of a response a caller will read looking
// for the end of headers, so a peer that never sends CRLFCRLF can't hold
// a read loop open indefinitely.
const maxHeaderBytes = 16384

var (
	crlf                 = []byte("\r\n")
	crlfcrlf             = []byte("\r\n\r\n")
	contentLengthPrefix  = []byte("Content-Length: ")
	contentLengthPfxHash = djb2.Hash(contentLengthPrefix)
)

// readByte reads exactly one byte from r. secure must match whatever
// produced r: a secure tlsclient.Client legitimately returns (0, nil)
// for a control record it consumed internally, which readByte must
// retry rather than treat as end of stream; a plaintext socket never
// does, so (0, nil) there means the peer closed the connection early.
func readByte(r io.Reader, secure bool) (byte, error) {
	var b [1]byte
	for {
		n, err := r.Read(b[:])
		if err != nil {
			return 0, rerr.Wrap(err, rerr.CodeHttpReadHeadersFailedIO)
		}
		if n == 1 {
			return b[0], nil
		}
		if !secure {
			return 0, rerr.New(rerr.CodeHttpReadHeadersFailedIO)
		}
	}
}

// ReadRawHeaders reads bytes from r one at a time until the first
// CRLFCRLF or maxHeaderBytes, and returns everything read including the
// terminating blank line. Shared by ReadResponseHeaders and by the
// websocket handshake, which needs to inspect the Upgrade/Connection
// headers ReadResponseHeaders itself doesn't parse.
func ReadRawHeaders(r io.Reader, secure bool) ([]byte, error) {
	var buf []byte
	for {
		b, err := readByte(r, secure)
		if err != nil {
			return nil, err
		}
		buf = append(buf, b)
		if len(buf) > maxHeaderBytes {
			return nil, rerr.New(rerr.CodeHttpReadHeadersFailedTooLarge)
		}
		if len(buf) >= 4 && bytes.Equal(buf[len(buf)-4:], crlfcrlf) {
			return buf, nil
		}
	}
}

// HeaderValue returns the trimmed value of the first header named name
// (case-insensitive) in raw, as produced by ReadRawHeaders.
func HeaderValue(raw []byte, name string) (string, bool) {
	for _, line := range bytes.Split(raw, crlf) {
		colon := bytes.IndexByte(line, ':')
		if colon < 0 {
			continue
		}
		if !bytes.EqualFold(bytes.TrimSpace(line[:colon]), []byte(name)) {
			continue
		}
		return string(bytes.TrimSpace(line[colon+1:])), true
	}
	return "", false
}

// ReadResponseHeaders reads a status line and headers from r one byte at
// a time, stopping at the first CRLFCRLF or at maxHeaderBytes. It checks
// the status line's three-digit code at its fixed offset against
// expectedStatus and extracts Content-Length via a line-start-anchored,
// case-sensitive match, returning -1 when the header is absent.
func ReadResponseHeaders(r io.Reader, expectedStatus int, secure bool) (int64, error) {
	buf, err := ReadRawHeaders(r, secure)
	if err != nil {
		return -1, err
	}

	// "HTTP/1.1 " occupies bytes 0..8; the three status digits and the
	// space before the reason phrase occupy bytes 9..12.
	if len(buf) < 13 {
		return -1, rerr.New(rerr.CodeHttpReadHeadersFailedMalformed)
	}
	want := []byte(fmt.Sprintf("%03d ", expectedStatus))
	if !bytes.Equal(buf[9:13], want) {
		return -1, rerr.New(rerr.CodeHttpReadHeadersFailedStatus)
	}

	contentLength := int64(-1)
	for _, line := range bytes.Split(buf, crlf) {
		if len(line) < len(contentLengthPrefix) {
			continue
		}
		candidate := line[:len(contentLengthPrefix)]
		if djb2.Hash(candidate) != contentLengthPfxHash {
			continue
		}
		if !bytes.Equal(candidate, contentLengthPrefix) {
			continue
		}
		v, err := strconv.ParseInt(string(bytes.TrimSpace(line[len(contentLengthPrefix):])), 10, 64)
		if err == nil {
			contentLength = v
		}
	}
	return contentLength, nil
}
