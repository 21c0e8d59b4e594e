package tlsclient

import (
	"github.com/whileendless/ralnet/internal/rerr"
	"github.com/whileendless/ralnet/pkg/socket"
	"github.com/whileendless/ralnet/pkg/tlscipher"
)

func readFull(sock *socket.Socket, n int) ([]byte, error) {
	out := make([]byte, n)
	read := 0
	for read < n {
		got, err := sock.Read(out[read:])
		if err != nil {
			return nil, err
		}
		if got == 0 {
			return nil, rerr.New(rerr.CodeTlsConnectionClosed)
		}
		read += got
	}
	return out, nil
}

// readRecord reads one TLS record off the wire and, once record-layer
// keys are installed, opens it and strips its zero padding to recover the
// real inner content type.
func readRecord(sock *socket.Socket, cipher *tlscipher.Cipher) (contentType byte, payload []byte, err error) {
	header, err := readFull(sock, 5)
	if err != nil {
		return 0, nil, err
	}
	outerType := header[0]
	length := int(header[3])<<8 | int(header[4])
	if length > maxRecordCiphertext {
		return 0, nil, rerr.New(rerr.CodeTlsRecordTooLarge)
	}
	body, err := readFull(sock, length)
	if err != nil {
		return 0, nil, err
	}

	if outerType == contentChangeCipherSpec || !cipher.IsEncoding() {
		return outerType, body, nil
	}

	inner, err := cipher.DecodeRecord(body, header)
	if err != nil {
		return 0, nil, err
	}
	realType, plaintext, err := unpadInner(inner)
	if err != nil {
		return 0, nil, err
	}
	return realType, plaintext, nil
}

func unpadInner(inner []byte) (byte, []byte, error) {
	for i := len(inner) - 1; i >= 0; i-- {
		if inner[i] != 0 {
			return inner[i], inner[:i], nil
		}
	}
	return 0, nil, rerr.New(rerr.CodeTlsDecodeFailed)
}

// writeRecord sends one record of contentType. Once record-layer keys are
// installed, the real content type travels inside the encrypted inner
// plaintext and the wire header always advertises application_data, per
// RFC 8446 §5.2.
func writeRecord(sock *socket.Socket, cipher *tlscipher.Cipher, contentType byte, payload []byte) error {
	if !cipher.IsEncoding() {
		header := []byte{
			contentType,
			byte(legacyRecordVersion >> 8), byte(legacyRecordVersion),
			byte(len(payload) >> 8), byte(len(payload)),
		}
		return writeAll(sock, append(header, payload...))
	}

	inner := make([]byte, 0, len(payload)+1)
	inner = append(inner, payload...)
	inner = append(inner, contentType)

	cipherLen := len(inner) + 16
	header := []byte{
		contentApplicationData,
		byte(legacyRecordVersion >> 8), byte(legacyRecordVersion),
		byte(cipherLen >> 8), byte(cipherLen),
	}
	sealed, err := cipher.EncodeRecord(inner, header)
	if err != nil {
		return err
	}
	return writeAll(sock, append(header, sealed...))
}

// writeChangeCipherSpec writes the single-byte legacy compatibility
// record always sent in the clear, regardless of installed keys.
func writeChangeCipherSpec(sock *socket.Socket) error {
	header := []byte{
		contentChangeCipherSpec,
		byte(legacyRecordVersion >> 8), byte(legacyRecordVersion),
		0x00, 0x01,
	}
	return writeAll(sock, append(header, 0x01))
}

func writeAll(sock *socket.Socket, p []byte) error {
	written := 0
	for written < len(p) {
		n, err := sock.Write(p[written:])
		if err != nil {
			return err
		}
		if n == 0 {
			return rerr.New(rerr.CodeTlsConnectionClosed)
		}
		written += n
	}
	return nil
}
