package tlsclient

import (
	"bytes"
	"net"
	"testing"

	"github.com/whileendless/ralnet/pkg/prng"
	"github.com/whileendless/ralnet/pkg/socket"
	"github.com/whileendless/ralnet/pkg/tlscipher"
)

func TestComposeClientHelloShape(t *testing.T) {
	cipher := tlscipher.NewCipher(tlscipher.SideClient)
	rng := prng.New(42)
	cipher.CreateClientRandom(rng)
	if err := cipher.GenerateKeyShares(rng); err != nil {
		t.Fatalf("GenerateKeyShares: %v", err)
	}

	msg, err := composeClientHello("example.test", cipher)
	if err != nil {
		t.Fatalf("composeClientHello: %v", err)
	}
	if msg[0] != msgClientHello {
		t.Fatalf("message type = %#x, want %#x", msg[0], msgClientHello)
	}
	length := int(msg[1])<<16 | int(msg[2])<<8 | int(msg[3])
	if length != len(msg)-4 {
		t.Fatalf("declared length %d, actual body %d", length, len(msg)-4)
	}
	if !bytes.Contains(msg, []byte("example.test")) {
		t.Fatalf("server_name extension missing hostname")
	}
}

func buildServerHelloBody(random [32]byte, group tlscipher.Group, peerShare []byte) []byte {
	var body []byte
	body = append(body, byte(legacyRecordVersion>>8), byte(legacyRecordVersion))
	body = append(body, random[:]...)
	body = append(body, 0x00) // empty session id
	body = append(body, byte(cipherChaCha20Poly1305>>8), byte(cipherChaCha20Poly1305))
	body = append(body, 0x00) // null compression

	keyShare := []byte{byte(group >> 8), byte(group)}
	keyShare = append(keyShare, byte(len(peerShare)>>8), byte(len(peerShare)))
	keyShare = append(keyShare, peerShare...)
	ext := []byte{byte(extKeyShare >> 8), byte(extKeyShare)}
	ext = append(ext, byte(len(keyShare)>>8), byte(len(keyShare)))
	ext = append(ext, keyShare...)

	body = append(body, byte(len(ext)>>8), byte(len(ext)))
	body = append(body, ext...)
	return body
}

func TestParseServerHelloRoundTrip(t *testing.T) {
	rng := prng.New(7)
	key, err := newTestKeyShare(rng)
	if err != nil {
		t.Fatalf("key share: %v", err)
	}
	var random [32]byte
	rng.GetArray(random[:])

	body := buildServerHelloBody(random, tlscipher.GroupP256, key)
	sh, err := parseServerHello(body)
	if err != nil {
		t.Fatalf("parseServerHello: %v", err)
	}
	if sh.random != random {
		t.Fatalf("random mismatch")
	}
	if sh.group != tlscipher.GroupP256 {
		t.Fatalf("group = %#x, want P256", sh.group)
	}
	if !bytes.Equal(sh.peerShare, key) {
		t.Fatalf("peer share mismatch")
	}
}

func newTestKeyShare(rng *prng.Prng) ([]byte, error) {
	c := tlscipher.NewCipher(tlscipher.SideClient)
	if err := c.GenerateKeyShares(rng); err != nil {
		return nil, err
	}
	return c.PublicKeyShare(tlscipher.GroupP256)
}

func TestParseServerHelloRejectsWrongCipherSuite(t *testing.T) {
	var body []byte
	body = append(body, byte(legacyRecordVersion>>8), byte(legacyRecordVersion))
	body = append(body, make([]byte, 32)...)
	body = append(body, 0x00)
	body = append(body, 0x00, 0x00) // TLS_NULL_WITH_NULL_NULL instead
	body = append(body, 0x00, 0x00, 0x00)
	if _, err := parseServerHello(body); err == nil {
		t.Fatalf("expected error for mismatched cipher suite")
	}
}

func TestUnpadInnerStripsTrailingZeros(t *testing.T) {
	inner := []byte{'h', 'i', contentHandshake, 0, 0, 0}
	realType, plaintext, err := unpadInner(inner)
	if err != nil {
		t.Fatalf("unpadInner: %v", err)
	}
	if realType != contentHandshake {
		t.Fatalf("realType = %#x, want %#x", realType, contentHandshake)
	}
	if !bytes.Equal(plaintext, []byte("hi")) {
		t.Fatalf("plaintext = %q, want %q", plaintext, "hi")
	}
}

func TestUnpadInnerRejectsAllZero(t *testing.T) {
	if _, _, err := unpadInner(make([]byte, 8)); err == nil {
		t.Fatalf("expected error for all-zero inner plaintext")
	}
}

// establishMatchingCiphers runs the symmetric half of the key schedule
// both sides already exercise in package tlscipher's own tests, giving two
// Cipher values with identical installed handshake traffic keys to drive
// the record framing in record.go over a real wire (a net.Pipe) instead
// of calling the encoder directly.
func establishMatchingCiphers(t *testing.T) (*tlscipher.Cipher, *tlscipher.Cipher) {
	t.Helper()
	rngA := prng.New(501)
	rngB := prng.New(502)

	a := tlscipher.NewCipher(tlscipher.SideClient)
	b := tlscipher.NewCipher(tlscipher.SideServer)
	if err := a.GenerateKeyShares(rngA); err != nil {
		t.Fatalf("a key shares: %v", err)
	}
	if err := b.GenerateKeyShares(rngB); err != nil {
		t.Fatalf("b key shares: %v", err)
	}
	aShare, err := a.PublicKeyShare(tlscipher.GroupP256)
	if err != nil {
		t.Fatalf("a share: %v", err)
	}
	bShare, err := b.PublicKeyShare(tlscipher.GroupP256)
	if err != nil {
		t.Fatalf("b share: %v", err)
	}

	transcript := []byte("fixed-test-transcript")
	a.UpdateHash(transcript)
	b.UpdateHash(transcript)
	if err := a.ComputeHandshakeKeys(tlscipher.GroupP256, bShare); err != nil {
		t.Fatalf("a handshake keys: %v", err)
	}
	if err := b.ComputeHandshakeKeys(tlscipher.GroupP256, aShare); err != nil {
		t.Fatalf("b handshake keys: %v", err)
	}
	return a, b
}

func TestRecordWriteReadRoundTripOverPipe(t *testing.T) {
	clientCipher, serverCipher := establishMatchingCiphers(t)

	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()
	clientSock := socket.Wrap(clientConn)
	serverSock := socket.Wrap(serverConn)

	payload := []byte("application data carried inside a TLS 1.3 record")
	done := make(chan error, 1)
	go func() {
		done <- writeRecord(clientSock, clientCipher, contentApplicationData, payload)
	}()

	contentType, got, err := readRecord(serverSock, serverCipher)
	if err != nil {
		t.Fatalf("readRecord: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("writeRecord: %v", err)
	}
	if contentType != contentApplicationData {
		t.Fatalf("contentType = %#x, want %#x", contentType, contentApplicationData)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("payload = %q, want %q", got, payload)
	}
}

func TestRecordReadRejectsTamperedCiphertext(t *testing.T) {
	clientCipher, serverCipher := establishMatchingCiphers(t)

	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()
	clientSock := socket.Wrap(clientConn)
	serverSock := socket.Wrap(serverConn)

	done := make(chan error, 1)
	go func() {
		done <- writeRecord(clientSock, clientCipher, contentApplicationData, []byte("tamper me"))
	}()

	header, err := readFull(serverSock, 5)
	if err != nil {
		t.Fatalf("read header: %v", err)
	}
	length := int(header[3])<<8 | int(header[4])
	body, err := readFull(serverSock, length)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("writeRecord: %v", err)
	}
	body[0] ^= 0xff

	if _, err := serverCipher.DecodeRecord(body, header); err == nil {
		t.Fatalf("expected tag mismatch decoding a tampered record")
	}
}
