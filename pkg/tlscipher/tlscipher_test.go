package tlscipher

import (
	"bytes"
	"testing"

	"github.com/whileendless/ralnet/pkg/prng"
)

func TestHkdfExpandLabelLength(t *testing.T) {
	secret := bytes.Repeat([]byte{0x42}, hashLen)
	out, err := hkdfExpandLabel(secret, "key", nil, 32)
	if err != nil {
		t.Fatalf("hkdfExpandLabel: %v", err)
	}
	if len(out) != 32 {
		t.Fatalf("len(out) = %d, want 32", len(out))
	}
}

func TestHkdfExpandTooLongFails(t *testing.T) {
	secret := bytes.Repeat([]byte{0x01}, hashLen)
	if _, err := hkdfExpandLabel(secret, "key", nil, 256*hashLen); err == nil {
		t.Fatalf("expected error for over-length expand")
	}
}

func TestDeriveSecretIsDeterministic(t *testing.T) {
	secret := bytes.Repeat([]byte{0x07}, hashLen)
	transcript := bytes.Repeat([]byte{0x09}, hashLen)
	a, err := deriveSecret(secret, "c hs traffic", transcript)
	if err != nil {
		t.Fatalf("deriveSecret: %v", err)
	}
	b, err := deriveSecret(secret, "c hs traffic", transcript)
	if err != nil {
		t.Fatalf("deriveSecret: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("deriveSecret not deterministic")
	}

	c, err := deriveSecret(secret, "s hs traffic", transcript)
	if err != nil {
		t.Fatalf("deriveSecret: %v", err)
	}
	if bytes.Equal(a, c) {
		t.Fatalf("different labels produced the same secret")
	}
}

func TestHandshakeKeyScheduleSymmetric(t *testing.T) {
	rngA := prng.New(1001)
	rngB := prng.New(2002)

	client := NewCipher(SideClient)
	server := NewCipher(SideServer)
	client.CreateClientRandom(rngA)
	server.CreateClientRandom(rngB)

	if err := client.GenerateKeyShares(rngA); err != nil {
		t.Fatalf("client key shares: %v", err)
	}
	if err := server.GenerateKeyShares(rngB); err != nil {
		t.Fatalf("server key shares: %v", err)
	}

	clientShare, err := client.PublicKeyShare(GroupP256)
	if err != nil {
		t.Fatalf("client public share: %v", err)
	}
	serverShare, err := server.PublicKeyShare(GroupP256)
	if err != nil {
		t.Fatalf("server public share: %v", err)
	}

	transcript := []byte("synthetic-client-hello-server-hello")
	client.UpdateHash(transcript)
	server.UpdateHash(transcript)

	if err := client.ComputeHandshakeKeys(GroupP256, serverShare); err != nil {
		t.Fatalf("client handshake keys: %v", err)
	}
	if err := server.ComputeHandshakeKeys(GroupP256, clientShare); err != nil {
		t.Fatalf("server handshake keys: %v", err)
	}

	if !client.IsEncoding() || !server.IsEncoding() {
		t.Fatalf("expected both sides to report encoding after handshake keys")
	}

	plaintext := []byte("EncryptedExtensions placeholder")
	aad := []byte{0x17, 0x03, 0x03, 0x00, 0x20}
	sealed, err := client.EncodeRecord(plaintext, aad)
	if err != nil {
		t.Fatalf("client encode: %v", err)
	}
	opened, err := server.DecodeRecord(sealed, aad)
	if err != nil {
		t.Fatalf("server decode: %v", err)
	}
	if !bytes.Equal(opened, plaintext) {
		t.Fatalf("round trip mismatch: got %q want %q", opened, plaintext)
	}
}

func TestVerifyDataAgreesBetweenPeers(t *testing.T) {
	rngA := prng.New(55)
	rngB := prng.New(66)

	client := NewCipher(SideClient)
	server := NewCipher(SideServer)
	if err := client.GenerateKeyShares(rngA); err != nil {
		t.Fatalf("client key shares: %v", err)
	}
	if err := server.GenerateKeyShares(rngB); err != nil {
		t.Fatalf("server key shares: %v", err)
	}
	clientShare, _ := client.PublicKeyShare(GroupP384)
	serverShare, _ := server.PublicKeyShare(GroupP384)

	transcript := []byte("shared-transcript-prefix")
	client.UpdateHash(transcript)
	server.UpdateHash(transcript)

	if err := client.ComputeHandshakeKeys(GroupP384, serverShare); err != nil {
		t.Fatalf("client handshake keys: %v", err)
	}
	if err := server.ComputeHandshakeKeys(GroupP384, clientShare); err != nil {
		t.Fatalf("server handshake keys: %v", err)
	}

	serverVerify, err := server.ComputeVerifyData(SideServer)
	if err != nil {
		t.Fatalf("server verify data: %v", err)
	}
	ok, err := client.VerifyData(SideServer, serverVerify)
	if err != nil {
		t.Fatalf("client verify check: %v", err)
	}
	if !ok {
		t.Fatalf("client rejected server's own verify-data")
	}
}

func TestApplicationKeyRotationResetsSequenceNumbers(t *testing.T) {
	rngA := prng.New(303)
	rngB := prng.New(404)

	client := NewCipher(SideClient)
	server := NewCipher(SideServer)
	if err := client.GenerateKeyShares(rngA); err != nil {
		t.Fatalf("client key shares: %v", err)
	}
	if err := server.GenerateKeyShares(rngB); err != nil {
		t.Fatalf("server key shares: %v", err)
	}
	clientShare, _ := client.PublicKeyShare(GroupP256)
	serverShare, _ := server.PublicKeyShare(GroupP256)

	client.UpdateHash([]byte("hs-transcript"))
	server.UpdateHash([]byte("hs-transcript"))
	if err := client.ComputeHandshakeKeys(GroupP256, serverShare); err != nil {
		t.Fatalf("client handshake keys: %v", err)
	}
	if err := server.ComputeHandshakeKeys(GroupP256, clientShare); err != nil {
		t.Fatalf("server handshake keys: %v", err)
	}

	aad := []byte{0x17, 0x03, 0x03, 0x00, 0x10}
	if _, err := client.EncodeRecord([]byte("hs-record"), aad); err != nil {
		t.Fatalf("encode during handshake phase: %v", err)
	}
	if client.localSeq != 1 {
		t.Fatalf("localSeq after one handshake record = %d, want 1", client.localSeq)
	}

	client.UpdateHash([]byte("full-transcript-through-server-finished"))
	server.UpdateHash([]byte("full-transcript-through-server-finished"))
	if err := client.ComputeApplicationKeys(); err != nil {
		t.Fatalf("client application keys: %v", err)
	}
	if err := server.ComputeApplicationKeys(); err != nil {
		t.Fatalf("server application keys: %v", err)
	}

	if client.localSeq != 0 || client.remoteSeq != 0 {
		t.Fatalf("sequence counters not reset after application key rotation: local=%d remote=%d", client.localSeq, client.remoteSeq)
	}

	appData := []byte("application data after rotation")
	sealed, err := client.EncodeRecord(appData, aad)
	if err != nil {
		t.Fatalf("encode after rotation: %v", err)
	}
	opened, err := server.DecodeRecord(sealed, aad)
	if err != nil {
		t.Fatalf("decode after rotation: %v", err)
	}
	if !bytes.Equal(opened, appData) {
		t.Fatalf("application data round trip mismatch")
	}
}

func TestComputeVerifyDataBeforeKeysFails(t *testing.T) {
	c := NewCipher(SideClient)
	if _, err := c.ComputeVerifyData(SideClient); err == nil {
		t.Fatalf("expected error computing verify-data before key schedule is ready")
	}
}
