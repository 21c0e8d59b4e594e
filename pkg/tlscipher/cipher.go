// Package tlscipher owns the TLS 1.3 key schedule for
// TLS_CHACHA20_POLY1305_SHA256: transcript hashing, HKDF-Expand-Label,
// the handshake-to-application traffic secret rotation, verify-data
// computation, and per-direction record encode/decode.
package tlscipher

import (
	"crypto/subtle"

	"github.com/whileendless/ralnet/internal/rerr"
	"github.com/whileendless/ralnet/pkg/chacha20poly1305"
	"github.com/whileendless/ralnet/pkg/ecc"
	"github.com/whileendless/ralnet/pkg/prng"
	"github.com/whileendless/ralnet/pkg/sha2"
	"github.com/whileendless/ralnet/pkg/tlsbuffer"
)

// Group identifies a TLS 1.3 named group this core negotiates key shares
// for. Values match RFC 8446's NamedGroup registry.
type Group uint16

const (
	GroupP256 Group = 0x0017
	GroupP384 Group = 0x0018
)

func curveBytesForGroup(g Group) (int, bool) {
	switch g {
	case GroupP256:
		return 32, true
	case GroupP384:
		return 48, true
	default:
		return 0, false
	}
}

// Side names which endpoint's traffic secret a verify-data computation
// or key installation refers to.
type Side int

const (
	SideClient Side = iota
	SideServer
)

// Cipher is the per-connection TLS 1.3 key-schedule state machine. side
// fixes which traffic secret this endpoint encodes with: a client always
// writes under the client secret and reads under the server secret, and
// a server does the reverse.
type Cipher struct {
	side       Side
	transcript *tlsbuffer.Hash

	ClientRandom [32]byte
	ServerRandom [32]byte

	keyShares       map[Group]*ecc.PrivateKey
	negotiatedGroup Group

	earlySecret          []byte
	handshakeSecret      []byte
	masterSecret         []byte
	clientTrafficSecret  []byte
	serverTrafficSecret  []byte

	localSeq  uint64
	remoteSeq uint64
	encoder   *chacha20poly1305.Encoder
	encoding  bool
}

// NewCipher returns a Cipher with an empty transcript and no installed
// key shares, fixed to the given side for the lifetime of the connection.
func NewCipher(side Side) *Cipher {
	return &Cipher{
		side:       side,
		transcript: tlsbuffer.NewHash(),
		keyShares:  make(map[Group]*ecc.PrivateKey),
	}
}

// CreateClientRandom fills ClientRandom with 32 bytes from rng.
func (c *Cipher) CreateClientRandom(rng *prng.Prng) {
	rng.GetArray(c.ClientRandom[:])
}

// SetServerRandom records the 32-byte random value read from ServerHello.
func (c *Cipher) SetServerRandom(b []byte) {
	copy(c.ServerRandom[:], b)
}

// GenerateKeyShares generates one ECDH keypair per supported group
// (P-256 and P-384); the server's ServerHello.key_share picks which one
// is actually consumed.
func (c *Cipher) GenerateKeyShares(rng *prng.Prng) error {
	for _, g := range []Group{GroupP256, GroupP384} {
		bytes, _ := curveBytesForGroup(g)
		key, err := ecc.NewPrivateKey(bytes, rng)
		if err != nil {
			return rerr.Wrap(err, rerr.CodeTlsHandshakeFailedClientHello)
		}
		c.keyShares[g] = key
	}
	return nil
}

// PublicKeyShare returns the SEC1 uncompressed export of the keypair
// generated for group g.
func (c *Cipher) PublicKeyShare(g Group) ([]byte, error) {
	key, ok := c.keyShares[g]
	if !ok {
		return nil, rerr.New(rerr.CodeTlsUnknownGroup)
	}
	return key.ExportPublicKey(), nil
}

// UpdateHash feeds b into the running transcript hash.
func (c *Cipher) UpdateHash(b []byte) {
	c.transcript.Write(b)
}

// SnapshotHash returns the transcript hash over everything written so far.
func (c *Cipher) SnapshotHash() [32]byte {
	return c.transcript.Sum()
}

// IsEncoding reports whether record-layer keys have been installed.
func (c *Cipher) IsEncoding() bool {
	return c.encoding
}

// ComputeHandshakeKeys derives the handshake secret from the ECDH shared
// secret with the peer's key share for the negotiated group, installs
// client/server handshake traffic keys into the record-layer encoder,
// and resets both sequence counters to zero.
func (c *Cipher) ComputeHandshakeKeys(group Group, peerShare []byte) error {
	key, ok := c.keyShares[group]
	if !ok {
		return rerr.New(rerr.CodeTlsUnknownGroup)
	}
	z, err := key.ComputeSharedSecret(peerShare)
	if err != nil {
		return rerr.Wrap(err, rerr.CodeTlsHandshakeFailedServerHello)
	}
	c.negotiatedGroup = group

	zeros := make([]byte, hashLen)
	c.earlySecret = hkdfExtract(zeros, zeros)

	derived1, err := deriveSecret(c.earlySecret, "derived", emptyTranscriptHash())
	if err != nil {
		return rerr.Wrap(err, rerr.CodeTlsHandshakeFailedServerHello)
	}
	c.handshakeSecret = hkdfExtract(derived1, z)

	transcript := c.SnapshotHash()
	cht, err := deriveSecret(c.handshakeSecret, "c hs traffic", transcript[:])
	if err != nil {
		return rerr.Wrap(err, rerr.CodeTlsHandshakeFailedServerHello)
	}
	sht, err := deriveSecret(c.handshakeSecret, "s hs traffic", transcript[:])
	if err != nil {
		return rerr.Wrap(err, rerr.CodeTlsHandshakeFailedServerHello)
	}
	c.clientTrafficSecret = cht
	c.serverTrafficSecret = sht

	return c.installOwnKeys()
}

// ComputeApplicationKeys derives the master secret from the handshake
// secret, installs client/server application traffic keys, and resets
// both sequence counters again. Called once the peer's Finished has been
// verified.
func (c *Cipher) ComputeApplicationKeys() error {
	if c.handshakeSecret == nil {
		return rerr.New(rerr.CodeTlsKeyScheduleNotReady)
	}
	derived2, err := deriveSecret(c.handshakeSecret, "derived", emptyTranscriptHash())
	if err != nil {
		return rerr.Wrap(err, rerr.CodeTlsHandshakeFailedFinished)
	}
	zeros := make([]byte, hashLen)
	c.masterSecret = hkdfExtract(derived2, zeros)

	transcript := c.SnapshotHash()
	cat, err := deriveSecret(c.masterSecret, "c ap traffic", transcript[:])
	if err != nil {
		return rerr.Wrap(err, rerr.CodeTlsHandshakeFailedFinished)
	}
	sat, err := deriveSecret(c.masterSecret, "s ap traffic", transcript[:])
	if err != nil {
		return rerr.Wrap(err, rerr.CodeTlsHandshakeFailedFinished)
	}
	c.clientTrafficSecret = cat
	c.serverTrafficSecret = sat

	return c.installOwnKeys()
}

// installOwnKeys derives key+iv for both traffic secrets and builds the
// record-layer encoder with this side's write secret as local and the
// peer's as remote, so Encode always uses this endpoint's own write key
// and Decode always uses the key the peer writes with.
func (c *Cipher) installOwnKeys() error {
	clientSecret, serverSecret := c.clientTrafficSecret, c.serverTrafficSecret
	localSecret, remoteSecret := clientSecret, serverSecret
	if c.side == SideServer {
		localSecret, remoteSecret = serverSecret, clientSecret
	}

	lk, err := hkdfExpandLabel(localSecret, "key", nil, chacha20poly1305.KeySize)
	if err != nil {
		return rerr.Wrap(err, rerr.CodeTlsKeyScheduleNotReady)
	}
	liv, err := hkdfExpandLabel(localSecret, "iv", nil, chacha20poly1305.NonceSize)
	if err != nil {
		return rerr.Wrap(err, rerr.CodeTlsKeyScheduleNotReady)
	}
	rk, err := hkdfExpandLabel(remoteSecret, "key", nil, chacha20poly1305.KeySize)
	if err != nil {
		return rerr.Wrap(err, rerr.CodeTlsKeyScheduleNotReady)
	}
	riv, err := hkdfExpandLabel(remoteSecret, "iv", nil, chacha20poly1305.NonceSize)
	if err != nil {
		return rerr.Wrap(err, rerr.CodeTlsKeyScheduleNotReady)
	}

	enc, err := chacha20poly1305.NewEncoder(lk, rk, liv, riv)
	if err != nil {
		return rerr.Wrap(err, rerr.CodeTlsKeyScheduleNotReady)
	}
	c.encoder = enc
	c.localSeq = 0
	c.remoteSeq = 0
	c.encoding = true
	return nil
}

// ComputeVerifyData computes HMAC(finished_key, transcript_hash) for the
// named side, where finished_key = HKDF-Expand-Label(traffic_secret,
// "finished", "", 32). Callers must snapshot the transcript hash
// (via a prior UpdateHash sequence) before calling this for their own
// Finished message, since the verify-data binds everything up to but
// not including itself.
func (c *Cipher) ComputeVerifyData(side Side) ([]byte, error) {
	var secret []byte
	switch side {
	case SideClient:
		secret = c.clientTrafficSecret
	case SideServer:
		secret = c.serverTrafficSecret
	}
	if secret == nil {
		return nil, rerr.New(rerr.CodeTlsKeyScheduleNotReady)
	}
	finishedKey, err := hkdfExpandLabel(secret, "finished", nil, hashLen)
	if err != nil {
		return nil, rerr.Wrap(err, rerr.CodeTlsHandshakeFailedFinished)
	}
	transcript := c.SnapshotHash()
	mac := sha2.Hmac256(finishedKey, transcript[:])
	return mac[:], nil
}

// VerifyData checks got against the expected verify-data for side in
// constant time.
func (c *Cipher) VerifyData(side Side, got []byte) (bool, error) {
	want, err := c.ComputeVerifyData(side)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare(want, got) == 1, nil
}

// EncodeRecord seals plaintext (already including the inner TLS 1.3
// content-type byte, when post-handshake-keys) under this side's own
// write key at the current local sequence number, then increments it.
func (c *Cipher) EncodeRecord(plaintext, aad []byte) ([]byte, error) {
	if !c.encoding {
		return nil, rerr.New(rerr.CodeTlsKeyScheduleNotReady)
	}
	if c.localSeq == ^uint64(0) {
		return nil, rerr.New(rerr.CodeTlsSeqNumOverflow)
	}
	out := c.encoder.Encode(plaintext, aad, c.localSeq)
	c.localSeq++
	return out, nil
}

// DecodeRecord opens a record sealed under the peer's write key at the
// current remote sequence number, then increments it.
func (c *Cipher) DecodeRecord(ciphertext, aad []byte) ([]byte, error) {
	if !c.encoding {
		return nil, rerr.New(rerr.CodeTlsKeyScheduleNotReady)
	}
	if c.remoteSeq == ^uint64(0) {
		return nil, rerr.New(rerr.CodeTlsSeqNumOverflow)
	}
	pt, err := c.encoder.Decode(ciphertext, aad, c.remoteSeq)
	if err != nil {
		return nil, rerr.Wrap(err, rerr.CodeTlsDecodeFailed)
	}
	c.remoteSeq++
	return pt, nil
}
