package chacha20poly1305

import "github.com/whileendless/ralnet/internal/rerr"

// Encoder is the TLS-record-oriented wrapper around the raw AEAD: one key
// per direction, a 12-byte base IV per direction, and a nonce derived by
// XORing the base IV with the big-endian sequence number (right-aligned
// into the low 8 bytes), per RFC 8446 §5.3.
type Encoder struct {
	localKey, remoteKey [KeySize]byte
	localIV, remoteIV   [NonceSize]byte
	initialized         bool
}

// NewEncoder builds an Encoder from per-direction key/IV material.
func NewEncoder(localKey, remoteKey, localIV, remoteIV []byte) (*Encoder, error) {
	if len(localKey) != KeySize || len(remoteKey) != KeySize {
		return nil, rerr.New(rerr.CodeChachaInvalidKeyLen)
	}
	if len(localIV) != NonceSize || len(remoteIV) != NonceSize {
		return nil, rerr.New(rerr.CodeChachaInvalidNonceLen)
	}
	e := &Encoder{initialized: true}
	copy(e.localKey[:], localKey)
	copy(e.remoteKey[:], remoteKey)
	copy(e.localIV[:], localIV)
	copy(e.remoteIV[:], remoteIV)
	return e, nil
}

// IsInitialized reports whether keys have been installed.
func (e *Encoder) IsInitialized() bool { return e.initialized }

func seqNonce(iv [NonceSize]byte, seq uint64) []byte {
	nonce := make([]byte, NonceSize)
	copy(nonce, iv[:])
	for i := 0; i < 8; i++ {
		nonce[NonceSize-1-i] ^= byte(seq >> (8 * i))
	}
	return nonce
}

// Encode seals plaintext under the local key, using seq to derive the
// nonce and aad as the associated data, returning ciphertext||tag.
func (e *Encoder) Encode(plaintext, aad []byte, seq uint64) []byte {
	nonce := seqNonce(e.localIV, seq)
	return Seal(e.localKey[:], nonce, plaintext, aad)
}

// Decode opens a ciphertext||tag record sealed under the remote key.
func (e *Encoder) Decode(ciphertextAndTag, aad []byte, seq uint64) ([]byte, error) {
	nonce := seqNonce(e.remoteIV, seq)
	pt, err := Open(e.remoteKey[:], nonce, ciphertextAndTag, aad)
	if err != nil {
		return nil, rerr.Wrap(rerr.New(rerr.CodeChachaTagMismatch), rerr.CodeChachaTagMismatch)
	}
	return pt, nil
}

// ComputeSize returns the on-the-wire size for a plaintext of length n:
// n+16 when encoding, n-16 when decoding.
func ComputeSize(n int, decode bool) int {
	if decode {
		return n - TagSize
	}
	return n + TagSize
}
