package tlscipher

import (
	"github.com/whileendless/ralnet/internal/rerr"
	"github.com/whileendless/ralnet/pkg/sha2"
)

const hashLen = sha2.Size256

// hkdfExtract implements RFC 5869's HKDF-Extract over HMAC-SHA256.
func hkdfExtract(salt, ikm []byte) []byte {
	mac := sha2.Hmac256(salt, ikm)
	return mac[:]
}

// hkdfExpand implements RFC 5869's HKDF-Expand over HMAC-SHA256.
func hkdfExpand(prk, info []byte, length int) ([]byte, error) {
	n := (length + hashLen - 1) / hashLen
	if n > 255 {
		return nil, rerr.New(rerr.CodeTlsHkdfExpandTooLong)
	}
	out := make([]byte, 0, n*hashLen)
	var t []byte
	for i := 1; i <= n; i++ {
		block := make([]byte, 0, len(t)+len(info)+1)
		block = append(block, t...)
		block = append(block, info...)
		block = append(block, byte(i))
		mac := sha2.Hmac256(prk, block)
		t = mac[:]
		out = append(out, t...)
	}
	return out[:length], nil
}

// hkdfExpandLabel builds the RFC 8446 §7.1 HkdfLabel structure
// (length || "tls13 "+label || context) and runs HKDF-Expand over it.
func hkdfExpandLabel(secret []byte, label string, context []byte, length int) ([]byte, error) {
	fullLabel := "tls13 " + label
	info := make([]byte, 0, 2+1+len(fullLabel)+1+len(context))
	info = append(info, byte(length>>8), byte(length))
	info = append(info, byte(len(fullLabel)))
	info = append(info, fullLabel...)
	info = append(info, byte(len(context)))
	info = append(info, context...)
	return hkdfExpand(secret, info, length)
}

// deriveSecret is RFC 8446 §7.1's Derive-Secret: HKDF-Expand-Label keyed
// on a transcript hash rather than an explicit context string.
func deriveSecret(secret []byte, label string, transcriptHash []byte) ([]byte, error) {
	return hkdfExpandLabel(secret, label, transcriptHash, hashLen)
}

// emptyTranscriptHash is SHA-256("") — used as the context for the
// "derived" label, which binds to the hash of an empty message sequence.
func emptyTranscriptHash() []byte {
	sum := sha2.Sum256(nil)
	return sum[:]
}
