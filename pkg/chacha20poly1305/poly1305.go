package chacha20poly1305

import "math/big"

// Poly1305 implements the one-time message authenticator exactly as
// RFC 8439 §2.5.1 specifies it: accumulate 17-byte (length-tagged)
// little-endian blocks into a running value mod 2^130-5, scaled by the
// clamped key component r at each step, then add the secret pad mod
// 2^128. math/big stands in for a hand-rolled 26-bit-limb accumulator —
// a simpler, position-independent limb layout, not a cryptographic
// shortcut.
const (
	// TagSize is the Poly1305 MAC length in bytes.
	TagSize = 16
)

var (
	polyP      = mustP()
	polyTwo128 = new(big.Int).Lsh(big.NewInt(1), 128)
)

func mustP() *big.Int {
	p := new(big.Int).Lsh(big.NewInt(1), 130)
	return p.Sub(p, big.NewInt(5))
}

func leToInt(b []byte) *big.Int {
	rev := make([]byte, len(b))
	for i, v := range b {
		rev[len(b)-1-i] = v
	}
	return new(big.Int).SetBytes(rev)
}

func intToLe(v *big.Int, out []byte) {
	b := v.Bytes()
	for i, j := 0, len(b)-1; j >= 0 && i < len(out); i, j = i+1, j-1 {
		out[i] = b[j]
	}
}

func clampR(key [16]byte) *big.Int {
	clamped := make([]byte, 16)
	copy(clamped, key[:])
	clamped[3] &= 0x0f
	clamped[7] &= 0x0f
	clamped[11] &= 0x0f
	clamped[15] &= 0x0f
	clamped[4] &= 0xfc
	clamped[8] &= 0xfc
	clamped[12] &= 0xfc
	return leToInt(clamped)
}

// Poly1305Tag computes the Poly1305 tag of msg under the given 32-byte
// one-time key (key[0:16] = r, key[16:32] = s).
func Poly1305Tag(key [32]byte, msg []byte) [TagSize]byte {
	var r16, s16 [16]byte
	copy(r16[:], key[0:16])
	copy(s16[:], key[16:32])

	r := clampR(r16)
	s := leToInt(s16[:])

	acc := new(big.Int)
	block := make([]byte, 17)
	for len(msg) > 0 {
		n := 16
		if n > len(msg) {
			n = len(msg)
		}
		for i := range block {
			block[i] = 0
		}
		copy(block, msg[:n])
		block[n] = 1

		acc.Add(acc, leToInt(block[:n+1]))
		acc.Mul(acc, r)
		acc.Mod(acc, polyP)

		msg = msg[n:]
	}

	acc.Add(acc, s)
	acc.Mod(acc, polyTwo128)

	var mac [TagSize]byte
	intToLe(acc, mac[:])
	return mac
}
