package ecc

import (
	"math/big"

	"github.com/whileendless/ralnet/internal/rerr"
	"github.com/whileendless/ralnet/pkg/prng"
)

const maxScalarTries = 16

// PrivateKey is a generated ECDH keypair on one of the supported curves.
type PrivateKey struct {
	curve *Curve
	d     *big.Int
	q     Point
}

// NewPrivateKey selects the curve named by curveBytes (16, 24, 32, or 48)
// and generates a uniform scalar d in [1, n-1] via rng, retrying up to
// 16 times if the drawn scalar reduces to zero or the resulting public
// point is the identity.
func NewPrivateKey(curveBytes int, rng *prng.Prng) (*PrivateKey, error) {
	curve, ok := ByBytes(curveBytes)
	if !ok {
		return nil, rerr.New(rerr.CodeEccUnsupportedCurve)
	}

	raw := make([]byte, curveBytes)
	for tries := 0; tries < maxScalarTries; tries++ {
		rng.GetArray(raw)
		d := leBytesToInt(raw)
		if d.Sign() == 0 {
			continue
		}
		if d.Cmp(curve.N) >= 0 {
			d = new(big.Int).Sub(d, curve.N)
			if d.Sign() == 0 {
				continue
			}
		}

		q := curve.ScalarMult(d, curve.Generator())
		if q.IsInfinity() {
			continue
		}
		return &PrivateKey{curve: curve, d: d, q: q}, nil
	}
	return nil, rerr.New(rerr.CodeEccScalarSampleFailed)
}

// leBytesToInt interprets b as a little-endian 64-bit-limb integer, the
// same layout the original runtime reads raw entropy bytes into before
// treating them as a scalar.
func leBytesToInt(b []byte) *big.Int {
	be := make([]byte, len(b))
	for i, v := range b {
		be[len(b)-1-i] = v
	}
	return new(big.Int).SetBytes(be)
}

// ExportPublicKey returns the SEC1 uncompressed encoding 0x04||X||Y, with
// X and Y each curve.Bytes long in big-endian.
func (k *PrivateKey) ExportPublicKey() []byte {
	out := make([]byte, 1+2*k.curve.Bytes)
	out[0] = 0x04
	k.q.X.FillBytes(out[1 : 1+k.curve.Bytes])
	k.q.Y.FillBytes(out[1+k.curve.Bytes : 1+2*k.curve.Bytes])
	return out
}

// ComputeSharedSecret decodes a peer's SEC1 uncompressed public key and
// returns the X coordinate of d*peer as the ECDH shared secret.
func (k *PrivateKey) ComputeSharedSecret(peer []byte) ([]byte, error) {
	want := 2*k.curve.Bytes + 1
	if len(peer) != want {
		return nil, rerr.New(rerr.CodeEccPeerKeyInvalidLength)
	}
	if peer[0] != 0x04 {
		return nil, rerr.New(rerr.CodeEccPeerKeyInvalidPrefix)
	}

	x := new(big.Int).SetBytes(peer[1 : 1+k.curve.Bytes])
	y := new(big.Int).SetBytes(peer[1+k.curve.Bytes : 1+2*k.curve.Bytes])
	if !k.curve.onCurve(x, y) {
		return nil, rerr.New(rerr.CodeEccPointNotOnCurve)
	}

	product := k.curve.ScalarMult(k.d, Point{X: x, Y: y})
	if product.IsInfinity() {
		return nil, rerr.New(rerr.CodeEccSharedSecretIsIdentity)
	}

	secret := make([]byte, k.curve.Bytes)
	product.X.FillBytes(secret)
	return secret, nil
}

// onCurve reports whether (x, y) satisfies y^2 = x^3 - 3x + b (mod P).
func (c *Curve) onCurve(x, y *big.Int) bool {
	if x.Sign() < 0 || x.Cmp(c.P) >= 0 || y.Sign() < 0 || y.Cmp(c.P) >= 0 {
		return false
	}
	lhs := mod(new(big.Int).Mul(y, y), c.P)

	x3 := new(big.Int).Mul(x, x)
	x3.Mul(x3, x)
	threeX := new(big.Int).Mul(x, big.NewInt(3))
	rhs := mod(new(big.Int).Sub(new(big.Int).Add(x3, c.B), threeX), c.P)

	return lhs.Cmp(rhs) == 0
}
