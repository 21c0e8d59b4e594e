package ecc

import "math/big"

// Point is an affine curve point. Inf reports the point at infinity
// (the group identity); X and Y are unused when Inf is true.
type Point struct {
	X, Y *big.Int
	Inf  bool
}

func infinity() Point { return Point{Inf: true} }

// IsInfinity reports whether p is the identity element.
func (p Point) IsInfinity() bool { return p.Inf }

// Equal reports whether p and q are the same affine point.
func (p Point) Equal(q Point) bool {
	if p.Inf || q.Inf {
		return p.Inf == q.Inf
	}
	return p.X.Cmp(q.X) == 0 && p.Y.Cmp(q.Y) == 0
}

func mod(a, p *big.Int) *big.Int {
	r := new(big.Int).Mod(a, p)
	return r
}

// double computes 2p on the curve using a = -3.
func (c *Curve) double(p Point) Point {
	if p.Inf || p.Y.Sign() == 0 {
		return infinity()
	}
	p1 := c.P

	xx := new(big.Int).Mul(p.X, p.X)
	threeXX := new(big.Int).Mul(xx, big.NewInt(3))
	num := new(big.Int).Sub(threeXX, big.NewInt(3))
	num = mod(num, p1)

	twoY := new(big.Int).Lsh(p.Y, 1)
	inv := new(big.Int).ModInverse(twoY, p1)
	lambda := mod(new(big.Int).Mul(num, inv), p1)

	lambdaSq := mod(new(big.Int).Mul(lambda, lambda), p1)
	twoX := new(big.Int).Lsh(p.X, 1)
	x3 := mod(new(big.Int).Sub(lambdaSq, twoX), p1)

	xDiff := mod(new(big.Int).Sub(p.X, x3), p1)
	y3 := mod(new(big.Int).Sub(new(big.Int).Mul(lambda, xDiff), p.Y), p1)

	return Point{X: x3, Y: y3}
}

// add computes p+q on the curve.
func (c *Curve) add(p, q Point) Point {
	if p.Inf {
		return q
	}
	if q.Inf {
		return p
	}
	pr := c.P
	if p.X.Cmp(q.X) == 0 {
		if p.Y.Cmp(q.Y) == 0 {
			return c.double(p)
		}
		return infinity()
	}

	xDiff := mod(new(big.Int).Sub(q.X, p.X), pr)
	yDiff := mod(new(big.Int).Sub(q.Y, p.Y), pr)
	inv := new(big.Int).ModInverse(xDiff, pr)
	lambda := mod(new(big.Int).Mul(yDiff, inv), pr)

	lambdaSq := mod(new(big.Int).Mul(lambda, lambda), pr)
	x3 := mod(new(big.Int).Sub(new(big.Int).Sub(lambdaSq, p.X), q.X), pr)

	xDiff2 := mod(new(big.Int).Sub(p.X, x3), pr)
	y3 := mod(new(big.Int).Sub(new(big.Int).Mul(lambda, xDiff2), p.Y), pr)

	return Point{X: x3, Y: y3}
}

// ScalarMult computes k*p with the Montgomery ladder: the computation
// visits one add and one double per bit of the scalar regardless of the
// bit's value, rather than branching add-only on set bits.
func (c *Curve) ScalarMult(k *big.Int, p Point) Point {
	r0 := infinity()
	r1 := p
	for i := k.BitLen() - 1; i >= 0; i-- {
		if k.Bit(i) == 0 {
			r1 = c.add(r0, r1)
			r0 = c.double(r0)
		} else {
			r0 = c.add(r0, r1)
			r1 = c.double(r1)
		}
	}
	return r0
}
