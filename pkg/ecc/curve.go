// Package ecc implements short-Weierstrass elliptic curve Diffie-Hellman
// over four NIST curves (P-128R1, P-192R1, P-256R1, P-384R1), selected by
// field byte length, with scalar multiplication by the Montgomery ladder.
// Field arithmetic runs on math/big; this core never imports crypto/elliptic
// or crypto/ecdh.
package ecc

import "math/big"

// Curve holds the short-Weierstrass parameters y^2 = x^3 - 3x + b (mod P)
// for one of the four supported curve sizes.
type Curve struct {
	Bytes int // field element size in bytes: 16, 24, 32, or 48
	P     *big.Int
	B     *big.Int
	Gx    *big.Int
	Gy    *big.Int
	N     *big.Int // group order
}

func mustHex(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("ecc: bad curve constant " + s)
	}
	return v
}

var curve128 = &Curve{
	Bytes: 16,
	P:     mustHex("FFFFFFFDFFFFFFFFFFFFFFFFFFFFFFFF"),
	B:     mustHex("E87579C11079F43DD824993C2CEE5ED3"),
	Gx:    mustHex("161FF7528B899B2D0C28607CA52C5B86"),
	Gy:    mustHex("CF5AC8395BAFEB13C02DA292DDED7A83"),
	N:     mustHex("FFFFFFFE0000000075A30D1B9038A115"),
}

var curve192 = &Curve{
	Bytes: 24,
	P:     mustHex("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEFFFFFFFFFFFFFFFF"),
	B:     mustHex("64210519E59C80E70FA7E9AB72243049FEB8DEECC146B9B1"),
	Gx:    mustHex("188DA80EB03090F67CBF20EB43A18800F4FF0AFD82FF1012"),
	Gy:    mustHex("07192B95FFC8DA78631011ED6B24CDD573F977A11E794811"),
	N:     mustHex("FFFFFFFFFFFFFFFFFFFFFFFF99DEF836146BC9B1B4D22831"),
}

var curve256 = &Curve{
	Bytes: 32,
	P:     mustHex("FFFFFFFF00000001000000000000000000000000FFFFFFFFFFFFFFFFFFFFFFFF"),
	B:     mustHex("5AC635D8AA3A93E7B3EBBD55769886BC651D06B0CC53B0F63BCE3C3E27D2604B"),
	Gx:    mustHex("6B17D1F2E12C4247F8BCE6E563A440F277037D812DEB33A0F4A13945D898C296"),
	Gy:    mustHex("4FE342E2FE1A7F9B8EE7EB4A7C0F9E162BCE33576B315ECECBB6406837BF51F5"),
	N:     mustHex("FFFFFFFF00000000FFFFFFFFFFFFFFFFBCE6FAADA7179E84F3B9CAC2FC632551"),
}

var curve384 = &Curve{
	Bytes: 48,
	P:     mustHex("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEFFFFFFFF0000000000000000FFFFFFFF"),
	B:     mustHex("B3312FA7E23EE7E4988E056BE3F82D19181D9C6EFE8141120314088F5013875AC656398D8A2ED19D2A85C8EDD3EC2AEF"),
	Gx:    mustHex("AA87CA22BE8B05378EB1C71EF320AD746E1D3B628BA79B9859F741E082542A385502F25DBF55296C3A545E3872760AB7"),
	Gy:    mustHex("3617DE4A96262C6F5D9E98BF9292DC29F8F41DBD289A147CE9DA3113B5F0B8C00A60B1CE1D7E819D7A431D7C90EA0E5F"),
	N:     mustHex("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFC7634D81F4372DDF581A0DB248B0A77AECEC196ACCC52973"),
}

// ByBytes returns the curve whose field elements are the given byte width
// (16, 24, 32, or 48), or false if bytes names no supported curve.
func ByBytes(bytes int) (*Curve, bool) {
	switch bytes {
	case 16:
		return curve128, true
	case 24:
		return curve192, true
	case 32:
		return curve256, true
	case 48:
		return curve384, true
	default:
		return nil, false
	}
}

// Generator returns the curve's base point G.
func (c *Curve) Generator() Point {
	return Point{X: new(big.Int).Set(c.Gx), Y: new(big.Int).Set(c.Gy)}
}
