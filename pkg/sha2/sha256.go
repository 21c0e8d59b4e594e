// Package sha2 implements SHA-224/256/384/512 and HMAC from first
// principles (FIPS 180-4), since the crypto core may not rely on the host
// standard library's hash implementations.
package sha2

const (
	// Size256 is the SHA-256 digest length in bytes.
	Size256 = 32
	// Size224 is the SHA-224 digest length in bytes.
	Size224 = 28
	blockSize256 = 64
)

var k256 = [64]uint32{
	0x428a2f98, 0x71374491, 0xb5c0fbcf, 0xe9b5dba5, 0x3956c25b, 0x59f111f1, 0x923f82a4, 0xab1c5ed5,
	0xd807aa98, 0x12835b01, 0x243185be, 0x550c7dc3, 0x72be5d74, 0x80deb1fe, 0x9bdc06a7, 0xc19bf174,
	0xe49b69c1, 0xefbe4786, 0x0fc19dc6, 0x240ca1cc, 0x2de92c6f, 0x4a7484aa, 0x5cb0a9dc, 0x76f988da,
	0x983e5152, 0xa831c66d, 0xb00327c8, 0xbf597fc7, 0xc6e00bf3, 0xd5a79147, 0x06ca6351, 0x14292967,
	0x27b70a85, 0x2e1b2138, 0x4d2c6dfc, 0x53380d13, 0x650a7354, 0x766a0abb, 0x81c2c92e, 0x92722c85,
	0xa2bfe8a1, 0xa81a664b, 0xc24b8b70, 0xc76c51a3, 0xd192e819, 0xd6990624, 0xf40e3585, 0x106aa070,
	0x19a4c116, 0x1e376c08, 0x2748774c, 0x34b0bcb5, 0x391c0cb3, 0x4ed8aa4a, 0x5b9cca4f, 0x682e6ff3,
	0x748f82ee, 0x78a5636f, 0x84c87814, 0x8cc70208, 0x90befffa, 0xa4506ceb, 0xbef9a3f7, 0xc67178f2,
}

// Context256 is an incremental SHA-256 hasher.
type Context256 struct {
	h      [8]uint32
	buf    [blockSize256]byte
	buflen int
	length uint64
	is224  bool
}

// New256 returns a fresh SHA-256 Context.
func New256() *Context256 {
	c := &Context256{}
	c.h = [8]uint32{0x6a09e667, 0xbb67ae85, 0x3c6ef372, 0xa54ff53a, 0x510e527f, 0x9b05688c, 0x1f83d9ab, 0x5be0cd19}
	return c
}

// New224 returns a fresh SHA-224 Context (same compression function,
// different IV and truncated output).
func New224() *Context256 {
	c := &Context256{is224: true}
	c.h = [8]uint32{0xc1059ed8, 0x367cd507, 0x3070dd17, 0xf70e5939, 0xffc00b31, 0x68581511, 0x64f98fa7, 0xbefa4fa4}
	return c
}

func rotr32(x uint32, n uint) uint32 { return (x >> n) | (x << (32 - n)) }

func (c *Context256) block(p []byte) {
	var w [64]uint32
	for len(p) >= blockSize256 {
		for i := 0; i < 16; i++ {
			w[i] = uint32(p[i*4])<<24 | uint32(p[i*4+1])<<16 | uint32(p[i*4+2])<<8 | uint32(p[i*4+3])
		}
		for i := 16; i < 64; i++ {
			s0 := rotr32(w[i-15], 7) ^ rotr32(w[i-15], 18) ^ (w[i-15] >> 3)
			s1 := rotr32(w[i-2], 17) ^ rotr32(w[i-2], 19) ^ (w[i-2] >> 10)
			w[i] = w[i-16] + s0 + w[i-7] + s1
		}

		a, b, cc, d, e, f, g, h := c.h[0], c.h[1], c.h[2], c.h[3], c.h[4], c.h[5], c.h[6], c.h[7]
		for i := 0; i < 64; i++ {
			s1 := rotr32(e, 6) ^ rotr32(e, 11) ^ rotr32(e, 25)
			ch := (e & f) ^ (^e & g)
			t1 := h + s1 + ch + k256[i] + w[i]
			s0 := rotr32(a, 2) ^ rotr32(a, 13) ^ rotr32(a, 22)
			maj := (a & b) ^ (a & cc) ^ (b & cc)
			t2 := s0 + maj

			h = g
			g = f
			f = e
			e = d + t1
			d = cc
			cc = b
			b = a
			a = t1 + t2
		}
		c.h[0] += a
		c.h[1] += b
		c.h[2] += cc
		c.h[3] += d
		c.h[4] += e
		c.h[5] += f
		c.h[6] += g
		c.h[7] += h

		p = p[blockSize256:]
	}
}

// Write feeds message bytes into the running hash.
func (c *Context256) Write(p []byte) (int, error) {
	total := len(p)
	c.length += uint64(total)

	if c.buflen > 0 {
		n := copy(c.buf[c.buflen:], p)
		c.buflen += n
		p = p[n:]
		if c.buflen == blockSize256 {
			c.block(c.buf[:])
			c.buflen = 0
		}
	}
	if len(p) >= blockSize256 {
		n := len(p) &^ (blockSize256 - 1)
		c.block(p[:n])
		p = p[n:]
	}
	if len(p) > 0 {
		c.buflen = copy(c.buf[:], p)
	}
	return total, nil
}

// Sum appends the big-endian digest (32 bytes for SHA-256, 28 for
// SHA-224) to dst and returns the resulting slice. The Context is left
// unmodified so Sum may be inspected without finalizing for real; callers
// that want a fresh hasher afterwards should discard this instance.
func (c *Context256) Sum(dst []byte) []byte {
	clone := *c
	return clone.final(dst)
}

func (c *Context256) final(dst []byte) []byte {
	bitLen := c.length * 8
	c.Write([]byte{0x80})
	var zeros [blockSize256]byte
	for c.buflen != 56 {
		if c.buflen < 56 {
			n := 56 - c.buflen
			c.Write(zeros[:n])
		} else {
			n := blockSize256 - c.buflen
			c.Write(zeros[:n])
		}
	}
	var lenBytes [8]byte
	for i := 0; i < 8; i++ {
		lenBytes[7-i] = byte(bitLen >> (8 * i))
	}
	c.Write(lenBytes[:])

	n := 8
	if c.is224 {
		n = 7
	}
	for i := 0; i < n; i++ {
		dst = append(dst, byte(c.h[i]>>24), byte(c.h[i]>>16), byte(c.h[i]>>8), byte(c.h[i]))
	}
	return dst
}

// Sum256 computes the SHA-256 digest of msg in one shot.
func Sum256(msg []byte) [Size256]byte {
	c := New256()
	c.Write(msg)
	var out [Size256]byte
	copy(out[:], c.Sum(nil))
	return out
}

// Sum224 computes the SHA-224 digest of msg in one shot.
func Sum224(msg []byte) [Size224]byte {
	c := New224()
	c.Write(msg)
	var out [Size224]byte
	copy(out[:], c.Sum(nil))
	return out
}
