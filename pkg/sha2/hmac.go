package sha2

// hasher is the minimal incremental-hash interface HMAC drives; both
// Context256 and Context512 satisfy it.
type hasher interface {
	Write(p []byte) (int, error)
	Sum(dst []byte) []byte
}

// HMAC implements RFC 2104 HMAC over a caller-supplied SHA-2 variant.
type HMAC struct {
	newHash   func() hasher
	blockSize int
	inner     hasher
	outer     hasher
	opad      []byte
}

func wrap256(ctor func() *Context256) func() hasher {
	return func() hasher { return ctor() }
}

func wrap512(ctor func() *Context512) func() hasher {
	return func() hasher { return ctor() }
}

// NewHMAC256 returns an HMAC-SHA256 instance keyed with key.
func NewHMAC256(key []byte) *HMAC { return newHMAC(wrap256(New256), blockSize256, key) }

// NewHMAC224 returns an HMAC-SHA224 instance keyed with key.
func NewHMAC224(key []byte) *HMAC { return newHMAC(wrap256(New224), blockSize256, key) }

// NewHMAC512 returns an HMAC-SHA512 instance keyed with key.
func NewHMAC512(key []byte) *HMAC { return newHMAC(wrap512(New512), blockSize512, key) }

// NewHMAC384 returns an HMAC-SHA384 instance keyed with key.
func NewHMAC384(key []byte) *HMAC { return newHMAC(wrap512(New384), blockSize512, key) }

func newHMAC(newHash func() hasher, blockSize int, key []byte) *HMAC {
	h := &HMAC{newHash: newHash, blockSize: blockSize}

	if len(key) > blockSize {
		hk := newHash()
		hk.Write(key)
		key = hk.Sum(nil)
	}

	ipad := make([]byte, blockSize)
	opad := make([]byte, blockSize)
	copy(ipad, key)
	copy(opad, key)
	for i := range ipad {
		ipad[i] ^= 0x36
		opad[i] ^= 0x5c
	}

	h.inner = newHash()
	h.inner.Write(ipad)
	h.opad = opad
	return h
}

// Write feeds message bytes into the running MAC.
func (h *HMAC) Write(p []byte) (int, error) {
	return h.inner.Write(p)
}

// Sum finalizes and appends the MAC to dst.
func (h *HMAC) Sum(dst []byte) []byte {
	innerSum := h.inner.Sum(nil)
	outer := h.newHash()
	outer.Write(h.opad)
	outer.Write(innerSum)
	return outer.Sum(dst)
}

// Hmac256 computes one-shot HMAC-SHA256(key, msg).
func Hmac256(key, msg []byte) [Size256]byte {
	h := NewHMAC256(key)
	h.Write(msg)
	var out [Size256]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Hmac384 computes one-shot HMAC-SHA384(key, msg).
func Hmac384(key, msg []byte) [Size384]byte {
	h := NewHMAC384(key)
	h.Write(msg)
	var out [Size384]byte
	copy(out[:], h.Sum(nil))
	return out
}
