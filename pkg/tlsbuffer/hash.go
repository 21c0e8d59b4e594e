package tlsbuffer

import "github.com/whileendless/ralnet/pkg/sha2"

// Hash is the running SHA-256 transcript hash the handshake state machine
// feeds every sent and received handshake message into, in order.
type Hash struct {
	ctx *sha2.Context256
}

// NewHash returns a Hash with an empty transcript.
func NewHash() *Hash {
	return &Hash{ctx: sha2.New256()}
}

// Reset discards the transcript and starts over.
func (h *Hash) Reset() {
	h.ctx = sha2.New256()
}

// Write feeds p into the transcript.
func (h *Hash) Write(p []byte) {
	h.ctx.Write(p)
}

// Sum returns the current transcript digest without disturbing further
// writes (SHA-256's Merkle-Damgard finalization is non-destructive here,
// mirroring sha2.Context256.Sum).
func (h *Hash) Sum() [32]byte {
	var out [32]byte
	copy(out[:], h.ctx.Sum(nil))
	return out
}
