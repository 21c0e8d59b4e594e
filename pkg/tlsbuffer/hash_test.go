package tlsbuffer

import (
	"testing"

	"github.com/whileendless/ralnet/pkg/sha2"
)

func TestHashMatchesSha256OfConcatenatedWrites(t *testing.T) {
	h := NewHash()
	h.Write([]byte("Client"))
	h.Write([]byte("Hello"))
	sum := h.Sum()

	want := sha2.Sum256([]byte("ClientHello"))
	if sum != want {
		t.Fatalf("transcript hash = %x, want %x", sum, want)
	}
}

func TestHashResetStartsFresh(t *testing.T) {
	h := NewHash()
	h.Write([]byte("abc"))
	first := h.Sum()

	h.Reset()
	h.Write([]byte("abc"))
	second := h.Sum()

	if first != second {
		t.Fatalf("expected identical transcript hash after reset, got %x vs %x", first, second)
	}
}

func TestHashIncrementalMatchesSingleWrite(t *testing.T) {
	h1 := NewHash()
	h1.Write([]byte("hello "))
	h1.Write([]byte("world"))
	sum1 := h1.Sum()

	h2 := NewHash()
	h2.Write([]byte("hello world"))
	sum2 := h2.Sum()

	if sum1 != sum2 {
		t.Fatalf("incremental hash %x != single-write hash %x", sum1, sum2)
	}
}
