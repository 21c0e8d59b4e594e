package sha2

import (
	"bytes"
	"encoding/hex"
	"testing"
)

func mustHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}

func TestSha256EmptyVector(t *testing.T) {
	got := Sum256(nil)
	want := mustHex("e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855")
	if !bytes.Equal(got[:], want) {
		t.Fatalf("sha256(\"\") = %x, want %x", got, want)
	}
}

func TestSha256AbcVector(t *testing.T) {
	got := Sum256([]byte("abc"))
	want := mustHex("ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad")
	if !bytes.Equal(got[:], want) {
		t.Fatalf("sha256(\"abc\") = %x, want %x", got, want)
	}
}

func TestSha256LongBlockBoundary(t *testing.T) {
	msg := bytes.Repeat([]byte("a"), 1000000)
	got := Sum256(msg)
	want := mustHex("cdc76e5c9914fb9281a1c7e284d73e67f1809a48a497200e046d39ccc7112cd0")
	if !bytes.Equal(got[:], want) {
		t.Fatalf("sha256(1M 'a') mismatch: got %x", got)
	}
}

func TestSha512EmptyVector(t *testing.T) {
	got := Sum512(nil)
	want := mustHex("cf83e1357eefb8bdf1542850d66d8007d620e4050b5715dc83f4a921d36ce9ce47d0d13c5d85f2b0ff8318d2877eec2f63b931bd47417a81a538327af927da3e")
	if !bytes.Equal(got[:], want) {
		t.Fatalf("sha512(\"\") = %x, want %x", got, want)
	}
}

func TestSha384EmptyVector(t *testing.T) {
	got := Sum384(nil)
	want := mustHex("38b060a751ac96384cd9327eb1b1e36a21fdb71114be07434c0cc7bf63f6e1da274edebfe76f65fbd51ad2f14898b95b")
	if !bytes.Equal(got[:], want) {
		t.Fatalf("sha384(\"\") = %x, want %x", got, want)
	}
}

// RFC 4231 Case 2.
func TestHmacSha256Rfc4231Case2(t *testing.T) {
	key := []byte("Jefe")
	msg := []byte("what do ya want for nothing?")
	got := Hmac256(key, msg)
	want := mustHex("5bdcc146bf60754e6a042426089575c75a003f089d2739839dec58b964ec3843")
	if !bytes.Equal(got[:], want) {
		t.Fatalf("hmac-sha256 case 2 = %x, want %x", got, want)
	}
}

// RFC 4231 Case 1.
func TestHmacSha256Rfc4231Case1(t *testing.T) {
	key := bytes.Repeat([]byte{0x0b}, 20)
	msg := []byte("Hi There")
	got := Hmac256(key, msg)
	want := mustHex("b0344c61d8db38535ca8afceaf0bf12b881dc200c9833da726e9376c2e32cff7")
	if !bytes.Equal(got[:], want) {
		t.Fatalf("hmac-sha256 case 1 = %x, want %x", got, want)
	}
}

func TestHmacKeyLongerThanBlock(t *testing.T) {
	key := bytes.Repeat([]byte{0xaa}, 131)
	msg := []byte("Test Using Larger Than Block-Size Key - Hash Key First")
	got := Hmac384(key, msg)
	want := mustHex("4ece084485813e9088d2c63a041bc5b44f9ef1012a2b588f3cd11f05033ac4c60c2ef6ab4030fe8296248df163f44952")
	if !bytes.Equal(got[:], want) {
		t.Fatalf("hmac-sha384 long-key case = %x, want %x", got, want)
	}
}

func TestIncrementalWriteMatchesOneShot(t *testing.T) {
	msg := bytes.Repeat([]byte("xyz"), 1000)
	oneShot := Sum256(msg)

	c := New256()
	for i := 0; i < len(msg); i += 7 {
		end := i + 7
		if end > len(msg) {
			end = len(msg)
		}
		c.Write(msg[i:end])
	}
	incremental := c.Sum(nil)
	if !bytes.Equal(oneShot[:], incremental) {
		t.Fatalf("incremental write mismatch: %x vs %x", incremental, oneShot)
	}
}
