package tlsbuffer

import (
	"bytes"
	"testing"
)

func TestAppendAndReadRoundTrip(t *testing.T) {
	b := New()
	b.AppendU8(0x01)
	b.AppendU16(0x0203)
	b.AppendU24(0x040506)
	b.AppendU32(0x0708090a)
	b.AppendBytes([]byte("payload"))

	want := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a}
	want = append(want, []byte("payload")...)
	if !bytes.Equal(b.Bytes(), want) {
		t.Fatalf("appended bytes = %x, want %x", b.Bytes(), want)
	}

	if v, err := b.ReadU8(); err != nil || v != 0x01 {
		t.Fatalf("ReadU8 = %d, %v", v, err)
	}
	if v, err := b.ReadU16(); err != nil || v != 0x0203 {
		t.Fatalf("ReadU16 = %#x, %v", v, err)
	}
	if v, err := b.ReadU24(); err != nil || v != 0x040506 {
		t.Fatalf("ReadU24 = %#x, %v", v, err)
	}
	if v, err := b.ReadU32(); err != nil || v != 0x0708090a {
		t.Fatalf("ReadU32 = %#x, %v", v, err)
	}
	slice, err := b.ReadSlice(len("payload"))
	if err != nil || string(slice) != "payload" {
		t.Fatalf("ReadSlice = %q, %v", slice, err)
	}
	if b.Remaining() != 0 {
		t.Fatalf("Remaining = %d, want 0", b.Remaining())
	}
}

func TestReadPastEndFails(t *testing.T) {
	b := New()
	b.AppendU8(0x01)
	if _, err := b.ReadU16(); err == nil {
		t.Fatalf("expected error reading past end")
	}
}

func TestBackpatchLengthPrefix(t *testing.T) {
	b := New()
	at := b.AppendSizeU16()
	b.AppendBytes([]byte("hello world"))
	if err := b.PatchU16(at, uint16(len("hello world"))); err != nil {
		t.Fatalf("patch: %v", err)
	}

	got := b.Bytes()
	gotLen := uint16(got[0])<<8 | uint16(got[1])
	if int(gotLen) != len("hello world") {
		t.Fatalf("backpatched length = %d, want %d", gotLen, len("hello world"))
	}
}

func TestBackpatchOutOfRangeFails(t *testing.T) {
	b := New()
	b.AppendU8(0x00)
	if err := b.PatchU16(5, 1); err == nil {
		t.Fatalf("expected error for out-of-range patch")
	}
}

func TestGrowthPolicyDoublesCapacity(t *testing.T) {
	b := New()
	for i := 0; i < 100; i++ {
		b.AppendU8(byte(i))
	}
	if b.Len() != 100 {
		t.Fatalf("Len() = %d, want 100", b.Len())
	}
	// Capacity goes 1, 2, 4, ..., 64, 128 as single-byte appends outgrow it.
	if cap(b.data) != 128 {
		t.Fatalf("cap = %d, want 128", cap(b.data))
	}
	for i := 0; i < 100; i++ {
		if b.Bytes()[i] != byte(i) {
			t.Fatalf("byte %d = %d, want %d", i, b.Bytes()[i], byte(i))
		}
	}
}

func TestSeekCursorBounds(t *testing.T) {
	b := New()
	b.AppendBytes([]byte("abc"))
	if err := b.SeekCursor(3); err != nil {
		t.Fatalf("seek to end: %v", err)
	}
	if err := b.SeekCursor(4); err == nil {
		t.Fatalf("expected error seeking past end")
	}
	if err := b.SeekCursor(0); err != nil {
		t.Fatalf("seek to start: %v", err)
	}
	v, err := b.ReadU8()
	if err != nil || v != 'a' {
		t.Fatalf("ReadU8 after reset cursor = %c, %v", v, err)
	}
}

func TestResetClearsSizeAndCursor(t *testing.T) {
	b := New()
	b.AppendBytes([]byte("abcdef"))
	_, _ = b.ReadSlice(3)
	b.Reset()
	if b.Len() != 0 || b.Cursor() != 0 {
		t.Fatalf("after Reset: Len=%d Cursor=%d, want 0,0", b.Len(), b.Cursor())
	}
}

func TestNewFromBytes(t *testing.T) {
	b := NewFromBytes([]byte{0xde, 0xad, 0xbe, 0xef})
	v, err := b.ReadU32()
	if err != nil || v != 0xdeadbeef {
		t.Fatalf("ReadU32 = %#x, %v", v, err)
	}
}
