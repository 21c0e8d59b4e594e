// Package tlsbuffer provides the two small data structures the TLS and
// handshake-message code builds on top of: a growable, backpatchable byte
// buffer, and a running SHA-256 transcript hash.
package tlsbuffer

import "github.com/whileendless/ralnet/internal/rerr"

// Buffer is a growable byte buffer with typed big-endian append and a
// read cursor for typed parsing. Growth is double-or-fit: appending past
// the current capacity reallocates to max(2*cap, needed).
type Buffer struct {
	data   []byte
	size   int
	cursor int
}

// New returns an empty buffer.
func New() *Buffer {
	return &Buffer{}
}

// NewFromBytes returns a buffer holding a copy of b, ready for reading;
// AppendBytes and friends still work and extend it.
func NewFromBytes(b []byte) *Buffer {
	buf := &Buffer{data: make([]byte, len(b)), size: len(b)}
	copy(buf.data, b)
	return buf
}

func (b *Buffer) grow(extra int) {
	needed := b.size + extra
	if needed <= cap(b.data) {
		b.data = b.data[:cap(b.data)]
		return
	}
	newCap := cap(b.data) * 2
	if newCap < needed {
		newCap = needed
	}
	grown := make([]byte, newCap)
	copy(grown, b.data[:b.size])
	b.data = grown
}

func (b *Buffer) reserve(n int) int {
	b.grow(n)
	start := b.size
	b.size += n
	return start
}

// AppendU8 appends one byte.
func (b *Buffer) AppendU8(v byte) {
	i := b.reserve(1)
	b.data[i] = v
}

// AppendU16 appends v as two big-endian bytes.
func (b *Buffer) AppendU16(v uint16) {
	i := b.reserve(2)
	b.data[i] = byte(v >> 8)
	b.data[i+1] = byte(v)
}

// AppendU24 appends the low 24 bits of v as three big-endian bytes.
func (b *Buffer) AppendU24(v uint32) {
	i := b.reserve(3)
	b.data[i] = byte(v >> 16)
	b.data[i+1] = byte(v >> 8)
	b.data[i+2] = byte(v)
}

// AppendU32 appends v as four big-endian bytes.
func (b *Buffer) AppendU32(v uint32) {
	i := b.reserve(4)
	b.data[i] = byte(v >> 24)
	b.data[i+1] = byte(v >> 16)
	b.data[i+2] = byte(v >> 8)
	b.data[i+3] = byte(v)
}

// AppendBytes appends p verbatim.
func (b *Buffer) AppendBytes(p []byte) {
	i := b.reserve(len(p))
	copy(b.data[i:], p)
}

// AppendSizeU16 reserves two zero bytes for a length prefix the caller
// will backpatch once the covered content is known, returning the index
// to pass to PatchU16.
func (b *Buffer) AppendSizeU16() int {
	i := b.reserve(2)
	b.data[i], b.data[i+1] = 0, 0
	return i
}

// AppendSizeU24 reserves three zero bytes for a backpatched length prefix.
func (b *Buffer) AppendSizeU24() int {
	i := b.reserve(3)
	b.data[i], b.data[i+1], b.data[i+2] = 0, 0, 0
	return i
}

// PatchU16 overwrites the two bytes at index at (previously reserved by
// AppendSizeU16) with v.
func (b *Buffer) PatchU16(at int, v uint16) error {
	if at < 0 || at+2 > b.size {
		return rerr.New(rerr.CodeBufferBackpatchOutOfRange)
	}
	b.data[at] = byte(v >> 8)
	b.data[at+1] = byte(v)
	return nil
}

// PatchU24 overwrites the three bytes at index at (previously reserved by
// AppendSizeU24) with the low 24 bits of v.
func (b *Buffer) PatchU24(at int, v uint32) error {
	if at < 0 || at+3 > b.size {
		return rerr.New(rerr.CodeBufferBackpatchOutOfRange)
	}
	b.data[at] = byte(v >> 16)
	b.data[at+1] = byte(v >> 8)
	b.data[at+2] = byte(v)
	return nil
}

// Bytes returns the written portion of the buffer.
func (b *Buffer) Bytes() []byte {
	return b.data[:b.size]
}

// Len returns the number of written bytes.
func (b *Buffer) Len() int {
	return b.size
}

// Reset clears both the written size and the read cursor, keeping the
// backing array for reuse.
func (b *Buffer) Reset() {
	b.size = 0
	b.cursor = 0
}

// Cursor returns the current read position.
func (b *Buffer) Cursor() int {
	return b.cursor
}

// SeekCursor repositions the read cursor.
func (b *Buffer) SeekCursor(pos int) error {
	if pos < 0 || pos > b.size {
		return rerr.New(rerr.CodeBufferCursorOutOfRange)
	}
	b.cursor = pos
	return nil
}

// Remaining returns the number of unread bytes.
func (b *Buffer) Remaining() int {
	return b.size - b.cursor
}

func (b *Buffer) need(n int) error {
	if b.cursor+n > b.size {
		return rerr.New(rerr.CodeBufferReadPastEnd)
	}
	return nil
}

// ReadU8 reads one byte and advances the cursor.
func (b *Buffer) ReadU8() (byte, error) {
	if err := b.need(1); err != nil {
		return 0, err
	}
	v := b.data[b.cursor]
	b.cursor++
	return v, nil
}

// ReadU16 reads a big-endian uint16 and advances the cursor.
func (b *Buffer) ReadU16() (uint16, error) {
	if err := b.need(2); err != nil {
		return 0, err
	}
	v := uint16(b.data[b.cursor])<<8 | uint16(b.data[b.cursor+1])
	b.cursor += 2
	return v, nil
}

// ReadU24 reads a big-endian 24-bit integer and advances the cursor.
func (b *Buffer) ReadU24() (uint32, error) {
	if err := b.need(3); err != nil {
		return 0, err
	}
	v := uint32(b.data[b.cursor])<<16 | uint32(b.data[b.cursor+1])<<8 | uint32(b.data[b.cursor+2])
	b.cursor += 3
	return v, nil
}

// ReadU32 reads a big-endian uint32 and advances the cursor.
func (b *Buffer) ReadU32() (uint32, error) {
	if err := b.need(4); err != nil {
		return 0, err
	}
	v := uint32(b.data[b.cursor])<<24 | uint32(b.data[b.cursor+1])<<16 | uint32(b.data[b.cursor+2])<<8 | uint32(b.data[b.cursor+3])
	b.cursor += 4
	return v, nil
}

// ReadSlice reads n bytes and advances the cursor. The returned slice
// aliases the buffer's backing array and must not be retained across a
// subsequent Reset.
func (b *Buffer) ReadSlice(n int) ([]byte, error) {
	if err := b.need(n); err != nil {
		return nil, err
	}
	v := b.data[b.cursor : b.cursor+n]
	b.cursor += n
	return v, nil
}
