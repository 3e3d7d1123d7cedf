package core

import (
	"encoding/binary"
)

// Cursor is a bounds-checked read position over a frame buffer.
// Every read either consumes exactly the requested bytes or fails with
// ErrTruncated and leaves the position where it was.
type Cursor struct {
	data  []byte
	pos   int
	base  int // absolute offset of data[0] in the frame
	order binary.ByteOrder
}

func NewCursor(data []byte, order binary.ByteOrder) Cursor {
	if order == nil {
		order = binary.LittleEndian
	}
	return Cursor{data: data, order: order}
}

func (c Cursor) Order() binary.ByteOrder {
	return c.order
}

// WithOrder returns a copy of the cursor that reads multi-byte values in order.
func (c Cursor) WithOrder(order binary.ByteOrder) Cursor {
	if order != nil {
		c.order = order
	}
	return c
}

func (c Cursor) Len() int {
	return len(c.data)
}

func (c Cursor) Pos() int {
	return c.pos
}

// Offset is the absolute position in the original frame.
func (c Cursor) Offset() int {
	return c.base + c.pos
}

func (c Cursor) Remaining() int {
	return len(c.data) - c.pos
}

// need reserves n bytes and returns where they start.
func (c *Cursor) need(n int) (int, error) {
	if n < 0 || n > c.Remaining() {
		return 0, ErrTruncated
	}
	off := c.pos
	c.pos += n
	return off, nil
}

func (c *Cursor) ReadU8() (uint8, error) {
	off, err := c.need(1)
	if err != nil {
		return 0, err
	}
	return c.data[off], nil
}

func (c *Cursor) ReadU16() (uint16, error) {
	off, err := c.need(2)
	if err != nil {
		return 0, err
	}
	return c.order.Uint16(c.data[off:]), nil
}

func (c *Cursor) ReadU32() (uint32, error) {
	off, err := c.need(4)
	if err != nil {
		return 0, err
	}
	return c.order.Uint32(c.data[off:]), nil
}

func (c *Cursor) ReadU64() (uint64, error) {
	off, err := c.need(8)
	if err != nil {
		return 0, err
	}
	return c.order.Uint64(c.data[off:]), nil
}

// ReadUint reads a 1, 2, 4 or 8 byte unsigned value.
func (c *Cursor) ReadUint(size int) (uint64, error) {
	switch size {
	case 1:
		v, err := c.ReadU8()
		return uint64(v), err
	case 2:
		v, err := c.ReadU16()
		return uint64(v), err
	case 4:
		v, err := c.ReadU32()
		return uint64(v), err
	case 8:
		return c.ReadU64()
	}
	return 0, ErrOutOfRange
}

func (c Cursor) PeekU8() (uint8, bool) {
	return c.PeekAt(0)
}

// PeekAt returns the byte at offset relative to the current position.
func (c Cursor) PeekAt(offset int) (uint8, bool) {
	if offset < 0 || offset >= c.Remaining() {
		return 0, false
	}
	return c.data[c.pos+offset], true
}

func (c *Cursor) Advance(n int) error {
	_, err := c.need(n)
	return err
}

// Bytes returns a view of the next n bytes and consumes them.
func (c *Cursor) Bytes(n int) ([]byte, error) {
	off, err := c.need(n)
	if err != nil {
		return nil, err
	}
	return c.data[off : off+n : off+n], nil
}

// Rest is a view of all unread bytes. It does not consume them.
func (c Cursor) Rest() []byte {
	return c.data[c.pos:len(c.data):len(c.data)]
}

// Sub returns a cursor over length bytes starting offset bytes past the
// current position, without consuming anything.
func (c Cursor) Sub(offset, length int) (Cursor, error) {
	if offset < 0 || length < 0 || offset > c.Remaining() || length > c.Remaining()-offset {
		return Cursor{}, ErrOutOfRange
	}
	start := c.pos + offset
	return Cursor{
		data:  c.data[start : start+length : start+length],
		base:  c.base + start,
		order: c.order,
	}, nil
}

// Limit returns a cursor over the next n bytes, clipped to what remains.
func (c Cursor) Limit(n int) Cursor {
	sub, _ := c.Sub(0, Clip(n, 0, c.Remaining()))
	return sub
}
