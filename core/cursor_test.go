package core

import (
	"encoding/binary"
	"testing"
)

func TestCursorReads(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09}
	c := NewCursor(data, nil)
	if c.Order() != binary.LittleEndian {
		t.Fatal("default order is not little endian")
	}
	if v, _ := c.ReadU8(); v != 0x01 {
		t.Fatalf("u8 = %X", v)
	}
	if v, _ := c.ReadU16(); v != 0x0302 {
		t.Fatalf("u16 = %X", v)
	}
	be := c.WithOrder(binary.BigEndian)
	if v, _ := be.ReadU32(); v != 0x04050607 {
		t.Fatalf("u32 = %X", v)
	}
	if c.Pos() != 3 {
		t.Fatalf("WithOrder copy moved the original: %d", c.Pos())
	}
	if _, err := c.ReadU64(); err != ErrTruncated {
		t.Fatalf("u64 err = %v", err)
	}
	if c.Pos() != 3 {
		t.Fatalf("failed read moved the cursor to %d", c.Pos())
	}
	if _, err := c.ReadUint(3); err != ErrOutOfRange {
		t.Fatalf("ReadUint(3) err = %v", err)
	}
}

func TestCursorSub(t *testing.T) {
	c := NewCursor([]byte{0, 1, 2, 3, 4, 5, 6, 7}, nil)
	_ = c.Advance(2)

	sub, err := c.Sub(1, 3)
	if err != nil {
		t.Fatal(err)
	}
	if sub.Offset() != 3 || sub.Len() != 3 {
		t.Fatalf("offset=%d len=%d", sub.Offset(), sub.Len())
	}
	if b, _ := sub.PeekU8(); b != 3 {
		t.Fatalf("peek = %d", b)
	}

	for _, tt := range []struct{ off, length int }{{-1, 1}, {0, 7}, {7, 0}, {3, 4}, {0, -1}} {
		if _, err = c.Sub(tt.off, tt.length); err != ErrOutOfRange {
			t.Fatalf("Sub(%d, %d) err = %v", tt.off, tt.length, err)
		}
	}
	if _, err = c.Sub(6, 0); err != nil {
		t.Fatalf("empty sub at end: %v", err)
	}

	lim := c.Limit(100)
	if lim.Len() != 6 || lim.Offset() != 2 {
		t.Fatalf("limit len=%d offset=%d", lim.Len(), lim.Offset())
	}
	if lim = c.Limit(-5); lim.Len() != 0 {
		t.Fatalf("negative limit len=%d", lim.Len())
	}
}

func TestCursorBytes(t *testing.T) {
	c := NewCursor([]byte("abcdef"), nil)
	b, err := c.Bytes(2)
	if err != nil || string(b) != "ab" {
		t.Fatalf("bytes = %q, %v", b, err)
	}
	if string(c.Rest()) != "cdef" || c.Remaining() != 4 {
		t.Fatalf("rest = %q", c.Rest())
	}
	if _, err = c.Bytes(5); err != ErrTruncated {
		t.Fatalf("err = %v", err)
	}
	if _, ok := c.PeekAt(4); ok {
		t.Fatal("peek past end")
	}
	if err = c.Advance(-1); err != ErrTruncated {
		t.Fatalf("negative advance err = %v", err)
	}
}

func TestWriterRoundTrip(t *testing.T) {
	w := NewWriter(binary.BigEndian).U8(1).U16(2).U32(3).U64(4).CString("x")
	if err := w.SetU16(0xBEEF, 1); err != nil {
		t.Fatal(err)
	}
	if err := w.SetU32(1, w.Len()); err == nil {
		t.Fatal("set past end accepted")
	}
	c := NewCursor(w.Bytes(), binary.BigEndian)
	_, _ = c.ReadU8()
	if v, _ := c.ReadU16(); v != 0xBEEF {
		t.Fatalf("u16 = %X", v)
	}
	if v, _ := c.ReadU32(); v != 3 {
		t.Fatalf("u32 = %d", v)
	}
	if v, _ := c.ReadU64(); v != 4 {
		t.Fatalf("u64 = %d", v)
	}
	if s := CString(c.Rest()); s != "x" {
		t.Fatalf("cstring = %q", s)
	}
}
