package core

import (
	"bytes"
	"encoding/binary"

	"github.com/vuuvv/errors"
)

// Writer builds frames in a fixed byte order. It is the inverse of Cursor
// and is used to craft frames for tests and self checks.
type Writer struct {
	Buffer bytes.Buffer
	order  binary.ByteOrder
}

func NewWriter(order binary.ByteOrder) *Writer {
	if order == nil {
		order = binary.LittleEndian
	}
	return &Writer{order: order}
}

func (w *Writer) Order() binary.ByteOrder {
	return w.order
}

func (w *Writer) U8(v uint8) *Writer {
	w.Buffer.WriteByte(v)
	return w
}

func (w *Writer) U16(v uint16) *Writer {
	w.Buffer.Write(w.u16(v))
	return w
}

func (w *Writer) U32(v uint32) *Writer {
	w.Buffer.Write(w.u32(v))
	return w
}

func (w *Writer) U64(v uint64) *Writer {
	buf := make([]byte, 8)
	w.order.PutUint64(buf, v)
	w.Buffer.Write(buf)
	return w
}

func (w *Writer) u16(v uint16) []byte {
	buf := make([]byte, 2)
	w.order.PutUint16(buf, v)
	return buf
}

func (w *Writer) u32(v uint32) []byte {
	buf := make([]byte, 4)
	w.order.PutUint32(buf, v)
	return buf
}

func (w *Writer) Raw(data []byte) *Writer {
	w.Buffer.Write(data)
	return w
}

func (w *Writer) Zeros(n int) *Writer {
	w.Buffer.Write(make([]byte, n))
	return w
}

// CString writes s followed by a NUL terminator.
func (w *Writer) CString(s string) *Writer {
	w.Buffer.WriteString(s)
	w.Buffer.WriteByte(0)
	return w
}

func (w *Writer) Len() int {
	return w.Buffer.Len()
}

func (w *Writer) Bytes() []byte {
	return w.Buffer.Bytes()
}

// Set overwrites already written bytes at offset.
func (w *Writer) Set(data []byte, offset int) error {
	if offset < 0 || offset+len(data) > w.Buffer.Len() {
		return errors.Errorf("invalid set offset %d or length %d", offset, len(data))
	}
	copy(w.Buffer.Bytes()[offset:offset+len(data)], data)
	return nil
}

func (w *Writer) SetU16(v uint16, offset int) error {
	return w.Set(w.u16(v), offset)
}

func (w *Writer) SetU32(v uint32, offset int) error {
	return w.Set(w.u32(v), offset)
}
