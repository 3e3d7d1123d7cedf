package decoder

import (
	"bytes"

	"github.com/vuuvv/qnet6/core"
)

// field is one fixed-size unsigned wire field. An empty name is padding
// that is skipped without being recorded.
type field struct {
	name string
	size int
}

func u8(name string) field  { return field{name, 1} }
func u16(name string) field { return field{name, 2} }
func u32(name string) field { return field{name, 4} }
func u64(name string) field { return field{name, 8} }
func pad(size int) field    { return field{"", size} }

func u32s(names ...string) []field {
	fields := make([]field, len(names))
	for i, name := range names {
		fields[i] = u32(name)
	}
	return fields
}

// decodeFields reads fields in order. It stops at the first field that does
// not fit; everything read before it stays on the node.
func decodeFields(c *core.Cursor, n *core.Node, fields ...field) error {
	for _, f := range fields {
		if f.name == "" {
			if err := c.Advance(f.size); err != nil {
				return err
			}
			continue
		}
		v, err := c.ReadUint(f.size)
		if err != nil {
			return err
		}
		n.Set(f.name, v)
	}
	return nil
}

// opaque stores every remaining byte under name.
func opaque(c *core.Cursor, n *core.Node, name string) {
	data, _ := c.Bytes(c.Remaining())
	n.Set(name, bytes.Clone(data))
}

func unknownNode(offset int, what string, raw uint64) *core.Node {
	n := core.NewNode(core.KindUnknown, offset)
	n.Set(what, raw)
	n.Err = core.ErrUnknownDiscriminant
	return n
}
