package decoder

import (
	"bytes"

	"github.com/vuuvv/qnet6/core"
)

var sessionNames = [...]string{"src_name", "src_domain", "dst_name", "dst_domain"}

// DecodeSession decodes a QoS session record. Only session_init carries a
// body: four offsets, relative to the end of the offset block, to NUL
// terminated names.
func DecodeSession(c core.Cursor, typ core.TransportType) (*core.Node, int) {
	n := core.NewNode(core.KindSession, c.Offset())
	n.Set("type", typ)
	if typ != core.TransportSessionInit {
		return n, 0
	}

	var offsets [len(sessionNames)]uint16
	for i, name := range sessionNames {
		v, err := c.ReadU16()
		if err != nil {
			return n.Fail(err), c.Pos()
		}
		offsets[i] = v
		n.Set(name+"_offset", uint64(v))
	}

	data := c.Rest()
	for i, off := range offsets {
		if int(off) >= len(data) {
			continue
		}
		end := bytes.IndexByte(data[off:], 0)
		if end < 0 {
			continue
		}
		n.Set(sessionNames[i], string(data[int(off):int(off)+end]))
	}
	return n, c.Len()
}
