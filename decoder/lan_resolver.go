package decoder

import (
	"bytes"
	"net"

	"github.com/vuuvv/qnet6/core"
)

const (
	LanResolverHeaderSize = 56

	// AddrFamilyHardware tags an address reference holding a MAC address.
	AddrFamilyHardware = 0x01

	hardwareAddrSpan = 8 // length, family, 6 address bytes
)

var lanResolverRefs = [...]struct {
	name string
	addr bool
}{
	{"src_name", false},
	{"src_domain", false},
	{"src_addr", true},
	{"dst_name", false},
	{"dst_domain", false},
	{"dst_addr", true},
}

// DecodeLanResolver decodes a name/address resolver record. References that
// point outside the record are left out of the node; that is not an error.
func DecodeLanResolver(c core.Cursor) (*core.Node, int) {
	n := core.NewNode(core.KindLanResolver, c.Offset())
	base := c
	avail := base.Remaining()

	if err := decodeFields(&c, n, u8("version"), u8("type"), pad(2), u32("total_len")); err != nil {
		return n.Fail(err), c.Pos()
	}
	typ, _ := n.Uint("type")
	n.Set("type", core.LanResolverType(typ))

	for _, ref := range lanResolverRefs {
		if err := decodeFields(&c, n, u32(ref.name+"_offset"), u32(ref.name+"_length")); err != nil {
			return n.Fail(err), c.Pos()
		}
	}

	for _, ref := range lanResolverRefs {
		off, _ := n.Uint(ref.name + "_offset")
		length, _ := n.Uint(ref.name + "_length")
		if !core.Fits(off, avail) || !core.Fits(length, avail) {
			continue
		}
		if ref.addr {
			if mac := hardwareAddr(base, int(off), int(length)); mac != nil {
				n.Set(ref.name, mac)
			}
			continue
		}
		span, err := base.Sub(int(off), int(length))
		if err != nil {
			continue
		}
		n.Set(ref.name, core.CString(span.Rest()))
	}
	return n, avail
}

// hardwareAddr reads a tagged MAC address at off. The full eight byte span
// is bounds checked on its own, independent of the declared length.
func hardwareAddr(base core.Cursor, off, length int) net.HardwareAddr {
	if length < hardwareAddrSpan {
		return nil
	}
	span, err := base.Sub(off, hardwareAddrSpan)
	if err != nil {
		return nil
	}
	if family, ok := span.PeekAt(1); !ok || family != AddrFamilyHardware {
		return nil
	}
	if err = span.Advance(2); err != nil {
		return nil
	}
	mac, err := span.Bytes(hardwareAddrSpan - 2)
	if err != nil {
		return nil
	}
	return net.HardwareAddr(bytes.Clone(mac))
}
