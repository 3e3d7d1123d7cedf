package decoder

import (
	"encoding/binary"
	"net"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vuuvv/qnet6/core"
)

func sessionInitPayload() []byte {
	return core.NewWriter(binary.LittleEndian).
		U16(0).U16(5).U16(100).U16(9).
		Raw([]byte("abcd\x00efg\x00hij")).
		Bytes()
}

func TestSessionInit(t *testing.T) {
	data := sessionInitPayload()
	n, used := DecodeSession(core.NewCursor(data, binary.LittleEndian), core.TransportSessionInit)
	if used != len(data) {
		t.Fatalf("used %d of %d", used, len(data))
	}
	if s, _ := n.Str("src_name"); s != "abcd" {
		t.Fatalf("src_name = %q", s)
	}
	if s, _ := n.Str("src_domain"); s != "efg" {
		t.Fatalf("src_domain = %q", s)
	}
	if n.Has("dst_name") {
		t.Fatal("out of range name decoded")
	}
	if n.Has("dst_domain") {
		t.Fatal("unterminated name decoded")
	}
	if v, _ := n.Uint("dst_name_offset"); v != 100 {
		t.Fatalf("dst_name_offset = %d", v)
	}
}

func TestSessionOtherTypes(t *testing.T) {
	n, used := DecodeSession(core.NewCursor([]byte{1, 2, 3}, nil), core.TransportSessionUp)
	if used != 0 || len(n.Names()) != 1 || n.Incomplete {
		t.Fatalf("used=%d fields=%v", used, n.Names())
	}
}

func TestNodeResolver(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want map[string]any
	}{
		{
			name: "ping",
			data: []byte{0x00},
			want: map[string]any{"kind": "node_resolver", "offset": uint64(0), "type": uint64(0), "type_name": "ping_request"},
		},
		{
			name: "remote reply",
			data: core.NewWriter(nil).U8(3).U8(0).U16(0x1234).U32(7).Bytes(),
			want: map[string]any{
				"kind": "node_resolver", "offset": uint64(0), "type": uint64(3), "type_name": "remote_reply",
				"request_id": uint64(0x1234), "node_id": uint64(7),
			},
		},
		{
			name: "remote request clipped name",
			data: core.NewWriter(nil).U8(2).U8(10).U16(1).Raw([]byte("node")).Bytes(),
			want: map[string]any{
				"kind": "node_resolver", "offset": uint64(0), "type": uint64(2), "type_name": "remote_request",
				"name_len": uint64(10), "request_id": uint64(1), "name": "node",
			},
		},
		{
			name: "remote error truncated",
			data: core.NewWriter(nil).U8(4).U8(0).U16(1).Bytes(),
			want: map[string]any{
				"kind": "node_resolver", "offset": uint64(0), "type": uint64(4), "type_name": "remote_error",
				"request_id": uint64(1), "incomplete": true, "error": core.ErrTruncated.Error(),
			},
		},
		{
			name: "unknown",
			data: []byte{0x09},
			want: map[string]any{
				"kind": "node_resolver", "offset": uint64(0), "type": uint64(9), "type_name": "unknown(0x09)",
				"error": core.ErrUnknownDiscriminant.Error(),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, _ := DecodeNodeResolver(core.NewCursor(tt.data, nil))
			if diff := cmp.Diff(tt.want, n.ToMap()); diff != "" {
				t.Fatalf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

type lanRef struct{ off, length uint32 }

func lanResolver(refs [6]lanRef, body []byte) []byte {
	w := core.NewWriter(binary.LittleEndian).U8(1).U8(uint8(core.LanResolverReply)).Zeros(2).U32(0)
	for _, r := range refs {
		w.U32(r.off).U32(r.length)
	}
	return w.Raw(body).Bytes()
}

func TestLanResolver(t *testing.T) {
	body := []byte("node1\x00dom\x00")
	body = append(body, 8, AddrFamilyHardware, 0x00, 0x11, 0x22, 0x33, 0x44, 0x55)
	// body ends at 56+18 = 74
	data := lanResolver([6]lanRef{
		{56, 6},   // src_name
		{62, 4},   // src_domain
		{66, 8},   // src_addr
		{1000, 4}, // dst_name, offset out of range
		{70, 100}, // dst_domain, length out of range
		{70, 8},   // dst_addr, span past the end
	}, body)

	n, used := DecodeLanResolver(core.NewCursor(data, binary.LittleEndian))
	if used != len(data) {
		t.Fatalf("used %d of %d", used, len(data))
	}
	if n.Incomplete {
		t.Fatalf("incomplete: %v", n.Err)
	}
	if s, _ := n.Str("src_name"); s != "node1" {
		t.Fatalf("src_name = %q", s)
	}
	if s, _ := n.Str("src_domain"); s != "dom" {
		t.Fatalf("src_domain = %q", s)
	}
	mac, _ := n.Get("src_addr")
	if mac.(net.HardwareAddr).String() != "00:11:22:33:44:55" {
		t.Fatalf("src_addr = %v", mac)
	}
	for _, name := range []string{"dst_name", "dst_domain", "dst_addr"} {
		if n.Has(name) {
			t.Fatalf("%s must be absent", name)
		}
	}
	typ, _ := n.Get("type")
	if typ != core.LanResolverReply {
		t.Fatalf("type = %v", typ)
	}
}

func TestLanResolverAddressChecks(t *testing.T) {
	body := []byte{8, 0x02, 1, 2, 3, 4, 5, 6, 8, AddrFamilyHardware, 1, 2, 3, 4, 5, 6}
	data := lanResolver([6]lanRef{
		{0, 0},
		{0, 0},
		{56, 8}, // wrong family tag
		{0, 0},
		{0, 0},
		{64, 6}, // declared length shorter than an address
	}, body)
	n, _ := DecodeLanResolver(core.NewCursor(data, binary.LittleEndian))
	if n.Has("src_addr") || n.Has("dst_addr") {
		t.Fatalf("unexpected address fields: %v", n.Names())
	}
}

func TestLanResolverTruncated(t *testing.T) {
	data := lanResolver([6]lanRef{}, nil)[:30]
	n, _ := DecodeLanResolver(core.NewCursor(data, binary.LittleEndian))
	if !n.Incomplete || n.Err != core.ErrTruncated {
		t.Fatalf("incomplete=%v err=%v", n.Incomplete, n.Err)
	}
	if !n.Has("src_name_offset") {
		t.Fatal("fields read before truncation were dropped")
	}
}
