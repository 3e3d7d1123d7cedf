package core

import (
	"net"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNodeToMap(t *testing.T) {
	n := NewNode(KindLanResolver, 38)
	n.Set("type", LanResolverType(9)).
		Set("src_addr", net.HardwareAddr{0, 1, 2, 3, 4, 5}).
		Set("data", []byte{1}).
		Set("count", uint64(2))
	child := NewNode(KindCredential, 50).Fail(ErrCountOverflow)
	n.AddChild(child).AddChild(nil)

	want := map[string]any{
		"kind":      "lan_resolver",
		"offset":    uint64(38),
		"type":      uint64(9),
		"type_name": "unknown(0x09)",
		"src_addr":  "00:01:02:03:04:05",
		"data":      []byte{1},
		"count":     uint64(2),
		"children": []any{map[string]any{
			"kind":       "credential",
			"offset":     uint64(50),
			"incomplete": true,
			"error":      ErrCountOverflow.Error(),
		}},
	}
	if diff := cmp.Diff(want, n.ToMap()); diff != "" {
		t.Fatalf("ToMap mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"type", "src_addr", "data", "count"}, n.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if n.Deepest() != child {
		t.Fatal("deepest error node not found")
	}
}

func TestNodeSetKeepsOrder(t *testing.T) {
	n := NewNode(KindUnknown, 0).Set("a", uint64(1)).Set("b", uint64(2)).Set("a", uint64(3))
	if diff := cmp.Diff([]string{"a", "b"}, n.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if v, _ := n.Uint("a"); v != 3 {
		t.Fatalf("a = %d", v)
	}
}

func TestEnumNames(t *testing.T) {
	tests := []struct {
		e    Enum
		want string
	}{
		{TransportSessionInit, "session_init"},
		{LayerSequence, "sequence"},
		{KernelConnectAndSend, "connect_and_send"},
		{OperationSync, "sync"},
		{OperationType(0x103), "unknown(0x0103)"},
		{ConnectMount, "mount"},
		{NodeResolverRemoteError, "remote_error"},
		{LanResolverType(0), "unknown(0x00)"},
	}
	for _, tt := range tests {
		if got := tt.e.String(); got != tt.want {
			t.Fatalf("%d: %s, want %s", tt.e.Raw(), got, tt.want)
		}
	}
}

func TestRegistry(t *testing.T) {
	reg := DefaultRegistry()
	if reg != DefaultRegistry() {
		t.Fatal("default registry rebuilt")
	}
	if reg.KindLabel(KindCredential) != "Credentials" {
		t.Fatalf("label = %s", reg.KindLabel(KindCredential))
	}
	custom := NewFieldRegistry(map[string]string{"seq_num": "Sequence"})
	if custom.Label("seq_num") != "Sequence" || custom.Label("no_such_field") != "no such field" {
		t.Fatal("custom labels")
	}
}
