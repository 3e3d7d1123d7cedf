package core

import (
	"bytes"
	"net"
	"slices"
)

type Kind uint8

const (
	KindUnknown Kind = iota
	KindTransport
	KindSessionInfo
	KindSession
	KindNodeResolver
	KindLanResolver
	KindSequence
	KindKernelMessage
	KindVirtualThread
	KindPulse
	KindCredential
	KindOperation
)

var kindNames = map[Kind]string{
	KindUnknown:       "unknown",
	KindTransport:     "transport",
	KindSessionInfo:   "session_info",
	KindSession:       "session",
	KindNodeResolver:  "node_resolver",
	KindLanResolver:   "lan_resolver",
	KindSequence:      "sequence",
	KindKernelMessage: "kernel_message",
	KindVirtualThread: "vtid_info",
	KindPulse:         "pulse",
	KindCredential:    "credential",
	KindOperation:     "operation",
}

func (k Kind) String() string { return enumName(kindNames, k, 2) }

// Node is one decoded record. Fields keep their wire order.
type Node struct {
	Kind       Kind
	Offset     int // absolute frame offset where the record starts
	Fields     map[string]any
	Children   []*Node
	Incomplete bool  // mandatory fields were missing
	Err        error // why decoding of this node stopped, if it did
	names      []string
}

func NewNode(kind Kind, offset int) *Node {
	return &Node{
		Kind:   kind,
		Offset: offset,
		Fields: make(map[string]any),
	}
}

func (n *Node) Set(name string, val any) *Node {
	if _, ok := n.Fields[name]; !ok {
		n.names = append(n.names, name)
	}
	n.Fields[name] = val
	return n
}

func (n *Node) Get(name string) (any, bool) {
	v, ok := n.Fields[name]
	return v, ok
}

func (n *Node) Has(name string) bool {
	_, ok := n.Fields[name]
	return ok
}

func (n *Node) Uint(name string) (uint64, bool) {
	v, ok := n.Fields[name]
	if !ok {
		return 0, false
	}
	return ToUint64(v)
}

func (n *Node) Str(name string) (string, bool) {
	v, ok := n.Fields[name]
	if !ok {
		return "", false
	}
	return ToString(v), true
}

func (n *Node) Bytes(name string) ([]byte, bool) {
	v, ok := n.Fields[name].([]byte)
	return v, ok
}

func (n *Node) Bool(name string) bool {
	v, _ := n.Fields[name].(bool)
	return v
}

// Names returns the field names in the order they were decoded.
func (n *Node) Names() []string {
	return slices.Clone(n.names)
}

func (n *Node) AddChild(child *Node) *Node {
	if child != nil {
		n.Children = append(n.Children, child)
	}
	return n
}

// Child returns the first direct child of the given kind.
func (n *Node) Child(kind Kind) *Node {
	for _, c := range n.Children {
		if c.Kind == kind {
			return c
		}
	}
	return nil
}

// Fail marks the node as stopped by err.
func (n *Node) Fail(err error) *Node {
	n.Incomplete = true
	n.Err = err
	return n
}

// Walk visits n and its descendants depth first until fn returns false.
func (n *Node) Walk(fn func(depth int, node *Node) bool) {
	n.walk(0, fn)
}

func (n *Node) walk(depth int, fn func(int, *Node) bool) bool {
	if !fn(depth, n) {
		return false
	}
	for _, c := range n.Children {
		if !c.walk(depth+1, fn) {
			return false
		}
	}
	return true
}

// Deepest returns the deepest node that carries an error, if any.
func (n *Node) Deepest() *Node {
	var found *Node
	best := -1
	n.Walk(func(depth int, node *Node) bool {
		if node.Err != nil && depth > best {
			found, best = node, depth
		}
		return true
	})
	return found
}

// ToMap flattens the node into plain values: enums become their raw value
// plus a "<name>_name" entry, children are listed under "children".
func (n *Node) ToMap() map[string]any {
	m := make(map[string]any, len(n.Fields)+4)
	m["kind"] = n.Kind.String()
	m["offset"] = uint64(n.Offset)
	for _, name := range n.names {
		switch v := n.Fields[name].(type) {
		case Enum:
			m[name] = v.Raw()
			m[name+"_name"] = v.String()
		case ChecksumStatus:
			m[name] = v.String()
		case net.HardwareAddr:
			m[name] = v.String()
		case []byte:
			m[name] = bytes.Clone(v)
		default:
			m[name] = v
		}
	}
	if n.Incomplete {
		m["incomplete"] = true
	}
	if n.Err != nil {
		m["error"] = n.Err.Error()
	}
	if len(n.Children) > 0 {
		children := make([]any, 0, len(n.Children))
		for _, c := range n.Children {
			children = append(children, c.ToMap())
		}
		m["children"] = children
	}
	return m
}
