package qnet6

import (
	"fmt"
	"io"
	"strings"

	"github.com/vuuvv/errors"
	"github.com/vuuvv/qnet6/core"
	"github.com/vuuvv/qnet6/decoder"
)

// Format writes res as an indented tree, one field per line, labelled with
// reg. A nil reg uses core.DefaultRegistry.
func Format(w io.Writer, res *decoder.Result, reg *core.FieldRegistry) error {
	if reg == nil {
		reg = core.DefaultRegistry()
	}
	var sb strings.Builder
	res.Root.Walk(func(depth int, n *core.Node) bool {
		indent := strings.Repeat("  ", depth)
		fmt.Fprintf(&sb, "%s%s @%d\n", indent, reg.KindLabel(n.Kind), n.Offset)
		for _, name := range n.Names() {
			v, _ := n.Get(name)
			fmt.Fprintf(&sb, "%s  %s: %s\n", indent, reg.Label(name), formatValue(v))
		}
		if n.Err != nil {
			state := "stopped"
			if n.Incomplete {
				state = "incomplete"
			}
			fmt.Fprintf(&sb, "%s  [%s: %s]\n", indent, state, n.Err.Error())
		}
		return true
	})
	if res.Fragment {
		sb.WriteString("[fragment, payload not decoded]\n")
	}
	if _, err := io.WriteString(w, sb.String()); err != nil {
		return errors.WithStack(err)
	}
	return nil
}

func formatValue(v any) string {
	switch val := v.(type) {
	case core.Enum:
		if !val.Known() {
			return val.String()
		}
		return fmt.Sprintf("%s (0x%X)", val, val.Raw())
	case uint64:
		return fmt.Sprintf("%d (0x%X)", val, val)
	case string:
		return fmt.Sprintf("%q", val)
	}
	return core.ToString(v)
}
