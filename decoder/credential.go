package decoder

import (
	"github.com/vuuvv/qnet6/core"
)

const MaxCredentialGroups = 8

var credentialFields = u32s(
	"nd", "pid", "sid", "flags",
	"ruid", "euid", "suid", "rgid", "egid", "sgid",
	"ngroups",
)

// DecodeCredential decodes a credential block. It returns nil when the
// fixed part does not fit. A group count above MaxCredentialGroups yields
// an incomplete node without groups; a short group list is kept as is.
func DecodeCredential(c core.Cursor) (*core.Node, int) {
	n := core.NewNode(core.KindCredential, c.Offset())
	if err := decodeFields(&c, n, credentialFields...); err != nil {
		return nil, 0
	}
	count, _ := n.Uint("ngroups")
	if count > MaxCredentialGroups {
		return n.Fail(core.ErrCountOverflow), c.Pos()
	}

	count = min(count, uint64(c.Remaining()/4))
	groups := make([]uint64, 0, count)
	for i := uint64(0); i < count; i++ {
		g, err := c.ReadU32()
		if err != nil {
			break
		}
		groups = append(groups, uint64(g))
	}
	n.Set("groups", groups)
	return n, c.Pos()
}
