package decoder

import (
	"github.com/vuuvv/qnet6/core"
)

// DecodeNodeResolver decodes a remote node lookup record.
func DecodeNodeResolver(c core.Cursor) (*core.Node, int) {
	n := core.NewNode(core.KindNodeResolver, c.Offset())
	raw, err := c.ReadU8()
	if err != nil {
		return n.Fail(err), 0
	}
	typ := core.NodeResolverType(raw)
	n.Set("type", typ)

	switch typ {
	case core.NodeResolverPingRequest, core.NodeResolverPingReply:
	case core.NodeResolverRemoteRequest:
		if err = decodeFields(&c, n, u8("name_len"), u16("request_id")); err != nil {
			break
		}
		nameLen, _ := n.Uint("name_len")
		name, _ := c.Bytes(core.Clip(int(nameLen), 0, c.Remaining()))
		n.Set("name", core.CString(name))
	case core.NodeResolverRemoteReply:
		err = decodeFields(&c, n, pad(1), u16("request_id"), u32("node_id"))
	case core.NodeResolverRemoteError:
		err = decodeFields(&c, n, pad(1), u16("request_id"), u32("status"))
	default:
		n.Err = core.ErrUnknownDiscriminant
	}
	if err != nil {
		n.Fail(err)
	}
	return n, c.Pos()
}
