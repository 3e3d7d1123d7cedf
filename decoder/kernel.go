package decoder

import (
	"encoding/binary"

	"github.com/vuuvv/qnet6/core"
)

const (
	KernelTypeMask     uint16 = 0x007f
	KernelCredentials  uint16 = 0x0080
	KernelEndianMask   uint16 = 0xc000
	KernelEndianBig    uint16 = 0x8000
	KernelEndianLittle uint16 = 0x4000

	// ConnectAndSend may wrap one more message, no deeper.
	maxKernelNesting = 2
)

var (
	connectFields  = u32s("version", "server_pid", "server_chid", "client_id", "client_pid")
	transferFields = u32s("client_handle", "status", "offset", "nbytes")
	vtidFields     = u32s("tid", "coid", "priority", "srcmsglen", "keydata", "srcnd", "dstmsglen", "zero")
	pulseFields    = []field{u16("type"), u16("subtype"), u8("code"), pad(3), u32("value"), u32("scoid")}
	kernelFields   = map[core.KernelMessageType][]field{
		core.KernelConnectSuccess: u32s("client_id", "server_id", "scoid", "nbytes"),
		core.KernelConnectFail:    u32s("client_id", "status"),
		core.KernelConnectDeath:   u32s("client_id"),
		core.KernelRead:           u32s("client_handle", "msg_id", "offset", "nbytes"),
		core.KernelError:          transferFields,
		core.KernelReadError:      transferFields,
		core.KernelEvent:          u32s("client_handle", "notify", "value", "priority"),
		core.KernelSignal:         u32s("client_handle", "pid", "tid", "signo", "code", "value"),
		core.KernelDisconnect:     u32s("server_id"),
		core.KernelUnblock:        u32s("server_id", "tid"),
	}
)

// DecodeKernelMessage decodes one kernel interface message.
func DecodeKernelMessage(c core.Cursor) (*core.Node, int) {
	return decodeKernelMessage(c, 0)
}

func decodeKernelMessage(c core.Cursor, depth int) (*core.Node, int) {
	n := core.NewNode(core.KindKernelMessage, c.Offset())
	word, err := c.ReadU16()
	if err != nil {
		return n.Fail(err), 0
	}
	typ := core.KernelMessageType(word & KernelTypeMask)
	n.Set("type", typ).Set("credentials", word&KernelCredentials != 0)

	switch word & KernelEndianMask {
	case KernelEndianBig:
		c = c.WithOrder(binary.BigEndian)
		n.Set("endian", "big")
	case KernelEndianLittle:
		c = c.WithOrder(binary.LittleEndian)
		n.Set("endian", "little")
	}

	if err = decodeFields(&c, n, u16("size")); err != nil {
		return n.Fail(err), c.Pos()
	}
	if err = decodeKernelBody(&c, n, typ, word&KernelCredentials != 0, depth); err != nil {
		n.Fail(err)
	}
	return n, c.Pos()
}

func decodeKernelBody(c *core.Cursor, n *core.Node, typ core.KernelMessageType, cred bool, depth int) error {
	switch typ {
	case core.KernelConnect, core.KernelConnectAndSend:
		if err := decodeFields(c, n, connectFields...); err != nil {
			return err
		}
		if cred {
			if cn, used := DecodeCredential(*c); cn != nil {
				n.AddChild(cn)
				_ = c.Advance(used)
			}
		}
		if typ == core.KernelConnectAndSend && c.Remaining() > 0 {
			if depth+1 >= maxKernelNesting {
				return core.ErrChainLimit
			}
			child, used := decodeKernelMessage(*c, depth+1)
			n.AddChild(child)
			_ = c.Advance(used)
		}
		return nil

	case core.KernelSend, core.KernelPulse:
		if err := decodeFields(c, n, u32("server_id"), u32("client_handle")); err != nil {
			return err
		}
		vtid := core.NewNode(core.KindVirtualThread, c.Offset())
		n.AddChild(vtid)
		if err := decodeFields(c, vtid, vtidFields...); err != nil {
			vtid.Fail(err)
			return err
		}
		if typ == core.KernelPulse {
			pulse := core.NewNode(core.KindPulse, c.Offset())
			n.AddChild(pulse)
			if err := decodeFields(c, pulse, pulseFields...); err != nil {
				pulse.Fail(err)
				return err
			}
			return nil
		}
		if c.Remaining() > 0 {
			chain, used := DecodeOperationChain(*c)
			n.AddChild(chain)
			_ = c.Advance(used)
		}
		return nil

	case core.KernelWrite, core.KernelReply, core.KernelReadTransfer:
		if err := decodeFields(c, n, transferFields...); err != nil {
			return err
		}
		opaque(c, n, "data")
		return nil

	case core.KernelConnectSuccess, core.KernelConnectFail, core.KernelConnectDeath,
		core.KernelRead, core.KernelError, core.KernelReadError,
		core.KernelEvent, core.KernelSignal, core.KernelDisconnect, core.KernelUnblock:
		return decodeFields(c, n, kernelFields[typ]...)
	}

	n.Set("raw_type", typ.Raw())
	n.Err = core.ErrUnknownDiscriminant
	return nil
}
