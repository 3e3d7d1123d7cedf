package decoder

import (
	"bytes"

	"github.com/vuuvv/qnet6/core"
)

const (
	// MinOperationNodeSize is the smallest record a chain can hold: a bare
	// combine word, as close and unblock records carry no fields. It bounds
	// how many records a buffer can possibly contain.
	MinOperationNodeSize = 2

	combineContinues uint16 = 0x8000
	combineSizeMask  uint16 = 0x7fff
)

var connectOperationFields = []field{
	u16("file_type"), u16("reply_max"), u16("entry_max"),
	u32("key"), u32("handle"), u32("ioflag"), u32("mode"),
	u16("sflag"), u16("access"), u16("zero"), u16("path_len"),
	u8("eflag"), u8("extra_type"), u16("extra_len"),
}

var operationFields = map[core.OperationType][]field{
	core.OperationRead:     u32s("nbytes", "xtype", "zero"),
	core.OperationWrite:    u32s("nbytes", "xtype", "zero"),
	core.OperationStat:     u32s("zero"),
	core.OperationNotify:   u32s("action", "flags", "event_notify", "event_value"),
	core.OperationDevctl:   u32s("dcmd", "nbytes", "zero"),
	core.OperationUnblock:  nil,
	core.OperationPathConf: {u16("name"), u16("zero")},
	core.OperationSeek:     {u16("whence"), u16("zero"), u64("offset")},
	core.OperationChmod:    u32s("mode"),
	core.OperationChown:    u32s("gid", "uid"),
	core.OperationUtime:    u32s("cur_flag", "actime", "modtime"),
	core.OperationOpenFd:   {u32("ioflag"), u16("sflag"), u16("xtype"), u32("key")},
	core.OperationFdInfo:   u32s("flags", "path_len", "reserved"),
	core.OperationLock:     u32s("subtype", "nbytes"),
	core.OperationSpace:    {u16("subtype"), u16("whence"), u64("start"), u64("len")},
	core.OperationShutdown: u32s("zero"),
	core.OperationMmap:     {u32("prot"), u64("offset")},
	core.OperationMsg:      {u16("mgrid"), u16("subtype")},
	core.OperationDup:      u32s("nd", "pid", "tid", "chid", "scoid", "coid", "key"),
	core.OperationClose:    nil,
	core.OperationSync:     u32s("flag"),
}

// DecodeOperationChain decodes a combine chain. The operation type is read
// once; a record with the continuation bit set is followed by another record,
// decoded as its child, as long as bytes remain. The number of records is
// capped by what the buffer could hold at MinOperationNodeSize bytes each;
// running into the cap with bytes left marks the last record ErrChainLimit.
func DecodeOperationChain(c core.Cursor) (*core.Node, int) {
	start := c.Pos()
	raw, err := c.ReadU16()
	if err != nil {
		return core.NewNode(core.KindOperation, c.Offset()).Fail(err), 0
	}
	op := core.OperationType(raw)
	budget := max(1, c.Remaining()/MinOperationNodeSize)

	var head, tail *core.Node
	for i := 0; ; i++ {
		n, more := decodeOperation(&c, op, i == 0)
		if head == nil {
			head = n
		} else {
			tail.AddChild(n)
		}
		tail = n
		if !more || n.Incomplete || c.Remaining() == 0 {
			break
		}
		if i == budget-1 {
			n.Fail(core.ErrChainLimit)
			break
		}
	}
	return head, c.Pos() - start
}

// decodeOperation decodes one record and reports whether another follows.
func decodeOperation(c *core.Cursor, op core.OperationType, first bool) (*core.Node, bool) {
	n := core.NewNode(core.KindOperation, c.Offset())
	n.Set("type", op)
	start := c.Pos()

	word, err := c.ReadU16()
	if err != nil {
		return n.Fail(err), false
	}
	size := int(word & combineSizeMask)
	more := word&combineContinues != 0
	n.Set("size", uint64(size)).Set("continues", more)

	fields, known := operationFields[op]
	switch {
	case op == core.OperationConnect:
		err = decodeConnectOperation(c, n, first)
	case known:
		err = decodeFields(c, n, fields...)
	default:
		n.Err = core.ErrUnknownDiscriminant
	}
	if err != nil {
		return n.Fail(err), false
	}

	if extra := size - (c.Pos() - start); extra > 0 {
		data, _ := c.Bytes(min(extra, c.Remaining()))
		n.Set("extra_data", bytes.Clone(data))
	}
	return n, more
}

func decodeConnectOperation(c *core.Cursor, n *core.Node, first bool) error {
	if first {
		subtype, err := c.ReadU16()
		if err != nil {
			return err
		}
		n.Set("subtype", core.ConnectSubtype(subtype))
	}
	if err := decodeFields(c, n, connectOperationFields...); err != nil {
		return err
	}
	pathLen, _ := n.Uint("path_len")
	path, _ := c.Bytes(min(int(pathLen), c.Remaining()))
	n.Set("path", core.CString(path))
	return nil
}
