package decoder

import (
	"encoding/binary"

	"github.com/vuuvv/qnet6/core"
)

const (
	PadSize         = 2
	SessionInfoSize = 20
	HeaderSize      = 38 // pad + fixed transport header

	FlagFirst    uint8 = 0x01
	FlagLast     uint8 = 0x02
	FlagChecksum uint8 = 0x04

	VersionBigEndian uint8 = 0x80
)

type Options = core.Options

type SessionInfo struct {
	SrcNodeForDst uint16
	DstNodeForSrc uint16
	SrcConnID     uint32
	DstConnID     uint32
	SeqNum        uint32
	QosType       uint16
	QosIndex      uint16
}

// Header is the fixed transport header.
type Header struct {
	Version     uint8
	Type        core.TransportType
	Flags       uint8
	Layer       core.Layer
	SessionInfo SessionInfo
	Offset      uint32
	Length      uint32
	Checksum    uint32
}

func (h Header) ByteOrder() binary.ByteOrder {
	if h.Version&VersionBigEndian != 0 {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// Complete reports whether the frame is both first and last fragment.
func (h Header) Complete() bool {
	return h.Flags&FlagFirst != 0 && h.Flags&FlagLast != 0
}

type Result struct {
	Header   Header
	Root     *core.Node
	Checksum core.ChecksumResult
	Consumed int
	Fragment bool

	// Stopped is the error of the deepest node that could not be fully
	// decoded, StoppedAt the frame offset where that node starts.
	Stopped   error
	StoppedAt int
}

func (r *Result) ToMap() map[string]any {
	m := r.Root.ToMap()
	m["consumed"] = uint64(r.Consumed)
	m["fragment"] = r.Fragment
	if r.Stopped != nil {
		m["stopped"] = r.Stopped.Error()
		m["stopped_at"] = uint64(r.StoppedAt)
	}
	return m
}

// Decode decodes one transport frame. The only error it returns is
// core.ErrTruncated for frames shorter than HeaderSize; anything wrong past
// the header is reported inside the returned tree.
func Decode(frame []byte, opts Options) (*Result, error) {
	if len(frame) < HeaderSize {
		return nil, core.ErrTruncated
	}
	order := binary.ByteOrder(binary.LittleEndian)
	if frame[PadSize]&VersionBigEndian != 0 {
		order = binary.BigEndian
	}

	c := core.NewCursor(frame, order)
	h, err := readHeader(&c)
	if err != nil {
		return nil, err
	}
	res := &Result{Header: h, Root: headerNode(h), Consumed: c.Pos()}

	payloadLen := h.Length
	if !core.Fits(payloadLen, c.Remaining()) {
		payloadLen = uint32(c.Remaining())
	}
	res.Checksum = checksum(frame, h, payloadLen, opts)
	res.Root.Set("checksum_status", res.Checksum.Status)
	if res.Checksum.Status != core.ChecksumNotChecked {
		res.Root.Set("computed", uint64(res.Checksum.Computed))
	}

	if c.Remaining() == 0 {
		return res, nil
	}
	if !h.Complete() {
		res.Fragment = true
		res.Root.Set("fragment", true)
		return res, nil
	}

	body, used := decodePayload(c.Limit(int(payloadLen)), h)
	res.Root.AddChild(body)
	res.Consumed += used
	if stop := res.Root.Deepest(); stop != nil {
		res.Stopped, res.StoppedAt = stop.Err, stop.Offset
	}
	return res, nil
}

func readHeader(c *core.Cursor) (h Header, err error) {
	if err = c.Advance(PadSize); err != nil {
		return
	}
	var b uint8
	if h.Version, err = c.ReadU8(); err != nil {
		return
	}
	if b, err = c.ReadU8(); err != nil {
		return
	}
	h.Type = core.TransportType(b)
	if h.Flags, err = c.ReadU8(); err != nil {
		return
	}
	if b, err = c.ReadU8(); err != nil {
		return
	}
	h.Layer = core.Layer(b)

	si := &h.SessionInfo
	for _, v := range []*uint16{&si.SrcNodeForDst, &si.DstNodeForSrc} {
		if *v, err = c.ReadU16(); err != nil {
			return
		}
	}
	for _, v := range []*uint32{&si.SrcConnID, &si.DstConnID, &si.SeqNum} {
		if *v, err = c.ReadU32(); err != nil {
			return
		}
	}
	for _, v := range []*uint16{&si.QosType, &si.QosIndex} {
		if *v, err = c.ReadU16(); err != nil {
			return
		}
	}
	for _, v := range []*uint32{&h.Offset, &h.Length, &h.Checksum} {
		if *v, err = c.ReadU32(); err != nil {
			return
		}
	}
	return h, nil
}

func headerNode(h Header) *core.Node {
	n := core.NewNode(core.KindTransport, 0)
	n.Set("version", uint64(h.Version)).
		Set("big_endian", h.Version&VersionBigEndian != 0).
		Set("type", h.Type).
		Set("flags", uint64(h.Flags)).
		Set("first", h.Flags&FlagFirst != 0).
		Set("last", h.Flags&FlagLast != 0).
		Set("crc_present", h.Flags&FlagChecksum != 0).
		Set("layer", h.Layer).
		Set("stream_offset", uint64(h.Offset)).
		Set("length", uint64(h.Length)).
		Set("checksum", uint64(h.Checksum))

	si := core.NewNode(core.KindSessionInfo, PadSize+4)
	si.Set("src_nd_for_dst", uint64(h.SessionInfo.SrcNodeForDst)).
		Set("dst_nd_for_src", uint64(h.SessionInfo.DstNodeForSrc)).
		Set("src_conn_id", uint64(h.SessionInfo.SrcConnID)).
		Set("dst_conn_id", uint64(h.SessionInfo.DstConnID)).
		Set("seq_num", uint64(h.SessionInfo.SeqNum)).
		Set("qos_type", uint64(h.SessionInfo.QosType)).
		Set("qos_index", uint64(h.SessionInfo.QosIndex))
	return n.AddChild(si)
}

// checksum validates complete frames: both fragment flags set, or nothing
// after the header for the checksum to cover.
func checksum(frame []byte, h Header, payloadLen uint32, opts Options) core.ChecksumResult {
	if !opts.CheckChecksum || !(h.Complete() || payloadLen == 0) {
		return core.ChecksumResult{Declared: h.Checksum, Status: core.ChecksumNotChecked}
	}
	return core.CheckChecksum(h.Checksum, frame, HeaderSize, payloadLen)
}

func decodePayload(c core.Cursor, h Header) (*core.Node, int) {
	if h.Type.IsSession() {
		return DecodeSession(c, h.Type)
	}
	switch h.Layer {
	case core.LayerKernelMessage:
		return DecodeKernelMessage(c)
	case core.LayerNodeResolver:
		return DecodeNodeResolver(c)
	case core.LayerLanResolver:
		return DecodeLanResolver(c)
	case core.LayerSequence:
		n := core.NewNode(core.KindSequence, c.Offset())
		used := c.Remaining()
		opaque(&c, n, "data")
		return n, used
	}
	return unknownNode(c.Offset(), "layer", h.Layer.Raw()), 0
}
