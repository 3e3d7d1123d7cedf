package decoder

import (
	"github.com/vuuvv/qnet6/core"
)

// EncodeFrame lays out h and payload in the byte order selected by
// h.Version. h.Length is written as given so that callers can build
// frames whose declared length disagrees with the payload. When the
// checksum flag is set the checksum is computed and h.Checksum ignored.
func EncodeFrame(h Header, payload []byte) []byte {
	w := core.NewWriter(h.ByteOrder())
	si := h.SessionInfo
	w.Zeros(PadSize).
		U8(h.Version).
		U8(uint8(h.Type)).
		U8(h.Flags).
		U8(uint8(h.Layer)).
		U16(si.SrcNodeForDst).
		U16(si.DstNodeForSrc).
		U32(si.SrcConnID).
		U32(si.DstConnID).
		U32(si.SeqNum).
		U16(si.QosType).
		U16(si.QosIndex).
		U32(h.Offset).
		U32(h.Length).
		U32(h.Checksum).
		Raw(payload)

	frame := w.Bytes()
	if h.Flags&FlagChecksum != 0 {
		_ = core.SealChecksum(frame, HeaderSize, h.Length, w.Order())
	}
	return frame
}
