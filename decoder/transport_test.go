package decoder

import (
	"encoding/binary"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vuuvv/qnet6/core"
)

func completeHeader(layer core.Layer, payload []byte) Header {
	return Header{
		Version: 0x2A,
		Type:    core.TransportUserData,
		Flags:   FlagFirst | FlagLast | FlagChecksum,
		Layer:   layer,
		Length:  uint32(len(payload)),
	}
}

func TestDecodeHeaderOnly(t *testing.T) {
	frame := make([]byte, HeaderSize)
	frame[2] = 0x2A
	frame[4] = FlagFirst
	if err := core.SealChecksum(frame, HeaderSize, 0, binary.LittleEndian); err != nil {
		t.Fatal(err)
	}

	res, err := Decode(frame, core.DefaultOptions())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Header.Type != core.TransportUserData {
		t.Fatalf("type = %v", res.Header.Type)
	}
	if res.Header.Layer != core.LayerKernelMessage {
		t.Fatalf("layer = %v", res.Header.Layer)
	}
	if res.Checksum.Status != core.ChecksumValid {
		t.Fatalf("checksum = %v, declared %08X computed %08X", res.Checksum.Status, res.Checksum.Declared, res.Checksum.Computed)
	}
	if res.Consumed != HeaderSize {
		t.Fatalf("consumed = %d", res.Consumed)
	}
	if len(res.Root.Children) != 1 || res.Root.Children[0].Kind != core.KindSessionInfo {
		t.Fatalf("unexpected children: %+v", res.Root.Children)
	}
	if res.Fragment || res.Stopped != nil {
		t.Fatalf("fragment=%v stopped=%v", res.Fragment, res.Stopped)
	}
}

func TestDecodeTruncatedHeader(t *testing.T) {
	frame := EncodeFrame(completeHeader(core.LayerSequence, []byte{1, 2, 3}), []byte{1, 2, 3})
	for i := 0; i < HeaderSize; i++ {
		res, err := Decode(frame[:i], core.DefaultOptions())
		if err != core.ErrTruncated {
			t.Fatalf("prefix %d: err = %v", i, err)
		}
		if res != nil {
			t.Fatalf("prefix %d: result %+v", i, res)
		}
	}
}

func TestChecksumBitFlip(t *testing.T) {
	payload := kernelMessage(binary.LittleEndian, core.KernelDisconnect).U32(7).Bytes()
	frame := EncodeFrame(completeHeader(core.LayerKernelMessage, payload), payload)

	res, err := Decode(frame, core.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if res.Checksum.Status != core.ChecksumValid {
		t.Fatalf("checksum = %v", res.Checksum.Status)
	}

	for i := HeaderSize; i < len(frame); i++ {
		for bit := 0; bit < 8; bit++ {
			flipped := append([]byte(nil), frame...)
			flipped[i] ^= 1 << bit
			res, err = Decode(flipped, core.DefaultOptions())
			if err != nil {
				t.Fatal(err)
			}
			if res.Checksum.Status != core.ChecksumMismatch || res.Checksum.Err() != core.ErrChecksumMismatch {
				t.Fatalf("byte %d bit %d: checksum = %v", i, bit, res.Checksum.Status)
			}
		}
	}

	res, _ = Decode(frame, core.Options{CheckChecksum: false})
	if res.Checksum.Status != core.ChecksumNotChecked {
		t.Fatalf("checksum = %v with checking disabled", res.Checksum.Status)
	}
}

func TestDecodeBigEndian(t *testing.T) {
	payload := kernelMessage(binary.BigEndian, core.KernelDisconnect).U32(0x01020304).Bytes()
	h := completeHeader(core.LayerKernelMessage, payload)
	h.Version |= VersionBigEndian
	h.SessionInfo.SrcConnID = 0x0A0B0C0D
	frame := EncodeFrame(h, payload)
	if frame[HeaderSize-8] != 0 || frame[HeaderSize-5] != byte(len(payload)) {
		t.Fatalf("length not written big endian: % X", frame[HeaderSize-8:HeaderSize-4])
	}

	res, err := Decode(frame, core.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if res.Checksum.Status != core.ChecksumValid {
		t.Fatalf("checksum = %v", res.Checksum.Status)
	}
	if res.Header.SessionInfo.SrcConnID != 0x0A0B0C0D {
		t.Fatalf("src_conn_id = %X", res.Header.SessionInfo.SrcConnID)
	}
	kif := res.Root.Child(core.KindKernelMessage)
	if kif == nil {
		t.Fatal("missing kernel message")
	}
	if v, _ := kif.Uint("server_id"); v != 0x01020304 {
		t.Fatalf("server_id = %X", v)
	}
	if res.Consumed != len(frame) {
		t.Fatalf("consumed = %d of %d", res.Consumed, len(frame))
	}
}

func TestDecodeFragment(t *testing.T) {
	payload := []byte{0xde, 0xad, 0xbe, 0xef}
	h := completeHeader(core.LayerKernelMessage, payload)
	h.Flags = FlagFirst
	res, err := Decode(EncodeFrame(h, payload), core.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !res.Fragment {
		t.Fatal("expected fragment")
	}
	if res.Checksum.Status != core.ChecksumNotChecked {
		t.Fatalf("checksum = %v", res.Checksum.Status)
	}
	if res.Root.Child(core.KindKernelMessage) != nil {
		t.Fatal("fragment payload must not be decoded")
	}
	if res.Consumed != HeaderSize {
		t.Fatalf("consumed = %d", res.Consumed)
	}
}

func TestDecodeLengthClipped(t *testing.T) {
	payload := []byte{1, 2, 3, 4}
	h := completeHeader(core.LayerSequence, payload)
	h.Length = 1000
	res, err := Decode(EncodeFrame(h, payload), core.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	seq := res.Root.Child(core.KindSequence)
	if seq == nil {
		t.Fatal("missing sequence node")
	}
	data, _ := seq.Bytes("data")
	if diff := cmp.Diff(payload, data); diff != "" {
		t.Fatalf("data mismatch (-want +got):\n%s", diff)
	}
	if res.Checksum.Status != core.ChecksumValid {
		t.Fatalf("checksum = %v", res.Checksum.Status)
	}
}

func TestDecodeUnknownLayer(t *testing.T) {
	payload := []byte{1, 2}
	res, err := Decode(EncodeFrame(completeHeader(core.Layer(9), payload), payload), core.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	n := res.Root.Child(core.KindUnknown)
	if n == nil || n.Err != core.ErrUnknownDiscriminant {
		t.Fatalf("unexpected node: %+v", n)
	}
	if v, _ := n.Uint("layer"); v != 9 {
		t.Fatalf("layer = %d", v)
	}
	if res.Stopped != core.ErrUnknownDiscriminant || res.StoppedAt != HeaderSize {
		t.Fatalf("stopped = %v at %d", res.Stopped, res.StoppedAt)
	}
	if got := res.ToMap()["type_name"]; got != "user_data" {
		t.Fatalf("type_name = %v", got)
	}
}

func TestDecodeSessionDispatch(t *testing.T) {
	payload := sessionInitPayload()
	h := completeHeader(core.LayerKernelMessage, payload)
	h.Type = core.TransportSessionInit
	res, err := Decode(EncodeFrame(h, payload), core.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	s := res.Root.Child(core.KindSession)
	if s == nil {
		t.Fatal("session layer not selected")
	}
	if name, _ := s.Str("src_name"); name != "abcd" {
		t.Fatalf("src_name = %q", name)
	}
}

func TestHeaderStreamOffsetKeptApart(t *testing.T) {
	payload := []byte{1, 2, 3}
	h := completeHeader(core.LayerSequence, payload)
	h.Offset = 77

	res, err := Decode(EncodeFrame(h, payload), core.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	m := res.ToMap()
	if m["offset"] != uint64(0) {
		t.Fatalf("node offset = %v", m["offset"])
	}
	if m["stream_offset"] != uint64(77) {
		t.Fatalf("stream offset = %v", m["stream_offset"])
	}
}
