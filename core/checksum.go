package core

import (
	"encoding/binary"

	"github.com/vuuvv/errors"
	"github.com/vuuvv/qnet6/crc32"
)

const ChecksumFieldSize = 4

type ChecksumStatus uint8

const (
	ChecksumNotChecked ChecksumStatus = iota
	ChecksumValid
	ChecksumMismatch
)

func (s ChecksumStatus) String() string {
	switch s {
	case ChecksumNotChecked:
		return "not_checked"
	case ChecksumValid:
		return "valid"
	case ChecksumMismatch:
		return "mismatch"
	}
	return unknownName(uint64(s), 2)
}

type ChecksumResult struct {
	Declared uint32
	Computed uint32
	Status   ChecksumStatus
}

// Err returns ErrChecksumMismatch for a mismatching frame and nil otherwise.
func (r ChecksumResult) Err() error {
	if r.Status == ChecksumMismatch {
		return ErrChecksumMismatch
	}
	return nil
}

var zeroChecksum [ChecksumFieldSize]byte

// ComputeChecksum computes the transport checksum of frame, whose fixed header
// is headerLen bytes long and ends with the checksum field.
//
// The running CRC-32/MPEG-2 starts from a zero seed over the header without
// the checksum field, is inverted, continues over four zero bytes, is
// inverted again, continues over at most payloadLen payload bytes and is
// inverted a last time.
func ComputeChecksum(frame []byte, headerLen int, payloadLen uint32) uint32 {
	headerLen = Clip(headerLen, 0, len(frame))
	covered := Clip(headerLen-ChecksumFieldSize, 0, headerLen)
	table := crc32.MPEG2Table()

	crc := crc32.Update(0, frame[:covered], table)
	crc = ^crc
	crc = crc32.Update(crc, zeroChecksum[:], table)
	crc = ^crc

	n := len(frame) - headerLen
	if Fits(payloadLen, n) {
		n = int(payloadLen)
	}
	crc = crc32.Update(crc, frame[headerLen:headerLen+n], table)
	return ^crc
}

// CheckChecksum compares the declared checksum against the computed one.
func CheckChecksum(declared uint32, frame []byte, headerLen int, payloadLen uint32) ChecksumResult {
	res := ChecksumResult{
		Declared: declared,
		Computed: ComputeChecksum(frame, headerLen, payloadLen),
	}
	res.Status = ChecksumValid
	if res.Computed != res.Declared {
		res.Status = ChecksumMismatch
	}
	return res
}

// SealChecksum writes the computed checksum into the last four header bytes.
func SealChecksum(frame []byte, headerLen int, payloadLen uint32, order binary.ByteOrder) error {
	if headerLen < ChecksumFieldSize || headerLen > len(frame) {
		return errors.Errorf("seal checksum: header length %d outside frame of %d bytes", headerLen, len(frame))
	}
	sum := ComputeChecksum(frame, headerLen, payloadLen)
	order.PutUint32(frame[headerLen-ChecksumFieldSize:headerLen], sum)
	return nil
}
