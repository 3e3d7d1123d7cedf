package core

import "github.com/vuuvv/errors"

// Decoding errors are local: each one stops only the node that hit it.
var (
	ErrTruncated           = errors.New("qnet6: truncated data")
	ErrOutOfRange          = errors.New("qnet6: offset or length out of range")
	ErrUnknownDiscriminant = errors.New("qnet6: unknown discriminant")
	ErrChecksumMismatch    = errors.New("qnet6: checksum mismatch")
	ErrCountOverflow       = errors.New("qnet6: count exceeds maximum")
	ErrChainLimit          = errors.New("qnet6: combine chain exceeds node budget")
)
