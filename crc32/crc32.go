package crc32

import (
	"sync"
)

// Params describes a non-reflected 32-bit CRC.
type Params struct {
	Poly   uint32
	Init   uint32
	XorOut uint32
	Check  uint32 // checksum of "123456789"
	Name   string
}

var CRC32_MPEG2 = Params{0x04C11DB7, 0xFFFFFFFF, 0x00000000, 0x0376E6E7, "CRC-32/MPEG-2"}

// Table is a 256-word table representing the polynomial and algorithm settings for efficient processing.
type Table struct {
	data [256]uint32
}

// MakeTable returns the Table constructed from the specified algorithm.
func MakeTable(params Params) *Table {
	table := new(Table)
	for n := 0; n < 256; n++ {
		crc := uint32(n) << 24
		for i := 0; i < 8; i++ {
			if crc&0x80000000 != 0 {
				crc = crc<<1 ^ params.Poly
			} else {
				crc <<= 1
			}
		}
		table.data[n] = crc
	}
	return table
}

var (
	mpeg2Table *Table
	mpeg2Once  sync.Once
)

// MPEG2Table returns the shared CRC-32/MPEG-2 table, built on first use.
func MPEG2Table() *Table {
	mpeg2Once.Do(func() {
		mpeg2Table = MakeTable(CRC32_MPEG2)
	})
	return mpeg2Table
}

// Update returns the result of adding the bytes in data to the crc.
// The running value is not finalized, so any seed can be continued.
func Update(crc uint32, data []byte, table *Table) uint32 {
	for _, d := range data {
		crc = crc<<8 ^ table.data[byte(crc>>24)^d]
	}
	return crc
}
