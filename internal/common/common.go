package common

import (
	"encoding/binary"
	"math"
)

// Layout:
//
//	[count: u32][count x (offset: u32, length: u32)][data blob]
//
// offset is relative to the start of the data blob, length includes the
// trailing NUL. Positions are uint64 so that arithmetic on untrusted
// counts cannot wrap on 32-bit platforms.
const (
	CountSize  = 4
	IndexBegin = CountSize
	EntrySize  = 8
	Delim      = byte(0)

	MaxCount     = math.MaxUint32
	MaxStringLen = math.MaxUint32 - 1
	MaxOffset    = math.MaxUint32
)

// EntryPos returns the byte position of the i-th index entry.
func EntryPos(i uint32) uint64 {
	return IndexBegin + uint64(i)*EntrySize
}

// DataStart returns the byte position where the data blob begins.
func DataStart(count uint32) uint64 {
	return IndexBegin + uint64(count)*EntrySize
}

// ReadUint32 reads a little-endian uint32 at pos, reporting false when it
// does not fit inside b.
func ReadUint32(b []byte, pos uint64) (uint32, bool) {
	if pos > uint64(len(b)) || uint64(len(b))-pos < 4 {
		return 0, false
	}
	return binary.LittleEndian.Uint32(b[pos:]), true
}

// ReadEntry reads the (offset, length) pair stored at pos.
func ReadEntry(b []byte, pos uint64) (uint32, uint32, bool) {
	if pos > uint64(len(b)) || uint64(len(b))-pos < EntrySize {
		return 0, 0, false
	}
	return binary.LittleEndian.Uint32(b[pos:]), binary.LittleEndian.Uint32(b[pos+4:]), true
}

// PutUint32 appends x to dst in little-endian order.
func PutUint32(dst []byte, x uint32) []byte {
	return binary.LittleEndian.AppendUint32(dst, x)
}

// PutEntry appends one index entry to dst.
func PutEntry(dst []byte, off, n uint32) []byte {
	dst = binary.LittleEndian.AppendUint32(dst, off)
	return binary.LittleEndian.AppendUint32(dst, n)
}

// Slice returns b[start:start+n] when the whole range lies inside b.
func Slice(b []byte, start, n uint64) ([]byte, bool) {
	end := start + n
	if end < start || end > uint64(len(b)) {
		return nil, false
	}
	return b[start:end], true
}
