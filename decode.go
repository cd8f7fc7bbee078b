package buffo

import (
	"fmt"
	"iter"
	"unicode/utf8"
	"unsafe"

	"github.com/rawbytedev/buffo/internal/common"
)

// Count returns the number of strings. A buffer too short to hold the
// count field reports 0.
func (b *Buffo) Count() uint32 {
	n, _ := common.ReadUint32(b.buf, 0)
	return n
}

// Entry returns the i-th index entry as stored.
func (b *Buffo) Entry(i uint32) (Entry, bool) {
	if i >= b.Count() {
		return Entry{}, false
	}
	off, n, ok := common.ReadEntry(b.buf, common.EntryPos(i))
	if !ok {
		return Entry{}, false
	}
	return Entry{Offset: off, Length: n}, true
}

// NthBytes returns the bytes of the i-th string without the terminator and
// without UTF-8 validation. The slice aliases b and must not be modified.
func (b *Buffo) NthBytes(i uint32) ([]byte, bool) {
	e, ok := b.Entry(i)
	if !ok || e.Length == 0 {
		return nil, false
	}
	// the whole entry, terminator included, must lie inside the buffer
	start := common.DataStart(b.Count()) + uint64(e.Offset)
	datum, ok := common.Slice(b.buf, start, uint64(e.Length))
	if !ok {
		return nil, false
	}
	return datum[:len(datum)-1], true
}

// NthStr returns the i-th string. It reports false when i is out of range
// or when the stored bytes do not form a valid UTF-8 string; the two cases
// are not distinguished.
func (b *Buffo) NthStr(i uint32) (string, bool) {
	datum, ok := b.NthBytes(i)
	if !ok || !utf8.Valid(datum) {
		return "", false
	}
	return b.str(datum), true
}

func (b *Buffo) str(datum []byte) string {
	if b.Opts.UnsafeStrings && len(datum) > 0 {
		return unsafe.String(&datum[0], len(datum))
	}
	return string(datum)
}

// All returns an iterator over every string in order. Each call starts a
// fresh pass. An element that cannot be decoded is fatal for the pass and
// panics with an error wrapping ErrMalformed; use Strings for input that
// did not come from an Encoder.
func (b *Buffo) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		n := b.Count()
		for i := uint32(0); i < n; i++ {
			s, ok := b.NthStr(i)
			if !ok {
				panic(fmt.Errorf("%w: element %d of %d", ErrMalformed, i, n))
			}
			if !yield(s) {
				return
			}
		}
	}
}

// Strings decodes every string, reporting ErrMalformed instead of
// panicking when an element cannot be decoded.
func (b *Buffo) Strings() ([]string, error) {
	n := b.Count()
	if common.DataStart(n) > uint64(len(b.buf)) {
		return nil, fmt.Errorf("%w: index table for %d entries exceeds %d bytes", ErrMalformed, n, len(b.buf))
	}
	out := make([]string, 0, n)
	for i := uint32(0); i < n; i++ {
		s, ok := b.NthStr(i)
		if !ok {
			return nil, fmt.Errorf("%w: element %d of %d", ErrMalformed, i, n)
		}
		out = append(out, s)
	}
	return out, nil
}
