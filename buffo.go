// Package buffo implements a compact binary container for an ordered array
// of UTF-8 strings with O(1) random access.
//
// Layout, little-endian, no padding:
//
//	[count: u32][count x (offset: u32, length: u32)][data blob]
//
// Each offset points into the data blob, each length counts the string
// bytes plus one NUL terminator.
package buffo

import (
	"errors"
	"fmt"
)

var (
	ErrTooManyStrings = errors.New("buffo: too many strings")
	ErrStringTooLong  = errors.New("buffo: string too long")
	ErrDataTooLarge   = errors.New("buffo: data blob too large")
	ErrInvalidUTF8    = errors.New("buffo: string is not valid UTF-8")
	ErrMalformed      = errors.New("buffo: malformed container")
)

type Options struct {
	UnsafeStrings bool // zero-copy strings via unsafe; caller must never mutate buf
}

// Buffo is an encoded string array. It is read-only once built, so any
// number of goroutines may read the same Buffo concurrently.
type Buffo struct {
	Opts Options
	buf  []byte
}

// Entry is one index table record.
type Entry struct {
	Offset uint32 // from the start of the data blob
	Length uint32 // includes the NUL terminator
}

// Wrap returns a Buffo reading directly from buf without copying it.
// buf is not validated; reads on a buffer that was not produced by an
// Encoder fail safely but may return wrong strings.
func Wrap(buf []byte, opts ...Options) *Buffo {
	b := &Buffo{buf: buf}
	if len(opts) > 0 {
		b.Opts = opts[0]
	}
	return b
}

// Bytes returns the encoded container. The slice is shared with b and
// must not be modified.
func (b *Buffo) Bytes() []byte {
	return b.buf
}

// Size returns the encoded size in bytes.
func (b *Buffo) Size() int {
	return len(b.buf)
}

func (b *Buffo) MarshalBinary() ([]byte, error) {
	out := make([]byte, len(b.buf))
	copy(out, b.buf)
	return out, nil
}

// UnmarshalBinary takes a private copy of data.
func (b *Buffo) UnmarshalBinary(data []byte) error {
	b.buf = make([]byte, len(data))
	copy(b.buf, data)
	return nil
}

func (b *Buffo) String() string {
	return fmt.Sprintf("buffo{count: %d, size: %d}", b.Count(), len(b.buf))
}
