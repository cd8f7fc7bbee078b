package buffo

import (
	"fmt"
	"iter"
	"unicode/utf8"

	"github.com/rawbytedev/buffo/internal/common"
)

// Encoder builds containers. Its scratch buffers are reused between calls;
// every returned Buffo owns a freshly allocated buffer. An Encoder is not
// safe for concurrent use.
type Encoder struct {
	index []byte
	data  []byte
	lim   limits
}

// limits exist so tests can exercise the capacity checks without
// allocating gigabytes. The zero value means the format limits.
type limits struct {
	count  uint64
	strLen uint64
	offset uint64
}

func (l limits) orDefault() limits {
	if l.count == 0 {
		l.count = common.MaxCount
	}
	if l.strLen == 0 {
		l.strLen = common.MaxStringLen
	}
	if l.offset == 0 {
		l.offset = common.MaxOffset
	}
	return l
}

// StrArray encodes every string yielded by seq, in order.
func StrArray[S ~string](seq iter.Seq[S]) (*Buffo, error) {
	var e Encoder
	return e.Encode(func(yield func(string) bool) {
		for s := range seq {
			if !yield(string(s)) {
				return
			}
		}
	})
}

// FromStrings encodes strs.
func FromStrings[S ~string](strs []S) (*Buffo, error) {
	var e Encoder
	return e.Encode(func(yield func(string) bool) {
		for _, s := range strs {
			if !yield(string(s)) {
				return
			}
		}
	})
}

// MustStrArray is like StrArray but panics when the input exceeds the
// format's capacity.
func MustStrArray[S ~string](seq iter.Seq[S]) *Buffo {
	b, err := StrArray(seq)
	if err != nil {
		panic(err)
	}
	return b
}

// MustFromStrings is like FromStrings but panics when the input exceeds
// the format's capacity.
func MustFromStrings[S ~string](strs []S) *Buffo {
	b, err := FromStrings(strs)
	if err != nil {
		panic(err)
	}
	return b
}

func (e *Encoder) Reset() {
	e.index = e.index[:0]
	e.data = e.data[:0]
}

// Encode consumes seq once and builds the container. On error nothing is
// returned; a partially built container is never observable.
func (e *Encoder) Encode(seq iter.Seq[string]) (*Buffo, error) {
	e.Reset()
	defer e.Reset()
	lim := e.lim.orDefault()

	var count uint64
	for s := range seq {
		if count >= lim.count {
			return nil, fmt.Errorf("%w: more than %d", ErrTooManyStrings, lim.count)
		}
		off := uint64(len(e.data))
		if off > lim.offset {
			return nil, fmt.Errorf("%w: string %d starts at byte %d", ErrDataTooLarge, count, off)
		}
		if uint64(len(s)) > lim.strLen {
			return nil, fmt.Errorf("%w: string %d is %d bytes", ErrStringTooLong, count, len(s))
		}
		if !utf8.ValidString(s) {
			return nil, fmt.Errorf("%w: string %d", ErrInvalidUTF8, count)
		}
		e.data = append(e.data, s...)
		e.data = append(e.data, common.Delim)
		e.index = common.PutEntry(e.index, uint32(off), uint32(len(s)+1))
		count++
	}
	return &Buffo{buf: e.finish(uint32(count))}, nil
}

func (e *Encoder) finish(count uint32) []byte {
	out := make([]byte, 0, common.CountSize+len(e.index)+len(e.data))
	out = common.PutUint32(out, count)
	out = append(out, e.index...)
	out = append(out, e.data...)
	checkEntries(out, count, uint64(len(e.data)))
	return out
}

// checkEntries asserts that every entry written lies inside the blob.
func checkEntries(buf []byte, count uint32, blobSize uint64) {
	for i := uint32(0); i < count; i++ {
		off, n, _ := common.ReadEntry(buf, common.EntryPos(i))
		if uint64(off)+uint64(n) > blobSize {
			panic(fmt.Sprintf("buffo: entry %d (%d+%d) exceeds data blob of %d bytes", i, off, n, blobSize))
		}
	}
}
