// Package inspect describes, validates and dumps buffo containers. It sits
// outside the codec: the buffo package itself never logs or prints.
package inspect

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/rawbytedev/buffo"
	"github.com/rawbytedev/buffo/internal/common"
	"go.uber.org/zap"
)

var (
	ErrTruncated   = errors.New("inspect: container truncated")
	ErrGap         = errors.New("inspect: entries not contiguous")
	ErrTerminator  = errors.New("inspect: missing NUL terminator")
	ErrInvalidUTF8 = errors.New("inspect: invalid UTF-8")
	ErrTrailing    = errors.New("inspect: trailing bytes after last entry")
)

// Layout is the parsed structure of a container.
type Layout struct {
	Count     uint32
	IndexSize uint64
	DataStart uint64
	BlobSize  uint64
	Entries   []buffo.Entry
}

// Describe parses the header and index table of buf. Entries are reported
// as stored and are not checked against the blob.
func Describe(buf []byte) (Layout, error) {
	count, ok := common.ReadUint32(buf, 0)
	if !ok {
		return Layout{}, fmt.Errorf("%w: %d bytes, need %d for count", ErrTruncated, len(buf), common.CountSize)
	}
	start := common.DataStart(count)
	if start > uint64(len(buf)) {
		return Layout{}, fmt.Errorf("%w: index table for %d entries ends at %d, buffer is %d bytes",
			ErrTruncated, count, start, len(buf))
	}
	l := Layout{
		Count:     count,
		IndexSize: start - common.IndexBegin,
		DataStart: start,
		BlobSize:  uint64(len(buf)) - start,
		Entries:   make([]buffo.Entry, 0, count),
	}
	for i := uint32(0); i < count; i++ {
		off, n, _ := common.ReadEntry(buf, common.EntryPos(i))
		l.Entries = append(l.Entries, buffo.Entry{Offset: off, Length: n})
	}
	return l, nil
}

// Validate checks that buf is exactly what an Encoder would produce:
// entries back-to-back from offset 0, each NUL-terminated valid UTF-8, and
// no bytes after the last entry.
func Validate(buf []byte) error {
	err := validate(buf)
	if err != nil {
		Logger().Debug("container rejected", zap.Int("size", len(buf)), zap.Error(err))
	}
	return err
}

func validate(buf []byte) error {
	l, err := Describe(buf)
	if err != nil {
		return err
	}
	blob := buf[l.DataStart:]
	var next uint64
	for i, e := range l.Entries {
		if uint64(e.Offset) != next {
			return fmt.Errorf("%w: entry %d at offset %d, want %d", ErrGap, i, e.Offset, next)
		}
		if e.Length == 0 {
			return fmt.Errorf("%w: entry %d has zero length", ErrTerminator, i)
		}
		datum, ok := common.Slice(blob, uint64(e.Offset), uint64(e.Length))
		if !ok {
			return fmt.Errorf("%w: entry %d (%d+%d) exceeds blob of %d bytes", ErrTruncated, i, e.Offset, e.Length, l.BlobSize)
		}
		if datum[len(datum)-1] != common.Delim {
			return fmt.Errorf("%w: entry %d", ErrTerminator, i)
		}
		if !utf8.Valid(datum[:len(datum)-1]) {
			return fmt.Errorf("%w: entry %d", ErrInvalidUTF8, i)
		}
		next += uint64(e.Length)
	}
	if next != l.BlobSize {
		return fmt.Errorf("%w: %d bytes", ErrTrailing, l.BlobSize-next)
	}
	return nil
}

// Dump writes buf as hex, four bytes per line, prefixed by the offset.
func Dump(w io.Writer, buf []byte) error {
	var sb strings.Builder
	for i, x := range buf {
		if i%4 == 0 {
			fmt.Fprintf(&sb, "%08x: ", i)
		}
		fmt.Fprintf(&sb, "%02x", x)
		if i%4 == 3 || i == len(buf)-1 {
			sb.WriteByte('\n')
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
