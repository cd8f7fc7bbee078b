package inspect

import (
	"bytes"
	"encoding/binary"
	"testing"
	"testing/quick"

	"github.com/rawbytedev/buffo"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func container(count uint32, entries []uint32, blob string) []byte {
	b := binary.LittleEndian.AppendUint32(nil, count)
	for _, x := range entries {
		b = binary.LittleEndian.AppendUint32(b, x)
	}
	return append(b, blob...)
}

func TestDescribe(t *testing.T) {
	enc := buffo.MustFromStrings([]string{"Foo", "Bar", "Hello world"})
	l, err := Describe(enc.Bytes())
	require.NoError(t, err)
	require.Equal(t, uint32(3), l.Count)
	require.Equal(t, uint64(24), l.IndexSize)
	require.Equal(t, uint64(28), l.DataStart)
	require.Equal(t, uint64(20), l.BlobSize)
	require.Equal(t, []buffo.Entry{{Offset: 0, Length: 4}, {Offset: 4, Length: 4}, {Offset: 8, Length: 12}}, l.Entries)
}

func TestDescribeTruncated(t *testing.T) {
	_, err := Describe([]byte{1})
	require.ErrorIs(t, err, ErrTruncated)
	_, err = Describe(container(2, []uint32{0, 1}, ""))
	require.ErrorIs(t, err, ErrTruncated)
	_, err = Describe(container(0xffffffff, nil, ""))
	require.ErrorIs(t, err, ErrTruncated)
}

func TestValidateEncoded(t *testing.T) {
	condition := func(strs []string) bool {
		return Validate(buffo.MustFromStrings(strs).Bytes()) == nil
	}
	require.NoError(t, quick.Check(condition, &quick.Config{}))
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name string
		buf  []byte
		want error
	}{
		{"short", []byte{0, 0}, ErrTruncated},
		{"gap", container(2, []uint32{0, 2, 3, 2}, "a\x00\x00b\x00"), ErrGap},
		{"overlap", container(2, []uint32{0, 2, 0, 2}, "a\x00"), ErrGap},
		{"zero length", container(1, []uint32{0, 0}, ""), ErrTerminator},
		{"no terminator", container(1, []uint32{0, 2}, "ab"), ErrTerminator},
		{"past blob", container(1, []uint32{0, 9}, "ab\x00"), ErrTruncated},
		{"invalid utf8", container(1, []uint32{0, 3}, "\xff\xfe\x00"), ErrInvalidUTF8},
		{"trailing", container(1, []uint32{0, 2}, "a\x00zz"), ErrTrailing},
		{"trailing empty", container(0, nil, "x"), ErrTrailing},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.ErrorIs(t, Validate(tc.buf), tc.want)
		})
	}
}

func TestValidateLogs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	defer SetLogger(zap.NewNop())

	require.NoError(t, Validate(buffo.MustFromStrings([]string{"ok"}).Bytes()))
	require.Equal(t, 0, logs.Len())

	require.Error(t, Validate([]byte{1}))
	entries := logs.FilterMessage("container rejected").All()
	require.Len(t, entries, 1)
	require.Equal(t, int64(1), entries[0].ContextMap()["size"])
}

func TestDump(t *testing.T) {
	var out bytes.Buffer
	enc := buffo.MustFromStrings([]string{"Foo"})
	require.NoError(t, Dump(&out, enc.Bytes()))
	want := "00000000: 01000000\n" +
		"00000004: 00000000\n" +
		"00000008: 04000000\n" +
		"0000000c: 466f6f00\n"
	require.Equal(t, want, out.String())

	out.Reset()
	require.NoError(t, Dump(&out, []byte{0xab, 0xcd}))
	require.Equal(t, "00000000: abcd\n", out.String())

	out.Reset()
	require.NoError(t, Dump(&out, nil))
	require.Empty(t, out.String())
}
