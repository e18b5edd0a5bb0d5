package index

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestDecoder_readEntryConsumesExactGitAlignedBytes builds a single
// entry's bytes by hand, the way real git would lay them out (fixed
// 62-byte header, name, then 1-8 NUL bytes whose first byte is the
// name's own terminator), with a sentinel byte immediately after.
// readEntry must stop exactly at the sentinel.
func TestDecoder_readEntryConsumesExactGitAlignedBytes(t *testing.T) {
	name := "hello.txt" // len 9: (62+9) %8 == 7, a single pad byte

	var buf bytes.Buffer
	buf.Write(make([]byte, entryHeaderLength))
	buf.WriteString(name)
	buf.WriteByte(0) // name terminator, also the entry's sole pad byte
	buf.WriteByte(0xAB) // sentinel: start of whatever follows this entry

	h := sha1.New()
	d := &Decoder{r: bufio.NewReader(&buf), hash: h}

	e, err := d.readEntry()
	require.NoError(t, err)
	require.Equal(t, name, e.Name)

	next, err := d.r.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte(0xAB), next, "readEntry must not consume past its own padding")
}

func TestDecoder_readEntryConsumesFullEightBytePadWhenAligned(t *testing.T) {
	name := "ab" // len 2: (62+2)%8 == 0, a full 8-byte pad

	var buf bytes.Buffer
	buf.Write(make([]byte, entryHeaderLength))
	buf.WriteString(name)
	buf.Write(make([]byte, 8))
	buf.WriteByte(0xAB)

	h := sha1.New()
	d := &Decoder{r: bufio.NewReader(&buf), hash: h}

	e, err := d.readEntry()
	require.NoError(t, err)
	require.Equal(t, name, e.Name)

	next, err := d.r.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte(0xAB), next)
}
