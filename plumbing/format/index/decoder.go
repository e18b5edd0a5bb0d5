package index

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"encoding/binary"
	"errors"
	"fmt"
	"hash"
	"io"
	"time"

	"github.com/vesi-vcs/vesi/plumbing/filemode"
)

const (
	indexSignature = "DIRC"

	// entryHeaderLength is the size, in bytes, of an entry's fixed
	// fields (everything before the NUL-terminated name).
	entryHeaderLength = 62

	entryExtendedMask = 0x4000
	entryValidMask    = 0x8000
	entryStageMask    = 0x3000
	entryNameMask     = 0x0fff
	nameTooLong       = 0x0fff
)

// A Decoder reads and parses a version-2 index from an input stream.
type Decoder struct {
	r    *bufio.Reader
	hash hash.Hash
	tee  io.Reader
}

// NewDecoder returns a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	h := sha1.New()
	tee := io.TeeReader(r, h)
	return &Decoder{r: bufio.NewReader(tee), hash: h, tee: tee}
}

// Decode reads the full index from the Decoder's stream into idx.
func (d *Decoder) Decode(idx *Index) error {
	data, err := io.ReadAll(d.r)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedIndex, err)
	}
	if len(data) < sha1.Size {
		return fmt.Errorf("%w: missing trailer", ErrMalformedIndex)
	}
	body, trailer := data[:len(data)-sha1.Size], data[len(data)-sha1.Size:]
	d.hash.Reset()
	d.hash.Write(body)
	d.r = bufio.NewReader(bytes.NewReader(body))

	var magic [4]byte
	if _, err := io.ReadFull(d.r, magic[:]); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedIndex, err)
	}
	if string(magic[:]) != indexSignature {
		return fmt.Errorf("%w: bad signature", ErrMalformedIndex)
	}

	version, err := readUint32(d.r)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedIndex, err)
	}
	if version != Version2 {
		return fmt.Errorf("%w: %w: version %d", ErrMalformedIndex, ErrUnsupportedVersion, version)
	}
	idx.Version = version

	count, err := readUint32(d.r)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedIndex, err)
	}

	entries := make([]Entry, 0, count)
	var prev *Entry
	for i := uint32(0); i < count; i++ {
		e, err := d.readEntry()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedIndex, err)
		}
		if prev != nil && !lessOrEqual(*prev, e) {
			return fmt.Errorf("%w: entries out of order", ErrMalformedIndex)
		}
		entries = append(entries, e)
		prev = &entries[len(entries)-1]
	}

	idx.Entries = entries

	// Any remaining bytes before the trailer are optional extensions;
	// this core does not understand any of them and skips them
	// verbatim.
	if err := d.skipExtensions(); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedIndex, err)
	}

	if !bytesEqual(d.hash.Sum(nil), trailer) {
		return fmt.Errorf("%w: trailer hash mismatch", ErrMalformedIndex)
	}

	return nil
}

// skipExtensions reads and discards any index extension blocks, each
// framed as a 4-byte signature, a 4-byte big-endian length, and that
// many bytes of payload. It stops as soon as it cannot peek a further
// full extension header or the next four bytes are not an extension
// signature.
func (d *Decoder) skipExtensions() error {
	for {
		peek, err := d.r.Peek(8)
		if err != nil {
			// Not enough bytes left for another extension header.
			return nil
		}

		sig := peek[:4]
		if !isExtensionSignature(sig) {
			return nil
		}

		if _, err := d.r.Discard(8); err != nil {
			return err
		}

		length := binary.BigEndian.Uint32(peek[4:8])
		if _, err := io.CopyN(io.Discard, d.r, int64(length)); err != nil {
			return err
		}
	}
}

func isExtensionSignature(sig []byte) bool {
	for _, b := range sig {
		if b < 'A' || b > 'Z' {
			return false
		}
	}
	return true
}

func (d *Decoder) readEntry() (Entry, error) {
	var e Entry

	var fixed [entryHeaderLength]byte
	if _, err := io.ReadFull(d.r, fixed[:]); err != nil {
		return e, err
	}

	ctimeSec := binary.BigEndian.Uint32(fixed[0:4])
	ctimeNano := binary.BigEndian.Uint32(fixed[4:8])
	mtimeSec := binary.BigEndian.Uint32(fixed[8:12])
	mtimeNano := binary.BigEndian.Uint32(fixed[12:16])
	e.Dev = binary.BigEndian.Uint32(fixed[16:20])
	e.Inode = binary.BigEndian.Uint32(fixed[20:24])
	mode := binary.BigEndian.Uint32(fixed[24:28])
	e.UID = binary.BigEndian.Uint32(fixed[28:32])
	e.GID = binary.BigEndian.Uint32(fixed[32:36])
	e.Size = binary.BigEndian.Uint32(fixed[36:40])
	copy(e.Hash[:], fixed[40:60])
	flags := binary.BigEndian.Uint16(fixed[60:62])

	e.CreatedAt = time.Unix(int64(ctimeSec), int64(ctimeNano))
	e.ModifiedAt = time.Unix(int64(mtimeSec), int64(mtimeNano))
	e.Mode = filemode.FileMode(mode)

	if flags&entryExtendedMask != 0 {
		return e, errors.New("index v3+ extended flag not supported")
	}

	e.AssumeValid = flags&entryValidMask != 0
	e.Stage = Stage((flags & entryStageMask) >> 12)
	nameLen := int(flags & entryNameMask)

	name, err := d.readName(nameLen)
	if err != nil {
		return e, err
	}
	e.Name = name

	// readName already consumed the name's terminating NUL; the
	// remaining padding is the rest of the 1-8 NULs that align the
	// entry to a multiple of 8, one of which was that terminator.
	if err := d.discardPadding(entryHeaderLength + len(name)); err != nil {
		return e, err
	}

	return e, nil
}

// readName reads the NUL-terminated entry name. When nameLen equals
// the sentinel 0xFFF the name is longer than can be encoded in 12
// bits and is simply read until the NUL.
func (d *Decoder) readName(nameLen int) (string, error) {
	if nameLen < nameTooLong {
		buf := make([]byte, nameLen)
		if _, err := io.ReadFull(d.r, buf); err != nil {
			return "", err
		}
		if b, err := d.r.ReadByte(); err != nil || b != 0 {
			return "", fmt.Errorf("expected NUL after entry name")
		}
		return string(buf), nil
	}

	s, err := d.r.ReadString(0)
	if err != nil {
		return "", err
	}
	return s[:len(s)-1], nil
}

// discardPadding reads the NUL padding bytes that align the entry to a
// multiple of 8 from its start, not counting the name's terminating
// NUL that readName already consumed. The total padding (terminator
// included) is never zero: when the entry already lands on a multiple
// of 8, a full 8 NULs follow.
func (d *Decoder) discardPadding(entrySize int) error {
	pad := 8 - (entrySize % 8) - 1
	_, err := io.CopyN(io.Discard, d.r, int64(pad))
	return err
}

func readUint32(r io.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b[:]), nil
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func lessOrEqual(prev, cur Entry) bool {
	if prev.Name != cur.Name {
		return prev.Name < cur.Name
	}
	return prev.Stage <= cur.Stage
}
