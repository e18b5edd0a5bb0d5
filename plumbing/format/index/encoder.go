package index

import (
	"crypto/sha1"
	"encoding/binary"
	"hash"
	"io"
)

// An Encoder writes a version-2 index, computing the trailer hash as
// it goes.
type Encoder struct {
	w    io.Writer
	hash hash.Hash
	mw   io.Writer
}

// NewEncoder returns an Encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	h := sha1.New()
	return &Encoder{w: w, hash: h, mw: io.MultiWriter(w, h)}
}

// Encode serializes idx to the Encoder's stream: magic, version, entry
// count, each entry (sorted by name then stage), and the trailer hash.
func (e *Encoder) Encode(idx *Index) error {
	if _, err := e.mw.Write([]byte(indexSignature)); err != nil {
		return err
	}

	if err := e.writeUint32(Version2); err != nil {
		return err
	}

	if err := e.writeUint32(uint32(len(idx.Entries))); err != nil {
		return err
	}

	entries := make([]Entry, len(idx.Entries))
	copy(entries, idx.Entries)
	Sort(entries)

	for _, entry := range entries {
		if err := e.encodeEntry(entry); err != nil {
			return err
		}
	}

	sum := e.hash.Sum(nil)
	_, err := e.w.Write(sum)
	return err
}

func (e *Encoder) writeUint32(v uint32) error {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	_, err := e.mw.Write(b[:])
	return err
}

func (e *Encoder) writeUint16(v uint16) error {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	_, err := e.mw.Write(b[:])
	return err
}

func (e *Encoder) encodeEntry(entry Entry) error {
	var fixed [entryHeaderLength]byte

	binary.BigEndian.PutUint32(fixed[0:4], uint32(entry.CreatedAt.Unix()))
	binary.BigEndian.PutUint32(fixed[4:8], uint32(entry.CreatedAt.Nanosecond()))
	binary.BigEndian.PutUint32(fixed[8:12], uint32(entry.ModifiedAt.Unix()))
	binary.BigEndian.PutUint32(fixed[12:16], uint32(entry.ModifiedAt.Nanosecond()))
	binary.BigEndian.PutUint32(fixed[16:20], entry.Dev)
	binary.BigEndian.PutUint32(fixed[20:24], entry.Inode)
	binary.BigEndian.PutUint32(fixed[24:28], uint32(entry.Mode))
	binary.BigEndian.PutUint32(fixed[28:32], entry.UID)
	binary.BigEndian.PutUint32(fixed[32:36], entry.GID)
	binary.BigEndian.PutUint32(fixed[36:40], entry.Size)
	copy(fixed[40:60], entry.Hash[:])

	nameLen := len(entry.Name)
	encodedLen := nameLen
	if encodedLen > nameTooLong {
		encodedLen = nameTooLong
	}

	flags := uint16(encodedLen) & entryNameMask
	flags |= uint16(entry.Stage&0x3) << 12
	if entry.AssumeValid {
		flags |= entryValidMask
	}
	binary.BigEndian.PutUint16(fixed[60:62], flags)

	if _, err := e.mw.Write(fixed[:]); err != nil {
		return err
	}

	if _, err := e.mw.Write([]byte(entry.Name)); err != nil {
		return err
	}

	written := entryHeaderLength + nameLen
	pad := 8 - (written % 8)
	_, err := e.mw.Write(make([]byte, pad))
	return err
}
