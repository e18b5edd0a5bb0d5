// Package object implements the typed object model (blob, tree, commit,
// annotated tag) layered over the raw, framed bytes the object store
// deals in.
package object

import (
	"errors"
	"io"

	"github.com/vesi-vcs/vesi/plumbing"
)

// ErrUnsupportedObject is returned when decoding an EncodedObject whose
// Type() does not match the target.
var ErrUnsupportedObject = errors.New("unsupported object type")

// ErrEntryNotFound is returned by Tree.File / Tree.Entry when no entry
// matches.
var ErrEntryNotFound = errors.New("entry not found")

// Storer is the subset of the object store an object needs to decode
// itself and to be written back.
type Storer interface {
	EncodedObject(plumbing.ObjectType, plumbing.Hash) (plumbing.EncodedObject, error)
	SetEncodedObject(plumbing.EncodedObject) (plumbing.Hash, error)
}

// Object is any of the four object kinds.
type Object interface {
	ID() plumbing.Hash
	Type() plumbing.ObjectType
	Decode(plumbing.EncodedObject) error
}

// GetBlob, GetTree, GetCommit and GetTag each read and decode an object
// of the named type, failing with ErrUnsupportedObject if the stored
// object's framed header names a different type.

func GetBlob(s Storer, h plumbing.Hash) (*Blob, error) {
	o, err := s.EncodedObject(plumbing.BlobObject, h)
	if err != nil {
		return nil, err
	}
	b := &Blob{}
	return b, b.Decode(o)
}

func GetTree(s Storer, h plumbing.Hash) (*Tree, error) {
	o, err := s.EncodedObject(plumbing.TreeObject, h)
	if err != nil {
		return nil, err
	}
	t := &Tree{s: s}
	return t, t.Decode(o)
}

func GetCommit(s Storer, h plumbing.Hash) (*Commit, error) {
	o, err := s.EncodedObject(plumbing.CommitObject, h)
	if err != nil {
		return nil, err
	}
	c := &Commit{s: s}
	return c, c.Decode(o)
}

func GetTag(s Storer, h plumbing.Hash) (*Tag, error) {
	o, err := s.EncodedObject(plumbing.TagObject, h)
	if err != nil {
		return nil, err
	}
	t := &Tag{s: s}
	return t, t.Decode(o)
}

// writeEncoded builds a new plumbing.MemoryObject of type t holding
// content, writes it via s, and returns its hash.
func writeEncoded(s Storer, t plumbing.ObjectType, content []byte) (plumbing.Hash, error) {
	o := &plumbing.MemoryObject{}
	o.SetType(t)
	o.SetSize(int64(len(content)))

	w, err := o.Writer()
	if err != nil {
		return plumbing.ZeroHash, err
	}
	if _, err := w.Write(content); err != nil {
		return plumbing.ZeroHash, err
	}
	if err := w.Close(); err != nil {
		return plumbing.ZeroHash, err
	}

	return s.SetEncodedObject(o)
}

func readAll(o plumbing.EncodedObject) ([]byte, error) {
	r, err := o.Reader()
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
