package object

import (
	"io"

	"github.com/vesi-vcs/vesi/plumbing"
)

// Blob is opaque file content: a byte sequence with no further
// structure.
type Blob struct {
	Hash plumbing.Hash
	Size int64

	obj plumbing.EncodedObject
}

func (b *Blob) ID() plumbing.Hash            { return b.Hash }
func (b *Blob) Type() plumbing.ObjectType    { return plumbing.BlobObject }

// Decode loads b's fields from a raw EncodedObject. The object's
// content is not buffered; Reader() re-opens it on demand.
func (b *Blob) Decode(o plumbing.EncodedObject) error {
	if o.Type() != plumbing.BlobObject {
		return ErrUnsupportedObject
	}

	b.Hash = o.Hash()
	b.Size = o.Size()
	b.obj = o
	return nil
}

// Encode writes b's content into o, as a blob.
func (b *Blob) Encode(o plumbing.EncodedObject) error {
	o.SetType(plumbing.BlobObject)
	o.SetSize(b.Size)

	w, err := o.Writer()
	if err != nil {
		return err
	}
	defer w.Close()

	r, err := b.Reader()
	if err != nil {
		return err
	}
	defer r.Close()

	_, err = io.Copy(w, r)
	return err
}

// Reader returns a reader for b's content.
func (b *Blob) Reader() (io.ReadCloser, error) {
	return b.obj.Reader()
}

// NewBlob stores content as a new blob object and returns the decoded
// Blob.
func NewBlob(s Storer, content []byte) (*Blob, error) {
	o := &plumbing.MemoryObject{}
	o.SetType(plumbing.BlobObject)
	o.Write(content)

	h, err := s.SetEncodedObject(o)
	if err != nil {
		return nil, err
	}

	return GetBlob(s, h)
}
