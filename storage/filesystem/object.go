//nolint:revive // ObjectStorage methods implement storer interfaces
package filesystem

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/klauspost/compress/zlib"

	"github.com/vesi-vcs/vesi/plumbing"
	"github.com/vesi-vcs/vesi/plumbing/cache"
	"github.com/vesi-vcs/vesi/storage/filesystem/dotgit"
)

// ObjectStorage is a loose-object-only object store: every object
// lives as a single zlib-compressed, framed file under objects/. Reads
// pass through an in-memory LRU so a tree walked repeatedly (status,
// checkout) doesn't re-inflate the same blob or tree each time.
type ObjectStorage struct {
	dir   *dotgit.DotGit
	cache cache.Object
}

// NewObjectStorage returns an ObjectStorage rooted at dir, with a
// default-sized object cache in front of it.
func NewObjectStorage(dir *dotgit.DotGit) *ObjectStorage {
	return &ObjectStorage{dir: dir, cache: cache.NewObjectLRUDefault()}
}

// EncodedObject reads and decompresses the loose object file for h,
// verifying its framed header against want (unless want is
// plumbing.AnyObject). A cache hit skips the read entirely but still
// enforces the type check.
func (s *ObjectStorage) EncodedObject(want plumbing.ObjectType, h plumbing.Hash) (plumbing.EncodedObject, error) {
	if o, ok := s.cache.Get(h); ok {
		if want != plumbing.AnyObject && want != o.Type() {
			return nil, fmt.Errorf("%w: expected %s, got %s", plumbing.ErrTypeMismatch, want, o.Type())
		}
		return o, nil
	}

	f, err := s.dir.Object(h)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, plumbing.ErrObjectNotFound
		}
		return nil, err
	}
	defer f.Close()

	zr, err := zlib.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", plumbing.ErrMalformedObject, err)
	}
	defer zr.Close()

	br := bufio.NewReader(zr)
	typ, size, err := readFrameHeader(br)
	if err != nil {
		return nil, err
	}

	content := make([]byte, size)
	if _, err := io.ReadFull(br, content); err != nil {
		return nil, fmt.Errorf("%w: %v", plumbing.ErrMalformedObject, err)
	}

	o := &plumbing.MemoryObject{}
	o.SetType(typ)
	o.Write(content)

	s.cache.Add(o)

	if want != plumbing.AnyObject && want != typ {
		return nil, fmt.Errorf("%w: expected %s, got %s", plumbing.ErrTypeMismatch, want, typ)
	}

	return o, nil
}

// readFrameHeader parses "{type} {size}\x00" from the front of a
// decompressed object stream.
func readFrameHeader(r *bufio.Reader) (plumbing.ObjectType, int64, error) {
	typeTag, err := r.ReadString(' ')
	if err != nil {
		return plumbing.InvalidObject, 0, fmt.Errorf("%w: %v", plumbing.ErrMalformedObject, err)
	}
	typeTag = typeTag[:len(typeTag)-1]

	sizeTag, err := r.ReadString(0)
	if err != nil {
		return plumbing.InvalidObject, 0, fmt.Errorf("%w: %v", plumbing.ErrMalformedObject, err)
	}
	sizeTag = sizeTag[:len(sizeTag)-1]

	typ, err := plumbing.ParseObjectType(typeTag)
	if err != nil {
		return plumbing.InvalidObject, 0, fmt.Errorf("%w: %v", plumbing.ErrMalformedObject, err)
	}

	size, err := strconv.ParseInt(sizeTag, 10, 64)
	if err != nil {
		return plumbing.InvalidObject, 0, fmt.Errorf("%w: %v", plumbing.ErrMalformedObject, err)
	}

	return typ, size, nil
}

// HasEncodedObject reports whether a loose object file exists for h.
func (s *ObjectStorage) HasEncodedObject(h plumbing.Hash) error {
	if s.dir.HasObject(h) {
		return nil
	}
	return plumbing.ErrObjectNotFound
}

// SetEncodedObject hashes and writes o as a compressed, framed loose
// object, returning its identity. Writing an already-present object
// leaves its file untouched (the temp file is written regardless, but
// CommitObject discards it without a rename once the destination is
// found to already exist).
func (s *ObjectStorage) SetEncodedObject(o plumbing.EncodedObject) (plumbing.Hash, error) {
	if !o.Type().Valid() {
		return plumbing.ZeroHash, plumbing.ErrMalformedObject
	}

	tmp, err := s.dir.NewObjectTemp()
	if err != nil {
		return plumbing.ZeroHash, err
	}

	zw := zlib.NewWriter(tmp)
	hasher := plumbing.NewHasher(o.Type(), o.Size())

	header := o.Type().Bytes()
	header = append(header, ' ')
	header = append(header, []byte(strconv.FormatInt(o.Size(), 10))...)
	header = append(header, 0)

	if _, err := zw.Write(header); err != nil {
		tmp.Close()
		return plumbing.ZeroHash, err
	}

	r, err := o.Reader()
	if err != nil {
		tmp.Close()
		return plumbing.ZeroHash, err
	}
	defer r.Close()

	mw := io.MultiWriter(zw, hasher)
	if _, err := io.Copy(mw, r); err != nil {
		tmp.Close()
		return plumbing.ZeroHash, err
	}

	if err := zw.Close(); err != nil {
		tmp.Close()
		return plumbing.ZeroHash, err
	}

	if err := tmp.Close(); err != nil {
		return plumbing.ZeroHash, err
	}

	h := hasher.Sum()
	if err := s.dir.CommitObject(tmp.Name(), h); err != nil {
		return plumbing.ZeroHash, err
	}

	return h, nil
}

// ObjectsWithPrefix enumerates the hashes of every loose object whose
// hex string begins with prefix, used by short-hash resolution.
func (s *ObjectStorage) ObjectsWithPrefix(prefix string) ([]plumbing.Hash, error) {
	return s.dir.ObjectsWithPrefix(prefix)
}
