package object

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/vesi-vcs/vesi/plumbing"
	"github.com/vesi-vcs/vesi/plumbing/filemode"
)

// TreeEntry is one line of a tree object's payload: a mode, a name,
// and the hash of the object it names.
type TreeEntry struct {
	Name string
	Mode filemode.FileMode
	Hash plumbing.Hash
}

// Tree enumerates the direct children of a directory snapshot.
type Tree struct {
	Hash    plumbing.Hash
	Entries []TreeEntry

	s Storer
	m map[string]*TreeEntry
}

func (t *Tree) ID() plumbing.Hash         { return t.Hash }
func (t *Tree) Type() plumbing.ObjectType { return plumbing.TreeObject }

func (t *Tree) buildMap() {
	if t.m != nil {
		return
	}
	t.m = make(map[string]*TreeEntry, len(t.Entries))
	for i := range t.Entries {
		t.m[t.Entries[i].Name] = &t.Entries[i]
	}
}

// sortName is the canonical tree comparison key: subtree names compare
// as if suffixed with "/".
func sortName(name string, mode filemode.FileMode) string {
	if mode == filemode.Dir {
		return name + "/"
	}
	return name
}

// SortEntries sorts entries in canonical tree order in place.
func SortEntries(entries []TreeEntry) {
	sort.Slice(entries, func(i, j int) bool {
		return sortName(entries[i].Name, entries[i].Mode) < sortName(entries[j].Name, entries[j].Mode)
	})
}

// Decode parses o's payload into t's entries. o must be a tree object.
func (t *Tree) Decode(o plumbing.EncodedObject) error {
	if o.Type() != plumbing.TreeObject {
		return ErrUnsupportedObject
	}

	t.Hash = o.Hash()
	t.Entries = nil
	t.m = nil

	if o.Size() == 0 {
		return nil
	}

	r, err := o.Reader()
	if err != nil {
		return err
	}
	defer r.Close()

	br := bufio.NewReader(r)
	for {
		modeStr, err := br.ReadString(' ')
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		modeStr = modeStr[:len(modeStr)-1]

		fm, err := strconv.ParseUint(modeStr, 8, 32)
		if err != nil {
			return fmt.Errorf("malformed tree entry mode %q: %w", modeStr, err)
		}

		name, err := br.ReadString(0)
		if err != nil {
			return fmt.Errorf("malformed tree entry: %w", err)
		}
		name = name[:len(name)-1]

		var h plumbing.Hash
		if _, err := io.ReadFull(br, h[:]); err != nil {
			return fmt.Errorf("malformed tree entry hash: %w", err)
		}

		t.Entries = append(t.Entries, TreeEntry{
			Name: name,
			Mode: filemode.FileMode(fm),
			Hash: h,
		})
	}

	return nil
}

// Encode serializes t's entries, in canonical order, into o.
func (t *Tree) Encode(o plumbing.EncodedObject) error {
	content := EncodeTreeEntries(t.Entries)

	o.SetType(plumbing.TreeObject)
	o.SetSize(int64(len(content)))

	w, err := o.Writer()
	if err != nil {
		return err
	}
	defer w.Close()

	_, err = w.Write(content)
	return err
}

// EncodeTreeEntries serializes entries (sorted canonically) to the raw
// tree payload bytes.
func EncodeTreeEntries(entries []TreeEntry) []byte {
	sorted := make([]TreeEntry, len(entries))
	copy(sorted, entries)
	SortEntries(sorted)

	var buf bytes.Buffer
	for _, e := range sorted {
		fmt.Fprintf(&buf, "%s %s", strconv.FormatUint(uint64(e.Mode), 8), e.Name)
		buf.WriteByte(0)
		buf.Write(e.Hash[:])
	}
	return buf.Bytes()
}

// NewTree builds and stores a new tree object from entries.
func NewTree(s Storer, entries []TreeEntry) (*Tree, error) {
	h, err := writeEncoded(s, plumbing.TreeObject, EncodeTreeEntries(entries))
	if err != nil {
		return nil, err
	}
	return GetTree(s, h)
}

// Entry returns the direct child entry named name, or ErrEntryNotFound.
func (t *Tree) Entry(name string) (*TreeEntry, error) {
	t.buildMap()
	e, ok := t.m[name]
	if !ok {
		return nil, ErrEntryNotFound
	}
	return e, nil
}

// subtree resolves the direct child entry name as a Tree.
func (t *Tree) subtree(name string) (*Tree, error) {
	e, err := t.Entry(name)
	if err != nil {
		return nil, err
	}
	if e.Mode != filemode.Dir {
		return nil, ErrEntryNotFound
	}
	return GetTree(t.s, e.Hash)
}

// TreeEntryByPath resolves a slash-separated path, relative to t, to
// its (mode, hash). The final component need not be a subtree.
func (t *Tree) TreeEntryByPath(p string) (*TreeEntry, error) {
	parts := strings.Split(p, "/")

	cur := t
	for len(parts) > 1 {
		next, err := cur.subtree(parts[0])
		if err != nil {
			return nil, err
		}
		cur = next
		parts = parts[1:]
	}

	return cur.Entry(parts[0])
}

// File resolves path to a blob and returns a File wrapping it.
func (t *Tree) File(path string) (*File, error) {
	e, err := t.TreeEntryByPath(path)
	if err != nil {
		return nil, err
	}

	if e.Mode == filemode.Dir || e.Mode == filemode.Submodule {
		return nil, ErrEntryNotFound
	}

	blob, err := GetBlob(t.s, e.Hash)
	if err != nil {
		return nil, err
	}

	return &File{Name: path, Mode: e.Mode, Blob: *blob}, nil
}

// File wraps a Blob with the path it was resolved from and its mode.
type File struct {
	Name string
	Mode filemode.FileMode
	Blob
}

// Reader returns a reader for the file's content.
func (f *File) Reader() (io.ReadCloser, error) {
	return f.Blob.Reader()
}

// Walk calls fn for every entry reachable from t, depth-first,
// prefixing each name with dir (the path of t itself, "" for the
// root). Descending stops at a non-nil error from fn, which is then
// returned from Walk.
func (t *Tree) Walk(dir string, fn func(path string, entry TreeEntry) error) error {
	for _, e := range t.Entries {
		p := e.Name
		if dir != "" {
			p = dir + "/" + e.Name
		}

		if err := fn(p, e); err != nil {
			return err
		}

		if e.Mode == filemode.Dir {
			sub, err := GetTree(t.s, e.Hash)
			if err != nil {
				return err
			}
			if err := sub.Walk(p, fn); err != nil {
				return err
			}
		}
	}

	return nil
}

// Files returns a flattened path -> hash map of every non-tree entry
// (blob, symlink or submodule link) reachable from t.
func (t *Tree) Files() (map[string]plumbing.Hash, error) {
	out := make(map[string]plumbing.Hash)
	err := t.Walk("", func(path string, e TreeEntry) error {
		if e.Mode != filemode.Dir {
			out[path] = e.Hash
		}
		return nil
	})
	return out, err
}
