// Package index implements the git staging file: a sorted list of
// entries, each carrying full filesystem stat metadata plus a blob
// hash, framed by a "DIRC" header and trailed by a SHA-1 checksum.
package index

import (
	"errors"
	"path"
	"sort"
	"time"

	"github.com/vesi-vcs/vesi/plumbing"
	"github.com/vesi-vcs/vesi/plumbing/filemode"
)

// Sort orders entries ascending by name then by stage, the index
// file's on-disk ordering.
func Sort(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Name != entries[j].Name {
			return entries[i].Name < entries[j].Name
		}
		return entries[i].Stage < entries[j].Stage
	})
}

func matchGlob(pattern, name string) (bool, error) {
	return path.Match(pattern, name)
}

var (
	// ErrMalformedIndex covers a bad magic, unsupported version, an
	// ordering violation, or a trailer hash mismatch.
	ErrMalformedIndex = errors.New("malformed index")
	// ErrUnsupportedVersion is returned for any version other than 2;
	// this core only ever writes version 2 and rejects v3+ extensions
	// on read.
	ErrUnsupportedVersion = errors.New("unsupported index version")
	// ErrEntryNotFound is returned by Entry / Remove when no entry
	// matches the given name.
	ErrEntryNotFound = errors.New("entry not found")
	// ErrInvalidPath is returned when an entry's name fails the path
	// constraints (non-empty, relative, no NUL, no "..").
	ErrInvalidPath = errors.New("invalid path")
)

// Stage distinguishes an unmerged entry's side during a conflict; 0
// means the path is not in conflict.
type Stage int

const (
	Merged Stage = 0
	// AncestorMode, OurMode and TheirMode name the common ancestor,
	// "ours" and "theirs" sides of an unmerged path.
	AncestorMode Stage = 1
	OurMode      Stage = 2
	TheirMode    Stage = 3
)

// Version2 is the only on-disk index format version this core produces
// or accepts.
const Version2 uint32 = 2

// Entry is one staged path.
type Entry struct {
	Name string

	CreatedAt  time.Time
	ModifiedAt time.Time

	Dev, Inode, UID, GID uint32
	Size                 uint32

	Mode filemode.FileMode
	Hash plumbing.Hash

	Stage       Stage
	AssumeValid bool
}

// Index is the in-memory staging list.
type Index struct {
	Version uint32
	Entries []Entry

	byName map[string]map[Stage]*Entry
}

// NewIndex returns an empty, version-2 Index.
func NewIndex() *Index {
	return &Index{Version: Version2}
}

func (idx *Index) buildIndex() {
	if idx.byName != nil {
		return
	}
	idx.byName = make(map[string]map[Stage]*Entry)
	for i := range idx.Entries {
		e := &idx.Entries[i]
		m, ok := idx.byName[e.Name]
		if !ok {
			m = make(map[Stage]*Entry)
			idx.byName[e.Name] = m
		}
		m[e.Stage] = e
	}
}

func (idx *Index) invalidate() {
	idx.byName = nil
}

// Entry returns the merged-stage entry for name.
func (idx *Index) Entry(name string) (*Entry, error) {
	idx.buildIndex()
	m, ok := idx.byName[name]
	if !ok {
		return nil, ErrEntryNotFound
	}
	if e, ok := m[Merged]; ok {
		return e, nil
	}
	return nil, ErrEntryNotFound
}

// Add inserts entry into the index, replacing any existing entry at
// the same (name, stage), and keeps the entry list sorted.
func (idx *Index) Add(entry Entry) {
	for i := range idx.Entries {
		if idx.Entries[i].Name == entry.Name && idx.Entries[i].Stage == entry.Stage {
			idx.Entries[i] = entry
			idx.invalidate()
			Sort(idx.Entries)
			return
		}
	}

	idx.Entries = append(idx.Entries, entry)
	idx.invalidate()
	Sort(idx.Entries)
}

// Remove deletes every entry named name (all stages) and returns the
// merged-stage entry that was removed, if any.
func (idx *Index) Remove(name string) (*Entry, error) {
	var removed *Entry
	out := idx.Entries[:0]
	for i := range idx.Entries {
		e := idx.Entries[i]
		if e.Name == name {
			if e.Stage == Merged {
				cp := e
				removed = &cp
			}
			continue
		}
		out = append(out, e)
	}
	idx.Entries = out
	idx.invalidate()

	if removed == nil {
		return nil, ErrEntryNotFound
	}
	return removed, nil
}

// Glob returns every entry whose name matches the shell pattern.
func (idx *Index) Glob(pattern string) ([]*Entry, error) {
	var out []*Entry
	for i := range idx.Entries {
		ok, err := matchGlob(pattern, idx.Entries[i].Name)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, &idx.Entries[i])
		}
	}
	return out, nil
}

// ValidatePath checks name against the path constraints imposed on
// index entries: non-empty, relative, no NUL byte, no ".." component.
func ValidatePath(name string) error {
	if name == "" {
		return ErrInvalidPath
	}
	if name[0] == '/' {
		return ErrInvalidPath
	}
	for i := 0; i < len(name); i++ {
		if name[i] == 0 {
			return ErrInvalidPath
		}
	}
	for _, part := range splitPath(name) {
		if part == ".." {
			return ErrInvalidPath
		}
	}
	return nil
}

func splitPath(name string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(name); i++ {
		if i == len(name) || name[i] == '/' {
			out = append(out, name[start:i])
			start = i + 1
		}
	}
	return out
}
