package filesystem

import (
	"github.com/vesi-vcs/vesi/plumbing"
	"github.com/vesi-vcs/vesi/storage/filesystem/dotgit"
)

// ReferenceStorage stores each reference as a loose file; this core
// never writes packed-refs. Per DESIGN.md's Open Question (c),
// refs/remotes/ is read here but this store's callers never target it
// with SetReference.
type ReferenceStorage struct {
	dir *dotgit.DotGit
}

// NewReferenceStorage returns a ReferenceStorage rooted at dir.
func NewReferenceStorage(dir *dotgit.DotGit) *ReferenceStorage {
	return &ReferenceStorage{dir: dir}
}

// SetReference writes ref to its loose file.
func (r *ReferenceStorage) SetReference(ref *plumbing.Reference) error {
	return r.dir.SetRef(ref)
}

// Reference reads a single reference by name, without resolving
// symbolic targets.
func (r *ReferenceStorage) Reference(name plumbing.ReferenceName) (*plumbing.Reference, error) {
	return r.dir.ReadRef(name)
}

// RemoveReference deletes a reference's loose file. Removing a
// reference that does not exist is not an error.
func (r *ReferenceStorage) RemoveReference(name plumbing.ReferenceName) error {
	return r.dir.RemoveRef(name)
}

// IterReferences returns every reference under refs/ plus HEAD.
func (r *ReferenceStorage) IterReferences() ([]*plumbing.Reference, error) {
	return r.dir.Refs()
}
