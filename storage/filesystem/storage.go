// Package filesystem is the on-disk storage backend: every store
// (objects, references, index, config) reads and writes the
// repository's metadata directory directly, with no packfile layer.
package filesystem

import (
	"github.com/go-git/go-billy/v5"

	"github.com/vesi-vcs/vesi/plumbing/cache"
	"github.com/vesi-vcs/vesi/storage/filesystem/dotgit"
)

// Storage bundles the four on-disk stores rooted at a single
// metadata directory.
type Storage struct {
	fs  billy.Filesystem
	dir *dotgit.DotGit

	ObjectStorage
	ReferenceStorage
	IndexStorage
	ConfigStorage
}

// NewStorage returns a Storage rooted at fs, the repository's metadata
// directory (not the worktree).
func NewStorage(fs billy.Filesystem) *Storage {
	dir := dotgit.New(fs)

	return &Storage{
		fs:  fs,
		dir: dir,

		ObjectStorage:    ObjectStorage{dir: dir, cache: cache.NewObjectLRUDefault()},
		ReferenceStorage: ReferenceStorage{dir: dir},
		IndexStorage:     IndexStorage{dir: dir},
		ConfigStorage:    ConfigStorage{dir: dir},
	}
}

// Filesystem returns the underlying metadata-directory filesystem.
func (s *Storage) Filesystem() billy.Filesystem {
	return s.fs
}

// Init lays out a fresh metadata directory.
func (s *Storage) Init() error {
	return s.dir.Initialize()
}
