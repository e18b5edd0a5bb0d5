package vesi

import (
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/vesi-vcs/vesi/plumbing"
	"github.com/vesi-vcs/vesi/plumbing/filemode"
	"github.com/vesi-vcs/vesi/plumbing/format/index"
)

// Add stages name: hashes the worktree file as a blob, writes it,
// captures its stat fields, and inserts (or replaces) its index
// entry.
func (r *Repository) Add(name string) (plumbing.Hash, error) {
	if err := validateEntryName(name); err != nil {
		return plumbing.ZeroHash, err
	}

	fi, err := r.Worktree.Lstat(name)
	if err != nil {
		return plumbing.ZeroHash, err
	}

	mode, err := filemode.NewFromOSFileMode(fi.Mode())
	if err != nil {
		return plumbing.ZeroHash, err
	}

	data, err := r.readWorktreeFile(name, mode)
	if err != nil {
		return plumbing.ZeroHash, err
	}

	blob := &plumbing.MemoryObject{}
	blob.SetType(plumbing.BlobObject)
	blob.Write(data)

	h, err := r.Storage.SetEncodedObject(blob)
	if err != nil {
		return plumbing.ZeroHash, err
	}

	idx, err := r.Storage.Index()
	if err != nil {
		return plumbing.ZeroHash, err
	}

	idx.Add(index.Entry{
		Name:       name,
		ModifiedAt: fi.ModTime(),
		Size:       uint32(fi.Size()),
		Mode:       mode,
		Hash:       h,
	})

	if err := r.Storage.SetIndex(idx); err != nil {
		return plumbing.ZeroHash, err
	}

	return h, nil
}

func (r *Repository) readWorktreeFile(name string, mode filemode.FileMode) ([]byte, error) {
	if mode == filemode.Symlink {
		target, err := r.Worktree.Readlink(name)
		if err != nil {
			return nil, err
		}
		return []byte(target), nil
	}

	f, err := r.Worktree.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(f)
}

// Remove deletes name's index entry (all stages); if fromWorktree is
// set, it also deletes the worktree file.
func (r *Repository) Remove(name string, fromWorktree bool) (*index.Entry, error) {
	idx, err := r.Storage.Index()
	if err != nil {
		return nil, err
	}

	removed, err := idx.Remove(name)
	if err != nil {
		return nil, err
	}

	if err := r.Storage.SetIndex(idx); err != nil {
		return nil, err
	}

	if fromWorktree {
		if err := r.Worktree.Remove(name); err != nil && !os.IsNotExist(err) {
			return nil, err
		}
	}

	return removed, nil
}

// validateEntryName enforces spec §4.5's constraints on an index
// entry name: relative, forward-slash separated, non-empty, no NUL,
// and never escaping the worktree via "..".
func validateEntryName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty entry name", plumbing.ErrInvalidPath)
	}
	if strings.HasPrefix(name, "/") {
		return fmt.Errorf("%w: %q begins with /", plumbing.ErrInvalidPath, name)
	}
	if strings.ContainsRune(name, 0) {
		return fmt.Errorf("%w: %q contains NUL", plumbing.ErrInvalidPath, name)
	}

	clean := path.Clean(name)
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("%w: %q escapes the worktree", plumbing.ErrInvalidPath, name)
	}

	return nil
}
