package vesi

import (
	"fmt"
	"io"
	"os"

	securejoin "github.com/cyphar/filepath-securejoin"

	"github.com/vesi-vcs/vesi/plumbing"
	"github.com/vesi-vcs/vesi/plumbing/filemode"
	"github.com/vesi-vcs/vesi/plumbing/object"
)

// Checkout materializes treeHash's contents into dest, an existing
// empty directory, recursively: blobs become regular or executable
// files, subtrees become directories, symlink entries become
// symlinks. It never touches HEAD or the index; the caller decides
// what, if anything, a checkout means for either.
func (r *Repository) Checkout(treeHash plumbing.Hash, dest string) error {
	entries, err := os.ReadDir(dest)
	if err != nil {
		return err
	}
	if len(entries) != 0 {
		return fmt.Errorf("%w: %s", plumbing.ErrDestinationNotEmpty, dest)
	}

	return r.checkoutTree(treeHash, dest)
}

func (r *Repository) checkoutTree(treeHash plumbing.Hash, dir string) error {
	tree, err := object.GetTree(r.Storage, treeHash)
	if err != nil {
		return err
	}

	for _, e := range tree.Entries {
		path, err := securejoin.SecureJoin(dir, e.Name)
		if err != nil {
			return err
		}

		if e.Mode == filemode.Dir {
			if err := os.Mkdir(path, 0o755); err != nil {
				return err
			}
			if err := r.checkoutTree(e.Hash, path); err != nil {
				return err
			}
			continue
		}

		content, err := r.readBlob(e.Hash)
		if err != nil {
			return err
		}

		if e.Mode == filemode.Symlink {
			if err := os.Symlink(string(content), path); err != nil {
				return err
			}
			continue
		}

		perm, err := e.Mode.ToOSFileMode()
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, content, perm); err != nil {
			return err
		}
	}

	return nil
}

func (r *Repository) readBlob(h plumbing.Hash) ([]byte, error) {
	blob, err := object.GetBlob(r.Storage, h)
	if err != nil {
		return nil, err
	}

	rc, err := blob.Reader()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return io.ReadAll(rc)
}
