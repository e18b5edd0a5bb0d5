package vesi

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vesi-vcs/vesi/plumbing"
	"github.com/vesi-vcs/vesi/plumbing/filemode"
	"github.com/vesi-vcs/vesi/plumbing/object"
)

func TestCheckout_materializesBlobsSubtreesAndSymlinks(t *testing.T) {
	srcDir := t.TempDir()
	r, err := Init(srcDir)
	require.NoError(t, err)

	readme := writeBlob(t, r, "hello\n")
	nested := writeBlob(t, r, "nested contents\n")

	link := &plumbing.MemoryObject{}
	link.SetType(plumbing.BlobObject)
	link.Write([]byte("pkg/file.go"))
	linkHash, err := r.Storage.SetEncodedObject(link)
	require.NoError(t, err)

	pkgTree, err := object.NewTree(r.Storage, []object.TreeEntry{
		{Name: "file.go", Mode: filemode.Regular, Hash: nested},
	})
	require.NoError(t, err)

	srcTree, err := object.NewTree(r.Storage, []object.TreeEntry{
		{Name: "pkg", Mode: filemode.Dir, Hash: pkgTree.Hash},
	})
	require.NoError(t, err)

	root, err := object.NewTree(r.Storage, []object.TreeEntry{
		{Name: "README", Mode: filemode.Regular, Hash: readme},
		{Name: "src", Mode: filemode.Dir, Hash: srcTree.Hash},
		{Name: "link", Mode: filemode.Symlink, Hash: linkHash},
	})
	require.NoError(t, err)

	dest := t.TempDir()
	require.NoError(t, r.Checkout(root.Hash, dest))

	got, err := os.ReadFile(filepath.Join(dest, "README"))
	require.NoError(t, err)
	require.Equal(t, "hello\n", string(got))

	got, err = os.ReadFile(filepath.Join(dest, "src", "pkg", "file.go"))
	require.NoError(t, err)
	require.Equal(t, "nested contents\n", string(got))

	target, err := os.Readlink(filepath.Join(dest, "link"))
	require.NoError(t, err)
	require.Equal(t, "pkg/file.go", target)
}

func TestCheckout_rejectsNonEmptyDestination(t *testing.T) {
	srcDir := t.TempDir()
	r, err := Init(srcDir)
	require.NoError(t, err)

	root, err := object.NewTree(r.Storage, nil)
	require.NoError(t, err)

	dest := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dest, "existing"), []byte("x"), 0o644))

	err = r.Checkout(root.Hash, dest)
	require.ErrorIs(t, err, plumbing.ErrDestinationNotEmpty)
}
