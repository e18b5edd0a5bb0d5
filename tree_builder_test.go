package vesi

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vesi-vcs/vesi/plumbing"
	"github.com/vesi-vcs/vesi/plumbing/filemode"
	"github.com/vesi-vcs/vesi/plumbing/format/index"
	"github.com/vesi-vcs/vesi/plumbing/object"
)

func TestBuildTree_emptyIndex(t *testing.T) {
	dir := t.TempDir()
	r, err := Init(dir)
	require.NoError(t, err)

	idx := index.NewIndex()
	h, err := r.BuildTree(idx)
	require.NoError(t, err)

	tree, err := object.GetTree(r.Storage, h)
	require.NoError(t, err)
	require.Empty(t, tree.Entries)
}

func TestBuildTree_singleTopLevelFile(t *testing.T) {
	dir := t.TempDir()
	r, err := Init(dir)
	require.NoError(t, err)

	blobHash := writeBlob(t, r, "hello\n")

	idx := index.NewIndex()
	idx.Add(index.Entry{Name: "hello.txt", Mode: filemode.Regular, Hash: blobHash})

	h, err := r.BuildTree(idx)
	require.NoError(t, err)

	tree, err := object.GetTree(r.Storage, h)
	require.NoError(t, err)
	require.Len(t, tree.Entries, 1)
	require.Equal(t, "hello.txt", tree.Entries[0].Name)
	require.Equal(t, blobHash, tree.Entries[0].Hash)
}

func TestBuildTree_nestedDirectories(t *testing.T) {
	dir := t.TempDir()
	r, err := Init(dir)
	require.NoError(t, err)

	rootBlob := writeBlob(t, r, "root\n")
	nestedBlob := writeBlob(t, r, "nested\n")

	idx := index.NewIndex()
	idx.Add(index.Entry{Name: "README.md", Mode: filemode.Regular, Hash: rootBlob})
	idx.Add(index.Entry{Name: "src/pkg/file.go", Mode: filemode.Regular, Hash: nestedBlob})

	h, err := r.BuildTree(idx)
	require.NoError(t, err)

	root, err := object.GetTree(r.Storage, h)
	require.NoError(t, err)
	require.Len(t, root.Entries, 2)

	srcEntry, err := root.Entry("src")
	require.NoError(t, err)
	require.Equal(t, filemode.Dir, srcEntry.Mode)

	srcTree, err := object.GetTree(r.Storage, srcEntry.Hash)
	require.NoError(t, err)
	require.Len(t, srcTree.Entries, 1)

	pkgEntry, err := srcTree.Entry("pkg")
	require.NoError(t, err)

	pkgTree, err := object.GetTree(r.Storage, pkgEntry.Hash)
	require.NoError(t, err)
	require.Len(t, pkgTree.Entries, 1)
	require.Equal(t, "file.go", pkgTree.Entries[0].Name)
	require.Equal(t, nestedBlob, pkgTree.Entries[0].Hash)
}

func TestBuildTree_identicalSubtreesDeduplicated(t *testing.T) {
	dir := t.TempDir()
	r, err := Init(dir)
	require.NoError(t, err)

	blob := writeBlob(t, r, "same\n")

	idx := index.NewIndex()
	idx.Add(index.Entry{Name: "a/file.txt", Mode: filemode.Regular, Hash: blob})
	idx.Add(index.Entry{Name: "b/file.txt", Mode: filemode.Regular, Hash: blob})

	h, err := r.BuildTree(idx)
	require.NoError(t, err)

	root, err := object.GetTree(r.Storage, h)
	require.NoError(t, err)

	aEntry, err := root.Entry("a")
	require.NoError(t, err)
	bEntry, err := root.Entry("b")
	require.NoError(t, err)
	require.Equal(t, aEntry.Hash, bEntry.Hash)
}

func writeBlob(t *testing.T, r *Repository, content string) plumbing.Hash {
	t.Helper()

	blob := &plumbing.MemoryObject{}
	blob.SetType(plumbing.BlobObject)
	blob.Write([]byte(content))

	h, err := r.Storage.SetEncodedObject(blob)
	require.NoError(t, err)
	return h
}
