package vesi

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vesi-vcs/vesi/plumbing"
	"github.com/vesi-vcs/vesi/plumbing/filemode"
	"github.com/vesi-vcs/vesi/plumbing/object"
)

func TestInit_createsSkeletonAndHEAD(t *testing.T) {
	dir := t.TempDir()

	r, err := Init(dir)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, MetaDir, "objects"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, MetaDir, "refs", "heads"))
	require.NoError(t, err)

	h, err := r.Storage.Reference(plumbing.HEAD)
	require.NoError(t, err)
	require.Equal(t, plumbing.SymbolicReference, h.Type())
	require.Equal(t, plumbing.NewBranchReferenceName("master"), h.Target())
}

func TestInit_rejectsExisting(t *testing.T) {
	dir := t.TempDir()

	_, err := Init(dir)
	require.NoError(t, err)

	_, err = Init(dir)
	require.Error(t, err)
}

func TestOpen_rejectsNonRepository(t *testing.T) {
	dir := t.TempDir()

	_, err := Open(dir)
	require.ErrorIs(t, err, plumbing.ErrNotARepository)
}

func TestFind_ascendsToParent(t *testing.T) {
	root := t.TempDir()

	_, err := Init(root)
	require.NoError(t, err)

	nested := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	r, err := Find(nested)
	require.NoError(t, err)
	require.NotNil(t, r)
}

func TestFind_noRepository(t *testing.T) {
	dir := t.TempDir()

	_, err := Find(dir)
	require.ErrorIs(t, err, plumbing.ErrNotARepository)
}

func TestIdentity_missingFailsExplicitly(t *testing.T) {
	dir := t.TempDir()

	r, err := Init(dir)
	require.NoError(t, err)

	_, err = r.Identity()
	require.ErrorIs(t, err, plumbing.ErrMissingIdentity)
}

func TestResolveRevision_headAndBranchAndShortHash(t *testing.T) {
	dir := t.TempDir()

	r, err := Init(dir)
	require.NoError(t, err)

	blob := &plumbing.MemoryObject{}
	blob.SetType(plumbing.BlobObject)
	blob.Write([]byte("hello\n"))
	blobHash, err := r.Storage.SetEncodedObject(blob)
	require.NoError(t, err)

	tree, err := object.NewTree(r.Storage, []object.TreeEntry{
		{Name: "hello.txt", Mode: filemode.Regular, Hash: blobHash},
	})
	require.NoError(t, err)

	commitHash, err := object.NewCommit(r.Storage, object.CommitParams{
		TreeHash: tree.Hash,
		Author:   object.Signature{Name: "A", Email: "a@example.com"},
		Committer: object.Signature{
			Name: "A", Email: "a@example.com",
		},
		Message: "initial\n",
	})
	require.NoError(t, err)

	master := plumbing.NewBranchReferenceName("master")
	require.NoError(t, r.Storage.SetReference(plumbing.NewHashReference(master, commitHash)))

	hashes, err := r.ResolveRevision("HEAD")
	require.NoError(t, err)
	require.Equal(t, []plumbing.Hash{commitHash}, hashes)

	hashes, err = r.ResolveRevision("master")
	require.NoError(t, err)
	require.Equal(t, []plumbing.Hash{commitHash}, hashes)

	hashes, err = r.ResolveRevision(commitHash.String()[:8])
	require.NoError(t, err)
	require.Contains(t, hashes, commitHash)

	hashes, err = r.ResolveRevision("")
	require.NoError(t, err)
	require.Nil(t, hashes)

	hashes, err = r.ResolveRevision("does-not-exist")
	require.NoError(t, err)
	require.Nil(t, hashes)
}

// TestResolveRevision_ambiguousShortHash covers spec scenario S3: a
// short hash prefix matching more than one object resolves to every
// match rather than erroring or picking one arbitrarily.
func TestResolveRevision_ambiguousShortHash(t *testing.T) {
	dir := t.TempDir()

	r, err := Init(dir)
	require.NoError(t, err)

	byPrefix := make(map[byte][]plumbing.Hash)
	for i := 0; i < 64; i++ {
		blob := &plumbing.MemoryObject{}
		blob.SetType(plumbing.BlobObject)
		blob.Write([]byte(fmt.Sprintf("content-%d\n", i)))
		h, err := r.Storage.SetEncodedObject(blob)
		require.NoError(t, err)
		byPrefix[h.String()[0]] = append(byPrefix[h.String()[0]], h)
	}

	var collidingPrefix string
	var want []plumbing.Hash
	for c, hs := range byPrefix {
		if len(hs) >= 2 {
			collidingPrefix = string(c)
			want = hs
			break
		}
	}
	require.NotEmpty(t, collidingPrefix, "expected at least one single-hex-digit collision among 64 distinct objects")

	got, err := r.ResolveRevision(collidingPrefix)
	require.NoError(t, err)
	require.ElementsMatch(t, want, got)
}

func TestResolveToType_commitToTreeAndTagToTarget(t *testing.T) {
	dir := t.TempDir()

	r, err := Init(dir)
	require.NoError(t, err)

	blob := &plumbing.MemoryObject{}
	blob.SetType(plumbing.BlobObject)
	blob.Write([]byte("hello\n"))
	blobHash, err := r.Storage.SetEncodedObject(blob)
	require.NoError(t, err)

	tree, err := object.NewTree(r.Storage, []object.TreeEntry{
		{Name: "hello.txt", Mode: filemode.Regular, Hash: blobHash},
	})
	require.NoError(t, err)

	commitHash, err := object.NewCommit(r.Storage, object.CommitParams{
		TreeHash:  tree.Hash,
		Author:    object.Signature{Name: "A", Email: "a@example.com"},
		Committer: object.Signature{Name: "A", Email: "a@example.com"},
		Message:   "initial\n",
	})
	require.NoError(t, err)

	got, err := r.ResolveToType(commitHash, plumbing.TreeObject)
	require.NoError(t, err)
	require.Equal(t, tree.Hash, got)

	_, err = r.ResolveToType(commitHash, plumbing.BlobObject)
	require.ErrorIs(t, err, plumbing.ErrTypeMismatch)

	tagHash, err := object.NewTag(r.Storage, object.TagParams{
		Target:     commitHash,
		TargetType: plumbing.CommitObject,
		Name:       "v1",
		Tagger:     object.Signature{Name: "A", Email: "a@example.com"},
		Message:    "release\n",
	})
	require.NoError(t, err)

	got, err = r.ResolveToType(tagHash, plumbing.CommitObject)
	require.NoError(t, err)
	require.Equal(t, commitHash, got)
}
