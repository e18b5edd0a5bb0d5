package object

import (
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/require"

	"github.com/vesi-vcs/vesi/plumbing"
	"github.com/vesi-vcs/vesi/plumbing/filemode"
	"github.com/vesi-vcs/vesi/storage/filesystem"
)

func newTestStorer(t *testing.T) *filesystem.Storage {
	t.Helper()
	s := filesystem.NewStorage(memfs.New())
	require.NoError(t, s.Init())
	return s
}

func writeTestBlob(t *testing.T, s Storer, content string) plumbing.Hash {
	t.Helper()
	b, err := NewBlob(s, []byte(content))
	require.NoError(t, err)
	return b.Hash
}

func TestBlob_roundTrip(t *testing.T) {
	s := newTestStorer(t)

	h := writeTestBlob(t, s, "hello\n")

	b, err := GetBlob(s, h)
	require.NoError(t, err)
	require.Equal(t, int64(6), b.Size)

	r, err := b.Reader()
	require.NoError(t, err)
	defer r.Close()

	data := make([]byte, b.Size)
	_, err = r.Read(data)
	require.NoError(t, err)
	require.Equal(t, "hello\n", string(data))
}

func TestTree_canonicalOrderingAndLookup(t *testing.T) {
	s := newTestStorer(t)

	fileHash := writeTestBlob(t, s, "file\n")
	libHash := writeTestBlob(t, s, "lib\n")

	// "lib" (a subtree) must sort after "lib.txt" in canonical tree
	// order, since it compares as "lib/".
	subtree, err := NewTree(s, []TreeEntry{{Name: "nested.txt", Mode: filemode.Regular, Hash: fileHash}})
	require.NoError(t, err)

	tree, err := NewTree(s, []TreeEntry{
		{Name: "lib", Mode: filemode.Dir, Hash: subtree.Hash},
		{Name: "lib.txt", Mode: filemode.Regular, Hash: libHash},
	})
	require.NoError(t, err)

	require.Len(t, tree.Entries, 2)
	require.Equal(t, "lib.txt", tree.Entries[0].Name)
	require.Equal(t, "lib", tree.Entries[1].Name)

	e, err := tree.Entry("lib")
	require.NoError(t, err)
	require.Equal(t, filemode.Dir, e.Mode)

	entry, err := tree.TreeEntryByPath("lib/nested.txt")
	require.NoError(t, err)
	require.Equal(t, fileHash, entry.Hash)

	file, err := tree.File("lib/nested.txt")
	require.NoError(t, err)
	require.Equal(t, "lib/nested.txt", file.Name)

	files, err := tree.Files()
	require.NoError(t, err)
	require.Equal(t, map[string]plumbing.Hash{
		"lib.txt":        libHash,
		"lib/nested.txt": fileHash,
	}, files)
}

func TestTree_entryNotFound(t *testing.T) {
	s := newTestStorer(t)

	tree, err := NewTree(s, nil)
	require.NoError(t, err)

	_, err = tree.Entry("missing")
	require.ErrorIs(t, err, ErrEntryNotFound)
}

func TestCommit_roundTripWithParents(t *testing.T) {
	s := newTestStorer(t)

	tree, err := NewTree(s, nil)
	require.NoError(t, err)

	when := time.Date(2026, 1, 2, 3, 4, 5, 0, time.FixedZone("", -7*3600))
	author := Signature{Name: "A U Thor", Email: "author@example.com", When: when}
	committer := Signature{Name: "A U Thor", Email: "author@example.com", When: when}

	firstHash, err := NewCommit(s, CommitParams{
		TreeHash: tree.Hash, Author: author, Committer: committer, Message: "first\n",
	})
	require.NoError(t, err)

	secondHash, err := NewCommit(s, CommitParams{
		TreeHash: tree.Hash, ParentHashes: []plumbing.Hash{firstHash},
		Author: author, Committer: committer, Message: "second\n",
	})
	require.NoError(t, err)

	second, err := GetCommit(s, secondHash)
	require.NoError(t, err)
	require.Equal(t, tree.Hash, second.TreeHash)
	require.Equal(t, 1, second.NumParents())
	require.Equal(t, "second\n", second.Message)
	require.Equal(t, "A U Thor", second.Author.Name)
	require.True(t, second.Author.When.Equal(when))

	parent, err := second.Parent(0)
	require.NoError(t, err)
	require.Equal(t, firstHash, parent.Hash)

	gotTree, err := second.Tree()
	require.NoError(t, err)
	require.Equal(t, tree.Hash, gotTree.Hash)

	_, err = second.Parent(1)
	require.Error(t, err)
}

func TestTag_roundTripResolvesCommit(t *testing.T) {
	s := newTestStorer(t)

	tree, err := NewTree(s, nil)
	require.NoError(t, err)

	sig := Signature{Name: "A", Email: "a@example.com"}
	commitHash, err := NewCommit(s, CommitParams{TreeHash: tree.Hash, Author: sig, Committer: sig, Message: "m\n"})
	require.NoError(t, err)

	tagHash, err := NewTag(s, TagParams{
		Target: commitHash, TargetType: plumbing.CommitObject,
		Name: "v1.0", Tagger: sig, Message: "release\n",
	})
	require.NoError(t, err)

	tag, err := GetTag(s, tagHash)
	require.NoError(t, err)
	require.Equal(t, "v1.0", tag.Name)
	require.Equal(t, commitHash, tag.Target)
	require.Equal(t, plumbing.CommitObject, tag.TargetType)

	resolved, err := tag.Commit()
	require.NoError(t, err)
	require.Equal(t, commitHash, resolved.Hash)
}

func TestTag_commitFailsOnNonCommitTarget(t *testing.T) {
	s := newTestStorer(t)

	blobHash := writeTestBlob(t, s, "x\n")
	sig := Signature{Name: "A", Email: "a@example.com"}

	tagHash, err := NewTag(s, TagParams{
		Target: blobHash, TargetType: plumbing.BlobObject, Name: "bad", Tagger: sig, Message: "m\n",
	})
	require.NoError(t, err)

	tag, err := GetTag(s, tagHash)
	require.NoError(t, err)

	_, err = tag.Commit()
	require.ErrorIs(t, err, ErrUnsupportedObject)
}
