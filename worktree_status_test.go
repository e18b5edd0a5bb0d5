package vesi

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vesi-vcs/vesi/plumbing"
	"github.com/vesi-vcs/vesi/plumbing/object"
)

func TestStatus_threeWay(t *testing.T) {
	dir := t.TempDir()
	r, err := Init(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a"), []byte("apple\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b"), []byte("banana\n"), 0o644))

	_, err = r.Add("a")
	require.NoError(t, err)
	_, err = r.Add("b")
	require.NoError(t, err)

	idx, err := r.Storage.Index()
	require.NoError(t, err)

	treeHash, err := r.BuildTree(idx)
	require.NoError(t, err)

	commitHash, err := object.NewCommit(r.Storage, object.CommitParams{
		TreeHash:  treeHash,
		Author:    object.Signature{Name: "A", Email: "a@example.com"},
		Committer: object.Signature{Name: "A", Email: "a@example.com"},
		Message:   "initial\n",
	})
	require.NoError(t, err)

	master := plumbing.NewBranchReferenceName("master")
	require.NoError(t, r.Storage.SetReference(plumbing.NewHashReference(master, commitHash)))

	_, err = r.Remove("b", true)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "c"), []byte("c1\n"), 0o644))
	_, err = r.Add("c")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "c"), []byte("c-modified-contents\n"), 0o644))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "d"), []byte("dates\n"), 0o644))

	st, err := r.Status()
	require.NoError(t, err)

	require.Equal(t, Unmodified, st.File("a").Staging)
	require.Equal(t, Unmodified, st.File("a").Worktree)

	require.Equal(t, Deleted, st.File("b").Staging)

	require.Equal(t, Added, st.File("c").Staging)
	require.Equal(t, Modified, st.File("c").Worktree)

	require.Equal(t, Untracked, st.File("d").Staging)
	require.Equal(t, Untracked, st.File("d").Worktree)
}

func TestStatus_respectsVesignore(t *testing.T) {
	dir := t.TempDir()
	r, err := Init(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".vesignore"), []byte("*.log\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "debug.log"), []byte("noise\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.txt"), []byte("keep\n"), 0o644))

	st, err := r.Status()
	require.NoError(t, err)

	require.NotContains(t, st, "debug.log")
	require.Contains(t, st, "keep.txt")
}

func TestCurrentBranch_freshRepoIsMaster(t *testing.T) {
	dir := t.TempDir()
	r, err := Init(dir)
	require.NoError(t, err)

	name, detached, err := r.CurrentBranch()
	require.NoError(t, err)
	require.False(t, detached)
	require.Equal(t, "master", name)
}

func TestCurrentBranch_detached(t *testing.T) {
	dir := t.TempDir()
	r, err := Init(dir)
	require.NoError(t, err)

	h := plumbing.NewHash("ce013625030ba8dba906f756967f9e9ca394464a")
	require.NoError(t, r.Storage.SetReference(plumbing.NewHashReference(plumbing.HEAD, h)))

	name, detached, err := r.CurrentBranch()
	require.NoError(t, err)
	require.True(t, detached)
	require.Equal(t, h.String(), name)
}
