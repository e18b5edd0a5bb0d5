package vesi

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/vesi-vcs/vesi/plumbing"
	"github.com/vesi-vcs/vesi/plumbing/filemode"
	"github.com/vesi-vcs/vesi/plumbing/format/gitignore"
	"github.com/vesi-vcs/vesi/plumbing/format/index"
	"github.com/vesi-vcs/vesi/plumbing/object"
)

// Status computes the three-way status described by spec §4.9: HEAD
// vs index (staged), index vs worktree (unstaged), and untracked
// worktree paths.
func (r *Repository) Status() (Status, error) {
	st := make(Status)

	idx, err := r.Storage.Index()
	if err != nil {
		return nil, err
	}

	headFiles, err := r.headTreeFiles()
	if err != nil {
		return nil, err
	}

	tracked := make(map[string]bool, len(idx.Entries))
	for _, e := range idx.Entries {
		tracked[e.Name] = true

		fs := st.File(e.Name)
		if h, ok := headFiles[e.Name]; ok {
			if h != e.Hash {
				fs.Staging = Modified
			}
		} else {
			fs.Staging = Added
		}

		code, err := r.compareWorktree(e)
		if err != nil {
			return nil, err
		}
		fs.Worktree = code
	}

	for name := range headFiles {
		if !tracked[name] {
			st.File(name).Staging = Deleted
		}
	}

	ig, err := r.buildIgnore()
	if err != nil {
		return nil, err
	}

	if err := r.collectUntracked(nil, tracked, ig, st); err != nil {
		return nil, err
	}

	return st, nil
}

// CurrentBranch reports the branch HEAD points at, or, if HEAD is
// detached, the commit hash it names directly.
func (r *Repository) CurrentBranch() (name string, detached bool, err error) {
	head, err := r.Storage.Reference(plumbing.HEAD)
	if err != nil {
		return "", false, err
	}

	if head.Type() == plumbing.SymbolicReference {
		return head.Target().Short(), false, nil
	}

	return head.Hash().String(), true, nil
}

// headTreeFiles flattens the HEAD commit's tree into a path→hash map.
// A repository with no commits yet (HEAD unborn) yields an empty map.
func (r *Repository) headTreeFiles() (map[string]plumbing.Hash, error) {
	out := make(map[string]plumbing.Hash)

	h, err := r.ResolveReference(plumbing.HEAD)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return out, nil
		}
		return nil, err
	}

	treeHash, err := r.ResolveToType(h, plumbing.TreeObject)
	if err != nil {
		return nil, err
	}

	if err := flattenTree(r.Storage, treeHash, "", out); err != nil {
		return nil, err
	}

	return out, nil
}

func flattenTree(s object.Storer, treeHash plumbing.Hash, prefix string, out map[string]plumbing.Hash) error {
	tree, err := object.GetTree(s, treeHash)
	if err != nil {
		return err
	}

	for _, e := range tree.Entries {
		name := e.Name
		if prefix != "" {
			name = prefix + "/" + name
		}

		if e.Mode == filemode.Dir {
			if err := flattenTree(s, e.Hash, name, out); err != nil {
				return err
			}
			continue
		}

		out[name] = e.Hash
	}

	return nil
}

// compareWorktree classifies e against its worktree file: deleted if
// absent, unchanged if a stat-fields match (mtime, size) says so,
// otherwise settled by rehashing the file against e.Hash.
func (r *Repository) compareWorktree(e index.Entry) (StatusCode, error) {
	fi, err := r.Worktree.Lstat(e.Name)
	if err != nil {
		if os.IsNotExist(err) {
			return Deleted, nil
		}
		return Unmodified, err
	}

	if fi.ModTime().Equal(e.ModifiedAt) && uint32(fi.Size()) == e.Size {
		return Unmodified, nil
	}

	h, err := r.hashWorktreeFile(e.Name, fi)
	if err != nil {
		return Unmodified, err
	}

	if h == e.Hash {
		return Unmodified, nil
	}

	return Modified, nil
}

func (r *Repository) hashWorktreeFile(name string, fi os.FileInfo) (plumbing.Hash, error) {
	if fi.Mode()&os.ModeSymlink != 0 {
		target, err := r.Worktree.Readlink(name)
		if err != nil {
			return plumbing.ZeroHash, err
		}
		return plumbing.ComputeHash(plumbing.BlobObject, []byte(target)), nil
	}

	f, err := r.Worktree.Open(name)
	if err != nil {
		return plumbing.ZeroHash, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return plumbing.ZeroHash, err
	}

	return plumbing.ComputeHash(plumbing.BlobObject, data), nil
}

// collectUntracked walks the worktree under the directory named by
// domain (nil for the root), adding every path that is neither
// tracked by the index nor matched by ig to st.
func (r *Repository) collectUntracked(domain []string, tracked map[string]bool, ig *gitignore.Ignore, st Status) error {
	dir := "."
	if len(domain) > 0 {
		dir = r.Worktree.Join(domain...)
	}

	fis, err := r.Worktree.ReadDir(dir)
	if err != nil {
		return err
	}

	for _, fi := range fis {
		if len(domain) == 0 && fi.Name() == MetaDir {
			continue
		}

		childDomain := make([]string, 0, len(domain)+1)
		childDomain = append(childDomain, domain...)
		childDomain = append(childDomain, fi.Name())

		if fi.IsDir() {
			if ig.Match(childDomain, true) {
				continue
			}
			if err := r.collectUntracked(childDomain, tracked, ig, st); err != nil {
				return err
			}
			continue
		}

		name := strings.Join(childDomain, "/")
		if tracked[name] {
			continue
		}
		if ig.Match(childDomain, false) {
			continue
		}

		fs := st.File(name)
		fs.Staging = Untracked
		fs.Worktree = Untracked
	}

	return nil
}

// buildIgnore assembles the three layered pattern sources for ig:
// every directory's .vesignore list, the repository-local
// info/exclude list, and the global-user list.
func (r *Repository) buildIgnore() (*gitignore.Ignore, error) {
	byDir, err := gitignore.ByDirectory(r.Worktree, MetaDir)
	if err != nil {
		return nil, err
	}

	local, err := r.localExcludePatterns()
	if err != nil {
		return nil, err
	}

	global, err := gitignore.LoadGlobalPatterns(r.Worktree)
	if err != nil {
		return nil, err
	}

	return &gitignore.Ignore{ByDir: byDir, Local: local, Global: global}, nil
}

func (r *Repository) localExcludePatterns() ([]gitignore.Pattern, error) {
	f, err := r.Storage.Filesystem().Open("info/exclude")
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var ps []gitignore.Pattern
	s := bufio.NewScanner(f)
	for s.Scan() {
		line := strings.TrimRight(s.Text(), "\r\n")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ps = append(ps, gitignore.ParsePattern(line, nil))
	}

	return ps, s.Err()
}
