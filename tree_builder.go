package vesi

import (
	"sort"
	"strings"

	"github.com/vesi-vcs/vesi/plumbing"
	"github.com/vesi-vcs/vesi/plumbing/filemode"
	"github.com/vesi-vcs/vesi/plumbing/format/index"
	"github.com/vesi-vcs/vesi/plumbing/object"
)

// BuildTree folds idx's flat, sorted entry list into a hierarchy of
// tree objects, writing one tree object per directory (including the
// root) and returning the root tree's hash.
func (r *Repository) BuildTree(idx *index.Index) (plumbing.Hash, error) {
	groups := map[string][]object.TreeEntry{"": nil}

	for _, e := range idx.Entries {
		dir, name := splitPath(e.Name)
		ensureDirs(groups, dir)

		groups[dir] = append(groups[dir], object.TreeEntry{
			Name: name,
			Mode: e.Mode,
			Hash: e.Hash,
		})
	}

	dirs := make([]string, 0, len(groups))
	for d := range groups {
		dirs = append(dirs, d)
	}
	sort.Slice(dirs, func(i, j int) bool { return len(dirs[i]) > len(dirs[j]) })

	var root plumbing.Hash
	for _, dir := range dirs {
		tree, err := object.NewTree(r.Storage, groups[dir])
		if err != nil {
			return plumbing.ZeroHash, err
		}

		if dir == "" {
			root = tree.Hash
			continue
		}

		parent, name := splitPath(dir)
		groups[parent] = append(groups[parent], object.TreeEntry{
			Name: name,
			Mode: filemode.Dir,
			Hash: tree.Hash,
		})
	}

	return root, nil
}

// splitPath separates path's final segment from its directory
// prefix; splitPath("a/b/c") is ("a/b", "c"), splitPath("c") is
// ("", "c").
func splitPath(path string) (dir, name string) {
	i := strings.LastIndexByte(path, '/')
	if i < 0 {
		return "", path
	}
	return path[:i], path[i+1:]
}

// ensureDirs makes sure dir and every ancestor of dir has an entry in
// groups, so a directory with no direct file children (only
// subdirectories) still gets a tree written for it.
func ensureDirs(groups map[string][]object.TreeEntry, dir string) {
	for dir != "" {
		if _, ok := groups[dir]; ok {
			return
		}
		groups[dir] = nil

		parent, _ := splitPath(dir)
		dir = parent
	}
}
