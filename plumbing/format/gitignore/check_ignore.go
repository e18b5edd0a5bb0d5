package gitignore

import "strings"

// Ignore evaluates a candidate path against the three layered rule
// sources: per-directory scoped lists, the repository-local exclude
// list, and the global list.
type Ignore struct {
	// ByDir holds the compiled pattern list for each directory,
	// keyed by its slash-joined path from the worktree root (""
	// for the root itself).
	ByDir map[string][]Pattern

	// Local is the repository-local info/exclude pattern list.
	Local []Pattern

	// Global is the global-user pattern list.
	Global []Pattern
}

// Match reports whether path, relative to the worktree root, is
// ignored. The scoped pass walks from the directory containing path
// up to the root, returning the first directory's verdict; only if no
// directory has an opinion does it fall back to the repository-local
// list, then the global list.
func (ig *Ignore) Match(path []string, isDir bool) bool {
	if len(path) == 0 {
		return false
	}

	dirComps := path[:len(path)-1]
	for i := len(dirComps); i >= 0; i-- {
		dir := strings.Join(dirComps[:i], "/")
		patterns, ok := ig.ByDir[dir]
		if !ok || len(patterns) == 0 {
			continue
		}
		if res := matchList(patterns, path, isDir); res != NoMatch {
			return res == Exclude
		}
	}

	if res := matchList(ig.Local, path, isDir); res != NoMatch {
		return res == Exclude
	}

	if res := matchList(ig.Global, path, isDir); res != NoMatch {
		return res == Exclude
	}

	return false
}

func matchList(patterns []Pattern, path []string, isDir bool) MatchResult {
	for i := len(patterns) - 1; i >= 0; i-- {
		if res := patterns[i].Match(path, isDir); res != NoMatch {
			return res
		}
	}
	return NoMatch
}
