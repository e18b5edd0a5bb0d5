// Package gitignore implements matching of paths against the layered
// ignore-pattern lists (.vesignore files, a repository's info/exclude,
// and the user's and system's global excludesfile).
package gitignore

import (
	"path/filepath"
	"strings"
)

// MatchResult is the outcome of testing one pattern against one path.
type MatchResult int

const (
	NoMatch MatchResult = iota
	Exclude
	Include
)

// Pattern is a single compiled ignore-pattern line.
type Pattern interface {
	// Match tests path (split into its components, rooted at the
	// pattern's domain) against the pattern. isDir tells whether path
	// itself names a directory.
	Match(path []string, isDir bool) MatchResult
}

type pattern struct {
	domain    []string
	comps     []string
	inclusion bool
	dirOnly   bool
	anchored  bool
}

// ParsePattern compiles p, a single non-comment, non-blank gitignore
// line, scoped to domain (the path, from the worktree root, of the
// directory the pattern's file lives in).
func ParsePattern(p string, domain []string) Pattern {
	res := &pattern{domain: domain}

	if strings.HasPrefix(p, "!") {
		res.inclusion = true
		p = p[1:]
	} else if strings.HasPrefix(p, `\!`) {
		p = p[1:]
	}

	if strings.HasSuffix(p, "/") && !strings.HasSuffix(p, `\/`) {
		res.dirOnly = true
		p = p[:len(p)-1]
	}

	res.anchored = strings.Contains(p, "/")
	if strings.HasPrefix(p, "/") {
		p = p[1:]
	}

	res.comps = strings.Split(p, "/")

	return res
}

func (p *pattern) result() MatchResult {
	if p.inclusion {
		return Include
	}
	return Exclude
}

// Match implements Pattern.
func (p *pattern) Match(path []string, isDir bool) MatchResult {
	if len(path) <= len(p.domain) {
		return NoMatch
	}

	for i, e := range p.domain {
		if path[i] != e {
			return NoMatch
		}
	}

	remaining := path[len(p.domain):]

	if !p.anchored && len(p.comps) == 1 {
		return p.matchAnywhere(remaining, isDir)
	}

	end, ok := matchComponents(p.comps, remaining)
	if !ok {
		return NoMatch
	}

	if p.dirOnly && end == len(remaining) && !isDir {
		return NoMatch
	}

	return p.result()
}

// matchAnywhere searches every position of remaining for a single,
// unanchored glob component, the "this name appears somewhere under
// here" behavior plain gitignore lines without a slash have.
func (p *pattern) matchAnywhere(remaining []string, isDir bool) MatchResult {
	comp := p.comps[0]
	for i, name := range remaining {
		ok, err := filepath.Match(comp, name)
		if err != nil || !ok {
			continue
		}

		last := i == len(remaining)-1
		if p.dirOnly && last && !isDir {
			continue
		}

		return p.result()
	}
	return NoMatch
}

// matchComponents anchors comps at the start of rem, matching each
// literal/glob component against the same-index element of rem. A
// component that is exactly "**" consumes zero or more elements of
// rem before the remaining components resume matching; any other
// component is matched as a single-segment glob. It reports how many
// leading elements of rem were consumed and whether the whole of
// comps matched.
func matchComponents(comps, rem []string) (consumed int, ok bool) {
	if len(comps) == 0 {
		return 0, true
	}

	head := comps[0]

	if head == "**" {
		if len(comps) == 1 {
			return len(rem), true
		}

		for k := 0; k <= len(rem); k++ {
			if end, ok := matchComponents(comps[1:], rem[k:]); ok {
				return k + end, true
			}
		}
		return 0, false
	}

	if len(rem) == 0 {
		return 0, false
	}

	// "**" only carries globstar meaning as an entire path component;
	// embedded elsewhere it can never match, rather than degrading to
	// a plain "*".
	if strings.Contains(head, "**") {
		return 0, false
	}

	matched, err := filepath.Match(head, rem[0])
	if err != nil || !matched {
		return 0, false
	}

	end, ok := matchComponents(comps[1:], rem[1:])
	if !ok {
		return 0, false
	}

	return 1 + end, true
}
