package plumbing

import (
	"fmt"
	"strings"
)

const (
	refPrefix       = "refs/"
	refHeadPrefix   = refPrefix + "heads/"
	refTagPrefix    = refPrefix + "tags/"
	refRemotePrefix = refPrefix + "remotes/"
	refNotePrefix   = refPrefix + "notes/"
	refPullPrefix   = refPrefix + "pulls/"
	symrefPrefix    = "ref: "
)

// HEAD is the name of the reference naming the current branch or commit.
const HEAD ReferenceName = "HEAD"

// ReferenceType is the kind of a Reference: symbolic or hash.
type ReferenceType int8

const (
	InvalidReference  ReferenceType = 0
	HashReference     ReferenceType = 1
	SymbolicReference ReferenceType = 2
)

func (r ReferenceType) String() string {
	switch r {
	case HashReference:
		return "hash-reference"
	case SymbolicReference:
		return "symbolic-reference"
	default:
		return "invalid-reference"
	}
}

// ReferenceName is the fully qualified name of a reference, for example
// "refs/heads/master" or "HEAD".
type ReferenceName string

func (r ReferenceName) String() string {
	return string(r)
}

// Short returns the short name of a reference: the name with its
// "refs/heads/", "refs/tags/" or "refs/remotes/" prefix stripped once,
// or, failing those, its "refs/" prefix (so "refs/notes/foo" becomes
// "notes/foo").
func (r ReferenceName) Short() string {
	s := string(r)
	res := s
	for _, prefix := range []string{
		refHeadPrefix,
		refTagPrefix,
		refRemotePrefix,
		refPrefix,
	} {
		if strings.HasPrefix(s, prefix) {
			res = strings.TrimPrefix(s, prefix)
			break
		}
	}
	return res
}

func (r ReferenceName) IsBranch() bool {
	return strings.HasPrefix(string(r), refHeadPrefix)
}

func (r ReferenceName) IsNote() bool {
	return strings.HasPrefix(string(r), refNotePrefix)
}

func (r ReferenceName) IsRemote() bool {
	return strings.HasPrefix(string(r), refRemotePrefix)
}

func (r ReferenceName) IsTag() bool {
	return strings.HasPrefix(string(r), refTagPrefix)
}

// Validate checks r against the reference-name grammar accepted by this
// core: non-empty, under refs/ (or exactly HEAD), slash-separated
// components none of which is empty, ".", "..", ends in ".lock", or
// contains a control character or one of the characters
// space ~ ^ : ? * [ \ or a literal "@{". The final component of a name
// under refs/heads/ or refs/tags/ additionally cannot begin with "-",
// so it can't be mistaken for a command flag.
func (r ReferenceName) Validate() error {
	s := string(r)
	if s == string(HEAD) {
		return nil
	}

	if !strings.HasPrefix(s, refPrefix) {
		return fmt.Errorf("%w: %q", ErrInvalidReferenceName, s)
	}

	rest := strings.TrimPrefix(s, refPrefix)
	if rest == "" {
		return fmt.Errorf("%w: %q", ErrInvalidReferenceName, s)
	}

	components := strings.Split(rest, "/")
	for _, c := range components {
		if err := validateRefComponent(c); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidReferenceName, s)
		}
	}

	if strings.HasPrefix(s, refHeadPrefix) || strings.HasPrefix(s, refTagPrefix) {
		if strings.HasPrefix(components[len(components)-1], "-") {
			return fmt.Errorf("%w: %q", ErrInvalidReferenceName, s)
		}
	}

	return nil
}

func validateRefComponent(c string) error {
	if c == "" || c == "." || c == ".." || c == "@" {
		return ErrInvalidReferenceName
	}
	if strings.HasSuffix(c, ".lock") || strings.HasSuffix(c, ".") {
		return ErrInvalidReferenceName
	}
	if strings.Contains(c, "..") || strings.Contains(c, "@{") {
		return ErrInvalidReferenceName
	}
	for _, r := range c {
		if r <= ' ' || r == 0x7f {
			return ErrInvalidReferenceName
		}
		switch r {
		case '~', '^', ':', '?', '*', '[', '\\':
			return ErrInvalidReferenceName
		}
	}
	return nil
}

// NewBranchReferenceName returns the fully qualified name for a branch.
func NewBranchReferenceName(name string) ReferenceName {
	return ReferenceName(refHeadPrefix + name)
}

// NewNoteReferenceName returns the fully qualified name for a note.
func NewNoteReferenceName(name string) ReferenceName {
	return ReferenceName(refNotePrefix + name)
}

// NewRemoteReferenceName returns the fully qualified name for a remote branch.
func NewRemoteReferenceName(remote, name string) ReferenceName {
	return ReferenceName(refRemotePrefix + remote + "/" + name)
}

// NewRemoteHEADReferenceName returns the fully qualified name for a remote's HEAD.
func NewRemoteHEADReferenceName(remote string) ReferenceName {
	return ReferenceName(refRemotePrefix + remote + "/HEAD")
}

// NewTagReferenceName returns the fully qualified name for a tag.
func NewTagReferenceName(name string) ReferenceName {
	return ReferenceName(refTagPrefix + name)
}

// Reference is either a symbolic reference (pointing at another
// reference by name) or a hash reference (pointing at an object hash
// directly).
type Reference struct {
	t      ReferenceType
	n      ReferenceName
	h      Hash
	target ReferenceName
}

// NewReferenceFromStrings creates a Reference from its on-disk name and
// content, dispatching on whether content begins with "ref: ".
func NewReferenceFromStrings(name, target string) *Reference {
	n := ReferenceName(name)

	if strings.HasPrefix(target, symrefPrefix) {
		target = strings.TrimPrefix(target, symrefPrefix)
		return NewSymbolicReference(n, ReferenceName(target))
	}

	return NewHashReference(n, NewHash(target))
}

// NewSymbolicReference creates a new symbolic reference.
func NewSymbolicReference(n, target ReferenceName) *Reference {
	return &Reference{
		t:      SymbolicReference,
		n:      n,
		target: target,
	}
}

// NewHashReference creates a new hash reference.
func NewHashReference(n ReferenceName, h Hash) *Reference {
	return &Reference{
		t: HashReference,
		n: n,
		h: h,
	}
}

func (r *Reference) Type() ReferenceType {
	if r == nil {
		return InvalidReference
	}
	return r.t
}

func (r *Reference) Name() ReferenceName {
	if r == nil {
		return ""
	}
	return r.n
}

func (r *Reference) Hash() Hash {
	if r == nil {
		return ZeroHash
	}
	return r.h
}

func (r *Reference) Target() ReferenceName {
	if r == nil {
		return ""
	}
	return r.target
}

// Strings returns the on-disk (name, content) pair for r.
func (r *Reference) Strings() [2]string {
	var o [2]string
	o[0] = string(r.n)

	switch r.t {
	case HashReference:
		o[1] = r.h.String()
	case SymbolicReference:
		o[1] = symrefPrefix + string(r.target)
	}

	return o
}

func (r *Reference) String() string {
	if r == nil {
		return ""
	}

	s := r.Strings()
	return fmt.Sprintf("%s %s", s[1], s[0])
}
