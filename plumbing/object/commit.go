package object

import (
	"bytes"
	"fmt"

	"github.com/vesi-vcs/vesi/plumbing"
)

// Commit names a tree and its history.
type Commit struct {
	Hash         plumbing.Hash
	Author       Signature
	Committer    Signature
	Message      string
	TreeHash     plumbing.Hash
	ParentHashes []plumbing.Hash

	s Storer
}

func (c *Commit) ID() plumbing.Hash         { return c.Hash }
func (c *Commit) Type() plumbing.ObjectType { return plumbing.CommitObject }

// Decode parses o's KVLM payload into c. o must be a commit object.
// The Storer used to resolve c.Tree() and c.Parent() is whatever was
// set on c before Decode is called (GetCommit does this).
func (c *Commit) Decode(o plumbing.EncodedObject) error {
	if o.Type() != plumbing.CommitObject {
		return ErrUnsupportedObject
	}

	raw, err := readAll(o)
	if err != nil {
		return err
	}

	m := parseKVLM(raw)

	c.Hash = o.Hash()
	c.Message = string(m.message)
	c.ParentHashes = nil

	if tree, ok := m.get("tree"); ok {
		c.TreeHash = plumbing.NewHash(tree)
	}

	for _, p := range m.all("parent") {
		c.ParentHashes = append(c.ParentHashes, plumbing.NewHash(p))
	}

	if a, ok := m.get("author"); ok {
		c.Author.Decode([]byte(a))
	}
	if cm, ok := m.get("committer"); ok {
		c.Committer.Decode([]byte(cm))
	}

	return nil
}

// Tree resolves and returns c's tree.
func (c *Commit) Tree() (*Tree, error) {
	return GetTree(c.s, c.TreeHash)
}

// NumParents returns the number of parent commits.
func (c *Commit) NumParents() int { return len(c.ParentHashes) }

// Parent resolves the i-th parent commit.
func (c *Commit) Parent(i int) (*Commit, error) {
	if i < 0 || i >= len(c.ParentHashes) {
		return nil, fmt.Errorf("parent index out of range: %d", i)
	}
	return GetCommit(c.s, c.ParentHashes[i])
}

func (c *Commit) String() string {
	return fmt.Sprintf("commit %s\nAuthor: %s\n\n%s", c.Hash, c.Author.String(), c.Message)
}

// CommitParams are the inputs to NewCommit.
type CommitParams struct {
	TreeHash     plumbing.Hash
	ParentHashes []plumbing.Hash
	Author       Signature
	Committer    Signature
	Message      string
}

// NewCommit composes the KVLM block for a commit (tree, each parent,
// author, committer, blank line, message) and stores it.
func NewCommit(s Storer, p CommitParams) (plumbing.Hash, error) {
	m := newKVLM()
	m.add("tree", p.TreeHash.String())
	order := []string{"tree"}

	if len(p.ParentHashes) > 0 {
		order = append(order, "parent")
		for _, h := range p.ParentHashes {
			m.add("parent", h.String())
		}
	}

	var authorBuf, committerBuf bytes.Buffer
	p.Author.Encode(&authorBuf)
	p.Committer.Encode(&committerBuf)

	m.add("author", authorBuf.String())
	m.add("committer", committerBuf.String())
	order = append(order, "author", "committer")

	m.message = []byte(p.Message)

	return writeEncoded(s, plumbing.CommitObject, encodeKVLM(m, order))
}
