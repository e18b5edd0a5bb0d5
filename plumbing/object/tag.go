package object

import (
	"bytes"
	"fmt"

	"github.com/vesi-vcs/vesi/plumbing"
)

// Tag is an annotated tag: a named, signed-or-not pointer at another
// object, carrying its own message.
type Tag struct {
	Hash       plumbing.Hash
	Name       string
	Tagger     Signature
	Message    string
	TargetType plumbing.ObjectType
	Target     plumbing.Hash

	s Storer
}

func (t *Tag) ID() plumbing.Hash         { return t.Hash }
func (t *Tag) Type() plumbing.ObjectType { return plumbing.TagObject }

// Decode parses o's KVLM payload into t. o must be a tag object; tags
// and commits share the KVLM shape and are told apart only by the
// framed header's type tag, never by field presence.
func (t *Tag) Decode(o plumbing.EncodedObject) error {
	if o.Type() != plumbing.TagObject {
		return ErrUnsupportedObject
	}

	raw, err := readAll(o)
	if err != nil {
		return err
	}

	m := parseKVLM(raw)

	t.Hash = o.Hash()
	t.Message = string(m.message)

	if v, ok := m.get("object"); ok {
		t.Target = plumbing.NewHash(v)
	}
	if v, ok := m.get("type"); ok {
		t.TargetType, _ = plumbing.ParseObjectType(v)
	}
	if v, ok := m.get("tag"); ok {
		t.Name = v
	}
	if v, ok := m.get("tagger"); ok {
		t.Tagger.Decode([]byte(v))
	}

	return nil
}

// Commit resolves the tag's target as a commit; fails with
// ErrUnsupportedObject if TargetType is not CommitObject.
func (t *Tag) Commit() (*Commit, error) {
	if t.TargetType != plumbing.CommitObject {
		return nil, ErrUnsupportedObject
	}
	return GetCommit(t.s, t.Target)
}

func (t *Tag) String() string {
	return fmt.Sprintf("tag %s\nTagger: %s\n\n%s", t.Name, t.Tagger.String(), t.Message)
}

// TagParams are the inputs to NewTag.
type TagParams struct {
	Target     plumbing.Hash
	TargetType plumbing.ObjectType
	Name       string
	Tagger     Signature
	Message    string
}

// NewTag composes the KVLM block for an annotated tag (object, type,
// tag, tagger, blank line, message) and stores it.
func NewTag(s Storer, p TagParams) (plumbing.Hash, error) {
	m := newKVLM()
	m.add("object", p.Target.String())
	m.add("type", p.TargetType.String())
	m.add("tag", p.Name)

	var taggerBuf bytes.Buffer
	p.Tagger.Encode(&taggerBuf)
	m.add("tagger", taggerBuf.String())

	m.message = []byte(p.Message)

	return writeEncoded(s, plumbing.TagObject, encodeKVLM(m, []string{"object", "type", "tag", "tagger"}))
}
