// Package plumbing implements the core interfaces and structs used by vesi.
package plumbing

import "io"

// EncodedObject is a generic representation of any object stored in the
// object store: a type, a size, and a stream of the object's payload
// (the framed header is never part of the payload stream).
type EncodedObject interface {
	Hash() Hash
	Type() ObjectType
	SetType(ObjectType)
	Size() int64
	SetSize(int64)
	Reader() (io.ReadCloser, error)
	Writer() (io.WriteCloser, error)
}

// ObjectType identifies the kind of an object. Values match the type
// codes used by the wider ecosystem so that a hand-read framed header
// can be switched on directly.
type ObjectType int8

const (
	// InvalidObject represents an invalid object type.
	InvalidObject ObjectType = 0
	// CommitObject is a commit object.
	CommitObject ObjectType = 1
	// TreeObject is a tree object.
	TreeObject ObjectType = 2
	// BlobObject is a blob object.
	BlobObject ObjectType = 3
	// TagObject is an annotated tag object.
	TagObject ObjectType = 4

	// AnyObject is used where any object type is acceptable.
	AnyObject ObjectType = -127
)

func (t ObjectType) String() string {
	switch t {
	case CommitObject:
		return "commit"
	case TreeObject:
		return "tree"
	case BlobObject:
		return "blob"
	case TagObject:
		return "tag"
	case AnyObject:
		return "any"
	default:
		return "unknown"
	}
}

// Bytes returns the byte representation of the ObjectType, as it appears
// in the framed object header.
func (t ObjectType) Bytes() []byte {
	return []byte(t.String())
}

// Valid reports whether t is one of the four storable object types.
func (t ObjectType) Valid() bool {
	return t >= CommitObject && t <= TagObject
}

// ParseObjectType parses the textual type tag found in a framed object
// header.
func ParseObjectType(value string) (ObjectType, error) {
	switch value {
	case "commit":
		return CommitObject, nil
	case "tree":
		return TreeObject, nil
	case "blob":
		return BlobObject, nil
	case "tag":
		return TagObject, nil
	default:
		return InvalidObject, ErrUnknownObjectType
	}
}
