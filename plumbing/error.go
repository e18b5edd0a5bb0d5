package plumbing

import "errors"

// Error kinds surfaced by the core. Callers compare with errors.Is; no
// kind aliases another.
var (
	ErrNotARepository      = errors.New("not a repository")
	ErrUnsupportedFormat   = errors.New("unsupported format")
	ErrObjectNotFound      = errors.New("object not found")
	ErrAmbiguousObject     = errors.New("ambiguous object")
	ErrMalformedObject     = errors.New("malformed object")
	ErrUnknownObjectType   = errors.New("unknown object type")
	ErrInvalidPath         = errors.New("invalid path")
	ErrMissingIdentity     = errors.New("missing identity")
	ErrReferenceCycle      = errors.New("reference cycle")
	ErrReferenceNotFound   = errors.New("reference not found")
	ErrInvalidReferenceName = errors.New("invalid reference name")
	ErrDestinationNotEmpty = errors.New("destination not empty")
	ErrTypeMismatch        = errors.New("type mismatch")
)
