package plumbing

import (
	"encoding/hex"
	"hash"
	"io"
	"sort"
	"strconv"

	"github.com/pjbgf/sha1cd"
)

// Hash is the SHA-1 identity of an object: the hash of its framed
// bytes ("{type} {size}\0{payload}"), derived before compression.
type Hash [20]byte

// ZeroHash is the zero value of a Hash.
var ZeroHash Hash

// NewHash parses the 40-character lowercase hex form of a Hash. Short
// or malformed input returns the zero Hash.
func NewHash(s string) Hash {
	var h Hash
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != len(h) {
		return ZeroHash
	}
	copy(h[:], b)
	return h
}

// IsHash reports whether s is a well-formed 40-character hex hash
// string; upper- and lowercase hex digits are both accepted.
func IsHash(s string) bool {
	if len(s) != 40 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

func (h Hash) IsZero() bool {
	return h == ZeroHash
}

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// HashSlice attaches the sort.Interface to []Hash.
type HashSlice []Hash

func (p HashSlice) Len() int           { return len(p) }
func (p HashSlice) Less(i, j int) bool { return p[i].String() < p[j].String() }
func (p HashSlice) Swap(i, j int)      { p[i], p[j] = p[j], p[i] }

// SortHashes sorts a slice of Hash in ascending lexicographic order.
func SortHashes(h []Hash) { sort.Sort(HashSlice(h)) }

// Hasher computes the identity of an object incrementally: write the
// framed header, then the payload, then Sum.
type Hasher struct {
	hash.Hash
}

// NewHasher returns a Hasher with the object header already written.
func NewHasher(t ObjectType, size int64) Hasher {
	h := Hasher{sha1cd.New()}
	h.Write(t.Bytes())
	h.Write([]byte(" "))
	h.Write([]byte(strconv.FormatInt(size, 10)))
	h.Write([]byte{0})
	return h
}

// Sum returns the resulting Hash.
func (h Hasher) Sum() (hash Hash) {
	copy(hash[:], h.Hash.Sum(nil))
	return
}

// ComputeHash computes the Hash of an object, given its type and
// contents, without needing a Hasher sink.
func ComputeHash(t ObjectType, content []byte) Hash {
	h := NewHasher(t, int64(len(content)))
	h.Write(content)
	return h.Sum()
}

// HashFromReader streams r through a Hasher, returning the resulting
// Hash. size must equal the number of bytes r yields.
func HashFromReader(t ObjectType, size int64, r io.Reader) (Hash, error) {
	h := NewHasher(t, size)
	if _, err := io.Copy(h, r); err != nil {
		return ZeroHash, err
	}
	return h.Sum(), nil
}
