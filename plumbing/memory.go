package plumbing

import (
	"bytes"
	"io"
)

// MemoryObject is an in-memory implementation of EncodedObject, used to
// build an object's bytes before handing it to the object store for
// hashing and writing.
type MemoryObject struct {
	t    ObjectType
	h    Hash
	sz   int64
	cont []byte
}

func (o *MemoryObject) Hash() Hash {
	if o.h.IsZero() {
		o.h = ComputeHash(o.t, o.cont)
	}
	return o.h
}

func (o *MemoryObject) Type() ObjectType         { return o.t }
func (o *MemoryObject) SetType(t ObjectType)     { o.t = t }
func (o *MemoryObject) Size() int64              { return o.sz }
func (o *MemoryObject) SetSize(s int64)          { o.sz = s }
func (o *MemoryObject) Bytes() []byte            { return o.cont }

// Write appends p to the object's content directly, without going
// through Writer's io.WriteCloser. Convenient for in-memory callers that
// already have the full payload.
func (o *MemoryObject) Write(p []byte) (int, error) {
	o.cont = append(o.cont, p...)
	o.sz = int64(len(o.cont))
	o.h = ZeroHash
	return len(p), nil
}

func (o *MemoryObject) Reader() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(o.cont)), nil
}

func (o *MemoryObject) Writer() (io.WriteCloser, error) {
	return &memoryObjectWriter{o: o}, nil
}

type memoryObjectWriter struct {
	o   *MemoryObject
	buf bytes.Buffer
}

func (w *memoryObjectWriter) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

func (w *memoryObjectWriter) Close() error {
	w.o.cont = w.buf.Bytes()
	w.o.sz = int64(len(w.o.cont))
	w.o.h = ZeroHash
	return nil
}
