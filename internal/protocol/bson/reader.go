package bson

import "iter"

// Reader is a read-only view over an encoded document. It never copies or
// owns the bytes; they must stay unmodified while the Reader, or anything
// derived from it, is in use. The zero Reader is invalid.
type Reader struct {
	buf []byte
}

func NewReader(buf []byte) Reader {
	return Reader{buf: buf}
}

func (r Reader) Valid() bool {
	return r.buf != nil
}

// Bytes returns the buffer the Reader was built over.
func (r Reader) Bytes() []byte {
	return r.buf
}

// QuerySize returns the length declared by the document header in buf, or -1
// when fewer than 4 bytes are available. It does not validate anything else.
func QuerySize(buf []byte) int {
	if len(buf) < lengthBytes {
		return -1
	}
	return int(readI32LE(buf))
}

// Begin returns an iterator positioned on the first element. The iterator is
// failed when the header is short, below 4 or larger than the buffer. An
// invalid Reader yields an ended iterator.
func (r Reader) Begin() Iterator {
	if !r.Valid() {
		return r.End()
	}
	it := Iterator{buf: r.buf, state: StatePositioned}
	if len(r.buf) < lengthBytes {
		it.fail(0, "header")
		return it
	}
	total := readI32LE(r.buf)
	if total < lengthBytes || int64(total) > int64(len(r.buf)) {
		it.fail(0, "header")
		return it
	}
	it.end = int(total)
	it.next = lengthBytes
	it.Next()
	return it
}

// End returns the iterator every clean walk finishes on.
func (r Reader) End() Iterator {
	return Iterator{state: StateEnded}
}

// Find returns the first element named name, or the invalid Element when it
// is absent or the document fails before reaching it.
func (r Reader) Find(name string) Element {
	for it := r.Begin(); it.Positioned(); it.Next() {
		if string(it.cur.name) == name {
			return it.cur
		}
	}
	return Element{}
}

// Elements yields each element in order and stops silently on a malformed
// document; use Begin or Validate when the failure matters.
func (r Reader) Elements() iter.Seq[Element] {
	return func(yield func(Element) bool) {
		for it := r.Begin(); it.Positioned(); it.Next() {
			if !yield(it.cur) {
				return
			}
		}
	}
}

// Validate walks the whole document, descending into embedded documents and
// arrays, and returns ErrMalformed on the first structural error.
func (r Reader) Validate() error {
	if !r.Valid() {
		return ErrMalformed
	}
	it := r.Begin()
	for ; it.Positioned(); it.Next() {
		if it.cur.typ == TypeDocument || it.cur.typ == TypeArray {
			if err := NewReader(it.cur.data).Validate(); err != nil {
				return err
			}
		}
	}
	return it.Err()
}
