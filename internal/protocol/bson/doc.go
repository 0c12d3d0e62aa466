/*
Package bson encodes and decodes a flat, BSON compatible document format.

Only the subset used by the wire contract is supported: double, string,
document, array, binary, undefined, boolean, null, int32 and int64.

# Layout

All integers are little-endian. Lengths are self-inclusive.

	Document := int32 total_length  Element*  0x00
	Element  := uint8 type  cstring name  payload

# Writing

A Writer builds a document in place inside a single byte buffer. The buffer is
either owned (grown through an Allocator) or a fixed region supplied by the
caller. Sub-documents are opened with AddDocument/AddArray which return a child
Writer sharing the same buffer; the parent is locked until the child is closed.

After every successful call the buffer holds a complete document, including the
length headers and terminators of every open ancestor. A failed call leaves the
buffer untouched.

	w := bson.NewWriter()
	defer w.Close()
	_ = w.AddInt32("id", 7)
	sub, _ := w.AddDocument("meta")
	_ = sub.AddString("name", "edge")
	_ = sub.Close()
	doc, _ := w.Bytes()

# Reading

A Reader is a view over caller memory. Its Iterator validates each element as
it advances and never reads past the declared document length. A malformed or
truncated document leaves the iterator in the failed state, which is distinct
from a clean end.

	r := bson.NewReader(doc)
	for it := r.Begin(); it.Positioned(); it.Next() {
		e := it.Element()
		...
	}
*/
package bson
