package bson

import (
	"bytes"
	"strings"

	"github.com/danmuck/bsonflat/internal/observability"
	"github.com/rs/zerolog/log"
)

// WriterOptions configures an auto-growing Writer.
type WriterOptions struct {
	InitialCapacity int
	Allocator       Allocator
}

func DefaultWriterOptions() WriterOptions {
	return WriterOptions{
		InitialCapacity: DefaultInitialCapacity,
		Allocator:       HeapAllocator{},
	}
}

// rootNode holds the buffer shared by a whole writer chain.
type rootNode struct {
	buf   []byte
	owned bool
	alloc Allocator
}

// childNode is an open sub-document. header is the offset of its length
// field inside the root buffer.
type childNode struct {
	parent *Writer
	header int
}

// Writer builds one (sub)document in place.
//
// A live Writer is either a root (root != nil) or a child (child != nil).
// next is the absolute offset of this document's terminator, which is also
// where the next element starts.
type Writer struct {
	root   *rootNode
	child  *childNode
	next   int
	locked bool
	closed bool
}

// NewWriter returns an auto-growing Writer with the default options.
func NewWriter() *Writer {
	return NewWriterWithOptions(DefaultWriterOptions())
}

// NewWriterWithOptions returns an auto-growing Writer. The result is invalid
// when the first allocation fails.
func NewWriterWithOptions(opts WriterOptions) *Writer {
	alloc := opts.Allocator
	if alloc == nil {
		alloc = HeapAllocator{}
	}
	size := max(opts.InitialCapacity, EmptyDocumentLength)
	if size > MaxLength {
		logRejected(ErrTooLarge, "")
		return invalidWriter()
	}
	buf, err := alloc.Allocate(size)
	if err != nil || len(buf) < EmptyDocumentLength {
		logRejected(ErrAllocFailed, "")
		return invalidWriter()
	}
	w := &Writer{root: &rootNode{buf: buf, owned: true, alloc: alloc}}
	w.updateOffset(buf, lengthBytes)
	return w
}

// NewFixedWriter writes into buf and never grows it. The Writer is invalid
// when buf cannot hold an empty document or exceeds MaxLength.
func NewFixedWriter(buf []byte) *Writer {
	if len(buf) < EmptyDocumentLength || len(buf) > MaxLength {
		logRejected(ErrBufferFull, "")
		return invalidWriter()
	}
	w := &Writer{root: &rootNode{buf: buf}}
	w.updateOffset(buf, lengthBytes)
	return w
}

func invalidWriter() *Writer {
	return &Writer{locked: true, closed: true}
}

// Valid reports whether the Writer has not been closed, released or
// constructed invalid. A Writer locked by an open child is still valid.
func (w *Writer) Valid() bool {
	return w != nil && !w.closed
}

// Locked reports whether the Writer currently rejects mutation.
func (w *Writer) Locked() bool {
	return w == nil || w.locked
}

func (w *Writer) AddDouble(name string, v float64) error {
	p, err := w.addElement(name, TypeDouble, 8)
	if err != nil {
		return err
	}
	writeF64LE(p, v)
	return nil
}

// AddString stores v in full; embedded NUL bytes are kept.
func (w *Writer) AddString(name, v string) error {
	return addString(w, name, v)
}

// AddCString stores v up to its first NUL byte.
func (w *Writer) AddCString(name, v string) error {
	if i := strings.IndexByte(v, 0x00); i >= 0 {
		v = v[:i]
	}
	return addString(w, name, v)
}

func (w *Writer) AddStringBytes(name string, v []byte) error {
	return addString(w, name, v)
}

func addString[T ~string | ~[]byte](w *Writer, name string, v T) error {
	if len(v) >= MaxLength-EmptyDocumentLength {
		return w.reject(ErrTooLarge, name)
	}
	p, err := w.addElement(name, TypeString, len(v)+EmptyDocumentLength)
	if err != nil {
		return err
	}
	writeI32LE(p, int32(len(v)+1))
	copy(p[lengthBytes:], v)
	p[lengthBytes+len(v)] = 0x00
	return nil
}

func (w *Writer) AddBinary(name string, data []byte, subtype Subtype) error {
	p, err := w.AllocBinary(name, len(data), subtype)
	if err != nil {
		return err
	}
	copy(p, data)
	return nil
}

// AllocBinary adds a binary element of n zero bytes and returns its body for
// the caller to fill. The slice aliases the Writer buffer and is only valid
// until the next mutation of this writer chain.
func (w *Writer) AllocBinary(name string, n int, subtype Subtype) ([]byte, error) {
	if n < 0 || n >= MaxLength-EmptyDocumentLength {
		return nil, w.reject(ErrTooLarge, name)
	}
	p, err := w.addElement(name, TypeBinary, n+EmptyDocumentLength)
	if err != nil {
		return nil, err
	}
	writeI32LE(p, int32(n))
	p[lengthBytes] = byte(subtype)
	body := p[EmptyDocumentLength:]
	clear(body)
	return body, nil
}

func (w *Writer) AddUndefined(name string) error {
	_, err := w.addElement(name, TypeUndefined, 0)
	return err
}

func (w *Writer) AddNull(name string) error {
	_, err := w.addElement(name, TypeNull, 0)
	return err
}

func (w *Writer) AddBoolean(name string, v bool) error {
	p, err := w.addElement(name, TypeBoolean, 1)
	if err != nil {
		return err
	}
	p[0] = 0x00
	if v {
		p[0] = 0x01
	}
	return nil
}

func (w *Writer) AddTrue(name string) error  { return w.AddBoolean(name, true) }
func (w *Writer) AddFalse(name string) error { return w.AddBoolean(name, false) }

func (w *Writer) AddInt32(name string, v int32) error {
	p, err := w.addElement(name, TypeInt32, 4)
	if err != nil {
		return err
	}
	writeI32LE(p, v)
	return nil
}

func (w *Writer) AddInt64(name string, v int64) error {
	p, err := w.addElement(name, TypeInt64, 8)
	if err != nil {
		return err
	}
	writeI64LE(p, v)
	return nil
}

// AddDocument opens an embedded document and locks w until the returned
// child is closed. On failure the returned Writer is invalid.
func (w *Writer) AddDocument(name string) (*Writer, error) {
	return w.addSubdocument(name, TypeDocument)
}

// AddArray is AddDocument for arrays. Element names are the caller's job
// ("0", "1", ...).
func (w *Writer) AddArray(name string) (*Writer, error) {
	return w.addSubdocument(name, TypeArray)
}

// AddDocumentFrom copies the finalized document held by src.
func (w *Writer) AddDocumentFrom(name string, src *Writer) error {
	return w.addSubdocumentFrom(name, TypeDocument, src)
}

// AddArrayFrom copies the finalized array held by src.
func (w *Writer) AddArrayFrom(name string, src *Writer) error {
	return w.addSubdocumentFrom(name, TypeArray, src)
}

// Bytes returns this (sub)document from its length header through its
// terminator. The slice aliases the Writer buffer.
func (w *Writer) Bytes() ([]byte, error) {
	if !w.Valid() {
		return nil, ErrClosed
	}
	if w.locked {
		return nil, ErrLocked
	}
	root, _ := w.rootOf()
	start, end := w.headerOffset(), w.next+1
	return root.buf[start:end:end], nil
}

// Len is the current encoded length of this (sub)document.
func (w *Writer) Len() int {
	if !w.Valid() {
		return 0
	}
	return w.next + 1 - w.headerOffset()
}

// Release hands the owned buffer to the caller and invalidates w. Fixed
// buffers and children cannot be released.
func (w *Writer) Release() ([]byte, error) {
	if !w.Valid() {
		return nil, ErrClosed
	}
	if w.locked {
		return nil, ErrLocked
	}
	if w.root == nil || !w.root.owned {
		return nil, ErrNotOwned
	}
	doc := w.root.buf[:w.next+1]
	w.root = nil
	w.locked, w.closed = true, true
	return doc, nil
}

// Close finalizes w. A root frees its owned buffer; a child unlocks its
// parent and patches the parent's length. Closing twice is a no-op.
func (w *Writer) Close() error {
	if !w.Valid() {
		return nil
	}
	if w.locked {
		return ErrLocked
	}
	w.locked, w.closed = true, true
	if w.root != nil {
		if w.root.owned {
			w.root.alloc.Free(w.root.buf)
		}
		w.root = nil
		return nil
	}

	//    <--total-->          <--total-->
	// .. yy 00 00 00 .. .. .. xx 00 00 00 .. .. .. .. .. 00 00
	//    |                    |                          |  |
	//    parent header        child header        w.next  parent.next
	parent := w.child.parent
	w.child = nil
	root, _ := parent.rootOf()
	parent.locked = false
	parent.updateOffset(root.buf, w.next+1)
	parent.sealAncestors(root.buf)
	return nil
}

// addElement reserves space for one element, writes its type and name and
// returns the payload region. Nothing is written unless it succeeds.
//
//	          <--------------- element --------------->
//	.. .. .. tt nn nn nn 00 pp pp pp pp pp pp pp pp pp 00 [ancestor terminators]
//	         |              |<--------- space --------->|
//	         w.next (old)   payload                     w.next (new)
func (w *Writer) addElement(name string, t Type, space int) ([]byte, error) {
	switch {
	case !w.Valid():
		return nil, w.reject(ErrClosed, name)
	case w.locked:
		return nil, w.reject(ErrLocked, name)
	case name == "":
		return nil, w.reject(ErrEmptyName, name)
	case strings.IndexByte(name, 0x00) >= 0:
		return nil, w.reject(ErrInvalidName, name)
	case space < 0 || space >= MaxLength:
		return nil, w.reject(ErrTooLarge, name)
	}

	root, depth := w.rootOf()
	nameLen := len(name) + 1
	// one extra byte per ancestor keeps room for every open terminator
	required := int64(w.next) + 1 + int64(nameLen) + int64(space) + 1 + int64(depth)
	if required > MaxLength {
		return nil, w.reject(ErrTooLarge, name)
	}
	if required > int64(len(root.buf)) {
		if err := root.grow(int(required)); err != nil {
			return nil, w.reject(err, name)
		}
	}

	buf := root.buf
	pos := w.next
	buf[pos] = byte(t)
	copy(buf[pos+1:], name)
	buf[pos+nameLen] = 0x00
	start := pos + 1 + nameLen
	end := start + space
	w.updateOffset(buf, end)
	w.sealAncestors(buf)
	return buf[start:end:end], nil
}

func (w *Writer) addSubdocument(name string, t Type) (*Writer, error) {
	p, err := w.addElement(name, t, EmptyDocumentLength)
	if err != nil {
		return invalidWriter(), err
	}
	writeI32LE(p, EmptyDocumentLength)
	p[lengthBytes] = 0x00
	w.locked = true
	return &Writer{
		child: &childNode{parent: w, header: w.next - EmptyDocumentLength},
		next:  w.next - 1,
	}, nil
}

func (w *Writer) addSubdocumentFrom(name string, t Type, src *Writer) error {
	if src == nil {
		return w.reject(ErrNotFinalized, name)
	}
	doc, err := src.Bytes()
	if err != nil {
		return w.reject(ErrNotFinalized, name)
	}
	if w.sharesRoot(src) {
		// growth may move the buffer doc points into
		doc = bytes.Clone(doc)
	}
	p, err := w.addElement(name, t, len(doc))
	if err != nil {
		return err
	}
	copy(p, doc)
	return nil
}

// updateOffset moves this document's terminator to next and rewrites its
// length header to match.
func (w *Writer) updateOffset(buf []byte, next int) {
	start := w.headerOffset()
	writeI32LE(buf[start:], int32(next+1-start))
	buf[next] = 0x00
	w.next = next
}

// sealAncestors closes every open ancestor right after w so the buffer holds
// a complete document while w is still being written.
func (w *Writer) sealAncestors(buf []byte) {
	end := w.next
	for n := w; n.child != nil; {
		n = n.child.parent
		end++
		n.updateOffset(buf, end)
	}
}

func (w *Writer) headerOffset() int {
	if w.child != nil {
		return w.child.header
	}
	return 0
}

// rootOf returns the root buffer holder and the number of ancestors above w.
func (w *Writer) rootOf() (*rootNode, int) {
	depth := 0
	n := w
	for n.child != nil {
		n = n.child.parent
		depth++
	}
	return n.root, depth
}

func (w *Writer) sharesRoot(other *Writer) bool {
	a, _ := w.rootOf()
	b, _ := other.rootOf()
	return a != nil && a == b
}

func (r *rootNode) grow(required int) error {
	if !r.owned {
		return ErrBufferFull
	}
	size := int64(len(r.buf))
	for size < int64(required) {
		size *= 2
	}
	size = min(size, MaxLength)
	buf, err := r.alloc.Grow(r.buf, int(size))
	if err != nil || len(buf) < required {
		return ErrAllocFailed
	}
	r.buf = buf
	observability.RecordWriterGrow()
	return nil
}

func (w *Writer) reject(err error, name string) error {
	logRejected(err, name)
	return err
}

func logRejected(err error, name string) {
	observability.RecordWriterFailure(failureReason(err))
	log.Debug().
		Str("component", "bson").
		Str("name", name).
		Err(err).
		Msg("bson.Writer rejected operation")
}

func failureReason(err error) string {
	switch err {
	case ErrLocked:
		return "locked"
	case ErrClosed:
		return "closed"
	case ErrEmptyName, ErrInvalidName:
		return "name"
	case ErrTooLarge:
		return "too_large"
	case ErrBufferFull:
		return "buffer_full"
	case ErrAllocFailed:
		return "alloc"
	case ErrNotFinalized:
		return "not_finalized"
	default:
		return "other"
	}
}
