package bson

import (
	"bytes"

	"github.com/danmuck/bsonflat/internal/observability"
	"github.com/rs/zerolog/log"
)

// IterState is the condition of an Iterator.
type IterState uint8

const (
	// StatePositioned means Element returns a valid element.
	StatePositioned IterState = iota
	// StateEnded means the document terminator was consumed cleanly.
	StateEnded
	// StateFailed means the bytes violate the format.
	StateFailed
)

func (s IterState) String() string {
	switch s {
	case StatePositioned:
		return "positioned"
	case StateEnded:
		return "ended"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Iterator is a forward-only cursor over the elements of one document.
// next and end are offsets into buf; end is one past the terminator.
type Iterator struct {
	buf   []byte
	cur   Element
	next  int
	end   int
	state IterState
}

func (it Iterator) Element() Element { return it.cur }
func (it Iterator) State() IterState { return it.state }
func (it Iterator) Positioned() bool { return it.state == StatePositioned }
func (it Iterator) Ended() bool      { return it.state == StateEnded }
func (it Iterator) Failed() bool     { return it.state == StateFailed }

// Offset is the position of the next read, or of the failure once failed.
func (it Iterator) Offset() int { return it.next }

// Err returns ErrMalformed once the iterator has failed.
func (it Iterator) Err() error {
	if it.state == StateFailed {
		return ErrMalformed
	}
	return nil
}

// Equal compares positioned iterators by the identity of their current
// element (same name byte in the same memory), not by value. Iterators that
// are not positioned are equal when they are in the same state.
func (it Iterator) Equal(other Iterator) bool {
	if it.state != other.state {
		return false
	}
	if it.state != StatePositioned {
		return true
	}
	return &it.buf[it.cur.nameOff] == &other.buf[other.cur.nameOff]
}

// Next moves to the following element, validating it against the document
// boundary. Ended and failed iterators do not move.
func (it *Iterator) Next() {
	if it.state != StatePositioned {
		return
	}
	buf, pos, end := it.buf, it.next, it.end
	if pos >= end {
		it.fail(pos, "unterminated")
		return
	}

	t := Type(buf[pos])
	pos++
	if t == 0x00 {
		it.cur = Element{}
		it.next = pos
		it.state = StateEnded
		return
	}

	nameStart := pos
	n := bytes.IndexByte(buf[pos:end], 0x00)
	if n < 0 {
		it.fail(nameStart, "name")
		return
	}
	pos += n + 1

	if !knownType(t) {
		it.fail(nameStart-1, "type")
		return
	}
	width, ok := payloadWidth(t, buf[pos:end])
	if !ok {
		it.fail(pos, "payload")
		return
	}
	nameEnd := nameStart + n
	dataEnd := pos + width
	it.cur = Element{
		typ:     t,
		name:    buf[nameStart:nameEnd:nameEnd],
		data:    buf[pos:dataEnd:dataEnd],
		nameOff: nameStart,
	}
	it.next = dataEnd
}

func (it *Iterator) fail(at int, reason string) {
	it.cur = Element{}
	it.next = at
	it.state = StateFailed
	observability.RecordIteratorFailure(reason)
	log.Debug().
		Str("component", "bson").
		Str("reason", reason).
		Int("offset", at).
		Msg("bson.Iterator failed")
}

func knownType(t Type) bool {
	switch t {
	case TypeDouble, TypeString, TypeDocument, TypeArray, TypeBinary,
		TypeUndefined, TypeBoolean, TypeNull, TypeInt32, TypeInt64:
		return true
	}
	return false
}

// payloadWidth returns how many bytes of rest the payload of a t element
// occupies, or false when it does not fit or is inconsistent.
func payloadWidth(t Type, rest []byte) (int, bool) {
	switch t {
	case TypeDouble, TypeInt64:
		return fixedWidth(8, rest)
	case TypeInt32:
		return fixedWidth(4, rest)
	case TypeBoolean:
		return fixedWidth(1, rest)
	case TypeUndefined, TypeNull:
		return 0, true
	case TypeString:
		// int32 len ++ bytes ++ 0x00, len counts the NUL
		l, ok := declaredLength(rest)
		if !ok || l < 1 || l > int64(len(rest)-lengthBytes) {
			return 0, false
		}
		width := lengthBytes + int(l)
		return width, rest[width-1] == 0x00
	case TypeDocument, TypeArray:
		// nested document, len counts itself
		l, ok := declaredLength(rest)
		if !ok || l < EmptyDocumentLength || l > int64(len(rest)) {
			return 0, false
		}
		width := int(l)
		return width, rest[width-1] == 0x00
	case TypeBinary:
		// int32 len ++ subtype ++ bytes
		l, ok := declaredLength(rest)
		if !ok || l < 0 || l > int64(len(rest)-lengthBytes-1) {
			return 0, false
		}
		return lengthBytes + 1 + int(l), true
	}
	return 0, false
}

func fixedWidth(n int, rest []byte) (int, bool) {
	return n, len(rest) >= n
}

func declaredLength(rest []byte) (int64, bool) {
	if len(rest) < lengthBytes {
		return 0, false
	}
	return int64(readI32LE(rest)), true
}
