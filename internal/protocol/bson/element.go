package bson

import (
	"bytes"
	"fmt"
	"math"
)

// Element is one field of a document as captured by the Iterator: its type,
// its name and its payload bytes, all aliasing the Reader buffer. The zero
// Element is invalid.
type Element struct {
	typ     Type
	name    []byte
	data    []byte
	nameOff int
}

func (e Element) Valid() bool { return e.typ != 0 }
func (e Element) Type() Type  { return e.typ }

func (e Element) Name() string { return string(e.name) }

// NameBytes returns the name without its NUL terminator, without copying.
func (e Element) NameBytes() []byte { return e.name }

// Payload returns the raw payload bytes as they appear on the wire.
func (e Element) Payload() []byte { return e.data }

func (e Element) String() string {
	if !e.Valid() {
		return "<invalid>"
	}
	return fmt.Sprintf("%s:%s", e.name, e.typ)
}

func (e Element) IsDouble() bool    { return e.typ == TypeDouble }
func (e Element) IsString() bool    { return e.typ == TypeString }
func (e Element) IsDocument() bool  { return e.typ == TypeDocument }
func (e Element) IsArray() bool     { return e.typ == TypeArray }
func (e Element) IsBinary() bool    { return e.typ == TypeBinary }
func (e Element) IsUndefined() bool { return e.typ == TypeUndefined }
func (e Element) IsBoolean() bool   { return e.typ == TypeBoolean }
func (e Element) IsNull() bool      { return e.typ == TypeNull }
func (e Element) IsInt32() bool     { return e.typ == TypeInt32 }
func (e Element) IsInt64() bool     { return e.typ == TypeInt64 }

func (e Element) IsNullOrUndefined() bool { return e.IsNull() || e.IsUndefined() }
func (e Element) IsInteger() bool         { return e.IsInt32() || e.IsInt64() }
func (e Element) IsNumber() bool          { return e.IsDouble() || e.IsInteger() }

func (e Element) Double() (float64, bool) {
	if !e.IsDouble() {
		return 0, false
	}
	return readF64LE(e.data), true
}

// StringValue returns the full stored string, including embedded NULs.
func (e Element) StringValue() (string, bool) {
	b, ok := e.StringBytes()
	if !ok {
		return "", false
	}
	return string(b), true
}

// StringBytes returns the stored string bytes without the trailing NUL,
// without copying.
func (e Element) StringBytes() ([]byte, bool) {
	if !e.IsString() {
		return nil, false
	}
	return e.data[lengthBytes : len(e.data)-1], true
}

// CString returns the stored string up to its first NUL.
func (e Element) CString() (string, bool) {
	b, ok := e.StringBytes()
	if !ok {
		return "", false
	}
	if i := bytes.IndexByte(b, 0x00); i >= 0 {
		b = b[:i]
	}
	return string(b), true
}

// Binary returns the binary body without copying.
func (e Element) Binary() ([]byte, bool) {
	b, _, ok := e.BinarySubtype()
	return b, ok
}

func (e Element) BinarySubtype() ([]byte, Subtype, bool) {
	if !e.IsBinary() {
		return nil, SubtypeGeneric, false
	}
	return e.data[lengthBytes+1:], Subtype(e.data[lengthBytes]), true
}

// Boolean treats any non-zero stored byte as true.
func (e Element) Boolean() (bool, bool) {
	if !e.IsBoolean() {
		return false, false
	}
	return e.data[0] != 0x00, true
}

func (e Element) Int32() (int32, bool) {
	if !e.IsInt32() {
		return 0, false
	}
	return readI32LE(e.data), true
}

func (e Element) Int64() (int64, bool) {
	if !e.IsInt64() {
		return 0, false
	}
	return readI64LE(e.data), true
}

// Integer accepts int32 and int64 elements.
func (e Element) Integer() (int64, bool) {
	switch e.typ {
	case TypeInt32:
		return int64(readI32LE(e.data)), true
	case TypeInt64:
		return readI64LE(e.data), true
	default:
		return 0, false
	}
}

// Number accepts double, int32 and int64 elements.
func (e Element) Number() (float64, bool) {
	switch e.typ {
	case TypeDouble:
		return readF64LE(e.data), true
	case TypeInt32:
		return float64(readI32LE(e.data)), true
	case TypeInt64:
		return float64(readI64LE(e.data)), true
	default:
		return 0, false
	}
}

func (e Element) AsDouble(def float64) float64 {
	if v, ok := e.Double(); ok {
		return v
	}
	return def
}

func (e Element) AsString(def string) string {
	if v, ok := e.StringValue(); ok {
		return v
	}
	return def
}

func (e Element) AsStringBytes(def []byte) []byte {
	if v, ok := e.StringBytes(); ok {
		return v
	}
	return def
}

func (e Element) AsBinary(def []byte) []byte {
	if v, ok := e.Binary(); ok {
		return v
	}
	return def
}

func (e Element) AsBinarySubtype(def []byte, defSubtype Subtype) ([]byte, Subtype) {
	if v, s, ok := e.BinarySubtype(); ok {
		return v, s
	}
	return def, defSubtype
}

func (e Element) AsBoolean(def bool) bool {
	if v, ok := e.Boolean(); ok {
		return v
	}
	return def
}

func (e Element) AsInt32(def int32) int32 {
	if v, ok := e.Int32(); ok {
		return v
	}
	return def
}

func (e Element) AsInt64(def int64) int64 {
	if v, ok := e.Int64(); ok {
		return v
	}
	return def
}

func (e Element) AsInteger(def int64) int64 {
	if v, ok := e.Integer(); ok {
		return v
	}
	return def
}

func (e Element) AsNumber(def float64) float64 {
	if v, ok := e.Number(); ok {
		return v
	}
	return def
}

// AsDocument returns a Reader over the embedded document, or def when e is
// not a document.
func (e Element) AsDocument(def Reader) Reader {
	return e.asSubdocument(def, TypeDocument)
}

// AsArray returns a Reader over the array, or def when e is not an array.
func (e Element) AsArray(def Reader) Reader {
	return e.asSubdocument(def, TypeArray)
}

func (e Element) asSubdocument(def Reader, t Type) Reader {
	if e.typ != t {
		return def
	}
	return NewReader(e.data)
}

// Truthy applies a per-type rule; there is no universal falsiness.
func (e Element) Truthy() bool {
	switch e.typ {
	case TypeDouble:
		v := readF64LE(e.data)
		return !math.IsNaN(v) && v != 0
	case TypeString:
		return readI32LE(e.data) > 1
	case TypeDocument, TypeArray, TypeBinary:
		return true
	case TypeBoolean:
		return e.data[0] != 0x00
	case TypeInt32:
		return readI32LE(e.data) != 0
	case TypeInt64:
		return readI64LE(e.data) != 0
	default:
		return false
	}
}

func (e Element) Falsy() bool { return !e.Truthy() }
