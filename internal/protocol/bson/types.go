package bson

import (
	"fmt"
	"math"
)

const (
	// EmptyDocumentLength is the size of a document with no elements.
	EmptyDocumentLength = 5

	// MaxLength bounds every declared length in the format.
	MaxLength = math.MaxInt32

	// DefaultInitialCapacity is the first allocation of an auto-growing Writer.
	DefaultInitialCapacity = 128

	lengthBytes = 4
)

// Type is the element type tag written before each element name.
type Type uint8

const (
	TypeDouble    Type = 0x01
	TypeString    Type = 0x02
	TypeDocument  Type = 0x03
	TypeArray     Type = 0x04
	TypeBinary    Type = 0x05
	TypeUndefined Type = 0x06 // deprecated in the upstream format
	TypeBoolean   Type = 0x08
	TypeNull      Type = 0x0a
	TypeInt32     Type = 0x10
	TypeInt64     Type = 0x12
)

func (t Type) String() string {
	switch t {
	case TypeDouble:
		return "double"
	case TypeString:
		return "string"
	case TypeDocument:
		return "document"
	case TypeArray:
		return "array"
	case TypeBinary:
		return "binary"
	case TypeUndefined:
		return "undefined"
	case TypeBoolean:
		return "boolean"
	case TypeNull:
		return "null"
	case TypeInt32:
		return "int32"
	case TypeInt64:
		return "int64"
	default:
		return fmt.Sprintf("type(0x%02x)", uint8(t))
	}
}

// Subtype qualifies the content of a binary element.
type Subtype uint8

const (
	SubtypeGeneric       Subtype = 0x00
	SubtypeFunction      Subtype = 0x01
	SubtypeBinary        Subtype = 0x02
	SubtypeUUIDOld       Subtype = 0x04
	SubtypeUUID          Subtype = 0x04
	SubtypeMD5           Subtype = 0x05
	SubtypeEncryptedBSON Subtype = 0x06
	SubtypeUserDefined   Subtype = 0x80
)

func (s Subtype) String() string {
	switch s {
	case SubtypeGeneric:
		return "generic"
	case SubtypeFunction:
		return "function"
	case SubtypeBinary:
		return "binary"
	case SubtypeUUID:
		return "uuid"
	case SubtypeMD5:
		return "md5"
	case SubtypeEncryptedBSON:
		return "encrypted_bson"
	case SubtypeUserDefined:
		return "user_defined"
	default:
		return fmt.Sprintf("subtype(0x%02x)", uint8(s))
	}
}
