// Package protocol owns the document wire contract and its parsing primitives.
//
// Ownership boundary:
// - bson document encoding/decoding (bson)
// - length-prefixed document framing over streams (frame)
package protocol
