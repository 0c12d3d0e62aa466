package bson

import "errors"

var (
	ErrLocked       = errors.New("bson: writer locked by open sub-document")
	ErrClosed       = errors.New("bson: writer closed or invalid")
	ErrEmptyName    = errors.New("bson: empty element name")
	ErrInvalidName  = errors.New("bson: element name contains NUL")
	ErrTooLarge     = errors.New("bson: length exceeds int32 range")
	ErrBufferFull   = errors.New("bson: fixed buffer exhausted")
	ErrAllocFailed  = errors.New("bson: buffer allocation failed")
	ErrNotFinalized = errors.New("bson: source writer not finalized")
	ErrNotOwned     = errors.New("bson: writer does not own its buffer")
	ErrMalformed    = errors.New("bson: malformed document")
)
