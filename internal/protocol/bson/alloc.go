package bson

// Allocator supplies and grows the owned buffer of an auto-growing Writer.
//
// Grow returns a buffer, normally size bytes long, whose prefix holds the
// contents of buf. The Writer treats an error, or a result shorter than the
// space it needs, as an allocation failure and keeps using buf unchanged.
type Allocator interface {
	Allocate(size int) ([]byte, error)
	Grow(buf []byte, size int) ([]byte, error)
	Free(buf []byte)
}

// HeapAllocator allocates from the Go heap and leaves reclamation to the GC.
type HeapAllocator struct{}

func (HeapAllocator) Allocate(size int) ([]byte, error) {
	if size < 0 || size > MaxLength {
		return nil, ErrAllocFailed
	}
	return make([]byte, size), nil
}

func (HeapAllocator) Grow(buf []byte, size int) ([]byte, error) {
	if size < 0 || size > MaxLength {
		return nil, ErrAllocFailed
	}
	if size <= cap(buf) {
		return buf[:size], nil
	}
	grown := make([]byte, size)
	copy(grown, buf)
	return grown, nil
}

func (HeapAllocator) Free([]byte) {}

// LimitAllocator caps buffers at Max bytes. Growth is clamped to Max, so a
// doubling Writer can still use the space between its last size and the cap.
// A nil Base falls back to HeapAllocator.
type LimitAllocator struct {
	Max  int
	Base Allocator
}

func (a LimitAllocator) Allocate(size int) ([]byte, error) {
	if size > a.Max {
		return nil, ErrAllocFailed
	}
	return a.base().Allocate(size)
}

func (a LimitAllocator) Grow(buf []byte, size int) ([]byte, error) {
	if size > a.Max {
		size = a.Max
	}
	if size <= len(buf) {
		return nil, ErrAllocFailed
	}
	return a.base().Grow(buf, size)
}

func (a LimitAllocator) Free(buf []byte) { a.base().Free(buf) }

func (a LimitAllocator) base() Allocator {
	if a.Base == nil {
		return HeapAllocator{}
	}
	return a.Base
}
