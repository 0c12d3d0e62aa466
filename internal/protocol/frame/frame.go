package frame

import (
	"io"

	"github.com/danmuck/bsonflat/internal/observability"
	"github.com/danmuck/bsonflat/internal/protocol/bson"
	"github.com/pkg/errors"
)

const headerLen = 4

var (
	ErrShortHeader       = errors.New("frame: short length header")
	ErrLengthTooSmall    = errors.New("frame: declared length smaller than empty document")
	ErrDocumentTooLarge  = errors.New("frame: document too large")
	ErrShortBody         = errors.New("frame: short document body")
	ErrMissingTerminator = errors.New("frame: document not NUL terminated")
	ErrLengthMismatch    = errors.New("frame: declared length does not match buffer")
)

// Limits constrains framed document memory use.
type Limits struct {
	MaxDocumentBytes int
}

func DefaultLimits() Limits {
	return Limits{
		MaxDocumentBytes: 16 * 1024 * 1024,
	}
}

// ReadDocument reads exactly one document from r. The returned slice holds
// the whole document, length header and terminator included. Element level
// validation is left to bson.Reader.
func ReadDocument(r io.Reader, limits Limits) ([]byte, error) {
	var hdr [headerLen]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, ErrShortHeader
		}
		return nil, errors.Wrap(err, "frame: read header")
	}

	size := bson.QuerySize(hdr[:])
	if err := checkSize(size, limits); err != nil {
		return nil, err
	}

	doc := make([]byte, size)
	copy(doc, hdr[:])
	if _, err := io.ReadFull(r, doc[headerLen:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, errors.Wrapf(ErrShortBody, "declared %d bytes", size)
		}
		return nil, errors.Wrap(err, "frame: read body")
	}
	if doc[size-1] != 0x00 {
		return nil, ErrMissingTerminator
	}
	observability.RecordFrameDocument("read")
	return doc, nil
}

// WriteDocument writes doc after checking its header against its length.
func WriteDocument(w io.Writer, doc []byte, limits Limits) error {
	size := bson.QuerySize(doc)
	if size < 0 {
		return ErrShortHeader
	}
	if err := checkSize(size, limits); err != nil {
		return err
	}
	if size != len(doc) {
		return errors.Wrapf(ErrLengthMismatch, "declared %d, have %d", size, len(doc))
	}
	if doc[size-1] != 0x00 {
		return ErrMissingTerminator
	}
	if _, err := w.Write(doc); err != nil {
		return errors.Wrap(err, "frame: write document")
	}
	observability.RecordFrameDocument("write")
	return nil
}

// WriteFrom writes the document held by a finalized Writer. A Writer with an
// open sub-document is rejected with bson.ErrLocked.
func WriteFrom(w io.Writer, src *bson.Writer, limits Limits) error {
	doc, err := src.Bytes()
	if err != nil {
		return errors.Wrap(err, "frame: source writer")
	}
	return WriteDocument(w, doc, limits)
}

func checkSize(size int, limits Limits) error {
	if size < bson.EmptyDocumentLength {
		return errors.Wrapf(ErrLengthTooSmall, "declared %d", size)
	}
	if limits.MaxDocumentBytes > 0 && size > limits.MaxDocumentBytes {
		return errors.Wrapf(ErrDocumentTooLarge, "declared %d, limit %d", size, limits.MaxDocumentBytes)
	}
	return nil
}
