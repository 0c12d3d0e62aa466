package frame

import (
	"bytes"
	"errors"
	"testing"

	"github.com/danmuck/bsonflat/internal/protocol/bson"
	"github.com/danmuck/bsonflat/internal/testutil/testlog"
)

func buildDocument(t *testing.T) *bson.Writer {
	t.Helper()
	w := bson.NewWriter()
	if err := w.AddString("intent", "deploy"); err != nil {
		t.Fatalf("add string: %v", err)
	}
	if err := w.AddInt64("id", 42); err != nil {
		t.Fatalf("add int64: %v", err)
	}
	return w
}

func TestReadWriteDocumentRoundTrip(t *testing.T) {
	testlog.Start(t)
	w := buildDocument(t)
	want, err := w.Bytes()
	if err != nil {
		t.Fatalf("bytes: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteFrom(&buf, w, DefaultLimits()); err != nil {
		t.Fatalf("write from: %v", err)
	}
	if err := WriteDocument(&buf, []byte{5, 0, 0, 0, 0}, DefaultLimits()); err != nil {
		t.Fatalf("write empty: %v", err)
	}

	got, err := ReadDocument(&buf, DefaultLimits())
	if err != nil {
		t.Fatalf("read document: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("document mismatch: got=%x want=%x", got, want)
	}
	if v := bson.NewReader(got).Find("id").AsInt64(0); v != 42 {
		t.Fatalf("expected id 42, got %d", v)
	}

	empty, err := ReadDocument(&buf, DefaultLimits())
	if err != nil {
		t.Fatalf("read empty: %v", err)
	}
	if len(empty) != bson.EmptyDocumentLength {
		t.Fatalf("expected empty document, got %x", empty)
	}

	if _, err := ReadDocument(&buf, DefaultLimits()); !errors.Is(err, ErrShortHeader) {
		t.Fatalf("expected ErrShortHeader at end of stream, got %v", err)
	}
}

func TestReadDocumentShortHeader(t *testing.T) {
	_, err := ReadDocument(bytes.NewReader([]byte{1, 2, 3}), DefaultLimits())
	if !errors.Is(err, ErrShortHeader) {
		t.Fatalf("expected ErrShortHeader, got %v", err)
	}
}

func TestReadDocumentLengthTooSmall(t *testing.T) {
	_, err := ReadDocument(bytes.NewReader([]byte{4, 0, 0, 0, 0}), DefaultLimits())
	if !errors.Is(err, ErrLengthTooSmall) {
		t.Fatalf("expected ErrLengthTooSmall, got %v", err)
	}
	_, err = ReadDocument(bytes.NewReader([]byte{0xff, 0xff, 0xff, 0xff}), DefaultLimits())
	if !errors.Is(err, ErrLengthTooSmall) {
		t.Fatalf("expected ErrLengthTooSmall for negative length, got %v", err)
	}
}

func TestReadDocumentTooLarge(t *testing.T) {
	_, err := ReadDocument(bytes.NewReader([]byte{0x20, 0, 0, 0}), Limits{MaxDocumentBytes: 16})
	if !errors.Is(err, ErrDocumentTooLarge) {
		t.Fatalf("expected ErrDocumentTooLarge, got %v", err)
	}
}

func TestReadDocumentShortBody(t *testing.T) {
	_, err := ReadDocument(bytes.NewReader([]byte{8, 0, 0, 0, 0x0a, 0x41}), DefaultLimits())
	if !errors.Is(err, ErrShortBody) {
		t.Fatalf("expected ErrShortBody, got %v", err)
	}
}

func TestReadDocumentMissingTerminator(t *testing.T) {
	_, err := ReadDocument(bytes.NewReader([]byte{5, 0, 0, 0, 0xaa}), DefaultLimits())
	if !errors.Is(err, ErrMissingTerminator) {
		t.Fatalf("expected ErrMissingTerminator, got %v", err)
	}
}

func TestWriteDocumentRejectsInconsistentInput(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteDocument(&buf, []byte{5, 0}, DefaultLimits()); !errors.Is(err, ErrShortHeader) {
		t.Fatalf("expected ErrShortHeader, got %v", err)
	}
	if err := WriteDocument(&buf, []byte{6, 0, 0, 0, 0}, DefaultLimits()); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("expected ErrLengthMismatch, got %v", err)
	}
	if err := WriteDocument(&buf, []byte{5, 0, 0, 0, 1}, DefaultLimits()); !errors.Is(err, ErrMissingTerminator) {
		t.Fatalf("expected ErrMissingTerminator, got %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected nothing written, got %d bytes", buf.Len())
	}
}

func TestWriteFromLockedWriter(t *testing.T) {
	w := bson.NewWriter()
	child, err := w.AddDocument("open")
	if err != nil {
		t.Fatalf("add document: %v", err)
	}
	var buf bytes.Buffer
	if err := WriteFrom(&buf, w, DefaultLimits()); !errors.Is(err, bson.ErrLocked) {
		t.Fatalf("expected bson.ErrLocked, got %v", err)
	}
	if err := child.Close(); err != nil {
		t.Fatalf("close child: %v", err)
	}
	if err := WriteFrom(&buf, w, DefaultLimits()); err != nil {
		t.Fatalf("write after close: %v", err)
	}
}
