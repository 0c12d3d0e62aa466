// Package bintest parses hex fixtures and diffs encoded bytes in tests.
package bintest

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// Hex decodes a whitespace separated hex fixture such as "05 00 00 00 00".
func Hex(t testing.TB, fixture string) []byte {
	t.Helper()
	b, err := hex.DecodeString(strings.Join(strings.Fields(fixture), ""))
	if err != nil {
		t.Fatalf("bad hex fixture %q: %v", fixture, err)
	}
	return b
}

// Dump formats b the way fixtures are written.
func Dump(b []byte) string {
	var sb strings.Builder
	for i, c := range b {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(hex.EncodeToString([]byte{c}))
	}
	return sb.String()
}

// Equal fails the test when got differs from the hex fixture want, printing
// both dumps and a byte level diff.
func Equal(t testing.TB, want string, got []byte) {
	t.Helper()
	exp := Hex(t, want)
	if diff := cmp.Diff(exp, got); diff != "" {
		t.Fatalf("bytes mismatch\n(expected) %s\n( actual ) %s\n-want +got:\n%s", Dump(exp), Dump(got), diff)
	}
}

// Filled returns n bytes of fill, used to catch writes past a boundary.
func Filled(n int, fill byte) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = fill
	}
	return b
}
