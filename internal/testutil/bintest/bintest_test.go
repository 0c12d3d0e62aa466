package bintest

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHexAndDump(t *testing.T) {
	b := Hex(t, "05 00\n00 00 0a")
	require.Equal(t, []byte{0x05, 0x00, 0x00, 0x00, 0x0a}, b)
	require.Equal(t, "05 00 00 00 0a", Dump(b))
	Equal(t, "05 00 00 00 0a", b)
}

func TestFilled(t *testing.T) {
	require.Equal(t, []byte{0xaa, 0xaa, 0xaa}, Filled(3, 0xaa))
}
