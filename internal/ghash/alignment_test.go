package ghash

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

// TestHPowersFieldAlignment checks HPowers' natural alignment. Go gives
// no portable way to request the 64-byte cache-line alignment the
// original C implementation pins its H-power table to with
// aligned_alloc(64, ...); the best this package can assert is that the
// Go compiler's own natural alignment for the table (8 bytes, from its
// uint64 fields) holds, and that the table's layout has no unexpected
// padding inflating Context's size.
func TestHPowersFieldAlignment(t *testing.T) {
	var hp HPowers
	require.Equal(t, uintptr(8), unsafe.Alignof(hp))
	require.Equal(t, uintptr(16*16), unsafe.Sizeof(hp))
}
