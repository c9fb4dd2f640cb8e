package keyboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemapFunctionRow(t *testing.T) {
	for i := 0; i <= 9; i++ {
		k := Remap(i)
		assert.Equal(t, FunctionKey(i), k, "mesh %d", i)
		assert.Equal(t, i, int(k-KeyF0), "function row position for mesh %d", i)
	}
}

func TestRemapNumericRowWrapsZero(t *testing.T) {
	for i := 29; i <= 38; i++ {
		k := Remap(i)
		assert.Equal(t, DigitKey((i-28)%10), k, "mesh %d", i)
	}
	assert.Equal(t, Key0, Remap(38))
	assert.Equal(t, Key1, Remap(29))
}

func TestRemapSpecialKeys(t *testing.T) {
	assert.Equal(t, KeyBreak, Remap(27))
	assert.Equal(t, KeyLeftShift, Remap(60))
	assert.Equal(t, KeyRightShift, Remap(71))

	for _, i := range []int{27, 60, 71} {
		k := Remap(i)
		assert.True(t, k.Special())
		_, ok := k.Coordinate()
		assert.False(t, ok, "special key %s must not have a matrix coordinate", k)
		assert.Equal(t, NoMapping, PackedIndex(i))
	}
}

func TestRemapUnmapped(t *testing.T) {
	for _, i := range []int{-1, 74, 75, 200} {
		assert.Equal(t, KeyNone, Remap(i), "mesh %d", i)
		assert.Equal(t, NoMapping, PackedIndex(i), "mesh %d", i)
	}
}

func TestPackedIndicesAreUniqueAndValid(t *testing.T) {
	seen := make(map[Packed]int)
	for i := 0; i <= 73; i++ {
		p := PackedIndex(i)
		if p == NoMapping {
			continue
		}
		require.True(t, p.Valid(), "mesh %d packed to %d", i, p)
		require.NotEqual(t, NoMapping, p)
		if prev, dup := seen[p]; dup {
			t.Fatalf("mesh %d and mesh %d both pack to %d", prev, i, p)
		}
		seen[p] = i
	}
	// 74 indices minus the three specials.
	assert.Len(t, seen, 71)
}

func TestCoordinateMatchesHardwareTable(t *testing.T) {
	cases := map[Key]MatrixCoordinate{
		KeyCtrl:   {Row: 0, Col: 1},
		KeyQ:      {Row: 1, Col: 0},
		KeyF0:     {Row: 2, Col: 0},
		KeyReturn: {Row: 4, Col: 9},
		KeySpace:  {Row: 6, Col: 2},
		KeyEscape: {Row: 7, Col: 0},
		KeyRight:  {Row: 7, Col: 9},
	}
	for k, want := range cases {
		got, ok := k.Coordinate()
		require.True(t, ok, k.String())
		assert.Equal(t, want, got, k.String())
		assert.Equal(t, want, got.Pack().Coordinate())
	}
}

func TestPackRoundTrip(t *testing.T) {
	c := MatrixCoordinate{Row: 7, Col: 15}
	assert.Equal(t, Packed(127), c.Pack())
	assert.True(t, c.Pack().Valid())
	assert.False(t, Packed(MatrixSize).Valid())
	assert.False(t, NoMapping.Valid())
}
