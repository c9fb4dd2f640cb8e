package framebuffer

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewsAlias(t *testing.T) {
	fb := New()
	require.Len(t, fb.Bytes(), PixelCount*4)
	require.Len(t, fb.Pixels(), PixelCount)

	fb.Pixels()[1] = 0x11223344
	assert.Equal(t, uint32(0x11223344), binary.NativeEndian.Uint32(fb.Bytes()[4:8]))
	assert.Same(t, &fb.Bytes()[0], &fb.Texture().Image().Pix[0])
}

func TestPaintCopiesAndMarksDirty(t *testing.T) {
	fb := New()
	src := make([]uint32, PixelCount)
	src[0] = 0xff0000ff
	src[PixelCount-1] = 0xdeadbeef

	v := fb.Texture().Version()
	require.NoError(t, fb.Paint(src))

	assert.Equal(t, uint32(0xff0000ff), fb.Pixels()[0])
	assert.Equal(t, uint32(0xdeadbeef), fb.Pixels()[PixelCount-1])
	assert.Greater(t, fb.Texture().Version(), v)

	// The copy is a snapshot, not an alias of the source.
	src[0] = 0
	assert.Equal(t, uint32(0xff0000ff), fb.Pixels()[0])
}

func TestPaintSizeMismatch(t *testing.T) {
	fb := New()
	fb.Pixels()[0] = 42
	v := fb.Texture().Version()

	for _, n := range []int{0, PixelCount - 1, PixelCount + 1} {
		err := fb.Paint(make([]uint32, n))
		require.ErrorIs(t, err, ErrSizeMismatch, "len %d", n)
	}
	assert.Equal(t, uint32(42), fb.Pixels()[0])
	assert.Equal(t, v, fb.Texture().Version())
}

func TestTextureMapping(t *testing.T) {
	tex := New().Texture()
	assert.True(t, tex.FlipY())
	assert.Equal(t, uint16(8), tex.Sampler().Anisotropy)
	assert.InDelta(t, 0.75, tex.Repeat()[0], 1e-6)
	assert.InDelta(t, 0.3, tex.Offset()[1], 1e-6)
	assert.Equal(t, Width, tex.Width())
}
