// Package framebuffer implements the fixed-size pixel buffer that carries the emulated video
// output to the screen's emissive texture.
package framebuffer

import (
	"errors"
	"fmt"
	"image"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-beeb/engine/texture"
)

const (
	// Width is the framebuffer width in pixels.
	Width = 1024
	// Height is the framebuffer height in pixels.
	Height = 1024
	// PixelCount is the number of packed 32-bit pixels in the buffer.
	PixelCount = Width * Height
)

// ErrSizeMismatch is returned when a source buffer does not hold exactly PixelCount pixels.
var ErrSizeMismatch = errors.New("framebuffer: source size mismatch")

// FrameBuffer owns a Width x Height RGBA byte buffer that is also viewed as packed 32-bit
// pixels, and the texture that exposes those bytes to the renderer. Both views alias the
// same memory.
type FrameBuffer struct {
	fb8  []byte
	fb32 []uint32
	tex  *texture.Texture
}

// New allocates the buffer and its emissive texture. The texture is configured to map the
// visible part of the emulated display onto the CRT glass: linear filtering, clamped
// addressing, sRGB texels, flipped rows and the glass-specific repeat and offset.
//
// Returns:
//   - *FrameBuffer: the new, all-black framebuffer
func New() *FrameBuffer {
	fb8 := make([]byte, PixelCount*4)
	fb32 := unsafe.Slice((*uint32)(unsafe.Pointer(&fb8[0])), PixelCount)

	img := &image.RGBA{
		Pix:    fb8,
		Stride: Width * 4,
		Rect:   image.Rect(0, 0, Width, Height),
	}

	tex := texture.New("framebuffer", img,
		texture.WithSampler(texture.Sampler{
			MagFilter:  texture.FilterLinear,
			MinFilter:  texture.FilterLinear,
			WrapS:      texture.WrapClampToEdge,
			WrapT:      texture.WrapClampToEdge,
			Anisotropy: 8,
		}),
		texture.WithColorSpace(texture.ColorSpaceSRGB),
		texture.WithFlipY(true),
		texture.WithRepeat(0.75, 0.75),
		texture.WithOffset(0.15, 0.3),
	)

	return &FrameBuffer{fb8: fb8, fb32: fb32, tex: tex}
}

// Bytes returns the byte view of the buffer (4 bytes per pixel, R G B A).
func (f *FrameBuffer) Bytes() []byte {
	return f.fb8
}

// Pixels returns the packed-pixel view of the buffer.
func (f *FrameBuffer) Pixels() []uint32 {
	return f.fb32
}

// Texture returns the emissive texture backed by this buffer.
func (f *FrameBuffer) Texture() *texture.Texture {
	return f.tex
}

// Paint replaces the whole buffer with src and flags the texture for re-upload. The
// entire buffer is copied on every call.
//
// Parameters:
//   - src: exactly PixelCount packed pixels in the same byte order as the buffer
//
// Returns:
//   - error: ErrSizeMismatch if src has the wrong length; the buffer is left untouched
func (f *FrameBuffer) Paint(src []uint32) error {
	if len(src) != PixelCount {
		return fmt.Errorf("%w: got %d pixels, want %d", ErrSizeMismatch, len(src), PixelCount)
	}
	copy(f.fb32, src)
	f.tex.MarkDirty()
	return nil
}
