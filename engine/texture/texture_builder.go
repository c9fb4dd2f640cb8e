package texture

import "github.com/go-gl/mathgl/mgl32"

// TextureBuilderOption is a function that configures a texture instance during construction.
type TextureBuilderOption func(*Texture)

// WithSampler is an option builder that sets the filtering and addressing attributes.
//
// Parameters:
//   - s: the sampler attributes
//
// Returns:
//   - TextureBuilderOption: a function that applies the sampler option to a texture
func WithSampler(s Sampler) TextureBuilderOption {
	return func(t *Texture) {
		t.sampler = s
	}
}

// WithColorSpace is an option builder that sets how texel values are interpreted.
//
// Parameters:
//   - cs: the color space of the stored texels
//
// Returns:
//   - TextureBuilderOption: a function that applies the color space option to a texture
func WithColorSpace(cs ColorSpace) TextureBuilderOption {
	return func(t *Texture) {
		t.colorSpace = cs
	}
}

// WithFlipY is an option builder that flips the texture vertically on upload.
//
// Parameters:
//   - flip: true to flip rows on upload
//
// Returns:
//   - TextureBuilderOption: a function that applies the flip option to a texture
func WithFlipY(flip bool) TextureBuilderOption {
	return func(t *Texture) {
		t.flipY = flip
	}
}

// WithRepeat is an option builder that sets the UV scale.
//
// Parameters:
//   - u, v: the scale applied to mesh texture coordinates
//
// Returns:
//   - TextureBuilderOption: a function that applies the repeat option to a texture
func WithRepeat(u, v float32) TextureBuilderOption {
	return func(t *Texture) {
		t.repeat = mgl32.Vec2{u, v}
	}
}

// WithOffset is an option builder that sets the UV offset.
//
// Parameters:
//   - u, v: the offset added to scaled mesh texture coordinates
//
// Returns:
//   - TextureBuilderOption: a function that applies the offset option to a texture
func WithOffset(u, v float32) TextureBuilderOption {
	return func(t *Texture) {
		t.offset = mgl32.Vec2{u, v}
	}
}
