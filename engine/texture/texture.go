// Package texture holds the CPU-side texture model shared by the asset loader, the
// materials and the renderer. Textures carry their pixels, sampler attributes and a version
// counter; the renderer re-uploads a texture whenever its version moves past the last
// uploaded one.
package texture

import (
	"image"
	"sync"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// Filter selects how texels are filtered on magnification or minification.
type Filter int

const (
	FilterLinear Filter = iota
	FilterNearest
	FilterLinearMipmapLinear
	FilterNearestMipmapNearest
)

// UsesMipmaps reports whether the filter samples from a mip chain.
func (f Filter) UsesMipmaps() bool {
	return f == FilterLinearMipmapLinear || f == FilterNearestMipmapNearest
}

// Wrap selects how texture coordinates outside [0, 1] are resolved.
type Wrap int

const (
	WrapClampToEdge Wrap = iota
	WrapRepeat
	WrapMirroredRepeat
)

// ColorSpace identifies how the stored texel values should be interpreted.
type ColorSpace int

const (
	// ColorSpaceLinear stores linear values (data textures, masks used as coefficients).
	ColorSpaceLinear ColorSpace = iota
	// ColorSpaceSRGB stores display-referred values that are decoded to linear on sampling.
	ColorSpaceSRGB
)

// Sampler groups the filtering and addressing attributes of a texture.
type Sampler struct {
	MagFilter  Filter
	MinFilter  Filter
	WrapS      Wrap
	WrapT      Wrap
	Anisotropy uint16
}

// DefaultSampler is linear filtering with clamped addressing.
var DefaultSampler = Sampler{
	MagFilter:  FilterLinear,
	MinFilter:  FilterLinear,
	WrapS:      WrapClampToEdge,
	WrapT:      WrapClampToEdge,
	Anisotropy: 1,
}

// Texture is a 2D RGBA texture with its sampler state.
//
// The pixel storage may be shared with another owner (see framebuffer.FrameBuffer); writers
// signal a change with MarkDirty. Sampler attributes are guarded by the texture's mutex so
// they can be reconfigured while a renderer reads them.
type Texture struct {
	mu sync.RWMutex

	id   string
	name string

	image   *image.RGBA
	mipmaps []*image.RGBA

	sampler    Sampler
	colorSpace ColorSpace
	flipY      bool
	repeat     mgl32.Vec2
	offset     mgl32.Vec2

	version atomic.Uint64
}

// New creates a texture over img configured with the provided options. The texture starts
// dirty so the first render uploads it.
//
// Parameters:
//   - name: a human readable identifier, usually the source path
//   - img: the pixel data, referenced rather than copied
//   - options: variadic list of TextureBuilderOption functions
//
// Returns:
//   - *Texture: the new texture
func New(name string, img *image.RGBA, options ...TextureBuilderOption) *Texture {
	t := &Texture{
		id:      uuid.NewString(),
		name:    name,
		image:   img,
		sampler: DefaultSampler,
		repeat:  mgl32.Vec2{1, 1},
	}
	for _, opt := range options {
		opt(t)
	}
	t.version.Store(1)
	return t
}

func (t *Texture) ID() string {
	return t.id
}

func (t *Texture) Name() string {
	return t.name
}

// Image returns the base level pixels.
func (t *Texture) Image() *image.RGBA {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.image
}

// Width returns the base level width in pixels.
func (t *Texture) Width() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.image == nil {
		return 0
	}
	return t.image.Rect.Dx()
}

// Height returns the base level height in pixels.
func (t *Texture) Height() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.image == nil {
		return 0
	}
	return t.image.Rect.Dy()
}

// Mipmaps returns the generated mip levels below the base level, largest first.
func (t *Texture) Mipmaps() []*image.RGBA {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.mipmaps
}

func (t *Texture) Sampler() Sampler {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.sampler
}

// SetSampler replaces the sampler attributes and marks the texture dirty.
func (t *Texture) SetSampler(s Sampler) {
	t.mu.Lock()
	t.sampler = s
	t.mu.Unlock()
	t.MarkDirty()
}

func (t *Texture) ColorSpace() ColorSpace {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.colorSpace
}

// SetColorSpace changes the texel interpretation and marks the texture dirty.
func (t *Texture) SetColorSpace(cs ColorSpace) {
	t.mu.Lock()
	t.colorSpace = cs
	t.mu.Unlock()
	t.MarkDirty()
}

func (t *Texture) FlipY() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.flipY
}

// Repeat returns the UV scale applied when sampling.
func (t *Texture) Repeat() mgl32.Vec2 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.repeat
}

// Offset returns the UV offset applied when sampling.
func (t *Texture) Offset() mgl32.Vec2 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.offset
}

// UVTransform returns the 3x3 matrix mapping mesh UVs to texture UVs, combining repeat and
// offset the same way for every shader that samples the texture.
func (t *Texture) UVTransform() mgl32.Mat3 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return mgl32.Mat3{
		t.repeat[0], 0, 0,
		0, t.repeat[1], 0,
		t.offset[0], t.offset[1], 1,
	}
}

// Version returns a counter that increases every time the texture is marked dirty.
func (t *Texture) Version() uint64 {
	return t.version.Load()
}

// MarkDirty flags the texture for re-upload on the next render.
func (t *Texture) MarkDirty() {
	t.version.Add(1)
}
