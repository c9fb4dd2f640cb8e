package texture

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Decode reads an encoded image and returns it as a texture with default sampler state.
// PNG, JPEG, BMP, TIFF and WebP are supported.
// Reference: https://pkg.go.dev/image
//
// Parameters:
//   - r: the encoded image bytes
//   - name: identifier recorded on the texture, usually the source path
//   - options: variadic list of TextureBuilderOption functions applied to the result
//
// Returns:
//   - *Texture: the decoded texture
//   - error: error if the image cannot be decoded
func Decode(r io.Reader, name string, options ...TextureBuilderOption) (*Texture, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", name, err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("image %s (%s) has no pixels", name, format)
	}
	return New(name, ToRGBA(img), options...), nil
}

// ToRGBA converts any image to a tightly packed RGBA image whose bounds start at the origin.
// An *image.RGBA that already satisfies this is returned unchanged.
func ToRGBA(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && bounds.Min == (image.Point{}) && rgba.Stride == bounds.Dx()*4 {
		return rgba
	}
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	xdraw.Draw(rgba, rgba.Bounds(), img, bounds.Min, xdraw.Src)
	return rgba
}

// GenerateMipmaps builds the full mip chain down to 1x1 with bilinear downsampling and
// marks the texture dirty. It is a no-op for textures without pixels.
func (t *Texture) GenerateMipmaps() {
	t.mu.Lock()
	base := t.image
	if base == nil || base.Rect.Empty() {
		t.mu.Unlock()
		return
	}

	var levels []*image.RGBA
	src := base
	w, h := base.Rect.Dx(), base.Rect.Dy()
	for w > 1 || h > 1 {
		w = max(w/2, 1)
		h = max(h/2, 1)
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		xdraw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
		levels = append(levels, dst)
		src = dst
	}
	t.mipmaps = levels
	t.mu.Unlock()

	t.MarkDirty()
}
