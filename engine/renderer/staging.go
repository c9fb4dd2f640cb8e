package renderer

import (
	"image"

	"github.com/Carmen-Shannon/oxy-beeb/common"
	"github.com/Carmen-Shannon/oxy-beeb/engine/texture"
	"github.com/cogentcore/webgpu/wgpu"
)

// textureStaging copies a texture's levels into upload form, flipping rows when the texture
// stores its first row at the bottom.
func textureStaging(t *texture.Texture) common.TextureStagingData {
	flip := t.FlipY()
	srgb := t.ColorSpace() == texture.ColorSpaceSRGB

	out := imageStaging(t.Image(), flip, srgb)
	for _, mip := range t.Mipmaps() {
		out.Mips = append(out.Mips, imageStaging(mip, flip, srgb))
	}
	return out
}

// cubeStaging copies the six faces of a cube in CubeFace order.
func cubeStaging(c *texture.CubeTexture) [6]common.TextureStagingData {
	var out [6]common.TextureStagingData
	for i := range out {
		out[i] = imageStaging(c.Face(texture.CubeFace(i)), false, true)
	}
	return out
}

func imageStaging(img *image.RGBA, flip, srgb bool) common.TextureStagingData {
	if img == nil {
		return common.TextureStagingData{SRGB: srgb}
	}
	w, h := img.Rect.Dx(), img.Rect.Dy()
	row := w * 4
	pixels := make([]byte, row*h)
	for y := range h {
		src := img.Pix[y*img.Stride : y*img.Stride+row]
		dy := y
		if flip {
			dy = h - 1 - y
		}
		copy(pixels[dy*row:(dy+1)*row], src)
	}
	return common.TextureStagingData{
		Pixels: pixels,
		Width:  uint32(w),
		Height: uint32(h),
		SRGB:   srgb,
	}
}

// samplerStaging maps texture sampler attributes onto GPU sampler state. Anisotropy is
// dropped to 1 unless every filter is linear, which the GPU requires.
func samplerStaging(s texture.Sampler, mipLevels int) common.SamplerStagingData {
	out := common.SamplerStagingData{
		AddressModeU:  addressMode(s.WrapS),
		AddressModeV:  addressMode(s.WrapT),
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     filterMode(s.MagFilter),
		MinFilter:     filterMode(s.MinFilter),
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMaxClamp:   0,
		MaxAnisotropy: max(s.Anisotropy, 1),
	}
	if s.MinFilter.UsesMipmaps() {
		out.LodMaxClamp = float32(mipLevels)
		if s.MinFilter == texture.FilterLinearMipmapLinear {
			out.MipmapFilter = wgpu.MipmapFilterModeLinear
		}
	}
	if out.MagFilter != wgpu.FilterModeLinear || out.MinFilter != wgpu.FilterModeLinear || out.MipmapFilter != wgpu.MipmapFilterModeLinear {
		out.MaxAnisotropy = 1
	}
	return out
}

func cubeSamplerStaging() common.SamplerStagingData {
	return common.SamplerStagingData{
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		MaxAnisotropy: 1,
	}
}

func addressMode(w texture.Wrap) wgpu.AddressMode {
	switch w {
	case texture.WrapRepeat:
		return wgpu.AddressModeRepeat
	case texture.WrapMirroredRepeat:
		return wgpu.AddressModeMirrorRepeat
	default:
		return wgpu.AddressModeClampToEdge
	}
}

func filterMode(f texture.Filter) wgpu.FilterMode {
	switch f {
	case texture.FilterNearest, texture.FilterNearestMipmapNearest:
		return wgpu.FilterModeNearest
	default:
		return wgpu.FilterModeLinear
	}
}

// orDefault returns v, or def when v is the zero value. Only used for fields where zero is
// never a meaningful setting.
func orDefault[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
