package material

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-beeb/engine/texture"
	"github.com/go-gl/mathgl/mgl32"
)

// GPUMaterialParams is the GPU-aligned uniform block holding a material's scalar, color and UV
// state. Size: 144 bytes (three vec4<f32> followed by two std140 mat3, each column padded to a vec4).
type GPUMaterialParams struct {
	Diffuse              [4]float32  // offset 0: RGB base color + opacity (16 bytes)
	Emissive             [4]float32  // offset 16: RGB emissive color + padding (16 bytes)
	Surface              [4]float32  // offset 32: roughness, metalness, env map intensity, padding (16 bytes)
	UVTransform          [12]float32 // offset 48: map UV transform, three padded columns (48 bytes)
	EmissiveMapTransform [12]float32 // offset 96: emissive map UV transform, three padded columns (48 bytes)
}

// Size returns the size of the GPUMaterialParams struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUMaterialParams) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUMaterialParams struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 144-byte buffer ready for GPU upload.
func (g *GPUMaterialParams) Marshal() []byte {
	buf := make([]byte, g.Size())
	values := make([]float32, 0, 36)
	values = append(values, g.Diffuse[:]...)
	values = append(values, g.Emissive[:]...)
	values = append(values, g.Surface[:]...)
	values = append(values, g.UVTransform[:]...)
	values = append(values, g.EmissiveMapTransform[:]...)
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], math.Float32bits(v))
	}
	return buf
}

// PackMat3 lays a 3x3 matrix out as three vec4-aligned columns.
//
// Parameters:
//   - m: the matrix
//
// Returns:
//   - [12]float32: the padded columns
func PackMat3(m mgl32.Mat3) [12]float32 {
	return [12]float32{
		m[0], m[1], m[2], 0,
		m[3], m[4], m[5], 0,
		m[6], m[7], m[8], 0,
	}
}

// ParamsFor snapshots the current uniform values of m into a GPUMaterialParams. Uniforms
// the material does not have keep their zero value, except opacity which defaults to one.
// UV transforms follow the bound maps so repeat and offset changes apply without recompiling;
// with no map bound they fall back to the uniform value or identity.
//
// Parameters:
//   - m: the material to read
//
// Returns:
//   - GPUMaterialParams: the packed parameters
func ParamsFor(m Material) GPUMaterialParams {
	u := m.Uniforms()
	vec := func(name string) [3]float32 {
		if v, ok := u[name]; ok {
			if c, ok := v.Value.([3]float32); ok {
				return c
			}
		}
		return [3]float32{}
	}
	scalar := func(name string, def float32) float32 {
		if v, ok := u[name]; ok {
			if f, ok := v.Value.(float32); ok {
				return f
			}
		}
		return def
	}
	transform := func(mapName, uniform string) mgl32.Mat3 {
		if v, ok := u[mapName]; ok {
			if tex, ok := v.Value.(*texture.Texture); ok && tex != nil {
				return tex.UVTransform()
			}
		}
		if v, ok := u[uniform]; ok {
			if mat, ok := v.Value.(mgl32.Mat3); ok {
				return mat
			}
		}
		return mgl32.Ident3()
	}

	d, e := vec(UniformDiffuse), vec(UniformEmissive)
	return GPUMaterialParams{
		Diffuse:              [4]float32{d[0], d[1], d[2], scalar(UniformOpacity, 1)},
		Emissive:             [4]float32{e[0], e[1], e[2], 0},
		Surface:              [4]float32{scalar(UniformRoughness, 0), scalar(UniformMetalness, 0), scalar(UniformEnvMapIntensity, 0), 0},
		UVTransform:          PackMat3(transform(UniformMap, UniformUVTransform)),
		EmissiveMapTransform: PackMat3(transform(UniformEmissiveMap, UniformEmissiveMapTransform)),
	}
}
