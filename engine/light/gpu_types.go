package light

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// MaxGPULights is the maximum number of lights marshaled into the GPU light buffer per frame.
const MaxGPULights = 16

// GPULight is the GPU-aligned representation of a single light source.
// Size: 64 bytes (four vec4 rows, std140 aligned).
type GPULight struct {
	Position    [3]float32 // offset  0: world-space position
	LightType   uint32     // offset 12: 0 = directional, 1 = hemisphere
	Color       [3]float32 // offset 16: RGB color (sky color for hemisphere lights)
	Intensity   float32    // offset 28: scalar multiplier
	Direction   [3]float32 // offset 32: normalized direction towards the light
	_pad0       float32    // offset 44: padding
	GroundColor [3]float32 // offset 48: RGB ground color for hemisphere lights
	_pad1       float32    // offset 60: padding to 64-byte alignment
}

// Size returns the size of the GPULight struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (64)
func (g *GPULight) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPULight struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 64-byte buffer ready for GPU upload
func (g *GPULight) Marshal() []byte {
	buf := make([]byte, 64)
	putVec3(buf[0:12], g.Position)
	binary.LittleEndian.PutUint32(buf[12:16], g.LightType)
	putVec3(buf[16:28], g.Color)
	binary.LittleEndian.PutUint32(buf[28:32], math.Float32bits(g.Intensity))
	putVec3(buf[32:44], g.Direction)
	putVec3(buf[48:60], g.GroundColor)
	return buf
}

// GPULightHeader is the header prepended to the light buffer.
// Size: 16 bytes (vec3 + u32).
type GPULightHeader struct {
	AmbientColor [3]float32 // offset 0: scene ambient RGB
	LightCount   uint32     // offset 12: number of active lights following the header
}

// Size returns the size of the GPULightHeader struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (16)
func (h *GPULightHeader) Size() int {
	return int(unsafe.Sizeof(*h))
}

// Marshal serializes the GPULightHeader struct into a byte buffer suitable for
// GPU upload.
//
// Returns:
//   - []byte: 16-byte buffer ready for GPU upload
func (h *GPULightHeader) Marshal() []byte {
	buf := make([]byte, 16)
	putVec3(buf[0:12], h.AmbientColor)
	binary.LittleEndian.PutUint32(buf[12:16], h.LightCount)
	return buf
}

// ToGPULight converts a Light interface value into its GPU-aligned representation.
//
// Parameters:
//   - l: the Light to convert
//
// Returns:
//   - GPULight: the GPU-aligned representation
func ToGPULight(l Light) GPULight {
	return GPULight{
		Position:    l.Position(),
		LightType:   uint32(l.Type()),
		Color:       l.Color(),
		Intensity:   l.Intensity(),
		Direction:   l.Direction(),
		GroundColor: l.GroundColor(),
	}
}

// MarshalLightBuffer marshals a slice of enabled lights into a byte buffer
// suitable for GPU upload. The buffer layout is:
//
//	[GPULightHeader (16 bytes)] [GPULight × MaxGPULights (64 bytes each)]
//
// Only enabled lights are included, up to MaxGPULights. Unused slots are zero so the
// buffer always matches the fixed-size light array shaders declare.
//
// Parameters:
//   - lights: the full slice of lights to marshal (only enabled lights are included)
//   - ambient: the scene ambient color as RGB
//
// Returns:
//   - []byte: the marshaled buffer ready for GPU upload
func MarshalLightBuffer(lights []Light, ambient [3]float32) []byte {
	headerSize := (&GPULightHeader{}).Size()
	lightSize := (&GPULight{}).Size()

	enabled := make([]Light, 0, len(lights))
	for _, l := range lights {
		if l.Enabled() && len(enabled) < MaxGPULights {
			enabled = append(enabled, l)
		}
	}

	buf := make([]byte, headerSize+MaxGPULights*lightSize)
	header := GPULightHeader{AmbientColor: ambient, LightCount: uint32(len(enabled))}
	copy(buf[:headerSize], header.Marshal())

	offset := headerSize
	for _, l := range enabled {
		gpu := ToGPULight(l)
		copy(buf[offset:offset+lightSize], gpu.Marshal())
		offset += lightSize
	}
	return buf
}

func putVec3(dst []byte, v [3]float32) {
	binary.LittleEndian.PutUint32(dst[0:4], math.Float32bits(v[0]))
	binary.LittleEndian.PutUint32(dst[4:8], math.Float32bits(v[1]))
	binary.LittleEndian.PutUint32(dst[8:12], math.Float32bits(v[2]))
}
