package camera

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// clipDepthCorrection remaps OpenGL clip depth (-w..w) onto the 0..w range WebGPU rasterizes.
var clipDepthCorrection = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// GPUCameraUniform is the GPU-aligned representation of the camera uniform buffer.
// Size: 272 bytes (std140 aligned).
type GPUCameraUniform struct {
	ViewProj       [16]float32 // offset   0: depth-corrected view-projection matrix
	Projection     [16]float32 // offset  64: depth-corrected projection matrix
	View           [16]float32 // offset 128: view matrix
	Backdrop       [16]float32 // offset 192: clip space to world direction, translation dropped
	CameraPosition [3]float32  // offset 256: world-space camera position
	_pad           float32     // offset 268: padding to 272 bytes
}

// UniformFor captures the camera's current state.
//
// Parameters:
//   - c: the camera
//
// Returns:
//   - GPUCameraUniform: the uniform block
func UniformFor(c Camera) GPUCameraUniform {
	proj := clipDepthCorrection.Mul4(c.ProjectionMatrix())
	view := c.ViewMatrix()
	rotation := view.Mat3().Mat4()
	return GPUCameraUniform{
		ViewProj:       proj.Mul4(view),
		Projection:     proj,
		View:           view,
		Backdrop:       proj.Mul4(rotation).Inv(),
		CameraPosition: c.Position(),
	}
}

// Size returns the size of the GPUCameraUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (272)
func (g *GPUCameraUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUCameraUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUCameraUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	for m, mat := range [4][16]float32{g.ViewProj, g.Projection, g.View, g.Backdrop} {
		for i, v := range mat {
			binary.LittleEndian.PutUint32(buf[m*64+i*4:], math.Float32bits(v))
		}
	}
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[256+i*4:], math.Float32bits(g.CameraPosition[i]))
	}
	return buf
}
