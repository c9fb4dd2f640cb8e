package material

import (
	"github.com/Carmen-Shannon/oxy-beeb/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-beeb/engine/texture"
)

// backdropMaterial is the implementation of the BackdropMaterial interface.
type backdropMaterial struct {
	uniforms map[string]*shader.Uniform
}

// BackdropMaterial draws a cube texture behind the scene. The renderer owns one and points it at
// whichever cube the scene background holds.
type BackdropMaterial interface {
	Material

	// SetCube replaces the cube texture drawn.
	//
	// Parameters:
	//   - cube: the cube texture
	SetCube(cube *texture.CubeTexture)

	// Cube returns the cube texture drawn.
	Cube() *texture.CubeTexture
}

var _ BackdropMaterial = &backdropMaterial{}

// NewBackdropMaterial creates a backdrop for cube.
//
// Parameters:
//   - cube: the cube texture to draw, may be nil until SetCube is called
//
// Returns:
//   - BackdropMaterial: the new material
func NewBackdropMaterial(cube *texture.CubeTexture) BackdropMaterial {
	return &backdropMaterial{
		uniforms: map[string]*shader.Uniform{
			UniformEnvMap: {Value: cube},
		},
	}
}

func (m *backdropMaterial) Name() string {
	return "background"
}

func (m *backdropMaterial) Kind() Kind {
	return KindBackdrop
}

func (m *backdropMaterial) Clone() Material {
	return &backdropMaterial{uniforms: cloneUniforms(m.uniforms)}
}

func (m *backdropMaterial) Uniforms() map[string]*shader.Uniform {
	return m.uniforms
}

func (m *backdropMaterial) Defines() []string {
	return nil
}

func (m *backdropMaterial) CompileHook() CompileHook {
	return nil
}

func (m *backdropMaterial) SetCube(cube *texture.CubeTexture) {
	m.uniforms[UniformEnvMap].Value = cube
}

func (m *backdropMaterial) Cube() *texture.CubeTexture {
	return m.uniforms[UniformEnvMap].Value.(*texture.CubeTexture)
}
