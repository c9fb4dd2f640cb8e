package material

import "github.com/Carmen-Shannon/oxy-beeb/engine/renderer/shader"

// basicMaterial is the implementation of the BasicMaterial interface.
type basicMaterial struct {
	name     string
	uniforms map[string]*shader.Uniform
}

// BasicMaterial is a flat color that ignores scene lighting.
type BasicMaterial interface {
	Material

	// Color retrieves the flat color.
	//
	// Returns:
	//   - [3]float32: the RGB color
	Color() [3]float32

	// SetColor sets the flat color.
	//
	// Parameters:
	//   - rgb: the RGB color
	SetColor(rgb [3]float32)
}

var _ BasicMaterial = &basicMaterial{}

// NewBasicMaterial creates a new BasicMaterial configured with the provided options.
// The default color is white.
//
// Parameters:
//   - options: variadic list of BasicMaterialBuilderOption functions to configure the material
//
// Returns:
//   - BasicMaterial: a new BasicMaterial instance
func NewBasicMaterial(options ...BasicMaterialBuilderOption) BasicMaterial {
	m := &basicMaterial{
		uniforms: map[string]*shader.Uniform{
			UniformDiffuse: {Value: [3]float32{1, 1, 1}},
			UniformOpacity: {Value: float32(1)},
		},
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *basicMaterial) Name() string {
	return m.name
}

func (m *basicMaterial) Kind() Kind {
	return KindBasic
}

func (m *basicMaterial) Clone() Material {
	return &basicMaterial{name: m.name, uniforms: cloneUniforms(m.uniforms)}
}

func (m *basicMaterial) Uniforms() map[string]*shader.Uniform {
	return m.uniforms
}

func (m *basicMaterial) Defines() []string {
	return nil
}

func (m *basicMaterial) CompileHook() CompileHook {
	return nil
}

func (m *basicMaterial) Color() [3]float32 {
	return m.uniforms[UniformDiffuse].Value.([3]float32)
}

func (m *basicMaterial) SetColor(rgb [3]float32) {
	m.uniforms[UniformDiffuse].Value = rgb
}
