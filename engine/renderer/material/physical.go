package material

import (
	"github.com/Carmen-Shannon/oxy-beeb/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-beeb/engine/texture"
	"github.com/go-gl/mathgl/mgl32"
)

// Uniform names used by the physical template.
const (
	UniformDiffuse              = "diffuse"
	UniformEmissive             = "emissive"
	UniformRoughness            = "roughness"
	UniformMetalness            = "metalness"
	UniformOpacity              = "opacity"
	UniformMap                  = "map"
	UniformEmissiveMap          = "emissiveMap"
	UniformEmissiveMapTransform = "emissiveMapTransform"
	UniformEnvMap               = "envMap"
	UniformEnvMapIntensity      = "envMapIntensity"
	UniformUVTransform          = "uvTransform"
)

// physicalMaterial is the implementation of the PhysicalMaterial interface.
type physicalMaterial struct {
	name        string
	transparent bool
	uniforms    map[string]*shader.Uniform
	hook        CompileHook
}

// PhysicalMaterial is a lit surface with base color, roughness, metalness, emission and an
// optional environment reflection.
type PhysicalMaterial interface {
	Material

	// Color retrieves the base color.
	//
	// Returns:
	//   - [3]float32: the RGB base color
	Color() [3]float32

	// SetColor sets the base color.
	//
	// Parameters:
	//   - rgb: the RGB base color
	SetColor(rgb [3]float32)

	// Roughness retrieves the roughness factor (0 = mirror, 1 = fully rough).
	//
	// Returns:
	//   - float32: the roughness factor
	Roughness() float32

	// Metallic retrieves the metalness factor.
	//
	// Returns:
	//   - float32: the metalness factor
	Metallic() float32

	// Opacity retrieves the opacity, only meaningful for transparent materials.
	//
	// Returns:
	//   - float32: the opacity
	Opacity() float32

	// Transparent reports whether the material is alpha blended.
	//
	// Returns:
	//   - bool: true if transparent
	Transparent() bool

	// Emissive retrieves the emissive color.
	//
	// Returns:
	//   - [3]float32: the RGB emissive color
	Emissive() [3]float32

	// SetEmissive sets the emissive color. Compiled programs see the new value immediately.
	//
	// Parameters:
	//   - rgb: the RGB emissive color
	SetEmissive(rgb [3]float32)

	// Map retrieves the diffuse texture, or nil.
	//
	// Returns:
	//   - *texture.Texture: the diffuse texture
	Map() *texture.Texture

	// EmissiveMap retrieves the texture modulating the emissive color, or nil.
	//
	// Returns:
	//   - *texture.Texture: the emissive texture
	EmissiveMap() *texture.Texture

	// EnvMap retrieves the environment reflected by the surface, or nil.
	//
	// Returns:
	//   - *texture.CubeTexture: the environment
	EnvMap() *texture.CubeTexture

	// OnBeforeCompile installs a hook that edits the material's program at compile time.
	// A later call replaces the previous hook.
	//
	// Parameters:
	//   - hook: the compile hook
	OnBeforeCompile(hook CompileHook)
}

var _ PhysicalMaterial = &physicalMaterial{}

// NewPhysicalMaterial creates a new PhysicalMaterial configured with the provided options.
// Defaults are a white, fully rough, non-metallic, opaque surface with no emission.
//
// Parameters:
//   - options: variadic list of PhysicalMaterialBuilderOption functions to configure the material
//
// Returns:
//   - PhysicalMaterial: a new PhysicalMaterial instance
func NewPhysicalMaterial(options ...PhysicalMaterialBuilderOption) PhysicalMaterial {
	m := &physicalMaterial{
		uniforms: map[string]*shader.Uniform{
			UniformDiffuse:              {Value: [3]float32{1, 1, 1}},
			UniformEmissive:             {Value: [3]float32{0, 0, 0}},
			UniformRoughness:            {Value: float32(1)},
			UniformMetalness:            {Value: float32(0)},
			UniformOpacity:              {Value: float32(1)},
			UniformMap:                  {Value: (*texture.Texture)(nil)},
			UniformEmissiveMap:          {Value: (*texture.Texture)(nil)},
			UniformEmissiveMapTransform: {Value: mgl32.Ident3()},
			UniformEnvMap:               {Value: (*texture.CubeTexture)(nil)},
			UniformEnvMapIntensity:      {Value: float32(1)},
		},
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *physicalMaterial) Name() string {
	return m.name
}

func (m *physicalMaterial) Kind() Kind {
	return KindPhysical
}

func (m *physicalMaterial) Clone() Material {
	return &physicalMaterial{
		name:        m.name,
		transparent: m.transparent,
		uniforms:    cloneUniforms(m.uniforms),
		hook:        m.hook,
	}
}

func (m *physicalMaterial) Uniforms() map[string]*shader.Uniform {
	return m.uniforms
}

func (m *physicalMaterial) Defines() []string {
	var d []string
	if m.Map() != nil {
		d = append(d, "USE_MAP")
	}
	if m.EmissiveMap() != nil {
		d = append(d, "USE_EMISSIVEMAP")
	}
	if m.EnvMap() != nil {
		d = append(d, "USE_ENVMAP")
	}
	if m.transparent {
		d = append(d, "TRANSPARENT")
	}
	return d
}

func (m *physicalMaterial) CompileHook() CompileHook {
	return m.hook
}

func (m *physicalMaterial) Color() [3]float32 {
	return m.uniforms[UniformDiffuse].Value.([3]float32)
}

func (m *physicalMaterial) SetColor(rgb [3]float32) {
	m.uniforms[UniformDiffuse].Value = rgb
}

func (m *physicalMaterial) Roughness() float32 {
	return m.uniforms[UniformRoughness].Value.(float32)
}

func (m *physicalMaterial) Metallic() float32 {
	return m.uniforms[UniformMetalness].Value.(float32)
}

func (m *physicalMaterial) Opacity() float32 {
	return m.uniforms[UniformOpacity].Value.(float32)
}

func (m *physicalMaterial) Transparent() bool {
	return m.transparent
}

func (m *physicalMaterial) Emissive() [3]float32 {
	return m.uniforms[UniformEmissive].Value.([3]float32)
}

func (m *physicalMaterial) SetEmissive(rgb [3]float32) {
	m.uniforms[UniformEmissive].Value = rgb
}

func (m *physicalMaterial) Map() *texture.Texture {
	return m.uniforms[UniformMap].Value.(*texture.Texture)
}

func (m *physicalMaterial) EmissiveMap() *texture.Texture {
	return m.uniforms[UniformEmissiveMap].Value.(*texture.Texture)
}

func (m *physicalMaterial) EnvMap() *texture.CubeTexture {
	return m.uniforms[UniformEnvMap].Value.(*texture.CubeTexture)
}

func (m *physicalMaterial) OnBeforeCompile(hook CompileHook) {
	m.hook = hook
}
