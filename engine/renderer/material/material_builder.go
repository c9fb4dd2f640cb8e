package material

import (
	"github.com/Carmen-Shannon/oxy-beeb/engine/texture"
)

// PhysicalMaterialBuilderOption is a function that configures a physical material during construction.
type PhysicalMaterialBuilderOption func(*physicalMaterial)

// BasicMaterialBuilderOption is a function that configures a basic material during construction.
type BasicMaterialBuilderOption func(*basicMaterial)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - PhysicalMaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) PhysicalMaterialBuilderOption {
	return func(m *physicalMaterial) {
		m.name = name
	}
}

// WithColor is an option builder that sets the base color of the material.
//
// Parameters:
//   - rgb: the base color as RGB float32 values
//
// Returns:
//   - PhysicalMaterialBuilderOption: a function that applies the color option to a material
func WithColor(rgb [3]float32) PhysicalMaterialBuilderOption {
	return func(m *physicalMaterial) {
		m.uniforms[UniformDiffuse].Value = rgb
	}
}

// WithMetallic is an option builder that sets the metalness factor of the material.
//
// Parameters:
//   - metallic: the metalness factor (0.0 = dielectric, 1.0 = metal)
//
// Returns:
//   - PhysicalMaterialBuilderOption: a function that applies the metallic option to a material
func WithMetallic(metallic float32) PhysicalMaterialBuilderOption {
	return func(m *physicalMaterial) {
		m.uniforms[UniformMetalness].Value = metallic
	}
}

// WithRoughness is an option builder that sets the roughness factor of the material.
//
// Parameters:
//   - roughness: the roughness factor (0.0 = smooth, 1.0 = rough)
//
// Returns:
//   - PhysicalMaterialBuilderOption: a function that applies the roughness option to a material
func WithRoughness(roughness float32) PhysicalMaterialBuilderOption {
	return func(m *physicalMaterial) {
		m.uniforms[UniformRoughness].Value = roughness
	}
}

// WithEmissive is an option builder that sets the emissive color.
//
// Parameters:
//   - rgb: the emissive color as RGB float32 values
//
// Returns:
//   - PhysicalMaterialBuilderOption: a function that applies the emissive option to a material
func WithEmissive(rgb [3]float32) PhysicalMaterialBuilderOption {
	return func(m *physicalMaterial) {
		m.uniforms[UniformEmissive].Value = rgb
	}
}

// WithOpacity is an option builder that sets the opacity. Opacity below one also marks
// the material transparent.
//
// Parameters:
//   - opacity: the opacity in [0, 1]
//
// Returns:
//   - PhysicalMaterialBuilderOption: a function that applies the opacity option to a material
func WithOpacity(opacity float32) PhysicalMaterialBuilderOption {
	return func(m *physicalMaterial) {
		m.uniforms[UniformOpacity].Value = opacity
		if opacity < 1 {
			m.transparent = true
		}
	}
}

// WithTransparent is an option builder that sets whether the material is alpha blended.
//
// Parameters:
//   - transparent: true to enable blending
//
// Returns:
//   - PhysicalMaterialBuilderOption: a function that applies the transparency option to a material
func WithTransparent(transparent bool) PhysicalMaterialBuilderOption {
	return func(m *physicalMaterial) {
		m.transparent = transparent
	}
}

// WithMap is an option builder that sets the diffuse texture.
//
// Parameters:
//   - tex: the diffuse texture
//
// Returns:
//   - PhysicalMaterialBuilderOption: a function that applies the diffuse texture option to a material
func WithMap(tex *texture.Texture) PhysicalMaterialBuilderOption {
	return func(m *physicalMaterial) {
		m.uniforms[UniformMap].Value = tex
	}
}

// WithEmissiveMap is an option builder that sets the texture modulating the emissive color.
// The texture's repeat and offset become the emissive UV transform.
//
// Parameters:
//   - tex: the emissive texture
//
// Returns:
//   - PhysicalMaterialBuilderOption: a function that applies the emissive map option to a material
func WithEmissiveMap(tex *texture.Texture) PhysicalMaterialBuilderOption {
	return func(m *physicalMaterial) {
		m.uniforms[UniformEmissiveMap].Value = tex
		if tex != nil {
			m.uniforms[UniformEmissiveMapTransform].Value = tex.UVTransform()
		}
	}
}

// WithEnvMap is an option builder that sets the reflected environment.
//
// Parameters:
//   - env: the environment cube texture
//
// Returns:
//   - PhysicalMaterialBuilderOption: a function that applies the environment option to a material
func WithEnvMap(env *texture.CubeTexture) PhysicalMaterialBuilderOption {
	return func(m *physicalMaterial) {
		m.uniforms[UniformEnvMap].Value = env
	}
}

// WithCompileHook is an option builder equivalent to calling OnBeforeCompile after construction.
//
// Parameters:
//   - hook: the compile hook
//
// Returns:
//   - PhysicalMaterialBuilderOption: a function that applies the hook option to a material
func WithCompileHook(hook CompileHook) PhysicalMaterialBuilderOption {
	return func(m *physicalMaterial) {
		m.hook = hook
	}
}

// WithBasicName is an option builder that sets the name of a basic material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - BasicMaterialBuilderOption: a function that applies the name option to a material
func WithBasicName(name string) BasicMaterialBuilderOption {
	return func(m *basicMaterial) {
		m.name = name
	}
}

// WithBasicColor is an option builder that sets the flat color of a basic material.
//
// Parameters:
//   - rgb: the color as RGB float32 values
//
// Returns:
//   - BasicMaterialBuilderOption: a function that applies the color option to a material
func WithBasicColor(rgb [3]float32) BasicMaterialBuilderOption {
	return func(m *basicMaterial) {
		m.uniforms[UniformDiffuse].Value = rgb
	}
}
