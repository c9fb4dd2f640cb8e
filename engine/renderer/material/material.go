package material

import (
	"fmt"
	"slices"

	"github.com/Carmen-Shannon/oxy-beeb/engine/renderer/shader"
)

// Kind names the shader template a material compiles from.
type Kind string

const (
	// KindPhysical is a lit, physically based material.
	KindPhysical Kind = shader.TemplatePhysical

	// KindBasic is a flat, unlit material.
	KindBasic Kind = shader.TemplateBasic

	// KindBackdrop fills the screen with a cube texture seen from the camera.
	KindBackdrop Kind = shader.TemplateBackdrop
)

// CompileHook edits a material's program after the template and uniforms are in place and
// before include expansion. Returning an error aborts compilation.
type CompileHook func(p *shader.Program) error

// Material defines the interface shared by every surface material. Materials own a set of
// live uniforms: setters update the uniform values in place, so programs compiled from a
// material observe later changes without being recompiled.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// Kind retrieves the template this material compiles from.
	//
	// Returns:
	//   - Kind: the material kind
	Kind() Kind

	// Clone returns an independent copy of the material. Scalar and color state is copied,
	// texture references are shared.
	//
	// Returns:
	//   - Material: the copy
	Clone() Material

	// Uniforms retrieves the live uniforms of the material, keyed by shader uniform name.
	//
	// Returns:
	//   - map[string]*shader.Uniform: the uniforms
	Uniforms() map[string]*shader.Uniform

	// Defines retrieves the preprocessor defines the material's current state enables,
	// e.g. USE_EMISSIVEMAP when an emissive map is bound.
	//
	// Returns:
	//   - []string: the define names
	Defines() []string

	// CompileHook retrieves the hook installed with OnBeforeCompile, or nil.
	//
	// Returns:
	//   - CompileHook: the hook
	CompileHook() CompileHook
}

// Hex converts a 0xRRGGBB color to normalized RGB components.
//
// Parameters:
//   - rgb: the packed color
//
// Returns:
//   - [3]float32: the red, green and blue components in [0, 1]
func Hex(rgb uint32) [3]float32 {
	return [3]float32{
		float32((rgb>>16)&0xff) / 255,
		float32((rgb>>8)&0xff) / 255,
		float32(rgb&0xff) / 255,
	}
}

// Compile builds the program for m: the template for its kind, its uniforms, its compile
// hook, its defines and finally include expansion of both stages.
//
// Parameters:
//   - m: the material to compile
//   - lib: the template and chunk library
//
// Returns:
//   - *shader.Program: the compiled program, sharing uniform values with m
//   - error: error if the template is unknown, the hook fails or an include cannot be resolved
func Compile(m Material, lib shader.Library) (*shader.Program, error) {
	p, err := lib.Template(string(m.Kind()))
	if err != nil {
		return nil, fmt.Errorf("material %q: %w", m.Name(), err)
	}
	p.Name = m.Name()
	for name, u := range m.Uniforms() {
		p.Uniforms[name] = u
	}

	if hook := m.CompileHook(); hook != nil {
		if err := hook(p); err != nil {
			return nil, fmt.Errorf("material %q: compile hook: %w", m.Name(), err)
		}
	}

	prefix := ""
	defines := slices.Clone(m.Defines())
	slices.Sort(defines)
	for _, d := range defines {
		prefix += "#define " + d + "\n"
	}

	pp := shader.NewPreProcessor(lib)
	if p.Vertex, err = pp.Process(prefix + p.Vertex); err != nil {
		return nil, fmt.Errorf("material %q: vertex: %w", m.Name(), err)
	}
	if p.Fragment, err = pp.Process(prefix + p.Fragment); err != nil {
		return nil, fmt.Errorf("material %q: fragment: %w", m.Name(), err)
	}
	return p, nil
}

func cloneUniforms(src map[string]*shader.Uniform) map[string]*shader.Uniform {
	dst := make(map[string]*shader.Uniform, len(src))
	for k, u := range src {
		dst[k] = &shader.Uniform{Value: u.Value}
	}
	return dst
}
