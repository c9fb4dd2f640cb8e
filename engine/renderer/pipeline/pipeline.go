package pipeline

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-beeb/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-beeb/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-beeb/engine/texture"
	"github.com/cogentcore/webgpu/wgpu"
)

// pipeline is the implementation of the Pipeline interface.
// It pairs a material with the program composed for it and the fixed-function state the material implies.
type pipeline struct {
	// pipelineKey is the unique identifier for this pipeline, used for caching and log lines
	pipelineKey string

	material material.Material
	program  *shader.Program
	lowered  *shader.Lowered

	// renderPipeline and bindGroupLayouts are created by the renderer backend on registration.
	renderPipeline   *wgpu.RenderPipeline
	bindGroupLayouts []*wgpu.BindGroupLayout

	depthTestEnabled  bool
	depthWriteEnabled bool
	blendEnabled      bool
	cullMode          wgpu.CullMode
	blendState        *wgpu.BlendState
}

// ErrMissingTexture is returned when a program samples a uniform that holds no texture of the
// declared kind.
var ErrMissingTexture = errors.New("sampled uniform holds no texture")

// TextureBinding is one sampled input of a program: a 2D texture or a cube, never both.
type TextureBinding struct {
	// Uniform is the shader uniform name the texture is bound to.
	Uniform string
	// Slot is the texture and sampler binding pair the lowered program reads it through.
	Slot    shader.SamplerSlot
	Texture *texture.Texture
	Cube    *texture.CubeTexture
}

// Version returns the source version of whichever texture the binding holds.
func (b TextureBinding) Version() uint64 {
	if b.Cube != nil {
		return b.Cube.Version()
	}
	return b.Texture.Version()
}

// ID returns the identifier of whichever texture the binding holds.
func (b TextureBinding) ID() string {
	if b.Cube != nil {
		return b.Cube.ID()
	}
	return b.Texture.ID()
}

// Pipeline is a material's composed program together with its fixed-function state. A Pipeline is
// built once per material; uniform values stay live, so later material changes reach the program
// without recomposition.
type Pipeline interface {
	// PipelineKey returns the unique key associated with this pipeline.
	//
	// Returns:
	//   - string: the unique key for this pipeline
	PipelineKey() string

	// Material returns the material the program was composed from.
	Material() material.Material

	// Program returns the composed program.
	Program() *shader.Program

	// Lowered returns the program rewritten for the GPU backend.
	Lowered() *shader.Lowered

	// Source returns the composed source of one stage.
	//
	// Parameters:
	//   - shaderType: the stage to retrieve
	//
	// Returns:
	//   - string: the fully expanded source
	Source(shaderType shader.ShaderType) string

	// Textures returns the program's sampled textures in binding order. Uniforms holding nil
	// textures are omitted.
	//
	// Returns:
	//   - []TextureBinding: the bound textures
	Textures() []TextureBinding

	// VertexInput reports whether the program reads mesh vertex attributes. Programs that do not
	// are drawn without vertex buffers.
	VertexInput() bool

	// Pipeline returns the GPU pipeline object, or nil before registration.
	Pipeline() any

	// SetRenderPipeline stores the GPU pipeline and the bind group layouts it was created with.
	// Called by the renderer backend on registration.
	//
	// Parameters:
	//   - rp: the render pipeline
	//   - layouts: the bind group layouts, indexed by group
	SetRenderPipeline(rp *wgpu.RenderPipeline, layouts []*wgpu.BindGroupLayout)

	// BindGroupLayout returns the layout of one bind group, or nil before registration.
	//
	// Parameters:
	//   - group: the group index
	//
	// Returns:
	//   - *wgpu.BindGroupLayout: the layout or nil
	BindGroupLayout(group int) *wgpu.BindGroupLayout

	DepthTestEnabled() bool

	DepthWriteEnabled() bool

	BlendEnabled() bool

	CullMode() wgpu.CullMode

	// BlendState returns the blend configuration used when BlendEnabled is true.
	BlendState() *wgpu.BlendState
}

var _ Pipeline = &pipeline{}

// NewPipeline wraps an already composed and lowered program.
//
// Parameters:
//   - pipelineKey: the unique identifier for this pipeline
//   - m: the material the program belongs to
//   - program: the composed program
//   - lowered: the program rewritten for the GPU backend
//   - opts: functional options to configure the pipeline
//
// Returns:
//   - Pipeline: the new pipeline
func NewPipeline(pipelineKey string, m material.Material, program *shader.Program, lowered *shader.Lowered, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		pipelineKey:       pipelineKey,
		material:          m,
		program:           program,
		lowered:           lowered,
		depthTestEnabled:  true,
		depthWriteEnabled: true,
		blendEnabled:      false,
		cullMode:          wgpu.CullModeNone,
		blendState: &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ForMaterial composes and lowers the program for m and derives its fixed-function state.
// Transparent materials blend and skip depth writes; backdrops neither test nor write depth.
//
// Parameters:
//   - m: the material to compose
//   - lib: the template and chunk library
//
// Returns:
//   - Pipeline: the composed pipeline
//   - error: error if composition or lowering fails, or a sampled uniform holds no texture
func ForMaterial(m material.Material, lib shader.Library) (Pipeline, error) {
	program, err := material.Compile(m, lib)
	if err != nil {
		return nil, err
	}
	lowered, err := shader.Lower(program)
	if err != nil {
		return nil, fmt.Errorf("material %q: %w", m.Name(), err)
	}

	var opts []PipelineBuilderOption
	if t, ok := m.(interface{ Transparent() bool }); ok && t.Transparent() {
		opts = append(opts, WithBlendEnabled(true), WithDepthWriteEnabled(false))
	}
	if m.Kind() == material.KindBackdrop {
		opts = append(opts, WithDepthTestEnabled(false), WithDepthWriteEnabled(false))
	}
	p := NewPipeline(Key(m), m, program, lowered, opts...)
	if got := len(p.Textures()); got != len(lowered.Samplers) {
		return nil, fmt.Errorf("material %q: %w: %d of %d sampled uniforms bound", m.Name(), ErrMissingTexture, got, len(lowered.Samplers))
	}
	return p, nil
}

// Key returns the cache key of a material: its kind, name and identity.
//
// Parameters:
//   - m: the material
//
// Returns:
//   - string: the key
func Key(m material.Material) string {
	return fmt.Sprintf("%s/%s@%p", m.Kind(), m.Name(), m)
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) Material() material.Material {
	return p.material
}

func (p *pipeline) Program() *shader.Program {
	return p.program
}

func (p *pipeline) Source(shaderType shader.ShaderType) string {
	return p.program.Source(shaderType)
}

func (p *pipeline) Lowered() *shader.Lowered {
	return p.lowered
}

func (p *pipeline) Textures() []TextureBinding {
	var out []TextureBinding
	for _, slot := range p.lowered.Samplers {
		u, ok := p.program.Uniforms[slot.Uniform]
		if !ok {
			continue
		}
		switch v := u.Value.(type) {
		case *texture.Texture:
			if v != nil && slot.Kind == shader.Sampler2D {
				out = append(out, TextureBinding{Uniform: slot.Uniform, Slot: slot, Texture: v})
			}
		case *texture.CubeTexture:
			if v != nil && slot.Kind == shader.SamplerCube {
				out = append(out, TextureBinding{Uniform: slot.Uniform, Slot: slot, Cube: v})
			}
		}
	}
	return out
}

func (p *pipeline) VertexInput() bool {
	return len(p.lowered.Attributes) > 0
}

func (p *pipeline) Pipeline() any {
	return p.renderPipeline
}

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline, layouts []*wgpu.BindGroupLayout) {
	p.renderPipeline = rp
	p.bindGroupLayouts = layouts
}

func (p *pipeline) BindGroupLayout(group int) *wgpu.BindGroupLayout {
	if group < 0 || group >= len(p.bindGroupLayouts) {
		return nil
	}
	return p.bindGroupLayouts[group]
}

func (p *pipeline) DepthTestEnabled() bool {
	return p.depthTestEnabled
}

func (p *pipeline) DepthWriteEnabled() bool {
	return p.depthWriteEnabled
}

func (p *pipeline) BlendEnabled() bool {
	return p.blendEnabled
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) BlendState() *wgpu.BlendState {
	return p.blendState
}
