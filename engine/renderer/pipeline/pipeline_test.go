package pipeline

import (
	"errors"
	"image"
	"testing"

	"github.com/Carmen-Shannon/oxy-beeb/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-beeb/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-beeb/engine/texture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cube(t *testing.T) *texture.CubeTexture {
	t.Helper()
	var faces [6]*image.RGBA
	for i := range faces {
		faces[i] = image.NewRGBA(image.Rect(0, 0, 2, 2))
	}
	c, err := texture.NewCubeTexture(faces)
	require.NoError(t, err)
	return c
}

func TestForMaterialOpaque(t *testing.T) {
	env := cube(t)
	kd := texture.New("kd", image.NewRGBA(image.Rect(0, 0, 2, 2)))
	m := material.NewPhysicalMaterial(material.WithName("body"), material.WithMap(kd), material.WithEnvMap(env))

	p, err := ForMaterial(m, shader.NewLibrary())
	require.NoError(t, err)

	assert.Same(t, m, p.Material())
	assert.Equal(t, Key(m), p.PipelineKey())
	assert.True(t, p.DepthWriteEnabled())
	assert.False(t, p.BlendEnabled())
	assert.NotEmpty(t, p.Source(shader.ShaderTypeFragment))
	assert.NotContains(t, p.Source(shader.ShaderTypeFragment), "#include")

	tex := p.Textures()
	require.Len(t, tex, 2)
	assert.Equal(t, material.UniformMap, tex[0].Uniform)
	assert.Same(t, kd, tex[0].Texture)
	assert.Equal(t, kd.Version(), tex[0].Version())
	assert.Equal(t, uint32(shader.FirstTextureBinding), tex[0].Slot.TextureBinding)
	assert.Equal(t, material.UniformEnvMap, tex[1].Uniform)
	assert.Same(t, env, tex[1].Cube)
	assert.Equal(t, env.ID(), tex[1].ID())
	assert.Equal(t, shader.SamplerCube, tex[1].Slot.Kind)
	assert.Equal(t, tex[0].Slot.SamplerBinding+1, tex[1].Slot.TextureBinding)

	assert.True(t, p.VertexInput())
	assert.Contains(t, p.Lowered().Fragment, "uniform textureCube envMap_texture;")
	assert.Nil(t, p.BindGroupLayout(shader.GroupMaterial), "not registered yet")
}

func TestForMaterialBackdrop(t *testing.T) {
	env := cube(t)
	p, err := ForMaterial(material.NewBackdropMaterial(env), shader.NewLibrary())
	require.NoError(t, err)

	assert.False(t, p.DepthTestEnabled())
	assert.False(t, p.DepthWriteEnabled())
	assert.False(t, p.VertexInput(), "fullscreen triangle is generated from the vertex index")
	require.Len(t, p.Textures(), 1)
	assert.Same(t, env, p.Textures()[0].Cube)

	_, err = ForMaterial(material.NewBackdropMaterial(nil), shader.NewLibrary())
	assert.ErrorIs(t, err, ErrMissingTexture)
}

func TestForMaterialUnboundSampler(t *testing.T) {
	m := material.NewPhysicalMaterial(material.WithCompileHook(func(p *shader.Program) error {
		p.Fragment = "uniform sampler2D maskTexture;\n" + p.Fragment
		return nil
	}))
	_, err := ForMaterial(m, shader.NewLibrary())
	assert.ErrorIs(t, err, ErrMissingTexture)

	m = material.NewPhysicalMaterial(material.WithCompileHook(func(p *shader.Program) error {
		p.Fragment = "uniform float glow;\n" + p.Fragment
		return nil
	}))
	_, err = ForMaterial(m, shader.NewLibrary())
	assert.ErrorIs(t, err, shader.ErrUnboundUniform)
}

func TestForMaterialTransparentBlends(t *testing.T) {
	m := material.NewPhysicalMaterial(material.WithName("panel"), material.WithOpacity(0.25))
	p, err := ForMaterial(m, shader.NewLibrary())
	require.NoError(t, err)
	assert.True(t, p.BlendEnabled())
	assert.False(t, p.DepthWriteEnabled())
	assert.Empty(t, p.Textures())
}

func TestForMaterialHookError(t *testing.T) {
	boom := errors.New("boom")
	m := material.NewPhysicalMaterial(material.WithCompileHook(func(*shader.Program) error { return boom }))
	_, err := ForMaterial(m, shader.NewLibrary())
	assert.ErrorIs(t, err, boom)
}

func TestKeyDistinguishesClones(t *testing.T) {
	m := material.NewPhysicalMaterial(material.WithName("led"))
	c := m.Clone()
	assert.NotEqual(t, Key(m), Key(c))
}
