package material

import (
	"encoding/binary"
	"errors"
	"image"
	"math"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-beeb/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-beeb/engine/texture"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHex(t *testing.T) {
	assert.Equal(t, [3]float32{1, 0, 0}, Hex(0xff0000))
	assert.Equal(t, [3]float32{0, 0, 0}, Hex(0))
	c := Hex(0x102018)
	assert.InDelta(t, 16.0/255, c[0], 1e-6)
	assert.InDelta(t, 32.0/255, c[1], 1e-6)
	assert.InDelta(t, 24.0/255, c[2], 1e-6)
}

func TestPhysicalDefaultsAndOptions(t *testing.T) {
	m := NewPhysicalMaterial()
	assert.Equal(t, KindPhysical, m.Kind())
	assert.Equal(t, float32(1), m.Roughness())
	assert.Equal(t, [3]float32{}, m.Emissive())
	assert.Nil(t, m.EmissiveMap())
	assert.Empty(t, m.Defines())

	tex := texture.New("fb", image.NewRGBA(image.Rect(0, 0, 2, 2)), texture.WithRepeat(0.5, 0.5))
	m = NewPhysicalMaterial(WithName("glass"), WithRoughness(0), WithEmissiveMap(tex), WithOpacity(0.5))
	assert.Equal(t, "glass", m.Name())
	assert.Same(t, tex, m.EmissiveMap())
	assert.True(t, m.Transparent())
	assert.ElementsMatch(t, []string{"USE_EMISSIVEMAP", "TRANSPARENT"}, m.Defines())
}

func TestCloneIsIndependent(t *testing.T) {
	tex := texture.New("kd", image.NewRGBA(image.Rect(0, 0, 1, 1)))
	orig := NewPhysicalMaterial(WithName("led"), WithMap(tex))
	c := orig.Clone().(PhysicalMaterial)

	c.SetEmissive(Hex(0xff0000))
	assert.Equal(t, [3]float32{}, orig.Emissive())
	assert.Equal(t, [3]float32{1, 0, 0}, c.Emissive())
	assert.Same(t, orig.Map(), c.Map())
	assert.Equal(t, "led", c.Name())

	b := NewBasicMaterial(WithBasicColor(Hex(0)))
	bc := b.Clone().(BasicMaterial)
	bc.SetColor([3]float32{1, 1, 1})
	assert.Equal(t, [3]float32{}, b.Color())
}

func TestCompileRunsHookAndExpandsIncludes(t *testing.T) {
	m := NewPhysicalMaterial(WithName("screen"))
	var sawUniforms bool
	m.OnBeforeCompile(func(p *shader.Program) error {
		_, sawUniforms = p.Uniforms[UniformEmissive]
		p.Uniforms["maskTexture"] = &shader.Uniform{Value: 7}
		var err error
		p.Fragment, err = shader.Splice(p.Fragment, []shader.Injection{
			{Anchor: "#include <aomap_fragment>", Source: "// epilog", Mode: shader.InsertAfter},
		})
		return err
	})

	p, err := Compile(m, shader.NewLibrary())
	require.NoError(t, err)
	assert.True(t, sawUniforms)
	assert.Equal(t, "screen", p.Name)
	assert.Contains(t, p.Fragment, "// epilog")
	assert.NotContains(t, p.Fragment, "#include")
	assert.Equal(t, 7, p.Uniforms["maskTexture"].Value)

	// Program uniforms are live views of the material.
	m.SetEmissive([3]float32{0, 1, 0})
	assert.Equal(t, [3]float32{0, 1, 0}, p.Uniforms[UniformEmissive].Value)
}

func TestCompileDefinesPrefix(t *testing.T) {
	tex := texture.New("fb", image.NewRGBA(image.Rect(0, 0, 1, 1)))
	p, err := Compile(NewPhysicalMaterial(WithEmissiveMap(tex)), shader.NewLibrary())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(p.Fragment, "#define USE_EMISSIVEMAP\n"))
}

func TestCompileHookErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	m := NewPhysicalMaterial(WithCompileHook(func(*shader.Program) error { return boom }))
	_, err := Compile(m, shader.NewLibrary())
	require.ErrorIs(t, err, boom)
}

func TestCompileBasic(t *testing.T) {
	p, err := Compile(NewBasicMaterial(WithBasicName("spacebar")), shader.NewLibrary())
	require.NoError(t, err)
	assert.NotContains(t, p.Fragment, "emissive")
}

func TestParamsFor(t *testing.T) {
	m := NewPhysicalMaterial(WithColor([3]float32{0.1, 0.2, 0.3}), WithRoughness(0.25), WithEmissive([3]float32{1, 0, 0}))
	g := ParamsFor(m)
	assert.Equal(t, [4]float32{0.1, 0.2, 0.3, 1}, g.Diffuse)
	assert.Equal(t, float32(0.25), g.Surface[0])

	buf := g.Marshal()
	require.Len(t, buf, g.Size())
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(buf[16:20])))

	b := ParamsFor(NewBasicMaterial())
	assert.Equal(t, float32(1), b.Diffuse[3])
	assert.Equal(t, PackMat3(mgl32.Ident3()), b.UVTransform)
}

func TestParamsForFollowsMapTransforms(t *testing.T) {
	tex := texture.New("fb", image.NewRGBA(image.Rect(0, 0, 2, 2)), texture.WithRepeat(0.5, 0.25), texture.WithOffset(0.1, 0))
	m := NewPhysicalMaterial(WithEmissiveMap(tex))
	g := ParamsFor(m)

	assert.Equal(t, [12]float32{0.5, 0, 0, 0, 0, 0.25, 0, 0, 0.1, 0, 1, 0}, g.EmissiveMapTransform)
	assert.Equal(t, PackMat3(mgl32.Ident3()), g.UVTransform, "no diffuse map bound")

	buf := g.Marshal()
	require.Len(t, buf, 144)
	assert.Equal(t, float32(0.25), math.Float32frombits(binary.LittleEndian.Uint32(buf[96+20:])))
}
