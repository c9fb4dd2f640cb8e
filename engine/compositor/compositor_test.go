package compositor

import (
	"image"
	"slices"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-beeb/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-beeb/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-beeb/engine/texture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var snippets = Snippets{
	Prolog:   "uniform sampler2D maskTexture; // PROLOG",
	Emissive: "totalEmissiveRadiance *= texture2D( emissiveMap, vUv ).rgb; // EMISSIVE",
	Epilog:   "reflectedLight.indirectDiffuse *= 1.0; // EPILOG",
}

func inputs(t *testing.T) (*texture.CubeTexture, *texture.Texture, *texture.Texture) {
	t.Helper()
	var faces [6]*image.RGBA
	for i := range faces {
		faces[i] = image.NewRGBA(image.Rect(0, 0, 2, 2))
	}
	env, err := texture.NewCubeTexture(faces)
	require.NoError(t, err)
	fb := texture.New("fb", image.NewRGBA(image.Rect(0, 0, 4, 4)))
	mask := texture.New("mask", image.NewRGBA(image.Rect(0, 0, 4, 4)))
	return env, fb, mask
}

func TestBuildScreenMaterial(t *testing.T) {
	env, fb, mask := inputs(t)
	m, err := BuildScreenMaterial(env, fb, mask, snippets)
	require.NoError(t, err)

	assert.False(t, m.Transparent())
	assert.Equal(t, material.Hex(ScreenColor), m.Color())
	assert.Equal(t, float32(0), m.Roughness())
	assert.Equal(t, [3]float32{1, 1, 1}, m.Emissive())
	assert.Same(t, fb, m.EmissiveMap())
	assert.Same(t, env, m.EnvMap())
}

func TestScreenProgramComposition(t *testing.T) {
	env, fb, mask := inputs(t)
	m, err := BuildScreenMaterial(env, fb, mask, snippets)
	require.NoError(t, err)

	p, err := material.Compile(m, shader.NewLibrary())
	require.NoError(t, err)
	assert.Same(t, mask, p.Uniforms[MaskUniform].Value)

	frag := p.Fragment
	prolog := strings.Index(frag, "// PROLOG")
	common := strings.Index(frag, "#define PI")
	emissive := strings.Index(frag, "// EMISSIVE")
	ao := strings.Index(frag, "float ambientOcclusion")
	epilog := strings.Index(frag, "// EPILOG")

	require.NotEqual(t, -1, prolog)
	assert.Less(t, prolog, common, "prolog precedes the common declarations")
	assert.Less(t, ao, epilog, "epilog follows ambient occlusion")
	assert.NotContains(t, frag, "emissiveColor", "standard emissive sampling is replaced")
	assert.Equal(t, 1, strings.Count(frag, "// EMISSIVE"))
	assert.Less(t, emissive, ao)
}

func TestInjectionsOrder(t *testing.T) {
	inj := Injections(snippets)
	require.Len(t, inj, 3)
	assert.Equal(t, shader.InsertBefore, inj[0].Mode)
	assert.Equal(t, AnchorCommon, inj[0].Anchor)
	assert.Equal(t, shader.Replace, inj[1].Mode)
	assert.Equal(t, shader.InsertAfter, inj[2].Mode)
}

func TestBuildScreenMaterialRejectsMissingInputs(t *testing.T) {
	env, fb, mask := inputs(t)

	_, err := BuildScreenMaterial(nil, fb, mask, snippets)
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = BuildScreenMaterial(env, nil, mask, snippets)
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = BuildScreenMaterial(env, fb, nil, snippets)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestBuildScreenMaterialAcceptsEmptySnippets(t *testing.T) {
	env, fb, mask := inputs(t)
	m, err := BuildScreenMaterial(env, fb, mask, Snippets{Prolog: "uniform sampler2D maskTexture;"})
	require.NoError(t, err)

	p, err := material.Compile(m, shader.NewLibrary())
	require.NoError(t, err)
	assert.NotContains(t, p.Fragment, "emissivemap_fragment")
	assert.NotContains(t, p.Fragment, "texture2D( emissiveMap", "empty emissive drops the sampling")
	assert.Contains(t, p.Fragment, "float ambientOcclusion")
}

func TestPrologPrecedesCommonInclude(t *testing.T) {
	env, fb, mask := inputs(t)
	m, err := BuildScreenMaterial(env, fb, mask, snippets)
	require.NoError(t, err)

	p, err := shader.NewLibrary().Template(string(m.Kind()))
	require.NoError(t, err)
	require.NoError(t, m.CompileHook()(p))

	lines := strings.Split(p.Fragment, "\n")
	common := slices.Index(lines, AnchorCommon)
	require.Positive(t, common)
	assert.Equal(t, snippets.Prolog, lines[common-1], "the prolog sits on the line before the common include")
	assert.Equal(t, 1, strings.Count(p.Fragment, snippets.Prolog))
}

func TestSnippetContainingAnchorFailsFast(t *testing.T) {
	env, fb, mask := inputs(t)
	bad := snippets
	bad.Prolog = "#include <emissivemap_fragment>"
	_, err := BuildScreenMaterial(env, fb, mask, bad)
	require.ErrorIs(t, err, shader.ErrAnchorAmbiguous)
}
