package shader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhysicalTemplateHasAnchorsOnce(t *testing.T) {
	p, err := NewLibrary().Template(TemplatePhysical)
	require.NoError(t, err)
	for _, a := range []string{"#include <common>", "#include <emissivemap_fragment>", "#include <aomap_fragment>"} {
		assert.Equal(t, 1, strings.Count(p.Fragment, a), a)
	}
	assert.NotNil(t, p.Uniforms)

	_, err = NewLibrary().Template("toon")
	require.Error(t, err)
}

func TestSpliceModes(t *testing.T) {
	src := "a\nANCHOR1\nb\nANCHOR2\nc\nANCHOR3\nd"
	out, err := Splice(src, []Injection{
		{Anchor: "ANCHOR1", Source: "pre", Mode: InsertBefore},
		{Anchor: "ANCHOR2", Source: "swap", Mode: Replace},
		{Anchor: "ANCHOR3", Source: "post", Mode: InsertAfter},
	})
	require.NoError(t, err)
	assert.Equal(t, "a\npre\nANCHOR1\nb\nswap\nc\nANCHOR3\npost\nd", out)
}

func TestSpliceAnchorErrors(t *testing.T) {
	_, err := Splice("x", []Injection{{Anchor: "missing", Source: "s", Mode: Replace}})
	require.ErrorIs(t, err, ErrAnchorNotFound)

	_, err = Splice("dup dup", []Injection{{Anchor: "dup", Source: "s", Mode: Replace}})
	require.ErrorIs(t, err, ErrAnchorAmbiguous)

	// Later injections see the output of earlier ones.
	_, err = Splice("A", []Injection{
		{Anchor: "A", Source: "B", Mode: Replace},
		{Anchor: "A", Source: "C", Mode: Replace},
	})
	require.ErrorIs(t, err, ErrAnchorNotFound)

	_, err = Splice("A", []Injection{{Source: "x"}})
	require.Error(t, err)
}

func TestPreProcessorExpandsIncludes(t *testing.T) {
	lib := NewLibrary()
	lib.RegisterChunk("outer", "o1\n#include <inner>")
	lib.RegisterChunk("inner", "i1")

	pp := NewPreProcessor(lib)
	out, err := pp.Process("top\n\t#include <outer>\nend")
	require.NoError(t, err)
	assert.Equal(t, "top\n\to1\n\ti1\nend", out)

	incs := pp.Includes()
	require.Len(t, incs, 2)
	assert.Equal(t, "outer", incs[0].Chunk)
	assert.Equal(t, 2, incs[0].Line)
	assert.Equal(t, "inner", incs[1].Chunk)
}

func TestPreProcessorErrors(t *testing.T) {
	lib := NewLibrary()
	lib.RegisterChunk("loop", "#include <loop>")
	pp := NewPreProcessor(lib)

	_, err := pp.Process("#include <nope>")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown chunk")

	_, err = pp.Process("#include common")
	require.Error(t, err)

	_, err = pp.Process("#include <loop>")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}

func TestBuiltInTemplatesExpandFully(t *testing.T) {
	lib := NewLibrary()
	pp := NewPreProcessor(lib)
	for _, name := range []string{TemplatePhysical, TemplateBasic} {
		p, err := lib.Template(name)
		require.NoError(t, err)
		for _, src := range []string{p.Vertex, p.Fragment} {
			out, err := pp.Process(src)
			require.NoError(t, err, name)
			assert.NotContains(t, out, "#include")
		}
	}
}
