// Package compositor builds the CRT glass material: a physically based surface whose emission
// is the emulated video output, shaped by three external shader snippets and a mask texture.
package compositor

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-beeb/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-beeb/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-beeb/engine/texture"
)

const (
	// ScreenColor is the base color of the glass.
	ScreenColor = 0x102018

	// MaskUniform is the uniform through which the snippets sample the mask texture.
	MaskUniform = "maskTexture"

	// ScreenMaterialName names the composed material.
	ScreenMaterialName = "screen"
)

// Anchors the snippets are spliced at in the physical fragment template.
const (
	AnchorCommon      = "#include <common>"
	AnchorEmissiveMap = "#include <emissivemap_fragment>"
	AnchorAOMap       = "#include <aomap_fragment>"
)

// ErrInvalidInput is returned by BuildScreenMaterial when a texture is missing.
var ErrInvalidInput = errors.New("compositor: invalid input")

// Snippets holds the three shader fragments that customize the glass. Any of them may be
// empty; an empty Emissive drops the emissive-map sampling.
type Snippets struct {
	// Prolog is inserted on the line before #include <common>, so its declarations precede the
	// common helpers. Snippets written against the chassis assets rely on that placement.
	Prolog string
	// Emissive replaces the standard emissive-map sampling.
	Emissive string
	// Epilog runs after ambient occlusion is applied.
	Epilog string
}

// Injections returns the ordered edits that splice s into the physical fragment template.
func Injections(s Snippets) []shader.Injection {
	return []shader.Injection{
		{Anchor: AnchorCommon, Source: s.Prolog, Mode: shader.InsertBefore},
		{Anchor: AnchorEmissiveMap, Source: s.Emissive, Mode: shader.Replace},
		{Anchor: AnchorAOMap, Source: s.Epilog, Mode: shader.InsertAfter},
	}
}

// BuildScreenMaterial composes the glass material. The material is opaque, colored
// ScreenColor, perfectly smooth, emits white modulated by the framebuffer texture and
// reflects envMap. Its compile hook binds mask to MaskUniform and splices the snippets.
// The hook is run once against the physical template before returning so that anchor
// problems surface here instead of at first draw.
//
// Parameters:
//   - envMap: the environment reflected by the glass
//   - fb: the framebuffer texture carrying the video output
//   - mask: the texture sampled by the snippets as maskTexture
//   - s: the shader snippets
//
// Returns:
//   - material.PhysicalMaterial: the composed material
//   - error: error wrapping ErrInvalidInput for missing textures, or a splice error
func BuildScreenMaterial(envMap *texture.CubeTexture, fb, mask *texture.Texture, s Snippets) (material.PhysicalMaterial, error) {
	switch {
	case envMap == nil:
		return nil, fmt.Errorf("%w: nil environment map", ErrInvalidInput)
	case fb == nil:
		return nil, fmt.Errorf("%w: nil framebuffer texture", ErrInvalidInput)
	case mask == nil:
		return nil, fmt.Errorf("%w: nil mask texture", ErrInvalidInput)
	}

	m := material.NewPhysicalMaterial(
		material.WithName(ScreenMaterialName),
		material.WithTransparent(false),
		material.WithColor(material.Hex(ScreenColor)),
		material.WithRoughness(0),
		material.WithEmissive(material.Hex(0xffffff)),
		material.WithEmissiveMap(fb),
		material.WithEnvMap(envMap),
	)

	maskUniform := &shader.Uniform{Value: mask}
	injections := Injections(s)
	m.OnBeforeCompile(func(p *shader.Program) error {
		p.Uniforms[MaskUniform] = maskUniform
		frag, err := shader.Splice(p.Fragment, injections)
		if err != nil {
			return err
		}
		p.Fragment = frag
		return nil
	})

	if err := Validate(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate runs m's compile hook against a fresh copy of its template.
//
// Parameters:
//   - m: the material to check
//
// Returns:
//   - error: the hook's error, if any
func Validate(m material.Material) error {
	hook := m.CompileHook()
	if hook == nil {
		return nil
	}
	p, err := shader.NewLibrary().Template(string(m.Kind()))
	if err != nil {
		return err
	}
	if err := hook(p); err != nil {
		return fmt.Errorf("screen material: %w", err)
	}
	return nil
}
