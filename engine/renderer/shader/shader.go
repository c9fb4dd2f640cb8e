package shader

import (
	"embed"
	"fmt"
	"maps"
	"strings"
)

//go:embed assets/*.glsl assets/chunks/*.glsl
var assets embed.FS

// ShaderType identifies which stage of a Program a source string belongs to.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex stage.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment stage.
	ShaderTypeFragment
)

func (t ShaderType) String() string {
	if t == ShaderTypeVertex {
		return "vertex"
	}
	return "fragment"
}

const (
	// TemplatePhysical is the lit, physically based template. Its fragment stage carries the
	// `#include <common>`, `#include <emissivemap_fragment>` and `#include <aomap_fragment>`
	// anchors used by material compile hooks.
	TemplatePhysical = "physical"

	// TemplateBasic is the flat, unlit template.
	TemplateBasic = "basic"

	// TemplateBackdrop draws a cube texture behind everything else as a fullscreen triangle.
	TemplateBackdrop = "backdrop"
)

// Uniform is a single named program input. Value holds the live value; materials keep
// pointers to their uniforms so later mutations are visible to every program compiled from them.
type Uniform struct {
	Value any
}

// Program is the source pair and uniform set for one material. Compile hooks receive a
// Program before include expansion and may rewrite its sources and add uniforms.
type Program struct {
	Name     string
	Vertex   string
	Fragment string
	Uniforms map[string]*Uniform
}

// Source returns the source of the given stage.
func (p *Program) Source(t ShaderType) string {
	if t == ShaderTypeVertex {
		return p.Vertex
	}
	return p.Fragment
}

// Library provides program templates and the named chunks their `#include` lines refer to.
type Library interface {
	// Template returns a fresh Program for the named template. The returned Program is owned
	// by the caller and has an empty, non-nil uniform map.
	//
	// Parameters:
	//   - name: the template name, e.g. TemplatePhysical
	//
	// Returns:
	//   - *Program: a new program holding the unexpanded template sources
	//   - error: error if no template has the given name
	Template(name string) (*Program, error)

	// Chunk retrieves the source of a named chunk.
	//
	// Parameters:
	//   - name: the chunk name as written between the angle brackets of an include line
	//
	// Returns:
	//   - string: the chunk source
	//   - bool: true if the chunk exists
	Chunk(name string) (string, bool)

	// RegisterChunk adds or replaces a chunk.
	//
	// Parameters:
	//   - name: the chunk name
	//   - source: the chunk source
	RegisterChunk(name, source string)
}

// library is the implementation of the Library interface.
type library struct {
	templates map[string][2]string
	chunks    map[string]string
}

var _ Library = &library{}

// NewLibrary creates a Library populated with the built-in templates and chunks.
//
// Returns:
//   - Library: the chunk library
func NewLibrary() Library {
	l := &library{
		templates: make(map[string][2]string),
		chunks:    make(map[string]string),
	}
	for _, name := range []string{TemplatePhysical, TemplateBasic, TemplateBackdrop} {
		l.templates[name] = [2]string{mustAsset("assets/" + name + ".vert.glsl"), mustAsset("assets/" + name + ".frag.glsl")}
	}
	entries, err := assets.ReadDir("assets/chunks")
	if err != nil {
		panic(fmt.Sprintf("shader: failed to read embedded chunks: %v", err))
	}
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), ".glsl")
		l.chunks[name] = mustAsset("assets/chunks/" + e.Name())
	}
	return l
}

func (l *library) Template(name string) (*Program, error) {
	src, ok := l.templates[name]
	if !ok {
		return nil, fmt.Errorf("unknown shader template %q", name)
	}
	return &Program{
		Name:     name,
		Vertex:   src[0],
		Fragment: src[1],
		Uniforms: make(map[string]*Uniform),
	}, nil
}

func (l *library) Chunk(name string) (string, bool) {
	s, ok := l.chunks[name]
	return s, ok
}

func (l *library) RegisterChunk(name, source string) {
	l.chunks[name] = source
}

// Clone returns a copy of p that shares uniform values but not the uniform map.
func (p *Program) Clone() *Program {
	c := *p
	c.Uniforms = maps.Clone(p.Uniforms)
	if c.Uniforms == nil {
		c.Uniforms = make(map[string]*Uniform)
	}
	return &c
}

func mustAsset(path string) string {
	b, err := assets.ReadFile(path)
	if err != nil {
		panic(fmt.Sprintf("shader: missing embedded asset %q: %v", path, err))
	}
	return string(b)
}
