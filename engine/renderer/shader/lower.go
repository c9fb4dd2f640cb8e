// lower.go turns a composed Program into the GLSL 450 dialect the GPU backend compiles. Composed
// sources are written against loose uniforms, combined samplers and varyings; lowering resolves
// their conditional blocks against the program's defines, moves loose uniforms into the shared
// uniform blocks, splits every combined sampler into a texture and sampler binding pair and
// assigns explicit locations to varyings and vertex inputs.
package shader

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Bind group indices used by lowered programs.
const (
	// GroupFrame holds the camera and light blocks.
	GroupFrame = 0
	// GroupObject holds the per-object transform block.
	GroupObject = 1
	// GroupMaterial holds the material block followed by the texture and sampler pairs.
	GroupMaterial = 2
)

// Bindings within each group.
const (
	BindingCamera   = 0
	BindingLights   = 1
	BindingObject   = 0
	BindingMaterial = 0
	// FirstTextureBinding is the binding of the first texture in GroupMaterial; its sampler
	// follows it, and each further pair takes the next two bindings.
	FirstTextureBinding = 1
)

// MaxLights is the length of the light array in the light block.
const MaxLights = 16

var (
	// ErrUnboundUniform is returned when a loose uniform is neither a sampler nor a member of a
	// uniform block.
	ErrUnboundUniform = errors.New("uniform is not backed by a uniform block")

	// ErrVaryingMismatch is returned when the fragment stage reads a varying the vertex stage
	// does not write, or reads it with a different type.
	ErrVaryingMismatch = errors.New("fragment varying has no matching vertex output")

	// ErrConditional is returned for unbalanced or unparseable conditional directives.
	ErrConditional = errors.New("invalid conditional directive")
)

// SamplerKind is the dimensionality of a sampled texture.
type SamplerKind int

const (
	// Sampler2D is a 2D texture.
	Sampler2D SamplerKind = iota
	// SamplerCube is a cube texture.
	SamplerCube
)

// SamplerSlot is one combined sampler uniform after lowering.
type SamplerSlot struct {
	// Uniform is the name the composed source declared.
	Uniform string
	Kind    SamplerKind
	// TextureBinding and SamplerBinding are the GroupMaterial bindings of the pair.
	TextureBinding uint32
	SamplerBinding uint32
}

// Lowered is a program ready for the GPU backend.
type Lowered struct {
	Vertex   string
	Fragment string
	// Samplers lists the program's textures in declaration order, vertex stage first.
	Samplers []SamplerSlot
	// Attributes lists the vertex inputs the vertex stage reads, in location order.
	Attributes []string
}

type blockMember struct {
	typ, name string
}

type uniformBlock struct {
	name           string
	group, binding int
	members        []blockMember
}

// uniformBlocks mirrors the std140 layouts the renderer uploads.
var uniformBlocks = []uniformBlock{
	{"CameraBlock", GroupFrame, BindingCamera, []blockMember{
		{"mat4", "viewProjectionMatrix"},
		{"mat4", "projectionMatrix"},
		{"mat4", "viewMatrix"},
		{"mat4", "backdropMatrix"},
		{"vec3", "cameraPosition"},
	}},
	{"LightsBlock", GroupFrame, BindingLights, []blockMember{
		{"vec3", "ambientLightColor"},
		{"uint", "lightCount"},
		{"SceneLight", "lights[" + strconv.Itoa(MaxLights) + "]"},
	}},
	{"ObjectBlock", GroupObject, BindingObject, []blockMember{
		{"mat4", "modelMatrix"},
		{"mat4", "modelViewMatrix"},
		{"mat3", "normalMatrix"},
	}},
	{"MaterialBlock", GroupMaterial, BindingMaterial, []blockMember{
		{"vec3", "diffuse"},
		{"float", "opacity"},
		{"vec3", "emissive"},
		{"float", "materialPad0"},
		{"float", "roughness"},
		{"float", "metalness"},
		{"float", "envMapIntensity"},
		{"float", "materialPad1"},
		{"mat3", "uvTransform"},
		{"mat3", "emissiveMapTransform"},
	}},
}

const sceneLightStruct = `struct SceneLight {
	vec3 position;
	uint kind;
	vec3 color;
	float intensity;
	vec3 direction;
	float lightPad0;
	vec3 groundColor;
	float lightPad1;
};`

// vertexAttributes are the inputs every mesh vertex buffer provides, by location.
var vertexAttributes = []blockMember{
	{"vec3", "position"},
	{"vec3", "normal"},
	{"vec2", "uv"},
}

// fragColor replaces gl_FragColor, which GLSL 450 does not have.
const fragColor = "pc_fragColor"

var (
	blockPrelude string
	blockMembers = make(map[string]bool)

	uniformDecl = regexp.MustCompile(`^\s*uniform\s+(\w+)\s+(\w+)\s*;\s*$`)
	varyingDecl = regexp.MustCompile(`^\s*varying\s+(\w+)\s+(\w+)\s*;\s*$`)
	directive   = regexp.MustCompile(`^\s*#\s*(\w+)\s*(.*?)\s*$`)
	condToken   = regexp.MustCompile(`[A-Za-z_]\w*|\d+|&&|\|\||[!()]|\S`)
)

func init() {
	var b strings.Builder
	b.WriteString(sceneLightStruct + "\n")
	for _, block := range uniformBlocks {
		fmt.Fprintf(&b, "layout(set = %d, binding = %d) uniform %s {\n", block.group, block.binding, block.name)
		for _, m := range block.members {
			fmt.Fprintf(&b, "\t%s %s;\n", m.typ, m.name)
			name, _, _ := strings.Cut(m.name, "[")
			blockMembers[name] = true
		}
		b.WriteString("};\n")
	}
	blockPrelude = b.String()
}

// varying is a stage interface variable and its assigned location.
type varying struct {
	typ      string
	location int
}

// lowerer carries the sampler table shared by both stages of one program.
type lowerer struct {
	name     string
	samplers []SamplerSlot
}

// Lower rewrites both stages of p for the GPU backend.
//
// Parameters:
//   - p: the composed program, includes already expanded
//
// Returns:
//   - *Lowered: the lowered stages and their texture slots
//   - error: error if a uniform has no backing block, a varying is unmatched or a conditional
//     directive cannot be resolved
func Lower(p *Program) (*Lowered, error) {
	l := &lowerer{name: p.Name}

	vertexLines, err := resolveConditionals(p.Vertex)
	if err != nil {
		return nil, fmt.Errorf("program %q: vertex: %w", p.Name, err)
	}
	fragmentLines, err := resolveConditionals(p.Fragment)
	if err != nil {
		return nil, fmt.Errorf("program %q: fragment: %w", p.Name, err)
	}

	outputs := make(map[string]varying)
	vertex, err := l.stage(vertexLines, ShaderTypeVertex, outputs)
	if err != nil {
		return nil, err
	}
	fragment, err := l.stage(fragmentLines, ShaderTypeFragment, outputs)
	if err != nil {
		return nil, err
	}

	out := &Lowered{Samplers: l.samplers}

	var vertexPrelude strings.Builder
	body := strings.Join(vertex, "\n")
	for loc, attr := range vertexAttributes {
		if regexp.MustCompile(`\b` + attr.name + `\b`).MatchString(body) {
			fmt.Fprintf(&vertexPrelude, "layout(location = %d) in %s %s;\n", loc, attr.typ, attr.name)
			out.Attributes = append(out.Attributes, attr.name)
		}
	}
	fragmentPrelude := "layout(location = 0) out vec4 " + fragColor + ";\n"

	out.Vertex = "#version 450\n" + blockPrelude + vertexPrelude.String() + strings.Join(l.substitute(vertex), "\n") + "\n"
	out.Fragment = "#version 450\n" + blockPrelude + fragmentPrelude + strings.Join(l.substitute(fragment), "\n") + "\n"
	return out, nil
}

// stage rewrites the declarations of one stage. Vertex outputs are recorded into outputs;
// fragment inputs are matched against them.
func (l *lowerer) stage(lines []string, t ShaderType, outputs map[string]varying) ([]string, error) {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if m := uniformDecl.FindStringSubmatch(line); m != nil {
			typ, name := m[1], m[2]
			switch {
			case typ == "sampler2D" || typ == "samplerCube":
				kind := Sampler2D
				textureType := "texture2D"
				if typ == "samplerCube" {
					kind, textureType = SamplerCube, "textureCube"
				}
				slot, err := l.slot(name, kind)
				if err != nil {
					return nil, err
				}
				out = append(out,
					fmt.Sprintf("layout(set = %d, binding = %d) uniform %s %s_texture;", GroupMaterial, slot.TextureBinding, textureType, name),
					fmt.Sprintf("layout(set = %d, binding = %d) uniform sampler %s_sampler;", GroupMaterial, slot.SamplerBinding, name),
				)
			case blockMembers[name]:
			default:
				return nil, fmt.Errorf("program %q: %s: %w: %s %s", l.name, t, ErrUnboundUniform, typ, name)
			}
			continue
		}

		if m := varyingDecl.FindStringSubmatch(line); m != nil {
			typ, name := m[1], m[2]
			if t == ShaderTypeVertex {
				v, ok := outputs[name]
				if !ok {
					v = varying{typ: typ, location: len(outputs)}
					outputs[name] = v
				}
				out = append(out, fmt.Sprintf("layout(location = %d) out %s %s;", v.location, typ, name))
				continue
			}
			v, ok := outputs[name]
			if !ok || v.typ != typ {
				return nil, fmt.Errorf("program %q: %w: %s %s", l.name, ErrVaryingMismatch, typ, name)
			}
			out = append(out, fmt.Sprintf("layout(location = %d) in %s %s;", v.location, typ, name))
			continue
		}

		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "precision ") {
			continue
		}
		out = append(out, line)
	}
	return out, nil
}

// slot returns the binding pair of a sampler uniform, assigning the next pair on first sight.
func (l *lowerer) slot(name string, kind SamplerKind) (SamplerSlot, error) {
	for _, s := range l.samplers {
		if s.Uniform == name {
			if s.Kind != kind {
				return SamplerSlot{}, fmt.Errorf("program %q: sampler %s declared with two kinds", l.name, name)
			}
			return s, nil
		}
	}
	next := uint32(FirstTextureBinding + 2*len(l.samplers))
	s := SamplerSlot{Uniform: name, Kind: kind, TextureBinding: next, SamplerBinding: next + 1}
	l.samplers = append(l.samplers, s)
	return s, nil
}

// substitute rewrites sampling calls and sampler references in body lines. Lines the lowerer
// generated are recognized by their layout qualifier and left alone.
func (l *lowerer) substitute(lines []string) []string {
	var names []string
	kinds := make(map[string]SamplerKind)
	for _, s := range l.samplers {
		names = append(names, regexp.QuoteMeta(s.Uniform))
		kinds[s.Uniform] = s.Kind
	}
	var ref *regexp.Regexp
	if len(names) > 0 {
		ref = regexp.MustCompile(`\b(` + strings.Join(names, "|") + `)\b`)
	}
	calls := strings.NewReplacer("texture2D(", "texture(", "textureCube(", "texture(", "gl_FragColor", fragColor)

	out := make([]string, len(lines))
	for i, line := range lines {
		if strings.HasPrefix(line, "layout(") {
			out[i] = line
			continue
		}
		line = calls.Replace(line)
		if ref != nil {
			line = ref.ReplaceAllStringFunc(line, func(name string) string {
				constructor := "sampler2D"
				if kinds[name] == SamplerCube {
					constructor = "samplerCube"
				}
				return fmt.Sprintf("%s( %s_texture, %s_sampler )", constructor, name, name)
			})
		}
		out[i] = line
	}
	return out
}

// condFrame is one open conditional block.
type condFrame struct {
	parentActive bool
	taken        bool
	active       bool
}

// resolveConditionals evaluates #ifdef, #ifndef, #if, #elif, #else and #endif against the
// defines seen so far and returns the surviving lines. #define and #undef lines are kept.
// #version lines are dropped.
func resolveConditionals(source string) ([]string, error) {
	defines := make(map[string]string)
	var stack []condFrame
	active := func() bool {
		return len(stack) == 0 || stack[len(stack)-1].active
	}

	var out []string
	for i, line := range strings.Split(source, "\n") {
		m := directive.FindStringSubmatch(line)
		if m == nil {
			if active() {
				out = append(out, line)
			}
			continue
		}
		name, rest := m[1], m[2]
		switch name {
		case "ifdef", "ifndef":
			_, defined := defines[firstWord(rest)]
			cond := defined == (name == "ifdef")
			parent := active()
			stack = append(stack, condFrame{parentActive: parent, taken: cond, active: parent && cond})
		case "if":
			cond, err := evalCondition(rest, defines)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", i+1, err)
			}
			parent := active()
			stack = append(stack, condFrame{parentActive: parent, taken: cond, active: parent && cond})
		case "elif":
			if len(stack) == 0 {
				return nil, fmt.Errorf("line %d: %w: #elif without #if", i+1, ErrConditional)
			}
			top := &stack[len(stack)-1]
			if top.taken {
				top.active = false
				continue
			}
			cond, err := evalCondition(rest, defines)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", i+1, err)
			}
			top.taken = cond
			top.active = top.parentActive && cond
		case "else":
			if len(stack) == 0 {
				return nil, fmt.Errorf("line %d: %w: #else without #if", i+1, ErrConditional)
			}
			top := &stack[len(stack)-1]
			top.active = top.parentActive && !top.taken
			top.taken = true
		case "endif":
			if len(stack) == 0 {
				return nil, fmt.Errorf("line %d: %w: #endif without #if", i+1, ErrConditional)
			}
			stack = stack[:len(stack)-1]
		case "version":
		default:
			if !active() {
				continue
			}
			switch name {
			case "define":
				key, value := splitDefine(rest)
				defines[key] = value
			case "undef":
				delete(defines, firstWord(rest))
			}
			out = append(out, line)
		}
	}
	if len(stack) != 0 {
		return nil, fmt.Errorf("%w: %d unterminated block(s)", ErrConditional, len(stack))
	}
	return out, nil
}

func firstWord(s string) string {
	if f := strings.Fields(s); len(f) > 0 {
		return f[0]
	}
	return ""
}

// splitDefine separates the macro name of a #define from its replacement. Function-like macros
// are recorded by name only.
func splitDefine(rest string) (string, string) {
	end := strings.IndexAny(rest, " \t(")
	if end < 0 {
		return rest, ""
	}
	if rest[end] == '(' {
		return rest[:end], ""
	}
	return rest[:end], strings.TrimSpace(rest[end:])
}

// evalCondition evaluates an #if expression built from defined(), integer literals, macro
// names, parentheses and the !, && and || operators.
func evalCondition(expr string, defines map[string]string) (bool, error) {
	p := &condParser{tokens: condToken.FindAllString(expr, -1), defines: defines}
	v, err := p.or()
	if err != nil {
		return false, err
	}
	if p.pos != len(p.tokens) {
		return false, fmt.Errorf("%w: unexpected %q in %q", ErrConditional, p.tokens[p.pos], expr)
	}
	return v != 0, nil
}

type condParser struct {
	tokens  []string
	pos     int
	defines map[string]string
}

func (p *condParser) peek() string {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return ""
}

func (p *condParser) next() string {
	t := p.peek()
	p.pos++
	return t
}

func (p *condParser) or() (int, error) {
	v, err := p.and()
	for err == nil && p.peek() == "||" {
		p.next()
		var r int
		if r, err = p.and(); err == nil {
			v = boolInt(v != 0 || r != 0)
		}
	}
	return v, err
}

func (p *condParser) and() (int, error) {
	v, err := p.unary()
	for err == nil && p.peek() == "&&" {
		p.next()
		var r int
		if r, err = p.unary(); err == nil {
			v = boolInt(v != 0 && r != 0)
		}
	}
	return v, err
}

func (p *condParser) unary() (int, error) {
	if p.peek() == "!" {
		p.next()
		v, err := p.unary()
		return boolInt(v == 0), err
	}
	return p.primary()
}

func (p *condParser) primary() (int, error) {
	tok := p.next()
	switch {
	case tok == "":
		return 0, fmt.Errorf("%w: expression ends early", ErrConditional)
	case tok == "defined":
		paren := p.peek() == "("
		if paren {
			p.next()
		}
		name := p.next()
		if paren && p.next() != ")" {
			return 0, fmt.Errorf("%w: unclosed defined(", ErrConditional)
		}
		_, ok := p.defines[name]
		return boolInt(ok), nil
	case tok == "(":
		v, err := p.or()
		if err == nil && p.next() != ")" {
			err = fmt.Errorf("%w: unclosed parenthesis", ErrConditional)
		}
		return v, err
	case tok[0] >= '0' && tok[0] <= '9':
		return strconv.Atoi(tok)
	case isIdent(tok):
		v, _ := strconv.Atoi(p.defines[tok])
		return v, nil
	}
	return 0, fmt.Errorf("%w: unsupported token %q", ErrConditional, tok)
}

func isIdent(tok string) bool {
	c := tok[0]
	return c == '_' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
