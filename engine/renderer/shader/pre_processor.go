// pre_processor.go implements the shader pre-processor. It scans program source for
// `#include <chunk>` directives and replaces each one with the chunk's source from a
// Library, recursing into chunks that include other chunks. The chunk names expanded
// during the last run are recorded so callers can inspect which features a program pulled in.
package shader

import (
	"fmt"
	"strings"
)

// maxIncludeDepth bounds nested include expansion.
const maxIncludeDepth = 8

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	lib Library

	// includes accumulates the directives expanded during a Process call in source order.
	includes []Include
}

// PreProcessor expands include directives in shader source.
type PreProcessor interface {
	// Process replaces every `#include <chunk>` line in source with the chunk's source.
	// Chunks are expanded recursively; a chunk that includes itself, directly or through
	// other chunks, is an error.
	//
	// The includes list is reset at the start of each call and can be retrieved via
	// Includes() after Process returns.
	//
	// Parameters:
	//   - source: the shader source containing include directives
	//
	// Returns:
	//   - string: the expanded source
	//   - error: error if a directive is malformed or names an unknown chunk
	Process(source string) (string, error)

	// Includes returns the top-level and nested directives expanded during the most recent
	// call to Process, in expansion order. Returns nil if Process has not been called.
	//
	// Returns:
	//   - []Include: the expanded directives
	Includes() []Include
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor resolving chunks from lib.
//
// Parameters:
//   - lib: the chunk library
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor instance
func NewPreProcessor(lib Library) PreProcessor {
	return &preProcessor{lib: lib}
}

func (p *preProcessor) Process(source string) (string, error) {
	p.includes = p.includes[:0]
	return p.expand(source, nil)
}

func (p *preProcessor) expand(source string, stack []string) (string, error) {
	if len(stack) > maxIncludeDepth {
		return "", fmt.Errorf("include depth exceeds %d: %s", maxIncludeDepth, strings.Join(stack, " -> "))
	}

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))

	for i, line := range lines {
		inc, err := parseInclude(line, i+1)
		if err != nil {
			return "", err
		}
		if inc == nil {
			out = append(out, line)
			continue
		}

		for _, s := range stack {
			if s == inc.Chunk {
				return "", fmt.Errorf("line %d: include cycle: %s -> %s", inc.Line, strings.Join(stack, " -> "), inc.Chunk)
			}
		}
		chunk, ok := p.lib.Chunk(inc.Chunk)
		if !ok {
			return "", fmt.Errorf("line %d: unknown chunk %q", inc.Line, inc.Chunk)
		}
		p.includes = append(p.includes, *inc)

		expanded, err := p.expand(strings.TrimRight(chunk, "\n"), append(stack, inc.Chunk))
		if err != nil {
			return "", fmt.Errorf("in chunk %q: %w", inc.Chunk, err)
		}
		for _, l := range strings.Split(expanded, "\n") {
			if l == "" {
				out = append(out, l)
				continue
			}
			out = append(out, inc.Indent+l)
		}
	}
	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) Includes() []Include {
	return p.includes
}
