// directives.go defines the include directive understood by the shader pre-processor.
// A directive occupies a whole line of the form
//
//	#include <chunk_name>
//
// with optional surrounding whitespace. The chunk name is resolved against a Library.
package shader

import (
	"fmt"
	"strings"
)

// includePrefix marks an include directive line.
const includePrefix = "#include"

// Include is a single parsed include directive.
type Include struct {
	// Chunk is the name between the angle brackets.
	Chunk string

	// Line is the 1-based line number in the source being processed.
	Line int

	// Indent is the leading whitespace of the directive line, re-applied to every line of
	// the expanded chunk.
	Indent string
}

// parseInclude parses a single source line. It returns nil, nil for lines that are not
// include directives and an error for directives that are malformed.
func parseInclude(line string, lineNo int) (*Include, error) {
	trimmed := strings.TrimLeft(line, " \t")
	rest, ok := strings.CutPrefix(trimmed, includePrefix)
	if !ok {
		return nil, nil
	}
	indent := line[:len(line)-len(trimmed)]

	rest = strings.TrimSpace(rest)
	if !strings.HasPrefix(rest, "<") || !strings.HasSuffix(rest, ">") || len(rest) < 3 {
		return nil, fmt.Errorf("line %d: malformed include directive %q", lineNo, strings.TrimSpace(line))
	}
	name := rest[1 : len(rest)-1]
	if strings.ContainsAny(name, " \t<>") {
		return nil, fmt.Errorf("line %d: invalid chunk name %q", lineNo, name)
	}
	return &Include{Chunk: name, Line: lineNo, Indent: indent}, nil
}
