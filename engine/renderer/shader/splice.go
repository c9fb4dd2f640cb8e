package shader

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAnchorNotFound is returned when an injection anchor does not occur in the source.
	ErrAnchorNotFound = errors.New("shader: anchor not found")

	// ErrAnchorAmbiguous is returned when an injection anchor occurs more than once.
	ErrAnchorAmbiguous = errors.New("shader: anchor occurs more than once")
)

// InjectMode selects where an Injection places its source relative to its anchor.
type InjectMode int

const (
	// InsertBefore places the source on its own line(s) ahead of the anchor. The anchor is kept.
	InsertBefore InjectMode = iota

	// Replace substitutes the source for the anchor.
	Replace

	// InsertAfter places the source on its own line(s) after the anchor. The anchor is kept.
	InsertAfter
)

func (m InjectMode) String() string {
	switch m {
	case InsertBefore:
		return "insert-before"
	case Replace:
		return "replace"
	case InsertAfter:
		return "insert-after"
	}
	return fmt.Sprintf("InjectMode(%d)", int(m))
}

// Injection is one source edit keyed on a literal anchor string.
type Injection struct {
	Anchor string
	Source string
	Mode   InjectMode
}

// Splice applies injections to source in order. Each anchor must occur exactly once in the
// source as it stands when its injection is applied, otherwise nothing is returned and the
// error wraps ErrAnchorNotFound or ErrAnchorAmbiguous.
//
// Parameters:
//   - source: the shader source to edit
//   - injections: the ordered list of edits
//
// Returns:
//   - string: the edited source
//   - error: error if any anchor is missing, repeated or empty
func Splice(source string, injections []Injection) (string, error) {
	for i, inj := range injections {
		if inj.Anchor == "" {
			return "", fmt.Errorf("injection %d: empty anchor", i)
		}
		switch n := strings.Count(source, inj.Anchor); {
		case n == 0:
			return "", fmt.Errorf("injection %d (%s %q): %w", i, inj.Mode, inj.Anchor, ErrAnchorNotFound)
		case n > 1:
			return "", fmt.Errorf("injection %d (%s %q): %w (%d times)", i, inj.Mode, inj.Anchor, ErrAnchorAmbiguous, n)
		}

		var repl string
		switch inj.Mode {
		case InsertBefore:
			repl = inj.Source + "\n" + inj.Anchor
		case Replace:
			repl = inj.Source
		case InsertAfter:
			repl = inj.Anchor + "\n" + inj.Source
		default:
			return "", fmt.Errorf("injection %d: unknown mode %s", i, inj.Mode)
		}
		source = strings.Replace(source, inj.Anchor, repl, 1)
	}
	return source, nil
}
