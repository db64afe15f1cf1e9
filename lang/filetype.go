package lang

import (
	"strconv"
	"strings"
)

// FileType is the kind of a source unit, fixed by its declaration line.
type FileType int

const (
	// TypeInvalid is the zero FileType; no file ever has it.
	TypeInvalid FileType = iota

	// TypeBlueprint files orchestrate builds and produce no text.
	TypeBlueprint

	// TypeTemplate files concatenate literal text with nested references.
	TypeTemplate

	// TypeFragment files are emitted verbatim.
	TypeFragment

	// TypeParametric files substitute <[NAME]> tokens.
	TypeParametric
)

// fileTypes lists every valid FileType in declaration order.
var fileTypes = [...]FileType{
	TypeBlueprint,
	TypeTemplate,
	TypeFragment,
	TypeParametric,
}

// String returns the identifier used in declarations and invocation commands.
func (t FileType) String() string {
	switch t {
	case TypeBlueprint:
		return "BLUEPRINT"
	case TypeTemplate:
		return "TEMPLATE"
	case TypeFragment:
		return "FRAGMENT"
	case TypeParametric:
		return "PARAMETRIC"
	default:
		return "INVALID"
	}
}

// Valid reports whether t is one of the four declared file types.
func (t FileType) Valid() bool {
	return t >= TypeBlueprint && t <= TypeParametric
}

// Produces reports whether files of type t emit text.
func (t FileType) Produces() bool {
	return t.Valid() && t != TypeBlueprint
}

// Extensions returns the ordered suffix candidates probed when resolving a
// reference to a file of type t. The empty suffix always comes first.
func (t FileType) Extensions() []string {
	switch t {
	case TypeBlueprint:
		return []string{"", ".blueprint", ".blue"}
	case TypeTemplate:
		return []string{"", ".template", ".temp"}
	case TypeFragment:
		return []string{"", ".fragment", ".frag"}
	case TypeParametric:
		return []string{"", ".parametric", ".param"}
	default:
		return nil
	}
}

// ParseFileType returns the FileType named exactly by s.
// Matching is case-sensitive; the second result is false for any other s.
func ParseFileType(s string) (FileType, bool) {
	for _, t := range fileTypes {
		if s == t.String() {
			return t, true
		}
	}

	return TypeInvalid, false
}

// defaultOutputName returns the name used for the n-th unnamed output of a
// blueprint build.
func (t FileType) defaultOutputName(n int) string {
	return strconv.Itoa(n) + "." + strings.ToLower(t.String()) + ".out"
}
