//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version returns the semantic version of the webuild module embedded at
// build time. It is printed by the CLI's --version flag.
func Version() string { return strings.TrimSpace(version) }

const (
	// Name is the canonical command identifier used across the project, for
	// example in help text and default config paths.
	Name = "webuild"
	// Description is a short, human-readable summary of the project used in
	// help output and documentation.
	Description = "Compose static text from blueprints, templates, fragments, and parametric files"
)

// AuthorInfo represents an individual author's name and email address.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the primary author(s) of the project for display in metadata.
//
//nolint:gochecknoglobals
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
