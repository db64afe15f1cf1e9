package cli

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/ardnew/webuild/pkg"
)

// baseConfig is the base name of the configuration files.
const baseConfig = "config"

// basePrefix returns the name of the configuration and cache directories.
//
// By default, basePrefix is the base name of the executable file unless it
// matches one of the following substitution rules:
//   - "__debug_bin" (default output of the dlv debugger): replaced with pkg.Name
//   - "^\.+" (dot-prefixed names): remove the dot prefix
var basePrefix = sync.OnceValue(
	func() string {
		id := os.Args[0]

		exe, err := os.Executable()
		if err == nil {
			id = exe
		}

		id = strings.TrimSuffix(filepath.Base(id), filepath.Ext(id))

		for rex, rep := range map[*regexp.Regexp]string{
			regexp.MustCompile(`^__debug_bin\d+$`): pkg.Name, // dlv default output
			regexp.MustCompile(`^\.+`):             "",       // remove leading dot(s)
		} {
			id = rex.ReplaceAllString(id, rep)
		}

		if id == "" {
			id = pkg.Name
		}

		return id
	},
)

// userDir returns base joined with basePrefix, where base is the first of
// the given candidates that resolves, falling back to the working directory.
func userDir(candidates ...func() (string, error)) string {
	for _, dir := range candidates {
		if d, err := dir(); err == nil {
			return filepath.Join(d, basePrefix())
		}
	}

	if d, err := os.Getwd(); err == nil {
		return filepath.Join(d, basePrefix())
	}

	return basePrefix()
}

func homeDir(sub string) func() (string, error) {
	return func() (string, error) {
		d, err := os.UserHomeDir()

		return filepath.Join(d, sub), err
	}
}

// configDir returns the configuration directory path.
var configDir = sync.OnceValue(func() string {
	return userDir(os.UserConfigDir, homeDir(".config"))
})

// cacheDir returns the cache directory path used for transient files.
var cacheDir = sync.OnceValue(func() string {
	return userDir(os.UserCacheDir, homeDir(".cache"))
})

// configPath returns the path formed by joining the configuration directory
// with the given path elements.
func configPath(elem ...string) string {
	return filepath.Join(append([]string{configDir()}, elem...)...)
}
