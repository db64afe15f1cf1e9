package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// loadYAML is a [kong.ConfigurationLoader] for YAML config files.
//
// Keys name flags without their leading dashes. Nested mappings are joined
// with hyphens, so both of these set --log-level:
//
//	log-level: debug
//
//	log:
//	  level: debug
//
// Underscores may stand in for hyphens (log_level). Command-line flags
// override config file values.
func loadYAML(r io.Reader) (kong.Resolver, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg := config{}
	cfg.flatten("", doc)

	return cfg, nil
}

// config implements [kong.Resolver] over a flattened YAML document.
type config map[string]any

func (c config) flatten(prefix string, m map[string]any) {
	for key, val := range m {
		name := key
		if prefix != "" {
			name = prefix + "-" + key
		}

		if sub, ok := val.(map[string]any); ok {
			c.flatten(name, sub)

			continue
		}

		c[name] = scalar(val)
	}
}

// scalar formats numbers as strings, which kong parses with the flag's own
// mapper.
func scalar(v any) any {
	switch n := v.(type) {
	case int:
		return strconv.Itoa(n)
	case int64:
		return strconv.FormatInt(n, 10)
	case uint64:
		return strconv.FormatUint(n, 10)
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	}

	return v
}

// Validate implements [kong.Resolver].
func (c config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := c[flag.Name]; ok {
		return value, nil
	}

	if value, ok := c[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	return nil, nil
}
