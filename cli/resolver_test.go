package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func resolveFlag(t *testing.T, r kong.Resolver, name string) any {
	t.Helper()

	v, err := r.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: name}})
	if err != nil {
		t.Fatalf("Resolve(%q): %v", name, err)
	}

	return v
}

func TestLoadYAML_Resolve(t *testing.T) {
	t.Parallel()

	const doc = `
log:
  level: debug
  pretty: false
log_format: json
output-dir: public
debounce: 250ms
depth: 3
ratio: 0.5
`

	r, err := loadYAML(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("loadYAML: %v", err)
	}

	tests := []struct {
		flag string
		want any
	}{
		{"log-level", "debug"},
		{"log-pretty", false},
		{"log-format", "json"},
		{"output-dir", "public"},
		{"debounce", "250ms"},
		{"depth", "3"},
		{"ratio", "0.5"},
		{"missing", nil},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			t.Parallel()

			if got := resolveFlag(t, r, tt.flag); got != tt.want {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestLoadYAML_Empty(t *testing.T) {
	t.Parallel()

	r, err := loadYAML(strings.NewReader(""))
	if err != nil {
		t.Fatalf("loadYAML: %v", err)
	}

	if err := r.Validate(nil); err != nil {
		t.Errorf("Validate: %v", err)
	}

	if got := resolveFlag(t, r, "log-level"); got != nil {
		t.Errorf("got %#v, want nil", got)
	}
}

func TestLoadYAML_Malformed(t *testing.T) {
	t.Parallel()

	if _, err := loadYAML(strings.NewReader("log: [unterminated")); err == nil {
		t.Error("expected an error")
	}
}

type failingReader struct{}

var errRead = errors.New("read failed")

func (failingReader) Read([]byte) (int, error) { return 0, errRead }

func TestLoadYAML_ReadError(t *testing.T) {
	t.Parallel()

	if _, err := loadYAML(failingReader{}); !errors.Is(err, errRead) {
		t.Errorf("got %v, want %v", err, errRead)
	}
}
