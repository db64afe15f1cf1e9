package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardnew/webuild/lang"
)

var site = map[string]string{
	"site.blueprint": "::BLUEPRINT;\n" +
		":TEMPLATE:page:out/index.html;\n" +
		":PARAMETRIC:card::TITLE=Home;\n",
	"page.template": "::TEMPLATE;\n" +
		"<body>\n" +
		":FRAGMENT:logo;\n" +
		"</body>\n",
	"logo.fragment": "::FRAGMENT;\n<svg/>\n",
	"card.parametric": "::PARAMETRIC;\n" +
		"::PARAM:TITLE:True;\n" +
		"<h1><[TITLE]></h1>\n",
}

func TestRender_TemplateToStdout(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, site)

	out, _, err := run(t, &Render{Target{Input: filepath.Join(dir, "page.template"), Dir: dir}}, "")
	if err != nil {
		t.Fatal(err)
	}

	if out != "<body>\n<svg/>\n</body>\n" {
		t.Errorf("got %q", out)
	}
}

func TestRender_ParametricBindings(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, site)
	input := filepath.Join(dir, "card.parametric")

	tests := []struct {
		name   string
		target Target
		want   string
	}{
		{
			name:   "positional",
			target: Target{Input: input, Output: "-", Bindings: []string{"TITLE=A"}},
			want:   "<h1>A</h1>\n",
		},
		{
			name:   "set flag wins",
			target: Target{Input: input, Bindings: []string{"TITLE=A"}, Set: []string{"TITLE=B"}},
			want:   "<h1>B</h1>\n",
		},
		{
			name:   "escaped separator",
			target: Target{Input: input, Set: []string{`TITLE=x\=y`}},
			want:   "<h1>x=y</h1>\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, _, err := run(t, &Render{tt.target}, "")
			if err != nil {
				t.Fatal(err)
			}

			if out != tt.want {
				t.Errorf("got %q, want %q", out, tt.want)
			}
		})
	}
}

func TestRender_RequiredParameterUnbound(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, site)

	_, _, err := run(t, &Render{Target{Input: filepath.Join(dir, "card.parametric")}}, "")
	if !errors.Is(err, lang.ErrParameterBinding) {
		t.Fatalf("expected ErrParameterBinding, got %v", err)
	}
}

func TestRender_OutputFile(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, site)
	dest := filepath.Join(dir, "gen", "page.html")

	out, _, err := run(t, &Render{Target{Input: filepath.Join(dir, "page.template"), Output: dest}}, "")
	if err != nil {
		t.Fatal(err)
	}

	if out != "" {
		t.Errorf("unexpected stdout %q", out)
	}

	b, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}

	if string(b) != "<body>\n<svg/>\n</body>\n" {
		t.Errorf("got %q", b)
	}
}

func TestRender_Blueprint(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, site)
	outDir := filepath.Join(dir, "public")

	_, logs, err := run(t, &Render{Target{
		Input:  filepath.Join(dir, "site.blueprint"),
		Output: "ignored.html",
		Dir:    outDir,
	}}, "")
	if err != nil {
		t.Fatal(err)
	}

	for name, want := range map[string]string{
		"out/index.html":   "<body>\n<svg/>\n</body>\n",
		"0.parametric.out": "<h1>Home</h1>\n",
	} {
		b, err := os.ReadFile(filepath.Join(outDir, name))
		if err != nil {
			t.Error(err)

			continue
		}

		if string(b) != want {
			t.Errorf("%s = %q, want %q", name, b, want)
		}
	}

	if !strings.Contains(logs, "kind=IgnoredOutputWarning") {
		t.Errorf("expected IgnoredOutputWarning in logs:\n%s", logs)
	}

	if _, err := os.Stat(filepath.Join(dir, "ignored.html")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("output argument should not be written: %v", err)
	}
}

func TestRender_Stdin(t *testing.T) {
	t.Parallel()

	out, _, err := run(t, &Render{Target{Input: "-"}}, "::PARAMETRIC;\n::PARAM:X::dflt;\n<[X]>\n")
	if err != nil {
		t.Fatal(err)
	}

	if out != "dflt\n" {
		t.Errorf("got %q", out)
	}
}

func TestRender_InputErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		target Target
		want   error
	}{
		{name: "no input", target: Target{}, want: ErrNoInput},
		{name: "missing input", target: Target{Input: filepath.Join(t.TempDir(), "nope.template")}, want: ErrOpenInput},
		{name: "bad binding", target: Target{Input: "-", Set: []string{"NOVALUE"}}, want: ErrBinding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, _, err := run(t, &Render{tt.target}, ""); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}
