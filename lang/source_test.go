package lang

import (
	"errors"
	"testing"
)

func TestParse_TemplateBody(t *testing.T) {
	t.Parallel()

	n, err := Parse("/s/page", "/s", []byte("::TEMPLATE;\n<a>\n:;\n:FRAGMENT:logo;\n</a>"))
	if err != nil {
		t.Fatal(err)
	}

	if n.Type != TypeTemplate || len(n.Body) != 3 {
		t.Fatalf("got %v with %d statements", n.Type, len(n.Body))
	}

	if n.Body[0].Line.Text != "<a>" || n.Body[0].Line.EOL != "\n" {
		t.Errorf("first line = %+v", n.Body[0].Line)
	}

	if last := n.Body[2].Line; last.Text != "</a>" || last.EOL != "" {
		t.Errorf("last line = %+v", last)
	}

	invs := n.Invocations()
	if len(invs) != 1 {
		t.Fatalf("got %d invocations", len(invs))
	}

	if invs[0].Type != TypeFragment || invs[0].Reference != "logo" || invs[0].Pos.Line != 4 {
		t.Errorf("invocation = %+v", invs[0])
	}
}

func TestParse_BlueprintDiscardsText(t *testing.T) {
	t.Parallel()

	n, err := Parse("site", ".", []byte("::BLUEPRINT;\nnotes\n:TEMPLATE:page:out/index.html;\n"))
	if err != nil {
		t.Fatal(err)
	}

	if len(n.Body) != 1 || n.Body[0].Invocation == nil {
		t.Fatalf("body = %+v", n.Body)
	}

	if out := n.Body[0].Invocation.Output; out != "out/index.html" {
		t.Errorf("output = %q", out)
	}
}

func TestParse_FragmentIsVerbatim(t *testing.T) {
	t.Parallel()

	n, err := Parse("logo", ".", []byte("::FRAGMENT;\n:TEMPLATE:x;\n"))
	if err != nil {
		t.Fatal(err)
	}

	if len(n.Body) != 1 || n.Body[0].Invocation != nil || n.Body[0].Line.Text != ":TEMPLATE:x;" {
		t.Errorf("body = %+v", n.Body)
	}
}

func TestParse_DuplicateParameterKeepsFirst(t *testing.T) {
	t.Parallel()

	n, err := Parse("card", ".", []byte("::PARAMETRIC;\n::PARAM:A:True;\n::PARAM:A:False:x;\n<[A]>\n"))
	if err != nil {
		t.Fatal(err)
	}

	if len(n.Params) != 1 || n.Params[0].Pos.Line != 2 {
		t.Errorf("params = %+v", n.Params)
	}

	if len(n.notes) != 1 || n.notes[0].Kind != WarnDuplicateParameter {
		t.Errorf("notes = %+v", n.notes)
	}

	if len(n.Body) != 1 || n.Body[0].Line.Text != "<[A]>" {
		t.Errorf("body = %+v", n.Body)
	}
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
		want   error
		line   int
	}{
		{"param outside parametric", "::TEMPLATE;\n::PARAM:A;\n", ErrAvailability, 2},
		{"misplaced declaration", "::TEMPLATE;\nx\n::TEMPLATE;\n", ErrDeclaration, 3},
		{"template output field", "::TEMPLATE;\n:TEMPLATE:x:out;\n", ErrSyntax, 2},
		{"blueprint extra field", "::BLUEPRINT;\n:BLUEPRINT:x:y;\n", ErrSyntax, 2},
		{"unknown command", "::TEMPLATE;\n:FRAGMNT:x;\n", ErrAvailability, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse("f", ".", []byte(tt.source))
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}

			var e *Error
			if errors.As(err, &e) && e.Position().Line != tt.line {
				t.Errorf("line = %d, want %d", e.Position().Line, tt.line)
			}
		})
	}
}

func TestParse_ContentHash(t *testing.T) {
	t.Parallel()

	a, _ := Parse("t", ".", []byte("::TEMPLATE;\na\n"))
	b, _ := Parse("t", ".", []byte("::TEMPLATE;\na\n"))
	c, _ := Parse("t", ".", []byte("::TEMPLATE;\nb\n"))

	if a.sum != b.sum || a.sum == c.sum {
		t.Errorf("sums: %x %x %x", a.sum, b.sum, c.sum)
	}
}
