package lang

import (
	"log/slog"
	"strings"
	"unicode"
)

// Special characters of the line grammar.
const (
	escapeChar     = '\\'
	fieldSeparator = ':'
	terminator     = ';'
	bindingChar    = '='
	shebangChar    = '#'
)

// LineKind classifies a physical source line.
type LineKind int

const (
	// KindText is any line that is not a command.
	KindText LineKind = iota

	// KindCommand is a line whose first non-whitespace character is an
	// unescaped ':'.
	KindCommand
)

// String returns the name of k.
func (k LineKind) String() string {
	if k == KindCommand {
		return "Command"
	}

	return "Text"
}

// Field is one colon-delimited component of a command body.
// Raw retains escape characters so that callers needing a second level of
// splitting (bindings split on '=') can still tell escaped from unescaped.
type Field struct {
	Raw string
}

// Value returns the field with escapes removed.
func (f Field) Value() string {
	s, _ := unescape(f.Raw)

	return s
}

// Line is a tokenized physical line.
type Line struct {
	Number int
	Text   string // content without the line terminator
	EOL    string // "\n", "\r\n", or "" for an unterminated final line
	Kind   LineKind

	// Command lines only.
	Indent  string
	Fields  []Field
	Comment string // verbatim text following the terminator
}

// Name returns the command name (the first field), or "" for text lines.
func (l Line) Name() string {
	if len(l.Fields) == 0 {
		return ""
	}

	return l.Fields[0].Value()
}

// Field returns the unescaped value of field i and whether it exists.
func (l Line) Field(i int) (string, bool) {
	if i < 0 || i >= len(l.Fields) {
		return "", false
	}

	return l.Fields[i].Value(), true
}

// IsNoop reports whether l is the universal comment command ":;".
func (l Line) IsNoop() bool {
	return l.Kind == KindCommand && len(l.Fields) == 1 && l.Fields[0].Raw == ""
}

// IsDeclaration reports whether l is a declaration-class command, i.e., a
// command with an empty name and at least one property field.
func (l Line) IsDeclaration() bool {
	return l.Kind == KindCommand && len(l.Fields) > 1 && l.Fields[0].Raw == ""
}

// Property returns the property field of a declaration-class command.
func (l Line) Property() string {
	if !l.IsDeclaration() {
		return ""
	}

	return l.Fields[1].Value()
}

func (l Line) attrs() []slog.Attr {
	return []slog.Attr{slog.String("text", strings.TrimSpace(l.Text))}
}

// ScanLine classifies text and, for command lines, splits it into indent,
// fields and comment. Number is recorded verbatim for diagnostics.
//
// A command line without an unescaped terminator is an [ErrSyntax] error.
func ScanLine(number int, text string) (Line, error) {
	line := Line{Number: number, Text: text, Kind: KindText}

	body := strings.TrimLeftFunc(text, unicode.IsSpace)
	if body == "" || body[0] != fieldSeparator {
		return line, nil
	}

	line.Kind = KindCommand
	line.Indent = text[:len(text)-len(body)]

	var (
		field    strings.Builder
		escaped  bool
		complete bool
	)

	for i := 1; i < len(body); i++ {
		c := body[i]

		switch {
		case escaped:
			field.WriteByte(c)

			escaped = false

		case c == escapeChar:
			field.WriteByte(c)

			escaped = true

		case c == fieldSeparator:
			line.Fields = append(line.Fields, Field{Raw: field.String()})
			field.Reset()

		case c == terminator:
			line.Fields = append(line.Fields, Field{Raw: field.String()})
			line.Comment = body[i+1:]
			complete = true

		default:
			field.WriteByte(c)
		}

		if complete {
			break
		}
	}

	if !complete {
		line.Fields = nil

		return line, ErrSyntax.
			Errorf("command terminator %q missing", terminator).
			With(line.attrs()...)
	}

	return line, nil
}

// unescape removes escape characters from s, keeping the character each one
// negates. A lone escape at the end of s is dropped and reported by the
// second result.
func unescape(s string) (string, bool) {
	if strings.IndexByte(s, escapeChar) < 0 {
		return s, false
	}

	var (
		sb      strings.Builder
		escaped bool
	)

	sb.Grow(len(s))

	for i := 0; i < len(s); i++ {
		if !escaped && s[i] == escapeChar {
			escaped = true

			continue
		}

		sb.WriteByte(s[i])

		escaped = false
	}

	return sb.String(), escaped
}

// splitEscaped splits s at every unescaped occurrence of sep, leaving escape
// characters in place.
func splitEscaped(s string, sep rune) []string {
	var (
		parts   []string
		start   int
		escaped bool
	)

	for i, r := range s {
		switch {
		case escaped:
			escaped = false
		case r == escapeChar:
			escaped = true
		case r == sep:
			parts = append(parts, s[start:i])
			start = i + len(string(sep))
		}
	}

	return append(parts, s[start:])
}

// rawLine is a physical line before tokenization.
type rawLine struct {
	text string
	eol  string
}

// splitLines splits data into physical lines, separating each line's
// terminator from its content.
func splitLines(data string) []rawLine {
	var lines []rawLine

	for data != "" {
		i := strings.IndexByte(data, '\n')
		if i < 0 {
			lines = append(lines, rawLine{text: data})

			break
		}

		text, eol := data[:i], "\n"
		if strings.HasSuffix(text, "\r") {
			text, eol = text[:len(text)-1], "\r\n"
		}

		lines = append(lines, rawLine{text: text, eol: eol})
		data = data[i+1:]
	}

	return lines
}
