package lang

import "strings"

// Token delimiters.
const (
	tokenOpen  = "<["
	tokenClose = "]>"
)

// unit is one byte of a line after escape processing. Delimiters and the
// escape character are ASCII, so other bytes pass through untouched.
type unit struct {
	c       byte
	escaped bool
}

// units decodes the escapes of s. The second result reports a lone escape
// character at the end of s, which contributes no unit.
func units(s string) ([]unit, bool) {
	var (
		us      = make([]unit, 0, len(s))
		escaped bool
	)

	for i := 0; i < len(s); i++ {
		if !escaped && s[i] == escapeChar {
			escaped = true

			continue
		}

		us = append(us, unit{c: s[i], escaped: escaped})
		escaped = false
	}

	return us, escaped
}

// frame is an open token delimiter awaiting its close.
type frame struct {
	literal bool // the opening delimiter was escaped
	text    strings.Builder
}

// substitute expands every <[NAME]> token of text with lookup, after
// processing escapes. The second result reports a trailing lone escape.
//
// Escaping either character of an opening delimiter ("\<[", "<\[", "\<\[")
// makes that token literal: its delimiters are emitted verbatim, but tokens
// nested inside it are still expanded first. A closing delimiter is only
// recognized when neither of its characters is escaped. Delimiters left open
// at end of line are emitted literally.
func substitute(text string, lookup func(name string) string) (string, bool) {
	us, trailing := units(text)

	stack := []*frame{{}}
	top := func() *frame { return stack[len(stack)-1] }

	for i := 0; i < len(us); i++ {
		u := us[i]

		if u.c == '<' && i+1 < len(us) && us[i+1].c == '[' {
			stack = append(stack, &frame{literal: u.escaped || us[i+1].escaped})
			i++

			continue
		}

		if len(stack) > 1 && u.c == ']' && !u.escaped &&
			i+1 < len(us) && us[i+1].c == '>' && !us[i+1].escaped {
			f := top()
			stack = stack[:len(stack)-1]

			if f.literal {
				top().text.WriteString(tokenOpen + f.text.String() + tokenClose)
			} else {
				top().text.WriteString(lookup(f.text.String()))
			}

			i++

			continue
		}

		top().text.WriteByte(u.c)
	}

	for len(stack) > 1 {
		f := top()
		stack = stack[:len(stack)-1]
		top().text.WriteString(tokenOpen + f.text.String())
	}

	return stack[0].text.String(), trailing
}
