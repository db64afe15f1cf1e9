package lang

import (
	"log/slog"
	"maps"
	"strconv"
)

// Required is the REQUIRED flag of a parameter declaration.
type Required int

const (
	RequiredUnset Required = iota // empty field
	RequiredTrue                  // "True"
	RequiredFalse                 // "False"
)

// parseRequired accepts exactly "", "True" and "False".
func parseRequired(s string) (Required, bool) {
	switch s {
	case "":
		return RequiredUnset, true
	case "True":
		return RequiredTrue, true
	case "False":
		return RequiredFalse, true
	default:
		return RequiredUnset, false
	}
}

// String returns the declaration spelling of r.
func (r Required) String() string {
	switch r {
	case RequiredTrue:
		return "True"
	case RequiredFalse:
		return "False"
	default:
		return ""
	}
}

// Declaration is a "::PARAM:NAME[:REQUIRED[:DEFAULT]];" command.
type Declaration struct {
	Name     string
	Required Required
	Default  string
	Pos      Position
}

// HasDefault reports whether d supplies a default. An empty DEFAULT field is
// indistinguishable from an absent one.
func (d Declaration) HasDefault() bool { return d.Default != "" }

// Policy is the effective treatment of a parameter left unbound.
type Policy int

const (
	// PolicyWarn substitutes the default and raises an
	// UnboundParameterWarning.
	PolicyWarn Policy = iota
	// PolicyFail aborts the render with ErrParameterBinding.
	PolicyFail
	// PolicySilent substitutes the default without any diagnostic.
	PolicySilent
)

// String returns the name of p.
func (p Policy) String() string {
	switch p {
	case PolicyFail:
		return "FailIfUnbound"
	case PolicySilent:
		return "SilentDefault"
	default:
		return "WarnIfUnbound"
	}
}

// Policy derives the effective policy of d:
//
//	REQUIRED    DEFAULT  policy         unbound value
//	empty       no       WarnIfUnbound  ""
//	True        no       FailIfUnbound  (fatal)
//	False       no       SilentDefault  ""
//	empty/False yes      SilentDefault  DEFAULT
//	True        yes      WarnIfUnbound  DEFAULT
func (d Declaration) Policy() Policy {
	switch {
	case d.HasDefault() && d.Required == RequiredTrue:
		return PolicyWarn
	case d.HasDefault():
		return PolicySilent
	case d.Required == RequiredTrue:
		return PolicyFail
	case d.Required == RequiredFalse:
		return PolicySilent
	default:
		return PolicyWarn
	}
}

// parseDeclaration interprets a "::PARAM" command line already validated
// against the grammar.
func parseDeclaration(l Line, pos Position) (Declaration, error) {
	d := Declaration{Pos: pos}

	d.Name, _ = l.Field(2)
	if d.Name == "" {
		return d, ErrSyntax.WithPosition(pos).
			Errorf("parameter declaration must name a parameter").
			With(l.attrs()...)
	}

	req, _ := l.Field(3)

	r, ok := parseRequired(req)
	if !ok {
		return d, ErrSyntax.WithPosition(pos).
			Errorf("invalid REQUIRED value %q (want empty, True or False)", req).
			With(slog.String("parameter", d.Name))
	}

	d.Required = r
	d.Default, _ = l.Field(4)

	return d, nil
}

// Binding maps parameter names to literal values for one invocation.
// A Binding is never shared between render calls.
type Binding map[string]string

// Clone returns an independent copy of b.
func (b Binding) Clone() Binding {
	if b == nil {
		return Binding{}
	}

	return maps.Clone(b)
}

// ParseBinding splits a raw "NAME=VALUE" field at its only unescaped '='
// and removes escapes from both halves.
//
// A field with zero or several unescaped '=', or with an empty NAME, is an
// [ErrSyntax] error.
func ParseBinding(raw string) (name, value string, err error) {
	parts := splitEscaped(raw, bindingChar)
	if len(parts) != 2 {
		return "", "", ErrSyntax.
			Errorf("binding %q must contain exactly one unescaped %q", raw, bindingChar)
	}

	name, _ = unescape(parts[0])
	value, _ = unescape(parts[1])

	if name == "" {
		return "", "", ErrSyntax.Errorf("binding %q names no parameter", raw)
	}

	return name, value, nil
}

// ParseBindings parses each of args with [ParseBinding]. Later bindings of
// the same name replace earlier ones.
func ParseBindings(args ...string) (Binding, error) {
	b := make(Binding, len(args))

	for _, arg := range args {
		name, value, err := ParseBinding(arg)
		if err != nil {
			return nil, err
		}

		b[name] = value
	}

	return b, nil
}

// scope is the resolved parameter environment of one Parametric render.
type scope struct {
	values map[string]string
	warned map[string]bool
	pos    Position
	warn   WarnFunc
}

// resolveScope applies the declarations of a Parametric file to the explicit
// bindings of one invocation.
func resolveScope(
	decls []Declaration,
	bound Binding,
	pos Position,
	warn WarnFunc,
) (*scope, error) {
	s := &scope{
		values: make(map[string]string, len(decls)+len(bound)),
		warned: make(map[string]bool),
		pos:    pos,
		warn:   warn,
	}

	maps.Copy(s.values, bound)

	for _, d := range decls {
		if _, ok := bound[d.Name]; ok {
			continue
		}

		switch d.Policy() {
		case PolicyFail:
			return nil, ErrParameterBinding.WithPosition(d.Pos).
				Errorf("required parameter %q is unbound", d.Name).
				With(slog.String("parameter", d.Name))

		case PolicyWarn:
			s.unbound(d.Name, d.Default, d.Pos)

		case PolicySilent:
		}

		s.values[d.Name] = d.Default
	}

	return s, nil
}

// lookup returns the value of the named parameter. Undeclared names behave
// as WarnIfUnbound parameters with an empty default.
func (s *scope) lookup(name string, pos Position) string {
	if v, ok := s.values[name]; ok {
		return v
	}

	s.unbound(name, "", pos)
	s.values[name] = ""

	return ""
}

func (s *scope) unbound(name, value string, pos Position) {
	if s.warned[name] || s.warn == nil {
		return
	}

	s.warned[name] = true

	s.warn(Warning{
		Kind:    WarnUnboundParameter,
		Message: "parameter " + name + " is unbound, using " + strconv.Quote(value),
		Pos:     pos,
		Attrs: []slog.Attr{
			slog.String("parameter", name),
			slog.String("default", value),
			slog.String("invocation", s.pos.String()),
		},
	})
}
