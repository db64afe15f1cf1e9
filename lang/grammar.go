package lang

import (
	"log/slog"
	"slices"

	"github.com/sahilm/fuzzy"
)

// role is the meaning of one command field.
type role int

const (
	roleName      role = iota // command name
	roleProperty              // declaration property (e.g., PARAM)
	roleReference             // referenced file name
	roleOutput                // output path (blueprint level only)
	roleBinding               // NAME=VALUE parameter binding
	roleParameter             // declared parameter name
	roleRequired              // declared parameter REQUIRED flag
	roleDefault               // declared parameter DEFAULT value
)

// rule describes one legal command of one file type.
type rule struct {
	min     int      // minimum field count, including the name
	max     int      // maximum field count; 0 means unbounded
	roles   []role   // roles by field index; the final role repeats if max is 0
	invokes FileType // type of the referenced file, if the command invokes one
}

// role returns the role of field i.
func (r rule) role(i int) role {
	if i < len(r.roles) {
		return r.roles[i]
	}

	return r.roles[len(r.roles)-1]
}

// ruleKey identifies a command within the grammar of one file type.
//
// The command key is the command name, ":" followed by the property for
// declaration-class commands, or "" for the universal NOOP.
type ruleKey struct {
	file    FileType
	command string
}

// Command keys.
const (
	keyNoop  = ""
	keyParam = ":PARAM"
)

var (
	noopRule = rule{min: 1, max: 1, roles: []role{roleName}}

	// Blueprint invocations may name an output path after the reference.
	blueprintOutputRule = func(t FileType) rule {
		return rule{
			min:     2,
			max:     3,
			roles:   []role{roleName, roleReference, roleOutput},
			invokes: t,
		}
	}

	// Template invocations never take an output path.
	inlineRule = func(t FileType) rule {
		return rule{
			min:     2,
			max:     2,
			roles:   []role{roleName, roleReference},
			invokes: t,
		}
	}
)

// grammar is the command availability table keyed by (file type, command).
var grammar = map[ruleKey]rule{
	{TypeBlueprint, keyNoop}: noopRule,
	{TypeBlueprint, TypeBlueprint.String()}: {
		min:     2,
		max:     2,
		roles:   []role{roleName, roleReference},
		invokes: TypeBlueprint,
	},
	{TypeBlueprint, TypeTemplate.String()}: blueprintOutputRule(TypeTemplate),
	{TypeBlueprint, TypeFragment.String()}: blueprintOutputRule(TypeFragment),
	{TypeBlueprint, TypeParametric.String()}: {
		min:     2,
		roles:   []role{roleName, roleReference, roleOutput, roleBinding},
		invokes: TypeParametric,
	},

	{TypeTemplate, keyNoop}:                 noopRule,
	{TypeTemplate, TypeTemplate.String()}:   inlineRule(TypeTemplate),
	{TypeTemplate, TypeFragment.String()}:   inlineRule(TypeFragment),
	{TypeTemplate, TypeParametric.String()}: {
		min:     2,
		roles:   []role{roleName, roleReference, roleBinding},
		invokes: TypeParametric,
	},

	{TypeParametric, keyNoop}: noopRule,
	{TypeParametric, keyParam}: {
		min: 3,
		max: 5,
		roles: []role{
			roleName, roleProperty, roleParameter, roleRequired, roleDefault,
		},
	},
}

// commandKey returns the grammar key of a command line.
func commandKey(l Line) string {
	switch {
	case l.IsNoop():
		return keyNoop
	case l.IsDeclaration():
		return string(fieldSeparator) + l.Property()
	default:
		return l.Name()
	}
}

// legalCommands returns the sorted command keys available in files of type t.
func legalCommands(t FileType) []string {
	var keys []string

	for k := range grammar {
		if k.file == t && k.command != keyNoop {
			keys = append(keys, k.command)
		}
	}

	slices.Sort(keys)

	return keys
}

// lookupRule validates command line l against the grammar of file type t and
// returns its rule.
func lookupRule(t FileType, l Line, pos Position) (rule, error) {
	key := commandKey(l)

	if l.IsDeclaration() {
		if ft, ok := ParseFileType(l.Property()); ok {
			return rule{}, ErrDeclaration.WithPosition(pos).
				Errorf("misplaced %s declaration", ft).
				With(l.attrs()...)
		}
	}

	r, ok := grammar[ruleKey{t, key}]
	if !ok {
		err := ErrAvailability.WithPosition(pos).
			Errorf("command %q is not available in %s files", key, t).
			With(l.attrs()...)

		if hint := suggest(key, legalCommands(t)); hint != "" {
			err = err.With(slog.String("suggestion", hint))
		}

		return rule{}, err
	}

	n := len(l.Fields)

	if n < r.min {
		return rule{}, ErrAvailability.WithPosition(pos).
			Errorf("command %q requires at least %d fields, got %d", key, r.min, n).
			With(l.attrs()...)
	}

	if r.max > 0 && n > r.max {
		if t == TypeTemplate && r.invokes.Valid() {
			return rule{}, ErrSyntax.WithPosition(pos).
				Errorf("output field not permitted in %s files", t).
				With(l.attrs()...)
		}

		return rule{}, ErrSyntax.WithPosition(pos).
			Errorf("command %q accepts at most %d fields, got %d", key, r.max, n).
			With(l.attrs()...)
	}

	return r, nil
}

// suggest returns the candidate closest to s, or "" if none is similar.
func suggest(s string, candidates []string) string {
	if s == "" || len(candidates) == 0 {
		return ""
	}

	matches := fuzzy.Find(s, candidates)
	if len(matches) == 0 {
		return ""
	}

	return matches[0].Str
}

// Invocation is a parsed TEMPLATE, FRAGMENT, PARAMETRIC or BLUEPRINT command.
type Invocation struct {
	Type      FileType
	Reference string
	Output    string  // output path; empty when absent or empty
	Bindings  Binding // explicit NAME=VALUE pairs
	Pos       Position
}

// parseInvocation interprets the fields of an invocation command l according
// to rule r.
func parseInvocation(r rule, l Line, pos Position) (Invocation, error) {
	inv := Invocation{Type: r.invokes, Pos: pos}

	for i, f := range l.Fields {
		switch r.role(i) {
		case roleReference:
			inv.Reference = f.Value()

		case roleOutput:
			inv.Output = f.Value()

		case roleBinding:
			name, value, err := ParseBinding(f.Raw)
			if err != nil {
				return inv, locate(err, pos)
			}

			if inv.Bindings == nil {
				inv.Bindings = make(Binding)
			}

			inv.Bindings[name] = value

		case roleName, roleProperty, roleParameter, roleRequired, roleDefault:
		}
	}

	if inv.Reference == "" {
		return inv, ErrSyntax.WithPosition(pos).
			Errorf("%s command must specify a reference", inv.Type).
			With(l.attrs()...)
	}

	return inv, nil
}
