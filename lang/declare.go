package lang

import (
	"log/slog"
	"strings"
)

// typeNames lists the spelling of every valid file type.
func typeNames() []string {
	names := make([]string, 0, len(fileTypes))
	for _, t := range fileTypes {
		names = append(names, t.String())
	}

	return names
}

// declaredType reads the header of a source file: an optional shebang line
// followed by the mandatory "::TYPE;" declaration. It returns the declared
// type and the index of the first body line.
func declaredType(file string, lines []rawLine) (FileType, int, error) {
	i := 0
	if len(lines) > 0 && strings.HasPrefix(lines[0].text, string(shebangChar)) {
		i++
	}

	pos := Position{File: file, Line: i + 1}

	if i >= len(lines) {
		return TypeInvalid, i, ErrDeclaration.WithPosition(pos).
			Errorf("missing file type declaration")
	}

	l, err := ScanLine(i+1, lines[i].text)
	if err != nil {
		return TypeInvalid, i, ErrDeclaration.WithPosition(pos).Wrap(err)
	}

	if !l.IsDeclaration() {
		return TypeInvalid, i, ErrDeclaration.WithPosition(pos).
			Errorf("expected file type declaration, one of %s",
				strings.Join(typeNames(), ", ")).
			With(l.attrs()...)
	}

	t, ok := ParseFileType(l.Property())
	if !ok {
		err := ErrDeclaration.WithPosition(pos).
			Errorf("invalid file type %q", l.Property()).
			With(l.attrs()...)

		if hint := suggest(l.Property(), typeNames()); hint != "" {
			err = err.With(slog.String("suggestion", hint))
		}

		return TypeInvalid, i, err
	}

	if len(l.Fields) > 2 {
		return TypeInvalid, i, ErrDeclaration.WithPosition(pos).
			Errorf("%s declaration takes no arguments", t).
			With(l.attrs()...)
	}

	return t, i + 1, nil
}
