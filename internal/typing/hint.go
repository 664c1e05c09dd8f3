package typing

import "strings"

// ParseHint converts a source-level type hint such as "int|string",
// "?string", or "array|null" into a Type. Names that are not built-in
// kinds are treated as class names. An empty hint is mixed.
func ParseHint(hint string) Type {
	hint = strings.TrimSpace(hint)
	if hint == "" {
		return Mixed()
	}
	nullable := false
	if strings.HasPrefix(hint, "?") {
		nullable = true
		hint = hint[1:]
	}
	var atoms []Atom
	for _, part := range strings.Split(hint, "|") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		atoms = append(atoms, hintAtom(part))
	}
	if nullable {
		atoms = append(atoms, NullAtom{})
	}
	if len(atoms) == 0 {
		return Mixed()
	}
	return NewType(atoms...)
}

func hintAtom(name string) Atom {
	switch strings.ToLower(name) {
	case "int", "integer":
		return IntAtom{}
	case "float", "double":
		return FloatAtom{}
	case "string":
		return StringAtom{}
	case "bool", "boolean":
		return BoolAtom{}
	case "true":
		return TrueAtom{}
	case "false":
		return FalseAtom{}
	case "null":
		return NullAtom{}
	case "array", "iterable":
		return ArrayAtom{}
	case "callable":
		return CallableAtom{}
	case "object":
		return ObjectAtom{}
	case "mixed":
		return MixedAtom{}
	default:
		return ObjectAtom{Class: name}
	}
}
