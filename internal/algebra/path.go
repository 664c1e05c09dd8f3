package algebra

import "strings"

// SegmentKind distinguishes property accesses from array-key accesses in a
// reference path chain.
type SegmentKind int

const (
	SegProperty SegmentKind = iota
	SegKey
)

// Segment is one step in a reference path, e.g. `->b` or `['c']`.
type Segment struct {
	Kind SegmentKind
	Name string
}

// Path identifies a narrowable target: a root variable plus a chain of
// property and array-key accesses. Two paths are equal iff their root and
// every segment are equal.
type Path struct {
	Root     string
	Segments []Segment
}

// NewPath builds a path from a root variable name.
func NewPath(root string, segments ...Segment) Path {
	return Path{Root: root, Segments: segments}
}

func (p Path) Equal(o Path) bool {
	if p.Root != o.Root || len(p.Segments) != len(o.Segments) {
		return false
	}
	for i := range p.Segments {
		if p.Segments[i] != o.Segments[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether o is p itself or an ancestor of p, e.g.
// `$a->b` is a prefix of `$a->b['c']`. Assignments to a path invalidate
// everything it prefixes.
func (p Path) HasPrefix(o Path) bool {
	if p.Root != o.Root || len(o.Segments) > len(p.Segments) {
		return false
	}
	for i := range o.Segments {
		if p.Segments[i] != o.Segments[i] {
			return false
		}
	}
	return true
}

func (p Path) String() string {
	var b strings.Builder
	b.WriteString("$")
	b.WriteString(p.Root)
	for _, s := range p.Segments {
		switch s.Kind {
		case SegProperty:
			b.WriteString("->")
			b.WriteString(s.Name)
		case SegKey:
			b.WriteString("['")
			b.WriteString(s.Name)
			b.WriteString("']")
		}
	}
	return b.String()
}

// PathID is an interned path handle. Interning is scoped to one function's
// analysis, so handles from different interners must never be mixed.
type PathID int32

// Interner deduplicates paths into small integer handles for cheap set
// membership and map keys. It is not safe for concurrent use; every
// function analysis owns its own interner.
type Interner struct {
	ids   map[string]PathID
	paths []Path
}

// NewInterner creates an empty interner.
func NewInterner() *Interner {
	return &Interner{ids: make(map[string]PathID)}
}

// Intern returns the handle for p, allocating one on first sight.
func (in *Interner) Intern(p Path) PathID {
	key := p.String()
	if id, ok := in.ids[key]; ok {
		return id
	}
	id := PathID(len(in.paths))
	in.ids[key] = id
	in.paths = append(in.paths, p)
	return id
}

// PathOf resolves a handle back to its path.
func (in *Interner) PathOf(id PathID) Path {
	return in.paths[id]
}

// Len returns the number of interned paths.
func (in *Interner) Len() int { return len(in.paths) }
