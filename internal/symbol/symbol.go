// Package symbol builds and queries the class-hierarchy and signature
// tables the narrowing engine consults for instanceof and existence checks.
package symbol

import (
	"sync"

	"github.com/phlin-dev/phlin/internal/ast"
)

// ClassInfo describes one class or interface declaration.
type ClassInfo struct {
	Name       string
	Parent     string
	Interfaces []string
	Final      bool
	IsIface    bool
	Properties map[string]string // property name -> type hint
	Methods    map[string]struct{}
}

// Table holds every declaration visible to one analysis run. It is built
// once before analysis starts and is read-only afterwards, so it can be
// shared across workers without synchronization; the mutex only guards the
// build phase.
type Table struct {
	mu        sync.Mutex
	classes   map[string]*ClassInfo
	functions map[string]struct{}
	constants map[string]struct{}
}

// NewTable creates an empty symbol table.
func NewTable() *Table {
	return &Table{
		classes:   make(map[string]*ClassInfo),
		functions: make(map[string]struct{}),
		constants: make(map[string]struct{}),
	}
}

// AddFile registers every declaration in a parsed file.
func (t *Table) AddFile(f *ast.File) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, fn := range f.Functions {
		t.functions[fn.Name] = struct{}{}
	}
	for _, c := range f.Classes {
		info := &ClassInfo{
			Name:       c.Name,
			Parent:     c.Parent,
			Interfaces: c.Interfaces,
			Final:      c.Final,
			IsIface:    c.IsIface,
			Properties: make(map[string]string, len(c.Properties)),
			Methods:    make(map[string]struct{}, len(c.Methods)),
		}
		for _, p := range c.Properties {
			info.Properties[p.Name] = p.Hint
		}
		for _, m := range c.Methods {
			info.Methods[m.Name] = struct{}{}
		}
		t.classes[c.Name] = info
	}
}

// AddFunction registers a standalone function name.
func (t *Table) AddFunction(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.functions[name] = struct{}{}
}

// AddClass registers a class directly.
func (t *Table) AddClass(c *ClassInfo) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.classes[c.Name] = c
}

// Each visits every declared class.
func (t *Table) Each(fn func(*ClassInfo)) {
	for _, c := range t.classes {
		fn(c)
	}
}

// FunctionNames returns the declared function names.
func (t *Table) FunctionNames() []string {
	out := make([]string, 0, len(t.functions))
	for name := range t.functions {
		out = append(out, name)
	}
	return out
}

// Lookup returns the class info for name, if declared.
func (t *Table) Lookup(name string) (*ClassInfo, bool) {
	c, ok := t.classes[name]
	return c, ok
}

// FunctionExists reports whether a function with the given name is declared.
func (t *Table) FunctionExists(name string) bool {
	_, ok := t.functions[name]
	return ok
}

// MethodExists reports whether the class (or an ancestor) declares the method.
func (t *Table) MethodExists(class, method string) bool {
	for c, ok := t.classes[class]; ok; c, ok = t.classes[c.Parent] {
		if _, found := c.Methods[method]; found {
			return true
		}
		if c.Parent == "" {
			break
		}
	}
	return false
}

// PropertyExists reports whether the class (or an ancestor) declares the
// property, returning its hint when present.
func (t *Table) PropertyExists(class, property string) (string, bool) {
	for c, ok := t.classes[class]; ok; c, ok = t.classes[c.Parent] {
		if hint, found := c.Properties[property]; found {
			return hint, true
		}
		if c.Parent == "" {
			break
		}
	}
	return "", false
}

// IsInterface reports whether name is a declared interface.
func (t *Table) IsInterface(name string) bool {
	c, ok := t.classes[name]
	return ok && c.IsIface
}

// IsFinal reports whether name is a declared final class. Only final
// classes have a closed member set, so absence checks are conclusive
// there and nowhere else.
func (t *Table) IsFinal(name string) bool {
	c, ok := t.classes[name]
	return ok && c.Final
}

// IsSubclassOf reports whether sub is super, extends it, or implements it.
// Unknown names are never subclasses of anything but themselves.
func (t *Table) IsSubclassOf(sub, super string) bool {
	if sub == super {
		return true
	}
	c, ok := t.classes[sub]
	if !ok {
		return false
	}
	for _, iface := range c.Interfaces {
		if iface == super || t.IsSubclassOf(iface, super) {
			return true
		}
	}
	if c.Parent == "" {
		return false
	}
	return t.IsSubclassOf(c.Parent, super)
}

// HaveCommonSubtype reports whether some runtime value could be an instance
// of both a and b. Disjointness is only conclusive when one side is a
// final class: nothing extends it, so an unrelated final pair cannot
// share an instance. Interfaces, unknown names, and open classes (whose
// hierarchy may continue in code we never parsed) keep the answer
// conservative.
func (t *Table) HaveCommonSubtype(a, b string) bool {
	if a == b || t.IsSubclassOf(a, b) || t.IsSubclassOf(b, a) {
		return true
	}
	ca, aKnown := t.classes[a]
	cb, bKnown := t.classes[b]
	if !aKnown || !bKnown {
		return true
	}
	if ca.IsIface || cb.IsIface {
		// a later class may implement both
		return true
	}
	return !ca.Final && !cb.Final
}
