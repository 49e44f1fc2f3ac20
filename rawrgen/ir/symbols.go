package ir

import (
	"fmt"
	"sync"
)

type symbolKey struct {
	module string
	name   string
}

// Symbol is a resolved declaration together with its module path.
type Symbol struct {
	Module string
	Decl   Decl
}

// SymbolTable indexes every declaration of a Document by (module path, name)
// and answers cross-module visibility queries. It is safe for concurrent use.
type SymbolTable struct {
	decls   map[symbolKey]Decl
	modules map[string]bool
	deps    map[string][]string

	mu    sync.Mutex
	reach map[string]map[string]bool // package -> transitively visible packages
}

// NewSymbolTable builds the symbol table for doc. Duplicate declarations keep
// the first occurrence; Validate reports the duplicates.
func NewSymbolTable(doc *Document) *SymbolTable {
	t := &SymbolTable{
		decls:   make(map[symbolKey]Decl),
		modules: make(map[string]bool),
		deps:    make(map[string][]string),
		reach:   make(map[string]map[string]bool),
	}
	for _, p := range doc.Packages {
		t.deps[p.Name] = append(t.deps[p.Name], p.Dependencies...)
	}
	for i := range doc.Modules {
		m := &doc.Modules[i]
		t.modules[m.Path] = true
		for _, d := range m.Types {
			k := symbolKey{m.Path, d.TypeName()}
			if _, dup := t.decls[k]; !dup {
				t.decls[k] = d
			}
		}
	}
	return t
}

// Lookup returns the declaration named name in module.
func (t *SymbolTable) Lookup(module, name string) (Decl, bool) {
	d, ok := t.decls[symbolKey{module, name}]
	return d, ok
}

// HasModule reports whether a module with the given path exists.
func (t *SymbolTable) HasModule(path string) bool {
	return t.modules[path]
}

// Visible reports whether code in package from may reference declarations of
// package to: either the same package or a transitive dependency.
func (t *SymbolTable) Visible(from, to string) bool {
	if from == to {
		return true
	}
	return t.reachable(from)[to]
}

func (t *SymbolTable) reachable(pkg string) map[string]bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if r, ok := t.reach[pkg]; ok {
		return r
	}
	r := make(map[string]bool)
	stack := append([]string(nil), t.deps[pkg]...)
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if r[p] {
			continue
		}
		r[p] = true
		stack = append(stack, t.deps[p]...)
	}
	t.reach[pkg] = r
	return r
}

// Resolve resolves a reference-like descriptor (Ref, ExternalRef, Generic)
// appearing in module from. Any other descriptor kind is an error.
// Failures are *ValidationError values with CodeUnresolvedReference.
func (t *SymbolTable) Resolve(from string, ref TypeDescriptor) (Symbol, error) {
	var module, name string
	switch r := ref.(type) {
	case *RefDescriptor:
		module, name = from, r.Name
	case *ExternalRefDescriptor:
		module, name = r.Module, r.Name
	case *GenericDescriptor:
		module, name = r.Module, r.Name
		if module == "" {
			module = from
		}
	default:
		return Symbol{}, fmt.Errorf("ir: cannot resolve %s descriptor", ref.Kind())
	}

	if !t.Visible(PackageOf(from), PackageOf(module)) {
		return Symbol{}, &ValidationError{
			Code:    CodeUnresolvedReference,
			Message: fmt.Sprintf("%s::%s is not visible from %s (package %q does not depend on %q)", module, name, from, PackageOf(from), PackageOf(module)),
		}
	}
	d, ok := t.Lookup(module, name)
	if !ok {
		msg := fmt.Sprintf("unknown type %s::%s", module, name)
		if !t.HasModule(module) {
			msg = fmt.Sprintf("unknown module %s (referencing %s)", module, name)
		}
		return Symbol{}, &ValidationError{Code: CodeUnresolvedReference, Message: msg}
	}
	return Symbol{Module: module, Decl: d}, nil
}
