package golang

import (
	"errors"
	"fmt"
	"go/token"
	"strings"
	"unicode"

	"github.com/broady/rawr/internal/casing"
	"github.com/broady/rawr/rawrgen/ir"
)

// exported converts a schema name into an exported Go identifier.
func exported(name string) string {
	id := sanitize(casing.Pascal(name))
	r := []rune(id)
	if !unicode.IsUpper(r[0]) {
		return "X" + id
	}
	return id
}

// local converts a schema name into an unexported Go identifier that is not
// a keyword and does not collide with the names in taken.
func local(name string, taken map[string]bool) string {
	id := sanitize(casing.Camel(name))
	if id == "_" {
		id = "arg"
	}
	for token.IsKeyword(id) || taken[id] {
		id += "_"
	}
	return id
}

// sanitize replaces characters that cannot appear in an identifier.
func sanitize(name string) string {
	if name == "" {
		return "_"
	}
	var b strings.Builder
	for i, r := range name {
		switch {
		case unicode.IsLetter(r) || r == '_':
			b.WriteRune(r)
		case unicode.IsDigit(r):
			if i == 0 {
				b.WriteRune('_')
			}
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// packageName derives the Go package name of a module from its last segment.
func packageName(segment string) string {
	name := strings.ToLower(sanitize(segment))
	if token.IsKeyword(name) || name == "_" {
		return name + "pkg"
	}
	return name
}

// uniqueFields maps field names to distinct exported identifiers.
func uniqueFields(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, len(names))
	for i, n := range names {
		id := exported(n)
		for seen[id] {
			id += "_"
		}
		seen[id] = true
		out[i] = id
	}
	return out
}

// packageNames allocates the package-level identifiers of one generated
// package, which spans types.go and every service file. Declared types and
// service entry points keep their names and must not clash. Derived names
// (variant interfaces, variant types, per-method declarations) take a "_"
// suffix until they are free.
type packageNames struct {
	owner    map[string]string   // identifier -> schema path that claimed it
	ifaces   map[string]string   // enum Go name -> variant interface
	variants map[string][]string // enum Go name -> variant type names
	methods  map[string][]string // service Go name -> method declaration prefixes
}

func newPackageNames(m *ir.Module) (*packageNames, error) {
	p := &packageNames{
		owner:    make(map[string]string),
		ifaces:   make(map[string]string),
		variants: make(map[string][]string),
		methods:  make(map[string][]string),
	}

	var errs []error
	reserve := func(id, path string) {
		if prev, ok := p.owner[id]; ok {
			errs = append(errs, &ir.ValidationError{
				Code:    ir.CodeUnsupportedShape,
				Path:    path,
				Message: fmt.Sprintf("Go name %s is already declared by %s", id, prev),
			})
			return
		}
		p.owner[id] = path
	}
	for _, d := range m.Types {
		reserve(exported(d.TypeName()), m.Path+"."+d.TypeName())
	}
	for _, svc := range m.Services {
		s := exported(svc.Name)
		for _, id := range []string{s + "Service", s + "Client", "New" + s + "Client", "New" + s + "Server"} {
			reserve(id, m.Path+"."+svc.Name)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	for _, d := range m.Types {
		e, ok := d.(*ir.EnumDescriptor)
		if !ok {
			continue
		}
		name, path := exported(e.TypeName()), m.Path+"."+e.TypeName()
		p.ifaces[name] = p.derive(path, name+"Variant")
		vs := make([]string, len(e.Variants))
		for i, v := range e.Variants {
			vs[i] = p.derive(path+"."+v.Tag, name+exported(v.Tag))
		}
		p.variants[name] = vs
	}
	for _, svc := range m.Services {
		s, path := exported(svc.Name), m.Path+"."+svc.Name
		names := make([]string, len(svc.Methods))
		for i := range svc.Methods {
			names[i] = svc.Methods[i].Name
		}
		bases := make([]string, len(names))
		for i, id := range uniqueFields(names) {
			bases[i] = p.derive(path+"."+names[i], s+id, "Method", "Request", "Response")
		}
		p.methods[s] = bases
	}
	return p, nil
}

// derive claims the first of base, base_, base__, ... that is free with each
// of suffixes appended.
func (p *packageNames) derive(path, base string, suffixes ...string) string {
	if len(suffixes) == 0 {
		suffixes = []string{""}
	}
	for {
		free := true
		for _, s := range suffixes {
			if _, ok := p.owner[base+s]; ok {
				free = false
				break
			}
		}
		if free {
			for _, s := range suffixes {
				p.owner[base+s] = path
			}
			return base
		}
		base += "_"
	}
}
