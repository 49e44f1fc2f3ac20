package ir

import (
	"maps"
	"slices"
)

// Document is a complete schema: the package graph plus every module's
// declarations and services.
type Document struct {
	// Packages declares the dependency graph used for cross-module visibility.
	// A module whose package has no entry can only see its own package.
	Packages []Package

	// Modules contains every module, in any order. Generators emit them in
	// path order for deterministic output.
	Modules []Module
}

// Package is a unit of distribution. A module's package is the first segment
// of its path.
type Package struct {
	Name         string
	Dependencies []string
}

// Module groups declarations and services under a "::"-separated path.
type Module struct {
	// Path is the module path (e.g. "schemas::module::nested").
	Path string

	// Types contains the module's named declarations, in declaration order.
	Types []Decl

	// Services contains service descriptors declared in this module.
	// This field is optional; modules containing only types are valid.
	Services []ServiceDescriptor

	// Documentation for this module.
	Documentation Documentation
}

// Package returns the module's package name.
func (m *Module) Package() string {
	return PackageOf(m.Path)
}

// Dependencies returns the paths of the other modules m references from its
// declarations and method signatures, sorted.
func (m *Module) Dependencies() []string {
	deps := make(map[string]bool)
	var expr func(t TypeDescriptor)
	exprs := func(ts []TypeDescriptor) {
		for _, t := range ts {
			expr(t)
		}
	}
	fields := func(fs []Field) {
		for _, f := range fs {
			expr(f.Type)
		}
	}
	expr = func(t TypeDescriptor) {
		switch t := t.(type) {
		case *SequenceDescriptor:
			expr(t.Element)
		case *TupleDescriptor:
			exprs(t.Elements)
		case *ExternalRefDescriptor:
			deps[t.Module] = true
		case *GenericDescriptor:
			deps[t.Module] = true
			exprs(t.Args)
		}
	}

	for _, d := range m.Types {
		switch d := d.(type) {
		case *StructDescriptor:
			fields(d.Fields)
		case *TupleStructDescriptor:
			exprs(d.Elements)
		case *NewtypeStructDescriptor:
			expr(d.Element)
		case *EnumDescriptor:
			for _, v := range d.Variants {
				expr(v.Payload.Type)
				exprs(v.Payload.Elements)
				fields(v.Payload.Fields)
			}
		}
	}
	for _, svc := range m.Services {
		for _, meth := range svc.Methods {
			for _, p := range meth.Params {
				expr(p.Type)
			}
			expr(meth.Returns)
		}
	}
	delete(deps, m.Path)
	delete(deps, "")
	return slices.Sorted(maps.Keys(deps))
}

// AddType adds a named declaration to the module.
func (m *Module) AddType(d Decl) {
	m.Types = append(m.Types, d)
}

// AddService adds a service descriptor to the module.
func (m *Module) AddService(svc ServiceDescriptor) {
	m.Services = append(m.Services, svc)
}

// FindType looks up a declaration by name. Returns nil if not found.
func (m *Module) FindType(name string) Decl {
	for _, t := range m.Types {
		if t.TypeName() == name {
			return t
		}
	}
	return nil
}

// FindService looks up a service by name. Returns nil if not found.
func (m *Module) FindService(name string) *ServiceDescriptor {
	for i := range m.Services {
		if m.Services[i].Name == name {
			return &m.Services[i]
		}
	}
	return nil
}

// FindModule looks up a module by path. Returns nil if not found.
func (d *Document) FindModule(path string) *Module {
	for i := range d.Modules {
		if d.Modules[i].Path == path {
			return &d.Modules[i]
		}
	}
	return nil
}

// Module returns the module with the given path, creating it if needed.
func (d *Document) Module(path string) *Module {
	if m := d.FindModule(path); m != nil {
		return m
	}
	d.Modules = append(d.Modules, Module{Path: path})
	return &d.Modules[len(d.Modules)-1]
}

// AddPackage declares a package and its direct dependencies.
func (d *Document) AddPackage(name string, deps ...string) {
	d.Packages = append(d.Packages, Package{Name: name, Dependencies: deps})
}
