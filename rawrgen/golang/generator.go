// Package golang generates Go bindings from the Schema IR: one package per
// module, with types.go holding its declarations and one <service>_rpc.go
// per service holding the typed client and the server dispatcher.
//
// Generated code depends on the rawr runtime package and its wire
// subpackage for tagged-union and tuple encoding.
package golang

import (
	"errors"
	"fmt"

	"golang.org/x/tools/imports"

	"github.com/broady/rawr/rawrgen/ir"
	"github.com/broady/rawr/rawrgen/sink"
)

// Server error policies.
const (
	PolicyWrap      = "wrap"
	PolicyPropagate = "propagate"
)

// DefaultRuntimeModule is the import path of the runtime package.
const DefaultRuntimeModule = "github.com/broady/rawr"

const header = "// " + sink.GeneratedMarker + "\n"

// Config configures Go generation.
type Config struct {
	// ImportRoot is the import path of the output directory. Module
	// "a::b" is generated into ImportRoot/a/b.
	ImportRoot string

	// RuntimeModule is the import path of the runtime package.
	// Defaults to DefaultRuntimeModule.
	RuntimeModule string

	// Policy selects how generated servers report handler failures.
	// Defaults to PolicyWrap.
	Policy string

	// EmitComments writes schema documentation as Go doc comments.
	EmitComments bool
}

// Generator emits Go for the modules of one document.
// It is safe for concurrent use.
type Generator struct {
	cfg  Config
	syms *ir.SymbolTable
}

// New returns a Generator resolving references through syms.
func New(syms *ir.SymbolTable, cfg Config) *Generator {
	if cfg.RuntimeModule == "" {
		cfg.RuntimeModule = DefaultRuntimeModule
	}
	if cfg.Policy == "" {
		cfg.Policy = PolicyWrap
	}
	return &Generator{cfg: cfg, syms: syms}
}

// Name returns "go".
func (g *Generator) Name() string { return "go" }

// Module renders every file of m. A module with any error produces no files;
// all of its errors are returned joined. Declared names that map to the same
// Go identifier are reported as unsupported_shape.
func (g *Generator) Module(m *ir.Module) ([]sink.File, error) {
	dir := ir.FilePath(m.Path)
	names, err := newPackageNames(m)
	if err != nil {
		return nil, err
	}
	var files []sink.File
	var errs []error
	if len(m.Types) > 0 {
		src, err := g.typesFile(m, names)
		if err != nil {
			errs = append(errs, err)
		} else {
			files = append(files, sink.File{Path: dir + "/types.go", Content: src})
		}
	}
	for i := range m.Services {
		svc := &m.Services[i]
		src, err := g.serviceFile(m, svc, names)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		files = append(files, sink.File{Path: dir + "/" + serviceFileName(svc.Name), Content: src})
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return files, nil
}

// format gofmts src. The import block is already complete; imports.Process
// only sorts and groups it.
func format(filename, src string) ([]byte, error) {
	out, err := imports.Process(filename, []byte(src), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("format %s: %w", filename, err)
	}
	return out, nil
}
