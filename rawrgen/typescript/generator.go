// Package typescript generates TypeScript bindings from the Schema IR: one
// index.ts of type declarations per module, one <service>_rpc.ts per service,
// and the rawr.ts runtime they import.
package typescript

import (
	_ "embed"
	"errors"

	"github.com/broady/rawr/rawrgen/ir"
	"github.com/broady/rawr/rawrgen/sink"
)

// Server error policies.
const (
	PolicyWrap      = "wrap"
	PolicyPropagate = "propagate"
)

// RuntimeFile is the path of the runtime library within the output root.
const RuntimeFile = "rawr.ts"

//go:embed rawr.ts
var runtimeSource []byte

// Config configures TypeScript generation.
type Config struct {
	// Policy selects how generated servers report handler failures:
	// PolicyWrap (default) answers with an Err result, PolicyPropagate
	// rejects the dispatcher's promise.
	Policy string

	// RuntimeModule is the import specifier of the runtime library.
	// Empty means rawr.ts is emitted at the output root and imported relatively.
	RuntimeModule string

	// EmitComments writes schema documentation as JSDoc.
	EmitComments bool
}

// Generator emits TypeScript for the modules of one document.
// It is safe for concurrent use.
type Generator struct {
	cfg  Config
	syms *ir.SymbolTable
}

// New returns a Generator resolving references through syms.
func New(syms *ir.SymbolTable, cfg Config) *Generator {
	if cfg.Policy == "" {
		cfg.Policy = PolicyWrap
	}
	return &Generator{cfg: cfg, syms: syms}
}

// Name returns "typescript".
func (g *Generator) Name() string { return "typescript" }

// Module renders every file of m. A module with any error produces no files;
// all of its errors are returned joined.
func (g *Generator) Module(m *ir.Module) ([]sink.File, error) {
	var files []sink.File
	var errs []error
	if len(m.Types) > 0 {
		f, err := g.moduleFile(m)
		if err != nil {
			errs = append(errs, err)
		} else {
			files = append(files, f)
		}
	}
	for i := range m.Services {
		f, err := g.serviceFile(m, &m.Services[i])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		files = append(files, f)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return files, nil
}

// Runtime returns the runtime library file, or nothing when a runtime
// module is configured.
func (g *Generator) Runtime() []sink.File {
	if g.cfg.RuntimeModule != "" {
		return nil
	}
	return []sink.File{{Path: RuntimeFile, Content: runtimeSource}}
}
