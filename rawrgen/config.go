package rawrgen

import (
	"context"
	"log/slog"

	"github.com/broady/rawr/rawrgen/ir"
)

// Target names.
const (
	TargetTypeScript = "typescript"
	TargetGo         = "go"
)

// Config holds the configuration for code generation.
type Config struct {
	// Target selects the output language: "typescript" or "go".
	Target string `validate:"required,oneof=typescript go"`

	// OutDir is the directory where generated files will be written.
	// e.g. "./client/src/rpc"
	OutDir string `validate:"required"`

	// Policy selects how generated servers report handler failures.
	// Supported values: "wrap" (failures become Err results), "propagate"
	// (failures reach the dispatcher's caller).
	// Default: "wrap"
	Policy string `validate:"omitempty,oneof=wrap propagate"`

	// ImportRoot is the Go import path of OutDir. Required for the go target.
	// e.g. "github.com/myorg/myapp/gen"
	ImportRoot string `validate:"required_if=Target go"`

	// RuntimeModule overrides where generated code imports the runtime from.
	// For typescript, an import specifier; rawr.ts is then not emitted.
	// For go, an import path. Default: the runtime shipped with this module.
	RuntimeModule string

	// Clean removes previously generated files under OutDir before writing.
	// Handwritten files are never touched.
	Clean bool

	// EmitComments carries schema documentation into the generated code.
	EmitComments bool

	// Logger receives progress messages. Default: slog.Default().
	Logger *slog.Logger `validate:"-"`
}

func applyConfigDefaults(cfg *Config) *Config {
	out := *cfg
	if out.Policy == "" {
		out.Policy = "wrap"
	}
	if out.Logger == nil {
		out.Logger = slog.Default()
	}
	return &out
}

// Generator provides a fluent API for code generation.
// Create with FromDocument() and configure with method chaining.
//
// Example:
//
//	rawrgen.FromDocument(doc).
//	    Target(rawrgen.TargetTypeScript).
//	    Policy("propagate").
//	    ToDir("./client/src/rpc")
type Generator struct {
	doc *ir.Document
	cfg Config
}

// FromDocument creates a new Generator for the given schema document.
// This is the entry point for the fluent API.
func FromDocument(doc *ir.Document) *Generator {
	return &Generator{doc: doc, cfg: Config{Target: TargetTypeScript}}
}

// Target sets the output language. Default: "typescript".
func (g *Generator) Target(target string) *Generator {
	g.cfg.Target = target
	return g
}

// Policy sets the server error policy.
// Valid values: "wrap" (default), "propagate".
func (g *Generator) Policy(policy string) *Generator {
	g.cfg.Policy = policy
	return g
}

// ImportRoot sets the Go import path of the output directory.
func (g *Generator) ImportRoot(root string) *Generator {
	g.cfg.ImportRoot = root
	return g
}

// RuntimeModule sets where generated code imports the runtime from.
func (g *Generator) RuntimeModule(module string) *Generator {
	g.cfg.RuntimeModule = module
	return g
}

// Clean removes previously generated files before writing.
func (g *Generator) Clean() *Generator {
	g.cfg.Clean = true
	return g
}

// WithComments carries schema documentation into the output.
func (g *Generator) WithComments() *Generator {
	g.cfg.EmitComments = true
	return g
}

// WithLogger sets the progress logger.
func (g *Generator) WithLogger(logger *slog.Logger) *Generator {
	g.cfg.Logger = logger
	return g
}

// ToDir generates files to the specified directory.
// This is a terminal operation that writes files to disk.
func (g *Generator) ToDir(dir string) (*Result, error) {
	g.cfg.OutDir = dir
	return Generate(context.Background(), g.doc, &g.cfg)
}

// Generate returns generated files in memory without writing to disk.
// Use ToDir() to write files to disk instead.
func (g *Generator) Generate() (*Result, error) {
	cfg := g.cfg
	if cfg.OutDir == "" {
		cfg.OutDir = "."
	}
	return GenerateTo(context.Background(), g.doc, &cfg, nil)
}
