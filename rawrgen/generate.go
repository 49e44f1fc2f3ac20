// Package rawrgen compiles Schema IR documents into typed TypeScript or Go
// bindings: per-module type declarations and per-service clients and server
// dispatchers.
//
// Every module is compiled independently. A module with errors produces no
// files, and neither does any module that references it directly or
// transitively; the others are still generated, and all errors are reported
// joined.
package rawrgen

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/broady/rawr/rawrgen/golang"
	"github.com/broady/rawr/rawrgen/ir"
	"github.com/broady/rawr/rawrgen/sink"
	"github.com/broady/rawr/rawrgen/typescript"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// maxConcurrentWrites bounds the number of files written at once.
const maxConcurrentWrites = 8

// Result describes a generation run.
type Result struct {
	// Files are the generated files, sorted by path.
	Files []sink.File

	// Skipped lists the modules that produced no output because of errors,
	// including the modules that depend on them.
	Skipped []string
}

type target interface {
	Name() string
	Module(m *ir.Module) ([]sink.File, error)
}

// runtimeTarget is implemented by targets that ship runtime sources.
type runtimeTarget interface {
	Runtime() []sink.File
}

func newTarget(cfg *Config, syms *ir.SymbolTable) target {
	switch cfg.Target {
	case TargetGo:
		return golang.New(syms, golang.Config{
			ImportRoot:    cfg.ImportRoot,
			RuntimeModule: cfg.RuntimeModule,
			Policy:        cfg.Policy,
			EmitComments:  cfg.EmitComments,
		})
	default:
		return typescript.New(syms, typescript.Config{
			Policy:        cfg.Policy,
			RuntimeModule: cfg.RuntimeModule,
			EmitComments:  cfg.EmitComments,
		})
	}
}

// Generate compiles doc and writes the output under cfg.OutDir.
func Generate(ctx context.Context, doc *ir.Document, cfg *Config) (*Result, error) {
	return GenerateTo(ctx, doc, cfg, sink.NewFilesystemSink(cfg.OutDir))
}

// GenerateTo compiles doc and writes the output to out. A nil out only
// collects the files into the Result.
func GenerateTo(ctx context.Context, doc *ir.Document, cfg *Config, out sink.Sink) (*Result, error) {
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	cfg = applyConfigDefaults(cfg)
	logger := cfg.Logger.With("target", cfg.Target)

	syms := ir.NewSymbolTable(doc)
	gen := newTarget(cfg, syms)

	var errs []error
	failed := make(map[string]bool)
	for _, err := range doc.ValidateWith(syms) {
		errs = append(errs, err)
		var ve *ir.ValidationError
		if errors.As(err, &ve) {
			failed[ve.Module()] = true
		}
	}

	modules := make([]*ir.Module, len(doc.Modules))
	for i := range doc.Modules {
		modules[i] = &doc.Modules[i]
	}
	slices.SortFunc(modules, func(a, b *ir.Module) int { return cmp.Compare(a.Path, b.Path) })

	generated := make(map[string][]sink.File, len(modules))
	for _, m := range modules {
		if failed[m.Path] {
			logger.Warn("skipping invalid module", "module", m.Path)
			continue
		}
		files, err := gen.Module(m)
		if err != nil {
			logger.Warn("module failed", "module", m.Path, "error", err)
			errs = append(errs, err)
			failed[m.Path] = true
			continue
		}
		generated[m.Path] = files
	}
	skipDependents(logger, modules, failed)

	res := &Result{}
	for _, m := range modules {
		if failed[m.Path] {
			res.Skipped = append(res.Skipped, m.Path)
			continue
		}
		res.Files = append(res.Files, generated[m.Path]...)
	}
	if rt, ok := gen.(runtimeTarget); ok {
		res.Files = append(res.Files, rt.Runtime()...)
	}
	slices.SortFunc(res.Files, func(a, b sink.File) int { return cmp.Compare(a.Path, b.Path) })

	if out != nil {
		if err := write(ctx, out, cfg.Clean, res.Files); err != nil {
			errs = append(errs, err)
		}
	}

	logger.Info("generation finished", "files", len(res.Files), "skipped", len(res.Skipped))
	return res, errors.Join(errs...)
}

// skipDependents marks every module that transitively references a failed
// module as failed too: its output would import declarations that were
// never written.
func skipDependents(logger *slog.Logger, modules []*ir.Module, failed map[string]bool) {
	deps := make(map[string][]string, len(modules))
	for _, m := range modules {
		deps[m.Path] = m.Dependencies()
	}
	for changed := true; changed; {
		changed = false
		for _, m := range modules {
			if failed[m.Path] {
				continue
			}
			for _, dep := range deps[m.Path] {
				if failed[dep] {
					logger.Warn("skipping module depending on a failed module", "module", m.Path, "dependency", dep)
					failed[m.Path] = true
					changed = true
					break
				}
			}
		}
	}
}

func write(ctx context.Context, out sink.Sink, clean bool, files []sink.File) error {
	if clean {
		if c, ok := out.(sink.Cleaner); ok {
			if err := c.Clean(ctx); err != nil {
				return fmt.Errorf("clean: %w", err)
			}
		}
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentWrites)
	for _, f := range files {
		g.Go(func() error {
			return out.WriteFile(ctx, f.Path, f.Content)
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}
