package golang

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/tools/go/packages"

	"github.com/broady/rawr/internal/testfixtures"
	"github.com/broady/rawr/rawrgen/ir"
	"github.com/broady/rawr/rawrgen/sink"
)

// TestGeneratedCode_TypeChecks writes the bindings of the reference schema
// and of clashDocument into a directory inside this module, then loads them
// with the go command and type-checks them against the runtime packages.
func TestGeneratedCode_TypeChecks(t *testing.T) {
	if testing.Short() {
		t.Skip("loads packages with the go command")
	}
	dir, err := os.MkdirTemp(".", "typecheck")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	abs, err := filepath.Abs(dir)
	if err != nil {
		t.Fatal(err)
	}
	root := "github.com/broady/rawr/rawrgen/golang/" + filepath.Base(dir)

	out := sink.NewFilesystemSink(abs)
	for _, doc := range []*ir.Document{testfixtures.Document(), clashDocument()} {
		g := New(ir.NewSymbolTable(doc), Config{ImportRoot: root, Policy: PolicyPropagate})
		for i := range doc.Modules {
			files, err := g.Module(&doc.Modules[i])
			if err != nil {
				t.Fatalf("Module(%s): %v", doc.Modules[i].Path, err)
			}
			for _, f := range files {
				if err := out.WriteFile(context.Background(), f.Path, f.Content); err != nil {
					t.Fatal(err)
				}
			}
		}
	}

	pkgs, err := packages.Load(&packages.Config{
		Mode: packages.NeedName | packages.NeedTypes | packages.NeedSyntax | packages.NeedTypesInfo,
		Dir:  abs,
	}, "./...")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	// schemas/{module,module/nested_module,array_like,enumeration,structure,
	// result,service}, schemas_subcrate, core/result, shapes.
	if len(pkgs) != 10 {
		t.Errorf("loaded %d packages, want 10", len(pkgs))
	}
	for _, p := range pkgs {
		for _, e := range p.Errors {
			t.Errorf("%s: %v", p.PkgPath, e)
		}
	}
}
