package typescript

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/broady/rawr/rawrgen/ir"
)

// mapper renders IR type expressions as TypeScript type text for one output
// file, collecting the imports that text needs.
type mapper struct {
	syms   *ir.SymbolTable
	module string

	// importLocal makes same-module references import from ./index, for files
	// that sit next to the module's index.ts rather than inside it.
	importLocal bool

	// module path -> imported names
	imports map[string]map[string]bool
}

func newMapper(syms *ir.SymbolTable, module string) *mapper {
	return &mapper{
		syms:    syms,
		module:  module,
		imports: make(map[string]map[string]bool),
	}
}

// typeExpr maps td. Failures are *ir.ValidationError values without a Path.
func (m *mapper) typeExpr(td ir.TypeDescriptor) (string, error) {
	switch t := td.(type) {
	case *ir.PrimitiveDescriptor:
		return primitive(t), nil

	case *ir.SequenceDescriptor:
		elem, err := m.typeExpr(t.Element)
		if err != nil {
			return "", err
		}
		return elem + "[]", nil

	case *ir.TupleDescriptor:
		return m.tuple(t.Elements)

	case *ir.RefDescriptor, *ir.ExternalRefDescriptor:
		return m.ref(td, nil)

	case *ir.GenericDescriptor:
		return m.ref(td, t.Args)

	case *ir.TypeParameterDescriptor:
		return t.ParamName, nil

	case nil:
		return "", &ir.ValidationError{Code: ir.CodeInvalidSchema, Message: "missing type"}

	default:
		return "", &ir.ValidationError{
			Code:    ir.CodeInvalidSchema,
			Message: fmt.Sprintf("%s descriptor cannot be used as a type expression", td.Kind()),
		}
	}
}

func primitive(p *ir.PrimitiveDescriptor) string {
	switch p.PrimitiveKind {
	case ir.PrimitiveUnit:
		return "null"
	case ir.PrimitiveBool:
		return "boolean"
	case ir.PrimitiveInt, ir.PrimitiveUint, ir.PrimitiveFloat:
		return "number"
	default:
		return "string"
	}
}

func (m *mapper) tuple(elems []ir.TypeDescriptor) (string, error) {
	parts := make([]string, len(elems))
	for i, e := range elems {
		s, err := m.typeExpr(e)
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	return "[" + strings.Join(parts, ", ") + "]", nil
}

// ref resolves a reference through the symbol table and records the import.
func (m *mapper) ref(td ir.TypeDescriptor, args []ir.TypeDescriptor) (string, error) {
	sym, err := m.syms.Resolve(m.module, td)
	if err != nil {
		return "", err
	}
	name := escapeReservedWord(sym.Decl.TypeName())
	if sym.Module != m.module || m.importLocal {
		m.addImport(sym.Module, name)
	}
	if len(args) == 0 {
		return name, nil
	}
	mapped := make([]string, len(args))
	for i, a := range args {
		s, err := m.typeExpr(a)
		if err != nil {
			return "", err
		}
		mapped[i] = s
	}
	return name + "<" + strings.Join(mapped, ", ") + ">", nil
}

func (m *mapper) addImport(module, name string) {
	names, ok := m.imports[module]
	if !ok {
		names = make(map[string]bool)
		m.imports[module] = names
	}
	names[name] = true
}

// importSpecifier is the relative path from this file to module's index.ts.
func (m *mapper) importSpecifier(module string) string {
	if module == m.module {
		return "./index"
	}
	return ir.RelativePath(m.module, module)
}

// writeImports writes one type-only import per referenced module, sorted by
// specifier, names sorted within each import.
func (m *mapper) writeImports(b *strings.Builder) {
	type imp struct {
		from  string
		names []string
	}
	imps := make([]imp, 0, len(m.imports))
	for module, set := range m.imports {
		names := make([]string, 0, len(set))
		for n := range set {
			names = append(names, n)
		}
		slices.Sort(names)
		imps = append(imps, imp{from: m.importSpecifier(module), names: names})
	}
	slices.SortFunc(imps, func(a, b imp) int { return strings.Compare(a.from, b.from) })
	for _, i := range imps {
		fmt.Fprintf(b, "import type { %s } from %q;\n", strings.Join(i.names, ", "), i.from)
	}
}

// checkNames reports imported names that clash with each other or with the
// names declared by the file itself.
func (m *mapper) checkNames(path string, declared []string) error {
	owner := make(map[string]string, len(declared))
	for _, n := range declared {
		owner[n] = "this file"
	}
	var errs []error
	for _, module := range slices.Sorted(maps.Keys(m.imports)) {
		for _, n := range slices.Sorted(maps.Keys(m.imports[module])) {
			if prev, ok := owner[n]; ok {
				errs = append(errs, &ir.ValidationError{
					Code:    ir.CodeUnsupportedShape,
					Path:    path,
					Message: fmt.Sprintf("type %s imported from %s clashes with %s from %s", n, module, n, prev),
				})
				continue
			}
			owner[n] = module
		}
	}
	return errors.Join(errs...)
}

// atPath fills in the schema path of a validation error produced while
// mapping the element at path.
func atPath(path string, err error) error {
	if ve, ok := err.(*ir.ValidationError); ok && ve.Path == "" {
		ve.Path = path
	}
	return err
}
