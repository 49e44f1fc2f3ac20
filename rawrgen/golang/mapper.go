package golang

import (
	"fmt"
	"path"
	"slices"
	"strconv"
	"strings"

	"github.com/broady/rawr/rawrgen/ir"
	"github.com/broady/rawr/wire"
)

// mapper renders IR type expressions as Go type text for one output file of
// module, collecting the imports that text needs.
type mapper struct {
	syms   *ir.SymbolTable
	cfg    *Config
	module string

	imports map[string]string // import path -> name used in the file
	names   map[string]string // name -> import path
}

func newMapper(syms *ir.SymbolTable, cfg *Config, module string) *mapper {
	m := &mapper{
		syms:    syms,
		cfg:     cfg,
		module:  module,
		imports: make(map[string]string),
		names:   make(map[string]string),
	}
	// The package's own name is reserved so that no import shadows it.
	m.names[packageName(last(module))] = ""
	return m
}

func last(module string) string {
	segs := ir.SplitPath(module)
	if len(segs) == 0 {
		return ""
	}
	return segs[len(segs)-1]
}

func unsupported(format string, args ...any) error {
	return &ir.ValidationError{Code: ir.CodeUnsupportedShape, Message: fmt.Sprintf(format, args...)}
}

// use records an import and returns the name to qualify its identifiers with.
// The preferred name is the package name; collisions fall back to the full
// module path joined with underscores, then to a numeric suffix.
func (m *mapper) use(importPath, preferred, fallback string) string {
	if name, ok := m.imports[importPath]; ok {
		return name
	}
	name := preferred
	if _, taken := m.names[name]; taken {
		name = fallback
	}
	for i := 2; ; i++ {
		if _, taken := m.names[name]; !taken {
			break
		}
		name = fallback + strconv.Itoa(i)
	}
	m.imports[importPath] = name
	m.names[name] = importPath
	return name
}

func (m *mapper) rawr() string {
	return m.use(m.cfg.RuntimeModule, "rawr", "rawrrt")
}

func (m *mapper) wire() string {
	return m.use(m.cfg.RuntimeModule+"/wire", "wire", "rawrwire")
}

func (m *mapper) std(pkg string) string {
	return m.use(pkg, pkg, "std"+pkg)
}

// moduleImport returns the import path of a module's generated package.
func (m *mapper) moduleImport(module string) string {
	return path.Join(m.cfg.ImportRoot, ir.FilePath(module))
}

// typeExpr maps td. Failures are *ir.ValidationError values without a Path.
func (m *mapper) typeExpr(td ir.TypeDescriptor) (string, error) {
	switch t := td.(type) {
	case *ir.PrimitiveDescriptor:
		return m.primitive(t)

	case *ir.SequenceDescriptor:
		elem, err := m.typeExpr(t.Element)
		if err != nil {
			return "", err
		}
		return "[]" + elem, nil

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

func (m *mapper) primitive(p *ir.PrimitiveDescriptor) (string, error) {
	switch p.PrimitiveKind {
	case ir.PrimitiveUnit:
		return m.wire() + ".Unit", nil
	case ir.PrimitiveBool:
		return "bool", nil
	case ir.PrimitiveChar, ir.PrimitiveString:
		// A char travels as a one-character string.
		return "string", nil
	case ir.PrimitiveInt, ir.PrimitiveUint:
		if !slices.Contains([]int{8, 16, 32, 64}, p.BitSize) {
			return "", unsupported("integer size %d", p.BitSize)
		}
		prefix := "int"
		if p.PrimitiveKind == ir.PrimitiveUint {
			prefix = "uint"
		}
		return prefix + strconv.Itoa(p.BitSize), nil
	case ir.PrimitiveFloat:
		if p.BitSize != 32 && p.BitSize != 64 {
			return "", unsupported("float size %d", p.BitSize)
		}
		return "float" + strconv.Itoa(p.BitSize), nil
	default:
		return "", unsupported("primitive %s", p.PrimitiveKind)
	}
}

// tuple maps positional elements onto the wire tuple types.
func (m *mapper) tuple(elems []ir.TypeDescriptor) (string, error) {
	if len(elems) == 0 {
		return m.wire() + ".Empty", nil
	}
	if len(elems) > wire.MaxTuple {
		return "", unsupported("tuple of %d elements (at most %d)", len(elems), wire.MaxTuple)
	}
	args, err := m.list(elems)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s.Tuple%d[%s]", m.wire(), len(elems), args), nil
}

func (m *mapper) list(tds []ir.TypeDescriptor) (string, error) {
	parts := make([]string, len(tds))
	for i, td := range tds {
		s, err := m.typeExpr(td)
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	return strings.Join(parts, ", "), nil
}

// ref resolves a reference through the symbol table, qualifying declarations
// of other modules with their package import.
func (m *mapper) ref(td ir.TypeDescriptor, args []ir.TypeDescriptor) (string, error) {
	sym, err := m.syms.Resolve(m.module, td)
	if err != nil {
		return "", err
	}
	name := exported(sym.Decl.TypeName())
	if sym.Module != m.module {
		fallback := packageName(strings.Join(ir.SplitPath(sym.Module), "_"))
		name = m.use(m.moduleImport(sym.Module), packageName(last(sym.Module)), fallback) + "." + name
	}
	if len(args) == 0 {
		return name, nil
	}
	list, err := m.list(args)
	if err != nil {
		return "", err
	}
	return name + "[" + list + "]", nil
}

// writeImports writes the import block, sorted by path. Names are explicit
// whenever they differ from the last path element.
func (m *mapper) writeImports(b *strings.Builder) {
	if len(m.imports) == 0 {
		return
	}
	paths := make([]string, 0, len(m.imports))
	for p := range m.imports {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	b.WriteString("import (\n")
	for _, p := range paths {
		if name := m.imports[p]; name != path.Base(p) {
			fmt.Fprintf(b, "\t%s %q\n", name, p)
		} else {
			fmt.Fprintf(b, "\t%q\n", p)
		}
	}
	b.WriteString(")\n\n")
}

// atPath fills in the schema path of a validation error produced while
// mapping the element at path.
func atPath(p string, err error) error {
	if ve, ok := err.(*ir.ValidationError); ok && ve.Path == "" {
		ve.Path = p
	}
	return err
}
