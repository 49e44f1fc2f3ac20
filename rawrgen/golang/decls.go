package golang

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/broady/rawr/rawrgen/ir"
)

// typesFile renders types.go: every declaration of m.
func (g *Generator) typesFile(m *ir.Module, names *packageNames) ([]byte, error) {
	mp := newMapper(g.syms, &g.cfg, m.Path)

	var body strings.Builder
	var errs []error
	for _, d := range m.Types {
		var b strings.Builder
		if err := g.emitDecl(&b, mp, names, m.Path+"."+d.TypeName(), d); err != nil {
			errs = append(errs, err)
			continue
		}
		body.WriteString(b.String())
		body.WriteString("\n")
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	var out strings.Builder
	g.writeHeader(&out, m, true)
	mp.writeImports(&out)
	out.WriteString(body.String())
	return format(ir.FilePath(m.Path)+"/types.go", out.String())
}

// writeHeader writes the generated-code marker and package clause. The module
// documentation becomes the package comment of types.go only.
func (g *Generator) writeHeader(b *strings.Builder, m *ir.Module, pkgDoc bool) {
	b.WriteString(header)
	b.WriteString("\n")
	pkg := packageName(last(m.Path))
	if pkgDoc && g.cfg.EmitComments && !m.Documentation.IsZero() {
		writeDoc(b, "", m.Documentation, "Package "+pkg)
	}
	fmt.Fprintf(b, "package %s\n\n", pkg)
}

func (g *Generator) emitDecl(b *strings.Builder, mp *mapper, names *packageNames, path string, d ir.Decl) error {
	name := exported(d.TypeName())
	if g.cfg.EmitComments && !d.Doc().IsZero() {
		writeDoc(b, "", d.Doc(), name)
	}
	params := d.TypeParameters()

	switch t := d.(type) {
	case *ir.StructDescriptor:
		fields, err := g.structFields(mp, path, t.Fields, "")
		if err != nil {
			return err
		}
		fmt.Fprintf(b, "type %s%s struct {\n%s}\n", name, typeParamDecl(params), fields)

	case *ir.TupleStructDescriptor:
		typ, err := mp.tuple(t.Elements)
		if err != nil {
			return atPath(path, err)
		}
		fmt.Fprintf(b, "type %s%s = %s\n", name, typeParamDecl(params), typ)

	case *ir.NewtypeStructDescriptor:
		typ, err := mp.typeExpr(t.Element)
		if err != nil {
			return atPath(path, err)
		}
		fmt.Fprintf(b, "type %s%s = %s\n", name, typeParamDecl(params), typ)

	case *ir.UnitStructDescriptor:
		fmt.Fprintf(b, "type %s = %s.Unit\n", name, mp.wire())

	case *ir.EnumDescriptor:
		return g.emitEnum(b, mp, names, path, name, t)

	default:
		return &ir.ValidationError{Code: ir.CodeInvalidSchema, Path: path, Message: fmt.Sprintf("unsupported declaration kind %s", d.Kind())}
	}
	return nil
}

// structFields renders the field lines of a struct body with json tags, and
// validate tags where the schema carries a rule.
func (g *Generator) structFields(mp *mapper, path string, fields []ir.Field, indent string) (string, error) {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	ids := uniqueFields(names)

	var b strings.Builder
	for i, f := range fields {
		typ, err := mp.typeExpr(f.Type)
		if err != nil {
			return "", atPath(path+"."+f.Name, err)
		}
		if g.cfg.EmitComments && !f.Documentation.IsZero() {
			writeDoc(&b, indent+"\t", f.Documentation, ids[i])
		}
		tag := "json:" + strconv.Quote(f.Name)
		if f.Validate != "" {
			tag += " validate:" + strconv.Quote(f.Validate)
		}
		fmt.Fprintf(&b, "%s\t%s %s `%s`\n", indent, ids[i], typ, tag)
	}
	return b.String(), nil
}

// typeParamDecl renders a type parameter list for a declaration: [T, E any].
func typeParamDecl(params []string) string {
	if len(params) == 0 {
		return ""
	}
	return "[" + strings.Join(params, ", ") + " any]"
}

// typeParamUse renders the instantiation of a declaration with its own
// parameters: [T, E].
func typeParamUse(params []string) string {
	if len(params) == 0 {
		return ""
	}
	return "[" + strings.Join(params, ", ") + "]"
}

// writeDoc writes a Go doc comment. The first line starts with name unless
// the text already does.
func writeDoc(b *strings.Builder, indent string, doc ir.Documentation, name string) {
	text := doc.Body
	if text == "" {
		text = doc.Summary
	}
	if text != "" && !strings.HasPrefix(text, name+" ") && !strings.HasPrefix(text, name+".") {
		text = name + ": " + text
	}
	var lines []string
	if text != "" {
		lines = strings.Split(text, "\n")
	}
	if doc.Deprecated != nil {
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		dep := "Deprecated:"
		if *doc.Deprecated != "" {
			dep += " " + *doc.Deprecated
		}
		lines = append(lines, dep)
	}
	for _, l := range lines {
		if l == "" {
			b.WriteString(indent + "//\n")
			continue
		}
		fmt.Fprintf(b, "%s// %s\n", indent, l)
	}
}
