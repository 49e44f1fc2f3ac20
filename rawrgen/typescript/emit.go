package typescript

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/broady/rawr/rawrgen/ir"
	"github.com/broady/rawr/rawrgen/sink"
)

const header = "// " + sink.GeneratedMarker + "\n"

// moduleFile renders the index.ts holding every declaration of m.
func (g *Generator) moduleFile(m *ir.Module) (sink.File, error) {
	mp := newMapper(g.syms, m.Path)

	var decls strings.Builder
	var errs []error
	for _, d := range m.Types {
		var b strings.Builder
		if err := g.emitDecl(&b, mp, m.Path+"."+d.TypeName(), d); err != nil {
			errs = append(errs, err)
			continue
		}
		decls.WriteString(b.String())
	}
	declared := make([]string, len(m.Types))
	for i, d := range m.Types {
		declared[i] = escapeReservedWord(d.TypeName())
	}
	if err := mp.checkNames(m.Path, declared); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return sink.File{}, errors.Join(errs...)
	}

	var out strings.Builder
	out.WriteString(header)
	if g.cfg.EmitComments && !m.Documentation.IsZero() {
		out.WriteString("\n")
		writeDoc(&out, "", m.Documentation)
	}
	mp.writeImports(&out)
	out.WriteString(decls.String())
	return sink.File{Path: modulePath(m.Path, "index.ts"), Content: []byte(out.String())}, nil
}

// modulePath joins a module's directory and file name.
func modulePath(module, file string) string {
	if dir := ir.FilePath(module); dir != "" {
		return dir + "/" + file
	}
	return file
}

// emitDecl writes one exported type declaration.
func (g *Generator) emitDecl(b *strings.Builder, mp *mapper, path string, d ir.Decl) error {
	if g.cfg.EmitComments && !d.Doc().IsZero() {
		writeDoc(b, "", d.Doc())
	}
	name := escapeReservedWord(d.TypeName()) + typeParams(d.TypeParameters())

	switch t := d.(type) {
	case *ir.StructDescriptor:
		body, err := g.object(mp, path, t.Fields, "")
		if err != nil {
			return err
		}
		fmt.Fprintf(b, "export type %s = %s;\n", name, body)

	case *ir.TupleStructDescriptor:
		body, err := mp.tuple(t.Elements)
		if err != nil {
			return atPath(path, err)
		}
		fmt.Fprintf(b, "export type %s = %s;\n", name, body)

	case *ir.NewtypeStructDescriptor:
		body, err := mp.typeExpr(t.Element)
		if err != nil {
			return atPath(path, err)
		}
		fmt.Fprintf(b, "export type %s = %s;\n", name, body)

	case *ir.UnitStructDescriptor:
		fmt.Fprintf(b, "export type %s = null;\n", name)

	case *ir.EnumDescriptor:
		return g.emitEnum(b, mp, path, name, t)

	default:
		return &ir.ValidationError{Code: ir.CodeInvalidSchema, Path: path, Message: fmt.Sprintf("unsupported declaration kind %s", d.Kind())}
	}
	return nil
}

func typeParams(params []string) string {
	if len(params) == 0 {
		return ""
	}
	return "<" + strings.Join(params, ", ") + ">"
}

// object renders named fields as a multi-line object type. indent prefixes
// every line after the first.
func (g *Generator) object(mp *mapper, path string, fields []ir.Field, indent string) (string, error) {
	if len(fields) == 0 {
		return "Record<string, never>", nil
	}
	var b strings.Builder
	b.WriteString("{\n")
	for _, f := range fields {
		typ, err := mp.typeExpr(f.Type)
		if err != nil {
			return "", atPath(path+"."+f.Name, err)
		}
		if g.cfg.EmitComments && !f.Documentation.IsZero() {
			writeDoc(&b, indent+"  ", f.Documentation)
		}
		fmt.Fprintf(&b, "%s  %s: %s;\n", indent, propertyName(f.Name), typ)
	}
	b.WriteString(indent + "}")
	return b.String(), nil
}

// emitEnum writes a union with one arm per variant.
func (g *Generator) emitEnum(b *strings.Builder, mp *mapper, path, name string, e *ir.EnumDescriptor) error {
	if len(e.Variants) == 0 {
		fmt.Fprintf(b, "export type %s = never;\n", name)
		return nil
	}
	fmt.Fprintf(b, "export type %s =\n", name)
	for _, v := range e.Variants {
		vpath := path + "." + v.Tag
		content, has, err := g.payload(mp, vpath, v.Payload)
		if err != nil {
			return err
		}
		tag := strconv.Quote(v.Tag)
		switch {
		case e.Tagging == ir.TaggingExternal && !has:
			fmt.Fprintf(b, "  | %s\n", tag)
		case e.Tagging == ir.TaggingExternal:
			fmt.Fprintf(b, "  | { %s: %s }\n", tag, content)
		case !has:
			fmt.Fprintf(b, "  | { %s: %s }\n", propertyName(e.Tag()), tag)
		default:
			fmt.Fprintf(b, "  | { %s: %s; %s: %s }\n", propertyName(e.Tag()), tag, propertyName(e.Content()), content)
		}
	}
	b.WriteString(";\n")
	return nil
}

// payload renders variant content. has is false for variants without content.
func (g *Generator) payload(mp *mapper, path string, p ir.Payload) (content string, has bool, err error) {
	switch p.Kind {
	case ir.PayloadNone:
		return "", false, nil
	case ir.PayloadUnit:
		return "[]", true, nil
	case ir.PayloadSingle:
		content, err = mp.typeExpr(p.Type)
	case ir.PayloadTuple:
		content, err = mp.tuple(p.Elements)
	case ir.PayloadStruct:
		content, err = g.object(mp, path, p.Fields, "  ")
		return content, true, err
	default:
		return "", false, &ir.ValidationError{Code: ir.CodeInvalidSchema, Path: path, Message: fmt.Sprintf("unknown payload kind %d", p.Kind)}
	}
	if err != nil {
		return "", false, atPath(path, err)
	}
	return content, true, nil
}

// writeDoc writes a JSDoc block.
func writeDoc(b *strings.Builder, indent string, doc ir.Documentation) {
	text := doc.Body
	if text == "" {
		text = doc.Summary
	}
	lines := strings.Split(strings.ReplaceAll(text, "*/", "*\\/"), "\n")
	if doc.Deprecated != nil {
		dep := "@deprecated"
		if *doc.Deprecated != "" {
			dep += " " + *doc.Deprecated
		}
		if text == "" {
			lines = nil
		}
		lines = append(lines, dep)
	}
	if len(lines) == 1 {
		fmt.Fprintf(b, "%s/** %s */\n", indent, lines[0])
		return
	}
	b.WriteString(indent + "/**\n")
	for _, l := range lines {
		if l == "" {
			b.WriteString(indent + " *\n")
			continue
		}
		fmt.Fprintf(b, "%s * %s\n", indent, l)
	}
	b.WriteString(indent + " */\n")
}
