package golang

import (
	"fmt"
	"strings"

	"github.com/broady/rawr/rawrgen/ir"
)

// variant is an enum variant with its Go type name.
type variant struct {
	ir.Variant
	typeName string
}

// emitEnum writes a tagged union as a wrapper struct holding one value of a
// sealed variant interface, one struct per variant, and the JSON methods
// that apply the enum's tagging through the wire helpers.
func (g *Generator) emitEnum(b *strings.Builder, mp *mapper, names *packageNames, path, name string, e *ir.EnumDescriptor) error {
	params := e.TypeParams
	decl, use := typeParamDecl(params), typeParamUse(params)
	iface := names.ifaces[name]
	marker := "is" + name
	w := mp.wire()

	variants := make([]variant, len(e.Variants))
	for i, v := range e.Variants {
		variants[i] = variant{Variant: v, typeName: names.variants[name][i]}
	}

	if documented := g.cfg.EmitComments && !e.Documentation.IsZero(); !documented {
		fmt.Fprintf(b, "// %s holds exactly one of its variants in Value.\n", name)
	}
	fmt.Fprintf(b, "type %s%s struct {\n\tValue %s%s\n}\n\n", name, decl, iface, use)
	fmt.Fprintf(b, "// %s is implemented by the variants of %s.\n", iface, name)
	fmt.Fprintf(b, "type %s%s interface {\n\t%s()\n}\n\n", iface, decl, marker)

	for _, v := range variants {
		vpath := path + "." + v.Tag
		if g.cfg.EmitComments && !v.Documentation.IsZero() {
			writeDoc(b, "", v.Documentation, v.typeName)
		}
		body, err := g.variantBody(mp, vpath, v.Payload)
		if err != nil {
			return err
		}
		fmt.Fprintf(b, "type %s%s %s\n\n", v.typeName, decl, body)
		fmt.Fprintf(b, "func (%s%s) %s() {}\n\n", v.typeName, use, marker)
	}

	// MarshalJSON.
	fmt.Fprintf(b, "// MarshalJSON implements json.Marshaler.\n")
	fmt.Fprintf(b, "func (e %s%s) MarshalJSON() ([]byte, error) {\n", name, use)
	b.WriteString("\tswitch v := e.Value.(type) {\n")
	for _, v := range variants {
		content, has := marshalContent(w, v.Payload)
		fmt.Fprintf(b, "\tcase %s%s:\n", v.typeName, use)
		if e.Tagging == ir.TaggingExternal {
			fmt.Fprintf(b, "\t\treturn %s.MarshalExternal(%q, %s, %t)\n", w, v.Tag, content, has)
		} else {
			fmt.Fprintf(b, "\t\treturn %s.MarshalAdjacent(%q, %q, %q, %s, %t)\n", w, e.Tag(), e.Content(), v.Tag, content, has)
		}
	}
	b.WriteString("\tcase nil:\n")
	fmt.Fprintf(b, "\t\treturn nil, %s.Errorf(\"%s: no variant set\")\n", mp.std("fmt"), name)
	b.WriteString("\tdefault:\n")
	fmt.Fprintf(b, "\t\treturn nil, %s.Errorf(\"%s: unknown variant %%T\", v)\n", mp.std("fmt"), name)
	b.WriteString("\t}\n}\n\n")

	// UnmarshalJSON.
	usesContent := false
	for _, v := range variants {
		if v.Payload.Kind != ir.PayloadNone {
			usesContent = true
		}
	}
	contentVar := "_"
	if usesContent {
		contentVar = "content"
	}
	fmt.Fprintf(b, "// UnmarshalJSON implements json.Unmarshaler.\n")
	fmt.Fprintf(b, "func (e *%s%s) UnmarshalJSON(data []byte) error {\n", name, use)
	if e.Tagging == ir.TaggingExternal {
		fmt.Fprintf(b, "\ttag, %s, err := %s.UnmarshalExternal(data)\n", contentVar, w)
	} else {
		fmt.Fprintf(b, "\ttag, %s, err := %s.UnmarshalAdjacent(data, %q, %q)\n", contentVar, w, e.Tag(), e.Content())
	}
	b.WriteString("\tif err != nil {\n\t\treturn err\n\t}\n")
	b.WriteString("\tswitch tag {\n")
	for _, v := range variants {
		fmt.Fprintf(b, "\tcase %q:\n", v.Tag)
		decode := unmarshalContent(w, v.Payload)
		// Variants without fields decode nothing into v.
		empty := v.Payload.Kind == ir.PayloadNone || v.Payload.Kind == ir.PayloadUnit ||
			v.Payload.Kind == ir.PayloadTuple && len(v.Payload.Elements) == 0
		if !empty {
			fmt.Fprintf(b, "\t\tvar v %s%s\n", v.typeName, use)
		}
		if decode != "" {
			fmt.Fprintf(b, "\t\tif err := %s; err != nil {\n", decode)
			fmt.Fprintf(b, "\t\t\treturn %s.Errorf(\"%s.%s: %%w\", err)\n", mp.std("fmt"), name, v.Tag)
			b.WriteString("\t\t}\n")
		}
		if empty {
			fmt.Fprintf(b, "\t\te.Value = %s%s{}\n", v.typeName, use)
		} else {
			b.WriteString("\t\te.Value = v\n")
		}
	}
	b.WriteString("\tdefault:\n")
	fmt.Fprintf(b, "\t\treturn %s.UnknownTag(%q, tag)\n", w, name)
	b.WriteString("\t}\n\treturn nil\n}\n")
	return nil
}

// variantBody renders the struct type of a variant.
func (g *Generator) variantBody(mp *mapper, path string, p ir.Payload) (string, error) {
	switch p.Kind {
	case ir.PayloadNone, ir.PayloadUnit:
		return "struct{}", nil
	case ir.PayloadSingle:
		typ, err := mp.typeExpr(p.Type)
		if err != nil {
			return "", atPath(path, err)
		}
		return "struct {\n\tValue " + typ + "\n}", nil
	case ir.PayloadTuple:
		var b strings.Builder
		b.WriteString("struct {\n")
		for i, el := range p.Elements {
			typ, err := mp.typeExpr(el)
			if err != nil {
				return "", atPath(fmt.Sprintf("%s.%d", path, i), err)
			}
			fmt.Fprintf(&b, "\tV%d %s\n", i, typ)
		}
		b.WriteString("}")
		return b.String(), nil
	case ir.PayloadStruct:
		fields, err := g.structFields(mp, path, p.Fields, "")
		if err != nil {
			return "", err
		}
		return "struct {\n" + fields + "}", nil
	default:
		return "", &ir.ValidationError{Code: ir.CodeInvalidSchema, Path: path, Message: fmt.Sprintf("unknown payload kind %d", p.Kind)}
	}
}

// marshalContent is the Go expression passed as variant content, given the
// switch variable v.
func marshalContent(w string, p ir.Payload) (expr string, has bool) {
	switch p.Kind {
	case ir.PayloadUnit:
		return w + ".Empty{}", true
	case ir.PayloadSingle:
		return "v.Value", true
	case ir.PayloadTuple:
		elems := make([]string, len(p.Elements))
		for i := range p.Elements {
			elems[i] = fmt.Sprintf("v.V%d", i)
		}
		return "[]any{" + strings.Join(elems, ", ") + "}", true
	case ir.PayloadStruct:
		return "v", true
	default:
		return "nil", false
	}
}

// unmarshalContent is the Go call decoding content into the variable v, or
// "" for variants without content.
func unmarshalContent(w string, p ir.Payload) string {
	switch p.Kind {
	case ir.PayloadUnit:
		return w + ".DecodeTupleContent(content)"
	case ir.PayloadSingle:
		return w + ".DecodeContent(content, &v.Value)"
	case ir.PayloadTuple:
		ptrs := make([]string, len(p.Elements))
		for i := range p.Elements {
			ptrs[i] = fmt.Sprintf("&v.V%d", i)
		}
		return w + ".DecodeTupleContent(content, " + strings.Join(ptrs, ", ") + ")"
	case ir.PayloadStruct:
		return w + ".DecodeContent(content, &v)"
	default:
		return ""
	}
}
