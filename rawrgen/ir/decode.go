package ir

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Wire shapes of the IR JSON contract. Each node is checked with validator
// struct tags before it is converted into a descriptor.

type kindNode struct {
	Kind string `json:"kind" validate:"required"`
}

type primitiveNode struct {
	Name string `json:"name" validate:"required"`
}

type sequenceNode struct {
	Element json.RawMessage `json:"element" validate:"required"`
}

type tupleNode struct {
	Elements []json.RawMessage `json:"elements"`
}

type refNode struct {
	Name string `json:"name" validate:"required"`
}

type externalRefNode struct {
	Module string `json:"module" validate:"required"`
	Name   string `json:"name" validate:"required"`
}

type genericNode struct {
	Module string            `json:"module"`
	Name   string            `json:"name" validate:"required"`
	Args   []json.RawMessage `json:"args" validate:"min=1"`
}

type fieldNode struct {
	Name     string          `json:"name" validate:"required"`
	Type     json.RawMessage `json:"type" validate:"required"`
	Validate string          `json:"validate"`
	Doc      string          `json:"doc"`
}

type structNode struct {
	Name       string      `json:"name" validate:"required"`
	TypeParams []string    `json:"typeParams" validate:"dive,required"`
	Fields     []fieldNode `json:"fields" validate:"dive"`
	Doc        string      `json:"doc"`
}

type tupleStructNode struct {
	Name       string            `json:"name" validate:"required"`
	TypeParams []string          `json:"typeParams" validate:"dive,required"`
	Elements   []json.RawMessage `json:"elements"`
	Doc        string            `json:"doc"`
}

type newtypeStructNode struct {
	Name       string          `json:"name" validate:"required"`
	TypeParams []string        `json:"typeParams" validate:"dive,required"`
	Element    json.RawMessage `json:"element" validate:"required"`
	Doc        string          `json:"doc"`
}

type unitStructNode struct {
	Name string `json:"name" validate:"required"`
	Doc  string `json:"doc"`
}

type payloadNode struct {
	Kind     string            `json:"kind" validate:"required,oneof=none unit single tuple struct"`
	Type     json.RawMessage   `json:"type" validate:"required_if=Kind single"`
	Elements []json.RawMessage `json:"elements"`
	Fields   []fieldNode       `json:"fields" validate:"dive"`
}

type variantNode struct {
	Tag     string       `json:"tag" validate:"required"`
	Payload *payloadNode `json:"payload"`
	Doc     string       `json:"doc"`
}

type enumNode struct {
	Name       string        `json:"name" validate:"required"`
	TypeParams []string      `json:"typeParams" validate:"dive,required"`
	Tagging    string        `json:"tagging" validate:"omitempty,oneof=adjacent external"`
	Tag        string        `json:"tag"`
	Content    string        `json:"content"`
	Variants   []variantNode `json:"variants" validate:"dive"`
	Doc        string        `json:"doc"`
}

type paramNode struct {
	Name string          `json:"name"`
	Type json.RawMessage `json:"type" validate:"required"`
}

type methodNode struct {
	Name    string          `json:"name" validate:"required"`
	Params  []paramNode     `json:"params" validate:"dive"`
	Returns json.RawMessage `json:"returns"`
	Doc     string          `json:"doc"`
}

type serviceNode struct {
	Name    string       `json:"name" validate:"required"`
	Methods []methodNode `json:"methods" validate:"dive"`
	Doc     string       `json:"doc"`
}

type moduleNode struct {
	Path     string            `json:"path" validate:"required"`
	Types    []json.RawMessage `json:"types"`
	Services []serviceNode     `json:"services" validate:"dive"`
	Doc      string            `json:"doc"`
}

type packageNode struct {
	Name         string   `json:"name" validate:"required"`
	Dependencies []string `json:"dependencies" validate:"dive,required"`
}

type documentNode struct {
	Packages []packageNode `json:"packages" validate:"dive"`
	Modules  []moduleNode  `json:"modules" validate:"dive"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// decodeNode unmarshals data into v and runs struct validation on it.
func decodeNode(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	return validate.Struct(v)
}

// schemaError wraps a decode or validation failure as an invalid_schema error.
func schemaError(path string, err error) error {
	var valErrs validator.ValidationErrors
	if errors.As(err, &valErrs) {
		msgs := make([]string, 0, len(valErrs))
		for _, fe := range valErrs {
			msgs = append(msgs, fmt.Sprintf("%s failed %s validation", fe.Namespace(), fe.Tag()))
		}
		return &ValidationError{Code: CodeInvalidSchema, Path: path, Message: strings.Join(msgs, "; ")}
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return err
	}
	return &ValidationError{Code: CodeInvalidSchema, Path: path, Message: err.Error()}
}

// DecodeType decodes a single type expression node.
func DecodeType(data []byte) (TypeDescriptor, error) {
	return decodeType("", data)
}

func decodeType(path string, data []byte) (TypeDescriptor, error) {
	if len(bytes.TrimSpace(data)) == 0 || bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil, schemaError(path, errors.New("missing type"))
	}
	var k kindNode
	if err := json.Unmarshal(data, &k); err != nil {
		return nil, schemaError(path, err)
	}
	if err := validate.Struct(&k); err != nil {
		return nil, schemaError(path, err)
	}

	switch k.Kind {
	case "primitive":
		var n struct {
			kindNode
			primitiveNode
		}
		if err := decodeNode(data, &n); err != nil {
			return nil, schemaError(path, err)
		}
		p, ok := ParsePrimitive(n.Name)
		if !ok {
			return nil, schemaError(path, fmt.Errorf("unknown primitive %q", n.Name))
		}
		return p, nil

	case "sequence":
		var n struct {
			kindNode
			sequenceNode
		}
		if err := decodeNode(data, &n); err != nil {
			return nil, schemaError(path, err)
		}
		elem, err := decodeType(path, n.Element)
		if err != nil {
			return nil, err
		}
		return Sequence(elem), nil

	case "tuple":
		var n struct {
			kindNode
			tupleNode
		}
		if err := decodeNode(data, &n); err != nil {
			return nil, schemaError(path, err)
		}
		elems, err := decodeTypes(path, n.Elements)
		if err != nil {
			return nil, err
		}
		return Tuple(elems...), nil

	case "ref":
		var n struct {
			kindNode
			refNode
		}
		if err := decodeNode(data, &n); err != nil {
			return nil, schemaError(path, err)
		}
		return Ref(n.Name), nil

	case "externalRef":
		var n struct {
			kindNode
			externalRefNode
		}
		if err := decodeNode(data, &n); err != nil {
			return nil, schemaError(path, err)
		}
		return ExternalRef(n.Module, n.Name), nil

	case "generic":
		var n struct {
			kindNode
			genericNode
		}
		if err := decodeNode(data, &n); err != nil {
			return nil, schemaError(path, err)
		}
		args, err := decodeTypes(path, n.Args)
		if err != nil {
			return nil, err
		}
		return Generic(n.Module, n.Name, args...), nil

	case "typeParam":
		var n struct {
			kindNode
			refNode
		}
		if err := decodeNode(data, &n); err != nil {
			return nil, schemaError(path, err)
		}
		return TypeParam(n.Name), nil

	default:
		return nil, schemaError(path, fmt.Errorf("unknown type expression kind %q", k.Kind))
	}
}

func decodeTypes(path string, raw []json.RawMessage) ([]TypeDescriptor, error) {
	out := make([]TypeDescriptor, 0, len(raw))
	for i, r := range raw {
		t, err := decodeType(fmt.Sprintf("%s.%d", path, i), r)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func decodeFields(path string, nodes []fieldNode) ([]Field, error) {
	fields := make([]Field, 0, len(nodes))
	for _, n := range nodes {
		t, err := decodeType(path+"."+n.Name, n.Type)
		if err != nil {
			return nil, err
		}
		fields = append(fields, Field{Name: n.Name, Type: t, Validate: n.Validate, Documentation: Doc(n.Doc)})
	}
	return fields, nil
}

// DecodeDecl decodes a single named declaration node.
func DecodeDecl(data []byte) (Decl, error) {
	return decodeDecl("", data)
}

func decodeDecl(module string, data []byte) (Decl, error) {
	var k kindNode
	if err := json.Unmarshal(data, &k); err != nil {
		return nil, schemaError(module, err)
	}
	if err := validate.Struct(&k); err != nil {
		return nil, schemaError(module, err)
	}

	switch k.Kind {
	case "struct":
		var n struct {
			kindNode
			structNode
		}
		if err := decodeNode(data, &n); err != nil {
			return nil, schemaError(module, err)
		}
		path := module + "." + n.Name
		fields, err := decodeFields(path, n.Fields)
		if err != nil {
			return nil, err
		}
		return &StructDescriptor{Name: n.Name, TypeParams: n.TypeParams, Fields: fields, Documentation: Doc(n.Doc)}, nil

	case "tupleStruct":
		var n struct {
			kindNode
			tupleStructNode
		}
		if err := decodeNode(data, &n); err != nil {
			return nil, schemaError(module, err)
		}
		elems, err := decodeTypes(module+"."+n.Name, n.Elements)
		if err != nil {
			return nil, err
		}
		return &TupleStructDescriptor{Name: n.Name, TypeParams: n.TypeParams, Elements: elems, Documentation: Doc(n.Doc)}, nil

	case "newtypeStruct":
		var n struct {
			kindNode
			newtypeStructNode
		}
		if err := decodeNode(data, &n); err != nil {
			return nil, schemaError(module, err)
		}
		elem, err := decodeType(module+"."+n.Name, n.Element)
		if err != nil {
			return nil, err
		}
		return &NewtypeStructDescriptor{Name: n.Name, TypeParams: n.TypeParams, Element: elem, Documentation: Doc(n.Doc)}, nil

	case "unitStruct":
		var n struct {
			kindNode
			unitStructNode
		}
		if err := decodeNode(data, &n); err != nil {
			return nil, schemaError(module, err)
		}
		return &UnitStructDescriptor{Name: n.Name, Documentation: Doc(n.Doc)}, nil

	case "enum":
		var n struct {
			kindNode
			enumNode
		}
		if err := decodeNode(data, &n); err != nil {
			return nil, schemaError(module, err)
		}
		return decodeEnum(module, &n.enumNode)

	default:
		return nil, schemaError(module, fmt.Errorf("unknown declaration kind %q", k.Kind))
	}
}

func decodeEnum(module string, n *enumNode) (*EnumDescriptor, error) {
	e := &EnumDescriptor{
		Name:          n.Name,
		TypeParams:    n.TypeParams,
		TagKey:        n.Tag,
		ContentKey:    n.Content,
		Documentation: Doc(n.Doc),
	}
	if n.Tagging == "external" {
		e.Tagging = TaggingExternal
	}

	for _, vn := range n.Variants {
		path := module + "." + n.Name + "." + vn.Tag
		v := Variant{Tag: vn.Tag, Documentation: Doc(vn.Doc)}
		if vn.Payload != nil {
			switch vn.Payload.Kind {
			case "none":
				v.Payload = NoPayload()
			case "unit":
				v.Payload = UnitPayload()
			case "single":
				t, err := decodeType(path, vn.Payload.Type)
				if err != nil {
					return nil, err
				}
				v.Payload = SinglePayload(t)
			case "tuple":
				elems, err := decodeTypes(path, vn.Payload.Elements)
				if err != nil {
					return nil, err
				}
				v.Payload = TuplePayload(elems...)
			case "struct":
				fields, err := decodeFields(path, vn.Payload.Fields)
				if err != nil {
					return nil, err
				}
				v.Payload = StructPayload(fields...)
			}
		}
		e.Variants = append(e.Variants, v)
	}
	return e, nil
}

func decodeService(module string, n *serviceNode) (ServiceDescriptor, error) {
	svc := ServiceDescriptor{Name: n.Name, Documentation: Doc(n.Doc)}
	for _, mn := range n.Methods {
		path := module + "." + n.Name + "." + mn.Name
		m := Method{Name: mn.Name, Documentation: Doc(mn.Doc)}
		for i, pn := range mn.Params {
			t, err := decodeType(fmt.Sprintf("%s(%d)", path, i), pn.Type)
			if err != nil {
				return ServiceDescriptor{}, err
			}
			m.Params = append(m.Params, Param{Name: pn.Name, Type: t})
		}
		if len(mn.Returns) > 0 && !bytes.Equal(bytes.TrimSpace(mn.Returns), []byte("null")) {
			t, err := decodeType(path+"->", mn.Returns)
			if err != nil {
				return ServiceDescriptor{}, err
			}
			m.Returns = t
		}
		svc.Methods = append(svc.Methods, m)
	}
	return svc, nil
}

// UnmarshalJSON implements json.Unmarshaler for Document.
func (d *Document) UnmarshalJSON(data []byte) error {
	var n documentNode
	if err := decodeNode(data, &n); err != nil {
		return schemaError("", err)
	}

	var doc Document
	for _, pn := range n.Packages {
		doc.AddPackage(pn.Name, pn.Dependencies...)
	}
	for i := range n.Modules {
		mn := &n.Modules[i]
		m := Module{Path: mn.Path, Documentation: Doc(mn.Doc)}
		for _, raw := range mn.Types {
			decl, err := decodeDecl(mn.Path, raw)
			if err != nil {
				return err
			}
			m.AddType(decl)
		}
		for j := range mn.Services {
			svc, err := decodeService(mn.Path, &mn.Services[j])
			if err != nil {
				return err
			}
			m.AddService(svc)
		}
		doc.Modules = append(doc.Modules, m)
	}
	*d = doc
	return nil
}

// ParseDocument decodes an IR document from its JSON form.
// It only checks the JSON contract; call Validate for semantic checks.
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	return &doc, nil
}

// LoadDocument reads and decodes an IR document from a file.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	return ParseDocument(data)
}
