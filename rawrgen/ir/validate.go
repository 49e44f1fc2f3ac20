package ir

import (
	"fmt"
	"slices"
)

// Validation error codes.
const (
	CodeInvalidSchema        = "invalid_schema"
	CodeUnresolvedReference  = "unresolved_reference"
	CodeDuplicateType        = "duplicate_type"
	CodeDuplicateTag         = "duplicate_tag"
	CodeDuplicateField       = "duplicate_field"
	CodeDuplicateMethod      = "duplicate_method"
	CodeDuplicateService     = "duplicate_service"
	CodeArityMismatch        = "arity_mismatch"
	CodeUnknownTypeParameter = "unknown_type_parameter"
	CodeUnsupportedShape     = "unsupported_shape"
)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Code string

	// Path locates the offending element, e.g. "schemas::enumeration.Enum.VariantF".
	Path    string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return e.Path + ": " + e.Message
}

// Module returns the module path prefix of Path.
func (e *ValidationError) Module() string {
	for i := 0; i < len(e.Path); i++ {
		if e.Path[i] == '.' {
			return e.Path[:i]
		}
	}
	return e.Path
}

// Validate checks the document for structural issues.
// Returns all validation errors found (not just the first).
func (d *Document) Validate() []error {
	return d.ValidateWith(NewSymbolTable(d))
}

// ValidateWith is Validate using a prebuilt symbol table.
func (d *Document) ValidateWith(syms *SymbolTable) []error {
	v := &checker{syms: syms}

	paths := make(map[string]bool)
	for i := range d.Modules {
		m := &d.Modules[i]
		if m.Path == "" {
			v.errorf(CodeInvalidSchema, "", "module with empty path")
			continue
		}
		if paths[m.Path] {
			v.errorf(CodeInvalidSchema, m.Path, "duplicate module")
		}
		paths[m.Path] = true
		v.module(m)
	}

	// Convert ValidationErrors to regular errors
	var result []error
	for _, e := range v.errs {
		result = append(result, e)
	}
	return result
}

type checker struct {
	syms *SymbolTable
	errs []*ValidationError
}

func (v *checker) errorf(code, path, format string, args ...any) {
	v.errs = append(v.errs, &ValidationError{Code: code, Path: path, Message: fmt.Sprintf(format, args...)})
}

func (v *checker) module(m *Module) {
	names := make(map[string]bool)
	for _, t := range m.Types {
		name := t.TypeName()
		path := m.Path + "." + name
		if name == "" {
			v.errorf(CodeInvalidSchema, m.Path, "declaration without a name")
			continue
		}
		if names[name] {
			v.errorf(CodeDuplicateType, path, "duplicate type name %s", name)
		}
		names[name] = true
		v.decl(m.Path, path, t)
	}

	services := make(map[string]bool)
	for _, svc := range m.Services {
		path := m.Path + "." + svc.Name
		if services[svc.Name] {
			v.errorf(CodeDuplicateService, path, "duplicate service name %s", svc.Name)
		}
		services[svc.Name] = true
		if names[svc.Name] {
			v.errorf(CodeDuplicateType, path, "service %s collides with a type of the same name", svc.Name)
		}

		methods := make(map[string]bool)
		for _, method := range svc.Methods {
			mpath := path + "." + method.Name
			if methods[method.Name] {
				v.errorf(CodeDuplicateMethod, mpath, "duplicate method name in service %s: %s", svc.Name, method.Name)
			}
			methods[method.Name] = true
			for i, p := range method.Params {
				v.expr(m.Path, fmt.Sprintf("%s(%s)", mpath, method.ParamName(i)), p.Type, nil)
			}
			if method.Returns != nil {
				v.expr(m.Path, mpath+"->", method.Returns, nil)
			}
		}
	}
}

func (v *checker) decl(module, path string, t Decl) {
	params := t.TypeParameters()
	seen := make(map[string]bool)
	for _, p := range params {
		if seen[p] {
			v.errorf(CodeInvalidSchema, path, "duplicate type parameter %s", p)
		}
		seen[p] = true
	}

	switch d := t.(type) {
	case *StructDescriptor:
		v.fields(module, path, d.Fields, params)
	case *TupleStructDescriptor:
		for i, e := range d.Elements {
			v.expr(module, fmt.Sprintf("%s.%d", path, i), e, params)
		}
	case *NewtypeStructDescriptor:
		if d.Element == nil {
			v.errorf(CodeInvalidSchema, path, "newtype without an element type")
			return
		}
		v.expr(module, path+".0", d.Element, params)
	case *UnitStructDescriptor:
	case *EnumDescriptor:
		if d.Tagging == TaggingAdjacent && d.Tag() == d.Content() {
			v.errorf(CodeInvalidSchema, path, "adjacent tag and content keys are both %q", d.Tag())
		}
		tags := make(map[string]bool)
		for _, variant := range d.Variants {
			vpath := path + "." + variant.Tag
			if tags[variant.Tag] {
				v.errorf(CodeDuplicateTag, vpath, "duplicate variant tag %s in enum %s", variant.Tag, d.Name)
			}
			tags[variant.Tag] = true
			v.payload(module, vpath, variant.Payload, params)
		}
	}
}

func (v *checker) payload(module, path string, p Payload, params []string) {
	switch p.Kind {
	case PayloadNone, PayloadUnit:
	case PayloadSingle:
		if p.Type == nil {
			v.errorf(CodeInvalidSchema, path, "single payload without a type")
			return
		}
		v.expr(module, path, p.Type, params)
	case PayloadTuple:
		for i, e := range p.Elements {
			v.expr(module, fmt.Sprintf("%s.%d", path, i), e, params)
		}
	case PayloadStruct:
		v.fields(module, path, p.Fields, params)
	}
}

func (v *checker) fields(module, path string, fields []Field, params []string) {
	names := make(map[string]bool)
	for _, f := range fields {
		fpath := path + "." + f.Name
		if names[f.Name] {
			v.errorf(CodeDuplicateField, fpath, "duplicate field %s", f.Name)
		}
		names[f.Name] = true
		if f.Type == nil {
			v.errorf(CodeInvalidSchema, fpath, "field without a type")
			continue
		}
		v.expr(module, fpath, f.Type, params)
	}
}

// expr recursively walks a type expression, checking that every reference
// resolves and every type parameter is declared.
func (v *checker) expr(module, path string, td TypeDescriptor, params []string) {
	if td == nil {
		v.errorf(CodeInvalidSchema, path, "missing type")
		return
	}

	switch d := td.(type) {
	case *PrimitiveDescriptor:
		// Primitives don't have references
	case *SequenceDescriptor:
		v.expr(module, path, d.Element, params)
	case *TupleDescriptor:
		for i, e := range d.Elements {
			v.expr(module, fmt.Sprintf("%s.%d", path, i), e, params)
		}
	case *RefDescriptor:
		v.ref(module, path, d, 0)
	case *ExternalRefDescriptor:
		v.ref(module, path, d, 0)
	case *GenericDescriptor:
		v.ref(module, path, d, len(d.Args))
		for _, a := range d.Args {
			v.expr(module, path, a, params)
		}
	case *TypeParameterDescriptor:
		if !slices.Contains(params, d.ParamName) {
			v.errorf(CodeUnknownTypeParameter, path, "unknown type parameter %s", d.ParamName)
		}
	default:
		if IsDecl(td) {
			v.errorf(CodeInvalidSchema, path, "declaration %s used as a type expression", td.TypeName())
		}
	}
}

func (v *checker) ref(module, path string, ref TypeDescriptor, args int) {
	sym, err := v.syms.Resolve(module, ref)
	if err != nil {
		if ve, ok := err.(*ValidationError); ok {
			ve.Path = path
			v.errs = append(v.errs, ve)
			return
		}
		v.errorf(CodeInvalidSchema, path, "%v", err)
		return
	}
	if want := len(sym.Decl.TypeParameters()); want != args {
		v.errorf(CodeArityMismatch, path, "%s::%s expects %d type arguments, got %d", sym.Module, sym.Decl.TypeName(), want, args)
	}
}
