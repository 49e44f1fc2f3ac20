package ir

import "encoding/json"

// JSON serialization support for IR types.
// All type nodes include a "kind" field for type discrimination.

// MarshalJSON implements json.Marshaler for StructDescriptor.
func (d *StructDescriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind       string   `json:"kind"`
		Name       string   `json:"name"`
		TypeParams []string `json:"typeParams,omitempty"`
		Fields     []Field  `json:"fields"`
		Doc        string   `json:"doc,omitempty"`
	}{
		Kind:       "struct",
		Name:       d.Name,
		TypeParams: d.TypeParams,
		Fields:     d.Fields,
		Doc:        d.Documentation.Body,
	})
}

// MarshalJSON implements json.Marshaler for TupleStructDescriptor.
func (d *TupleStructDescriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind       string           `json:"kind"`
		Name       string           `json:"name"`
		TypeParams []string         `json:"typeParams,omitempty"`
		Elements   []TypeDescriptor `json:"elements"`
		Doc        string           `json:"doc,omitempty"`
	}{
		Kind:       "tupleStruct",
		Name:       d.Name,
		TypeParams: d.TypeParams,
		Elements:   d.Elements,
		Doc:        d.Documentation.Body,
	})
}

// MarshalJSON implements json.Marshaler for NewtypeStructDescriptor.
func (d *NewtypeStructDescriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind       string         `json:"kind"`
		Name       string         `json:"name"`
		TypeParams []string       `json:"typeParams,omitempty"`
		Element    TypeDescriptor `json:"element"`
		Doc        string         `json:"doc,omitempty"`
	}{
		Kind:       "newtypeStruct",
		Name:       d.Name,
		TypeParams: d.TypeParams,
		Element:    d.Element,
		Doc:        d.Documentation.Body,
	})
}

// MarshalJSON implements json.Marshaler for UnitStructDescriptor.
func (d *UnitStructDescriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind string `json:"kind"`
		Name string `json:"name"`
		Doc  string `json:"doc,omitempty"`
	}{
		Kind: "unitStruct",
		Name: d.Name,
		Doc:  d.Documentation.Body,
	})
}

// MarshalJSON implements json.Marshaler for EnumDescriptor.
func (d *EnumDescriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind       string    `json:"kind"`
		Name       string    `json:"name"`
		TypeParams []string  `json:"typeParams,omitempty"`
		Tagging    string    `json:"tagging"`
		Tag        string    `json:"tag,omitempty"`
		Content    string    `json:"content,omitempty"`
		Variants   []Variant `json:"variants"`
		Doc        string    `json:"doc,omitempty"`
	}{
		Kind:       "enum",
		Name:       d.Name,
		TypeParams: d.TypeParams,
		Tagging:    d.Tagging.String(),
		Tag:        d.TagKey,
		Content:    d.ContentKey,
		Variants:   d.Variants,
		Doc:        d.Documentation.Body,
	})
}

// MarshalJSON implements json.Marshaler for PrimitiveDescriptor.
func (d *PrimitiveDescriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind string `json:"kind"`
		Name string `json:"name"`
	}{
		Kind: "primitive",
		Name: d.Name(),
	})
}

// MarshalJSON implements json.Marshaler for SequenceDescriptor.
func (d *SequenceDescriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind    string         `json:"kind"`
		Element TypeDescriptor `json:"element"`
	}{
		Kind:    "sequence",
		Element: d.Element,
	})
}

// MarshalJSON implements json.Marshaler for TupleDescriptor.
func (d *TupleDescriptor) MarshalJSON() ([]byte, error) {
	elems := d.Elements
	if elems == nil {
		elems = []TypeDescriptor{}
	}
	return json.Marshal(&struct {
		Kind     string           `json:"kind"`
		Elements []TypeDescriptor `json:"elements"`
	}{
		Kind:     "tuple",
		Elements: elems,
	})
}

// MarshalJSON implements json.Marshaler for RefDescriptor.
func (d *RefDescriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind string `json:"kind"`
		Name string `json:"name"`
	}{
		Kind: "ref",
		Name: d.Name,
	})
}

// MarshalJSON implements json.Marshaler for ExternalRefDescriptor.
func (d *ExternalRefDescriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind   string `json:"kind"`
		Module string `json:"module"`
		Name   string `json:"name"`
	}{
		Kind:   "externalRef",
		Module: d.Module,
		Name:   d.Name,
	})
}

// MarshalJSON implements json.Marshaler for GenericDescriptor.
func (d *GenericDescriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind   string           `json:"kind"`
		Module string           `json:"module,omitempty"`
		Name   string           `json:"name"`
		Args   []TypeDescriptor `json:"args"`
	}{
		Kind:   "generic",
		Module: d.Module,
		Name:   d.Name,
		Args:   d.Args,
	})
}

// MarshalJSON implements json.Marshaler for TypeParameterDescriptor.
func (d *TypeParameterDescriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind string `json:"kind"`
		Name string `json:"name"`
	}{
		Kind: "typeParam",
		Name: d.ParamName,
	})
}

// MarshalJSON implements json.Marshaler for Field.
func (f Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Name     string         `json:"name"`
		Type     TypeDescriptor `json:"type"`
		Validate string         `json:"validate,omitempty"`
		Doc      string         `json:"doc,omitempty"`
	}{
		Name:     f.Name,
		Type:     f.Type,
		Validate: f.Validate,
		Doc:      f.Documentation.Body,
	})
}

// MarshalJSON implements json.Marshaler for Variant.
func (v Variant) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Tag     string  `json:"tag"`
		Payload Payload `json:"payload"`
		Doc     string  `json:"doc,omitempty"`
	}{
		Tag:     v.Tag,
		Payload: v.Payload,
		Doc:     v.Documentation.Body,
	})
}

// MarshalJSON implements json.Marshaler for Payload.
func (p Payload) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind     string           `json:"kind"`
		Type     TypeDescriptor   `json:"type,omitempty"`
		Elements []TypeDescriptor `json:"elements,omitempty"`
		Fields   []Field          `json:"fields,omitempty"`
	}{
		Kind:     p.Kind.String(),
		Type:     p.Type,
		Elements: p.Elements,
		Fields:   p.Fields,
	})
}

// MarshalJSON implements json.Marshaler for ServiceDescriptor.
func (s ServiceDescriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Name    string   `json:"name"`
		Methods []Method `json:"methods"`
		Doc     string   `json:"doc,omitempty"`
	}{
		Name:    s.Name,
		Methods: s.Methods,
		Doc:     s.Documentation.Body,
	})
}

// MarshalJSON implements json.Marshaler for Method.
func (m Method) MarshalJSON() ([]byte, error) {
	params := m.Params
	if params == nil {
		params = []Param{}
	}
	return json.Marshal(&struct {
		Name    string         `json:"name"`
		Params  []Param        `json:"params"`
		Returns TypeDescriptor `json:"returns,omitempty"`
		Doc     string         `json:"doc,omitempty"`
	}{
		Name:    m.Name,
		Params:  params,
		Returns: m.Returns,
		Doc:     m.Documentation.Body,
	})
}

// MarshalJSON implements json.Marshaler for Param.
func (p Param) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Name string         `json:"name,omitempty"`
		Type TypeDescriptor `json:"type"`
	}{
		Name: p.Name,
		Type: p.Type,
	})
}

// MarshalJSON implements json.Marshaler for Module.
func (m Module) MarshalJSON() ([]byte, error) {
	types := m.Types
	if types == nil {
		types = []Decl{}
	}
	return json.Marshal(&struct {
		Path     string              `json:"path"`
		Types    []Decl              `json:"types"`
		Services []ServiceDescriptor `json:"services,omitempty"`
		Doc      string              `json:"doc,omitempty"`
	}{
		Path:     m.Path,
		Types:    types,
		Services: m.Services,
		Doc:      m.Documentation.Body,
	})
}

// MarshalJSON implements json.Marshaler for Package.
func (p Package) MarshalJSON() ([]byte, error) {
	deps := p.Dependencies
	if deps == nil {
		deps = []string{}
	}
	return json.Marshal(&struct {
		Name         string   `json:"name"`
		Dependencies []string `json:"dependencies"`
	}{
		Name:         p.Name,
		Dependencies: deps,
	})
}

// MarshalJSON implements json.Marshaler for Document.
func (d *Document) MarshalJSON() ([]byte, error) {
	pkgs := d.Packages
	if pkgs == nil {
		pkgs = []Package{}
	}
	mods := d.Modules
	if mods == nil {
		mods = []Module{}
	}
	return json.Marshal(&struct {
		Packages []Package `json:"packages"`
		Modules  []Module  `json:"modules"`
	}{
		Packages: pkgs,
		Modules:  mods,
	})
}
