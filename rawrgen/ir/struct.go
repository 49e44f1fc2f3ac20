package ir

// StructDescriptor represents a product type with named fields.
type StructDescriptor struct {
	// Name is the type identifier, unique within its module.
	Name string

	// TypeParams contains generic type parameter names.
	TypeParams []string

	// Fields contains all struct fields, in declaration order.
	Fields []Field

	// Documentation for this type.
	Documentation Documentation
}

// Kind returns KindStruct.
func (d *StructDescriptor) Kind() DescriptorKind { return KindStruct }

// TypeName returns the struct's name.
func (d *StructDescriptor) TypeName() string { return d.Name }

// Doc returns the struct's documentation.
func (d *StructDescriptor) Doc() Documentation { return d.Documentation }

// TypeParameters returns the struct's generic parameters.
func (d *StructDescriptor) TypeParameters() []string { return d.TypeParams }

func (*StructDescriptor) sealed() {}

// Field represents a single named field within a struct or struct-like variant.
type Field struct {
	// Name is the serialized property name.
	Name string

	// Type is the field's type descriptor.
	Type TypeDescriptor

	// Validate is a go-playground/validator rule string carried into targets
	// that support it. Example: "required,min=1".
	Validate string

	// Documentation for this field.
	Documentation Documentation
}

// TupleStructDescriptor represents a product type with positional fields.
// It serializes as a fixed-length ordered sequence.
type TupleStructDescriptor struct {
	Name          string
	TypeParams    []string
	Elements      []TypeDescriptor
	Documentation Documentation
}

// Kind returns KindTupleStruct.
func (d *TupleStructDescriptor) Kind() DescriptorKind { return KindTupleStruct }

// TypeName returns the tuple struct's name.
func (d *TupleStructDescriptor) TypeName() string { return d.Name }

// Doc returns the tuple struct's documentation.
func (d *TupleStructDescriptor) Doc() Documentation { return d.Documentation }

// TypeParameters returns the tuple struct's generic parameters.
func (d *TupleStructDescriptor) TypeParameters() []string { return d.TypeParams }

func (*TupleStructDescriptor) sealed() {}

// NewtypeStructDescriptor wraps exactly one value and serializes as that value.
type NewtypeStructDescriptor struct {
	Name          string
	TypeParams    []string
	Element       TypeDescriptor
	Documentation Documentation
}

// Kind returns KindNewtypeStruct.
func (d *NewtypeStructDescriptor) Kind() DescriptorKind { return KindNewtypeStruct }

// TypeName returns the newtype's name.
func (d *NewtypeStructDescriptor) TypeName() string { return d.Name }

// Doc returns the newtype's documentation.
func (d *NewtypeStructDescriptor) Doc() Documentation { return d.Documentation }

// TypeParameters returns the newtype's generic parameters.
func (d *NewtypeStructDescriptor) TypeParameters() []string { return d.TypeParams }

func (*NewtypeStructDescriptor) sealed() {}

// UnitStructDescriptor carries no data. It serializes as the canonical
// "no data" value, which is distinct from an empty struct.
type UnitStructDescriptor struct {
	Name          string
	Documentation Documentation
}

// Kind returns KindUnitStruct.
func (d *UnitStructDescriptor) Kind() DescriptorKind { return KindUnitStruct }

// TypeName returns the unit struct's name.
func (d *UnitStructDescriptor) TypeName() string { return d.Name }

// Doc returns the unit struct's documentation.
func (d *UnitStructDescriptor) Doc() Documentation { return d.Documentation }

// TypeParameters always returns nil; unit structs cannot be generic.
func (d *UnitStructDescriptor) TypeParameters() []string { return nil }

func (*UnitStructDescriptor) sealed() {}
