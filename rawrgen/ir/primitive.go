package ir

import "fmt"

// PrimitiveKind identifies the category of a primitive type.
type PrimitiveKind int

const (
	PrimitiveUnit PrimitiveKind = iota // The "no data" value
	PrimitiveBool
	PrimitiveInt   // Signed integer (see BitSize)
	PrimitiveUint  // Unsigned integer (see BitSize)
	PrimitiveFloat // Floating point (see BitSize)
	PrimitiveChar  // A single unicode scalar, encoded as a one-character string
	PrimitiveString
)

// String returns the string representation of the primitive kind.
func (k PrimitiveKind) String() string {
	switch k {
	case PrimitiveUnit:
		return "Unit"
	case PrimitiveBool:
		return "Bool"
	case PrimitiveInt:
		return "Int"
	case PrimitiveUint:
		return "Uint"
	case PrimitiveFloat:
		return "Float"
	case PrimitiveChar:
		return "Char"
	case PrimitiveString:
		return "String"
	default:
		return "Unknown"
	}
}

// PrimitiveDescriptor represents a built-in primitive type.
type PrimitiveDescriptor struct {
	exprBase
	PrimitiveKind PrimitiveKind

	// BitSize specifies the size for numeric types (8, 16, 32, 64).
	// Ignored for non-numeric primitive kinds.
	BitSize int
}

// Kind returns KindPrimitive.
func (d *PrimitiveDescriptor) Kind() DescriptorKind { return KindPrimitive }

// Name returns the schema name of the primitive ("i32", "string", ...).
func (d *PrimitiveDescriptor) Name() string {
	switch d.PrimitiveKind {
	case PrimitiveUnit:
		return "unit"
	case PrimitiveBool:
		return "bool"
	case PrimitiveInt:
		return fmt.Sprintf("i%d", d.BitSize)
	case PrimitiveUint:
		return fmt.Sprintf("u%d", d.BitSize)
	case PrimitiveFloat:
		return fmt.Sprintf("f%d", d.BitSize)
	case PrimitiveChar:
		return "char"
	case PrimitiveString:
		return "string"
	default:
		return "unknown"
	}
}

var primitivesByName = map[string]PrimitiveDescriptor{
	"unit":   {PrimitiveKind: PrimitiveUnit},
	"bool":   {PrimitiveKind: PrimitiveBool},
	"i8":     {PrimitiveKind: PrimitiveInt, BitSize: 8},
	"i16":    {PrimitiveKind: PrimitiveInt, BitSize: 16},
	"i32":    {PrimitiveKind: PrimitiveInt, BitSize: 32},
	"i64":    {PrimitiveKind: PrimitiveInt, BitSize: 64},
	"u8":     {PrimitiveKind: PrimitiveUint, BitSize: 8},
	"u16":    {PrimitiveKind: PrimitiveUint, BitSize: 16},
	"u32":    {PrimitiveKind: PrimitiveUint, BitSize: 32},
	"u64":    {PrimitiveKind: PrimitiveUint, BitSize: 64},
	"f32":    {PrimitiveKind: PrimitiveFloat, BitSize: 32},
	"f64":    {PrimitiveKind: PrimitiveFloat, BitSize: 64},
	"char":   {PrimitiveKind: PrimitiveChar},
	"string": {PrimitiveKind: PrimitiveString},
}

// ParsePrimitive returns the primitive with the given schema name.
func ParsePrimitive(name string) (*PrimitiveDescriptor, bool) {
	p, ok := primitivesByName[name]
	if !ok {
		return nil, false
	}
	return &p, true
}

// Convenience constructors for common primitives.

// Unit returns a PrimitiveDescriptor for the unit value.
func Unit() *PrimitiveDescriptor {
	return &PrimitiveDescriptor{PrimitiveKind: PrimitiveUnit}
}

// Bool returns a PrimitiveDescriptor for bool.
func Bool() *PrimitiveDescriptor {
	return &PrimitiveDescriptor{PrimitiveKind: PrimitiveBool}
}

// String returns a PrimitiveDescriptor for string.
func String() *PrimitiveDescriptor {
	return &PrimitiveDescriptor{PrimitiveKind: PrimitiveString}
}

// Char returns a PrimitiveDescriptor for char.
func Char() *PrimitiveDescriptor {
	return &PrimitiveDescriptor{PrimitiveKind: PrimitiveChar}
}

// Int returns a PrimitiveDescriptor for a signed integer with the given bit size.
func Int(bitSize int) *PrimitiveDescriptor {
	return &PrimitiveDescriptor{PrimitiveKind: PrimitiveInt, BitSize: bitSize}
}

// Uint returns a PrimitiveDescriptor for an unsigned integer with the given bit size.
func Uint(bitSize int) *PrimitiveDescriptor {
	return &PrimitiveDescriptor{PrimitiveKind: PrimitiveUint, BitSize: bitSize}
}

// Float returns a PrimitiveDescriptor for a float with the given bit size.
func Float(bitSize int) *PrimitiveDescriptor {
	return &PrimitiveDescriptor{PrimitiveKind: PrimitiveFloat, BitSize: bitSize}
}
