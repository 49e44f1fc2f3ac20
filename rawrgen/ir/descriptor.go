package ir

// DescriptorKind identifies the category of a type descriptor.
type DescriptorKind int

const (
	// Named type descriptors (appear in Module.Types)
	KindStruct        DescriptorKind = iota // Product type with named fields
	KindTupleStruct                         // Product type with positional fields
	KindNewtypeStruct                       // Single positional field, serialized as the inner value
	KindUnitStruct                          // No data at all
	KindEnum                                // Tagged union of variants

	// Expression type descriptors (appear nested in fields/types)
	KindPrimitive     // Built-in primitive type
	KindSequence      // Variable-length homogeneous list
	KindTuple         // Anonymous fixed-length heterogeneous list
	KindRef           // Reference to a declaration in the same module
	KindExternalRef   // Reference to a declaration in another module
	KindGeneric       // Instantiation of a generic declaration
	KindTypeParameter // Use of an enclosing declaration's type parameter
)

// String returns the string representation of the descriptor kind.
func (k DescriptorKind) String() string {
	switch k {
	case KindStruct:
		return "Struct"
	case KindTupleStruct:
		return "TupleStruct"
	case KindNewtypeStruct:
		return "NewtypeStruct"
	case KindUnitStruct:
		return "UnitStruct"
	case KindEnum:
		return "Enum"
	case KindPrimitive:
		return "Primitive"
	case KindSequence:
		return "Sequence"
	case KindTuple:
		return "Tuple"
	case KindRef:
		return "Ref"
	case KindExternalRef:
		return "ExternalRef"
	case KindGeneric:
		return "Generic"
	case KindTypeParameter:
		return "TypeParameter"
	default:
		return "Unknown"
	}
}

// TypeDescriptor is the base interface for all type descriptors.
type TypeDescriptor interface {
	// Kind returns the descriptor kind for type switching.
	Kind() DescriptorKind

	// TypeName returns the declared name of this type.
	// Returns "" for expression types (primitives, sequences, etc).
	TypeName() string

	// Doc returns associated documentation comments.
	// Returns zero value for expression types.
	Doc() Documentation

	// Ensure only types in this package can implement TypeDescriptor.
	sealed()
}

// Decl is a named type declaration that lives at module top level.
type Decl interface {
	TypeDescriptor

	// TypeParameters returns the names of the declaration's generic parameters,
	// in declaration order. Nil for non-generic declarations.
	TypeParameters() []string
}

// exprBase provides zero-value implementations of TypeDescriptor methods
// for expression type descriptors that don't have names or docs.
type exprBase struct{}

func (exprBase) TypeName() string   { return "" }
func (exprBase) Doc() Documentation { return Documentation{} }
func (exprBase) sealed()            {}

// IsDecl reports whether the descriptor is a named declaration.
func IsDecl(t TypeDescriptor) bool {
	_, ok := t.(Decl)
	return ok
}
