package ir

// SequenceDescriptor represents a variable-length homogeneous list.
type SequenceDescriptor struct {
	exprBase

	// Element is the list element type.
	Element TypeDescriptor
}

// Kind returns KindSequence.
func (d *SequenceDescriptor) Kind() DescriptorKind { return KindSequence }

// Sequence returns a SequenceDescriptor.
func Sequence(element TypeDescriptor) *SequenceDescriptor {
	return &SequenceDescriptor{Element: element}
}

// TupleDescriptor represents an anonymous fixed-length heterogeneous list.
// It serializes as a JSON array of exactly len(Elements) items.
type TupleDescriptor struct {
	exprBase
	Elements []TypeDescriptor
}

// Kind returns KindTuple.
func (d *TupleDescriptor) Kind() DescriptorKind { return KindTuple }

// Tuple returns a TupleDescriptor.
func Tuple(elems ...TypeDescriptor) *TupleDescriptor {
	return &TupleDescriptor{Elements: elems}
}

// RefDescriptor references a declaration in the same module.
type RefDescriptor struct {
	exprBase

	// Name is the referenced declaration's name.
	Name string
}

// Kind returns KindRef.
func (d *RefDescriptor) Kind() DescriptorKind { return KindRef }

// Ref returns a RefDescriptor for a same-module declaration.
func Ref(name string) *RefDescriptor {
	return &RefDescriptor{Name: name}
}

// ExternalRefDescriptor is a weak reference to a declaration in another module.
// It must resolve through the SymbolTable; generators never widen an
// unresolved reference to an untyped value.
type ExternalRefDescriptor struct {
	exprBase

	// Module is the "::"-separated path of the declaring module.
	Module string

	// Name is the declaration's name within Module.
	Name string
}

// Kind returns KindExternalRef.
func (d *ExternalRefDescriptor) Kind() DescriptorKind { return KindExternalRef }

// ExternalRef returns an ExternalRefDescriptor.
func ExternalRef(module, name string) *ExternalRefDescriptor {
	return &ExternalRefDescriptor{Module: module, Name: name}
}

// GenericDescriptor instantiates a generic declaration with type arguments.
// Arguments propagate structurally; no specialization happens.
type GenericDescriptor struct {
	exprBase

	// Module is the declaring module. Empty means the current module.
	Module string

	// Name is the generic declaration's name.
	Name string

	// Args are the type arguments, one per declared type parameter.
	Args []TypeDescriptor
}

// Kind returns KindGeneric.
func (d *GenericDescriptor) Kind() DescriptorKind { return KindGeneric }

// Generic returns a GenericDescriptor.
func Generic(module, name string, args ...TypeDescriptor) *GenericDescriptor {
	return &GenericDescriptor{Module: module, Name: name, Args: args}
}

// TypeParameterDescriptor is a use of an enclosing declaration's type parameter.
type TypeParameterDescriptor struct {
	exprBase

	// ParamName is the parameter's name (e.g. "T").
	ParamName string
}

// Kind returns KindTypeParameter.
func (d *TypeParameterDescriptor) Kind() DescriptorKind { return KindTypeParameter }

// TypeParam returns a TypeParameterDescriptor.
func TypeParam(name string) *TypeParameterDescriptor {
	return &TypeParameterDescriptor{ParamName: name}
}
