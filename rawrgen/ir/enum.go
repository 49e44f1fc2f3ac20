package ir

// Tagging selects how an enum variant is represented on the wire.
type Tagging int

const (
	// TaggingAdjacent encodes a variant as {<tag>: "Variant", <content>: payload}.
	TaggingAdjacent Tagging = iota

	// TaggingExternal encodes a variant as {"Variant": payload}, or as the bare
	// string "Variant" when the variant carries no payload.
	TaggingExternal
)

// Default adjacent tagging keys.
const (
	DefaultTagKey     = "type"
	DefaultContentKey = "data"
)

// String returns the schema name of the tagging mode.
func (t Tagging) String() string {
	switch t {
	case TaggingAdjacent:
		return "adjacent"
	case TaggingExternal:
		return "external"
	default:
		return "unknown"
	}
}

// EnumDescriptor represents a tagged union.
type EnumDescriptor struct {
	// Name is the type identifier, unique within its module.
	Name string

	// TypeParams contains generic type parameter names.
	TypeParams []string

	// Tagging is the wire representation of the variants.
	Tagging Tagging

	// TagKey and ContentKey name the adjacent tagging properties.
	// Empty means DefaultTagKey / DefaultContentKey.
	TagKey     string
	ContentKey string

	// Variants contains all variants, in declaration order.
	Variants []Variant

	// Documentation for this type.
	Documentation Documentation
}

// Kind returns KindEnum.
func (d *EnumDescriptor) Kind() DescriptorKind { return KindEnum }

// TypeName returns the enum's name.
func (d *EnumDescriptor) TypeName() string { return d.Name }

// Doc returns the enum's documentation.
func (d *EnumDescriptor) Doc() Documentation { return d.Documentation }

// TypeParameters returns the enum's generic parameters.
func (d *EnumDescriptor) TypeParameters() []string { return d.TypeParams }

func (*EnumDescriptor) sealed() {}

// Tag returns the adjacent tag key, applying the default.
func (d *EnumDescriptor) Tag() string {
	if d.TagKey == "" {
		return DefaultTagKey
	}
	return d.TagKey
}

// Content returns the adjacent content key, applying the default.
func (d *EnumDescriptor) Content() string {
	if d.ContentKey == "" {
		return DefaultContentKey
	}
	return d.ContentKey
}

// Variant is one alternative of an enum.
type Variant struct {
	// Tag is the variant name written to the wire.
	Tag string

	// Payload describes the data carried by the variant.
	Payload Payload

	// Documentation for this variant.
	Documentation Documentation
}

// PayloadKind identifies the shape of a variant payload.
type PayloadKind int

const (
	PayloadNone   PayloadKind = iota // No content at all
	PayloadUnit                      // Empty positional payload, encoded as []
	PayloadSingle                    // Exactly one value, encoded as that value
	PayloadTuple                     // Several positional values, encoded as an array
	PayloadStruct                    // Named fields, encoded as an object
)

// String returns the schema name of the payload kind.
func (k PayloadKind) String() string {
	switch k {
	case PayloadNone:
		return "none"
	case PayloadUnit:
		return "unit"
	case PayloadSingle:
		return "single"
	case PayloadTuple:
		return "tuple"
	case PayloadStruct:
		return "struct"
	default:
		return "unknown"
	}
}

// Payload is the data carried by a variant. Which fields are set depends on Kind.
type Payload struct {
	Kind PayloadKind

	// Type is set for PayloadSingle.
	Type TypeDescriptor

	// Elements is set for PayloadTuple.
	Elements []TypeDescriptor

	// Fields is set for PayloadStruct.
	Fields []Field
}

// NoPayload returns a variant payload with no content.
func NoPayload() Payload { return Payload{Kind: PayloadNone} }

// UnitPayload returns an empty positional payload.
func UnitPayload() Payload { return Payload{Kind: PayloadUnit} }

// SinglePayload returns a payload carrying exactly one value.
func SinglePayload(t TypeDescriptor) Payload { return Payload{Kind: PayloadSingle, Type: t} }

// TuplePayload returns a positional payload.
func TuplePayload(elems ...TypeDescriptor) Payload {
	return Payload{Kind: PayloadTuple, Elements: elems}
}

// StructPayload returns a payload with named fields.
func StructPayload(fields ...Field) Payload { return Payload{Kind: PayloadStruct, Fields: fields} }
