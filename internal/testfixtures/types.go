// Package testfixtures provides the reference schema used for testing the
// rawrgen packages and the runtime.
package testfixtures

import "github.com/broady/rawr/rawrgen/ir"

// Module paths of the reference schema.
const (
	ModuleModule      = "schemas::module"
	ModuleNested      = "schemas::module::nested_module"
	ModuleArrayLike   = "schemas::array_like"
	ModuleEnumeration = "schemas::enumeration"
	ModuleStructure   = "schemas::structure"
	ModuleResult      = "schemas::result"
	ModuleService     = "schemas::service"
	ModuleSubcrate    = "schemas_subcrate"
	ModuleCoreResult  = "core::result"
)

func imported() ir.TypeDescriptor {
	return ir.ExternalRef(ModuleModule, "ImportedStruct")
}

// EnumAdjacentlyTagged covers every variant payload shape under adjacent tagging.
func EnumAdjacentlyTagged() *ir.EnumDescriptor {
	return &ir.EnumDescriptor{
		Name:    "EnumAdjacentlyTagged",
		Tagging: ir.TaggingAdjacent,
		Variants: []ir.Variant{
			{Tag: "VariantA", Payload: ir.NoPayload()},
			{Tag: "VariantB", Payload: ir.UnitPayload()},
			{Tag: "VariantC", Payload: ir.SinglePayload(ir.Int(32))},
			{Tag: "VariantD", Payload: ir.SinglePayload(ir.Unit())},
			{Tag: "VariantE", Payload: ir.SinglePayload(imported())},
			{Tag: "VariantF", Payload: ir.SinglePayload(ir.Tuple(ir.Int(32), imported()))},
			{Tag: "VariantG", Payload: ir.TuplePayload(ir.Int(32), imported())},
			{Tag: "VariantH", Payload: ir.StructPayload()},
			{Tag: "VariantI", Payload: ir.StructPayload(
				ir.Field{Name: "a", Type: ir.Int(32)},
				ir.Field{Name: "b", Type: imported()},
			)},
		},
	}
}

// EnumExternallyTagged covers the external tagging shapes.
func EnumExternallyTagged() *ir.EnumDescriptor {
	return &ir.EnumDescriptor{
		Name:    "EnumExternallyTagged",
		Tagging: ir.TaggingExternal,
		Variants: []ir.Variant{
			{Tag: "Empty", Payload: ir.NoPayload()},
			{Tag: "Number", Payload: ir.SinglePayload(ir.Float(64))},
			{Tag: "Pair", Payload: ir.TuplePayload(ir.String(), ir.Bool())},
			{Tag: "Named", Payload: ir.StructPayload(ir.Field{Name: "label", Type: ir.String()})},
		},
	}
}

// Structure references types across modules and packages.
func Structure() *ir.StructDescriptor {
	return &ir.StructDescriptor{
		Name:          "Structure",
		Documentation: ir.Doc("Structure exercises cross-module references."),
		Fields: []ir.Field{
			{Name: "name", Type: ir.String()},
			{Name: "count", Type: ir.Int(32), Validate: "gte=0"},
			{Name: "is_active", Type: ir.Bool()},
			{Name: "imported", Type: imported()},
			{Name: "tuple", Type: ir.Tuple(ir.Char(), imported())},
			{Name: "nested_tuple", Type: ir.Tuple(ir.Char(), ir.Tuple(ir.Int(32), ir.ExternalRef(ModuleNested, "NestedModuleStruct")))},
			{Name: "crate_dependency", Type: ir.ExternalRef(ModuleSubcrate, "StructFromOtherCrate")},
			{Name: "array_like", Type: ir.ExternalRef(ModuleArrayLike, "ArrayLike")},
			{Name: "tuple_struct", Type: ir.ExternalRef(ModuleArrayLike, "TupleStruct")},
			{Name: "sequence", Type: ir.Sequence(ir.Sequence(ir.Uint(8)))},
		},
	}
}

// ResultEnum is the generic, externally tagged Result<T, E>.
func ResultEnum() *ir.EnumDescriptor {
	return &ir.EnumDescriptor{
		Name:       "Result",
		TypeParams: []string{"T", "E"},
		Tagging:    ir.TaggingExternal,
		Variants: []ir.Variant{
			{Tag: "Ok", Payload: ir.SinglePayload(ir.TypeParam("T"))},
			{Tag: "Err", Payload: ir.SinglePayload(ir.TypeParam("E"))},
		},
	}
}

// TestService is the reference service.
func TestService() ir.ServiceDescriptor {
	return ir.ServiceDescriptor{
		Name:          "Test",
		Documentation: ir.Doc("Test is the reference service."),
		Methods: []ir.Method{
			{
				Name:    "say_hello",
				Params:  []ir.Param{{Name: "name", Type: ir.String()}},
				Returns: ir.String(),
			},
			{
				Name: "complex",
				Params: []ir.Param{
					{Name: "arg", Type: ir.ExternalRef(ModuleStructure, "Structure")},
					{Name: "n", Type: ir.Int(32)},
				},
				Returns: ir.ExternalRef(ModuleStructure, "Structure"),
			},
			{
				Name:    "ping_enum",
				Params:  []ir.Param{{Name: "en", Type: ir.ExternalRef(ModuleEnumeration, "EnumAdjacentlyTagged")}},
				Returns: ir.ExternalRef(ModuleEnumeration, "EnumAdjacentlyTagged"),
			},
		},
	}
}

// Document returns a fresh copy of the reference schema.
func Document() *ir.Document {
	return &ir.Document{
		Packages: []ir.Package{
			{Name: "schemas", Dependencies: []string{"schemas_subcrate", "core"}},
			{Name: "schemas_subcrate"},
			{Name: "core"},
		},
		Modules: []ir.Module{
			{
				Path: ModuleModule,
				Types: []ir.Decl{
					&ir.StructDescriptor{Name: "ImportedStruct", Fields: []ir.Field{{Name: "value", Type: ir.String()}}},
				},
			},
			{
				Path: ModuleNested,
				Types: []ir.Decl{
					&ir.StructDescriptor{Name: "NestedModuleStruct", Fields: []ir.Field{
						{Name: "value", Type: ir.ExternalRef(ModuleEnumeration, "EnumAdjacentlyTagged")},
					}},
				},
			},
			{
				Path: ModuleArrayLike,
				Types: []ir.Decl{
					&ir.NewtypeStructDescriptor{Name: "ArrayLike", Element: ir.Sequence(ir.Int(32))},
					&ir.TupleStructDescriptor{Name: "TupleStruct", Elements: []ir.TypeDescriptor{ir.Int(32), ir.String()}},
					&ir.UnitStructDescriptor{Name: "Marker"},
				},
			},
			{
				Path:  ModuleEnumeration,
				Types: []ir.Decl{EnumAdjacentlyTagged(), EnumExternallyTagged()},
			},
			{
				Path:  ModuleStructure,
				Types: []ir.Decl{Structure()},
			},
			{
				Path: ModuleResult,
				Types: []ir.Decl{
					&ir.StructDescriptor{Name: "ResultsTest", TypeParams: []string{"T"}, Fields: []ir.Field{
						{Name: "a", Type: ir.Generic(ModuleCoreResult, "Result", ir.String(), ir.String())},
						{Name: "b", Type: ir.Generic(ModuleCoreResult, "Result", ir.Tuple(ir.String(), ir.String()), ir.Tuple(ir.Int(32), ir.Int(32)))},
						{Name: "c", Type: ir.Generic(ModuleCoreResult, "Result", ir.TypeParam("T"), ir.String())},
					}},
				},
			},
			{
				Path:     ModuleService,
				Services: []ir.ServiceDescriptor{TestService()},
			},
			{
				Path: ModuleSubcrate,
				Types: []ir.Decl{
					&ir.StructDescriptor{Name: "StructFromOtherCrate", Fields: []ir.Field{{Name: "value", Type: ir.Uint(32)}}},
				},
			},
			{
				Path:  ModuleCoreResult,
				Types: []ir.Decl{ResultEnum()},
			},
		},
	}
}
