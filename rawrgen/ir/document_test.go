package ir_test

import (
	"slices"
	"testing"

	"github.com/broady/rawr/rawrgen/ir"
)

func TestModule_Dependencies(t *testing.T) {
	tests := []struct {
		name string
		mod  ir.Module
		want []string
	}{
		{
			name: "local only",
			mod: ir.Module{Path: "a::b", Types: []ir.Decl{
				&ir.StructDescriptor{Name: "S", Fields: []ir.Field{{Name: "x", Type: ir.Ref("T")}}},
				&ir.NewtypeStructDescriptor{Name: "T", Element: ir.ExternalRef("a::b", "S")},
			}},
		},
		{
			name: "nested expressions",
			mod: ir.Module{Path: "a::b", Types: []ir.Decl{
				&ir.TupleStructDescriptor{Name: "T", Elements: []ir.TypeDescriptor{
					ir.Sequence(ir.Tuple(ir.ExternalRef("z", "X"), ir.ExternalRef("a::c", "Y"))),
				}},
				&ir.StructDescriptor{Name: "S", Fields: []ir.Field{
					{Name: "r", Type: ir.Generic("core::result", "Result", ir.ExternalRef("a::d", "E"), ir.Ref("T"))},
				}},
			}},
			want: []string{"a::c", "a::d", "core::result", "z"},
		},
		{
			name: "enum payloads",
			mod: ir.Module{Path: "a", Types: []ir.Decl{
				&ir.EnumDescriptor{Name: "E", Variants: []ir.Variant{
					{Tag: "none", Payload: ir.NoPayload()},
					{Tag: "one", Payload: ir.SinglePayload(ir.ExternalRef("b", "X"))},
					{Tag: "two", Payload: ir.TuplePayload(ir.ExternalRef("c", "X"), ir.ExternalRef("b", "Y"))},
					{Tag: "named", Payload: ir.StructPayload(ir.Field{Name: "f", Type: ir.ExternalRef("d", "X")})},
				}},
			}},
			want: []string{"b", "c", "d"},
		},
		{
			name: "service signatures",
			mod: ir.Module{Path: "a", Services: []ir.ServiceDescriptor{{
				Name: "S",
				Methods: []ir.Method{
					{Name: "get", Params: []ir.Param{{Name: "id", Type: ir.ExternalRef("b", "Id")}}, Returns: ir.ExternalRef("c", "Item")},
					{Name: "ping"},
				},
			}}},
			want: []string{"b", "c"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.mod.Dependencies()
			if !slices.Equal(got, tt.want) {
				t.Errorf("Dependencies() = %v, want %v", got, tt.want)
			}
		})
	}
}
