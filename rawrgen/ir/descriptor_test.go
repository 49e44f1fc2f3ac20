package ir

import "testing"

func TestDescriptorKind_String(t *testing.T) {
	tests := []struct {
		kind DescriptorKind
		want string
	}{
		{KindStruct, "Struct"},
		{KindTupleStruct, "TupleStruct"},
		{KindNewtypeStruct, "NewtypeStruct"},
		{KindUnitStruct, "UnitStruct"},
		{KindEnum, "Enum"},
		{KindPrimitive, "Primitive"},
		{KindSequence, "Sequence"},
		{KindTuple, "Tuple"},
		{KindRef, "Ref"},
		{KindExternalRef, "ExternalRef"},
		{KindGeneric, "Generic"},
		{KindTypeParameter, "TypeParameter"},
		{DescriptorKind(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("DescriptorKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestExpressionDescriptors_HaveNoName(t *testing.T) {
	exprs := []TypeDescriptor{
		String(),
		Sequence(String()),
		Tuple(Int(32)),
		Ref("X"),
		ExternalRef("a::b", "X"),
		Generic("", "X", String()),
		TypeParam("T"),
	}
	for _, e := range exprs {
		if e.TypeName() != "" {
			t.Errorf("%s.TypeName() = %q, want empty", e.Kind(), e.TypeName())
		}
		if !e.Doc().IsZero() {
			t.Errorf("%s.Doc() should be zero", e.Kind())
		}
		if IsDecl(e) {
			t.Errorf("%s should not be a declaration", e.Kind())
		}
	}
}

func TestDecls(t *testing.T) {
	decls := []Decl{
		&StructDescriptor{Name: "S", TypeParams: []string{"T"}},
		&TupleStructDescriptor{Name: "TS"},
		&NewtypeStructDescriptor{Name: "N", Element: String()},
		&UnitStructDescriptor{Name: "U"},
		&EnumDescriptor{Name: "E"},
	}
	wantNames := []string{"S", "TS", "N", "U", "E"}
	for i, d := range decls {
		if d.TypeName() != wantNames[i] {
			t.Errorf("TypeName() = %q, want %q", d.TypeName(), wantNames[i])
		}
	}
	if got := decls[0].TypeParameters(); len(got) != 1 || got[0] != "T" {
		t.Errorf("TypeParameters() = %v, want [T]", got)
	}
	if decls[3].TypeParameters() != nil {
		t.Error("unit struct should have no type parameters")
	}
}

func TestEnumDescriptor_Keys(t *testing.T) {
	e := &EnumDescriptor{Name: "E"}
	if e.Tag() != "type" || e.Content() != "data" {
		t.Errorf("default keys = %q/%q, want type/data", e.Tag(), e.Content())
	}
	e.TagKey, e.ContentKey = "t", "c"
	if e.Tag() != "t" || e.Content() != "c" {
		t.Errorf("custom keys = %q/%q, want t/c", e.Tag(), e.Content())
	}
}

func TestPrimitive_Name(t *testing.T) {
	for _, name := range []string{"unit", "bool", "i8", "i16", "i32", "i64", "u8", "u16", "u32", "u64", "f32", "f64", "char", "string"} {
		p, ok := ParsePrimitive(name)
		if !ok {
			t.Fatalf("ParsePrimitive(%q) failed", name)
		}
		if p.Name() != name {
			t.Errorf("ParsePrimitive(%q).Name() = %q", name, p.Name())
		}
	}
	if _, ok := ParsePrimitive("i128"); ok {
		t.Error("ParsePrimitive(i128) should fail")
	}
}

func TestDoc(t *testing.T) {
	d := Doc("  First line.\nSecond line.  ")
	if d.Summary != "First line." {
		t.Errorf("Summary = %q", d.Summary)
	}
	if d.Body != "First line.\nSecond line." {
		t.Errorf("Body = %q", d.Body)
	}
	if !Doc("   ").IsZero() {
		t.Error("blank doc should be zero")
	}
}

func TestMethod_Defaults(t *testing.T) {
	m := Method{Name: "m", Params: []Param{{Type: String()}, {Name: "named", Type: String()}}}
	if got := m.ParamName(0); got != "arg0" {
		t.Errorf("ParamName(0) = %q, want arg0", got)
	}
	if got := m.ParamName(1); got != "named" {
		t.Errorf("ParamName(1) = %q, want named", got)
	}
	if p, ok := m.Result().(*PrimitiveDescriptor); !ok || p.PrimitiveKind != PrimitiveUnit {
		t.Errorf("Result() = %v, want unit", m.Result())
	}
}
