package golang

import (
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/broady/rawr/internal/testfixtures"
	"github.com/broady/rawr/rawrgen/ir"
	"github.com/broady/rawr/rawrgen/sink"
)

const importRoot = "example.com/gen"

func generate(t *testing.T, doc *ir.Document, cfg Config, module string) map[string]string {
	t.Helper()
	if cfg.ImportRoot == "" {
		cfg.ImportRoot = importRoot
	}
	g := New(ir.NewSymbolTable(doc), cfg)
	m := doc.FindModule(module)
	if m == nil {
		t.Fatalf("no module %s", module)
	}
	files, err := g.Module(m)
	if err != nil {
		t.Fatalf("Module(%s): %v", module, err)
	}
	out := make(map[string]string, len(files))
	for _, f := range files {
		out[f.Path] = string(f.Content)
	}
	return out
}

var blanks = regexp.MustCompile(`[ \t]+`)

// squash collapses gofmt alignment so expectations can be written with
// single spaces.
func squash(s string) string {
	return blanks.ReplaceAllString(s, " ")
}

func assertContains(t *testing.T, got string, wants ...string) {
	t.Helper()
	flat := squash(got)
	for _, want := range wants {
		if !strings.Contains(flat, squash(want)) {
			t.Errorf("missing:\n%s\n\nin:\n%s", want, got)
		}
	}
}

func TestModule_Structure(t *testing.T) {
	files := generate(t, testfixtures.Document(), Config{}, testfixtures.ModuleStructure)
	got, ok := files["schemas/structure/types.go"]
	if !ok {
		t.Fatalf("no types.go, got %v", files)
	}
	if !strings.HasPrefix(got, "// "+sink.GeneratedMarker+"\n\npackage structure\n") {
		t.Errorf("header:\n%s", got)
	}
	assertContains(t, got,
		`"example.com/gen/schemas/array_like"`,
		`"example.com/gen/schemas/module"`,
		`"example.com/gen/schemas/module/nested_module"`,
		`"example.com/gen/schemas_subcrate"`,
		`"github.com/broady/rawr/wire"`,
		"type Structure struct {\n",
		"Name string `json:\"name\"`\n",
		"Count int32 `json:\"count\" validate:\"gte=0\"`\n",
		"IsActive bool `json:\"is_active\"`\n",
		"Imported module.ImportedStruct `json:\"imported\"`\n",
		"Tuple wire.Tuple2[string, module.ImportedStruct] `json:\"tuple\"`\n",
		"NestedTuple wire.Tuple2[string, wire.Tuple2[int32, nested_module.NestedModuleStruct]] `json:\"nested_tuple\"`\n",
		"CrateDependency schemas_subcrate.StructFromOtherCrate `json:\"crate_dependency\"`\n",
		"ArrayLike array_like.ArrayLike `json:\"array_like\"`\n",
		"Sequence [][]uint8 `json:\"sequence\"`\n",
	)
	if strings.Contains(got, "exercises cross-module") {
		t.Error("comments emitted without EmitComments")
	}
}

func TestModule_Comments(t *testing.T) {
	files := generate(t, testfixtures.Document(), Config{EmitComments: true}, testfixtures.ModuleStructure)
	assertContains(t, files["schemas/structure/types.go"],
		"// Structure exercises cross-module references.\ntype Structure struct {")
}

func TestModule_ArrayLike(t *testing.T) {
	files := generate(t, testfixtures.Document(), Config{}, testfixtures.ModuleArrayLike)
	assertContains(t, files["schemas/array_like/types.go"],
		"package array_like\n",
		"type ArrayLike = []int32\n",
		"type TupleStruct = wire.Tuple2[int32, string]\n",
		"type Marker = wire.Unit\n",
	)
}

func TestModule_Enumeration(t *testing.T) {
	files := generate(t, testfixtures.Document(), Config{}, testfixtures.ModuleEnumeration)
	got := files["schemas/enumeration/types.go"]
	assertContains(t, got,
		`"fmt"`,
		"type EnumAdjacentlyTagged struct {\n\tValue EnumAdjacentlyTaggedVariant\n}",
		"type EnumAdjacentlyTaggedVariant interface {\n\tisEnumAdjacentlyTagged()\n}",
		"type EnumAdjacentlyTaggedVariantA struct{}\n",
		"func (EnumAdjacentlyTaggedVariantA) isEnumAdjacentlyTagged() {}\n",
		"type EnumAdjacentlyTaggedVariantC struct {\n\tValue int32\n}",
		"type EnumAdjacentlyTaggedVariantF struct {\n\tValue wire.Tuple2[int32, module.ImportedStruct]\n}",
		"type EnumAdjacentlyTaggedVariantG struct {\n\tV0 int32\n\tV1 module.ImportedStruct\n}",
		"A int32 `json:\"a\"`\n",

		"case EnumAdjacentlyTaggedVariantA:\n\t\treturn wire.MarshalAdjacent(\"type\", \"data\", \"VariantA\", nil, false)",
		"case EnumAdjacentlyTaggedVariantB:\n\t\treturn wire.MarshalAdjacent(\"type\", \"data\", \"VariantB\", wire.Empty{}, true)",
		"case EnumAdjacentlyTaggedVariantG:\n\t\treturn wire.MarshalAdjacent(\"type\", \"data\", \"VariantG\", []any{v.V0, v.V1}, true)",
		`return nil, fmt.Errorf("EnumAdjacentlyTagged: no variant set")`,

		"tag, content, err := wire.UnmarshalAdjacent(data, \"type\", \"data\")",
		"case \"VariantA\":\n\t\te.Value = EnumAdjacentlyTaggedVariantA{}",
		"if err := wire.DecodeTupleContent(content, &v.V0, &v.V1); err != nil {",
		`return fmt.Errorf("EnumAdjacentlyTagged.VariantG: %w", err)`,
		`return wire.UnknownTag("EnumAdjacentlyTagged", tag)`,

		"case EnumExternallyTaggedEmpty:\n\t\treturn wire.MarshalExternal(\"Empty\", nil, false)",
		"case EnumExternallyTaggedNamed:\n\t\treturn wire.MarshalExternal(\"Named\", v, true)",
		"tag, content, err := wire.UnmarshalExternal(data)",
	)
}

func TestModule_GenericsAcrossPackages(t *testing.T) {
	doc := testfixtures.Document()

	files := generate(t, doc, Config{}, testfixtures.ModuleCoreResult)
	assertContains(t, files["core/result/types.go"],
		"type Result[T, E any] struct {\n\tValue ResultVariant[T, E]\n}",
		"type ResultOk[T, E any] struct {\n\tValue T\n}",
		"func (ResultErr[T, E]) isResult() {}",
		"func (e Result[T, E]) MarshalJSON() ([]byte, error) {",
		"func (e *Result[T, E]) UnmarshalJSON(data []byte) error {",
		"case ResultOk[T, E]:",
		"var v ResultErr[T, E]",
	)

	// Both packages are named result; the import falls back to its full path.
	files = generate(t, doc, Config{}, testfixtures.ModuleResult)
	assertContains(t, files["schemas/result/types.go"],
		"package result\n",
		`core_result "example.com/gen/core/result"`,
		"type ResultsTest[T any] struct {",
		"A core_result.Result[string, string] `json:\"a\"`",
		"B core_result.Result[wire.Tuple2[string, string], wire.Tuple2[int32, int32]] `json:\"b\"`",
		"C core_result.Result[T, string] `json:\"c\"`",
	)
}

func TestService_Wrap(t *testing.T) {
	files := generate(t, testfixtures.Document(), Config{}, testfixtures.ModuleService)
	got, ok := files["schemas/service/test_rpc.go"]
	if !ok {
		t.Fatalf("no service file, got %v", files)
	}
	if _, ok := files["schemas/service/types.go"]; ok {
		t.Error("service-only module should not produce types.go")
	}
	assertContains(t, got,
		"package service\n",
		`"context"`,
		`"github.com/broady/rawr"`,
		`"example.com/gen/schemas/structure"`,
		`TestSayHelloMethod = "say_hello"`,
		`TestPingEnumMethod = "ping_enum"`,
		"TestSayHelloRequest = wire.Tuple1[string]",
		"TestComplexRequest = wire.Tuple2[structure.Structure, int32]",
		"TestComplexResponse = structure.Structure",
		"type TestService interface {",
		"SayHello(ctx context.Context, name string) (string, error)",
		"Complex(ctx context.Context, arg structure.Structure, n int32) (structure.Structure, error)",
		"PingEnum(ctx context.Context, en enumeration.EnumAdjacentlyTagged) (enumeration.EnumAdjacentlyTagged, error)",
		"var _ TestService = (*TestClient)(nil)",
		"func NewTestClient(caller rawr.Caller) *TestClient {",
		"err := rawr.Invoke(ctx, c.caller, TestSayHelloMethod, TestSayHelloRequest{V0: name}, &res)",
		"err := rawr.Invoke(ctx, c.caller, TestComplexMethod, TestComplexRequest{V0: arg, V1: n}, &res)",
		"func NewTestServer(impl TestService, opts ...rawr.ServerOption) *rawr.Server {",
		`return rawr.NewServer("Test", func(ctx context.Context, call *rawr.Call) (any, error) {`,
		"case TestComplexMethod:\n\t\t\tvar req TestComplexRequest",
		"return impl.Complex(ctx, req.V0, req.V1)",
		"return nil, rawr.UnknownMethod(call)",
	)
	if strings.Contains(got, "PolicyPropagate") {
		t.Error("wrap server should not set the propagate policy")
	}
}

func TestService_Propagate(t *testing.T) {
	files := generate(t, testfixtures.Document(), Config{Policy: PolicyPropagate, RuntimeModule: "example.com/rt"}, testfixtures.ModuleService)
	assertContains(t, files["schemas/service/test_rpc.go"],
		`rawr "example.com/rt"`,
		"opts = append([]rawr.ServerOption{rawr.WithErrorPolicy(rawr.PolicyPropagate)}, opts...)",
	)
}

func TestService_LocalTypesAndParamNames(t *testing.T) {
	doc := &ir.Document{Modules: []ir.Module{{
		Path:  "app",
		Types: []ir.Decl{&ir.StructDescriptor{Name: "Item", Fields: []ir.Field{{Name: "id", Type: ir.Uint(64)}}}},
		Services: []ir.ServiceDescriptor{{
			Name: "ItemStore",
			Methods: []ir.Method{
				{Name: "get", Params: []ir.Param{{Name: "type", Type: ir.Uint(64)}}, Returns: ir.Ref("Item")},
				{Name: "clear"},
				{Name: "put", Params: []ir.Param{{Type: ir.Ref("Item")}, {Name: "ctx", Type: ir.Bool()}}},
			},
		}},
	}}}
	files := generate(t, doc, Config{}, "app")
	if files["app/types.go"] == "" {
		t.Error("missing app/types.go")
	}
	assertContains(t, files["app/item_store_rpc.go"],
		"package app\n",
		"Get(ctx context.Context, type_ uint64) (Item, error)",
		"ItemStoreClearRequest = wire.Empty",
		"ItemStoreClearResponse = wire.Unit",
		"Clear(ctx context.Context) error",
		"return rawr.Invoke(ctx, c.caller, ItemStoreClearMethod, ItemStoreClearRequest{}, nil)",
		"return wire.Unit{}, impl.Clear(ctx)",
		"Put(ctx context.Context, arg0 Item, ctx_ bool) error",
	)
}

func TestService_TooManyParams(t *testing.T) {
	params := make([]ir.Param, 7)
	for i := range params {
		params[i] = ir.Param{Type: ir.Bool()}
	}
	doc := &ir.Document{Modules: []ir.Module{{
		Path:     "app",
		Services: []ir.ServiceDescriptor{{Name: "S", Methods: []ir.Method{{Name: "m", Params: params}}}},
	}}}
	g := New(ir.NewSymbolTable(doc), Config{ImportRoot: importRoot})
	_, err := g.Module(&doc.Modules[0])
	var ve *ir.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want *ir.ValidationError", err)
	}
	if ve.Code != ir.CodeUnsupportedShape || ve.Path != "app.S.m" {
		t.Errorf("got %s at %q, want unsupported_shape at app.S.m", ve.Code, ve.Path)
	}
}

func TestModule_Unsupported(t *testing.T) {
	tests := []struct {
		name string
		typ  ir.TypeDescriptor
		code string
	}{
		{"int128", ir.Int(128), ir.CodeUnsupportedShape},
		{"float16", ir.Float(16), ir.CodeUnsupportedShape},
		{"wide tuple", ir.Tuple(ir.Bool(), ir.Bool(), ir.Bool(), ir.Bool(), ir.Bool(), ir.Bool(), ir.Bool()), ir.CodeUnsupportedShape},
		{"unresolved", ir.ExternalRef("a::missing", "X"), ir.CodeUnresolvedReference},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &ir.Document{Modules: []ir.Module{{
				Path:  "a",
				Types: []ir.Decl{&ir.StructDescriptor{Name: "S", Fields: []ir.Field{{Name: "f", Type: tt.typ}}}},
			}}}
			g := New(ir.NewSymbolTable(doc), Config{ImportRoot: importRoot})
			files, err := g.Module(&doc.Modules[0])
			if files != nil {
				t.Errorf("module with errors produced %d files", len(files))
			}
			var ve *ir.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("err = %v, want *ir.ValidationError", err)
			}
			if ve.Code != tt.code || ve.Path != "a.S.f" {
				t.Errorf("got %s at %q, want %s at a.S.f", ve.Code, ve.Path, tt.code)
			}
		})
	}
}

func TestIdentifiers(t *testing.T) {
	tests := []struct {
		fn       func(string) string
		in, want string
	}{
		{exported, "say_hello", "SayHello"},
		{exported, "_private", "Private"},
		{exported, "1st", "X_1st"},
		{packageName, "Type", "typepkg"},
		{packageName, "array_like", "array_like"},
		{func(s string) string { return local(s, map[string]bool{"ctx": true}) }, "ctx", "ctx_"},
		{func(s string) string { return local(s, nil) }, "func", "func_"},
		{func(s string) string { return local(s, nil) }, "user_id", "userId"},
	}
	for _, tt := range tests {
		if got := tt.fn(tt.in); got != tt.want {
			t.Errorf("%q -> %q, want %q", tt.in, got, tt.want)
		}
	}
	if got := uniqueFields([]string{"a_b", "aB", "x"}); got[0] != "AB" || got[1] != "AB_" || got[2] != "X" {
		t.Errorf("uniqueFields = %v", got)
	}
}

// clashDocument declares names whose Go spellings meet: a variant tagged
// Variant, tags differing only in case, a struct named like an enum variant
// and a struct named like a method's request type.
func clashDocument() *ir.Document {
	return &ir.Document{Modules: []ir.Module{{
		Path: "shapes",
		Types: []ir.Decl{
			&ir.EnumDescriptor{Name: "Shape", Tagging: ir.TaggingExternal, Variants: []ir.Variant{
				{Tag: "Variant", Payload: ir.NoPayload()},
				{Tag: "circle", Payload: ir.NoPayload()},
				{Tag: "Circle", Payload: ir.SinglePayload(ir.Float(64))},
				{Tag: "Square", Payload: ir.NoPayload()},
			}},
			&ir.StructDescriptor{Name: "ShapeSquare", Fields: []ir.Field{{Name: "side", Type: ir.Float(64)}}},
			&ir.StructDescriptor{Name: "DrawPaintRequest", Fields: []ir.Field{{Name: "shape", Type: ir.Ref("Shape")}}},
		},
		Services: []ir.ServiceDescriptor{{Name: "Draw", Methods: []ir.Method{
			{Name: "paint", Params: []ir.Param{{Name: "order", Type: ir.Ref("DrawPaintRequest")}}},
		}}},
	}}}
}

func TestModule_NameClashes(t *testing.T) {
	files := generate(t, clashDocument(), Config{}, "shapes")
	assertContains(t, files["shapes/types.go"],
		"type ShapeVariant interface {\n\tisShape()\n}",
		"type ShapeVariant_ struct{}\n",
		"type ShapeCircle struct{}\n",
		"type ShapeCircle_ struct {\n\tValue float64\n}",
		"type ShapeSquare_ struct{}\n",
		"type ShapeSquare struct {\n",
		"case ShapeCircle:\n\t\treturn wire.MarshalExternal(\"circle\", nil, false)",
		"case ShapeCircle_:\n\t\treturn wire.MarshalExternal(\"Circle\", v.Value, true)",
		"case \"Square\":\n\t\te.Value = ShapeSquare_{}",
	)
	assertContains(t, files["shapes/draw_rpc.go"],
		"DrawPaint_Method = \"paint\"",
		"DrawPaint_Request = wire.Tuple1[DrawPaintRequest]",
		"Paint(ctx context.Context, order DrawPaintRequest) error",
		"return rawr.Invoke(ctx, c.caller, DrawPaint_Method, DrawPaint_Request{V0: order}, nil)",
	)
}

func TestModule_DeclaredNameClash(t *testing.T) {
	tests := []struct {
		name     string
		module   ir.Module
		wantPath string
	}{
		{
			name: "types differing in case",
			module: ir.Module{Path: "a", Types: []ir.Decl{
				&ir.UnitStructDescriptor{Name: "point"},
				&ir.UnitStructDescriptor{Name: "Point"},
			}},
			wantPath: "a.Point",
		},
		{
			name: "type named like a service client",
			module: ir.Module{
				Path:     "a",
				Types:    []ir.Decl{&ir.UnitStructDescriptor{Name: "TestClient"}},
				Services: []ir.ServiceDescriptor{{Name: "Test"}},
			},
			wantPath: "a.Test",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &ir.Document{Modules: []ir.Module{tt.module}}
			g := New(ir.NewSymbolTable(doc), Config{ImportRoot: importRoot})
			files, err := g.Module(&doc.Modules[0])
			if files != nil {
				t.Errorf("module with errors produced %d files", len(files))
			}
			var ve *ir.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("err = %v, want *ir.ValidationError", err)
			}
			if ve.Code != ir.CodeUnsupportedShape || ve.Path != tt.wantPath {
				t.Errorf("got %s at %q, want unsupported_shape at %s", ve.Code, ve.Path, tt.wantPath)
			}
		})
	}
}
