package ir_test

import (
	"errors"
	"testing"

	"github.com/broady/rawr/internal/testfixtures"
	"github.com/broady/rawr/rawrgen/ir"
)

func TestSymbolTable_Lookup(t *testing.T) {
	syms := ir.NewSymbolTable(testfixtures.Document())

	d, ok := syms.Lookup(testfixtures.ModuleModule, "ImportedStruct")
	if !ok {
		t.Fatal("ImportedStruct not found")
	}
	if d.Kind() != ir.KindStruct {
		t.Errorf("Kind = %s, want Struct", d.Kind())
	}
	if _, ok := syms.Lookup(testfixtures.ModuleModule, "Structure"); ok {
		t.Error("Structure lives in another module")
	}
	if !syms.HasModule(testfixtures.ModuleService) {
		t.Error("service module should exist even without types")
	}
}

func TestSymbolTable_Visible(t *testing.T) {
	doc := &ir.Document{}
	doc.AddPackage("a", "b")
	doc.AddPackage("b", "c")
	doc.AddPackage("c")
	doc.AddPackage("d", "a")
	syms := ir.NewSymbolTable(doc)

	tests := []struct {
		from, to string
		want     bool
	}{
		{"a", "a", true},
		{"a", "b", true},
		{"a", "c", true},
		{"c", "a", false},
		{"b", "d", false},
		{"d", "c", true},
		{"unknown", "a", false},
	}
	for _, tt := range tests {
		if got := syms.Visible(tt.from, tt.to); got != tt.want {
			t.Errorf("Visible(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestSymbolTable_Resolve(t *testing.T) {
	syms := ir.NewSymbolTable(testfixtures.Document())

	sym, err := syms.Resolve(testfixtures.ModuleResult, ir.Generic(testfixtures.ModuleCoreResult, "Result", ir.String(), ir.String()))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if sym.Module != testfixtures.ModuleCoreResult || sym.Decl.TypeName() != "Result" {
		t.Errorf("Resolve = %s::%s", sym.Module, sym.Decl.TypeName())
	}

	sym, err = syms.Resolve(testfixtures.ModuleArrayLike, ir.Ref("TupleStruct"))
	if err != nil {
		t.Fatalf("Resolve local: %v", err)
	}
	if sym.Module != testfixtures.ModuleArrayLike {
		t.Errorf("local ref resolved to %s", sym.Module)
	}

	_, err = syms.Resolve(testfixtures.ModuleSubcrate, ir.ExternalRef(testfixtures.ModuleModule, "ImportedStruct"))
	var ve *ir.ValidationError
	if !errors.As(err, &ve) || ve.Code != ir.CodeUnresolvedReference {
		t.Errorf("Resolve across undeclared dependency = %v, want unresolved_reference", err)
	}

	if _, err := syms.Resolve(testfixtures.ModuleModule, ir.String()); err == nil {
		t.Error("Resolve(primitive) should fail")
	}
}
