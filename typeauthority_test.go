package typeauthority

import (
	"testing"

	"github.com/tsoniclang/typeauthority/internal/catalog"
	"github.com/tsoniclang/typeauthority/internal/handle"
)

// fakeRegistry is a minimal handle.Registry backing the whole-facade tests.
type fakeRegistry struct {
	decls map[handle.DeclId]handle.DeclInfo
	sigs  map[handle.SignatureId]handle.SignatureInfo
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{
		decls: make(map[handle.DeclId]handle.DeclInfo),
		sigs:  make(map[handle.SignatureId]handle.SignatureInfo),
	}
}

func (r *fakeRegistry) GetDecl(id handle.DeclId) (handle.DeclInfo, bool) {
	d, ok := r.decls[id]
	return d, ok
}
func (r *fakeRegistry) GetSignature(id handle.SignatureId) (handle.SignatureInfo, bool) {
	s, ok := r.sigs[id]
	return s, ok
}
func (r *fakeRegistry) GetMember(handle.MemberId) (handle.MemberInfo, bool) {
	return handle.MemberInfo{}, false
}
func (r *fakeRegistry) GetTypeSyntax(handle.TypeSyntaxId) (handle.TypeSyntaxInfo, bool) {
	return handle.TypeSyntaxInfo{}, false
}

type fakeExprRegistry struct {
	exprs map[handle.ExprId]handle.ExprNode
}

func newFakeExprRegistry() *fakeExprRegistry {
	return &fakeExprRegistry{exprs: make(map[handle.ExprId]handle.ExprNode)}
}

func (r *fakeExprRegistry) GetExpr(id handle.ExprId) (handle.ExprNode, bool) {
	e, ok := r.exprs[id]
	return e, ok
}

type fakeConverter struct {
	byID map[handle.TypeSyntaxId]Type
}

func newFakeConverter() *fakeConverter {
	return &fakeConverter{byID: make(map[handle.TypeSyntaxId]Type)}
}

func (c *fakeConverter) ConvertTypeNode(id handle.TypeSyntaxId) Type {
	if t, ok := c.byID[id]; ok {
		return t
	}
	return UnknownType
}

// TestTypeOfMemberPrimitiveBridgesToBuiltinNominalEndToEnd goes through
// the public facade: a primitive receiver's member
// lookup bridges to its built-in nominal catalog entry.
func TestTypeOfMemberPrimitiveBridgesToBuiltinNominalEndToEnd(t *testing.T) {
	cat := catalog.New()
	id := catalog.MintTypeID("String", 0, "System.String")
	cat.Register(&catalog.Entry{
		TypeID: id,
		Members: map[string]catalog.MemberEntry{
			"length": {Name: "length", Type: PrimitiveType{Name: "number"}},
		},
	}, "String", "System.String")

	reg := newFakeRegistry()
	exprs := newFakeExprRegistry()
	conv := newFakeConverter()
	ta := New(cat, catalog.NewAliasTable(), reg, exprs, conv)

	got := ta.TypeOfMember(PrimitiveType{Name: "string"}, "length")
	if got.String() != "number" {
		t.Fatalf("expected member type number, got %v", got)
	}
	if len(ta.GetDiagnostics()) != 0 {
		t.Fatalf("expected no diagnostics, got %v", ta.GetDiagnostics())
	}
}

// TestTypeOfDeclMissingAnnotationDiagnoses confirms the facade surfaces a
// MISSING-ANNOTATION diagnostic for a function declaration with no explicit
// type and no initializer to fall back on.
func TestTypeOfDeclMissingAnnotationDiagnoses(t *testing.T) {
	cat := catalog.New()
	reg := newFakeRegistry()
	reg.decls[1] = handle.DeclInfo{Kind: handle.DeclFunction, FQName: "doStuff"}
	exprs := newFakeExprRegistry()
	conv := newFakeConverter()
	ta := New(cat, catalog.NewAliasTable(), reg, exprs, conv)

	got := ta.TypeOfDecl(1)
	if got.String() != "unknown" {
		t.Fatalf("expected unknown for missing annotation, got %v", got)
	}
	diags := ta.GetDiagnostics()
	if len(diags) != 1 || diags[0].Code != "MISSING-ANNOTATION" {
		t.Fatalf("expected one MISSING-ANNOTATION diagnostic, got %v", diags)
	}

	ta.ClearDiagnostics()
	if len(ta.GetDiagnostics()) != 0 {
		t.Fatalf("expected diagnostics cleared")
	}
}

// TestResolveCallEndToEnd exercises call resolution through the public
// facade for a plain (non-generic) method lookup.
func TestResolveCallEndToEnd(t *testing.T) {
	cat := catalog.New()
	reg := newFakeRegistry()
	conv := newFakeConverter()
	conv.byID[1] = PrimitiveType{Name: "string"}
	reg.sigs[1] = handle.SignatureInfo{
		Parameters:     []handle.ParamInfo{{Name: "s", TypeNode: 1}},
		ReturnTypeNode: 1,
	}
	exprs := newFakeExprRegistry()
	ta := New(cat, catalog.NewAliasTable(), reg, exprs, conv)

	got := ta.ResolveCall(CallQuery{SigID: 1, ArgumentCount: 1})
	if len(got.ParameterTypes) != 1 || got.ParameterTypes[0].String() != "string" {
		t.Fatalf("expected single string parameter, got %v", got.ParameterTypes)
	}
	if got.ReturnType.String() != "string" {
		t.Fatalf("expected string return, got %v", got.ReturnType)
	}
}

// TestResolveCallAccumulatesDiagnostics confirms call-resolution failures
// surface through the instance buffer as well as on the returned
// ResolvedCall.
func TestResolveCallAccumulatesDiagnostics(t *testing.T) {
	cat := catalog.New()
	ta := New(cat, catalog.NewAliasTable(), newFakeRegistry(), newFakeExprRegistry(), newFakeConverter())

	got := ta.ResolveCall(CallQuery{SigID: 404, ArgumentCount: 1})
	if len(got.Diagnostics) != 1 {
		t.Fatalf("expected one diagnostic on the resolved call, got %v", got.Diagnostics)
	}
	diags := ta.GetDiagnostics()
	if len(diags) != 1 || diags[0].Code != "RESOLUTION-FAILED" {
		t.Fatalf("expected the same RESOLUTION-FAILED diagnostic in the buffer, got %v", diags)
	}
}

// TestIsAssignableToAndTypesEqualEndToEnd exercises the pure relations
// queries through the facade.
func TestIsAssignableToAndTypesEqualEndToEnd(t *testing.T) {
	cat := catalog.New()
	ta := New(cat, catalog.NewAliasTable(), newFakeRegistry(), newFakeExprRegistry(), newFakeConverter())

	if !ta.TypesEqual(PrimitiveType{Name: "number"}, PrimitiveType{Name: "number"}) {
		t.Fatalf("expected number == number")
	}
	if !ta.IsAssignableTo(PrimitiveType{Name: "number"}, PrimitiveType{Name: "number"}) {
		t.Fatalf("expected number assignable to number")
	}
	if ta.IsAssignableTo(PrimitiveType{Name: "string"}, PrimitiveType{Name: "number"}) {
		t.Fatalf("expected string not assignable to number")
	}
}

// TestExpandUtilityEndToEnd exercises utility-type expansion through the
// facade: NonNullable strips every nullish union member.
func TestExpandUtilityEndToEnd(t *testing.T) {
	cat := catalog.New()
	ta := New(cat, catalog.NewAliasTable(), newFakeRegistry(), newFakeExprRegistry(), newFakeConverter())

	u := UnionType{Types: []Type{
		PrimitiveType{Name: "string"},
		PrimitiveType{Name: "null"},
		PrimitiveType{Name: "undefined"},
	}}
	got := ta.ExpandUtility(UtilityNonNullable, []Type{u})
	if got.String() != "string" {
		t.Fatalf("expected NonNullable to strip nullish union members, got %v", got)
	}
}

// TestInstantiateAndSubstituteEndToEnd exercises the catalog-backed
// Instantiate lookup together with the pure substitution rewrite.
func TestInstantiateAndSubstituteEndToEnd(t *testing.T) {
	cat := catalog.New()
	id := catalog.MintTypeID("Box", 1, "Box`1")
	cat.Register(&catalog.Entry{
		TypeID:         id,
		TypeParameters: []catalog.TypeParamEntry{{Name: "T"}},
	}, "Box", "Box`1")
	ta := New(cat, catalog.NewAliasTable(), newFakeRegistry(), newFakeExprRegistry(), newFakeConverter())

	ref, ok := ta.Instantiate("Box", []Type{TypeParameterType{Name: "T"}})
	if !ok {
		t.Fatalf("expected Box to resolve")
	}
	got := ta.Substitute(ref, map[string]Type{"T": PrimitiveType{Name: "number"}})
	if got.String() != "Box<number>" {
		t.Fatalf("expected Box<number>, got %v", got)
	}
}

// TestCheckTsClassMemberOverrideEndToEnd exercises the inheritance-chain
// member-override check through the facade.
func TestCheckTsClassMemberOverrideEndToEnd(t *testing.T) {
	cat := catalog.New()
	baseID := catalog.MintTypeID("Base", 0, "")
	derivedID := catalog.MintTypeID("Derived", 0, "")
	cat.Register(&catalog.Entry{
		TypeID: baseID,
		Members: map[string]catalog.MemberEntry{
			"greet": {Name: "greet", Type: PrimitiveType{Name: "string"}},
		},
	}, "Base", "")
	cat.Register(&catalog.Entry{
		TypeID:      derivedID,
		Inheritance: []catalog.InheritanceEdge{{Target: baseID}},
		Members: map[string]catalog.MemberEntry{
			"greet": {Name: "greet", Type: PrimitiveType{Name: "string"}},
		},
	}, "Derived", "")
	ta := New(cat, catalog.NewAliasTable(), newFakeRegistry(), newFakeExprRegistry(), newFakeConverter())

	if !ta.CheckTsClassMemberOverride(baseID, derivedID, "greet") {
		t.Fatalf("expected derived.greet to override base.greet")
	}
	if ta.CheckTsClassMemberOverride(baseID, derivedID, "missing") {
		t.Fatalf("expected no override reported for a member derived never declares")
	}
}
