package callresolve

import (
	"testing"

	"github.com/tsoniclang/typeauthority/internal/catalog"
	"github.com/tsoniclang/typeauthority/internal/ir"
)

func TestCorrectOverloadSkipsSourceDeclaredMembers(t *testing.T) {
	cat := catalog.New()
	id := catalog.MintTypeID("Foo", 0, "")
	cat.Register(&catalog.Entry{
		TypeID: id,
		Origin: catalog.OriginSource,
		Members: map[string]catalog.MemberEntry{
			"m": {Name: "m", Signatures: []catalog.MethodSignatureEntry{
				{StableID: "a"}, {StableID: "b"},
			}},
		},
	}, "Foo", "")
	env := catalog.NewEnv(cat, catalog.NewAliasTable(), nil)
	chosen := catalog.MethodSignatureEntry{StableID: "a"}
	got := correctOverload(env, id, "m", nil, chosen, nil)
	if got.StableID != "a" {
		t.Fatalf("expected source-declared member's chosen overload kept unchanged, got %v", got)
	}
}

func TestCorrectOverloadPicksBestScoringAssemblySibling(t *testing.T) {
	cat := catalog.New()
	id := catalog.MintTypeID("Foo", 0, "")
	intP := ir.PrimitiveType{Name: ir.PrimInt}
	strP := ir.PrimitiveType{Name: ir.PrimString}
	cat.Register(&catalog.Entry{
		TypeID: id,
		Origin: catalog.OriginAssembly,
		Members: map[string]catalog.MemberEntry{
			"m": {Name: "m", Signatures: []catalog.MethodSignatureEntry{
				{StableID: "m(int)", Parameters: []catalog.ParamEntry{{Type: intP}}},
				{StableID: "m(string)", Parameters: []catalog.ParamEntry{{Type: strP}}},
			}},
		},
	}, "Foo", "")
	env := catalog.NewEnv(cat, catalog.NewAliasTable(), nil)
	chosen := catalog.MethodSignatureEntry{StableID: "m(int)", Parameters: []catalog.ParamEntry{{Type: intP}}}
	got := correctOverload(env, id, "m", []ir.Type{strP}, chosen, nil)
	if got.StableID != "m(string)" {
		t.Fatalf("expected correction to m(string), got %v", got.StableID)
	}
}

func TestCorrectOverloadNoBetterCandidateKeepsChosen(t *testing.T) {
	cat := catalog.New()
	id := catalog.MintTypeID("Foo", 0, "")
	intP := ir.PrimitiveType{Name: ir.PrimInt}
	cat.Register(&catalog.Entry{
		TypeID: id,
		Origin: catalog.OriginAssembly,
		Members: map[string]catalog.MemberEntry{
			"m": {Name: "m", Signatures: []catalog.MethodSignatureEntry{
				{StableID: "m(int)", Parameters: []catalog.ParamEntry{{Type: intP}}},
			}},
		},
	}, "Foo", "")
	env := catalog.NewEnv(cat, catalog.NewAliasTable(), nil)
	chosen := catalog.MethodSignatureEntry{StableID: "m(int)", Parameters: []catalog.ParamEntry{{Type: intP}}}
	got := correctOverload(env, id, "m", []ir.Type{intP}, chosen, nil)
	if got.StableID != "m(int)" {
		t.Fatalf("expected single-overload member to keep chosen, got %v", got.StableID)
	}
}

// TestSameNominalFamilyBridgesPrimitiveToNominalFacade exercises the
// NormalizeToNominal bridge: a bare `string` argument scores +2 against a
// `System.String`-shaped reference parameter, not just two operands that are
// already ReferenceType.
func TestSameNominalFamilyBridgesPrimitiveToNominalFacade(t *testing.T) {
	cat := catalog.New()
	stringID := catalog.MintTypeID("String", 0, "System.String")
	cat.Register(&catalog.Entry{TypeID: stringID}, "String", "System.String")
	env := catalog.NewEnv(cat, catalog.NewAliasTable(), nil)

	sig := catalog.MethodSignatureEntry{Parameters: []catalog.ParamEntry{
		{Type: ir.ReferenceType{Name: "String", TypeID: stringID}},
	}}
	argTypes := []ir.Type{ir.PrimitiveType{Name: ir.PrimString}}
	if score := scoreOverload(env, sig, argTypes); score != 2 {
		t.Fatalf("expected a primitive argument to score +2 against its nominal facade parameter, got %d", score)
	}
}

func TestCompatibleByArityFiltersByPositionalCount(t *testing.T) {
	sigs := []catalog.MethodSignatureEntry{
		{StableID: "0-ary"},
		{StableID: "1-ary", Parameters: []catalog.ParamEntry{{Name: "a"}}},
		{StableID: "2-ary", Parameters: []catalog.ParamEntry{{Name: "a"}, {Name: "b"}}},
	}
	got := compatibleByArity(sigs, 1)
	if len(got) != 1 || got[0].StableID != "1-ary" {
		t.Fatalf("expected only the 1-arity overload, got %v", got)
	}
}

func TestCompatibleByArityAcceptsVariadicWithEnoughFixedArgs(t *testing.T) {
	sigs := []catalog.MethodSignatureEntry{
		{StableID: "variadic", IsVariadic: true, Parameters: []catalog.ParamEntry{{Name: "a"}, {Name: "rest"}}},
	}
	got := compatibleByArity(sigs, 3)
	if len(got) != 1 {
		t.Fatalf("expected the variadic overload to accept more args than its fixed prefix, got %v", got)
	}
	if len(compatibleByArity(sigs, 0)) != 0 {
		t.Fatalf("expected the variadic overload to reject fewer args than its fixed prefix")
	}
}

func TestScoreOverloadPrefersExactOverNominalFamilyOverInheritance(t *testing.T) {
	cat := catalog.New()
	baseID := catalog.MintTypeID("Base", 0, "")
	derivedID := catalog.MintTypeID("Derived", 0, "")
	cat.Register(&catalog.Entry{TypeID: baseID}, "Base", "")
	cat.Register(&catalog.Entry{TypeID: derivedID, Inheritance: []catalog.InheritanceEdge{{Target: baseID}}}, "Derived", "")
	env := catalog.NewEnv(cat, catalog.NewAliasTable(), nil)

	exactSig := catalog.MethodSignatureEntry{Parameters: []catalog.ParamEntry{{Type: ir.ReferenceType{Name: "Derived", TypeID: derivedID}}}}
	inheritedSig := catalog.MethodSignatureEntry{Parameters: []catalog.ParamEntry{{Type: ir.ReferenceType{Name: "Base", TypeID: baseID}}}}
	argTypes := []ir.Type{ir.ReferenceType{Name: "Derived", TypeID: derivedID}}

	exactScore := scoreOverload(env, exactSig, argTypes)
	inheritedScore := scoreOverload(env, inheritedSig, argTypes)
	if exactScore <= inheritedScore {
		t.Fatalf("expected exact match to outscore inheritance-reachable match, got exact=%d inherited=%d", exactScore, inheritedScore)
	}
}
