package subst

import (
	"testing"

	"github.com/tsoniclang/typeauthority/internal/ir"
)

func TestApplyIdentityOnEmptySubst(t *testing.T) {
	typ := ir.ArrayType{ElementType: ir.TypeParameterType{Name: "T"}}
	got := Apply(typ, Subst{})
	if got.String() != typ.String() {
		t.Fatalf("Apply with empty subst should be identity: got %v want %v", got, typ)
	}
}

func TestApplyReplacesTypeParameter(t *testing.T) {
	typ := ir.ArrayType{ElementType: ir.TypeParameterType{Name: "T"}}
	s := Subst{"T": ir.PrimitiveType{Name: ir.PrimInt}}
	got := Apply(typ, s)
	arr, ok := got.(ir.ArrayType)
	if !ok {
		t.Fatalf("expected ArrayType, got %T", got)
	}
	if arr.ElementType != ir.Type(ir.PrimitiveType{Name: ir.PrimInt}) {
		t.Fatalf("expected element substituted to int, got %v", arr.ElementType)
	}
}

func TestApplyRecursesThroughNestedShapes(t *testing.T) {
	typ := ir.FunctionType{
		Parameters: []ir.Type{ir.TupleType{ElementTypes: []ir.Type{ir.TypeParameterType{Name: "T"}}}},
		ReturnType: ir.ReferenceType{Name: "Box", TypeArguments: []ir.Type{ir.TypeParameterType{Name: "T"}}},
	}
	s := Subst{"T": ir.PrimitiveType{Name: ir.PrimString}}
	got := Apply(typ, s).(ir.FunctionType)

	tup := got.Parameters[0].(ir.TupleType)
	if tup.ElementTypes[0] != ir.Type(ir.PrimitiveType{Name: ir.PrimString}) {
		t.Fatalf("expected tuple element substituted, got %v", tup.ElementTypes[0])
	}
	ref := got.ReturnType.(ir.ReferenceType)
	if ref.TypeArguments[0] != ir.Type(ir.PrimitiveType{Name: ir.PrimString}) {
		t.Fatalf("expected reference type arg substituted, got %v", ref.TypeArguments[0])
	}
}

func TestApplyBreaksSelfReferentialCycle(t *testing.T) {
	// A malformed substitution map where T maps to itself must not
	// loop forever; it returns the type parameter unchanged at the point of
	// recurrence.
	s := Subst{"T": ir.TypeParameterType{Name: "T"}}
	got := Apply(ir.TypeParameterType{Name: "T"}, s)
	if got != ir.Type(ir.TypeParameterType{Name: "T"}) {
		t.Fatalf("expected T unchanged under self-mapping subst, got %v", got)
	}
}

func TestComposeMatchesSequentialApply(t *testing.T) {
	typ := ir.TypeParameterType{Name: "T"}
	s1 := Subst{"T": ir.TypeParameterType{Name: "U"}}
	s2 := Subst{"U": ir.PrimitiveType{Name: ir.PrimBoolean}}

	viaCompose := Apply(typ, s1.Compose(s2))
	viaSequential := Apply(Apply(typ, s1), s2)

	if viaCompose.String() != viaSequential.String() {
		t.Fatalf("compose mismatch: %v vs %v", viaCompose, viaSequential)
	}
}

func TestSerializeTypeArgsEmpty(t *testing.T) {
	if got := SerializeTypeArgs(nil); got != "" {
		t.Fatalf("expected empty serialization for no args, got %q", got)
	}
}

func TestSerializeTypeArgsJoinsInOrder(t *testing.T) {
	args := []ir.Type{ir.PrimitiveType{Name: ir.PrimInt}, ir.PrimitiveType{Name: ir.PrimString}}
	if got, want := SerializeTypeArgs(args), "int,string"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestSortedKeysDeterministic(t *testing.T) {
	s := Subst{"b": ir.Unknown, "a": ir.Unknown, "c": ir.Unknown}
	keys := s.SortedKeys()
	want := []string{"a", "b", "c"}
	for i, k := range want {
		if keys[i] != k {
			t.Fatalf("got %v want %v", keys, want)
		}
	}
}
