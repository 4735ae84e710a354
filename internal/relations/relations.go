// Package relations implements the three conservative structural
// relations the rest of the TypeAuthority needs: equality, assignability,
// and "does this type mention a type parameter". All three are total and
// side-effect free; uncertainty always resolves to the conservative answer
// (not equal, not assignable) rather than a guess.
package relations

import (
	"sort"

	"github.com/tsoniclang/typeauthority/internal/catalog"
	"github.com/tsoniclang/typeauthority/internal/ir"
)

// TypesEqual is structural equality with kind-first dispatch: two types are
// equal only if they're the same IR variant and their substructure is
// pairwise equal. Unions and intersections compare order-independently.
// Function types compare parameters and return type; optional fields must
// agree on which side has them at all (nothing here "also accepts" a
// missing field as equal to a present empty one).
func TypesEqual(a, b ir.Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch at := a.(type) {
	case ir.PrimitiveType:
		bt, ok := b.(ir.PrimitiveType)
		return ok && at.Name == bt.Name

	case ir.ReferenceType:
		bt, ok := b.(ir.ReferenceType)
		if !ok {
			return false
		}
		if !at.TypeID.IsZero() && !bt.TypeID.IsZero() {
			if at.TypeID != bt.TypeID {
				return false
			}
		} else if at.Name != bt.Name {
			return false
		}
		return typeListEqual(at.TypeArguments, bt.TypeArguments)

	case ir.ArrayType:
		bt, ok := b.(ir.ArrayType)
		return ok && TypesEqual(at.ElementType, bt.ElementType)

	case ir.TupleType:
		bt, ok := b.(ir.TupleType)
		return ok && typeListEqual(at.ElementTypes, bt.ElementTypes)

	case ir.FunctionType:
		bt, ok := b.(ir.FunctionType)
		if !ok {
			return false
		}
		return typeListEqual(at.Parameters, bt.Parameters) && TypesEqual(at.ReturnType, bt.ReturnType)

	case ir.UnionType:
		bt, ok := b.(ir.UnionType)
		return ok && typeSetEqual(at.Types, bt.Types)

	case ir.IntersectionType:
		bt, ok := b.(ir.IntersectionType)
		return ok && typeSetEqual(at.Types, bt.Types)

	case ir.ObjectType:
		bt, ok := b.(ir.ObjectType)
		return ok && memberSetEqual(at.Members, bt.Members)

	case ir.DictionaryType:
		bt, ok := b.(ir.DictionaryType)
		return ok && TypesEqual(at.KeyType, bt.KeyType) && TypesEqual(at.ValueType, bt.ValueType)

	case ir.LiteralType:
		bt, ok := b.(ir.LiteralType)
		if !ok || at.Kind != bt.Kind {
			return false
		}
		if at.Kind == ir.LiteralString {
			return at.StringValue == bt.StringValue
		}
		return at.NumberValue == bt.NumberValue

	case ir.TypeParameterType:
		bt, ok := b.(ir.TypeParameterType)
		return ok && at.Name == bt.Name

	case ir.VoidType:
		_, ok := b.(ir.VoidType)
		return ok
	case ir.NeverType:
		_, ok := b.(ir.NeverType)
		return ok
	case ir.UnknownType:
		_, ok := b.(ir.UnknownType)
		return ok
	case ir.AnyType:
		_, ok := b.(ir.AnyType)
		return ok

	default:
		return false
	}
}

func typeListEqual(a, b []ir.Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !TypesEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

// typeSetEqual compares two type slices as unordered sets by String() key,
// matching NormalizeUnion/NormalizeIntersection's own canonical ordering —
// order-independent.
func typeSetEqual(a, b []ir.Type) bool {
	if len(a) != len(b) {
		return false
	}
	as := make([]string, len(a))
	bs := make([]string, len(b))
	for i := range a {
		as[i] = a[i].String()
	}
	for i := range b {
		bs[i] = b[i].String()
	}
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

func memberSetEqual(a, b []ir.Member) bool {
	if len(a) != len(b) {
		return false
	}
	am := make(map[string]ir.Member, len(a))
	for _, m := range a {
		am[m.MemberName()] = m
	}
	for _, m := range b {
		other, ok := am[m.MemberName()]
		if !ok {
			return false
		}
		if !memberEqual(other, m) {
			return false
		}
	}
	return true
}

func memberEqual(a, b ir.Member) bool {
	switch at := a.(type) {
	case ir.PropertySignature:
		bt, ok := b.(ir.PropertySignature)
		return ok && at.IsOptional == bt.IsOptional && at.IsReadonly == bt.IsReadonly && TypesEqual(at.Type, bt.Type)
	case ir.MethodSignature:
		bt, ok := b.(ir.MethodSignature)
		if !ok {
			return false
		}
		return typeListEqual(at.Parameters, bt.Parameters) && TypesEqual(at.ReturnType, bt.ReturnType)
	default:
		return false
	}
}

// ContainsTypeParameter recursively inspects every IR shape (including
// structural object members, reference type arguments, and function
// parameter/return types) and reports whether t mentions any
// TypeParameterType at all.
func ContainsTypeParameter(t ir.Type) bool {
	switch typ := t.(type) {
	case ir.TypeParameterType:
		return true
	case ir.ReferenceType:
		for _, a := range typ.TypeArguments {
			if ContainsTypeParameter(a) {
				return true
			}
		}
		for _, m := range typ.StructuralMembers {
			if memberContainsTypeParameter(m) {
				return true
			}
		}
		return false
	case ir.ArrayType:
		return ContainsTypeParameter(typ.ElementType)
	case ir.TupleType:
		for _, e := range typ.ElementTypes {
			if ContainsTypeParameter(e) {
				return true
			}
		}
		return false
	case ir.FunctionType:
		for _, p := range typ.Parameters {
			if ContainsTypeParameter(p) {
				return true
			}
		}
		return ContainsTypeParameter(typ.ReturnType)
	case ir.UnionType:
		for _, m := range typ.Types {
			if ContainsTypeParameter(m) {
				return true
			}
		}
		return false
	case ir.IntersectionType:
		for _, m := range typ.Types {
			if ContainsTypeParameter(m) {
				return true
			}
		}
		return false
	case ir.ObjectType:
		for _, m := range typ.Members {
			if memberContainsTypeParameter(m) {
				return true
			}
		}
		return false
	case ir.DictionaryType:
		return ContainsTypeParameter(typ.KeyType) || ContainsTypeParameter(typ.ValueType)
	default:
		return false
	}
}

func memberContainsTypeParameter(m ir.Member) bool {
	switch mm := m.(type) {
	case ir.PropertySignature:
		return ContainsTypeParameter(mm.Type)
	case ir.MethodSignature:
		for _, p := range mm.Parameters {
			if ContainsTypeParameter(p) {
				return true
			}
		}
		return ContainsTypeParameter(mm.ReturnType)
	default:
		return false
	}
}

// HasTypeParameters reports whether a signature-level type-parameter list
// is non-empty — a small helper the facade exposes directly as one of its
// minor introspection operations, kept here since it's a trivial companion
// to ContainsTypeParameter.
func HasTypeParameters(names []string) bool {
	return len(names) > 0
}

// IsAssignableTo is conservative: it never returns true on uncertainty —
// the poison direction for this relation is false, not unknownType.
func IsAssignableTo(env *catalog.Env, source, target ir.Type) bool {
	if TypesEqual(source, target) {
		return true
	}
	if _, ok := source.(ir.AnyType); ok {
		return true
	}
	if _, ok := target.(ir.AnyType); ok {
		return true
	}
	if _, ok := source.(ir.NeverType); ok {
		return true
	}

	if sp, ok := source.(ir.PrimitiveType); ok && sp.Name.IsNullish() {
		if tu, ok := target.(ir.UnionType); ok {
			for _, m := range tu.Types {
				if mp, ok := m.(ir.PrimitiveType); ok && mp.Name == sp.Name {
					return true
				}
			}
		}
		return false
	}

	if sp, ok := source.(ir.PrimitiveType); ok {
		if tp, ok := target.(ir.PrimitiveType); ok {
			return sp.Name == tp.Name
		}
	}

	if su, ok := source.(ir.UnionType); ok {
		for _, m := range su.Types {
			if !IsAssignableTo(env, m, target) {
				return false
			}
		}
		return true
	}
	if tu, ok := target.(ir.UnionType); ok {
		for _, m := range tu.Types {
			if IsAssignableTo(env, source, m) {
				return true
			}
		}
		return false
	}

	if sa, ok := source.(ir.ArrayType); ok {
		if ta, ok := target.(ir.ArrayType); ok {
			return IsAssignableTo(env, sa.ElementType, ta.ElementType)
		}
		return false
	}

	if sr, ok := source.(ir.ReferenceType); ok {
		if tr, ok := target.(ir.ReferenceType); ok {
			sid, sargs, sok := env.NormalizeToNominal(sr)
			tid, targs, tok := env.NormalizeToNominal(tr)
			if !sok || !tok {
				return false
			}
			if sid == tid {
				if len(sargs) != len(targs) {
					return false
				}
				for i := range sargs {
					if !TypesEqual(sargs[i], targs[i]) {
						return false
					}
				}
				return true
			}
			return env.IsAncestor(sid, tid)
		}
	}

	return false
}
