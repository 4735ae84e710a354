// Package subst implements pure IR-to-IR substitution of type-parameter
// names to concrete types: Apply, composition, and the canonical string
// serialization used to build member/signature cache keys. Nothing here
// mutates its input; every function returns a new ir.Type tree.
package subst

import (
	"sort"
	"strings"

	"github.com/tsoniclang/typeauthority/internal/ir"
)

// Subst maps a type-parameter name to the concrete ir.Type it should be
// replaced with. The zero value is the identity substitution.
type Subst map[string]ir.Type

// Compose returns the substitution equivalent of applying s first, then
// other: Apply(t, s.Compose(other)) == Apply(Apply(t, s), other).
func (s Subst) Compose(other Subst) Subst {
	result := make(Subst, len(s)+len(other))
	for k, v := range s {
		result[k] = Apply(v, other)
	}
	for k, v := range other {
		if _, exists := result[k]; !exists {
			result[k] = v
		}
	}
	return result
}

// Apply recursively rewrites every type-parameter occurrence in t according
// to s, across every IR shape including structural members, tuple
// positions, function parameters/returns, and nested reference type
// arguments. A cycle (t1's substitution eventually refers back to t1) is
// broken by returning the variable as-is at the point of recurrence.
// Substitution maps built from genuinely acyclic generic instantiation
// should never hit this, but a malformed catalog entry must not hang the
// process.
func Apply(t ir.Type, s Subst) ir.Type {
	return applyVisited(t, s, map[string]bool{})
}

func applyVisited(t ir.Type, s Subst, visited map[string]bool) ir.Type {
	if t == nil || len(s) == 0 {
		return t
	}
	switch typ := t.(type) {
	case ir.TypeParameterType:
		if visited[typ.Name] {
			return typ
		}
		replacement, ok := s[typ.Name]
		if !ok {
			return typ
		}
		if tp, ok := replacement.(ir.TypeParameterType); ok && tp.Name == typ.Name {
			return typ
		}
		nv := copyVisited(visited)
		nv[typ.Name] = true
		return applyVisited(replacement, s, nv)

	case ir.ReferenceType:
		newArgs := make([]ir.Type, len(typ.TypeArguments))
		for i, a := range typ.TypeArguments {
			newArgs[i] = applyVisited(a, s, visited)
		}
		var newMembers []ir.Member
		if typ.StructuralMembers != nil {
			newMembers = applyMembers(typ.StructuralMembers, s, visited)
		}
		return ir.ReferenceType{
			Name:              typ.Name,
			TypeArguments:     newArgs,
			TypeID:            typ.TypeID,
			StructuralMembers: newMembers,
			ResolvedCLRType:   typ.ResolvedCLRType,
		}

	case ir.ArrayType:
		return ir.ArrayType{ElementType: applyVisited(typ.ElementType, s, visited), Origin: typ.Origin}

	case ir.TupleType:
		newElems := make([]ir.Type, len(typ.ElementTypes))
		for i, e := range typ.ElementTypes {
			newElems[i] = applyVisited(e, s, visited)
		}
		return ir.TupleType{ElementTypes: newElems}

	case ir.FunctionType:
		newParams := make([]ir.Type, len(typ.Parameters))
		for i, p := range typ.Parameters {
			newParams[i] = applyVisited(p, s, visited)
		}
		return ir.FunctionType{Parameters: newParams, ReturnType: applyVisited(typ.ReturnType, s, visited)}

	case ir.UnionType:
		newTypes := make([]ir.Type, len(typ.Types))
		for i, m := range typ.Types {
			newTypes[i] = applyVisited(m, s, visited)
		}
		return ir.NormalizeUnion(newTypes)

	case ir.IntersectionType:
		newTypes := make([]ir.Type, len(typ.Types))
		for i, m := range typ.Types {
			newTypes[i] = applyVisited(m, s, visited)
		}
		return ir.NormalizeIntersection(newTypes)

	case ir.ObjectType:
		return ir.ObjectType{Members: applyMembers(typ.Members, s, visited)}

	case ir.DictionaryType:
		return ir.DictionaryType{
			KeyType:   applyVisited(typ.KeyType, s, visited),
			ValueType: applyVisited(typ.ValueType, s, visited),
		}

	default:
		// PrimitiveType, LiteralType, VoidType, NeverType, UnknownType,
		// AnyType carry no type-parameter references.
		return t
	}
}

func applyMembers(members []ir.Member, s Subst, visited map[string]bool) []ir.Member {
	if members == nil {
		return nil
	}
	out := make([]ir.Member, len(members))
	for i, m := range members {
		switch mm := m.(type) {
		case ir.PropertySignature:
			out[i] = ir.PropertySignature{
				Name:       mm.Name,
				Type:       applyVisited(mm.Type, s, visited),
				IsOptional: mm.IsOptional,
				IsReadonly: mm.IsReadonly,
			}
		case ir.MethodSignature:
			newParams := make([]ir.Type, len(mm.Parameters))
			for j, p := range mm.Parameters {
				newParams[j] = applyVisited(p, s, visited)
			}
			// A method's own type parameters shadow the outer substitution
			// for its body, but since Parameters/ReturnType here are
			// already-captured IR (not re-derived from syntax), we filter
			// the substitution rather than re-deriving scoping rules.
			filtered := s
			if len(mm.TypeParameters) > 0 {
				filtered = make(Subst, len(s))
				bound := make(map[string]bool, len(mm.TypeParameters))
				for _, tp := range mm.TypeParameters {
					bound[tp] = true
				}
				for k, v := range s {
					if !bound[k] {
						filtered[k] = v
					}
				}
			}
			newReturn := applyVisited(mm.ReturnType, filtered, visited)
			for j, p := range mm.Parameters {
				newParams[j] = applyVisited(p, filtered, visited)
			}
			out[i] = ir.MethodSignature{
				Name:           mm.Name,
				Parameters:     newParams,
				ReturnType:     newReturn,
				TypeParameters: mm.TypeParameters,
			}
		default:
			out[i] = m
		}
	}
	return out
}

func copyVisited(m map[string]bool) map[string]bool {
	nm := make(map[string]bool, len(m)+1)
	for k, v := range m {
		nm[k] = v
	}
	return nm
}

// SerializeTypeArgs produces the canonical string used in member/signature
// cache keys: "(stableId, memberName, serialized typeArgs)". Two calls
// with structurally-equal type argument lists must serialize
// identically regardless of slice capacity or pointer identity, since the
// cache key is a pure function of content.
func SerializeTypeArgs(args []ir.Type) string {
	if len(args) == 0 {
		return ""
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	return strings.Join(parts, ",")
}

// SortedKeys returns a substitution's keys in a deterministic order, used
// anywhere a map needs to be walked reproducibly (e.g. building a debug
// trace of a call substitution).
func (s Subst) SortedKeys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
