package callresolve

import (
	"sort"

	"github.com/tsoniclang/typeauthority/internal/catalog"
	"github.com/tsoniclang/typeauthority/internal/ir"
	"github.com/tsoniclang/typeauthority/internal/relations"
)

// correctOverload re-selects among a catalog member's sibling overloads when
// the signature loaded from Binding's own capture turns out not to be the
// best match for the substituted argument types — the case where TS's own
// overload selection (structural, erasing CLR-only distinctions like ref/out
// or numeric widening) picked a different overload than CLR overload
// resolution would. Only entries of catalog.OriginAssembly carry alternate
// overloads worth correcting against; source-declared members keep exactly
// the overload TS itself already chose.
func correctOverload(env *catalog.Env, declaringType ir.TypeID, memberName string, argTypes []ir.Type, chosen catalog.MethodSignatureEntry, subst map[string]ir.Type) catalog.MethodSignatureEntry {
	entry, ok := env.GetByTypeID(declaringType)
	if !ok || entry.Origin != catalog.OriginAssembly {
		return chosen
	}
	member, ok := entry.Members[memberName]
	if !ok || len(member.Signatures) <= 1 {
		return chosen
	}

	candidates := compatibleByArity(member.Signatures, len(argTypes))
	if len(candidates) == 0 {
		return chosen
	}

	// A catalog sibling replaces the TS-selected signature only on a
	// strictly higher score; ties keep what TS already picked.
	best := chosen
	bestScore := scoreOverload(env, chosen, argTypes)
	for _, c := range candidates {
		if s := scoreOverload(env, c, argTypes); s > bestScore {
			best, bestScore = c, s
		}
	}
	return best
}

// compatibleByArity keeps overloads whose own declared arity can accept
// argCount arguments: either an exact positional match, or a variadic
// overload whose fixed prefix is no longer than argCount.
func compatibleByArity(sigs []catalog.MethodSignatureEntry, argCount int) []catalog.MethodSignatureEntry {
	var out []catalog.MethodSignatureEntry
	for _, s := range sigs {
		if s.IsVariadic {
			if argCount >= len(s.Parameters)-1 {
				out = append(out, s)
			}
			continue
		}
		if s.ArityOf() == argCount {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StableID < out[j].StableID })
	return out
}

// scoreOverload sums a per-parameter compatibility score: +3 when the
// argument type is structurally equal to the declared parameter type, +2
// when both resolve to the same nominal TypeID (equal up to type
// arguments), +1 when the argument's nominal type can reach the parameter's
// nominal type through inheritance, 0 otherwise (including any argument
// position beyond a variadic overload's declared parameter list).
func scoreOverload(env *catalog.Env, sig catalog.MethodSignatureEntry, argTypes []ir.Type) int {
	score := 0
	for i, argT := range argTypes {
		if i >= len(sig.Parameters) {
			if sig.IsVariadic {
				continue
			}
			break
		}
		paramT := sig.Parameters[i].Type
		switch {
		case relations.TypesEqual(argT, paramT):
			score += 3
		case sameNominalFamily(env, argT, paramT):
			score += 2
		case reachableByInheritance(env, argT, paramT):
			score += 1
		}
	}
	return score
}

// sameNominalFamily reports whether a and b normalize to the same nominal
// TypeID — bridging through env.NormalizeToNominal so a primitive argument
// (e.g. `string`) scores +2 against a reference parameter naming its
// built-in nominal facade (e.g. `System.String`), not just two
// already-ReferenceType operands naming the same TypeID directly.
func sameNominalFamily(env *catalog.Env, a, b ir.Type) bool {
	aID, _, aOk := env.NormalizeToNominal(a)
	bID, _, bOk := env.NormalizeToNominal(b)
	return aOk && bOk && !aID.IsZero() && aID == bID
}

func reachableByInheritance(env *catalog.Env, a, b ir.Type) bool {
	aID, _, aOk := env.NormalizeToNominal(a)
	bID, _, bOk := env.NormalizeToNominal(b)
	if !aOk || !bOk || aID.IsZero() || bID.IsZero() {
		return false
	}
	return env.IsAncestor(aID, bID)
}

// overloadTieBreak reports whether a candidate scoring candScore beats the
// current best (hasBest is false when there isn't one yet). Tie-break
// order: higher score, then fewer type parameters, then fewer parameters,
// then a lexicographically smaller stable ID.
func overloadTieBreak(candScore int, cand catalog.MethodSignatureEntry, bestScore int, best catalog.MethodSignatureEntry, hasBest bool) bool {
	if !hasBest {
		return true
	}
	if candScore != bestScore {
		return candScore > bestScore
	}
	if len(cand.TypeParameters) != len(best.TypeParameters) {
		return len(cand.TypeParameters) < len(best.TypeParameters)
	}
	if len(cand.Parameters) != len(best.Parameters) {
		return len(cand.Parameters) < len(best.Parameters)
	}
	return cand.StableID < best.StableID
}
