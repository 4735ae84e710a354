package callresolve

import (
	"github.com/tsoniclang/typeauthority/internal/catalog"
	"github.com/tsoniclang/typeauthority/internal/handle"
	"github.com/tsoniclang/typeauthority/internal/ir"
	"github.com/tsoniclang/typeauthority/internal/subst"
)

// catalogOverloadFallback is the last-resort resolution pass: when the
// ordinary four-source unification (plus declared defaults) leaves a method
// type parameter unbound and it still appears in the working return type,
// consult the NominalCatalog directly for assembly-origin declaring types.
// It considers every sibling signature of the same member, filters by arity
// compatibility, and runs the identical receiver-substitution + four-source
// unification + defaults pipeline against each candidate on its own terms
// (its own type parameters, independent of whichever overload Binding
// originally captured), scoring every candidate the same way overload
// correction does. ok is
// false when the declaring type isn't assembly-origin, has no such member,
// or has no arity-compatible sibling — the caller then falls through to the
// ordinary unknownType + UNRESOLVED-TYPE-ARGS degradation.
func (r *Resolver) catalogOverloadFallback(raw rawSignature, q CallQuery, receiverSubst subst.Subst) ([]ir.Type, ir.Type, []handle.ParamMode, bool) {
	if raw.declaringType == "" || raw.memberName == "" {
		return nil, nil, nil, false
	}
	declID, ok := r.Env.ResolveTypeIDByName(raw.declaringType, -1)
	if !ok {
		return nil, nil, nil, false
	}
	entry, ok := r.Env.GetByTypeID(declID)
	if !ok || entry.Origin != catalog.OriginAssembly {
		return nil, nil, nil, false
	}
	member, ok := entry.Members[raw.memberName]
	if !ok {
		return nil, nil, nil, false
	}
	candidates := compatibleByArity(member.Signatures, len(q.ArgTypes))
	if len(candidates) == 0 {
		return nil, nil, nil, false
	}

	var best catalog.MethodSignatureEntry
	var bestSubst subst.Subst
	bestScore := 0
	have := false

	for _, cand := range candidates {
		cParams := make([]ir.Type, len(cand.Parameters))
		for i, p := range cand.Parameters {
			cParams[i] = subst.Apply(p.Type, receiverSubst)
		}
		cReturn := subst.Apply(cand.ReturnType, receiverSubst)

		typeParamNames := make(map[string]bool, len(cand.TypeParameters))
		candTypeParams := make([]typeParamWorking, len(cand.TypeParameters))
		for i, tp := range cand.TypeParameters {
			typeParamNames[tp.Name] = true
			candTypeParams[i] = typeParamWorking{name: tp.Name, constraint: tp.Constraint, def: tp.Default}
		}
		candRaw := rawSignature{typeParams: candTypeParams, thisType: raw.thisType, returnType: cReturn}

		methodSubst, unresolved, _ := r.unifyMethodTypeArgs(candRaw, cParams, q, typeParamNames, receiverSubst)
		for _, n := range unresolved {
			methodSubst[n] = ir.Unknown
		}

		score := scoreOverload(r.Env, cand, q.ArgTypes)
		if overloadTieBreak(score, cand, bestScore, best, have) {
			have = true
			bestScore = score
			best = cand
			bestSubst = receiverSubst.Compose(methodSubst)
		}
	}
	if !have {
		return nil, nil, nil, false
	}

	finalParams := substList(best.Parameters, bestSubst, q.ArgumentCount)
	finalReturn := subst.Apply(best.ReturnType, bestSubst)
	finalModes := modesOf(best.Parameters, q.ArgumentCount)
	return finalParams, finalReturn, finalModes, true
}
