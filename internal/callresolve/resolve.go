package callresolve

import (
	"sort"

	"github.com/tsoniclang/typeauthority/internal/catalog"
	"github.com/tsoniclang/typeauthority/internal/diagnostics"
	"github.com/tsoniclang/typeauthority/internal/handle"
	"github.com/tsoniclang/typeauthority/internal/ir"
	"github.com/tsoniclang/typeauthority/internal/relations"
	"github.com/tsoniclang/typeauthority/internal/subst"
)

// ResolveCall runs the full call-resolution pipeline for one captured
// call/new/indexer expression: load the raw signature, substitute its
// receiver's own type parameters, unify its method type parameters from
// explicit type arguments, `this`-typing, argument types, and an expected
// return type (checked in that priority order, each later source only
// filling gaps the earlier ones left open), detect unresolved-but-required
// type parameters and — when one still reaches the return type — retry
// against every catalog sibling overload before poisoning to unknownType,
// fall back to a catalog-member overload correction pass, and finally
// substitute every parameter and the return type with the composed
// substitution.
func (r *Resolver) ResolveCall(q CallQuery) ResolvedCall {
	raw, ok := r.loadSignature(q.SigID)
	if !ok {
		return poisoned(q.ArgumentCount, diagnostics.NewUnlocated(
			diagnostics.ResolutionFailed, "call resolution: unknown signature id %d", q.SigID,
		))
	}

	receiverSubst := subst.Subst{}
	receiver := q.ReceiverType
	if receiver != nil {
		receiver = stripExtensionWrapper(receiver)
	}
	if receiver != nil && raw.declaringType != "" {
		if recvID, recvArgs, ok := r.Env.NormalizeToNominal(receiver); ok {
			if declID, ok := r.Env.ResolveTypeIDByName(raw.declaringType, -1); ok {
				if s, ok := r.Env.GetInstantiation(recvID, recvArgs, declID); ok {
					receiverSubst = s
				}
			}
		}
	}

	params := make([]ir.Type, len(raw.params))
	for i, p := range raw.params {
		params[i] = subst.Apply(p.typ, receiverSubst)
	}
	returnType := subst.Apply(raw.returnType, receiverSubst)

	typeParamNames := make(map[string]bool, len(raw.typeParams))
	for _, tp := range raw.typeParams {
		typeParamNames[tp.name] = true
	}

	methodSubst, unresolved, diags := r.unifyMethodTypeArgs(raw, params, q, typeParamNames, receiverSubst)

	finalParams := make([]ir.Type, len(params))
	for i, p := range params {
		finalParams[i] = subst.Apply(p, methodSubst)
	}
	finalReturn := subst.Apply(returnType, methodSubst)

	modes := make([]handle.ParamMode, len(raw.params))
	for i, p := range raw.params {
		modes[i] = p.mode
	}

	// Unresolved check: a method type parameter left unbound by every
	// ordinary source, with no declared default, that still appears in the
	// working return gets one more chance via the catalog overload fallback
	// before it is poisoned to unknownType.
	fellBackToCatalog := false
	if len(unresolved) > 0 && relations.ContainsTypeParameter(finalReturn) {
		if fbParams, fbReturn, fbModes, ok := r.catalogOverloadFallback(raw, q, receiverSubst); ok {
			finalParams, finalReturn, modes = fbParams, fbReturn, fbModes
			fellBackToCatalog = true
		}
	}
	if !fellBackToCatalog {
		for _, n := range unresolved {
			methodSubst[n] = ir.Unknown
			diags = append(diags, diagnostics.NewUnlocated(
				diagnostics.UnresolvedTypeArgs,
				"could not infer type argument %q from arguments, receiver, or expected return type", n,
			))
		}
		for i, p := range params {
			finalParams[i] = subst.Apply(p, methodSubst)
		}
		finalReturn = subst.Apply(returnType, methodSubst)
		finalParams, modes = padToArity(finalParams, modes, q.ArgumentCount)
	}

	// CLR overload correction only applies to the TS-selected signature;
	// the catalog fallback above already picked its own best scorer via the
	// same scoring, so re-running correction against it would compare the
	// wrong baseline.
	if !fellBackToCatalog && raw.declaringType != "" && raw.memberName != "" {
		if declID, ok := r.Env.ResolveTypeIDByName(raw.declaringType, -1); ok {
			chosen := r.asMethodEntry(raw)
			corrected := correctOverload(r.Env, declID, raw.memberName, q.ArgTypes, chosen, methodSubst)
			if corrected.StableID != "" && corrected.StableID != chosen.StableID {
				finalParams = substList(corrected.Parameters, methodSubst, q.ArgumentCount)
				finalReturn = subst.Apply(corrected.ReturnType, methodSubst)
				modes = modesOf(corrected.Parameters, q.ArgumentCount)
			}
		}
	}

	var predicate *TypePredicate
	if raw.predicateParam != "" {
		predicate = &TypePredicate{ParamName: raw.predicateParam, Type: subst.Apply(raw.predicateType, methodSubst)}
	}

	return ResolvedCall{
		ParameterTypes: finalParams,
		ParameterModes: modes,
		ReturnType:     finalReturn,
		TypePredicate:  predicate,
		Diagnostics:    diags,
	}
}

// unifyMethodTypeArgs implements the four-source method type-parameter
// unification in priority order: explicit type arguments always win
// outright; otherwise a `this`-parameter/receiver-driven bind, then
// argument-driven binds from every (parameter, argument) pair, then an
// expected-return-type-driven bind fill in whatever explicit args left
// open. A type parameter with more than one distinct candidate bind from
// the SAME source is a conflict; candidates from different sources never
// conflict with each other because a higher-priority source's bind, once
// made, removes that name from later sources' consideration. Names left
// with no binding from any source and no declared default are reported
// back in the second return value rather than poisoned here, so the
// caller can still try the catalog overload fallback before giving up on
// them.
func (r *Resolver) unifyMethodTypeArgs(raw rawSignature, params []ir.Type, q CallQuery, typeParamNames map[string]bool, receiverSubst subst.Subst) (subst.Subst, []string, []*diagnostics.DiagnosticError) {
	result := subst.Subst{}
	var diags []*diagnostics.DiagnosticError
	remaining := make(map[string]bool, len(typeParamNames))
	for k := range typeParamNames {
		remaining[k] = true
	}

	// Source 1: explicit type arguments, positional by declaration order.
	for i, tp := range raw.typeParams {
		if i >= len(q.ExplicitTypeArgs) {
			break
		}
		result[tp.name] = q.ExplicitTypeArgs[i]
		delete(remaining, tp.name)
	}

	// Source 2: `this`-parameter-driven unification against the receiver.
	if len(remaining) > 0 && raw.thisType != nil && q.ReceiverType != nil {
		bindings := map[string][]ir.Type{}
		unifyFromArgument(r.Env, subst.Apply(raw.thisType, receiverSubst), q.ReceiverType, remaining, bindings)
		d := commitBindings(result, remaining, bindings)
		diags = append(diags, d...)
	}

	// Source 3: argument-driven unification, one parameter/argument pair at
	// a time in declaration order.
	if len(remaining) > 0 {
		bindings := map[string][]ir.Type{}
		n := len(params)
		if len(q.ArgTypes) < n {
			n = len(q.ArgTypes)
		}
		for i := 0; i < n; i++ {
			unifyFromArgument(r.Env, params[i], q.ArgTypes[i], remaining, bindings)
		}
		d := commitBindings(result, remaining, bindings)
		diags = append(diags, d...)
	}

	// Source 4: expected-return-type-driven unification, lowest priority.
	if len(remaining) > 0 && q.ExpectedReturnType != nil {
		bindings := map[string][]ir.Type{}
		unifyFromExpectedReturn(r.Env, subst.Apply(raw.returnType, receiverSubst), q.ExpectedReturnType, remaining, bindings)
		d := commitBindings(result, remaining, bindings)
		diags = append(diags, d...)
	}

	// Anything still unresolved falls back to each type parameter's own
	// declared default; a name with no default is handed back to the
	// caller as genuinely unresolved rather than poisoned here (never a
	// hard failure either way — the caller either recovers it through the
	// catalog overload fallback or degrades it to unknownType with a
	// diagnostic, it does not poison the whole call).
	var unresolved []string
	if len(remaining) > 0 {
		names := make([]string, 0, len(remaining))
		for n := range remaining {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			def := findDefault(raw.typeParams, n)
			if def != nil {
				result[n] = subst.Apply(def, result)
			} else {
				unresolved = append(unresolved, n)
			}
		}
	}

	return result, unresolved, diags
}

// commitBindings resolves each type parameter's collected candidate binds
// down to a single type — all candidates must be structurally equal to each
// other, or the parameter is poisoned to unknownType with a
// TYPE-ARG-CONFLICT diagnostic — and removes every committed name from
// remaining.
func commitBindings(result subst.Subst, remaining map[string]bool, bindings map[string][]ir.Type) []*diagnostics.DiagnosticError {
	var diags []*diagnostics.DiagnosticError
	names := make([]string, 0, len(bindings))
	for n := range bindings {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		cands := bindings[n]
		if len(cands) == 0 {
			continue
		}
		chosen := cands[0]
		conflict := false
		for _, c := range cands[1:] {
			if c.String() != chosen.String() {
				conflict = true
				break
			}
		}
		if conflict {
			result[n] = ir.Unknown
			diags = append(diags, diagnostics.NewUnlocated(
				diagnostics.TypeArgConflict,
				"conflicting inferred types for type parameter %q", n,
			))
		} else {
			result[n] = chosen
		}
		delete(remaining, n)
	}
	return diags
}

func findDefault(typeParams []typeParamWorking, name string) ir.Type {
	for _, tp := range typeParams {
		if tp.name == name {
			return tp.def
		}
	}
	return nil
}

func padToArity(params []ir.Type, modes []handle.ParamMode, arity int) ([]ir.Type, []handle.ParamMode) {
	if len(params) == arity {
		return params, modes
	}
	if len(params) > arity {
		return params[:arity], modes[:arity]
	}
	outP := make([]ir.Type, arity)
	outM := make([]handle.ParamMode, arity)
	copy(outP, params)
	copy(outM, modes)
	last := ir.Unknown
	var lastMode handle.ParamMode
	if len(params) > 0 {
		last = params[len(params)-1]
		lastMode = modes[len(modes)-1]
	}
	for i := len(params); i < arity; i++ {
		outP[i] = last
		outM[i] = lastMode
	}
	return outP, outM
}

func (r *Resolver) asMethodEntry(raw rawSignature) catalog.MethodSignatureEntry {
	params := make([]catalog.ParamEntry, len(raw.params))
	for i, p := range raw.params {
		params[i] = catalog.ParamEntry{Name: p.name, Type: p.typ, Mode: p.mode}
	}
	return catalog.MethodSignatureEntry{Parameters: params, ReturnType: raw.returnType}
}

func substList(params []catalog.ParamEntry, s subst.Subst, arity int) []ir.Type {
	out := make([]ir.Type, len(params))
	for i, p := range params {
		out[i] = subst.Apply(p.Type, s)
	}
	padded, _ := padToArity(out, modesOf(params, arity), arity)
	return padded
}

func modesOf(params []catalog.ParamEntry, arity int) []handle.ParamMode {
	out := make([]handle.ParamMode, len(params))
	for i, p := range params {
		out[i] = p.Mode
	}
	if len(out) == arity {
		return out
	}
	if len(out) > arity {
		return out[:arity]
	}
	padded := make([]handle.ParamMode, arity)
	copy(padded, out)
	var last handle.ParamMode
	if len(out) > 0 {
		last = out[len(out)-1]
	}
	for i := len(out); i < arity; i++ {
		padded[i] = last
	}
	return padded
}
