package callresolve

import (
	"github.com/tsoniclang/typeauthority/internal/catalog"
	"github.com/tsoniclang/typeauthority/internal/ir"
)

// unifyFromArgument structurally walks one (parameterType, argumentType)
// pair, binding any method type parameter it finds in parameterType to the
// corresponding subtree of argumentType into bindings. Conflicting binds for
// the same name are left for the caller to detect (it records every
// candidate, not just the first). unknown/any arguments contribute nothing —
// they unify against anything without constraining a type parameter. env
// supplies the NominalEnv a ReferenceType pair needs to flow an argument
// through its inheritance chain when the two sides don't name the same
// nominal type directly; it may be nil (unification then skips that step).
func unifyFromArgument(env *catalog.Env, paramType, argType ir.Type, typeParamNames map[string]bool, bindings map[string][]ir.Type) {
	if argType == nil {
		return
	}
	if _, ok := argType.(ir.UnknownType); ok {
		return
	}
	if _, ok := argType.(ir.AnyType); ok {
		return
	}

	switch pt := paramType.(type) {
	case ir.TypeParameterType:
		if typeParamNames[pt.Name] {
			bindings[pt.Name] = append(bindings[pt.Name], argType)
		}
		return

	case ir.ArrayType:
		switch at := argType.(type) {
		case ir.ArrayType:
			unifyFromArgument(env, pt.ElementType, at.ElementType, typeParamNames, bindings)
		case ir.ReferenceType:
			// `Array<T>` argument flowing into a `T[]` parameter position.
			if len(at.TypeArguments) == 1 && isArrayFacade(at) {
				unifyFromArgument(env, pt.ElementType, at.TypeArguments[0], typeParamNames, bindings)
			}
		}
		return

	case ir.ReferenceType:
		unifyReferenceFromArgument(env, pt, argType, typeParamNames, bindings)
		return

	case ir.TupleType:
		at, ok := argType.(ir.TupleType)
		if !ok || len(at.ElementTypes) != len(pt.ElementTypes) {
			return
		}
		for i := range pt.ElementTypes {
			unifyFromArgument(env, pt.ElementTypes[i], at.ElementTypes[i], typeParamNames, bindings)
		}
		return

	case ir.FunctionType:
		unifyFunctionFromArgument(env, pt, argType, typeParamNames, bindings)
		return

	case ir.UnionType:
		// A single-non-nullish-constituent parameter union (`T | undefined`,
		// `T | null`) unifies its live constituent against a non-nullish
		// argument; a nullish argument matches the union's nullish branch
		// instead, which is concrete and binds nothing. A genuinely
		// multi-constituent union contributes no binding (ambiguous which arm
		// the argument matches).
		live := nonNullishConstituents(pt.Types)
		if len(live) == 1 {
			if p, ok := argType.(ir.PrimitiveType); ok && p.Name.IsNullish() {
				return
			}
			unifyFromArgument(env, live[0], argType, typeParamNames, bindings)
		}
		return

	case ir.IntersectionType:
		for _, m := range pt.Types {
			unifyFromArgument(env, m, argType, typeParamNames, bindings)
		}
		return

	case ir.DictionaryType:
		at, ok := argType.(ir.DictionaryType)
		if !ok {
			return
		}
		unifyFromArgument(env, pt.KeyType, at.KeyType, typeParamNames, bindings)
		unifyFromArgument(env, pt.ValueType, at.ValueType, typeParamNames, bindings)
		return
	}
}

func nonNullishConstituents(types []ir.Type) []ir.Type {
	var out []ir.Type
	for _, t := range types {
		if p, ok := t.(ir.PrimitiveType); ok && p.Name.IsNullish() {
			continue
		}
		out = append(out, t)
	}
	return out
}

func isArrayFacade(t ir.ReferenceType) bool {
	return t.Name == "Array" || t.Name == "ReadonlyArray" || t.Name == "IReadOnlyList" || t.Name == "List" || t.Name == "IList"
}

func isExpressionWrapper(t ir.ReferenceType) bool {
	return (t.Name == "Expression" || t.Name == "Expression_1") && len(t.TypeArguments) == 1
}

func unwrapExpression(t ir.Type) ir.Type {
	if ref, ok := t.(ir.ReferenceType); ok && isExpressionWrapper(ref) {
		return ref.TypeArguments[0]
	}
	return t
}

// sameReferenceHead reports whether two references name the same nominal
// type: by canonical TypeID when both sides carry one, by surface name
// otherwise.
func sameReferenceHead(a, b ir.ReferenceType) bool {
	if !a.TypeID.IsZero() && !b.TypeID.IsZero() {
		return a.TypeID == b.TypeID
	}
	return a.Name == b.Name
}

// unifyReferenceFromArgument handles a ReferenceType parameter: direct
// reference-to-reference structural recursion on shared type arguments when
// both sides name the same nominal type, `Expression<T>` single-argument
// wrapper unwrapping, conversion of a delegate parameter to its Invoke
// function type for a function-typed argument, and — failing those — flowing the
// argument through its own flattened inheritance chain to the parameter's
// nominal TypeId via NominalEnv.GetInstantiation, then unifying the
// parameter's own type arguments against the materialized ancestor
// arguments (the case where a receiver subclass argument flows into a
// base-generic-typed parameter, e.g. an `IEnumerable<T>` parameter fed a
// `List<int>` argument).
func unifyReferenceFromArgument(env *catalog.Env, pt ir.ReferenceType, argType ir.Type, typeParamNames map[string]bool, bindings map[string][]ir.Type) {
	// `Expression<T>` wrapper on the parameter (C#-style lambda→expression
	// conversion): unify through its single type argument, unwrapping a
	// same-shaped wrapper on the argument side too.
	if isExpressionWrapper(pt) {
		unifyFromArgument(env, pt.TypeArguments[0], unwrapExpression(argType), typeParamNames, bindings)
		return
	}
	at, ok := argType.(ir.ReferenceType)
	if !ok {
		// A lambda/function-typed argument flowing into a delegate parameter
		// (e.g. a `Func<T, U>`-shaped reference): convert the parameter to its
		// equivalent FunctionType and unify elementwise against the argument.
		if fnArg, isFn := argType.(ir.FunctionType); isFn && env != nil {
			if fnParam, ok := env.DelegateToFunctionType(pt); ok {
				unifyFunctionFromArgument(env, fnParam, fnArg, typeParamNames, bindings)
			}
		}
		return
	}
	if sameReferenceHead(pt, at) && len(pt.TypeArguments) == len(at.TypeArguments) {
		for i := range pt.TypeArguments {
			unifyFromArgument(env, pt.TypeArguments[i], at.TypeArguments[i], typeParamNames, bindings)
		}
		return
	}
	if env == nil || len(pt.TypeArguments) == 0 {
		return
	}
	ptID := pt.TypeID
	if ptID.IsZero() {
		name := pt.ResolvedCLRType
		if name == "" {
			name = pt.Name
		}
		id, ok := env.ResolveTypeIDByName(name, len(pt.TypeArguments))
		if !ok {
			return
		}
		ptID = id
	}
	atID, atArgs, ok := env.NormalizeToNominal(at)
	if !ok || atID == ptID {
		return
	}
	sub, ok := env.GetInstantiation(atID, atArgs, ptID)
	if !ok {
		return
	}
	for i, tp := range env.GetTypeParameters(ptID) {
		if i >= len(pt.TypeArguments) {
			break
		}
		materialized, ok := sub[tp.Name]
		if !ok {
			continue
		}
		unifyFromArgument(env, pt.TypeArguments[i], materialized, typeParamNames, bindings)
	}
}

// unifyFunctionFromArgument unifies a function-type parameter position
// against either a literal FunctionType argument (a lambda) or a delegate
// ReferenceType argument exposing a matching Invoke signature (converted via
// env.DelegateToFunctionType), elementwise over parameters then the return
// type.
func unifyFunctionFromArgument(env *catalog.Env, pt ir.FunctionType, argType ir.Type, typeParamNames map[string]bool, bindings map[string][]ir.Type) {
	at, ok := argType.(ir.FunctionType)
	if !ok {
		if ref, isRef := argType.(ir.ReferenceType); isRef && env != nil {
			fnArg, delOk := env.DelegateToFunctionType(ref)
			if !delOk {
				return
			}
			at = fnArg
		} else {
			return
		}
	}
	n := len(pt.Parameters)
	if len(at.Parameters) < n {
		n = len(at.Parameters)
	}
	for i := 0; i < n; i++ {
		unifyFromArgument(env, pt.Parameters[i], at.Parameters[i], typeParamNames, bindings)
	}
	unifyFromArgument(env, pt.ReturnType, at.ReturnType, typeParamNames, bindings)
}

// unifyFromExpectedReturn unifies a method's declared return type against a
// caller's contextual expected-return-type, the fourth and lowest-priority
// source of method type-argument information. The expected type is first
// expanded into every candidate shape it could plausibly mean — its own
// union branches, its alias body, and (for Promise/Task/ValueTask) its
// awaited inner type — and each candidate is unified independently. A name
// bound to disagreeing types by two different candidates makes the whole
// source untrustworthy, so it contributes nothing at all rather than one
// arbitrary guess.
func unifyFromExpectedReturn(env *catalog.Env, returnType, expected ir.Type, typeParamNames map[string]bool, bindings map[string][]ir.Type) {
	if expected == nil {
		return
	}
	candidates := expectedReturnCandidates(env, expected)

	var perCandidate []map[string]ir.Type
	for _, cand := range candidates {
		local := map[string][]ir.Type{}
		unifyFromArgument(env, returnType, cand, typeParamNames, local)
		resolved := make(map[string]ir.Type, len(local))
		for name, vals := range local {
			if len(vals) == 0 {
				continue
			}
			agree := true
			for _, v := range vals[1:] {
				if v.String() != vals[0].String() {
					agree = false
					break
				}
			}
			if agree {
				resolved[name] = vals[0]
			}
		}
		if len(resolved) > 0 {
			perCandidate = append(perCandidate, resolved)
		}
	}
	if len(perCandidate) == 0 {
		return
	}

	merged := make(map[string]ir.Type, len(perCandidate[0]))
	for _, m := range perCandidate {
		for name, v := range m {
			if existing, ok := merged[name]; ok {
				if existing.String() != v.String() {
					// Conflicting candidate maps: abandon the expected-return
					// source entirely rather than guess between them.
					return
				}
				continue
			}
			merged[name] = v
		}
	}
	for name, v := range merged {
		bindings[name] = append(bindings[name], v)
	}
}

// expectedReturnCandidates expands expected into every shape the
// expected-return source should try: the type itself, each branch
// of a union, one level of alias-body expansion via the catalog, and — for
// an awaitable reference (Promise/Task/ValueTask) — its unwrapped inner
// type.
func expectedReturnCandidates(env *catalog.Env, expected ir.Type) []ir.Type {
	candidates := []ir.Type{expected}
	if u, ok := expected.(ir.UnionType); ok {
		candidates = append(candidates, u.Types...)
	}
	if env != nil {
		if alias := env.ResolveTypeAlias(expected); alias.String() != expected.String() {
			candidates = append(candidates, alias)
		}
	}
	if ref, ok := expected.(ir.ReferenceType); ok {
		switch ref.Name {
		case "Promise", "Task", "ValueTask":
			if len(ref.TypeArguments) == 1 {
				candidates = append(candidates, ref.TypeArguments[0])
			}
		}
	}
	return candidates
}
