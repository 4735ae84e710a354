// Package callresolve implements call resolution: receiver substitution,
// method type-parameter unification from four ordered sources, contextual
// return typing, the structural unifier, and catalog overload correction.
// It is the subsystem that turns a captured call/new expression plus its
// argument types into a fully-substituted ResolvedCall.
package callresolve

import (
	"github.com/tsoniclang/typeauthority/internal/catalog"
	"github.com/tsoniclang/typeauthority/internal/diagnostics"
	"github.com/tsoniclang/typeauthority/internal/handle"
	"github.com/tsoniclang/typeauthority/internal/ir"
)

// TypePredicate is a narrowed `x is T` result, surfaced instead of modeled
// as flow-sensitive narrowing.
type TypePredicate struct {
	ParamName string
	Type      ir.Type
}

// CallQuery is the input to ResolveCall.
type CallQuery struct {
	SigID              handle.SignatureId
	ArgumentCount      int
	ReceiverType       ir.Type // nil if this is a free function call
	ExplicitTypeArgs   []ir.Type
	ArgTypes           []ir.Type // may be shorter than ArgumentCount, or nil
	ExpectedReturnType ir.Type   // nil if no contextual expectation
}

// ResolvedCall is the output of ResolveCall. ParameterTypes and
// ParameterModes always have length == ArgumentCount, even when poisoned —
// never nil for a positive arity.
type ResolvedCall struct {
	ParameterTypes []ir.Type
	ParameterModes []handle.ParamMode
	ReturnType     ir.Type
	TypePredicate  *TypePredicate
	Diagnostics    []*diagnostics.DiagnosticError
}

func poisoned(arity int, diags ...*diagnostics.DiagnosticError) ResolvedCall {
	params := make([]ir.Type, arity)
	modes := make([]handle.ParamMode, arity)
	for i := range params {
		params[i] = ir.Unknown
	}
	return ResolvedCall{
		ParameterTypes: params,
		ParameterModes: modes,
		ReturnType:     ir.Unknown,
		Diagnostics:    diags,
	}
}

// Resolver holds the shared, read-only collaborators call resolution needs:
// the signature registry, the nominal environment, the syntax converter,
// and a per-instance raw-signature cache.
type Resolver struct {
	Registry handle.Registry
	Env      *catalog.Env
	Convert  handle.SyntaxConverter

	sigCache map[handle.SignatureId]rawSignature
}

// NewResolver constructs a call Resolver with an empty signature cache.
func NewResolver(reg handle.Registry, env *catalog.Env, conv handle.SyntaxConverter) *Resolver {
	return &Resolver{Registry: reg, Env: env, Convert: conv, sigCache: make(map[handle.SignatureId]rawSignature)}
}

// rawSignature is the loaded-and-converted form of a SignatureId: every
// TypeNode has been run through the syntax converter, optional parameters
// already have `| undefined` folded into their IR type.
type rawSignature struct {
	params         []paramWorking
	returnType     ir.Type
	typeParams     []typeParamWorking
	thisType       ir.Type // nil if none
	declaringType  string
	memberName     string
	predicateParam string
	predicateType  ir.Type
	isConstructor  bool
}

type paramWorking struct {
	name string
	typ  ir.Type
	mode handle.ParamMode
	rest bool
}

type typeParamWorking struct {
	name       string
	constraint ir.Type
	def        ir.Type
}

// loadSignature loads and converts a signature's raw syntax into working
// form, cached by SignatureId.
func (r *Resolver) loadSignature(id handle.SignatureId) (rawSignature, bool) {
	if cached, ok := r.sigCache[id]; ok {
		return cached, true
	}
	info, ok := r.Registry.GetSignature(id)
	if !ok {
		return rawSignature{}, false
	}

	params := make([]paramWorking, len(info.Parameters))
	for i, p := range info.Parameters {
		var t ir.Type = ir.Unknown
		if p.TypeNode != 0 {
			t = r.Convert.ConvertTypeNode(p.TypeNode)
		}
		if p.IsOptional {
			t = ir.NormalizeUnion([]ir.Type{t, ir.PrimitiveType{Name: ir.PrimUndefined}})
		}
		params[i] = paramWorking{name: p.Name, typ: t, mode: p.Mode, rest: p.IsRest}
	}

	var ret ir.Type = ir.Void
	if info.IsConstructor {
		ret = ir.ReferenceType{Name: info.DeclaringTypeTsName}
	} else if info.ReturnTypeNode != 0 {
		ret = r.Convert.ConvertTypeNode(info.ReturnTypeNode)
	}

	typeParams := make([]typeParamWorking, len(info.TypeParameters))
	for i, tp := range info.TypeParameters {
		w := typeParamWorking{name: tp.Name}
		if tp.ConstraintNode != 0 {
			w.constraint = r.Convert.ConvertTypeNode(tp.ConstraintNode)
		}
		if tp.DefaultNode != 0 {
			w.def = r.Convert.ConvertTypeNode(tp.DefaultNode)
		}
		typeParams[i] = w
	}

	var thisType ir.Type
	if info.ThisTypeNode != 0 {
		thisType = r.Convert.ConvertTypeNode(info.ThisTypeNode)
	}

	var predicateType ir.Type
	if info.HasTypePredicate() {
		predicateType = r.Convert.ConvertTypeNode(info.TypePredicateTypeNode)
	}

	raw := rawSignature{
		params:         params,
		returnType:     ret,
		typeParams:     typeParams,
		thisType:       thisType,
		declaringType:  info.DeclaringTypeTsName,
		memberName:     info.DeclaringMemberName,
		predicateParam: info.TypePredicateParam,
		predicateType:  predicateType,
		isConstructor:  info.IsConstructor,
	}
	r.sigCache[id] = raw
	return raw, true
}

// stripExtensionWrapper erases a TS-only `__TsonicExt_*` extension-method
// receiver wrapper down to its underlying CLR shape. Such wrappers exist
// only to carry an extension method's static-class origin through TS's own
// type system; once we're resolving against the catalog they're noise.
func stripExtensionWrapper(t ir.Type) ir.Type {
	ref, ok := t.(ir.ReferenceType)
	if !ok {
		return t
	}
	const prefix = "__TsonicExt_"
	if len(ref.Name) > len(prefix) && ref.Name[:len(prefix)] == prefix {
		if len(ref.TypeArguments) == 1 {
			return ref.TypeArguments[0]
		}
	}
	return t
}
