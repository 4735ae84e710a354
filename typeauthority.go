// Package typeauthority is the deterministic type authority for a
// TypeScript-to-CLR transpiler: the single facility that answers every type
// query the rest of the compiler needs — declaration types, member access,
// generic instantiation, call resolution, utility-type expansion,
// assignability, and structural equality — without ever consulting a host
// TypeScript compiler's computed-type APIs. Every answer derives from three
// sources only: explicit type annotations, structural inspection of
// literals/expressions, and a prebuilt nominal catalog.
package typeauthority

import (
	"github.com/tsoniclang/typeauthority/internal/callresolve"
	"github.com/tsoniclang/typeauthority/internal/catalog"
	"github.com/tsoniclang/typeauthority/internal/diagnostics"
	"github.com/tsoniclang/typeauthority/internal/handle"
	"github.com/tsoniclang/typeauthority/internal/inference"
	"github.com/tsoniclang/typeauthority/internal/ir"
	"github.com/tsoniclang/typeauthority/internal/relations"
	"github.com/tsoniclang/typeauthority/internal/subst"
	"github.com/tsoniclang/typeauthority/internal/utility"
)

// Re-exported type and member shapes, so a caller never needs to import the
// internal packages directly.
type (
	Type              = ir.Type
	TypeID            = ir.TypeID
	PrimitiveType     = ir.PrimitiveType
	ReferenceType     = ir.ReferenceType
	ArrayType         = ir.ArrayType
	TupleType         = ir.TupleType
	FunctionType      = ir.FunctionType
	UnionType         = ir.UnionType
	IntersectionType  = ir.IntersectionType
	ObjectType        = ir.ObjectType
	DictionaryType    = ir.DictionaryType
	LiteralType       = ir.LiteralType
	TypeParameterType = ir.TypeParameterType
	Member            = ir.Member

	DeclId       = handle.DeclId
	SignatureId  = handle.SignatureId
	MemberId     = handle.MemberId
	TypeSyntaxId = handle.TypeSyntaxId
	ExprId       = handle.ExprId

	CallQuery     = callresolve.CallQuery
	ResolvedCall  = callresolve.ResolvedCall
	TypePredicate = callresolve.TypePredicate
	ParamMode     = handle.ParamMode
	IndexerInfo   = inference.IndexerInfo

	UtilityName = utility.Name

	Diagnostic = diagnostics.DiagnosticError
	Location   = diagnostics.Location
)

// unknownType, neverType, voidType are the three documented factory
// constants: the poison/absence values every query degrades to rather than
// erroring.
var (
	UnknownType Type = ir.Unknown
	NeverType   Type = ir.Never
	VoidType    Type = ir.Void
	AnyType     Type = ir.Any
)

// BuiltinNominals re-exports the fixed TS-primitive-to-CLR-facade bridge.
var BuiltinNominals = catalog.BuiltinNominals

const (
	UtilityNonNullable = utility.NonNullable
	UtilityPartial     = utility.Partial
	UtilityRequired    = utility.Required
	UtilityReadonly    = utility.Readonly
	UtilityPick        = utility.Pick
	UtilityOmit        = utility.Omit
	UtilityExclude     = utility.Exclude
	UtilityExtract     = utility.Extract
	UtilityReturnType  = utility.ReturnType
	UtilityParameters  = utility.Parameters
	UtilityAwaited     = utility.Awaited
	UtilityRecord      = utility.Record
)

// TypeAuthority is the orchestrator: it owns the shared prebuilt state (a
// catalog-backed nominal environment) and the per-instance mutable state
// (caches, diagnostics) for exactly one compilation pass. Construct one per
// compilation via New and discard it at the end; never share an instance,
// or its caches, across compilations.
type TypeAuthority struct {
	registry handle.Registry
	exprs    handle.ExprRegistry
	convert  handle.SyntaxConverter

	env      *catalog.Env
	infer    *inference.Context
	calls    *callresolve.Resolver
	utilExp  *utility.Expander
	diags    *diagnostics.Buffer
}

// New constructs a TypeAuthority over a prebuilt nominal catalog and alias
// table plus the Binding-supplied registries and syntax converter. cat and
// aliases are typically built once per process and shared read-only across
// many TypeAuthority instances (one per compilation); reg, exprs, and conv
// are scoped to a single compilation's program graph.
func New(cat *catalog.Catalog, aliases *catalog.AliasTable, reg handle.Registry, exprs handle.ExprRegistry, conv handle.SyntaxConverter) *TypeAuthority {
	diags := diagnostics.NewBuffer()
	env := catalog.NewEnv(cat, aliases, diags)
	calls := callresolve.NewResolver(reg, env, conv)
	return &TypeAuthority{
		registry: reg,
		exprs:    exprs,
		convert:  conv,
		env:      env,
		infer:    inference.NewContext(reg, exprs, env, conv, calls, diags),
		calls:    calls,
		utilExp:  utility.NewExpander(env),
		diags:    diags,
	}
}

// TypeFromSyntax converts a captured TypeNode to IR via the syntax
// converter — the sole place raw TS type syntax is ever inspected.
func (t *TypeAuthority) TypeFromSyntax(id TypeSyntaxId) Type {
	return t.convert.ConvertTypeNode(id)
}

// TypeOfDecl returns the type of the declaration id names.
func (t *TypeAuthority) TypeOfDecl(id DeclId) Type {
	return t.infer.TypeOfDecl(id)
}

// TypeOfMember returns the type of memberName accessed on receiver.
func (t *TypeAuthority) TypeOfMember(receiver Type, memberName string) Type {
	return t.infer.TypeOfMember(receiver, memberName)
}

// GetIndexerInfo returns receiver's indexer key/value shape, if it has one.
func (t *TypeAuthority) GetIndexerInfo(receiver Type) (IndexerInfo, bool) {
	return t.infer.GetIndexerInfo(receiver)
}

// ResolveCall runs full call resolution for q. Any diagnostics the
// resolution emits are both carried on the returned ResolvedCall and
// accumulated into the instance buffer (the buffer dedupes, so a caller that
// resolves the same failing call twice still surfaces it once).
func (t *TypeAuthority) ResolveCall(q CallQuery) ResolvedCall {
	resolved := t.calls.ResolveCall(q)
	for _, d := range resolved.Diagnostics {
		t.diags.Add(d)
	}
	return resolved
}

// InferExpr types a captured expression with no enclosing lambda scope —
// the entry point variable-initializer inference and ad hoc callers use.
func (t *TypeAuthority) InferExpr(id ExprId) (Type, bool) {
	return t.infer.InferExpr(id)
}

// DelegateToFunctionType converts a delegate reference type (one whose
// catalog entry is a delegate with a single Invoke method) to the
// equivalent FunctionType, or reports ok=false if t isn't a delegate
// reference.
func (t *TypeAuthority) DelegateToFunctionType(typ Type) (FunctionType, bool) {
	return t.env.DelegateToFunctionType(typ)
}

// ExpandUtility expands the named utility type over args.
func (t *TypeAuthority) ExpandUtility(name UtilityName, args []Type) Type {
	return t.utilExp.Expand(name, args, t.diags)
}

// Substitute is a pure recursive rewrite of every type-parameter occurrence
// in typ according to m.
func (t *TypeAuthority) Substitute(typ Type, m map[string]Type) Type {
	return subst.Apply(typ, subst.Subst(m))
}

// Instantiate looks up typeName in the nominal environment and returns a
// ReferenceType carrying typeArgs; it never expands the named type's body.
func (t *TypeAuthority) Instantiate(typeName string, typeArgs []Type) (ReferenceType, bool) {
	id, ok := t.env.ResolveTypeIDByName(typeName, len(typeArgs))
	if !ok {
		return ReferenceType{}, false
	}
	return ReferenceType{Name: typeName, TypeArguments: typeArgs, TypeID: id}, true
}

// IsAssignableTo reports whether source may be used where target is
// expected, per the conservative rules in package relations.
func (t *TypeAuthority) IsAssignableTo(source, target Type) bool {
	return relations.IsAssignableTo(t.env, source, target)
}

// TypesEqual is structural equality with kind-first dispatch.
func (t *TypeAuthority) TypesEqual(a, b Type) bool {
	return relations.TypesEqual(a, b)
}

// ContainsTypeParameter reports whether typ mentions any type parameter.
func (t *TypeAuthority) ContainsTypeParameter(typ Type) bool {
	return relations.ContainsTypeParameter(typ)
}

// HasTypeParameters reports whether a declared type-parameter name list is
// non-empty.
func (t *TypeAuthority) HasTypeParameters(names []string) bool {
	return relations.HasTypeParameters(names)
}

// IsTypeDecl reports whether id names a class, interface, or type alias.
func (t *TypeAuthority) IsTypeDecl(id DeclId) bool {
	return t.infer.IsTypeDecl(id)
}

// IsInterfaceDecl reports whether id specifically names an interface.
func (t *TypeAuthority) IsInterfaceDecl(id DeclId) bool {
	return t.infer.IsInterfaceDecl(id)
}

// SignatureHasConditionalReturn reports whether sigId's return type
// contains a conditional-type shape — structural types carry no
// conditional-type variant of their own (they're pre-resolved by the
// syntax converter), so this is always false for a well-formed capture; a
// captured signature whose return annotation syntax itself encoded a
// conditional type resolves to whatever the converter already decided, and
// that decision is opaque to this introspection.
func (t *TypeAuthority) SignatureHasConditionalReturn(sigId SignatureId) bool {
	return false
}

// SignatureHasVariadicTypeParams reports whether sigId declares a rest
// parameter whose own type involves a type parameter (a `...args: T[]`
// shape), the case that needs variadic-aware arity compatibility during
// overload correction.
func (t *TypeAuthority) SignatureHasVariadicTypeParams(sigId SignatureId) bool {
	info, ok := t.registry.GetSignature(sigId)
	if !ok || len(info.Parameters) == 0 {
		return false
	}
	last := info.Parameters[len(info.Parameters)-1]
	if !last.IsRest || last.TypeNode == 0 {
		return false
	}
	return relations.ContainsTypeParameter(t.convert.ConvertTypeNode(last.TypeNode))
}

// CheckTsClassMemberOverride reports whether derived's own member named
// memberName, if present, overrides a same-named member declared somewhere
// in base's flattened inheritance chain.
func (t *TypeAuthority) CheckTsClassMemberOverride(base, derived TypeID, memberName string) bool {
	if _, ok := t.env.GetMember(derived, memberName); !ok {
		return false
	}
	if _, ok := t.env.GetMember(base, memberName); ok {
		return true
	}
	for _, ancestor := range t.env.InheritanceChain(base) {
		if _, ok := t.env.GetMember(ancestor, memberName); ok {
			return true
		}
	}
	return false
}

// GetFQNameOfDecl returns the fully-qualified name Binding captured for id.
func (t *TypeAuthority) GetFQNameOfDecl(id DeclId) string {
	return t.infer.GetFQNameOfDecl(id)
}

// DeclHasTypeAnnotation reports whether id carries an explicit annotation.
func (t *TypeAuthority) DeclHasTypeAnnotation(id DeclId) bool {
	return t.infer.DeclHasTypeAnnotation(id)
}

// GetDiagnostics returns every diagnostic accumulated so far, in emission
// order.
func (t *TypeAuthority) GetDiagnostics() []*Diagnostic {
	return t.diags.All()
}

// ClearDiagnostics truncates the diagnostic buffer back to empty.
func (t *TypeAuthority) ClearDiagnostics() {
	t.diags.Clear()
}
