package handle

// DeclKind classifies what a DeclId points at. Mirrors the finite set of
// declaration shapes Binding ever captures from TS source.
type DeclKind int

const (
	DeclVariable DeclKind = iota
	DeclFunction
	DeclClass
	DeclInterface
	DeclTypeAlias
	DeclEnum
	DeclParameter
	DeclProperty
	DeclMethod
)

// String renders a DeclKind for diagnostic messages.
func (k DeclKind) String() string {
	switch k {
	case DeclVariable:
		return "variable"
	case DeclFunction:
		return "function"
	case DeclClass:
		return "class"
	case DeclInterface:
		return "interface"
	case DeclTypeAlias:
		return "typeAlias"
	case DeclEnum:
		return "enum"
	case DeclParameter:
		return "parameter"
	case DeclProperty:
		return "property"
	case DeclMethod:
		return "method"
	default:
		return "unknown"
	}
}

// ParamMode captures a CLR parameter-passing modifier. TS itself has no
// concept of ref/out/in; Binding recovers it from the declaring CLR
// signature (for catalog members) or defaults to Value (for TS-authored
// functions).
type ParamMode int

const (
	ParamValue ParamMode = iota
	ParamRef
	ParamOut
	ParamIn
)

func (m ParamMode) String() string {
	switch m {
	case ParamRef:
		return "ref"
	case ParamOut:
		return "out"
	case ParamIn:
		return "in"
	default:
		return "value"
	}
}

// ExprId identifies a captured expression node (initializer, lambda body,
// call argument) the deterministic expression typer walks structurally.
// Like the other handles, it is opaque: inference never inspects the AST
// behind it except through the shapes ExprRegistry exposes.
type ExprId int64

// DeclInfo is everything Binding captured about one declaration.
type DeclInfo struct {
	TypeNode         TypeSyntaxId // 0 if no explicit annotation
	Kind             DeclKind
	FQName           string
	Initializer      ExprId // 0 if none (e.g. function decl, parameter)
	ClassMemberNames []string
}

// HasTypeNode reports whether Binding captured an explicit annotation.
func (d DeclInfo) HasTypeNode() bool {
	return d.TypeNode != 0
}

// ParamInfo is one captured parameter of a signature.
type ParamInfo struct {
	Name       string
	TypeNode   TypeSyntaxId // 0 if untyped (rare: inferred from context only)
	IsOptional bool
	IsRest     bool
	Mode       ParamMode
}

// TypeParamInfo is one captured method/function type parameter.
type TypeParamInfo struct {
	Name           string
	ConstraintNode TypeSyntaxId // 0 if unconstrained
	DefaultNode    TypeSyntaxId // 0 if no default
}

// SignatureInfo is everything Binding captured about one call/method
// signature.
type SignatureInfo struct {
	Parameters           []ParamInfo
	ReturnTypeNode        TypeSyntaxId // 0 for constructors (synthesized instead)
	TypeParameters        []TypeParamInfo
	ThisTypeNode          TypeSyntaxId // 0 if no explicit `this` parameter
	DeclaringTypeTsName   string
	DeclaringMemberName   string
	TypePredicateParam    string // parameter name a `x is T` predicate narrows, "" if none
	TypePredicateTypeNode TypeSyntaxId
	IsConstructor         bool
}

// HasTypePredicate reports whether this signature narrows via `x is T`.
func (s SignatureInfo) HasTypePredicate() bool {
	return s.TypePredicateParam != "" && s.TypePredicateTypeNode != 0
}

// MemberInfo is everything Binding captured about one class/interface
// member declaration (used for structural object-literal members, not
// catalog members — those live in catalog.MemberEntry).
type MemberInfo struct {
	Name       string
	TypeNode   TypeSyntaxId
	IsOptional bool
	IsReadonly bool
	IsIndexer  bool
}

// TypeSyntaxInfo wraps one captured TypeNode for the external syntax
// converter.
type TypeSyntaxInfo struct {
	Node any // opaque to everything except the SyntaxConverter
}

// Registry is the read-only view Binding exposes over everything it
// captured from source. The TypeAuthority never mutates it and never walks
// behind the opaque TypeSyntaxId.Node field itself — only SyntaxConverter
// (external, see converter.go) may do that.
type Registry interface {
	GetDecl(DeclId) (DeclInfo, bool)
	GetSignature(SignatureId) (SignatureInfo, bool)
	GetMember(MemberId) (MemberInfo, bool)
	GetTypeSyntax(TypeSyntaxId) (TypeSyntaxInfo, bool)
}
