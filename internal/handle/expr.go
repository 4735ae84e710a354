package handle

// ExprKind tags the bounded set of expression shapes the deterministic
// expression typer (TypeAuthority's inference package) knows how to walk.
// Binding captures only enough structure to populate these — it performs no
// typing itself.
type ExprKind int

const (
	ExprNumericLiteral ExprKind = iota
	ExprStringLiteral
	ExprTemplateLiteral
	ExprBooleanLiteral
	ExprIdentifier
	ExprPropertyAccess
	ExprElementAccess
	ExprCall
	ExprNew
	ExprAsAssertion
	ExprAngleAssertion
	ExprNonNullAssertion
	ExprAwait
	ExprBinary
	ExprPrefixUnary
	ExprArrayLiteral
	ExprObjectLiteral
	ExprLambda
	ExprParenthesized
)

// BinaryOp classifies the operator of an ExprBinary node. The deterministic
// typer only needs to know which bucket an operator falls in (comparison,
// logical, arithmetic) to type the result, never its exact semantics.
type BinaryOp int

const (
	BinOpArithmetic BinaryOp = iota
	BinOpComparison
	BinOpLogical
)

// NumericLexeme is the raw classification Binding extracts from a numeric
// literal's source text: enough to pick a NumericKind without re-lexing.
type NumericLexeme struct {
	Text       string
	IsInteger  bool
	Suffix     string // "", "L", "f", "u", "ul", ... as captured from source
}

// ExprNode is one captured expression, structurally enough for the
// deterministic typer to recurse without ever consulting a host checker.
// Fields irrelevant to Kind are left zero.
type ExprNode struct {
	Kind ExprKind

	// ExprNumericLiteral
	Numeric NumericLexeme

	// ExprIdentifier: Name is the raw identifier text (consulted against a
	// local lambda-parameter environment first); ResolvedDecl is the
	// DeclId Binding resolved it to when it isn't a lambda parameter (0 if
	// Binding couldn't resolve it, e.g. a free variable in a malformed
	// program — inference falls back to "no information" in that case).
	Name         string
	ResolvedDecl DeclId

	// ExprPropertyAccess / ExprElementAccess / ExprCall / ExprNew / ExprAwait /
	// ExprNonNullAssertion / ExprParenthesized / ExprPrefixUnary: the operand.
	Receiver ExprId

	// ExprPropertyAccess
	MemberName string

	// ExprElementAccess
	IndexExpr ExprId

	// ExprCall / ExprNew
	Callee   ExprId
	SigId    SignatureId
	Args     []ExprId

	// ExprAsAssertion / ExprAngleAssertion
	AssertedTypeNode TypeSyntaxId

	// ExprBinary
	Op    BinaryOp
	Left  ExprId
	Right ExprId

	// ExprPrefixUnary
	PrefixOp string // "!", "-", "+", "~", ...

	// ExprArrayLiteral / ExprObjectLiteral
	Elements []ExprId
	Fields   map[string]ExprId

	// ExprLambda
	Params     []ParamInfo
	ReturnNode TypeSyntaxId // explicit return annotation, 0 if none
	Body       ExprId       // single-expression body
	BodyStmts  []ExprId     // block body: return-statement expressions, in order
	IsBlockBody bool
}

// ExprRegistry is Binding's read-only view over captured expressions, the
// counterpart to Registry for the deterministic expression typer.
type ExprRegistry interface {
	GetExpr(ExprId) (ExprNode, bool)
}
