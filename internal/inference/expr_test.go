package inference

import (
	"testing"

	"github.com/tsoniclang/typeauthority/internal/callresolve"
	"github.com/tsoniclang/typeauthority/internal/catalog"
	"github.com/tsoniclang/typeauthority/internal/handle"
	"github.com/tsoniclang/typeauthority/internal/ir"
)

func newExprContext() (*Context, *fakeExprRegistry, *fakeRegistry) {
	reg := newFakeRegistry()
	exprs := newFakeExprRegistry()
	env := catalog.NewEnv(catalog.New(), catalog.NewAliasTable(), nil)
	return NewContext(reg, exprs, env, newFakeConverter(), nil, nil), exprs, reg
}

func TestInferExprNumericLiteral(t *testing.T) {
	ctx, exprs, _ := newExprContext()
	exprs.exprs[1] = handle.ExprNode{Kind: handle.ExprNumericLiteral, Numeric: handle.NumericLexeme{IsInteger: true, Suffix: "L"}}
	got, ok := ctx.InferExpr(1)
	if !ok || got.String() != "long" {
		t.Fatalf("expected long, got %v ok=%v", got, ok)
	}
}

func TestInferExprStringAndBooleanLiterals(t *testing.T) {
	ctx, exprs, _ := newExprContext()
	exprs.exprs[1] = handle.ExprNode{Kind: handle.ExprStringLiteral}
	exprs.exprs[2] = handle.ExprNode{Kind: handle.ExprBooleanLiteral}
	if got, ok := ctx.InferExpr(1); !ok || got.String() != "string" {
		t.Fatalf("expected string, got %v", got)
	}
	if got, ok := ctx.InferExpr(2); !ok || got.String() != "boolean" {
		t.Fatalf("expected boolean, got %v", got)
	}
}

func TestInferExprBinaryArithmeticWidensToWiderOperand(t *testing.T) {
	ctx, exprs, _ := newExprContext()
	exprs.exprs[1] = handle.ExprNode{Kind: handle.ExprNumericLiteral, Numeric: handle.NumericLexeme{IsInteger: true}}
	exprs.exprs[2] = handle.ExprNode{Kind: handle.ExprNumericLiteral, Numeric: handle.NumericLexeme{IsInteger: false}}
	exprs.exprs[3] = handle.ExprNode{Kind: handle.ExprBinary, Op: handle.BinOpArithmetic, Left: 1, Right: 2}
	got, ok := ctx.InferExpr(3)
	if !ok || got.String() != "double" {
		t.Fatalf("expected double (wider operand wins), got %v ok=%v", got, ok)
	}
}

func TestInferExprBinaryComparisonIsBoolean(t *testing.T) {
	ctx, exprs, _ := newExprContext()
	exprs.exprs[1] = handle.ExprNode{Kind: handle.ExprNumericLiteral}
	exprs.exprs[2] = handle.ExprNode{Kind: handle.ExprNumericLiteral}
	exprs.exprs[3] = handle.ExprNode{Kind: handle.ExprBinary, Op: handle.BinOpComparison, Left: 1, Right: 2}
	got, ok := ctx.InferExpr(3)
	if !ok || got.String() != "boolean" {
		t.Fatalf("expected boolean, got %v", got)
	}
}

func TestInferExprArrayLiteralUniformElementType(t *testing.T) {
	ctx, exprs, _ := newExprContext()
	exprs.exprs[1] = handle.ExprNode{Kind: handle.ExprStringLiteral}
	exprs.exprs[2] = handle.ExprNode{Kind: handle.ExprStringLiteral}
	exprs.exprs[3] = handle.ExprNode{Kind: handle.ExprArrayLiteral, Elements: []handle.ExprId{1, 2}}
	got, ok := ctx.InferExpr(3)
	arr, isArr := got.(ir.ArrayType)
	if !ok || !isArr || arr.ElementType.String() != "string" {
		t.Fatalf("expected string[], got %v ok=%v", got, ok)
	}
}

func TestInferExprArrayLiteralMixedElementTypesBails(t *testing.T) {
	ctx, exprs, _ := newExprContext()
	exprs.exprs[1] = handle.ExprNode{Kind: handle.ExprStringLiteral}
	exprs.exprs[2] = handle.ExprNode{Kind: handle.ExprNumericLiteral}
	exprs.exprs[3] = handle.ExprNode{Kind: handle.ExprArrayLiteral, Elements: []handle.ExprId{1, 2}}
	_, ok := ctx.InferExpr(3)
	if ok {
		t.Fatalf("expected inference to bail out on mixed-type array literal")
	}
}

// TestInferCallMultiPassInfersLambdaReturnFromArgument is the
// `select(xs, x => x * 2)` scenario that motivates the two-to-three-pass
// call-expression arrangement: the lambda argument's
// return type (U) can only be known after a first pass resolves the
// non-lambda argument (binding T), and a final pass needs the lambda's own
// inferred signature to bind U in the call's return type.
func TestInferCallMultiPassInfersLambdaReturnFromArgument(t *testing.T) {
	reg := newFakeRegistry()
	exprs := newFakeExprRegistry()
	env := catalog.NewEnv(catalog.New(), catalog.NewAliasTable(), nil)
	conv := newFakeConverter()

	// select<T, U>(xs: T[], fn: (x: T) => U): U[]
	conv.byID[1] = ir.ArrayType{ElementType: ir.TypeParameterType{Name: "T"}}
	conv.byID[2] = ir.FunctionType{Parameters: []ir.Type{ir.TypeParameterType{Name: "T"}}, ReturnType: ir.TypeParameterType{Name: "U"}}
	conv.byID[3] = ir.ArrayType{ElementType: ir.TypeParameterType{Name: "U"}}
	reg.sigs[1] = handle.SignatureInfo{
		Parameters: []handle.ParamInfo{
			{Name: "xs", TypeNode: 1},
			{Name: "fn", TypeNode: 2},
		},
		ReturnTypeNode: 3,
		TypeParameters: []handle.TypeParamInfo{{Name: "T"}, {Name: "U"}},
	}

	// xs: number[]
	conv.byID[4] = ir.ArrayType{ElementType: ir.PrimitiveType{Name: ir.PrimNumber}}
	reg.decls[100] = handle.DeclInfo{TypeNode: 4}

	const (
		exprXs     handle.ExprId = 10
		exprParamX handle.ExprId = 11
		exprLit2   handle.ExprId = 12
		exprBody   handle.ExprId = 13
		exprLambda handle.ExprId = 14
		exprCall   handle.ExprId = 15
	)
	exprs.exprs[exprXs] = handle.ExprNode{Kind: handle.ExprIdentifier, Name: "xs", ResolvedDecl: 100}
	exprs.exprs[exprParamX] = handle.ExprNode{Kind: handle.ExprIdentifier, Name: "x"}
	exprs.exprs[exprLit2] = handle.ExprNode{Kind: handle.ExprNumericLiteral, Numeric: handle.NumericLexeme{IsInteger: true}}
	exprs.exprs[exprBody] = handle.ExprNode{Kind: handle.ExprBinary, Op: handle.BinOpArithmetic, Left: exprParamX, Right: exprLit2}
	exprs.exprs[exprLambda] = handle.ExprNode{Kind: handle.ExprLambda, Params: []handle.ParamInfo{{Name: "x"}}, Body: exprBody}
	exprs.exprs[exprCall] = handle.ExprNode{Kind: handle.ExprCall, SigId: 1, Args: []handle.ExprId{exprXs, exprLambda}}

	calls := callresolve.NewResolver(reg, env, conv)
	ctx := NewContext(reg, exprs, env, conv, calls, nil)

	got, ok := ctx.InferExpr(exprCall)
	if !ok {
		t.Fatalf("expected call inference to succeed")
	}
	arr, isArr := got.(ir.ArrayType)
	if !isArr {
		t.Fatalf("expected an array return type, got %v", got)
	}
	if arr.ElementType.String() != "double" {
		t.Fatalf("expected U inferred as double from the lambda's body, got %v", arr.ElementType)
	}
}

func TestInferExprIdentifierResolvesThroughDecl(t *testing.T) {
	ctx, exprs, reg := newExprContext()
	reg.decls[42] = handle.DeclInfo{TypeNode: 0, Kind: handle.DeclClass, FQName: "MyApp.Foo"}
	exprs.exprs[1] = handle.ExprNode{Kind: handle.ExprIdentifier, Name: "foo", ResolvedDecl: 42}
	got, ok := ctx.InferExpr(1)
	ref, isRef := got.(ir.ReferenceType)
	if !ok || !isRef || ref.Name != "MyApp.Foo" {
		t.Fatalf("expected ReferenceType MyApp.Foo, got %v ok=%v", got, ok)
	}
}

func TestInferExprIdentifierUnresolvedFreeVariableBails(t *testing.T) {
	ctx, exprs, _ := newExprContext()
	exprs.exprs[1] = handle.ExprNode{Kind: handle.ExprIdentifier, Name: "mystery"}
	_, ok := ctx.InferExpr(1)
	if ok {
		t.Fatalf("expected no information for an unresolved identifier")
	}
}

func TestInferExprNonNullAssertionStripsNullish(t *testing.T) {
	ctx, exprs, reg := newExprContext()
	reg.decls[1] = handle.DeclInfo{Kind: handle.DeclVariable, FQName: "x", TypeNode: 10}
	_ = reg
	exprs.exprs[1] = handle.ExprNode{Kind: handle.ExprIdentifier, ResolvedDecl: 1}
	exprs.exprs[2] = handle.ExprNode{Kind: handle.ExprNonNullAssertion, Receiver: 1}

	conv := newFakeConverter()
	conv.byID[10] = ir.UnionType{Types: []ir.Type{ir.PrimitiveType{Name: ir.PrimString}, ir.PrimitiveType{Name: ir.PrimNull}}}
	ctx.Convert = conv

	got, ok := ctx.InferExpr(2)
	if !ok || got.String() != "string" {
		t.Fatalf("expected string after stripping null, got %v ok=%v", got, ok)
	}
}

func TestInferExprElementAccessOnArray(t *testing.T) {
	ctx, exprs, reg := newExprContext()
	reg.decls[1] = handle.DeclInfo{Kind: handle.DeclVariable, FQName: "arr", TypeNode: 10}
	conv := newFakeConverter()
	conv.byID[10] = ir.ArrayType{ElementType: ir.PrimitiveType{Name: ir.PrimInt}}
	ctx.Convert = conv
	exprs.exprs[1] = handle.ExprNode{Kind: handle.ExprIdentifier, ResolvedDecl: 1}
	exprs.exprs[2] = handle.ExprNode{Kind: handle.ExprNumericLiteral, Numeric: handle.NumericLexeme{IsInteger: true}}
	exprs.exprs[3] = handle.ExprNode{Kind: handle.ExprElementAccess, Receiver: 1, IndexExpr: 2}

	got, ok := ctx.InferExpr(3)
	if !ok || got.String() != "int" {
		t.Fatalf("expected int element type, got %v ok=%v", got, ok)
	}
}
