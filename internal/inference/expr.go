package inference

import (
	"sort"

	"github.com/tsoniclang/typeauthority/internal/callresolve"
	"github.com/tsoniclang/typeauthority/internal/handle"
	"github.com/tsoniclang/typeauthority/internal/ir"
	"github.com/tsoniclang/typeauthority/internal/relations"
)

// lambdaEnv is the local binding of lambda-parameter names to types visible
// while typing one lambda body. It shadows, never merges with, an outer
// lambda's env when nested lambdas share a parameter name.
type lambdaEnv map[string]ir.Type

// InferExpr is the deterministic expression typer's entry point: it types id
// with no enclosing lambda-parameter scope. Returns ok=false when id's shape
// isn't one the typer can answer deterministically (the caller — typically
// variable-initializer inference — treats that as "no information", not an
// error).
func (c *Context) InferExpr(id handle.ExprId) (ir.Type, bool) {
	return c.inferExpr(id, nil, nil)
}

// inferExpr is the recursive core, threading the current lambda-parameter
// env and an expected type (for lambda bodies and call arguments typed in a
// contextual position) through every shape.
func (c *Context) inferExpr(id handle.ExprId, env lambdaEnv, expected ir.Type) (ir.Type, bool) {
	node, ok := c.Exprs.GetExpr(id)
	if !ok {
		return ir.Unknown, false
	}

	switch node.Kind {
	case handle.ExprNumericLiteral:
		return ClassifyNumericLexeme(node.Numeric).IRType(), true

	case handle.ExprStringLiteral, handle.ExprTemplateLiteral:
		return ir.PrimitiveType{Name: ir.PrimString}, true

	case handle.ExprBooleanLiteral:
		return ir.PrimitiveType{Name: ir.PrimBoolean}, true

	case handle.ExprIdentifier:
		if env != nil {
			if t, ok := env[node.Name]; ok {
				return t, true
			}
		}
		if node.ResolvedDecl == 0 {
			return ir.Unknown, false
		}
		return c.TypeOfDecl(node.ResolvedDecl), true

	case handle.ExprPropertyAccess:
		recvT, ok := c.inferExpr(node.Receiver, env, nil)
		if !ok {
			return ir.Unknown, false
		}
		return c.TypeOfMember(recvT, node.MemberName), true

	case handle.ExprElementAccess:
		return c.inferElementAccess(node, env)

	case handle.ExprCall, handle.ExprNew:
		return c.inferCall(node, env, expected)

	case handle.ExprAsAssertion, handle.ExprAngleAssertion:
		return c.Convert.ConvertTypeNode(node.AssertedTypeNode), true

	case handle.ExprNonNullAssertion:
		t, ok := c.inferExpr(node.Receiver, env, expected)
		if !ok {
			return ir.Unknown, false
		}
		return ir.StripNullishUnion(t), true

	case handle.ExprAwait:
		t, ok := c.inferExpr(node.Receiver, env, nil)
		if !ok {
			return ir.Unknown, false
		}
		return unwrapAwaitable(t), true

	case handle.ExprBinary:
		return c.inferBinary(node, env)

	case handle.ExprPrefixUnary:
		return c.inferPrefixUnary(node, env)

	case handle.ExprArrayLiteral:
		return c.inferArrayLiteral(node, env)

	case handle.ExprObjectLiteral:
		return c.inferObjectLiteral(node, env)

	case handle.ExprLambda:
		return c.inferLambda(node, expected)

	case handle.ExprParenthesized:
		return c.inferExpr(node.Receiver, env, expected)

	default:
		return ir.Unknown, false
	}
}

// unwrapAwaitable strips one level of Promise<T>/Task<T>/ValueTask<T>
// wrapping; a non-generic Task/ValueTask (or anything else) awaits to void.
func unwrapAwaitable(t ir.Type) ir.Type {
	ref, ok := t.(ir.ReferenceType)
	if !ok {
		return ir.Void
	}
	switch ref.Name {
	case "Promise", "Task", "ValueTask":
		if len(ref.TypeArguments) == 1 {
			return ref.TypeArguments[0]
		}
		return ir.Void
	default:
		return ir.Void
	}
}

func (c *Context) inferElementAccess(node handle.ExprNode, env lambdaEnv) (ir.Type, bool) {
	recvT, ok := c.inferExpr(node.Receiver, env, nil)
	if !ok {
		return ir.Unknown, false
	}
	if arr, ok := ir.StripNullishUnion(recvT).(ir.ArrayType); ok {
		return arr.ElementType, true
	}
	if tup, ok := ir.StripNullishUnion(recvT).(ir.TupleType); ok {
		idxNode, ok := c.Exprs.GetExpr(node.IndexExpr)
		if ok && idxNode.Kind == handle.ExprNumericLiteral {
			i := int(parseTupleIndex(idxNode.Numeric.Text))
			if i >= 0 && i < len(tup.ElementTypes) {
				return tup.ElementTypes[i], true
			}
		}
		return ir.Unknown, false
	}
	if idx, found := c.GetIndexerInfo(recvT); found {
		return idx.ValueType, true
	}
	if dict, ok := ir.StripNullishUnion(recvT).(ir.DictionaryType); ok {
		return dict.ValueType, true
	}
	return ir.Unknown, false
}

func parseTupleIndex(text string) int64 {
	var n int64
	for _, r := range text {
		if r < '0' || r > '9' {
			return -1
		}
		n = n*10 + int64(r-'0')
	}
	return n
}

func (c *Context) inferBinary(node handle.ExprNode, env lambdaEnv) (ir.Type, bool) {
	switch node.Op {
	case handle.BinOpComparison, handle.BinOpLogical:
		return ir.PrimitiveType{Name: ir.PrimBoolean}, true
	case handle.BinOpArithmetic:
		lt, lok := c.inferExpr(node.Left, env, nil)
		rt, rok := c.inferExpr(node.Right, env, nil)
		if !lok || !rok {
			return ir.Unknown, false
		}
		lp, lIsNum := lt.(ir.PrimitiveType)
		rp, rIsNum := rt.(ir.PrimitiveType)
		if lIsNum && rIsNum {
			if lp.Name == ir.PrimString || rp.Name == ir.PrimString {
				return ir.PrimitiveType{Name: ir.PrimString}, true
			}
			lk, lok2 := numericKindOf(lp.Name)
			rk, rok2 := numericKindOf(rp.Name)
			if lok2 && rok2 {
				return WidenBinary(lk, rk).IRType(), true
			}
		}
		return ir.Unknown, false
	default:
		return ir.Unknown, false
	}
}

func numericKindOf(name ir.PrimitiveName) (NumericKind, bool) {
	switch name {
	case ir.PrimInt:
		return KindInt, true
	case ir.PrimLong:
		return KindLong, true
	case ir.PrimFloat:
		return KindFloat, true
	case ir.PrimDouble, ir.PrimNumber:
		return KindDouble, true
	case ir.PrimByte:
		return KindByte, true
	case ir.PrimShort:
		return KindShort, true
	case ir.PrimUInt:
		return KindUInt, true
	case ir.PrimULong:
		return KindULong, true
	case ir.PrimUShort:
		return KindUShort, true
	case ir.PrimSByte:
		return KindSByte, true
	default:
		return 0, false
	}
}

func (c *Context) inferPrefixUnary(node handle.ExprNode, env lambdaEnv) (ir.Type, bool) {
	switch node.PrefixOp {
	case "!":
		return ir.PrimitiveType{Name: ir.PrimBoolean}, true
	case "-", "+", "~":
		t, ok := c.inferExpr(node.Receiver, env, nil)
		if !ok {
			return ir.Unknown, false
		}
		return t, true
	default:
		return ir.Unknown, false
	}
}

// inferArrayLiteral infers a uniform element type only: every element must
// infer to the same structural type (by string identity), otherwise the
// literal isn't deterministically typeable and inference bails out rather
// than guessing a union.
func (c *Context) inferArrayLiteral(node handle.ExprNode, env lambdaEnv) (ir.Type, bool) {
	if len(node.Elements) == 0 {
		return ir.Unknown, false
	}
	var elemType ir.Type
	for _, el := range node.Elements {
		t, ok := c.inferExpr(el, env, nil)
		if !ok {
			return ir.Unknown, false
		}
		if elemType == nil {
			elemType = t
			continue
		}
		if elemType.String() != t.String() {
			return ir.Unknown, false
		}
	}
	return ir.ArrayType{ElementType: elemType, Origin: ir.ArrayInferred}, true
}

func (c *Context) inferObjectLiteral(node handle.ExprNode, env lambdaEnv) (ir.Type, bool) {
	if len(node.Fields) == 0 {
		return ir.ObjectType{}, true
	}
	names := make([]string, 0, len(node.Fields))
	for name := range node.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	members := make([]ir.Member, 0, len(names))
	for _, name := range names {
		t, ok := c.inferExpr(node.Fields[name], env, nil)
		if !ok {
			return ir.Unknown, false
		}
		members = append(members, ir.PropertySignature{Name: name, Type: t})
	}
	return ir.ObjectType{Members: members}, true
}

// inferLambda types a lambda body under its parameter bindings: explicit
// parameter annotations win; otherwise the corresponding position of an
// expected FunctionType supplies the parameter type; otherwise the
// parameter is untyped (Unknown) for purposes of body inference. The return
// type is the explicit annotation if present, else the expected return type
// when it is concrete (not unknown and free of type parameters), else
// inferred from the body (single-expression body's own type, or the union of
// every return statement's type in a block body, void if there are none).
func (c *Context) inferLambda(node handle.ExprNode, expected ir.Type) (ir.Type, bool) {
	var expectedFn ir.FunctionType
	hasExpectedFn := false
	if fn, ok := expected.(ir.FunctionType); ok {
		expectedFn = fn
		hasExpectedFn = true
	}

	env := lambdaEnv{}
	paramTypes := make([]ir.Type, len(node.Params))
	for i, p := range node.Params {
		switch {
		case p.TypeNode != 0:
			paramTypes[i] = c.Convert.ConvertTypeNode(p.TypeNode)
		case hasExpectedFn && i < len(expectedFn.Parameters):
			paramTypes[i] = expectedFn.Parameters[i]
		default:
			paramTypes[i] = ir.Unknown
		}
		env[p.Name] = paramTypes[i]
	}

	var expectedReturn ir.Type
	if node.ReturnNode != 0 {
		expectedReturn = c.Convert.ConvertTypeNode(node.ReturnNode)
	} else if hasExpectedFn {
		expectedReturn = expectedFn.ReturnType
	}

	var returnType ir.Type
	if node.ReturnNode != 0 {
		returnType = expectedReturn
	} else if _, isUnknown := expectedReturn.(ir.UnknownType); expectedReturn != nil && !isUnknown && !relations.ContainsTypeParameter(expectedReturn) {
		returnType = expectedReturn
	} else if !node.IsBlockBody {
		t, ok := c.inferExpr(node.Body, env, expectedReturn)
		if !ok {
			return ir.Unknown, false
		}
		returnType = t
	} else {
		var unified ir.Type
		for _, stmt := range node.BodyStmts {
			t, ok := c.inferExpr(stmt, env, expectedReturn)
			if !ok {
				return ir.Unknown, false
			}
			if unified == nil {
				unified = t
				continue
			}
			if unified.String() != t.String() {
				unified = ir.NormalizeUnion([]ir.Type{unified, t})
			}
		}
		if unified == nil {
			unified = ir.Void
		}
		returnType = unified
	}

	return ir.FunctionType{Parameters: paramTypes, ReturnType: returnType}, true
}

// inferCall types a call/new expression. A lambda argument's parameter
// types aren't known until the callee's signature is resolved, so a single
// inference-then-resolve pass can't type `select(xs, x => x * 2)`: the
// lambda would see Unknown parameters and bail. Instead this runs up to
// three passes: infer every non-lambda argument (lambdas stand in as
// Unknown), resolve once (with the call's own expected return as the
// fourth unification source) to obtain each lambda parameter's contextual
// type, infer every lambda against that context, then resolve once more
// with every argument's real type present so
// the resolver's unification sees the lambdas' inferred signatures too.
func (c *Context) inferCall(node handle.ExprNode, env lambdaEnv, expected ir.Type) (ir.Type, bool) {
	if c.Calls == nil {
		return ir.Unknown, false
	}

	isLambda := make([]bool, len(node.Args))
	argTypes := make([]ir.Type, len(node.Args))
	for i, a := range node.Args {
		if n, ok := c.Exprs.GetExpr(a); ok && n.Kind == handle.ExprLambda {
			isLambda[i] = true
			argTypes[i] = ir.Unknown
			continue
		}
		if t, ok := c.inferExpr(a, env, nil); ok {
			argTypes[i] = t
		} else {
			argTypes[i] = ir.Unknown
		}
	}

	var receiver ir.Type
	if node.Kind == handle.ExprCall && node.Receiver != 0 {
		if t, ok := c.inferExpr(node.Receiver, env, nil); ok {
			receiver = t
		}
	}

	hasLambda := false
	for _, isL := range isLambda {
		if isL {
			hasLambda = true
			break
		}
	}

	if hasLambda {
		ctxPass := c.Calls.ResolveCall(callresolve.CallQuery{
			SigID:              node.SigId,
			ArgumentCount:      len(node.Args),
			ReceiverType:       receiver,
			ArgTypes:           argTypes,
			ExpectedReturnType: expected,
		})
		for i, a := range node.Args {
			if !isLambda[i] {
				continue
			}
			var lambdaExpected ir.Type
			if i < len(ctxPass.ParameterTypes) {
				lambdaExpected = ctxPass.ParameterTypes[i]
			}
			if ref, ok := lambdaExpected.(ir.ReferenceType); ok && c.Env != nil {
				if fn, ok := c.Env.DelegateToFunctionType(ref); ok {
					lambdaExpected = fn
				}
			}
			if t, ok := c.inferExpr(a, env, lambdaExpected); ok {
				argTypes[i] = t
			}
		}
	}

	resolved := c.Calls.ResolveCall(callresolve.CallQuery{
		SigID:              node.SigId,
		ArgumentCount:      len(node.Args),
		ReceiverType:       receiver,
		ArgTypes:           argTypes,
		ExpectedReturnType: expected,
	})
	for _, d := range resolved.Diagnostics {
		c.addDiag(d)
	}
	return resolved.ReturnType, true
}
