package inference

import (
	"github.com/tsoniclang/typeauthority/internal/handle"
	"github.com/tsoniclang/typeauthority/internal/ir"
)

// fakeRegistry is a minimal in-memory handle.Registry test double.
type fakeRegistry struct {
	decls map[handle.DeclId]handle.DeclInfo
	sigs  map[handle.SignatureId]handle.SignatureInfo
	mems  map[handle.MemberId]handle.MemberInfo
	nodes map[handle.TypeSyntaxId]handle.TypeSyntaxInfo
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{
		decls: make(map[handle.DeclId]handle.DeclInfo),
		sigs:  make(map[handle.SignatureId]handle.SignatureInfo),
		mems:  make(map[handle.MemberId]handle.MemberInfo),
		nodes: make(map[handle.TypeSyntaxId]handle.TypeSyntaxInfo),
	}
}

func (r *fakeRegistry) GetDecl(id handle.DeclId) (handle.DeclInfo, bool) {
	d, ok := r.decls[id]
	return d, ok
}
func (r *fakeRegistry) GetSignature(id handle.SignatureId) (handle.SignatureInfo, bool) {
	s, ok := r.sigs[id]
	return s, ok
}
func (r *fakeRegistry) GetMember(id handle.MemberId) (handle.MemberInfo, bool) {
	m, ok := r.mems[id]
	return m, ok
}
func (r *fakeRegistry) GetTypeSyntax(id handle.TypeSyntaxId) (handle.TypeSyntaxInfo, bool) {
	n, ok := r.nodes[id]
	return n, ok
}

// fakeExprRegistry is a minimal in-memory handle.ExprRegistry test double.
type fakeExprRegistry struct {
	exprs map[handle.ExprId]handle.ExprNode
}

func newFakeExprRegistry() *fakeExprRegistry {
	return &fakeExprRegistry{exprs: make(map[handle.ExprId]handle.ExprNode)}
}

func (r *fakeExprRegistry) GetExpr(id handle.ExprId) (handle.ExprNode, bool) {
	e, ok := r.exprs[id]
	return e, ok
}

// fakeConverter maps TypeSyntaxId to a pre-baked IR type, standing in for the
// external syntactic TypeNode-to-IR converter.
type fakeConverter struct {
	byID map[handle.TypeSyntaxId]ir.Type
}

func newFakeConverter() *fakeConverter {
	return &fakeConverter{byID: make(map[handle.TypeSyntaxId]ir.Type)}
}

func (c *fakeConverter) ConvertTypeNode(id handle.TypeSyntaxId) ir.Type {
	if t, ok := c.byID[id]; ok {
		return t
	}
	return ir.Unknown
}
