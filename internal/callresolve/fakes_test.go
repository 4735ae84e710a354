package callresolve

import (
	"github.com/tsoniclang/typeauthority/internal/handle"
	"github.com/tsoniclang/typeauthority/internal/ir"
)

// fakeRegistry is a minimal in-memory handle.Registry test double exposing
// only the signature map call resolution reads.
type fakeRegistry struct {
	sigs map[handle.SignatureId]handle.SignatureInfo
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{sigs: make(map[handle.SignatureId]handle.SignatureInfo)}
}

func (r *fakeRegistry) GetDecl(handle.DeclId) (handle.DeclInfo, bool) { return handle.DeclInfo{}, false }
func (r *fakeRegistry) GetSignature(id handle.SignatureId) (handle.SignatureInfo, bool) {
	s, ok := r.sigs[id]
	return s, ok
}
func (r *fakeRegistry) GetMember(handle.MemberId) (handle.MemberInfo, bool) {
	return handle.MemberInfo{}, false
}
func (r *fakeRegistry) GetTypeSyntax(handle.TypeSyntaxId) (handle.TypeSyntaxInfo, bool) {
	return handle.TypeSyntaxInfo{}, false
}

// fakeConverter maps TypeSyntaxId to a pre-baked IR type.
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
