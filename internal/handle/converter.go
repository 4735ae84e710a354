package handle

import "github.com/tsoniclang/typeauthority/internal/ir"

// SyntaxConverter is the external collaborator that turns one captured
// TypeNode into IR — the sole place raw TS type syntax is ever inspected.
// It must be pure and syntactic: it may not consult a host checker's
// computed types. Both the inference and callresolve packages
// consume it through this single shared definition so there is exactly one
// contract for "convert a TypeSyntaxId", not a family of near-identical
// interfaces.
type SyntaxConverter interface {
	ConvertTypeNode(TypeSyntaxId) ir.Type
}
