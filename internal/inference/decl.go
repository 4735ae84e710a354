package inference

import (
	"github.com/tsoniclang/typeauthority/internal/diagnostics"
	"github.com/tsoniclang/typeauthority/internal/handle"
	"github.com/tsoniclang/typeauthority/internal/ir"
)

// TypeOfDecl caches on hit; otherwise an
// explicit annotation converts via the syntax converter; a class/interface
// decl becomes a ReferenceType named by its fully-qualified name; a
// variable with an initializer runs bounded initializer inference;
// anything else lacking an annotation emits MISSING-ANNOTATION and returns
// Unknown.
func (c *Context) TypeOfDecl(id handle.DeclId) ir.Type {
	if cached, ok := c.declCache[id]; ok {
		return cached
	}
	result := c.typeOfDeclUncached(id)
	c.declCache[id] = result
	return result
}

func (c *Context) typeOfDeclUncached(id handle.DeclId) ir.Type {
	info, ok := c.Registry.GetDecl(id)
	if !ok {
		c.addDiag(diagnostics.NewUnlocated(diagnostics.ResolutionFailed, "binding contract violation: unknown DeclId"))
		return ir.Unknown
	}

	if info.HasTypeNode() {
		return c.Convert.ConvertTypeNode(info.TypeNode)
	}

	switch info.Kind {
	case handle.DeclClass, handle.DeclInterface:
		return ir.ReferenceType{Name: info.FQName}

	case handle.DeclVariable:
		if info.Initializer != 0 {
			if t, ok := c.InferExpr(info.Initializer); ok {
				return t
			}
		}
		c.addDiag(diagnostics.NewUnlocated(
			diagnostics.MissingAnnotation,
			"variable %q has no explicit type and its initializer could not be inferred deterministically",
			info.FQName,
		))
		return ir.Unknown

	default:
		// Function declarations without an explicit return-type annotation,
		// parameters, properties, methods, enums: all fail the same way —
		// their signatures (if any) are consulted separately via
		// SignatureId, not through typeOfDecl.
		c.addDiag(diagnostics.NewUnlocated(
			diagnostics.MissingAnnotation,
			"%s %q lacks an explicit type annotation",
			info.Kind, info.FQName,
		))
		return ir.Unknown
	}
}

// IsTypeDecl reports whether id names a class, interface, or type alias.
func (c *Context) IsTypeDecl(id handle.DeclId) bool {
	info, ok := c.Registry.GetDecl(id)
	if !ok {
		return false
	}
	switch info.Kind {
	case handle.DeclClass, handle.DeclInterface, handle.DeclTypeAlias:
		return true
	default:
		return false
	}
}

// IsInterfaceDecl reports whether id specifically names an interface.
func (c *Context) IsInterfaceDecl(id handle.DeclId) bool {
	info, ok := c.Registry.GetDecl(id)
	return ok && info.Kind == handle.DeclInterface
}

// GetFQNameOfDecl returns the fully-qualified name Binding captured for id,
// or "" if id is unknown.
func (c *Context) GetFQNameOfDecl(id handle.DeclId) string {
	info, ok := c.Registry.GetDecl(id)
	if !ok {
		return ""
	}
	return info.FQName
}

// DeclHasTypeAnnotation reports whether id carries an explicit type
// annotation (as opposed to relying on initializer inference or failing).
func (c *Context) DeclHasTypeAnnotation(id handle.DeclId) bool {
	info, ok := c.Registry.GetDecl(id)
	return ok && info.HasTypeNode()
}
