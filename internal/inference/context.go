// Package inference implements the declaration/member typing and the small
// deterministic expression and lambda typer: typeOfDecl, typeOfMember,
// getIndexerInfo, and the bounded literal/call/lambda inference that drives
// generic unification and variable-initializer typing. Nothing here ever
// calls back into a host type checker — every answer comes from
// handle.Registry/handle.ExprRegistry plus the prebuilt catalog.Env.
package inference

import (
	"fmt"

	"github.com/tsoniclang/typeauthority/internal/callresolve"
	"github.com/tsoniclang/typeauthority/internal/catalog"
	"github.com/tsoniclang/typeauthority/internal/diagnostics"
	"github.com/tsoniclang/typeauthority/internal/handle"
	"github.com/tsoniclang/typeauthority/internal/ir"
	"github.com/tsoniclang/typeauthority/internal/subst"
)

// Context bundles everything declaration/member/expression typing needs:
// the two handle registries, the nominal environment, the syntax converter,
// the call resolver the call-expression case of the expression typer
// delegates to, the diagnostic sink, and the two per-instance caches (one
// keyed by DeclId, the other by the "(stableId, memberName, serialized
// typeArgs)" string member lookups use).
type Context struct {
	Registry handle.Registry
	Exprs    handle.ExprRegistry
	Env      *catalog.Env
	Convert  handle.SyntaxConverter
	Calls    *callresolve.Resolver
	Diags    *diagnostics.Buffer

	declCache   map[handle.DeclId]ir.Type
	memberCache map[string]ir.Type
}

// NewContext constructs an inference Context with empty caches.
func NewContext(reg handle.Registry, exprs handle.ExprRegistry, env *catalog.Env, conv handle.SyntaxConverter, calls *callresolve.Resolver, diags *diagnostics.Buffer) *Context {
	return &Context{
		Registry:    reg,
		Exprs:       exprs,
		Env:         env,
		Convert:     conv,
		Calls:       calls,
		Diags:       diags,
		declCache:   make(map[handle.DeclId]ir.Type),
		memberCache: make(map[string]ir.Type),
	}
}

func (c *Context) addDiag(d *diagnostics.DiagnosticError) {
	if c.Diags != nil {
		c.Diags.Add(d)
	}
}

// memberCacheKey builds the "(stableId, memberName, serialized typeArgs)"
// cache key — never AST identity.
func memberCacheKey(id ir.TypeID, memberName string, typeArgs []ir.Type) string {
	return fmt.Sprintf("%s|%s|%s", id.StableID, memberName, subst.SerializeTypeArgs(typeArgs))
}
