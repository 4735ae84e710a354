package catalog

import (
	"fmt"

	"golang.org/x/tools/container/intsets"

	"github.com/tsoniclang/typeauthority/internal/diagnostics"
	"github.com/tsoniclang/typeauthority/internal/ir"
	"github.com/tsoniclang/typeauthority/internal/subst"
)

// Env wraps a Catalog and an AliasTable with the inheritance-aware queries
// callresolve and inference need: name resolution, primitive/array bridging
// to nominal form, flattened inheritance chains, cross-chain instantiation,
// and declaring-ancestor member lookup.
type Env struct {
	Catalog *Catalog
	Aliases *AliasTable
	diags   *diagnostics.Buffer
}

// NewEnv constructs a NominalEnv over a prebuilt catalog and alias table.
// diags receives any RESOLUTION-FAILED diagnostics the walks below emit
// (e.g. on detecting an inheritance cycle); it may be nil to discard them.
func NewEnv(cat *Catalog, aliases *AliasTable, diags *diagnostics.Buffer) *Env {
	return &Env{Catalog: cat, Aliases: aliases, diags: diags}
}

// ResolveTypeIDByName tries the AliasTable, then the
// catalog's TS-name map, then its CLR-name map. When arity is supplied and
// the direct match's arity disagrees, retry with the arity-suffixed facade
// form ("<name>_<arity>") before giving up.
func (e *Env) ResolveTypeIDByName(name string, arity int) (ir.TypeID, bool) {
	if id, ok := e.Aliases.Get(name); ok {
		if e.arityMatches(id, arity) {
			return id, true
		}
	}
	if id, ok := e.Catalog.ResolveTSName(name); ok {
		if e.arityMatches(id, arity) {
			return id, true
		}
	}
	if id, ok := e.Catalog.ResolveCLRName(name); ok {
		if e.arityMatches(id, arity) {
			return id, true
		}
	}
	if arity > 0 {
		fname := facadeName(name, arity)
		if id, ok := e.Aliases.Get(fname); ok {
			return id, true
		}
		if id, ok := e.Catalog.ResolveTSName(fname); ok {
			return id, true
		}
		if id, ok := e.Catalog.ResolveCLRName(fname); ok {
			return id, true
		}
	}
	return ir.TypeID{}, false
}

// arityMatches reports true when arity is unspecified (< 0, "don't care")
// or the resolved entry's declared type-parameter count matches it exactly.
func (e *Env) arityMatches(id ir.TypeID, arity int) bool {
	if arity < 0 {
		return true
	}
	entry, ok := e.Catalog.ByID(id)
	if !ok {
		return true
	}
	return len(entry.TypeParameters) == arity
}

// NormalizeToNominal bridges an arbitrary IR type to nominal form:
// a ReferenceType uses its own TypeID if set, else resolves from
// ResolvedCLRType or Name; a PrimitiveType resolves through BuiltinNominals
// at arity 0; an ArrayType resolves to ("Array", arity 1) with the element
// type as its sole argument. Anything else (union, tuple, function, object,
// ...) has no nominal form and returns ok=false.
func (e *Env) NormalizeToNominal(t ir.Type) (ir.TypeID, []ir.Type, bool) {
	switch typ := t.(type) {
	case ir.ReferenceType:
		if !typ.TypeID.IsZero() {
			return typ.TypeID, typ.TypeArguments, true
		}
		name := typ.ResolvedCLRType
		if name == "" {
			name = typ.Name
		}
		if id, ok := e.ResolveTypeIDByName(name, len(typ.TypeArguments)); ok {
			return id, typ.TypeArguments, true
		}
		return ir.TypeID{}, nil, false

	case ir.PrimitiveType:
		facade, ok := BuiltinNominals[typ.Name]
		if !ok {
			return ir.TypeID{}, nil, false
		}
		if id, ok := e.ResolveTypeIDByName(facade, 0); ok {
			return id, nil, true
		}
		return ir.TypeID{}, nil, false

	case ir.ArrayType:
		if id, ok := e.ResolveTypeIDByName("Array", 1); ok {
			return id, []ir.Type{typ.ElementType}, true
		}
		return ir.TypeID{}, nil, false

	default:
		return ir.TypeID{}, nil, false
	}
}

// GetTypeParameters returns id's own declared type-parameter names, or nil
// if id is unknown.
func (e *Env) GetTypeParameters(id ir.TypeID) []TypeParamEntry {
	entry, ok := e.Catalog.ByID(id)
	if !ok {
		return nil
	}
	return entry.TypeParameters
}

// GetMember returns id's own (non-inherited) member named name.
func (e *Env) GetMember(id ir.TypeID, name string) (MemberEntry, bool) {
	entry, ok := e.Catalog.ByID(id)
	if !ok {
		return MemberEntry{}, false
	}
	m, ok := entry.Members[name]
	return m, ok
}

// GetByTypeID returns id's catalog entry.
func (e *Env) GetByTypeID(id ir.TypeID) (*Entry, bool) {
	return e.Catalog.ByID(id)
}

// InheritanceChain flattens id's base-type chain, nearest first, by
// following the first inheritance edge of each entry; further edges (e.g.
// implemented interfaces) are not followed, and no edge substitution is
// applied (callers combine this with GetInstantiation /
// FindMemberDeclaringType for the substituted view). A
// repeated TypeID during the walk — an inheritance cycle the upstream
// catalog builder failed to filter — truncates the chain at the repeat and
// emits a RESOLUTION-FAILED diagnostic instead of looping forever (see
// DESIGN.md for the decision to detect-and-report rather than silently
// truncate).
func (e *Env) InheritanceChain(id ir.TypeID) []ir.TypeID {
	var visited intsets.Sparse
	if idx := e.Catalog.DenseIndex(id); idx >= 0 {
		visited.Insert(idx)
	}
	var chain []ir.TypeID
	cur := id
	for {
		entry, ok := e.Catalog.ByID(cur)
		if !ok || len(entry.Inheritance) == 0 {
			break
		}
		next := entry.Inheritance[0].Target
		idx := e.Catalog.DenseIndex(next)
		if idx < 0 {
			break
		}
		if !visited.Insert(idx) {
			e.reportCycle(id, next)
			break
		}
		chain = append(chain, next)
		cur = next
	}
	return chain
}

func (e *Env) reportCycle(start, repeat ir.TypeID) {
	if e.diags == nil {
		return
	}
	e.diags.Add(diagnostics.NewUnlocated(
		diagnostics.ResolutionFailed,
		"inheritance cycle detected starting from %s (repeats at %s)",
		start, repeat,
	))
}

// GetInstantiation computes the substitution that maps targetID's own type
// parameters to concrete types, given that receiverID is instantiated with
// receiverArgs. It walks receiverID's full inheritance graph (every edge,
// not just the first), composing each edge's substitution, until it reaches
// an edge whose Target is targetID. When targetID is receiverID itself, the
// identity substitution over receiverArgs is returned with ok=true. Returns
// ok=false if targetID is not an ancestor of receiverID.
func (e *Env) GetInstantiation(receiverID ir.TypeID, receiverArgs []ir.Type, targetID ir.TypeID) (subst.Subst, bool) {
	if receiverID == targetID {
		return identitySubst(e.GetTypeParameters(receiverID), receiverArgs), true
	}
	var visited intsets.Sparse
	type frame struct {
		id ir.TypeID
		s  subst.Subst
	}
	start := identitySubst(e.GetTypeParameters(receiverID), receiverArgs)
	queue := []frame{{id: receiverID, s: start}}
	for len(queue) > 0 {
		f := queue[0]
		queue = queue[1:]
		entry, ok := e.Catalog.ByID(f.id)
		if !ok {
			continue
		}
		for _, edge := range entry.Inheritance {
			idx := e.Catalog.DenseIndex(edge.Target)
			if idx >= 0 && !visited.Insert(idx) {
				continue
			}
			// The edge's own substitution already expresses the ancestor's
			// params in terms of f.id's params; apply f.s on top to resolve
			// those in terms of the original receiver's concrete args.
			combined := make(subst.Subst, len(edge.Substitution))
			for k, v := range edge.Substitution {
				combined[k] = subst.Apply(v, f.s)
			}
			if edge.Target == targetID {
				return combined, true
			}
			queue = append(queue, frame{id: edge.Target, s: combined})
		}
	}
	return nil, false
}

func identitySubst(params []TypeParamEntry, args []ir.Type) subst.Subst {
	s := make(subst.Subst, len(params))
	for i, p := range params {
		if i < len(args) {
			s[p.Name] = args[i]
		}
	}
	return s
}

// FindMemberDeclaringType walks receiverID (itself, then its inheritance
// chain breadth-first) looking for the nearest ancestor that declares
// memberName, returning that ancestor's TypeID and the substitution from
// its type parameters to concrete types given receiverArgs.
func (e *Env) FindMemberDeclaringType(receiverID ir.TypeID, receiverArgs []ir.Type, memberName string) (ir.TypeID, subst.Subst, bool) {
	if entry, ok := e.Catalog.ByID(receiverID); ok {
		if _, has := entry.Members[memberName]; has {
			return receiverID, identitySubst(entry.TypeParameters, receiverArgs), true
		}
	}
	var visited intsets.Sparse
	type frame struct {
		id ir.TypeID
		s  subst.Subst
	}
	queue := []frame{{id: receiverID, s: identitySubst(e.GetTypeParameters(receiverID), receiverArgs)}}
	for len(queue) > 0 {
		f := queue[0]
		queue = queue[1:]
		entry, ok := e.Catalog.ByID(f.id)
		if !ok {
			continue
		}
		for _, edge := range entry.Inheritance {
			idx := e.Catalog.DenseIndex(edge.Target)
			if idx >= 0 && !visited.Insert(idx) {
				continue
			}
			combined := make(subst.Subst, len(edge.Substitution))
			for k, v := range edge.Substitution {
				combined[k] = subst.Apply(v, f.s)
			}
			if tEntry, ok := e.Catalog.ByID(edge.Target); ok {
				if _, has := tEntry.Members[memberName]; has {
					return edge.Target, combined, true
				}
			}
			queue = append(queue, frame{id: edge.Target, s: combined})
		}
	}
	return ir.TypeID{}, nil, false
}

// IsAncestor reports whether targetID appears anywhere in sourceID's
// flattened inheritance walk (used by relations.IsAssignableTo's nominal
// case).
func (e *Env) IsAncestor(sourceID, targetID ir.TypeID) bool {
	if sourceID == targetID {
		return true
	}
	var visited intsets.Sparse
	queue := []ir.TypeID{sourceID}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		entry, ok := e.Catalog.ByID(cur)
		if !ok {
			continue
		}
		for _, edge := range entry.Inheritance {
			if edge.Target == targetID {
				return true
			}
			idx := e.Catalog.DenseIndex(edge.Target)
			if idx >= 0 && !visited.Insert(idx) {
				continue
			}
			queue = append(queue, edge.Target)
		}
	}
	return false
}

// ResolveTypeAlias expands t one level if it is a ReferenceType whose
// TypeID names a KindTypeAlias catalog entry, substituting the entry's own
// type parameters for the reference's supplied type arguments. Returns t
// unchanged if it isn't an alias reference or the alias can't be resolved.
func (e *Env) ResolveTypeAlias(t ir.Type) ir.Type {
	ref, ok := t.(ir.ReferenceType)
	if !ok {
		return t
	}
	id, args, ok := e.NormalizeToNominal(ref)
	if !ok {
		return t
	}
	entry, ok := e.Catalog.ByID(id)
	if !ok || entry.Kind != KindTypeAlias || entry.AliasUnderlying == nil {
		return t
	}
	s := identitySubst(entry.TypeParameters, args)
	return subst.Apply(entry.AliasUnderlying, s)
}

// DelegateToFunctionType converts a delegate reference type (one whose
// catalog entry is a KindDelegate with a single Invoke method) to the
// equivalent FunctionType, substituting the entry's own type parameters for
// t's supplied type arguments. Reports ok=false if t isn't such a reference.
func (e *Env) DelegateToFunctionType(t ir.Type) (ir.FunctionType, bool) {
	ref, ok := t.(ir.ReferenceType)
	if !ok {
		return ir.FunctionType{}, false
	}
	id, args, ok := e.NormalizeToNominal(ref)
	if !ok {
		return ir.FunctionType{}, false
	}
	entry, ok := e.Catalog.ByID(id)
	if !ok || entry.Kind != KindDelegate {
		return ir.FunctionType{}, false
	}
	invoke, ok := entry.Members["Invoke"]
	if !ok || invoke.IsProperty() || len(invoke.Signatures) == 0 {
		return ir.FunctionType{}, false
	}
	sig := invoke.Signatures[0]
	s := identitySubst(e.GetTypeParameters(id), args)
	params := make([]ir.Type, len(sig.Parameters))
	for i, p := range sig.Parameters {
		params[i] = subst.Apply(p.Type, s)
	}
	return ir.FunctionType{Parameters: params, ReturnType: subst.Apply(sig.ReturnType, s)}, true
}

// DebugDescribe renders a short human-readable description of id, for
// diagnostic messages that need to name a type without dumping its full
// structural shape.
func (e *Env) DebugDescribe(id ir.TypeID) string {
	entry, ok := e.Catalog.ByID(id)
	if !ok {
		return fmt.Sprintf("<unknown:%s>", id.StableID)
	}
	if id.CLRName != "" {
		return id.CLRName
	}
	return fmt.Sprintf("<type %d params, kind %d>", len(entry.TypeParameters), entry.Kind)
}
