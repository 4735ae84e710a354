package inference

import (
	"sort"
	"strings"

	"github.com/tsoniclang/typeauthority/internal/catalog"
	"github.com/tsoniclang/typeauthority/internal/diagnostics"
	"github.com/tsoniclang/typeauthority/internal/ir"
	"github.com/tsoniclang/typeauthority/internal/subst"
)

// TypeOfMember strips irrelevant nullish branches; if the
// receiver carries inline structural members, match by name directly;
// otherwise normalize to nominal, find the nearest declaring ancestor via
// NominalEnv, and synthesize the substituted member type. Not found emits
// MEMBER-NOT-FOUND and returns Unknown.
func (c *Context) TypeOfMember(receiver ir.Type, memberName string) ir.Type {
	receiver = ir.StripNullishUnion(receiver)

	if members := structuralMembersOf(receiver); members != nil {
		if m, ok := ir.FindMember(members, memberName); ok {
			return memberAsType(m)
		}
	}

	id, args, ok := c.Env.NormalizeToNominal(receiver)
	if !ok {
		c.addDiag(diagnostics.NewUnlocated(diagnostics.MemberNotFound, "%s has no member %q", receiver, memberName))
		return ir.Unknown
	}

	key := memberCacheKey(id, memberName, args)
	if cached, ok := c.memberCache[key]; ok {
		return cached
	}

	declaringID, sub, ok := c.Env.FindMemberDeclaringType(id, args, memberName)
	if !ok {
		c.addDiag(diagnostics.NewUnlocated(diagnostics.MemberNotFound, "%s has no member %q", receiver, memberName))
		c.memberCache[key] = ir.Unknown
		return ir.Unknown
	}

	entry, _ := c.Env.GetMember(declaringID, memberName)
	var result ir.Type
	if entry.IsProperty() {
		result = entry.Type
		if entry.IsOptional {
			result = ir.NormalizeUnion([]ir.Type{result, ir.PrimitiveType{Name: ir.PrimUndefined}})
		}
	} else if len(entry.Signatures) > 0 {
		sig := entry.Signatures[0]
		params := make([]ir.Type, len(sig.Parameters))
		for i, p := range sig.Parameters {
			params[i] = p.Type
		}
		result = ir.FunctionType{Parameters: params, ReturnType: sig.ReturnType}
	} else {
		result = ir.Unknown
	}

	result = subst.Apply(result, sub)
	c.memberCache[key] = result
	return result
}

func structuralMembersOf(t ir.Type) []ir.Member {
	switch typ := t.(type) {
	case ir.ObjectType:
		return typ.Members
	case ir.ReferenceType:
		if typ.StructuralMembers != nil {
			return typ.StructuralMembers
		}
	}
	return nil
}

func memberAsType(m ir.Member) ir.Type {
	switch mm := m.(type) {
	case ir.PropertySignature:
		if mm.IsOptional {
			return ir.NormalizeUnion([]ir.Type{mm.Type, ir.PrimitiveType{Name: ir.PrimUndefined}})
		}
		return mm.Type
	case ir.MethodSignature:
		return mm.AsFunctionType()
	default:
		return ir.Unknown
	}
}

// IndexerInfo is the result of GetIndexerInfo: the indexer's CLR key type
// as stored in its IndexKeyCLR field plus the substituted value type.
type IndexerInfo struct {
	KeyCLRType string
	ValueType  ir.Type
}

// GetIndexerInfo checks the receiver's own catalog entry and then its
// inheritance chain, returning the first property member flagged as an
// indexer (in member-name order within the entry where one is found); an
// entry carrying more than one indexer is not rejected. The key CLR type is
// the member's IndexKeyCLR field as stored in the catalog (the stable ID is
// not parsed here), and inheritance substitution is applied to the value
// type.
func (c *Context) GetIndexerInfo(receiver ir.Type) (IndexerInfo, bool) {
	receiver = ir.StripNullishUnion(receiver)
	id, args, ok := c.Env.NormalizeToNominal(receiver)
	if !ok {
		return IndexerInfo{}, false
	}

	entry, ok := c.Env.GetByTypeID(id)
	if ok {
		if idx, found := findIndexer(entry); found {
			sub := identitySubstFor(c.Env, id, args)
			return IndexerInfo{KeyCLRType: idx.IndexKeyCLR, ValueType: subst.Apply(idx.Type, sub)}, true
		}
	}

	for _, ancestorID := range c.Env.InheritanceChain(id) {
		ancestorEntry, ok := c.Env.GetByTypeID(ancestorID)
		if !ok {
			continue
		}
		if idx, found := findIndexer(ancestorEntry); found {
			sub, ok := c.Env.GetInstantiation(id, args, ancestorID)
			if !ok {
				sub = nil
			}
			return IndexerInfo{KeyCLRType: idx.IndexKeyCLR, ValueType: subst.Apply(idx.Type, sub)}, true
		}
	}
	return IndexerInfo{}, false
}

func findIndexer(entry *catalog.Entry) (catalog.MemberEntry, bool) {
	names := make([]string, 0, len(entry.Members))
	for name := range entry.Members {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		m := entry.Members[name]
		if m.IsIndexer && m.IsProperty() {
			return m, true
		}
	}
	return catalog.MemberEntry{}, false
}

func identitySubstFor(env *catalog.Env, id ir.TypeID, args []ir.Type) subst.Subst {
	params := env.GetTypeParameters(id)
	s := make(subst.Subst, len(params))
	for i, p := range params {
		if i < len(args) {
			s[p.Name] = args[i]
		}
	}
	return s
}

// ParseIndexerKeyArgs splits a bracketed parameter list on top-level commas
// only (depth tracking for nested generic angle brackets and parens) — the
// routine that recovers an indexer's key CLR type(s) from its stable ID
// text, e.g. "Item[System.String,System.Int32]" -> ["System.String",
// "System.Int32"].
func ParseIndexerKeyArgs(stableID string) []string {
	open := strings.IndexByte(stableID, '[')
	closeIdx := strings.LastIndexByte(stableID, ']')
	if open < 0 || closeIdx < 0 || closeIdx <= open {
		return nil
	}
	inner := stableID[open+1 : closeIdx]
	var parts []string
	depth := 0
	last := 0
	for i, r := range inner {
		switch r {
		case '<', '(', '[':
			depth++
		case '>', ')', ']':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(inner[last:i]))
				last = i + 1
			}
		}
	}
	parts = append(parts, strings.TrimSpace(inner[last:]))
	return parts
}
