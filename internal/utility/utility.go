// Package utility implements deterministic expansion of the twelve named
// utility-type operators (plus mapped combinations of them) into concrete
// IR types: NonNullable, Partial/Required/Readonly, Pick/Omit,
// Exclude/Extract, ReturnType/Parameters, Awaited, and Record. Every
// expander is a total function over its IR arguments — a shape it can't
// satisfy emits a structured diagnostic and degrades to unknownType rather
// than panicking.
package utility

import (
	"sort"
	"strconv"

	"github.com/tsoniclang/typeauthority/internal/catalog"
	"github.com/tsoniclang/typeauthority/internal/diagnostics"
	"github.com/tsoniclang/typeauthority/internal/ir"
	"github.com/tsoniclang/typeauthority/internal/relations"
	"github.com/tsoniclang/typeauthority/internal/subst"
)

// Name identifies one of the closed set of utility operators.
type Name string

const (
	NonNullable Name = "NonNullable"
	Partial     Name = "Partial"
	Required    Name = "Required"
	Readonly    Name = "Readonly"
	Pick        Name = "Pick"
	Omit        Name = "Omit"
	Exclude     Name = "Exclude"
	Extract     Name = "Extract"
	ReturnType  Name = "ReturnType"
	Parameters  Name = "Parameters"
	Awaited     Name = "Awaited"
	Record      Name = "Record"
)

// Expander holds the nominal environment needed to recover structural
// members for a catalog-backed (as opposed to purely structural) type
// argument.
type Expander struct {
	Env *catalog.Env
}

// NewExpander constructs a utility Expander over env.
func NewExpander(env *catalog.Env) *Expander {
	return &Expander{Env: env}
}

// Expand dispatches to the named operator's expansion over args, reporting
// a diagnostic onto diags (which may be nil to discard it) when args
// doesn't satisfy the operator's shape constraint.
func (e *Expander) Expand(name Name, args []ir.Type, diags *diagnostics.Buffer) ir.Type {
	if len(args) > 0 && relations.ContainsTypeParameter(args[0]) {
		return ir.Unknown
	}
	switch name {
	case NonNullable:
		return e.expandNonNullable(args, diags)
	case Partial:
		return e.expandMapped(args, diags, setOptional(true), nil)
	case Required:
		return e.expandMapped(args, diags, setOptional(false), nil)
	case Readonly:
		return e.expandMapped(args, diags, nil, setReadonly(true))
	case Pick:
		return e.expandPickOmit(args, diags, true)
	case Omit:
		return e.expandPickOmit(args, diags, false)
	case Exclude:
		return e.expandExcludeExtract(args, diags, false)
	case Extract:
		return e.expandExcludeExtract(args, diags, true)
	case ReturnType:
		return e.expandReturnType(args, diags)
	case Parameters:
		return e.expandParameters(args, diags)
	case Awaited:
		return e.expandAwaited(args, diags)
	case Record:
		return e.expandRecord(args, diags)
	default:
		addDiag(diags, "unknown utility type %q", string(name))
		return ir.Unknown
	}
}

func addDiag(diags *diagnostics.Buffer, format string, args ...any) {
	if diags == nil {
		return
	}
	diags.Add(diagnostics.NewUnlocated(diagnostics.UtilityConstraint, format, args...))
}

// expandNonNullable strips every nullish constituent from t: a nullish
// primitive on its own collapses to never; a union filters its nullish
// branches and then collapses per NormalizeUnion's own empty/singleton
// rules; anything else (already non-nullish) passes through unchanged.
func (e *Expander) expandNonNullable(args []ir.Type, diags *diagnostics.Buffer) ir.Type {
	if len(args) != 1 {
		addDiag(diags, "NonNullable requires exactly one type argument, got %d", len(args))
		return ir.Unknown
	}
	t := args[0]
	if p, ok := t.(ir.PrimitiveType); ok && p.Name.IsNullish() {
		return ir.Never
	}
	if u, ok := t.(ir.UnionType); ok {
		var kept []ir.Type
		for _, m := range u.Types {
			if p, ok := m.(ir.PrimitiveType); ok && p.Name.IsNullish() {
				continue
			}
			kept = append(kept, m)
		}
		return ir.NormalizeUnion(kept)
	}
	return t
}

type memberEdit func(ir.Member) ir.Member

func setOptional(v bool) memberEdit {
	return func(m ir.Member) ir.Member {
		if p, ok := m.(ir.PropertySignature); ok {
			p.IsOptional = v
			return p
		}
		return m
	}
}

func setReadonly(v bool) memberEdit {
	return func(m ir.Member) ir.Member {
		if p, ok := m.(ir.PropertySignature); ok {
			p.IsReadonly = v
			return p
		}
		return m
	}
}

// expandMapped implements Partial/Required/Readonly: recover t's structural
// members, apply whichever of optEdit/roEdit is non-nil to every member, and
// rewrap as an ObjectType. t must be an objectType or a reference with
// recoverable structural members.
func (e *Expander) expandMapped(args []ir.Type, diags *diagnostics.Buffer, optEdit, roEdit memberEdit) ir.Type {
	if len(args) != 1 {
		addDiag(diags, "mapped utility requires exactly one type argument, got %d", len(args))
		return ir.Unknown
	}
	members, ok := e.structuralMembersOf(args[0])
	if !ok {
		addDiag(diags, "mapped utility requires an object type or a type with recoverable structural members, got %s", args[0])
		return ir.Unknown
	}
	out := make([]ir.Member, len(members))
	for i, m := range members {
		edited := m
		if optEdit != nil {
			edited = optEdit(edited)
		}
		if roEdit != nil {
			edited = roEdit(edited)
		}
		out[i] = edited
	}
	return ir.ObjectType{Members: out}
}

// expandPickOmit implements Pick<T, K> and Omit<T, K>: K must be a finite
// union of string or number literal types (or a single literal), filtering T's
// members by inclusion (Pick) or exclusion (Omit) of that name set.
func (e *Expander) expandPickOmit(args []ir.Type, diags *diagnostics.Buffer, pick bool) ir.Type {
	name := "Omit"
	if pick {
		name = "Pick"
	}
	if len(args) != 2 {
		addDiag(diags, "%s requires exactly two type arguments, got %d", name, len(args))
		return ir.Unknown
	}
	members, ok := e.structuralMembersOf(args[0])
	if !ok {
		addDiag(diags, "%s requires an object type or a type with recoverable structural members, got %s", name, args[0])
		return ir.Unknown
	}
	keys, ok := literalStringKeys(args[1])
	if !ok {
		addDiag(diags, "%s's key argument must be a finite union of string or number literals, got %s", name, args[1])
		return ir.Unknown
	}
	keySet := make(map[string]bool, len(keys))
	for _, k := range keys {
		keySet[k] = true
	}
	var out []ir.Member
	for _, m := range members {
		if keySet[m.MemberName()] == pick {
			out = append(out, m)
		}
	}
	return ir.ObjectType{Members: out}
}

// literalStringKeys extracts the finite set of literal key names from a
// literalType or a union of literalTypes; returns ok=false if any
// constituent isn't a literal.
func literalStringKeys(t ir.Type) ([]string, bool) {
	switch lt := t.(type) {
	case ir.LiteralType:
		return []string{literalKeyString(lt)}, true
	case ir.UnionType:
		keys := make([]string, 0, len(lt.Types))
		for _, m := range lt.Types {
			lit, ok := m.(ir.LiteralType)
			if !ok {
				return nil, false
			}
			keys = append(keys, literalKeyString(lit))
		}
		return keys, true
	default:
		return nil, false
	}
}

func literalKeyString(lt ir.LiteralType) string {
	if lt.Kind == ir.LiteralString {
		return lt.StringValue
	}
	return floatKeyString(lt.NumberValue)
}

func floatKeyString(f float64) string {
	i := int64(f)
	if float64(i) == f {
		return strconv.FormatInt(i, 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// expandExcludeExtract implements Exclude<T, U> and Extract<T, U>: every
// constituent of T (T itself if not a union) is tested by typesEqual
// against every constituent of U (U itself if not a union); Exclude keeps
// non-matches, Extract keeps matches.
func (e *Expander) expandExcludeExtract(args []ir.Type, diags *diagnostics.Buffer, extract bool) ir.Type {
	name := "Exclude"
	if extract {
		name = "Extract"
	}
	if len(args) != 2 {
		addDiag(diags, "%s requires exactly two type arguments, got %d", name, len(args))
		return ir.Unknown
	}
	tMembers := unionConstituents(args[0])
	uMembers := unionConstituents(args[1])
	var kept []ir.Type
	for _, t := range tMembers {
		matches := false
		for _, u := range uMembers {
			if relations.TypesEqual(t, u) {
				matches = true
				break
			}
		}
		if matches == extract {
			kept = append(kept, t)
		}
	}
	return ir.NormalizeUnion(kept)
}

func unionConstituents(t ir.Type) []ir.Type {
	if u, ok := t.(ir.UnionType); ok {
		return u.Types
	}
	return []ir.Type{t}
}

// expandReturnType implements ReturnType<F>: F must be a functionType.
func (e *Expander) expandReturnType(args []ir.Type, diags *diagnostics.Buffer) ir.Type {
	if len(args) != 1 {
		addDiag(diags, "ReturnType requires exactly one type argument, got %d", len(args))
		return ir.Unknown
	}
	fn, ok := args[0].(ir.FunctionType)
	if !ok {
		addDiag(diags, "ReturnType requires a function type, got %s", args[0])
		return ir.Unknown
	}
	return fn.ReturnType
}

// expandParameters implements Parameters<F>: F must be a functionType,
// result is a tuple of its parameter types in order.
func (e *Expander) expandParameters(args []ir.Type, diags *diagnostics.Buffer) ir.Type {
	if len(args) != 1 {
		addDiag(diags, "Parameters requires exactly one type argument, got %d", len(args))
		return ir.Unknown
	}
	fn, ok := args[0].(ir.FunctionType)
	if !ok {
		addDiag(diags, "Parameters requires a function type, got %s", args[0])
		return ir.Unknown
	}
	return ir.TupleType{ElementTypes: fn.Parameters}
}

// expandAwaited implements Awaited<T>: recursively unwraps
// Promise/PromiseLike/Task/ValueTask, mapping a non-generic Task/ValueTask
// to void, and distributing across a union's constituents.
func (e *Expander) expandAwaited(args []ir.Type, diags *diagnostics.Buffer) ir.Type {
	if len(args) != 1 {
		addDiag(diags, "Awaited requires exactly one type argument, got %d", len(args))
		return ir.Unknown
	}
	return awaitedOf(args[0])
}

func awaitedOf(t ir.Type) ir.Type {
	if u, ok := t.(ir.UnionType); ok {
		out := make([]ir.Type, len(u.Types))
		for i, m := range u.Types {
			out[i] = awaitedOf(m)
		}
		return ir.NormalizeUnion(out)
	}
	ref, ok := t.(ir.ReferenceType)
	if !ok {
		return t
	}
	switch ref.Name {
	case "Promise", "PromiseLike", "Task", "ValueTask":
		if len(ref.TypeArguments) == 1 {
			return awaitedOf(ref.TypeArguments[0])
		}
		return ir.Void
	default:
		return t
	}
}

// expandRecord implements Record<K, V>: if K is a finite literal union,
// emits an objectType with one required property per key, all typed V; a
// non-finite K degrades to unknownType with a diagnostic, leaving the
// caller to fall back to a dictionaryType itself.
func (e *Expander) expandRecord(args []ir.Type, diags *diagnostics.Buffer) ir.Type {
	if len(args) != 2 {
		addDiag(diags, "Record requires exactly two type arguments, got %d", len(args))
		return ir.Unknown
	}
	keys, ok := literalStringKeys(args[0])
	if !ok {
		addDiag(diags, "Record's key type %s is not a finite literal union; fall back to a dictionary type", args[0])
		return ir.Unknown
	}
	sort.Strings(keys)
	members := make([]ir.Member, len(keys))
	for i, k := range keys {
		members[i] = ir.PropertySignature{Name: k, Type: args[1]}
	}
	return ir.ObjectType{Members: members}
}

// structuralMembersOf recovers t's member list for the mapped-type
// operators: an ObjectType's own members; a ReferenceType's inline
// StructuralMembers if captured; otherwise a catalog-backed nominal type's
// own declared members, substituted for its supplied type arguments.
func (e *Expander) structuralMembersOf(t ir.Type) ([]ir.Member, bool) {
	switch typ := t.(type) {
	case ir.ObjectType:
		return typ.Members, true
	case ir.ReferenceType:
		if typ.StructuralMembers != nil {
			return typ.StructuralMembers, true
		}
		if e.Env == nil {
			return nil, false
		}
		id, args, ok := e.Env.NormalizeToNominal(typ)
		if !ok {
			return nil, false
		}
		entry, ok := e.Env.GetByTypeID(id)
		if !ok {
			return nil, false
		}
		params := e.Env.GetTypeParameters(id)
		s := make(subst.Subst, len(params))
		for i, p := range params {
			if i < len(args) {
				s[p.Name] = args[i]
			}
		}
		names := make([]string, 0, len(entry.Members))
		for name := range entry.Members {
			names = append(names, name)
		}
		sort.Strings(names)
		out := make([]ir.Member, 0, len(names))
		for _, name := range names {
			me := entry.Members[name]
			out = append(out, memberEntryToMember(me, s))
		}
		return out, true
	default:
		return nil, false
	}
}

func memberEntryToMember(me catalog.MemberEntry, s subst.Subst) ir.Member {
	if me.IsProperty() {
		return ir.PropertySignature{
			Name:       me.Name,
			Type:       subst.Apply(me.Type, s),
			IsOptional: me.IsOptional,
			IsReadonly: me.IsReadonly,
		}
	}
	sig := me.Signatures[0]
	params := make([]ir.Type, len(sig.Parameters))
	for i, p := range sig.Parameters {
		params[i] = subst.Apply(p.Type, s)
	}
	return ir.MethodSignature{Name: me.Name, Parameters: params, ReturnType: subst.Apply(sig.ReturnType, s)}
}
