// Package ir defines the tagged IR type model every TypeAuthority query
// reads and returns. Types are a closed sum: a Go interface with an
// unexported marker method, sealed against implementation outside this
// package, and consumers dispatch on the concrete variant with a type
// switch rather than through an inheritance hierarchy. No variant here
// carries behavior beyond String(); substitution, equality, and
// assignability all live in sibling packages that switch over these shapes.
package ir

import (
	"fmt"
	"sort"
	"strings"
)

// Type is the interface every IR type variant implements. sealed() is
// unexported so no package outside ir can add a sixteenth variant — every
// switch over Type in this module can assume exhaustiveness against the
// fifteen variants below.
type Type interface {
	String() string
	sealed()
}

// TypeID is the canonical identity of a nominal CLR/surface type: a
// globally unique, deterministically-derived stable key plus an optional
// CLR-qualified display name. Two ReferenceTypes denote the same nominal
// type iff their TypeID.StableID match; everything else about a TypeID is
// informational. TypeID is a plain comparable struct so it can be used
// directly as a map key (catalog lookups, member-type cache keys) without a
// serialization step.
type TypeID struct {
	StableID string
	CLRName  string
}

// IsZero reports whether this is the unset TypeID — i.e. "no canonical
// identity is known for this reference yet".
func (id TypeID) IsZero() bool {
	return id.StableID == ""
}

func (id TypeID) String() string {
	if id.CLRName != "" {
		return id.CLRName
	}
	return id.StableID
}

// PrimitiveName enumerates the closed set of primitive type names, covering
// both TS surface primitives and the CLR numeric widenings the expression
// typer (package inference) classifies literals into.
type PrimitiveName string

const (
	PrimString    PrimitiveName = "string"
	PrimNumber    PrimitiveName = "number"
	PrimBoolean   PrimitiveName = "boolean"
	PrimNull      PrimitiveName = "null"
	PrimUndefined PrimitiveName = "undefined"
	PrimBigInt    PrimitiveName = "bigint"
	PrimSymbol    PrimitiveName = "symbol"

	PrimInt    PrimitiveName = "int"
	PrimLong   PrimitiveName = "long"
	PrimFloat  PrimitiveName = "float"
	PrimDouble PrimitiveName = "double"
	PrimByte   PrimitiveName = "byte"
	PrimShort  PrimitiveName = "short"
	PrimUInt   PrimitiveName = "uint"
	PrimULong  PrimitiveName = "ulong"
	PrimUShort PrimitiveName = "ushort"
	PrimSByte  PrimitiveName = "sbyte"
	PrimChar   PrimitiveName = "char"
)

// IsNullish reports whether this primitive is null or undefined — the two
// names isAssignableTo and union collapsing treat specially.
func (n PrimitiveName) IsNullish() bool {
	return n == PrimNull || n == PrimUndefined
}

// PrimitiveType is a leaf primitive (string, number, boolean, null,
// undefined, or one of the CLR numeric widenings).
type PrimitiveType struct {
	Name PrimitiveName
}

func (PrimitiveType) sealed()          {}
func (t PrimitiveType) String() string { return string(t.Name) }

// ArrayOrigin records whether an ArrayType came from an explicit `T[]`
// annotation or was inferred structurally from a literal — relations and
// the expander never branch on it, but diagnostics quote it to explain
// why, e.g., a uniform-element-type literal inference failed.
type ArrayOrigin int

const (
	ArrayExplicit ArrayOrigin = iota
	ArrayInferred
)

// ReferenceType is a nominal type reference: a named class, interface,
// delegate, or type alias, optionally instantiated with type arguments.
// TypeID is the canonical identity once resolved; StructuralMembers is set
// only when the reference denotes an interface or a type-alias-to-object-
// literal shape whose members are known inline (so member lookup doesn't
// need a catalog round trip). ResolvedCLRType is the CLR-qualified name as
// captured by Binding, used to re-derive TypeID when it wasn't pre-resolved.
type ReferenceType struct {
	Name              string
	TypeArguments     []Type
	TypeID            TypeID // zero value if not yet resolved
	StructuralMembers []Member
	ResolvedCLRType   string
}

func (ReferenceType) sealed() {}
func (t ReferenceType) String() string {
	if len(t.TypeArguments) == 0 {
		return t.Name
	}
	parts := make([]string, len(t.TypeArguments))
	for i, a := range t.TypeArguments {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s<%s>", t.Name, strings.Join(parts, ", "))
}

// ArrayType is a homogeneous array T[].
type ArrayType struct {
	ElementType Type
	Origin      ArrayOrigin
}

func (ArrayType) sealed() {}
func (t ArrayType) String() string {
	return t.ElementType.String() + "[]"
}

// TupleType is a fixed-length heterogeneous tuple.
type TupleType struct {
	ElementTypes []Type
}

func (TupleType) sealed() {}
func (t TupleType) String() string {
	parts := make([]string, len(t.ElementTypes))
	for i, e := range t.ElementTypes {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// FunctionType is a call signature shape: parameter types in order plus a
// return type. Optionality of a parameter is already folded into its Type
// (as `T | undefined`) by the time it reaches this variant.
type FunctionType struct {
	Parameters []Type
	ReturnType Type
}

func (FunctionType) sealed() {}
func (t FunctionType) String() string {
	parts := make([]string, len(t.Parameters))
	for i, p := range t.Parameters {
		parts[i] = p.String()
	}
	return fmt.Sprintf("(%s) => %s", strings.Join(parts, ", "), t.ReturnType.String())
}

// UnionType is an unordered set of alternative types. NormalizeUnion should
// be used to construct one so flattening/ordering stays canonical.
type UnionType struct {
	Types []Type
}

func (UnionType) sealed() {}
func (t UnionType) String() string {
	parts := make([]string, len(t.Types))
	for i, m := range t.Types {
		parts[i] = m.String()
	}
	sort.Strings(parts)
	return strings.Join(parts, " | ")
}

// IntersectionType is an unordered set of types that must all hold at once.
type IntersectionType struct {
	Types []Type
}

func (IntersectionType) sealed() {}
func (t IntersectionType) String() string {
	parts := make([]string, len(t.Types))
	for i, m := range t.Types {
		parts[i] = m.String()
	}
	sort.Strings(parts)
	return strings.Join(parts, " & ")
}

// ObjectType is a purely structural object shape (an interface or inline
// type-literal with no nominal identity of its own).
type ObjectType struct {
	Members []Member
}

func (ObjectType) sealed() {}
func (t ObjectType) String() string {
	parts := make([]string, len(t.Members))
	for i, m := range t.Members {
		parts[i] = m.String()
	}
	return "{ " + strings.Join(parts, "; ") + " }"
}

// DictionaryType is a homogeneous string/number-keyed map (the IR shape
// Record<K, V> falls back to when K is not a finite literal union).
type DictionaryType struct {
	KeyType   Type
	ValueType Type
}

func (DictionaryType) sealed() {}
func (t DictionaryType) String() string {
	return fmt.Sprintf("{ [key: %s]: %s }", t.KeyType.String(), t.ValueType.String())
}

// LiteralValueKind distinguishes the two literal-type payload kinds.
type LiteralValueKind int

const (
	LiteralString LiteralValueKind = iota
	LiteralNumber
)

// LiteralType is a single-value literal type, e.g. the "a" in
// `type K = "a" | "c"`.
type LiteralType struct {
	Kind        LiteralValueKind
	StringValue string
	NumberValue float64
}

func (LiteralType) sealed() {}
func (t LiteralType) String() string {
	if t.Kind == LiteralString {
		return fmt.Sprintf("%q", t.StringValue)
	}
	return fmt.Sprintf("%v", t.NumberValue)
}

// TypeParameterType is an unresolved reference to a method or type-level
// type parameter by name (e.g. `T` inside `map<T, U>`).
type TypeParameterType struct {
	Name string
}

func (TypeParameterType) sealed()          {}
func (t TypeParameterType) String() string { return t.Name }

// VoidType, NeverType, UnknownType, AnyType are the four singleton shapes.
// Each has exactly one value, exposed below as a package-level constant, so
// callers never need to allocate one.
type VoidType struct{}
type NeverType struct{}
type UnknownType struct{}
type AnyType struct{}

func (VoidType) sealed()    {}
func (NeverType) sealed()   {}
func (UnknownType) sealed() {}
func (AnyType) sealed()     {}

func (VoidType) String() string    { return "void" }
func (NeverType) String() string   { return "never" }
func (UnknownType) String() string { return "unknown" }
func (AnyType) String() string     { return "any" }

// Void, Never, Unknown, Any are the shared singleton instances. The facade's
// three documented factory constants (unknownType, neverType, voidType) are
// these values, re-exported from the root package.
var (
	Void    Type = VoidType{}
	Never   Type = NeverType{}
	Unknown Type = UnknownType{}
	Any     Type = AnyType{}
)

// NormalizeUnion flattens nested unions, deduplicates by String() identity,
// and collapses a single-member result to that member (a union of one thing
// is that thing). An empty result normalizes to Never, matching the
// "filtered to nothing" case the NonNullable/Exclude utility expanders
// rely on.
func NormalizeUnion(types []Type) Type {
	seen := make(map[string]bool)
	var flat []Type
	var walk func(Type)
	walk = func(t Type) {
		if u, ok := t.(UnionType); ok {
			for _, m := range u.Types {
				walk(m)
			}
			return
		}
		key := t.String()
		if seen[key] {
			return
		}
		seen[key] = true
		flat = append(flat, t)
	}
	for _, t := range types {
		walk(t)
	}
	switch len(flat) {
	case 0:
		return Never
	case 1:
		return flat[0]
	default:
		sort.Slice(flat, func(i, j int) bool { return flat[i].String() < flat[j].String() })
		return UnionType{Types: flat}
	}
}

// NormalizeIntersection is the intersection analogue of NormalizeUnion.
func NormalizeIntersection(types []Type) Type {
	seen := make(map[string]bool)
	var flat []Type
	var walk func(Type)
	walk = func(t Type) {
		if in, ok := t.(IntersectionType); ok {
			for _, m := range in.Types {
				walk(m)
			}
			return
		}
		key := t.String()
		if seen[key] {
			return
		}
		seen[key] = true
		flat = append(flat, t)
	}
	for _, t := range types {
		walk(t)
	}
	switch len(flat) {
	case 0:
		return Unknown
	case 1:
		return flat[0]
	default:
		sort.Slice(flat, func(i, j int) bool { return flat[i].String() < flat[j].String() })
		return IntersectionType{Types: flat}
	}
}
