// Package handle defines the opaque, branded identifiers that cross the
// Binding→TypeAuthority boundary, and the Registry interface Binding
// implements to resolve them. Nothing downstream of Binding ever sees a raw
// AST node: every query arrives as one of these index-style IDs, stable only
// within the one compilation context that minted it.
package handle

// DeclId identifies a declaration (variable, function, class, interface,
// type alias, enum, parameter, property, or method) captured by Binding.
type DeclId int64

// SignatureId identifies a captured call/method signature: its parameter
// list, return type node, type parameters, and declaring-type identity.
type SignatureId int64

// MemberId identifies a single captured class/interface member.
type MemberId int64

// TypeSyntaxId identifies a captured TypeNode, the unit the external syntax
// converter turns into IR.
type TypeSyntaxId int64

// Invalid is the zero value for every handle kind, guaranteed to never be
// minted by a real Binding pass. Facade methods that receive it should treat
// it as a resolution failure rather than a panic.
const Invalid = 0
