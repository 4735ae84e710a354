// Package diagnostics defines the stable, structured error records the
// TypeAuthority emits in place of throwing. Every fault the facade detects —
// a missing annotation, an unresolved member, a conflicting type argument —
// becomes a *DiagnosticError with a fixed Code, never a bare error string,
// so callers can branch on failure kind without parsing messages.
package diagnostics

import "fmt"

// Code is a stable diagnostic identifier. Codes never change meaning once
// shipped; new failure kinds get new codes instead of overloading old ones.
type Code string

const (
	// MissingAnnotation: a declaration or function lacks an explicit type and
	// cannot be inferred deterministically.
	MissingAnnotation Code = "MISSING-ANNOTATION"
	// ResolutionFailed: a name, decl, signature, or member cannot be found,
	// including the special Binding-contract-violation variant.
	ResolutionFailed Code = "RESOLUTION-FAILED"
	// TypeArgConflict: call-site type parameter inference produced two
	// incompatible bindings for the same type parameter.
	TypeArgConflict Code = "TYPE-ARG-CONFLICT"
	// UnresolvedTypeArgs: call-site type parameter inference left a method
	// type parameter unbound and it still appears in the working return type.
	UnresolvedTypeArgs Code = "UNRESOLVED-TYPE-ARGS"
	// UtilityConstraint: a utility type's shape constraint was violated
	// (e.g. Pick's key argument wasn't a finite literal union).
	UtilityConstraint Code = "UTILITY-CONSTRAINT"
	// MemberNotFound: a member name is absent on the receiver and every
	// ancestor in its inheritance chain.
	MemberNotFound Code = "MEMBER-NOT-FOUND"
)

// Severity classifies how a diagnostic should be surfaced. The TypeAuthority
// only ever produces Error today, but callers (a future lint pass, say) may
// want to distinguish advisory output later, so the field exists now rather
// than being bolted on as a breaking change.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Location pinpoints where a diagnostic originates in source. Every field is
// optional; Binding may not always have captured a precise span (e.g. for a
// synthesized constructor return type).
type Location struct {
	File   string
	Line   int
	Column int
	Length int
}

// HasPosition reports whether the location carries a usable line/column.
func (l Location) HasPosition() bool {
	return l.Line > 0
}

// DiagnosticError is the sole error type the TypeAuthority's public surface
// returns. It always carries a Code, so a caller that only wants "did this
// fail with UNRESOLVED-TYPE-ARGS" never has to string-match.
type DiagnosticError struct {
	Code     Code
	Severity Severity
	Message  string
	Loc      Location
}

func (e *DiagnosticError) Error() string {
	if e.Loc.HasPosition() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Loc.File, e.Loc.Line, e.Loc.Column, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// New constructs an error-severity diagnostic at the given location with a
// printf-style message.
func New(code Code, loc Location, format string, args ...any) *DiagnosticError {
	return &DiagnosticError{
		Code:     code,
		Severity: SeverityError,
		Message:  fmt.Sprintf(format, args...),
		Loc:      loc,
	}
}

// NewUnlocated constructs a diagnostic with no known source position, for
// the cases where Binding never captured one (synthesized nodes).
func NewUnlocated(code Code, format string, args ...any) *DiagnosticError {
	return New(code, Location{}, format, args...)
}

// dedupeKey returns the key used to suppress duplicate diagnostics emitted
// for the same (location, code) pair within one TypeAuthority instance.
func (e *DiagnosticError) dedupeKey() string {
	return fmt.Sprintf("%s:%d:%d:%s", e.Loc.File, e.Loc.Line, e.Loc.Column, e.Code)
}

// Buffer is an append-only diagnostic accumulator scoped to one TypeAuthority
// instance. Clear truncates it; nothing else ever removes an entry.
type Buffer struct {
	seen  map[string]bool
	items []*DiagnosticError
}

// NewBuffer constructs an empty diagnostic buffer.
func NewBuffer() *Buffer {
	return &Buffer{seen: make(map[string]bool)}
}

// Add appends a diagnostic, skipping an exact (location, code) duplicate.
func (b *Buffer) Add(e *DiagnosticError) {
	if e == nil {
		return
	}
	key := e.dedupeKey()
	if b.seen[key] {
		return
	}
	b.seen[key] = true
	b.items = append(b.items, e)
}

// All returns every diagnostic accumulated so far, in emission order.
func (b *Buffer) All() []*DiagnosticError {
	out := make([]*DiagnosticError, len(b.items))
	copy(out, b.items)
	return out
}

// Clear truncates the buffer back to empty.
func (b *Buffer) Clear() {
	b.seen = make(map[string]bool)
	b.items = nil
}
