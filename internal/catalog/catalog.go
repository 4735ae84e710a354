// Package catalog is the prebuilt, read-mostly NominalCatalog: the store of
// nominal CLR/surface types by canonical TypeID, their inheritance edges
// (with substitution), members, signatures, and aliases. It is the only
// subsystem allowed to mint a TypeID (catalog.MintTypeID) and the only one
// that knows how surface names canonicalize to one identity (AliasTable,
// Env.ResolveTypeIDByName).
package catalog

import (
	"github.com/tsoniclang/typeauthority/internal/handle"
	"github.com/tsoniclang/typeauthority/internal/ir"
)

// Kind classifies a catalog entry's declaration form.
type Kind int

const (
	KindClass Kind = iota
	KindInterface
	KindTypeAlias
	KindDelegate
)

// Origin distinguishes a type declared in a referenced assembly (a CLR BCL
// or NuGet type, whose overloads participate in catalog overload fallback)
// from one declared in the program's own TS source (whose overload set is
// exactly what TS itself already selected from).
type Origin int

const (
	OriginAssembly Origin = iota
	OriginSource
)

// TypeParamEntry is one of a catalog entry's own declared type parameters.
type TypeParamEntry struct {
	Name       string
	Constraint ir.Type // nil if unconstrained
	Default    ir.Type // nil if no default
}

// ParamEntry is one parameter of a MethodSignatureEntry.
type ParamEntry struct {
	Name string
	Type ir.Type
	Mode handle.ParamMode
}

// MethodSignatureEntry is one overload of a catalog method member.
type MethodSignatureEntry struct {
	StableID       string
	Parameters     []ParamEntry
	ReturnType     ir.Type
	TypeParameters []TypeParamEntry
	IsVariadic     bool // true iff the last parameter is a CLR params array
}

// ArityOf reports how many positional parameters this overload declares.
func (sig MethodSignatureEntry) ArityOf() int {
	return len(sig.Parameters)
}

// MemberEntry is one member of a catalog entry: either a property (Type set,
// Signatures nil) or a method (Signatures set, ordered as declared).
type MemberEntry struct {
	Name         string
	Type         ir.Type // property type; nil for methods
	IsOptional   bool
	IsReadonly   bool
	IsIndexer    bool
	IndexKeyCLR  string // CLR key type name parsed from the indexer's stable ID
	Signatures   []MethodSignatureEntry
}

// IsProperty reports whether this entry is a data member rather than a
// method (i.e. it has no overload signatures).
func (m MemberEntry) IsProperty() bool {
	return len(m.Signatures) == 0
}

// InheritanceEdge points from an entry to one direct ancestor, carrying the
// substitution from the ancestor's own type parameters to the concrete
// arguments this entry supplies when extending/implementing it. E.g. `class
// Derived : Base<string>` with `class Base<T>` produces an edge to Base's
// TypeID with substitution {T: string}.
type InheritanceEdge struct {
	Target       ir.TypeID
	Substitution map[string]ir.Type
}

// Entry is one NominalCatalog record.
type Entry struct {
	Kind            Kind
	TypeID          ir.TypeID
	TypeParameters  []TypeParamEntry
	Members         map[string]MemberEntry
	Inheritance     []InheritanceEdge
	Origin          Origin
	AliasUnderlying ir.Type // for KindTypeAlias only; nil otherwise
}

// Catalog is the prebuilt nominal type store. It is built once (typically
// by a loader that reads assembly metadata and the program's own type
// declarations) and then treated as read-only for the remainder of the
// compilation — concurrent TypeAuthority instances may share one safely
// since nothing here ever mutates after construction.
type Catalog struct {
	byID     map[ir.TypeID]*Entry
	byTSName map[string]ir.TypeID
	byCLR    map[string]ir.TypeID
	index    map[ir.TypeID]int // dense index for intsets-based visited sets
	nextIdx  int
}

// New constructs an empty catalog ready for registration.
func New() *Catalog {
	return &Catalog{
		byID:     make(map[ir.TypeID]*Entry),
		byTSName: make(map[string]ir.TypeID),
		byCLR:    make(map[string]ir.TypeID),
		index:    make(map[ir.TypeID]int),
	}
}

// Register adds an entry under its own TypeID, plus name lookup aliases for
// a TS-facing name and (optionally) a CLR-qualified name. Both may be
// registered for the same entry (e.g. "string" is never registered this
// way, but "List" TS name and "System.Collections.Generic.List`1" CLR name
// both point at the same entry for a BCL type).
func (c *Catalog) Register(e *Entry, tsName, clrName string) {
	c.byID[e.TypeID] = e
	if _, exists := c.index[e.TypeID]; !exists {
		c.index[e.TypeID] = c.nextIdx
		c.nextIdx++
	}
	if tsName != "" {
		c.byTSName[tsName] = e.TypeID
	}
	if clrName != "" {
		c.byCLR[clrName] = e.TypeID
	}
}

// ByID looks up an entry by its canonical TypeID.
func (c *Catalog) ByID(id ir.TypeID) (*Entry, bool) {
	e, ok := c.byID[id]
	return e, ok
}

// ResolveTSName looks up a TypeID by its TS-facing registered name.
func (c *Catalog) ResolveTSName(name string) (ir.TypeID, bool) {
	id, ok := c.byTSName[name]
	return id, ok
}

// ResolveCLRName looks up a TypeID by its CLR-qualified registered name.
func (c *Catalog) ResolveCLRName(name string) (ir.TypeID, bool) {
	id, ok := c.byCLR[name]
	return id, ok
}

// DenseIndex returns the small dense integer this catalog assigned a
// TypeID at registration time, for use as an intsets.Sparse element during
// inheritance walks. Returns -1 for an unregistered TypeID.
func (c *Catalog) DenseIndex(id ir.TypeID) int {
	if idx, ok := c.index[id]; ok {
		return idx
	}
	return -1
}
