package catalog

import "github.com/tsoniclang/typeauthority/internal/ir"

// AliasTable canonicalizes surface names — "string", "System.String",
// namespace-qualified forms, facade names with or without an arity suffix
// ("IList" vs "IList_1") — to a single TypeID. It is consulted before the
// catalog's own TS/CLR name maps in Env.ResolveTypeIDByName, since an alias
// is, by construction, a shortcut straight to the canonical identity.
type AliasTable struct {
	byName map[string]ir.TypeID
}

// NewAliasTable constructs an empty alias table.
func NewAliasTable() *AliasTable {
	return &AliasTable{byName: make(map[string]ir.TypeID)}
}

// Set registers name as an alias of id. Re-registering a name overwrites
// its target, matching how a later, more specific alias load should win.
func (a *AliasTable) Set(name string, id ir.TypeID) {
	a.byName[name] = id
}

// Get resolves an alias name to its canonical TypeID.
func (a *AliasTable) Get(name string) (ir.TypeID, bool) {
	id, ok := a.byName[name]
	return id, ok
}

// BuiltinNominals is the fixed bridge from TS primitive name to its CLR
// facade name, used by Env.NormalizeToNominal for primitive-to-nominal
// bridging, and re-exported as the facade's documented BUILTIN_NOMINALS
// constant.
var BuiltinNominals = map[ir.PrimitiveName]string{
	ir.PrimString:  "String",
	ir.PrimNumber:  "Number",
	ir.PrimBoolean: "Boolean",
	ir.PrimBigInt:  "BigInt",
	ir.PrimSymbol:  "Symbol",
}
