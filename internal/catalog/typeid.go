package catalog

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/tsoniclang/typeauthority/internal/ir"
)

// stableIDNamespace is a fixed namespace UUID used only to seed
// uuid.NewSHA1's deterministic hash — never compared against, never
// persisted on its own. Any fixed UUID works here; what matters is that it
// never changes between runs, so the same (qualifiedName, arity) pair always
// mints the same StableID, preserving determinism across runs.
var stableIDNamespace = uuid.MustParse("6f1b2c1a-6e35-4e8b-9a77-df9a9a7c9b01")

// MintTypeID derives a canonical ir.TypeID for a nominal type from its
// qualified name and arity. It deliberately uses uuid.NewSHA1 (a
// deterministic, namespace-seeded hash) rather than uuid.New() (random):
// the same qualified name and arity must mint the same StableID on every
// run, on every machine, so caches and test goldens stay stable — the exact
// property a random UUID would violate.
func MintTypeID(qualifiedName string, arity int, clrName string) ir.TypeID {
	key := fmt.Sprintf("%s#%d", qualifiedName, arity)
	return ir.TypeID{
		StableID: uuid.NewSHA1(stableIDNamespace, []byte(key)).String(),
		CLRName:  clrName,
	}
}

// facadeName returns the arity-normalized facade form of a name, e.g.
// IList<T> with arity 1 normalizes to "IList_1" — the convention CLR facade
// types use for generic arity disambiguation.
func facadeName(name string, arity int) string {
	return fmt.Sprintf("%s_%d", name, arity)
}
