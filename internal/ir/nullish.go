package ir

// StripNullishUnion collapses `T | null | undefined` (or either nullish
// member alone) down to T when exactly one non-nullish constituent remains:
// member lookup and call-site receiver handling both need
// the "real" shape underneath an optional-chaining-flavored union. Anything
// that isn't a union, or a union with zero or more than one non-nullish
// survivor, is returned unchanged.
func StripNullishUnion(t Type) Type {
	u, ok := t.(UnionType)
	if !ok {
		return t
	}
	var survivors []Type
	for _, m := range u.Types {
		if p, ok := m.(PrimitiveType); ok && p.Name.IsNullish() {
			continue
		}
		survivors = append(survivors, m)
	}
	if len(survivors) == 1 {
		return survivors[0]
	}
	return t
}
