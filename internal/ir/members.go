package ir

import "fmt"

// Member is the closed sum of the two shapes a structural or nominal type
// can carry: a property or a method. Like Type, it seals against external
// implementations so every switch in relations/inference/callresolve can
// assume exactly these two variants.
type Member interface {
	MemberName() string
	String() string
	sealedMember()
}

// PropertySignature is a data member: a field or accessor exposed as a
// simple typed slot.
type PropertySignature struct {
	Name       string
	Type       Type
	IsOptional bool
	IsReadonly bool
}

func (PropertySignature) sealedMember()    {}
func (m PropertySignature) MemberName() string { return m.Name }
func (m PropertySignature) String() string {
	mods := ""
	if m.IsReadonly {
		mods += "readonly "
	}
	opt := ""
	if m.IsOptional {
		opt = "?"
	}
	return fmt.Sprintf("%s%s%s: %s", mods, m.Name, opt, m.Type.String())
}

// MethodSignature is a callable member. TypeParameters carries the method's
// own generic parameter names (distinct from any the declaring nominal type
// already bound) — used by call resolution's receiver-vs-method
// substitution split.
type MethodSignature struct {
	Name           string
	Parameters     []Type
	ReturnType     Type
	TypeParameters []string
}

func (MethodSignature) sealedMember()    {}
func (m MethodSignature) MemberName() string { return m.Name }
func (m MethodSignature) String() string {
	ps := ""
	for i, p := range m.Parameters {
		if i > 0 {
			ps += ", "
		}
		ps += p.String()
	}
	return fmt.Sprintf("%s(%s) => %s", m.Name, ps, m.ReturnType.String())
}

// AsFunctionType converts a MethodSignature into the FunctionType shape
// used wherever a method is treated as a callable value: synthesizing a
// function type from a member's first signature, or converting a
// delegate's Invoke method into the function type it stands in for.
func (m MethodSignature) AsFunctionType() FunctionType {
	return FunctionType{Parameters: m.Parameters, ReturnType: m.ReturnType}
}

// FindMember looks a member up by name in a flat member slice — the
// fallback used for ObjectType/ReferenceType.StructuralMembers lookups
// before any catalog/inheritance walk is attempted.
func FindMember(members []Member, name string) (Member, bool) {
	for _, m := range members {
		if m.MemberName() == name {
			return m, true
		}
	}
	return nil, false
}
