package inference

import (
	"strings"

	"github.com/tsoniclang/typeauthority/internal/handle"
	"github.com/tsoniclang/typeauthority/internal/ir"
)

// NumericKind is the closed set of CLR numeric widenings a literal lexeme
// classifies into.
type NumericKind int

const (
	KindInt NumericKind = iota
	KindLong
	KindFloat
	KindDouble
	KindByte
	KindShort
	KindUInt
	KindULong
	KindUShort
	KindSByte
)

// IRType maps a NumericKind to its IR primitive.
func (k NumericKind) IRType() ir.Type {
	name := map[NumericKind]ir.PrimitiveName{
		KindInt:    ir.PrimInt,
		KindLong:   ir.PrimLong,
		KindFloat:  ir.PrimFloat,
		KindDouble: ir.PrimDouble,
		KindByte:   ir.PrimByte,
		KindShort:  ir.PrimShort,
		KindUInt:   ir.PrimUInt,
		KindULong:  ir.PrimULong,
		KindUShort: ir.PrimUShort,
		KindSByte:  ir.PrimSByte,
	}[k]
	return ir.PrimitiveType{Name: name}
}

// rank orders kinds for the binary-widening table: a binary arithmetic
// result takes the wider of its two operand kinds, with floating-point
// always winning over integral regardless of bit width.
var rank = map[NumericKind]int{
	KindSByte:  0,
	KindByte:   0,
	KindShort:  1,
	KindUShort: 1,
	KindInt:    2,
	KindUInt:   2,
	KindLong:   3,
	KindULong:  3,
	KindFloat:  4,
	KindDouble: 5,
}

// WidenBinary returns the NumericKind of a binary arithmetic expression
// given its two operand kinds: the wider of the two by rank, with a tie
// between two kinds of equal rank (e.g. int and uint) resolving to the
// first operand, a.
func WidenBinary(a, b NumericKind) NumericKind {
	ra, rb := rank[a], rank[b]
	if ra > rb {
		return a
	}
	if rb > ra {
		return b
	}
	return a
}

// ClassifyNumericLexeme inspects the raw lexeme captured by Binding
// (integer vs. real, suffix) and maps it onto a NumericKind. Lexemes with
// no recognized suffix default to Int (integers) or Double (reals), the
// TS/CLR numeric-literal defaults.
func ClassifyNumericLexeme(lex handle.NumericLexeme) NumericKind {
	suffix := strings.ToLower(lex.Suffix)
	switch {
	case strings.Contains(suffix, "ul") || strings.Contains(suffix, "lu"):
		return KindULong
	case strings.Contains(suffix, "l") && !lex.IsInteger:
		return KindLong
	case suffix == "l":
		return KindLong
	case suffix == "u":
		return KindUInt
	case suffix == "f":
		return KindFloat
	case suffix == "d":
		return KindDouble
	case suffix == "m":
		return KindDouble // decimal treated as double-width for IR purposes
	case suffix == "b":
		return KindByte
	case suffix == "s":
		return KindShort
	}
	if lex.IsInteger {
		return KindInt
	}
	return KindDouble
}
