// Package value defines the runtime value variant shared by the AST
// (literal payloads) and the evaluator (expression results).
package value

import "strconv"

// Kind tags which field of a Value is meaningful.
type Kind int

const (
	NilKind Kind = iota
	NumberKind
	StringKind
	BooleanKind
)

// Value is the tagged union of every runtime value this language has.
// There is no object graph and no sharing: values are copied by value.
type Value struct {
	Kind Kind
	Num  float64
	Str  string
	Bool bool
}

func Nil() Value             { return Value{Kind: NilKind} }
func Number(n float64) Value { return Value{Kind: NumberKind, Num: n} }
func String(s string) Value  { return Value{Kind: StringKind, Str: s} }
func Boolean(b bool) Value   { return Value{Kind: BooleanKind, Bool: b} }

// TypeName names the variant for type-mismatch diagnostics.
func (v Value) TypeName() string {
	switch v.Kind {
	case NumberKind:
		return "number"
	case StringKind:
		return "string"
	case BooleanKind:
		return "boolean"
	default:
		return "nil"
	}
}

// Truthy implements the language's truthiness rules: nil is false,
// booleans are themselves, numbers are true unless exactly 0.0 (NaN is
// true), strings are true unless empty.
func (v Value) Truthy() bool {
	switch v.Kind {
	case NilKind:
		return false
	case BooleanKind:
		return v.Bool
	case NumberKind:
		return v.Num != 0.0
	case StringKind:
		return v.Str != ""
	default:
		return false
	}
}

// String renders the value the way "print" writes it: numbers via
// shortest round-trip formatting, booleans as true/false, nil as "nil",
// strings verbatim with no surrounding quotes.
func (v Value) String() string {
	switch v.Kind {
	case NilKind:
		return "nil"
	case BooleanKind:
		if v.Bool {
			return "true"
		}
		return "false"
	case NumberKind:
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	case StringKind:
		return v.Str
	default:
		return "nil"
	}
}

// Equals implements == semantics: equality across different variants is
// always false, except Nil == Nil.
func (v Value) Equals(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case NilKind:
		return true
	case BooleanKind:
		return v.Bool == other.Bool
	case NumberKind:
		return v.Num == other.Num
	case StringKind:
		return v.Str == other.Str
	default:
		return false
	}
}
