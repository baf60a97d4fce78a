package tac

import "fmt"

// Operand is the tagged union of spec §3/§9: either a literal byte value
// or a named identifier (a source variable or a factory-issued temp).
// The zero value is the "empty" operand used to report an unset slot.
type Operand struct {
	isLiteral bool
	literal   uint8
	ident     string
}

// Lit builds a literal Operand.
func Lit(v uint8) Operand { return Operand{isLiteral: true, literal: v} }

// Ident builds an identifier Operand (a variable name or a temp name).
func Ident(name string) Operand { return Operand{ident: name} }

// Empty is the zero Operand, used for slots that carry no value (e.g.
// the unused operand of a single-operand instruction).
var Empty = Operand{}

// IsEmpty reports whether o carries neither a literal nor an identifier.
func (o Operand) IsEmpty() bool { return !o.isLiteral && o.ident == "" }

// IsLiteral reports whether o is a literal operand.
func (o Operand) IsLiteral() bool { return o.isLiteral }

// Literal returns the literal value. Valid only when IsLiteral is true.
func (o Operand) Literal() uint8 { return o.literal }

// Name returns the identifier name. Valid only when IsLiteral is false
// and IsEmpty is false.
func (o Operand) Name() string { return o.ident }

func (o Operand) String() string {
	if o.isLiteral {
		return fmt.Sprintf("%d", o.literal)
	}
	if o.ident == "" {
		return "<empty>"
	}
	return o.ident
}
