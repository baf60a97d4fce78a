package tac

// Lowerer is the ExpressionLowerer of spec §4.4.4: it expands operators
// without a one-to-one TAC opcode (*, /, %, the six comparisons, !, and
// the single-character logical | and &; see DESIGN.md's note on the
// Logical/Bitwise token split) into a short instruction sequence, using
// f to issue temps/labels and append instructions. Every method
// constant-folds when all of its inputs are literals.
type Lowerer struct {
	f *Factory
}

// NewLowerer returns a Lowerer appending through f.
func NewLowerer(f *Factory) *Lowerer {
	return &Lowerer{f: f}
}

func checkOperands(op string, operands ...Operand) error {
	for _, o := range operands {
		if o.IsEmpty() {
			return newIrError("operands for %s must both contain a value", op)
		}
	}
	return nil
}

// Multiply lowers a*b via shift-and-add over 8 bits.
func (lw *Lowerer) Multiply(op1, op2 Operand) (Operand, error) {
	if err := checkOperands("*", op1, op2); err != nil {
		return Empty, err
	}
	if op1.IsLiteral() && op2.IsLiteral() {
		return Lit(op1.Literal() * op2.Literal()), nil
	}

	result := lw.f.NewTemp("multResult")
	lw.f.Emit(Assign(result, Lit(0)))
	mplier := lw.f.NewTemp("multiplier")
	lw.f.Emit(Assign(mplier, op1))
	mcand := lw.f.NewTemp("multiplicand")
	lw.f.Emit(Assign(mcand, op2))
	bits := lw.f.NewTemp("bitCounter")
	lw.f.Emit(Assign(bits, Lit(8)))

	loopLabel := lw.f.NewLabel("multLoop")
	lw.f.SetNextInstrLabel(loopLabel)
	lsb := lw.f.NewTemp("lsb")
	lw.f.Emit(Compute(lsb, AND, Ident(mplier), Lit(0x01)))

	shiftLabel := lw.f.NewLabel("shift")
	lw.f.Emit(Branch(shiftLabel, BRE, Ident(lsb), Lit(0)))

	lw.f.Emit(Compute(result, ADD, Ident(result), Ident(mcand)))

	lw.f.SetNextInstrLabel(shiftLabel)
	lw.f.Emit(Compute(mcand, LS, Ident(mcand), Empty))
	lw.f.Emit(Compute(mplier, RS, Ident(mplier), Empty))
	lw.f.Emit(Compute(bits, SUB, Ident(bits), Lit(1)))

	lw.f.Emit(Branch(loopLabel, BRLT, Lit(0), Ident(bits)))

	return Ident(result), nil
}

// divMod shares the repeated-subtraction implementation of Divide and
// Modulo; wantRemainder selects which of the two loop temps is returned.
func (lw *Lowerer) divMod(op string, op1, op2 Operand, wantRemainder bool) (Operand, error) {
	if err := checkOperands(op, op1, op2); err != nil {
		return Empty, err
	}
	if op2.IsLiteral() && op2.Literal() == 0 {
		return Empty, newIrError("division by zero not allowed: %s %s %s", op1, op, op2)
	}
	if op1.IsLiteral() && op2.IsLiteral() {
		if wantRemainder {
			return Lit(op1.Literal() % op2.Literal()), nil
		}
		return Lit(op1.Literal() / op2.Literal()), nil
	}

	result := lw.f.NewTemp("divResult")
	lw.f.Emit(Assign(result, Lit(0)))
	dividend := lw.f.NewTemp("dividend")
	lw.f.Emit(Assign(dividend, op1))
	quotient := lw.f.NewTemp("quotient")
	lw.f.Emit(Assign(quotient, op2))

	loopLabel := lw.f.NewLabel("divLoop")
	lw.f.SetNextInstrLabel(loopLabel)

	branchToEnd := lw.f.Emit(Branch(Placeholder, BRLT, Ident(dividend), Ident(quotient)))

	lw.f.Emit(Compute(result, ADD, Ident(result), Lit(1)))
	lw.f.Emit(Compute(dividend, SUB, Ident(dividend), Ident(quotient)))

	lw.f.Emit(Branch(loopLabel, BRE, Ident(result), Ident(result)))

	lw.f.SetBranchToNextLabel(branchToEnd, "divModEnd")

	if wantRemainder {
		return Ident(dividend), nil
	}
	return Ident(result), nil
}

// Divide lowers a/b.
func (lw *Lowerer) Divide(op1, op2 Operand) (Operand, error) {
	return lw.divMod("/", op1, op2, false)
}

// Modulo lowers a%b.
func (lw *Lowerer) Modulo(op1, op2 Operand) (Operand, error) {
	return lw.divMod("%", op1, op2, true)
}

// comparison implements the shared comparison skeleton: init result to
// valueIfBranchTrue, branch on (branchOp, branchOp1, branchOp2) to end,
// assign the opposite value if the branch fell through.
func (lw *Lowerer) comparison(resultHint string, branchOp Opcode, branchOp1, branchOp2 Operand, valueIfBranchTrue uint8) Operand {
	result := lw.f.NewTemp(resultHint)
	lw.f.Emit(Assign(result, Lit(valueIfBranchTrue)))

	branchToEnd := lw.f.Emit(Branch(Placeholder, branchOp, branchOp1, branchOp2))

	other := uint8(0)
	if valueIfBranchTrue == 0 {
		other = 1
	}
	lw.f.Emit(Assign(result, Lit(other)))

	lw.f.SetBranchToNextLabel(branchToEnd, "comparisonEnd")
	return Ident(result)
}

// Equals lowers a==b.
func (lw *Lowerer) Equals(op1, op2 Operand) (Operand, error) {
	if err := checkOperands("==", op1, op2); err != nil {
		return Empty, err
	}
	if op1.IsLiteral() && op2.IsLiteral() {
		return boolOperand(op1.Literal() == op2.Literal()), nil
	}
	return lw.comparison("isEq", BRE, op1, op2, 1), nil
}

// NotEquals lowers a!=b.
func (lw *Lowerer) NotEquals(op1, op2 Operand) (Operand, error) {
	if err := checkOperands("!=", op1, op2); err != nil {
		return Empty, err
	}
	if op1.IsLiteral() && op2.IsLiteral() {
		return boolOperand(op1.Literal() != op2.Literal()), nil
	}
	return lw.comparison("isNeq", BRE, op1, op2, 0), nil
}

// LessThan lowers a<b.
func (lw *Lowerer) LessThan(op1, op2 Operand) (Operand, error) {
	if err := checkOperands("<", op1, op2); err != nil {
		return Empty, err
	}
	if op1.IsLiteral() && op2.IsLiteral() {
		return boolOperand(op1.Literal() < op2.Literal()), nil
	}
	return lw.comparison("isLt", BRLT, op1, op2, 1), nil
}

// GreaterThan lowers a>b (operand order swapped: a>b iff b<a).
func (lw *Lowerer) GreaterThan(op1, op2 Operand) (Operand, error) {
	if err := checkOperands(">", op1, op2); err != nil {
		return Empty, err
	}
	if op1.IsLiteral() && op2.IsLiteral() {
		return boolOperand(op1.Literal() > op2.Literal()), nil
	}
	return lw.comparison("isGt", BRLT, op2, op1, 1), nil
}

// Leq lowers a<=b as !(b<a).
func (lw *Lowerer) Leq(op1, op2 Operand) (Operand, error) {
	if err := checkOperands("<=", op1, op2); err != nil {
		return Empty, err
	}
	if op1.IsLiteral() && op2.IsLiteral() {
		return boolOperand(op1.Literal() <= op2.Literal()), nil
	}
	return lw.comparison("isLeq", BRLT, op2, op1, 0), nil
}

// Geq lowers a>=b as !(a<b).
func (lw *Lowerer) Geq(op1, op2 Operand) (Operand, error) {
	if err := checkOperands(">=", op1, op2); err != nil {
		return Empty, err
	}
	if op1.IsLiteral() && op2.IsLiteral() {
		return boolOperand(op1.Literal() >= op2.Literal()), nil
	}
	return lw.comparison("isGeq", BRLT, op1, op2, 0), nil
}

// LogicalNot lowers !op: true iff op > 0, i.e. 0 < op.
func (lw *Lowerer) LogicalNot(op Operand) (Operand, error) {
	if err := checkOperands("!", op); err != nil {
		return Empty, err
	}
	if op.IsLiteral() {
		return boolOperand(op.Literal() > 0), nil
	}
	return lw.comparison("not", BRLT, Lit(0), op, 1), nil
}

// LogicalOr lowers the single-character '|' of spec §6 (the Logical
// grammar layer), which is the LOGICAL or, not the bitwise one -- see
// DESIGN.md's resolution of the Logical/Bitwise opcode-wiring ambiguity.
// Both operands are assumed already evaluated by the caller (their side
// effects, if any, already happened); this method only computes the
// boolean result, so there is no short-circuiting to preserve or break.
func (lw *Lowerer) LogicalOr(a, b Operand) (Operand, error) {
	if err := checkOperands("|", a, b); err != nil {
		return Empty, err
	}
	aZero := false
	if a.IsLiteral() {
		if a.Literal() > 0 {
			return Lit(1), nil
		}
		aZero = true
	}
	if b.IsLiteral() {
		if b.Literal() > 0 {
			return Lit(1), nil
		}
		if aZero {
			return Lit(0), nil
		}
		return a, nil
	}
	if aZero {
		return b, nil
	}

	result := lw.f.NewTemp("isGt")
	lw.f.Emit(Assign(result, Lit(1)))
	branch1 := lw.f.Emit(Branch(Placeholder, BRLT, Lit(0), a))
	branch2 := lw.f.Emit(Branch(Placeholder, BRLT, Lit(0), b))
	lw.f.Emit(Assign(result, Lit(0)))
	lw.f.SetBranchToNextLabel(branch1, "orEnd")
	lw.f.SetBranchToNextLabel(branch2, "orEnd")
	return Ident(result), nil
}

// LogicalAnd lowers the single-character '&' of spec §6 (the Logical
// grammar layer), mirroring LogicalOr.
func (lw *Lowerer) LogicalAnd(a, b Operand) (Operand, error) {
	if err := checkOperands("&", a, b); err != nil {
		return Empty, err
	}
	aTrue := false
	if a.IsLiteral() {
		if a.Literal() == 0 {
			return Lit(0), nil
		}
		aTrue = true
	}
	if b.IsLiteral() {
		if b.Literal() == 0 {
			return Lit(0), nil
		}
		if aTrue {
			return Lit(1), nil
		}
		return a, nil
	}
	if aTrue {
		return b, nil
	}

	result := lw.f.NewTemp("isGt")
	lw.f.Emit(Assign(result, Lit(0)))
	branch1 := lw.f.Emit(Branch(Placeholder, BRE, a, Lit(0)))
	branch2 := lw.f.Emit(Branch(Placeholder, BRE, b, Lit(0)))
	lw.f.Emit(Assign(result, Lit(1)))
	lw.f.SetBranchToNextLabel(branch1, "andEnd")
	lw.f.SetBranchToNextLabel(branch2, "andEnd")
	return Ident(result), nil
}

func boolOperand(b bool) Operand {
	if b {
		return Lit(1)
	}
	return Lit(0)
}
