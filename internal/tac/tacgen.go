// Package tac implements the TacGenerator of spec §4.4: it walks a
// scope-annotated AST and produces a flat list of TAC Instructions,
// using a Factory for temp/label issuance and back-patching and a
// Lowerer for operators without a one-to-one TAC opcode.
package tac

import (
	"github.com/gmofishsauce/mc4c/internal/ast"
	"github.com/gmofishsauce/mc4c/internal/token"
)

// Generator is the single invocation object spec §5 mandates: one
// Generator owns the Factory and Lowerer for exactly one Generate call.
type Generator struct {
	f  *Factory
	lw *Lowerer
}

// New returns a Generator ready to lower one program.
func New() *Generator {
	f := NewFactory()
	return &Generator{f: f, lw: NewLowerer(f)}
}

// Generate lowers root (the scope-annotated program root produced by
// SymbolTableBuilder) to a flat TAC instruction list.
func Generate(root *ast.Node) ([]*Instruction, error) {
	g := New()
	if err := g.genStmt(root); err != nil {
		return nil, err
	}
	return g.f.Instructions(), nil
}

// oneToOneOpcodes is the direct source-operator-to-TAC-opcode mapping of
// spec §4.4.1. Every other operator lowers through the Lowerer.
var oneToOneOpcodes = map[token.Kind]Opcode{
	token.Plus:     ADD,
	token.Minus:    SUB,
	token.PipePipe: OR, // bitwise OR -- see DESIGN.md on the Logical/Bitwise split
	token.AmpAmp:   AND,
	token.Shl:      LS,
	token.Shr:      RS,
}

// foldOneToOne constant-folds a one-to-one-opcode application when both
// operands are literals (spec §4.4.2: "literal/literal expressions
// constant-fold at lowering time"), using plain uint8 arithmetic so the
// target machine's unsigned wraparound is already reflected in the TAC.
// Shift counts are taken modulo 8.
func foldOneToOne(opcode Opcode, op1, op2 Operand) (Operand, bool) {
	if !op1.IsLiteral() || !op2.IsLiteral() {
		return Empty, false
	}
	a, b := op1.Literal(), op2.Literal()
	switch opcode {
	case ADD:
		return Lit(a + b), true
	case SUB:
		return Lit(a - b), true
	case AND:
		return Lit(a & b), true
	case OR:
		return Lit(a | b), true
	case LS:
		return Lit(a << (b & 7)), true
	case RS:
		return Lit(a >> (b & 7)), true
	default:
		return Empty, false
	}
}

// genStmt dispatches on n's label over the statement forms (Block,
// assignment, if, while, for) and emits TAC for each; any other node at
// statement level is an IrError.
func (g *Generator) genStmt(n *ast.Node) error {
	if n.IsLeaf() {
		return newIrError("unexpected leaf node at statement level: %v", n.Label)
	}

	switch {
	case n.Label.Equal(ast.N(ast.Block)):
		for _, c := range n.Children() {
			if err := g.genStmt(c); err != nil {
				return err
			}
		}
		return nil

	case n.Label.IsTerminal && n.Label.Term == token.Assign:
		return g.genAssign(n)

	case n.Label.IsTerminal && n.Label.Term == token.KeywordIf:
		return g.genIf(n)

	case n.Label.IsTerminal && n.Label.Term == token.KeywordWhile:
		return g.genWhile(n)

	case n.Label.IsTerminal && n.Label.Term == token.KeywordFor:
		return g.genFor(n)

	default:
		return newIrError("unexpected node at statement level: %v", n.Label)
	}
}

// targetName extracts the destination identifier from an assignment's
// first child: either a Variable node (data type + identifier, a fresh
// declaration) or a bare Identifier leaf (a reference).
func targetName(n *ast.Node) (string, error) {
	if n.IsLeaf() {
		if n.Label.Term != token.Identifier {
			return "", newIrError("assignment target leaf is not an identifier: %v", n.Label)
		}
		return n.Token().Str, nil
	}
	if n.Label.IsTerminal || n.Label.NT != ast.Variable {
		return "", newIrError("unexpected assignment target node: %v", n.Label)
	}
	children := n.Children()
	if len(children) != 2 {
		return "", newIrError("Variable node has %d children, want 2", len(children))
	}
	return children[1].Token().Str, nil
}

// genAssign lowers `target = rhs` (spec §4.4.2). When rhs is itself a
// direct one-to-one-opcode node, the operation is emitted straight into
// target without an intermediate temp.
func (g *Generator) genAssign(n *ast.Node) error {
	children := n.Children()
	if len(children) != 2 {
		return newIrError("assignment node has %d children, want 2", len(children))
	}
	name, err := targetName(children[0])
	if err != nil {
		return err
	}

	rhs := children[1]
	if !rhs.IsLeaf() && rhs.Label.IsTerminal {
		if opcode, ok := oneToOneOpcodes[rhs.Label.Term]; ok {
			rc := rhs.Children()
			if len(rc) != 2 {
				return newIrError("%v node has %d children, want 2", rhs.Label, len(rc))
			}
			op1, err := g.genExpr(rc[0])
			if err != nil {
				return err
			}
			op2, err := g.genExpr(rc[1])
			if err != nil {
				return err
			}
			if folded, ok := foldOneToOne(opcode, op1, op2); ok {
				g.f.Emit(Assign(name, folded))
				return nil
			}
			g.f.Emit(Compute(name, opcode, op1, op2))
			return nil
		}
	}

	r, err := g.genExpr(rhs)
	if err != nil {
		return err
	}
	g.f.Emit(Assign(name, r))
	return nil
}

// genExpr lowers an expression-layer node (Logical down through Factor)
// to an Operand, folding direct one-to-one operators into a temp and
// delegating everything else to the Lowerer.
func (g *Generator) genExpr(n *ast.Node) (Operand, error) {
	if n.IsLeaf() {
		switch n.Label.Term {
		case token.ByteLiteral:
			return Lit(n.Token().Uint8), nil
		case token.Identifier:
			return Ident(n.Token().Str), nil
		default:
			return Empty, newIrError("unexpected leaf in expression: %v", n.Label)
		}
	}

	if !n.Label.IsTerminal {
		return Empty, newIrError("unexpected non-terminal node in expression: %v", n.Label)
	}

	if opcode, ok := oneToOneOpcodes[n.Label.Term]; ok {
		children := n.Children()
		if len(children) != 2 {
			return Empty, newIrError("%v node has %d children, want 2", n.Label, len(children))
		}
		lhs, err := g.genExpr(children[0])
		if err != nil {
			return Empty, err
		}
		rhs, err := g.genExpr(children[1])
		if err != nil {
			return Empty, err
		}
		if folded, ok := foldOneToOne(opcode, lhs, rhs); ok {
			return folded, nil
		}
		temp := g.f.NewTemp("expr")
		g.f.Emit(Compute(temp, opcode, lhs, rhs))
		return Ident(temp), nil
	}

	if n.Label.Term == token.Bang {
		children := n.Children()
		if len(children) != 1 {
			return Empty, newIrError("Bang node has %d children, want 1", len(children))
		}
		op, err := g.genExpr(children[0])
		if err != nil {
			return Empty, err
		}
		return g.lw.LogicalNot(op)
	}

	children := n.Children()
	if len(children) != 2 {
		return Empty, newIrError("%v node has %d children, want 2", n.Label, len(children))
	}
	lhs, err := g.genExpr(children[0])
	if err != nil {
		return Empty, err
	}
	rhs, err := g.genExpr(children[1])
	if err != nil {
		return Empty, err
	}

	switch n.Label.Term {
	case token.Star:
		return g.lw.Multiply(lhs, rhs)
	case token.Slash:
		return g.lw.Divide(lhs, rhs)
	case token.Percent:
		return g.lw.Modulo(lhs, rhs)
	case token.EqEq:
		return g.lw.Equals(lhs, rhs)
	case token.NotEq:
		return g.lw.NotEquals(lhs, rhs)
	case token.LtEq:
		return g.lw.Leq(lhs, rhs)
	case token.GtEq:
		return g.lw.Geq(lhs, rhs)
	case token.Lt:
		return g.lw.LessThan(lhs, rhs)
	case token.Gt:
		return g.lw.GreaterThan(lhs, rhs)
	case token.Pipe:
		return g.lw.LogicalOr(lhs, rhs)
	case token.Amp:
		return g.lw.LogicalAnd(lhs, rhs)
	default:
		return Empty, newIrError("unhandled expression operator: %v", n.Label)
	}
}

// genIf lowers an `if` node: 2 children (condition, then-body) or 3
// (condition, then-body, Else node) (spec §4.4.2).
func (g *Generator) genIf(n *ast.Node) error {
	children := n.Children()
	if len(children) != 2 && len(children) != 3 {
		return newIrError("if node has %d children, want 2 or 3", len(children))
	}

	cond, err := g.genExpr(children[0])
	if err != nil {
		return err
	}
	condBranch := g.f.Emit(Branch(Placeholder, BRE, cond, Lit(0)))

	if err := g.genStmt(children[1]); err != nil {
		return err
	}

	if len(children) == 2 {
		g.f.SetBranchToNextLabel(condBranch, "ifEnd")
		return nil
	}

	elseNode := children[2]
	if !elseNode.Label.IsTerminal || elseNode.Label.Term != token.KeywordElse {
		return newIrError("third child of if is not labelled else")
	}
	elseChildren := elseNode.Children()
	if len(elseChildren) != 1 {
		return newIrError("else node has %d children, want 1", len(elseChildren))
	}

	skipElse := g.f.Emit(Branch(Placeholder, BRE, Lit(0), Lit(0)))
	g.f.SetBranchToNextLabel(condBranch, "else")

	if err := g.genStmt(elseChildren[0]); err != nil {
		return err
	}
	g.f.SetBranchToNextLabel(skipElse, "ifEnd")
	return nil
}

// genWhile lowers a `while` node: condition + body (spec §4.4.2).
func (g *Generator) genWhile(n *ast.Node) error {
	children := n.Children()
	if len(children) != 2 {
		return newIrError("while node has %d children, want 2", len(children))
	}

	condLabel := g.f.NewLabel("L_cond")
	g.f.SetNextInstrLabel(condLabel)

	cond, err := g.genExpr(children[0])
	if err != nil {
		return err
	}
	branch := g.f.Emit(Branch(Placeholder, BRE, cond, Lit(0)))

	if err := g.genStmt(children[1]); err != nil {
		return err
	}
	g.f.Emit(Branch(condLabel, BRE, Lit(0), Lit(0)))
	g.f.SetBranchToNextLabel(branch, "whileEnd")
	return nil
}

// genFor lowers a `for` node: a ForInit triplet (initializer, condition,
// step) plus a body, treated as an initializer followed by a while loop
// with the step appended to the end of the body (spec §4.4.2).
func (g *Generator) genFor(n *ast.Node) error {
	children := n.Children()
	if len(children) != 2 {
		return newIrError("for node has %d children, want 2", len(children))
	}
	forInit := children[0]
	if forInit.IsLeaf() || forInit.Label.IsTerminal || forInit.Label.NT != ast.ForInit {
		return newIrError("first child of for is not a For_init node: %v", forInit.Label)
	}
	ic := forInit.Children()
	if len(ic) != 3 {
		return newIrError("For_init node has %d children, want 3", len(ic))
	}

	if err := g.genStmt(ic[0]); err != nil {
		return err
	}

	condLabel := g.f.NewLabel("L_cond")
	g.f.SetNextInstrLabel(condLabel)

	cond, err := g.genExpr(ic[1])
	if err != nil {
		return err
	}
	branch := g.f.Emit(Branch(Placeholder, BRE, cond, Lit(0)))

	if err := g.genStmt(children[1]); err != nil {
		return err
	}
	if err := g.genStmt(ic[2]); err != nil {
		return err
	}
	g.f.Emit(Branch(condLabel, BRE, Lit(0), Lit(0)))
	g.f.SetBranchToNextLabel(branch, "forEnd")
	return nil
}
