// Package ast holds the shared tree data model (spec §3): GrammarSymbol,
// AstNode, and the SymbolTable/SymbolTableEntry pair that hangs off every
// scope-defining node. Keeping all of these together (rather than
// splitting SymbolTable into its own package) avoids an import cycle
// between the tree and its builder, the same way the teacher keeps its
// AST and symbol table side by side in lang/yparse (ast.go, symtab.go,
// types.go all in one package). The builder algorithm itself lives in
// internal/symtab, which imports this package.
package ast

import "github.com/gmofishsauce/mc4c/internal/token"

// NonTerminal tags the grammar's non-terminal symbols (spec §6 grammar
// summary: the layered precedence chain plus statements and control
// flow).
type NonTerminal int

const (
	Block NonTerminal = iota
	Section
	Statement
	Variable
	IfElse
	Else
	WhileLoop
	ForLoop
	ForInit
	Logical
	Bitwise
	Comparison
	Shift
	Negation
	Expression
	Term
	ExpFactor
	Factor
)

func (nt NonTerminal) String() string {
	switch nt {
	case Block:
		return "Block"
	case Section:
		return "Section"
	case Statement:
		return "Statement"
	case Variable:
		return "Variable"
	case IfElse:
		return "If_else"
	case Else:
		return "Else"
	case WhileLoop:
		return "While_loop"
	case ForLoop:
		return "For_loop"
	case ForInit:
		return "For_init"
	case Logical:
		return "Logical"
	case Bitwise:
		return "Bitwise"
	case Comparison:
		return "Comparison"
	case Shift:
		return "Shift"
	case Negation:
		return "Negation"
	case Expression:
		return "Expression"
	case Term:
		return "Term"
	case ExpFactor:
		return "Exp_factor"
	case Factor:
		return "Factor"
	default:
		return "?NonTerminal"
	}
}

// GrammarSymbol is the tagged union of spec §3: either a terminal (a
// token Kind) or a non-terminal.
type GrammarSymbol struct {
	IsTerminal bool
	Term       token.Kind
	NT         NonTerminal
}

// T builds a terminal GrammarSymbol.
func T(k token.Kind) GrammarSymbol { return GrammarSymbol{IsTerminal: true, Term: k} }

// N builds a non-terminal GrammarSymbol.
func N(nt NonTerminal) GrammarSymbol { return GrammarSymbol{IsTerminal: false, NT: nt} }

func (g GrammarSymbol) String() string {
	if g.IsTerminal {
		return g.Term.String()
	}
	return g.NT.String()
}

func (g GrammarSymbol) Equal(o GrammarSymbol) bool {
	if g.IsTerminal != o.IsTerminal {
		return false
	}
	if g.IsTerminal {
		return g.Term == o.Term
	}
	return g.NT == o.NT
}

// Node is the sum type mandated by spec §9: a node is either a leaf
// wrapping a single Token, or an internal node owning an ordered list of
// children -- never both. A scope-defining node additionally owns a
// SymbolTable, attached after construction by the symbol-table builder.
type Node struct {
	Label    GrammarSymbol
	leaf     bool
	token    token.Token
	children []*Node
	Symtab   *SymbolTable // nil until the builder attaches one
}

// Leaf builds a leaf node wrapping tok, labelled lbl.
func Leaf(lbl GrammarSymbol, tok token.Token) *Node {
	return &Node{Label: lbl, leaf: true, token: tok}
}

// Internal builds an internal node with the given children, labelled lbl.
func Internal(lbl GrammarSymbol, children []*Node) *Node {
	return &Node{Label: lbl, leaf: false, children: children}
}

// IsLeaf reports whether n wraps a Token rather than children.
func (n *Node) IsLeaf() bool { return n.leaf }

// Token returns the wrapped token. Valid only when IsLeaf() is true.
func (n *Node) Token() token.Token { return n.token }

// Children returns the child list. Valid only when IsLeaf() is false;
// may be empty but is never nil for an internal node produced by the
// parser.
func (n *Node) Children() []*Node { return n.children }

// SetSymtab attaches tbl to n. It is an error (spec §7 SemaError) to
// attach a table twice; callers check HasSymtab first.
func (n *Node) SetSymtab(tbl *SymbolTable) { n.Symtab = tbl }

// HasSymtab reports whether a SymbolTable has already been attached.
func (n *Node) HasSymtab() bool { return n.Symtab != nil }
