package parser

import (
	"github.com/gmofishsauce/mc4c/internal/ast"
	"github.com/gmofishsauce/mc4c/internal/token"
)

// Rule is one alternative production for a non-terminal: an ordered
// sequence of grammar symbols (spec §4.2, §6).
type Rule []ast.GrammarSymbol

// grammar maps each non-terminal to its alternatives, tried in the
// declared order (spec §4.2: "try each rule in declared order; first
// match wins"). The layered precedence chain -- Logical, Bitwise,
// Comparison, Shift, Negation, Expression, Term, Exp_factor, Factor --
// always lists its pass-through alternative (the bare next layer down)
// last, so a layer becomes invisible in the tree whenever it isn't used
// (spec §4.2 "Known ambiguity" / precedence-chain note).
//
// Single "|" and "&" are the LOGICAL or/and of spec §6's glossary note;
// "||" and "&&" are the BITWISE or/and. This reads backwards from most
// C-family grammars and is deliberate (spec §9 Design Notes).
var grammar = map[ast.NonTerminal][]Rule{
	ast.Block: {
		{ast.N(ast.Section), ast.N(ast.Block)},
		{ast.N(ast.Section)},
	},
	ast.Section: {
		{ast.N(ast.Statement), ast.T(token.Semicolon)},
		{ast.N(ast.IfElse), ast.T(token.Semicolon)},
		{ast.N(ast.WhileLoop), ast.T(token.Semicolon)},
		{ast.N(ast.ForLoop), ast.T(token.Semicolon)},
	},
	ast.Statement: {
		{ast.N(ast.Variable), ast.T(token.Assign), ast.N(ast.Logical)},
	},
	// Variable ::= DATA_TYPE IDENTIFIER | IDENTIFIER. Only the first
	// alternative collapses to a Variable-labelled node (two children,
	// neither a node-label terminal); the second collapses straight
	// through to a bare Identifier leaf, which is how the symbol-table
	// builder (spec §4.3) tells a declaration from a reference.
	ast.Variable: {
		{ast.T(token.DataType), ast.T(token.Identifier)},
		{ast.T(token.Identifier)},
	},
	ast.IfElse: {
		{ast.T(token.KeywordIf), ast.T(token.LParen), ast.N(ast.Logical), ast.T(token.RParen),
			ast.T(token.LBrace), ast.N(ast.Block), ast.T(token.RBrace), ast.N(ast.Else)},
		{ast.T(token.KeywordIf), ast.T(token.LParen), ast.N(ast.Logical), ast.T(token.RParen),
			ast.T(token.LBrace), ast.N(ast.Block), ast.T(token.RBrace)},
	},
	ast.Else: {
		{ast.T(token.KeywordElse), ast.T(token.LBrace), ast.N(ast.Block), ast.T(token.RBrace)},
	},
	ast.WhileLoop: {
		{ast.T(token.KeywordWhile), ast.T(token.LParen), ast.N(ast.Logical), ast.T(token.RParen),
			ast.T(token.LBrace), ast.N(ast.Block), ast.T(token.RBrace)},
	},
	// For_loop wraps a ForInit triplet so the collapsed tree matches
	// spec §4.4.2's "init child has exactly three children" shape: the
	// parens/braces are skip terminals, 'for' is the sole node-label
	// terminal, leaving [ForInit, Block] as the two children.
	ast.ForLoop: {
		{ast.T(token.KeywordFor), ast.T(token.LParen), ast.N(ast.ForInit), ast.T(token.RParen),
			ast.T(token.LBrace), ast.N(ast.Block), ast.T(token.RBrace)},
	},
	// ForInit ::= Statement ';' Logical ';' Statement. No node-label
	// terminal here (the semicolons are skip terminals) so the three
	// children collapse under a ForInit-labelled node (NT-as-label
	// fallback, spec §4.2 node-collapse rules).
	ast.ForInit: {
		{ast.N(ast.Statement), ast.T(token.Semicolon), ast.N(ast.Logical), ast.T(token.Semicolon), ast.N(ast.Statement)},
	},
	ast.Logical: {
		{ast.N(ast.Bitwise), ast.T(token.Pipe), ast.N(ast.Bitwise)},
		{ast.N(ast.Bitwise), ast.T(token.Amp), ast.N(ast.Bitwise)},
		{ast.N(ast.Bitwise)},
	},
	ast.Bitwise: {
		{ast.N(ast.Comparison), ast.T(token.PipePipe), ast.N(ast.Comparison)},
		{ast.N(ast.Comparison), ast.T(token.AmpAmp), ast.N(ast.Comparison)},
		{ast.N(ast.Comparison)},
	},
	ast.Comparison: {
		{ast.N(ast.Shift), ast.T(token.EqEq), ast.N(ast.Shift)},
		{ast.N(ast.Shift), ast.T(token.NotEq), ast.N(ast.Shift)},
		{ast.N(ast.Shift), ast.T(token.LtEq), ast.N(ast.Shift)},
		{ast.N(ast.Shift), ast.T(token.GtEq), ast.N(ast.Shift)},
		{ast.N(ast.Shift), ast.T(token.Lt), ast.N(ast.Shift)},
		{ast.N(ast.Shift), ast.T(token.Gt), ast.N(ast.Shift)},
		{ast.N(ast.Shift)},
	},
	ast.Shift: {
		{ast.N(ast.Negation), ast.T(token.Shl), ast.N(ast.Negation)},
		{ast.N(ast.Negation), ast.T(token.Shr), ast.N(ast.Negation)},
		{ast.N(ast.Negation)},
	},
	// Negation only ever models unary logical-not (spec §4.4.4's
	// LogicalNot). Unary arithmetic negation has no TAC lowering
	// specified anywhere in spec §4.4 and is deliberately not wired
	// (see DESIGN.md).
	ast.Negation: {
		{ast.T(token.Bang), ast.N(ast.Expression)},
		{ast.N(ast.Expression)},
	},
	ast.Expression: {
		{ast.N(ast.Term), ast.T(token.Plus), ast.N(ast.Term)},
		{ast.N(ast.Term), ast.T(token.Minus), ast.N(ast.Term)},
		{ast.N(ast.Term)},
	},
	ast.Term: {
		{ast.N(ast.ExpFactor), ast.T(token.Star), ast.N(ast.ExpFactor)},
		{ast.N(ast.ExpFactor), ast.T(token.Slash), ast.N(ast.ExpFactor)},
		{ast.N(ast.ExpFactor), ast.T(token.Percent), ast.N(ast.ExpFactor)},
		{ast.N(ast.ExpFactor)},
	},
	// Exp_factor is kept as its own layer, matching spec §6's named
	// precedence list, but currently only passes through to Factor:
	// '^' has no TAC opcode and no ExpressionLowerer method anywhere
	// in spec §4.4, so it is lexable (token.Caret) but deliberately
	// never produced by any grammar rule (see DESIGN.md).
	ast.ExpFactor: {
		{ast.N(ast.Factor)},
	},
	ast.Factor: {
		{ast.T(token.LParen), ast.N(ast.Logical), ast.T(token.RParen)},
		{ast.T(token.Identifier)},
		{ast.T(token.ByteLiteral)},
	},
}
