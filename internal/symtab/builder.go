// Package symtab implements the depth-first pre-order SymbolTableBuilder
// of spec §4.3: it attaches a SymbolTable to every scope-defining node
// and resolves every identifier reference against the hierarchical
// parent chain, failing with SemaError on any undeclared reference or
// redeclaration.
package symtab

import (
	"github.com/gmofishsauce/mc4c/internal/ast"
	"github.com/gmofishsauce/mc4c/internal/token"
)

// Builder runs once over a parsed AST, mutating it in place.
type Builder struct{}

// New returns a Builder. It holds no state of its own; spec §5 assigns
// each invocation's mutable state to the call itself.
func New() *Builder {
	return &Builder{}
}

// Build attaches symbol tables to root and every nested scope-defining
// descendant (spec §4.3). root is treated as the outermost scope.
func (b *Builder) Build(root *ast.Node) error {
	return b.openScope(root, nil)
}

// openScope attaches a fresh table (child of parent) to n and walks n's
// body within that table.
func (b *Builder) openScope(n *ast.Node, parent *ast.SymbolTable) error {
	if n.HasSymtab() {
		return newSemaError("attempt to re-attach a symbol table to an already-scoped node")
	}
	tbl := ast.NewSymbolTable(parent)
	n.SetSymtab(tbl)
	return b.walk(n, tbl, false)
}

// walk traverses n within the current scope tbl. isAssignLHS is true
// exactly when n is the first child of an assignment node, which
// decides whether a bare identifier reference is a write or a read
// (spec §4.3).
func (b *Builder) walk(n *ast.Node, tbl *ast.SymbolTable, isAssignLHS bool) error {
	if n.IsLeaf() {
		return b.reference(n, tbl, isAssignLHS)
	}

	switch {
	case n.Label.Equal(ast.N(ast.Variable)):
		return b.declare(n, tbl)

	case n.Label.Equal(ast.N(ast.Block)):
		for _, c := range n.Children() {
			if err := b.walk(c, tbl, false); err != nil {
				return err
			}
		}
		return nil

	case n.Label.Equal(ast.N(ast.ForInit)):
		for _, c := range n.Children() {
			if err := b.walk(c, tbl, false); err != nil {
				return err
			}
		}
		return nil

	case n.Label.IsTerminal && n.Label.Term == token.Assign:
		children := n.Children()
		if len(children) != 2 {
			return newSemaError("assignment node has %d children, want 2", len(children))
		}
		if err := b.walk(children[0], tbl, true); err != nil {
			return err
		}
		return b.walk(children[1], tbl, false)

	case n.Label.IsTerminal && n.Label.Term == token.KeywordIf:
		return b.walkIf(n, tbl)

	case n.Label.IsTerminal && n.Label.Term == token.KeywordWhile:
		return b.walkWhile(n, tbl)

	case n.Label.IsTerminal && n.Label.Term == token.KeywordFor:
		return b.walkFor(n, tbl)

	default:
		// Any other internal node is a plain expression operator
		// (Plus, Minus, comparisons, LogicalNot, the direct-opcode
		// Bitwise forms, ...): every child is read, same scope.
		for _, c := range n.Children() {
			if err := b.walk(c, tbl, false); err != nil {
				return err
			}
		}
		return nil
	}
}

// declare handles a Variable sub-node (data-type + identifier). Every
// Variable node in this grammar appears only as an assignment's first
// child (Statement ::= Variable '=' Logical), so the new entry is
// always immediately written to (spec §8 scenario (b)).
func (b *Builder) declare(n *ast.Node, tbl *ast.SymbolTable) error {
	children := n.Children()
	if len(children) != 2 {
		return newSemaError("Variable node has %d children, want 2", len(children))
	}
	dataType := children[0].Token().Str
	name := children[1].Token().Str
	entry, ok := tbl.Declare(name, dataType)
	if !ok {
		return newSemaError("redeclaration of %q in the same scope", name)
	}
	entry.IsWrittenTo = true
	return nil
}

// reference resolves a bare identifier leaf against tbl's parent chain.
func (b *Builder) reference(n *ast.Node, tbl *ast.SymbolTable, isAssignLHS bool) error {
	if n.Label.Term != token.Identifier {
		return nil // ByteLiteral or DataType leaf outside a Variable node: nothing to resolve
	}
	name := n.Token().Str
	entry, ok := tbl.Lookup(name)
	if !ok {
		if isAssignLHS {
			return newSemaError("write to undeclared identifier %q", name)
		}
		return newSemaError("read from undeclared identifier %q", name)
	}
	if isAssignLHS {
		entry.IsWrittenTo = true
	} else {
		entry.IsReadFrom = true
	}
	return nil
}

// walkIf handles an If_else node: 2 children (condition, then-body) or
// 3 (condition, then-body, Else node). The then-body and the Else
// node's own body are each their own scope.
func (b *Builder) walkIf(n *ast.Node, tbl *ast.SymbolTable) error {
	children := n.Children()
	if len(children) != 2 && len(children) != 3 {
		return newSemaError("if node has %d children, want 2 or 3", len(children))
	}
	if err := b.walk(children[0], tbl, false); err != nil {
		return err
	}
	if err := b.openScope(children[1], tbl); err != nil {
		return err
	}
	if len(children) == 3 {
		elseNode := children[2]
		if !elseNode.Label.IsTerminal || elseNode.Label.Term != token.KeywordElse {
			return newSemaError("third child of if is not labelled else")
		}
		elseChildren := elseNode.Children()
		if len(elseChildren) != 1 {
			return newSemaError("else node has %d children, want 1", len(elseChildren))
		}
		if err := b.openScope(elseChildren[0], tbl); err != nil {
			return err
		}
	}
	return nil
}

// walkWhile handles a While_loop node: condition + body, body is its
// own scope.
func (b *Builder) walkWhile(n *ast.Node, tbl *ast.SymbolTable) error {
	children := n.Children()
	if len(children) != 2 {
		return newSemaError("while node has %d children, want 2", len(children))
	}
	if err := b.walk(children[0], tbl, false); err != nil {
		return err
	}
	return b.openScope(children[1], tbl)
}

// walkFor handles a For_loop node: ForInit + body. The loop's
// initializer, condition, step, and body together form a single scope
// (so the initializer's declarations are visible in the body but don't
// leak into the enclosing scope) -- see DESIGN.md Open Question
// decision on for-loop scoping.
func (b *Builder) walkFor(n *ast.Node, tbl *ast.SymbolTable) error {
	children := n.Children()
	if len(children) != 2 {
		return newSemaError("for node has %d children, want 2", len(children))
	}
	if n.HasSymtab() {
		return newSemaError("attempt to re-attach a symbol table to an already-scoped node")
	}
	forTbl := ast.NewSymbolTable(tbl)
	n.SetSymtab(forTbl)
	if err := b.walk(children[0], forTbl, false); err != nil {
		return err
	}
	return b.walk(children[1], forTbl, false)
}
