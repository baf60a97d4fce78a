package parser

import (
	"github.com/gmofishsauce/mc4c/internal/ast"
	"github.com/gmofishsauce/mc4c/internal/token"
)

// skipKinds are the punctuation terminals that carry no semantic
// content of their own and are discarded before collapse looks for a
// node-label terminal (spec §4.2 node-collapse rules).
var skipKinds = map[token.Kind]bool{
	token.LParen:    true,
	token.RParen:    true,
	token.LBrace:    true,
	token.RBrace:    true,
	token.Semicolon: true,
}

// nodeLabelKinds are the terminals that name a semantic operation and
// so become a node's Label rather than one of its children: keywords,
// assignment, and every arithmetic/comparison/logical/bitwise/shift/
// negation operator (spec §4.2, §6).
var nodeLabelKinds = map[token.Kind]bool{
	token.KeywordIf:    true,
	token.KeywordElse:  true,
	token.KeywordWhile: true,
	token.KeywordFor:   true,
	token.Assign:       true,
	token.Plus:         true,
	token.Minus:        true,
	token.Star:         true,
	token.Slash:        true,
	token.Percent:      true,
	token.EqEq:         true,
	token.NotEq:        true,
	token.LtEq:         true,
	token.GtEq:         true,
	token.Lt:           true,
	token.Gt:           true,
	token.Bang:         true,
	token.Pipe:         true,
	token.Amp:          true,
	token.PipePipe:     true,
	token.AmpAmp:       true,
	token.Shl:          true,
	token.Shr:          true,
}

// collapse implements spec §4.2's node-collapse routine over a rule's
// resolved elements, in the order the rule's symbols appeared:
//
//  1. Skip terminals (parens, braces, semicolons) are discarded.
//  2. Among what remains, at most one raw token may be a node-label
//     terminal; two or more is a malformed-grammar ParseError. That
//     token (if any) becomes the returned node's Label; every other
//     remaining element becomes a child (raw tokens wrapped as leaves).
//  3. If no node-label terminal was found and exactly one element
//     remains, that element is returned directly (pass-through), which
//     is how unused precedence layers vanish from the tree.
//  4. If no node-label terminal was found and more than one element
//     remains, the rule's own non-terminal becomes the Label.
//  5. Zero remaining elements is a ParseError.
func collapse(nt ast.NonTerminal, elems []element) (*ast.Node, error) {
	kept := make([]element, 0, len(elems))
	var labelTok *token.Token

	for _, e := range elems {
		if e.isToken && skipKinds[e.tok.Kind] {
			continue
		}
		if e.isToken && nodeLabelKinds[e.tok.Kind] {
			if labelTok != nil {
				return nil, newParseError("rule for %s matched more than one node-label terminal (%s and %s)", nt, labelTok.Kind, e.tok.Kind)
			}
			t := e.tok
			labelTok = &t
			continue
		}
		kept = append(kept, e)
	}

	toNode := func(e element) *ast.Node {
		if e.isToken {
			return ast.Leaf(ast.T(e.tok.Kind), e.tok)
		}
		return e.node
	}

	if labelTok != nil {
		children := make([]*ast.Node, len(kept))
		for i, e := range kept {
			children[i] = toNode(e)
		}
		return ast.Internal(ast.T(labelTok.Kind), children), nil
	}

	switch len(kept) {
	case 0:
		return nil, newParseError("rule for %s produced no node and no label", nt)
	case 1:
		return toNode(kept[0]), nil
	default:
		children := make([]*ast.Node, len(kept))
		for i, e := range kept {
			children[i] = toNode(e)
		}
		return ast.Internal(ast.N(nt), children), nil
	}
}
