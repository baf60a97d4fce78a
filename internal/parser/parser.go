// Package parser implements the recursive-descent engine of spec §4.2:
// alternative enumeration over the Grammar table (grammar.go), plus the
// node-collapse routine (collapse.go) that turns a matched rule's raw
// tokens and child nodes into the AstNode shapes spec §4.4.2 assumes.
package parser

import (
	"github.com/gmofishsauce/mc4c/internal/ast"
	"github.com/gmofishsauce/mc4c/internal/token"
)

// Parser holds the token sequence being parsed. It carries no other
// mutable state: every parse of a (non-terminal, position) pair is a
// pure function of that pair, so alternatives can be tried and
// abandoned without any rollback bookkeeping.
type Parser struct {
	tokens []token.Token
}

// New returns a Parser over tokens.
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse parses start from the beginning of the token sequence and
// requires every token to be consumed (spec §4.2: "at the top level,
// ... parsing fails if tokens remain").
func (p *Parser) Parse(start ast.NonTerminal) (*ast.Node, error) {
	node, consumed, err := p.parseNT(start, 0, true)
	if err != nil {
		return nil, err
	}
	if consumed != len(p.tokens) {
		return nil, newParseError("leftover input after parsing %s: consumed %d of %d tokens", start, consumed, len(p.tokens))
	}
	return node, nil
}

// Parse tokenizes nothing itself; it parses an already-tokenized
// program starting from the grammar's start symbol, Block.
func Parse(tokens []token.Token) (*ast.Node, error) {
	return New(tokens).Parse(ast.Block)
}

// element is one resolved symbol of a rule in progress: either a raw
// matched Token or an already-built child AstNode.
type element struct {
	isToken bool
	tok     token.Token
	node    *ast.Node
}

// parseNT tries nt's alternatives in declared order starting at pos.
// requireFull, when true, demands that the winning alternative consume
// every token from pos through the end of the stream; when false, the
// first alternative that matches any prefix wins (spec §4.2's
// allow_leftover semantics: true for all but the chain of "last
// symbols" reachable from the original top-level call).
func (p *Parser) parseNT(nt ast.NonTerminal, pos int, requireFull bool) (*ast.Node, int, error) {
	rules, ok := grammar[nt]
	if !ok {
		return nil, 0, newParseError("no grammar rules for %s", nt)
	}

	var lastErr error
	for _, rule := range rules {
		node, consumed, err := p.tryRule(nt, rule, pos, requireFull)
		if err != nil {
			lastErr = err
			continue
		}
		if requireFull && pos+consumed != len(p.tokens) {
			lastErr = newParseError("leftover input after %s at token %d", nt, pos+consumed)
			continue
		}
		return node, consumed, nil
	}
	if lastErr == nil {
		lastErr = newParseError("no alternative matched for %s at token %d", nt, pos)
	}
	return nil, 0, lastErr
}

// tryRule attempts to match rule's symbols in sequence starting at
// start, then runs node-collapse over the resolved elements.
func (p *Parser) tryRule(nt ast.NonTerminal, rule Rule, start int, requireFull bool) (*ast.Node, int, error) {
	cursor := start
	elems := make([]element, 0, len(rule))

	for i, sym := range rule {
		isLastSymbol := i == len(rule)-1

		if sym.IsTerminal {
			if cursor >= len(p.tokens) {
				return nil, 0, newParseError("unexpected end of input in %s, expected %s", nt, sym.Term)
			}
			tok := p.tokens[cursor]
			if tok.Kind != sym.Term {
				return nil, 0, newParseError("in %s: expected %s, got %s at token %d", nt, sym.Term, tok.Kind, cursor)
			}
			elems = append(elems, element{isToken: true, tok: tok})
			cursor++
			continue
		}

		// The last symbol of a rule inherits requireFull from its
		// caller, since nothing follows it to consume what's left
		// (spec §4.2: allow_leftover=false propagates to the last
		// symbol of the top-level call's chain).
		childRequireFull := isLastSymbol && requireFull
		child, consumed, err := p.parseNT(sym.NT, cursor, childRequireFull)
		if err != nil {
			return nil, 0, err
		}
		elems = append(elems, element{node: child})
		cursor += consumed
	}

	node, err := collapse(nt, elems)
	if err != nil {
		return nil, 0, err
	}
	return node, cursor - start, nil
}
