// Package lexer implements the longest-match growing-substring tokenizer
// described in spec §4.1. Grounded on the struct/peek/advance idiom of
// the teacher's lang/ylex/lexer.go, but the classification algorithm
// itself follows the original Tokeniser::GetNextToken substring-growing
// scan (see original_source/Compiler/Tokeniser.cpp) rather than the
// teacher's character-class dispatch, since the teacher's lexer has no
// analogue of "grow, classify, roll back to last valid length".
package lexer

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/gmofishsauce/mc4c/internal/token"
)

// LexError reports an unrecognized, malformed, or ambiguously-bounded
// lexeme (spec §7).
type LexError struct {
	Line int
	Msg  string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at line %d: %s", e.Line, e.Msg)
}

func newLexError(line int, format string, args ...interface{}) error {
	return errors.WithStack(&LexError{Line: line, Msg: fmt.Sprintf(format, args...)})
}

// Lexer converts source text into a token sequence.
type Lexer struct {
	Warnf func(format string, args ...interface{}) // optional; nil is fine
}

// New returns a Lexer. warnf, if non-nil, receives truncation warnings
// for byte literals greater than 255 (spec §4.1).
func New(warnf func(string, ...interface{})) *Lexer {
	return &Lexer{Warnf: warnf}
}

// Tokenize reads all of r and returns the token sequence, or a *LexError.
func (l *Lexer) Tokenize(r io.Reader) ([]token.Token, error) {
	var out []token.Token
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		toks, err := l.tokenizeLine(line, lineNum)
		if err != nil {
			return nil, err
		}
		out = append(out, toks...)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "lexer: reading input")
	}
	return out, nil
}

// tokenizeLine converts one line of source into its token sequence.
// Lines whose first non-whitespace characters are "//" are comments and
// yield no tokens (spec §4.1).
func (l *Lexer) tokenizeLine(line string, lineNum int) ([]token.Token, error) {
	if strings.HasPrefix(strings.TrimLeft(line, " \t"), "//") {
		return nil, nil
	}

	var toks []token.Token
	pos := 0
	n := len(line)
	prevEnd := -1 // end column of the previously emitted token, -1 if none yet

	for {
		afterWS := skipWhitespace(line, pos)
		if afterWS >= n {
			break
		}

		tok, length, ok := l.classifyLongestMatch(line, afterWS, lineNum)
		if !ok {
			return nil, newLexError(lineNum, "no valid token at column %d: %q", afterWS+1, line[afterWS:])
		}

		if prevEnd == afterWS && boundaryViolated(line, afterWS) {
			return nil, newLexError(lineNum, "adjacent lexemes %q and the token starting at column %d must be separated by whitespace", toks[len(toks)-1].Literal(), afterWS+1)
		}

		toks = append(toks, tok)
		prevEnd = afterWS + length
		pos = prevEnd
	}

	return toks, nil
}

// classifyLongestMatch grows a substring starting at pos one character at
// a time, classifying it at each length, and remembers the last valid
// classification. It stops when classification becomes invalid or the
// line ends (spec §4.1).
func (l *Lexer) classifyLongestMatch(line string, pos int, lineNum int) (token.Token, int, bool) {
	n := len(line)
	bestLen := 0
	var best token.Token
	haveBest := false

	for end := pos + 1; end <= n; end++ {
		substr := line[pos:end]
		tok, ok := classify(substr, lineNum)
		if !ok {
			break
		}
		best = tok
		bestLen = end - pos
		haveBest = true
	}

	if !haveBest {
		return token.Token{}, 0, false
	}

	if best.Kind == token.ByteLiteral {
		if val, overflow := parseByteLiteral(line[pos : pos+bestLen]); overflow {
			if l.Warnf != nil {
				l.Warnf("line %d: numeric literal %q exceeds 255, truncating to %d", lineNum, line[pos:pos+bestLen], val)
			}
			best.Uint8 = val
		}
	}

	return best, bestLen, true
}

// classify implements the single-length classification rules of spec
// §4.1, in priority order: exact keyword/punctuation/operator match,
// recognized data-type spelling, all-digit byte literal, identifier
// pattern.
func classify(s string, line int) (token.Token, bool) {
	if k, ok := token.Lookup(s); ok {
		return token.Fixed(k, line), true
	}
	if token.IsDataType(s) {
		return token.DataTypeTok(s, line), true
	}
	c0 := s[0]
	if isDigit(c0) {
		for i := 1; i < len(s); i++ {
			if !isDigit(s[i]) {
				return token.Token{}, false
			}
		}
		v, _ := parseByteLiteral(s)
		return token.Byte(v, line), true
	}
	if isLetter(c0) || c0 == '_' {
		for i := 1; i < len(s); i++ {
			if !isLetter(s[i]) && !isDigit(s[i]) && s[i] != '_' {
				return token.Token{}, false
			}
		}
		return token.Ident(s, line), true
	}
	return token.Token{}, false
}

// boundaryViolated implements spec's boundary rule: two adjacent lexemes
// must be separated by whitespace if both of their adjoining characters
// are alphanumeric-or-underscore. It is only meaningful when pos is
// exactly the end column of the previous token (no whitespace between
// them); the caller checks that condition.
func boundaryViolated(line string, pos int) bool {
	if pos == 0 {
		return false
	}
	prev := line[pos-1]
	cur := line[pos]
	return isWordChar(prev) && isWordChar(cur)
}

func isWordChar(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '_'
}

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

func skipWhitespace(line string, pos int) int {
	for pos < len(line) && (line[pos] == ' ' || line[pos] == '\t') {
		pos++
	}
	return pos
}

// parseByteLiteral parses an all-digit string into a uint8, reporting
// whether the full (unsigned 64-bit) value exceeded 255.
func parseByteLiteral(s string) (uint8, bool) {
	var v uint64
	for i := 0; i < len(s); i++ {
		v = v*10 + uint64(s[i]-'0')
	}
	if v > 255 {
		return uint8(v), true
	}
	return uint8(v), false
}
