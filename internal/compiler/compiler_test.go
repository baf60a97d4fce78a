package compiler_test

import (
	"strings"
	"testing"

	"github.com/gmofishsauce/mc4c/internal/asmgen"
	"github.com/gmofishsauce/mc4c/internal/compiler"
	"github.com/gmofishsauce/mc4c/internal/lexer"
	"github.com/gmofishsauce/mc4c/internal/parser"
	"github.com/gmofishsauce/mc4c/internal/symtab"
	"github.com/gmofishsauce/mc4c/internal/tac"
)

// TestCompileEndToEnd covers spec §8 scenarios (b), (d), (e): a whole
// source program goes in, a non-empty target instruction list and a
// non-empty TAC list come out, through every stage at once.
func TestCompileEndToEnd(t *testing.T) {
	cases := []string{
		`byte x = 42;`,
		`byte i = 0; while (i < 5) { i = (i + 1); };`,
		`byte x = 1; if (x) { x = 1; } else { x = 0; };`,
		`byte a = 1; byte b = 2; byte c = a * b; byte d = a / b;`,
	}
	for _, src := range cases {
		src := src
		t.Run(src, func(t *testing.T) {
			c := compiler.New(nil, 0)
			result, err := c.Compile(src)
			if err != nil {
				t.Fatalf("Compile(%q): %v", src, err)
			}
			if len(result.Tac) == 0 {
				t.Errorf("Compile(%q): empty TAC list", src)
			}
			if len(result.Target) == 0 {
				t.Errorf("Compile(%q): empty target instruction list", src)
			}
		})
	}
}

// TestCompileClassifiesLexError covers spec §4.7.2: Cause unwraps a
// lexer-stage failure to a *lexer.LexError.
func TestCompileClassifiesLexError(t *testing.T) {
	c := compiler.New(nil, 0)
	_, err := c.Compile("byte x = @@@;")
	if err == nil {
		t.Fatalf("expected a lex error, got none")
	}
	cause := compiler.Cause(err)
	if _, ok := cause.(*lexer.LexError); !ok {
		t.Errorf("expected *lexer.LexError, got %T (%v)", cause, err)
	}
}

// TestCompileClassifiesParseError covers spec §4.7.2: Cause unwraps a
// parser-stage failure to a *parser.ParseError.
func TestCompileClassifiesParseError(t *testing.T) {
	c := compiler.New(nil, 0)
	_, err := c.Compile("byte x = ;")
	if err == nil {
		t.Fatalf("expected a parse error, got none")
	}
	cause := compiler.Cause(err)
	if _, ok := cause.(*parser.ParseError); !ok {
		t.Errorf("expected *parser.ParseError, got %T (%v)", cause, err)
	}
}

// TestCompileClassifiesSemaError covers spec §4.7.2: Cause unwraps a
// symbol-table-stage failure (use of an undeclared identifier) to a
// *symtab.SemaError.
func TestCompileClassifiesSemaError(t *testing.T) {
	c := compiler.New(nil, 0)
	_, err := c.Compile("byte x = undeclaredName;")
	if err == nil {
		t.Fatalf("expected a sema error, got none")
	}
	cause := compiler.Cause(err)
	if _, ok := cause.(*symtab.SemaError); !ok {
		t.Errorf("expected *symtab.SemaError, got %T (%v)", cause, err)
	}
}

// TestCompileClassifiesIrError covers spec §4.7.2: Cause unwraps a
// TAC-stage failure (division by a literal zero) to a *tac.IrError.
func TestCompileClassifiesIrError(t *testing.T) {
	c := compiler.New(nil, 0)
	_, err := c.Compile("byte x = 1 / 0;")
	if err == nil {
		t.Fatalf("expected an IR error, got none")
	}
	cause := compiler.Cause(err)
	if _, ok := cause.(*tac.IrError); !ok {
		t.Errorf("expected *tac.IrError, got %T (%v)", cause, err)
	}
}

// TestCompileCauseNilForSuccess covers the Cause contract for a
// successful compile: no error to classify.
func TestCompileCauseNilForSuccess(t *testing.T) {
	if got := compiler.Cause(nil); got != nil {
		t.Errorf("Cause(nil) = %v, want nil", got)
	}
}

func TestCompileMultiStatementProgram(t *testing.T) {
	src := strings.Join([]string{
		"byte a = 1;",
		"byte b = 2;",
		"byte c = a + b;",
		"if (c) { c = 0; } else { c = 1; };",
		"while (c) { c = (c - 1); };",
	}, "\n")
	c := compiler.New(nil, 0)
	result, err := c.Compile(src)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	var sawBranch bool
	for _, instr := range result.Target {
		if instr.Op.IsBranch() {
			sawBranch = true
		}
	}
	if !sawBranch {
		t.Errorf("expected at least one branch instruction, got %v", result.Target)
	}
}

// TestCompileWithAlternateMemoryBase covers internal/config.Config's
// Compiler.MemoryBase knob as it reaches New: a program with enough
// simultaneously-live variables to force a spill assigns memory
// addresses starting at the configured base, not the hardwired value 1.
func TestCompileWithAlternateMemoryBase(t *testing.T) {
	const memoryBase = 50
	var sb strings.Builder
	for i := 0; i < 12; i++ {
		sb.WriteString("byte v" + itoa(i) + " = " + itoa(i+1) + ";\n")
	}
	sb.WriteString("byte total = 0;\n")
	for i := 0; i < 12; i++ {
		sb.WriteString("total = (total + v" + itoa(i) + ");\n")
	}

	c := compiler.New(nil, memoryBase)
	result, err := c.Compile(sb.String())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	var sawAddr bool
	for i, instr := range result.Target {
		if instr.Op != asmgen.LDI || instr.TargetReg != asmgen.RegMemAddr {
			continue
		}
		if i+1 >= len(result.Target) {
			continue
		}
		next := result.Target[i+1].Op
		if next != asmgen.STR && next != asmgen.LD {
			continue
		}
		addr := instr.Op1<<4 | instr.Op2
		if addr < memoryBase {
			t.Errorf("address %d assigned below configured memoryBase %d", addr, memoryBase)
		}
		sawAddr = true
	}
	if !sawAddr {
		t.Fatalf("expected at least one memory access once live variables exceed the register pool")
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := ""
	for n > 0 {
		digits = string(rune('0'+n%10)) + digits
		n /= 10
	}
	return digits
}
