package asmgen_test

import (
	"strings"
	"testing"

	"github.com/gmofishsauce/mc4c/internal/asmgen"
	"github.com/gmofishsauce/mc4c/internal/lexer"
	"github.com/gmofishsauce/mc4c/internal/parser"
	"github.com/gmofishsauce/mc4c/internal/symtab"
	"github.com/gmofishsauce/mc4c/internal/tac"
)

func mustAssemble(t *testing.T, src string) []*asmgen.Instruction {
	t.Helper()
	return mustAssembleFrom(t, src, 1)
}

func mustAssembleFrom(t *testing.T, src string, memoryBase int) []*asmgen.Instruction {
	t.Helper()
	toks, err := lexer.New(nil).Tokenize(strings.NewReader(src))
	if err != nil {
		t.Fatalf("lexing %q: %v", src, err)
	}
	root, err := parser.Parse(toks)
	if err != nil {
		t.Fatalf("parsing %q: %v", src, err)
	}
	if err := symtab.New().Build(root); err != nil {
		t.Fatalf("Build(%q): %v", src, err)
	}
	tacList, err := tac.Generate(root)
	if err != nil {
		t.Fatalf("tac.Generate(%q): %v", src, err)
	}
	instrs, err := asmgen.Generate(tacList, memoryBase)
	if err != nil {
		t.Fatalf("asmgen.Generate(%q): %v", src, err)
	}
	return instrs
}

// TestLiteralAssignment covers spec §8 scenario (b): a plain literal
// assignment lowers to a single LDI into the variable's register, followed
// by the block-end store (LDI of the address into r1, then STR).
func TestLiteralAssignment(t *testing.T) {
	instrs := mustAssemble(t, `byte x = 42;`)
	if len(instrs) != 3 {
		t.Fatalf("expected exactly 3 instructions, got %d: %v", len(instrs), instrs)
	}
	if instrs[0].Op != asmgen.LDI {
		t.Fatalf("expected LDI, got %v", instrs[0])
	}
	hi, lo := instrs[0].Op1, instrs[0].Op2
	if got := hi<<4 | lo; got != 42 {
		t.Fatalf("expected immediate 42, got %d (from hi=%d lo=%d)", got, hi, lo)
	}
}

// TestWhileLoop covers spec §8 scenario (d): the loop condition block
// is re-entered via an unconditional branch and the loop-exit branch
// targets a label outside the loop.
func TestWhileLoop(t *testing.T) {
	instrs := mustAssemble(t, `byte i = 0; while (i < 5) { i = (i + 1); };`)
	var sawLabel, sawBranch bool
	for _, instr := range instrs {
		if instr.Label != "" {
			sawLabel = true
		}
		if instr.Op.IsBranch() {
			sawBranch = true
		}
	}
	if !sawLabel {
		t.Errorf("expected at least one labelled instruction (the loop head), got %v", instrs)
	}
	if !sawBranch {
		t.Errorf("expected at least one branch instruction, got %v", instrs)
	}
}

// TestIfElse covers spec §8 scenario (e): both branches of an if/else
// are emitted and reachable via branch instructions.
func TestIfElse(t *testing.T) {
	instrs := mustAssemble(t, `byte x = 1; if (x) { x = 1; } else { x = 0; };`)
	var branches int
	for _, instr := range instrs {
		if instr.Op.IsBranch() {
			branches++
		}
	}
	if branches < 2 {
		t.Errorf("expected at least 2 branch instructions, got %d: %v", branches, instrs)
	}
}

// TestManyLiveVariablesForcesSpill covers spec §8 scenario (f): more
// simultaneously-live variables than the general-purpose register pool
// (11 registers) forces at least one spill, observable as an STR to
// the memory-address scratch register.
func TestManyLiveVariablesForcesSpill(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 12; i++ {
		sb.WriteString(stmtDecl(i))
	}
	sb.WriteString("byte total = 0;\n")
	for i := 0; i < 12; i++ {
		sb.WriteString(stmtAdd(i))
	}
	instrs := mustAssemble(t, sb.String())

	var sawStore, sawLoad bool
	for _, instr := range instrs {
		if instr.Op == asmgen.STR {
			sawStore = true
		}
		if instr.Op == asmgen.LD {
			sawLoad = true
		}
	}
	if !sawStore {
		t.Errorf("expected at least one STR instruction once live variables exceed the register pool, got %d instructions", len(instrs))
	}
	if !sawLoad {
		t.Errorf("expected at least one LD instruction reloading a spilled variable, got %d instructions", len(instrs))
	}
}

// TestGenerateWithAlternateMemoryBase covers internal/config.Config's
// Compiler.MemoryBase knob: the first address handed out by the
// allocator is memoryBase, not the hardwired value 1.
func TestGenerateWithAlternateMemoryBase(t *testing.T) {
	const memoryBase = 50
	var sb strings.Builder
	for i := 0; i < 12; i++ {
		sb.WriteString(stmtDecl(i))
	}
	sb.WriteString("byte total = 0;\n")
	for i := 0; i < 12; i++ {
		sb.WriteString(stmtAdd(i))
	}
	instrs := mustAssembleFrom(t, sb.String(), memoryBase)

	var sawAddrAtLeastBase bool
	for i, instr := range instrs {
		if instr.Op != asmgen.LDI || instr.TargetReg != asmgen.RegMemAddr {
			continue
		}
		if i+1 >= len(instrs) || (instrs[i+1].Op != asmgen.STR && instrs[i+1].Op != asmgen.LD) {
			continue
		}
		addr := instr.Op1<<4 | instr.Op2
		if addr < memoryBase {
			t.Errorf("address %d assigned below memoryBase %d", addr, memoryBase)
		}
		sawAddrAtLeastBase = true
	}
	if !sawAddrAtLeastBase {
		t.Fatalf("expected at least one memory access once live variables exceed the register pool")
	}
}

func stmtDecl(i int) string {
	return "byte v" + itoa(i) + " = " + itoa(i+1) + ";\n"
}

func stmtAdd(i int) string {
	return "total = (total + v" + itoa(i) + ");\n"
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

// TestAsmErrorOnUnknownRead exercises the AsmError path directly: a
// read of an identifier with no active register and no known memory
// address is an internal invariant violation.
func TestAsmErrorOnUnknownRead(t *testing.T) {
	bogus := []*tac.Instruction{
		tac.Compute("t", tac.ADD, tac.Ident("neverDeclared"), tac.Lit(1)),
	}
	_, err := asmgen.Generate(bogus, 1)
	if err == nil {
		t.Fatalf("expected an AsmError, got none")
	}
}
