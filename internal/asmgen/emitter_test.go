package asmgen_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gmofishsauce/mc4c/internal/asmgen"
)

func TestEmitterWritesOneInstructionPerLine(t *testing.T) {
	instrs := []*asmgen.Instruction{
		asmgen.RegInstr(asmgen.LDI, 5, 0, 7),
		asmgen.BranchInstr(asmgen.BRE, "L_end1", 5, 0),
	}

	var buf bytes.Buffer
	e := asmgen.NewEmitter(&buf)
	if err := e.Emit(instrs); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if err := e.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "LDI") {
		t.Errorf("expected first line to mention LDI, got %q", lines[0])
	}
	if !strings.Contains(lines[1], "L_end1") {
		t.Errorf("expected second line to mention the branch label, got %q", lines[1])
	}
}
