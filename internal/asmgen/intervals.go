package asmgen

import "github.com/gmofishsauce/mc4c/internal/tac"

// interval is an identifier's live range [Start,End], both TAC
// instruction indices, inclusive (spec §4.5 Phase 2).
type interval struct {
	Start, End int
}

// computeIntervals scans every identifier-valued operand of tacList --
// the target of a non-branch instruction, the operands of an
// operation, and the value of a plain assignment -- and returns each
// identifier's live interval. Branch targets are labels, never
// variables, and are not tracked here.
func computeIntervals(tacList []*tac.Instruction) map[string]interval {
	ivs := map[string]interval{}
	touch := func(name string, i int) {
		if name == "" {
			return
		}
		if cur, ok := ivs[name]; ok {
			if i < cur.Start {
				cur.Start = i
			}
			if i > cur.End {
				cur.End = i
			}
			ivs[name] = cur
		} else {
			ivs[name] = interval{Start: i, End: i}
		}
	}
	touchOperand := func(o tac.Operand, i int) {
		if !o.IsEmpty() && !o.IsLiteral() {
			touch(o.Name(), i)
		}
	}

	for i, instr := range tacList {
		if instr.IsOp && instr.Op.IsBranch() {
			touchOperand(instr.Operand1, i)
			touchOperand(instr.Operand2, i)
			continue
		}
		touch(instr.Target, i)
		if instr.IsOp {
			touchOperand(instr.Operand1, i)
			touchOperand(instr.Operand2, i)
		} else {
			touchOperand(instr.Value, i)
		}
	}
	return ivs
}
