package asmgen

import (
	"sort"

	"github.com/gmofishsauce/mc4c/internal/tac"
)

// Reserved registers (spec §4.5): register 0 is the hardwired null
// register; register 1 is the memory-address scratch used to stage an
// LDI before every LD/STR; registers 2-4 are slot-specific temps for
// the target/op1/op2 slots of the instruction currently being
// resolved, used when register pressure forces a var to stay inactive.
const (
	RegMemAddr   = 1
	slotTempBase = 2 // slot 0 (target) -> 2, slot 1 (op1) -> 3, slot 2 (op2) -> 4
)

// generalPool is the 11 allocatable registers (spec §4.5): registers
// 1-15 (register 0 is the null register) minus the four reserved above.
var generalPool = []int{5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}

func slotTemp(slotIndex int) int { return slotTempBase + slotIndex }

func splitNibbles(v uint8) (hi, lo int) { return int(v >> 4), int(v & 0x0F) }

// opcodeMap is the 1:1 TAC-to-target opcode map (both ISAs share ADD,
// SUB, AND, OR, LS, RS, BRE, BRLT).
var opcodeMap = map[tac.Opcode]Opcode{
	tac.ADD:  ADD,
	tac.SUB:  SUB,
	tac.AND:  AND,
	tac.OR:   OR,
	tac.LS:   LS,
	tac.RS:   RS,
	tac.BRE:  BRE,
	tac.BRLT: BRLT,
}

// activeVar is one variable currently bound to a register within the
// block being emitted.
type activeVar struct {
	name      string
	reg       int
	writtenTo bool
}

// blockState is the linear-scan register pool for one basic block: it
// resets at every block boundary (spec §4.5 Phase 3 intro).
type blockState struct {
	active []*activeVar // ascending by interval end, ties broken by insertion order
	free   []int        // ascending
}

func newBlockState() *blockState {
	free := make([]int, len(generalPool))
	copy(free, generalPool)
	return &blockState{free: free}
}

func (bs *blockState) takeFree() (int, bool) {
	if len(bs.free) == 0 {
		return 0, false
	}
	reg := bs.free[0]
	bs.free = bs.free[1:]
	return reg, true
}

func (bs *blockState) removeFree(reg int) {
	for i, r := range bs.free {
		if r == reg {
			bs.free = append(bs.free[:i], bs.free[i+1:]...)
			return
		}
	}
}

func (bs *blockState) find(name string) *activeVar {
	for _, av := range bs.active {
		if av.name == name {
			return av
		}
	}
	return nil
}

// deferredStore is emitted right after the instruction that produced
// it, for a write target that never became an active register (spec
// §8 invariant 6: a store before the variable goes inactive).
type deferredStore struct {
	reg, addr int
}

// Generator is the AssemblyGenerator of spec §4.5: the single
// invocation object that runs the three phases once over a TAC list.
type Generator struct {
	tacList   []*tac.Instruction
	intervals map[string]interval
	memAddr   map[string]int
	nextAddr  int
	out       []*Instruction
}

// Generate lowers a flat TAC instruction list (from internal/tac) to a
// flat target instruction list. memoryBase is the first address handed
// out by memAddrOrAssign (internal/config.Config.Compiler.MemoryBase;
// spec §3 fixes it at 1, exposed as a config knob purely so tests can
// probe alternate bases without touching the allocator itself).
func Generate(tacList []*tac.Instruction, memoryBase int) ([]*Instruction, error) {
	g := &Generator{
		tacList:  tacList,
		memAddr:  map[string]int{},
		nextAddr: memoryBase,
	}
	g.intervals = computeIntervals(tacList)
	for _, b := range computeBlocks(tacList) {
		if err := g.genBlock(b); err != nil {
			return nil, err
		}
	}
	return g.out, nil
}

func (g *Generator) memAddrOrAssign(name string) int {
	if addr, ok := g.memAddr[name]; ok {
		return addr
	}
	addr := g.nextAddr
	g.memAddr[name] = addr
	g.nextAddr++
	return addr
}

// expire drops every active var whose interval ends strictly before
// idx, storing it first if it was ever written (spec §8 invariant 6).
func (g *Generator) expire(bs *blockState, idx int) []*Instruction {
	var out []*Instruction
	kept := bs.active[:0:0]
	for _, av := range bs.active {
		if g.intervals[av.name].End < idx {
			if av.writtenTo {
				addr := g.memAddrOrAssign(av.name)
				hi, lo := splitNibbles(uint8(addr))
				out = append(out, RegInstr(LDI, RegMemAddr, hi, lo))
				out = append(out, RegInstr(STR, av.reg, RegMemAddr, 0))
			}
			bs.free = append(bs.free, av.reg)
		} else {
			kept = append(kept, av)
		}
	}
	bs.active = kept
	sort.Ints(bs.free)
	return out
}

// endOfBlock flushes every still-active written var at the close of a
// block (spec §8 invariant 6's "or the block ends" clause).
func (g *Generator) endOfBlock(bs *blockState) []*Instruction {
	var out []*Instruction
	for _, av := range bs.active {
		if av.writtenTo {
			addr := g.memAddrOrAssign(av.name)
			hi, lo := splitNibbles(uint8(addr))
			out = append(out, RegInstr(LDI, RegMemAddr, hi, lo))
			out = append(out, RegInstr(STR, av.reg, RegMemAddr, 0))
		}
	}
	bs.active = nil
	return out
}

func (bs *blockState) activate(g *Generator, name string, reg int, writtenTo bool) {
	bs.removeFree(reg)
	bs.active = append(bs.active, &activeVar{name: name, reg: reg, writtenTo: writtenTo})
	sort.SliceStable(bs.active, func(i, j int) bool {
		return g.intervals[bs.active[i].name].End < g.intervals[bs.active[j].name].End
	})
}

// resolveName implements spec §4.5's operand register resolution
// algorithm for one identifier. slotIndex picks the reserved
// slot-specific temp (0=target, 1=op1, 2=op2) used on the fallback
// paths that cannot afford a general register.
func (g *Generator) resolveName(bs *blockState, name string, slotIndex int, idx int, write bool) (int, []*Instruction, *deferredStore, error) {
	if av := bs.find(name); av != nil {
		if write {
			av.writtenTo = true
		}
		return av.reg, nil, nil, nil
	}

	if addr, ok := g.memAddr[name]; ok {
		hi, lo := splitNibbles(uint8(addr))
		prefix := []*Instruction{RegInstr(LDI, RegMemAddr, hi, lo)}
		if reg, ok := bs.takeFree(); ok {
			prefix = append(prefix, RegInstr(LD, reg, RegMemAddr, 0))
			bs.activate(g, name, reg, write)
			return reg, prefix, nil, nil
		}
		temp := slotTemp(slotIndex)
		prefix = append(prefix, RegInstr(LD, temp, RegMemAddr, 0))
		var deferred *deferredStore
		if write {
			deferred = &deferredStore{reg: temp, addr: addr}
		}
		return temp, prefix, deferred, nil
	}

	if !write {
		return 0, nil, nil, newAsmError("read of %q with neither an active register nor a known memory address", name)
	}

	if reg, ok := bs.takeFree(); ok {
		bs.activate(g, name, reg, true)
		return reg, nil, nil, nil
	}

	if len(bs.active) == 0 {
		return 0, nil, nil, newAsmError("no free register and no active variable to spill while allocating %q", name)
	}
	last := bs.active[len(bs.active)-1]
	newEnd := g.intervals[name].End
	lastEnd := g.intervals[last.name].End
	if newEnd >= lastEnd {
		// The incoming variable outlives the longest-lived active var:
		// spill the incoming variable instead of disturbing the pool.
		addr := g.memAddrOrAssign(name)
		temp := slotTemp(slotIndex)
		return temp, nil, &deferredStore{reg: temp, addr: addr}, nil
	}

	// Evict the longest-lived active var, store it if dirty, and hand
	// its register to the incoming variable.
	bs.active = bs.active[:len(bs.active)-1]
	var prefix []*Instruction
	if last.writtenTo {
		addr := g.memAddrOrAssign(last.name)
		hi, lo := splitNibbles(uint8(addr))
		prefix = append(prefix, RegInstr(LDI, RegMemAddr, hi, lo))
		prefix = append(prefix, RegInstr(STR, last.reg, RegMemAddr, 0))
	}
	bs.activate(g, name, last.reg, true)
	return last.reg, prefix, nil, nil
}

// resolveOperand resolves a read-only operand (spec §4.5): empty stays
// the null register, a literal is staged via LDI into its slot's
// reserved temp (the target ISA has no register-immediate form of
// ADD/SUB/AND/OR), an identifier resolves through resolveName.
func (g *Generator) resolveOperand(bs *blockState, op tac.Operand, slotIndex int, idx int) (int, []*Instruction, error) {
	if op.IsEmpty() {
		return 0, nil, nil
	}
	if op.IsLiteral() {
		temp := slotTemp(slotIndex)
		hi, lo := splitNibbles(op.Literal())
		return temp, []*Instruction{RegInstr(LDI, temp, hi, lo)}, nil
	}
	reg, prefix, _, err := g.resolveName(bs, op.Name(), slotIndex, idx, false)
	return reg, prefix, err
}

// resolveTarget resolves the write target (slot 0) of a non-branch
// instruction.
func (g *Generator) resolveTarget(bs *blockState, name string, idx int) (int, []*Instruction, *deferredStore, error) {
	return g.resolveName(bs, name, 0, idx, true)
}

func attachLabel(label *string, instrs []*Instruction) {
	if *label == "" || len(instrs) == 0 {
		return
	}
	instrs[0].Label = *label
	*label = ""
}

func (g *Generator) flushDeferred(d *deferredStore) {
	if d == nil {
		return
	}
	hi, lo := splitNibbles(uint8(d.addr))
	g.out = append(g.out, RegInstr(LDI, RegMemAddr, hi, lo))
	g.out = append(g.out, RegInstr(STR, d.reg, RegMemAddr, 0))
}

// genBlock emits the target instructions for one basic block, running
// the expire/resolve/emit/spill sequence of spec §4.5 Phase 3.
func (g *Generator) genBlock(b block) error {
	bs := newBlockState()

	for idx := b.Start; idx < b.End; idx++ {
		instr := g.tacList[idx]
		g.out = append(g.out, g.expire(bs, idx)...)

		pendingLabel := instr.Label

		switch {
		case instr.IsOp && instr.Op.IsBranch():
			op1reg, pre1, err := g.resolveOperand(bs, instr.Operand1, 1, idx)
			if err != nil {
				return err
			}
			op2reg, pre2, err := g.resolveOperand(bs, instr.Operand2, 2, idx)
			if err != nil {
				return err
			}
			attachLabel(&pendingLabel, pre1)
			g.out = append(g.out, pre1...)
			attachLabel(&pendingLabel, pre2)
			g.out = append(g.out, pre2...)
			main := BranchInstr(opcodeMap[instr.Op], instr.Target, op1reg, op2reg)
			attachLabel(&pendingLabel, []*Instruction{main})
			g.out = append(g.out, main)

		case !instr.IsOp && instr.Value.IsLiteral():
			reg, pre, deferred, err := g.resolveTarget(bs, instr.Target, idx)
			if err != nil {
				return err
			}
			attachLabel(&pendingLabel, pre)
			g.out = append(g.out, pre...)
			hi, lo := splitNibbles(instr.Value.Literal())
			main := RegInstr(LDI, reg, hi, lo)
			attachLabel(&pendingLabel, []*Instruction{main})
			g.out = append(g.out, main)
			g.flushDeferred(deferred)

		case !instr.IsOp:
			srcReg, preS, err := g.resolveOperand(bs, instr.Value, 1, idx)
			if err != nil {
				return err
			}
			dstReg, preD, deferred, err := g.resolveTarget(bs, instr.Target, idx)
			if err != nil {
				return err
			}
			attachLabel(&pendingLabel, preS)
			g.out = append(g.out, preS...)
			attachLabel(&pendingLabel, preD)
			g.out = append(g.out, preD...)
			// The target ISA has no plain move; OR with the null
			// register copies the source through unchanged.
			main := RegInstr(OR, dstReg, srcReg, 0)
			attachLabel(&pendingLabel, []*Instruction{main})
			g.out = append(g.out, main)
			g.flushDeferred(deferred)

		default:
			op1reg, pre1, err := g.resolveOperand(bs, instr.Operand1, 1, idx)
			if err != nil {
				return err
			}
			op2reg, pre2, err := g.resolveOperand(bs, instr.Operand2, 2, idx)
			if err != nil {
				return err
			}
			dstReg, pre3, deferred, err := g.resolveTarget(bs, instr.Target, idx)
			if err != nil {
				return err
			}
			attachLabel(&pendingLabel, pre1)
			g.out = append(g.out, pre1...)
			attachLabel(&pendingLabel, pre2)
			g.out = append(g.out, pre2...)
			attachLabel(&pendingLabel, pre3)
			g.out = append(g.out, pre3...)
			main := RegInstr(opcodeMap[instr.Op], dstReg, op1reg, op2reg)
			attachLabel(&pendingLabel, []*Instruction{main})
			g.out = append(g.out, main)
			g.flushDeferred(deferred)
		}
	}

	g.out = append(g.out, g.endOfBlock(bs)...)
	return nil
}
