package tac

import "fmt"

// Factory is the InstructionFactory of spec §4.4.3: it issues unique
// temp names and labels, appends instructions to an ordered list, and
// holds the bookkeeping back-patching needs (the "next instruction
// label" slot and the queued-label slot).
type Factory struct {
	tempCounter  int
	labelCounter int

	queuedLabel string // consumed by the next NewLabel call, if set

	nextInstrLabel string // sticky; attached to the next appended instruction

	instructions []*Instruction
}

// NewFactory returns an empty Factory.
func NewFactory() *Factory {
	return &Factory{}
}

// NewTemp issues a fresh temp name: "<counter><hint>". Temp names begin
// with a digit so they can never collide with a source identifier,
// which must start with a letter or underscore.
func (f *Factory) NewTemp(hint string) string {
	name := fmt.Sprintf("%d%s", f.tempCounter, hint)
	f.tempCounter++
	return name
}

// NewLabel issues a fresh label: "<hint><counter>", unless a label has
// been queued via QueueLabel, in which case that label is returned and
// the queue is cleared.
func (f *Factory) NewLabel(hint string) string {
	if f.queuedLabel != "" {
		label := f.queuedLabel
		f.queuedLabel = ""
		return label
	}
	label := fmt.Sprintf("%s%d", hint, f.labelCounter)
	f.labelCounter++
	return label
}

// QueueLabel pre-registers label so the next NewLabel call returns it
// instead of minting a fresh one.
func (f *Factory) QueueLabel(label string) {
	f.queuedLabel = label
}

// SetNextInstrLabel sets the sticky "next instruction label" slot: it is
// attached to the next instruction appended via Emit, then cleared. If a
// label issued by SetBranchToNextLabel is still pending in the slot, the
// branches already aimed at it are retargeted to label, since both name
// the same next instruction.
func (f *Factory) SetNextInstrLabel(label string) {
	if pending := f.nextInstrLabel; pending != "" && pending != label {
		for _, instr := range f.instructions {
			if instr.IsOp && instr.Op.IsBranch() && instr.Target == pending {
				instr.Target = label
			}
		}
	}
	f.nextInstrLabel = label
}

// Emit appends instr to the ordered list, attaching and clearing the
// sticky next-instruction label if one is set.
func (f *Factory) Emit(instr *Instruction) *Instruction {
	if f.nextInstrLabel != "" {
		instr.Label = f.nextInstrLabel
		f.nextInstrLabel = ""
	}
	f.instructions = append(f.instructions, instr)
	return instr
}

// Last returns the most recently appended instruction, for
// back-patching. Returns nil if nothing has been emitted yet.
func (f *Factory) Last() *Instruction {
	if len(f.instructions) == 0 {
		return nil
	}
	return f.instructions[len(f.instructions)-1]
}

// Instructions returns the ordered instruction list built so far.
func (f *Factory) Instructions() []*Instruction {
	return f.instructions
}

// SetBranchToNextLabel back-patches instr's Target (a previously emitted
// branch instruction, normally still holding Placeholder) to the label
// of the next instruction to be appended (spec §4.4.2's back-patching
// paragraph). If a label has already been reserved for that next
// instruction (the sticky slot is non-empty), it is reused; otherwise a
// fresh label built from fallbackHint is issued and stashed in the
// sticky slot so the next Emit call picks it up.
func (f *Factory) SetBranchToNextLabel(instr *Instruction, fallbackHint string) {
	label := f.nextInstrLabel
	if label == "" {
		label = f.NewLabel(fallbackHint)
		f.nextInstrLabel = label
	}
	instr.Target = label
}
