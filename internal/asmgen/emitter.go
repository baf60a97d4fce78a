package asmgen

import (
	"bufio"
	"io"
)

// Emitter writes a target instruction list out in the textual form of
// spec §6, one instruction per line. Grounded on lang/ygen/emit.go's
// buffered-writer idiom, reduced to what a flat instruction listing
// needs -- no data-section directives, since mc4c's target program is
// nothing but a linear instruction stream.
type Emitter struct {
	out *bufio.Writer
}

// NewEmitter returns an Emitter writing to w.
func NewEmitter(w io.Writer) *Emitter {
	return &Emitter{out: bufio.NewWriter(w)}
}

// Emit writes every instruction, one per line.
func (e *Emitter) Emit(instrs []*Instruction) error {
	for _, instr := range instrs {
		if _, err := e.out.WriteString(instr.String()); err != nil {
			return err
		}
		if err := e.out.WriteByte('\n'); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes any buffered output to the underlying writer.
func (e *Emitter) Flush() error { return e.out.Flush() }
