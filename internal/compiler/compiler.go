// Package compiler is the single invocation object spec §5 mandates:
// one Compile call runs the five stages (Lexer, Parser,
// SymbolTableBuilder, TacGenerator, AssemblyGenerator) in process,
// strictly sequentially, with no shared mutable state surviving across
// calls. Grounded on lang/ya/main.go's stage-sequencing shape, but
// collapsed from its subprocess/exec.Command pipeline into a single
// in-process call chain -- spec §5 forbids concurrency or process
// boundaries between stages.
package compiler

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/gmofishsauce/mc4c/internal/asmgen"
	"github.com/gmofishsauce/mc4c/internal/lexer"
	"github.com/gmofishsauce/mc4c/internal/logging"
	"github.com/gmofishsauce/mc4c/internal/parser"
	"github.com/gmofishsauce/mc4c/internal/symtab"
	"github.com/gmofishsauce/mc4c/internal/tac"
)

// Result is everything a successful Compile produces: the TAC
// instruction list (used for the emit_tac intermediate dump and by
// tests) and the final target instruction list.
type Result struct {
	Tac    []*tac.Instruction
	Target []*asmgen.Instruction
}

// Compiler is the single per-invocation object: New followed by one
// Compile call, never reused across sources (spec §5).
type Compiler struct {
	log        *logging.Logger
	memoryBase int
}

// New returns a Compiler logging through l. A nil l discards all
// logging (logging.NewStderr(logging.NONE) is an equally valid choice;
// nil is accepted as a convenience for tests). memoryBase is the first
// address the assembly generator hands out (internal/config.Config's
// Compiler.MemoryBase); 0 falls back to spec §3's fixed default of 1.
func New(l *logging.Logger, memoryBase int) *Compiler {
	if l == nil {
		l = logging.NewStderr(logging.NONE)
	}
	if memoryBase == 0 {
		memoryBase = 1
	}
	return &Compiler{log: l, memoryBase: memoryBase}
}

// Compile runs the full pipeline over source, stopping at the first
// stage error (spec §7: none of the five error kinds is recovered).
func (c *Compiler) Compile(source string) (*Result, error) {
	c.log.Info("running lexer")
	tokens, err := lexer.New(nil).Tokenize(strings.NewReader(source))
	if err != nil {
		return nil, errors.Wrap(err, "lexer")
	}

	c.log.Info("running parser")
	root, err := parser.Parse(tokens)
	if err != nil {
		return nil, errors.Wrap(err, "parser")
	}

	c.log.Info("running symbol table builder")
	if err := symtab.New().Build(root); err != nil {
		return nil, errors.Wrap(err, "symbol table builder")
	}

	c.log.Info("running TAC generator")
	tacList, err := tac.Generate(root)
	if err != nil {
		return nil, errors.Wrap(err, "TAC generator")
	}
	c.log.InfoMedium("generated %d TAC instructions", len(tacList))

	c.log.Info("running assembly generator")
	targetList, err := asmgen.Generate(tacList, c.memoryBase)
	if err != nil {
		return nil, errors.Wrap(err, "assembly generator")
	}
	c.log.InfoMedium("generated %d target instructions", len(targetList))

	return &Result{Tac: tacList, Target: targetList}, nil
}

// Cause classifies the terminal failure of a Compile call into one of
// the five stage error kinds (spec §4.7.2), or nil if err is nil or
// not one of them.
func Cause(err error) error {
	if err == nil {
		return nil
	}
	cause := errors.Cause(err)
	switch cause.(type) {
	case *lexer.LexError, *parser.ParseError, *symtab.SemaError, *tac.IrError, *asmgen.AsmError:
		return cause
	default:
		return nil
	}
}
