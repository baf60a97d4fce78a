package tac

import (
	"fmt"

	"github.com/pkg/errors"
)

// IrError reports a TAC-generation failure: an empty operand reaching a
// lowering routine, division/modulo by a literal zero, or an AST shape
// the generator does not recognize (spec §7).
type IrError struct {
	Msg string
}

func (e *IrError) Error() string {
	return fmt.Sprintf("IR error: %s", e.Msg)
}

func newIrError(format string, args ...interface{}) error {
	return errors.WithStack(&IrError{Msg: fmt.Sprintf(format, args...)})
}
