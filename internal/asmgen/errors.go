package asmgen

import (
	"fmt"

	"github.com/pkg/errors"
)

// AsmError reports an internal invariant violation in the assembly
// generator (spec §7): e.g. an allocation attempted against an empty
// register pool with no spill candidate, or a read of a variable with
// neither an active register nor a known memory address.
type AsmError struct {
	Msg string
}

func (e *AsmError) Error() string {
	return fmt.Sprintf("assembly generation error: %s", e.Msg)
}

func newAsmError(format string, args ...interface{}) error {
	return errors.WithStack(&AsmError{Msg: fmt.Sprintf(format, args...)})
}
