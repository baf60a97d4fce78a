package symtab

import (
	"fmt"

	"github.com/pkg/errors"
)

// SemaError reports a read/write of an undeclared identifier, a
// duplicate declaration within one scope, or an attempt to re-attach a
// symbol table to a node that already has one (spec §7).
type SemaError struct {
	Msg string
}

func (e *SemaError) Error() string {
	return fmt.Sprintf("semantic error: %s", e.Msg)
}

func newSemaError(format string, args ...interface{}) error {
	return errors.WithStack(&SemaError{Msg: fmt.Sprintf(format, args...)})
}
