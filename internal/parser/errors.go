package parser

import (
	"fmt"

	"github.com/pkg/errors"
)

// ParseError reports a token sequence that matches no grammar
// alternative, or a rule whose node-collapse is ill-formed (spec §7).
type ParseError struct {
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %s", e.Msg)
}

func newParseError(format string, args ...interface{}) error {
	return errors.WithStack(&ParseError{Msg: fmt.Sprintf(format, args...)})
}
