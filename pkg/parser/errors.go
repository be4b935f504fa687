package parser

import (
	"fmt"

	"github.com/leapstack-labs/leapcube/pkg/token"
)

// ParseError represents a syntax error with position information.
type ParseError struct {
	Pos     token.Position
	Message string
}

func (e *ParseError) Error() string {
	if e.Pos.Filename != "" {
		return fmt.Sprintf("%s: parse error at line %d, column %d: %s", e.Pos.Filename, e.Pos.Line, e.Pos.Column, e.Message)
	}
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// Common error messages
const (
	errInvalidEscape     = "invalid escape sequence in %s"
	errShorthandKey      = "shorthand property requires an identifier key"
	errUnsupportedSyntax = "unsupported syntax"
)
