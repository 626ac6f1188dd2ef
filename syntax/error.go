package syntax

import (
	"fmt"

	"github.com/pterm/pterm"

	"github.com/JeremiahSanders/testingutils-xunit-extras/errors"
)

// ParseError is a structured error for source text that cannot be structured
type ParseError struct {
	Path    string   // file the error occurred in (may be empty)
	Pos     Position // where the offending construct starts
	Message string   // human-readable message
	Hint    string   // optional suggestion
}

// Error implements error interface
func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %s", e.Pos, e.Message)
	}
	return fmt.Sprintf("%s:%s: %s", e.Path, e.Pos, e.Message)
}

// Unwrap lets errors.Is(err, errors.ErrParse) match every ParseError
func (e *ParseError) Unwrap() error {
	return errors.ErrParse
}

// FormatTerminal renders the error with ANSI colors for CLI output
func (e *ParseError) FormatTerminal() string {
	msg := fmt.Sprintf("%s %s", pterm.Yellow(e.Pos.String()), pterm.Red(e.Message))
	if e.Path != "" {
		msg = fmt.Sprintf("%s:%s", pterm.LightCyan(e.Path), msg)
	}
	if e.Hint != "" {
		msg += fmt.Sprintf("\n  %s %s", pterm.Green("hint:"), e.Hint)
	}
	return msg
}
