package commands

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"

	"github.com/JeremiahSanders/testingutils-xunit-extras/errors"
	"github.com/JeremiahSanders/testingutils-xunit-extras/syntax"
)

// PrintError writes err with its details and hints for a terminal
func PrintError(w io.Writer, err error) {
	var parseErr *syntax.ParseError
	if errors.As(err, &parseErr) {
		fmt.Fprintf(w, "%s %s\n", pterm.Red("Error:"), parseErr.FormatTerminal())
		return
	}

	fmt.Fprintf(w, "%s %v\n", pterm.Red("Error:"), err)
	for _, detail := range errors.GetAllDetails(err) {
		fmt.Fprintf(w, "  %s\n", detail)
	}
	for _, hint := range errors.GetAllHints(err) {
		fmt.Fprintf(w, "  %s %s\n", pterm.Green("hint:"), hint)
	}
}
