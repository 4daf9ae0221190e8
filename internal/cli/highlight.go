package cli

import (
	"fmt"
	"io"

	"github.com/alecthomas/chroma/v2/quick"
)

const (
	highlightFormatter = "terminal256"
	highlightStyle     = "catppuccin-mocha"
)

// highlight writes src to w with terminal syntax highlighting for the given
// chroma lexer.
func highlight(w io.Writer, src, lexer string) error {
	err := quick.Highlight(w, src, lexer, highlightFormatter, highlightStyle)
	if err != nil {
		return fmt.Errorf("highlight %s: %w", lexer, err)
	}

	return nil
}
