package diagnostics

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	ansiRed   = "\x1b[31m"
	ansiBold  = "\x1b[1m"
	ansiReset = "\x1b[0m"
)

// Console writes diagnostics to a writer as they arrive.
// Colour is used when the writer is a terminal.
type Console struct {
	Out   io.Writer
	Max   int
	Color bool
	count int
}

// NewConsole creates a console handler; Max <= 0 disables the threshold.
func NewConsole(out io.Writer, max int) *Console {
	return &Console{Out: out, Max: max, Color: isTerminal(out)}
}

func (c *Console) Handle(err *DiagnosticError) error {
	c.count++
	if c.Color {
		fmt.Fprintf(c.Out, "%s%serror%s %s\n", ansiBold, ansiRed, ansiReset, err.Error())
	} else {
		fmt.Fprintf(c.Out, "error %s\n", err.Error())
	}
	if c.Max > 0 && c.count >= c.Max {
		fmt.Fprintf(c.Out, "aborting after %d errors\n", c.count)
		return ErrAborted
	}
	return nil
}

// Count is the number of diagnostics written so far.
func (c *Console) Count() int { return c.count }

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
