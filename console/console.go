// Package console implements the in-place multi-line status display and
// the pure time/progress formatting helpers used by batch reporting.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
)

// ANSI escape codes used for the in-place redraw.
const (
	cursorUp  = "\x1b[A" // move cursor up one line
	clearLine = "\x1b[2K" // clear the current line
	rewind    = "\r"      // move cursor to the beginning of the line
)

// Console renders batches of status lines as single atomic writes.
//
// Render draws a block of lines and leaves the cursor at the top of the
// block, so the next Render overwrites the same region. Callers should
// keep the line count stable within one batch; shrinking the block
// between calls leaves stale trailing lines behind.
type Console struct {
	mu          sync.Mutex
	w           io.Writer
	interactive bool
}

// New returns a Console writing to w. In-place redraw is only enabled
// when w is a terminal; otherwise every Render degrades to plain line
// output so logs and pipes stay readable.
func New(w io.Writer) *Console {
	interactive := false
	if f, ok := w.(*os.File); ok {
		interactive = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Console{w: w, interactive: interactive}
}

// NewWithTTY returns a Console with the terminal detection overridden.
func NewWithTTY(w io.Writer, interactive bool) *Console {
	return &Console{w: w, interactive: interactive}
}

// Default returns a Console bound to stdout.
func Default() *Console {
	return New(os.Stdout)
}

// Render draws lines as one block and rewinds the cursor to the top of
// the block. The whole sequence is emitted as a single write.
func (c *Console) Render(lines []string) {
	c.print(lines, true)
}

// Print draws lines as one block without rewinding, finalizing whatever
// panel was previously rendered in place.
func (c *Console) Print(lines []string) {
	c.print(lines, false)
}

// ClearLines blanks out n previously rendered lines and rewinds.
func (c *Console) ClearLines(n int) {
	if n <= 0 {
		return
	}
	c.print(make([]string, n), true)
}

func (c *Console) print(lines []string, doRewind bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.interactive {
		if doRewind {
			// No cursor control available; skip transient redraws
			// entirely rather than spamming the output.
			return
		}
		for _, line := range lines {
			fmt.Fprintln(c.w, line)
		}
		return
	}

	var b strings.Builder
	tail := ""
	if doRewind {
		tail = rewind
	}
	for _, line := range lines {
		b.WriteString(clearLine)
		b.WriteString(line)
		b.WriteByte('\n')
		if doRewind {
			tail = cursorUp + tail
		}
	}
	b.WriteString(tail)

	fmt.Fprint(c.w, b.String())
}
