package cli

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/elves/commander/pkg/cli/term"
)

// render accumulates the output that brings the terminal in line with an
// edit. The editor never repaints the whole line; each operation appends the
// minimal sequence and the result is written to the surface in one go.
type render struct {
	sb strings.Builder
}

func (r *render) text(s string) { r.sb.WriteString(s) }

// back moves the cursor n cells to the left.
func (r *render) back(n int) {
	if n > 0 {
		r.sb.WriteString(strings.Repeat("\b", n))
	}
}

// forward moves the cursor n cells to the right.
func (r *render) forward(n int) {
	if n > 0 {
		r.sb.WriteString(strings.Repeat(term.CursorRight, n))
	}
}

// left is like back, but uses the same sequence as the Left key.
func (r *render) left(n int) {
	if n > 0 {
		r.sb.WriteString(strings.Repeat(term.CursorLeft, n))
	}
}

func (r *render) spaces(n int) {
	if n > 0 {
		r.sb.WriteString(strings.Repeat(" ", n))
	}
}

func (r *render) String() string { return r.sb.String() }

// width returns the number of cells rs occupies on the terminal.
func width(rs []rune) int {
	w := 0
	for _, r := range rs {
		w += runewidth.RuneWidth(r)
	}
	return w
}
