package cli

import (
	"github.com/mattn/go-runewidth"
)

// lineBuffer holds the line being edited and the cursor, as an index into the
// runes of the line. Operations append to a render what the terminal needs to
// display the result, assuming that the terminal cursor is where the cursor
// of the buffer is.
type lineBuffer struct {
	line   []rune
	cursor int
}

func (b *lineBuffer) String() string { return string(b.line) }

func (b *lineBuffer) reset() {
	b.line = nil
	b.cursor = 0
}

// insert inserts text at the cursor and moves the cursor after it.
func (b *lineBuffer) insert(r *render, text string) {
	rs := []rune(text)
	if b.cursor == len(b.line) {
		b.line = append(b.line, rs...)
		r.text(text)
	} else {
		suffix := append([]rune(nil), b.line[b.cursor:]...)
		b.line = append(append(b.line[:b.cursor:b.cursor], rs...), suffix...)
		// Redraw the displaced suffix and come back.
		r.text(text + string(suffix))
		r.back(width(suffix))
	}
	b.cursor += len(rs)
}

// deleteBeforeCursor deletes the rune before the cursor. It returns false if
// the cursor is at the start of the line.
func (b *lineBuffer) deleteBeforeCursor(r *render) bool {
	if b.cursor == 0 {
		return false
	}
	w := runewidth.RuneWidth(b.line[b.cursor-1])
	suffix := append([]rune(nil), b.line[b.cursor:]...)
	b.line = append(b.line[:b.cursor-1], suffix...)
	b.cursor--
	// Shift the suffix left, blank out the stale cells at the end, and come
	// back.
	r.back(w)
	r.text(string(suffix))
	r.spaces(w)
	r.back(width(suffix) + w)
	return true
}

func (b *lineBuffer) moveLeft(r *render) bool {
	if b.cursor == 0 {
		return false
	}
	b.cursor--
	r.left(runewidth.RuneWidth(b.line[b.cursor]))
	return true
}

func (b *lineBuffer) moveRight(r *render) bool {
	if b.cursor == len(b.line) {
		return false
	}
	r.forward(runewidth.RuneWidth(b.line[b.cursor]))
	b.cursor++
	return true
}

// col returns the column of the cursor relative to the start of the line.
func (b *lineBuffer) col() int {
	return width(b.line[:b.cursor])
}

func (b *lineBuffer) jumpHome(r *render) { b.homeFrom(r, b.col()) }

func (b *lineBuffer) jumpEnd(r *render) { b.endFrom(r, b.col()) }

// homeFrom moves the cursor to the start of the line, assuming that the
// terminal cursor is at column col relative to the line start. The column may
// be negative if the terminal cursor has strayed into the prompt.
func (b *lineBuffer) homeFrom(r *render, col int) {
	if col > 0 {
		r.back(col)
	} else {
		r.forward(-col)
	}
	b.cursor = 0
}

// endFrom is like homeFrom, but moves to the end of the line.
func (b *lineBuffer) endFrom(r *render, col int) {
	if d := width(b.line) - col; d > 0 {
		r.forward(d)
	} else {
		r.back(-d)
	}
	b.cursor = len(b.line)
}

// syncTo sets the cursor to match the terminal cursor at column col. A
// column outside the line is corrected to the nearest end, and a column in
// the middle of a wide rune is corrected to the start of that rune.
func (b *lineBuffer) syncTo(r *render, col int) {
	switch {
	case col < 0:
		b.homeFrom(r, col)
	case col > width(b.line):
		b.endFrom(r, col)
	default:
		i, w := 0, 0
		for i < len(b.line) {
			rw := runewidth.RuneWidth(b.line[i])
			if w+rw > col {
				break
			}
			w += rw
			i++
		}
		r.back(col - w)
		b.cursor = i
	}
}

// replaceWhole erases the displayed line and replaces it with text, leaving
// the cursor at the end.
func (b *lineBuffer) replaceWhole(r *render, text string) {
	old := width(b.line)
	r.back(b.col())
	r.spaces(old)
	r.back(old)
	r.text(text)
	b.line = []rune(text)
	b.cursor = len(b.line)
}
