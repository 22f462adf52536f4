package term

import (
	"io"
	"strconv"
	"sync"

	"github.com/mattn/go-runewidth"
)

// Pos is a cursor position on the terminal. Line is relative to where the
// Screen started tracking; Col is absolute.
type Pos struct {
	Line, Col int
}

// Surface is the output side of a terminal as seen by the editor. All output
// goes through Write, and the surface reports where the cursor is.
type Surface interface {
	Write(s string) error
	Cursor() Pos
}

// Screen is a Surface that writes VT100 output to an io.Writer and tracks the
// resulting cursor position by interpreting the output itself. It understands
// the subset of sequences the editor writes: backspace, carriage return, line
// feed, tab, relative cursor movements and printable text. Other escape
// sequences are passed through without affecting the cursor.
//
// The tracked column is clamped at 0 like a real terminal, but lines are
// assumed never to wrap.
type Screen struct {
	w io.Writer
	// Guards pos. Writes from command output and the editor are serialized by
	// the editor, but Cursor may be queried from elsewhere.
	mu  sync.Mutex
	pos Pos
}

// NewScreen returns a Screen writing to w, with the cursor at column 0.
func NewScreen(w io.Writer) *Screen {
	return &Screen{w: w}
}

// NewScreenAt is like NewScreen, but with the given initial cursor position.
func NewScreenAt(w io.Writer, pos Pos) *Screen {
	return &Screen{w: w, pos: pos}
}

// Write writes s and updates the tracked cursor position.
func (s *Screen) Write(str string) error {
	s.mu.Lock()
	s.pos = advance(s.pos, str)
	s.mu.Unlock()
	_, err := io.WriteString(s.w, str)
	return err
}

// Cursor returns the tracked cursor position.
func (s *Screen) Cursor() Pos {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos
}

// advance returns the cursor position after writing str at pos.
func advance(pos Pos, str string) Pos {
	rs := []rune(str)
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		switch {
		case r == '\b':
			if pos.Col > 0 {
				pos.Col--
			}
		case r == '\r':
			pos.Col = 0
		case r == '\n':
			pos.Line++
		case r == '\t':
			pos.Col = (pos.Col/8 + 1) * 8
		case r == 0x1b:
			if i+1 < len(rs) && rs[i+1] == '[' {
				n, final, end := scanCSI(rs, i+2)
				pos = applyCSI(pos, n, final)
				i = end - 1
			} else if i+1 < len(rs) {
				// Two-character escape; skip it.
				i++
			}
		case r < 0x20 || r == 0x7f:
			// Other control characters do not move the cursor.
		default:
			pos.Col += runewidth.RuneWidth(r)
		}
	}
	return pos
}

// scanCSI scans the parameters and final rune of a CSI sequence whose
// parameters start at rs[i]. It returns the first numerical parameter (-1 if
// absent), the final rune (0 if the sequence is incomplete) and the index
// after the sequence.
func scanCSI(rs []rune, i int) (n int, final rune, end int) {
	start := i
	for i < len(rs) && (('0' <= rs[i] && rs[i] <= '9') || rs[i] == ';' || rs[i] == '?') {
		i++
	}
	n = -1
	param := string(rs[start:i])
	for j, r := range param {
		if r == ';' {
			param = param[:j]
			break
		}
	}
	if v, err := strconv.Atoi(param); err == nil {
		n = v
	}
	if i >= len(rs) {
		return n, 0, i
	}
	return n, rs[i], i + 1
}

func applyCSI(pos Pos, n int, final rune) Pos {
	if n <= 0 {
		n = 1
	}
	switch final {
	case 'C':
		pos.Col += n
	case 'D':
		pos.Col -= n
		if pos.Col < 0 {
			pos.Col = 0
		}
	case 'A':
		pos.Line -= n
	case 'B':
		pos.Line += n
	case 'G':
		pos.Col = n - 1
	}
	return pos
}
