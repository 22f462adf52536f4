package cli

import (
	"fmt"

	"github.com/mattn/go-runewidth"

	"github.com/elves/commander/pkg/cli/histutil"
)

// DefaultPrompt is the prompt used when none is configured.
const DefaultPrompt = "❯ "

// Session is the editing state of one terminal: the prompt, the line being
// edited, the cursor and the command history.
//
// A Session is not safe for concurrent use. All mutations happen on the
// goroutine running the Dispatcher.
type Session struct {
	prompt      string
	promptWidth int
	buf         lineBuffer
	history     *histutil.Store
	walker      *histutil.Walker
}

// NewSession creates a new Session. An empty prompt is replaced with
// DefaultPrompt, and a nil history with a new empty one.
func NewSession(prompt string, history *histutil.Store) *Session {
	if prompt == "" {
		prompt = DefaultPrompt
	}
	if history == nil {
		history = histutil.NewStore()
	}
	return &Session{
		prompt:      prompt,
		promptWidth: runewidth.StringWidth(prompt),
		history:     history,
		walker:      histutil.NewWalker(history),
	}
}

func (s *Session) Prompt() string { return s.prompt }

// PromptWidth returns the number of cells the prompt occupies.
func (s *Session) PromptWidth() int { return s.promptWidth }

// Line returns the line being edited.
func (s *Session) Line() string { return s.buf.String() }

// Cursor returns the cursor, as a rune offset into the line.
func (s *Session) Cursor() int { return s.buf.cursor }

func (s *Session) HistoryCursor() histutil.Cursor { return s.walker.Cursor() }

func (s *Session) History() *histutil.Store { return s.history }

// reset starts a fresh line.
func (s *Session) reset() {
	s.buf.reset()
	s.walker.Reset()
}

// An error that signals a broken internal invariant of a Session. It is only
// ever used as a panic value.
type invariantError struct{ msg string }

func (e invariantError) Error() string { return "commander: broken invariant: " + e.msg }

func (s *Session) checkInvariants() {
	if s.buf.cursor < 0 || s.buf.cursor > len(s.buf.line) {
		panic(invariantError{fmt.Sprintf("cursor %d outside line of length %d", s.buf.cursor, len(s.buf.line))})
	}
	if c, ok := s.walker.Cursor().(histutil.AtIndex); ok && (c.N < 0 || c.N >= s.history.Len()) {
		panic(invariantError{fmt.Sprintf("history index %d outside history of length %d", c.N, s.history.Len())})
	}
}
