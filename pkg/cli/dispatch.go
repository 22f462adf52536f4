package cli

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/elves/commander/pkg/argv"
	"github.com/elves/commander/pkg/cli/term"
	"github.com/elves/commander/pkg/commander"
	"github.com/elves/commander/pkg/logutil"
	"github.com/elves/commander/pkg/ui"
)

// Action is what the editor does with one chunk of input.
type Action int

// Possible values for Action.
const (
	// Text inserts the chunk at the cursor.
	Text Action = iota
	Enter
	Interrupt
	Backspace
	Up
	Down
	Left
	Right
	Home
	End
	SelectLeft
	SelectRight
	// Repeat forwards a run of Left or Right sequences to the terminal
	// unchanged.
	Repeat
)

var actionNames = [...]string{
	"Text", "Enter", "Interrupt", "Backspace", "Up", "Down", "Left", "Right",
	"Home", "End", "SelectLeft", "SelectRight", "Repeat",
}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "Action(?)"
	}
	return actionNames[a]
}

// Input is a classified chunk of input.
type Input struct {
	Action Action
	// The raw chunk.
	Data string
}

// Actions bound to exact keys.
var keyActions = map[ui.Key]Action{
	ui.K(ui.Enter):           Enter,
	ui.K(ui.Enter, ui.Alt):   Enter,
	ui.K('J', ui.Ctrl):       Enter,
	ui.K('C', ui.Ctrl):       Interrupt,
	ui.K(ui.Backspace):       Backspace,
	ui.K('H', ui.Ctrl):       Backspace,
	ui.K(ui.Left, ui.Shift):  SelectLeft,
	ui.K(ui.Right, ui.Shift): SelectRight,
}

// Actions bound to function keys with any modifier.
var familyActions = map[rune]Action{
	ui.Up:    Up,
	ui.Down:  Down,
	ui.Left:  Left,
	ui.Right: Right,
	ui.Home:  Home,
	ui.End:   End,
}

// ClassifyInput determines the action for a chunk of input. Keys that are
// recognized but not bound to any action are inserted as text.
func ClassifyInput(chunk string) Input {
	switch ev := term.Classify(chunk).(type) {
	case term.RepeatEvent:
		return Input{Repeat, ev.Seq}
	case term.KeyEvent:
		k := ui.Key(ev)
		if a, ok := keyActions[k]; ok {
			return Input{a, chunk}
		}
		if k.IsFunctionKey() {
			if a, ok := familyActions[k.Rune]; ok {
				return Input{a, chunk}
			}
		}
	}
	return Input{Text, chunk}
}

// Dispatcher applies input to a Session, writing the minimal terminal output
// for each edit to Surface and running committed lines with Resolver.
type Dispatcher struct {
	Surface  term.Surface
	Resolver commander.Resolver
	// Logger receives a trace of every command run, and a report of every
	// command that is not found or fails. If nil, logs are discarded.
	Logger *zap.Logger
}

func (d *Dispatcher) logger() *zap.Logger {
	if d.Logger == nil {
		return logutil.Discard
	}
	return d.Logger
}

// Prompt starts a fresh line in s and writes a new prompt on a new line.
func (d *Dispatcher) Prompt(s *Session) error {
	s.reset()
	return d.Surface.Write("\r\n" + s.prompt)
}

// Handle classifies one chunk of input and applies it to s. The only errors
// it returns are write errors of the Surface.
func (d *Dispatcher) Handle(ctx context.Context, s *Session, chunk string) error {
	in := ClassifyInput(chunk)
	r := &render{}
	resync := false
	switch in.Action {
	case Enter:
		return d.commit(ctx, s)
	case Interrupt:
		return d.Prompt(s)
	case Backspace:
		if s.buf.deleteBeforeCursor(r) {
			s.detach()
		}
	case Up:
		s.prevHistory(r)
	case Down:
		s.nextHistory(r)
	case Left:
		s.buf.moveLeft(r)
	case Right:
		s.buf.moveRight(r)
	case Home:
		s.buf.jumpHome(r)
	case End:
		s.buf.jumpEnd(r)
	case SelectLeft:
		r.text(term.CursorLeft)
		resync = true
	case SelectRight:
		r.text(term.CursorRight)
		resync = true
	case Repeat:
		r.text(in.Data)
		resync = true
	default:
		if text := printable(in.Data); text != "" {
			s.buf.insert(r, text)
			s.detach()
		}
	}
	if err := d.flush(r); err != nil {
		return err
	}
	if resync {
		if err := d.Resync(s); err != nil {
			return err
		}
	}
	s.checkInvariants()
	return nil
}

// printable returns the part of a text chunk that can be put in the line. Tabs
// become spaces and other control characters are dropped, so that every rune
// in the line occupies the cells the line buffer counts for it.
func printable(data string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t':
			return ' '
		case r < 0x20, 0x7f <= r && r < 0xa0:
			return -1
		}
		return r
	}, data)
}

// Resync sets the cursor of s from the cursor position of the surface. This is
// needed after cursor movements that the terminal performs on its own, whose
// result is only known to the surface. A cursor found in the prompt is moved
// to the start of the line, and one found past the end of the line is moved
// to the end.
func (d *Dispatcher) Resync(s *Session) error {
	r := &render{}
	s.buf.syncTo(r, d.Surface.Cursor().Col-s.promptWidth)
	return d.flush(r)
}

func (d *Dispatcher) flush(r *render) error {
	out := r.String()
	if out == "" {
		return nil
	}
	return d.Surface.Write(out)
}

func (d *Dispatcher) commit(ctx context.Context, s *Session) error {
	line := s.Line()
	s.recordIfNonEmpty(line)
	if args := argv.Split(line); len(args) > 0 {
		d.run(ctx, args)
	}
	return d.Prompt(s)
}

// run runs a command and reports its outcome to the logger. Failures of
// commands never propagate further.
func (d *Dispatcher) run(ctx context.Context, args []string) commander.Outcome {
	logger := d.logger()
	joined := zap.String("command", strings.Join(args, " "))
	logger.Debug("running command", joined)

	var err error
	if d.Resolver == nil {
		err = commander.ErrCommandNotFound
	} else {
		err = d.Resolver.Run(ctx, term.NewLineWriter(d.Surface), args)
	}

	outcome := commander.Classify(err)
	switch outcome {
	case commander.NotFound:
		logger.Warn("command not found", joined)
	case commander.Failed:
		logger.Error("command failed", joined, zap.Error(err))
	}
	return outcome
}
