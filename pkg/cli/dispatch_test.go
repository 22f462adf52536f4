package cli

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/elves/commander/pkg/cli/histutil"
	"github.com/elves/commander/pkg/cli/term"
	"github.com/elves/commander/pkg/commander"
)

var classifyInputTests = []struct {
	chunk string
	want  Action
}{
	{"\r", Enter},
	{"\033\r", Enter},
	{"\n", Enter},
	{"\x03", Interrupt},
	{"\x7f", Backspace},
	{"\b", Backspace},
	{"\033[A", Up},
	{"\033OA", Up},
	{"\033[1;5A", Up},
	{"\033[B", Down},
	{"\033[D", Left},
	{"\033[1;5D", Left},
	{"\033[C", Right},
	{"\033[1;3C", Right},
	{"\033[1;2D", SelectLeft},
	{"\033[1;2C", SelectRight},
	{"\033[H", Home},
	{"\033[1~", Home},
	{"\033[F", End},
	{"\033[4~", End},
	{"\033[D\033[D", Repeat},
	{"\033[C\033[C\033[C", Repeat},
	{"a", Text},
	{"hello world", Text},
	{"\t", Text},
	{"\033[5~", Text},
	{"\033[D\033[C", Text},
	{"\033[99X", Text},
}

func TestClassifyInput(t *testing.T) {
	for _, test := range classifyInputTests {
		got := ClassifyInput(test.chunk)
		if got.Action != test.want || got.Data != test.chunk {
			t.Errorf("ClassifyInput(%q) -> %v, want %v", test.chunk, got, Input{test.want, test.chunk})
		}
	}
}

type fixture struct {
	t     *testing.T
	out   *strings.Builder
	s     *Session
	d     *Dispatcher
	logs  *observer.ObservedLogs
	calls [][]string
	// Returned by the resolver.
	err error
}

func setup(t *testing.T) *fixture {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	f := &fixture{t: t, out: &strings.Builder{}, logs: logs}
	f.s = NewSession("", nil)
	f.d = &Dispatcher{
		Surface: term.NewScreen(f.out),
		Resolver: commander.ResolverFunc(func(_ context.Context, out io.Writer, argv []string) error {
			f.calls = append(f.calls, argv)
			return f.err
		}),
		Logger: zap.New(core),
	}
	if err := f.d.Prompt(f.s); err != nil {
		t.Fatal(err)
	}
	f.take()
	return f
}

func (f *fixture) feed(chunks ...string) {
	f.t.Helper()
	for _, chunk := range chunks {
		if err := f.d.Handle(context.Background(), f.s, chunk); err != nil {
			f.t.Fatalf("Handle(%q) -> %v", chunk, err)
		}
	}
}

// take returns the output since the last call.
func (f *fixture) take() string {
	s := f.out.String()
	f.out.Reset()
	return s
}

func (f *fixture) testOutput(chunk, want string) {
	f.t.Helper()
	f.take()
	f.feed(chunk)
	if got := f.take(); got != want {
		f.t.Errorf("output for %q = %q, want %q", chunk, got, want)
	}
}

func (f *fixture) testState(line string, cursor int) {
	f.t.Helper()
	if got := f.s.Line(); got != line {
		f.t.Errorf("line = %q, want %q", got, line)
	}
	if got := f.s.Cursor(); got != cursor {
		f.t.Errorf("cursor = %d, want %d", got, cursor)
	}
}

func (f *fixture) testHistory(want ...string) {
	f.t.Helper()
	var got []string
	for _, e := range f.s.History().All() {
		got = append(got, e.Text)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		f.t.Errorf("history (-want +got):\n%s", diff)
	}
}

func TestPrompt(t *testing.T) {
	out := &strings.Builder{}
	d := &Dispatcher{Surface: term.NewScreen(out)}
	if err := d.Prompt(NewSession("", nil)); err != nil {
		t.Fatal(err)
	}
	if got, want := out.String(), "\r\n❯ "; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestHandle_TypeAndCommit(t *testing.T) {
	f := setup(t)
	f.testOutput("ls -la", "ls -la")
	f.testState("ls -la", 6)

	f.testOutput("\r", "\r\n❯ ")
	f.testState("", 0)
	f.testHistory("ls -la")
	if diff := cmp.Diff([][]string{{"ls", "-la"}}, f.calls); diff != "" {
		t.Errorf("calls (-want +got):\n%s", diff)
	}
	if f.s.HistoryCursor() != (histutil.Live{}) {
		t.Errorf("history cursor = %v, want Live", f.s.HistoryCursor())
	}
}

func TestHandle_TypeOneRuneAtATime(t *testing.T) {
	f := setup(t)
	f.feed("e", "c", "h", "o", " ", "'a", " ", "b'")
	f.testState("echo 'a b'", 10)
	f.feed("\r")
	if diff := cmp.Diff([][]string{{"echo", "a b"}}, f.calls); diff != "" {
		t.Errorf("calls (-want +got):\n%s", diff)
	}
}

func TestHandle_CommandOutput(t *testing.T) {
	f := setup(t)
	f.d.Resolver = commander.ResolverFunc(func(_ context.Context, out io.Writer, argv []string) error {
		io.WriteString(out, "hi\n")
		return nil
	})
	f.feed("greet")
	f.testOutput("\r", "\r\nhi\r\n\r\n❯ ")
}

func TestHandle_EmptyCommit(t *testing.T) {
	f := setup(t)
	f.testOutput("\r", "\r\n❯ ")
	f.testHistory()

	// A blank line is recorded but has no command to run.
	f.feed("   ", "\r")
	f.testHistory("   ")
	if len(f.calls) != 0 {
		t.Errorf("resolver called with %v", f.calls)
	}
	if f.logs.Len() != 0 {
		t.Errorf("got logs %v", f.logs.All())
	}
}

func TestHandle_Interrupt(t *testing.T) {
	f := setup(t)
	f.feed("abc")
	f.testOutput("\x03", "\r\n❯ ")
	f.testState("", 0)
	f.testHistory()
	if len(f.calls) != 0 {
		t.Errorf("resolver called with %v", f.calls)
	}
}

func TestHandle_UpWithEmptyHistory(t *testing.T) {
	f := setup(t)
	f.testOutput("\033[A", "")
	f.testState("", 0)
	if f.s.HistoryCursor() != (histutil.Live{}) {
		t.Errorf("history cursor = %v, want Live", f.s.HistoryCursor())
	}
	f.testOutput("\033[B", "")
}

func TestHandle_HistoryNavigation(t *testing.T) {
	f := setup(t)
	f.feed("a", "\r", "b", "\r")

	steps := []struct {
		chunk  string
		output string
		line   string
		cursor histutil.Cursor
	}{
		{"\033[A", "b", "b", histutil.AtIndex{N: 1}},
		{"\033[A", "\b \ba", "a", histutil.AtIndex{N: 0}},
		// Stops at the oldest entry.
		{"\033[A", "", "a", histutil.AtIndex{N: 0}},
		{"\033[B", "\b \bb", "b", histutil.AtIndex{N: 1}},
		// Stops at the newest entry; never returns to a fresh line.
		{"\033[B", "", "b", histutil.AtIndex{N: 1}},
	}
	for _, step := range steps {
		f.testOutput(step.chunk, step.output)
		f.testState(step.line, len(step.line))
		if got := f.s.HistoryCursor(); got != step.cursor {
			t.Errorf("after %q, history cursor = %v, want %v", step.chunk, got, step.cursor)
		}
	}
}

func TestHandle_HistoryReplacesFromMiddle(t *testing.T) {
	f := setup(t)
	f.s.History().Add("xy")
	f.feed("abc", "\033[D", "\033[D")
	f.testOutput("\033[A", "\b   \b\b\bxy")
	f.testState("xy", 2)
}

func TestHandle_EditDetachesFromHistory(t *testing.T) {
	f := setup(t)
	f.feed("a", "\r", "\033[A")
	f.feed("b")
	f.testState("ab", 2)
	if f.s.HistoryCursor() != (histutil.Live{}) {
		t.Errorf("history cursor = %v, want Live", f.s.HistoryCursor())
	}
	f.testHistory("a")

	// Moving the cursor does not detach.
	f.feed("\033[A", "\033[D")
	if f.s.HistoryCursor() != (histutil.AtIndex{N: 0}) {
		t.Errorf("history cursor = %v, want AtIndex{0}", f.s.HistoryCursor())
	}
}

func TestHandle_Backspace(t *testing.T) {
	f := setup(t)
	f.feed("ab")
	f.testOutput("\033[D", "\033[D")
	f.testState("ab", 1)
	f.testOutput("\x7f", "\bb \b\b")
	f.testState("b", 0)
	// Nothing to delete.
	f.testOutput("\x7f", "")
	f.testState("b", 0)
	f.feed("\033[F")
	f.testOutput("\b", "\b \b")
	f.testState("", 0)
}

func TestHandle_InsertInMiddle(t *testing.T) {
	f := setup(t)
	f.feed("ac", "\033[D")
	f.testOutput("b", "bc\b")
	f.testState("abc", 2)
}

func TestHandle_ControlCharactersInText(t *testing.T) {
	f := setup(t)
	f.testOutput("\t", " ")
	f.testOutput("a\x01\x1bb", "ab")
	f.testOutput("\033[5~", "[5~")
	f.testOutput("\x00", "")
	f.testState(" ab[5~", 6)
}

func TestHandle_SelectAfterTab(t *testing.T) {
	f := setup(t)
	f.feed("a", "\t", "b", "\033[1;2D")
	f.testState("a b", 2)
}

func TestHandle_MoveAtBoundaries(t *testing.T) {
	f := setup(t)
	f.feed("a")
	f.testOutput("\033[C", "")
	f.testState("a", 1)
	f.testOutput("\033[D", "\033[D")
	f.testOutput("\033[D", "")
	f.testState("a", 0)
	f.testOutput("\033[C", "\033[C")
	f.testState("a", 1)
}

func TestHandle_HomeEnd(t *testing.T) {
	f := setup(t)
	f.feed("abc")
	f.testOutput("\033[H", "\b\b\b")
	f.testState("abc", 0)
	f.testOutput("\033[H", "")
	f.testOutput("\033[F", "\033[C\033[C\033[C")
	f.testState("abc", 3)
	f.feed("\033[D")
	f.testOutput("\033[1~", "\b\b")
	f.testState("abc", 0)
}

func TestHandle_RepeatedMoves(t *testing.T) {
	f := setup(t)
	f.feed("abc")
	f.testOutput("\033[D\033[D", "\033[D\033[D")
	f.testState("abc", 1)

	// Overshooting into the prompt is corrected.
	f.testOutput(strings.Repeat("\033[D", 5), strings.Repeat("\033[D", 5)+"\033[C\033[C")
	f.testState("abc", 0)

	f.feed("\033[F")
	// Overshooting past the end is corrected.
	f.testOutput("\033[C\033[C", "\033[C\033[C\b\b")
	f.testState("abc", 3)
}

func TestHandle_Select(t *testing.T) {
	f := setup(t)
	f.feed("abc")
	f.testOutput("\033[1;2D", "\033[D")
	f.testState("abc", 2)
	f.testOutput("\033[1;2C", "\033[C")
	f.testState("abc", 3)
	f.testOutput("\033[1;2C", "\033[C\b")
	f.testState("abc", 3)

	f.feed("\033[H")
	f.testOutput("\033[1;2D", "\033[D\033[C")
	f.testState("abc", 0)
}

func TestHandle_WideRunes(t *testing.T) {
	f := setup(t)
	f.testOutput("世界", "世界")
	f.testState("世界", 2)
	f.testOutput("\033[D", "\033[D\033[D")
	f.testState("世界", 1)
	f.testOutput("\x7f", "\b\b界  \b\b\b\b")
	f.testState("界", 0)
	f.testOutput("\033[F", "\033[C\033[C")
}

func TestHandle_CommandNotFound(t *testing.T) {
	f := setup(t)
	f.err = commander.ErrCommandNotFound
	f.feed("foo bar", "\r")

	entries := f.logs.FilterMessage("command not found").All()
	if len(entries) != 1 {
		t.Fatalf("got %d not-found logs, want 1", len(entries))
	}
	if entries[0].Level != zapcore.WarnLevel {
		t.Errorf("got level %v, want warn", entries[0].Level)
	}
	if got := entries[0].ContextMap()["command"]; got != "foo bar" {
		t.Errorf("got command %v, want foo bar", got)
	}
	if f.logs.FilterMessage("running command").Len() != 1 {
		t.Errorf("no trace of the command")
	}
	f.testState("", 0)
	f.testHistory("foo bar")
}

func TestHandle_CommandFailed(t *testing.T) {
	f := setup(t)
	f.err = &commander.CommandError{Argv: []string{"boom"}, Err: errors.New("bad")}
	f.feed("boom", "\r")

	entries := f.logs.FilterLevelExact(zapcore.ErrorLevel).All()
	if len(entries) != 1 {
		t.Fatalf("got %d error logs, want 1", len(entries))
	}
	if entries[0].Message != "command failed" {
		t.Errorf("got message %q", entries[0].Message)
	}
	if _, ok := entries[0].ContextMap()["error"]; !ok {
		t.Errorf("error not logged")
	}
	if f.logs.FilterLevelExact(zapcore.WarnLevel).Len() != 0 {
		t.Errorf("failure logged as warning")
	}
}

func TestHandle_NoResolver(t *testing.T) {
	f := setup(t)
	f.d.Resolver = nil
	f.feed("x", "\r")
	if f.logs.FilterMessage("command not found").Len() != 1 {
		t.Errorf("command without resolver not reported as not found")
	}
}

var randomChunks = []string{
	"a", "xy", "世", "\x7f", "\033[D", "\033[C", "\033[H", "\033[F", "\033[A",
	"\033[B", "\033[D\033[D", "\033[C\033[C\033[C", "\033[1;2D", "\033[1;2C",
	"\r", "\x03", "\t", "\033[5~", "a\x01b",
}

// The terminal cursor always stays where the session thinks the cursor is.
func TestHandle_CursorStaysInSync(t *testing.T) {
	f := setup(t)
	screen := f.d.Surface.(*term.Screen)
	rnd := rand.New(rand.NewSource(1))
	var fed []string
	for i := 0; i < 2000; i++ {
		chunk := randomChunks[rnd.Intn(len(randomChunks))]
		fed = append(fed, chunk)
		f.feed(chunk)
		line := []rune(f.s.Line())
		cursor := f.s.Cursor()
		if cursor < 0 || cursor > len(line) {
			t.Fatalf("after %q: cursor %d out of range", fed, cursor)
		}
		want := f.s.PromptWidth() + width(line[:cursor])
		if col := screen.Cursor().Col; col != want {
			t.Fatalf("after %q: terminal column %d, want %d", fed, col, want)
		}
	}
}

func TestCheckInvariants(t *testing.T) {
	s := NewSession("", nil)
	s.buf.line = []rune("ab")
	s.buf.cursor = 3
	defer func() {
		if _, ok := recover().(invariantError); !ok {
			t.Errorf("checkInvariants did not panic with invariantError")
		}
	}()
	s.checkInvariants()
}

func TestNewSession(t *testing.T) {
	s := NewSession("$ ", histutil.NewStore("a"))
	if s.Prompt() != "$ " || s.PromptWidth() != 2 {
		t.Errorf("got prompt %q of width %d", s.Prompt(), s.PromptWidth())
	}
	if s.History().Len() != 1 {
		t.Errorf("history not kept")
	}
	if s := NewSession("", nil); s.Prompt() != DefaultPrompt || s.History() == nil {
		t.Errorf("defaults not applied")
	}
}

type errSurface struct{}

var errWrite = errors.New("write error")

func (errSurface) Write(string) error { return errWrite }
func (errSurface) Cursor() term.Pos   { return term.Pos{} }

func TestHandle_WriteError(t *testing.T) {
	d := &Dispatcher{Surface: errSurface{}}
	s := NewSession("", nil)
	if err := d.Handle(context.Background(), s, "a"); err != errWrite {
		t.Errorf("Handle -> %v, want %v", err, errWrite)
	}
	if err := d.Handle(context.Background(), s, "\r"); err != errWrite {
		t.Errorf("Handle -> %v, want %v", err, errWrite)
	}
}
