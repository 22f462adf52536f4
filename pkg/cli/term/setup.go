package term

import (
	"os"

	"github.com/mattn/go-isatty"
	systerm "golang.org/x/term"
)

// IsTTY determines whether the given file is a terminal.
func IsTTY(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Setup puts the terminal into raw mode, so that every keystroke is delivered
// as soon as it is typed and the editor is responsible for echoing. It returns
// a function that restores the original state.
//
// If in is not a terminal, Setup does nothing; input is then read as it
// arrives, which is useful for scripted input.
func Setup(in *os.File) (func() error, error) {
	if !IsTTY(in) {
		return func() error { return nil }, nil
	}
	fd := int(in.Fd())
	state, err := systerm.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	return func() error { return systerm.Restore(fd, state) }, nil
}
