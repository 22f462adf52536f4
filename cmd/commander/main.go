// Commander is an interactive command console. It edits one line at a time
// after a prompt, keeps a history of committed lines, and runs each committed
// line as a command. It runs either on its own terminal or, with -listen, as a
// server for browser terminals.
package main

import (
	"os"

	"github.com/elves/commander/pkg/prog"
)

func main() {
	os.Exit(prog.Run(
		[3]*os.File{os.Stdin, os.Stdout, os.Stderr}, os.Args,
		prog.Composite(prog.ServeProgram{}, prog.TermProgram{})))
}
