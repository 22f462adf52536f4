package commander

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/elves/commander/pkg/cli/histutil"
)

// BuiltinsSpec specifies the environment of the builtin commands.
type BuiltinsSpec struct {
	// History of the session. If nil, the history command is not registered.
	History *histutil.Store
	// Called by the exit command with the requested exit status, 0 if none
	// was given. If nil, the exit command is not registered.
	Exit func(status int)
}

var errTooManyArgs = errors.New("too many arguments")

// RegisterBuiltins registers the builtin commands in r: help, echo, clear,
// and optionally history and exit.
func RegisterBuiltins(r *Registry, spec BuiltinsSpec) {
	r.Register(&Command{
		Name:  "help",
		Usage: "show available commands",
		Run: func(_ context.Context, call *Call) error {
			r.WriteHelp(call.Out)
			return nil
		},
	})
	r.Register(&Command{
		Name:  "echo",
		Usage: "write arguments to the output",
		Run: func(_ context.Context, call *Call) error {
			fs := call.Flags()
			noNewline := fs.Bool("n", false, "do not write a trailing newline")
			if err := fs.Parse(call.Args); err != nil {
				return err
			}
			s := strings.Join(fs.Args(), " ")
			if !*noNewline {
				s += "\n"
			}
			_, err := fmt.Fprint(call.Out, s)
			return err
		},
	})
	r.Register(&Command{
		Name:  "clear",
		Usage: "clear the screen",
		Run: func(_ context.Context, call *Call) error {
			if len(call.Args) > 0 {
				return errTooManyArgs
			}
			_, err := fmt.Fprint(call.Out,
				"\033[H",  // move cursor to the top left corner
				"\033[2J", // clear entire buffer
			)
			return err
		},
	})
	if spec.History != nil {
		r.Register(&Command{
			Name:  "history",
			Usage: "list command history",
			Run: func(_ context.Context, call *Call) error {
				if len(call.Args) > 0 {
					return errTooManyArgs
				}
				for _, e := range spec.History.All() {
					if _, err := fmt.Fprintf(call.Out, "%4d  %s\n", e.Seq, e.Text); err != nil {
						return err
					}
				}
				return nil
			},
		})
	}
	if spec.Exit != nil {
		r.Register(&Command{
			Name:  "exit",
			Usage: "end the session, optionally with an exit status",
			Run: func(_ context.Context, call *Call) error {
				status := 0
				switch len(call.Args) {
				case 0:
				case 1:
					var err error
					status, err = strconv.Atoi(call.Args[0])
					if err != nil {
						return fmt.Errorf("invalid exit status: %q", call.Args[0])
					}
				default:
					return errTooManyArgs
				}
				spec.Exit(status)
				return nil
			},
		})
	}
}
