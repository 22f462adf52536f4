// Package prog provides the entry point to commander. Its programs correspond
// to the modes commander can run in: on its own terminal, or serving browser
// terminals over websockets.
package prog

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/elves/commander/pkg/config"
)

// Flags keeps command-line flags.
type Flags struct {
	Config, Prompt, Log, Listen string

	Help bool
}

func newFlagSet(f *Flags) *flag.FlagSet {
	fs := flag.NewFlagSet("commander", flag.ContinueOnError)
	// Error and usage will be printed explicitly.
	fs.SetOutput(io.Discard)

	fs.StringVar(&f.Config, "config", "", "path to a YAML configuration file")
	fs.StringVar(&f.Prompt, "prompt", "", "the prompt shown before the input line")
	fs.StringVar(&f.Log, "log", "", "a file to write the log to")
	fs.StringVar(&f.Listen, "listen", "", "serve browser terminals on this address instead of using the terminal")

	fs.BoolVar(&f.Help, "help", false, "show usage help and quit")

	return fs
}

func usage(out io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(out, "Usage: commander [flags]")
	fmt.Fprintln(out, "Supported flags:")
	fs.SetOutput(out)
	fs.PrintDefaults()
}

// Run parses command-line flags, loads the configuration and runs the first
// applicable program. It returns the exit status of the program.
func Run(fds [3]*os.File, args []string, p Program) int {
	f := &Flags{}
	fs := newFlagSet(f)
	err := fs.Parse(args[1:])
	if err != nil {
		if err == flag.ErrHelp {
			// (*flag.FlagSet).Parse returns ErrHelp when -h or -help was
			// requested but *not* defined. We define -help, but not -h; so
			// this means that -h has been requested. Handle this by printing
			// the same message as an undefined flag.
			fmt.Fprintln(fds[2], "flag provided but not defined: -h")
		} else {
			fmt.Fprintln(fds[2], err)
		}
		usage(fds[2], fs)
		return 2
	}

	if f.Help {
		usage(fds[1], fs)
		return 0
	}

	cfg, err := loadConfig(f)
	if err != nil {
		fmt.Fprintln(fds[2], err)
		return 2
	}

	err = p.Run(fds, cfg, fs.Args())
	if err == nil {
		return 0
	}
	if msg := err.Error(); msg != "" {
		fmt.Fprintln(fds[2], msg)
	}
	switch err := err.(type) {
	case badUsageError:
		usage(fds[2], fs)
	case exitError:
		return err.exit
	}
	return 2
}

// loadConfig loads the configuration and applies flags on top of it.
func loadConfig(f *Flags) (*config.Config, error) {
	cfg, err := config.Load(f.Config)
	if err != nil {
		return nil, err
	}
	if f.Prompt != "" {
		cfg.Prompt = f.Prompt
	}
	if f.Log != "" {
		cfg.Log.File = f.Log
	}
	if f.Listen != "" {
		cfg.Server.Addr = f.Listen
	}
	return cfg, nil
}

// Composite returns a Program that tries each of the given programs,
// terminating at the first one that doesn't return ErrNotSuitable.
func Composite(programs ...Program) Program {
	return compositeProgram(programs)
}

type compositeProgram []Program

func (cp compositeProgram) Run(fds [3]*os.File, cfg *config.Config, args []string) error {
	for _, p := range cp {
		err := p.Run(fds, cfg, args)
		if err != ErrNotSuitable {
			return err
		}
	}
	// If we have reached here, all programs have returned ErrNotSuitable
	return ErrNotSuitable
}

// ErrNotSuitable is a special error that may be returned by Program.Run, to
// signify that this Program should not be run. It is useful when a Program is
// used in Composite.
var ErrNotSuitable = errors.New("internal error: no suitable program")

// BadUsage returns a special error that may be returned by Program.Run. It
// causes the main function to print out a message, the usage information and
// exit with 2.
func BadUsage(msg string) error { return badUsageError{msg} }

type badUsageError struct{ msg string }

func (e badUsageError) Error() string { return e.msg }

// Exit returns a special error that may be returned by Program.Run. It causes
// the main function to exit with the given code without printing any error
// messages. Exit(0) returns nil.
func Exit(exit int) error {
	if exit == 0 {
		return nil
	}
	return exitError{exit}
}

type exitError struct{ exit int }

func (e exitError) Error() string { return "" }

// Program represents a program.
type Program interface {
	// Run runs the program.
	Run(fds [3]*os.File, cfg *config.Config, args []string) error
}
