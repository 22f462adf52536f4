// Package commander resolves argument vectors to commands and runs them.
//
// The editor hands every committed line to a Resolver as an argument vector.
// The result of running it falls into one of three outcomes, see Classify.
package commander

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Resolver runs commands given as argument vectors.
type Resolver interface {
	// Run resolves argv to a command and runs it, writing any output to out.
	// It returns an error wrapping ErrCommandNotFound if argv does not name a
	// command, and any other non-nil error if the command failed.
	Run(ctx context.Context, out io.Writer, argv []string) error
}

// ErrCommandNotFound is wrapped by errors from Resolver.Run when the argument
// vector does not resolve to any command.
var ErrCommandNotFound = errors.New("command not found")

// CommandError is returned by Registry.Run when a command fails.
type CommandError struct {
	Argv []string
	Err  error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %v", strings.Join(e.Argv, " "), e.Err)
}

func (e *CommandError) Unwrap() error { return e.Err }

// Outcome classifies the result of running a command.
type Outcome int

// Possible values of Outcome.
const (
	Succeeded Outcome = iota
	NotFound
	Failed
)

var outcomeNames = [...]string{"succeeded", "not_found", "failed"}

func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
	return outcomeNames[o]
}

// Classify returns the outcome corresponding to an error returned from
// Resolver.Run.
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return Succeeded
	case errors.Is(err, ErrCommandNotFound):
		return NotFound
	default:
		return Failed
	}
}

// ResolverFunc adapts a function to a Resolver.
type ResolverFunc func(ctx context.Context, out io.Writer, argv []string) error

// Run calls f.
func (f ResolverFunc) Run(ctx context.Context, out io.Writer, argv []string) error {
	return f(ctx, out, argv)
}
