package commander

import (
	"context"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Command is a named command, possibly with subcommands.
type Command struct {
	Name string
	// One-line description shown by help.
	Usage string
	// Run runs the command. It may be nil if the command only groups
	// subcommands.
	Run         func(ctx context.Context, call *Call) error
	Subcommands []*Command
}

// Call carries the arguments and output of one command invocation.
type Call struct {
	Out io.Writer
	// Arguments after the command path.
	Args []string
	// Names of the command and its parents, outermost first.
	Path []string
}

// Flags returns a new FlagSet named after the command, which writes its
// messages to the call's output.
func (c *Call) Flags() *flag.FlagSet {
	fs := flag.NewFlagSet(strings.Join(c.Path, " "), flag.ContinueOnError)
	fs.SetOutput(c.Out)
	return fs
}

// Registry is a Resolver that looks commands up by name. Commands must be
// registered before the Registry is used.
type Registry struct {
	commands map[string]*Command
}

// NewRegistry returns a Registry with the given commands.
func NewRegistry(cmds ...*Command) *Registry {
	r := &Registry{map[string]*Command{}}
	for _, cmd := range cmds {
		r.Register(cmd)
	}
	return r
}

// Register adds a command, replacing any command with the same name.
func (r *Registry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
}

// Commands returns all top-level commands sorted by name.
func (r *Registry) Commands() []*Command {
	cmds := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		cmds = append(cmds, cmd)
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })
	return cmds
}

// Lookup resolves argv to a command. It returns the command, the length of
// the command path within argv, and whether a command was found.
func (r *Registry) Lookup(argv []string) (*Command, int, bool) {
	if len(argv) == 0 {
		return nil, 0, false
	}
	cmd, ok := r.commands[argv[0]]
	if !ok {
		return nil, 0, false
	}
	n := 1
	for n < len(argv) {
		sub := findSub(cmd, argv[n])
		if sub == nil {
			break
		}
		cmd = sub
		n++
	}
	if cmd.Run == nil {
		return nil, 0, false
	}
	return cmd, n, true
}

func findSub(cmd *Command, name string) *Command {
	for _, sub := range cmd.Subcommands {
		if sub.Name == name {
			return sub
		}
	}
	return nil
}

// Run implements Resolver. A panic in a command is recovered and reported as
// a failure of that command.
func (r *Registry) Run(ctx context.Context, out io.Writer, argv []string) (err error) {
	cmd, n, ok := r.Lookup(argv)
	if !ok {
		return fmt.Errorf("%w: %s", ErrCommandNotFound, strings.Join(argv, " "))
	}
	defer func() {
		if p := recover(); p != nil {
			err = &CommandError{argv, fmt.Errorf("panic: %v", p)}
		}
	}()
	call := &Call{Out: out, Args: argv[n:], Path: argv[:n]}
	if err := cmd.Run(ctx, call); err != nil {
		return &CommandError{argv, err}
	}
	return nil
}

// WriteHelp writes a summary of all commands to w.
func (r *Registry) WriteHelp(w io.Writer) {
	fmt.Fprintln(w, "Commands:")
	for _, cmd := range r.Commands() {
		writeHelp(w, cmd, "  ")
	}
}

func writeHelp(w io.Writer, cmd *Command, indent string) {
	fmt.Fprintf(w, "%s%-12s %s\n", indent, cmd.Name, cmd.Usage)
	for _, sub := range cmd.Subcommands {
		writeHelp(w, sub, indent+"  ")
	}
}
