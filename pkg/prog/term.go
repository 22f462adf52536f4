package prog

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/elves/commander/pkg/cli"
	"github.com/elves/commander/pkg/cli/histutil"
	"github.com/elves/commander/pkg/cli/term"
	"github.com/elves/commander/pkg/commander"
	"github.com/elves/commander/pkg/config"
)

// TermProgram runs the editor on the terminal of the process. It is always
// suitable, so it should come last in a Composite.
//
// When stdin is not a terminal, input is taken line by line, so that a script
// can be piped in. The exit builtin ends the program with the status it is
// given.
type TermProgram struct {
	// Commands available in addition to the builtins.
	Commands []*commander.Command
}

func (p TermProgram) Run(fds [3]*os.File, cfg *config.Config, args []string) error {
	if len(args) > 0 {
		return BadUsage("arguments are not supported")
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	reader, err := term.NewChunkReader(fds[0])
	if err != nil {
		return err
	}
	defer reader.Close()
	var input term.ChunkReader = reader
	if !term.IsTTY(fds[0]) {
		input = term.SplitLines(reader)
	}

	screen := term.NewScreen(fds[1])
	logger, err := newLogger(cfg, screen)
	if err != nil {
		return err
	}
	defer logger.Sync()

	history := histutil.NewStore()
	reg := commander.NewRegistry(p.Commands...)
	status := 0
	commander.RegisterBuiltins(reg, commander.BuiltinsSpec{
		History: history,
		Exit: func(s int) {
			status = s
			cancel()
		},
	})

	app := cli.NewApp(cli.AppSpec{
		Input:    input,
		Surface:  screen,
		Resolver: reg,
		Logger:   logger.Named("commander"),
		Prompt:   cfg.Prompt,
		History:  history,
		Setup:    func() (func() error, error) { return term.Setup(fds[0]) },
	})
	if err := app.Run(ctx); err != nil {
		return err
	}
	// Leave the terminal on a fresh line.
	if err := screen.Write("\r\n"); err != nil {
		return err
	}
	return Exit(status)
}
