package prog

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/elves/commander/pkg/commander"
	"github.com/elves/commander/pkg/config"
	"github.com/elves/commander/pkg/logutil"
	"github.com/elves/commander/pkg/server"
)

// ServeProgram serves browser terminals. It is suitable when a listen address
// is configured.
type ServeProgram struct {
	// Commands available in every session in addition to the builtins.
	Commands []*commander.Command
}

func (p ServeProgram) Run(fds [3]*os.File, cfg *config.Config, args []string) error {
	if cfg.Server.Addr == "" {
		return ErrNotSuitable
	}
	if len(args) > 0 {
		return BadUsage("arguments are not supported")
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logCfg := cfg.Logger()
	if len(logCfg.OutputPaths) == 0 {
		logCfg.OutputPaths = []string{"stderr"}
	}
	logger, err := logutil.New(logCfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	opts := server.Options{
		Prompt:      cfg.Prompt,
		Commands:    p.Commands,
		Logger:      logger,
		Development: cfg.Log.Development,
	}
	if cfg.Log.Terminal {
		level, err := logutil.ParseLevel(cfg.Log.Level)
		if err != nil {
			return err
		}
		opts.TerminalLog = level
	}
	err = server.New(opts).ListenAndServe(ctx, cfg.Server.Addr)
	if err != nil {
		logger.Error("server failed", zap.Error(err))
	}
	return err
}
