// Package cli implements the line editor: a single editable line after a
// prompt, with history and command dispatch on commit.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/elves/commander/pkg/cli/histutil"
	"github.com/elves/commander/pkg/cli/term"
	"github.com/elves/commander/pkg/commander"
	"github.com/elves/commander/pkg/logutil"
)

// App is a line editor attached to one terminal.
type App interface {
	// Session returns the editing state. It must not be mutated while Run is
	// running.
	Session() *Session
	// Run writes the first prompt and handles input until the input reaches
	// EOF, the reader is stopped or ctx is done. It returns nil in all these
	// cases; a non-nil error means reading from the input or writing to the
	// surface failed.
	Run(ctx context.Context) error
}

// AppSpec specifies the configuration and initial state of an App.
type AppSpec struct {
	Input    term.ChunkReader
	Surface  term.Surface
	Resolver commander.Resolver
	Logger   *zap.Logger

	// Defaults to DefaultPrompt.
	Prompt string
	// Shared with the caller, who may populate it or inspect it after Run.
	// Defaults to a new empty Store.
	History *histutil.Store
	// If not nil, called when Run starts; the returned function is called
	// when Run returns. Typically used to put the terminal in raw mode.
	Setup func() (restore func() error, err error)
}

type app struct {
	input   term.ChunkReader
	setup   func() (func() error, error)
	logger  *zap.Logger
	session *Session
	d       *Dispatcher
}

// NewApp creates a new App from the given specification.
func NewApp(spec AppSpec) App {
	logger := spec.Logger
	if logger == nil {
		logger = logutil.Discard
	}
	return &app{
		input:   spec.Input,
		setup:   spec.Setup,
		logger:  logger,
		session: NewSession(spec.Prompt, spec.History),
		d: &Dispatcher{
			Surface:  spec.Surface,
			Resolver: spec.Resolver,
			Logger:   logger,
		},
	}
}

func (a *app) Session() *Session { return a.session }

func (a *app) Run(ctx context.Context) (err error) {
	if a.setup != nil {
		restore, err := a.setup()
		if err != nil {
			return fmt.Errorf("set up terminal: %w", err)
		}
		defer func() {
			if restoreErr := restore(); restoreErr != nil && err == nil {
				err = fmt.Errorf("restore terminal: %w", restoreErr)
			}
		}()
	}

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer wg.Wait()
	defer cancel()
	// Unblock ReadChunk when ctx is done.
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()
		if err := a.input.Stop(); err != nil {
			a.logger.Debug("stop input", zap.Error(err))
		}
	}()

	if err := a.d.Prompt(a.session); err != nil {
		return fmt.Errorf("write prompt: %w", err)
	}
	for {
		chunk, err := a.input.ReadChunk()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, term.ErrStopped) {
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}
		if err := a.d.Handle(ctx, a.session, chunk); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}
