// Package server serves editor sessions to browser terminals over
// websockets.
//
// Each websocket connection on /ws gets a session of its own, with its own
// history and commands. Messages from the browser are chunks of terminal
// input; the output is sent back as text messages. The server also serves
// Prometheus metrics on /metrics and a health check on /healthz.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/elves/commander/pkg/cli"
	"github.com/elves/commander/pkg/cli/histutil"
	"github.com/elves/commander/pkg/cli/term"
	"github.com/elves/commander/pkg/commander"
	"github.com/elves/commander/pkg/logutil"
)

// Options configures a Server.
type Options struct {
	// Prompt of every session. Defaults to cli.DefaultPrompt.
	Prompt string
	// Commands available in every session, in addition to the builtins.
	Commands []*commander.Command
	Logger   *zap.Logger
	// If not nil, log entries of a session at or above this level are also
	// shown in its terminal.
	TerminalLog zapcore.LevelEnabler
	// Defaults to a new set of metrics.
	Metrics     *Metrics
	Development bool
}

// Server hosts terminal sessions.
type Server struct {
	opts     Options
	logger   *zap.Logger
	metrics  *Metrics
	router   *gin.Engine
	upgrader websocket.Upgrader
}

// New creates a new Server.
func New(opts Options) *Server {
	s := &Server{
		opts:    opts,
		logger:  opts.Logger,
		metrics: opts.Metrics,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	if s.logger == nil {
		s.logger = logutil.Discard
	}
	if s.metrics == nil {
		s.metrics = NewMetrics()
	}

	if !opts.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	router.GET("/ws", s.serveTerminal)
	s.router = router
	return s
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler { return s.router }

// Metrics returns the metrics of the server.
func (s *Server) Metrics() *Metrics { return s.metrics }

// Serve accepts connections on l until ctx is done. Sessions end when ctx is
// done.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(l) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ListenAndServe listens on addr and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.logger.Info("listening", zap.String("addr", l.Addr().String()))
	return s.Serve(ctx, l)
}

func (s *Server) serveTerminal(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	s.metrics.SessionsTotal.Inc()
	s.metrics.SessionsActive.Inc()
	defer s.metrics.SessionsActive.Dec()

	t := newWSTerminal(conn)
	screen := term.NewScreen(t)
	sessionID := zap.String("session", uuid.NewString())
	logger := s.logger.With(sessionID)
	// Entries of the editor may also go to the terminal.
	appLogger := s.logger
	if s.opts.TerminalLog != nil {
		appLogger = zap.New(zapcore.NewTee(
			appLogger.Core(), logutil.Terminal(term.NewEntryWriter(screen), s.opts.TerminalLog)),
			zap.AddStacktrace(zapcore.ErrorLevel))
	}
	appLogger = appLogger.Named("commander").With(sessionID)

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()
	history := histutil.NewStore()
	reg := commander.NewRegistry(s.opts.Commands...)
	commander.RegisterBuiltins(reg, commander.BuiltinsSpec{History: history, Exit: func(int) { cancel() }})

	app := cli.NewApp(cli.AppSpec{
		Input:    t,
		Surface:  screen,
		Resolver: s.metrics.Instrument(reg),
		Logger:   appLogger,
		Prompt:   s.opts.Prompt,
		History:  history,
	})

	logger.Info("session started", zap.String("remote", c.Request.RemoteAddr))
	if err := app.Run(ctx); err != nil {
		logger.Warn("session ended with error", zap.Error(err))
	}
	t.close(websocket.CloseNormalClosure, "bye")
	logger.Info("session ended", zap.Int("commands", history.Len()))
}
