// Package logutil builds the loggers used by the editor and its transports.
package logutil

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config defines logger configuration.
type Config struct {
	// One of "debug", "info", "warn" and "error".
	Level       string
	Development bool
	// Paths understood by zap, such as "stderr" or a file name. If empty,
	// nothing is logged to files.
	OutputPaths []string
}

// Discard is a logger that ignores all logging.
var Discard = zap.NewNop()

// ParseLevel parses a level name. The empty string means info.
func ParseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info", "":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level: %q", s)
	}
}

// New creates a logger from cfg. Entries are also sent to all of the extra
// cores. Error entries carry a stack trace.
func New(cfg Config, extra ...zapcore.Core) (*zap.Logger, error) {
	cores := extra
	if len(cfg.OutputPaths) > 0 {
		level, err := ParseLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
		sink, _, err := zap.Open(cfg.OutputPaths...)
		if err != nil {
			return nil, err
		}
		cores = append(cores, zapcore.NewCore(
			fileEncoder(cfg.Development), sink, zap.NewAtomicLevelAt(level)))
	}
	if len(cores) == 0 {
		return Discard, nil
	}
	opts := []zap.Option{zap.AddStacktrace(zapcore.ErrorLevel)}
	if cfg.Development {
		opts = append(opts, zap.Development(), zap.AddCaller())
	}
	return zap.New(zapcore.NewTee(cores...), opts...), nil
}

func fileEncoder(development bool) zapcore.Encoder {
	if development {
		return zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	}
	return zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
}

// Terminal returns a core that writes human-readable entries to a terminal in
// raw mode, one entry per Write call:
//
//	[2006-01-02 03:04:05] WARN commander command not found {"line": "foo"}
//
// Level names are colored and lines end with CRLF.
func Terminal(w io.Writer, level zapcore.LevelEnabler) zapcore.Core {
	enc := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		NameKey:          "logger",
		MessageKey:       "msg",
		StacktraceKey:    "stacktrace",
		LineEnding:       "\r\n",
		EncodeLevel:      zapcore.CapitalColorLevelEncoder,
		EncodeTime:       zapcore.TimeEncoderOfLayout("[2006-01-02 03:04:05]"),
		EncodeDuration:   zapcore.StringDurationEncoder,
		EncodeName:       zapcore.FullNameEncoder,
		ConsoleSeparator: " ",
	})
	return zapcore.NewCore(enc, zapcore.AddSync(w), level)
}
