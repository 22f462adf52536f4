package prog

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/elves/commander/pkg/cli/term"
	"github.com/elves/commander/pkg/config"
	"github.com/elves/commander/pkg/logutil"
)

// newLogger builds the logger of the terminal program. Entries go to the log
// file if one is configured, and to the terminal unless disabled.
func newLogger(cfg *config.Config, s term.Surface) (*zap.Logger, error) {
	var extra []zapcore.Core
	if cfg.Log.Terminal {
		level, err := logutil.ParseLevel(cfg.Log.Level)
		if err != nil {
			return nil, err
		}
		extra = append(extra, logutil.Terminal(term.NewEntryWriter(s), level))
	}
	return logutil.New(cfg.Logger(), extra...)
}
