package term

import (
	"strings"
)

// LineWriter adapts a Surface to io.Writer for text output that is not part
// of the edited line, such as command output and log entries. It translates
// "\n" to "\r\n", since the terminal is in raw mode, and makes sure that the
// output starts at the beginning of a line.
type LineWriter struct {
	s Surface
	// If true, check for the start of a line on every Write, not just the
	// first.
	eachWrite bool
	started   bool
}

// NewLineWriter returns a LineWriter that starts a new line before its first
// write if the cursor is not at column 0.
func NewLineWriter(s Surface) *LineWriter {
	return &LineWriter{s: s}
}

// NewEntryWriter is like NewLineWriter, but starts a new line before every
// write that does not begin at column 0. It suits writers like loggers that
// write one complete entry per call.
func NewEntryWriter(s Surface) *LineWriter {
	return &LineWriter{s: s, eachWrite: true}
}

func (w *LineWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	text := crlf(string(p))
	if (!w.started || w.eachWrite) && w.s.Cursor().Col > 0 {
		text = "\r\n" + text
	}
	w.started = true
	if err := w.s.Write(text); err != nil {
		return 0, err
	}
	return len(p), nil
}

func crlf(s string) string {
	if !strings.Contains(s, "\n") {
		return s
	}
	return strings.ReplaceAll(strings.ReplaceAll(s, "\r\n", "\n"), "\n", "\r\n")
}
