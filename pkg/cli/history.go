package cli

// recordIfNonEmpty appends a committed line to the history unless it is
// empty. Either way, the session stops browsing the history.
func (s *Session) recordIfNonEmpty(line string) {
	if line != "" {
		s.history.Add(line)
	}
	s.walker.Reset()
}

// prevHistory replaces the line with the previous history entry. When not
// browsing, the previous entry is the newest one. It does nothing when there
// is no previous entry.
func (s *Session) prevHistory(r *render) bool {
	e, err := s.walker.Prev()
	if err != nil {
		return false
	}
	s.buf.replaceWhole(r, e.Text)
	return true
}

// nextHistory replaces the line with the next history entry. It does nothing
// when not browsing or already at the newest entry; in particular it never
// brings back the line that was being edited before browsing started.
func (s *Session) nextHistory(r *render) bool {
	e, err := s.walker.Next()
	if err != nil {
		return false
	}
	s.buf.replaceWhole(r, e.Text)
	return true
}

// detach stops browsing the history, keeping whatever has been recalled as the
// line being edited. It is called after every edit.
func (s *Session) detach() { s.walker.Reset() }
