// Package histutil provides the command history of an editing session.
package histutil

import (
	"errors"
)

// ErrEndOfHistory is returned when navigating past either end of the history.
var ErrEndOfHistory = errors.New("end of history")

// Entry is a committed command line.
type Entry struct {
	// Position in the history, starting from 0.
	Seq  int
	Text string
}

// Store is an append-only list of entries kept in memory. The zero value is
// an empty Store ready to use.
type Store struct{ entries []Entry }

// NewStore returns a Store that contains the given texts.
func NewStore(texts ...string) *Store {
	s := &Store{}
	for _, text := range texts {
		s.Add(text)
	}
	return s
}

// Add appends an entry and returns it.
func (s *Store) Add(text string) Entry {
	e := Entry{Seq: len(s.entries), Text: text}
	s.entries = append(s.entries, e)
	return e
}

// Len returns the number of entries.
func (s *Store) Len() int {
	return len(s.entries)
}

// Get returns the entry at index i, or ErrEndOfHistory if i is out of range.
func (s *Store) Get(i int) (Entry, error) {
	if i < 0 || i >= len(s.entries) {
		return Entry{}, ErrEndOfHistory
	}
	return s.entries[i], nil
}

// All returns a copy of all entries, oldest first.
func (s *Store) All() []Entry {
	return append([]Entry(nil), s.entries...)
}
