package histutil

// Cursor is the position of a Walker. It is either Live or AtIndex.
type Cursor interface{ isCursor() }

// Live means that the editor shows a fresh line that is not in the history.
type Live struct{}

// AtIndex means that the editor shows the history entry with index N.
type AtIndex struct{ N int }

func (Live) isCursor()    {}
func (AtIndex) isCursor() {}

// Walker walks through the entries of a Store. Walking stops at either end
// of the history; it never wraps around, and Next never returns to Live.
type Walker struct {
	store  *Store
	cursor Cursor
}

// NewWalker returns a Walker on the given store, starting from Live.
func NewWalker(store *Store) *Walker {
	return &Walker{store, Live{}}
}

// Cursor returns the current position.
func (w *Walker) Cursor() Cursor {
	return w.cursor
}

// Reset moves the walker back to Live.
func (w *Walker) Reset() {
	w.cursor = Live{}
}

// Prev moves to the previous entry and returns it. From Live it moves to the
// newest entry. It returns ErrEndOfHistory without moving when at the oldest
// entry or when the history is empty.
func (w *Walker) Prev() (Entry, error) {
	var i int
	switch c := w.cursor.(type) {
	case Live:
		i = w.store.Len() - 1
	case AtIndex:
		i = c.N - 1
	}
	e, err := w.store.Get(i)
	if err != nil {
		return Entry{}, err
	}
	w.cursor = AtIndex{i}
	return e, nil
}

// Next moves to the next entry and returns it. It returns ErrEndOfHistory
// without moving when at Live or at the newest entry.
func (w *Walker) Next() (Entry, error) {
	c, ok := w.cursor.(AtIndex)
	if !ok {
		return Entry{}, ErrEndOfHistory
	}
	e, err := w.store.Get(c.N + 1)
	if err != nil {
		return Entry{}, err
	}
	w.cursor = AtIndex{c.N + 1}
	return e, nil
}
