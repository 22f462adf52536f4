package term

import "github.com/elves/commander/pkg/ui"

// Event represents one chunk of terminal input after classification.
type Event interface{ isEvent() }

// KeyEvent is a chunk that consists of exactly one recognized key sequence.
type KeyEvent ui.Key

// K constructs a new KeyEvent.
func K(r rune, mods ...ui.Mod) KeyEvent {
	return KeyEvent(ui.K(r, mods...))
}

// TextEvent is a chunk that is to be taken literally, typically typed or
// pasted text. Unrecognized sequences are also reported as TextEvent.
type TextEvent string

// RepeatEvent is a chunk that consists of the same arrow key sequence repeated
// two or more times. Terminals that support native multi-cell navigation, such
// as click-to-move, emit such chunks.
type RepeatEvent struct {
	// The raw chunk.
	Seq string
}

func (KeyEvent) isEvent()    {}
func (TextEvent) isEvent()   {}
func (RepeatEvent) isEvent() {}
