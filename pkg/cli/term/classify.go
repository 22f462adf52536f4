package term

import (
	"strings"
	"unicode/utf8"

	"github.com/elves/commander/pkg/ui"
)

// Sequences written to move the cursor by one cell.
const (
	CursorLeft  = "\033[D"
	CursorRight = "\033[C"
)

// Classify decodes one chunk of raw terminal input.
//
// A chunk that is exactly one control character or one escape sequence of a
// known key becomes a KeyEvent. A chunk that repeats the plain Left or Right
// sequence two or more times becomes a RepeatEvent. Everything else, including
// malformed escape sequences, becomes a TextEvent carrying the chunk
// unchanged; Classify never fails.
func Classify(chunk string) Event {
	if ev, ok := classifyRepeat(chunk); ok {
		return ev
	}
	if k, ok := decodeKey(chunk); ok {
		return KeyEvent(k)
	}
	return TextEvent(chunk)
}

func classifyRepeat(chunk string) (Event, bool) {
	for _, seq := range [...]string{CursorLeft, CursorRight} {
		n := strings.Count(chunk, seq)
		if n >= 2 && len(chunk) == n*len(seq) {
			return RepeatEvent{chunk}, true
		}
	}
	return nil, false
}

// Used by seqReader.next to signal end of the chunk.
const runeEndOfSeq rune = -1

type seqReader struct {
	s string
	i int
}

func (rd *seqReader) next() rune {
	if rd.i >= len(rd.s) {
		return runeEndOfSeq
	}
	r, size := utf8.DecodeRuneInString(rd.s[rd.i:])
	rd.i += size
	return r
}

func (rd *seqReader) done() bool { return rd.i >= len(rd.s) }

// decodeKey decodes a chunk that consists of a single key. It returns false if
// the chunk is a printable character, is not a valid key sequence, or has
// trailing data after the sequence.
func decodeKey(chunk string) (ui.Key, bool) {
	rd := &seqReader{s: chunk}
	r := rd.next()
	if r == runeEndOfSeq {
		return ui.Key{}, false
	}
	if r != 0x1b {
		if !rd.done() || !isControl(r) {
			return ui.Key{}, false
		}
		return ctrlModify(r), true
	}

	r2 := rd.next()
	// According to https://unix.stackexchange.com/a/73697, rxvt and derivatives
	// prepend another ESC to a CSI-style or G3-style sequence to signal Alt.
	hasTwoLeadingESC := false
	if r2 == 0x1b {
		hasTwoLeadingESC = true
		r2 = rd.next()
	}
	var k ui.Key
	switch r2 {
	case runeEndOfSeq:
		// Nothing follows. Taken as a lone Escape.
		k = ui.K('[', ui.Ctrl)
	case '[':
		// CSI style function key sequence.
		r = rd.next()
		if r == runeEndOfSeq {
			return ui.K('[', ui.Alt), true
		}
		var nums []int
	CSISeq:
		for {
			switch {
			case r == ';':
				nums = append(nums, 0)
			case '0' <= r && r <= '9':
				if len(nums) == 0 {
					nums = append(nums, 0)
				}
				cur := len(nums) - 1
				nums[cur] = nums[cur]*10 + int(r-'0')
			case r == runeEndOfSeq:
				// Incomplete CSI.
				return ui.Key{}, false
			default: // Treat as a terminator.
				break CSISeq
			}
			r = rd.next()
		}
		k = parseCSI(nums, r)
		if k == (ui.Key{}) {
			return ui.Key{}, false
		}
		if hasTwoLeadingESC {
			k.Mod |= ui.Alt
		}
	case 'O':
		// G3 style function key sequence: read one rune.
		r = rd.next()
		if r == runeEndOfSeq {
			// Nothing follows after 'O'. Taken as Alt-O.
			return ui.K('O', ui.Alt), true
		}
		var ok bool
		k, ok = g3Seq[r]
		if !ok {
			return ui.Key{}, false
		}
		if hasTwoLeadingESC {
			k.Mod |= ui.Alt
		}
	default:
		// Something other than '[' or 'O' follows. Taken as an Alt-modified
		// key, possibly also modified by Ctrl.
		k = ctrlModify(r2)
		k.Mod |= ui.Alt
	}
	if !rd.done() {
		return ui.Key{}, false
	}
	return k, true
}

func isControl(r rune) bool {
	return r < 0x20 || r == 0x7f
}

// Determines whether a rune corresponds to a Ctrl-modified key and returns the
// ui.Key the rune represents.
func ctrlModify(r rune) ui.Key {
	switch r {
	case 0x0:
		return ui.K('`', ui.Ctrl) // ^@
	case 0x1e:
		return ui.K('6', ui.Ctrl) // ^^
	case 0x1f:
		return ui.K('/', ui.Ctrl) // ^_
	case ui.Tab, ui.Enter, ui.Backspace: // ^I ^M ^?
		// Ambiguous Ctrl keys; prefer the non-Ctrl form as they are more likely.
		return ui.K(r)
	default:
		if 0x1 <= r && r <= 0x1d {
			return ui.K(r+0x40, ui.Ctrl)
		}
	}
	return ui.K(r)
}

// G3-style key sequences: \eO followed by exactly one character. For instance,
// \eOP is F1. Terminals in application cursor mode send arrow keys this way.
var g3Seq = map[rune]ui.Key{
	'A': ui.K(ui.Up), 'B': ui.K(ui.Down), 'C': ui.K(ui.Right), 'D': ui.K(ui.Left),
	'H': ui.K(ui.Home), 'F': ui.K(ui.End),
	// urxvt
	'a': ui.K(ui.Up, ui.Ctrl), 'b': ui.K(ui.Down, ui.Ctrl),
	'c': ui.K(ui.Right, ui.Ctrl), 'd': ui.K(ui.Left, ui.Ctrl),
	'P': ui.K(ui.F1), 'Q': ui.K(ui.F2), 'R': ui.K(ui.F3), 'S': ui.K(ui.F4),
}

// CSI-style key sequences identified by the last rune. For instance, \e[A is
// Up. When modified, two numerical arguments are added, the first always being
// 1 and the second identifying the modifier. For instance, \e[1;5A is Ctrl-Up.
var csiSeqByLast = map[rune]ui.Key{
	// xterm, urxvt, tmux
	'A': ui.K(ui.Up), 'B': ui.K(ui.Down), 'C': ui.K(ui.Right), 'D': ui.K(ui.Left),
	// urxvt
	'a': ui.K(ui.Up, ui.Shift), 'b': ui.K(ui.Down, ui.Shift),
	'c': ui.K(ui.Right, ui.Shift), 'd': ui.K(ui.Left, ui.Shift),
	// xterm
	'H': ui.K(ui.Home), 'F': ui.K(ui.End),
	// xterm, urxvt, tmux
	'Z': ui.K(ui.Tab, ui.Shift),
}

// CSI-style key sequences ending with '~' with one or two numerical arguments.
// The first argument identifies the key, and the optional second argument
// identifies the modifier. For instance, \e[3~ is Delete, and \e[3;5~ is
// Ctrl-Delete.
var csiSeqTilde = map[int]rune{
	// tmux
	1: ui.Home, 4: ui.End,
	2: ui.Insert, 3: ui.Delete,
	5: ui.PageUp, 6: ui.PageDown,
	// urxvt
	7: ui.Home, 8: ui.End,
	// urxvt
	11: ui.F1, 12: ui.F2, 13: ui.F3, 14: ui.F4,
	// NOTE: 16 and 22 are unused
	15: ui.F5, 17: ui.F6, 18: ui.F7, 19: ui.F8,
	20: ui.F9, 21: ui.F10, 23: ui.F11, 24: ui.F12,
}

// parseCSI parses a CSI-style key sequence. It returns the zero Key if the
// sequence is not recognized.
func parseCSI(nums []int, last rune) ui.Key {
	if k, ok := csiSeqByLast[last]; ok {
		if len(nums) == 0 {
			// Unmodified: \e[A (Up)
			return k
		} else if len(nums) == 2 && nums[0] == 1 {
			// Modified: \e[1;5A (Ctrl-Up)
			return xtermModify(k, nums[1])
		}
		return ui.Key{}
	}

	switch last {
	case '~':
		if len(nums) == 1 || len(nums) == 2 {
			if r, ok := csiSeqTilde[nums[0]]; ok {
				k := ui.K(r)
				if len(nums) == 1 {
					return k
				}
				return xtermModify(k, nums[1])
			}
		}
	case '$', '^', '@':
		// urxvt encodes the modifier in the last rune.
		if len(nums) == 1 {
			if r, ok := csiSeqTilde[nums[0]]; ok {
				var mod ui.Mod
				switch last {
				case '$':
					mod = ui.Shift
				case '^':
					mod = ui.Ctrl
				case '@':
					mod = ui.Shift | ui.Ctrl
				}
				return ui.K(r, mod)
			}
		}
	}
	return ui.Key{}
}

func xtermModify(k ui.Key, mod int) ui.Key {
	if mod < 0 || mod > 16 {
		// Out of range
		return ui.Key{}
	}
	if mod == 0 {
		return k
	}
	modFlags := mod - 1
	if modFlags&0x1 != 0 {
		k.Mod |= ui.Shift
	}
	if modFlags&0x2 != 0 {
		k.Mod |= ui.Alt
	}
	if modFlags&0x4 != 0 {
		k.Mod |= ui.Ctrl
	}
	if modFlags&0x8 != 0 {
		// This should be Meta, but we conflate Meta and Alt.
		k.Mod |= ui.Alt
	}
	return k
}
