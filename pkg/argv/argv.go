// Package argv splits a committed command line into an argument vector.
//
// The rules are a small subset of POSIX shell quoting. There are no escape
// characters and no expansions. At each position, the following alternatives
// are tried:
//
//   - A word starting with a character that is neither a space nor a quote. It
//     extends until the next unquoted space, and may contain quoted segments
//     such as a"b c"d; the quotes are removed and the segments are joined
//     (giving "ab cd"). A quote with no matching quote after it ends the
//     word, and starts a quoted string.
//   - A quoted string starting with ' or ". It ends at the next occurrence of
//     the same quote character, or at the end of input if there is none. The
//     quotes are removed. A quoted string that starts a token is a token on
//     its own: in ""abc, the empty string and abc are two tokens.
//
// Runs of whitespace separate tokens and are otherwise ignored. Split never
// fails.
package argv

import (
	"strings"
	"unicode"
)

// Split splits line into arguments. It returns nil if the line contains no
// tokens.
func Split(line string) []string {
	rs := []rune(line)
	var args []string
	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case isQuote(r):
			s, n, _ := quoted(rs[i:])
			args = append(args, s)
			i += n
		default:
			s, n := word(rs[i:])
			args = append(args, s)
			i += n
		}
	}
	return args
}

func isQuote(r rune) bool {
	return r == '\'' || r == '"'
}

// quoted scans the quoted segment at the start of rs. It returns the content
// between the quotes, the number of runes consumed including the quotes, and
// whether the closing quote was found.
func quoted(rs []rune) (string, int, bool) {
	q := rs[0]
	for j := 1; j < len(rs); j++ {
		if rs[j] == q {
			return string(rs[1:j]), j + 1, true
		}
	}
	return string(rs[1:]), len(rs), false
}

// word scans a word that starts with an unquoted character, absorbing any
// closed quoted segments adjacent to it. It stops before an unmatched quote.
func word(rs []rune) (string, int) {
	var sb strings.Builder
	i := 0
	for i < len(rs) && !unicode.IsSpace(rs[i]) {
		if isQuote(rs[i]) {
			s, n, closed := quoted(rs[i:])
			if !closed {
				break
			}
			sb.WriteString(s)
			i += n
		} else {
			sb.WriteRune(rs[i])
			i++
		}
	}
	return sb.String(), i
}
