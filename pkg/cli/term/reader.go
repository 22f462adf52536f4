package term

import (
	"errors"
	"os"
	"unicode/utf8"
)

// ChunkReader reads raw input from a terminal in chunks, each typically
// holding one keystroke or one paste.
type ChunkReader interface {
	// ReadChunk blocks until input is available and returns it. Chunks never
	// end in the middle of a UTF-8 encoded rune.
	ReadChunk() (string, error)
	// Stop aborts any outstanding ReadChunk call, which returns ErrStopped.
	// It blocks until that call returns.
	Stop() error
	// Close releases resources associated with the ChunkReader. It does not
	// close the underlying file.
	Close()
}

// ErrStopped is returned by ChunkReader when Stop is called during a
// ReadChunk call.
var ErrStopped = errors.New("stopped")

// Maximum size of a chunk.
const chunkSize = 4096

// NewChunkReader creates a new ChunkReader on the given terminal file.
func NewChunkReader(f *os.File) (ChunkReader, error) {
	return newChunkReader(f)
}

// completePrefix returns the length of the longest prefix of p that does not
// end in an incomplete UTF-8 sequence.
func completePrefix(p []byte) int {
	for i := len(p) - 1; i >= 0 && i >= len(p)-utf8.UTFMax; i-- {
		if utf8.RuneStart(p[i]) {
			if utf8.FullRune(p[i:]) {
				return len(p)
			}
			return i
		}
	}
	return len(p)
}
