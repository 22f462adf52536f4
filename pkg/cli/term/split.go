package term

import "strings"

// SplitLines wraps r so that every "\r" and "\n" is returned as a chunk of
// its own. Input that is not typed, such as a script piped to stdin, arrives
// in large chunks that would otherwise be taken as one paste.
func SplitLines(r ChunkReader) ChunkReader {
	return &lineSplitter{ChunkReader: r}
}

type lineSplitter struct {
	ChunkReader
	pending string
}

func (s *lineSplitter) ReadChunk() (string, error) {
	if s.pending == "" {
		chunk, err := s.ChunkReader.ReadChunk()
		if err != nil {
			return "", err
		}
		s.pending = chunk
	}
	var chunk string
	switch i := strings.IndexAny(s.pending, "\r\n"); {
	case i < 0:
		chunk, s.pending = s.pending, ""
	case i == 0:
		chunk, s.pending = s.pending[:1], s.pending[1:]
	default:
		chunk, s.pending = s.pending[:i], s.pending[i:]
	}
	return chunk, nil
}
