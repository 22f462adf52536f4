//go:build !unix

package term

import (
	"io"
	"os"
	"sync"
)

// On platforms without poll(2), reads cannot be interrupted. Stop marks the
// reader as stopped and the next ReadChunk call returns ErrStopped.
func newChunkReader(file *os.File) (ChunkReader, error) {
	return &plainChunkReader{file: file}, nil
}

type plainChunkReader struct {
	file    *os.File
	mutex   sync.Mutex
	stopped bool
	pending []byte
	buf     [chunkSize]byte
}

func (r *plainChunkReader) ReadChunk() (string, error) {
	for {
		r.mutex.Lock()
		stopped := r.stopped
		r.stopped = false
		r.mutex.Unlock()
		if stopped {
			return "", ErrStopped
		}
		n, err := r.file.Read(r.buf[:])
		if n > 0 {
			data := append(r.pending, r.buf[:n]...)
			i := completePrefix(data)
			r.pending = append([]byte(nil), data[i:]...)
			if i > 0 {
				return string(data[:i]), nil
			}
		}
		if err != nil {
			return "", err
		}
		if n == 0 {
			return "", io.EOF
		}
	}
}

func (r *plainChunkReader) Stop() error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.stopped = true
	return nil
}

func (r *plainChunkReader) Close() {}
