//go:build unix

package term

import (
	"io"
	"os"
	"sync"

	"golang.org/x/sys/unix"
)

func newChunkReader(file *os.File) (ChunkReader, error) {
	rStop, wStop, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	return &fileChunkReader{file: file, rStop: rStop, wStop: wStop}, nil
}

type fileChunkReader struct {
	file  *os.File
	rStop *os.File
	wStop *os.File
	// A mutex that is held when ReadChunk is in process.
	mutex sync.Mutex
	// Bytes of an incomplete rune held back from the last chunk.
	pending []byte
	buf     [chunkSize]byte
}

func (r *fileChunkReader) ReadChunk() (string, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	for {
		ready, err := waitForRead(r.file, r.rStop)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return "", err
		}
		if ready[1] {
			var b [1]byte
			r.rStop.Read(b[:])
			return "", ErrStopped
		}
		if !ready[0] {
			continue
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
			if err == io.EOF && len(r.pending) > 0 {
				// Flush what is left of a truncated rune.
				s := string(r.pending)
				r.pending = nil
				return s, nil
			}
			return "", err
		}
		if n == 0 {
			return "", io.EOF
		}
	}
}

func (r *fileChunkReader) Stop() error {
	_, err := r.wStop.Write([]byte{'q'})
	r.mutex.Lock()
	//lint:ignore SA2001 We only lock the mutex to make sure that ReadChunk has
	//exited, so we unlock it immediately.
	r.mutex.Unlock()
	return err
}

func (r *fileChunkReader) Close() {
	r.rStop.Close()
	r.wStop.Close()
}

// waitForRead blocks until any of the given files is ready to be read. It
// returns a boolean array indicating which files are ready.
func waitForRead(files ...*os.File) ([]bool, error) {
	fds := make([]unix.PollFd, len(files))
	for i, file := range files {
		fds[i] = unix.PollFd{Fd: int32(file.Fd()), Events: unix.POLLIN}
	}
	if _, err := unix.Poll(fds, -1); err != nil {
		return nil, err
	}
	ready := make([]bool, len(files))
	for i := range fds {
		ready[i] = fds[i].Revents&(unix.POLLIN|unix.POLLHUP|unix.POLLERR) != 0
	}
	return ready, nil
}
