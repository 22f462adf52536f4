// Package progtest contains utilities for testing [prog.Program] instances.
package progtest

import (
	"io"
	"os"
	"testing"

	"github.com/elves/commander/pkg/prog"
)

// Run runs p with prog.Run, feeding it stdin, and returns what it wrote to
// stdout and stderr along with the exit status. The program name is prepended
// to args.
func Run(t *testing.T, p prog.Program, stdin string, args ...string) (stdout, stderr string, exit int) {
	t.Helper()
	r0, w0 := pipe(t)
	r1, w1 := pipe(t)
	r2, w2 := pipe(t)

	go func() {
		io.WriteString(w0, stdin)
		w0.Close()
	}()
	outCh := readAll(r1)
	errCh := readAll(r2)

	exit = prog.Run([3]*os.File{r0, w1, w2}, append([]string{"commander"}, args...), p)
	w1.Close()
	w2.Close()
	return <-outCh, <-errCh, exit
}

func pipe(t *testing.T) (*os.File, *os.File) {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		r.Close()
		w.Close()
	})
	return r, w
}

func readAll(r io.Reader) <-chan string {
	ch := make(chan string, 1)
	go func() {
		b, _ := io.ReadAll(r)
		ch <- string(b)
	}()
	return ch
}
