// Package clitest provides utilities for testing cli.App.
package clitest

import (
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/elves/commander/pkg/cli/term"
)

const (
	// Maximum number of chunks FakeTTY produces.
	fakeTTYChunks = 4096
	// Maximum number of writes FakeTTY expects to see.
	fakeTTYWrites = 4096
)

// How long TestOutput waits for the wanted output.
var outputTimeout = time.Second

// FakeTTY is a terminal that implements both term.ChunkReader and
// term.Surface. Input is injected and output is inspected with a TTYCtrl.
type FakeTTY struct {
	setup func() (func() error, error)

	chunkCh chan string
	// Whether chunkCh has been closed.
	chunkChClosed bool
	// Mutex for synchronizing writing and closing chunkCh.
	chunkChMutex sync.Mutex
	stopCh       chan struct{}
	stopOnce     sync.Once

	// The cursor is tracked by a term.Screen writing to out.
	screen   *term.Screen
	out      strings.Builder
	outMutex sync.RWMutex
	// Channel for publishing the output after each write.
	outCh chan string
}

// NewFakeTTY creates a new FakeTTY and a handle for controlling it.
func NewFakeTTY() (*FakeTTY, TTYCtrl) {
	tty := &FakeTTY{
		chunkCh: make(chan string, fakeTTYChunks),
		stopCh:  make(chan struct{}),
		outCh:   make(chan string, fakeTTYWrites),
	}
	tty.screen = term.NewScreen(fakeOutput{tty})
	return tty, TTYCtrl{tty}
}

// Setup delegates to the setup function specified using the SetSetup method
// of TTYCtrl, or returns a nop function and a nil error.
func (t *FakeTTY) Setup() (func() error, error) {
	if t.setup == nil {
		return func() error { return nil }, nil
	}
	return t.setup()
}

// ReadChunk returns the next injected chunk. It returns io.EOF after
// CloseInput has been called and all injected chunks have been read.
func (t *FakeTTY) ReadChunk() (string, error) {
	select {
	case chunk, ok := <-t.chunkCh:
		if !ok {
			return "", io.EOF
		}
		return chunk, nil
	case <-t.stopCh:
		return "", term.ErrStopped
	}
}

// Stop makes all subsequent ReadChunk calls return term.ErrStopped.
func (t *FakeTTY) Stop() error {
	t.stopOnce.Do(func() { close(t.stopCh) })
	return nil
}

func (t *FakeTTY) Close() {}

func (t *FakeTTY) Write(s string) error { return t.screen.Write(s) }

func (t *FakeTTY) Cursor() term.Pos { return t.screen.Cursor() }

type fakeOutput struct{ t *FakeTTY }

func (o fakeOutput) Write(p []byte) (int, error) {
	o.t.outMutex.Lock()
	defer o.t.outMutex.Unlock()
	o.t.out.Write(p)
	select {
	case o.t.outCh <- o.t.out.String():
	default:
	}
	return len(p), nil
}

// TTYCtrl is an interface for controlling a fake terminal.
type TTYCtrl struct{ *FakeTTY }

// SetSetup sets the return values of the Setup method of the fake terminal.
func (t TTYCtrl) SetSetup(restore func() error, err error) {
	t.setup = func() (func() error, error) {
		return restore, err
	}
}

// Inject injects chunks of input.
func (t TTYCtrl) Inject(chunks ...string) {
	t.chunkChMutex.Lock()
	defer t.chunkChMutex.Unlock()
	if t.chunkChClosed {
		return
	}
	for _, chunk := range chunks {
		t.chunkCh <- chunk
	}
}

// CloseInput makes the fake terminal report EOF once all injected chunks are
// read.
func (t TTYCtrl) CloseInput() {
	t.chunkChMutex.Lock()
	defer t.chunkChMutex.Unlock()
	if !t.chunkChClosed {
		close(t.chunkCh)
		t.chunkChClosed = true
	}
}

// Output returns everything that has been written to the fake terminal.
func (t TTYCtrl) Output() string {
	t.outMutex.RLock()
	defer t.outMutex.RUnlock()
	return t.out.String()
}

// TestOutput verifies that the output ends with the given suffix within a
// timeout, and aborts the test if it doesn't.
func (t TTYCtrl) TestOutput(tt *testing.T, suffix string) {
	tt.Helper()
	if strings.HasSuffix(t.Output(), suffix) {
		return
	}
	timeout := time.After(outputTimeout)
	for {
		select {
		case out := <-t.outCh:
			if strings.HasSuffix(out, suffix) {
				return
			}
		case <-timeout:
			tt.Fatalf("wanted output suffix %q not shown, output is %q", suffix, t.Output())
		}
	}
}
