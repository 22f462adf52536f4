package server

import (
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/elves/commander/pkg/cli/term"
)

// Time allowed to write a message to the peer.
const writeWait = 10 * time.Second

// wsTerminal is a browser terminal on the other end of a websocket. Every
// message from the peer is one chunk of input, and every write is sent as one
// text message.
type wsTerminal struct {
	conn *websocket.Conn

	writeMutex sync.Mutex
	// Held while ReadChunk runs, so that Stop can wait for it to return.
	readMutex sync.Mutex
	stopped   atomic.Bool
}

func newWSTerminal(conn *websocket.Conn) *wsTerminal {
	return &wsTerminal{conn: conn}
}

func (t *wsTerminal) ReadChunk() (string, error) {
	t.readMutex.Lock()
	defer t.readMutex.Unlock()
	for {
		if t.stopped.Load() {
			return "", term.ErrStopped
		}
		_, p, err := t.conn.ReadMessage()
		if err != nil {
			if t.stopped.Load() {
				return "", term.ErrStopped
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure,
				websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				return "", io.EOF
			}
			return "", err
		}
		if len(p) > 0 {
			return string(p), nil
		}
	}
}

// Stop aborts a pending ReadChunk by expiring the read deadline. The
// connection can no longer be read from afterwards.
func (t *wsTerminal) Stop() error {
	t.stopped.Store(true)
	err := t.conn.SetReadDeadline(time.Now())
	//lint:ignore SA2001 We only lock the mutex to make sure that ReadChunk has
	//exited, so we unlock it immediately.
	t.readMutex.Lock()
	t.readMutex.Unlock()
	return err
}

func (t *wsTerminal) Close() {}

func (t *wsTerminal) Write(p []byte) (int, error) {
	t.writeMutex.Lock()
	defer t.writeMutex.Unlock()
	if err := t.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return 0, err
	}
	if err := t.conn.WriteMessage(websocket.TextMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// close says goodbye to the peer. Errors are ignored since the peer may be
// gone already.
func (t *wsTerminal) close(code int, text string) {
	t.writeMutex.Lock()
	defer t.writeMutex.Unlock()
	msg := websocket.FormatCloseMessage(code, text)
	_ = t.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}
