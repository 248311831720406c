package ws

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeTimeout = 10 * time.Second

var errSinkClosed = errors.New("ws: sink closed")

// connSink adapts a websocket connection to the session output port.
// gorilla/websocket allows one concurrent writer, so every write goes
// through the mutex; once a write fails the sink stays closed and later
// sends are dropped without touching the connection.
type connSink struct {
	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool
}

func newConnSink(conn *websocket.Conn) *connSink {
	return &connSink{conn: conn}
}

func (s *connSink) Send(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errSinkClosed
	}
	s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		s.closed = true
		return err
	}
	return nil
}

// Close marks the sink dead and closes the underlying connection.
func (s *connSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.conn.Close()
}
