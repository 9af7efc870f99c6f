package wsmatch

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/earshot-audio/earshot/pkg/audio/pcm"
	"github.com/earshot-audio/earshot/pkg/recognize"
)

// matcher runs one recognition attempt at a time over a dedicated WebSocket
// connection. The session layer guarantees Start/Feed/Stop ordering; the
// matcher only has to survive Stop racing its own receive loop.
type matcher struct {
	client  *Client
	deliver func(recognize.Verdict)

	mu        sync.Mutex
	conn      *websocket.Conn
	attemptID string
}

func (m *matcher) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conn != nil {
		return errors.New("wsmatch: attempt already in progress")
	}

	conn, resp, err := m.client.dialer.Dial(m.client.endpoint, m.client.wsHeader())
	if err != nil {
		if resp != nil && resp.Body != nil {
			resp.Body.Close()
		}
		return fmt.Errorf("wsmatch: dial %s: %w", m.client.endpoint, err)
	}

	attemptID := uuid.NewString()
	if err := writeFrame(conn, &clientFrame{Type: frameStart, AttemptID: attemptID}); err != nil {
		conn.Close()
		return fmt.Errorf("wsmatch: send start: %w", err)
	}

	m.conn = conn
	m.attemptID = attemptID
	go m.receiveLoop(conn, attemptID)
	return nil
}

func (m *matcher) Feed(buf *pcm.Buffer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conn == nil {
		return errors.New("wsmatch: no attempt in progress")
	}

	// msgpack encoding copies the samples, so the borrowed buffer is not
	// retained past this call.
	frame := &clientFrame{
		Type:       frameAudio,
		AttemptID:  m.attemptID,
		SampleRate: buf.Format.SampleRate,
		Channels:   buf.Format.Channels,
		Samples:    buf.Samples,
	}
	if err := writeFrame(m.conn, frame); err != nil {
		return fmt.Errorf("wsmatch: send audio: %w", err)
	}
	return nil
}

func (m *matcher) Stop() {
	m.mu.Lock()
	conn := m.conn
	attemptID := m.attemptID
	m.conn = nil
	if conn != nil {
		// Best effort: tell the service the attempt is cancelled before
		// dropping the connection.
		_ = writeFrame(conn, &clientFrame{Type: frameStop, AttemptID: attemptID})
	}
	m.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
}

func (m *matcher) Close() error {
	m.Stop()
	return nil
}

// receiveLoop reads frames until the attempt's verdict arrives or the
// connection dies. Whichever of receiveLoop and Stop disowns the connection
// first wins; the loser stays silent, so at most one verdict is delivered
// per attempt.
func (m *matcher) receiveLoop(conn *websocket.Conn, attemptID string) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if m.disown(conn) {
				conn.Close()
				m.deliver(recognize.ErrorVerdict(fmt.Errorf("wsmatch: connection lost: %w", err)))
			}
			return
		}

		var f serverFrame
		if err := msgpack.Unmarshal(data, &f); err != nil {
			if m.disown(conn) {
				conn.Close()
				m.deliver(recognize.ErrorVerdict(fmt.Errorf("wsmatch: decode frame: %w", err)))
			}
			return
		}
		if f.Type != frameVerdict {
			continue
		}
		if f.AttemptID != "" && f.AttemptID != attemptID {
			continue
		}

		if !m.disown(conn) {
			return
		}
		conn.Close()
		m.deliver(verdictFrom(&f))
		return
	}
}

// disown detaches conn from the matcher. It returns false when Stop or an
// earlier frame already took ownership.
func (m *matcher) disown(conn *websocket.Conn) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conn != conn {
		return false
	}
	m.conn = nil
	return true
}

func verdictFrom(f *serverFrame) recognize.Verdict {
	switch f.Result {
	case resultMatch:
		if f.Track == nil {
			return recognize.ErrorVerdict(errors.New("wsmatch: match verdict without track"))
		}
		return recognize.MatchVerdict(f.Track.track())
	case resultNoMatch:
		return recognize.NoMatchVerdict()
	case resultError:
		msg := f.Message
		if msg == "" {
			msg = "recognition failed"
		}
		return recognize.ErrorVerdict(fmt.Errorf("wsmatch: %s", msg))
	}
	return recognize.ErrorVerdict(fmt.Errorf("wsmatch: unknown verdict result %q", f.Result))
}

func writeFrame(conn *websocket.Conn, frame *clientFrame) error {
	data, err := msgpack.Marshal(frame)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.BinaryMessage, data)
}
