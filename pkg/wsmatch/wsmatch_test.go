package wsmatch

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/earshot-audio/earshot/pkg/audio/pcm"
	"github.com/earshot-audio/earshot/pkg/recognize"
)

var upgrader = websocket.Upgrader{}

// newTestService starts a WebSocket server whose connections are driven by
// handler.
func newTestService(t *testing.T, handler func(conn *websocket.Conn)) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()
		handler(conn)
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func readFrame(conn *websocket.Conn) (*clientFrame, error) {
	_, data, err := conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	var f clientFrame
	if err := msgpack.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func sendFrame(t *testing.T, conn *websocket.Conn, f *serverFrame) {
	t.Helper()
	data, err := msgpack.Marshal(f)
	if err != nil {
		t.Errorf("marshal server frame: %v", err)
		return
	}
	if err := conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
		t.Errorf("write server frame: %v", err)
	}
}

func testBuffer() *pcm.Buffer {
	return &pcm.Buffer{
		Samples: make([]float32, 4410),
		Format:  pcm.Mono44k1,
	}
}

func newSession(t *testing.T, c *Client) (*recognize.Session, chan recognize.Event) {
	t.Helper()
	events := make(chan recognize.Event, 4)
	sess, err := recognize.NewSession(c.Matcher(), func(ev recognize.Event) {
		events <- ev
	})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	t.Cleanup(sess.Destroy)
	return sess, events
}

func TestMatchRoundTrip(t *testing.T) {
	fed := make(chan *clientFrame, 8)
	url := newTestService(t, func(conn *websocket.Conn) {
		start, err := readFrame(conn)
		if err != nil || start.Type != frameStart {
			t.Errorf("first frame = %+v, err = %v, want start", start, err)
			return
		}
		audio, err := readFrame(conn)
		if err != nil {
			t.Errorf("read audio frame: %v", err)
			return
		}
		fed <- audio
		sendFrame(t, conn, &serverFrame{
			Type:      frameVerdict,
			AttemptID: start.AttemptID,
			Result:    resultMatch,
			Track: &wireTrack{
				ID:     "track-1138",
				Title:  "Roads",
				Artist: "Portishead",
				WebURL: "https://example.com/roads",
			},
		})
	})

	client := NewClient(url, WithAPIKey("test-key"))
	sess, events := newSession(t, client)

	if err := sess.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := sess.Feed(testBuffer()); err != nil {
		t.Fatalf("Feed: %v", err)
	}

	select {
	case audio := <-fed:
		if audio.Type != frameAudio {
			t.Errorf("service saw frame type %q, want audio", audio.Type)
		}
		if audio.SampleRate != 44100 || audio.Channels != 1 {
			t.Errorf("service saw format %d/%d, want 44100/1", audio.SampleRate, audio.Channels)
		}
		if len(audio.Samples) != 4410 {
			t.Errorf("service saw %d samples, want 4410", len(audio.Samples))
		}
	case <-time.After(2 * time.Second):
		t.Fatal("service never received the audio frame")
	}

	select {
	case ev := <-events:
		if ev.Kind != recognize.VerdictMatch {
			t.Fatalf("event kind = %s, want match", ev.Kind)
		}
		if ev.Track == nil || ev.Track.Title != "Roads" || ev.Track.Artist != "Portishead" {
			t.Errorf("unexpected track: %+v", ev.Track)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for match event")
	}
}

func TestStopBeforeVerdictDeliversNothing(t *testing.T) {
	sawStop := make(chan struct{})
	url := newTestService(t, func(conn *websocket.Conn) {
		for {
			f, err := readFrame(conn)
			if err != nil {
				return
			}
			if f.Type == frameStop {
				close(sawStop)
				return
			}
		}
	})

	client := NewClient(url)
	sess, events := newSession(t, client)

	if err := sess.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := sess.Feed(testBuffer()); err != nil {
		t.Fatalf("Feed: %v", err)
	}
	sess.Stop()

	select {
	case <-sawStop:
	case <-time.After(2 * time.Second):
		t.Error("service never received the stop frame")
	}

	select {
	case ev := <-events:
		t.Fatalf("unexpected event after Stop: kind=%s", ev.Kind)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestServerErrorVerdict(t *testing.T) {
	url := newTestService(t, func(conn *websocket.Conn) {
		start, err := readFrame(conn)
		if err != nil {
			return
		}
		sendFrame(t, conn, &serverFrame{
			Type:      frameVerdict,
			AttemptID: start.AttemptID,
			Result:    resultError,
			Message:   "fingerprint service unavailable",
		})
	})

	client := NewClient(url)
	sess, events := newSession(t, client)

	if err := sess.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	select {
	case ev := <-events:
		if ev.Kind != recognize.VerdictError {
			t.Fatalf("event kind = %s, want error", ev.Kind)
		}
		if ev.Err == nil || !strings.Contains(ev.Err.Error(), "fingerprint service unavailable") {
			t.Errorf("event error = %v, want service message", ev.Err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for error event")
	}
}

func TestConnectionLossSurfacesAsError(t *testing.T) {
	url := newTestService(t, func(conn *websocket.Conn) {
		if _, err := readFrame(conn); err != nil {
			return
		}
		// Drop the connection without answering.
		conn.Close()
	})

	client := NewClient(url)
	sess, events := newSession(t, client)

	if err := sess.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	select {
	case ev := <-events:
		if ev.Kind != recognize.VerdictError {
			t.Fatalf("event kind = %s, want error", ev.Kind)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for error event")
	}
}

func TestMatcherRequiresEndpoint(t *testing.T) {
	client := NewClient("")
	_, err := recognize.NewSession(client.Matcher(), func(recognize.Event) {})
	if err == nil {
		t.Fatal("NewSession succeeded without an endpoint")
	}
	if e, ok := recognize.AsError(err); !ok || !e.IsInit() {
		t.Errorf("got %v, want init error", err)
	}
}

func TestFeedWithoutAttempt(t *testing.T) {
	m := &matcher{client: NewClient("ws://unused")}
	if err := m.Feed(testBuffer()); err == nil {
		t.Error("Feed without an attempt succeeded")
	}
}
