package status

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func decode(t *testing.T, data []byte) Message {
	t.Helper()
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return m
}

func TestHubReplaysLast(t *testing.T) {
	h := NewHub()
	h.Publish(Message{Message: "first", Type: INFO})
	h.Publish(Message{Message: "frames", Type: PROGRESS, Progress: float32(math.NaN())})

	ch := h.Subscribe()
	m := decode(t, <-ch)
	if m.Message != "frames" || m.Progress != 0 {
		t.Errorf("replayed %+v", m)
	}

	h.Publish(Message{Message: "next", Type: ERROR})
	if m := decode(t, <-ch); m.Message != "next" || m.Type != ERROR {
		t.Errorf("got %+v", m)
	}

	h.Unsubscribe(ch)
	if _, ok := <-ch; ok {
		t.Errorf("channel open after unsubscribe")
	}
	h.Unsubscribe(ch)
}

func TestHubDropsForSlowSubscriber(t *testing.T) {
	h := NewHub()
	ch := h.Subscribe()
	for i := 0; i < 100; i++ {
		h.Publish(Message{Message: "spam"})
	}
	if len(ch) != cap(ch) {
		t.Errorf("buffer %d/%d", len(ch), cap(ch))
	}
}

func TestServeWS(t *testing.T) {
	h := NewHub()
	h.Publish(Message{Message: "hello"})

	srv := httptest.NewServer(http.HandlerFunc(h.ServeWS))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if m := decode(t, data); m.Message != "hello" {
		t.Errorf("got %+v", m)
	}
}
