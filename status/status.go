package status

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	INFO = iota
	ERROR
	PROGRESS
)

type Message struct {
	Message  string
	Time     time.Time
	Type     int
	Progress float32
}

// Hub fans status messages out to subscribers. New subscribers get the last message first.
type Hub struct {
	lock sync.Mutex
	subs map[chan []byte]bool
	last []byte
}

func NewHub() *Hub {
	return &Hub{subs: make(map[chan []byte]bool)}
}

// Subscribe returns a channel of json encoded messages. Slow subscribers miss messages.
func (h *Hub) Subscribe() chan []byte {
	ch := make(chan []byte, 32)
	h.lock.Lock()
	defer h.lock.Unlock()
	h.subs[ch] = true
	if h.last != nil {
		ch <- h.last
	}
	return ch
}

func (h *Hub) Unsubscribe(ch chan []byte) {
	h.lock.Lock()
	defer h.lock.Unlock()
	if h.subs[ch] {
		delete(h.subs, ch)
		close(ch)
	}
}

func (h *Hub) Publish(m Message) {
	if math.IsNaN(float64(m.Progress)) || math.IsInf(float64(m.Progress), 0) {
		m.Progress = 0
	}
	data, err := json.Marshal(&m)
	if err != nil {
		log.Printf("[status] marshal: %v", err)
		return
	}
	h.lock.Lock()
	defer h.lock.Unlock()
	h.last = data
	for ch := range h.subs {
		select {
		case ch <- data:
		default:
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// ServeWS streams the hub messages to a websocket client until it disconnects.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[status] ws upgrade: %v", err)
		return
	}
	ch := h.Subscribe()
	go func() {
		// reading is needed to notice the close
		for {
			if _, _, err := conn.NextReader(); err != nil {
				h.Unsubscribe(ch)
				return
			}
		}
	}()
	writePump(conn, ch)
}

func writePump(conn *websocket.Conn, send chan []byte) {
	ticker := time.NewTicker(time.Second * 30)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()
	for {
		select {
		case msg, ok := <-send:
			conn.SetWriteDeadline(time.Now().Add(40 * time.Second))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Printf("[status] ws write msg error: %v", err)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(40 * time.Second))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("[status] ws write ping error: %v", err)
				return
			}
		}
	}
}

var Default = NewHub()

func Status(msg string, _type int, progress float32) {
	Default.Publish(Message{
		Message:  msg,
		Time:     time.Now(),
		Type:     _type,
		Progress: progress})
}

func Info(format string, a ...interface{}) {
	Status(fmt.Sprintf(format, a...), INFO, 0.0)
}

func Error(format string, a ...interface{}) {
	Status(fmt.Sprintf(format, a...), ERROR, 0.0)
}

func Progress(progress float32, format string, a ...interface{}) {
	Status(fmt.Sprintf(format, a...), PROGRESS, progress)
}
