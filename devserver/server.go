//go:build !wasm
// +build !wasm

package devserver

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Server accepts websocket connections and fans out every TraceEvent
// recorded while a scenario runs out to each connected Session. Only
// one scenario runs at a time: the runtime itself is single-threaded,
// and devserver's Recorder has a single sink slot.
type Server struct {
	upgrader websocket.Upgrader
	mu       sync.RWMutex
	sessions map[string]*Session

	recorder *Recorder
	runMu    sync.Mutex
}

// NewServer creates a ready-to-use Server with no sessions connected.
func NewServer() *Server {
	s := &Server{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		sessions: make(map[string]*Session),
	}
	s.recorder = NewRecorder(s.broadcast)
	return s
}

func (s *Server) broadcast(ev TraceEvent) {
	data := EncodeTraceEvent(ev)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sess := range s.sessions {
		select {
		case sess.send <- data:
		default:
			log.Printf("[devserver %s] send buffer full, dropping event", sess.id)
		}
	}
}

// RunScenario labels subsequent lifecycle events with name and runs
// the named builtin scenario to completion, broadcasting every event
// it produces to all connected sessions. It blocks for the duration
// of the scenario; concurrent calls serialize on runMu.
func (s *Server) RunScenario(name string) error {
	scn, ok := FindScenario(name)
	if !ok {
		return fmt.Errorf("devserver: unknown scenario %q", name)
	}

	s.runMu.Lock()
	defer s.runMu.Unlock()

	s.recorder.SetScenario(name)
	s.recorder.Start()
	defer s.recorder.Stop()
	scn.Run()
	return nil
}

// HandleWebSocket upgrades r to a websocket connection and registers a
// Session for it. Each connected Session receives every TraceEvent
// broadcast from the moment it connects onward (there is no replay of
// history), and may trigger a scenario run by sending a run request
// (see DecodeRunRequest) as a text or binary message.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[devserver] upgrade failed: %v", err)
		return
	}

	sess := &Session{
		id:    fmt.Sprintf("%s-%d", r.RemoteAddr, time.Now().UnixNano()),
		conn:  conn,
		send:  make(chan []byte, 256),
		close: make(chan struct{}),
	}

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	go sess.writer()
	sess.sendHello()

	go func() {
		sess.readLoop(s)
		s.mu.Lock()
		delete(s.sessions, sess.id)
		s.mu.Unlock()
	}()
}

// Session is one connected websocket client.
type Session struct {
	id    string
	conn  *websocket.Conn
	send  chan []byte
	close chan struct{}
	once  sync.Once
}

func (sess *Session) writer() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case data, ok := <-sess.send:
			if !ok {
				sess.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			sess.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := sess.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
				log.Printf("[devserver %s] write failed: %v", sess.id, err)
				return
			}

		case <-ticker.C:
			sess.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := sess.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-sess.close:
			return
		}
	}
}

func (sess *Session) sendHello() {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	enc.WriteBytes([]byte{byte(FrameControl)})
	enc.WriteString("HELLO")

	select {
	case sess.send <- buf.Bytes():
	default:
		log.Printf("[devserver %s] send buffer full, dropped HELLO", sess.id)
	}
}

func (sess *Session) readLoop(s *Server) {
	defer sess.closeOnce()

	sess.conn.SetReadDeadline(time.Now().Add(300 * time.Second))
	sess.conn.SetPongHandler(func(string) error {
		sess.conn.SetReadDeadline(time.Now().Add(300 * time.Second))
		return nil
	})

	for {
		messageType, data, err := sess.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[devserver %s] unexpected close: %v", sess.id, err)
			}
			return
		}
		if messageType != websocket.TextMessage && messageType != websocket.BinaryMessage {
			continue
		}

		name, err := DecodeRunRequest(data)
		if err != nil {
			log.Printf("[devserver %s] %v", sess.id, err)
			continue
		}
		if err := s.RunScenario(name); err != nil {
			log.Printf("[devserver %s] %v", sess.id, err)
		}
	}
}

func (sess *Session) closeOnce() {
	sess.once.Do(func() {
		sess.conn.Close()
		close(sess.close)
	})
}
