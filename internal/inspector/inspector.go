// Package inspector is a passive, opt-in debug event stream: it serves a
// websocket endpoint that broadcasts one JSON message per machine.Step call
// to whatever debugger UI is listening, and never reads back from or calls
// into the machine it is observing. A driver that never calls Publish pays
// only the cost of an idle HTTP server with zero connected clients.
package inspector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// StepEvent is one broadcast message: the location and kind of work the
// machine just performed. LongOp is non-empty only when the step executed a
// long-operation tick rather than a bytecode instruction.
type StepEvent struct {
	Scenario   int    `json:"scenario"`
	Line       int    `json:"line"`
	Offset     int    `json:"offset"`
	ModuleType int    `json:"module_type,omitempty"`
	ModuleID   int    `json:"module_id,omitempty"`
	Opcode     int    `json:"opcode,omitempty"`
	Overload   int    `json:"overload,omitempty"`
	LongOp     string `json:"long_op,omitempty"`
	Error      string `json:"error,omitempty"`
}

// client is one connected debugger UI.
type client struct {
	conn *websocket.Conn
	out  chan StepEvent
}

// Server broadcasts StepEvents to every connected websocket client. The
// zero value is not usable; construct with New.
type Server struct {
	upgrader websocket.Upgrader
	http     *http.Server

	mu      sync.RWMutex
	clients map[*client]struct{}
}

// New builds a Server bound to addr (e.g. "localhost:6969"); call
// ListenAndServe to start accepting connections.
func New(addr string) *Server {
	s := &Server{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleConn)
	s.http = &http.Server{Addr: addr, Handler: mux}
	return s
}

// ListenAndServe starts the HTTP/websocket listener on its own goroutine and
// returns immediately; errServe receives the terminal error from
// http.Server.ListenAndServe (including http.ErrServerClosed on a clean
// Close).
func (s *Server) ListenAndServe() <-chan error {
	errServe := make(chan error, 1)
	go func() { errServe <- s.http.ListenAndServe() }()
	return errServe
}

// Close shuts the server down, closing every connected client.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := s.http.Shutdown(ctx)

	s.mu.Lock()
	for c := range s.clients {
		close(c.out)
		c.conn.Close()
	}
	s.clients = make(map[*client]struct{})
	s.mu.Unlock()

	return err
}

// Publish broadcasts ev to every connected client. A client whose outbound
// queue is full is disconnected rather than allowed to stall the driver —
// the interpreter's own step loop must never block on a slow debugger UI.
func (s *Server) Publish(ev StepEvent) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for c := range s.clients {
		select {
		case c.out <- ev:
		default:
			go c.conn.Close()
		}
	}
}

func (s *Server) handleConn(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := &client{conn: conn, out: make(chan StepEvent, 64)}

	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()

	go s.writeLoop(c)
	go s.readLoop(c)
}

// writeLoop drains c.out to the websocket connection until it is closed.
func (s *Server) writeLoop(c *client) {
	for ev := range c.out {
		data, err := json.Marshal(ev)
		if err != nil {
			continue
		}
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			s.drop(c)
			return
		}
	}
}

// readLoop discards anything the client sends (the protocol is one-way) and
// exits, dropping the client, the moment the connection errors or closes.
func (s *Server) readLoop(c *client) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			s.drop(c)
			return
		}
	}
}

func (s *Server) drop(c *client) {
	s.mu.Lock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		close(c.out)
	}
	s.mu.Unlock()
	c.conn.Close()
}

// ClientCount reports how many debugger UIs are currently connected, mostly
// useful so a driver can skip building a StepEvent when nobody is watching.
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// String renders the server's bind address for log output.
func (s *Server) String() string {
	return fmt.Sprintf("inspector(%s)", s.http.Addr)
}
