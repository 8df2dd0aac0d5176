package bus

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

// Hub relays frames between connected windows. It is the one shared piece of
// the topology and it holds no document state at all: a frame goes to every
// live socket except the one it arrived on, and a window that connects later
// simply never sees it.
type Hub struct {
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*hubConn]struct{}

	server *http.Server
}

type hubConn struct {
	ws      *websocket.Conn
	writeMu sync.Mutex
}

func (hc *hubConn) write(data []byte) error {
	hc.writeMu.Lock()
	defer hc.writeMu.Unlock()
	return hc.ws.WriteMessage(websocket.TextMessage, data)
}

func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		conns: make(map[*hubConn]struct{}),
	}
}

// Handler returns the hub's HTTP surface: the /sync websocket endpoint and a
// health probe, with per-request logging.
func (h *Hub) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			m := httpsnoop.CaptureMetrics(handler, w, req)
			log.Printf("[hub] %s %s status=%d duration=%s", req.Method, req.URL.Path, m.Code, m.Duration)
		})
	})
	r.Methods(http.MethodGet).Path("/sync").HandlerFunc(h.serveSync)
	r.Methods(http.MethodGet).Path("/healthz").HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return r
}

func (h *Hub) serveSync(w http.ResponseWriter, req *http.Request) {
	ws, err := h.upgrader.Upgrade(w, req, nil)
	if err != nil {
		log.Printf("[hub] upgrade failed: %v", err)
		return
	}
	conn := &hubConn{ws: ws}

	h.mu.Lock()
	h.conns[conn] = struct{}{}
	n := len(h.conns)
	h.mu.Unlock()
	log.Printf("[hub] window connected from %s (%d total)", ws.RemoteAddr(), n)

	defer func() {
		h.mu.Lock()
		delete(h.conns, conn)
		n := len(h.conns)
		h.mu.Unlock()
		_ = ws.Close()
		log.Printf("[hub] window disconnected from %s (%d left)", ws.RemoteAddr(), n)
	}()

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			return
		}
		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil || env.Channel == "" {
			log.Printf("[hub] dropping malformed frame from %s", ws.RemoteAddr())
			continue
		}
		h.relay(data, conn)
	}
}

// relay forwards a frame to every connection except its source.
func (h *Hub) relay(data []byte, from *hubConn) {
	h.mu.Lock()
	targets := make([]*hubConn, 0, len(h.conns))
	for c := range h.conns {
		if c != from {
			targets = append(targets, c)
		}
	}
	h.mu.Unlock()

	for _, c := range targets {
		if err := c.write(data); err != nil {
			log.Printf("[hub] relay to %s failed: %v", c.ws.RemoteAddr(), err)
		}
	}
}

// ListenAndServe runs the hub until the listener fails or Shutdown is called.
func (h *Hub) ListenAndServe(addr string) error {
	h.server = &http.Server{Addr: addr, Handler: h.Handler()}
	log.Printf("[hub] listening on %s", addr)
	if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and closes the live ones.
func (h *Hub) Shutdown(ctx context.Context) error {
	h.mu.Lock()
	for c := range h.conns {
		_ = c.ws.Close()
	}
	h.conns = make(map[*hubConn]struct{})
	h.mu.Unlock()

	if h.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return h.server.Shutdown(ctx)
}
