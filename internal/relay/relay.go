// Package relay pushes hub messages (game_end, score_update) to
// websocket spectators.
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/arcade-hub/internal/core"
)

// sendBuffer is how many messages a slow spectator may lag behind before
// it is dropped.
const sendBuffer = 64

// Relay fans messages out to every connected client.
type Relay struct {
	log *log.Logger

	mu      sync.RWMutex
	clients map[*client]struct{}
	closed  bool
}

// New creates an empty relay. A nil logger writes to stderr.
func New(logger *log.Logger) *Relay {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "relay",
		})
	}
	return &Relay{
		log:     logger,
		clients: make(map[*client]struct{}),
	}
}

func (r *Relay) register(c *client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}
	r.clients[c] = struct{}{}
	r.log.Info("spectator connected", "remote", c.remote, "clients", len(r.clients))
	return true
}

func (r *Relay) unregister(c *client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[c]; !ok {
		return
	}
	delete(r.clients, c)
	close(c.send)
	r.log.Info("spectator disconnected", "remote", c.remote, "clients", len(r.clients))
}

// Clients returns the number of connected spectators.
func (r *Relay) Clients() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// Broadcast queues msg for every client without blocking the caller.
// Clients whose buffer is full are disconnected.
func (r *Relay) Broadcast(msg core.Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		r.log.Error("encode message", "err", err)
		return
	}

	var slow []*client
	r.mu.RLock()
	for c := range r.clients {
		select {
		case c.send <- data:
		default:
			slow = append(slow, c)
		}
	}
	r.mu.RUnlock()

	for _, c := range slow {
		r.log.Warn("dropping slow spectator", "remote", c.remote)
		r.unregister(c)
	}
}

// Close disconnects every client and refuses new ones.
func (r *Relay) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	for c := range r.clients {
		delete(r.clients, c)
		close(c.send)
	}
}

// Handler returns the HTTP routes: /ws for spectators and /health.
func (r *Relay) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", r.serveWS)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"status":  "ok",
			"clients": r.Clients(),
		})
	})
	return mux
}

// ListenAndServe serves the relay on addr until ctx is cancelled.
func (r *Relay) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		r.log.Info("relay listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("relay: %w", err)
	case <-ctx.Done():
	}

	r.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("relay: shutdown: %w", err)
	}
	return nil
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

func (r *Relay) serveWS(w http.ResponseWriter, req *http.Request) {
	conn, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		r.log.Warn("upgrade failed", "err", err)
		return
	}
	c := &client{
		relay:  r,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		remote: req.RemoteAddr,
	}
	if !r.register(c) {
		conn.Close()
		return
	}
	go c.writePump()
	go c.readPump()
}
