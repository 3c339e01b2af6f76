package relay

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/arcade-hub/internal/core"
)

func newTestRelay(t *testing.T) (*Relay, *httptest.Server) {
	t.Helper()
	r := New(log.New(io.Discard))
	srv := httptest.NewServer(r.Handler())
	t.Cleanup(func() {
		r.Close()
		srv.Close()
	})
	return r, srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitClients(t *testing.T, r *Relay, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for r.Clients() != n {
		if time.Now().After(deadline) {
			t.Fatalf("Clients() = %d, want %d", r.Clients(), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestBroadcastReachesClients(t *testing.T) {
	r, srv := newTestRelay(t)
	a := dial(t, srv)
	b := dial(t, srv)
	waitClients(t, r, 2)

	r.Broadcast(core.GameEndMessage(core.Result{GameID: "quickshot", Score: 180}))

	for _, conn := range []*websocket.Conn{a, b} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var msg core.Message
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("ReadJSON() failed: %v", err)
		}
		if msg.Type != core.MessageGameEnd || msg.Score != 180 || msg.GameID != "quickshot" {
			t.Errorf("message = %+v", msg)
		}
	}
}

func TestDisconnectUnregisters(t *testing.T) {
	r, srv := newTestRelay(t)
	conn := dial(t, srv)
	waitClients(t, r, 1)

	conn.Close()
	waitClients(t, r, 0)

	// Broadcasting to nobody must not block or panic.
	r.Broadcast(core.ScoreUpdateMessage(10))
}

func TestSlowClientDropped(t *testing.T) {
	r, srv := newTestRelay(t)
	dial(t, srv) // never reads
	waitClients(t, r, 1)

	done := make(chan struct{})
	go func() {
		for i := 0; i < sendBuffer*50; i++ {
			r.Broadcast(core.ScoreUpdateMessage(i))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Broadcast blocked on a slow client")
	}
}

func TestHealth(t *testing.T) {
	_, srv := newTestRelay(t)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestClosedRelayRefusesClients(t *testing.T) {
	r, srv := newTestRelay(t)
	r.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("closed relay kept the connection open")
	}
	if r.Clients() != 0 {
		t.Errorf("Clients() = %d, want 0", r.Clients())
	}
}
