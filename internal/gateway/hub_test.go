package gateway

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/haneul/card-quest-go/internal/domain"
	"go.uber.org/zap"
)

// dialHub spins up a ws echo endpoint whose server-side conn is
// registered with the hub, and returns the client side.
func dialHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		hub.Add(ws)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	// Wait for the server side to land in the hub.
	for i := 0; i < 100 && hub.Count() == 0; i++ {
		time.Sleep(5 * time.Millisecond)
	}
	return client
}

func TestHubBroadcastDeliversFrames(t *testing.T) {
	hub := NewHub(zap.NewNop())
	client := dialHub(t, hub)

	if hub.Count() != 1 {
		t.Fatalf("expected one subscriber, got %d", hub.Count())
	}

	sent := ProgressFrame{
		AttemptID: "attempt-1",
		Status:    domain.StatusLoading,
		Progress:  42,
		Pulse:     40,
		Step:      "CALCULATING STATS",
	}
	hub.Broadcast(sent)

	_ = client.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := client.ReadMessage()
	if err != nil {
		t.Fatalf("expected a frame, got %v", err)
	}

	var got ProgressFrame
	if err := json.Unmarshal(payload, &got); err != nil {
		t.Fatalf("failed to decode frame: %v", err)
	}
	if got != sent {
		t.Fatalf("expected %+v, got %+v", sent, got)
	}
}

func TestHubCloseAllDisconnectsSubscribers(t *testing.T) {
	hub := NewHub(zap.NewNop())
	client := dialHub(t, hub)

	hub.CloseAll()
	if hub.Count() != 0 {
		t.Fatalf("expected empty hub after CloseAll, got %d", hub.Count())
	}

	_ = client.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := client.ReadMessage(); err == nil {
		t.Fatalf("expected read to fail after CloseAll")
	}
}
