package gateway

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/haneul/card-quest-go/internal/constants"
	"github.com/haneul/card-quest-go/internal/domain"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// ProgressFrame is one WebSocket update for an in-flight attempt.
// Progress is authoritative and monotonic; Pulse is the cosmetic
// liveness value and may wobble below it.
type ProgressFrame struct {
	AttemptID string               `json:"attemptId"`
	Status    domain.AttemptStatus `json:"status"`
	Progress  int                  `json:"progress"`
	Pulse     int                  `json:"pulse"`
	Step      string               `json:"step"`
}

// Hub fans progress frames out to every WebSocket subscriber of one
// attempt.
type Hub struct {
	mu     sync.Mutex
	conns  map[*websocket.Conn]struct{}
	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		conns:  make(map[*websocket.Conn]struct{}),
		logger: logger,
	}
}

func (h *Hub) Add(ws *websocket.Conn) {
	h.mu.Lock()
	h.conns[ws] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) Remove(ws *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, ws)
	h.mu.Unlock()
	_ = ws.Close()
}

func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// Broadcast writes one frame to every subscriber concurrently and
// drops subscribers whose writes fail.
func (h *Hub) Broadcast(frame ProgressFrame) {
	payload, err := json.Marshal(frame)
	if err != nil {
		return
	}

	h.mu.Lock()
	targets := make([]*websocket.Conn, 0, len(h.conns))
	for ws := range h.conns {
		targets = append(targets, ws)
	}
	h.mu.Unlock()

	if len(targets) == 0 {
		return
	}

	var failedMu sync.Mutex
	failed := make([]*websocket.Conn, 0)

	p := pool.New().WithMaxGoroutines(constants.GatewayConfig.BroadcastWorkers)
	for _, ws := range targets {
		p.Go(func() {
			_ = ws.SetWriteDeadline(time.Now().Add(constants.GatewayConfig.WriteWait))
			if err := ws.WriteMessage(websocket.TextMessage, payload); err != nil {
				failedMu.Lock()
				failed = append(failed, ws)
				failedMu.Unlock()
			}
		})
	}
	p.Wait()

	for _, ws := range failed {
		h.logger.Debug("Dropping dead progress subscriber")
		h.Remove(ws)
	}
}

// CloseAll disconnects every subscriber, ending their read loops.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for ws := range h.conns {
		conns = append(conns, ws)
	}
	h.conns = make(map[*websocket.Conn]struct{})
	h.mu.Unlock()

	for _, ws := range conns {
		_ = ws.Close()
	}
}
