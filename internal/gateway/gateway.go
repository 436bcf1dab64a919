// Package gateway exposes the acquisition pipeline over HTTP: attempt
// creation, outcome polling, a plain-text summary, and a WebSocket
// progress stream driven by the attempt's estimator.
package gateway

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/haneul/card-quest-go/internal/adapter"
	"github.com/haneul/card-quest-go/internal/constants"
	"github.com/haneul/card-quest-go/internal/domain"
	"github.com/haneul/card-quest-go/internal/service/quest"
	"github.com/sourcegraph/conc"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type startRequest struct {
	Usernames []string `json:"usernames"`
}

type startResponse struct {
	AttemptID           string   `json:"attemptId"`
	Status              string   `json:"status"`
	Identities          []string `json:"identities"`
	EstimatedDurationMs int64    `json:"estimatedDurationMs"`
}

// Gateway owns the attempt registry. Only one attempt is live at a
// time: starting a new one cancels the previous attempt's token so its
// late updates are orphaned, while its last resolved outcome stays
// queryable by ID.
type Gateway struct {
	quests    *quest.Service
	formatter *adapter.ResponseFormatter
	logger    *zap.Logger

	mu       sync.Mutex
	attempts map[string]*quest.Attempt
	hubs     map[string]*Hub
	current  *quest.Attempt

	wg conc.WaitGroup
}

func New(quests *quest.Service, formatter *adapter.ResponseFormatter, logger *zap.Logger) *Gateway {
	return &Gateway{
		quests:    quests,
		formatter: formatter,
		logger:    logger,
		attempts:  make(map[string]*quest.Attempt),
		hubs:      make(map[string]*Hub),
	}
}

// Router builds the gin engine with all pipeline routes mounted.
func (g *Gateway) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", g.handleHealth)

	api := r.Group("/api")
	{
		api.POST("/quest", g.handleStart)
		api.GET("/quest/:id", g.handleOutcome)
		api.GET("/quest/:id/summary", g.handleSummary)
		api.GET("/quest/:id/progress", g.handleProgress)
	}

	return r
}

// Close orphans the live attempt and waits for streamers to drain.
func (g *Gateway) Close() {
	g.mu.Lock()
	if g.current != nil {
		g.current.Cancel()
	}
	hubs := make([]*Hub, 0, len(g.hubs))
	for _, h := range g.hubs {
		hubs = append(hubs, h)
	}
	g.mu.Unlock()

	for _, h := range hubs {
		h.CloseAll()
	}
	g.wg.Wait()
}

func (g *Gateway) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (g *Gateway) handleStart(c *gin.Context) {
	var req startRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "잘못된 요청 형식입니다."})
		return
	}
	if len(req.Usernames) > constants.PlayerConfig.MaxPlayers {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "플레이어는 최대 6명까지 입력할 수 있습니다.",
		})
		return
	}

	a := g.quests.NewAttempt(req.Usernames)
	hub := NewHub(g.logger)

	g.mu.Lock()
	if g.current != nil && !g.current.Resolved() {
		// A new attempt supersedes the previous one outright.
		g.logger.Info("Superseding live attempt",
			zap.String("old_attempt_id", g.current.ID),
			zap.String("new_attempt_id", a.ID),
		)
		g.current.Cancel()
	}
	g.current = a
	g.attempts[a.ID] = a
	g.hubs[a.ID] = hub
	g.mu.Unlock()

	ctx := context.Background()
	g.wg.Go(func() {
		g.quests.Run(ctx, a)
	})
	g.wg.Go(func() {
		g.streamProgress(a, hub)
	})

	c.JSON(http.StatusAccepted, startResponse{
		AttemptID:           a.ID,
		Status:              string(domain.StatusLoading),
		Identities:          domain.IdentityStrings(a.Identities),
		EstimatedDurationMs: quest.EstimateDuration(len(a.Identities)).Milliseconds(),
	})
}

func (g *Gateway) handleOutcome(c *gin.Context) {
	a := g.lookup(c.Param("id"))
	if a == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "존재하지 않는 시도입니다."})
		return
	}

	c.JSON(http.StatusOK, a.Outcome())
}

func (g *Gateway) handleSummary(c *gin.Context) {
	a := g.lookup(c.Param("id"))
	if a == nil {
		c.String(http.StatusNotFound, "존재하지 않는 시도입니다.")
		return
	}
	if !a.Resolved() {
		c.String(http.StatusOK, "🃏 카드를 만드는 중입니다... (%d%%)", a.Estimator.Display())
		return
	}

	c.String(http.StatusOK, g.formatter.FormatOutcome(a.Outcome()))
}

// handleProgress upgrades to WebSocket and subscribes the client to the
// attempt's frame stream. Resolved attempts get one final frame.
func (g *Gateway) handleProgress(c *gin.Context) {
	a := g.lookup(c.Param("id"))
	if a == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "존재하지 않는 시도입니다."})
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		g.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	if a.Resolved() {
		frame := g.frameFor(a)
		_ = ws.SetWriteDeadline(time.Now().Add(constants.GatewayConfig.WriteWait))
		_ = ws.WriteJSON(frame)
		_ = ws.Close()
		return
	}

	g.mu.Lock()
	hub := g.hubs[a.ID]
	g.mu.Unlock()
	if hub == nil {
		_ = ws.Close()
		return
	}

	hub.Add(ws)

	// Read loop exists only to notice the client going away.
	g.wg.Go(func() {
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				hub.Remove(ws)
				return
			}
		}
	})
}

// streamProgress ticks the estimator and fans frames out until the
// attempt resolves or is superseded.
func (g *Gateway) streamProgress(a *quest.Attempt, hub *Hub) {
	ticker := time.NewTicker(constants.ProgressConfig.TickInterval)
	defer ticker.Stop()

	for range ticker.C {
		if !a.Token().Alive() {
			hub.CloseAll()
			return
		}

		hub.Broadcast(g.frameFor(a))

		if a.Resolved() {
			hub.CloseAll()
			return
		}
	}
}

func (g *Gateway) frameFor(a *quest.Attempt) ProgressFrame {
	out := a.Outcome()
	return ProgressFrame{
		AttemptID: a.ID,
		Status:    out.Status,
		Progress:  out.Progress,
		Pulse:     a.Estimator.Pulse(),
		Step:      a.Estimator.StepLabel(),
	}
}

func (g *Gateway) lookup(id string) *quest.Attempt {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.attempts[id]
}
