// Package generator is the single remote boundary of the acquisition
// pipeline: one batch call to the card-generation backend per attempt.
package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/haneul/card-quest-go/internal/constants"
	"github.com/haneul/card-quest-go/internal/domain"
	"github.com/haneul/card-quest-go/pkg/errors"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const generatePath = "/api/cards/generate"

// RawDeck is the unvalidated batch response: one raw record per
// requested identity plus the optional aggregate report. Records stay
// raw JSON because their shape has drifted across backend revisions;
// the result package resolves them field by field.
type RawDeck struct {
	Users      []gjson.Result
	TeamReport *domain.TeamReport
}

// Service talks to the card generator backend. There is no retry: an
// attempt makes exactly one round trip, and recovery happens in the
// orchestrator's fallback chain. A circuit breaker fails new attempts
// fast while the backend is known to be down.
type Service struct {
	httpClient       *http.Client
	baseURL          string
	logger           *zap.Logger
	failureCount     int
	failureMu        sync.Mutex
	circuitOpenUntil *time.Time
	circuitMu        sync.RWMutex
}

func NewService(baseURL string, timeout time.Duration, logger *zap.Logger) (*Service, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("generator base URL is required")
	}
	if timeout <= 0 {
		timeout = constants.APIConfig.GeneratorTimeout
	}

	return &Service{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		logger:  logger,
	}, nil
}

func (g *Service) isCircuitOpen() bool {
	g.circuitMu.RLock()
	defer g.circuitMu.RUnlock()

	if g.circuitOpenUntil == nil {
		return false
	}
	return time.Now().Before(*g.circuitOpenUntil)
}

func (g *Service) openCircuit() {
	g.circuitMu.Lock()
	defer g.circuitMu.Unlock()

	resetTime := time.Now().Add(constants.CircuitBreakerConfig.ResetTimeout)
	g.circuitOpenUntil = &resetTime

	g.failureMu.Lock()
	g.failureCount = 0
	g.failureMu.Unlock()

	g.logger.Error("Generator circuit breaker opened",
		zap.Duration("reset_timeout", constants.CircuitBreakerConfig.ResetTimeout),
	)
}

func (g *Service) resetCircuit() {
	g.circuitMu.Lock()
	g.circuitOpenUntil = nil
	g.circuitMu.Unlock()

	g.failureMu.Lock()
	g.failureCount = 0
	g.failureMu.Unlock()
}

func (g *Service) recordFailure() {
	g.failureMu.Lock()
	g.failureCount++
	count := g.failureCount
	g.failureMu.Unlock()

	if count >= constants.CircuitBreakerConfig.FailureThreshold {
		g.openCircuit()
	}
}

// GenerateDeck issues the batch request for the full identity list. One
// network round trip for the whole set; failures come back as APIError
// with the upstream status code when one exists.
func (g *Service) GenerateDeck(ctx context.Context, identities []domain.Identity) (*RawDeck, error) {
	if g.isCircuitOpen() {
		g.circuitMu.RLock()
		var remainingMs int64
		if g.circuitOpenUntil != nil {
			remainingMs = time.Until(*g.circuitOpenUntil).Milliseconds()
		}
		g.circuitMu.RUnlock()

		g.logger.Warn("Circuit breaker is open", zap.Int64("retry_after_ms", remainingMs))
		return nil, errors.NewAPIError("Circuit breaker open", 503, map[string]any{
			"retry_after_ms": remainingMs,
		})
	}

	payload, err := json.Marshal(map[string]any{
		"usernames": domain.IdentityStrings(identities),
	})
	if err != nil {
		return nil, err
	}

	reqURL := g.baseURL + generatePath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		g.recordFailure()
		g.logger.Error("Generator request failed",
			zap.Strings("identities", domain.IdentityStrings(identities)),
			zap.Error(err),
		)
		apiErr := errors.NewAPIError("generator request failed", 0, map[string]any{
			"url": reqURL,
		})
		apiErr.Cause = err
		return nil, apiErr
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		g.recordFailure()
		apiErr := errors.NewAPIError("failed to read generator response", 0, nil)
		apiErr.Cause = err
		return nil, apiErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if resp.StatusCode >= 500 {
			g.recordFailure()
		}
		g.logger.Error("Generator returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.Strings("identities", domain.IdentityStrings(identities)),
		)
		return nil, errors.NewAPIError(
			fmt.Sprintf("generator error: %d", resp.StatusCode),
			resp.StatusCode,
			map[string]any{"url": reqURL},
		)
	}

	deck, err := parseDeck(body)
	if err != nil {
		g.recordFailure()
		return nil, err
	}

	g.resetCircuit()
	return deck, nil
}

func parseDeck(body []byte) (*RawDeck, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.NewAPIError("generator response is not valid JSON", 502, nil)
	}

	users := gjson.GetBytes(body, "users")
	if !users.IsArray() {
		return nil, errors.NewAPIError("generator response missing users list", 502, nil)
	}

	deck := &RawDeck{
		Users: users.Array(),
	}

	if tr := gjson.GetBytes(body, "team_report"); tr.IsObject() {
		var report domain.TeamReport
		if err := json.Unmarshal([]byte(tr.Raw), &report); err == nil {
			deck.TeamReport = &report
		}
	}

	return deck, nil
}
