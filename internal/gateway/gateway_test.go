package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/haneul/card-quest-go/internal/adapter"
	"github.com/haneul/card-quest-go/internal/domain"
	"github.com/haneul/card-quest-go/internal/service/generator"
	"github.com/haneul/card-quest-go/internal/service/quest"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

type fakeGenerator struct {
	deck    *generator.RawDeck
	err     error
	release chan struct{} // when set, GenerateDeck blocks until closed
}

func (f *fakeGenerator) GenerateDeck(_ context.Context, _ []domain.Identity) (*generator.RawDeck, error) {
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.deck, nil
}

type fakeStore struct{}

func (fakeStore) Load(_ context.Context) (*domain.ResultSet, error) { return nil, nil }
func (fakeStore) Save(_ context.Context, _ *domain.ResultSet) error { return nil }
func (fakeStore) Clear(_ context.Context) error                     { return nil }

const validRecord = `{
	"username": "alice",
	"role": {"role": "NIGHT CODER", "role_kr": "나이트 코더", "description": "야행성 개발자"},
	"image": {"url": "https://cdn.example.com/alice.png"},
	"stats": {"dayVsNight": 72, "steadyVsBurst": 40, "indieVsCrew": 55, "specialVsGeneral": 63}
}`

func newTestGateway(gen quest.DeckGenerator) *Gateway {
	svc := quest.NewService(gen, fakeStore{}, nil, nil, zap.NewNop())
	return New(svc, adapter.NewResponseFormatter(), zap.NewNop())
}

func postQuest(t *testing.T, router http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/quest", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func waitResolved(t *testing.T, gw *Gateway, id string) {
	t.Helper()
	for i := 0; i < 100; i++ {
		if a := gw.lookup(id); a != nil && a.Resolved() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("attempt %s never resolved", id)
}

func TestHandleStartRejectsTooManyPlayers(t *testing.T) {
	gw := newTestGateway(&fakeGenerator{})
	router := gw.Router()

	w := postQuest(t, router, `{"usernames": ["a","b","c","d","e","f","g"]}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for seven players, got %d", w.Code)
	}
}

func TestHandleStartRejectsMalformedBody(t *testing.T) {
	gw := newTestGateway(&fakeGenerator{})
	router := gw.Router()

	w := postQuest(t, router, `{"usernames": "not a list"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", w.Code)
	}
}

func TestStartThenPollOutcome(t *testing.T) {
	gen := &fakeGenerator{deck: &generator.RawDeck{
		Users: []gjson.Result{gjson.Parse(validRecord)},
	}}
	gw := newTestGateway(gen)
	defer gw.Close()
	router := gw.Router()

	w := postQuest(t, router, `{"usernames": ["alice"]}`)
	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", w.Code, w.Body.String())
	}

	var started startResponse
	if err := json.Unmarshal(w.Body.Bytes(), &started); err != nil {
		t.Fatalf("failed to decode start response: %v", err)
	}
	if started.AttemptID == "" || started.Status != string(domain.StatusLoading) {
		t.Fatalf("unexpected start response %+v", started)
	}
	if started.EstimatedDurationMs <= 0 {
		t.Fatalf("expected a duration estimate, got %d", started.EstimatedDurationMs)
	}

	waitResolved(t, gw, started.AttemptID)

	req := httptest.NewRequest(http.MethodGet, "/api/quest/"+started.AttemptID, nil)
	poll := httptest.NewRecorder()
	router.ServeHTTP(poll, req)
	if poll.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", poll.Code)
	}

	var out domain.Outcome
	if err := json.Unmarshal(poll.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode outcome: %v", err)
	}
	if out.Status != domain.StatusReady || out.Source != domain.SourceLive {
		t.Fatalf("expected live ready outcome, got %+v", out)
	}
	if out.Progress != 100 || len(out.Cards) != 1 {
		t.Fatalf("unexpected resolved outcome %+v", out)
	}
}

func TestOutcomeUnknownAttempt(t *testing.T) {
	gw := newTestGateway(&fakeGenerator{})
	router := gw.Router()

	req := httptest.NewRequest(http.MethodGet, "/api/quest/no-such-id", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown attempt, got %d", w.Code)
	}
}

func TestStartSupersedesLiveAttempt(t *testing.T) {
	release := make(chan struct{})
	gen := &fakeGenerator{
		deck:    &generator.RawDeck{Users: []gjson.Result{gjson.Parse(validRecord)}},
		release: release,
	}
	gw := newTestGateway(gen)
	router := gw.Router()

	var first startResponse
	w := postQuest(t, router, `{"usernames": ["alice"]}`)
	if err := json.Unmarshal(w.Body.Bytes(), &first); err != nil {
		t.Fatalf("failed to decode first start: %v", err)
	}

	var second startResponse
	w = postQuest(t, router, `{"usernames": ["bob"]}`)
	if err := json.Unmarshal(w.Body.Bytes(), &second); err != nil {
		t.Fatalf("failed to decode second start: %v", err)
	}

	firstAttempt := gw.lookup(first.AttemptID)
	if firstAttempt == nil {
		t.Fatalf("first attempt vanished from registry")
	}
	if firstAttempt.Token().Alive() {
		t.Fatalf("starting a new attempt must cancel the previous token")
	}

	close(release)
	waitResolved(t, gw, second.AttemptID)

	if firstAttempt.Resolved() {
		t.Fatalf("superseded attempt must not resolve")
	}

	gw.Close()
}

func TestSummaryRendersResolvedOutcome(t *testing.T) {
	gen := &fakeGenerator{deck: &generator.RawDeck{
		Users: []gjson.Result{gjson.Parse(validRecord)},
	}}
	gw := newTestGateway(gen)
	defer gw.Close()
	router := gw.Router()

	var started startResponse
	w := postQuest(t, router, `{"usernames": ["alice"]}`)
	if err := json.Unmarshal(w.Body.Bytes(), &started); err != nil {
		t.Fatalf("failed to decode start response: %v", err)
	}
	waitResolved(t, gw, started.AttemptID)

	req := httptest.NewRequest(http.MethodGet, "/api/quest/"+started.AttemptID+"/summary", nil)
	sum := httptest.NewRecorder()
	router.ServeHTTP(sum, req)

	if sum.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", sum.Code)
	}
	if !strings.Contains(sum.Body.String(), "alice") {
		t.Fatalf("expected card name in summary:\n%s", sum.Body.String())
	}
}
