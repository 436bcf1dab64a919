package quest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/haneul/card-quest-go/internal/domain"
	"github.com/haneul/card-quest-go/internal/service/generator"
	"github.com/haneul/card-quest-go/internal/service/result"
	"github.com/haneul/card-quest-go/pkg/errors"
	"go.uber.org/zap"
)

// DeckGenerator is the remote boundary: one batch call per attempt.
type DeckGenerator interface {
	GenerateDeck(ctx context.Context, identities []domain.Identity) (*generator.RawDeck, error)
}

// DeckStore persists the last successful result set under one fixed
// key. Load returns (nil, nil) on a miss and an error on a corrupt
// payload; the orchestrator treats corrupt the same as missing.
type DeckStore interface {
	Load(ctx context.Context) (*domain.ResultSet, error)
	Save(ctx context.Context, set *domain.ResultSet) error
	Clear(ctx context.Context) error
}

// SyntheticSource builds the last-resort local deck.
type SyntheticSource interface {
	BuildDeck(ctx context.Context, identities []domain.Identity) []domain.Card
}

// AttemptRecord is one row of the optional acquisition history.
type AttemptRecord struct {
	AttemptID  string
	Identities []string
	Status     domain.AttemptStatus
	Source     domain.ResultSource
	CardCount  int
	Error      string
	ResolvedAt time.Time
}

// HistoryRecorder archives resolved attempts for diagnosis.
type HistoryRecorder interface {
	Record(ctx context.Context, rec AttemptRecord) error
}

// Service drives acquisition attempts: Idle → Requesting →
// {Succeeded|Recovering} → Resolved.
type Service struct {
	generator DeckGenerator
	store     DeckStore
	synthetic SyntheticSource // nil disables the synthetic rung
	history   HistoryRecorder // nil disables history
	logger    *zap.Logger
}

func NewService(gen DeckGenerator, store DeckStore, synthetic SyntheticSource, history HistoryRecorder, logger *zap.Logger) *Service {
	return &Service{
		generator: gen,
		store:     store,
		synthetic: synthetic,
		history:   history,
		logger:    logger,
	}
}

// NewAttempt normalizes raw input names into a fresh Idle attempt.
func (s *Service) NewAttempt(rawNames []string) *Attempt {
	identities := domain.NormalizeIdentities(rawNames)
	return newAttempt(uuid.NewString(), identities)
}

// Run executes the attempt to resolution. Safe to call in its own
// goroutine; every state mutation is guarded by the attempt's liveness
// token so a superseded attempt goes quiet instead of racing.
func (s *Service) Run(ctx context.Context, a *Attempt) {
	if len(a.Identities) == 0 {
		// Nothing to acquire - resolve empty, not an error.
		s.resolve(ctx, a, domain.Outcome{
			Status: domain.StatusReady,
			Source: domain.SourceNone,
			Cards:  []domain.Card{},
		})
		return
	}

	a.setState(StateRequesting)
	s.logger.Info("Acquisition started",
		zap.String("attempt_id", a.ID),
		zap.Strings("identities", domain.IdentityStrings(a.Identities)),
	)

	deck, err := s.generator.GenerateDeck(ctx, a.Identities)
	if err != nil {
		s.recover(ctx, a, err)
		return
	}

	cards := make([]domain.Card, 0, len(deck.Users))
	for i, rec := range deck.Users {
		identity := domain.Identity(result.ResolveName(rec, s.positional(a, i), i))

		if vErr := result.Validate(rec, identity); vErr != nil {
			// One bad record fails the whole batch - no partial decks.
			s.logger.Error("Record failed validation",
				zap.String("attempt_id", a.ID),
				zap.String("identity", vErr.Identity),
				zap.String("facet", vErr.Facet),
			)
			s.recover(ctx, a, vErr)
			return
		}

		cards = append(cards, result.Map(rec, identity, i))
		a.Estimator.ReportCompleted()
	}

	a.setState(StateSucceeded)

	set := &domain.ResultSet{Cards: cards, TeamReport: deck.TeamReport}
	set.DiscardSoloReport()

	if err := s.store.Save(ctx, set); err != nil {
		// A failed cache write never fails the attempt.
		s.logger.Warn("Failed to persist result set", zap.Error(err))
	}

	s.resolve(ctx, a, domain.Outcome{
		Status:     domain.StatusReady,
		Source:     domain.SourceLive,
		Cards:      set.Cards,
		TeamReport: set.TeamReport,
	})
}

func (s *Service) positional(a *Attempt, i int) domain.Identity {
	if i < len(a.Identities) {
		return a.Identities[i]
	}
	return ""
}

// recover walks the fallback chain in strict order: cached result set,
// then synthetic deck, then a terminal user-visible error. No re-request.
func (s *Service) recover(ctx context.Context, a *Attempt, cause error) {
	a.setState(StateRecovering)

	status := upstreamStatus(cause)
	s.logger.Error("Acquisition failed, entering recovery",
		zap.String("attempt_id", a.ID),
		zap.Strings("identities", domain.IdentityStrings(a.Identities)),
		zap.Int("upstream_status", status),
		zap.Error(cause),
	)

	cached, loadErr := s.store.Load(ctx)
	if loadErr != nil {
		// Corrupt cache is swallowed: same as no cache at all.
		s.logger.Warn("Cached result set unusable", zap.Error(loadErr))
		cached = nil
	}
	if cached != nil && len(cached.Cards) > 0 {
		cached.DiscardSoloReport()
		s.logger.Info("Recovered from cache",
			zap.String("attempt_id", a.ID),
			zap.Int("cards", len(cached.Cards)),
		)
		s.resolve(ctx, a, domain.Outcome{
			Status:     domain.StatusReady,
			Source:     domain.SourceCache,
			Cards:      cached.Cards,
			TeamReport: cached.TeamReport,
		})
		return
	}

	if s.synthetic != nil {
		if cards := s.synthetic.BuildDeck(ctx, a.Identities); len(cards) > 0 {
			s.logger.Info("Recovered with synthetic deck",
				zap.String("attempt_id", a.ID),
				zap.Int("cards", len(cards)),
			)
			s.resolve(ctx, a, domain.Outcome{
				Status: domain.StatusReady,
				Source: domain.SourceSynthetic,
				Cards:  cards,
			})
			return
		}
	}

	terminal := errors.NewNoFallbackError(
		terminalMessage(cause, status),
		status,
		domain.IdentityStrings(a.Identities),
		cause,
	)

	s.resolve(ctx, a, domain.Outcome{
		Status: domain.StatusError,
		Source: domain.SourceNone,
		Error:  terminal.Message,
	})
}

// resolve finalizes the attempt. The liveness token gates the mutation:
// a cancelled attempt stays un-resolved and its updates are dropped.
func (s *Service) resolve(ctx context.Context, a *Attempt, out domain.Outcome) {
	if !a.token.Alive() {
		s.logger.Debug("Dropping resolution of superseded attempt",
			zap.String("attempt_id", a.ID),
		)
		return
	}

	a.Estimator.Resolve()
	out.Progress = 100
	a.setOutcome(out)
	a.setState(StateResolved)

	s.logger.Info("Attempt resolved",
		zap.String("attempt_id", a.ID),
		zap.String("status", string(out.Status)),
		zap.String("source", string(out.Source)),
		zap.Int("cards", len(out.Cards)),
	)

	if s.history != nil {
		rec := AttemptRecord{
			AttemptID:  a.ID,
			Identities: domain.IdentityStrings(a.Identities),
			Status:     out.Status,
			Source:     out.Source,
			CardCount:  len(out.Cards),
			Error:      out.Error,
			ResolvedAt: time.Now(),
		}
		if err := s.history.Record(ctx, rec); err != nil {
			s.logger.Warn("Failed to record attempt history", zap.Error(err))
		}
	}
}

// upstreamStatus digs the backend status code out of the failure chain,
// 0 when the failure never reached the backend.
func upstreamStatus(err error) int {
	for err != nil {
		switch e := err.(type) {
		case *errors.APIError:
			return e.StatusCode
		case *errors.QuestError:
			err = e.Cause
		default:
			return 0
		}
	}
	return 0
}

// terminalMessage builds the user-visible description of an exhausted
// recovery chain, naming the upstream status when one is known and the
// failing identity for validation failures.
func terminalMessage(cause error, status int) string {
	if vErr, ok := cause.(*errors.ValidationError); ok {
		return vErr.Message
	}
	if status > 0 {
		return fmt.Sprintf("API 오류 (%d) - 결과를 불러오지 못했습니다.", status)
	}
	return "API 오류 (네트워크) - 결과를 불러오지 못했습니다."
}
