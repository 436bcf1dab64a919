// Package quest owns one acquisition attempt end to end: the batch call
// to the generator, validation and mapping of every record, the
// cache-then-synthetic recovery chain, and the progress estimate shown
// while all of that is in flight.
package quest

import (
	"sync"
	"sync/atomic"

	"github.com/haneul/card-quest-go/internal/domain"
)

// State of one acquisition attempt. Resolved is terminal; retries start
// a fresh attempt rather than reusing this one.
type State string

const (
	StateIdle       State = "idle"
	StateRequesting State = "requesting"
	StateSucceeded  State = "succeeded"
	StateRecovering State = "recovering"
	StateResolved   State = "resolved"
)

// Token is the liveness flag owned by one attempt. Every timer callback
// and request continuation checks it before touching shared state, so a
// superseded attempt orphans its late updates instead of clobbering the
// attempt that replaced it.
type Token struct {
	alive atomic.Bool
}

func NewToken() *Token {
	t := &Token{}
	t.alive.Store(true)
	return t
}

func (t *Token) Cancel() {
	t.alive.Store(false)
}

func (t *Token) Alive() bool {
	return t.alive.Load()
}

// Attempt is one full acquisition cycle from request issuance to
// resolution.
type Attempt struct {
	ID         string
	Identities []domain.Identity
	Estimator  *Estimator

	token *Token

	mu      sync.RWMutex
	state   State
	outcome domain.Outcome
}

func newAttempt(id string, identities []domain.Identity) *Attempt {
	return &Attempt{
		ID:         id,
		Identities: identities,
		Estimator:  NewEstimator(len(identities)),
		token:      NewToken(),
		state:      StateIdle,
		outcome: domain.Outcome{
			Status: domain.StatusLoading,
			Source: domain.SourceNone,
		},
	}
}

// Cancel orphans the attempt: late continuations see a dead token and
// stop mutating state. The in-flight network call is not torn down.
func (a *Attempt) Cancel() {
	a.token.Cancel()
}

func (a *Attempt) Token() *Token {
	return a.token
}

func (a *Attempt) State() State {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

func (a *Attempt) setState(s State) {
	a.mu.Lock()
	a.state = s
	a.mu.Unlock()
}

// Outcome snapshots the attempt for the presentation layer, with the
// live progress figure folded in.
func (a *Attempt) Outcome() domain.Outcome {
	a.mu.RLock()
	out := a.outcome
	a.mu.RUnlock()

	out.Progress = a.Estimator.Display()
	return out
}

func (a *Attempt) setOutcome(out domain.Outcome) {
	a.mu.Lock()
	a.outcome = out
	a.mu.Unlock()
}

// Resolved reports whether the attempt reached its terminal state.
func (a *Attempt) Resolved() bool {
	return a.State() == StateResolved
}
