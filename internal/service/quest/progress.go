package quest

import (
	"math"
	"sync"
	"time"

	"github.com/haneul/card-quest-go/internal/constants"
	"github.com/haneul/card-quest-go/internal/util"
)

// Loading step labels rotated while an attempt is in flight.
var loadingSteps = []string{
	"ANALYZING GITHUB PROFILE",
	"CALCULATING STATS",
	"GENERATING CHARACTER",
	"CREATING CARD",
	"FINALIZING DATA",
}

// Estimator blends two signals into one displayable percentage: an
// elapsed-time model that climbs toward a ceiling, and confirmed
// per-identity completions. The displayed value never decreases within
// one attempt and is forced to 100 on resolution.
type Estimator struct {
	mu        sync.Mutex
	start     time.Time
	estimated time.Duration
	total     int
	completed int
	resolved  bool
	peak      float64

	now func() time.Time
}

func NewEstimator(identityCount int) *Estimator {
	e := &Estimator{
		total:     identityCount,
		estimated: EstimateDuration(identityCount),
		now:       time.Now,
	}
	e.start = e.now()
	return e
}

// EstimateDuration scales the expected wall-clock total with the number
// of identities: 15s for one, 40s for six, linear in between.
func EstimateDuration(identityCount int) time.Duration {
	cfg := constants.ProgressConfig

	if identityCount <= 1 {
		return cfg.MinDuration
	}
	if identityCount >= cfg.MaxPlayersEst {
		return cfg.MaxDuration
	}

	span := float64(cfg.MaxDuration - cfg.MinDuration)
	ratio := float64(identityCount-1) / float64(cfg.MaxPlayersEst-1)
	return cfg.MinDuration + time.Duration(ratio*span)
}

// ReportCompleted confirms one more identity finished server-side.
func (e *Estimator) ReportCompleted() {
	e.mu.Lock()
	if e.completed < e.total {
		e.completed++
	}
	e.mu.Unlock()
}

// Resolve pins progress at 100 for the rest of the attempt's life.
func (e *Estimator) Resolve() {
	e.mu.Lock()
	e.resolved = true
	e.peak = 100
	e.mu.Unlock()
}

// Display returns the authoritative percentage in [0,100]:
// min(100, max(elapsedComponent, reportedComponent)), monotonic
// non-decreasing for the lifetime of the attempt.
func (e *Estimator) Display() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.resolved {
		return 100
	}

	display := util.ClampFloat(math.Max(e.elapsedComponent(), e.reportedComponent()), 0, 100)
	if display > e.peak {
		e.peak = display
	}

	return int(e.peak)
}

// Pulse is the cosmetic liveness value: once the elapsed model sits at
// its ceiling it oscillates in a narrow band below the authoritative
// figure so the bar does not look frozen. Never authoritative, never
// affects Display.
func (e *Estimator) Pulse() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.resolved {
		return 100
	}

	cfg := constants.ProgressConfig
	if e.elapsedComponent() < cfg.ElapsedCeiling {
		return int(e.peak)
	}

	elapsed := e.now().Sub(e.start).Seconds()
	offset := (math.Sin(elapsed*2*math.Pi/3) + 1) / 2 * cfg.WobbleBand
	return int(util.ClampFloat(e.peak-offset, 0, 100))
}

// StepLabel rotates through the loading step captions on a fixed cadence.
func (e *Estimator) StepLabel() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	elapsed := e.now().Sub(e.start)
	idx := int(elapsed/constants.ProgressConfig.StepInterval) % len(loadingSteps)
	return loadingSteps[idx]
}

func (e *Estimator) elapsedComponent() float64 {
	cfg := constants.ProgressConfig

	elapsed := e.now().Sub(e.start)
	if e.estimated <= 0 {
		return cfg.ElapsedCeiling
	}

	ratio := float64(elapsed) / float64(e.estimated)
	return math.Min(cfg.ElapsedCeiling, ratio*cfg.ElapsedCeiling)
}

func (e *Estimator) reportedComponent() float64 {
	if e.total <= 0 {
		return 0
	}
	return float64(e.completed) / float64(e.total) * 100
}
