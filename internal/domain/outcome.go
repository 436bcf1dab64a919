package domain

// AttemptStatus is the coarse status the presentation layer renders.
type AttemptStatus string

const (
	StatusLoading AttemptStatus = "loading"
	StatusReady   AttemptStatus = "ready"
	StatusError   AttemptStatus = "error"
)

// ResultSource records which rung of the recovery chain produced the
// resolved result set.
type ResultSource string

const (
	SourceLive      ResultSource = "live"
	SourceCache     ResultSource = "cache"
	SourceSynthetic ResultSource = "synthetic"
	SourceNone      ResultSource = "none"
)

// Outcome is the resolved state of one acquisition attempt.
type Outcome struct {
	Status     AttemptStatus `json:"status"`
	Source     ResultSource  `json:"source"`
	Cards      []Card        `json:"cards"`
	TeamReport *TeamReport   `json:"teamReport,omitempty"`
	Progress   int           `json:"progress"`
	Error      string        `json:"error,omitempty"`
}
