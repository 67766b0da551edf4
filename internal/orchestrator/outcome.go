package orchestrator

// Status tags the result of one unit's translation attempt. Soft failures
// are values, not exceptions: the caller decides what a degraded unit
// means for the rest of the document.
type Status int

const (
	// StatusSuccess means the backend produced an accepted translation.
	StatusSuccess Status = iota
	// StatusDegraded means all attempts were rejected and the original
	// text was substituted; the unit should be flagged for review.
	StatusDegraded
	// StatusFatal means the backend raised an unrecoverable error after
	// exhausting retries on every available backend.
	StatusFatal
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusDegraded:
		return "degraded"
	case StatusFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Outcome is the tagged result of one unit's round trip.
type Outcome struct {
	Status   Status
	Text     string // translated text, or the original when degraded
	Reason   string
	Backend  string // backend that produced the final result
	Attempts int
	Err      error // set only for StatusFatal
}
