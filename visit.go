package pagecrawl

import (
	"context"
	"time"
)

// VisitStatus is the terminal outcome of a WorkItem.
type VisitStatus string

// Visit outcomes.
const (
	VisitSaved  VisitStatus = "saved"
	VisitEmpty  VisitStatus = "empty"
	VisitFailed VisitStatus = "failed"
)

// Run represents one crawl run recorded in the manifest.
type Run struct {
	ID         string    `json:"id"`
	BaseURL    string    `json:"baseUrl"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	Saved      int       `json:"saved"`
	Empty      int       `json:"empty"`
	Failed     int       `json:"failed"`
}

// Validate returns an error if the run contains invalid fields.
func (r *Run) Validate() error {
	if r.BaseURL == "" {
		return Errorf(EINVALID, "run base URL required")
	}
	return nil
}

// Visit records the outcome of crawling a single URL.
type Visit struct {
	ID          string      `json:"id"`
	RunID       string      `json:"runId"`
	URL         string      `json:"url"`
	Depth       int         `json:"depth"`
	Path        string      `json:"path"`
	ContentHash string      `json:"contentHash"`
	Status      VisitStatus `json:"status"`
	Attempts    int         `json:"attempts"`
	Error       string      `json:"error"`
	VisitedAt   time.Time   `json:"visitedAt"`
}

// Validate returns an error if the visit contains invalid fields.
func (v *Visit) Validate() error {
	if v.RunID == "" {
		return Errorf(EINVALID, "visit run ID required")
	}
	if v.URL == "" {
		return Errorf(EINVALID, "visit URL required")
	}
	switch v.Status {
	case VisitSaved, VisitEmpty, VisitFailed:
	default:
		return Errorf(EINVALID, "unknown visit status %q", v.Status)
	}
	return nil
}

// VisitService records crawl runs and their per-URL outcomes.
type VisitService interface {
	// CreateRun stores a new run and assigns its ID.
	CreateRun(ctx context.Context, run *Run) error

	// FinishRun stores the final counters of a run.
	// Returns ENOTFOUND if the run does not exist.
	FinishRun(ctx context.Context, run *Run) error

	// RecordVisit stores the outcome of a single URL.
	RecordVisit(ctx context.Context, visit *Visit) error

	// FindVisits returns the visits of a run in the order they were recorded.
	FindVisits(ctx context.Context, runID string) ([]*Visit, error)
}
