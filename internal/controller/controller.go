// Package controller holds the four stateful components behind the
// ScamShield client: scanning, report submission, the live feed and the
// trends explorer. Each owns its state exclusively, runs network work on
// goroutines and exposes read-only snapshots through State().
package controller

import (
	"context"
	"errors"

	"github.com/CosmoTheDev/scamshield/models"
)

// Scanner issues risk lookups.
type Scanner interface {
	Scan(ctx context.Context, query string) (*models.ScanResult, error)
}

// ReportSubmitter files community reports.
type ReportSubmitter interface {
	SubmitReport(ctx context.Context, draft models.ReportDraft) error
}

// RecentReporter lists the most recent reports, optionally filtered.
type RecentReporter interface {
	RecentReports(ctx context.Context, limit int, filter models.FilterSelection) ([]models.ReportRecord, error)
}

// TrendsSource is what the trends explorer needs from the backend.
type TrendsSource interface {
	RecentReporter
	Stats(ctx context.Context) (*models.TrendsSnapshot, error)
}

// Recorder receives every applied scan result and every submission outcome.
type Recorder interface {
	RecordScan(ctx context.Context, result models.ScanResult) error
	RecordSubmission(ctx context.Context, draft models.ReportDraft, accepted bool) error
}

// Hooks connect a controller to its surroundings. Both fields are optional.
type Hooks struct {
	// OnChange runs after every observable state change, outside any lock.
	OnChange func()
	Recorder Recorder
}

func (h Hooks) changed() {
	if h.OnChange != nil {
		h.OnChange()
	}
}

var (
	ErrEmptyDraft       = errors.New("report draft is empty")
	ErrSubmitInFlight   = errors.New("a report submission is already in flight")
	ErrAlreadySubmitted = errors.New("report already submitted; start another first")
	ErrTrendsLoading    = errors.New("trends are still loading")
	ErrNoSuchPoint      = errors.New("no such data point")
	ErrPollerUsed       = errors.New("feed poller has already been started")
)

// sequence hands out monotonically increasing request tokens. A response is
// applied only while its token is still the latest one issued. Callers hold
// the owning controller's mutex.
type sequence struct {
	n uint64
}

func (s *sequence) next() uint64 {
	s.n++
	return s.n
}

func (s *sequence) current(token uint64) bool {
	return token == s.n
}

// invalidate makes every outstanding token stale.
func (s *sequence) invalidate() {
	s.n++
}
