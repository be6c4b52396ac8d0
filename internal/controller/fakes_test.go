package controller

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/CosmoTheDev/scamshield/internal/api"
	"github.com/CosmoTheDev/scamshield/models"
)

var errBackendDown = &api.StatusError{Endpoint: "/test", StatusCode: 503, Message: "unavailable"}

var errUnreachable = &api.TransportError{Endpoint: "/test", Err: errors.New("connection refused")}

// fakeScanner answers scans per query. A query with a gate blocks until the
// gate is closed.
type fakeScanner struct {
	mu      sync.Mutex
	calls   []string
	gates   map[string]chan struct{}
	results map[string]*models.ScanResult
	err     error
}

func newFakeScanner() *fakeScanner {
	return &fakeScanner{
		gates:   map[string]chan struct{}{},
		results: map[string]*models.ScanResult{},
	}
}

func (f *fakeScanner) Scan(ctx context.Context, query string) (*models.ScanResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, query)
	gate, res, err := f.gates[query], f.results[query], f.err
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	if res == nil {
		res = &models.ScanResult{RiskScore: 5, Level: models.RiskSafe, Reports: []models.ReportRecord{}, Reasons: []string{}}
	}
	out := *res
	return &out, nil
}

func (f *fakeScanner) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type fakeSubmitter struct {
	mu     sync.Mutex
	drafts []models.ReportDraft
	gate   chan struct{}
	err    error
}

func (f *fakeSubmitter) SubmitReport(ctx context.Context, d models.ReportDraft) error {
	f.mu.Lock()
	f.drafts = append(f.drafts, d)
	gate, err := f.gate, f.err
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return err
}

func (f *fakeSubmitter) setErr(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

func (f *fakeSubmitter) Drafts() []models.ReportDraft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.ReportDraft(nil), f.drafts...)
}

type recentCall struct {
	limit  int
	filter models.FilterSelection
}

// fakeReports serves recent reports keyed by filter and, optionally, stats.
type fakeReports struct {
	mu      sync.Mutex
	calls   []recentCall
	results map[models.FilterSelection][]models.ReportRecord
	gates   map[models.FilterSelection]chan struct{}
	err     error

	statsCalls int
	stats      *models.TrendsSnapshot
	statsErr   error
	statsGate  chan struct{}
}

func newFakeReports() *fakeReports {
	return &fakeReports{
		results: map[models.FilterSelection][]models.ReportRecord{},
		gates:   map[models.FilterSelection]chan struct{}{},
	}
}

func (f *fakeReports) RecentReports(ctx context.Context, limit int, filter models.FilterSelection) ([]models.ReportRecord, error) {
	f.mu.Lock()
	f.calls = append(f.calls, recentCall{limit: limit, filter: filter})
	gate := f.gates[filter]
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]models.ReportRecord(nil), f.results[filter]...), nil
}

func (f *fakeReports) Stats(ctx context.Context) (*models.TrendsSnapshot, error) {
	f.mu.Lock()
	f.statsCalls++
	gate := f.statsGate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.statsErr != nil {
		return nil, f.statsErr
	}
	snap := *f.stats
	return &snap, nil
}

func (f *fakeReports) set(filter models.FilterSelection, records []models.ReportRecord, err error) {
	f.mu.Lock()
	f.results[filter] = records
	f.err = err
	f.mu.Unlock()
}

func (f *fakeReports) setGate(filter models.FilterSelection, gate chan struct{}) {
	f.mu.Lock()
	f.gates[filter] = gate
	f.mu.Unlock()
}

func (f *fakeReports) Calls() []recentCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recentCall(nil), f.calls...)
}

func (f *fakeReports) StatsCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.statsCalls
}

type recordedSubmission struct {
	draft    models.ReportDraft
	accepted bool
}

type fakeRecorder struct {
	mu    sync.Mutex
	scans []models.ScanResult
	subs  []recordedSubmission
}

func (r *fakeRecorder) RecordScan(ctx context.Context, res models.ScanResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scans = append(r.scans, res)
	return nil
}

func (r *fakeRecorder) RecordSubmission(ctx context.Context, d models.ReportDraft, accepted bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs = append(r.subs, recordedSubmission{draft: d, accepted: accepted})
	return nil
}

func (r *fakeRecorder) Scans() []models.ScanResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.ScanResult(nil), r.scans...)
}

func (r *fakeRecorder) Submissions() []recordedSubmission {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recordedSubmission(nil), r.subs...)
}

// manualScheduler drives a job from simulated time.
type manualScheduler struct {
	mu       sync.Mutex
	job      func()
	interval time.Duration
	elapsed  time.Duration
	stopped  bool
}

func (s *manualScheduler) Every(interval time.Duration, job func()) func() {
	s.mu.Lock()
	s.job, s.interval = job, interval
	s.mu.Unlock()
	job()
	return func() {
		s.mu.Lock()
		s.stopped = true
		s.mu.Unlock()
	}
}

// Advance moves simulated time forward by d, running the job once for every
// interval boundary crossed.
func (s *manualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	before := s.elapsed / s.interval
	s.elapsed += d
	after := s.elapsed / s.interval
	s.mu.Unlock()

	for i := before; i < after; i++ {
		s.mu.Lock()
		job, stopped := s.job, s.stopped
		s.mu.Unlock()
		if stopped {
			return
		}
		job()
	}
}

func (s *manualScheduler) Stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

type changeCounter struct {
	mu sync.Mutex
	n  int
}

func (c *changeCounter) hook() {
	c.mu.Lock()
	c.n++
	c.mu.Unlock()
}

func (c *changeCounter) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}
