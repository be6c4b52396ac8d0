package tui

import (
	"context"
	"sync"
	"time"

	"github.com/CosmoTheDev/scamshield/internal/config"
	"github.com/CosmoTheDev/scamshield/internal/controller"
	"github.com/CosmoTheDev/scamshield/models"
)

// fakeBackend answers every endpoint from memory and counts calls.
type fakeBackend struct {
	mu         sync.Mutex
	scans      []string
	feedCalls  int
	drillCalls []models.FilterSelection
	statsCalls int
	stats      models.TrendsSnapshot
}

func (b *fakeBackend) Scan(ctx context.Context, query string) (*models.ScanResult, error) {
	b.mu.Lock()
	b.scans = append(b.scans, query)
	b.mu.Unlock()
	return &models.ScanResult{RiskScore: 82, Level: models.RiskCritical, Reasons: []string{"reported 4 times"}, Reports: []models.ReportRecord{}}, nil
}

func (b *fakeBackend) SubmitReport(ctx context.Context, d models.ReportDraft) error {
	return nil
}

func (b *fakeBackend) RecentReports(ctx context.Context, limit int, filter models.FilterSelection) ([]models.ReportRecord, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if filter.IsZero() {
		b.feedCalls++
	} else {
		b.drillCalls = append(b.drillCalls, filter)
	}
	return []models.ReportRecord{{ScammerIdentifier: "fraud@ybl", Category: models.CategoryUPI}}, nil
}

func (b *fakeBackend) Stats(ctx context.Context) (*models.TrendsSnapshot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.statsCalls++
	snap := b.stats
	return &snap, nil
}

func (b *fakeBackend) FeedCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.feedCalls
}

func (b *fakeBackend) StatsCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.statsCalls
}

func (b *fakeBackend) DrillCalls() []models.FilterSelection {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.FilterSelection(nil), b.drillCalls...)
}

// manualScheduler drives every poller it has scheduled from simulated time.
type manualScheduler struct {
	mu       sync.Mutex
	interval time.Duration
	jobs     []*scheduledJob
}

type scheduledJob struct {
	run     func()
	elapsed time.Duration
	stopped bool
}

func (s *manualScheduler) Every(interval time.Duration, job func()) func() {
	j := &scheduledJob{run: job}
	s.mu.Lock()
	s.interval = interval
	s.jobs = append(s.jobs, j)
	s.mu.Unlock()
	job()
	return func() {
		s.mu.Lock()
		j.stopped = true
		s.mu.Unlock()
	}
}

// Advance moves simulated time forward by d for every live job.
func (s *manualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	jobs := append([]*scheduledJob(nil), s.jobs...)
	s.mu.Unlock()

	for _, j := range jobs {
		s.mu.Lock()
		if j.stopped {
			s.mu.Unlock()
			continue
		}
		before := j.elapsed / s.interval
		j.elapsed += d
		n := j.elapsed/s.interval - before
		s.mu.Unlock()
		for i := time.Duration(0); i < n; i++ {
			j.run()
		}
	}
}

// Live returns how many scheduled jobs have not been stopped.
func (s *manualScheduler) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, j := range s.jobs {
		if !j.stopped {
			n++
		}
	}
	return n
}

var testFeedConfig = config.FeedConfig{PollInterval: 10 * time.Second, Limit: 10}

func newTestScanModel(b *fakeBackend, sched *manualScheduler) (ScanModel, *controller.ScanController) {
	scan := controller.NewScanController(b, controller.Hooks{})
	m := NewScanModel(context.Background(), scan, func() *controller.LiveFeedPoller {
		return controller.NewLiveFeedPoller(b, testFeedConfig, sched, controller.Hooks{})
	})
	return m, scan
}
