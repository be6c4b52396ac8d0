package controller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/CosmoTheDev/scamshield/internal/api"
	"github.com/CosmoTheDev/scamshield/internal/config"
	"github.com/CosmoTheDev/scamshield/models"
)

// FeedState is a snapshot of the live ticker.
type FeedState struct {
	Running bool
	// Records is the latest successfully fetched page, newest first. It is
	// never cleared by a failed fetch.
	Records     []models.ReportRecord
	LastUpdated time.Time
	// Failures counts consecutive failed fetches.
	Failures int
}

// LiveFeedPoller keeps the most recent reports fresh by polling on a fixed
// interval. Start acquires the schedule and Stop releases it. A poller is
// used for a single Start/Stop cycle.
type LiveFeedPoller struct {
	api      RecentReporter
	sched    Scheduler
	interval time.Duration
	limit    int
	hooks    Hooks

	mu      sync.Mutex
	started bool
	running bool
	ctx     context.Context
	cancel  context.CancelFunc
	stop    func()
	state   FeedState
}

func NewLiveFeedPoller(src RecentReporter, cfg config.FeedConfig, sched Scheduler, hooks Hooks) *LiveFeedPoller {
	if sched == nil {
		sched = CronScheduler{}
	}
	return &LiveFeedPoller{
		api:      src,
		sched:    sched,
		interval: cfg.PollInterval,
		limit:    cfg.Limit,
		hooks:    hooks,
	}
}

// Start fetches immediately and then on every interval until Stop is called
// or ctx is cancelled.
func (p *LiveFeedPoller) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return ErrPollerUsed
	}
	p.started = true
	p.running = true
	p.state.Running = true
	p.ctx, p.cancel = context.WithCancel(ctx)
	p.mu.Unlock()

	slog.Debug("feed: polling started", "interval", p.interval, "limit", p.limit)
	stop := p.sched.Every(p.interval, p.tick)

	p.mu.Lock()
	if !p.running {
		// Stop won the race with scheduling.
		p.mu.Unlock()
		stop()
		return nil
	}
	p.stop = stop
	p.mu.Unlock()

	go func() {
		<-p.ctx.Done()
		p.Stop()
	}()
	p.hooks.changed()
	return nil
}

// Stop cancels the schedule and any in-flight fetch. Results that arrive
// afterwards are dropped. Stop is idempotent.
func (p *LiveFeedPoller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	p.state.Running = false
	stop, cancel := p.stop, p.cancel
	p.stop = nil
	p.mu.Unlock()

	cancel()
	if stop != nil {
		stop()
	}
	slog.Debug("feed: polling stopped")
	p.hooks.changed()
}

func (p *LiveFeedPoller) tick() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	ctx := p.ctx
	p.mu.Unlock()

	records, err := p.api.RecentReports(ctx, p.limit, models.FilterSelection{})

	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	if err != nil {
		p.state.Failures++
		failures := p.state.Failures
		p.mu.Unlock()
		slog.Debug("feed: fetch failed; keeping previous records",
			"kind", api.Kind(err), "consecutive_failures", failures, "error", err)
		return
	}
	p.state.Records = records
	p.state.LastUpdated = time.Now()
	p.state.Failures = 0
	p.mu.Unlock()
	p.hooks.changed()
}

func (p *LiveFeedPoller) State() FeedState {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.state
	s.Records = append([]models.ReportRecord(nil), p.state.Records...)
	return s
}
