package controller

import (
	"context"
	"log/slog"
	"sync"

	"github.com/CosmoTheDev/scamshield/internal/api"
	"github.com/CosmoTheDev/scamshield/internal/config"
	"github.com/CosmoTheDev/scamshield/models"
)

// DetailView is the modal list opened by a drill-down.
type DetailView struct {
	Open    bool
	Title   string
	Filter  models.FilterSelection
	Loading bool
	// Reports is empty both when nothing matched and when the fetch failed.
	Reports []models.ReportRecord
}

// TrendsState is a snapshot of the trends view.
type TrendsState struct {
	// Loading is the page-level state. It blocks drill-downs.
	Loading bool
	// Snapshot stays nil when loading failed.
	Snapshot *models.TrendsSnapshot
	Detail   DetailView
}

// TrendsExplorer loads aggregate statistics once and drills down into the
// reports behind a chart point or slice. The detail view always reflects the
// most recently initiated drill-down.
type TrendsExplorer struct {
	api   TrendsSource
	limit int
	hooks Hooks

	mu     sync.Mutex
	loaded bool
	seq    sequence
	state  TrendsState
	wg     sync.WaitGroup
}

func NewTrendsExplorer(src TrendsSource, cfg config.TrendsConfig, hooks Hooks) *TrendsExplorer {
	return &TrendsExplorer{api: src, limit: cfg.DrillDownLimit, hooks: hooks}
}

// Load fetches the snapshot. Only the first call does anything; a failed load
// is not retried.
func (e *TrendsExplorer) Load(ctx context.Context) bool {
	e.mu.Lock()
	if e.loaded {
		e.mu.Unlock()
		return false
	}
	e.loaded = true
	e.state.Loading = true
	e.wg.Add(1)
	e.mu.Unlock()
	e.hooks.changed()

	go func() {
		defer e.wg.Done()
		snap, err := e.api.Stats(ctx)
		if err != nil {
			slog.Warn("trends: loading stats failed", "kind", api.Kind(err), "error", err)
		}
		e.mu.Lock()
		e.state.Loading = false
		e.state.Snapshot = snap
		e.mu.Unlock()
		e.hooks.changed()
	}()
	return true
}

// SelectTrendPoint drills down into the day at index i of the time series.
func (e *TrendsExplorer) SelectTrendPoint(ctx context.Context, i int) error {
	e.mu.Lock()
	snap := e.state.Snapshot
	e.mu.Unlock()
	if snap == nil || i < 0 || i >= len(snap.Trend) {
		return ErrNoSuchPoint
	}
	filter, err := models.ByDate(snap.Trend[i].Date)
	if err != nil {
		return err
	}
	return e.DrillDown(ctx, filter)
}

// SelectCategory drills down into the category slice at index i.
func (e *TrendsExplorer) SelectCategory(ctx context.Context, i int) error {
	e.mu.Lock()
	snap := e.state.Snapshot
	e.mu.Unlock()
	if snap == nil || i < 0 || i >= len(snap.Categories) {
		return ErrNoSuchPoint
	}
	return e.DrillDown(ctx, models.ByCategory(snap.Categories[i].Name))
}

// DrillDown opens the detail view for filter and fetches its reports.
func (e *TrendsExplorer) DrillDown(ctx context.Context, filter models.FilterSelection) error {
	if err := filter.Validate(); err != nil {
		return err
	}

	e.mu.Lock()
	if e.state.Loading {
		e.mu.Unlock()
		return ErrTrendsLoading
	}
	token := e.seq.next()
	e.state.Detail = DetailView{
		Open:    true,
		Title:   filter.Title(),
		Filter:  filter,
		Loading: true,
	}
	e.wg.Add(1)
	e.mu.Unlock()
	e.hooks.changed()

	go func() {
		defer e.wg.Done()
		reports, err := e.api.RecentReports(ctx, e.limit, filter)
		if err != nil {
			slog.Warn("trends: drill-down failed",
				"filter", filter.Title(), "kind", api.Kind(err), "error", err)
			reports = nil
		}

		e.mu.Lock()
		if !e.seq.current(token) {
			e.mu.Unlock()
			slog.Debug("trends: discarding stale drill-down", "filter", filter.Title())
			return
		}
		e.state.Detail.Loading = false
		e.state.Detail.Reports = reports
		e.mu.Unlock()
		e.hooks.changed()
	}()
	return nil
}

// CloseDetail hides the detail view and discards any pending drill-down.
func (e *TrendsExplorer) CloseDetail() {
	e.mu.Lock()
	e.seq.invalidate()
	e.state.Detail = DetailView{}
	e.mu.Unlock()
	e.hooks.changed()
}

func (e *TrendsExplorer) State() TrendsState {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.state
	if s.Snapshot != nil {
		snap := *s.Snapshot
		s.Snapshot = &snap
	}
	s.Detail.Reports = append([]models.ReportRecord(nil), e.state.Detail.Reports...)
	return s
}

// Wait blocks until the stats load and all drill-downs have completed.
func (e *TrendsExplorer) Wait() {
	e.wg.Wait()
}
