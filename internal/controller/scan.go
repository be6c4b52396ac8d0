package controller

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/CosmoTheDev/scamshield/internal/api"
	"github.com/CosmoTheDev/scamshield/models"
)

// ScanState is a snapshot of the scan view.
type ScanState struct {
	Loading bool
	// Query is the trimmed value of the most recent scan.
	Query  string
	Result *models.ScanResult
}

// ScanController runs scans. Failures never escape: they become the offline
// fallback result. Only the most recently submitted scan may update state.
type ScanController struct {
	api   Scanner
	hooks Hooks

	mu    sync.Mutex
	seq   sequence
	state ScanState
	wg    sync.WaitGroup
}

func NewScanController(scanner Scanner, hooks Hooks) *ScanController {
	return &ScanController{api: scanner, hooks: hooks}
}

// Submit starts a scan for query and returns immediately. A blank query is a
// no-op and Submit reports false.
func (c *ScanController) Submit(ctx context.Context, query string) bool {
	query = strings.TrimSpace(query)
	if query == "" {
		return false
	}

	c.mu.Lock()
	token := c.seq.next()
	c.state.Loading = true
	c.state.Query = query
	c.wg.Add(1)
	c.mu.Unlock()
	c.hooks.changed()

	go c.run(ctx, token, query)
	return true
}

func (c *ScanController) run(ctx context.Context, token uint64, query string) {
	defer c.wg.Done()

	var result models.ScanResult
	res, err := c.api.Scan(ctx, query)
	if err != nil {
		slog.Warn("scan failed; showing offline result",
			"query", query, "kind", api.Kind(err), "error", err)
		result = models.NewFallbackScanResult(query)
	} else {
		result = *res
		result.QueriedValue = query
	}

	c.mu.Lock()
	if !c.seq.current(token) {
		c.mu.Unlock()
		slog.Debug("scan: discarding stale response", "query", query)
		return
	}
	c.state.Loading = false
	c.state.Result = &result
	c.mu.Unlock()

	if c.hooks.Recorder != nil {
		if err := c.hooks.Recorder.RecordScan(context.WithoutCancel(ctx), result); err != nil {
			slog.Warn("scan: recording result failed", "error", err)
		}
	}
	c.hooks.changed()
}

// Clear returns to the empty view. Pending scans are discarded.
func (c *ScanController) Clear() {
	c.mu.Lock()
	c.seq.invalidate()
	c.state = ScanState{}
	c.mu.Unlock()
	c.hooks.changed()
}

func (c *ScanController) State() ScanState {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.state
	if s.Result != nil {
		r := *s.Result
		s.Result = &r
	}
	return s
}

// Wait blocks until every launched scan has completed.
func (c *ScanController) Wait() {
	c.wg.Wait()
}
