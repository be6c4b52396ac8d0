package controller

import (
	"context"
	"log/slog"
	"sync"

	"github.com/CosmoTheDev/scamshield/internal/api"
	"github.com/CosmoTheDev/scamshield/models"
)

// SubmitStatus is the state of the report form.
type SubmitStatus int

const (
	StatusIdle SubmitStatus = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s SubmitStatus) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// ReportState is a snapshot of the report form.
type ReportState struct {
	Status SubmitStatus
	Draft  models.ReportDraft
}

// ReportSubmitController owns the report draft and its submission.
//
//	idle --Submit--> loading --ok--> success --SubmitAnother--> idle
//	                 loading --fail--> error --Submit--> loading
//
// On success the draft is reset. On failure it is kept unchanged for a retry.
type ReportSubmitController struct {
	api   ReportSubmitter
	hooks Hooks

	mu    sync.Mutex
	state ReportState
	wg    sync.WaitGroup
}

func NewReportSubmitController(submitter ReportSubmitter, hooks Hooks) *ReportSubmitController {
	return &ReportSubmitController{
		api:   submitter,
		hooks: hooks,
		state: ReportState{Status: StatusIdle, Draft: models.NewReportDraft()},
	}
}

func (c *ReportSubmitController) SetValue(v string) error {
	return c.edit(func(d *models.ReportDraft) { d.Value = v })
}

func (c *ReportSubmitController) SetType(t models.Category) error {
	if !t.Valid() {
		return models.ErrUnknownCategory
	}
	return c.edit(func(d *models.ReportDraft) { d.Type = t })
}

func (c *ReportSubmitController) SetDescription(v string) error {
	return c.edit(func(d *models.ReportDraft) { d.Description = v })
}

// SetDraft replaces the whole draft.
func (c *ReportSubmitController) SetDraft(d models.ReportDraft) error {
	if d.Type != "" && !d.Type.Valid() {
		return models.ErrUnknownCategory
	}
	return c.edit(func(cur *models.ReportDraft) {
		*cur = d
		if cur.Type == "" {
			cur.Type = models.CategoryPhone
		}
	})
}

// edit applies fn unless the draft is locked by an in-flight or completed
// submission.
func (c *ReportSubmitController) edit(fn func(*models.ReportDraft)) error {
	c.mu.Lock()
	switch c.state.Status {
	case StatusLoading:
		c.mu.Unlock()
		return ErrSubmitInFlight
	case StatusSuccess:
		c.mu.Unlock()
		return ErrAlreadySubmitted
	}
	before := c.state.Draft
	fn(&c.state.Draft)
	changed := before != c.state.Draft
	c.mu.Unlock()
	if changed {
		c.hooks.changed()
	}
	return nil
}

// Submit validates the draft and starts the submission. Validation failures
// and illegal transitions are returned synchronously and issue no request.
func (c *ReportSubmitController) Submit(ctx context.Context) error {
	c.mu.Lock()
	switch c.state.Status {
	case StatusLoading:
		c.mu.Unlock()
		return ErrSubmitInFlight
	case StatusSuccess:
		c.mu.Unlock()
		return ErrAlreadySubmitted
	}
	draft := c.state.Draft
	if draft.IsEmpty() {
		c.mu.Unlock()
		return ErrEmptyDraft
	}
	if err := draft.Validate(); err != nil {
		c.mu.Unlock()
		return err
	}
	c.state.Status = StatusLoading
	c.wg.Add(1)
	c.mu.Unlock()
	c.hooks.changed()

	go c.run(ctx, draft)
	return nil
}

func (c *ReportSubmitController) run(ctx context.Context, draft models.ReportDraft) {
	defer c.wg.Done()

	err := c.api.SubmitReport(ctx, draft)
	c.mu.Lock()
	if err != nil {
		slog.Warn("report submission failed",
			"type", draft.Type, "kind", api.Kind(err), "error", err)
		c.state.Status = StatusError
	} else {
		slog.Info("report submitted", "type", draft.Type)
		c.state.Status = StatusSuccess
		c.state.Draft = models.NewReportDraft()
	}
	c.mu.Unlock()

	if c.hooks.Recorder != nil {
		if rerr := c.hooks.Recorder.RecordSubmission(context.WithoutCancel(ctx), draft, err == nil); rerr != nil {
			slog.Warn("report: recording submission failed", "error", rerr)
		}
	}
	c.hooks.changed()
}

// SubmitAnother leaves the success state for a fresh, empty form. It reports
// false in any other state.
func (c *ReportSubmitController) SubmitAnother() bool {
	c.mu.Lock()
	if c.state.Status != StatusSuccess {
		c.mu.Unlock()
		return false
	}
	c.state = ReportState{Status: StatusIdle, Draft: models.NewReportDraft()}
	c.mu.Unlock()
	c.hooks.changed()
	return true
}

func (c *ReportSubmitController) State() ReportState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Wait blocks until the in-flight submission, if any, has completed.
func (c *ReportSubmitController) Wait() {
	c.wg.Wait()
}
