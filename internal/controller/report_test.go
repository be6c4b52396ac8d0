package controller

import (
	"context"
	"testing"

	"github.com/CosmoTheDev/scamshield/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleDraft = models.ReportDraft{
	Value:       "scammer@okaxis",
	Type:        models.CategoryUPI,
	Description: "Asked for a refund via collect request",
}

func TestReportSuccessResetsDraft(t *testing.T) {
	api := &fakeSubmitter{}
	rec := &fakeRecorder{}
	c := NewReportSubmitController(api, Hooks{Recorder: rec})

	require.NoError(t, c.SetDraft(sampleDraft))
	require.NoError(t, c.Submit(context.Background()))
	c.Wait()

	st := c.State()
	assert.Equal(t, StatusSuccess, st.Status)
	assert.Equal(t, models.NewReportDraft(), st.Draft)
	assert.Equal(t, []models.ReportDraft{sampleDraft}, api.Drafts())
	assert.Equal(t, []recordedSubmission{{draft: sampleDraft, accepted: true}}, rec.Submissions())
}

func TestReportFailurePreservesDraftAndRetries(t *testing.T) {
	api := &fakeSubmitter{err: errBackendDown}
	c := NewReportSubmitController(api, Hooks{})

	require.NoError(t, c.SetValue(sampleDraft.Value))
	require.NoError(t, c.SetType(sampleDraft.Type))
	require.NoError(t, c.SetDescription(sampleDraft.Description))
	require.NoError(t, c.Submit(context.Background()))
	c.Wait()

	st := c.State()
	assert.Equal(t, StatusError, st.Status)
	assert.Equal(t, sampleDraft, st.Draft)

	api.setErr(nil)
	require.NoError(t, c.Submit(context.Background()))
	c.Wait()

	assert.Equal(t, StatusSuccess, c.State().Status)
	assert.Equal(t, []models.ReportDraft{sampleDraft, sampleDraft}, api.Drafts())
}

func TestReportValidationIssuesNoRequest(t *testing.T) {
	api := &fakeSubmitter{}
	c := NewReportSubmitController(api, Hooks{})

	assert.ErrorIs(t, c.Submit(context.Background()), ErrEmptyDraft)

	require.NoError(t, c.SetDescription("called pretending to be the bank"))
	assert.ErrorIs(t, c.Submit(context.Background()), models.ErrDraftValueRequired)

	require.NoError(t, c.SetValue("+919999999999"))
	require.NoError(t, c.SetDescription("  "))
	assert.ErrorIs(t, c.Submit(context.Background()), models.ErrDraftDescriptionRequired)

	assert.ErrorIs(t, c.SetType("email"), models.ErrUnknownCategory)
	assert.Empty(t, api.Drafts())
	assert.Equal(t, StatusIdle, c.State().Status)
}

func TestReportLockedWhileInFlight(t *testing.T) {
	gate := make(chan struct{})
	api := &fakeSubmitter{gate: gate}
	c := NewReportSubmitController(api, Hooks{})

	require.NoError(t, c.SetDraft(sampleDraft))
	require.NoError(t, c.Submit(context.Background()))
	assert.Equal(t, StatusLoading, c.State().Status)

	assert.ErrorIs(t, c.Submit(context.Background()), ErrSubmitInFlight)
	assert.ErrorIs(t, c.SetValue("other"), ErrSubmitInFlight)

	close(gate)
	c.Wait()
	assert.Len(t, api.Drafts(), 1)
}

func TestReportSubmitAnother(t *testing.T) {
	c := NewReportSubmitController(&fakeSubmitter{}, Hooks{})

	assert.False(t, c.SubmitAnother())

	require.NoError(t, c.SetDraft(sampleDraft))
	require.NoError(t, c.Submit(context.Background()))
	c.Wait()

	assert.ErrorIs(t, c.Submit(context.Background()), ErrAlreadySubmitted)
	assert.ErrorIs(t, c.SetValue("x"), ErrAlreadySubmitted)

	assert.True(t, c.SubmitAnother())
	assert.Equal(t, ReportState{Status: StatusIdle, Draft: models.NewReportDraft()}, c.State())
	assert.False(t, c.SubmitAnother())
}

func TestSubmitStatusString(t *testing.T) {
	assert.Equal(t, "idle", StatusIdle.String())
	assert.Equal(t, "loading", StatusLoading.String())
	assert.Equal(t, "success", StatusSuccess.String())
	assert.Equal(t, "error", StatusError.String())
}
