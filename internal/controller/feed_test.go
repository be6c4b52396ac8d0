package controller

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/CosmoTheDev/scamshield/internal/config"
	"github.com/CosmoTheDev/scamshield/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var feedConfig = config.FeedConfig{PollInterval: 10 * time.Second, Limit: 10}

func feedRecords(ids ...string) []models.ReportRecord {
	out := make([]models.ReportRecord, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.ReportRecord{ScammerIdentifier: id, Category: models.CategoryPhone})
	}
	return out
}

func TestFeedFetchesOncePerBoundary(t *testing.T) {
	src := newFakeReports()
	src.set(models.FilterSelection{}, feedRecords("a", "b"), nil)
	sched := &manualScheduler{}
	p := NewLiveFeedPoller(src, feedConfig, sched, Hooks{})

	require.NoError(t, p.Start(context.Background()))
	defer p.Stop()
	assert.Len(t, src.Calls(), 1, "fetch at t=0")

	sched.Advance(5 * time.Second)
	assert.Len(t, src.Calls(), 1)
	sched.Advance(5 * time.Second)
	assert.Len(t, src.Calls(), 2)
	sched.Advance(25 * time.Second)
	assert.Len(t, src.Calls(), 4)

	for _, call := range src.Calls() {
		assert.Equal(t, 10, call.limit)
		assert.True(t, call.filter.IsZero())
	}
	assert.Equal(t, feedRecords("a", "b"), p.State().Records)
	assert.True(t, p.State().Running)
}

func TestFeedFailuresKeepPreviousRecords(t *testing.T) {
	src := newFakeReports()
	src.set(models.FilterSelection{}, feedRecords("a", "b", "c"), nil)
	sched := &manualScheduler{}
	p := NewLiveFeedPoller(src, feedConfig, sched, Hooks{})

	require.NoError(t, p.Start(context.Background()))
	defer p.Stop()
	before := p.State().Records
	require.Len(t, before, 3)

	src.set(models.FilterSelection{}, nil, errUnreachable)
	for i := 1; i <= 3; i++ {
		sched.Advance(10 * time.Second)
		st := p.State()
		assert.Equal(t, before, st.Records)
		assert.Equal(t, i, st.Failures)
	}

	src.set(models.FilterSelection{}, feedRecords("d"), nil)
	sched.Advance(10 * time.Second)
	assert.Equal(t, feedRecords("d"), p.State().Records)
	assert.Zero(t, p.State().Failures)
}

func TestFeedStopHaltsFetching(t *testing.T) {
	src := newFakeReports()
	sched := &manualScheduler{}
	p := NewLiveFeedPoller(src, feedConfig, sched, Hooks{})

	require.NoError(t, p.Start(context.Background()))
	p.Stop()
	p.Stop()

	assert.True(t, sched.Stopped())
	sched.Advance(time.Hour)
	assert.Len(t, src.Calls(), 1)
	assert.False(t, p.State().Running)

	assert.ErrorIs(t, p.Start(context.Background()), ErrPollerUsed)
}

func TestFeedDropsResponseArrivingAfterStop(t *testing.T) {
	src := newFakeReports()
	src.set(models.FilterSelection{}, feedRecords("old"), nil)
	sched := &manualScheduler{}
	p := NewLiveFeedPoller(src, feedConfig, sched, Hooks{})
	require.NoError(t, p.Start(context.Background()))

	gate := make(chan struct{})
	src.setGate(models.FilterSelection{}, gate)
	src.set(models.FilterSelection{}, feedRecords("new"), nil)

	done := make(chan struct{})
	go func() {
		sched.Advance(10 * time.Second)
		close(done)
	}()
	require.Eventually(t, func() bool { return len(src.Calls()) == 2 }, time.Second, 5*time.Millisecond)

	p.Stop()
	close(gate)
	<-done

	assert.Equal(t, feedRecords("old"), p.State().Records)
}

func TestFeedStopsWhenContextCancelled(t *testing.T) {
	src := newFakeReports()
	sched := &manualScheduler{}
	p := NewLiveFeedPoller(src, feedConfig, sched, Hooks{})

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, p.Start(ctx))
	cancel()

	require.Eventually(t, func() bool { return !p.State().Running }, time.Second, 5*time.Millisecond)
	assert.True(t, sched.Stopped())
}

func TestCronSchedulerWaitsFullIntervalBeforeFirstTick(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for a cron interval")
	}
	const interval = 1500 * time.Millisecond
	runs := make(chan time.Time, 4)
	stop := CronScheduler{}.Every(interval, func() { runs <- time.Now() })
	defer stop()

	first := <-runs
	select {
	case second := <-runs:
		assert.GreaterOrEqual(t, second.Sub(first), interval-20*time.Millisecond)
	case <-time.After(3 * interval):
		t.Fatal("no scheduled run after the immediate one")
	}
}

func TestFixedDelayNext(t *testing.T) {
	base := time.Date(2026, 10, 16, 9, 0, 0, 700*int(time.Millisecond), time.UTC)
	assert.Equal(t, base.Add(10*time.Second), fixedDelay(10*time.Second).Next(base))
}

func TestCronSchedulerRunsImmediatelyAndStops(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for a cron interval")
	}
	var runs atomic.Int32
	stop := CronScheduler{}.Every(2*time.Second, func() { runs.Add(1) })

	require.Eventually(t, func() bool { return runs.Load() == 1 }, 500*time.Millisecond, 5*time.Millisecond)
	stop()
	stop()

	time.Sleep(2500 * time.Millisecond)
	assert.Equal(t, int32(1), runs.Load())
}
