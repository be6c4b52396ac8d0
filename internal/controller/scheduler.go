package controller

import (
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs job now and then every interval until stop is called.
// Implementations must not run job concurrently with itself and must run it
// no more than once per interval boundary.
type Scheduler interface {
	Every(interval time.Duration, job func()) (stop func())
}

// CronScheduler is the production Scheduler backed by robfig/cron. A tick
// that fires while the previous run is still going is skipped.
type CronScheduler struct {
	Logger *slog.Logger
}

func (s CronScheduler) Every(interval time.Duration, job func()) func() {
	logger := cronLogger{l: s.Logger}
	if logger.l == nil {
		logger.l = slog.Default()
	}

	c := cron.New(cron.WithLogger(logger))
	wrapped := cron.NewChain(cron.SkipIfStillRunning(logger)).Then(cron.FuncJob(job))
	c.Schedule(fixedDelay(interval), wrapped)
	c.Start()
	go wrapped.Run()

	var once sync.Once
	return func() {
		once.Do(func() { c.Stop() })
	}
}

// fixedDelay fires exactly interval after the previous activation.
// cron.Every rounds down to whole seconds and the first tick lands early.
type fixedDelay time.Duration

func (d fixedDelay) Next(t time.Time) time.Time {
	return t.Add(time.Duration(d))
}

// cronLogger routes robfig/cron's logging into slog.
type cronLogger struct {
	l *slog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug("cron: "+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
