// Package schedule runs periodic maintenance jobs on cron specs.
package schedule

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Entry pairs a job with its spec. An empty spec disables the job.
type Entry struct {
	Job  Job
	Spec string
}

type CronScheduler struct {
	cron    *cron.Cron
	entries map[string]cron.EntryID
	ctx     context.Context
}

func NewCronScheduler() *CronScheduler {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	return &CronScheduler{
		cron:    cron.New(cron.WithParser(parser)),
		entries: make(map[string]cron.EntryID),
		ctx:     context.Background(),
	}
}

// Register adds every entry with a non-empty spec and returns how many were
// scheduled.
func (c *CronScheduler) Register(entries ...Entry) (int, error) {
	added := 0
	for _, e := range entries {
		if e.Spec == "" {
			logutil.GetLogger(context.Background()).Info("job disabled", zap.String("job", e.Job.Name()))
			continue
		}
		if err := c.AddJob(e.Job, e.Spec); err != nil {
			return added, fmt.Errorf("schedule %s: %w", e.Job.Name(), err)
		}
		added++
	}
	return added, nil
}

func (c *CronScheduler) AddJob(job Job, spec string) error {
	name := job.Name()
	if _, ok := c.entries[name]; ok {
		return fmt.Errorf("job %s already scheduled", name)
	}
	entryID, err := c.cron.AddFunc(spec, c.wrap(job, spec))
	if err != nil {
		return err
	}
	c.entries[name] = entryID
	logutil.GetLogger(context.Background()).Info("job scheduled", zap.String("job", name), zap.String("spec", spec))
	return nil
}

// Start runs jobs with ctx until Stop. ctx should outlive the scheduler.
func (c *CronScheduler) Start(ctx context.Context) {
	if ctx != nil {
		c.ctx = ctx
	}
	c.cron.Start()
}

// Stop waits for running jobs to return.
func (c *CronScheduler) Stop() {
	<-c.cron.Stop().Done()
}

func (c *CronScheduler) wrap(job Job, spec string) func() {
	var running atomic.Bool
	return func() {
		logger := logutil.GetLogger(c.ctx).With(zap.String("job", job.Name()), zap.String("spec", spec))
		if !running.CompareAndSwap(false, true) {
			logger.Info("job skipped: still running")
			return
		}
		defer running.Store(false)

		start := time.Now()
		err := job.Run(c.ctx)
		elapsed := time.Since(start)
		if err != nil {
			logger.Error("job failed", zap.Error(err), zap.Duration("duration", elapsed))
			return
		}
		logger.Debug("job finished", zap.Duration("duration", elapsed))
	}
}
