package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Job is a unit of background work. Errors are logged, never retried.
type Job func(ctx context.Context) error

type Scheduler struct {
	c       *cron.Cron
	log     logrus.FieldLogger
	timeout time.Duration
}

// New builds a scheduler whose jobs never overlap with themselves and
// are cut off after timeout.
func New(log logrus.FieldLogger, timeout time.Duration) *Scheduler {
	cl := cron.PrintfLogger(log)
	return &Scheduler{
		c:       cron.New(cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		log:     log,
		timeout: timeout,
	}
}

func (s *Scheduler) Add(name, spec string, job Job) error {
	_, err := s.c.AddFunc(spec, s.wrap(name, job))
	if err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"job": name, "spec": spec}).Info("scheduler: job registered")
	return nil
}

func (s *Scheduler) wrap(name string, job Job) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		start := time.Now()
		entry := s.log.WithField("job", name)
		if err := job(ctx); err != nil {
			entry.WithError(err).Error("scheduler: job failed")
			return
		}
		entry.WithField("took", time.Since(start).String()).Info("scheduler: job done")
	}
}

func (s *Scheduler) Entries() int { return len(s.c.Entries()) }

func (s *Scheduler) Start() { s.c.Start() }

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() { <-s.c.Stop().Done() }
