package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"complaintdesk/internal/notify"
)

// Scheduler enqueues periodic notification work. Currently a single job: the
// morning digest of complaints still awaiting triage.
type Scheduler struct {
	cron  *cron.Cron
	queue *notify.Queue
	log   zerolog.Logger
}

func NewScheduler(queue *notify.Queue, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:  cron.New(cron.WithSeconds()),
		queue: queue,
		log:   log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 0 8 * * *", s.enqueueDigest); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop halts the cron loop, waiting briefly for any running job.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
	}
}

func (s *Scheduler) enqueueDigest() {
	s.queue.PendingDigest(context.Background())
	s.log.Debug().Msg("pending digest enqueued")
}
