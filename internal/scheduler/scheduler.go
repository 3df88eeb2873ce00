// Package scheduler runs the daily summary job at a fixed wall-clock time.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Daily at 23:00 local time.
const dailySpec = "0 23 * * *"

type Scheduler struct {
	cron    *cron.Cron
	ctx     context.Context
	cancel  context.CancelFunc
	jobFunc func(ctx context.Context)
	log     zerolog.Logger
}

func New(log zerolog.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(time.Local)),
		ctx:    ctx,
		cancel: cancel,
		log:    log,
	}
}

// SetJob sets the function invoked on each daily firing.
func (s *Scheduler) SetJob(f func(ctx context.Context)) {
	s.jobFunc = f
}

func (s *Scheduler) Start() error {
	if s.jobFunc == nil {
		s.log.Warn().Msg("no job configured, scheduler idle")
		return nil
	}

	_, err := s.cron.AddFunc(dailySpec, func() {
		s.log.Info().Msg("daily summary job triggered")
		s.jobFunc(s.ctx)
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info().Str("schedule", dailySpec).Msg("scheduler started")
	return nil
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.log.Info().Msg("scheduler stopped")
}
