package main

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/devstudy/devstudy-backend/internal/content/domain"
	"github.com/devstudy/devstudy-backend/internal/logger"
)

// sweepTimeout bounds a single orphan sweep run.
const sweepTimeout = 10 * time.Minute

// Sweeper removes content whose parent no longer exists.
type Sweeper interface {
	SweepOrphans(ctx context.Context) (map[domain.Collection]int, error)
}

type Scheduler struct {
	cron    *cron.Cron
	sweeper Sweeper
}

// NewScheduler registers the orphan sweep on schedule, a six-field cron
// expression with seconds.
func NewScheduler(schedule string, sweeper Sweeper) (*Scheduler, error) {
	s := &Scheduler{
		cron:    cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		sweeper: sweeper,
	}
	if _, err := s.cron.AddFunc(schedule, s.runSweep); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) Start() { s.cron.Start() }

// Stop halts scheduling; the returned context is done once a running sweep finishes.
func (s *Scheduler) Stop() context.Context { return s.cron.Stop() }

func (s *Scheduler) runSweep() {
	log := logger.WithComponent("worker")
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	start := time.Now()
	removed, err := s.sweeper.SweepOrphans(ctx)
	if err != nil {
		log.Error().Err(err).Msg("orphan sweep failed")
		return
	}

	total := 0
	for _, n := range removed {
		total += n
	}
	log.Info().Int("removed", total).Dur("took", time.Since(start)).Msg("orphan sweep completed")
}
