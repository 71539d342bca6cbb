// Package jobs runs the background work: the nightly accrual sweep.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"paygrow/internal/services/investment"
)

type Scheduler struct {
	cron        *cron.Cron
	investments *investment.Service
}

func NewScheduler(investments *investment.Service) *Scheduler {
	return &Scheduler{
		cron:        cron.New(),
		investments: investments,
	}
}

// Start registers the sweep on the given cron schedule and starts the
// scheduler.
func (s *Scheduler) Start(ctx context.Context, schedule string) error {
	_, err := s.cron.AddFunc(schedule, func() {
		log.Info("accrual sweep starting")
		res, err := s.investments.RunSweep(ctx, time.Now())
		if err != nil {
			log.WithError(err).Error("accrual sweep failed")
			return
		}
		log.WithFields(log.Fields{
			"processed": res.Processed,
			"skipped":   res.Skipped,
		}).Info("accrual sweep done")
	})
	if err != nil {
		return fmt.Errorf("failed to schedule accrual sweep: %w", err)
	}

	s.cron.Start()
	log.WithField("schedule", schedule).Info("scheduler started")
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
