package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/quizdeck-dev/quizdeck/internal/logging"
	"github.com/quizdeck-dev/quizdeck/internal/service"
)

// Scheduler runs the reminder sweep on a fixed interval, independent of
// request traffic.
type Scheduler struct {
	notifications *service.NotificationService
	interval      time.Duration
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
}

func NewScheduler(notifications *service.NotificationService, interval time.Duration) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		notifications: notifications,
		interval:      interval,
		ctx:           ctx,
		cancel:        cancel,
	}
}

// Start runs an immediate sweep and then one per interval until Stop.
func (s *Scheduler) Start() {
	logging.L.WithField("interval", s.interval).Info("starting reminder scheduler")

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		s.runSweep()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.runSweep()
			}
		}
	}()
}

// Stop cancels the sweep loop and waits for an in-flight sweep to finish.
func (s *Scheduler) Stop() {
	logging.L.Info("stopping reminder scheduler")
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) runSweep() {
	if err := s.notifications.SweepOverdueQuizzes(s.ctx); err != nil {
		logging.L.WithError(err).Error("reminder sweep failed")
	}
}
