package scheduler

import (
	"context"
	"sync"
	"time"

	subscriptionUsecases "github.com/clubgate/clubgate/internal/application/subscription/usecases"
	"github.com/clubgate/clubgate/internal/shared/logger"
)

// ReminderScheduler sends the "expiring soon" notices. Hourly is enough:
// the use case widens its search window past the interval so nothing
// slips between two passes.
type ReminderScheduler struct {
	remindExpiringUC *subscriptionUsecases.RemindExpiringUseCase
	logger           logger.Interface
	stopChan         chan struct{}
	stopOnce         sync.Once
	wg               sync.WaitGroup
	interval         time.Duration
}

func NewReminderScheduler(
	remindExpiringUC *subscriptionUsecases.RemindExpiringUseCase,
	logger logger.Interface,
	interval time.Duration,
) *ReminderScheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	return &ReminderScheduler{
		remindExpiringUC: remindExpiringUC,
		logger:           logger,
		stopChan:         make(chan struct{}),
		interval:         interval,
	}
}

func (s *ReminderScheduler) Start(ctx context.Context) {
	s.logger.Infow("starting reminder scheduler", "interval", s.interval)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runLoop(ctx)
	}()
}

func (s *ReminderScheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Infow("stopping reminder scheduler")
		close(s.stopChan)
		s.wg.Wait()
		s.logger.Infow("reminder scheduler stopped")
	})
}

func (s *ReminderScheduler) runLoop(ctx context.Context) {
	s.remind(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Infow("reminder scheduler stopped due to context cancellation")
			return
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.remind(ctx)
		}
	}
}

func (s *ReminderScheduler) remind(ctx context.Context) {
	if err := s.remindExpiringUC.Execute(ctx); err != nil {
		s.logger.Errorw("failed to send expiry reminders", "error", err)
	}
}
