package scheduler

import (
	"context"
	"sync"
	"time"

	subscriptionUsecases "github.com/clubgate/clubgate/internal/application/subscription/usecases"
	"github.com/clubgate/clubgate/internal/shared/logger"
)

// SubscriptionScheduler drives the expiry enforcement loop. The interval
// is aggressive because it bounds how long a lapsed user stays inside the
// channel; the per-user cooldown inside the use case keeps the actual
// work rate sane.
type SubscriptionScheduler struct {
	processExpiredUC *subscriptionUsecases.ProcessExpiredUseCase
	logger           logger.Interface
	stopChan         chan struct{}
	stopOnce         sync.Once
	wg               sync.WaitGroup
	interval         time.Duration
}

func NewSubscriptionScheduler(
	processExpiredUC *subscriptionUsecases.ProcessExpiredUseCase,
	logger logger.Interface,
	interval time.Duration,
) *SubscriptionScheduler {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &SubscriptionScheduler{
		processExpiredUC: processExpiredUC,
		logger:           logger,
		stopChan:         make(chan struct{}),
		interval:         interval,
	}
}

func (s *SubscriptionScheduler) Start(ctx context.Context) {
	s.logger.Infow("starting subscription scheduler", "interval", s.interval)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runLoop(ctx)
	}()
}

func (s *SubscriptionScheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Infow("stopping subscription scheduler")
		close(s.stopChan)
		s.wg.Wait()
		s.logger.Infow("subscription scheduler stopped")
	})
}

func (s *SubscriptionScheduler) runLoop(ctx context.Context) {
	s.processExpired(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Infow("subscription scheduler stopped due to context cancellation")
			return
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.processExpired(ctx)
		}
	}
}

func (s *SubscriptionScheduler) processExpired(ctx context.Context) {
	if err := s.processExpiredUC.Execute(ctx); err != nil {
		s.logger.Errorw("failed to process expired subscriptions", "error", err)
	}
}
