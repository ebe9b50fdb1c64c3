package scheduler

import (
	"context"
	"sync"
	"time"

	paymentUsecases "github.com/clubgate/clubgate/internal/application/payment/usecases"
	"github.com/clubgate/clubgate/internal/shared/logger"
)

// PaymentScheduler sweeps stale pending payments. The short interval keeps
// the window between a lost webhook and the recovery query small.
type PaymentScheduler struct {
	expirePaymentsUC *paymentUsecases.ExpirePaymentsUseCase
	logger           logger.Interface
	stopChan         chan struct{}
	stopOnce         sync.Once
	wg               sync.WaitGroup
	interval         time.Duration
}

func NewPaymentScheduler(
	expirePaymentsUC *paymentUsecases.ExpirePaymentsUseCase,
	logger logger.Interface,
	interval time.Duration,
) *PaymentScheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &PaymentScheduler{
		expirePaymentsUC: expirePaymentsUC,
		logger:           logger,
		stopChan:         make(chan struct{}),
		interval:         interval,
	}
}

// Start launches the sweep loop. It returns immediately.
func (s *PaymentScheduler) Start(ctx context.Context) {
	s.logger.Infow("starting payment scheduler", "interval", s.interval)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runLoop(ctx)
	}()
}

// Stop stops the scheduler gracefully and waits for the running pass to
// finish. Safe to call multiple times.
func (s *PaymentScheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Infow("stopping payment scheduler")
		close(s.stopChan)
		s.wg.Wait()
		s.logger.Infow("payment scheduler stopped")
	})
}

func (s *PaymentScheduler) runLoop(ctx context.Context) {
	// Run immediately on startup to clear anything left from downtime.
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Infow("payment scheduler stopped due to context cancellation")
			return
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *PaymentScheduler) sweep(ctx context.Context) {
	startTime := time.Now()

	if err := s.expirePaymentsUC.Execute(ctx); err != nil {
		s.logger.Errorw("failed to sweep stale payments",
			"error", err,
			"duration", time.Since(startTime),
		)
	}
}
