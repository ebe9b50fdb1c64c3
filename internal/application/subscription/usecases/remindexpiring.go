package usecases

import (
	"context"
	"fmt"
	"time"

	appsub "github.com/clubgate/clubgate/internal/application/subscription"
	"github.com/clubgate/clubgate/internal/domain/subscription"
	"github.com/clubgate/clubgate/internal/shared/biztime"
	"github.com/clubgate/clubgate/internal/shared/logger"
)

// RemindExpiringConfig positions the reminder window. Offset is how far
// ahead of expiry the reminder lands, tolerance widens it so an hourly
// pass cannot step over a subscription between runs.
type RemindExpiringConfig struct {
	Offset      time.Duration
	Tolerance   time.Duration
	DedupMaxIDs int
}

// RemindExpiringUseCase sends the "expiring soon" notice. The dedup set
// is in-memory only, so a restart may repeat a reminder. That is the
// accepted trade-off for not persisting reminder state.
type RemindExpiringUseCase struct {
	subRepo  subscription.Repository
	notifier appsub.Notifier
	logger   logger.Interface

	cfg   RemindExpiringConfig
	dedup *boundedSet
}

func NewRemindExpiringUseCase(
	subRepo subscription.Repository,
	notifier appsub.Notifier,
	logger logger.Interface,
	cfg RemindExpiringConfig,
) *RemindExpiringUseCase {
	return &RemindExpiringUseCase{
		subRepo:  subRepo,
		notifier: notifier,
		logger:   logger,
		cfg:      cfg,
		dedup:    newBoundedSet(cfg.DedupMaxIDs),
	}
}

func (uc *RemindExpiringUseCase) Execute(ctx context.Context) error {
	now := biztime.NowUTC()
	from := now.Add(uc.cfg.Offset - uc.cfg.Tolerance)
	to := now.Add(uc.cfg.Offset + uc.cfg.Tolerance)

	expiring, err := uc.subRepo.FindExpiringBetween(ctx, from, to)
	if err != nil {
		return fmt.Errorf("failed to list expiring subscriptions: %w", err)
	}

	for _, sub := range expiring {
		if uc.dedup.Has(sub.UserID()) {
			continue
		}
		// A failed delivery stays unrecorded so the next pass tries again.
		if err := uc.notifier.NotifyExpiringSoon(ctx, sub.UserID(), sub.ExpiresAt(), sub.AutoRenewalEnabled()); err != nil {
			uc.logger.Warnw("failed to send expiry reminder", "user_id", sub.UserID(), "error", err)
			continue
		}
		uc.dedup.Record(sub.UserID())
		uc.logger.Infow("expiry reminder sent",
			"user_id", sub.UserID(),
			"expires_at", sub.ExpiresAt(),
			"auto_renewal", sub.AutoRenewalEnabled())
	}

	return nil
}
