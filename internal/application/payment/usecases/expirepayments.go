package usecases

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	apppayment "github.com/clubgate/clubgate/internal/application/payment"
	appsub "github.com/clubgate/clubgate/internal/application/subscription"
	"github.com/clubgate/clubgate/internal/domain/payment"
	vo "github.com/clubgate/clubgate/internal/domain/payment/valueobjects"
	"github.com/clubgate/clubgate/internal/domain/subscription"
	"github.com/clubgate/clubgate/internal/shared/biztime"
	"github.com/clubgate/clubgate/internal/shared/logger"
)

const (
	expireBatchSize      = 100
	expireNoticeCacheMax = 10000
)

// ExpirePaymentsUseCase sweeps pending payments whose checkout link has
// lapsed. Each one is re-queried at the provider first, so a payment that
// completed while the webhook was lost still grants access. Delegating
// the outcome to the webhook handlers keeps both delivery paths behind
// the same ledger.
type ExpirePaymentsUseCase struct {
	paymentRepo payment.Repository
	subRepo     subscription.Repository
	gateway     apppayment.Gateway
	succeeded   *HandlePaymentSucceededUseCase
	canceled    *HandlePaymentCanceledUseCase
	notifier    appsub.Notifier
	logger      logger.Interface
	linkTTL     time.Duration
	ceiling     time.Duration

	// Expiry notices are per payment, once. The map is cleared wholesale
	// when it grows past the cap; a rare repeat notice beats unbounded
	// growth.
	noticeMu sync.Mutex
	noticed  map[string]struct{}
}

func NewExpirePaymentsUseCase(
	paymentRepo payment.Repository,
	subRepo subscription.Repository,
	gateway apppayment.Gateway,
	succeeded *HandlePaymentSucceededUseCase,
	canceled *HandlePaymentCanceledUseCase,
	notifier appsub.Notifier,
	logger logger.Interface,
	linkTTL time.Duration,
	ceiling time.Duration,
) *ExpirePaymentsUseCase {
	return &ExpirePaymentsUseCase{
		paymentRepo: paymentRepo,
		subRepo:     subRepo,
		gateway:     gateway,
		succeeded:   succeeded,
		canceled:    canceled,
		notifier:    notifier,
		logger:      logger,
		linkTTL:     linkTTL,
		ceiling:     ceiling,
		noticed:     make(map[string]struct{}),
	}
}

func (uc *ExpirePaymentsUseCase) Execute(ctx context.Context) error {
	now := biztime.NowUTC()
	cutoff := now.Add(-uc.linkTTL)

	stale, err := uc.paymentRepo.FindStalePending(ctx, cutoff, expireBatchSize)
	if err != nil {
		return fmt.Errorf("failed to list stale payments: %w", err)
	}

	for _, p := range stale {
		if err := uc.processStale(ctx, p, now); err != nil {
			uc.logger.Errorw("failed to process stale payment",
				"provider_id", p.ProviderID(),
				"user_id", p.UserID(),
				"error", err)
		}
	}

	return nil
}

func (uc *ExpirePaymentsUseCase) processStale(ctx context.Context, p *payment.Payment, now time.Time) error {
	// Past the ceiling the provider is no longer consulted. Whatever
	// happened there, this record is a dead end locally.
	if now.Sub(p.CreatedAt()) >= uc.ceiling {
		return uc.expireLocally(ctx, p, now)
	}

	info, err := uc.gateway.GetCharge(ctx, p.ProviderID())
	if err != nil {
		return fmt.Errorf("failed to query charge: %w", err)
	}

	switch {
	case info.Status == apppayment.ChargeStatusSucceeded && info.Paid:
		uc.logger.Infow("stale payment completed at provider, recovering",
			"provider_id", p.ProviderID(),
			"user_id", p.UserID())
		return uc.succeeded.Execute(ctx, HandlePaymentSucceededCommand{ProviderID: p.ProviderID()})
	case info.Status == apppayment.ChargeStatusCanceled:
		return uc.canceled.Execute(ctx, HandlePaymentCanceledCommand{
			ProviderID: p.ProviderID(),
			Reason:     info.CancellationReason,
		})
	default:
		return uc.expireLocally(ctx, p, now)
	}
}

func (uc *ExpirePaymentsUseCase) expireLocally(ctx context.Context, p *payment.Payment, now time.Time) error {
	if err := p.MarkAsExpired(now); err != nil {
		return err
	}
	if err := uc.paymentRepo.Update(ctx, p); err != nil {
		return fmt.Errorf("failed to persist payment: %w", err)
	}

	if p.Purpose() == vo.PaymentPurposeCheckout &&
		!uc.hasActiveSubscription(ctx, p.UserID(), now) &&
		!uc.alreadyNoticed(p.ProviderID()) {
		if err := uc.notifier.NotifyPaymentCanceled(ctx, p.UserID(), vo.CancellationAbandoned); err != nil {
			uc.logger.Warnw("failed to notify about expired payment link",
				"user_id", p.UserID(), "error", err)
		}
	}

	uc.logger.Infow("stale payment expired",
		"provider_id", p.ProviderID(),
		"user_id", p.UserID())
	return nil
}

func (uc *ExpirePaymentsUseCase) hasActiveSubscription(ctx context.Context, userID int64, now time.Time) bool {
	sub, err := uc.subRepo.GetByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, subscription.ErrSubscriptionNotFound) {
			uc.logger.Warnw("failed to load subscription", "user_id", userID, "error", err)
		}
		return false
	}
	return sub.IsActiveAt(now)
}

func (uc *ExpirePaymentsUseCase) alreadyNoticed(providerID string) bool {
	uc.noticeMu.Lock()
	defer uc.noticeMu.Unlock()

	if _, ok := uc.noticed[providerID]; ok {
		return true
	}
	if len(uc.noticed) >= expireNoticeCacheMax {
		uc.noticed = make(map[string]struct{})
	}
	uc.noticed[providerID] = struct{}{}
	return false
}
