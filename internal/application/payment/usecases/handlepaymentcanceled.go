package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	appsub "github.com/clubgate/clubgate/internal/application/subscription"
	"github.com/clubgate/clubgate/internal/domain/event"
	"github.com/clubgate/clubgate/internal/domain/invitelink"
	"github.com/clubgate/clubgate/internal/domain/payment"
	vo "github.com/clubgate/clubgate/internal/domain/payment/valueobjects"
	"github.com/clubgate/clubgate/internal/domain/subscription"
	"github.com/clubgate/clubgate/internal/shared/biztime"
	"github.com/clubgate/clubgate/internal/shared/logger"
)

type HandlePaymentCanceledCommand struct {
	ProviderID string
	Reason     string
}

// HandlePaymentCanceledUseCase finalizes a declined or abandoned charge.
// Checkout declines only inform the user. Auto renewal declines count
// against the retry ceiling and, once it is reached, turn renewal off
// and remove the user from the channel.
type HandlePaymentCanceledUseCase struct {
	eventRepo   event.Repository
	paymentRepo payment.Repository
	subRepo     subscription.Repository
	linkRepo    invitelink.Repository
	membership  appsub.Membership
	notifier    appsub.Notifier
	alerts      appsub.AdminAlerts
	logger      logger.Interface
	maxAttempts int
}

func NewHandlePaymentCanceledUseCase(
	eventRepo event.Repository,
	paymentRepo payment.Repository,
	subRepo subscription.Repository,
	linkRepo invitelink.Repository,
	membership appsub.Membership,
	notifier appsub.Notifier,
	alerts appsub.AdminAlerts,
	logger logger.Interface,
	maxAttempts int,
) *HandlePaymentCanceledUseCase {
	if maxAttempts <= 0 {
		maxAttempts = subscription.DefaultMaxRenewalAttempts
	}
	return &HandlePaymentCanceledUseCase{
		eventRepo:   eventRepo,
		paymentRepo: paymentRepo,
		subRepo:     subRepo,
		linkRepo:    linkRepo,
		membership:  membership,
		notifier:    notifier,
		alerts:      alerts,
		logger:      logger,
		maxAttempts: maxAttempts,
	}
}

func (uc *HandlePaymentCanceledUseCase) Execute(ctx context.Context, cmd HandlePaymentCanceledCommand) error {
	now := biztime.NowUTC()
	ledgerID := event.ComposeLedgerID(eventPaymentCanceled, cmd.ProviderID)

	seen, err := uc.eventRepo.Has(ctx, ledgerID)
	if err != nil {
		return fmt.Errorf("failed to check ledger: %w", err)
	}
	if seen {
		uc.logger.Debugw("duplicate payment.canceled delivery", "provider_id", cmd.ProviderID)
		return nil
	}

	p, err := uc.paymentRepo.GetByProviderID(ctx, cmd.ProviderID)
	if err != nil {
		if errors.Is(err, payment.ErrPaymentNotFound) {
			uc.logger.Warnw("cancellation for unknown payment, ignoring", "provider_id", cmd.ProviderID)
			return nil
		}
		return fmt.Errorf("failed to load payment: %w", err)
	}

	// Already finalized, e.g. by a synchronous decline during the
	// renewal poll. The failure is counted exactly once.
	if p.Status().IsFinal() {
		uc.recordLedger(ctx, now, cmd.ProviderID)
		return nil
	}

	category := vo.ClassifyCancellationReason(cmd.Reason)

	if err := p.MarkAsCanceled(cmd.Reason, now); err != nil {
		return fmt.Errorf("failed to cancel payment: %w", err)
	}
	p.Metadata()["cancellation_category"] = category.String()
	if err := uc.paymentRepo.Update(ctx, p); err != nil {
		return fmt.Errorf("failed to persist payment: %w", err)
	}

	switch p.Purpose() {
	case vo.PaymentPurposeCheckout:
		// A user who abandoned a repeat checkout while their current
		// window is still open does not need to hear about it.
		if !uc.hasActiveSubscription(ctx, p.UserID(), now) {
			if err := uc.notifier.NotifyPaymentCanceled(ctx, p.UserID(), category); err != nil {
				uc.logger.Warnw("failed to notify about canceled payment", "user_id", p.UserID(), "error", err)
			}
		}
	case vo.PaymentPurposeAutoRenewal:
		if err := uc.countRenewalFailure(ctx, p.UserID(), now); err != nil {
			return err
		}
	}

	uc.recordLedger(ctx, now, cmd.ProviderID)

	uc.logger.Infow("payment canceled",
		"user_id", p.UserID(),
		"provider_id", cmd.ProviderID,
		"purpose", p.Purpose(),
		"reason", cmd.Reason,
		"category", category)

	return nil
}

func (uc *HandlePaymentCanceledUseCase) hasActiveSubscription(ctx context.Context, userID int64, now time.Time) bool {
	sub, err := uc.subRepo.GetByUserID(ctx, userID)
	if err != nil {
		return false
	}
	return sub.IsActiveAt(now)
}

func (uc *HandlePaymentCanceledUseCase) countRenewalFailure(ctx context.Context, userID int64, now time.Time) error {
	sub, err := uc.subRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, subscription.ErrSubscriptionNotFound) {
			uc.logger.Warnw("renewal decline for user without subscription", "user_id", userID)
			return nil
		}
		return fmt.Errorf("failed to load subscription: %w", err)
	}

	sub.RecordRenewalFailure(now)

	exhausted := sub.AutoRenewalAttempts() >= uc.maxAttempts
	if exhausted {
		sub.DisableAutoRenewal(now)
		// The exhaustion notice is this episode's terminal message. The
		// flag keeps the enforcement loop from expelling and messaging
		// the same user a second time.
		sub.MarkExpiredNotified(now)
	}

	if err := uc.subRepo.Upsert(ctx, sub); err != nil {
		return fmt.Errorf("failed to persist subscription: %w", err)
	}

	if !exhausted {
		if err := uc.notifier.NotifyRenewalFailed(ctx, userID); err != nil {
			uc.logger.Warnw("failed to notify about renewal failure", "user_id", userID, "error", err)
		}
		uc.logger.Infow("renewal attempt failed",
			"user_id", userID,
			"attempts", sub.AutoRenewalAttempts(),
			"max_attempts", uc.maxAttempts)
		return nil
	}

	uc.revokeLinks(ctx, userID, now)

	if err := uc.membership.BanChatMember(ctx, userID); err != nil {
		uc.logger.Errorw("failed to remove user after exhausted renewals", "user_id", userID, "error", err)
	}
	if err := uc.notifier.NotifyRenewalExhausted(ctx, userID); err != nil {
		uc.logger.Warnw("failed to notify about exhausted renewals", "user_id", userID, "error", err)
	}
	if uc.alerts.Enabled() {
		if err := uc.alerts.SendRenewalExhaustedAlert(userID, sub.AutoRenewalAttempts()); err != nil {
			uc.logger.Warnw("failed to send admin alert", "user_id", userID, "error", err)
		}
	}

	uc.logger.Infow("auto renewal exhausted, access removed",
		"user_id", userID,
		"attempts", sub.AutoRenewalAttempts())

	return nil
}

func (uc *HandlePaymentCanceledUseCase) revokeLinks(ctx context.Context, userID int64, now time.Time) {
	links, err := uc.linkRepo.FindActiveByUserID(ctx, userID)
	if err != nil {
		uc.logger.Warnw("failed to list invite links", "user_id", userID, "error", err)
		return
	}
	for _, link := range links {
		if err := uc.membership.RevokeChatInviteLink(ctx, link.URL()); err != nil {
			uc.logger.Warnw("failed to revoke invite link", "user_id", userID, "error", err)
		}
		link.Revoke(now)
		if err := uc.linkRepo.Update(ctx, link); err != nil {
			uc.logger.Warnw("failed to persist revoked invite link", "user_id", userID, "error", err)
		}
	}
}

func (uc *HandlePaymentCanceledUseCase) recordLedger(ctx context.Context, now time.Time, providerID string) {
	e, err := event.NewProcessedEvent(eventPaymentCanceled, providerID, now)
	if err != nil {
		return
	}
	if err := uc.eventRepo.Record(ctx, e); err != nil && !errors.Is(err, event.ErrEventAlreadyProcessed) {
		uc.logger.Warnw("failed to record processed event", "provider_id", providerID, "error", err)
	}
}
