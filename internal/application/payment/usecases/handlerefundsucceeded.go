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

type HandleRefundSucceededCommand struct {
	RefundID          string
	ProviderPaymentID string
	AmountKopecks     int64
	Currency          string
}

// HandleRefundSucceededUseCase revokes access when a payment is refunded.
// The access window is cut to now rather than deleted, so the record of
// the subscription survives for audit.
type HandleRefundSucceededUseCase struct {
	eventRepo   event.Repository
	paymentRepo payment.Repository
	subRepo     subscription.Repository
	linkRepo    invitelink.Repository
	membership  appsub.Membership
	notifier    appsub.Notifier
	alerts      appsub.AdminAlerts
	logger      logger.Interface
}

func NewHandleRefundSucceededUseCase(
	eventRepo event.Repository,
	paymentRepo payment.Repository,
	subRepo subscription.Repository,
	linkRepo invitelink.Repository,
	membership appsub.Membership,
	notifier appsub.Notifier,
	alerts appsub.AdminAlerts,
	logger logger.Interface,
) *HandleRefundSucceededUseCase {
	return &HandleRefundSucceededUseCase{
		eventRepo:   eventRepo,
		paymentRepo: paymentRepo,
		subRepo:     subRepo,
		linkRepo:    linkRepo,
		membership:  membership,
		notifier:    notifier,
		alerts:      alerts,
		logger:      logger,
	}
}

func (uc *HandleRefundSucceededUseCase) Execute(ctx context.Context, cmd HandleRefundSucceededCommand) error {
	now := biztime.NowUTC()
	ledgerID := event.ComposeLedgerID(eventRefundSucceeded, cmd.RefundID)

	seen, err := uc.eventRepo.Has(ctx, ledgerID)
	if err != nil {
		return fmt.Errorf("failed to check ledger: %w", err)
	}
	if seen {
		uc.logger.Debugw("duplicate refund.succeeded delivery", "refund_id", cmd.RefundID)
		return nil
	}

	p, err := uc.paymentRepo.GetByProviderID(ctx, cmd.ProviderPaymentID)
	if err != nil {
		if errors.Is(err, payment.ErrPaymentNotFound) {
			uc.logger.Warnw("refund for unknown payment, ignoring",
				"refund_id", cmd.RefundID,
				"provider_payment_id", cmd.ProviderPaymentID)
			return nil
		}
		return fmt.Errorf("failed to load payment: %w", err)
	}

	sub, err := uc.subRepo.GetByUserID(ctx, p.UserID())
	if err != nil {
		if errors.Is(err, subscription.ErrSubscriptionNotFound) {
			uc.logger.Warnw("refund for user without subscription", "user_id", p.UserID())
			uc.recordLedger(ctx, now, cmd.RefundID)
			return nil
		}
		return fmt.Errorf("failed to load subscription: %w", err)
	}

	sub.RevokeAccess(now)
	if err := uc.subRepo.Upsert(ctx, sub); err != nil {
		return fmt.Errorf("failed to persist subscription: %w", err)
	}

	if err := uc.membership.BanChatMember(ctx, p.UserID()); err != nil {
		uc.logger.Errorw("failed to remove refunded user", "user_id", p.UserID(), "error", err)
	}
	uc.revokeLinks(ctx, p.UserID(), now)

	refunded := vo.NewMoney(cmd.AmountKopecks, cmd.Currency)
	if err := uc.notifier.NotifyAccessRevoked(ctx, p.UserID(), refunded); err != nil {
		uc.logger.Warnw("failed to notify about revoked access", "user_id", p.UserID(), "error", err)
	}
	if uc.alerts.Enabled() {
		if err := uc.alerts.SendRefundAlert(p.UserID(), cmd.ProviderPaymentID, now); err != nil {
			uc.logger.Warnw("failed to send admin alert", "user_id", p.UserID(), "error", err)
		}
	}

	uc.recordLedger(ctx, now, cmd.RefundID)

	uc.logger.Infow("refund processed, access revoked",
		"user_id", p.UserID(),
		"refund_id", cmd.RefundID,
		"provider_payment_id", cmd.ProviderPaymentID,
		"refunded", refunded.String())

	return nil
}

func (uc *HandleRefundSucceededUseCase) revokeLinks(ctx context.Context, userID int64, now time.Time) {
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

func (uc *HandleRefundSucceededUseCase) recordLedger(ctx context.Context, now time.Time, refundID string) {
	e, err := event.NewProcessedEvent(eventRefundSucceeded, refundID, now)
	if err != nil {
		return
	}
	if err := uc.eventRepo.Record(ctx, e); err != nil && !errors.Is(err, event.ErrEventAlreadyProcessed) {
		uc.logger.Warnw("failed to record processed event", "refund_id", refundID, "error", err)
	}
}
