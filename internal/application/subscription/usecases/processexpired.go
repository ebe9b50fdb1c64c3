package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/clubgate/clubgate/internal/application/billing"
	apppayment "github.com/clubgate/clubgate/internal/application/payment"
	payusecases "github.com/clubgate/clubgate/internal/application/payment/usecases"
	appsub "github.com/clubgate/clubgate/internal/application/subscription"
	"github.com/clubgate/clubgate/internal/domain/invitelink"
	"github.com/clubgate/clubgate/internal/domain/payment"
	vo "github.com/clubgate/clubgate/internal/domain/payment/valueobjects"
	"github.com/clubgate/clubgate/internal/domain/subscription"
	"github.com/clubgate/clubgate/internal/shared/biztime"
	"github.com/clubgate/clubgate/internal/shared/goroutine"
	"github.com/clubgate/clubgate/internal/shared/logger"
)

const (
	expiredBatchSize = 100

	// renewalRecheckDelay is how long to wait before the single follow-up
	// query when an auto charge comes back non-terminal.
	renewalRecheckDelay = 30 * time.Second
)

// ProcessExpiredConfig carries the renewal and throttling policy knobs.
type ProcessExpiredConfig struct {
	MaxAttempts    int
	RetryInterval  time.Duration
	Cooldown       time.Duration
	CooldownMaxIDs int
	ReceiptEmail   string
}

// ProcessExpiredUseCase is the enforcement loop. For each lapsed
// subscription it either charges the saved instrument or removes the user
// from the channel. A per-user cooldown keeps the short poll interval from
// stacking work on the same user.
type ProcessExpiredUseCase struct {
	subRepo     subscription.Repository
	paymentRepo payment.Repository
	linkRepo    invitelink.Repository
	pricing     *billing.PricingService
	gateway     apppayment.Gateway
	membership  appsub.Membership
	notifier    appsub.Notifier
	succeeded   *payusecases.HandlePaymentSucceededUseCase
	canceled    *payusecases.HandlePaymentCanceledUseCase
	logger      logger.Interface

	cfg      ProcessExpiredConfig
	cooldown *cooldownTracker
}

func NewProcessExpiredUseCase(
	subRepo subscription.Repository,
	paymentRepo payment.Repository,
	linkRepo invitelink.Repository,
	pricing *billing.PricingService,
	gateway apppayment.Gateway,
	membership appsub.Membership,
	notifier appsub.Notifier,
	succeeded *payusecases.HandlePaymentSucceededUseCase,
	canceled *payusecases.HandlePaymentCanceledUseCase,
	logger logger.Interface,
	cfg ProcessExpiredConfig,
) *ProcessExpiredUseCase {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = subscription.DefaultMaxRenewalAttempts
	}
	return &ProcessExpiredUseCase{
		subRepo:     subRepo,
		paymentRepo: paymentRepo,
		linkRepo:    linkRepo,
		pricing:     pricing,
		gateway:     gateway,
		membership:  membership,
		notifier:    notifier,
		succeeded:   succeeded,
		canceled:    canceled,
		logger:      logger,
		cfg:         cfg,
		cooldown:    newCooldownTracker(cfg.CooldownMaxIDs, cfg.Cooldown),
	}
}

func (uc *ProcessExpiredUseCase) Execute(ctx context.Context) error {
	now := biztime.NowUTC()

	expired, err := uc.subRepo.FindExpired(ctx, now, expiredBatchSize)
	if err != nil {
		return fmt.Errorf("failed to list expired subscriptions: %w", err)
	}

	for _, sub := range expired {
		if uc.cooldown.Throttled(sub.UserID(), now) {
			continue
		}
		if err := uc.processOne(ctx, sub, now); err != nil {
			uc.logger.Errorw("failed to process expired subscription",
				"user_id", sub.UserID(),
				"error", err)
		}
	}

	return nil
}

func (uc *ProcessExpiredUseCase) processOne(ctx context.Context, sub *subscription.Subscription, now time.Time) error {
	ref := sub.SavedInstrumentRef()
	if sub.AutoRenewalEnabled() && ref != nil && sub.CanAttemptRenewal(now, uc.cfg.MaxAttempts, uc.cfg.RetryInterval) {
		return uc.attemptRenewal(ctx, sub, *ref, now)
	}
	return uc.enforceExpiry(ctx, sub, now)
}

// attemptRenewal charges the saved instrument at the standard plan.
// Promotional pricing is a checkout-only affair.
func (uc *ProcessExpiredUseCase) attemptRenewal(ctx context.Context, sub *subscription.Subscription, instrumentRef string, now time.Time) error {
	plan := uc.pricing.StandardPlan()

	p, err := payment.NewPayment(
		sub.UserID(),
		vo.NewMoney(plan.PriceKopecks, plan.Currency),
		vo.PaymentPurposeAutoRenewal,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to build renewal payment: %w", err)
	}
	p.Metadata()["duration_days"] = int(plan.Duration.Hours() / 24)
	p.Metadata()["promotional"] = false

	// The attempt is marked before the charge so a provider outage still
	// counts against the retry interval instead of retrying every pass.
	sub.MarkRenewalAttempt(now)
	if err := uc.subRepo.Upsert(ctx, sub); err != nil {
		return fmt.Errorf("failed to persist renewal attempt: %w", err)
	}

	info, err := uc.gateway.CreateAutoCharge(ctx, apppayment.AutoChargeParams{
		UserID:        sub.UserID(),
		AmountKopecks: plan.PriceKopecks,
		Currency:      plan.Currency,
		Description:   "Продление подписки",
		InstrumentRef: instrumentRef,
		ReceiptEmail:  uc.cfg.ReceiptEmail,
	})
	if err != nil {
		return fmt.Errorf("failed to create auto charge: %w", err)
	}

	if err := p.AttachProviderInfo(info.ProviderID, "", now); err != nil {
		return err
	}
	if err := uc.paymentRepo.Create(ctx, p); err != nil {
		return fmt.Errorf("failed to persist renewal payment: %w", err)
	}

	uc.logger.Infow("auto charge created",
		"user_id", sub.UserID(),
		"provider_id", info.ProviderID,
		"attempt", sub.AutoRenewalAttempts()+1,
		"status", info.Status)

	uc.settle(ctx, info)
	return nil
}

// settle routes a charge outcome through the same handlers the webhook
// uses. A non-terminal result gets one delayed re-query, then it is left
// to the webhook and the stale payment sweep.
func (uc *ProcessExpiredUseCase) settle(ctx context.Context, info *apppayment.ChargeInfo) {
	switch {
	case info.Status == apppayment.ChargeStatusSucceeded && info.Paid:
		if err := uc.succeeded.Execute(ctx, payusecases.HandlePaymentSucceededCommand{ProviderID: info.ProviderID}); err != nil {
			uc.logger.Errorw("failed to settle successful renewal", "provider_id", info.ProviderID, "error", err)
		}
	case info.Status == apppayment.ChargeStatusCanceled:
		if err := uc.canceled.Execute(ctx, payusecases.HandlePaymentCanceledCommand{
			ProviderID: info.ProviderID,
			Reason:     info.CancellationReason,
		}); err != nil {
			uc.logger.Errorw("failed to settle declined renewal", "provider_id", info.ProviderID, "error", err)
		}
	default:
		providerID := info.ProviderID
		goroutine.SafeGo(uc.logger, "renewal-recheck", func() {
			time.Sleep(renewalRecheckDelay)
			recheckCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			late, err := uc.gateway.GetCharge(recheckCtx, providerID)
			if err != nil {
				uc.logger.Warnw("renewal recheck failed", "provider_id", providerID, "error", err)
				return
			}
			if late.Status == apppayment.ChargeStatusPending {
				return
			}
			uc.settle(recheckCtx, late)
		})
	}
}

// enforceExpiry removes a non-renewable expired user from the channel,
// once. The persisted flag makes the notice survive restarts.
func (uc *ProcessExpiredUseCase) enforceExpiry(ctx context.Context, sub *subscription.Subscription, now time.Time) error {
	if sub.ExpiredNotified() {
		return nil
	}

	uc.revokeLinks(ctx, sub.UserID(), now)

	if err := uc.membership.BanChatMember(ctx, sub.UserID()); err != nil {
		uc.logger.Errorw("failed to remove expired user", "user_id", sub.UserID(), "error", err)
	}
	if err := uc.notifier.NotifyExpired(ctx, sub.UserID(), sub.ExpiresAt()); err != nil {
		uc.logger.Warnw("failed to notify about expiry", "user_id", sub.UserID(), "error", err)
	}

	sub.MarkExpiredNotified(now)
	if err := uc.subRepo.Upsert(ctx, sub); err != nil {
		return fmt.Errorf("failed to persist subscription: %w", err)
	}

	uc.logger.Infow("expired subscription enforced",
		"user_id", sub.UserID(),
		"expired_at", sub.ExpiresAt())

	return nil
}

func (uc *ProcessExpiredUseCase) revokeLinks(ctx context.Context, userID int64, now time.Time) {
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
