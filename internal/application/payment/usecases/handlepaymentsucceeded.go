package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clubgate/clubgate/internal/application/billing"
	apppayment "github.com/clubgate/clubgate/internal/application/payment"
	appsub "github.com/clubgate/clubgate/internal/application/subscription"
	"github.com/clubgate/clubgate/internal/domain/event"
	"github.com/clubgate/clubgate/internal/domain/payment"
	"github.com/clubgate/clubgate/internal/shared/biztime"
	"github.com/clubgate/clubgate/internal/shared/logger"
)

// Webhook event types mirrored in the idempotency ledger.
const (
	eventPaymentSucceeded = "payment.succeeded"
	eventPaymentCanceled  = "payment.canceled"
	eventRefundSucceeded  = "refund.succeeded"
)

type HandlePaymentSucceededCommand struct {
	ProviderID string
}

// HandlePaymentSucceededUseCase grants access after a provider-confirmed
// successful charge. The webhook body is treated as a hint only: the charge
// is re-read from the provider before anything is granted.
type HandlePaymentSucceededUseCase struct {
	eventRepo   event.Repository
	paymentRepo payment.Repository
	gateway     apppayment.Gateway
	granter     *appsub.AccessGranter
	pricing     *billing.PricingService
	logger      logger.Interface
}

func NewHandlePaymentSucceededUseCase(
	eventRepo event.Repository,
	paymentRepo payment.Repository,
	gateway apppayment.Gateway,
	granter *appsub.AccessGranter,
	pricing *billing.PricingService,
	logger logger.Interface,
) *HandlePaymentSucceededUseCase {
	return &HandlePaymentSucceededUseCase{
		eventRepo:   eventRepo,
		paymentRepo: paymentRepo,
		gateway:     gateway,
		granter:     granter,
		pricing:     pricing,
		logger:      logger,
	}
}

func (uc *HandlePaymentSucceededUseCase) Execute(ctx context.Context, cmd HandlePaymentSucceededCommand) error {
	now := biztime.NowUTC()
	ledgerID := event.ComposeLedgerID(eventPaymentSucceeded, cmd.ProviderID)

	seen, err := uc.eventRepo.Has(ctx, ledgerID)
	if err != nil {
		return fmt.Errorf("failed to check ledger: %w", err)
	}
	if seen {
		uc.logger.Debugw("duplicate payment.succeeded delivery", "provider_id", cmd.ProviderID)
		return nil
	}

	info, err := uc.gateway.GetCharge(ctx, cmd.ProviderID)
	if err != nil {
		return fmt.Errorf("failed to verify charge: %w", err)
	}
	if info.Status != apppayment.ChargeStatusSucceeded || !info.Paid || info.AmountKopecks <= 0 {
		uc.logger.Warnw("provider does not confirm a positive paid charge, ignoring notification",
			"provider_id", cmd.ProviderID,
			"status", info.Status,
			"amount_kopecks", info.AmountKopecks)
		return nil
	}

	p, err := uc.paymentRepo.GetByProviderID(ctx, cmd.ProviderID)
	if err != nil {
		if errors.Is(err, payment.ErrPaymentNotFound) {
			uc.logger.Warnw("notification for unknown payment, ignoring", "provider_id", cmd.ProviderID)
			return nil
		}
		return fmt.Errorf("failed to load payment: %w", err)
	}

	if p.Status().IsSucceeded() {
		uc.recordLedger(ctx, now, cmd.ProviderID)
		return nil
	}

	if err := p.MarkAsSucceeded(now); err != nil {
		uc.logger.Warnw("payment cannot transition to succeeded, ignoring",
			"provider_id", cmd.ProviderID,
			"status", p.Status())
		uc.recordLedger(ctx, now, cmd.ProviderID)
		return nil
	}

	var instrument *appsub.InstrumentInfo
	if info.InstrumentSaved && info.InstrumentRef != "" {
		p.SetInstrumentRef(info.InstrumentRef, now)
		instrument = &appsub.InstrumentInfo{Ref: info.InstrumentRef}
	}

	if err := uc.paymentRepo.Update(ctx, p); err != nil {
		return fmt.Errorf("failed to persist payment: %w", err)
	}

	duration, err := uc.paidDuration(ctx, p, now)
	if err != nil {
		return err
	}

	expiresAt, err := uc.granter.Grant(ctx, p.UserID(), duration, instrument, now)
	if err != nil {
		return fmt.Errorf("failed to grant access: %w", err)
	}

	uc.recordLedger(ctx, now, cmd.ProviderID)

	uc.logger.Infow("payment succeeded, access granted",
		"user_id", p.UserID(),
		"provider_id", cmd.ProviderID,
		"purpose", p.Purpose(),
		"expires_at", expiresAt,
		"auto_renewal", instrument != nil)

	return nil
}

// paidDuration reads the access duration captured when the charge was
// created, falling back to the current plan for records without it.
func (uc *HandlePaymentSucceededUseCase) paidDuration(ctx context.Context, p *payment.Payment, now time.Time) (time.Duration, error) {
	if days, ok := metadataDays(p.Metadata()[metaDurationDays]); ok {
		return time.Duration(days) * 24 * time.Hour, nil
	}

	plan, err := uc.pricing.CurrentPlan(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve plan: %w", err)
	}
	return plan.Duration, nil
}

// recordLedger marks the event processed. A duplicate entry means a
// concurrent delivery won the race, which is fine.
func (uc *HandlePaymentSucceededUseCase) recordLedger(ctx context.Context, now time.Time, providerID string) {
	e, err := event.NewProcessedEvent(eventPaymentSucceeded, providerID, now)
	if err != nil {
		return
	}
	if err := uc.eventRepo.Record(ctx, e); err != nil && !errors.Is(err, event.ErrEventAlreadyProcessed) {
		uc.logger.Warnw("failed to record processed event", "provider_id", providerID, "error", err)
	}
}

// metadataDays tolerates both the in-process int and the JSON-decoded
// float64 shape of the stored value.
func metadataDays(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, n > 0
	case float64:
		return int(n), n > 0
	default:
		return 0, false
	}
}
