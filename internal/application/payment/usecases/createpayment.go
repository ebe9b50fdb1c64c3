package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/clubgate/clubgate/internal/application/billing"
	apppayment "github.com/clubgate/clubgate/internal/application/payment"
	"github.com/clubgate/clubgate/internal/domain/payment"
	vo "github.com/clubgate/clubgate/internal/domain/payment/valueobjects"
	"github.com/clubgate/clubgate/internal/domain/user"
	"github.com/clubgate/clubgate/internal/shared/biztime"
	"github.com/clubgate/clubgate/internal/shared/logger"
)

// metadata keys stamped on a payment at creation. The plan is captured at
// charge time so a promo ending mid-flight cannot change what the user
// already agreed to pay for.
const (
	metaDurationDays = "duration_days"
	metaPromotional  = "promotional"
)

type CreatePaymentCommand struct {
	UserID         int64
	Handle         string
	SaveInstrument bool
}

type CreatePaymentResult struct {
	ProviderID      string
	ConfirmationURL string
	AmountKopecks   int64
	Currency        string
	LinkTTL         time.Duration
}

type CreatePaymentUseCase struct {
	userRepo    user.UserRepository
	paymentRepo payment.Repository
	pricing     *billing.PricingService
	gateway     apppayment.Gateway
	logger      logger.Interface

	receiptEmail string
	linkTTL      time.Duration
}

func NewCreatePaymentUseCase(
	userRepo user.UserRepository,
	paymentRepo payment.Repository,
	pricing *billing.PricingService,
	gateway apppayment.Gateway,
	logger logger.Interface,
	receiptEmail string,
	linkTTL time.Duration,
) *CreatePaymentUseCase {
	return &CreatePaymentUseCase{
		userRepo:     userRepo,
		paymentRepo:  paymentRepo,
		pricing:      pricing,
		gateway:      gateway,
		logger:       logger,
		receiptEmail: receiptEmail,
		linkTTL:      linkTTL,
	}
}

func (uc *CreatePaymentUseCase) Execute(ctx context.Context, cmd CreatePaymentCommand) (*CreatePaymentResult, error) {
	now := biztime.NowUTC()

	u, err := user.NewUser(cmd.UserID, cmd.Handle, now)
	if err != nil {
		return nil, fmt.Errorf("invalid user: %w", err)
	}
	if err := uc.userRepo.Upsert(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	plan, err := uc.pricing.CurrentPlan(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve plan: %w", err)
	}

	p, err := payment.NewPayment(cmd.UserID, vo.NewMoney(plan.PriceKopecks, plan.Currency), vo.PaymentPurposeCheckout, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}
	p.Metadata()[metaDurationDays] = int(plan.Duration.Hours() / 24)
	p.Metadata()[metaPromotional] = plan.Promotional

	info, err := uc.gateway.CreateCheckoutCharge(ctx, apppayment.ChargeParams{
		UserID:         cmd.UserID,
		AmountKopecks:  plan.PriceKopecks,
		Currency:       plan.Currency,
		Description:    fmt.Sprintf("Channel subscription, %d days", int(plan.Duration.Hours()/24)),
		SaveInstrument: cmd.SaveInstrument,
		ReceiptEmail:   uc.receiptEmail,
	})
	if err != nil {
		uc.logger.Errorw("failed to create checkout charge", "user_id", cmd.UserID, "error", err)
		return nil, fmt.Errorf("failed to create checkout charge: %w", err)
	}

	if err := p.AttachProviderInfo(info.ProviderID, info.ConfirmationURL, now); err != nil {
		return nil, fmt.Errorf("failed to attach provider info: %w", err)
	}

	if err := uc.paymentRepo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to persist payment: %w", err)
	}

	uc.logger.Infow("checkout payment created",
		"user_id", cmd.UserID,
		"provider_id", info.ProviderID,
		"amount", plan.PriceKopecks,
		"promotional", plan.Promotional)

	return &CreatePaymentResult{
		ProviderID:      info.ProviderID,
		ConfirmationURL: info.ConfirmationURL,
		AmountKopecks:   plan.PriceKopecks,
		Currency:        plan.Currency,
		LinkTTL:         uc.linkTTL,
	}, nil
}
