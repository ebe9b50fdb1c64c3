package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clubgate/clubgate/internal/domain/promo"
	sharedConfig "github.com/clubgate/clubgate/internal/shared/config"
	"github.com/clubgate/clubgate/internal/shared/logger"
)

// PricingService resolves the plan in force for every new charge. The
// promotional window lives in the database so a restart or a second
// instance sees the same cutoff; the configured end date only seeds the
// very first row.
type PricingService struct {
	windowRepo promo.Repository
	policy     *promo.Policy
	logger     logger.Interface

	initialEndsAt  time.Time
	windowDuration time.Duration
}

func NewPricingService(windowRepo promo.Repository, cfg sharedConfig.BillingConfig, log logger.Interface) (*PricingService, error) {
	standard := promo.Plan{
		PriceKopecks: cfg.StandardPrice,
		Currency:     cfg.Currency,
		Duration:     time.Duration(cfg.StandardDurationDays) * 24 * time.Hour,
	}
	promoPlan := promo.Plan{
		PriceKopecks: cfg.PromoPrice,
		Currency:     cfg.Currency,
		Duration:     time.Duration(cfg.PromoDurationDays) * 24 * time.Hour,
		Promotional:  true,
	}

	var initialEndsAt time.Time
	if cfg.PromoEndsAt != "" {
		t, err := time.Parse(time.RFC3339, cfg.PromoEndsAt)
		if err != nil {
			return nil, fmt.Errorf("invalid promo_ends_at: %w", err)
		}
		initialEndsAt = t.UTC()
	}

	return &PricingService{
		windowRepo:     windowRepo,
		policy:         promo.NewPolicy(standard, promoPlan),
		logger:         log,
		initialEndsAt:  initialEndsAt,
		windowDuration: time.Duration(cfg.PromoWindowDays) * 24 * time.Hour,
	}, nil
}

// StandardPlan returns the non-promotional plan. Renewal charges always
// use it, whatever the promo window says.
func (s *PricingService) StandardPlan() promo.Plan {
	return s.policy.Standard()
}

// CurrentPlan returns the plan every charge at this instant must use.
func (s *PricingService) CurrentPlan(ctx context.Context, now time.Time) (promo.Plan, error) {
	w, err := s.loadOrSeedWindow(ctx, now)
	if err != nil {
		return promo.Plan{}, err
	}
	return s.policy.PlanAt(w, now), nil
}

// ResetPromo reopens the promotional window for the configured duration
// starting now.
func (s *PricingService) ResetPromo(ctx context.Context, now time.Time) (*promo.Window, error) {
	w, err := s.loadOrSeedWindow(ctx, now)
	if err != nil {
		return nil, err
	}
	if w == nil {
		w, err = promo.NewWindow(now, now)
		if err != nil {
			return nil, err
		}
	}

	if err := w.ResetFrom(now, s.windowDuration); err != nil {
		return nil, err
	}
	if err := s.windowRepo.Save(ctx, w); err != nil {
		return nil, fmt.Errorf("failed to save promo window: %w", err)
	}

	s.logger.Infow("promo window reset", "ends_at", w.EndsAt())
	return w, nil
}

// loadOrSeedWindow returns the stored window, seeding it from config on
// first use. Returns nil when no promotion is configured.
func (s *PricingService) loadOrSeedWindow(ctx context.Context, now time.Time) (*promo.Window, error) {
	w, err := s.windowRepo.Get(ctx)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, promo.ErrWindowNotFound) {
		return nil, fmt.Errorf("failed to load promo window: %w", err)
	}

	if s.initialEndsAt.IsZero() {
		return nil, nil
	}

	w, err = promo.NewWindow(s.initialEndsAt, now)
	if err != nil {
		return nil, err
	}
	if err := s.windowRepo.Save(ctx, w); err != nil {
		return nil, fmt.Errorf("failed to seed promo window: %w", err)
	}

	s.logger.Infow("promo window seeded from config", "ends_at", w.EndsAt())
	return w, nil
}
