package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clubgate/clubgate/internal/domain/subscription"
	"github.com/clubgate/clubgate/internal/shared/biztime"
	"github.com/clubgate/clubgate/internal/shared/logger"
)

type GetStatusResult struct {
	Status             subscription.Status
	ExpiresAt          *time.Time
	AutoRenewalEnabled bool
	RenewalAttempts    int
}

// GetStatusUseCase reports the derived subscription state for one user.
type GetStatusUseCase struct {
	subRepo     subscription.Repository
	logger      logger.Interface
	maxAttempts int
}

func NewGetStatusUseCase(subRepo subscription.Repository, logger logger.Interface, maxAttempts int) *GetStatusUseCase {
	if maxAttempts <= 0 {
		maxAttempts = subscription.DefaultMaxRenewalAttempts
	}
	return &GetStatusUseCase{
		subRepo:     subRepo,
		logger:      logger,
		maxAttempts: maxAttempts,
	}
}

func (uc *GetStatusUseCase) Execute(ctx context.Context, userID int64) (*GetStatusResult, error) {
	now := biztime.NowUTC()

	sub, err := uc.subRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, subscription.ErrSubscriptionNotFound) {
			return &GetStatusResult{Status: subscription.StatusAt(nil, now, uc.maxAttempts)}, nil
		}
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}

	expiresAt := sub.ExpiresAt()
	return &GetStatusResult{
		Status:             subscription.StatusAt(sub, now, uc.maxAttempts),
		ExpiresAt:          &expiresAt,
		AutoRenewalEnabled: sub.AutoRenewalEnabled(),
		RenewalAttempts:    sub.AutoRenewalAttempts(),
	}, nil
}
