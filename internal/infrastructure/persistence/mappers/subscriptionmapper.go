package mappers

import (
	"github.com/clubgate/clubgate/internal/domain/subscription"
	"github.com/clubgate/clubgate/internal/infrastructure/persistence/models"
)

func SubscriptionToModel(s *subscription.Subscription) *models.SubscriptionModel {
	return &models.SubscriptionModel{
		UserID:               s.UserID(),
		StartsAt:             s.StartsAt(),
		ExpiresAt:            s.ExpiresAt(),
		AutoRenewalEnabled:   s.AutoRenewalEnabled(),
		SavedInstrumentRef:   s.SavedInstrumentRef(),
		AutoRenewalAttempts:  s.AutoRenewalAttempts(),
		LastRenewalAttemptAt: s.LastRenewalAttemptAt(),
		ExpiredNotified:      s.ExpiredNotified(),
		CreatedAt:            s.CreatedAt(),
		UpdatedAt:            s.UpdatedAt(),
	}
}

func SubscriptionToDomain(model *models.SubscriptionModel) (*subscription.Subscription, error) {
	return subscription.ReconstructSubscription(subscription.SubscriptionReconstructParams{
		UserID:               model.UserID,
		StartsAt:             model.StartsAt,
		ExpiresAt:            model.ExpiresAt,
		AutoRenewalEnabled:   model.AutoRenewalEnabled,
		SavedInstrumentRef:   model.SavedInstrumentRef,
		AutoRenewalAttempts:  model.AutoRenewalAttempts,
		LastRenewalAttemptAt: model.LastRenewalAttemptAt,
		ExpiredNotified:      model.ExpiredNotified,
		CreatedAt:            model.CreatedAt,
		UpdatedAt:            model.UpdatedAt,
	})
}
