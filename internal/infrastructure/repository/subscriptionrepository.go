package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/clubgate/clubgate/internal/domain/subscription"
	"github.com/clubgate/clubgate/internal/infrastructure/persistence/mappers"
	"github.com/clubgate/clubgate/internal/infrastructure/persistence/models"
	"github.com/clubgate/clubgate/internal/shared/db"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Upsert(ctx context.Context, sub *subscription.Subscription) error {
	model := mappers.SubscriptionToModel(sub)

	err := db.GetTxFromContext(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"starts_at",
				"expires_at",
				"auto_renewal_enabled",
				"saved_instrument_ref",
				"auto_renewal_attempts",
				"last_renewal_attempt_at",
				"expired_notified",
				"updated_at",
			}),
		}).
		Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to upsert subscription: %w", err)
	}

	return nil
}

func (r *SubscriptionRepository) GetByUserID(ctx context.Context, userID int64) (*subscription.Subscription, error) {
	var model models.SubscriptionModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ?", userID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, subscription.ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	return mappers.SubscriptionToDomain(&model)
}

func (r *SubscriptionRepository) FindExpired(ctx context.Context, now time.Time, limit int) ([]*subscription.Subscription, error) {
	var list []models.SubscriptionModel

	query := db.GetTxFromContext(ctx, r.db).
		Where("expires_at <= ?", now).
		Order("expires_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to find expired subscriptions: %w", err)
	}

	return r.toDomainList(list)
}

func (r *SubscriptionRepository) FindExpiringBetween(ctx context.Context, from, to time.Time) ([]*subscription.Subscription, error) {
	var list []models.SubscriptionModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("expires_at >= ? AND expires_at < ?", from, to).
		Order("expires_at ASC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to find expiring subscriptions: %w", err)
	}

	return r.toDomainList(list)
}

func (r *SubscriptionRepository) Delete(ctx context.Context, userID int64) error {
	if err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ?", userID).
		Delete(&models.SubscriptionModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}
	return nil
}

func (r *SubscriptionRepository) toDomainList(list []models.SubscriptionModel) ([]*subscription.Subscription, error) {
	subs := make([]*subscription.Subscription, 0, len(list))
	for i := range list {
		sub, err := mappers.SubscriptionToDomain(&list[i])
		if err != nil {
			return nil, fmt.Errorf("failed to map subscription for user %d: %w", list[i].UserID, err)
		}
		subs = append(subs, sub)
	}
	return subs, nil
}
