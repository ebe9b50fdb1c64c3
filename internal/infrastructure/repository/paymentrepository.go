package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/clubgate/clubgate/internal/domain/payment"
	vo "github.com/clubgate/clubgate/internal/domain/payment/valueobjects"
	"github.com/clubgate/clubgate/internal/infrastructure/persistence/mappers"
	"github.com/clubgate/clubgate/internal/infrastructure/persistence/models"
	"github.com/clubgate/clubgate/internal/shared/db"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	model := mappers.PaymentToModel(p)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}

	// Write back the auto-generated ID to the domain object
	p.SetID(model.ID)

	return nil
}

func (r *PaymentRepository) Update(ctx context.Context, p *payment.Payment) error {
	model := mappers.PaymentToModel(p)

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.PaymentModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"provider_id":      model.ProviderID,
			"status":           model.Status,
			"confirmation_url": model.ConfirmationURL,
			"instrument_ref":   model.InstrumentRef,
			"paid_at":          model.PaidAt,
			"canceled_at":      model.CanceledAt,
			"metadata":         model.Metadata,
			"updated_at":       model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update payment: %w", result.Error)
	}

	return nil
}

func (r *PaymentRepository) GetByProviderID(ctx context.Context, providerID string) (*payment.Payment, error) {
	var model models.PaymentModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("provider_id = ?", providerID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payment.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	return mappers.PaymentToDomain(&model)
}

func (r *PaymentRepository) FindStalePending(ctx context.Context, cutoff time.Time, limit int) ([]*payment.Payment, error) {
	var list []models.PaymentModel

	query := db.GetTxFromContext(ctx, r.db).
		Where("status = ? AND created_at <= ?", vo.PaymentStatusPending.String(), cutoff).
		Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to find stale pending payments: %w", err)
	}

	payments := make([]*payment.Payment, 0, len(list))
	for i := range list {
		p, err := mappers.PaymentToDomain(&list[i])
		if err != nil {
			return nil, fmt.Errorf("failed to map payment %d: %w", list[i].ID, err)
		}
		payments = append(payments, p)
	}
	return payments, nil
}
